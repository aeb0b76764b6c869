package service

import (
	"fmt"
	"strconv"
	"strings"

	contentdomain "github.com/damoang/angple-published-by/internal/domain"
	"github.com/damoang/angple-published-by/internal/plugin"
)

// 설정 스키마 타입
const (
	SettingTypeString       = "string"
	SettingTypeNumber       = "number"
	SettingTypeBoolean      = "boolean"
	SettingTypePostStatuses = "post_statuses" // 쉼표 구분 게시글 상태 목록
)

// ValidateSetting 스키마 기반 설정값 검증
func ValidateSetting(schema plugin.SettingConfig, value string) error {
	switch schema.Type {
	case SettingTypeNumber:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("setting %s: %q is not a valid number", schema.Key, value)
		}
	case SettingTypeBoolean:
		if value != "true" && value != "false" {
			return fmt.Errorf("setting %s: %q is not a valid boolean (must be \"true\" or \"false\")", schema.Key, value)
		}
	case SettingTypePostStatuses:
		for _, s := range splitList(value) {
			if !contentdomain.IsValidStatus(s) {
				return fmt.Errorf("setting %s: unknown post status %q", schema.Key, s)
			}
		}
	}
	return nil
}

// ConvertSettingValue string 값을 스키마 타입에 맞게 변환
func ConvertSettingValue(schema plugin.SettingConfig, raw string) interface{} {
	switch schema.Type {
	case SettingTypeNumber:
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
		return raw
	case SettingTypeBoolean:
		return raw == "true"
	case SettingTypePostStatuses:
		return splitList(raw)
	default:
		return raw
	}
}

// FormatSettingValue 플러그인 설정값을 저장용 문자열로 변환
func FormatSettingValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []string:
		return strings.Join(t, ",")
	case []interface{}:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, fmt.Sprintf("%v", item))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprintf("%v", v)
	}
}

func splitList(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
