package service

import (
	"testing"

	"github.com/damoang/angple-published-by/internal/plugin"
	"github.com/stretchr/testify/assert"
)

func TestValidateSetting(t *testing.T) {
	tests := []struct {
		name   string
		schema plugin.SettingConfig
		value  string
		ok     bool
	}{
		{"string accepts anything", plugin.SettingConfig{Key: "url", Type: SettingTypeString}, "/wp-admin", true},
		{"number", plugin.SettingConfig{Key: "n", Type: SettingTypeNumber}, "3.14", true},
		{"number rejects text", plugin.SettingConfig{Key: "n", Type: SettingTypeNumber}, "abc", false},
		{"boolean true", plugin.SettingConfig{Key: "b", Type: SettingTypeBoolean}, "true", true},
		{"boolean rejects yes", plugin.SettingConfig{Key: "b", Type: SettingTypeBoolean}, "yes", false},
		{"boolean rejects 1", plugin.SettingConfig{Key: "b", Type: SettingTypeBoolean}, "1", false},
		{"statuses", plugin.SettingConfig{Key: "s", Type: SettingTypePostStatuses}, "publish, private", true},
		{"statuses empty", plugin.SettingConfig{Key: "s", Type: SettingTypePostStatuses}, "", true},
		{"statuses unknown", plugin.SettingConfig{Key: "s", Type: SettingTypePostStatuses}, "publish,published", false},
		{"unknown type passes", plugin.SettingConfig{Key: "x", Type: "color"}, "#fff", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSetting(tc.schema, tc.value)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestConvertSettingValue(t *testing.T) {
	assert.Equal(t, float64(42), ConvertSettingValue(plugin.SettingConfig{Type: SettingTypeNumber}, "42"))
	assert.Equal(t, true, ConvertSettingValue(plugin.SettingConfig{Type: SettingTypeBoolean}, "true"))
	assert.Equal(t, false, ConvertSettingValue(plugin.SettingConfig{Type: SettingTypeBoolean}, "false"))
	assert.Equal(t, "hello", ConvertSettingValue(plugin.SettingConfig{Type: SettingTypeString}, "hello"))
	assert.Equal(t, []string{"private", "publish"},
		ConvertSettingValue(plugin.SettingConfig{Type: SettingTypePostStatuses}, " private ,publish,"))
	assert.Equal(t, []string{}, ConvertSettingValue(plugin.SettingConfig{Type: SettingTypePostStatuses}, ""))
}

func TestFormatSettingValue(t *testing.T) {
	assert.Equal(t, "private,publish", FormatSettingValue([]string{"private", "publish"}))
	assert.Equal(t, "a,b", FormatSettingValue([]interface{}{"a", "b"}))
	assert.Equal(t, "false", FormatSettingValue(false))
	assert.Equal(t, "", FormatSettingValue(nil))
}
