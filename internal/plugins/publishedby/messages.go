package publishedby

import "github.com/damoang/angple-published-by/pkg/i18n"

// messages 플러그인 텍스트 (원문 키)
var messages = map[i18n.Locale]map[string]string{
	i18n.LocaleEn: {
		"Published By":     "Published By",
		"Published by: %s": "Published by: %s",
	},
	i18n.LocaleKo: {
		"Published By":     "발행자",
		"Published by: %s": "발행자: %s",
	},
	i18n.LocaleJa: {
		"Published By":     "公開者",
		"Published by: %s": "公開者: %s",
	},
}

func newTexts() *i18n.Bundle {
	b := i18n.NewBundle(i18n.LocaleEn)
	b.LoadAll(messages)
	return b
}
