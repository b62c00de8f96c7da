// Package i18n provides localized messages for issue codes.
package i18n

import "sync/atomic"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

var _messages = map[string]map[string]string{
	"en": {
		"invalid_type":   "invalid type",
		"required":       "required property missing",
		"unknown_key":    "unknown key",
		"duplicate_key":  "duplicate key",
		"too_small":      "too small",
		"too_big":        "too big",
		"too_short":      "too short",
		"too_long":       "too long",
		"pattern":        "does not match pattern",
		"invalid_enum":   "value not in enum",
		"invalid_format": "invalid format",
		"parse_error":    "parse error",
		"truncated":      "truncated",
	},
	"ja": {
		"invalid_type":   "型が不正です",
		"required":       "必須プロパティが不足しています",
		"unknown_key":    "未知のキーです",
		"duplicate_key":  "キーが重複しています",
		"too_small":      "小さすぎます",
		"too_big":        "大きすぎます",
		"too_short":      "短すぎます",
		"too_long":       "長すぎます",
		"pattern":        "パターンに一致しません",
		"invalid_enum":   "許可されていない値です",
		"invalid_format": "形式が不正です",
		"parse_error":    "解析エラー",
		"truncated":      "打ち切られました",
	},
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	if msg, ok := _messages[t.lang][code]; ok {
		if exp := data["expected"]; exp != "" {
			return msg + " (expected " + exp + ")"
		}
		return msg
	}
	return code
}

var current atomic.Pointer[Translator]

func init() { SetLanguage("en") }

// SetLanguage switches the built-in Translator language ("en"/"ja").
// Unsupported languages fall back to "en".
func SetLanguage(lang string) {
	if _, ok := _messages[lang]; !ok {
		lang = "en"
	}
	var tr Translator = dictTranslator{lang: lang}
	current.Store(&tr)
}

// SetTranslator replaces the Translator implementation. nil restores the
// English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		SetLanguage("en")
		return
	}
	current.Store(&tr)
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return (*current.Load()).Message(code, data) }
