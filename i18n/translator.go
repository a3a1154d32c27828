package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var messages = map[string]map[string]string{
	"en": {
		"invalid_type":   "invalid type",
		"required":       "required property missing",
		"duplicate_key":  "duplicate key",
		"max_depth":      "nesting too deep",
		"truncated":      "input too large",
		"parse_error":    "parse error",
		"invalid_status": "unknown job status",
		"field_count":    "wrong number of fields",
		"invalid_enum":   "unknown token",
		"invalid_number": "malformed number",
		"invalid_char":   "expected a single character",
	},
	"ja": {
		"invalid_type":   "型が不正です",
		"required":       "必須プロパティが不足しています",
		"duplicate_key":  "キーが重複しています",
		"max_depth":      "ネストが深すぎます",
		"truncated":      "入力が大きすぎます",
		"parse_error":    "解析エラー",
		"invalid_status": "不明なジョブ状態です",
		"field_count":    "フィールド数が不正です",
		"invalid_enum":   "不明なトークンです",
		"invalid_number": "数値が不正です",
		"invalid_char":   "1文字である必要があります",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := messages[t.lang][code]
	if !ok {
		return code
	}
	if exp := data["expected"]; exp != "" {
		if t.lang == "ja" {
			return msg + "（期待: " + exp + "）"
		}
		return msg + " (expected " + exp + ")"
	}
	return msg
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := messages[lang]; !ok {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
