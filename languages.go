package callibella

import "strings"

// LanguageNames maps short language codes to human-readable names for
// LLM prompts and display.
var LanguageNames = map[string]string{
	"en":    "English",
	"en-gb": "British English",
	"fr":    "French",
	"es":    "Spanish",
	"de":    "German",
	"it":    "Italian",
	"pt":    "Portuguese",
	"ja":    "Japanese",
	"ko":    "Korean",
	"zh":    "Mandarin Chinese",
	"nl":    "Dutch",
	"sv":    "Swedish",
	"ru":    "Russian",
	"ar":    "Arabic",
	"hi":    "Hindi",
	"tr":    "Turkish",
	"pl":    "Polish",
	"th":    "Thai",
	"vi":    "Vietnamese",
	"id":    "Indonesian",
	"ms":    "Malay",
	"uk":    "Ukrainian",
	"cs":    "Czech",
	"ro":    "Romanian",
	"el":    "Greek",
	"he":    "Hebrew",
	"da":    "Danish",
	"fi":    "Finnish",
	"no":    "Norwegian",
	"hu":    "Hungarian",
	"mn":    "Mongolian",
	"ka":    "Georgian",
	"sw":    "Swahili",
	"tl":    "Tagalog",
}

var languageAliases = map[string]string{
	"jp": "ja",
	"cn": "zh",
	"iw": "he",
	"nb": "no",
}

// LanguageName returns the human-readable name for a language code.
// Unknown codes pass through unchanged, so a user may type a full language
// name directly.
func LanguageName(code string) string {
	c := NormalizeLanguage(code)
	if name, ok := LanguageNames[c]; ok {
		return name
	}
	return code
}

// NormalizeLanguage lowercases a code and resolves known aliases
// (e.g. "JP" → "ja").
func NormalizeLanguage(code string) string {
	c := strings.ToLower(strings.TrimSpace(code))
	if canonical, ok := languageAliases[c]; ok {
		return canonical
	}
	return c
}

// KnownLanguage reports whether the code maps to a known language.
func KnownLanguage(code string) bool {
	_, ok := LanguageNames[NormalizeLanguage(code)]
	return ok
}
