package translate

// shortCodes maps bare ISO codes to the regioned form the vendor expects.
var shortCodes = map[string]string{
	"en": "en-IN",
	"hi": "hi-IN",
	"ta": "ta-IN",
	"te": "te-IN",
	"kn": "kn-IN",
	"ml": "ml-IN",
	"gu": "gu-IN",
	"mr": "mr-IN",
	"bn": "bn-IN",
	"or": "or-IN",
	"pa": "pa-IN",
}

// languageNames holds the human-readable names of supported languages.
var languageNames = map[string]string{
	"hi-IN": "Hindi",
	"en-IN": "English",
	"ta-IN": "Tamil",
	"te-IN": "Telugu",
	"kn-IN": "Kannada",
	"ml-IN": "Malayalam",
	"gu-IN": "Gujarati",
	"mr-IN": "Marathi",
	"bn-IN": "Bengali",
	"or-IN": "Odia",
	"pa-IN": "Punjabi",
}

// NormalizeLanguageCode maps bare codes like "hi" to the regioned "hi-IN"
// form. Codes already carrying a region pass through unchanged.
func NormalizeLanguageCode(code string) string {
	if full, ok := shortCodes[code]; ok {
		return full
	}
	return code
}

// LanguageName returns the display name for a language code, falling back to
// the code itself for unknown languages.
func LanguageName(code string) string {
	if name, ok := languageNames[NormalizeLanguageCode(code)]; ok {
		return name
	}
	return code
}

// Supported reports whether the language is one the pipeline can translate
// and speak.
func Supported(code string) bool {
	_, ok := languageNames[NormalizeLanguageCode(code)]
	return ok
}

// SupportedLanguages returns the supported codes with display names.
func SupportedLanguages() map[string]string {
	out := make(map[string]string, len(languageNames))
	for code, name := range languageNames {
		out[code] = name
	}
	return out
}
