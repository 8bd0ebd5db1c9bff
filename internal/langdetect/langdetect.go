// Package langdetect guesses a report's language from the Unicode scripts of
// its text. Indian lab reports are mostly printed in English with occasional
// regional-language sections, so the detector only needs to separate the
// major Indic scripts from Latin.
package langdetect

import "unicode"

// DefaultLanguage is returned for short or ambiguous input.
const DefaultLanguage = "hi-IN"

// scriptLanguages maps Unicode ranges to language codes. Scripts shared by
// several languages (Devanagari, Bengali) resolve to the most common one.
var scriptLanguages = []struct {
	table *unicode.RangeTable
	code  string
}{
	{unicode.Devanagari, "hi-IN"},
	{unicode.Tamil, "ta-IN"},
	{unicode.Telugu, "te-IN"},
	{unicode.Kannada, "kn-IN"},
	{unicode.Malayalam, "ml-IN"},
	{unicode.Gujarati, "gu-IN"},
	{unicode.Bengali, "bn-IN"},
	{unicode.Oriya, "or-IN"},
	{unicode.Gurmukhi, "pa-IN"},
}

// minLetters is the smallest sample considered decisive.
const minLetters = 20

// Detect returns the dominant language of the text as a regioned code.
// Latin-script text resolves to "en-IN"; short or ambiguous samples resolve
// to DefaultLanguage.
func Detect(text string) string {
	counts := make(map[string]int, len(scriptLanguages)+1)
	letters := 0

	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		matched := false
		for _, s := range scriptLanguages {
			if unicode.Is(s.table, r) {
				counts[s.code]++
				matched = true
				break
			}
		}
		if !matched && unicode.Is(unicode.Latin, r) {
			counts["en-IN"]++
		}
	}

	if letters < minLetters {
		return DefaultLanguage
	}

	best := ""
	bestCount := 0
	for code, count := range counts {
		if count > bestCount || (count == bestCount && code < best) {
			best = code
			bestCount = count
		}
	}
	if best == "" || bestCount*2 < letters {
		// No script holds a majority of the letters.
		return DefaultLanguage
	}
	return best
}
