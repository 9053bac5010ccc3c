package translate

import (
	"regexp"
	"strings"
)

var travelPercentRegex = regexp.MustCompile(`(?i)(\d+%\s*(travel|traveling))`)

// commonLanguages are the non-English languages the requirement detector
// looks for, in the order they are reported.
var commonLanguages = []string{
	"Spanish", "French", "German", "Chinese", "Mandarin", "Japanese",
	"Korean", "Hindi", "Arabic", "Portuguese", "Italian", "Russian",
}

var languageRegexes = func() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(commonLanguages))
	for i, lang := range commonLanguages {
		res[i] = regexp.MustCompile(`(?i)\b` + lang + `\b`)
	}
	return res
}()

// DetectWorkMode classifies posting text as remote, hybrid or onsite.
// Remote wording downgraded to hybrid when the text also mentions hybrid.
func DetectWorkMode(text string) string {
	if text == "" {
		return "onsite"
	}
	text = strings.ToLower(text)
	if strings.Contains(text, "remote") || strings.Contains(text, "work from home") || strings.Contains(text, "wfh") {
		if strings.Contains(text, "hybrid") {
			return "hybrid"
		}
		return "remote"
	}
	if strings.Contains(text, "hybrid") {
		return "hybrid"
	}
	return "onsite"
}

// DetectTravel reports the travel requirement stated in posting text.
// An explicit percentage ("25% travel") is returned verbatim.
func DetectTravel(text string) string {
	if text == "" {
		return "No travel"
	}
	if match := travelPercentRegex.FindString(text); match != "" {
		return match
	}
	lower := strings.ToLower(text)
	if strings.Contains(lower, "no travel") {
		return "No travel"
	}
	if strings.Contains(lower, "travel required") || strings.Contains(lower, "willingness to travel") {
		return "Travel required"
	}
	return "Not specified"
}

// DetectLanguages lists the languages a posting asks for. English is always
// first; other languages are matched on word boundaries and reported in a
// fixed order without duplicates.
func DetectLanguages(text string) []string {
	languages := []string{"English"}
	if text == "" {
		return languages
	}
	for i, lang := range commonLanguages {
		if languageRegexes[i].MatchString(text) {
			languages = append(languages, lang)
		}
	}
	return languages
}
