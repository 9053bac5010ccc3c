package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Section names one output bucket and the case-insensitive marker phrases
// whose appearance in an element switches collection to that bucket.
type Section struct {
	Key     string
	Markers []string
}

func matchSection(text string, sections []Section) (string, bool) {
	for _, s := range sections {
		for _, m := range s.Markers {
			if strings.Contains(text, m) {
				return s.Key, true
			}
		}
	}
	return "", false
}

func bulletItems(ul *goquery.Selection) []string {
	var items []string
	ul.Find("li").Each(func(_ int, li *goquery.Selection) {
		items = append(items, "• "+strings.TrimSpace(li.Text()))
	})
	return items
}

// SplitSections cuts a single HTML blob into named plain-text sections.
// Heading-like and block elements are walked in document order; an element
// whose text contains a marker phrase switches the current section and is
// not collected. List elements become bullet lines, everything else its
// trimmed text. Content before the first marker lands in initial.
func SplitSections(html, initial string, sections []Section) map[string]string {
	parts := make(map[string][]string)
	out := make(map[string]string, len(sections)+1)
	out[initial] = ""
	for _, s := range sections {
		out[s.Key] = ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return out
	}

	current := initial
	doc.Find("h1, h2, h3, p, ul").Each(func(_ int, elem *goquery.Selection) {
		text := strings.ToLower(strings.TrimSpace(elem.Text()))
		if text == "" {
			return
		}
		if key, ok := matchSection(text, sections); ok {
			current = key
			return
		}
		if goquery.NodeName(elem) == "ul" {
			parts[current] = append(parts[current], bulletItems(elem)...)
		} else {
			parts[current] = append(parts[current], strings.TrimSpace(elem.Text()))
		}
	})

	for key, lines := range parts {
		out[key] = strings.Join(lines, "\n")
	}
	return out
}

// SplitListSections is the variant for blobs where only lists carry content,
// such as a qualifications block with "Minimum"/"Preferred" lead-ins. Every
// top-level element may switch the section, but only list items are
// collected; a list that itself names a section contributes to it. Items
// seen before any marker are dropped.
func SplitListSections(html string, sections []Section) map[string]string {
	parts := make(map[string][]string)
	out := make(map[string]string, len(sections))
	for _, s := range sections {
		out[s.Key] = ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return out
	}

	current := ""
	doc.Find("body").Children().Each(func(_ int, elem *goquery.Selection) {
		text := strings.ToLower(elem.Text())
		if key, ok := matchSection(text, sections); ok {
			current = key
		}
		if goquery.NodeName(elem) == "ul" && current != "" {
			parts[current] = append(parts[current], bulletItems(elem)...)
		}
	})

	for key, lines := range parts {
		out[key] = strings.Join(lines, "\n")
	}
	return out
}
