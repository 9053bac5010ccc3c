package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Links returns every hyperlink target in an HTML fragment, in document
// order with duplicates dropped. Site-relative hrefs (leading "/") are
// resolved against baseURL. JSON-wrapped fragments are unwrapped first.
func Links(val, baseURL string) []string {
	if val == "" {
		return nil
	}
	content := unwrapHTMLField(val)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil
	}
	seen := make(map[string]bool)
	var links []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if href == "" {
			return
		}
		if strings.HasPrefix(href, "/") {
			href = baseURL + href
		}
		if !seen[href] {
			seen[href] = true
			links = append(links, href)
		}
	})
	return links
}
