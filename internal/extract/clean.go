package extract

import (
	"encoding/json"
	"regexp"
	"strings"
)

var tagRegex = regexp.MustCompile(`<[^<]+?>`)

var structureReplacer = strings.NewReplacer(
	"</li>", "\n• ",
	"<ul>", "\n",
	"</ul>", "\n",
	"<br>", "\n",
	"<br/>", "\n",
	"</p>", "\n\n",
)

var entityReplacer = strings.NewReplacer(
	"&quot;", `"`,
	"&#039;", "'",
	"&amp;", "&",
	"&nbsp;", " ",
	"&bull;", "•",
)

// unwrapHTMLField peels career-site JSON wrappers of the form
// {"__html": "<p>...</p>"} down to the inner markup. Non-wrapper input is
// returned unchanged.
func unwrapHTMLField(val string) string {
	if !strings.HasPrefix(strings.TrimSpace(val), "{") {
		return val
	}
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal([]byte(val), &wrapper); err != nil {
		return val
	}
	raw, ok := wrapper["__html"]
	if !ok {
		return val
	}
	var inner string
	if err := json.Unmarshal(raw, &inner); err != nil {
		return val
	}
	return inner
}

// CleanField converts an HTML fragment to plain text while keeping list
// structure readable: list items become bullet lines, paragraphs become
// blank-line breaks. Already-clean text passes through unchanged, so the
// function is safe to apply twice.
func CleanField(val string) string {
	if val == "" {
		return ""
	}
	content := unwrapHTMLField(val)
	content = structureReplacer.Replace(content)
	content = tagRegex.ReplaceAllString(content, "")
	content = entityReplacer.Replace(content)
	return strings.TrimSpace(content)
}
