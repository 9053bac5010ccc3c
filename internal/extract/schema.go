package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/techiemmk/job-portal-scrapper/internal/model"
)

// SchemaOrg pulls a JobPosting record out of a page's application/ld+json
// scripts. Both a single object and an array payload are handled; the first
// JobPosting wins. Returns nil when the page carries no usable posting.
func SchemaOrg(html, url string) *model.JobRecord {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var record *model.JobRecord
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, script *goquery.Selection) bool {
		var data any
		if err := json.Unmarshal([]byte(script.Text()), &data); err != nil {
			return true
		}
		items, ok := data.([]any)
		if !ok {
			items = []any{data}
		}
		for _, item := range items {
			posting, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if !strings.Contains(fmt.Sprint(posting["@type"]), "JobPosting") {
				continue
			}
			record = mapSchemaPosting(posting, url)
			return false
		}
		return true
	})
	return record
}

func mapSchemaPosting(schema map[string]any, url string) *model.JobRecord {
	return &model.JobRecord{
		JobLink:                 url,
		JobName:                 stringField(schema, "title"),
		JobLocation:             model.Str(schemaLocation(schema["jobLocation"])),
		JobDepartment:           stringField(schema, "industry"),
		JobDescription:          CleanField(stringField(schema, "description")),
		JobResponsibilities:     CleanField(stringField(schema, "responsibilities")),
		MinimumQualifications:   CleanField(stringField(schema, "experienceRequirements")),
		PreferredQualifications: CleanField(stringField(schema, "educationRequirements")),
		AboutCompany:            schemaOrgName(schema["hiringOrganization"]),
		Salary:                  schemaSalary(schema["baseSalary"]),
	}
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func schemaOrgName(v any) string {
	org, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	return stringField(org, "name")
}

// schemaLocation flattens the three shapes jobLocation arrives in: a Place
// object, a list of them, or a plain string.
func schemaLocation(v any) string {
	switch loc := v.(type) {
	case string:
		return loc
	case []any:
		var parts []string
		for _, entry := range loc {
			if place, ok := entry.(map[string]any); ok {
				if addr, ok := place["address"]; ok {
					parts = append(parts, schemaAddress(addr))
					continue
				}
				parts = append(parts, fmt.Sprint(place))
			} else {
				parts = append(parts, fmt.Sprint(entry))
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		return schemaAddress(loc["address"])
	}
	return ""
}

func schemaAddress(v any) string {
	addr, ok := v.(map[string]any)
	if !ok {
		return fmt.Sprint(v)
	}
	var parts []string
	for _, key := range []string{"addressLocality", "addressRegion", "addressCountry"} {
		if p := stringField(addr, key); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// schemaSalary renders baseSalary whether it is a flat value or a
// MonetaryAmount with a min/max QuantitativeValue.
func schemaSalary(v any) string {
	base, ok := v.(map[string]any)
	if !ok {
		return sprintOrEmpty(v)
	}
	value, ok := base["value"].(map[string]any)
	if !ok {
		return sprintOrEmpty(base["value"])
	}
	return strings.TrimSpace(fmt.Sprintf("%s - %s %s",
		sprintOrEmpty(value["minValue"]), sprintOrEmpty(value["maxValue"]),
		sprintOrEmpty(base["currency"])))
}

func sprintOrEmpty(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
