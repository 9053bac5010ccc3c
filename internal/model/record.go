package model

import (
	"encoding/json"
	"strings"
)

// TextOrList holds a field that career sites report either as a single
// comma-separated string or as an explicit list. It marshals back out in
// whichever shape it was built with.
type TextOrList struct {
	Text string
	List []string
}

// Str builds a TextOrList from a plain string value.
func Str(s string) TextOrList {
	return TextOrList{Text: s}
}

// Strs builds a TextOrList from an explicit list.
func Strs(items []string) TextOrList {
	return TextOrList{List: items}
}

// IsList reports whether the value was built from an explicit list.
func (v TextOrList) IsList() bool {
	return v.List != nil
}

// Values returns the individual entries: the list unchanged if one is
// present, otherwise the string split on commas with whitespace trimmed and
// empty parts dropped.
func (v TextOrList) Values() []string {
	if v.List != nil {
		return v.List
	}
	var out []string
	for _, part := range strings.Split(v.Text, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Join returns a single display string regardless of the underlying shape.
func (v TextOrList) Join() string {
	if v.List != nil {
		return strings.Join(v.List, ", ")
	}
	return v.Text
}

func (v TextOrList) MarshalJSON() ([]byte, error) {
	if v.List != nil {
		return json.Marshal(v.List)
	}
	return json.Marshal(v.Text)
}

func (v *TextOrList) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v.Text = s
		v.List = nil
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	v.Text = ""
	v.List = list
	return nil
}

// JobRecord is the canonical, flat representation of one posting. All text
// fields are plain text: markup is cleaned before a record is built, and a
// record is never mutated after its connector returns it.
type JobRecord struct {
	JobLink                 string     `json:"job_link"`
	JobID                   string     `json:"job_id,omitempty"`
	JobName                 string     `json:"job_name"`
	JobLocation             TextOrList `json:"job_location"`
	JobDepartment           string     `json:"job_department"`
	JobDescription          string     `json:"job_description"`
	JobResponsibilities     string     `json:"job_responsibilities"`
	MinimumQualifications   string     `json:"minimum_qualifications"`
	PreferredQualifications string     `json:"preferred_qualifications"`
	AboutCompany            string     `json:"about_company"`
	Salary                  string     `json:"salary"`
	CompensationDetails     string     `json:"compensation_details"`
	EEO                     string     `json:"eeo"`
	AdditionalLinks         TextOrList `json:"additional_links"`
}

// CSVColumns is the fixed column order for tabular exports.
var CSVColumns = []string{
	"job_name", "job_location", "job_department", "job_description",
	"job_responsibilities", "minimum_qualifications", "preferred_qualifications",
	"about_company", "salary", "compensation_details", "eeo",
	"additional_links", "job_link",
}

// CSVRow returns the record's values in CSVColumns order.
func (r JobRecord) CSVRow() []string {
	return []string{
		r.JobName, r.JobLocation.Join(), r.JobDepartment, r.JobDescription,
		r.JobResponsibilities, r.MinimumQualifications, r.PreferredQualifications,
		r.AboutCompany, r.Salary, r.CompensationDetails, r.EEO,
		r.AdditionalLinks.Join(), r.JobLink,
	}
}

// FullText concatenates the free-text fields that the classification
// heuristics run over.
func (r JobRecord) FullText() string {
	return strings.Join([]string{
		r.JobDescription,
		r.JobResponsibilities,
		r.MinimumQualifications,
		r.PreferredQualifications,
	}, " ")
}
