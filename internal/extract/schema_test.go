package extract

import "testing"

func TestSchemaOrg(t *testing.T) {
	html := `<html><head>
		<script type="application/ld+json">{"@type": "WebSite", "name": "Careers"}</script>
		<script type="application/ld+json">{
			"@type": "JobPosting",
			"title": "Staff Engineer",
			"description": "<p>Own the data plane.</p>",
			"industry": "Infrastructure",
			"hiringOrganization": {"@type": "Organization", "name": "Example Corp"},
			"jobLocation": {"@type": "Place", "address": {
				"addressLocality": "Austin", "addressRegion": "TX", "addressCountry": "US"}},
			"baseSalary": {"currency": "USD", "value": {"minValue": 150000, "maxValue": 210000}}
		}</script>
	</head><body></body></html>`

	rec := SchemaOrg(html, "https://careers.example/jobs/42")
	if rec == nil {
		t.Fatal("expected a record, got nil")
	}
	if rec.JobName != "Staff Engineer" {
		t.Errorf("JobName = %q", rec.JobName)
	}
	if rec.JobLink != "https://careers.example/jobs/42" {
		t.Errorf("JobLink = %q", rec.JobLink)
	}
	if rec.JobDescription != "Own the data plane." {
		t.Errorf("JobDescription = %q", rec.JobDescription)
	}
	if rec.JobLocation.Join() != "Austin, TX, US" {
		t.Errorf("JobLocation = %q", rec.JobLocation.Join())
	}
	if rec.AboutCompany != "Example Corp" {
		t.Errorf("AboutCompany = %q", rec.AboutCompany)
	}
	if rec.Salary != "150000 - 210000 USD" {
		t.Errorf("Salary = %q", rec.Salary)
	}
}

func TestSchemaOrgArrayPayload(t *testing.T) {
	html := `<script type="application/ld+json">[
		{"@type": "BreadcrumbList"},
		{"@type": "JobPosting", "title": "SRE", "jobLocation": "Remote, US"}
	]</script>`

	rec := SchemaOrg(html, "https://careers.example/jobs/7")
	if rec == nil {
		t.Fatal("expected a record, got nil")
	}
	if rec.JobName != "SRE" {
		t.Errorf("JobName = %q", rec.JobName)
	}
	if rec.JobLocation.Join() != "Remote, US" {
		t.Errorf("JobLocation = %q", rec.JobLocation.Join())
	}
}

func TestSchemaOrgNoPosting(t *testing.T) {
	html := `<script type="application/ld+json">{"@type": "WebSite"}</script>`
	if rec := SchemaOrg(html, "https://careers.example"); rec != nil {
		t.Errorf("expected nil, got %+v", rec)
	}
}
