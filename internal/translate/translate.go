package translate

import (
	"strings"
	"time"

	"github.com/techiemmk/job-portal-scrapper/internal/model"
)

// JobID derives a stable posting identifier. An explicit id wins; otherwise
// the trailing path segment of the link is used with any query string cut off.
func JobID(record model.JobRecord) string {
	id := record.JobID
	if id == "" {
		id = record.JobLink
	}
	if idx := strings.LastIndex(id, "/"); idx >= 0 {
		id = id[idx+1:]
	}
	if idx := strings.Index(id, "?"); idx >= 0 {
		id = id[:idx]
	}
	return id
}

// ToRAG builds the retrieval-friendly posting from a canonical record. The
// work-mode, travel and language heuristics run over the concatenated
// free-text fields. now stamps the posted date.
func ToRAG(record model.JobRecord, now time.Time) model.RAGJobPosting {
	fullText := record.FullText()
	return model.RAGJobPosting{
		Metadata: model.JobMetadata{
			JobID:            JobID(record),
			JobTitle:         record.JobName,
			OrganizationName: record.AboutCompany,
			JobDepartment:    record.JobDepartment,
			JobLink:          record.JobLink,
			PostedDate:       now.Format("2006-01-02"),
		},
		Logistics: model.JobLogistics{
			JobLocations:      record.JobLocation.Values(),
			WorkMode:          DetectWorkMode(fullText),
			TravelRequirement: DetectTravel(fullText),
			JobType:           "Full-time",
		},
		RoleDetails: model.JobRoleDetails{
			JobDescription:          record.JobDescription,
			JobResponsibilities:     record.JobResponsibilities,
			MinimumQualifications:   record.MinimumQualifications,
			PreferredQualifications: record.PreferredQualifications,
			LanguageRequirements:    DetectLanguages(fullText),
		},
		Compensation: model.JobCompensation{
			SalaryRange:         record.Salary,
			CompensationDetails: record.CompensationDetails,
		},
		LegalAndCompany: model.JobLegalCompany{
			AboutCompany:               record.AboutCompany,
			EqualEmploymentOpportunity: record.EEO,
			AdditionalLinks:            record.AdditionalLinks.Values(),
		},
	}
}

// ToInterchange builds the generic schema.org JobPosting shape used for
// cross-system exports.
func ToInterchange(record model.JobRecord, baseURL string, now time.Time) model.InterchangePosting {
	org := record.AboutCompany
	if org == "" {
		org = "N/A"
	}
	return model.InterchangePosting{
		Context:     "https://schema.org/",
		Type:        "JobPosting",
		Title:       record.JobName,
		Description: record.JobDescription,
		HiringOrganization: model.InterchangeOrganization{
			Type: "Organization",
			Name: org,
			URL:  baseURL,
		},
		JobLocation: model.InterchangePlace{
			Type: "Place",
			Address: model.InterchangeAddress{
				Type:            "PostalAddress",
				AddressLocality: record.JobLocation.Join(),
			},
		},
		DatePosted:     now.Format("2006-01-02"),
		EmploymentType: "FULL_TIME",
		Identifier: model.InterchangeIdentifier{
			Type:  "PropertyValue",
			Name:  "Job ID",
			Value: trailingSegment(record.JobLink),
		},
		URL: record.JobLink,
	}
}

func trailingSegment(link string) string {
	if idx := strings.LastIndex(link, "/"); idx >= 0 {
		return link[idx+1:]
	}
	return link
}
