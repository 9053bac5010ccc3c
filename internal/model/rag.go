package model

// RAGJobPosting is the derived, retrieval-friendly shape built exactly once
// per JobRecord. Validate tags mirror the declared structure; a posting that
// fails validation is logged and emitted as-is, never dropped.
type RAGJobPosting struct {
	Metadata        JobMetadata     `json:"metadata" validate:"required"`
	Logistics       JobLogistics    `json:"logistics" validate:"required"`
	RoleDetails     JobRoleDetails  `json:"role_details" validate:"required"`
	Compensation    JobCompensation `json:"compensation"`
	LegalAndCompany JobLegalCompany `json:"legal_and_company"`
}

type JobMetadata struct {
	JobID            string `json:"job_id" validate:"required"`
	JobTitle         string `json:"job_title" validate:"required"`
	OrganizationName string `json:"organization_name" validate:"required"`
	JobDepartment    string `json:"job_department"`
	JobLink          string `json:"job_link" validate:"required,url"`
	PostedDate       string `json:"posted_date" validate:"required"`
}

type JobLogistics struct {
	JobLocations      []string `json:"job_locations"`
	WorkMode          string   `json:"work_mode" validate:"required,oneof=remote hybrid onsite"`
	TravelRequirement string   `json:"travel_requirement"`
	JobType           string   `json:"job_type"`
}

type JobRoleDetails struct {
	JobDescription          string   `json:"job_description"`
	JobResponsibilities     string   `json:"job_responsibilities"`
	MinimumQualifications   string   `json:"minimum_qualifications"`
	PreferredQualifications string   `json:"preferred_qualifications"`
	LanguageRequirements    []string `json:"language_requirements" validate:"min=1"`
	JobDetailsMetadata      string   `json:"job_details_metadata"`
}

type JobCompensation struct {
	SalaryRange         string `json:"salary_range"`
	CompensationDetails string `json:"compensation_details"`
	BenefitsAndPerks    string `json:"benefits_and_perks"`
}

type JobLegalCompany struct {
	AboutCompany               string   `json:"about_company"`
	EqualEmploymentOpportunity string   `json:"equal_employment_opportunity"`
	AdditionalLinks            []string `json:"additional_links"`
}

// ScraperRunBatch is the envelope written once per run.
type ScraperRunBatch struct {
	StartTime   string          `json:"startTime" validate:"required"`
	EndTime     string          `json:"endTime" validate:"required"`
	Status      string          `json:"status" validate:"required"`
	CompanyName string          `json:"companyName" validate:"required"`
	WebsiteName string          `json:"websiteName" validate:"required"`
	Data        []RAGJobPosting `json:"data"`
}

// InterchangePosting is the generic schema.org JobPosting interchange shape.
type InterchangePosting struct {
	Context            string                  `json:"@context"`
	Type               string                  `json:"@type"`
	Title              string                  `json:"title"`
	Description        string                  `json:"description"`
	HiringOrganization InterchangeOrganization `json:"hiringOrganization"`
	JobLocation        InterchangePlace        `json:"jobLocation"`
	DatePosted         string                  `json:"datePosted"`
	EmploymentType     string                  `json:"employmentType"`
	Identifier         InterchangeIdentifier   `json:"identifier"`
	URL                string                  `json:"url"`
}

type InterchangeOrganization struct {
	Type string `json:"@type"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type InterchangePlace struct {
	Type    string             `json:"@type"`
	Address InterchangeAddress `json:"address"`
}

type InterchangeAddress struct {
	Type            string `json:"@type"`
	AddressLocality string `json:"addressLocality"`
}

type InterchangeIdentifier struct {
	Type  string `json:"@type"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// InterchangeBatch is the envelope for interchange-format exports.
type InterchangeBatch struct {
	StartTime   string               `json:"startTime"`
	EndTime     string               `json:"endTime"`
	Status      string               `json:"status"`
	CompanyName string               `json:"companyName"`
	WebsiteName string               `json:"websiteName"`
	Data        []InterchangePosting `json:"data"`
}
