package domain

// JobPosting is a normalized job posting.
// List endpoints fill the summary fields only; details fill the rest.
type JobPosting struct {
	ID             string `json:"jobId"`
	Title          string `json:"title"`
	Company        string `json:"company,omitempty"`
	CompanyID      string `json:"companyId,omitempty"`
	Location       string `json:"location,omitempty"`
	URL            string `json:"url,omitempty"`
	ApplyURL       string `json:"applyUrl,omitempty"`
	PostedAt       string `json:"postedAt,omitempty"`
	Description    string `json:"description,omitempty"`
	EmploymentType string `json:"employmentType,omitempty"`
	SeniorityLevel string `json:"seniorityLevel,omitempty"`
	JobFunction    string `json:"jobFunction,omitempty"`
	Industries     string `json:"industries,omitempty"`
	WorkplaceType  string `json:"workplaceType,omitempty"`
	RemoteAllowed  bool   `json:"remoteAllowed,omitempty"`
	Applicants     int    `json:"applicants,omitempty"`
	Salary         string `json:"salary,omitempty"`
}
