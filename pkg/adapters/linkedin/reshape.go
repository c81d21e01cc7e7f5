package linkedin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/scout/pkg/domain"
)

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(b)
	return nil
}

type rawCompanyRef struct {
	ID            flexString `json:"id"`
	Name          string     `json:"name"`
	UniversalName string     `json:"universalName"`
	URL           string     `json:"url"`
}

type rawJobItem struct {
	ID                flexString    `json:"id"`
	Title             string        `json:"title"`
	URL               string        `json:"url"`
	Location          string        `json:"location"`
	FormattedLocation string        `json:"formattedLocation"`
	Type              string        `json:"type"`
	PostDate          string        `json:"postDate"`
	PostAt            string        `json:"postAt"`
	Company           rawCompanyRef `json:"company"`
}

func (r rawJobItem) normalize() domain.JobPosting {
	return domain.JobPosting{
		ID:             string(r.ID),
		Title:          r.Title,
		Company:        r.Company.Name,
		CompanyID:      string(r.Company.ID),
		Location:       firstNonEmpty(r.Location, r.FormattedLocation),
		URL:            firstNonEmpty(r.URL, jobURL(string(r.ID))),
		PostedAt:       firstNonEmpty(r.PostDate, r.PostAt),
		EmploymentType: r.Type,
	}
}

type rawJobDetails struct {
	ID                       flexString    `json:"id"`
	Title                    string        `json:"title"`
	Description              string        `json:"description"`
	URL                      string        `json:"url"`
	Location                 string        `json:"location"`
	FormattedLocation        string        `json:"formattedLocation"`
	Type                     string        `json:"type"`
	FormattedEmploymentType  string        `json:"formattedEmploymentStatus"`
	FormattedExperienceLevel string        `json:"formattedExperienceLevel"`
	FormattedJobFunctions    []string      `json:"formattedJobFunctions"`
	FormattedIndustries      []string      `json:"formattedIndustries"`
	WorkPlace                string        `json:"workPlace"`
	WorkRemoteAllowed        bool          `json:"workRemoteAllowed"`
	Applies                  int           `json:"applies"`
	ListedAt                 int64         `json:"listedAt"`
	OriginalListedAt         int64         `json:"originalListedAt"`
	PostDate                 string        `json:"postDate"`
	Company                  rawCompanyRef `json:"company"`
	ApplyMethod              struct {
		CompanyApplyURL string `json:"companyApplyUrl"`
		EasyApplyURL    string `json:"easyApplyUrl"`
	} `json:"applyMethod"`
	SalaryInsights struct {
		CompensationBreakdown []struct {
			MinSalary    flexString `json:"minSalary"`
			MaxSalary    flexString `json:"maxSalary"`
			CurrencyCode string     `json:"currencyCode"`
			PayPeriod    string     `json:"payPeriod"`
		} `json:"compensationBreakdown"`
	} `json:"salaryInsights"`
}

func (r rawJobDetails) normalize(requestedID string) domain.JobPosting {
	id := firstNonEmpty(string(r.ID), requestedID)
	job := domain.JobPosting{
		ID:             id,
		Title:          r.Title,
		Company:        r.Company.Name,
		CompanyID:      string(r.Company.ID),
		Location:       firstNonEmpty(r.Location, r.FormattedLocation),
		URL:            firstNonEmpty(r.URL, jobURL(id)),
		ApplyURL:       firstNonEmpty(r.ApplyMethod.CompanyApplyURL, r.ApplyMethod.EasyApplyURL, r.URL),
		Description:    r.Description,
		EmploymentType: firstNonEmpty(r.Type, r.FormattedEmploymentType),
		SeniorityLevel: r.FormattedExperienceLevel,
		JobFunction:    strings.Join(r.FormattedJobFunctions, ", "),
		Industries:     strings.Join(r.FormattedIndustries, ", "),
		WorkplaceType:  r.WorkPlace,
		RemoteAllowed:  r.WorkRemoteAllowed,
		Applicants:     r.Applies,
		PostedAt:       firstNonEmpty(millisToRFC3339(r.ListedAt), millisToRFC3339(r.OriginalListedAt), r.PostDate),
	}
	if b := r.SalaryInsights.CompensationBreakdown; len(b) > 0 && b[0].MinSalary != "" {
		job.Salary = strings.TrimSpace(fmt.Sprintf("%s-%s %s %s", b[0].MinSalary, b[0].MaxSalary, b[0].CurrencyCode, strings.ToLower(b[0].PayPeriod)))
	}
	return job
}

type rawCompany struct {
	ID              flexString `json:"id"`
	Name            string     `json:"name"`
	UniversalName   string     `json:"universalName"`
	LinkedInURL     string     `json:"linkedinUrl"`
	Tagline         string     `json:"tagline"`
	Description     string     `json:"description"`
	Website         string     `json:"website"`
	Industries      []string   `json:"industries"`
	Industry        string     `json:"industry"`
	Specialities    []string   `json:"specialities"`
	StaffCount      int        `json:"staffCount"`
	FollowerCount   int        `json:"followerCount"`
	StaffCountRange struct {
		Start int `json:"start"`
		End   int `json:"end"`
	} `json:"staffCountRange"`
	Headquarter struct {
		City           string `json:"city"`
		GeographicArea string `json:"geographicArea"`
		Country        string `json:"country"`
	} `json:"headquarter"`
	Founded struct {
		Year int `json:"year"`
	} `json:"founded"`
	Images struct {
		Logo string `json:"logo"`
	} `json:"Images"`
	Logo string `json:"logo"`
}

func (r rawCompany) normalize(slug string) domain.Company {
	c := domain.Company{
		ID:            string(r.ID),
		Name:          r.Name,
		LinkedInID:    firstNonEmpty(r.UniversalName, slug),
		LinkedInURL:   firstNonEmpty(r.LinkedInURL, "https://www.linkedin.com/company/"+firstNonEmpty(r.UniversalName, slug)),
		Tagline:       r.Tagline,
		Description:   r.Description,
		Website:       r.Website,
		Industries:    r.Industries,
		Specialties:   r.Specialities,
		EmployeeCount: r.StaffCount,
		FollowerCount: r.FollowerCount,
		Headquarters:  joinNonEmpty(", ", r.Headquarter.City, r.Headquarter.GeographicArea, r.Headquarter.Country),
		Logo:          firstNonEmpty(r.Images.Logo, r.Logo),
	}
	if len(c.Industries) == 0 && r.Industry != "" {
		c.Industries = []string{r.Industry}
	}
	if rg := r.StaffCountRange; rg.Start > 0 {
		if rg.End > 0 {
			c.EmployeeRange = fmt.Sprintf("%d-%d", rg.Start, rg.End)
		} else {
			c.EmployeeRange = fmt.Sprintf("%d+", rg.Start)
		}
	}
	if r.Founded.Year > 0 {
		c.Founded = fmt.Sprintf("%d", r.Founded.Year)
	}
	return c
}

type rawPost struct {
	URN                string `json:"urn"`
	Text               string `json:"text"`
	PostURL            string `json:"postUrl"`
	PostedDate         string `json:"postedDate"`
	PostedAt           string `json:"postedAt"`
	TotalReactionCount int    `json:"totalReactionCount"`
	CommentsCount      int    `json:"commentsCount"`
}

func (r rawPost) normalize() domain.CompanyUpdate {
	return domain.CompanyUpdate{
		ID:        r.URN,
		Text:      r.Text,
		URL:       r.PostURL,
		PostedAt:  firstNonEmpty(r.PostedDate, r.PostedAt),
		Reactions: r.TotalReactionCount,
		Comments:  r.CommentsCount,
	}
}

func jobURL(id string) string {
	if id == "" {
		return ""
	}
	return "https://www.linkedin.com/jobs/view/" + id
}

func millisToRFC3339(ms int64) string {
	if ms <= 0 {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func joinNonEmpty(sep string, vals ...string) string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v != "" {
			out = append(out, v)
		}
	}
	return strings.Join(out, sep)
}
