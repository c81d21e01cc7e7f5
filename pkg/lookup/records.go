package lookup

import (
	"fmt"
	"strings"

	"github.com/aretw0/scout/pkg/collection"
	"github.com/aretw0/scout/pkg/domain"
)

// splitFailures separates per-input error records (include_errors=true)
// from data records.
func splitFailures(records []collection.Record) ([]collection.Record, []string) {
	var ok []collection.Record
	var failures []string
	for _, r := range records {
		msg := r.String("error")
		if msg == "" {
			ok = append(ok, r)
			continue
		}
		if input := inputURL(r); input != "" {
			msg = fmt.Sprintf("%s: %s", input, msg)
		}
		failures = append(failures, msg)
	}
	return ok, failures
}

func inputURL(r collection.Record) string {
	if in, ok := r["input"].(map[string]any); ok {
		if u := collection.Record(in).String("url"); u != "" {
			return u
		}
	}
	return r.String("input_url", "url")
}

func companyFromRecord(r collection.Record) domain.Company {
	return domain.Company{
		ID:            r.String("company_id", "id"),
		Name:          r.String("name", "company_name"),
		LinkedInID:    r.String("id", "company_id"),
		LinkedInURL:   r.String("url", "input_url"),
		Tagline:       r.String("slogan"),
		Description:   r.String("about", "description"),
		Website:       r.String("website", "website_simplified"),
		Industries:    r.Strings("industries"),
		Specialties:   splitList(r.Strings("specialties")),
		EmployeeCount: r.Int("employees_in_linkedin", "employee_count"),
		EmployeeRange: r.String("company_size"),
		FollowerCount: r.Int("followers"),
		Headquarters:  r.String("headquarters"),
		Founded:       r.String("founded"),
		Logo:          r.String("logo", "image"),
	}
}

func postCompany(r collection.Record) string {
	if name := r.String("company_name", "user_id", "account_name"); name != "" {
		return name
	}
	return "unknown"
}

func postFromRecord(r collection.Record) domain.CompanyUpdate {
	return domain.CompanyUpdate{
		ID:        r.String("id", "post_id"),
		Text:      r.String("post_text", "title", "headline"),
		URL:       r.String("url", "use_url"),
		PostedAt:  r.String("date_posted"),
		Reactions: r.Int("num_likes", "num_reactions"),
		Comments:  r.Int("num_comments"),
	}
}

func jobFromRecord(r collection.Record) domain.JobPosting {
	return domain.JobPosting{
		ID:             r.String("job_posting_id", "id"),
		Title:          r.String("job_title", "title"),
		Company:        r.String("company_name"),
		CompanyID:      r.String("company_id"),
		Location:       r.String("job_location", "location"),
		URL:            r.String("url"),
		ApplyURL:       r.String("apply_link"),
		PostedAt:       r.String("job_posted_date", "job_posted_time"),
		Description:    r.String("job_summary", "job_description_formatted"),
		EmploymentType: r.String("job_employment_type"),
		SeniorityLevel: r.String("job_seniority_level"),
		JobFunction:    r.String("job_function"),
		Industries:     r.String("job_industries"),
		Applicants:     r.Int("job_num_applicants"),
		Salary:         r.String("base_salary"),
	}
}

// splitList expands a single comma separated value into its items.
func splitList(items []string) []string {
	if len(items) != 1 || !strings.Contains(items[0], ",") {
		return items
	}
	var out []string
	for _, part := range strings.Split(items[0], ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
