package lookup

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aretw0/scout/pkg/adapters/hunter"
	"github.com/aretw0/scout/pkg/adapters/linkedin"
	"github.com/aretw0/scout/pkg/domain"
	"github.com/aretw0/scout/pkg/keywords"
	"github.com/aretw0/scout/pkg/resolver"
)

// JobPostingsArgs are the arguments of get_company_job_postings.
type JobPostingsArgs struct {
	Company   string `mapstructure:"company" validate:"required"`
	Country   string `mapstructure:"country" validate:"required,oneof=Belgium Netherlands"`
	CompanyID string `mapstructure:"companyId" validate:"required"`
}

// JobPostingsResult lists the technical postings of one company.
type JobPostingsResult struct {
	Company             string              `json:"company"`
	Country             string              `json:"country"`
	FilteredJobPostings []domain.JobPosting `json:"filteredJobPostings"`
	TotalCount          int                 `json:"totalCount"`
	ScannedCount        int                 `json:"scannedCount"`
	Timestamp           string              `json:"timestamp"`
}

// CompanyJobPostings walks the company's job pages until an empty page, a
// not-found page or the page limit, and keeps the technical roles.
func (s *Service) CompanyJobPostings(ctx context.Context, args JobPostingsArgs) (*JobPostingsResult, error) {
	geoID, ok := linkedin.GeoID(args.Country)
	if !ok {
		return nil, fmt.Errorf("unsupported country %q: %w", args.Country, domain.ErrInvalidRequest)
	}

	var all []domain.JobPosting
	for page := 1; page <= s.maxPages; page++ {
		jobs, err := s.linkedin.CompanyJobs(ctx, args.CompanyID, geoID, page)
		if errors.Is(err, domain.ErrNotFound) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("job postings page %d: %w", page, err)
		}
		if len(jobs) == 0 {
			break
		}
		all = append(all, jobs...)
	}

	filtered := keywords.Filter(all, func(j domain.JobPosting) string { return j.Title })
	s.logger.Debug("job postings scanned", "company", args.Company, "scanned", len(all), "kept", len(filtered))
	return &JobPostingsResult{
		Company:             args.Company,
		Country:             args.Country,
		FilteredJobPostings: filtered,
		TotalCount:          len(filtered),
		ScannedCount:        len(all),
		Timestamp:           s.timestamp(),
	}, nil
}

// JobDetailsArgs are the arguments of get_job_posting_details.
type JobDetailsArgs struct {
	JobID string `mapstructure:"jobId" validate:"required"`
}

// JobDetailsResult is one job posting.
type JobDetailsResult struct {
	domain.JobPosting
	Timestamp string `json:"timestamp"`
}

// JobPostingDetails fetches one posting. Not-found is a caller error.
func (s *Service) JobPostingDetails(ctx context.Context, args JobDetailsArgs) (*JobDetailsResult, error) {
	key := "job:" + args.JobID
	var job domain.JobPosting
	if !s.cached(ctx, key, &job) {
		fetched, err := s.linkedin.JobDetails(ctx, args.JobID)
		if err != nil {
			return nil, err
		}
		job = *fetched
		s.store(ctx, key, job)
	}
	return &JobDetailsResult{JobPosting: job, Timestamp: s.timestamp()}, nil
}

// CompanyInfoArgs are the arguments of get_company_information.
type CompanyInfoArgs struct {
	CompanyName string `mapstructure:"companyName" validate:"required"`
	LinkedInID  string `mapstructure:"linkedInId"`
}

// CompanyInfoResult is a company profile with its latest updates.
type CompanyInfoResult struct {
	domain.Company
	Timestamp string `json:"timestamp"`
}

// CompanyInformation fetches a company profile. Without linkedInId the
// identifier is guessed from the display name.
func (s *Service) CompanyInformation(ctx context.Context, args CompanyInfoArgs) (*CompanyInfoResult, error) {
	slug := strings.TrimSpace(args.LinkedInID)
	if slug == "" {
		slug = resolver.Resolve(args.CompanyName)
	}
	if slug == "" {
		return nil, fmt.Errorf("cannot derive an identifier from %q: %w", args.CompanyName, domain.ErrInvalidRequest)
	}

	key := "company:" + slug
	var company domain.Company
	if !s.cached(ctx, key, &company) {
		fetched, err := s.linkedin.CompanyDetails(ctx, slug)
		if err != nil {
			return nil, fmt.Errorf("company %q (%s): %w", args.CompanyName, slug, err)
		}
		company = *fetched

		updates, err := s.linkedin.CompanyPosts(ctx, slug, RecentUpdatesLimit)
		if err != nil {
			s.logger.Warn("recent updates unavailable", "company", slug, "error", err)
		}
		if len(updates) > RecentUpdatesLimit {
			updates = updates[:RecentUpdatesLimit]
		}
		company.RecentUpdates = updates
		s.store(ctx, key, company)
	}
	return &CompanyInfoResult{Company: company, Timestamp: s.timestamp()}, nil
}

// WorkEmailArgs are the arguments of get_employee_work_email.
type WorkEmailArgs struct {
	Domain      string `mapstructure:"domain" validate:"required"`
	FirstName   string `mapstructure:"firstName" validate:"required"`
	LastName    string `mapstructure:"lastName" validate:"required"`
	CompanyName string `mapstructure:"companyName" validate:"required"`
}

// WorkEmailResult is either an address or a not-found message.
type WorkEmailResult struct {
	Email     string `json:"email,omitempty"`
	Valid     *bool  `json:"valid,omitempty"`
	Success   bool   `json:"success,omitempty"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp"`
}

// EmployeeWorkEmail looks up a person's work address. A missing address is
// a successful result carrying a message.
func (s *Service) EmployeeWorkEmail(ctx context.Context, args WorkEmailArgs) (*WorkEmailResult, error) {
	res, err := s.emails.FindEmail(ctx, hunter.Person{
		Domain:    normalizeDomain(args.Domain),
		FirstName: args.FirstName,
		LastName:  args.LastName,
		Company:   args.CompanyName,
	})
	if err != nil {
		return nil, err
	}
	if res.Email == "" {
		msg := res.Message
		if msg == "" {
			msg = domain.EmailNotFound
		}
		return &WorkEmailResult{Message: msg, Timestamp: s.timestamp()}, nil
	}
	return &WorkEmailResult{
		Email:     res.Email,
		Valid:     res.Valid,
		Success:   res.Success,
		Timestamp: s.timestamp(),
	}, nil
}

// normalizeDomain reduces "https://www.acme.com/about" to "acme.com".
func normalizeDomain(d string) string {
	d = strings.TrimSpace(strings.ToLower(d))
	if strings.Contains(d, "://") {
		if u, err := url.Parse(d); err == nil && u.Host != "" {
			d = u.Host
		}
	}
	if i := strings.IndexAny(d, "/?#"); i >= 0 {
		d = d[:i]
	}
	return strings.TrimPrefix(d, "www.")
}
