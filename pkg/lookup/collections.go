package lookup

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aretw0/scout/pkg/collection"
	"github.com/aretw0/scout/pkg/domain"
	"github.com/aretw0/scout/pkg/keywords"
)

// Bright Data discovery parameters.
var (
	postsDiscovery = map[string]string{"type": "discover_new", "discover_by": "company_url"}
	jobsDiscovery  = map[string]string{"type": "discover_new", "discover_by": "keyword"}
)

// InitiatedResult is returned by the initiate_* tools.
type InitiatedResult struct {
	SnapshotID string           `json:"snapshot_id"`
	Status     domain.JobStatus `json:"status"`
	Message    string           `json:"message"`
	Timestamp  string           `json:"timestamp"`
}

// PendingResult is returned by snapshot checks while the collection runs.
type PendingResult struct {
	Status     domain.JobStatus `json:"status"`
	SnapshotID string           `json:"snapshot_id"`
	Attempts   int              `json:"attempts,omitempty"`
	Message    string           `json:"message"`
	Timestamp  string           `json:"timestamp"`
}

// SnapshotArgs identify a collection.
type SnapshotArgs struct {
	SnapshotID string `mapstructure:"snapshot_id" validate:"required"`
}

// CompanyURLsArgs are the arguments of the companies collection tools.
type CompanyURLsArgs struct {
	URLs []string `mapstructure:"urls" validate:"required,min=1,dive,url"`
}

// CompanyURLArgs are the arguments of initiate_company_posts_collection.
type CompanyURLArgs struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// JobSearchArgs are the arguments of initiate_company_job_postings_collection.
type JobSearchArgs struct {
	Location  string `mapstructure:"location" validate:"required"`
	Country   string `mapstructure:"country" validate:"required"`
	TimeRange string `mapstructure:"time_range" validate:"required"`
	Company   string `mapstructure:"company" validate:"required"`
}

// CompaniesDataResult holds collected company profiles.
type CompaniesDataResult struct {
	Status     domain.JobStatus `json:"status"`
	SnapshotID string           `json:"snapshot_id"`
	Companies  []domain.Company `json:"companies"`
	TotalCount int              `json:"totalCount"`
	Errors     []string         `json:"errors,omitempty"`
	Timestamp  string           `json:"timestamp"`
}

// CompanyPostsResult holds collected posts grouped by company.
type CompanyPostsResult struct {
	Status     domain.JobStatus      `json:"status"`
	SnapshotID string                `json:"snapshot_id"`
	Companies  []domain.CompanyPosts `json:"companies"`
	TotalPosts int                   `json:"totalPosts"`
	Errors     []string              `json:"errors,omitempty"`
	Timestamp  string                `json:"timestamp"`
}

// JobPostingsDataResult holds collected technical job postings.
type JobPostingsDataResult struct {
	Status              domain.JobStatus    `json:"status"`
	SnapshotID          string              `json:"snapshot_id"`
	FilteredJobPostings []domain.JobPosting `json:"filteredJobPostings"`
	TotalCount          int                 `json:"totalCount"`
	ScannedCount        int                 `json:"scannedCount"`
	Errors              []string            `json:"errors,omitempty"`
	Timestamp           string              `json:"timestamp"`
}

// CollectionStatusResult is the locally tracked view of a collection.
type CollectionStatusResult struct {
	domain.CollectionJob
	Timestamp string `json:"timestamp"`
}

// InitiateCompaniesCollection submits a company profile collection.
func (s *Service) InitiateCompaniesCollection(ctx context.Context, args CompanyURLsArgs) (*InitiatedResult, error) {
	return s.initiate(ctx, domain.CollectionRequest{Kind: domain.DatasetCompanies, Inputs: urlInputs(args.URLs)}, "get_companies_data")
}

// CompaniesData checks a company collection and returns the profiles once ready.
func (s *Service) CompaniesData(ctx context.Context, args SnapshotArgs) (any, error) {
	res, err := s.collector.Check(ctx, args.SnapshotID)
	if err != nil {
		return nil, err
	}
	if !res.Ready() {
		return s.pending(res.Job, "get_companies_data"), nil
	}
	return s.companiesResult(res)
}

// CollectCompaniesData submits a company collection and waits for it.
func (s *Service) CollectCompaniesData(ctx context.Context, args CompanyURLsArgs) (*CompaniesDataResult, error) {
	res, err := s.collector.Run(ctx, domain.CollectionRequest{Kind: domain.DatasetCompanies, Inputs: urlInputs(args.URLs)})
	if err != nil {
		return nil, err
	}
	return s.companiesResult(res)
}

// InitiateCompanyPostsCollection submits a posts collection for one company page.
func (s *Service) InitiateCompanyPostsCollection(ctx context.Context, args CompanyURLArgs) (*InitiatedResult, error) {
	return s.initiate(ctx, domain.CollectionRequest{
		Kind:   domain.DatasetPosts,
		Inputs: urlInputs([]string{args.URL}),
		Params: postsDiscovery,
	}, "get_company_posts")
}

// CompanyPosts checks a posts collection and groups the posts by company once ready.
func (s *Service) CompanyPosts(ctx context.Context, args SnapshotArgs) (any, error) {
	res, err := s.collector.Check(ctx, args.SnapshotID)
	if err != nil {
		return nil, err
	}
	if !res.Ready() {
		return s.pending(res.Job, "get_company_posts"), nil
	}
	records, err := collection.DecodeRecords(res.Snapshot)
	if err != nil {
		return nil, err
	}
	records, failures := splitFailures(records)

	var groups []domain.CompanyPosts
	index := make(map[string]int)
	total := 0
	for _, r := range records {
		name := postCompany(r)
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, domain.CompanyPosts{Company: name})
		}
		groups[i].Posts = append(groups[i].Posts, postFromRecord(r))
		total++
	}
	if groups == nil {
		groups = []domain.CompanyPosts{}
	}
	return &CompanyPostsResult{
		Status:     domain.JobReady,
		SnapshotID: res.Job.SnapshotID,
		Companies:  groups,
		TotalPosts: total,
		Errors:     failures,
		Timestamp:  s.timestamp(),
	}, nil
}

// InitiateJobPostingsCollection submits a job search collection.
func (s *Service) InitiateJobPostingsCollection(ctx context.Context, args JobSearchArgs) (*InitiatedResult, error) {
	return s.initiate(ctx, domain.CollectionRequest{
		Kind: domain.DatasetJobs,
		Inputs: []map[string]any{{
			"location":   args.Location,
			"keyword":    "",
			"country":    args.Country,
			"time_range": args.TimeRange,
			"company":    args.Company,
		}},
		Params: jobsDiscovery,
	}, "get_company_job_postings_data")
}

// JobPostingsData checks a job search collection and returns the technical
// postings once ready.
func (s *Service) JobPostingsData(ctx context.Context, args SnapshotArgs) (any, error) {
	res, err := s.collector.Check(ctx, args.SnapshotID)
	if err != nil {
		return nil, err
	}
	if !res.Ready() {
		return s.pending(res.Job, "get_company_job_postings_data"), nil
	}
	records, err := collection.DecodeRecords(res.Snapshot)
	if err != nil {
		return nil, err
	}
	records, failures := splitFailures(records)

	jobs := make([]domain.JobPosting, 0, len(records))
	for _, r := range records {
		jobs = append(jobs, jobFromRecord(r))
	}
	filtered := keywords.Filter(jobs, func(j domain.JobPosting) string { return j.Title })
	return &JobPostingsDataResult{
		Status:              domain.JobReady,
		SnapshotID:          res.Job.SnapshotID,
		FilteredJobPostings: filtered,
		TotalCount:          len(filtered),
		ScannedCount:        len(jobs),
		Errors:              failures,
		Timestamp:           s.timestamp(),
	}, nil
}

// StatusArgs optionally name one collection.
type StatusArgs struct {
	SnapshotID string `mapstructure:"snapshot_id"`
}

// CollectionListResult lists every collection this process has tracked,
// most recently submitted first.
type CollectionListResult struct {
	Collections []domain.CollectionJob `json:"collections"`
	Count       int                    `json:"count"`
	Timestamp   string                 `json:"timestamp"`
}

// CollectionStatus reports what this process knows about a collection
// without contacting the provider. Without a snapshot id it lists them all.
func (s *Service) CollectionStatus(ctx context.Context, args StatusArgs) (any, error) {
	if args.SnapshotID == "" {
		return s.listCollections(ctx)
	}
	job, err := s.collector.Tracker().Get(ctx, args.SnapshotID)
	if errors.Is(err, domain.ErrJobNotFound) {
		return nil, fmt.Errorf("snapshot %s: %w: %w", args.SnapshotID, domain.ErrNotFound, err)
	}
	if err != nil {
		return nil, err
	}
	return &CollectionStatusResult{CollectionJob: job, Timestamp: s.timestamp()}, nil
}

func (s *Service) listCollections(ctx context.Context) (*CollectionListResult, error) {
	jobs, err := s.collector.Tracker().List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].SubmittedAt.After(jobs[j].SubmittedAt)
	})
	if jobs == nil {
		jobs = []domain.CollectionJob{}
	}
	return &CollectionListResult{Collections: jobs, Count: len(jobs), Timestamp: s.timestamp()}, nil
}

func (s *Service) initiate(ctx context.Context, req domain.CollectionRequest, checkTool string) (*InitiatedResult, error) {
	job, err := s.collector.Initiate(ctx, req)
	if err != nil {
		return nil, err
	}
	return &InitiatedResult{
		SnapshotID: job.SnapshotID,
		Status:     job.Status,
		Message:    fmt.Sprintf("Collection started. Call %s with this snapshot_id to fetch the results.", checkTool),
		Timestamp:  s.timestamp(),
	}, nil
}

func (s *Service) pending(job domain.CollectionJob, checkTool string) *PendingResult {
	return &PendingResult{
		Status:     domain.JobPolling,
		SnapshotID: job.SnapshotID,
		Attempts:   job.Attempts,
		Message:    fmt.Sprintf(pendingMessageFormat, checkTool),
		Timestamp:  s.timestamp(),
	}
}

func (s *Service) companiesResult(res *collection.Result) (*CompaniesDataResult, error) {
	records, err := collection.DecodeRecords(res.Snapshot)
	if err != nil {
		return nil, err
	}
	records, failures := splitFailures(records)

	companies := make([]domain.Company, 0, len(records))
	for _, r := range records {
		companies = append(companies, companyFromRecord(r))
	}
	return &CompaniesDataResult{
		Status:     domain.JobReady,
		SnapshotID: res.Job.SnapshotID,
		Companies:  companies,
		TotalCount: len(companies),
		Errors:     failures,
		Timestamp:  s.timestamp(),
	}, nil
}

func urlInputs(urls []string) []map[string]any {
	inputs := make([]map[string]any, 0, len(urls))
	for _, u := range urls {
		inputs = append(inputs, map[string]any{"url": u})
	}
	return inputs
}
