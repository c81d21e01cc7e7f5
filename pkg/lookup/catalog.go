package lookup

import (
	"context"

	"github.com/aretw0/scout/pkg/tools"
)

// Tool names.
const (
	ToolCompanyJobPostings   = "get_company_job_postings"
	ToolJobPostingDetails    = "get_job_posting_details"
	ToolCompanyInformation   = "get_company_information"
	ToolEmployeeWorkEmail    = "get_employee_work_email"
	ToolInitiateCompanies    = "initiate_companies_data_collection"
	ToolCompaniesData        = "get_companies_data"
	ToolCollectCompanies     = "collect_companies_data"
	ToolInitiateCompanyPosts = "initiate_company_posts_collection"
	ToolCompanyPosts         = "get_company_posts"
	ToolInitiateJobPostings  = "initiate_company_job_postings_collection"
	ToolJobPostingsData      = "get_company_job_postings_data"
	ToolCollectionStatus     = "get_collection_status"
)

var (
	countries  = []string{"Belgium", "Netherlands"}
	timeRanges = []string{"Past 24 hours", "Past week", "Past month", "Any time"}
)

func bind[A, R any](dec *tools.Decoder, fn func(context.Context, A) (R, error)) tools.HandlerFunc {
	return tools.Bind(dec, func(ctx context.Context, args A) (any, error) {
		return fn(ctx, args)
	})
}

func snapshotParam() tools.Param {
	return tools.Param{Name: "snapshot_id", Type: tools.TypeString, Required: true, Description: "Snapshot id returned by the initiate tool"}
}

// Tools returns the registry entries for every operation.
func (s *Service) Tools(dec *tools.Decoder) []tools.Tool {
	return []tools.Tool{
		{
			Name:        ToolCompanyJobPostings,
			Description: "List the technical job postings of a company in Belgium or the Netherlands",
			Params: []tools.Param{
				{Name: "company", Type: tools.TypeString, Required: true, Description: "Company display name"},
				{Name: "country", Type: tools.TypeString, Required: true, Enum: countries, Description: "Country to search"},
				{Name: "companyId", Type: tools.TypeString, Required: true, Description: "LinkedIn numeric company id"},
			},
			ReadOnly: true,
			Handler:  bind(dec, s.CompanyJobPostings),
		},
		{
			Name:        ToolJobPostingDetails,
			Description: "Get the full details of one LinkedIn job posting",
			Params: []tools.Param{
				{Name: "jobId", Type: tools.TypeString, Required: true, Description: "LinkedIn job id"},
			},
			ReadOnly: true,
			Handler:  bind(dec, s.JobPostingDetails),
		},
		{
			Name:        ToolCompanyInformation,
			Description: "Get a company profile and its most recent updates",
			Params: []tools.Param{
				{Name: "companyName", Type: tools.TypeString, Required: true, Description: "Company display name"},
				{Name: "linkedInId", Type: tools.TypeString, Description: "LinkedIn company identifier (slug); guessed from the name when omitted"},
			},
			ReadOnly: true,
			Handler:  bind(dec, s.CompanyInformation),
		},
		{
			Name:        ToolEmployeeWorkEmail,
			Description: "Find the work email address of an employee",
			Params: []tools.Param{
				{Name: "domain", Type: tools.TypeString, Required: true, Description: "Company email domain, e.g. acme.com"},
				{Name: "firstName", Type: tools.TypeString, Required: true, Description: "First name"},
				{Name: "lastName", Type: tools.TypeString, Required: true, Description: "Last name"},
				{Name: "companyName", Type: tools.TypeString, Required: true, Description: "Company name"},
			},
			ReadOnly: true,
			Handler:  bind(dec, s.EmployeeWorkEmail),
		},
		{
			Name:        ToolInitiateCompanies,
			Description: "Start collecting company profiles from LinkedIn company URLs. Returns a snapshot_id for get_companies_data",
			Params: []tools.Param{
				{Name: "urls", Type: tools.TypeArray, Required: true, Description: "LinkedIn company page URLs"},
			},
			Handler: bind(dec, s.InitiateCompaniesCollection),
		},
		{
			Name:        ToolCompaniesData,
			Description: "Fetch the company profiles of a collection, or its status while it is still processing",
			Params:      []tools.Param{snapshotParam()},
			ReadOnly:    true,
			Handler:     bind(dec, s.CompaniesData),
		},
		{
			Name:        ToolCollectCompanies,
			Description: "Collect company profiles from LinkedIn company URLs and wait for the result. May take several minutes",
			Params: []tools.Param{
				{Name: "urls", Type: tools.TypeArray, Required: true, Description: "LinkedIn company page URLs"},
			},
			Handler: bind(dec, s.CollectCompaniesData),
		},
		{
			Name:        ToolInitiateCompanyPosts,
			Description: "Start collecting the posts of a LinkedIn company page. Returns a snapshot_id for get_company_posts",
			Params: []tools.Param{
				{Name: "url", Type: tools.TypeString, Required: true, Description: "LinkedIn company page URL"},
			},
			Handler: bind(dec, s.InitiateCompanyPostsCollection),
		},
		{
			Name:        ToolCompanyPosts,
			Description: "Fetch the posts of a collection grouped by company, or its status while it is still processing",
			Params:      []tools.Param{snapshotParam()},
			ReadOnly:    true,
			Handler:     bind(dec, s.CompanyPosts),
		},
		{
			Name:        ToolInitiateJobPostings,
			Description: "Start a job search collection for a company. Returns a snapshot_id for get_company_job_postings_data",
			Params: []tools.Param{
				{Name: "location", Type: tools.TypeString, Required: true, Description: "City or region"},
				{Name: "country", Type: tools.TypeString, Required: true, Description: "Two letter country code, e.g. BE"},
				{Name: "time_range", Type: tools.TypeString, Required: true, Enum: timeRanges, Description: "Posting age"},
				{Name: "company", Type: tools.TypeString, Required: true, Description: "Company name"},
			},
			Handler: bind(dec, s.InitiateJobPostingsCollection),
		},
		{
			Name:        ToolJobPostingsData,
			Description: "Fetch the technical job postings of a job search collection, or its status while it is still processing",
			Params:      []tools.Param{snapshotParam()},
			ReadOnly:    true,
			Handler:     bind(dec, s.JobPostingsData),
		},
		{
			Name:        ToolCollectionStatus,
			Description: "Show what is known locally about a collection without contacting the provider. Omit snapshot_id to list every collection started by this server",
			Params: []tools.Param{
				{Name: "snapshot_id", Type: tools.TypeString, Description: "Snapshot id returned by an initiate tool"},
			},
			ReadOnly: true,
			Handler:  bind(dec, s.CollectionStatus),
		},
	}
}

// Register adds every operation to reg.
func (s *Service) Register(reg *tools.Registry, dec *tools.Decoder) error {
	for _, t := range s.Tools(dec) {
		if err := reg.Register(t); err != nil {
			return err
		}
	}
	return nil
}
