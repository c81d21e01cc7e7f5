package lookup_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/scout/pkg/adapters/hunter"
	"github.com/aretw0/scout/pkg/adapters/memory"
	"github.com/aretw0/scout/pkg/collection"
	"github.com/aretw0/scout/pkg/domain"
	"github.com/aretw0/scout/pkg/lookup"
	"github.com/aretw0/scout/pkg/tools"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeLinkedIn struct {
	mu          sync.Mutex
	pages       [][]domain.JobPosting
	pageErr     map[int]error
	pageCalls   int
	details     map[string]domain.JobPosting
	detailCalls int
	companies   map[string]domain.Company
	companyHits int
	posts       []domain.CompanyUpdate
}

func (f *fakeLinkedIn) CompanyJobs(ctx context.Context, companyID, geoID string, page int) ([]domain.JobPosting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pageCalls++
	if err := f.pageErr[page]; err != nil {
		return nil, err
	}
	if page-1 < len(f.pages) {
		return f.pages[page-1], nil
	}
	return nil, nil
}

func (f *fakeLinkedIn) JobDetails(ctx context.Context, jobID string) (*domain.JobPosting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailCalls++
	job, ok := f.details[jobID]
	if !ok {
		return nil, fmt.Errorf("linkedin: job %s: %w", jobID, domain.ErrNotFound)
	}
	return &job, nil
}

func (f *fakeLinkedIn) CompanyDetails(ctx context.Context, slug string) (*domain.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.companyHits++
	c, ok := f.companies[slug]
	if !ok {
		return nil, fmt.Errorf("linkedin: company %s: %w", slug, domain.ErrNotFound)
	}
	return &c, nil
}

func (f *fakeLinkedIn) CompanyPosts(ctx context.Context, slug string, limit int) ([]domain.CompanyUpdate, error) {
	return f.posts, nil
}

type stubEmails struct{}

func (stubEmails) FindEmail(ctx context.Context, p hunter.Person) (*domain.EmailResult, error) {
	return &domain.EmailResult{Message: domain.EmailNotFound}, nil
}

// scriptedProvider is a collection provider whose progress follows statuses.
type scriptedProvider struct {
	mu       sync.Mutex
	statuses []string
	snapshot string
	requests []domain.CollectionRequest
	polls    int
}

func (p *scriptedProvider) Trigger(ctx context.Context, req domain.CollectionRequest) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, req)
	return "s_test", nil
}

func (p *scriptedProvider) Progress(ctx context.Context, id string) (*domain.Progress, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	idx := p.polls
	if idx >= len(p.statuses) {
		idx = len(p.statuses) - 1
	}
	p.polls++
	return &domain.Progress{Status: p.statuses[idx], Raw: []byte(`{"status":"` + p.statuses[idx] + `"}`)}, nil
}

func (p *scriptedProvider) Snapshot(ctx context.Context, id string) ([]byte, error) {
	return []byte(p.snapshot), nil
}

type harness struct {
	linkedin   *fakeLinkedIn
	provider   *scriptedProvider
	dispatcher *tools.Dispatcher
}

func newHarness(t *testing.T, emails lookup.EmailFinder, opts ...lookup.Option) *harness {
	t.Helper()
	if emails == nil {
		emails = stubEmails{}
	}
	h := &harness{
		linkedin: &fakeLinkedIn{},
		provider: &scriptedProvider{statuses: []string{"running"}},
	}
	collector := collection.NewCollector(h.provider,
		collection.WithPolling(time.Millisecond, 3),
		collection.WithClock(func() time.Time { return fixedNow }),
	)
	opts = append([]lookup.Option{lookup.WithClock(func() time.Time { return fixedNow })}, opts...)
	svc := lookup.New(h.linkedin, emails, collector, opts...)

	reg := tools.NewRegistry()
	require.NoError(t, svc.Register(reg, tools.NewDecoder(0)))
	h.dispatcher = tools.NewDispatcher(reg)
	return h
}

func (h *harness) call(t *testing.T, name string, args map[string]any) (map[string]any, *tools.ToolError) {
	t.Helper()
	res, err := h.dispatcher.Call(context.Background(), domain.ToolRequest{Name: name, Arguments: args})
	if err != nil {
		var te *tools.ToolError
		require.ErrorAs(t, err, &te)
		return nil, te
	}
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.Text()), &out))
	return out, nil
}

func TestCompanyJobPostings_PaginatesAndFilters(t *testing.T) {
	h := newHarness(t, nil)
	h.linkedin.pages = [][]domain.JobPosting{
		{{ID: "1", Title: "Senior Software Engineer"}, {ID: "2", Title: "Receptionist"}},
		{{ID: "3", Title: "Ingénieur DevOps"}},
	}

	out, terr := h.call(t, lookup.ToolCompanyJobPostings, map[string]any{
		"company": "Acme", "country": "Belgium", "companyId": 1441,
	})
	require.Nil(t, terr)

	assert.Equal(t, 3, h.linkedin.pageCalls, "two full pages and the empty one")
	assert.Equal(t, "Acme", out["company"])
	assert.Equal(t, "Belgium", out["country"])
	assert.EqualValues(t, 2, out["totalCount"])
	assert.EqualValues(t, 3, out["scannedCount"])
	assert.Equal(t, "2025-03-01T12:00:00Z", out["timestamp"])

	jobs := out["filteredJobPostings"].([]any)
	require.Len(t, jobs, 2)
	assert.Equal(t, "1", jobs[0].(map[string]any)["jobId"])
	assert.Equal(t, "3", jobs[1].(map[string]any)["jobId"])
}

func TestCompanyJobPostings_StopsOnNotFound(t *testing.T) {
	h := newHarness(t, nil)
	h.linkedin.pages = [][]domain.JobPosting{{{ID: "1", Title: "Cloud Architect"}}, {{ID: "2", Title: "Data Engineer"}}}
	h.linkedin.pageErr = map[int]error{2: domain.ErrNotFound}

	out, terr := h.call(t, lookup.ToolCompanyJobPostings, map[string]any{
		"company": "Acme", "country": "Netherlands", "companyId": "9",
	})
	require.Nil(t, terr)
	assert.Equal(t, 2, h.linkedin.pageCalls)
	assert.EqualValues(t, 1, out["totalCount"])
}

func TestCompanyJobPostings_PageLimit(t *testing.T) {
	h := newHarness(t, nil, lookup.WithMaxPages(2))
	page := []domain.JobPosting{{ID: "1", Title: "Backend Developer"}}
	h.linkedin.pages = [][]domain.JobPosting{page, page, page, page}

	out, terr := h.call(t, lookup.ToolCompanyJobPostings, map[string]any{
		"company": "Acme", "country": "Belgium", "companyId": "9",
	})
	require.Nil(t, terr)
	assert.Equal(t, 2, h.linkedin.pageCalls)
	assert.EqualValues(t, 2, out["scannedCount"])
}

func TestCompanyJobPostings_RejectsCountry(t *testing.T) {
	h := newHarness(t, nil)
	_, terr := h.call(t, lookup.ToolCompanyJobPostings, map[string]any{
		"company": "Acme", "country": "France", "companyId": "9",
	})
	require.NotNil(t, terr)
	assert.Equal(t, tools.CodeInvalidParams, terr.Code)
	assert.Contains(t, terr.Message, "country")
	assert.Zero(t, h.linkedin.pageCalls)
}

func TestJobPostingDetails(t *testing.T) {
	h := newHarness(t, nil, lookup.WithCache(memory.NewCache(), time.Minute))
	h.linkedin.details = map[string]domain.JobPosting{"42": {ID: "42", Title: "SRE", Company: "Acme"}}

	for i := 0; i < 2; i++ {
		out, terr := h.call(t, lookup.ToolJobPostingDetails, map[string]any{"jobId": "42"})
		require.Nil(t, terr)
		assert.Equal(t, "SRE", out["title"])
		assert.Equal(t, "42", out["jobId"])
	}
	assert.Equal(t, 1, h.linkedin.detailCalls, "second call is served from cache")

	_, terr := h.call(t, lookup.ToolJobPostingDetails, map[string]any{"jobId": "7"})
	require.NotNil(t, terr)
	assert.Equal(t, tools.CodeInvalidParams, terr.Code)
	assert.Contains(t, terr.Message, "not found")
}

func TestCompanyInformation(t *testing.T) {
	h := newHarness(t, nil, lookup.WithCache(memory.NewCache(), time.Minute))
	h.linkedin.companies = map[string]domain.Company{
		"some-rndom-co": {Name: "Some Rändom Co"},
		"acme-intl":     {Name: "Acme"},
	}
	h.linkedin.posts = []domain.CompanyUpdate{{Text: "a"}, {Text: "b"}, {Text: "c"}, {Text: "d"}}

	out, terr := h.call(t, lookup.ToolCompanyInformation, map[string]any{"companyName": "Some Rändom Co!!"})
	require.Nil(t, terr)
	assert.Equal(t, "Some Rändom Co", out["name"])
	assert.Len(t, out["recentUpdates"], 3)

	_, terr = h.call(t, lookup.ToolCompanyInformation, map[string]any{"companyName": "Some Rändom Co!!"})
	require.Nil(t, terr)
	assert.Equal(t, 1, h.linkedin.companyHits)

	out, terr = h.call(t, lookup.ToolCompanyInformation, map[string]any{"companyName": "Acme", "linkedInId": "acme-intl"})
	require.Nil(t, terr)
	assert.Equal(t, "Acme", out["name"])

	_, terr = h.call(t, lookup.ToolCompanyInformation, map[string]any{"companyName": "Nobody"})
	require.NotNil(t, terr)
	assert.Equal(t, tools.CodeInvalidParams, terr.Code)
}

func hunterServer(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func emailArgs() map[string]any {
	return map[string]any{"domain": "https://www.acme.com", "firstName": "Ada", "lastName": "Lovelace", "companyName": "Acme"}
}

func TestEmployeeWorkEmail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		srv, _ := hunterServer(t, http.StatusOK, `{"data":{"email":"ada@acme.com","score":97,"verification":{"status":"valid"}}}`)
		h := newHarness(t, hunter.New(hunter.NewProvider(srv.URL, "key")))

		out, terr := h.call(t, lookup.ToolEmployeeWorkEmail, emailArgs())
		require.Nil(t, terr)
		assert.Equal(t, "ada@acme.com", out["email"])
		assert.Equal(t, true, out["valid"])
		assert.Equal(t, true, out["success"])
		assert.NotContains(t, out, "message")
	})

	t.Run("404 is a message, not an error", func(t *testing.T) {
		srv, _ := hunterServer(t, http.StatusNotFound, `{"errors":[{"id":"not_found"}]}`)
		h := newHarness(t, hunter.New(hunter.NewProvider(srv.URL, "key")))

		out, terr := h.call(t, lookup.ToolEmployeeWorkEmail, emailArgs())
		require.Nil(t, terr)
		assert.Equal(t, "Email not found", out["message"])
		assert.Equal(t, "2025-03-01T12:00:00Z", out["timestamp"])
		assert.NotContains(t, out, "email")
	})

	t.Run("402 is an internal error", func(t *testing.T) {
		srv, _ := hunterServer(t, http.StatusPaymentRequired, `{"errors":[{"id":"too_many_requests"}]}`)
		h := newHarness(t, hunter.New(hunter.NewProvider(srv.URL, "key")))

		_, terr := h.call(t, lookup.ToolEmployeeWorkEmail, emailArgs())
		require.NotNil(t, terr)
		assert.Equal(t, tools.CodeInternalError, terr.Code)
		assert.Contains(t, terr.Message, "insufficient credits")
	})

	t.Run("missing argument makes no provider call", func(t *testing.T) {
		srv, hits := hunterServer(t, http.StatusOK, `{}`)
		h := newHarness(t, hunter.New(hunter.NewProvider(srv.URL, "key")))

		args := emailArgs()
		delete(args, "lastName")
		_, terr := h.call(t, lookup.ToolEmployeeWorkEmail, args)
		require.NotNil(t, terr)
		assert.Equal(t, tools.CodeInvalidParams, terr.Code)
		assert.Equal(t, "missing required argument: lastName", terr.Message)
		assert.Zero(t, atomic.LoadInt32(hits))
	})

	t.Run("missing credential fails the call only", func(t *testing.T) {
		srv, hits := hunterServer(t, http.StatusOK, `{}`)
		h := newHarness(t, hunter.New(hunter.NewProvider(srv.URL, "")))

		_, terr := h.call(t, lookup.ToolEmployeeWorkEmail, emailArgs())
		require.NotNil(t, terr)
		assert.Equal(t, tools.CodeInternalError, terr.Code)
		assert.Zero(t, atomic.LoadInt32(hits))
	})
}

func TestUnknownTool(t *testing.T) {
	h := newHarness(t, nil)
	_, terr := h.call(t, "get_weather", nil)
	require.NotNil(t, terr)
	assert.Equal(t, tools.CodeMethodNotFound, terr.Code)
}
