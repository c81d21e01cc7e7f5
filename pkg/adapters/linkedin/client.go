// Package linkedin talks to the LinkedIn data API published on RapidAPI.
package linkedin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/aretw0/scout/pkg/domain"
	"github.com/aretw0/scout/pkg/provider"
)

// DefaultBaseURL is the RapidAPI endpoint of the LinkedIn data API.
const DefaultBaseURL = "https://linkedin-data-api.p.rapidapi.com"

// geoIDs maps supported countries to LinkedIn geo identifiers.
var geoIDs = map[string]string{
	"belgium":     "100565514",
	"netherlands": "102890719",
}

// GeoID returns the LinkedIn geo id of a supported country.
func GeoID(country string) (string, bool) {
	id, ok := geoIDs[strings.ToLower(strings.TrimSpace(country))]
	return id, ok
}

// Doer is the subset of provider.Client used here.
type Doer interface {
	Do(ctx context.Context, req provider.Request) (*provider.Response, error)
}

// Client wraps the provider client with the LinkedIn endpoints.
type Client struct {
	api Doer
}

// NewProvider builds the provider client for the LinkedIn API with RapidAPI headers.
func NewProvider(baseURL, apiKey string, opts ...provider.Option) *provider.Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	host := baseURL
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		host = u.Host
	}
	return provider.New(provider.Config{
		Name:       "linkedin",
		BaseURL:    baseURL,
		Credential: apiKey,
		Auth:       provider.AuthHeader,
		AuthKey:    "x-rapidapi-key",
		Headers:    map[string]string{"x-rapidapi-host": host},
	}, opts...)
}

// New creates a LinkedIn client.
func New(api Doer) *Client {
	return &Client{api: api}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	resp, err := c.api.Do(ctx, provider.Request{Path: path, Query: query})
	if err != nil {
		return nil, err
	}
	var env envelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, fmt.Errorf("linkedin: malformed response: %w", err)
	}
	if !env.Success {
		if strings.Contains(strings.ToLower(env.Message), "not found") {
			return nil, fmt.Errorf("linkedin: %s: %w", env.Message, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("linkedin: request unsuccessful: %s", env.Message)
	}
	return env.Data, nil
}

// CompanyJobs fetches one page of a company's job postings.
// geoID may be empty to search every location.
func (c *Client) CompanyJobs(ctx context.Context, companyID, geoID string, page int) ([]domain.JobPosting, error) {
	q := url.Values{
		"companyIds": {companyID},
		"page":       {strconv.Itoa(page)},
	}
	if geoID != "" {
		q.Set("locationId", geoID)
	}
	data, err := c.get(ctx, "/get-company-jobs", q)
	if err != nil {
		return nil, err
	}

	items, err := decodeJobItems(data)
	if err != nil {
		return nil, err
	}
	jobs := make([]domain.JobPosting, 0, len(items))
	for _, it := range items {
		jobs = append(jobs, it.normalize())
	}
	return jobs, nil
}

// JobDetails fetches a single job posting.
func (c *Client) JobDetails(ctx context.Context, jobID string) (*domain.JobPosting, error) {
	data, err := c.get(ctx, "/get-job-details", url.Values{"id": {jobID}})
	if err != nil {
		return nil, err
	}
	if isEmpty(data) {
		return nil, fmt.Errorf("linkedin: job %s: %w", jobID, domain.ErrNotFound)
	}
	var raw rawJobDetails
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("linkedin: malformed job details: %w", err)
	}
	job := raw.normalize(jobID)
	return &job, nil
}

// CompanyDetails fetches a company profile by its universal name (slug).
func (c *Client) CompanyDetails(ctx context.Context, slug string) (*domain.Company, error) {
	data, err := c.get(ctx, "/get-company-details", url.Values{"username": {slug}})
	if err != nil {
		return nil, err
	}
	if isEmpty(data) {
		return nil, fmt.Errorf("linkedin: company %s: %w", slug, domain.ErrNotFound)
	}
	var raw rawCompany
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("linkedin: malformed company details: %w", err)
	}
	company := raw.normalize(slug)
	return &company, nil
}

// CompanyPosts fetches the most recent posts of a company page, at most limit of them.
func (c *Client) CompanyPosts(ctx context.Context, slug string, limit int) ([]domain.CompanyUpdate, error) {
	data, err := c.get(ctx, "/get-company-posts", url.Values{"username": {slug}})
	if err != nil {
		return nil, err
	}
	var raw []rawPost
	if !isEmpty(data) {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("linkedin: malformed company posts: %w", err)
		}
	}
	if limit > 0 && len(raw) > limit {
		raw = raw[:limit]
	}
	updates := make([]domain.CompanyUpdate, 0, len(raw))
	for _, p := range raw {
		updates = append(updates, p.normalize())
	}
	return updates, nil
}

func isEmpty(data json.RawMessage) bool {
	s := strings.TrimSpace(string(data))
	return s == "" || s == "null" || s == "{}"
}

// decodeJobItems accepts both {"items": [...]} and a bare array.
func decodeJobItems(data json.RawMessage) ([]rawJobItem, error) {
	if isEmpty(data) {
		return nil, nil
	}
	var items []rawJobItem
	if strings.HasPrefix(strings.TrimSpace(string(data)), "[") {
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("linkedin: malformed job list: %w", err)
		}
		return items, nil
	}
	var page struct {
		Items []rawJobItem `json:"items"`
	}
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("linkedin: malformed job list: %w", err)
	}
	return page.Items, nil
}
