// Package brightdata drives the Bright Data dataset collection API:
// trigger a collection, probe its progress and download the snapshot.
package brightdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/aretw0/scout/pkg/domain"
	"github.com/aretw0/scout/pkg/provider"
)

// DefaultBaseURL is the Bright Data API root.
const DefaultBaseURL = "https://api.brightdata.com"

// Default dataset ids for the LinkedIn scrapers.
const (
	DefaultCompaniesDataset = "gd_l1vikfnt1wgvvqz95w"
	DefaultPostsDataset     = "gd_lyy3tktm25m4avu764"
	DefaultJobsDataset      = "gd_lpfll7v5hcqtkxl6l"
)

// Doer is the subset of provider.Client used here.
type Doer interface {
	Do(ctx context.Context, req provider.Request) (*provider.Response, error)
}

// Client implements collection.Provider on top of Bright Data.
type Client struct {
	api      Doer
	datasets map[string]string
}

// NewProvider builds the provider client for Bright Data (bearer token).
func NewProvider(baseURL, token string, opts ...provider.Option) *provider.Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return provider.New(provider.Config{
		Name:       "brightdata",
		BaseURL:    baseURL,
		Credential: token,
		Auth:       provider.AuthBearer,
	}, opts...)
}

// New creates a client. datasets maps a dataset kind (domain.DatasetCompanies, ...)
// to a Bright Data dataset id; missing kinds fall back to the defaults.
func New(api Doer, datasets map[string]string) *Client {
	ds := map[string]string{
		domain.DatasetCompanies: DefaultCompaniesDataset,
		domain.DatasetPosts:     DefaultPostsDataset,
		domain.DatasetJobs:      DefaultJobsDataset,
	}
	for k, v := range datasets {
		if v != "" {
			ds[k] = v
		}
	}
	return &Client{api: api, datasets: ds}
}

// Trigger starts a collection and returns its snapshot id.
func (c *Client) Trigger(ctx context.Context, req domain.CollectionRequest) (string, error) {
	datasetID, ok := c.datasets[req.Kind]
	if !ok {
		return "", fmt.Errorf("brightdata: unknown dataset kind %q: %w", req.Kind, domain.ErrInvalidRequest)
	}
	q := url.Values{
		"dataset_id":     {datasetID},
		"include_errors": {"true"},
	}
	for k, v := range req.Params {
		q.Set(k, v)
	}

	resp, err := c.api.Do(ctx, provider.Request{
		Method: http.MethodPost,
		Path:   "/datasets/v3/trigger",
		Query:  q,
		Body:   req.Inputs,
	})
	if err != nil {
		return "", err
	}

	var body struct {
		SnapshotID string `json:"snapshot_id"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return "", fmt.Errorf("brightdata: malformed trigger response: %w", err)
	}
	return body.SnapshotID, nil
}

// Progress probes the status of a snapshot.
func (c *Client) Progress(ctx context.Context, snapshotID string) (*domain.Progress, error) {
	resp, err := c.api.Do(ctx, provider.Request{Path: "/datasets/v3/progress/" + url.PathEscape(snapshotID)})
	if err != nil {
		return nil, err
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("brightdata: malformed progress response: %w", err)
	}
	return &domain.Progress{Status: body.Status, Raw: resp.Body}, nil
}

// Snapshot downloads a ready snapshot as JSON. A 202 means the snapshot is
// still being built and fails with domain.ErrSnapshotNotReady.
func (c *Client) Snapshot(ctx context.Context, snapshotID string) ([]byte, error) {
	resp, err := c.api.Do(ctx, provider.Request{
		Path:  "/datasets/v3/snapshot/" + url.PathEscape(snapshotID),
		Query: url.Values{"format": {"json"}},
	})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusAccepted {
		return nil, fmt.Errorf("brightdata: snapshot %s: %w: %s", snapshotID, domain.ErrSnapshotNotReady, resp.Body)
	}
	return resp.Body, nil
}
