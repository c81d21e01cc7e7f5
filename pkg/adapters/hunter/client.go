// Package hunter looks up work email addresses with the Hunter email-finder API.
package hunter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/aretw0/scout/pkg/domain"
	"github.com/aretw0/scout/pkg/provider"
)

// DefaultBaseURL is the Hunter v2 API root.
const DefaultBaseURL = "https://api.hunter.io/v2"

// validScore is the confidence above which an unverified address counts as valid.
const validScore = 90

// Doer is the subset of provider.Client used here.
type Doer interface {
	Do(ctx context.Context, req provider.Request) (*provider.Response, error)
}

// Client wraps the email-finder endpoint.
type Client struct {
	api Doer
}

// NewProvider builds the provider client for Hunter; the key travels as the api_key query parameter.
func NewProvider(baseURL, apiKey string, opts ...provider.Option) *provider.Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return provider.New(provider.Config{
		Name:       "hunter",
		BaseURL:    baseURL,
		Credential: apiKey,
		Auth:       provider.AuthQuery,
		AuthKey:    "api_key",
	}, opts...)
}

// New creates a Hunter client.
func New(api Doer) *Client {
	return &Client{api: api}
}

// Person identifies who to look up.
type Person struct {
	Domain    string
	FirstName string
	LastName  string
	Company   string
}

type finderResponse struct {
	Data struct {
		Email        *string `json:"email"`
		Score        int     `json:"score"`
		Verification struct {
			Status string `json:"status"`
		} `json:"verification"`
	} `json:"data"`
}

// FindEmail looks up a person's work address.
// A provider "not found" is a normal result carrying domain.EmailNotFound;
// exhausted credits are an error.
func (c *Client) FindEmail(ctx context.Context, p Person) (*domain.EmailResult, error) {
	q := url.Values{
		"domain":     {p.Domain},
		"first_name": {p.FirstName},
		"last_name":  {p.LastName},
	}
	if p.Company != "" {
		q.Set("company", p.Company)
	}

	resp, err := c.api.Do(ctx, provider.Request{Path: "/email-finder", Query: q})
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.EmailResult{Message: domain.EmailNotFound}, nil
	}
	if errors.Is(err, domain.ErrInsufficientCredits) {
		return nil, fmt.Errorf("hunter: insufficient credits to run the email finder: %w", err)
	}
	if err != nil {
		return nil, err
	}

	var body finderResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("hunter: malformed response: %w", err)
	}
	if body.Data.Email == nil || *body.Data.Email == "" {
		return &domain.EmailResult{Message: domain.EmailNotFound}, nil
	}

	valid := body.Data.Verification.Status == "valid"
	if body.Data.Verification.Status == "" {
		valid = body.Data.Score >= validScore
	}
	return &domain.EmailResult{
		Email:   *body.Data.Email,
		Valid:   &valid,
		Success: true,
		Score:   body.Data.Score,
	}, nil
}
