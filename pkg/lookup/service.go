package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/scout/internal/logging"
	"github.com/aretw0/scout/pkg/adapters/hunter"
	"github.com/aretw0/scout/pkg/collection"
	"github.com/aretw0/scout/pkg/domain"
	"github.com/aretw0/scout/pkg/ports"
)

// Defaults.
const (
	DefaultMaxPages      = 20
	DefaultCacheTTL      = time.Hour
	RecentUpdatesLimit   = 3
	pendingMessageFormat = "Collection is still processing. Call %s again with this snapshot_id in a little while."
)

// LinkedIn is the synchronous company and job data source.
type LinkedIn interface {
	CompanyJobs(ctx context.Context, companyID, geoID string, page int) ([]domain.JobPosting, error)
	JobDetails(ctx context.Context, jobID string) (*domain.JobPosting, error)
	CompanyDetails(ctx context.Context, slug string) (*domain.Company, error)
	CompanyPosts(ctx context.Context, slug string, limit int) ([]domain.CompanyUpdate, error)
}

// EmailFinder finds work email addresses.
type EmailFinder interface {
	FindEmail(ctx context.Context, p hunter.Person) (*domain.EmailResult, error)
}

// Collector runs asynchronous dataset collections.
type Collector interface {
	Initiate(ctx context.Context, req domain.CollectionRequest) (*domain.CollectionJob, error)
	Check(ctx context.Context, snapshotID string) (*collection.Result, error)
	Run(ctx context.Context, req domain.CollectionRequest) (*collection.Result, error)
	Tracker() ports.JobTracker
}

// Service holds the clients the operations run against.
// It keeps no per-request state.
type Service struct {
	linkedin  LinkedIn
	emails    EmailFinder
	collector Collector
	cache     ports.Cache
	cacheTTL  time.Duration
	maxPages  int
	now       func() time.Time
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithCache caches company profiles and job details for ttl.
func WithCache(c ports.Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithMaxPages bounds the job pagination loop.
func WithMaxPages(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxPages = n
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// New creates a Service.
func New(li LinkedIn, emails EmailFinder, collector Collector, opts ...Option) *Service {
	s := &Service{
		linkedin:  li,
		emails:    emails,
		collector: collector,
		cacheTTL:  DefaultCacheTTL,
		maxPages:  DefaultMaxPages,
		now:       time.Now,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// cached loads key into out. Cache failures other than a miss are logged
// and treated as a miss.
func (s *Service) cached(ctx context.Context, key string, out any) bool {
	if s.cache == nil {
		return false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.Warn("cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Warn("cache entry unreadable", "key", key, "error", err)
		return false
	}
	return true
}

func (s *Service) store(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.logger.Warn("cache write failed", "key", key, "error", err)
	}
}
