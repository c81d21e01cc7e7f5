package scout

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/aretw0/scout/internal/config"
	"github.com/aretw0/scout/internal/logging"
	"github.com/aretw0/scout/pkg/adapters/brightdata"
	"github.com/aretw0/scout/pkg/adapters/hunter"
	"github.com/aretw0/scout/pkg/adapters/linkedin"
	"github.com/aretw0/scout/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/scout/pkg/adapters/redis"
	"github.com/aretw0/scout/pkg/collection"
	"github.com/aretw0/scout/pkg/domain"
	"github.com/aretw0/scout/pkg/lookup"
	"github.com/aretw0/scout/pkg/observability"
	"github.com/aretw0/scout/pkg/ports"
	"github.com/aretw0/scout/pkg/provider"
	"github.com/aretw0/scout/pkg/tools"
)

//go:embed VERSION
var Version string

// Service is a fully wired tool server, ready to be put behind a transport.
type Service struct {
	cfg        config.Config
	logger     *slog.Logger
	promReg    *prometheus.Registry
	registry   *tools.Registry
	dispatcher *tools.Dispatcher
	cache      ports.Cache
	closers    []func() error
}

type options struct {
	logger     *slog.Logger
	httpClient *http.Client
	cache      ports.Cache
	tracker    ports.JobTracker
	promReg    *prometheus.Registry
}

// Option customizes New.
type Option func(*options)

// WithLogger sets the logger shared by every component.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithHTTPClient replaces the HTTP client used for provider calls.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithCache overrides the cache selected by the configuration.
func WithCache(c ports.Cache) Option {
	return func(o *options) {
		o.cache = c
	}
}

// WithJobTracker overrides the in-memory collection job tracker.
func WithJobTracker(t ports.JobTracker) Option {
	return func(o *options) {
		o.tracker = t
	}
}

// WithPrometheusRegistry registers metrics on reg instead of a fresh registry.
func WithPrometheusRegistry(reg *prometheus.Registry) Option {
	return func(o *options) {
		o.promReg = reg
	}
}

// New wires provider clients, the collection workflow, the cache and the
// tool registry from cfg. Missing credentials are not an error: the tools
// that need them fail when called.
func New(cfg config.Config, opts ...Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	if o.promReg == nil {
		o.promReg = prometheus.NewRegistry()
		o.promReg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	s := &Service{cfg: cfg, logger: o.logger, promReg: o.promReg}
	metrics := observability.NewMetrics(o.promReg)

	providerOpts := []provider.Option{
		provider.WithHTTPClient(o.httpClient),
		provider.WithMetrics(metrics),
		provider.WithLogger(o.logger),
	}
	li := linkedin.New(linkedin.NewProvider(cfg.LinkedIn.BaseURL, cfg.LinkedIn.APIKey, providerOpts...))
	finder := hunter.New(hunter.NewProvider(cfg.Hunter.BaseURL, cfg.Hunter.APIKey, providerOpts...))
	bd := brightdata.New(brightdata.NewProvider(cfg.BrightData.BaseURL, cfg.BrightData.Token, providerOpts...), cfg.BrightData.Datasets)

	tracker := o.tracker
	if tracker == nil {
		tracker = memory.NewTracker()
	}
	collector := collection.NewCollector(bd,
		collection.WithTracker(tracker),
		collection.WithPolling(cfg.BrightData.PollInterval, cfg.BrightData.PollAttempts),
		collection.WithMetrics(metrics),
		collection.WithLogger(o.logger),
	)

	cache := o.cache
	if cache == nil {
		var err error
		cache, err = s.buildCache(cfg.Cache)
		if err != nil {
			return nil, err
		}
	}
	s.cache = cache

	lookupOpts := []lookup.Option{
		lookup.WithMaxPages(cfg.MaxJobPages),
		lookup.WithLogger(o.logger),
	}
	if cache != nil {
		lookupOpts = append(lookupOpts, lookup.WithCache(cache, cfg.Cache.TTL))
	}
	svc := lookup.New(li, finder, collector, lookupOpts...)

	s.registry = tools.NewRegistry()
	if err := svc.Register(s.registry, tools.NewDecoder(cfg.MaxInputSize)); err != nil {
		return nil, fmt.Errorf("registering tools: %w", err)
	}
	s.dispatcher = tools.NewDispatcher(s.registry,
		tools.WithMetrics(metrics),
		tools.WithLogger(o.logger),
	)

	for name, ok := range cfg.Credentials() {
		if !ok {
			o.logger.Warn("provider credential not configured; its tools will fail", "provider", name)
		}
	}
	return s, nil
}

func (s *Service) buildCache(cfg config.CacheConfig) (ports.Cache, error) {
	switch strings.ToLower(cfg.Backend) {
	case config.CacheNone:
		return nil, nil
	case config.CacheRedis:
		var opts []redisAdapter.Option
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redisAdapter.WithPrefix(cfg.Redis.Prefix))
		}
		rc := redisAdapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		s.closers = append(s.closers, rc.Close)
		return rc, nil
	case config.CacheMemory, "":
		return memory.NewCache(), nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
}

// Dispatcher returns the request dispatcher shared by every transport.
func (s *Service) Dispatcher() *tools.Dispatcher {
	return s.dispatcher
}

// Registry returns the registered tools.
func (s *Service) Registry() *tools.Registry {
	return s.registry
}

// Gatherer exposes the metrics registry for a /metrics endpoint.
func (s *Service) Gatherer() prometheus.Gatherer {
	return s.promReg
}

// Config returns the configuration the service was built from.
func (s *Service) Config() config.Config {
	return s.cfg
}

// Call dispatches one tool request.
func (s *Service) Call(ctx context.Context, name string, args map[string]any) (*tools.Result, error) {
	return s.dispatcher.Call(ctx, domain.ToolRequest{Name: name, Arguments: args})
}

// Ping checks the cache backend when it has a health check.
func (s *Service) Ping(ctx context.Context) error {
	if p, ok := s.cache.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close releases backend connections.
func (s *Service) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
