package checkoutkit

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/checkoutkit/pkg/activation"
	"github.com/dmitrymomot/checkoutkit/pkg/atlas"
	"github.com/dmitrymomot/checkoutkit/pkg/catalog"
	"github.com/dmitrymomot/checkoutkit/pkg/checkout"
	"github.com/dmitrymomot/checkoutkit/pkg/eligibility"
	"github.com/dmitrymomot/checkoutkit/pkg/gateway"
	"github.com/dmitrymomot/checkoutkit/pkg/logger"
	"github.com/dmitrymomot/checkoutkit/pkg/pricing"
	"github.com/dmitrymomot/checkoutkit/pkg/redis"
	"github.com/dmitrymomot/checkoutkit/pkg/verify"
)

// ErrNoCatalogSource is returned when neither a catalog file path nor an
// explicit source is configured.
var ErrNoCatalogSource = errors.New("checkoutkit: no catalog source configured")

// Config aggregates the environment configuration for a Kit. Nested structs
// are parsed by the same env tags their packages declare.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"checkout"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	// CatalogPath points at the YAML plan catalog. Optional when a Source
	// is supplied via WithCatalogSource.
	CatalogPath string `env:"CATALOG_PATH"`

	// EligibilityTTL bounds how long a displayed eligibility result may be
	// served from memory. The charge-time check is always server-side.
	EligibilityTTL time.Duration `env:"ELIGIBILITY_CACHE_TTL" envDefault:"1m"`

	// UseRedis enables the Redis-backed intent store; without it intents
	// live in process memory and do not survive restarts.
	UseRedis bool `env:"CHECKOUT_REDIS_STORE" envDefault:"false"`

	Atlas   atlas.Config
	Gateway gateway.Config
	Redis   redis.Config
}

// Kit holds the shared collaborators for checkout flows. Build one per
// process with New; create a Flow per customer journey.
type Kit struct {
	cfg       Config
	log       *slog.Logger
	catalog   *catalog.Catalog
	pricing   *pricing.Engine
	resolver  eligibility.Resolver
	client    *atlas.Client
	verifier  *verify.Verifier
	committer *activation.Committer
	store     checkout.IntentStore
}

// Option configures a Kit.
type Option func(*kitOptions)

type kitOptions struct {
	log     *slog.Logger
	source  catalog.Source
	store   checkout.IntentStore
	pricing []pricing.Option
}

// WithLogger sets the logger. Defaults to a JSON logger tagged with the
// service name.
func WithLogger(log *slog.Logger) Option {
	return func(o *kitOptions) {
		if log != nil {
			o.log = log
		}
	}
}

// WithCatalogSource overrides the YAML file source, e.g. with an in-memory
// catalog in tests.
func WithCatalogSource(src catalog.Source) Option {
	return func(o *kitOptions) {
		if src != nil {
			o.source = src
		}
	}
}

// WithIntentStore overrides the intent store selection.
func WithIntentStore(store checkout.IntentStore) Option {
	return func(o *kitOptions) {
		if store != nil {
			o.store = store
		}
	}
}

// WithPricingOptions forwards options to the pricing engine.
func WithPricingOptions(opts ...pricing.Option) Option {
	return func(o *kitOptions) {
		o.pricing = append(o.pricing, opts...)
	}
}

// New builds a Kit from configuration: backend client, plan catalog,
// eligibility resolver with display memoization, verifier, committer, and
// the intent store (Redis when enabled, memory otherwise).
func New(ctx context.Context, cfg Config, opts ...Option) (*Kit, error) {
	var o kitOptions
	for _, opt := range opts {
		opt(&o)
	}

	log := o.log
	if log == nil {
		if cfg.Environment == "production" {
			log = logger.New(logger.WithProduction(cfg.ServiceName))
		} else {
			log = logger.New(logger.WithDevelopment(cfg.ServiceName))
		}
	}

	client, err := atlas.New(cfg.Atlas)
	if err != nil {
		return nil, err
	}

	src := o.source
	if src == nil {
		if cfg.CatalogPath == "" {
			return nil, ErrNoCatalogSource
		}
		src = catalog.NewFileSource(cfg.CatalogPath)
	}
	cat, err := catalog.New(ctx, src)
	if err != nil {
		return nil, err
	}

	store := o.store
	if store == nil {
		if cfg.UseRedis {
			rc, err := redis.Connect(ctx, cfg.Redis)
			if err != nil {
				return nil, err
			}
			store = checkout.NewRedisStore(rc)
		} else {
			store = checkout.NewMemoryStore()
		}
	}

	return &Kit{
		cfg:       cfg,
		log:       log,
		catalog:   cat,
		pricing:   pricing.NewEngine(o.pricing...),
		resolver:  eligibility.NewCached(eligibility.NewResolver(client), cfg.EligibilityTTL),
		client:    client,
		verifier:  verify.New(client, verify.WithLogger(log.With(logger.Component("verifier")))),
		committer: activation.New(client, activation.WithLogger(log.With(logger.Component("activation")))),
		store:     store,
	}, nil
}

// Catalog exposes the loaded plan catalog for rendering plan choices.
func (k *Kit) Catalog() *catalog.Catalog {
	return k.catalog
}

// Logger exposes the kit's logger.
func (k *Kit) Logger() *slog.Logger {
	return k.log
}

// WebhookHandler returns the HTTP handler for inbound provider webhooks,
// funneling verified events into sink. Mount it at the path registered with
// the provider.
func (k *Kit) WebhookHandler(sink gateway.EventSink) http.Handler {
	return gateway.WebhookRouter(k.cfg.Gateway, sink, k.log.With(logger.Component("webhook")))
}
