package di

import (
	"fmt"

	"EigenFlow/internal/domain/repository"
	"EigenFlow/internal/handler/api"
	mid "EigenFlow/internal/middleware"
	internalrepo "EigenFlow/internal/repository"
	"EigenFlow/internal/service/ratelimit"
	"EigenFlow/internal/services/access"
	"EigenFlow/internal/services/loader"
	"EigenFlow/internal/usecase"
	"EigenFlow/pkg/cache"
	"EigenFlow/pkg/config"
	xhttp "EigenFlow/pkg/http"
	applogger "EigenFlow/pkg/logger"
	"EigenFlow/pkg/metrics"
	"EigenFlow/pkg/server"
)

// ProvideLogger creates the application logger from the log section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(cfg *config.Config) repository.Metrics {
	if !cfg.Metrics.Enabled {
		return metrics.Nop{}
	}
	return metrics.New()
}

// ProvideCache creates the source cache for the configured backend.
func ProvideCache(cfg *config.Config, l *applogger.Logger) (cache.Service, error) {
	c := cfg.Cache
	if c.Backend == "memory" {
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(c.MemoryMaxSize)), nil
	}

	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(c.Redis.Host),
		cache.WithRedisPort(c.Redis.Port),
		cache.WithRedisPassword(c.Redis.Password),
		cache.WithRedisDB(c.Redis.DB),
		cache.WithRedisPrefix(c.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	l.Info("redis cache connected",
		applogger.String("backend", c.Backend),
		applogger.String("host", c.Redis.Host),
		applogger.Int("port", c.Redis.Port),
	)

	if c.Backend == "layered" {
		return cache.NewLayeredCache(rc,
			cache.WithLayeredMemorySize(c.MemoryMaxSize),
			cache.WithLayeredMemoryTTL(c.SnapshotTTL),
		), nil
	}
	return rc, nil
}

// ProvideSource creates the data source (local directory or remote host).
func ProvideSource(cfg *config.Config) repository.Source {
	s := cfg.Source
	if s.Type == "remote" {
		return internalrepo.NewRemoteSource(s.BaseURL,
			internalrepo.WithRemoteTimeout(s.Timeout),
			internalrepo.WithRemoteBreaker(s.Breaker.MaxFailures, s.Breaker.OpenTimeout),
			internalrepo.WithRemoteMaxBody(s.MaxBodyBytes),
		)
	}
	return internalrepo.NewLocalSource(s.BaseDir)
}

// ProvideLoader creates the data loader.
func ProvideLoader(cfg *config.Config, src repository.Source, c cache.Service, m repository.Metrics, l *applogger.Logger) *loader.Loader {
	return loader.New(src, c,
		loader.Files{
			LatestPointer: cfg.Source.LatestPointer,
			Snapshot:      cfg.Source.SnapshotFile,
			Top10:         cfg.Source.Top10File,
			History:       cfg.Source.HistoryFile,
			Latest:        cfg.Source.LatestFile,
		},
		loader.TTLs{
			Snapshot: cfg.Cache.SnapshotTTL,
			Signals:  cfg.Cache.SignalsTTL,
			History:  cfg.Cache.HistoryTTL,
		},
		m, l.With(applogger.String("component", "loader")),
	)
}

// ProvideValidator creates the access key validator.
func ProvideValidator(cfg *config.Config, m repository.Metrics, l *applogger.Logger) *access.Validator {
	return access.NewValidator(cfg.AllowList(), cfg.Access.ValidityDays,
		access.WithLocation(cfg.Location()),
		access.WithMetrics(m),
		access.WithLogger(l.With(applogger.String("component", "access"))),
	)
}

// ProvideLimiter creates the access attempt guard (per session and per client address).
func ProvideLimiter(cfg *config.Config) *ratelimit.Guard {
	a := cfg.Access.Attempts
	return ratelimit.NewGuard(
		ratelimit.New(a.PerMinute, a.Burst, cfg.Session.IdleTTL),
		ratelimit.New(a.ClientPerMinute, a.ClientBurst, cfg.Session.IdleTTL),
	)
}

// ProvideDashboardUseCase creates the dashboard use case.
func ProvideDashboardUseCase(
	cfg *config.Config,
	ld *loader.Loader,
	v *access.Validator,
	lim *ratelimit.Guard,
	l *applogger.Logger,
) *usecase.DashboardUseCase {
	return usecase.NewDashboardUseCase(ld, v, lim, usecase.Options{
		PreviewLimit:          cfg.Access.PreviewLimit,
		HistoryLimit:          cfg.Access.HistoryLimit,
		DistinctExpiryMessage: cfg.Access.DistinctExpiryMessage,
	}, l)
}

// ProvideSessionStore creates the in-memory session store.
func ProvideSessionStore(cfg *config.Config, m repository.Metrics) repository.SessionStore {
	return internalrepo.NewMemorySessionStore(cfg.Session.IdleTTL, nil, m)
}

// ProvideHandler creates the dashboard HTTP handler.
func ProvideHandler(cfg *config.Config, uc *usecase.DashboardUseCase, store repository.SessionStore, l *applogger.Logger) xhttp.Handler {
	session := mid.Session(store, mid.SessionCookie{
		Name:   cfg.Session.CookieName,
		MaxAge: cfg.Session.IdleTTL,
		Secure: cfg.Session.Secure,
	}, l)
	return api.NewDashboardEchoHandler(l, uc, session)
}

// ProvideHTTPServer creates the Echo server.
func ProvideHTTPServer(cfg *config.Config, h xhttp.Handler, l *applogger.Logger) *xhttp.Server {
	return xhttp.NewServer(h,
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithMetrics(cfg.Metrics.Enabled, cfg.Metrics.Path),
		xhttp.WithLogger(l, cfg.Server.SlowThreshold),
	)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, srv *xhttp.Server, c cache.Service, l *applogger.Logger) *server.App {
	return server.New(cfg, srv, c, l)
}
