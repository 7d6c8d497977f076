package coachservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/michela/coach/internal/api"
	"github.com/michela/coach/internal/cache"
	"github.com/michela/coach/internal/config"
	"github.com/michela/coach/internal/docstore"
	"github.com/michela/coach/internal/factory"
	"github.com/michela/coach/internal/health"
	"github.com/michela/coach/internal/llm"
	"github.com/michela/coach/internal/logger"
	"github.com/michela/coach/internal/services"
	"github.com/michela/coach/internal/store"
)

// Run starts the coach service HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("coach-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Str("llm_provider", cfg.LLMProvider).
		Str("llm_model", cfg.LLMModel).
		Str("pubmed_url", cfg.PubMedURL).
		Msg("Coach service starting")

	// Create cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	docs, completer, err := initDependencies(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := docs.Close(); err != nil {
			log.Warn().Err(err).Msg("closing store")
		}
	}()
	st := store.New(docs)

	// Start health checkers; only the store gates startup
	storeChecker, svcHealth := startHealthCheckers(ctx, cfg, log, st, completer)
	if err := waitUntilHealthy(ctx, cfg, storeChecker); err != nil {
		log.Error().Stack().Err(err).Msg("startup health check failed")
		return err
	}

	router := api.NewRouter(buildServices(cfg, st, completer, cache.New("responses"), log), svcHealth)

	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	// Graceful shutdown on context cancel or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// initDependencies opens the document store and the LLM client; both are required.
func initDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (docstore.Store, *llm.Instrumented, error) {
	docs, err := factory.NewDocstore(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store adapter unavailable")
		return nil, nil, err
	}
	completer, err := factory.NewCompleter(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("LLM provider unavailable")
		_ = docs.Close()
		return nil, nil, err
	}
	return docs, completer, nil
}

// buildServices wires the application services. Advice and research share one
// response cache; their keys never collide (md5 digests vs "research:" keys).
func buildServices(cfg *config.Config, st store.Store, completer llm.Completer, responses *cache.Cache, log zerolog.Logger) api.Services {
	return api.Services{
		Customers: services.NewCustomerService(st),
		Trainings: services.NewTrainingService(st),
		Meals:     services.NewMealService(st),
		Advice:    services.NewAdviceService(st, completer, responses, cfg.AdviceCacheTTL(), log),
		Research: services.NewResearchService(
			factory.NewSearcher(cfg),
			factory.NewTranslator(cfg),
			completer,
			responses,
			services.ResearchConfig{
				SourceLang:        cfg.SourceLang,
				TargetLang:        cfg.TargetLang,
				LatestTTL:         cfg.ResearchCacheTTL(),
				TranslateAttempts: cfg.TranslateAttempts,
				TranslateBackoff:  cfg.TranslateBackoff(),
			},
			log,
		),
	}
}

// startHealthCheckers starts component checkers and the service-level aggregator.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, st store.Store, completer *llm.Instrumented) (*health.PingChecker, *health.ServiceHealthChecker) {
	probeTimeout := time.Duration(cfg.HealthProbeTimeoutSeconds) * time.Second
	interval := time.Duration(cfg.HealthIntervalSeconds) * time.Second

	storeChecker := health.NewPingChecker("store", st, log, probeTimeout)
	go storeChecker.Start(ctx, interval)

	llmChecker := health.NewPingChecker("llm", completer, log, probeTimeout)
	go llmChecker.Start(ctx, interval)

	svcHealth := health.NewServiceHealthChecker(log, storeChecker, llmChecker)
	go svcHealth.Start(ctx, interval)
	return storeChecker, svcHealth
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		// Advice and research summaries wait on the LLM.
		WriteTimeout: 2*cfg.ExternalTimeout() + 15*time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// startupHealthTimeout is twice the health interval, at least 60 seconds.
func startupHealthTimeout(healthIntervalSeconds int) time.Duration {
	timeout := healthIntervalSeconds * 2
	if timeout < 60 {
		timeout = 60
	}
	return time.Duration(timeout) * time.Second
}

// waitUntilHealthy blocks until c reports healthy or the startup window expires.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, c interface{ IsHealthy() bool }) error {
	timeout := startupHealthTimeout(cfg.HealthIntervalSeconds)
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if c.IsHealthy() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("startup aborted: dependencies not healthy within %s", timeout)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
