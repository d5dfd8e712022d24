package chatservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/sanzuisann/my-chat-app/internal/api"
	"github.com/sanzuisann/my-chat-app/internal/cache"
	"github.com/sanzuisann/my-chat-app/internal/config"
	"github.com/sanzuisann/my-chat-app/internal/factory"
	"github.com/sanzuisann/my-chat-app/internal/health"
	"github.com/sanzuisann/my-chat-app/internal/intent"
	"github.com/sanzuisann/my-chat-app/internal/llm"
	"github.com/sanzuisann/my-chat-app/internal/logger"
	"github.com/sanzuisann/my-chat-app/internal/metrics"
	"github.com/sanzuisann/my-chat-app/internal/seed"
	"github.com/sanzuisann/my-chat-app/internal/sentiment"
	"github.com/sanzuisann/my-chat-app/internal/services"
	"github.com/sanzuisann/my-chat-app/internal/store"
)

const serviceName = "chat-service"

// deps are the long-lived clients shared by every request.
type deps struct {
	store store.Store
	llm   llm.Client
	cache cache.Cache
	redis *cache.Redis
}

func (d *deps) close() {
	if d.redis != nil {
		_ = d.redis.Close()
	}
	if d.store != nil {
		_ = d.store.Close()
	}
}

// Run starts the chat service HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New(serviceName)

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		log.Warn().Err(err).Msg("invalid log level; using info")
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Str("llm_provider", cfg.LLMProvider).
		Str("chat_model", cfg.ChatModel).
		Int("http_port", cfg.HTTPPort).
		Msg("Chat service starting")

	// Create cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	d, err := initDependencies(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer d.close()

	svc := buildServices(cfg, d, log)
	if err := seedCharacters(ctx, cfg, svc.Characters, log); err != nil {
		log.Error().Stack().Err(err).Msg("seeding characters failed")
		return err
	}

	// Start health checkers and block until dependencies report healthy
	svcHealth := startHealthCheckers(ctx, cfg, log, d)
	if err := waitUntilHealthy(ctx, cfg, svcHealth); err != nil {
		log.Error().Stack().Err(err).Msg("startup health check failed")
		return err
	}

	router := api.NewRouter(svc, svcHealth, cfg.CORSAllowedOrigins, log)
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

// initDependencies opens the store, the model client and the intent cache.
// A missing store or model client is fatal.
func initDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*deps, error) {
	d := &deps{}
	var err error

	d.store, err = factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store adapter unavailable")
		return nil, err
	}
	client, err := factory.NewLLM(ctx, cfg)
	if err != nil {
		log.Error().Stack().Err(err).Msg("LLM client unavailable")
		d.close()
		return nil, err
	}
	d.llm = metrics.InstrumentLLM(client)
	if cfg.IntentEnabled {
		d.cache, d.redis, err = factory.NewCache(ctx, cfg, log)
		if err != nil {
			log.Error().Stack().Err(err).Msg("Intent cache unavailable")
			d.close()
			return nil, err
		}
	}
	return d, nil
}

// buildServices wires the domain services from configuration.
func buildServices(cfg *config.Config, d *deps, log zerolog.Logger) api.Services {
	var extractor services.IntentExtractor
	if cfg.IntentEnabled {
		extractor = intent.NewExtractor(d.llm, d.cache, intent.Options{
			Model:       cfg.ChatModel,
			Temperature: cfg.IntentTemperature,
			MaxTokens:   cfg.IntentMaxTokens,
			CacheTTL:    cfg.IntentCacheTTL(),
		}, log.With().Str("component", "intent").Logger())
	}
	evaluator := sentiment.NewEvaluator(d.llm, sentiment.Options{
		Model:       cfg.ChatModel,
		Temperature: cfg.EvalTemperature,
		MaxTokens:   cfg.EvalMaxTokens,
		Structured:  cfg.EvalStructuredOutput,
	}, log.With().Str("component", "sentiment").Logger())

	return api.Services{
		Characters:    services.NewCharacterService(d.store),
		Users:         services.NewUserService(d.store),
		History:       services.NewHistoryService(d.store),
		Relationships: services.NewRelationshipService(d.store, evaluator, extractor),
		Constructs:    services.NewConstructService(d.store),
		Chat: services.NewChatService(d.store, d.llm, extractor, services.ChatOptions{
			Model:        cfg.ChatModel,
			Temperature:  cfg.ChatTemperature,
			MaxTokens:    cfg.ChatMaxTokens,
			HistoryLimit: cfg.HistoryLimit,
		}, log.With().Str("component", "chat").Logger()),
	}
}

func seedCharacters(ctx context.Context, cfg *config.Config, cs seed.CharacterStore, log zerolog.Logger) error {
	if cfg.SeedFile == "" {
		return nil
	}
	f, err := seed.Load(cfg.SeedFile)
	if err != nil {
		return err
	}
	n, err := seed.Apply(ctx, cs, f, log)
	if err != nil {
		return err
	}
	log.Info().Int("created", n).Str("file", cfg.SeedFile).Msg("seed file applied")
	return nil
}

// startHealthCheckers starts component checkers and the service-level aggregator.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, d *deps) *health.ServiceHealthChecker {
	probeTimeout := cfg.HealthProbeTimeout()
	interval := cfg.HealthInterval()

	storeChecker := store.NewHealthChecker(d.store, log, probeTimeout)
	go storeChecker.Start(ctx, interval)
	checkers := []health.HealthChecker{storeChecker}

	if d.redis != nil {
		cacheChecker := cache.NewHealthChecker(d.redis, log, probeTimeout)
		go cacheChecker.Start(ctx, interval)
		checkers = append(checkers, cacheChecker)
	}

	svcHealth := health.NewServiceHealthChecker(log, checkers...)
	go svcHealth.Start(ctx, interval)
	return svcHealth
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		// Chat runs up to three model calls in one request.
		WriteTimeout: 120 * time.Second,
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

// startupHealthTimeout is twice the health interval, never under 60 seconds.
func startupHealthTimeout(interval time.Duration) time.Duration {
	timeout := 2 * interval
	if timeout < time.Minute {
		return time.Minute
	}
	return timeout
}

// waitUntilHealthy blocks until service health is healthy or the startup window expires.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, svcHealth *health.ServiceHealthChecker) error {
	timeout := startupHealthTimeout(cfg.HealthInterval())
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if svcHealth.IsHealthy() {
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
