package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quizbot-service/internal/app"
	"quizbot-service/internal/config"
	"quizbot-service/internal/llm"
	"quizbot-service/internal/quizgen"

	memorycache "quizbot-service/internal/infra/memory"
	rediscache "quizbot-service/internal/infra/redis"
	transport "quizbot-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	source, err := buildQuizSource(ctx, cfg)
	if err != nil {
		return err
	}

	store := app.NewSessionStore()
	service := app.NewQuizService(source, store)
	handler := transport.NewHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	handler.Register(mux)

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go runSweeper(sweepCtx, store, cfg)

	go func() {
		log.Printf("starting quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildQuizSource assembles provider -> generator -> cache. With a Redis
// address configured the generated-quiz cache lives in Redis, otherwise in
// process memory.
func buildQuizSource(ctx context.Context, cfg config.Config) (app.QuizSource, error) {
	if err := cfg.LLM.Validate(); err != nil {
		return nil, err
	}
	provider, err := llm.NewProvider(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}

	generator := quizgen.New(provider, generatorConfig(cfg))
	cacheTTL := config.TTLDuration(cfg.Cache.TTL, 10*time.Minute)

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return rediscache.NewQuizCache(client, generator, cacheTTL), nil
	}
	return memorycache.NewQuizCache(generator, cacheTTL), nil
}

func generatorConfig(cfg config.Config) quizgen.Config {
	gcfg := quizgen.DefaultConfig()
	if cfg.Generator.MaxTokens > 0 {
		gcfg.MaxTokens = cfg.Generator.MaxTokens
	}
	if cfg.Generator.Temperature > 0 {
		gcfg.Temperature = cfg.Generator.Temperature
	}
	gcfg.Timeout = config.TTLDuration(cfg.Generator.Timeout, gcfg.Timeout)
	return gcfg
}

// runSweeper periodically removes sessions inactive beyond the configured
// age. Expiry runs out of band so user-facing calls never pay for it.
func runSweeper(ctx context.Context, store *app.SessionStore, cfg config.Config) {
	interval := config.TTLDuration(cfg.Session.SweepInterval, time.Hour)
	maxAge := time.Duration(cfg.Session.MaxAgeHours) * time.Hour
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := store.SweepExpired(maxAge); removed > 0 {
				log.Printf("swept %d expired sessions", removed)
			}
		case <-ctx.Done():
			return
		}
	}
}
