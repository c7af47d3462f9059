package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"

	"roadmate/backend/internal/api"
	"roadmate/backend/internal/auth"
	"roadmate/backend/internal/config"
	"roadmate/backend/internal/database"
	"roadmate/backend/internal/llm"
	"roadmate/backend/internal/lock"
	"roadmate/backend/internal/repository"
	"roadmate/backend/internal/service"
	"roadmate/backend/internal/storage"
)

const shutdownTimeout = 15 * time.Second

// App owns the long-lived resources of a running server.
type App struct {
	Server *http.Server
	DB     *sql.DB
	Redis  *redis.Client
}

func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not yet configured, so use the default logger for this critical error.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.LogLevel)

	logConfigSource()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.LLMProvider == "ollama" {
		if err := waitForOllama(ctx, cfg.OllamaURL); err != nil {
			slog.Error("Ollama never became ready", "error", err)
			return 1
		}
	}

	app, err := NewApp(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return 1
	}
	defer app.Close()

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "port", cfg.AppPort, "store", cfg.StoreBackend, "provider", cfg.LLMProvider)
		serverErr <- app.Server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			return 1
		}
		return 0
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
		return 1
	}
	slog.Info("Server stopped.")
	return 0
}

// NewApp opens the stores, builds the provider and wires the HTTP server. It
// does not start listening.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("could not initialize database: %w", err)
	}
	slog.Info("Successfully connected to SQLite database.")
	app := &App{DB: db}

	var (
		conversations repository.ConversationRepository
		locker        lock.Locker
	)
	switch cfg.StoreBackend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		app.Redis = rdb
		if err := rdb.Ping(ctx).Err(); err != nil {
			app.Close()
			return nil, fmt.Errorf("could not connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		slog.Info("Successfully connected to Redis.", "addr", cfg.RedisAddr)
		conversations = repository.NewRedisRepository(rdb)
		// The lock must outlive the longest turn it protects.
		locker = lock.NewRedisLocker(rdb, cfg.RequestTimeout+cfg.TurnLockWait, cfg.TurnLockWait)
	default:
		conversations = repository.NewSQLiteRepository(db)
		locker = lock.NewLocalLocker(cfg.TurnLockWait)
	}

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	blobs, err := storage.NewLocalStore(cfg.UploadDir, cfg.UploadBaseURL)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("could not initialize upload storage: %w", err)
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	users := repository.NewSQLiteUserRepository(db)

	chatService := service.NewChatService(conversations, provider, locker, service.ChatConfig{
		ContextTurns:    cfg.ContextWindowTurns,
		DefaultPageSize: cfg.HistoryPageSize,
		MaxPageSize:     cfg.HistoryMaxPageSize,
		TurnTimeout:     cfg.RequestTimeout,
	})
	authService := service.NewAuthService(users, tokens, strings.TrimRight(cfg.UploadBaseURL, "/")+"/default_profile.png")
	userService := service.NewUserService(users, blobs)
	reportService := service.NewReportService(repository.NewSQLiteReportRepository(db), blobs)

	router := api.NewRouter(api.Handlers{
		Chat:          api.NewChatHandler(chatService, !cfg.IsProduction()),
		Auth:          api.NewAuthHandler(authService),
		User:          api.NewUserHandler(userService),
		Report:        api.NewReportHandler(reportService),
		Authenticator: api.Authenticator(authService),
	}, api.RouterConfig{
		UploadDir:      cfg.UploadDir,
		RequestTimeout: cfg.RequestTimeout,
	})

	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		// The chat route waits on the provider for up to RequestTimeout.
		WriteTimeout: cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return app, nil
}

// Close releases the stores. It is safe to call on a partially built App.
func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			slog.Error("Failed to close redis connection", "error", err)
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}
}

func newProvider(ctx context.Context, cfg *config.Config) (llm.CompletionProvider, error) {
	switch cfg.LLMProvider {
	case "ollama":
		slog.Info("Using Ollama completion provider", "url", cfg.OllamaURL, "model", cfg.OllamaModel)
		return llm.NewOllamaProvider(cfg.OllamaURL, cfg.OllamaModel, cfg.SystemPrompt), nil
	default:
		provider, err := llm.NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.SystemPrompt, cfg.GeminiURL)
		if err != nil {
			return nil, fmt.Errorf("could not create gemini client: %w", err)
		}
		slog.Info("Using Gemini completion provider", "model", cfg.GeminiModel)
		return provider, nil
	}
}

func logConfigSource() {
	configFileUsed := viper.ConfigFileUsed()
	if configFileUsed != "" {
		slog.Info("Successfully loaded configuration from file.", "file", configFileUsed)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

func setupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}

// waitForOllama polls the Ollama root endpoint until it answers 200 or ctx
// is cancelled.
func waitForOllama(ctx context.Context, ollamaURL string) error {
	slog.Info("Waiting for Ollama to be ready...")
	client := &http.Client{Timeout: 2 * time.Second}
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ollamaURL, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if resp != nil {
			if bErr := resp.Body.Close(); bErr != nil {
				slog.Warn("Failed to close response body in ollama health check", "error", bErr)
			}
		}
		if err == nil && resp.StatusCode == http.StatusOK {
			slog.Info("Ollama is ready.")
			return nil
		}
		slog.Debug("Ollama not ready yet, retrying in 3 seconds...", "url", ollamaURL, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(3 * time.Second):
		}
	}
}
