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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"

	"vpaura/backend/internal/api"
	"vpaura/backend/internal/config"
	"vpaura/backend/internal/database"
	"vpaura/backend/internal/guardrail"
	"vpaura/backend/internal/intent"
	"vpaura/backend/internal/llm"
	"vpaura/backend/internal/repository"
	"vpaura/backend/internal/service"
	"vpaura/backend/internal/workflow"
)

const (
	providerWaitTimeout = 60 * time.Second
	settingsInitTimeout = 5 * time.Second
	shutdownTimeout     = 15 * time.Second
)

// App holds the wired application.
type App struct {
	Config  *config.Config
	DB      *sql.DB
	Redis   *redis.Client
	Server  *http.Server
	Invoker *llm.Invoker
	Router  *intent.Router
	Chat    *service.ChatService
}

// NewApp connects storage and wires every component for cfg.
func NewApp(cfg *config.Config) (*App, error) {
	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("Successfully connected to SQLite database.", "path", cfg.DatabasePath)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := llm.NewMetrics(registry)

	validator := guardrail.NewValidator(cfg.EnableGuardrail,
		guardrail.NewContentCheck(guardrail.DefaultCategories()...),
		guardrail.NewPIICheck(false),
	)
	invoker := llm.NewInvoker(llm.InvokerConfigFromConfig(cfg), validator, metrics)

	users := repository.NewSQLiteUserRepository(db)
	sessions := repository.NewSQLiteSessionRepository(db)
	messages := repository.NewSQLiteMessageRepository(db)
	documents := repository.NewSQLiteDocumentRepository(db)
	checkpoints := repository.NewRedisCheckpointStore(rdb)

	// No graph database is configured, so the graph workflow plans and
	// answers without executing queries.
	workflows := workflow.NewRegistry(
		workflow.NewChatWorkflow(invoker, checkpoints, cfg.SystemPrompt),
		workflow.NewGraphWorkflow(invoker, nil, checkpoints, cfg.SystemPrompt),
		workflow.NewRAGWorkflow(invoker, documents, checkpoints, cfg.SystemPrompt),
	)

	rules := intent.DefaultRules()
	if cfg.IntentRulesPath != "" {
		if rules, err = intent.LoadRules(cfg.IntentRulesPath); err != nil {
			_ = db.Close()
			_ = rdb.Close()
			return nil, fmt.Errorf("failed to load intent rules: %w", err)
		}
		slog.Info("Loaded intent rules", "path", cfg.IntentRulesPath)
	}
	router := intent.NewRouter(intent.NewKeywordClassifier(rules), workflows, cfg.ConfidenceThreshold)

	settingsService := service.NewSettingsService(rdb, invoker)
	ctx, cancel := context.WithTimeout(context.Background(), settingsInitTimeout)
	defer cancel()
	var prompts service.PromptSource
	if appSettings, err := settingsService.InitAndGet(ctx, cfg.SystemPrompt); err != nil {
		slog.Warn("Could not initialize runtime settings, using configuration", "error", err)
	} else {
		prompts = settingsService
		slog.Info("Loaded application settings", "model", appSettings.Model)
	}

	chatService := service.NewChatService(users, sessions, messages, router, invoker,
		cfg.HistoryLimit, cfg.SystemPrompt, service.WithPromptSource(prompts))
	sessionService := service.NewSessionService(sessions, checkpoints)
	messageService := service.NewMessageService(messages, sessions)
	userService := service.NewUserService(users)
	documentService := service.NewDocumentService(documents, users)
	modelService := service.NewModelService(invoker, workflows, validator.Enabled())

	handler := api.NewRouter(api.Handlers{
		Chat:      api.NewChatHandler(chatService),
		Sessions:  api.NewSessionHandler(sessionService, messageService),
		Users:     api.NewUserHandler(userService),
		Documents: api.NewDocumentHandler(documentService),
		Models:    api.NewModelHandler(modelService, settingsService),
		Metrics:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}, cfg.Origins())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           handler,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // Disabled for streaming endpoints
		IdleTimeout:       120 * time.Second,
	}

	return &App{
		Config:  cfg,
		DB:      db,
		Redis:   rdb,
		Server:  server,
		Invoker: invoker,
		Router:  router,
		Chat:    chatService,
	}, nil
}

// Close releases storage connections.
func (a *App) Close() error {
	return errors.Join(a.DB.Close(), a.Redis.Close())
}

// Serve listens until ctx is canceled, then shuts down gracefully.
func (a *App) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "addr", a.Server.Addr, "environment", a.Config.Environment)
		errCh <- a.Server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return a.Server.Shutdown(shutdownCtx)
}

// Run loads configuration, wires the application and serves until SIGINT or
// SIGTERM. It returns the process exit code.
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

	if llm.ProviderType(cfg.LLMProvider) == llm.ProviderOllama {
		waitForOllama(ctx, cfg.LLMBaseURL, providerWaitTimeout)
	}

	a, err := NewApp(cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return 1
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Error("Failed to close connections", "error", err)
		}
	}()

	if err := a.Serve(ctx); err != nil {
		slog.Error("Server failed", "error", err)
		return 1
	}
	return 0
}

// Migrate loads configuration and applies database migrations only.
func Migrate() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}
	setupLogger(cfg.LogLevel)

	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		slog.Error("Failed to migrate database", "error", err)
		return 1
	}
	defer func() { _ = db.Close() }()
	slog.Info("Database is up to date", "path", cfg.DatabasePath)
	return 0
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

// waitForOllama polls the Ollama base URL until it answers 200, ctx ends or
// timeout passes. Startup continues either way; failed calls are retried by
// the invoker.
func waitForOllama(ctx context.Context, baseURL string, timeout time.Duration) bool {
	slog.Info("Waiting for Ollama to be ready...", "url", baseURL)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := &http.Client{Timeout: 2 * time.Second}
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
		if err != nil {
			slog.Warn("Invalid Ollama URL", "url", baseURL, "error", err)
			return false
		}
		resp, err := client.Do(req)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				slog.Info("Ollama is ready.")
				return true
			}
		}
		slog.Debug("Ollama not ready yet, retrying...", "url", baseURL, "error", err)

		select {
		case <-ctx.Done():
			slog.Warn("Ollama did not become ready, continuing startup", "url", baseURL)
			return false
		case <-ticker.C:
		}
	}
}
