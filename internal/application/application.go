package application

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/jonasmerlin/dicetribution/internal/api"
	"github.com/jonasmerlin/dicetribution/internal/config"
	"github.com/jonasmerlin/dicetribution/internal/dice"
	"github.com/jonasmerlin/dicetribution/internal/storage"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	storage storage.Storage
	builder dice.Builder
	handler *api.Handler
	router  http.Handler
	logger  *zap.Logger
	server  *http.Server
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	store := storage.NewMemoryStorage()
	if err := store.SetDice(cfg.InitialDice); err != nil {
		return nil, fmt.Errorf("failed to apply initial dice set: %w", err)
	}

	builder := dice.New()
	handler, err := api.NewHandler(builder, store)
	if err != nil {
		return nil, fmt.Errorf("failed to prime distribution cache: %w", err)
	}
	router := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	return &App{
		storage: store,
		builder: builder,
		handler: handler,
		router:  router,
		logger:  logger,
		server:  NewServer(cfg, router),
	}, nil
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening",
			zap.String("addr", a.server.Addr),
			zap.String("dice", currentNotation(a.storage)),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// Router returns the fully assembled HTTP handler, primarily for tests.
func (a *App) Router() http.Handler {
	return a.router
}

func currentNotation(store storage.Storage) string {
	sides, err := store.GetDice()
	if err != nil || len(sides) == 0 {
		return "none"
	}
	return dice.FormatSet(sides)
}
