package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/lychee-technology/queryc"
	"github.com/lychee-technology/queryc/factory"
	"github.com/lychee-technology/queryc/internal"
	"go.uber.org/zap"
)

// Server wraps the wired App in an HTTP mux.
type Server struct {
	app        *factory.App
	mux        *http.ServeMux
	logQueries bool
}

// NewServer creates a new Server around an already-wired App.
func NewServer(app *factory.App, logQueries bool) *Server {
	return &Server{
		app:        app,
		mux:        http.NewServeMux(),
		logQueries: logQueries,
	}
}

// RegisterRoutes registers the server's two routes: the health check and
// the catch-all endpoint query handler.
func (s *Server) RegisterRoutes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.HandleFunc("/", s.handleEndpointQuery)
}

// Start runs the HTTP server until ctx is canceled, then drains
// in-flight requests for at most shutdownWindow before returning.
func (s *Server) Start(ctx context.Context, cfg queryc.ServerConfig) error {
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      s.mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.S().Infow("starting server", "port", cfg.Port)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		zap.S().Info("shutdown signal received, draining connections")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownWindow)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	sugar := logger.Sugar()

	configPath := getEnv("QUERYC_CONFIG_FILE", "")
	cfg, err := loadConfig(configPath)
	if err != nil {
		sugar.Fatalf("failed to load config: %v", err)
	}

	endpoints, err := loadEndpoints(cfg.Server.EndpointsFile)
	if err != nil {
		sugar.Fatalf("failed to load endpoints: %v", err)
	}

	secrets := internal.NewMemorySecretStore(nil)

	ctx := context.Background()
	app, err := factory.NewApp(ctx, cfg, endpoints, secrets)
	if err != nil {
		sugar.Fatalf("failed to wire application: %v", err)
	}
	defer app.Close()

	if err := loadAccelerations(ctx, cfg.Server.AccelFile, app.Registry, app.Secrets, cfg.Database); err != nil {
		sugar.Fatalf("failed to materialize accelerated datasets: %v", err)
	}

	server := NewServer(app, cfg.Logging.EnableQueryLogging)
	server.RegisterRoutes()

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Start(runCtx, cfg.Server); err != nil {
		sugar.Fatalf("server error: %v", err)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
