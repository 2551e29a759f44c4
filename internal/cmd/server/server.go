// Package server parses CRM server flags and launches the HTTP API.
package server

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	httpapi "github.com/copperline/copperline/internal/api/http"
	"github.com/copperline/copperline/internal/crm/service"
	"github.com/copperline/copperline/internal/crm/storage/sqlite"
	"github.com/copperline/copperline/internal/platform/cmd"
	"github.com/copperline/copperline/internal/platform/config"
)

const shutdownTimeout = 10 * time.Second

// Config holds CRM server configuration.
type Config struct {
	Port      int    `env:"COPPERLINE_PORT" envDefault:"8080"`
	DBPath    string `env:"COPPERLINE_DB_PATH" envDefault:"copperline.db"`
	JWTSecret string `env:"COPPERLINE_JWT_SECRET"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	if err := config.LoadDotenv(""); err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := cmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The HTTP API port")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the SQLite database file")
	if err := cmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the CRM HTTP API service and blocks until ctx is cancelled
// or the server fails.
func Run(ctx context.Context, cfg Config) error {
	return cmd.RunWithTelemetry(ctx, cmd.ServiceCRM, func(ctx context.Context) error {
		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
		slog.SetDefault(logger)

		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer store.Close()

		svc := service.New(service.Stores{
			Customers: store,
			Products:  store,
			Orders:    store,
		})
		router := httpapi.NewRouter(httpapi.Config{
			Service:   svc,
			Logger:    logger,
			JWTSecret: cfg.JWTSecret,
		})

		httpServer := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Port),
			Handler: router,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("crm api listening", slog.Int("port", cfg.Port))
			errCh <- httpServer.ListenAndServe()
		}()

		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		}
	})
}
