// Package seed parses seed-tool flags and populates a CRM database.
package seed

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/copperline/copperline/internal/crm/service"
	"github.com/copperline/copperline/internal/crm/storage/sqlite"
	"github.com/copperline/copperline/internal/platform/cmd"
	"github.com/copperline/copperline/internal/platform/config"
	"github.com/copperline/copperline/internal/tools/seedgen"
)

// Config holds seed command configuration.
type Config struct {
	DBPath string `env:"COPPERLINE_DB_PATH" envDefault:"copperline.db"`
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
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the SQLite database file")
	if err := cmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run populates the database with the sample data set.
func Run(ctx context.Context, cfg Config) error {
	return cmd.RunWithTelemetry(ctx, cmd.ServiceSeed, func(ctx context.Context) error {
		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

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

		summary, err := seedgen.Apply(ctx, svc)
		if err != nil {
			return fmt.Errorf("seed database: %w", err)
		}

		logger.Info("database seeded",
			slog.String("db", cfg.DBPath),
			slog.Int("customers", summary.Customers),
			slog.Int("products", summary.Products),
			slog.Int("orders", summary.Orders),
		)
		return nil
	})
}
