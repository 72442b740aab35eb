// Package mcp parses MCP command flags, opens the table store and serves the
// table over stdio or HTTP.
package mcp

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/louisbranch/duskwall/internal/core/dice"
	platformcmd "github.com/louisbranch/duskwall/internal/platform/cmd"
	"github.com/louisbranch/duskwall/internal/platform/config"
	"github.com/louisbranch/duskwall/internal/random"
	"github.com/louisbranch/duskwall/internal/services/mcp/service"
	"github.com/louisbranch/duskwall/internal/services/table/app"
	"github.com/louisbranch/duskwall/internal/services/table/storage"
	"github.com/louisbranch/duskwall/internal/services/table/storage/memory"
	"github.com/louisbranch/duskwall/internal/services/table/storage/sqlite"
)

// Config holds MCP command configuration. An empty DBPath keeps the table
// in memory and a zero Seed draws a fresh one.
type Config struct {
	DBPath       string   `env:"DUSKWALL_DB_PATH"`
	Seed         int64    `env:"DUSKWALL_SEED"`
	Locale       string   `env:"DUSKWALL_LOCALE"            envDefault:"en-US"`
	Transport    string   `env:"DUSKWALL_MCP_TRANSPORT"     envDefault:"stdio"`
	HTTPAddr     string   `env:"DUSKWALL_MCP_HTTP_ADDR"     envDefault:"localhost:8081"`
	AllowedHosts []string `env:"DUSKWALL_MCP_ALLOWED_HOSTS" envSeparator:","`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string, lookup config.LookupFunc) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfigWith(&cfg, lookup); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "sqlite database path (empty keeps state in memory)")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "dice seed (0 picks one at random)")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "locale for labels and error messages")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run serves the table over MCP until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceMCP, func(ctx context.Context) error {
		store, err := openStore(ctx, cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Printf("close store: %v", err)
			}
		}()

		seed, err := random.ResolveSeed(cfg.Seed)
		if err != nil {
			return err
		}
		log.Printf("dice seed %d", seed)

		table, err := app.New(store, dice.NewSeededSource(seed))
		if err != nil {
			return fmt.Errorf("build table: %w", err)
		}
		return service.Run(ctx, table, service.Config{
			Transport:    service.TransportKind(strings.ToLower(strings.TrimSpace(cfg.Transport))),
			HTTPAddr:     cfg.HTTPAddr,
			AllowedHosts: cfg.AllowedHosts,
			Locale:       cfg.Locale,
		})
	})
}

// openStore opens the sqlite store at path, or an in-memory store when path
// is empty.
func openStore(ctx context.Context, path string) (storage.Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return memory.New(), nil
	}
	store, err := sqlite.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open table store: %w", err)
	}
	return store, nil
}
