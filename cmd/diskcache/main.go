package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"diskcache/internal/backend"
	"diskcache/internal/backend/bolt"
	"diskcache/internal/backend/fsdir"
	"diskcache/internal/config"
	"diskcache/internal/logging"
	"diskcache/pkg/diskcache"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	root := flag.String("root", "", "store root (overrides config)")
	backendName := flag.String("backend", "", "backend: fsdir or bolt (overrides config)")
	workers := flag.Int("workers", 0, "worker count (overrides config)")
	logLevel := flag.String("log-level", "", "log level (overrides config)")
	flag.Parse()

	// Load config (TOML file with defaults)
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// CLI flags override config file values
	if *root != "" {
		cfg.Store.Root = *root
	}
	if *backendName != "" {
		cfg.Store.Backend = *backendName
	}
	if *workers != 0 {
		cfg.Store.Workers = *workers
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	cfg.Store.Root = config.ExpandHome(cfg.Store.Root)
	logging.Init(cfg.Log.Level, cfg.Log.Format)

	b, err := openBackend(cfg)
	if err != nil {
		log.Fatalf("backend: %v", err)
	}

	client, err := diskcache.New(b, cfg.Store.Workers, cfg.Store.QueueSize)
	if err != nil {
		log.Fatalf("store: %v", err)
	}

	if err := runREPL(client, cfg); err != nil {
		log.Printf("repl: %v", err)
	}
	if err := client.Close(); err != nil {
		log.Printf("close: %v", err)
	}
}

func openBackend(cfg *config.Config) (backend.Backend, error) {
	switch cfg.Store.Backend {
	case config.BackendBolt:
		if err := os.MkdirAll(cfg.Store.Root, 0700); err != nil {
			return nil, err
		}
		return bolt.Open(filepath.Join(cfg.Store.Root, "data.db"))
	default:
		return fsdir.Open(cfg.Store.Root)
	}
}
