package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/lancedb-remote/internal/config"
	"github.com/samvad-hq/lancedb-remote/internal/logger"
	"github.com/samvad-hq/lancedb-remote/internal/respcache"
	"github.com/samvad-hq/lancedb-remote/pkg/middlewares"
	"github.com/samvad-hq/lancedb-remote/pkg/remote"
)

const usage = `usage:
  lancectl get <path>
  lancectl search <table> <query.yaml>

configuration via environment (or .env): LANCEDB_URI, LANCEDB_API_KEY,
LANCEDB_DATABASE, LOG_LEVEL, CACHE_TYPE, CACHE_PATH, CACHE_TTL_SECONDS.
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "lancectl: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) < 1 {
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("missing command")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cache, err := respcache.New(cfg.CacheType, cfg.CachePath, respcache.Options{
		TTL:             cfg.CacheTTL,
		CleanupInterval: cfg.CacheCleanupInterval,
	})
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}
	defer cache.Close()

	var opts []remote.Option
	if cfg.Database != "" {
		opts = append(opts, remote.WithDatabase(cfg.Database))
	}
	client, err := remote.NewClient(cfg.URI, remote.StaticCredentials(cfg.APIKey), opts...)
	if err != nil {
		return fmt.Errorf("build client: %w", err)
	}
	client = client.
		WithMiddleware(middlewares.NewLogging(log)).
		WithMiddleware(middlewares.NewCache(cache, log))

	switch args[0] {
	case "get":
		if len(args) != 2 {
			return fmt.Errorf("usage: lancectl get <path>")
		}
		return runGet(ctx, client, args[1])
	case "search":
		if len(args) != 3 {
			return fmt.Errorf("usage: lancectl search <table> <query.yaml>")
		}
		return runSearch(ctx, client, args[1], args[2])
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func runGet(ctx context.Context, client *remote.Client, path string) error {
	resp, err := client.Get(ctx, path, nil)
	if err != nil {
		return err
	}

	body, err := resp.Body()
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	fmt.Printf("%s\n", resp.Status)
	if len(body) > 0 {
		fmt.Printf("%s\n", body)
	}
	return nil
}

func runSearch(ctx context.Context, client *remote.Client, table, queryFile string) error {
	spec, err := config.LoadQuerySpec(queryFile)
	if err != nil {
		return err
	}

	result, err := client.Search(ctx, table, spec.ToVectorQuery())
	if err != nil {
		return err
	}
	defer result.Close()

	rows, err := result.Rows()
	if err != nil {
		return fmt.Errorf("materialize rows: %w", err)
	}

	out, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("encode rows: %w", err)
	}
	fmt.Printf("%d rows\n%s\n", result.NumRows(), out)
	return nil
}
