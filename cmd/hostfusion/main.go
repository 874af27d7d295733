// Command hostfusion runs one full ingest cycle against every configured
// vendor source, deduplicating into the unified host store, then keeps the
// operational HTTP surface up so the last run's stats remain queryable.
//
// No flags are required: with no environment configured it runs against
// the in-memory store with whatever vendor credentials are present (none,
// in the zero-config case, which simply yields zero sources configured).
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Ap3pp3rs94/hostfusion/internal/adminhttp"
	"github.com/Ap3pp3rs94/hostfusion/internal/config"
	"github.com/Ap3pp3rs94/hostfusion/internal/dedup"
	"github.com/Ap3pp3rs94/hostfusion/internal/pipeline"
	"github.com/Ap3pp3rs94/hostfusion/internal/sources"
	"github.com/Ap3pp3rs94/hostfusion/internal/store"
	"github.com/Ap3pp3rs94/hostfusion/pkg/telemetry"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (defaults to $HOSTFUSION_CONFIG)")
	adminAddr := flag.String("admin-addr", "", "override the operational HTTP surface bind address")
	flag.Parse()

	logger := telemetry.NewLogger(os.Stdout, telemetry.Options{Service: "hostfusion"})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info(ctx, "shutdown_signal_received", nil)
		cancel()
	}()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error(ctx, "config_load_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	if *adminAddr != "" {
		cfg.AdminAddr = *adminAddr
	}

	st, err := openStore(cfg.StoreDSN)
	if err != nil {
		logger.Error(ctx, "store_open_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	if err := st.EnsureSchema(ctx); err != nil {
		logger.Error(ctx, "schema_ensure_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer st.Close()

	ledger := dedup.NewLedger()
	dd := dedup.New(st, ledger)

	sourceCfgs := buildSources(cfg)
	driver := pipeline.New(sourceCfgs, dd, logger, cfg.Concurrency)

	var lastRun pipeline.Result
	admin := adminhttp.New(cfg.AdminAddr, st, ledger, func() map[string]any {
		return summarizeResult(lastRun)
	}, logger)

	go func() {
		logger.Info(ctx, "admin_listen", map[string]any{"addr": cfg.AdminAddr})
		if err := admin.ListenAndServe(); err != nil {
			logger.Error(ctx, "admin_listen_failed", map[string]any{"error": err.Error()})
		}
	}()

	logger.Info(ctx, "pipeline_start", map[string]any{"sources": len(sourceCfgs)})
	result, err := driver.Run(ctx)
	if err != nil {
		logger.Error(ctx, "pipeline_failed", map[string]any{"error": err.Error()})
	} else {
		lastRun = result
		logger.Info(ctx, "pipeline_complete", summarizeResult(result))
	}

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = admin.Shutdown(shutdownCtx)
}

func openStore(dsn string) (store.Store, error) {
	switch {
	case dsn == "":
		return store.NewMemoryStore(), nil
	case strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://"):
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return store.NewPostgresStore(db), nil
	case strings.HasPrefix(dsn, "sqlite://"):
		path := strings.TrimPrefix(dsn, "sqlite://")
		db, err := sql.Open("sqlite3", path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return store.NewSQLiteStore(db), nil
	default:
		return nil, fmt.Errorf("unrecognized store dsn scheme: %q", dsn)
	}
}

func buildSources(cfg config.Config) []pipeline.SourceConfig {
	var cfgs []pipeline.SourceConfig

	if cfg.Qualys.BaseURL != "" {
		cfgs = append(cfgs, pipeline.SourceConfig{
			Name:   "Qualys",
			Client: sources.NewQualysClient(sources.HTTPConfig{BaseURL: cfg.Qualys.BaseURL, Token: cfg.Qualys.Token}, sources.DefaultPagerConfig()),
		})
	}
	if cfg.CrowdStrike.BaseURL != "" {
		cfgs = append(cfgs, pipeline.SourceConfig{
			Name:   "CrowdStrike",
			Client: sources.NewCrowdStrikeClient(sources.HTTPConfig{BaseURL: cfg.CrowdStrike.BaseURL, Token: cfg.CrowdStrike.Token}, sources.DefaultPagerConfig()),
		})
	}
	if cfg.Tenable.BaseURL != "" {
		cfgs = append(cfgs, pipeline.SourceConfig{
			Name:   "Tenable",
			Client: sources.NewTenableClient(sources.HTTPConfig{BaseURL: cfg.Tenable.BaseURL, Token: cfg.Tenable.Token}, sources.DefaultPagerConfig()),
		})
	}

	return cfgs
}

func summarizeResult(r pipeline.Result) map[string]any {
	out := make(map[string]any, len(r.Sources))
	for _, s := range r.Sources {
		entry := map[string]any{
			"fetched":    s.Fetched,
			"normalized": s.Normalized,
			"inserted":   s.Inserted,
			"merged":     s.Merged,
		}
		if s.Err != nil {
			entry["error"] = s.Err.Error()
		}
		out[s.Source] = entry
	}
	return out
}
