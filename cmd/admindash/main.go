// Command admindash serves the admin dashboard and runs maintenance tasks
// against its database.
//
// Usage:
//
//	admindash [serve]             start the HTTP server (default)
//	admindash migrate             create the dashboard tables
//	admindash seed                replace all data with the default data set
//	admindash report              print KPIs and the product table
//	admindash export -format=yaml write the analytics export to stdout
//
// Configuration is read from $HOME/.config/admindash/config.toml, the file
// named by ADMINDASH_CONFIG, and ADMINDASH_* environment variables
// (e.g. ADMINDASH_DATABASE_URL, ADMINDASH_HTTP_ADDR). Without a database URL
// the dashboard runs on an in-memory store seeded with the default data set.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq" // registers the "postgres" database/sql driver

	"github.com/youssefsiam38/admindash"
	"github.com/youssefsiam38/admindash/driver"
	"github.com/youssefsiam38/admindash/driver/databasesql"
	"github.com/youssefsiam38/admindash/driver/memory"
	"github.com/youssefsiam38/admindash/driver/pgxv5"
	"github.com/youssefsiam38/admindash/storage"
	"github.com/youssefsiam38/admindash/ui"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "admindash:", err)
		os.Exit(1)
	}
}

var errUsage = errors.New("usage: admindash [serve|migrate|seed|report|export]")

func run(args []string, stdout io.Writer) error {
	command := "serve"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		command, args = args[0], args[1:]
	}
	switch command {
	case "serve", "migrate", "seed", "report", "export":
	default:
		return fmt.Errorf("unknown command %q\n%w", command, errUsage)
	}

	cfg, err := Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	inv := &invocation{name: command, args: args, cfg: cfg, logger: logger, stdout: stdout}
	return inv.dispatch(ctx)
}

// invocation is one run of a subcommand. The client type depends on the
// driver, so the work itself lives in the generic execute.
type invocation struct {
	name   string
	args   []string
	cfg    Config
	logger *slog.Logger
	stdout io.Writer
}

func (c *invocation) dispatch(ctx context.Context) error {
	if c.cfg.Database.URL == "" {
		c.logger.Warn("database.url is not set, data is kept in memory")
		drv := memory.New(storage.NewMemoryStore())
		return execute(ctx, c, drv, true)
	}

	switch c.cfg.Database.Driver {
	case driverSQL:
		db, err := sql.Open("postgres", c.cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping database: %w", err)
		}
		return execute(ctx, c, databasesql.New(db, c.cfg.Database.URL), false)
	default:
		pool, err := pgxpool.New(ctx, c.cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			return fmt.Errorf("ping database: %w", err)
		}
		return execute(ctx, c, pgxv5.New(pool), false)
	}
}

func execute[TTx any](ctx context.Context, c *invocation, drv driver.Driver[TTx], ephemeral bool) error {
	if c.name == "migrate" {
		if err := drv.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		c.logger.Info("schema is up to date")
		return nil
	}

	client, err := admindash.NewClient(drv, &admindash.ClientConfig{
		Logger:             c.logger,
		SnapshotSchedule:   c.cfg.Metrics.Schedule,
		ActivityRetention:  c.cfg.Activity.Retention,
		DisableMaintenance: c.name != "serve",
	})
	if err != nil {
		return err
	}
	if ephemeral || c.name == "seed" {
		if err := client.ResetData(ctx); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	switch c.name {
	case "seed":
		c.logger.Info("data reset to defaults")
		return nil
	case "report":
		return writeReport(ctx, c.stdout, client)
	case "export":
		return exportAnalytics(ctx, c.stdout, client, c.args)
	}
	return serve(ctx, c, client)
}

func exportAnalytics[TTx any](ctx context.Context, w io.Writer, client *admindash.Client[TTx], args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	format := fs.String("format", string(admindash.ExportJSON), "export format (json or yaml)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	f, err := admindash.ParseExportFormat(*format)
	if err != nil {
		return err
	}
	return client.ExportAnalytics(ctx, w, f)
}

func serve[TTx any](ctx context.Context, c *invocation, client *admindash.Client[TTx]) error {
	if err := client.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := client.Stop(context.Background()); err != nil {
			c.logger.Warn("client stop", "error", err)
		}
	}()

	uiCfg := &ui.Config{
		BasePath:        c.cfg.UI.BasePath,
		ReadOnly:        c.cfg.UI.ReadOnly,
		RefreshInterval: c.cfg.UI.RefreshInterval,
		PageSize:        c.cfg.UI.PageSize,
		Logger:          c.logger,
	}

	mux := http.NewServeMux()
	base := c.cfg.UI.BasePath
	if base == "" {
		mux.Handle("/", ui.UIHandler(client, uiCfg))
	} else {
		mux.Handle(base+"/", http.StripPrefix(base, ui.UIHandler(client, uiCfg)))
		mux.Handle("GET /{$}", http.RedirectHandler(base+"/", http.StatusFound))
	}
	mux.Handle("/api/", http.StripPrefix("/api", ui.APIHandler(client, uiCfg)))
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	server := &http.Server{
		Addr:    c.cfg.HTTP.Addr,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		c.logger.Info("starting server", "addr", c.cfg.HTTP.Addr, "ui", base+"/", "api", "/api/")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	c.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
