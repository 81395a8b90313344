package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"

	"github.com/gcbaptista/record-search/api"
	"github.com/gcbaptista/record-search/config"
	"github.com/gcbaptista/record-search/internal/engine"
	"github.com/gcbaptista/record-search/internal/logger"
	"github.com/gcbaptista/record-search/internal/metrics"
	"github.com/gcbaptista/record-search/internal/persistence"
	"github.com/gcbaptista/record-search/model"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	snapshotFlag := &cli.StringFlag{
		Name:    "snapshot",
		Aliases: []string{"s"},
		Usage:   "Path to a JSON or YAML item snapshot (overrides loader.snapshotPath)",
	}

	return &cli.App{
		Name:   "search_engine",
		Usage:  "In-memory record search engine with ranked, typo-tolerant queries",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
				EnvVars: []string{"RS_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Override logging level (debug, info, warn, error)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Load the snapshot and serve the HTTP API",
				Action: serveCommand,
				Flags: []cli.Flag{
					snapshotFlag,
					&cli.IntFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Usage:   "Port to listen on (overrides server.port)",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Run one query against a snapshot and print the results as JSON",
				ArgsUsage: "<query words...>",
				Action:    searchCommand,
				Flags:     []cli.Flag{snapshotFlag},
			},
			{
				Name:      "alternatives",
				Usage:     "Print the alternatives of an item as JSON",
				ArgsUsage: "<item-id>",
				Action:    alternativesCommand,
				Flags:     []cli.Flag{snapshotFlag},
			},
		},
	}
}

// loadConfig reads the config file and applies command-line overrides, then installs the logger.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if level := c.String("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	if snapshot := c.String("snapshot"); snapshot != "" {
		cfg.Loader.SnapshotPath = snapshot
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	return cfg, nil
}

func loadItems(path string) ([]model.Item, error) {
	if path == "" {
		return []model.Item{}, nil
	}
	return persistence.LoadSnapshot(path)
}

// openEngine indexes the first chunk synchronously so the engine is queryable
// at once, and appends the rest in a background job.
func openEngine(cfg *config.Config, items []model.Item, opts ...engine.Option) (*engine.Engine, error) {
	opts = append(opts,
		engine.WithSettings(cfg.Engine),
		engine.WithWorkers(cfg.Loader.Workers),
		engine.WithChunkSize(cfg.Loader.ChunkSize),
	)

	first := len(items)
	if cfg.Loader.ChunkSize > 0 && cfg.Loader.ChunkSize < first {
		first = cfg.Loader.ChunkSize
	}
	eng, err := engine.New(items[:first], opts...)
	if err != nil {
		return nil, fmt.Errorf("building engine: %w", err)
	}
	if first < len(items) {
		jobID, err := eng.LoadAsync(items[first:], cfg.Loader.ChunkSize)
		if err != nil {
			eng.Close()
			return nil, fmt.Errorf("starting snapshot load: %w", err)
		}
		slog.Info("loading remaining items in background", "job_id", jobID, "items", len(items)-first)
	}
	return eng, nil
}

// openSynchronously indexes every item before returning, for one-shot commands.
func openSynchronously(c *cli.Context) (*engine.Engine, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	items, err := loadItems(cfg.Loader.SnapshotPath)
	if err != nil {
		return nil, err
	}
	return engine.New(items, engine.WithSettings(cfg.Engine))
}

func serveCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if port := c.Int("port"); port > 0 {
		cfg.Server.Port = port
	}

	items, err := loadItems(cfg.Loader.SnapshotPath)
	if err != nil {
		return err
	}
	slog.Info("snapshot read", "path", cfg.Loader.SnapshotPath, "items", len(items))

	var prom *metrics.Metrics
	if cfg.Metrics.Enabled {
		prom = metrics.New()
	}
	eng, err := openEngine(cfg, items, engine.WithMetrics(prom))
	if err != nil {
		return err
	}
	defer eng.Close()

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(eng, eng.Jobs(), api.RouterConfig{
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Metrics:      prom,
	})
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("a query is required")
	}
	eng, err := openSynchronously(c)
	if err != nil {
		return err
	}
	defer eng.Close()

	query := strings.Join(c.Args().Slice(), " ")
	return writeJSON(c.App.Writer, eng.Search(query))
}

func alternativesCommand(c *cli.Context) error {
	id, err := strconv.Atoi(c.Args().First())
	if err != nil {
		return fmt.Errorf("an integer item id is required: %w", err)
	}
	eng, err := openSynchronously(c)
	if err != nil {
		return err
	}
	defer eng.Close()

	results, err := eng.FindAlternatives(id)
	if err != nil {
		return err
	}
	return writeJSON(c.App.Writer, results)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
