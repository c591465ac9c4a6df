package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartlayout/internal/server"
	"github.com/matzehuels/chartlayout/pkg/cache"
	"github.com/matzehuels/chartlayout/pkg/layout"
	"github.com/matzehuels/chartlayout/pkg/pipeline"
)

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	addr       string
	configPath string
	timeout    time.Duration
	maxCharts  int
	cache      server.CacheConfig
}

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	so := serveOpts{addr: server.DefaultAddr}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Layouts and artifacts are cached in memory. --redis adds a shared Redis
tier and --mongo a durable MongoDB tier behind it, so several instances
can reuse each other's work.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), so)
		},
	}

	cmd.Flags().StringVar(&so.addr, "addr", so.addr, "listen address")
	cmd.Flags().StringVar(&so.configPath, "config", "", "engine thresholds (TOML) applied to every request")
	cmd.Flags().DurationVar(&so.timeout, "timeout", 30*time.Second, "per-request timeout (0 disables)")
	cmd.Flags().IntVar(&so.maxCharts, "max-charts", server.DefaultMaxCharts, "charts accepted by one export request")
	cmd.Flags().IntVar(&so.cache.MemoryEntries, "memory", cache.DefaultMemoryEntries, "in-memory cache entries")
	cmd.Flags().StringVar(&so.cache.RedisURL, "redis", "", "Redis URL for a shared cache tier")
	cmd.Flags().StringVar(&so.cache.MongoURI, "mongo", "", "MongoDB URI for a durable cache tier")
	cmd.Flags().StringVar(&so.cache.MongoDatabase, "mongo-db", cache.DefaultMongoDatabase, "MongoDB database")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, so serveOpts) error {
	store, err := server.NewCache(ctx, so.cache)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(store, cache.NewScopedKeyer(cache.NewDefaultKeyer(), "api"), c.Logger)
	defer runner.Close()

	var engine *layout.Config
	if so.configPath != "" {
		cfg, err := layout.LoadConfig(so.configPath)
		if err != nil {
			return err
		}
		engine = &cfg
	}

	c.Logger.Info("cache",
		"memory", so.cache.MemoryEntries,
		"redis", so.cache.RedisURL != "",
		"mongo", so.cache.MongoURI != "")

	srv := server.New(server.Config{
		Addr:           so.addr,
		Runner:         runner,
		Engine:         engine,
		Logger:         c.Logger,
		MaxCharts:      so.maxCharts,
		RequestTimeout: so.timeout,
	})
	return srv.ListenAndServe(ctx)
}
