package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pable/hoopstats/internal/config"
	"github.com/pable/hoopstats/internal/ingest"
	"github.com/pable/hoopstats/internal/logger"
	"github.com/pable/hoopstats/internal/metrics"
	"github.com/pable/hoopstats/internal/model"
	"github.com/pable/hoopstats/internal/nbaapi"
	"github.com/pable/hoopstats/internal/report"
	"github.com/pable/hoopstats/internal/storage"
)

// Set by the linker at build time.
var version = "dev"

var (
	configFile string

	// v collects defaults, the config file, HOOPSTATS_* variables and flags.
	v = config.NewViper("")

	// cfg is the validated configuration, set before any command runs.
	cfg *config.Config
	log logger.Logger = logger.Nop()
)

var rootCmd = &cobra.Command{
	Use:           "hoopstats",
	Short:         "NBA stats ingestion, rolling averages and insights",
	Long:          "Fetch NBA player stats into a local database, compute rolling averages, and serve them over a REST API with LLM-written insights.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return loadConfig()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file (default .hoopstats.yaml in . or $HOME)")
	pf.String("db", config.DefaultDBPath(), "SQLite path or PostgreSQL/MySQL DSN")
	pf.String("db-backend", string(storage.SQLite), "database backend: sqlite, postgresql or mysql")
	pf.String("season", config.DefaultSeason, "season in YYYY-YY form")
	pf.String("log-level", "info", "log level: debug, info, warn or error")
	pf.Duration("request-delay", config.DefaultRequestDelay, "pause before each stats.nba.com request")
	for _, name := range []string{"db", "db-backend", "season", "log-level", "request-delay"} {
		if err := v.BindPFlag(name, pf.Lookup(name)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(bulkCmd)
	rootCmd.AddCommand(rollingCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
}

// bindFlags binds a command's local flags to config keys of the same name.
func bindFlags(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := v.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func loadConfig() error {
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	c, err := config.Load(v)
	if err != nil {
		return err
	}
	l, err := logger.New(os.Stderr, c.LogLevel)
	if err != nil {
		return fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	cfg, log = c, l
	return nil
}

// openDB opens the configured store, creating the SQLite directory if needed.
func openDB(ctx context.Context) (*storage.DB, error) {
	backend := cfg.Backend()
	if backend == storage.SQLite && cfg.DB != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DB), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := storage.Open(ctx, backend, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return db, nil
}

func newProvider(m *metrics.Manager) *nbaapi.Client {
	return nbaapi.NewClient(
		nbaapi.WithBaseURL(cfg.NBABaseURL),
		nbaapi.WithRequestDelay(cfg.RequestDelay),
		nbaapi.WithObserver(m.ObserveProvider),
	)
}

func newPipeline(db *storage.DB) *ingest.Pipeline {
	return ingest.New(db, newProvider(nil), log, cfg.Windows, nil)
}

// resolvePlayer turns a name into one player. Ambiguous names print the
// ranked candidates and fail unless pick selects one of them.
func resolvePlayer(ctx context.Context, p *ingest.Pipeline, name string, pick int) (model.Player, error) {
	cands, err := p.ResolvePlayer(ctx, name, cfg.Season)
	if err != nil {
		return model.Player{}, err
	}
	player, err := ingest.Select(cands, pick)
	if errors.Is(err, ingest.ErrAmbiguousPlayer) {
		fmt.Fprintf(os.Stderr, "%d players match %q:\n", len(cands), name)
		report.PrintCandidates(os.Stderr, cands)
		return model.Player{}, fmt.Errorf("%w: rerun with --pick N", err)
	}
	return player, err
}

// storedPlayer resolves a name or numeric player id against stored players only.
func storedPlayer(ctx context.Context, db *storage.DB, name string, pick int) (model.Player, error) {
	if id, err := strconv.ParseInt(name, 10, 64); err == nil {
		p, err := db.GetPlayer(ctx, id)
		if err != nil {
			return model.Player{}, err
		}
		return *p, nil
	}
	found, err := db.SearchPlayers(ctx, name, false, 0)
	if err != nil {
		return model.Player{}, err
	}
	cands := ingest.RankCandidates(name, found)
	player, err := ingest.Select(cands, pick)
	if errors.Is(err, ingest.ErrAmbiguousPlayer) {
		fmt.Fprintf(os.Stderr, "%d players match %q:\n", len(cands), name)
		report.PrintCandidates(os.Stderr, cands)
		return model.Player{}, fmt.Errorf("%w: rerun with --pick N", err)
	}
	if errors.Is(err, ingest.ErrPlayerNotFound) {
		return model.Player{}, fmt.Errorf("%w: %q is not stored, run `hoopstats ingest --player %q` first", err, name, name)
	}
	return player, err
}

func printFailures(sum ingest.Summary) {
	fmt.Fprintf(os.Stdout, "\n%d/%d succeeded\n", sum.Succeeded, sum.Total)
	if len(sum.Failed) == 0 {
		return
	}
	fmt.Fprintf(os.Stdout, "%d failed:\n", len(sum.Failed))
	for _, f := range sum.Failed {
		fmt.Fprintf(os.Stdout, "  - %s\n", f)
	}
}
