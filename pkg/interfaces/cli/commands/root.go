package commands

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vsinha/prosim/pkg/application/services/simulation"
	"github.com/vsinha/prosim/pkg/infrastructure/config"
	"github.com/vsinha/prosim/pkg/infrastructure/events"
	"github.com/vsinha/prosim/pkg/infrastructure/metrics"
	"github.com/vsinha/prosim/pkg/infrastructure/repositories/file"
)

// GlobalOptions are the flags shared by every command
type GlobalOptions struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
	StateDir   string
	Strict     bool
}

// Env is everything a command needs to talk to the simulation
type Env struct {
	Config   config.Config
	Logger   *slog.Logger
	Repo     *file.CompanyRepository
	Events   *events.InMemoryEventStore
	Registry *prometheus.Registry
	Service  *simulation.Service
}

// NewEnv loads configuration and wires storage, events and metrics
func NewEnv(opts GlobalOptions, stderr io.Writer) (*Env, error) {
	logger, err := NewLogger(stderr, opts.LogLevel, opts.LogFormat)
	if err != nil {
		return nil, err
	}

	cfg := config.Default()
	if opts.ConfigPath != "" {
		cfg, err = config.Load(opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	repo, err := file.NewCompanyRepository(opts.StateDir)
	if err != nil {
		return nil, err
	}

	store := events.NewInMemoryEventStore(logger)
	if err := store.Subscribe(events.AllTypes, &events.HandlerFunc{
		Types: events.AllTypes,
		Fn: func(e events.Event) error {
			logger.Debug("event", "type", e.Type(), "stream", e.StreamID(), "version", e.Version())
			return nil
		},
	}); err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	sim := simulation.NewSimulator(cfg, opts.Strict)

	return &Env{
		Config:   cfg,
		Logger:   logger,
		Repo:     repo,
		Events:   store,
		Registry: registry,
		Service:  simulation.NewService(sim, repo, store, collector, logger),
	}, nil
}

// NewLogger builds a slog logger. level is debug, info, warn or error; format is text or json.
func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q, expected text or json", format)
	}
}

// BuildCLI assembles the prosim command tree
func BuildCLI() *cobra.Command {
	var opts GlobalOptions
	var env *Env

	rootCmd := &cobra.Command{
		Use:   "prosim",
		Short: "Weekly production management simulation",
		Long: `prosim runs a production company week by week: operators run parts and
assembly machines, material orders arrive after their lead time, demand ships
every few weeks and every decision is costed.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			env, err = NewEnv(opts, cmd.ErrOrStderr())
			return err
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "YAML rate table (defaults built in)")
	flags.StringVar(&opts.LogLevel, "log-level", "info", "log level: debug, info, warn, error")
	flags.StringVar(&opts.LogFormat, "log-format", "text", "log format: text or json")
	flags.StringVar(&opts.StateDir, "state-dir", "prosim-state", "directory holding company snapshots")
	flags.BoolVar(&opts.Strict, "strict", false, "treat decision warnings as errors")

	getEnv := func() *Env { return env }
	rootCmd.AddCommand(buildNewCommand(getEnv))
	rootCmd.AddCommand(buildWeekCommand(getEnv))
	rootCmd.AddCommand(buildRunCommand(getEnv))
	rootCmd.AddCommand(buildReportCommand(getEnv))
	rootCmd.AddCommand(buildConfigCommand(getEnv))

	return rootCmd
}
