package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vsinha/prosim/pkg/domain/entities"
	"github.com/vsinha/prosim/pkg/infrastructure/decs"
	"github.com/vsinha/prosim/pkg/infrastructure/metrics"
	"github.com/vsinha/prosim/pkg/interfaces/cli/output"
)

// RunConfig holds configuration for the run command
type RunConfig struct {
	DecsDir     string
	MetricsAddr string
	Serve       bool
	Output      output.Config
}

// RunCommand processes a directory of decision files week by week
type RunCommand struct {
	config RunConfig
	env    *Env
}

// NewRunCommand creates a run command with the given configuration
func NewRunCommand(config RunConfig, env *Env) *RunCommand {
	return &RunCommand{config: config, env: env}
}

// Execute runs every week found in the decision directory. Weeks a company
// has already played are skipped; weeks with several companies are processed
// as one round.
func (c *RunCommand) Execute(ctx context.Context, w io.Writer) error {
	all, err := decs.NewLoader().LoadDir(c.config.DecsDir)
	if err != nil {
		return err
	}

	var server *http.Server
	if c.config.MetricsAddr != "" {
		server = c.startMetrics()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	processed := 0
	for _, round := range groupByWeek(all) {
		pending, err := c.pending(round)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			continue
		}

		reports, err := c.process(ctx, pending)
		if err != nil {
			return err
		}
		for _, r := range reports {
			if err := output.Generate(w, r, c.config.Output); err != nil {
				return err
			}
		}
		processed++
	}
	c.env.Logger.Info("run complete", "weeks", processed, "state_dir", c.env.Repo.Dir())

	if server != nil && c.config.Serve {
		c.env.Logger.Info("serving metrics until interrupted", "addr", c.config.MetricsAddr)
		<-ctx.Done()
	}
	return nil
}

// pending drops decisions for weeks a company has already played
func (c *RunCommand) pending(round []entities.Decisions) ([]entities.Decisions, error) {
	var out []entities.Decisions
	for _, d := range round {
		company, err := c.env.Repo.Current(d.CompanyID)
		if err != nil {
			return nil, err
		}
		if company.CurrentWeek > d.Week {
			c.env.Logger.Debug("week already played", "company", d.CompanyID, "week", d.Week)
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (c *RunCommand) process(ctx context.Context, round []entities.Decisions) ([]entities.WeeklyReport, error) {
	if len(round) == 1 {
		result, err := c.env.Service.ProcessWeek(ctx, round[0])
		if err != nil {
			return nil, fmt.Errorf("week %d for company %d: %w", round[0].Week, round[0].CompanyID, err)
		}
		return []entities.WeeklyReport{result.Report}, nil
	}

	results, err := c.env.Service.ProcessRound(ctx, round)
	if err != nil {
		return nil, fmt.Errorf("week %d: %w", round[0].Week, err)
	}
	reports := make([]entities.WeeklyReport, 0, len(round))
	for _, d := range round {
		reports = append(reports, results[d.CompanyID].Report)
	}
	return reports, nil
}

func (c *RunCommand) startMetrics() *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(c.env.Registry))
	server := &http.Server{Addr: c.config.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		c.env.Logger.Info("starting metrics server", "addr", c.config.MetricsAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.env.Logger.Error("metrics server error", "error", err)
		}
	}()
	return server
}

// groupByWeek splits week-ordered decisions into one slice per week
func groupByWeek(all []entities.Decisions) [][]entities.Decisions {
	var rounds [][]entities.Decisions
	for i, d := range all {
		if i == 0 || d.Week != all[i-1].Week {
			rounds = append(rounds, nil)
		}
		rounds[len(rounds)-1] = append(rounds[len(rounds)-1], d)
	}
	return rounds
}

func buildRunCommand(env func() *Env) *cobra.Command {
	var config RunConfig

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process every DECS file in a directory",
		Example: `  prosim run --decs-dir decisions
  prosim run --decs-dir decisions --metrics-addr :9090 --serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return NewRunCommand(config, env()).Execute(ctx, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&config.DecsDir, "decs-dir", ".", "directory of DECS*.DAT files")
	cmd.Flags().StringVar(&config.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	cmd.Flags().BoolVar(&config.Serve, "serve", false, "keep serving metrics after the run until interrupted")
	addOutputFlags(cmd, &config.Output)

	return cmd
}
