package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/vsinha/prosim/pkg/interfaces/cli/output"
)

// ReportConfig holds configuration for the report command
type ReportConfig struct {
	CompanyID int
	Week      int
	Output    output.Config
}

// ReportCommand reprints a stored weekly report
type ReportCommand struct {
	config ReportConfig
	env    *Env
}

// NewReportCommand creates a report command with the given configuration
func NewReportCommand(config ReportConfig, env *Env) *ReportCommand {
	return &ReportCommand{config: config, env: env}
}

// Execute prints the report of one processed week, the latest when Week is 0
func (c *ReportCommand) Execute(ctx context.Context, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	report, err := c.env.Service.Report(c.config.CompanyID, c.config.Week)
	if err != nil {
		return err
	}
	return output.Generate(w, report, c.config.Output)
}

func buildReportCommand(env func() *Env) *cobra.Command {
	var config ReportConfig

	cmd := &cobra.Command{
		Use:     "report",
		Short:   "Print a stored weekly report",
		Example: `  prosim report --company 1 --week 3 --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewReportCommand(config, env()).Execute(cmd.Context(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&config.CompanyID, "company", 1, "company id")
	cmd.Flags().IntVar(&config.Week, "week", 0, "week to print, 0 for the latest")
	addOutputFlags(cmd, &config.Output)

	return cmd
}
