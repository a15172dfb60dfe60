package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vsinha/prosim/pkg/infrastructure/decs"
	"github.com/vsinha/prosim/pkg/interfaces/cli/output"
)

// WeekConfig holds configuration for the week command
type WeekConfig struct {
	DecsFile string
	Output   output.Config
}

// WeekCommand processes one decision file
type WeekCommand struct {
	config WeekConfig
	env    *Env
}

// NewWeekCommand creates a week command with the given configuration
func NewWeekCommand(config WeekConfig, env *Env) *WeekCommand {
	return &WeekCommand{config: config, env: env}
}

// Execute loads the decisions, runs the week and prints the report
func (c *WeekCommand) Execute(ctx context.Context, w io.Writer) error {
	if c.config.DecsFile == "" {
		return fmt.Errorf("a decision file is required (--decs)")
	}
	d, err := decs.NewLoader().LoadFile(c.config.DecsFile)
	if err != nil {
		return err
	}

	result, err := c.env.Service.ProcessWeek(ctx, d)
	if err != nil {
		return fmt.Errorf("week %d for company %d: %w", d.Week, d.CompanyID, err)
	}
	return output.Generate(w, result.Report, c.config.Output)
}

func buildWeekCommand(env func() *Env) *cobra.Command {
	var config WeekConfig

	cmd := &cobra.Command{
		Use:     "week",
		Short:   "Process one week from a DECS decision file",
		Example: `  prosim week --decs DECS01.DAT --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewWeekCommand(config, env()).Execute(cmd.Context(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&config.DecsFile, "decs", "", "DECS decision file")
	addOutputFlags(cmd, &config.Output)
	_ = cmd.MarkFlagRequired("decs")

	return cmd
}

func addOutputFlags(cmd *cobra.Command, config *output.Config) {
	cmd.Flags().StringVar(&config.Format, "format", "text", "output format: text, json, csv")
	cmd.Flags().StringVar(&config.OutputDir, "output", "", "also save reports to this directory")
	cmd.Flags().BoolVarP(&config.Verbose, "verbose", "v", false, "include per-machine detail")
}
