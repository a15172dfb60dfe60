package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vsinha/prosim/pkg/infrastructure/config"
)

// ConfigCommandConfig holds configuration for the config command
type ConfigCommandConfig struct {
	Out string
}

// ConfigCommand writes the effective rate table as YAML
type ConfigCommand struct {
	config ConfigCommandConfig
	env    *Env
}

// NewConfigCommand creates a config command with the given configuration
func NewConfigCommand(cfg ConfigCommandConfig, env *Env) *ConfigCommand {
	return &ConfigCommand{config: cfg, env: env}
}

// Execute prints the configuration, or saves it when Out is set
func (c *ConfigCommand) Execute(_ context.Context, w io.Writer) error {
	if c.config.Out != "" {
		if err := config.Save(c.config.Out, c.env.Config); err != nil {
			return err
		}
		fmt.Fprintf(w, "wrote %s\n", c.config.Out)
		return nil
	}
	data, err := config.Marshal(c.env.Config)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func buildConfigCommand(env func() *Env) *cobra.Command {
	var cfg ConfigCommandConfig

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print or save the effective configuration",
		Example: `  prosim config --out rates.yaml
  prosim --config rates.yaml config`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewConfigCommand(cfg, env()).Execute(cmd.Context(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&cfg.Out, "out", "o", "", "write the configuration to this file")

	return cmd
}
