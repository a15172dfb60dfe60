package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewConfig holds configuration for the new command
type NewConfig struct {
	Companies []int
	Name      string
	Seed      uint64
}

// NewCommand creates companies at week 1
type NewCommand struct {
	config NewConfig
	env    *Env
}

// NewNewCommand creates a new command with the given configuration
func NewNewCommand(config NewConfig, env *Env) *NewCommand {
	return &NewCommand{config: config, env: env}
}

// Execute creates every requested company. Company i of the list is seeded
// with Seed+i so that companies draw independent demand.
func (c *NewCommand) Execute(ctx context.Context, w io.Writer) error {
	if len(c.config.Companies) == 0 {
		return fmt.Errorf("at least one company id is required")
	}
	for i, id := range c.config.Companies {
		name := c.config.Name
		if name == "" || len(c.config.Companies) > 1 {
			name = fmt.Sprintf("Company %d", id)
		}
		seed := c.config.Seed + uint64(i)
		if _, err := c.env.Service.CreateCompany(ctx, id, name, seed); err != nil {
			return err
		}
		fmt.Fprintf(w, "created company %d (%s, seed %d) at week 1 in %s\n", id, name, seed, c.env.Repo.Dir())
	}
	return nil
}

func buildNewCommand(env func() *Env) *cobra.Command {
	var config NewConfig

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start new companies at week 1",
		Example: `  prosim new --company 1 --seed 42
  prosim new --company 1,2,3 --seed 7 --state-dir game`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewNewCommand(config, env()).Execute(cmd.Context(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntSliceVar(&config.Companies, "company", []int{1}, "company ids to create")
	cmd.Flags().StringVar(&config.Name, "name", "", "company name (single company only)")
	cmd.Flags().Uint64Var(&config.Seed, "seed", 1, "random seed for demand and breakdowns")

	return cmd
}
