package commands

import (
	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/plume"
	"github.com/simonhull/firebird-suite/plume/internal/output"
)

// RootCmd creates and returns the root command for the plume CLI
func RootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "plume",
		Short: "Augment class-diagram models for service-layer generation",
		Long: `Plume loads exported class-diagram models (*.plume.yml) and derives the
properties service templates need: which collaborators a service depends on,
whether it may be reached from outside, and a validation rule and mock value
for every operation parameter.

Learn more: https://github.com/simonhull/firebird-suite`,
		Version:       plume.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.SetVerbose(verbose)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to plume.yml (default: ./plume.yml when present)")

	return cmd
}

// NewApp returns the root command with every subcommand attached
func NewApp() *cobra.Command {
	root := RootCmd()
	root.AddCommand(DescribeCmd())
	root.AddCommand(ValidateCmd())
	root.AddCommand(TypesCmd())
	return root
}
