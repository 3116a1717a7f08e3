package commands

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

// TypesCmd creates the 'types' command, which lists the type catalog
func TypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List known parameter types",
		Long: `Lists the semantic types parameters may use: the built-in catalog plus
types declared under 'types' in plume.yml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("TYPE", "KIND", "ADD-ON")
			for _, name := range s.catalog.Names() {
				d, _ := s.catalog.Lookup(name)
				addOn := d.AddOn
				if addOn == "" {
					addOn = "-"
				}
				t.Row(name, d.Kind, addOn)
			}

			fmt.Fprintln(cmd.OutOrStdout(), t.String())
			return nil
		},
	}
}
