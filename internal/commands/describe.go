package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/plume/internal/render"
)

// DescribeCmd creates the 'describe' command, which prints the derived
// properties of every service
func DescribeCmd() *cobra.Command {
	var templatePath string

	cmd := &cobra.Command{
		Use:   "describe [path...]",
		Short: "Print derived service properties",
		Long: `Loads models and prints, for every service, its external-access flag, its
dependent services and DAOs, and the validation rule and mock value of each
operation parameter.

Paths may be model files or directories searched with the configured globs.

Examples:
  plume describe
  plume describe models/shop.plume.yml
  plume describe ./models --template describe.tmpl`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			augmented, err := s.augment(cmd, args)
			if err != nil {
				return err
			}

			if templatePath == "" {
				templatePath = s.cfg.Describe.Template
			}

			r := render.NewRenderer()
			for i, a := range augmented {
				out, err := r.RenderDescribe(render.NewDescribe(a, s.cfg.Stereotypes.Service), templatePath)
				if err != nil {
					return fmt.Errorf("describing %s: %w", a.Model().Name, err)
				}
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				fmt.Fprint(cmd.OutOrStdout(), string(out))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&templatePath, "template", "t", "", "Template file overriding the built-in layout")

	return cmd
}
