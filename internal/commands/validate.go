package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/plume/internal/output"
	"github.com/simonhull/firebird-suite/plume/internal/plugins/service"
)

// ValidateCmd creates the 'validate' command, which evaluates every derived
// property and reports failures
func ValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [path...]",
		Short: "Evaluate all derived properties and check mocks against their rules",
		Long: `Loads models, evaluates every derived property and checks that each
parameter's mock value satisfies the parameter's own validation rule.
Unknown parameter types and invalid models are reported as errors.

Examples:
  plume validate
  plume validate models/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			augmented, err := s.augment(cmd, args)
			if err != nil {
				return err
			}

			failed := 0
			for _, a := range augmented {
				name := a.Model().Name
				output.Step(fmt.Sprintf("Checking %s", name))

				err := errors.Join(a.EvaluateAll(), service.VerifyMocks(a))
				if err != nil {
					failed++
					output.Error(fmt.Sprintf("%s: %v", name, err))
					continue
				}
				output.Verbose(fmt.Sprintf("%s: %d classes", name, len(a.Classes())))
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d model(s) failed validation", failed, len(augmented))
			}
			output.Success(fmt.Sprintf("%d model(s) valid", len(augmented)))
			return nil
		},
	}
}
