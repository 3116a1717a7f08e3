package service

import (
	"errors"
	"fmt"

	"github.com/simonhull/firebird-suite/plume/internal/capability"
	"github.com/simonhull/firebird-suite/plume/internal/validation"
)

// VerifyMocks compiles every parameter's validation rule and checks the
// parameter's own mock value against it. All failures are returned joined.
func VerifyMocks(a *capability.Augmented) error {
	var errs []error
	for _, cv := range a.Classes() {
		for _, op := range cv.Operations() {
			for _, pv := range op.Parameters {
				if !pv.Has(JoiDefinitionName) || !pv.Has(MockValueName) {
					continue
				}
				if err := verifyParameter(Parameter{view: pv}); err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", pv, err))
				}
			}
		}
	}
	return errors.Join(errs...)
}

func verifyParameter(p Parameter) error {
	joi, err := p.JoiDefinition()
	if err != nil {
		return err
	}
	mock, err := p.MockValue()
	if err != nil {
		return err
	}
	checker, err := validation.Compile(joi)
	if err != nil {
		return err
	}
	return checker.CheckLiteral(mock)
}
