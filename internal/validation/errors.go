// Package validation computes the derived coverage values and checks them before any remote call.
package validation

import "fmt"

// Messages stored in the workflow state when local checks fail.
const (
	MsgInvalidCoverage = "Por favor, ingrese valores válidos para suma asegurada, expensas y fechas."
	MsgIncompleteData  = "Datos incompletos para calcular."
)

// ValidationError is a local, pre-network failure. It never triggers a request.
//
//nolint:revive // ValidationError reads better than Error at call sites in other packages
type ValidationError struct {
	Message string
	Field   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}
