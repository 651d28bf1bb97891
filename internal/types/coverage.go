package types

import "time"

// CoverageInput holds the user-editable coverage parameters.
// Nil amounts mean the field was left empty.
type CoverageInput struct {
	InsuredAmount   *float64  `json:"insuredAmount,omitempty"`
	MonthlyExpenses *float64  `json:"monthlyExpenses,omitempty"`
	FromDate        time.Time `json:"fromDate"`
	ToDate          time.Time `json:"toDate"`
}

// Clone returns a copy that shares no pointers with c.
func (c CoverageInput) Clone() CoverageInput {
	out := c
	out.InsuredAmount = cloneFloat(c.InsuredAmount)
	out.MonthlyExpenses = cloneFloat(c.MonthlyExpenses)
	return out
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	return &f
}

// Float returns a pointer to v. Handy for literal coverage inputs.
func Float(v float64) *float64 {
	return &v
}
