package types

import "github.com/go-playground/validator/v10"

// BatchEntry is one application to quote in a batch run.
// Dates use the YYYY-MM-DD calendar form.
type BatchEntry struct {
	ApplicationID   string   `json:"applicationId" validate:"required"`
	InsuredAmount   *float64 `json:"insuredAmount" validate:"required"`
	MonthlyExpenses *float64 `json:"monthlyExpenses,omitempty" validate:"omitempty,gte=0"`
	FromDate        string   `json:"fromDate" validate:"required,datetime=2006-01-02"`
	ToDate          string   `json:"toDate" validate:"required,datetime=2006-01-02"`
	RentalType      string   `json:"rentalType,omitempty" validate:"omitempty,oneof=F U C f u c"`
	Cuotas          int      `json:"cuotas,omitempty" validate:"gte=0"`
}

// BatchResult is the outcome of quoting one BatchEntry.
type BatchResult struct {
	ApplicationID string        `json:"applicationId"`
	Holder        *PolicyHolder `json:"holder,omitempty"`
	Quote         *QuoteDetails `json:"quote,omitempty"`
	Error         string        `json:"error,omitempty"`
}

// Validate checks the entry's struct tags.
func (e *BatchEntry) Validate() error {
	validate := validator.New()
	return validate.Struct(e)
}
