// Package quote drives the two-step quoting workflow: resolve the policy holder,
// then calculate a quote against it.
package quote

import (
	"errors"

	"github.com/mauricioroteta/CalculadoraCaucion/internal/policy"
	"github.com/mauricioroteta/CalculadoraCaucion/internal/types"
	"github.com/mauricioroteta/CalculadoraCaucion/internal/validation"
)

// DefaultCuotas is the installment count a new workflow starts with.
const DefaultCuotas = 1

// State is the live, mutable workflow state. It is owned by a Workflow and
// only touched with the workflow lock held.
type State struct {
	ApplicationID string
	Coverage      types.CoverageInput
	RentalType    types.RentalType
	// Cuotas is the installment count; zero means unset.
	Cuotas int

	Holder        *types.PolicyHolder
	HolderLoading bool
	HolderErr     error

	Quote        *types.QuoteDetails
	QuoteLoading bool
	QuoteErr     error

	holderGen uint64
	quoteGen  uint64
}

// Snapshot is a detached copy of the state plus derived values, safe to hand
// to observers and to encode as JSON.
type Snapshot struct {
	ApplicationID string              `json:"applicationId"`
	Coverage      types.CoverageInput `json:"coverage"`
	RentalType    types.RentalType    `json:"rentalType,omitempty"`
	Cuotas        int                 `json:"cuotas,omitempty"`

	TotalAmount *float64 `json:"totalAmount,omitempty"`
	DayCount    int      `json:"dayCount"`

	Holder        *types.PolicyHolder `json:"holder,omitempty"`
	HolderLoading bool                `json:"holderLoading"`
	HolderError   string              `json:"holderError,omitempty"`

	Quote        *types.QuoteDetails `json:"quote,omitempty"`
	QuoteLoading bool                `json:"quoteLoading"`
	QuoteError   string              `json:"quoteError,omitempty"`

	HolderErr error `json:"-"`
	QuoteErr  error `json:"-"`
}

// snapshot copies s. Caller holds the lock.
func (s *State) snapshot() Snapshot {
	total, days := s.derived()
	return Snapshot{
		ApplicationID: s.ApplicationID,
		Coverage:      s.Coverage.Clone(),
		RentalType:    s.RentalType,
		Cuotas:        s.Cuotas,
		TotalAmount:   total,
		DayCount:      days,
		Holder:        s.Holder.Clone(),
		HolderLoading: s.HolderLoading,
		HolderError:   Message(s.HolderErr),
		HolderErr:     s.HolderErr,
		Quote:         s.Quote.Clone(),
		QuoteLoading:  s.QuoteLoading,
		QuoteError:    Message(s.QuoteErr),
		QuoteErr:      s.QuoteErr,
	}
}

func (s *State) derived() (*float64, int) {
	total := validation.ComputeTotalAmount(s.Coverage.InsuredAmount, s.Coverage.MonthlyExpenses)
	days := validation.ComputeDayCount(s.Coverage.FromDate, s.Coverage.ToDate)
	return total, days
}

// invalidateQuote drops any quote outcome, including one still in flight.
// A quote is only valid for the holder it was computed against.
func (s *State) invalidateQuote() {
	s.quoteGen++
	s.Quote = nil
	s.QuoteErr = nil
	s.QuoteLoading = false
}

// beginHolder starts a lookup and returns its generation.
func (s *State) beginHolder() uint64 {
	s.holderGen++
	s.HolderLoading = true
	s.HolderErr = nil
	s.Holder = nil
	s.invalidateQuote()
	return s.holderGen
}

// rejectHolder records a local failure that prevented a lookup.
// Any lookup still in flight is superseded.
func (s *State) rejectHolder(err error) {
	s.holderGen++
	s.HolderLoading = false
	s.HolderErr = err
}

// finishHolder applies a lookup outcome. It reports false when gen is stale,
// in which case the state is left alone.
func (s *State) finishHolder(gen uint64, holder *types.PolicyHolder, err error) bool {
	if gen != s.holderGen {
		return false
	}
	s.HolderLoading = false
	s.invalidateQuote()
	if err != nil {
		s.HolderErr = err
		return true
	}
	s.Holder = holder
	s.RentalType = types.RentalTypeFixed
	return true
}

// resetQuote clears the stored quote and its error.
func (s *State) resetQuote() {
	s.invalidateQuote()
}

// beginQuote starts a calculation and returns its generation.
func (s *State) beginQuote() uint64 {
	s.invalidateQuote()
	s.QuoteLoading = true
	return s.quoteGen
}

// rejectQuote records a local failure that prevented a calculation.
func (s *State) rejectQuote(err error) {
	s.quoteGen++
	s.QuoteLoading = false
	s.QuoteErr = err
}

func (s *State) finishQuote(gen uint64, quote *types.QuoteDetails, err error) bool {
	if gen != s.quoteGen {
		return false
	}
	s.QuoteLoading = false
	if err != nil {
		s.QuoteErr = err
		return true
	}
	s.Quote = quote
	return true
}

// Message returns the user-facing text for a workflow error.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var vErr *validation.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	var hErr *policy.HolderLookupError
	if errors.As(err, &hErr) {
		return hErr.Message
	}
	var qErr *policy.QuoteCalculationError
	if errors.As(err, &qErr) {
		return qErr.Message
	}
	return err.Error()
}
