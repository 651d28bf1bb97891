package quote

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mauricioroteta/CalculadoraCaucion/internal/clock"
	"github.com/mauricioroteta/CalculadoraCaucion/internal/policy"
	"github.com/mauricioroteta/CalculadoraCaucion/internal/types"
	"github.com/mauricioroteta/CalculadoraCaucion/internal/validation"
)

// MsgMissingApplicationID is stored when a lookup is triggered without an application id.
const MsgMissingApplicationID = "Ingrese un número de solicitud."

// ErrSuperseded is returned by a trigger whose outcome was discarded because a
// newer trigger of the same step (or a holder change) replaced it.
var ErrSuperseded = errors.New("superseded by a newer request")

// Progress event steps.
const (
	StepHolder = "holder"
	StepQuote  = "quote"
)

// ProgressEvent represents a state transition of one workflow step.
type ProgressEvent struct {
	Step     string   `json:"step"`
	Phase    string   `json:"phase"` // started, completed, failed, rejected, discarded
	Message  string   `json:"message,omitempty"`
	Snapshot Snapshot `json:"snapshot"`
}

// ProgressCallback is called after each step transition, outside the workflow lock.
type ProgressCallback func(event ProgressEvent)

// Options configures a Workflow.
type Options struct {
	Logger     *slog.Logger
	Clock      clock.Clock
	OnProgress ProgressCallback
}

// Workflow is a single logical actor owning one State. All reads and writes
// go through its lock; the lock is never held across a remote call.
type Workflow struct {
	mu         sync.Mutex
	state      State
	gateway    policy.Gateway
	logger     *slog.Logger
	onProgress ProgressCallback
}

// New creates a workflow whose coverage range defaults to today through the
// same day twelve months later, with DefaultCuotas installments.
func New(gateway policy.Gateway, opts *Options) *Workflow {
	if opts == nil {
		opts = &Options{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	clk := opts.Clock
	if clk == nil {
		clk = &clock.RealClock{}
	}

	today := truncateDay(clk.Now())
	return &Workflow{
		state: State{
			Coverage: types.CoverageInput{
				FromDate: today,
				ToDate:   today.AddDate(0, 12, 0),
			},
			Cuotas: DefaultCuotas,
		},
		gateway:    gateway,
		logger:     logger,
		onProgress: opts.OnProgress,
	}
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Snapshot returns a detached copy of the current state.
func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.snapshot()
}

func (w *Workflow) update(fn func(s *State)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(&w.state)
}

// SetApplicationID sets the application to quote.
func (w *Workflow) SetApplicationID(id string) {
	w.update(func(s *State) { s.ApplicationID = strings.TrimSpace(id) })
}

// SetInsuredAmount sets the insured amount; nil clears it.
func (w *Workflow) SetInsuredAmount(v *float64) {
	w.update(func(s *State) { s.Coverage.InsuredAmount = cloneFloat(v) })
}

// SetMonthlyExpenses sets the monthly expenses; nil counts as zero.
func (w *Workflow) SetMonthlyExpenses(v *float64) {
	w.update(func(s *State) { s.Coverage.MonthlyExpenses = cloneFloat(v) })
}

// SetFromDate sets the start of the coverage range.
func (w *Workflow) SetFromDate(t time.Time) {
	w.update(func(s *State) { s.Coverage.FromDate = t })
}

// SetToDate sets the end of the coverage range.
func (w *Workflow) SetToDate(t time.Time) {
	w.update(func(s *State) { s.Coverage.ToDate = t })
}

// SetRentalType sets the rental type. Unknown codes leave it unset.
func (w *Workflow) SetRentalType(rt types.RentalType) {
	w.update(func(s *State) { s.RentalType = types.ParseRentalType(string(rt)) })
}

// SetCuotas sets the installment count. Non-positive values leave it unset.
func (w *Workflow) SetCuotas(n int) {
	if n < 0 {
		n = 0
	}
	w.update(func(s *State) { s.Cuotas = n })
}

// Editable field names accepted by EditField.
const (
	FieldApplicationID   = "applicationId"
	FieldInsuredAmount   = "insuredAmount"
	FieldMonthlyExpenses = "monthlyExpenses"
	FieldFromDate        = "fromDate"
	FieldToDate          = "toDate"
	FieldRentalType      = "rentalType"
	FieldCuotas          = "cuotas"
)

// EditField applies a raw text edit to one field. Empty text clears numeric
// fields and the rental type.
func (w *Workflow) EditField(field, raw string) error {
	raw = strings.TrimSpace(raw)
	switch field {
	case FieldApplicationID:
		w.SetApplicationID(raw)
	case FieldInsuredAmount, FieldMonthlyExpenses:
		v, err := parseAmount(field, raw)
		if err != nil {
			return err
		}
		if field == FieldInsuredAmount {
			w.SetInsuredAmount(v)
		} else {
			w.SetMonthlyExpenses(v)
		}
	case FieldFromDate, FieldToDate:
		d, err := validation.ParseDate(raw)
		if err != nil {
			return err
		}
		if field == FieldFromDate {
			w.SetFromDate(d)
		} else {
			w.SetToDate(d)
		}
	case FieldRentalType:
		w.SetRentalType(types.RentalType(raw))
	case FieldCuotas:
		if raw == "" {
			w.SetCuotas(0)
			return nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return &validation.ValidationError{Field: field, Message: "expected a whole number"}
		}
		w.SetCuotas(n)
	default:
		return &validation.ValidationError{Field: field, Message: "unknown field"}
	}
	return nil
}

func parseAmount(field, raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !validation.IsFinite(v) {
		return nil, &validation.ValidationError{Field: field, Message: "expected a number"}
	}
	return &v, nil
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	return &f
}

// ResetQuote clears the stored quote and quote error. Calling it repeatedly
// has the same effect as calling it once.
func (w *Workflow) ResetQuote() {
	w.update(func(s *State) { s.resetQuote() })
}

func (w *Workflow) emit(step, phase string, snap Snapshot) {
	if w.onProgress == nil {
		return
	}
	var msg string
	switch step {
	case StepHolder:
		msg = snap.HolderError
	case StepQuote:
		msg = snap.QuoteError
	}
	w.onProgress(ProgressEvent{Step: step, Phase: phase, Message: msg, Snapshot: snap})
}

// ResolveHolder looks up the policy holder for the current inputs.
//
// Local validation failures are stored as the holder error and no request is
// made. Otherwise the holder and any quote are cleared before the call; on
// success the holder is stored and the rental type is seeded to F. The
// returned error is the same value stored in the state.
func (w *Workflow) ResolveHolder(ctx context.Context) (*types.PolicyHolder, error) {
	w.mu.Lock()
	total, days := w.state.derived()
	appID := w.state.ApplicationID
	reversed := validation.IsReversed(w.state.Coverage.FromDate, w.state.Coverage.ToDate)

	err := validation.Validate(total, days)
	if err == nil && appID == "" {
		err = &validation.ValidationError{Field: FieldApplicationID, Message: MsgMissingApplicationID}
	}
	if err != nil {
		w.state.rejectHolder(err)
		snap := w.state.snapshot()
		w.mu.Unlock()
		w.logger.Debug("holder lookup rejected", "application_id", appID, "error", err)
		w.emit(StepHolder, "rejected", snap)
		return nil, err
	}

	gen := w.state.beginHolder()
	snap := w.state.snapshot()
	w.mu.Unlock()

	if reversed {
		w.logger.Warn("coverage range is reversed, using absolute day count",
			"from", snap.Coverage.FromDate.Format(validation.DateLayout),
			"to", snap.Coverage.ToDate.Format(validation.DateLayout),
		)
	}
	w.logger.Debug("holder lookup started", "application_id", appID, "total_amount", *total, "day_count", days)
	w.emit(StepHolder, "started", snap)

	holder, err := w.gateway.GetPolicyHolder(ctx, appID, *total, days)
	if err == nil && holder == nil {
		err = errors.New("registry returned no holder")
	}
	if err != nil {
		err = asHolderError(err)
	}

	w.mu.Lock()
	applied := w.state.finishHolder(gen, holder, err)
	snap = w.state.snapshot()
	w.mu.Unlock()

	if !applied {
		w.logger.Info("holder lookup discarded", "application_id", appID)
		w.emit(StepHolder, "discarded", snap)
		return nil, ErrSuperseded
	}
	if err != nil {
		w.logger.Error("holder lookup failed", "application_id", appID, "error", err)
		w.emit(StepHolder, "failed", snap)
		return nil, err
	}
	w.logger.Debug("holder resolved", "application_id", appID, "holder", holder.Name)
	w.emit(StepHolder, "completed", snap)
	return snap.Holder, nil
}

// CalculateQuote requests a quote for the current inputs.
//
// Missing amounts, dates or application id store an "incomplete data"
// validation error without a request. Otherwise the prior result and error are
// cleared, the request is issued, and its outcome stored.
func (w *Workflow) CalculateQuote(ctx context.Context) (*types.QuoteDetails, error) {
	w.mu.Lock()
	total, days := w.state.derived()
	req := policy.QuoteRequest{
		ApplicationID: w.state.ApplicationID,
		DayCount:      days,
		RentalType:    w.state.RentalType,
		Cuotas:        w.state.Cuotas,
	}
	if total == nil || *total == 0 || !validation.IsFinite(*total) || days == 0 || req.ApplicationID == "" {
		err := &validation.ValidationError{Message: validation.MsgIncompleteData}
		w.state.rejectQuote(err)
		snap := w.state.snapshot()
		w.mu.Unlock()
		w.logger.Debug("quote rejected", "application_id", req.ApplicationID, "error", err)
		w.emit(StepQuote, "rejected", snap)
		return nil, err
	}
	req.TotalAmount = *total

	gen := w.state.beginQuote()
	snap := w.state.snapshot()
	w.mu.Unlock()

	w.logger.Debug("quote started",
		"application_id", req.ApplicationID,
		"total_amount", req.TotalAmount,
		"day_count", req.DayCount,
		"suma_total", req.SumaTotal(),
		"cuotas", req.Cuotas,
		"rental_type", string(req.RentalType),
	)
	w.emit(StepQuote, "started", snap)

	quote, err := w.gateway.CalculateQuote(ctx, req)
	if err == nil && quote == nil {
		err = errors.New("quote service returned no quote")
	}
	if err != nil {
		err = asQuoteError(err)
	}

	w.mu.Lock()
	applied := w.state.finishQuote(gen, quote, err)
	snap = w.state.snapshot()
	w.mu.Unlock()

	if !applied {
		w.logger.Info("quote discarded", "application_id", req.ApplicationID)
		w.emit(StepQuote, "discarded", snap)
		return nil, ErrSuperseded
	}
	if err != nil {
		w.logger.Error("quote failed", "application_id", req.ApplicationID, "error", err)
		w.emit(StepQuote, "failed", snap)
		return nil, err
	}
	w.logger.Debug("quote calculated", "application_id", req.ApplicationID, "premio", quote.Premio)
	w.emit(StepQuote, "completed", snap)
	return snap.Quote, nil
}

// asHolderError makes sure whatever the gateway returned is a *policy.HolderLookupError.
func asHolderError(err error) error {
	var hErr *policy.HolderLookupError
	if errors.As(err, &hErr) {
		return err
	}
	return &policy.HolderLookupError{Message: policy.MsgHolderLookupFailed, Cause: err}
}

// asQuoteError makes sure whatever the gateway returned is a *policy.QuoteCalculationError.
func asQuoteError(err error) error {
	var qErr *policy.QuoteCalculationError
	if errors.As(err, &qErr) {
		return &policy.QuoteCalculationError{Message: policy.MsgQuoteFailed, StatusCode: qErr.StatusCode, Cause: qErr.Cause}
	}
	return &policy.QuoteCalculationError{Message: policy.MsgQuoteFailed, Cause: err}
}
