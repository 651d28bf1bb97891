package policy

import (
	"net/url"
	"strconv"

	"github.com/mauricioroteta/CalculadoraCaucion/internal/types"
	"github.com/mauricioroteta/CalculadoraCaucion/internal/validation"
)

// QuoteRequest carries the inputs of one quote calculation.
// Zero Cuotas and an unset RentalType are omitted from the request path.
type QuoteRequest struct {
	ApplicationID string
	TotalAmount   float64
	DayCount      int
	RentalType    types.RentalType
	Cuotas        int
}

// SumaTotal is the legacy monthly figure sent alongside the day-based values.
func (r QuoteRequest) SumaTotal() float64 {
	return validation.SumaTotal(r.TotalAmount, r.DayCount)
}

// HolderPath builds /policyholder/{applicationId}/{totalAmount}/{dayCount}.
func HolderPath(applicationID string, totalAmount float64, dayCount int) string {
	return "/policyholder/" + url.PathEscape(applicationID) +
		"/" + FormatNumber(totalAmount) +
		"/" + strconv.Itoa(dayCount)
}

// QuotePath builds /recotizar2/{applicationId}/{totalAmount}/{dayCount}/{sumaTotal}[/{cuotas}][/{rentalType}].
// The cuotas segment always precedes the rental type segment.
func QuotePath(r QuoteRequest) string {
	path := "/recotizar2/" + url.PathEscape(r.ApplicationID) +
		"/" + FormatNumber(r.TotalAmount) +
		"/" + strconv.Itoa(r.DayCount) +
		"/" + FormatNumber(r.SumaTotal())
	if r.Cuotas > 0 {
		path += "/" + strconv.Itoa(r.Cuotas)
	}
	if r.RentalType.IsSet() {
		path += "/" + string(r.RentalType)
	}
	return path
}

// FormatNumber renders a number in its shortest decimal form without exponent,
// so 100000 becomes "100000" and 1.5 stays "1.5".
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
