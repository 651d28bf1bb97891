package types

// ImpuestoDetalle is one tax line of a quote breakdown.
type ImpuestoDetalle struct {
	ImpCod   string  `json:"impCod"`
	Base     float64 `json:"base"`
	Alicuota float64 `json:"alicuota"`
	Importe  float64 `json:"importe"`
}

// QuoteDetails is the premium breakdown computed by the quote service.
// The workflow relays it without interpreting any of the figures.
type QuoteDetails struct {
	PrimaTarifa          float64 `json:"primaTarifa"`
	Bonificacion         float64 `json:"bonificacion"`
	BonificacionPct      float64 `json:"bonificacionPct"`
	PrimaNeta            float64 `json:"primaNeta"`
	RecAdministrativo    float64 `json:"recAdministrativo"`
	RecAdministrativoPct float64 `json:"recAdministrativoPct"`
	RecFinanciero        float64 `json:"recFinanciero"`
	RecFinancieroPct     float64 `json:"recFinancieroPct"`
	DerEmision           float64 `json:"derEmision"`
	GastosEscribania     float64 `json:"gastosEscribania"`
	Subtotal             float64 `json:"subtotal"`
	Impuestos            float64 `json:"impuestos"`
	Premio               float64 `json:"premio"`
	TasaAplicada         float64 `json:"tasaAplicada"`
	SumaAsegurada        float64 `json:"sumaAsegurada"`

	DetalleImpuestos []ImpuestoDetalle `json:"detalleImpuestos,omitempty"`
}

// Clone returns a deep copy of the quote, or nil for a nil receiver.
func (q *QuoteDetails) Clone() *QuoteDetails {
	if q == nil {
		return nil
	}
	c := *q
	if q.DetalleImpuestos != nil {
		c.DetalleImpuestos = make([]ImpuestoDetalle, len(q.DetalleImpuestos))
		copy(c.DetalleImpuestos, q.DetalleImpuestos)
	}
	return &c
}
