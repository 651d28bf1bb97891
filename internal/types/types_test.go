package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteDetails_Clone(t *testing.T) {
	original := &QuoteDetails{
		Premio: 1149.5,
		DetalleImpuestos: []ImpuestoDetalle{
			{ImpCod: "IVA", Base: 950, Alicuota: 21, Importe: 199.5},
		},
	}

	clone := original.Clone()
	require.NotNil(t, clone)
	clone.DetalleImpuestos[0].Importe = 0
	clone.Premio = 0

	assert.Equal(t, 199.5, original.DetalleImpuestos[0].Importe)
	assert.Equal(t, 1149.5, original.Premio)
	assert.Nil(t, (*QuoteDetails)(nil).Clone())
}

func TestQuoteDetails_DecodesServiceFields(t *testing.T) {
	body := `{"primaTarifa":1000,"bonificacionPct":10,"premio":1149.5,"tasaAplicada":0.85,"sumaAsegurada":105000,
		"detalleImpuestos":[{"impCod":"IVA","base":950,"alicuota":21,"importe":199.5},{"impCod":"SELLOS","base":950,"alicuota":1.2,"importe":11.4}]}`

	var q QuoteDetails
	require.NoError(t, json.Unmarshal([]byte(body), &q))

	assert.Equal(t, 1000.0, q.PrimaTarifa)
	assert.Equal(t, 10.0, q.BonificacionPct)
	assert.Equal(t, 105000.0, q.SumaAsegurada)
	require.Len(t, q.DetalleImpuestos, 2)
	assert.Equal(t, "SELLOS", q.DetalleImpuestos[1].ImpCod)
}

func TestPolicyHolder_Clone(t *testing.T) {
	original := &PolicyHolder{ID: "151547", Name: "Juan Perez", ItemC: 125}
	clone := original.Clone()
	clone.Name = "Otro"

	assert.Equal(t, "Juan Perez", original.Name)
	assert.Nil(t, (*PolicyHolder)(nil).Clone())
}

func TestCoverageInput_Clone(t *testing.T) {
	original := CoverageInput{
		InsuredAmount: Float(100000),
		FromDate:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	clone := original.Clone()
	*clone.InsuredAmount = 1

	assert.Equal(t, 100000.0, *original.InsuredAmount)
	assert.Nil(t, clone.MonthlyExpenses)
	assert.Equal(t, original.FromDate, clone.FromDate)
}

func TestBatchEntry_Validate(t *testing.T) {
	valid := BatchEntry{
		ApplicationID: "151547",
		InsuredAmount: Float(100000),
		FromDate:      "2024-01-01",
		ToDate:        "2025-01-01",
		RentalType:    "u",
		Cuotas:        3,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(e *BatchEntry)
	}{
		{name: "missing application id", mutate: func(e *BatchEntry) { e.ApplicationID = "" }},
		{name: "missing insured amount", mutate: func(e *BatchEntry) { e.InsuredAmount = nil }},
		{name: "negative expenses", mutate: func(e *BatchEntry) { e.MonthlyExpenses = Float(-1) }},
		{name: "bad date", mutate: func(e *BatchEntry) { e.ToDate = "01/01/2025" }},
		{name: "unknown rental type", mutate: func(e *BatchEntry) { e.RentalType = "X" }},
		{name: "negative cuotas", mutate: func(e *BatchEntry) { e.Cuotas = -2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := valid
			tt.mutate(&entry)
			assert.Error(t, entry.Validate())
		})
	}
}
