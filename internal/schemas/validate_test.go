package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedSchemas_ValidJSON(t *testing.T) {
	for _, name := range []string{PolicyHolder, QuoteDetails} {
		t.Run(name, func(t *testing.T) {
			content, err := Load(name)
			require.NoError(t, err)

			var v interface{}
			assert.NoError(t, json.Unmarshal([]byte(content), &v))
		})
	}
}

func TestLoad_Unknown(t *testing.T) {
	_, err := Load("nope.schema.json")
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidateDocument_PolicyHolder(t *testing.T) {
	valid := `{"id":"151547","cuit":"20-12345678-9","name":"Juan Perez","province":"Buenos Aires","provinceCode":"BA","itemA":100,"itemB":0,"itemC":125,"itemD":100,"itemE":175}`
	assert.NoError(t, ValidateDocument(PolicyHolder, []byte(valid)))

	missing := `{"id":"151547","cuit":"20-12345678-9"}`
	err := ValidateDocument(PolicyHolder, []byte(missing))
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateDocument_QuoteDetails_WrongType(t *testing.T) {
	doc := `{"primaTarifa":"mil","bonificacion":100,"bonificacionPct":10,"primaNeta":900,
		"recAdministrativo":50,"recAdministrativoPct":5,"recFinanciero":20,"recFinancieroPct":2,
		"derEmision":30,"gastosEscribania":10,"subtotal":1010,"impuestos":200,"premio":5000,
		"tasaAplicada":0.5,"sumaAsegurada":100000}`

	err := ValidateDocument(QuoteDetails, []byte(doc))
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "primaTarifa", validationErr.Errors[0].Field)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateJSONString_InvalidSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": 12}`, `{}`)
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}
