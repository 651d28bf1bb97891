package policy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mauricioroteta/CalculadoraCaucion/internal/types"
)

const holderJSON = `{"id":"151547","cuit":"20-12345678-9","name":"Juan Perez","province":"Buenos Aires","provinceCode":"BA","itemA":100,"itemB":0,"itemC":125,"itemD":100,"itemE":175}`

const quoteJSON = `{"primaTarifa":1000,"bonificacion":100,"bonificacionPct":10,"primaNeta":900,
	"recAdministrativo":50,"recAdministrativoPct":5,"recFinanciero":20,"recFinancieroPct":2,
	"derEmision":30,"gastosEscribania":10,"subtotal":1010,"impuestos":200,"premio":5000,
	"tasaAplicada":0.5,"sumaAsegurada":100000,
	"detalleImpuestos":[{"impCod":"IVA","base":1010,"alicuota":21,"importe":212.1}]}`

func newServer(t *testing.T, status int, body string, seen *[]*http.Request) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			*seen = append(*seen, r.Clone(context.Background()))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestGetPolicyHolder_Success(t *testing.T) {
	var seen []*http.Request
	server := newServer(t, http.StatusOK, holderJSON, &seen)

	client := NewClient(server.URL, &Options{Token: "secret"})
	holder, err := client.GetPolicyHolder(context.Background(), "151547", 100000, 365)
	require.NoError(t, err)

	assert.Equal(t, "Juan Perez", holder.Name)
	assert.Equal(t, "BA", holder.ProvinceCode)
	assert.Equal(t, 175.0, holder.ItemE)

	require.Len(t, seen, 1)
	assert.Equal(t, http.MethodGet, seen[0].Method)
	assert.Equal(t, "/policyholder/151547/100000/365", seen[0].URL.Path)
	assert.Equal(t, "Bearer secret", seen[0].Header.Get("Authorization"))
	assert.NotEmpty(t, seen[0].Header.Get("X-Request-ID"))
	assert.Equal(t, "application/json", seen[0].Header.Get("Content-Type"))
}

func TestGetPolicyHolder_ServerMessage(t *testing.T) {
	server := newServer(t, http.StatusNotFound, `{"message":"not found"}`, nil)

	client := NewClient(server.URL, nil)
	holder, err := client.GetPolicyHolder(context.Background(), "999", 100000, 365)
	require.Error(t, err)
	assert.Nil(t, holder)

	var lookupErr *HolderLookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, "not found", lookupErr.Message)
	assert.Equal(t, http.StatusNotFound, lookupErr.StatusCode)
}

func TestGetPolicyHolder_FallbackMessage(t *testing.T) {
	bodies := map[string]string{
		"empty":         "",
		"unparsable":    "<html>oops</html>",
		"no message":    `{"detail":"Not Found"}`,
		"blank message": `{"message":"   "}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			server := newServer(t, http.StatusNotFound, body, nil)

			_, err := NewClient(server.URL, nil).GetPolicyHolder(context.Background(), "151547", 1, 1)
			var lookupErr *HolderLookupError
			require.ErrorAs(t, err, &lookupErr)
			assert.Equal(t, MsgHolderLookupFailed, lookupErr.Message)
		})
	}
}

func TestGetPolicyHolder_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url, nil).GetPolicyHolder(context.Background(), "151547", 1, 1)
	var lookupErr *HolderLookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, MsgHolderLookupFailed, lookupErr.Message)

	var reqErr *RequestError
	assert.ErrorAs(t, err, &reqErr)
}

func TestGetPolicyHolder_SchemaMismatch(t *testing.T) {
	server := newServer(t, http.StatusOK, `{"id":"151547"}`, nil)

	_, err := NewClient(server.URL, nil).GetPolicyHolder(context.Background(), "151547", 1, 1)
	var lookupErr *HolderLookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, MsgHolderLookupFailed, lookupErr.Message)

	holder, err := NewClient(server.URL, &Options{SkipSchemaCheck: true}).GetPolicyHolder(context.Background(), "151547", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "151547", holder.ID)
}

func TestGetPolicyHolder_EmptyApplicationID(t *testing.T) {
	var seen []*http.Request
	server := newServer(t, http.StatusOK, holderJSON, &seen)

	_, err := NewClient(server.URL, nil).GetPolicyHolder(context.Background(), "", 1, 1)
	require.Error(t, err)
	assert.Empty(t, seen)
}

func TestCalculateQuote_Success(t *testing.T) {
	var seen []*http.Request
	server := newServer(t, http.StatusOK, quoteJSON, &seen)

	quote, err := NewClient(server.URL+"/", nil).CalculateQuote(context.Background(), QuoteRequest{
		ApplicationID: "151547",
		TotalAmount:   100000,
		DayCount:      365,
		Cuotas:        3,
		RentalType:    types.RentalTypeFixed,
	})
	require.NoError(t, err)

	assert.Equal(t, 5000.0, quote.Premio)
	require.Len(t, quote.DetalleImpuestos, 1)
	assert.Equal(t, "IVA", quote.DetalleImpuestos[0].ImpCod)

	require.Len(t, seen, 1)
	assert.Equal(t, "/recotizar2/151547/100000/365/1200000/3/F", seen[0].URL.Path)
}

func TestCalculateQuote_ErrorBodyIgnored(t *testing.T) {
	server := newServer(t, http.StatusInternalServerError, `{"message":"db down"}`, nil)

	_, err := NewClient(server.URL, nil).CalculateQuote(context.Background(), QuoteRequest{
		ApplicationID: "151547", TotalAmount: 1, DayCount: 30,
	})
	var quoteErr *QuoteCalculationError
	require.ErrorAs(t, err, &quoteErr)
	assert.Equal(t, MsgQuoteFailed, quoteErr.Message)
	assert.Equal(t, http.StatusInternalServerError, quoteErr.StatusCode)
	assert.NotContains(t, quoteErr.Message, "db down")
}

func TestCalculateQuote_BadJSON(t *testing.T) {
	server := newServer(t, http.StatusOK, `not json`, nil)

	_, err := NewClient(server.URL, &Options{SkipSchemaCheck: true}).CalculateQuote(context.Background(), QuoteRequest{
		ApplicationID: "151547", TotalAmount: 1, DayCount: 30,
	})
	var quoteErr *QuoteCalculationError
	require.ErrorAs(t, err, &quoteErr)
	assert.Equal(t, MsgQuoteFailed, quoteErr.Message)
	assert.Contains(t, err.Error(), "decode")
}

func TestServerMessage(t *testing.T) {
	assert.Equal(t, "boom", serverMessage([]byte(`{"message":"boom"}`), "fallback"))
	assert.Equal(t, "fallback", serverMessage(nil, "fallback"))
	assert.Equal(t, "fallback", serverMessage([]byte(`{"message":42}`), "fallback"))
}
