package probes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BetterCallFirewall/tupisec/internal/models"
)

// TestPrototypePollutionDetectsReflectedMarker confirms the spec property: a
// reflected pollution marker produces a single HIGH finding and stops
// further payload attempts against that URL.
func TestPrototypePollutionDetectsReflectedMarker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("echo: " + r.URL.RawQuery + " polluted_tupisec"))
	}))
	defer srv.Close()

	st := newStateAgainst(t, srv)
	st.AddDiscoveredURL(srv.URL + "/merge")

	require.NoError(t, PrototypePollution(context.Background(), st, zerolog.Nop()))

	findings := st.Findings.All()
	require.Len(t, findings, 1)
	assert.Equal(t, models.SeverityHigh, findings[0].Severity)
	assert.Equal(t, "Prototype Pollution", findings[0].Category)
}

// TestPrototypePollutionFlagsServerErrorReferencingPrototype confirms a 500
// response mentioning the prototype chain, without the marker reflected,
// produces a MEDIUM finding instead of a HIGH one.
func TestPrototypePollutionFlagsServerErrorReferencingPrototype(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("TypeError: Cannot set property of __proto__"))
	}))
	defer srv.Close()

	st := newStateAgainst(t, srv)
	st.AddDiscoveredURL(srv.URL + "/merge")

	require.NoError(t, PrototypePollution(context.Background(), st, zerolog.Nop()))

	findings := st.Findings.All()
	require.NotEmpty(t, findings)
	assert.Equal(t, models.SeverityMedium, findings[0].Severity)
}

// TestPrototypePollutionRespectsURLBudget confirms the configured budget
// caps how many discovered URLs are probed.
func TestPrototypePollutionRespectsURLBudget(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	st := newStateAgainst(t, srv)
	st.Budgets.PrototypePollutionURLs = 2
	for i := 0; i < 5; i++ {
		st.AddDiscoveredURL(srv.URL + "/page" + string(rune('a'+i)))
	}

	require.NoError(t, PrototypePollution(context.Background(), st, zerolog.Nop()))

	assert.Equal(t, 2*len(prototypePollutionParams), requests)
}
