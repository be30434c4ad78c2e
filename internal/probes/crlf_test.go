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

// TestCRLFDetectsInjectedHeader confirms that a server reflecting the
// injected header verbatim into the response produces a HIGH finding.
func TestCRLFDetectsInjectedHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("redirect") != "" {
			w.Header().Set("X-Injected", "tupisec-crlf")
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	st := newStateAgainst(t, srv)
	st.AddDiscoveredURL(srv.URL + "/go?redirect=home")

	require.NoError(t, CRLF(context.Background(), st, zerolog.Nop()))

	findings := st.Findings.All()
	require.Len(t, findings, 1)
	assert.Equal(t, models.SeverityHigh, findings[0].Severity)
	assert.Equal(t, "CRLF Injection", findings[0].Category)
}

// TestCRLFIgnoresURLsWithoutQueryParams confirms a crawl URL carrying no
// query string is skipped entirely, producing no findings and no requests.
func TestCRLFIgnoresURLsWithoutQueryParams(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	st := newStateAgainst(t, srv)
	st.AddDiscoveredURL(srv.URL + "/home")

	require.NoError(t, CRLF(context.Background(), st, zerolog.Nop()))

	assert.Zero(t, requests)
	assert.Empty(t, st.Findings.All())
}

// TestHasInjectedCookieMatchesOnlyTheMarkerCookie confirms the cookie
// detector only flags the scanner's own injected marker, not arbitrary
// Set-Cookie headers.
func TestHasInjectedCookieMatchesOnlyTheMarkerCookie(t *testing.T) {
	assert.True(t, hasInjectedCookie([]string{"session=abc", "tupisec=crlf; Path=/"}))
	assert.False(t, hasInjectedCookie([]string{"session=abc", "theme=dark"}))
	assert.False(t, hasInjectedCookie(nil))
}
