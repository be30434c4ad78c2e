package probes

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BetterCallFirewall/tupisec/internal/models"
	"github.com/BetterCallFirewall/tupisec/internal/scan"
	"github.com/BetterCallFirewall/tupisec/internal/target"
)

func newStateAgainst(t *testing.T, srv *httptest.Server) *scan.State {
	t.Helper()
	tgt, err := target.Parse(srv.URL)
	require.NoError(t, err)
	st, err := scan.New(tgt, "", 0)
	require.NoError(t, err)
	return st
}

// TestSQLiDetectsLeakedSQLError confirms the spec §8 property: a form
// whose injected field triggers the canonical MySQL error phrase produces
// a CRITICAL SQL Injection finding.
func TestSQLiDetectsLeakedSQLError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if r.FormValue("q") != "test" {
			w.Write([]byte("you have an error in your sql syntax near"))
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	st := newStateAgainst(t, srv)
	st.Forms = []models.Form{{
		Action: srv.URL + "/search",
		Method: "POST",
		Fields: []models.FormField{{Name: "q", Type: models.FieldText}},
	}}

	require.NoError(t, SQLi(context.Background(), st, zerolog.Nop()))

	findings := st.Findings.All()
	require.Len(t, findings, 1)
	assert.Equal(t, models.SeverityCritical, findings[0].Severity)
	assert.Equal(t, "SQL Injection", findings[0].Category)
}

// TestXSSDetectsVerbatimReflection confirms the spec §8 property: a
// literal <script> payload reflected verbatim produces a HIGH finding.
func TestXSSDetectsVerbatimReflection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		fmt.Fprintf(w, "<div>%s</div>", r.FormValue("comment"))
	}))
	defer srv.Close()

	st := newStateAgainst(t, srv)
	st.Forms = []models.Form{{
		Action: srv.URL + "/comment",
		Method: "POST",
		Fields: []models.FormField{{Name: "comment", Type: models.FieldText}},
	}}

	require.NoError(t, XSS(context.Background(), st, zerolog.Nop()))

	findings := st.Findings.All()
	require.Len(t, findings, 1)
	assert.Equal(t, models.SeverityHigh, findings[0].Severity)
	assert.Equal(t, "Reflected XSS", findings[0].Category)
}

// TestSSTIDetectsEvaluatedExpression confirms the spec §8 property: a
// template payload {{7*7}} evaluated server-side to 49 produces a
// CRITICAL finding.
func TestSSTIDetectsEvaluatedExpression(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		name := r.FormValue("name")
		if name == "{{7*7}}" {
			w.Write([]byte("Hello 49"))
			return
		}
		w.Write([]byte("Hello " + name))
	}))
	defer srv.Close()

	st := newStateAgainst(t, srv)
	st.Forms = []models.Form{{
		Action: srv.URL + "/greet",
		Method: "POST",
		Fields: []models.FormField{{Name: "name", Type: models.FieldText}},
	}}

	require.NoError(t, SSTI(context.Background(), st, zerolog.Nop()))

	findings := st.Findings.All()
	require.Len(t, findings, 1)
	assert.Equal(t, models.SeverityCritical, findings[0].Severity)
	assert.Equal(t, "Server-Side Template Injection", findings[0].Category)
}

// TestAnalyzeJWTFlagsAlgNone confirms the spec §4.5 JWT property: a token
// with header alg:none produces a CRITICAL finding.
func TestAnalyzeJWTFlagsAlgNone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()
	st := newStateAgainst(t, srv)

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"alice","exp":9999999999}`))
	token := header + "." + payload + "."

	analyzeJWT(context.Background(), st, zerolog.Nop(), token)

	findings := st.Findings.All()
	require.NotEmpty(t, findings)
	assert.Equal(t, models.SeverityCritical, findings[0].Severity)
	assert.Contains(t, findings[0].Title, "alg:none")
}

// TestAnalyzeJWTFlagsWeakHS256Secret confirms a token signed with the
// well-known weak secret "secret" is detected via HMAC brute force.
func TestAnalyzeJWTFlagsWeakHS256Secret(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()
	st := newStateAgainst(t, srv)

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"alice"}`))
	signingInput := header + "." + payload
	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write([]byte(signingInput))
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	token := signingInput + "." + sig

	analyzeJWT(context.Background(), st, zerolog.Nop(), token)

	found := false
	for _, f := range st.Findings.All() {
		if f.Title == "JWT signed with a weak/guessable secret" {
			found = true
		}
	}
	assert.True(t, found, "expected a weak-secret finding")
}
