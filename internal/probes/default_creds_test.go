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

const loginPanelHTML = `<html><body>
<form action="/login" method="post">
<input type="text" name="username">
<input type="password" name="password">
<input type="submit" value="Log in">
</form>
</body></html>`

// TestDefaultCredsDetectsAcceptedAdminAdmin confirms the spec property: a
// panel that redirects only for the admin/admin pair (and returns the
// login form again for any other credential) produces a CRITICAL finding.
func TestDefaultCredsDetectsAcceptedAdminAdmin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			if r.Method == http.MethodGet {
				w.Write([]byte(loginPanelHTML))
				return
			}
			r.ParseForm()
			if r.FormValue("username") == "admin" && r.FormValue("password") == "admin" {
				w.Header().Set("Location", "/dashboard")
				w.WriteHeader(http.StatusFound)
				return
			}
			w.Write([]byte(loginPanelHTML))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	st := newStateAgainst(t, srv)

	require.NoError(t, DefaultCreds(context.Background(), st, zerolog.Nop()))

	var found bool
	for _, f := range st.Findings.All() {
		if f.Category == "Default Credentials" {
			found = true
			assert.Equal(t, models.SeverityCritical, f.Severity)
		}
	}
	assert.True(t, found, "expected a default-credentials finding for admin/admin")
}

// TestDefaultCredsSkipsPanelsWithoutPasswordField confirms a form lacking a
// password field is never attempted.
func TestDefaultCredsSkipsPanelsWithoutPasswordField(t *testing.T) {
	var postCount int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			postCount++
		}
		if r.URL.Path == "/login" {
			w.Write([]byte(`<form action="/login" method="post"><input type="text" name="q"></form>`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	st := newStateAgainst(t, srv)

	require.NoError(t, DefaultCreds(context.Background(), st, zerolog.Nop()))

	assert.Zero(t, postCount)
	assert.Empty(t, st.Findings.All())
}
