package probes

import (
	"context"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/BetterCallFirewall/tupisec/internal/models"
	"github.com/BetterCallFirewall/tupisec/internal/scan"
)

// FormHygiene inspects every crawled form for missing CSRF protection,
// login forms that leak credentials via a GET submission, password
// fields that don't disable autocomplete, and form actions served over
// plain HTTP. It makes no requests of its own; it only reads the forms
// the crawl phase already extracted.
func FormHygiene(ctx context.Context, st *scan.State, log zerolog.Logger) error {
	for _, form := range st.Forms {
		isLogin := form.HasPasswordField()

		if isLogin && form.CSRFField == "" {
			st.Findings.Add(models.SeverityHigh, "Missing CSRF Protection",
				"No CSRF token detected",
				"Login form at "+form.Action+" carries a password field but no recognizable CSRF token field.",
				"Add a per-session CSRF token to the form and validate it on submission.")
		}

		if isLogin && form.Method == "GET" {
			st.Findings.Add(models.SeverityHigh, "Credentials Submitted via GET",
				"Login form submits via GET",
				"Login form at "+form.Action+" uses method GET, so submitted credentials end up in the URL, browser history, and server access logs.",
				"Submit credentials via POST with the values in the request body, never as query parameters.")
		}

		if isLogin {
			if pwField, ok := form.FirstFieldOfType(models.FieldPassword); ok && pwField.Autocomplete != "off" {
				st.Findings.Add(models.SeverityLow, "Password Autocomplete Enabled",
					"Password field missing autocomplete=\"off\"",
					"Password field '"+pwField.Name+"' at "+form.Action+" does not disable autocomplete, letting the browser cache the credential.",
					"Set autocomplete=\"off\" (or autocomplete=\"new-password\") on password inputs.")
			}
		}

		if u, err := url.Parse(form.Action); err == nil && u.Scheme == "http" {
			st.Findings.Add(models.SeverityHigh, "Form Submitted Over Plain HTTP",
				"Form action served over plain HTTP",
				"Form at "+form.Action+" submits over an unencrypted connection, exposing submitted data to network interception.",
				"Serve the form and its action endpoint exclusively over HTTPS.")
		}
	}
	return nil
}
