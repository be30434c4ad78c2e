package probes

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/BetterCallFirewall/tupisec/internal/forms"
	"github.com/BetterCallFirewall/tupisec/internal/models"
	"github.com/BetterCallFirewall/tupisec/internal/scan"
)

var panelExtractor = forms.New()

// DefaultCreds discovers admin panels at well-known paths — pages
// carrying a form with a password field — and tries a fixed catalog of
// default credential pairs against each.
func DefaultCreds(ctx context.Context, st *scan.State, log zerolog.Logger) error {
	for _, path := range AdminPanelPaths {
		panelURL := st.Target.BaseURL() + "/" + path
		resp, err := st.Client.Get(ctx, panelURL)
		if err != nil {
			log.Debug().Err(err).Str("url", panelURL).Msg("default_creds: panel fetch failed")
			continue
		}
		body, err := ReadBody(resp)
		if err != nil {
			continue
		}

		panelForms := panelExtractor.Extract(panelURL, body)
		for _, form := range panelForms {
			if !form.HasPasswordField() {
				continue
			}
			tryDefaultCreds(ctx, st, log, form)
		}
	}
	return nil
}

func tryDefaultCreds(ctx context.Context, st *scan.State, log zerolog.Logger, form models.Form) {
	userField, hasUser := form.FirstFieldOfType(models.FieldText)
	if !hasUser {
		userField, hasUser = form.FirstFieldOfType(models.FieldEmail)
	}
	pwField, hasPw := form.FirstFieldOfType(models.FieldPassword)
	if !hasUser || !hasPw {
		return
	}

	fields := form.NonSubmitFields()
	baselineValues := baselineFormValues(fields, userField.Name, "invalid_user_xyz", pwField.Name, "invalid_pass_xyz")
	baselineResp, err := submitFormNoRedirect(ctx, st, form, baselineValues)
	if err != nil {
		return
	}
	baselineBody, _ := ReadBody(baselineResp)
	baselineStatus := baselineResp.StatusCode
	baseline := NewBaseline(baselineStatus, baselineBody)

	for _, pair := range DefaultCredentialPairs {
		values := baselineFormValues(fields, userField.Name, pair[0], pwField.Name, pair[1])
		resp, err := submitFormNoRedirect(ctx, st, form, values)
		if err != nil {
			log.Debug().Err(err).Str("form", form.Action).Msg("default_creds: submit failed")
			continue
		}
		body, err := ReadBody(resp)
		if err != nil {
			continue
		}

		is3xx := resp.StatusCode >= 300 && resp.StatusCode < 400
		baselineWas3xx := baselineStatus >= 300 && baselineStatus < 400
		_, sizeRel := baseline.SizeDelta(len(body))

		if (is3xx && !baselineWas3xx) || (resp.StatusCode == 200 && abs(len(body)-baseline.Length) > 500) {
			st.Findings.Add(models.SeverityCritical, "Default Credentials",
				"Default credentials accepted",
				"Credential pair "+pair[0]+"/"+pair[1]+" at "+form.Action+" produced a different outcome than an invalid baseline (size delta ratio "+percentString(sizeRel)+").",
				"Remove default accounts and enforce strong, unique credentials.")
			return
		}
	}
}

// submitFormNoRedirect submits a login form without following the
// resulting redirect, so a 3xx response (the usual "login succeeded"
// signal) is visible on the returned response rather than silently
// resolved to whatever page it points at.
func submitFormNoRedirect(ctx context.Context, st *scan.State, form models.Form, body string) (*http.Response, error) {
	noRedirect := st.Client.WithRedirects(false)
	if form.Method == "POST" {
		return noRedirect.PostForm(ctx, form.Action, body)
	}
	sep := "?"
	if strings.Contains(form.Action, "?") {
		sep = "&"
	}
	return noRedirect.Get(ctx, form.Action+sep+body)
}

func baselineFormValues(fields []models.FormField, userField, userValue, pwField, pwValue string) string {
	values := url.Values{}
	for _, f := range fields {
		switch f.Name {
		case userField:
			values.Set(f.Name, userValue)
		case pwField:
			values.Set(f.Name, pwValue)
		default:
			v := f.DefaultValue
			values.Set(f.Name, v)
		}
	}
	return values.Encode()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func percentString(f float64) string {
	return fmt.Sprintf("%.0f%%", f*100)
}
