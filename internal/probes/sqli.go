package probes

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/BetterCallFirewall/tupisec/internal/models"
	"github.com/BetterCallFirewall/tupisec/internal/scan"
)

// SQLi substitutes SQL payloads into each of a form's non-hidden,
// non-submit fields, one field at a time, stopping after the first hit
// per field, and looks for a leaked SQL error.
func SQLi(ctx context.Context, st *scan.State, log zerolog.Logger) error {
	payloads := scan.TruncateStrings(SQLPayloads, st.Budgets.SQLiPayloads)

	for _, form := range st.Forms {
		fields := form.NonSubmitFields()
		for _, field := range fields {
			if field.Type == models.FieldHidden {
				continue
			}
			for _, payload := range payloads {
				body := buildFormBody(fields, field.Name, payload)
				resp, err := submitForm(ctx, st, form, body)
				if err != nil {
					log.Debug().Err(err).Str("form", form.Action).Msg("sqli: submit failed")
					continue
				}
				respBody, err := ReadBody(resp)
				if err != nil {
					continue
				}
				if ContainsSQLError(respBody) {
					st.Findings.Add(models.SeverityCritical, "SQL Injection",
						"SQL injection in form field '"+field.Name+"'",
						"Injecting "+payload+" into "+field.Name+" at "+form.Action+" produced a SQL error in the response.",
						"Use parameterized queries / prepared statements for all database access.")
					break
				}
			}
		}
	}
	return nil
}

// buildFormBody fills every field with its default or "test", overriding
// overrideField with payload.
func buildFormBody(fields []models.FormField, overrideField, payload string) string {
	values := url.Values{}
	for _, f := range fields {
		if f.Name == overrideField {
			values.Set(f.Name, payload)
			continue
		}
		v := f.DefaultValue
		if v == "" {
			v = "test"
		}
		values.Set(f.Name, v)
	}
	return values.Encode()
}

// submitForm sends a form body via the form's method.
func submitForm(ctx context.Context, st *scan.State, form models.Form, body string) (*http.Response, error) {
	if form.Method == "POST" {
		return st.Client.PostForm(ctx, form.Action, body)
	}
	sep := "?"
	if strings.Contains(form.Action, "?") {
		sep = "&"
	}
	return st.Client.Get(ctx, form.Action+sep+body)
}
