package probes

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/BetterCallFirewall/tupisec/internal/models"
	"github.com/BetterCallFirewall/tupisec/internal/scan"
)

// SSRF substitutes internal/cloud-metadata URLs into form fields (hidden
// and password fields excluded), looking for a cloud-metadata indicator
// token reflected back in the response. Discovered URL query parameters
// are not tested.
func SSRF(ctx context.Context, st *scan.State, log zerolog.Logger) error {
	for _, form := range st.Forms {
		fields := form.NonSubmitFields()
		for _, field := range fields {
			if field.Type == models.FieldHidden || field.Type == models.FieldPassword {
				continue
			}
			for _, payload := range SSRFPayloads {
				body := buildFormBody(fields, field.Name, payload)
				resp, err := submitForm(ctx, st, form, body)
				if err != nil {
					log.Debug().Err(err).Str("form", form.Action).Msg("ssrf: submit failed")
					continue
				}
				respBody, err := ReadBody(resp)
				if err != nil {
					continue
				}
				if found, ok := findCloudIndicator(respBody); ok {
					st.Findings.Add(models.SeverityCritical, "Server-Side Request Forgery",
						"SSRF in field '"+field.Name+"'",
						"Payload "+payload+" caused the response to include the indicator '"+found+"'.",
						"Validate and allow-list outbound destinations; block requests to link-local and metadata addresses.")
					break
				}
			}
		}
	}
	return nil
}

func findCloudIndicator(body string) (string, bool) {
	lower := strings.ToLower(body)
	for _, indicator := range CloudMetadataIndicators {
		if strings.Contains(lower, indicator) {
			return indicator, true
		}
	}
	return "", false
}
