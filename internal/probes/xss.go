package probes

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/BetterCallFirewall/tupisec/internal/models"
	"github.com/BetterCallFirewall/tupisec/internal/scan"
)

// XSS substitutes reflected-XSS vectors into each form's non-hidden,
// non-submit fields, one field at a time, stopping after the first hit
// per field.
func XSS(ctx context.Context, st *scan.State, log zerolog.Logger) error {
	payloads := scan.TruncateStrings(XSSPayloads, st.Budgets.XSSPayloads)

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
					log.Debug().Err(err).Str("form", form.Action).Msg("xss: submit failed")
					continue
				}
				respBody, err := ReadBody(resp)
				if err != nil {
					continue
				}
				if strings.Contains(respBody, payload) {
					st.Findings.Add(models.SeverityHigh, "Reflected XSS",
						"Reflected XSS in field '"+field.Name+"'",
						"Payload "+payload+" submitted to "+field.Name+" at "+form.Action+" was reflected verbatim.",
						"HTML-encode all user input before rendering it in responses.")
					break
				}
			}
		}
	}
	return nil
}
