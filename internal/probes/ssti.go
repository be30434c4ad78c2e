package probes

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/BetterCallFirewall/tupisec/internal/models"
	"github.com/BetterCallFirewall/tupisec/internal/scan"
)

// SSTI substitutes template-expression payloads into each form's
// non-password, non-hidden, non-submit fields and checks whether the
// server evaluated the expression server-side.
func SSTI(ctx context.Context, st *scan.State, log zerolog.Logger) error {
	for _, form := range st.Forms {
		fields := form.NonSubmitFields()
		for _, field := range fields {
			if field.Type == models.FieldHidden || field.Type == models.FieldPassword {
				continue
			}
			for _, pl := range SSTIPayloads {
				body := buildFormBody(fields, field.Name, pl.Payload)
				resp, err := submitForm(ctx, st, form, body)
				if err != nil {
					log.Debug().Err(err).Str("form", form.Action).Msg("ssti: submit failed")
					continue
				}
				respBody, err := ReadBody(resp)
				if err != nil {
					continue
				}
				if strings.Contains(respBody, pl.Expected) {
					st.Findings.Add(models.SeverityCritical, "Server-Side Template Injection",
						"SSTI in field '"+field.Name+"'",
						"Payload "+pl.Payload+" submitted to "+field.Name+" at "+form.Action+" evaluated to "+pl.Expected+".",
						"Never evaluate user input as a template expression; use a sandboxed or logic-less template engine.")
					break
				}
			}
		}
	}
	return nil
}
