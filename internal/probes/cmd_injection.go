package probes

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/BetterCallFirewall/tupisec/internal/models"
	"github.com/BetterCallFirewall/tupisec/internal/scan"
)

// blindThreshold is the elapsed-time floor that confirms a time-based
// blind command injection (payload sleeps 5s; allow scheduling jitter).
const blindThreshold = 4500 * time.Millisecond

// CmdInjection tries output-based OS command injection payloads against
// every non-trivial form field; if none fire, it falls back to
// time-based blind payloads under a 12s timeout.
func CmdInjection(ctx context.Context, st *scan.State, log zerolog.Logger) error {
	for _, form := range st.Forms {
		fields := form.NonSubmitFields()
		for _, field := range fields {
			if field.Type == models.FieldHidden || field.Type == models.FieldSubmit {
				continue
			}

			found := false
			for _, payload := range CommandInjectionOutputPayloads {
				body := buildFormBody(fields, field.Name, payload)
				resp, err := submitForm(ctx, st, form, body)
				if err != nil {
					log.Debug().Err(err).Str("form", form.Action).Msg("cmd_injection: submit failed")
					continue
				}
				respBody, err := ReadBody(resp)
				if err != nil {
					continue
				}
				if containsAny(strings.ToLower(respBody), CommandInjectionOutputIndicators) {
					st.Findings.Add(models.SeverityCritical, "OS Command Injection",
						"Command injection in field '"+field.Name+"'",
						"Payload "+payload+" submitted to "+field.Name+" at "+form.Action+" produced command output in the response.",
						"Never pass user input to a shell; use parameterized APIs instead of shelling out.")
					found = true
					break
				}
			}
			if found {
				continue
			}

			for _, payload := range CommandInjectionBlindPayloads {
				body := buildFormBody(fields, field.Name, payload)
				timeoutCtx, cancel := context.WithTimeout(ctx, 12*time.Second)
				start := time.Now()
				resp, err := submitForm(timeoutCtx, st, form, body)
				elapsed := time.Since(start)
				cancel()
				if err == nil {
					resp.Body.Close()
				}
				if elapsed >= blindThreshold {
					st.Findings.Add(models.SeverityCritical, "OS Command Injection",
						"Blind command injection in field '"+field.Name+"'",
						"Payload "+payload+" submitted to "+field.Name+" at "+form.Action+" delayed the response by "+elapsed.String()+".",
						"Never pass user input to a shell; use parameterized APIs instead of shelling out.")
					break
				}
			}
		}
	}
	return nil
}
