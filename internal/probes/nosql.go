package probes

import (
	"context"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/BetterCallFirewall/tupisec/internal/models"
	"github.com/BetterCallFirewall/tupisec/internal/scan"
)

var nosqlBracketSuffixes = []string{"[$ne]=1", "[$gt]=0", "[$regex]=.*"}

// NoSQL targets forms containing a password field with MongoDB operator
// payloads (auth-bypass and error-disclosure oracles), and crawled URLs
// with bracket-notation operator injection on query parameters.
func NoSQL(ctx context.Context, st *scan.State, log zerolog.Logger) error {
	for _, form := range st.Forms {
		if !form.HasPasswordField() {
			continue
		}
		pwField, _ := form.FirstFieldOfType(models.FieldPassword)
		fields := form.NonSubmitFields()

		baselineBody := buildFormBody(fields, pwField.Name, "invalid_xyz")
		baselineResp, err := submitFormNoRedirect(ctx, st, form, baselineBody)
		baselineStatus := 0
		if err == nil {
			baselineStatus = baselineResp.StatusCode
			baselineResp.Body.Close()
		}

		for _, payload := range NoSQLOperatorPayloads {
			body := buildFormBody(fields, pwField.Name, payload)
			resp, err := submitFormNoRedirect(ctx, st, form, body)
			if err != nil {
				log.Debug().Err(err).Str("form", form.Action).Msg("nosql: submit failed")
				continue
			}
			respBody, err := ReadBody(resp)
			if err != nil {
				continue
			}
			if (resp.StatusCode == 302 || resp.StatusCode == 303) && baselineStatus != 302 && baselineStatus != 303 {
				st.Findings.Add(models.SeverityCritical, "NoSQL Injection",
					"NoSQL injection auth bypass",
					"Payload "+payload+" in field '"+pwField.Name+"' at "+form.Action+" produced a redirect where the baseline did not.",
					"Validate and sanitize input before passing it into NoSQL query operators.")
				break
			}
			if containsAny(strings.ToLower(respBody), NoSQLErrorPatterns) {
				st.Findings.Add(models.SeverityHigh, "NoSQL Injection",
					"NoSQL error disclosure",
					"Payload "+payload+" in field '"+pwField.Name+"' at "+form.Action+" triggered a NoSQL backend error.",
					"Sanitize input and avoid leaking backend error details to clients.")
				break
			}
		}
	}

	for _, raw := range st.DiscoveredURLs() {
		u, err := url.Parse(raw)
		if err != nil || u.RawQuery == "" {
			continue
		}
		q := u.Query()
		for param := range q {
			for _, suffix := range nosqlBracketSuffixes {
				testURL := raw
				sep := "&"
				if !strings.Contains(testURL, "?") {
					sep = "?"
				}
				testURL += sep + param + suffix

				resp, err := st.Client.Get(ctx, testURL)
				if err != nil {
					continue
				}
				body, err := ReadBody(resp)
				if err != nil {
					continue
				}
				if containsAny(strings.ToLower(body), NoSQLErrorPatterns) {
					st.Findings.Add(models.SeverityHigh, "NoSQL Injection",
						"NoSQL operator injection via query parameter",
						"Bracket-notation payload on parameter '"+param+"' at "+raw+" triggered a NoSQL backend error.",
						"Reject bracket/array query-parameter syntax unless explicitly required, and sanitize input.")
				}
			}
		}
	}
	return nil
}
