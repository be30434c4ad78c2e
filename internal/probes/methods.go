package probes

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/BetterCallFirewall/tupisec/internal/models"
	"github.com/BetterCallFirewall/tupisec/internal/scan"
)

// Methods sends OPTIONS to inspect the Allow header and an explicit TRACE
// request to check for the deprecated and risky TRACE method.
func Methods(ctx context.Context, st *scan.State, log zerolog.Logger) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodOptions, st.Target.BaseURL(), nil)
	if err == nil {
		resp, err := st.Client.Do(req)
		if err != nil {
			log.Debug().Err(err).Msg("methods: OPTIONS failed")
		} else {
			resp.Body.Close()
			if allow := resp.Header.Get("Allow"); allow != "" {
				methods := strings.ToUpper(allow)
				if strings.Contains(methods, "TRACE") {
					st.Findings.Add(models.SeverityMedium, "HTTP Method",
						"TRACE method advertised",
						"The Allow header advertises the TRACE method.",
						"Disable the TRACE method on the web server.")
				}
				if strings.Contains(methods, "PUT") || strings.Contains(methods, "DELETE") {
					st.Findings.Add(models.SeverityLow, "HTTP Method",
						"State-changing HTTP methods advertised",
						"Allow header: "+allow,
						"Restrict PUT/DELETE to authenticated, intended endpoints only.")
				}
			}
		}
	}

	traceReq, err := http.NewRequestWithContext(ctx, "TRACE", st.Target.BaseURL(), nil)
	if err != nil {
		return nil
	}
	resp, err := st.Client.Do(traceReq)
	if err != nil {
		log.Debug().Err(err).Msg("methods: TRACE failed")
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode == 200 {
		st.Findings.Add(models.SeverityMedium, "HTTP Method",
			"TRACE method is enabled",
			"A TRACE request returned HTTP 200.",
			"Disable the TRACE method; it can be abused for cross-site tracing.")
	}
	return nil
}
