package probes

import (
	"context"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/BetterCallFirewall/tupisec/internal/models"
	"github.com/BetterCallFirewall/tupisec/internal/scan"
)

// sentinelHost is the marker host open-redirect candidates are redirected
// to; its presence in the Location response header confirms the probe
// succeeded rather than merely echoed its own input back.
const sentinelHost = "tupisec-redirect-sentinel.invalid"

// OpenRedirect targets discovered URLs carrying a query parameter whose
// name is a known redirect-parameter, sets it to a sentinel URL, and
// checks whether the server redirects there without validation.
func OpenRedirect(ctx context.Context, st *scan.State, log zerolog.Logger) error {
	noRedirect := st.Client.WithRedirects(false)
	seen := map[string]bool{}

	for _, raw := range st.DiscoveredURLs() {
		u, err := url.Parse(raw)
		if err != nil || u.RawQuery == "" {
			continue
		}
		q := u.Query()
		for name := range q {
			if !isRedirectParam(name) {
				continue
			}
			key := u.Path + "|" + name
			if seen[key] {
				continue
			}
			seen[key] = true

			clone, _ := url.ParseQuery(q.Encode())
			clone.Set(name, "https://"+sentinelHost+"/")
			u.RawQuery = clone.Encode()

			resp, err := noRedirect.Get(ctx, u.String())
			if err != nil {
				log.Debug().Err(err).Str("url", u.String()).Msg("open_redirect: request failed")
				continue
			}
			resp.Body.Close()
			loc := resp.Header.Get("Location")
			if strings.Contains(loc, sentinelHost) {
				st.Findings.Add(models.SeverityHigh, "Open Redirect",
					"Open redirect via parameter '"+name+"'",
					"Setting '"+name+"' to a sentinel URL redirected there: "+loc,
					"Validate redirect targets against an allow-list of known-safe destinations.")
			}
		}
	}
	return nil
}

func isRedirectParam(name string) bool {
	lower := strings.ToLower(name)
	for _, p := range RedirectParamNames {
		if lower == p {
			return true
		}
	}
	return false
}
