package probes

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/BetterCallFirewall/tupisec/internal/models"
	"github.com/BetterCallFirewall/tupisec/internal/scan"
)

const attackerOrigin = "https://tupisec-cors-attacker.invalid"

// CORSAdvanced resends the target and the first N crawl URLs with a
// crafted attacker Origin header and classifies the server's CORS
// response headers.
func CORSAdvanced(ctx context.Context, st *scan.State, log zerolog.Logger) error {
	urls := append([]string{st.Target.BaseURL()}, scan.TruncateStrings(st.DiscoveredURLs(), st.Budgets.CORSCrawlURLs)...)

	for _, u := range urls {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			continue
		}
		req.Header.Set("Origin", attackerOrigin)
		resp, err := st.Client.Do(req)
		if err != nil {
			log.Debug().Err(err).Str("url", u).Msg("cors_advanced: request failed")
			continue
		}
		acao := resp.Header.Get("Access-Control-Allow-Origin")
		acac := resp.Header.Get("Access-Control-Allow-Credentials")
		resp.Body.Close()

		switch {
		case acao == attackerOrigin && acac == "true":
			st.Findings.Add(models.SeverityCritical, "CORS Misconfiguration",
				"Arbitrary origin reflected with credentials allowed",
				"Request to "+u+" with Origin: "+attackerOrigin+" returned matching ACAO with Allow-Credentials: true.",
				"Never reflect an arbitrary Origin while allowing credentials; use a strict origin allow-list.")
			return nil
		case acao == attackerOrigin:
			st.Findings.Add(models.SeverityHigh, "CORS Misconfiguration",
				"Arbitrary origin reflected in Access-Control-Allow-Origin",
				"Request to "+u+" with Origin: "+attackerOrigin+" returned a matching ACAO header.",
				"Validate the Origin header against an allow-list instead of reflecting it.")
		case acao == "null" && acac == "true":
			st.Findings.Add(models.SeverityHigh, "CORS Misconfiguration",
				"null origin allowed with credentials",
				"Request to "+u+" returned ACAO: null with Allow-Credentials: true.",
				"Reject the null origin; never combine it with credentialed CORS.")
		}
	}
	return nil
}
