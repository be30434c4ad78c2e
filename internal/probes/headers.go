package probes

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/BetterCallFirewall/tupisec/internal/models"
	"github.com/BetterCallFirewall/tupisec/internal/scan"
)

// securityHeaders lists headers whose absence is reported, with the
// severity and advice to use when missing.
var securityHeaders = []struct {
	name           string
	severity       models.Severity
	recommendation string
}{
	{"Content-Security-Policy", models.SeverityHigh, "Set a restrictive Content-Security-Policy header."},
	{"Strict-Transport-Security", models.SeverityHigh, "Set Strict-Transport-Security with a long max-age."},
	{"X-Frame-Options", models.SeverityMedium, "Set X-Frame-Options to DENY or SAMEORIGIN."},
	{"X-Content-Type-Options", models.SeverityMedium, "Set X-Content-Type-Options: nosniff."},
	{"Referrer-Policy", models.SeverityMedium, "Set a Referrer-Policy such as strict-origin-when-cross-origin."},
	{"Permissions-Policy", models.SeverityLow, "Set a Permissions-Policy to restrict powerful browser features."},
	{"X-XSS-Protection", models.SeverityLow, "Consider X-XSS-Protection for legacy browser support."},
	{"Cross-Origin-Opener-Policy", models.SeverityLow, "Set Cross-Origin-Opener-Policy: same-origin."},
	{"Cross-Origin-Embedder-Policy", models.SeverityLow, "Set Cross-Origin-Embedder-Policy as appropriate."},
	{"Cache-Control", models.SeverityInfo, "Set Cache-Control to avoid caching sensitive responses."},
}

// HeadersResult holds a fetched response body. Headers does not return
// one; it records the body on ScanState.HeadersResponseBody instead.
type HeadersResult struct {
	Body string
}

// Headers fetches the target base URL once, records the response body on
// ScanState for the tech phase to fingerprint, and emits findings for missing
// security headers, cookie flags, CORS wildcards, and Server/X-Powered-By
// disclosure.
func Headers(ctx context.Context, st *scan.State, log zerolog.Logger) error {
	resp, err := st.Client.Get(ctx, st.Target.BaseURL())
	if err != nil {
		log.Debug().Err(err).Msg("headers: fetch failed")
		return nil
	}
	body, err := ReadBody(resp)
	if err != nil {
		log.Debug().Err(err).Msg("headers: read body failed")
		return nil
	}
	st.HeadersResponseBody = body

	for _, h := range securityHeaders {
		if resp.Header.Get(h.name) == "" {
			st.Findings.Add(h.severity, "Missing Security Header",
				"Missing "+h.name+" header",
				"The response did not include a "+h.name+" header.",
				h.recommendation)
		}
	}

	if server := resp.Header.Get("Server"); server != "" {
		st.Findings.Add(models.SeverityLow, "Information Disclosure",
			"Server header discloses software",
			"Server header value: "+server,
			"Suppress or generalize the Server header.")
		st.TechStack["server"] = server
	}
	if xpb := resp.Header.Get("X-Powered-By"); xpb != "" {
		st.Findings.Add(models.SeverityLow, "Information Disclosure",
			"X-Powered-By header discloses software",
			"X-Powered-By header value: "+xpb,
			"Remove the X-Powered-By header.")
		st.TechStack["x-powered-by"] = xpb
	}

	for _, c := range resp.Cookies() {
		checkCookieFlags(st, c)
	}

	if acao := resp.Header.Get("Access-Control-Allow-Origin"); acao == "*" {
		st.Findings.Add(models.SeverityMedium, "CORS Misconfiguration",
			"Wildcard Access-Control-Allow-Origin",
			"Access-Control-Allow-Origin is set to '*' on the base response.",
			"Restrict CORS to a known origin allow-list.")
	}

	return nil
}

func checkCookieFlags(st *scan.State, c *http.Cookie) {
	var missing []string
	if !c.Secure {
		missing = append(missing, "Secure")
	}
	if !c.HttpOnly {
		missing = append(missing, "HttpOnly")
	}
	if c.SameSite == http.SameSiteDefaultMode {
		missing = append(missing, "SameSite")
	}
	if len(missing) == 0 {
		return
	}
	st.Findings.Add(models.SeverityMedium, "Insecure Cookie",
		"Cookie '"+c.Name+"' missing "+strings.Join(missing, ", "),
		"Cookie flags missing: "+strings.Join(missing, ", "),
		"Set Secure, HttpOnly, and SameSite on all session cookies.")
}
