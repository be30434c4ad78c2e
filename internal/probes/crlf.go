package probes

import (
	"context"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/BetterCallFirewall/tupisec/internal/models"
	"github.com/BetterCallFirewall/tupisec/internal/scan"
)

var crlfVariants = []string{
	"%0d%0aX-Injected:%20tupisec-crlf",
	"%0d%0aSet-Cookie:%20tupisec=crlf",
}

// CRLF injects carriage-return/line-feed header-splitting payloads into
// the first few query parameters of every crawl URL, looking for the
// injected header or cookie to appear in the response.
func CRLF(ctx context.Context, st *scan.State, log zerolog.Logger) error {
	for _, raw := range st.DiscoveredURLs() {
		u, err := url.Parse(raw)
		if err != nil || u.RawQuery == "" {
			continue
		}
		q := u.Query()
		params := make([]string, 0, len(q))
		for name := range q {
			params = append(params, name)
		}
		params = scan.TruncateStrings(params, st.Budgets.CRLFQueryParams)

		for _, param := range params {
			for _, variant := range crlfVariants {
				sep := "&"
				if !strings.Contains(raw, "?") {
					sep = "?"
				}
				testURL := raw + sep + param + "=" + variant

				resp, err := st.Client.Get(ctx, testURL)
				if err != nil {
					log.Debug().Err(err).Str("url", testURL).Msg("crlf: request failed")
					continue
				}
				injected := resp.Header.Get("X-Injected") != "" || hasInjectedCookie(resp.Header.Values("Set-Cookie"))
				resp.Body.Close()
				if injected {
					st.Findings.Add(models.SeverityHigh, "CRLF Injection",
						"CRLF injection via parameter '"+param+"'",
						"Injecting a CRLF sequence into '"+param+"' at "+raw+" caused a server-controlled response header to appear.",
						"Strip or encode CR/LF characters from values used to construct response headers.")
					return nil
				}
			}
		}
	}
	return nil
}

func hasInjectedCookie(cookies []string) bool {
	for _, c := range cookies {
		if strings.Contains(c, "tupisec=crlf") {
			return true
		}
	}
	return false
}
