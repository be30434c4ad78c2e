package probes

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/BetterCallFirewall/tupisec/internal/models"
	"github.com/BetterCallFirewall/tupisec/internal/scan"
)

var prototypePollutionParams = []string{
	"__proto__[tupisec_test]=polluted_tupisec",
	"constructor[prototype][tupisec_test]=polluted_tupisec",
}

var prototypeErrorMarkers = []string{"prototype", "__proto__", "constructor"}

// PrototypePollution injects JavaScript prototype-pollution payloads into
// crawl URL query strings, looking for the marker value reflected back in
// the response or for a 500 error mentioning the prototype chain.
func PrototypePollution(ctx context.Context, st *scan.State, log zerolog.Logger) error {
	urls := scan.TruncateStrings(st.DiscoveredURLs(), st.Budgets.PrototypePollutionURLs)

	for _, raw := range urls {
		for _, payload := range prototypePollutionParams {
			sep := "&"
			if !strings.Contains(raw, "?") {
				sep = "?"
			}
			testURL := raw + sep + payload

			resp, err := st.Client.Get(ctx, testURL)
			if err != nil {
				log.Debug().Err(err).Str("url", testURL).Msg("prototype_pollution: request failed")
				continue
			}
			body, err := ReadBody(resp)
			if err != nil {
				continue
			}

			if strings.Contains(body, "polluted_tupisec") {
				st.Findings.Add(models.SeverityHigh, "Prototype Pollution",
					"Prototype pollution marker reflected",
					"Payload "+payload+" at "+testURL+" reflected the pollution marker in the response body.",
					"Validate object keys and reject '__proto__'/'constructor'/'prototype' in merge/assignment paths.")
				return nil
			}
			if resp.StatusCode == 500 && containsAny(strings.ToLower(body), prototypeErrorMarkers) {
				st.Findings.Add(models.SeverityMedium, "Prototype Pollution",
					"Possible prototype pollution error",
					"Payload "+payload+" at "+testURL+" produced a server error referencing the prototype chain.",
					"Use Object.create(null) or Map for user-controlled key/value stores, and freeze Object.prototype.")
			}
		}
	}
	return nil
}
