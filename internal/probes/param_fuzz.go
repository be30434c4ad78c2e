package probes

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/BetterCallFirewall/tupisec/internal/models"
	"github.com/BetterCallFirewall/tupisec/internal/scan"
)

var dbErrorPatterns = SQLErrorFingerprints

// ParamFuzz establishes a baseline for each candidate URL, then injects
// each fuzz-catalog parameter name (skipping ones already present) with
// values "1" and "true", classifying any signal against the baseline.
func ParamFuzz(ctx context.Context, st *scan.State, log zerolog.Logger) error {
	for _, raw := range st.DiscoveredURLs() {
		u, err := url.Parse(raw)
		if err != nil {
			continue
		}

		baseResp, err := st.Client.Get(ctx, raw)
		if err != nil {
			log.Debug().Err(err).Str("url", raw).Msg("param_fuzz: baseline failed")
			continue
		}
		baseBody, err := ReadBody(baseResp)
		if err != nil {
			continue
		}
		baseline := NewBaseline(baseResp.StatusCode, baseBody)
		existing := u.Query()

		for _, name := range FuzzParamNames {
			if existing.Has(name) {
				continue
			}
			for _, value := range []string{"1", "true"} {
				q, _ := url.ParseQuery(existing.Encode())
				q.Set(name, value)
				u.RawQuery = q.Encode()

				resp, err := st.Client.Get(ctx, u.String())
				if err != nil {
					log.Debug().Err(err).Str("url", u.String()).Msg("param_fuzz: request failed")
					continue
				}
				body, err := ReadBody(resp)
				if err != nil {
					continue
				}
				classifyFuzzSignal(st, raw, name, resp.StatusCode, body, baseline)
			}
		}
	}
	return nil
}

func classifyFuzzSignal(st *scan.State, url, param string, status int, body string, baseline Baseline) {
	lower := strings.ToLower(body)

	if ContainsPathDisclosure(lower) && !ContainsPathDisclosure(baseline.Body) {
		st.Findings.Add(models.SeverityHigh, "Information Disclosure",
			"Path disclosure via hidden parameter '"+param+"'",
			"Injecting parameter '"+param+"' into "+url+" leaked a server filesystem path.",
			"Remove debug parameters from production and sanitize error output.")
		st.FuzzResults = append(st.FuzzResults, models.FuzzResult{URL: url, Parameter: param, Signal: "path_disclosure"})
		return
	}
	for _, p := range dbErrorPatterns {
		if baseline.NewErrorPattern(lower, p) {
			st.Findings.Add(models.SeverityHigh, "Information Disclosure",
				"Database error via hidden parameter '"+param+"'",
				"Injecting parameter '"+param+"' into "+url+" produced a new database error.",
				"Validate input and disable verbose error output in production.")
			st.FuzzResults = append(st.FuzzResults, models.FuzzResult{URL: url, Parameter: param, Signal: "db_error"})
			return
		}
	}
	for _, p := range PathDisclosurePatterns {
		if baseline.NewErrorPattern(lower, p) {
			st.Findings.Add(models.SeverityMedium, "Information Disclosure",
				"New error pattern via hidden parameter '"+param+"'",
				"Injecting parameter '"+param+"' into "+url+" produced a new error pattern.",
				"Validate input and disable verbose error output in production.")
			st.FuzzResults = append(st.FuzzResults, models.FuzzResult{URL: url, Parameter: param, Signal: "error_pattern"})
			return
		}
	}
	if baseline.StatusChanged(status) {
		st.Findings.Add(models.SeverityMedium, "Hidden Parameter",
			"Status change via hidden parameter '"+param+"'",
			"Injecting parameter '"+param+"' into "+url+" changed the response status to "+strconv.Itoa(status)+".",
			"Review whether this parameter is intended and properly access-controlled.")
		st.FuzzResults = append(st.FuzzResults, models.FuzzResult{URL: url, Parameter: param, Signal: "status_change"})
		return
	}
	if abs, rel := baseline.SizeDelta(len(body)); abs > 300 && rel > 0.2 {
		st.Findings.Add(models.SeverityLow, "Hidden Parameter",
			"Response size change via hidden parameter '"+param+"'",
			"Injecting parameter '"+param+"' into "+url+" changed response size significantly.",
			"Review whether this parameter is intended and properly access-controlled.")
		st.FuzzResults = append(st.FuzzResults, models.FuzzResult{URL: url, Parameter: param, Signal: "size_change"})
	}
}
