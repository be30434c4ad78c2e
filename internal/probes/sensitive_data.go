package probes

import (
	"context"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/BetterCallFirewall/tupisec/internal/models"
	"github.com/BetterCallFirewall/tupisec/internal/scan"
)

type sensitivePattern struct {
	name     string
	severity models.Severity
	re       *regexp.Regexp
}

// sensitivePatterns is the fixed regex catalog applied to fetched bodies.
var sensitivePatterns = []sensitivePattern{
	{"AWS Access Key", models.SeverityCritical, regexp.MustCompile(`AKIA[0-9A-Z]{16}`)},
	{"PEM Private Key", models.SeverityCritical, regexp.MustCompile(`-----BEGIN (?:RSA |EC |DSA )?PRIVATE KEY-----`)},
	{"Database Connection URI", models.SeverityCritical, regexp.MustCompile(`(?i)(?:mongodb|postgres(?:ql)?|mysql|redis)://[^\s"']+`)},
	{"Google API Key", models.SeverityHigh, regexp.MustCompile(`AIza[0-9A-Za-z\-_]{35}`)},
	{"Slack Token", models.SeverityHigh, regexp.MustCompile(`xox[baprs]-[0-9A-Za-z-]{10,48}`)},
	{"Bearer Token", models.SeverityHigh, regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9\-._~+/]{20,}`)},
	{"Inline API Key/Password", models.SeverityHigh, regexp.MustCompile(`(?i)(?:api[_-]?key|password)["']?\s*[:=]\s*["'][^"'\s]{6,}["']`)},
	{"JWT", models.SeverityMedium, regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]*`)},
	{"RFC1918 IP", models.SeverityMedium, regexp.MustCompile(`\b(?:10\.\d{1,3}\.\d{1,3}\.\d{1,3}|192\.168\.\d{1,3}\.\d{1,3}|172\.(?:1[6-9]|2\d|3[01])\.\d{1,3}\.\d{1,3})\b`)},
	{"Email Address", models.SeverityInfo, regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)},
}

// SensitiveData fetches the target base URL plus the first N crawl URLs
// and scans each body against the sensitive-data regex catalog, masking
// any matched credential before it reaches the report.
func SensitiveData(ctx context.Context, st *scan.State, log zerolog.Logger) error {
	urls := append([]string{st.Target.BaseURL()}, scan.TruncateStrings(st.DiscoveredURLs(), st.Budgets.SensitiveDataURLs)...)
	seen := map[string]bool{}

	for _, u := range urls {
		resp, err := st.Client.Get(ctx, u)
		if err != nil {
			log.Debug().Err(err).Str("url", u).Msg("sensitive_data: request failed")
			continue
		}
		body, err := ReadBody(resp)
		if err != nil {
			continue
		}
		for _, pat := range sensitivePatterns {
			matches := pat.re.FindAllString(body, -1)
			for _, m := range matches {
				key := u + "|" + pat.name + "|" + m
				if seen[key] {
					continue
				}
				seen[key] = true
				masked := MaskSecret(m)
				st.Findings.Add(pat.severity, "Sensitive Data Exposure",
					pat.name+" exposed",
					pat.name+" found at "+u+": "+masked,
					"Remove this secret from client-visible responses and rotate it.")
				st.SensitiveFindings = append(st.SensitiveFindings, models.SensitiveFinding{
					URL: u, Kind: pat.name, Masked: masked,
				})
			}
		}
	}
	return nil
}
