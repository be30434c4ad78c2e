package probes

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/BetterCallFirewall/tupisec/internal/models"
	"github.com/BetterCallFirewall/tupisec/internal/scan"
)

var (
	criticalPathMarkers = []string{".env", ".git/config", "dump.sql", "phpinfo"}
	highPathMarkers     = []string{"config", "backup", ".bak", "sql"}
)

// Directories probes a fixed catalog of sensitive paths against the base
// URL (and a secondary /newsys/ prefix) with redirects disabled,
// classifying hits by path content and status code.
func Directories(ctx context.Context, st *scan.State, log zerolog.Logger) error {
	noRedirect := st.Client.WithRedirects(false)

	probeOne := func(prefix, path string) {
		u := st.Target.BaseURL() + "/" + prefix + path
		resp, err := noRedirect.Get(ctx, u)
		if err != nil {
			log.Debug().Err(err).Str("url", u).Msg("directories: request failed")
			return
		}
		resp.Body.Close()
		classifyDirectoryHit(st, u, path, resp.StatusCode)
	}

	for _, path := range CommonPaths {
		probeOne("", path)
	}
	for _, path := range NewSysPaths {
		probeOne("newsys/", path)
	}
	return nil
}

func classifyDirectoryHit(st *scan.State, u, path string, status int) {
	lower := strings.ToLower(path)
	switch {
	case status == 200 && containsAny(lower, criticalPathMarkers):
		st.Findings.Add(models.SeverityCritical, "Sensitive File Exposure",
			"Sensitive file accessible: "+path,
			u+" returned HTTP 200.",
			"Remove or restrict access to this file; it should never be web-accessible.")
	case status == 200 && containsAny(lower, highPathMarkers):
		st.Findings.Add(models.SeverityHigh, "Sensitive File Exposure",
			"Potentially sensitive file accessible: "+path,
			u+" returned HTTP 200.",
			"Restrict access to configuration and backup files.")
	case status == 200:
		st.Findings.Add(models.SeverityMedium, "Directory Enumeration",
			"Unexpected path accessible: "+path,
			u+" returned HTTP 200.",
			"Review whether this path should be publicly accessible.")
	case status == 403:
		st.Findings.Add(models.SeverityInfo, "Directory Enumeration",
			"Path exists but is forbidden: "+path,
			u+" returned HTTP 403.",
			"No action required; the path exists but access is denied.")
	}
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
