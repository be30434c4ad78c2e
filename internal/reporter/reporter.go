// Package reporter assembles the final JSON and textual reports from a
// completed scan.State, matching the original scanner's banner/summary/
// finding-block layout while emitting a richer JSON schema.
package reporter

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/BetterCallFirewall/tupisec/internal/models"
	"github.com/BetterCallFirewall/tupisec/internal/scan"
)

// Report is the JSON-serializable shape of a finished scan.
type Report struct {
	RunID          string                  `json:"run_id"`
	Target         string                  `json:"target"`
	BaseURL        string                  `json:"base_url"`
	ScanDate       string                  `json:"scan_date"`
	Summary        map[models.Severity]int `json:"summary"`
	TechStack      map[string]string       `json:"tech_stack"`
	DiscoveredURLs []string                `json:"discovered_urls"`
	Findings       []models.Finding        `json:"findings"`

	DNSRecords []models.DNSRecord   `json:"dns_records"`
	WhoisInfo  map[string]string    `json:"whois_info"`
	CVEData    []models.CVEEntry    `json:"cve_data"`
	Subdomains []models.Subdomain   `json:"subdomains"`

	FuzzResults       []models.FuzzResult       `json:"fuzz_results"`
	SensitiveFindings []models.SensitiveFinding `json:"sensitive_findings"`
	BrokenLinks       []models.BrokenLink       `json:"broken_links"`
}

// Build constructs a Report snapshot from st.
func Build(st *scan.State) Report {
	return Report{
		RunID:             st.RunID.String(),
		Target:            st.Target.URL().String(),
		BaseURL:           st.Target.BaseURL(),
		ScanDate:          st.StartedAt.UTC().Format(time.RFC3339),
		Summary:           st.Findings.Counts(),
		TechStack:         st.TechStack,
		DiscoveredURLs:    st.DiscoveredURLs(),
		Findings:          st.Findings.SortedBySeverity(),
		DNSRecords:        st.DNSRecords,
		WhoisInfo:         st.WhoisInfo,
		CVEData:           st.CVEs,
		Subdomains:        st.Subdomains,
		FuzzResults:       st.FuzzResults,
		SensitiveFindings: st.SensitiveFindings,
		BrokenLinks:       st.BrokenLinks,
	}
}

// JSON marshals the report with indentation, matching the human-friendly
// on-disk/stdout format the original scanner produced.
func (r Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Text renders the fixed banner/summary/tech-stack/URL-list/finding-block
// layout. Findings are already severity-sorted by Build.
func (r Report) Text() string {
	var b strings.Builder

	fmt.Fprintf(&b, "=======================================================\n")
	fmt.Fprintf(&b, " TUPISEC v%s — Web Application Security Report\n", scan.ScannerVersion)
	fmt.Fprintf(&b, "=======================================================\n")
	fmt.Fprintf(&b, "Target:    %s\n", r.Target)
	fmt.Fprintf(&b, "Scanned:   %s\n\n", r.ScanDate)

	fmt.Fprintf(&b, "--- Summary ---\n")
	for _, sev := range []models.Severity{models.SeverityCritical, models.SeverityHigh, models.SeverityMedium, models.SeverityLow, models.SeverityInfo} {
		fmt.Fprintf(&b, "%-10s %d\n", sev, r.Summary[sev])
	}
	b.WriteString("\n")

	if len(r.TechStack) > 0 {
		fmt.Fprintf(&b, "--- Technology Stack ---\n")
		for product, version := range r.TechStack {
			if version != "" {
				fmt.Fprintf(&b, "%s (%s)\n", product, version)
			} else {
				fmt.Fprintf(&b, "%s\n", product)
			}
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "--- Discovered URLs (%d) ---\n", len(r.DiscoveredURLs))
	for _, u := range r.DiscoveredURLs {
		fmt.Fprintf(&b, "%s\n", u)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "--- Findings (%d) ---\n", len(r.Findings))
	for _, f := range r.Findings {
		fmt.Fprintf(&b, "[%s] %s\n", f.Severity, f.Title)
		fmt.Fprintf(&b, "  Category: %s\n", f.Category)
		fmt.Fprintf(&b, "  Detail:   %s\n", f.Detail)
		fmt.Fprintf(&b, "  Fix:      %s\n\n", f.Recommendation)
	}

	return b.String()
}
