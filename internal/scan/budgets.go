package scan

import "fmt"

// Budgets bounds how much of each input set a probe processes, keeping
// scan time bounded. Every field is part of the public contract: tests
// assert these numbers are enforced, not just chosen as internal defaults.
type Budgets struct {
	SQLiPayloads       int `json:"sqli_payloads"`
	XSSPayloads        int `json:"xss_payloads"`
	CORSCrawlURLs      int `json:"cors_crawl_urls"`
	SensitiveDataURLs  int `json:"sensitive_data_urls"`
	JWTTokens          int `json:"jwt_tokens"`
	RateLimitEndpoints int `json:"rate_limit_endpoints"`
	RateLimitBurst     int `json:"rate_limit_burst"`
	RateLimitWorkers   int `json:"rate_limit_workers"`
	BrokenLinkDomains  int `json:"broken_link_domains"`
	BrokenLinkCrawlURLs int `json:"broken_link_crawl_urls"`
	CRLFQueryParams    int `json:"crlf_query_params"`
	PrototypePollutionURLs int `json:"prototype_pollution_urls"`
}

// DefaultBudgets returns the numbers named by the probe specification.
func DefaultBudgets() *Budgets {
	return &Budgets{
		SQLiPayloads:           5,
		XSSPayloads:            3,
		CORSCrawlURLs:          5,
		SensitiveDataURLs:      15,
		JWTTokens:              3,
		RateLimitEndpoints:     3,
		RateLimitBurst:         15,
		RateLimitWorkers:       10,
		BrokenLinkDomains:      30,
		BrokenLinkCrawlURLs:    10,
		CRLFQueryParams:        3,
		PrototypePollutionURLs: 20,
	}
}

// Validate reports an error if any budget is non-positive.
func (b *Budgets) Validate() error {
	fields := map[string]int{
		"sqli_payloads":            b.SQLiPayloads,
		"xss_payloads":             b.XSSPayloads,
		"cors_crawl_urls":          b.CORSCrawlURLs,
		"sensitive_data_urls":      b.SensitiveDataURLs,
		"jwt_tokens":               b.JWTTokens,
		"rate_limit_endpoints":     b.RateLimitEndpoints,
		"rate_limit_burst":         b.RateLimitBurst,
		"rate_limit_workers":       b.RateLimitWorkers,
		"broken_link_domains":      b.BrokenLinkDomains,
		"broken_link_crawl_urls":   b.BrokenLinkCrawlURLs,
		"crlf_query_params":        b.CRLFQueryParams,
		"prototype_pollution_urls": b.PrototypePollutionURLs,
	}
	for name, v := range fields {
		if v <= 0 {
			return fmt.Errorf("scan: budget %q must be > 0, got %d", name, v)
		}
	}
	return nil
}

// TruncateStrings returns at most n elements of items.
func TruncateStrings(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
