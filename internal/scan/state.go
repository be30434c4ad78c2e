// Package scan holds the process-wide ScanState aggregate every phase
// reads from and writes into, plus the payload Budgets contract.
package scan

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BetterCallFirewall/tupisec/internal/findings"
	"github.com/BetterCallFirewall/tupisec/internal/httpclient"
	"github.com/BetterCallFirewall/tupisec/internal/models"
	"github.com/BetterCallFirewall/tupisec/internal/target"
)

// ScannerVersion is threaded into the textual report banner.
const ScannerVersion = "2.0.0"

// State is the shared, mutable scan-wide aggregate. It is written only by
// the currently executing phase and read by later phases; the only
// field guarded by its own lock here is the discovered-URL set.
type State struct {
	// RunID identifies this scan run; threaded into the JSON report so
	// individual runs can be correlated across logs and dashboards.
	RunID uuid.UUID

	Target   *target.Target
	Client   *httpclient.Client
	Findings *findings.Store
	Budgets  *Budgets

	mu              sync.Mutex
	discoveredURLs  map[string]struct{}
	discoveredOrder []string

	Forms     []models.Form
	TechStack map[string]string

	DNSRecords []models.DNSRecord
	WhoisInfo  map[string]string
	CVEs       []models.CVEEntry
	Subdomains []models.Subdomain

	FuzzResults       []models.FuzzResult
	SensitiveFindings []models.SensitiveFinding
	BrokenLinks       []models.BrokenLink

	// HeadersResponseBody is the body of the first response fetched by the
	// headers phase. The tech phase fingerprints it; form extraction does
	// not read it and works on the pages the crawl phase fetches instead.
	HeadersResponseBody string

	// NVDAPIKey, if set, is sent as the apiKey header on NVD lookups to
	// raise the request-rate ceiling.
	NVDAPIKey string
	// SubdomainWordlist, if non-empty, replaces the probe's built-in
	// enumeration wordlist.
	SubdomainWordlist []string

	StartedAt time.Time
}

// New builds a State for the given target and cookie header. A
// httpTimeout <= 0 falls back to httpclient.DefaultTimeout.
func New(tgt *target.Target, cookieHeader string, httpTimeout time.Duration) (*State, error) {
	client, err := httpclient.New(tgt.BaseURL(), cookieHeader, httpTimeout)
	if err != nil {
		return nil, err
	}
	return &State{
		RunID:          uuid.New(),
		Target:         tgt,
		Client:         client,
		Findings:       findings.New(),
		Budgets:        DefaultBudgets(),
		discoveredURLs: make(map[string]struct{}),
		TechStack:      make(map[string]string),
		WhoisInfo:      make(map[string]string),
		StartedAt:      time.Now(),
	}, nil
}

// AddDiscoveredURL records a same-origin URL, deduplicated, preserving
// first-seen order.
func (s *State) AddDiscoveredURL(u string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.discoveredURLs[u]; ok {
		return
	}
	s.discoveredURLs[u] = struct{}{}
	s.discoveredOrder = append(s.discoveredOrder, u)
}

// DiscoveredURLs returns every discovered URL in first-seen order.
func (s *State) DiscoveredURLs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.discoveredOrder))
	copy(out, s.discoveredOrder)
	return out
}
