// Package findings implements the append-only Finding Store every probe
// writes into and the Reporter reads from.
package findings

import (
	"sort"
	"sync"
	"time"

	"github.com/BetterCallFirewall/tupisec/internal/models"
)

// Store is safe for concurrent Add calls — only the rate-limit burst and
// the optional parallel subdomain resolution actually need that, but every
// other caller gets it for free.
type Store struct {
	mu   sync.Mutex
	list []models.Finding
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// Add appends a new Finding. The Finding is immutable from this point on.
func (s *Store) Add(severity models.Severity, category, title, detail, recommendation string) models.Finding {
	f := models.Finding{
		Severity:       severity,
		Category:       category,
		Title:          title,
		Detail:         detail,
		Recommendation: recommendation,
		Timestamp:      time.Now(),
	}
	s.mu.Lock()
	s.list = append(s.list, f)
	s.mu.Unlock()
	return f
}

// All returns a copy of every finding in insertion order.
func (s *Store) All() []models.Finding {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Finding, len(s.list))
	copy(out, s.list)
	return out
}

// SortedBySeverity returns every finding ordered CRITICAL..INFO, preserving
// insertion order within a severity tier (stable sort).
func (s *Store) SortedBySeverity() []models.Finding {
	out := s.All()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity.Rank() < out[j].Severity.Rank()
	})
	return out
}

// Counts returns the per-severity tally used in the report summary block.
func (s *Store) Counts() map[models.Severity]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := map[models.Severity]int{
		models.SeverityCritical: 0,
		models.SeverityHigh:     0,
		models.SeverityMedium:   0,
		models.SeverityLow:      0,
		models.SeverityInfo:     0,
	}
	for _, f := range s.list {
		counts[f.Severity]++
	}
	return counts
}

// Len returns the number of findings recorded so far.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.list)
}
