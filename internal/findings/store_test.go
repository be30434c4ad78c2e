package findings

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BetterCallFirewall/tupisec/internal/models"
)

func TestAddAndAll(t *testing.T) {
	s := New()
	s.Add(models.SeverityHigh, "XSS", "Reflected XSS", "detail", "fix")
	s.Add(models.SeverityCritical, "SQLi", "SQL Injection", "detail", "fix")

	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, models.SeverityHigh, all[0].Severity)
	assert.Equal(t, models.SeverityCritical, all[1].Severity)
}

func TestSortedBySeverityIsNonDecreasing(t *testing.T) {
	s := New()
	s.Add(models.SeverityInfo, "a", "t1", "d", "r")
	s.Add(models.SeverityCritical, "b", "t2", "d", "r")
	s.Add(models.SeverityLow, "c", "t3", "d", "r")
	s.Add(models.SeverityHigh, "d", "t4", "d", "r")

	sorted := s.SortedBySeverity()
	for i := 1; i < len(sorted); i++ {
		assert.LessOrEqual(t, sorted[i-1].Severity.Rank(), sorted[i].Severity.Rank())
	}
	assert.Equal(t, models.SeverityCritical, sorted[0].Severity)
	assert.Equal(t, models.SeverityInfo, sorted[len(sorted)-1].Severity)
}

func TestCounts(t *testing.T) {
	s := New()
	s.Add(models.SeverityHigh, "a", "t", "d", "r")
	s.Add(models.SeverityHigh, "a", "t2", "d", "r")
	s.Add(models.SeverityLow, "b", "t3", "d", "r")

	counts := s.Counts()
	assert.Equal(t, 2, counts[models.SeverityHigh])
	assert.Equal(t, 1, counts[models.SeverityLow])
	assert.Equal(t, 0, counts[models.SeverityCritical])
}

func TestConcurrentAdd(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Add(models.SeverityMedium, "rate_limit", "t", "d", "r")
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, s.Len())
}
