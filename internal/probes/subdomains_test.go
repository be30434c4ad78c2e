package probes

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BetterCallFirewall/tupisec/internal/models"
)

func TestIsSubsetOfFiltersWildcardMatches(t *testing.T) {
	wildcard := map[string]bool{"1.2.3.4": true}

	assert.True(t, isSubsetOf([]string{"1.2.3.4"}, wildcard), "single wildcard IP should be filtered")
	assert.False(t, isSubsetOf([]string{"5.6.7.8"}, wildcard), "a distinct IP must survive filtering")
	assert.False(t, isSubsetOf([]string{"1.2.3.4", "5.6.7.8"}, wildcard), "a partial match still resolves to something real")
	assert.False(t, isSubsetOf([]string{"1.2.3.4"}, map[string]bool{}), "no wildcard IPs means nothing is filtered")
	assert.False(t, isSubsetOf(nil, wildcard), "no resolved IPs is not a wildcard match")
}

func TestSortSubdomainsOrdersByName(t *testing.T) {
	subs := []models.Subdomain{
		{Name: "www.example.com", IPs: []string{"1.1.1.1"}},
		{Name: "api.example.com", IPs: []string{"2.2.2.2"}},
		{Name: "admin.example.com", IPs: []string{"3.3.3.3"}},
	}

	sortSubdomains(subs)

	names := make([]string, len(subs))
	for i, s := range subs {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"admin.example.com", "api.example.com", "www.example.com"}, names)
}
