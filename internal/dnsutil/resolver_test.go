package dnsutil

import (
	"context"
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
)

func TestNullResolverAlwaysErrors(t *testing.T) {
	var r Resolver = NullResolver{}
	_, err := r.Resolve(context.Background(), "example.com", dns.TypeA)
	assert.Error(t, err)
}

func TestNewDefaultsServers(t *testing.T) {
	c := New(nil)
	assert.NotEmpty(t, c.servers)
}
