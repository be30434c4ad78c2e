package target

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApexDomain(t *testing.T) {
	cases := []struct {
		host string
		want string
	}{
		{"a.b.co.uk", "b.co.uk"},
		{"a.b.com", "b.com"},
		{"foo.tupisa.com.py", "tupisa.com.py"},
		{"example.com", "example.com"},
		{"www.example.com", "example.com"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ApexDomain(c.host), c.host)
	}
}

func TestParseDefaultsToHTTPS(t *testing.T) {
	tgt, err := Parse("example.com")
	require.NoError(t, err)
	assert.Equal(t, "https", tgt.Scheme())
	assert.Equal(t, "https://example.com", tgt.BaseURL())
	assert.Equal(t, "443", tgt.Port())
}

func TestParseExplicitScheme(t *testing.T) {
	tgt, err := Parse("http://example.com:8080/path?x=1")
	require.NoError(t, err)
	assert.Equal(t, "example.com", tgt.Host())
	assert.Equal(t, "8080", tgt.Port())
	assert.Equal(t, "http://example.com:8080", tgt.BaseURL())
}

func TestParseRejectsHostless(t *testing.T) {
	_, err := Parse("not a url")
	assert.Error(t, err)
}
