package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BetterCallFirewall/tupisec/internal/httpclient"
)

func TestCrawlSameHostOnly(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<a href="/page2">p2</a>
			<a href="https://evil.example/other">evil</a>
			<a href="#frag">frag</a>
			<a href="javascript:alert(1)">js</a>
			<a href="mailto:a@b.com">mail</a>
		</body></html>`))
	})
	mux.HandleFunc("/page2", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>ok</body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := httpclient.New(srv.URL, "", 0)
	require.NoError(t, err)

	parsed, err := url.Parse(srv.URL)
	require.NoError(t, err)

	c := New(client, parsed.Hostname(), 1, zerolog.Nop())
	urls := c.Crawl(context.Background(), srv.URL, nil)

	found := map[string]bool{}
	for _, u := range urls {
		found[u] = true
	}
	assert.True(t, found[srv.URL+"/page2"])
	for u := range found {
		assert.NotContains(t, u, "evil.example")
	}
}

func TestResolveRejectsNonHTTPSchemes(t *testing.T) {
	c := &Crawler{host: "example.com"}
	base, _ := url.Parse("https://example.com/")

	_, ok := c.resolve(base, "#frag")
	assert.False(t, ok)
	_, ok = c.resolve(base, "javascript:void(0)")
	assert.False(t, ok)
	_, ok = c.resolve(base, "mailto:a@b.com")
	assert.False(t, ok)
	_, ok = c.resolve(base, "tel:+123")
	assert.False(t, ok)

	got, ok := c.resolve(base, "/path")
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/path", got)
}
