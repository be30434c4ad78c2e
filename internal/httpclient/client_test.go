package httpclient

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportCookiesRoundTrip(t *testing.T) {
	c, err := New("https://example.com", "", 0)
	require.NoError(t, err)

	err = c.ImportCookies("https://example.com", "a=1; b=2")
	require.NoError(t, err)

	u, err := url.Parse("https://example.com")
	require.NoError(t, err)

	got := map[string]string{}
	for _, ck := range c.jar.Cookies(u) {
		got[ck.Name] = ck.Value
	}
	assert.Equal(t, "1", got["a"])
	assert.Equal(t, "2", got["b"])
}

func TestWithRedirectsToggle(t *testing.T) {
	c, err := New("https://example.com", "", 0)
	require.NoError(t, err)

	noFollow := c.WithRedirects(false)
	assert.NotNil(t, noFollow.http.CheckRedirect)

	follow := c.WithRedirects(true)
	assert.Nil(t, follow.http.CheckRedirect)
}

func TestNewPreloadsCookieHeader(t *testing.T) {
	c, err := New("https://example.com", "session=abc; theme=dark", 0)
	require.NoError(t, err)

	u, err := url.Parse("https://example.com")
	require.NoError(t, err)

	got := map[string]string{}
	for _, ck := range c.jar.Cookies(u) {
		got[ck.Name] = ck.Value
	}
	assert.Equal(t, "abc", got["session"])
	assert.Equal(t, "dark", got["theme"])
}
