// Package httpclient provides the scanner's long-lived HTTP session: a
// cookie-jar-backed client with TLS verification disabled, a default
// timeout, and a redirect-toggle helper probes use to inspect Location
// headers.
package httpclient

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

const (
	// DefaultUserAgent identifies the scanner to the target.
	DefaultUserAgent = "tupisec/2.0 (+security scan)"
	// DefaultTimeout bounds any single request.
	DefaultTimeout = 15 * time.Second
)

// Client wraps *http.Client with the session state the scanner needs.
type Client struct {
	http      *http.Client
	userAgent string
	jar       http.CookieJar
}

// New builds a Client against baseURL's host, optionally preloading cookies
// from a "k=v; k2=v2" header string. A timeout <= 0 falls back to
// DefaultTimeout.
func New(baseURL string, cookieHeader string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("httpclient: new cookie jar: %w", err)
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec
	}

	c := &Client{
		jar:       jar,
		userAgent: DefaultUserAgent,
		http: &http.Client{
			Transport: transport,
			Jar:       jar,
			Timeout:   timeout,
		},
	}

	if cookieHeader != "" {
		if err := c.ImportCookies(baseURL, cookieHeader); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ImportCookies parses a "k=v; k2=v2" cookie header and seeds the jar with
// it against targetURL.
func (c *Client) ImportCookies(targetURL, header string) error {
	u, err := url.Parse(targetURL)
	if err != nil {
		return fmt.Errorf("httpclient: parse cookie target %q: %w", targetURL, err)
	}
	var cookies []*http.Cookie
	for _, pair := range strings.Split(header, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			continue
		}
		cookies = append(cookies, &http.Cookie{
			Name:  strings.TrimSpace(kv[0]),
			Value: strings.TrimSpace(kv[1]),
		})
	}
	c.jar.SetCookies(u, cookies)
	return nil
}

// WithRedirects returns a shallow copy of the client with redirect
// following toggled. Probes inspecting Location headers use follow=false.
func (c *Client) WithRedirects(follow bool) *Client {
	clone := *c.http
	if follow {
		clone.CheckRedirect = nil
	} else {
		clone.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	return &Client{http: &clone, userAgent: c.userAgent, jar: c.jar}
}

// Do sends req with the default User-Agent applied if none is set.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return c.http.Do(req)
}

// Get issues a GET request with an ambient cancellation context.
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: build GET %q: %w", rawURL, err)
	}
	return c.Do(req)
}

// PostForm issues a POST with application/x-www-form-urlencoded body.
func (c *Client) PostForm(ctx context.Context, rawURL, body string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("httpclient: build POST %q: %w", rawURL, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.Do(req)
}

// PostJSON issues a POST with application/json body.
func (c *Client) PostJSON(ctx context.Context, rawURL, body string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("httpclient: build POST %q: %w", rawURL, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.Do(req)
}

// PostXML issues a POST with application/xml body.
func (c *Client) PostXML(ctx context.Context, rawURL, body string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("httpclient: build POST %q: %w", rawURL, err)
	}
	req.Header.Set("Content-Type", "application/xml")
	return c.Do(req)
}

// Raw exposes the underlying *http.Client for probes (e.g. methods.go's
// OPTIONS/TRACE) that need direct access.
func (c *Client) Raw() *http.Client {
	return c.http
}
