// Package target parses the scan's target URL and derives the values
// probes key off of: host, scheme, port, base URL, and apex domain.
package target

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ccSecondLevelLabels are second-level labels that, under a two-letter
// country-code TLD, indicate the registrable domain is three labels deep
// (e.g. "co.uk", "com.py") rather than two.
var ccSecondLevelLabels = map[string]bool{
	"com": true, "org": true, "net": true, "edu": true, "gov": true,
	"co": true, "ac": true, "gob": true, "mil": true, "or": true, "ne": true,
}

// Target is the parsed form of the scan's target URL.
type Target struct {
	raw *url.URL
}

// Parse parses rawURL, defaulting to https if no scheme is present.
func Parse(rawURL string) (*Target, error) {
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("target: parse url %q: %w", rawURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("target: url %q has no host", rawURL)
	}
	return &Target{raw: u}, nil
}

// URL returns the original parsed URL.
func (t *Target) URL() *url.URL {
	return t.raw
}

// BaseURL returns scheme://host, with no path, query, or fragment.
func (t *Target) BaseURL() string {
	return fmt.Sprintf("%s://%s", t.raw.Scheme, t.raw.Host)
}

// Host returns the hostname without port.
func (t *Target) Host() string {
	return t.raw.Hostname()
}

// Scheme returns "http" or "https".
func (t *Target) Scheme() string {
	return t.raw.Scheme
}

// Port returns the explicit port, or the scheme default if none was given.
func (t *Target) Port() string {
	if p := t.raw.Port(); p != "" {
		return p
	}
	if t.raw.Scheme == "http" {
		return "80"
	}
	return "443"
}

// ApexDomain returns the registrable parent of Host(), ccSLD-aware: if the
// TLD is a two-letter country code and the second-level label is in the
// known ccSLD set and the hostname has at least three labels, the apex is
// the last three labels; otherwise it is the last two.
//
//	a.b.co.uk       -> b.co.uk
//	a.b.com         -> b.com
//	foo.tupisa.com.py -> tupisa.com.py
func ApexDomain(host string) string {
	if ip := net.ParseIP(host); ip != nil {
		return host
	}
	labels := strings.Split(strings.TrimSuffix(host, "."), ".")
	n := len(labels)
	if n < 2 {
		return host
	}
	tld := labels[n-1]
	secondLevel := labels[n-2]
	if len(tld) == 2 && ccSecondLevelLabels[secondLevel] && n >= 3 {
		return strings.Join(labels[n-3:], ".")
	}
	return strings.Join(labels[n-2:], ".")
}

// ApexDomain returns the target host's apex domain.
func (t *Target) ApexDomain() string {
	return ApexDomain(t.Host())
}
