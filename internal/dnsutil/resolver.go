// Package dnsutil implements the DNS resolution capability used by the
// dns_whois phase and the subdomain enumerator. It is modeled as a small
// interface with a null implementation so either probe can downgrade
// gracefully if DNS is unreachable, per the "optional capabilities" design.
package dnsutil

import (
	"context"
	"fmt"
	"time"

	"github.com/miekg/dns"
)

// Resolver looks up records of a given RR type for name.
type Resolver interface {
	Resolve(ctx context.Context, name string, rrtype uint16) ([]string, error)
}

// Client is a miekg/dns-backed Resolver using one or more upstream
// nameservers.
type Client struct {
	servers []string
	timeout time.Duration
}

// New builds a Client. If servers is empty, a small set of public
// resolvers is used.
func New(servers []string) *Client {
	if len(servers) == 0 {
		servers = []string{"8.8.8.8:53", "1.1.1.1:53"}
	}
	return &Client{servers: servers, timeout: 5 * time.Second}
}

// Resolve queries rrtype records for name, trying each configured server
// in turn until one answers.
func (c *Client) Resolve(ctx context.Context, name string, rrtype uint16) ([]string, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), rrtype)
	m.RecursionDesired = true

	client := &dns.Client{Timeout: c.timeout}

	var lastErr error
	for _, server := range c.servers {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		resp, _, err := client.ExchangeContext(ctx, m, server)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.Rcode != dns.RcodeSuccess {
			lastErr = fmt.Errorf("dnsutil: %s rcode %d", name, resp.Rcode)
			continue
		}
		return recordStrings(resp.Answer, rrtype), nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("dnsutil: no servers configured")
	}
	return nil, lastErr
}

func recordStrings(answers []dns.RR, rrtype uint16) []string {
	var out []string
	for _, rr := range answers {
		switch rrtype {
		case dns.TypeA:
			if a, ok := rr.(*dns.A); ok {
				out = append(out, a.A.String())
			}
		case dns.TypeAAAA:
			if a, ok := rr.(*dns.AAAA); ok {
				out = append(out, a.AAAA.String())
			}
		case dns.TypeMX:
			if mx, ok := rr.(*dns.MX); ok {
				out = append(out, mx.Mx)
			}
		case dns.TypeNS:
			if ns, ok := rr.(*dns.NS); ok {
				out = append(out, ns.Ns)
			}
		case dns.TypeTXT:
			if txt, ok := rr.(*dns.TXT); ok {
				for _, s := range txt.Txt {
					out = append(out, s)
				}
			}
		case dns.TypeCNAME:
			if cn, ok := rr.(*dns.CNAME); ok {
				out = append(out, cn.Target)
			}
		}
	}
	return out
}

// NullResolver always fails, letting callers downgrade gracefully when no
// DNS capability is configured.
type NullResolver struct{}

// Resolve always returns an error.
func (NullResolver) Resolve(ctx context.Context, name string, rrtype uint16) ([]string, error) {
	return nil, fmt.Errorf("dnsutil: DNS capability unavailable")
}
