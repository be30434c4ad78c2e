package probes

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
	"github.com/rs/zerolog"

	"github.com/BetterCallFirewall/tupisec/internal/dnsutil"
	"github.com/BetterCallFirewall/tupisec/internal/models"
	"github.com/BetterCallFirewall/tupisec/internal/scan"
)

// dnsRRTypes are the record types gathered for the apex domain.
var dnsRRTypes = map[string]uint16{
	"A":     dns.TypeA,
	"AAAA":  dns.TypeAAAA,
	"MX":    dns.TypeMX,
	"NS":    dns.TypeNS,
	"TXT":   dns.TypeTXT,
	"CNAME": dns.TypeCNAME,
}

// DNSWhois records DNS resource records for the apex domain and attempts a
// best-effort raw WHOIS lookup. Both capabilities are optional: missing
// DNS connectivity downgrades to a log line, never a findings error.
func DNSWhois(ctx context.Context, st *scan.State, log zerolog.Logger, resolver dnsutil.Resolver) error {
	apex := st.Target.ApexDomain()

	for typeName, rrtype := range dnsRRTypes {
		values, err := resolver.Resolve(ctx, apex, rrtype)
		if err != nil {
			log.Debug().Err(err).Str("type", typeName).Msg("dns_whois: resolve failed")
			continue
		}
		for _, v := range values {
			st.DNSRecords = append(st.DNSRecords, models.DNSRecord{Type: typeName, Value: v})
		}
	}

	whois, err := lookupWHOIS(apex)
	if err != nil {
		log.Debug().Err(err).Msg("dns_whois: whois lookup failed")
		return nil
	}
	for k, v := range whois {
		st.WhoisInfo[k] = v
	}
	return nil
}

// lookupWHOIS performs a best-effort raw WHOIS query against the IANA
// registrar for domain, over a plain TCP socket on port 43 — no WHOIS
// library exists in the dependency pack, so this speaks the protocol
// directly.
func lookupWHOIS(domain string) (map[string]string, error) {
	conn, err := net.DialTimeout("tcp", "whois.iana.org:43", 8*time.Second)
	if err != nil {
		return nil, fmt.Errorf("dns_whois: dial whois.iana.org: %w", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(8 * time.Second))
	if _, err := fmt.Fprintf(conn, "%s\r\n", domain); err != nil {
		return nil, fmt.Errorf("dns_whois: whois query: %w", err)
	}

	result := map[string]string{}
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "%") || strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(parts[0]))
		val := strings.TrimSpace(parts[1])
		if key == "" || val == "" {
			continue
		}
		result[key] = val
	}
	return result, nil
}
