package probes

import (
	"context"
	"crypto/rand"
	"math/big"
	"sort"
	"strings"
	"sync"

	"github.com/miekg/dns"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/BetterCallFirewall/tupisec/internal/dnsutil"
	"github.com/BetterCallFirewall/tupisec/internal/models"
	"github.com/BetterCallFirewall/tupisec/internal/scan"
)

// SubdomainWordlist is a compact catalog of common subdomain labels.
var SubdomainWordlist = []string{
	"www", "mail", "ftp", "api", "dev", "staging", "test", "admin",
	"portal", "app", "blog", "shop", "store", "cdn", "static", "assets",
	"media", "images", "docs", "help", "support", "status", "vpn",
	"remote", "git", "gitlab", "jenkins", "ci", "db", "sql", "mysql",
	"redis", "cache", "search", "auth", "sso", "login", "secure",
	"internal", "intranet", "old", "legacy", "beta", "demo", "sandbox",
	"webmail", "ns1", "ns2", "mx", "smtp", "pop", "imap",
}

// takeoverSignature pairs a CNAME target substring with a body pattern
// that together confirm an unclaimed cloud resource.
type takeoverSignature struct {
	serviceDomain string
	bodyPattern   string
}

// TakeoverCatalog lists well-known dangling-CNAME takeover signatures.
var TakeoverCatalog = []takeoverSignature{
	{"github.io", "There isn't a GitHub Pages site here"},
	{"herokudns.com", "no such app"},
	{"s3.amazonaws.com", "NoSuchBucket"},
	{"azurewebsites.net", "404 Web Site not found"},
	{"cloudapp.net", "This share looks like it's empty"},
	{"readthedocs.io", "unknown"},
	{"surge.sh", "project not found"},
	{"shopify.com", "Sorry, this shop is currently unavailable"},
	{"fastly.net", "Fastly error: unknown domain"},
	{"wordpress.com", "Do you want to register"},
}

// Subdomains enumerates the wordlist against the apex domain, filtering
// wildcard-DNS false positives, and checks surviving live hosts for
// CNAME-based takeover signatures.
func Subdomains(ctx context.Context, st *scan.State, log zerolog.Logger, resolver dnsutil.Resolver) error {
	apex := st.Target.ApexDomain()

	wordlist := SubdomainWordlist
	if len(st.SubdomainWordlist) > 0 {
		wordlist = st.SubdomainWordlist
	}

	wildcardIPs, err := detectWildcard(ctx, resolver, apex)
	if err != nil {
		log.Debug().Err(err).Msg("subdomains: wildcard probe failed")
	}

	type candidateResult struct {
		name string
		ips  []string
	}

	sem := semaphore.NewWeighted(15)
	results := make([]candidateResult, len(wordlist))
	var wg sync.WaitGroup

	for i, label := range wordlist {
		i, label := i, label
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			name := label + "." + apex
			ips, err := resolver.Resolve(ctx, name, dns.TypeA)
			if err != nil || len(ips) == 0 {
				return
			}
			results[i] = candidateResult{name: name, ips: ips}
		}()
	}
	wg.Wait()

	// Preserve ordering of finding emission per candidate, per §5.
	for _, r := range results {
		if r.name == "" {
			continue
		}
		if isSubsetOf(r.ips, wildcardIPs) {
			continue
		}
		st.Subdomains = append(st.Subdomains, models.Subdomain{Name: r.name, IPs: r.ips})
		checkTakeover(ctx, st, log, resolver, r.name)
	}
	sortSubdomains(st.Subdomains)
	return nil
}

// detectWildcard resolves two random 12-character labels under apex and
// returns the union of their A-record IPs — the wildcard set.
func detectWildcard(ctx context.Context, resolver dnsutil.Resolver, apex string) (map[string]bool, error) {
	wildcard := map[string]bool{}
	for i := 0; i < 2; i++ {
		label, err := randomLabel(12)
		if err != nil {
			return wildcard, err
		}
		ips, err := resolver.Resolve(ctx, label+"."+apex, dns.TypeA)
		if err != nil {
			continue
		}
		for _, ip := range ips {
			wildcard[ip] = true
		}
	}
	return wildcard, nil
}

func randomLabel(n int) (string, error) {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", err
		}
		b[i] = alphabet[idx.Int64()]
	}
	return string(b), nil
}

// isSubsetOf reports whether every IP in ips is present in wildcard.
func isSubsetOf(ips []string, wildcard map[string]bool) bool {
	if len(wildcard) == 0 || len(ips) == 0 {
		return false
	}
	for _, ip := range ips {
		if !wildcard[ip] {
			return false
		}
	}
	return true
}

func checkTakeover(ctx context.Context, st *scan.State, log zerolog.Logger, resolver dnsutil.Resolver, name string) {
	cnames, err := resolver.Resolve(ctx, name, dns.TypeCNAME)
	if err != nil || len(cnames) == 0 {
		return
	}
	cname := strings.ToLower(cnames[0])

	for _, sig := range TakeoverCatalog {
		if !strings.Contains(cname, sig.serviceDomain) {
			continue
		}
		resp, err := st.Client.Get(ctx, "https://"+name+"/")
		if err != nil {
			resp, err = st.Client.Get(ctx, "http://"+name+"/")
			if err != nil {
				log.Debug().Err(err).Str("host", name).Msg("subdomains: takeover probe fetch failed")
				return
			}
		}
		body, err := ReadBody(resp)
		if err != nil {
			return
		}
		if strings.Contains(body, sig.bodyPattern) {
			st.Findings.Add(models.SeverityCritical, "Subdomain Takeover",
				"Dangling CNAME points to unclaimed "+sig.serviceDomain+" resource",
				name+" CNAMEs to "+cname+" and its content matches the "+sig.serviceDomain+" takeover signature.",
				"Remove the dangling DNS record or reclaim the resource on the target service.")
		}
		return
	}
}

// sortSubdomains gives the report a deterministic subdomain order despite
// the enumeration running with bounded parallelism.
func sortSubdomains(subs []models.Subdomain) {
	sort.Slice(subs, func(i, j int) bool { return subs[i].Name < subs[j].Name })
}
