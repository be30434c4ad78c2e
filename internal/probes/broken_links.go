package probes

import (
	"context"
	"net"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/BetterCallFirewall/tupisec/internal/models"
	"github.com/BetterCallFirewall/tupisec/internal/scan"
)

// BrokenLinks collects external-host links from the target plus the first
// N crawl pages, then fetches up to M distinct external domains, flagging
// dead (404/410) or unresolvable (registerable) link targets.
func BrokenLinks(ctx context.Context, st *scan.State, log zerolog.Logger) error {
	pages := append([]string{st.Target.BaseURL()}, scan.TruncateStrings(st.DiscoveredURLs(), st.Budgets.BrokenLinkCrawlURLs)...)

	externalByDomain := map[string]string{}
	for _, pageURL := range pages {
		resp, err := st.Client.Get(ctx, pageURL)
		if err != nil {
			log.Debug().Err(err).Str("url", pageURL).Msg("broken_links: fetch failed")
			continue
		}
		body, err := ReadBody(resp)
		if err != nil {
			continue
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
		if err != nil {
			continue
		}
		doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
			href, _ := sel.Attr("href")
			u, err := url.Parse(href)
			if err != nil || u.Host == "" || u.Hostname() == st.Target.Host() {
				return
			}
			if _, exists := externalByDomain[u.Hostname()]; !exists {
				externalByDomain[u.Hostname()] = u.String()
			}
		})
	}

	domains := make([]string, 0, len(externalByDomain))
	for d := range externalByDomain {
		domains = append(domains, d)
	}
	domains = scan.TruncateStrings(domains, st.Budgets.BrokenLinkDomains)

	for _, domain := range domains {
		linkURL := externalByDomain[domain]
		checkBrokenLink(ctx, st, log, domain, linkURL)
	}
	return nil
}

func checkBrokenLink(ctx context.Context, st *scan.State, log zerolog.Logger, domain, linkURL string) {
	resp, err := st.Client.Get(ctx, linkURL)
	if err != nil {
		if !resolvesViaDNS(domain) {
			st.Findings.Add(models.SeverityMedium, "Broken Link Hijacking",
				"External link domain does not resolve",
				"Link to "+linkURL+" references "+domain+", which fails DNS resolution and may be registerable.",
				"Remove the dead link or verify the domain is still owned by the intended party.")
			st.BrokenLinks = append(st.BrokenLinks, models.BrokenLink{URL: linkURL, Domain: domain, Reason: "dns_failure"})
		}
		return
	}
	resp.Body.Close()
	switch resp.StatusCode {
	case 404, 410:
		if !resolvesViaDNS(domain) {
			st.Findings.Add(models.SeverityMedium, "Broken Link Hijacking",
				"External link target is dead and domain is unregistered",
				"Link to "+linkURL+" returned HTTP "+httpStatusText(resp.StatusCode)+" and "+domain+" does not resolve.",
				"Remove the dead link; the domain may be available for registration by a third party.")
			st.BrokenLinks = append(st.BrokenLinks, models.BrokenLink{URL: linkURL, Domain: domain, Reason: "dead_and_unregistered"})
		} else {
			st.Findings.Add(models.SeverityLow, "Broken Link",
				"External link target returns "+httpStatusText(resp.StatusCode),
				"Link to "+linkURL+" returned HTTP "+httpStatusText(resp.StatusCode)+".",
				"Remove or update the dead link.")
			st.BrokenLinks = append(st.BrokenLinks, models.BrokenLink{URL: linkURL, Domain: domain, Reason: "dead"})
		}
	}
}

func resolvesViaDNS(domain string) bool {
	_, err := net.LookupHost(domain)
	return err == nil
}

func httpStatusText(code int) string {
	switch code {
	case 404:
		return "404"
	case 410:
		return "410"
	default:
		return "unknown"
	}
}
