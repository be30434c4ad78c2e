// Package crawler implements the bounded breadth-first discovery of
// same-host URLs and forms described in the orchestrator's crawl phase.
package crawler

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/BetterCallFirewall/tupisec/internal/httpclient"
)

// DefaultDepth is the crawl's default BFS depth.
const DefaultDepth = 2

// tagAttrs names the tag/attribute pairs the crawler extracts links from.
var tagAttrs = map[string]string{
	"a":      "href",
	"form":   "action",
	"script": "src",
	"link":   "href",
	"img":    "src",
	"iframe": "src",
}

// Crawler walks a site breadth-first, same-host only.
type Crawler struct {
	client *httpclient.Client
	host   string
	depth  int
	log    zerolog.Logger
}

// New builds a Crawler rooted at host (the target's hostname), using the
// given depth (DefaultDepth if depth <= 0).
func New(client *httpclient.Client, host string, depth int, log zerolog.Logger) *Crawler {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &Crawler{client: client, host: host, depth: depth, log: log}
}

// Page is one fetched and parsed page.
type Page struct {
	URL  string
	Body string
}

// Crawl runs the BFS starting at startURL, calling onPage for every fetched
// page (so callers can extract forms without a second fetch) and returning
// every discovered same-host URL, deduplicated.
func (c *Crawler) Crawl(ctx context.Context, startURL string, onPage func(Page)) []string {
	visited := map[string]struct{}{}
	discovered := map[string]struct{}{}
	queue := []string{startURL}

	for level := 0; level <= c.depth && len(queue) > 0; level++ {
		next := []string{}
		for _, pageURL := range queue {
			select {
			case <-ctx.Done():
				return orderedKeys(discovered)
			default:
			}
			if _, ok := visited[pageURL]; ok {
				continue
			}
			visited[pageURL] = struct{}{}

			resp, err := c.client.Get(ctx, pageURL)
			if err != nil {
				c.log.Debug().Err(err).Str("url", pageURL).Msg("crawl fetch failed")
				continue
			}
			body, err := readBody(resp)
			if err != nil {
				c.log.Debug().Err(err).Str("url", pageURL).Msg("crawl read body failed")
				continue
			}

			if onPage != nil {
				onPage(Page{URL: pageURL, Body: body})
			}

			for _, link := range c.extractLinks(pageURL, body) {
				if _, ok := discovered[link]; ok {
					continue
				}
				discovered[link] = struct{}{}
				if _, ok := visited[link]; !ok {
					next = append(next, link)
				}
			}
		}
		queue = next
	}
	return orderedKeys(discovered)
}

func (c *Crawler) extractLinks(pageURL, body string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	var out []string
	for tag, attr := range tagAttrs {
		doc.Find(tag).Each(func(_ int, sel *goquery.Selection) {
			raw, ok := sel.Attr(attr)
			if !ok {
				return
			}
			resolved, ok := c.resolve(base, raw)
			if !ok {
				return
			}
			out = append(out, resolved)
		})
	}
	return out
}

// resolve rejects fragment-only / javascript: / mailto: / tel: links,
// resolves the rest against base, and keeps only same-host results.
func (c *Crawler) resolve(base *url.URL, raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "#") {
		return "", false
	}
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "tel:") {
		return "", false
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	resolved := base.ResolveReference(ref)
	if resolved.Hostname() != c.host {
		return "", false
	}
	resolved.Fragment = ""
	return resolved.String(), true
}

func readBody(resp *http.Response) (string, error) {
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func orderedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
