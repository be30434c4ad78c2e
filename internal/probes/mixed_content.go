package probes

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/BetterCallFirewall/tupisec/internal/models"
	"github.com/BetterCallFirewall/tupisec/internal/scan"
)

// MixedContent inspects HTTPS pages for HTTP-loaded subresources,
// classifying active tags as HIGH and passive tags (plus inline <style>
// http:// references) as MEDIUM.
func MixedContent(ctx context.Context, st *scan.State, log zerolog.Logger) error {
	if st.Target.Scheme() != "https" {
		return nil
	}

	pages := append([]string{st.Target.BaseURL()}, st.DiscoveredURLs()...)
	seen := map[string]bool{}

	for _, pageURL := range pages {
		resp, err := st.Client.Get(ctx, pageURL)
		if err != nil {
			log.Debug().Err(err).Str("url", pageURL).Msg("mixed_content: request failed")
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

		for tag, attr := range MixedContentActiveTags {
			doc.Find(tag).Each(func(_ int, sel *goquery.Selection) {
				val, ok := sel.Attr(attr)
				if !ok || !strings.HasPrefix(val, "http://") {
					return
				}
				key := pageURL + "|active|" + val
				if seen[key] {
					return
				}
				seen[key] = true
				st.Findings.Add(models.SeverityHigh, "Mixed Content",
					"Active mixed content via <"+tag+">",
					"Page "+pageURL+" loads "+val+" over plain HTTP.",
					"Serve all active-content resources over HTTPS.")
			})
		}
		for tag, attr := range MixedContentPassiveTags {
			doc.Find(tag).Each(func(_ int, sel *goquery.Selection) {
				val, ok := sel.Attr(attr)
				if !ok || !strings.HasPrefix(val, "http://") {
					return
				}
				key := pageURL + "|passive|" + val
				if seen[key] {
					return
				}
				seen[key] = true
				st.Findings.Add(models.SeverityMedium, "Mixed Content",
					"Passive mixed content via <"+tag+">",
					"Page "+pageURL+" loads "+val+" over plain HTTP.",
					"Serve all resources over HTTPS.")
			})
		}
		doc.Find("style").Each(func(_ int, sel *goquery.Selection) {
			text := sel.Text()
			if strings.Contains(text, "http://") {
				key := pageURL + "|style"
				if seen[key] {
					return
				}
				seen[key] = true
				st.Findings.Add(models.SeverityMedium, "Mixed Content",
					"Inline stylesheet references HTTP resource",
					"Page "+pageURL+" has an inline <style> block referencing an http:// URL.",
					"Update inline stylesheets to reference HTTPS resources.")
			}
		})
	}
	return nil
}
