package probes

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/BetterCallFirewall/tupisec/internal/scan"
)

// techSignatures maps a body regex to the product name it identifies.
var techSignatures = []struct {
	pattern *regexp.Regexp
	product string
}{
	{regexp.MustCompile(`(?i)wp-content|wp-includes`), "WordPress"},
	{regexp.MustCompile(`(?i)jquery[.-]?([\d.]+)?`), "jQuery"},
	{regexp.MustCompile(`(?i)react(?:\.production)?\.min\.js`), "React"},
	{regexp.MustCompile(`(?i)ng-version="([\d.]+)"`), "Angular"},
	{regexp.MustCompile(`(?i)vue(?:\.runtime)?\.min\.js`), "Vue.js"},
	{regexp.MustCompile(`(?i)drupal\.js|Drupal\.settings`), "Drupal"},
	{regexp.MustCompile(`(?i)Joomla!`), "Joomla"},
	{regexp.MustCompile(`(?i)laravel_session`), "Laravel"},
	{regexp.MustCompile(`(?i)django`), "Django"},
	{regexp.MustCompile(`(?i)bootstrap(?:\.min)?\.(?:css|js)`), "Bootstrap"},
}

var generatorMeta = regexp.MustCompile(`(?i)<meta\s+name=["']generator["']\s+content=["']([^"']+)["']`)

// Tech fingerprints the target's tech stack from the headers body already
// captured in ScanState, matching JS-library/meta-generator signatures.
func Tech(ctx context.Context, st *scan.State, log zerolog.Logger) error {
	body := st.HeadersResponseBody
	if body == "" {
		return nil
	}

	for _, sig := range techSignatures {
		if sig.pattern.MatchString(body) {
			if _, known := st.TechStack[strings.ToLower(sig.product)]; !known {
				st.TechStack[strings.ToLower(sig.product)] = "detected"
			}
		}
	}

	if m := generatorMeta.FindStringSubmatch(body); len(m) == 2 {
		st.TechStack["generator"] = m[1]
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil
	}
	doc.Find("script[src]").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		lower := strings.ToLower(src)
		switch {
		case strings.Contains(lower, "react"):
			st.TechStack["react"] = "detected"
		case strings.Contains(lower, "vue"):
			st.TechStack["vue"] = "detected"
		case strings.Contains(lower, "angular"):
			st.TechStack["angular"] = "detected"
		}
	})

	return nil
}
