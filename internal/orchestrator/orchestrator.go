// Package orchestrator runs the fixed ordered phase table that drives a
// scan from an empty ScanState to a complete one: header analysis first,
// crawl and form discovery next, then the injection and infrastructure
// probes that depend on what those early phases found.
package orchestrator

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/BetterCallFirewall/tupisec/internal/crawler"
	"github.com/BetterCallFirewall/tupisec/internal/dnsutil"
	"github.com/BetterCallFirewall/tupisec/internal/forms"
	"github.com/BetterCallFirewall/tupisec/internal/models"
	"github.com/BetterCallFirewall/tupisec/internal/probes"
	"github.com/BetterCallFirewall/tupisec/internal/rawhttp"
	"github.com/BetterCallFirewall/tupisec/internal/scan"
)

// ProgressEvent mirrors the PROGRESS:{...} stdout line and the optional
// websocket frame: one record per phase transition.
type ProgressEvent struct {
	Phase   string `json:"phase"`
	Step    int    `json:"step"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}

// phase is one entry of the fixed orchestration table.
type phase struct {
	ID          string
	Description string
	Run         func(ctx context.Context, st *scan.State, log zerolog.Logger) error
}

// Options configures a Run invocation.
type Options struct {
	Resolver dnsutil.Resolver
	// CrawlDepth overrides the crawler's default BFS depth; <= 0 keeps
	// crawler.DefaultDepth.
	CrawlDepth int
	OnEvent    func(ProgressEvent)
	Log        zerolog.Logger
}

// Run executes every phase in order against st, catching and logging
// per-phase errors instead of aborting. It never returns an error itself;
// phase failures are strictly log events, matching the "phases never
// abort the pipeline" contract.
func Run(ctx context.Context, st *scan.State, opts Options) {
	phases := buildPhases(opts.Resolver, opts.CrawlDepth)
	total := len(phases)

	emit := opts.OnEvent
	if emit == nil {
		emit = func(ProgressEvent) {}
	}

	for i, p := range phases {
		select {
		case <-ctx.Done():
			emit(ProgressEvent{Phase: "done", Step: total, Total: total, Message: "cancelled"})
			return
		default:
		}

		emit(ProgressEvent{Phase: p.ID, Step: i + 1, Total: total, Message: p.Description})
		phaseLog := opts.Log.With().Str("phase", p.ID).Logger()

		if err := p.Run(ctx, st, phaseLog); err != nil {
			phaseLog.Warn().Err(err).Msg("phase failed")
		}
	}

	emit(ProgressEvent{Phase: "done", Step: total, Total: total, Message: "scan complete"})
}

// buildPhases assembles the fixed phase table. crawlPhase populates both
// discovered URLs and st.Forms (via the form extractor run against every
// crawled page body) so every probe listed after it can assume both are
// populated.
func buildPhases(resolver dnsutil.Resolver, crawlDepth int) []phase {
	if resolver == nil {
		resolver = dnsutil.NullResolver{}
	}

	return []phase{
		{"headers", "Analyzing HTTP security headers", probes.Headers},
		{"tls", "Inspecting TLS configuration", probes.TLS},
		{"tech", "Fingerprinting technology stack", probes.Tech},
		{"methods", "Checking allowed HTTP methods", probes.Methods},
		{"crawl", "Crawling site for URLs and forms", func(ctx context.Context, st *scan.State, log zerolog.Logger) error {
			return crawlPhase(ctx, st, log, crawlDepth)
		}},
		{"form_hygiene", "Checking forms for CSRF and transport hygiene", probes.FormHygiene},
		{"dns_whois", "Resolving DNS records and WHOIS", func(ctx context.Context, st *scan.State, log zerolog.Logger) error {
			return probes.DNSWhois(ctx, st, log, resolver)
		}},
		{"cves", "Looking up known CVEs for detected technologies", probes.CVEs},
		{"sqli", "Testing for SQL injection", probes.SQLi},
		{"xss", "Testing for cross-site scripting", probes.XSS},
		{"ssti", "Testing for server-side template injection", probes.SSTI},
		{"ssrf", "Testing for server-side request forgery", probes.SSRF},
		{"nosql", "Testing for NoSQL injection", probes.NoSQL},
		{"cmd_injection", "Testing for OS command injection", probes.CmdInjection},
		{"default_creds", "Testing admin panels for default credentials", probes.DefaultCreds},
		{"directories", "Enumerating common paths", probes.Directories},
		{"ports", "Scanning common TCP ports", probes.Ports},
		{"open_redirect", "Testing for open redirect", probes.OpenRedirect},
		{"cors_advanced", "Testing CORS configuration", probes.CORSAdvanced},
		{"subdomains", "Enumerating subdomains", func(ctx context.Context, st *scan.State, log zerolog.Logger) error {
			return probes.Subdomains(ctx, st, log, resolver)
		}},
		{"param_fuzz", "Fuzzing discovered URL parameters", probes.ParamFuzz},
		{"sensitive_data", "Scanning responses for sensitive data", probes.SensitiveData},
		{"jwt", "Analyzing JSON Web Tokens", probes.JWT},
		{"rate_limit", "Testing authentication rate limiting", probes.RateLimit},
		{"mixed_content", "Checking for mixed content", probes.MixedContent},
		{"graphql", "Probing GraphQL endpoints", probes.GraphQL},
		{"xxe", "Testing for XML external entity injection", probes.XXE},
		{"broken_links", "Checking for broken-link hijacking", probes.BrokenLinks},
		{"crlf", "Testing for CRLF injection", probes.CRLF},
		{"prototype_pollution", "Testing for prototype pollution", probes.PrototypePollution},
		{"s3_buckets", "Enumerating S3 buckets", probes.S3Buckets},
		{"smuggling", "Testing for HTTP request smuggling", smugglingPhase},
	}
}

// crawlPhase runs the bounded BFS crawler and, for every page fetched,
// extracts forms into st.Forms alongside recording the URL. depth <= 0
// keeps the crawler's own default.
func crawlPhase(ctx context.Context, st *scan.State, log zerolog.Logger, depth int) error {
	extractor := forms.New()
	c := crawler.New(st.Client, st.Target.Host(), depth, log)

	urls := c.Crawl(ctx, st.Target.BaseURL(), func(page crawler.Page) {
		st.AddDiscoveredURL(page.URL)
		for _, f := range extractor.Extract(page.URL, page.Body) {
			st.Forms = append(st.Forms, f)
		}
	})
	for _, u := range urls {
		st.AddDiscoveredURL(u)
	}
	return nil
}

// smugglingPhase runs the raw-socket CL.TE/TE.CL probes against the
// target host/port, reporting a timeout-based desync oracle hit as a
// finding.
func smugglingPhase(ctx context.Context, st *scan.State, log zerolog.Logger) error {
	host := st.Target.Host()
	port := st.Target.Port()
	useTLS := st.Target.Scheme() == "https"

	for _, variant := range []rawhttp.Variant{rawhttp.VariantCLTE, rawhttp.VariantTECL} {
		result := rawhttp.Probe(host, port, useTLS, variant)
		if result.TransportErr != nil {
			log.Debug().Err(result.TransportErr).Str("variant", string(variant)).Msg("smuggling probe transport error")
			continue
		}
		if result.TimedOut {
			st.Findings.Add(models.SeverityHigh, "HTTP Request Smuggling",
				string(variant)+" desync detected",
				"A "+string(variant)+" request against "+host+":"+port+" exceeded the recv timeout, indicating the front-end and back-end disagree on message framing.",
				"Normalize Content-Length/Transfer-Encoding handling at the edge and reject ambiguous requests carrying both headers.")
		}
	}
	return nil
}
