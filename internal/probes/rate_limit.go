package probes

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/BetterCallFirewall/tupisec/internal/models"
	"github.com/BetterCallFirewall/tupisec/internal/scan"
)

var authURLHints = []string{"/login", "/auth", "/api/", "/signin", "/token"}

// RateLimit identifies up to N auth-like endpoints (forms with a password
// field, or crawl URLs matching common auth paths), fires a burst of
// concurrent requests at each, and flags the absence of any HTTP 429 as
// evidence of missing throttling.
func RateLimit(ctx context.Context, st *scan.State, log zerolog.Logger) error {
	endpoints := authLikeEndpoints(st)
	endpoints = scan.TruncateStrings(endpoints, st.Budgets.RateLimitEndpoints)

	for _, endpoint := range endpoints {
		statuses := burst(ctx, st, endpoint)
		has429 := false
		for _, s := range statuses {
			if s == 429 {
				has429 = true
				break
			}
		}
		if !has429 {
			st.Findings.Add(models.SeverityMedium, "Missing Rate Limiting",
				"No rate limiting observed on "+endpoint,
				"A burst of requests against "+endpoint+" produced no HTTP 429 responses.",
				"Add rate limiting or account lockout to authentication endpoints.")
		}
	}
	return nil
}

func authLikeEndpoints(st *scan.State) []string {
	var out []string
	for _, form := range st.Forms {
		if form.HasPasswordField() {
			out = append(out, form.Action)
		}
	}
	for _, u := range st.DiscoveredURLs() {
		lower := strings.ToLower(u)
		for _, hint := range authURLHints {
			if strings.Contains(lower, hint) {
				out = append(out, u)
				break
			}
		}
	}
	return out
}

// burst fires st.Budgets.RateLimitBurst concurrent requests against
// endpoint using up to st.Budgets.RateLimitWorkers workers, returning
// every observed status code. No shared state is mutated inside workers
// beyond returning the status.
func burst(ctx context.Context, st *scan.State, endpoint string) []int {
	sem := semaphore.NewWeighted(int64(st.Budgets.RateLimitWorkers))
	statuses := make([]int, st.Budgets.RateLimitBurst)
	var wg sync.WaitGroup

	for i := 0; i < st.Budgets.RateLimitBurst; i++ {
		i := i
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			resp, err := st.Client.Get(ctx, endpoint)
			if err != nil {
				statuses[i] = 0
				return
			}
			resp.Body.Close()
			statuses[i] = resp.StatusCode
		}()
	}
	wg.Wait()
	return statuses
}
