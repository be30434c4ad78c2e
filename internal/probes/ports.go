package probes

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/BetterCallFirewall/tupisec/internal/models"
	"github.com/BetterCallFirewall/tupisec/internal/scan"
)

// Ports runs a bounded TCP connect-scan over the fixed 24-port catalog,
// sharing the same semaphore.Weighted-bounded goroutine pattern the
// subdomain enumerator uses. Open ports other than 80/443 are reported as
// informational findings.
func Ports(ctx context.Context, st *scan.State, log zerolog.Logger) error {
	host := st.Target.Host()

	sem := semaphore.NewWeighted(10)
	results := make([]bool, len(Ports24))
	var wg sync.WaitGroup

	for i, port := range Ports24 {
		i, port := i, port
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			results[i] = probePort(host, port)
		}()
	}
	wg.Wait()

	// Preserve catalog order of finding emission, matching the
	// subdomain enumerator's deterministic-ordering contract.
	for i, open := range results {
		port := Ports24[i]
		if !open || port == 80 || port == 443 {
			continue
		}
		st.Findings.Add(models.SeverityInfo, "Open Port",
			"Port "+strconv.Itoa(port)+" is open",
			"A TCP connect scan found port "+strconv.Itoa(port)+" open on "+host+".",
			"Confirm this service should be internet-facing and is patched.")
	}
	return nil
}

func probePort(host string, port int) bool {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := net.DialTimeout("tcp", addr, 3*time.Second)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
