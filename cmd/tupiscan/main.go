// Command tupiscan is a black-box web-application security scanner: given
// a target URL it runs header, TLS, crawl, injection, infrastructure, and
// transport-level probes, aggregates findings with a severity taxonomy,
// and emits a human-readable or JSON report.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// baseLogger is configured once here and handed to the orchestrator,
// which derives per-phase child loggers from it.
var baseLogger zerolog.Logger

func main() {
	baseLogger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
