package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tupiscan <url>",
	Short: "Scan a web application for common vulnerabilities",
	Long: `tupiscan runs a breadth of passive and active probes against a target
URL: header analysis, TLS inspection, crawling, form and parameter
discovery, injection testing (SQL/XSS/SSTI/SSRF/XXE/NoSQL/command/CRLF/
prototype pollution), authentication checks (JWT, default credentials,
rate limiting), infrastructure discovery (subdomains, DNS, WHOIS, CVEs,
S3 buckets), and transport-level attacks (request smuggling, mixed
content, CORS, open redirect, broken-link hijacking).`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.Flags().Bool("full", true, "run the full probe set (default behavior; kept for compatibility)")
	rootCmd.Flags().String("output", "", "write the textual report to this path (JSON report is written alongside with a .json extension)")
	rootCmd.Flags().Bool("quiet", false, "suppress progress logs")
	rootCmd.Flags().Bool("json-stdout", false, "emit the final JSON report to stdout")
	rootCmd.Flags().Bool("progress", false, "emit PROGRESS:{...json...} lines to stdout, one per phase transition")
	rootCmd.Flags().String("cookies", "", `cookie header to preload into the jar, e.g. "k=v; k2=v2"`)
	rootCmd.Flags().String("ws-addr", "", "optional address to serve live progress over a websocket, e.g. :8089")
	rootCmd.Flags().String("config", "", "optional YAML config file for scan budgets and timeouts")
}
