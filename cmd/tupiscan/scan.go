package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/BetterCallFirewall/tupisec/internal/config"
	"github.com/BetterCallFirewall/tupisec/internal/dnsutil"
	"github.com/BetterCallFirewall/tupisec/internal/orchestrator"
	"github.com/BetterCallFirewall/tupisec/internal/progress"
	"github.com/BetterCallFirewall/tupisec/internal/reporter"
	"github.com/BetterCallFirewall/tupisec/internal/scan"
	"github.com/BetterCallFirewall/tupisec/internal/target"
)

// runScan is the root command handler. It wires target parsing, scan
// state, the orchestrator's fixed phase table, optional progress
// emission, and report output.
func runScan(cmd *cobra.Command, args []string) error {
	rawURL := args[0]

	quiet, _ := cmd.Flags().GetBool("quiet")
	jsonStdout, _ := cmd.Flags().GetBool("json-stdout")
	progressFlag, _ := cmd.Flags().GetBool("progress")
	outputPath, _ := cmd.Flags().GetString("output")
	cookieHeader, _ := cmd.Flags().GetString("cookies")
	wsAddr, _ := cmd.Flags().GetString("ws-addr")
	configPath, _ := cmd.Flags().GetString("config")

	if quiet || jsonStdout {
		baseLogger = baseLogger.Level(zerolog.Disabled)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("tupiscan: load config: %w", err)
	}

	tgt, err := target.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("tupiscan: invalid target url: %w", err)
	}

	st, err := scan.New(tgt, cookieHeader, cfg.HTTPTimeout)
	if err != nil {
		return fmt.Errorf("tupiscan: initialize scan state: %w", err)
	}
	st.Budgets = &cfg.Budgets
	st.NVDAPIKey = cfg.NVDAPIKey

	if cfg.SubdomainWordlistPath != "" {
		wordlist, err := loadWordlist(cfg.SubdomainWordlistPath)
		if err != nil {
			return fmt.Errorf("tupiscan: load subdomain wordlist: %w", err)
		}
		st.SubdomainWordlist = wordlist
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var hub *progress.Hub
	if wsAddr != "" {
		hub = progress.NewHub(baseLogger.With().Str("component", "progress").Logger())
		go hub.Run()
		mux := http.NewServeMux()
		mux.HandleFunc("/", hub.ServeWS)
		server := &http.Server{Addr: wsAddr, Handler: mux}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				baseLogger.Warn().Err(err).Msg("progress websocket server stopped")
			}
		}()
		defer server.Close()
	}

	onEvent := func(ev orchestrator.ProgressEvent) {
		if progressFlag {
			data, err := json.Marshal(ev)
			if err == nil {
				fmt.Printf("PROGRESS:%s\n", data)
			}
		}
		if !quiet && !progressFlag {
			fmt.Fprintf(os.Stderr, "[*] (%d/%d) %s\n", ev.Step, ev.Total, ev.Message)
		}
		if hub != nil {
			hub.Broadcast("progress", ev)
		}
	}

	resolver := dnsutil.New(nil)

	orchestrator.Run(ctx, st, orchestrator.Options{
		Resolver:   resolver,
		CrawlDepth: cfg.CrawlDepth,
		OnEvent:    onEvent,
		Log:        baseLogger,
	})

	report := reporter.Build(st)

	if jsonStdout {
		data, err := report.JSON()
		if err != nil {
			return fmt.Errorf("tupiscan: marshal report: %w", err)
		}
		fmt.Println(string(data))
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(report.Text()), 0o644); err != nil {
			return fmt.Errorf("tupiscan: write report: %w", err)
		}
		jsonPath := strings.TrimSuffix(outputPath, ".txt") + ".json"
		data, err := report.JSON()
		if err != nil {
			return fmt.Errorf("tupiscan: marshal report: %w", err)
		}
		if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
			return fmt.Errorf("tupiscan: write json report: %w", err)
		}
	}

	if !jsonStdout && outputPath == "" {
		fmt.Print(report.Text())
	}

	return nil
}

// loadWordlist reads one candidate subdomain label per line, skipping blank
// lines and "#"-prefixed comments.
func loadWordlist(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}
