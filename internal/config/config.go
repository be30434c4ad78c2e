// Package config loads scan-wide settings that are tedious to pass as
// CLI flags: timeouts, payload budgets, wordlist paths, and the NVD API
// key. Values come from an optional .env file, environment variables,
// and an optional YAML file, in that order; CLI flags take precedence
// over all three at the call site.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/BetterCallFirewall/tupisec/internal/scan"
)

// Config is the scanner's tunable settings.
type Config struct {
	HTTPTimeout           time.Duration `yaml:"httpTimeout"`
	CrawlDepth            int           `yaml:"crawlDepth"`
	NVDAPIKey             string        `yaml:"nvdApiKey"`
	SubdomainWordlistPath string        `yaml:"subdomainWordlistPath"`
	Budgets               scan.Budgets  `yaml:"budgets"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		HTTPTimeout: 15 * time.Second,
		CrawlDepth:  2,
		Budgets:     *scan.DefaultBudgets(),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// Load builds a Config from (in increasing precedence) built-in defaults,
// a .env file if present, environment variables, and an optional YAML
// file at yamlPath (ignored if empty or unreadable).
func Load(yamlPath string) (Config, error) {
	cfg := Default()

	// A missing .env is not an error; godotenv.Load's error in that case
	// is deliberately ignored rather than threaded through.
	_ = godotenv.Load()

	if v := os.Getenv("TUPISEC_HTTP_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.HTTPTimeout = time.Duration(n) * time.Second
		}
	}
	cfg.CrawlDepth = getEnvIntOrDefault("TUPISEC_CRAWL_DEPTH", cfg.CrawlDepth)
	cfg.NVDAPIKey = getEnvOrDefault("NVD_API_KEY", cfg.NVDAPIKey)
	cfg.SubdomainWordlistPath = getEnvOrDefault("TUPISEC_SUBDOMAIN_WORDLIST", cfg.SubdomainWordlistPath)

	if yamlPath != "" {
		data, err := os.ReadFile(yamlPath)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, err
			}
		}
	}

	return cfg, nil
}
