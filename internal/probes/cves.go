package probes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/BetterCallFirewall/tupisec/internal/models"
	"github.com/BetterCallFirewall/tupisec/internal/scan"
)

const nvdEndpoint = "https://services.nvd.nist.gov/rest/json/cves/2.0"

// nvdPacing is the courtesy delay between NVD calls; nvdBackoff is the
// additional wait after a 429. Both are a contract, not best-effort.
const (
	nvdPacing  = 2 * time.Second
	nvdBackoff = 10 * time.Second
)

// nvdMinScore is the CVSS floor for a CVE to be reported.
const nvdMinScore = 7.0

type nvdResponse struct {
	Vulnerabilities []struct {
		CVE struct {
			ID           string `json:"id"`
			Descriptions []struct {
				Lang  string `json:"lang"`
				Value string `json:"value"`
			} `json:"descriptions"`
			Metrics struct {
				CvssMetricV31 []nvdCvssMetric `json:"cvssMetricV31"`
				CvssMetricV30 []nvdCvssMetric `json:"cvssMetricV30"`
				CvssMetricV2  []nvdCvssMetric `json:"cvssMetricV2"`
			} `json:"metrics"`
		} `json:"cve"`
	} `json:"vulnerabilities"`
}

type nvdCvssMetric struct {
	CvssData struct {
		BaseScore float64 `json:"baseScore"`
	} `json:"cvssData"`
}

// CVEs searches the NVD API by keyword for every product in the tech
// stack, reporting CVEs scoring >= nvdMinScore. It paces requests 2s apart
// and backs off 10s on HTTP 429, per the NVD courtesy contract.
func CVEs(ctx context.Context, st *scan.State, log zerolog.Logger) error {
	products := make([]string, 0, len(st.TechStack))
	for product := range st.TechStack {
		products = append(products, product)
	}

	for i, product := range products {
		if i > 0 {
			select {
			case <-time.After(nvdPacing):
			case <-ctx.Done():
				return nil
			}
		}
		entries, err := queryNVDWithBackoff(ctx, st, product)
		if err != nil {
			log.Debug().Err(err).Str("product", product).Msg("cves: nvd query failed")
			continue
		}
		st.CVEs = append(st.CVEs, entries...)
	}
	return nil
}

func queryNVDWithBackoff(ctx context.Context, st *scan.State, keyword string) ([]models.CVEEntry, error) {
	q := url.Values{}
	q.Set("keywordSearch", keyword)
	reqURL := nvdEndpoint + "?" + q.Encode()

	resp, err := nvdRequest(ctx, st, reqURL)
	if err != nil {
		return nil, fmt.Errorf("cves: request: %w", err)
	}
	if resp.StatusCode == 429 {
		resp.Body.Close()
		select {
		case <-time.After(nvdBackoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		resp, err = nvdRequest(ctx, st, reqURL)
		if err != nil {
			return nil, fmt.Errorf("cves: retry request: %w", err)
		}
	}
	body, err := ReadBody(resp)
	if err != nil {
		return nil, fmt.Errorf("cves: read body: %w", err)
	}
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("cves: unexpected status %d", resp.StatusCode)
	}

	var parsed nvdResponse
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return nil, fmt.Errorf("cves: parse response: %w", err)
	}

	var out []models.CVEEntry
	for _, v := range parsed.Vulnerabilities {
		score, ok := bestCvssScore(v.CVE.Metrics.CvssMetricV31, v.CVE.Metrics.CvssMetricV30, v.CVE.Metrics.CvssMetricV2)
		if !ok || score < nvdMinScore {
			continue
		}
		summary := ""
		for _, d := range v.CVE.Descriptions {
			if d.Lang == "en" {
				summary = d.Value
				break
			}
		}
		out = append(out, models.CVEEntry{ID: v.CVE.ID, Summary: summary, Severity: score})
	}
	return out, nil
}

// nvdRequest issues a GET against the NVD API, attaching st.NVDAPIKey as the
// apiKey header when configured to raise the per-IP rate ceiling.
func nvdRequest(ctx context.Context, st *scan.State, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	if st.NVDAPIKey != "" {
		req.Header.Set("apiKey", st.NVDAPIKey)
	}
	return st.Client.Do(req)
}

// bestCvssScore tries v3.1, then v3.0, then v2, in that fallback order.
func bestCvssScore(v31, v30, v2 []nvdCvssMetric) (float64, bool) {
	for _, candidates := range [][]nvdCvssMetric{v31, v30, v2} {
		if len(candidates) > 0 {
			return candidates[0].CvssData.BaseScore, true
		}
	}
	return 0, false
}
