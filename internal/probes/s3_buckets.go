package probes

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/BetterCallFirewall/tupisec/internal/models"
	"github.com/BetterCallFirewall/tupisec/internal/scan"
)

// S3Buckets derives candidate bucket names from three sources — the
// apex domain's base label, the apex with dots replaced by dashes, and
// any enumerated subdomain label containing a CDN-like token — plus a
// catalog of common suffixes, probing both virtual-hosted and
// path-style S3 URLs for open or listable buckets.
func S3Buckets(ctx context.Context, st *scan.State, log zerolog.Logger) error {
	apex := st.Target.ApexDomain()
	base := strings.SplitN(apex, ".", 2)[0]
	if base == "" {
		return nil
	}

	candidates := []string{base, strings.ReplaceAll(apex, ".", "-")}
	for _, suffix := range S3BucketSuffixes {
		candidates = append(candidates, base+suffix)
	}
	for _, sub := range st.Subdomains {
		label := strings.SplitN(sub.Name, ".", 2)[0]
		lower := strings.ToLower(label)
		for _, token := range CDNTokens {
			if strings.Contains(lower, token) {
				candidates = append(candidates, label)
				break
			}
		}
	}

	seen := map[string]bool{}
	for _, bucket := range candidates {
		if seen[bucket] {
			continue
		}
		seen[bucket] = true

		checkBucketURL(ctx, st, log, bucket, "https://"+bucket+".s3.amazonaws.com/")
		checkBucketURL(ctx, st, log, bucket, "https://s3.amazonaws.com/"+bucket+"/")
	}
	return nil
}

func checkBucketURL(ctx context.Context, st *scan.State, log zerolog.Logger, bucket, bucketURL string) {
	resp, err := st.Client.Get(ctx, bucketURL)
	if err != nil {
		log.Debug().Err(err).Str("url", bucketURL).Msg("s3_buckets: request failed")
		return
	}
	body, err := ReadBody(resp)
	if err != nil {
		return
	}

	switch {
	case resp.StatusCode == 200 && strings.Contains(body, "ListBucketResult"):
		st.Findings.Add(models.SeverityCritical, "Exposed S3 Bucket",
			"Publicly listable S3 bucket '"+bucket+"'",
			"Bucket URL "+bucketURL+" returned a bucket listing (ListBucketResult) with no authentication.",
			"Set the bucket ACL to private and enable S3 Block Public Access.")
	case resp.StatusCode == 403:
		st.Findings.Add(models.SeverityInfo, "S3 Bucket Exists",
			"S3 bucket '"+bucket+"' exists but access is denied",
			"Bucket URL "+bucketURL+" returned 403 Forbidden, confirming the bucket name is registered.",
			"No action required if access controls are intentional; verify the bucket is not meant to be public.")
	}
}
