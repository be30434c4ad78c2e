package probes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BetterCallFirewall/tupisec/internal/models"
)

// TestCheckBucketURLDetectsOpenListing confirms the spec §7 S3 property: a
// 200 response containing a ListBucketResult body produces a CRITICAL
// finding naming the bucket.
func TestCheckBucketURLDetectsOpenListing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0"?><ListBucketResult><Name>acme-static</Name></ListBucketResult>`))
	}))
	defer srv.Close()

	st := newStateAgainst(t, srv)
	checkBucketURL(context.Background(), st, zerolog.Nop(), "acme-static", srv.URL+"/")

	findings := st.Findings.All()
	require.Len(t, findings, 1)
	assert.Equal(t, models.SeverityCritical, findings[0].Severity)
	assert.Equal(t, "Exposed S3 Bucket", findings[0].Category)
}

// TestCheckBucketURLRecordsExistenceOn403 confirms a 403 response records an
// INFO finding without claiming exposure.
func TestCheckBucketURLRecordsExistenceOn403(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	st := newStateAgainst(t, srv)
	checkBucketURL(context.Background(), st, zerolog.Nop(), "acme-static", srv.URL+"/")

	findings := st.Findings.All()
	require.Len(t, findings, 1)
	assert.Equal(t, models.SeverityInfo, findings[0].Severity)
	assert.Equal(t, "S3 Bucket Exists", findings[0].Category)
}

// TestCheckBucketURLIgnoresOrdinary404 confirms a plain 404 with no bucket
// markers produces no finding at all.
func TestCheckBucketURLIgnoresOrdinary404(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("not found"))
	}))
	defer srv.Close()

	st := newStateAgainst(t, srv)
	checkBucketURL(context.Background(), st, zerolog.Nop(), "acme-static", srv.URL+"/")

	assert.Empty(t, st.Findings.All())
}

