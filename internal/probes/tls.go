package probes

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"

	"github.com/BetterCallFirewall/tupisec/internal/models"
	"github.com/BetterCallFirewall/tupisec/internal/scan"
)

// weakTLSVersions maps deprecated protocol versions to a human label.
var weakTLSVersions = map[uint16]string{
	tls.VersionSSL30: "SSLv3",
	tls.VersionTLS10: "TLS 1.0",
	tls.VersionTLS11: "TLS 1.1",
}

// TLS inspects the target's certificate chain and negotiated protocol
// version. A no-op for plain-http targets.
func TLS(ctx context.Context, st *scan.State, log zerolog.Logger) error {
	if st.Target.Scheme() != "https" {
		return nil
	}
	addr := net.JoinHostPort(st.Target.Host(), st.Target.Port())
	dialer := &net.Dialer{Timeout: 10 * time.Second}

	conn, err := tls.DialWithDialer(dialer, "tcp", addr, &tls.Config{InsecureSkipVerify: true}) //nolint:gosec
	if err != nil {
		log.Debug().Err(err).Msg("tls: dial failed")
		return nil
	}
	defer conn.Close()

	state := conn.ConnectionState()
	if label, weak := weakTLSVersions[state.Version]; weak {
		st.Findings.Add(models.SeverityHigh, "Weak TLS",
			"Server negotiates "+label,
			fmt.Sprintf("Connection negotiated %s, which is deprecated.", label),
			"Disable SSLv3/TLS1.0/TLS1.1 and require TLS 1.2+.")
	}

	for _, cert := range state.PeerCertificates {
		if time.Now().After(cert.NotAfter) {
			st.Findings.Add(models.SeverityHigh, "Expired Certificate",
				"TLS certificate has expired",
				fmt.Sprintf("Certificate for %s expired on %s.", cert.Subject.CommonName, cert.NotAfter),
				"Renew the TLS certificate.")
			break
		}
		if time.Until(cert.NotAfter) < 14*24*time.Hour {
			st.Findings.Add(models.SeverityMedium, "Certificate Expiring Soon",
				"TLS certificate expires within 14 days",
				fmt.Sprintf("Certificate for %s expires on %s.", cert.Subject.CommonName, cert.NotAfter),
				"Renew the TLS certificate ahead of expiry.")
			break
		}
	}
	return nil
}
