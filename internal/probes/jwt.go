package probes

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/BetterCallFirewall/tupisec/internal/models"
	"github.com/BetterCallFirewall/tupisec/internal/scan"
)

var jwtPattern = regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]*`)

// JWT extracts JWTs from the target response's cookies, body, and headers,
// then runs the alg:none, missing-exp, sensitive-claim, active alg:none
// acceptance, and weak-HS256-secret checks against up to N tokens.
func JWT(ctx context.Context, st *scan.State, log zerolog.Logger) error {
	resp, err := st.Client.Get(ctx, st.Target.BaseURL())
	if err != nil {
		log.Debug().Err(err).Msg("jwt: request failed")
		return nil
	}
	body, err := ReadBody(resp)
	if err != nil {
		return nil
	}

	tokenSet := map[string]bool{}
	for _, m := range jwtPattern.FindAllString(body, -1) {
		tokenSet[m] = true
	}
	for _, c := range resp.Cookies() {
		for _, m := range jwtPattern.FindAllString(c.Value, -1) {
			tokenSet[m] = true
		}
	}
	for _, values := range resp.Header {
		for _, v := range values {
			for _, m := range jwtPattern.FindAllString(v, -1) {
				tokenSet[m] = true
			}
		}
	}

	tokens := make([]string, 0, len(tokenSet))
	for t := range tokenSet {
		tokens = append(tokens, t)
	}
	tokens = scan.TruncateStrings(tokens, st.Budgets.JWTTokens)

	for _, token := range tokens {
		analyzeJWT(ctx, st, log, token)
	}
	return nil
}

func analyzeJWT(ctx context.Context, st *scan.State, log zerolog.Logger, token string) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return
	}
	header, err := decodeSegment(parts[0])
	if err != nil {
		return
	}
	payload, err := decodeSegment(parts[1])
	if err != nil {
		return
	}

	var headerClaims, payloadClaims map[string]interface{}
	if json.Unmarshal(header, &headerClaims) != nil {
		return
	}
	_ = json.Unmarshal(payload, &payloadClaims)

	if alg, ok := headerClaims["alg"].(string); ok && strings.EqualFold(alg, "none") {
		st.Findings.Add(models.SeverityCritical, "JWT",
			"JWT uses alg:none",
			"Token header declares alg:none, bypassing signature verification.",
			"Reject tokens with alg:none on the server; pin the expected algorithm.")
	}

	if _, hasExp := payloadClaims["exp"]; !hasExp {
		st.Findings.Add(models.SeverityMedium, "JWT",
			"JWT has no expiry claim",
			"Token payload does not include an 'exp' claim.",
			"Always issue tokens with a bounded expiry.")
	}

	for _, key := range JWTSensitiveKeys {
		if _, ok := payloadClaims[key]; ok {
			st.Findings.Add(models.SeverityHigh, "JWT",
				"JWT payload carries sensitive claim '"+key+"'",
				"Token payload includes the claim '"+key+"' in cleartext (JWTs are signed, not encrypted).",
				"Do not place sensitive data in JWT payloads; encrypt if necessary.")
		}
	}

	checkAlgNoneAcceptance(ctx, st, log, parts, payloadClaims)
	checkWeakHS256Secret(st, parts)
}

// checkAlgNoneAcceptance constructs an alg:none variant of the token and
// submits it as a bearer token; if the server accepts it where an
// unauthenticated baseline would not, that's an active confirmation.
func checkAlgNoneAcceptance(ctx context.Context, st *scan.State, log zerolog.Logger, parts []string, payloadClaims map[string]interface{}) {
	noneHeader := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	forged := noneHeader + "." + parts[1] + "."

	req, err := newBearerRequest(ctx, st.Target.BaseURL(), forged)
	if err != nil {
		return
	}
	resp, err := st.Client.Do(req)
	if err != nil {
		log.Debug().Err(err).Msg("jwt: alg:none acceptance probe failed")
		return
	}
	resp.Body.Close()

	baselineReq, err := newBearerRequest(ctx, st.Target.BaseURL(), "")
	if err != nil {
		return
	}
	baselineResp, err := st.Client.Do(baselineReq)
	if err != nil {
		return
	}
	baselineResp.Body.Close()

	if resp.StatusCode == 200 && baselineResp.StatusCode != 200 {
		st.Findings.Add(models.SeverityCritical, "JWT",
			"Server accepts alg:none forged token",
			"A forged token with alg:none and an empty signature was accepted (HTTP 200) where an unauthenticated baseline was not.",
			"Reject unsigned tokens on the server regardless of the client-supplied alg header.")
	}
}

func checkWeakHS256Secret(st *scan.State, parts []string) {
	signingInput := parts[0] + "." + parts[1]
	for _, secret := range JWTSecrets {
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write([]byte(signingInput))
		expected := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
		if hmac.Equal([]byte(expected), []byte(parts[2])) {
			st.Findings.Add(models.SeverityCritical, "JWT",
				"JWT signed with a weak/guessable secret",
				"The token's HS256 signature matches a common weak secret.",
				"Use a long, random signing secret stored outside source control.")
			return
		}
	}
}

func decodeSegment(seg string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(seg)
}

func newBearerRequest(ctx context.Context, rawURL, token string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}
