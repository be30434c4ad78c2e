package probes

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"github.com/BetterCallFirewall/tupisec/internal/models"
	"github.com/BetterCallFirewall/tupisec/internal/scan"
)

const introspectionQuery = `{"query":"{ __schema { types { name } } }"}`

// GraphQL probes a catalog of common GraphQL endpoint paths with an
// introspection query, a batched variant, and checks for field-suggestion
// error leakage.
func GraphQL(ctx context.Context, st *scan.State, log zerolog.Logger) error {
	for _, path := range GraphQLPaths {
		u := st.Target.BaseURL() + "/" + path
		resp, err := st.Client.PostJSON(ctx, u, introspectionQuery)
		if err != nil {
			log.Debug().Err(err).Str("url", u).Msg("graphql: request failed")
			continue
		}
		body, err := ReadBody(resp)
		if err != nil {
			continue
		}

		if hasSchemaTypes(body) {
			st.Findings.Add(models.SeverityMedium, "GraphQL Introspection",
				"GraphQL introspection enabled",
				"Endpoint "+u+" returned schema type information for an introspection query.",
				"Disable introspection in production GraphQL deployments.")

			batchResp, err := st.Client.PostJSON(ctx, u, "["+introspectionQuery+"]")
			if err == nil {
				batchBody, err := ReadBody(batchResp)
				if err == nil && (strings.HasPrefix(strings.TrimSpace(batchBody), "[")) {
					st.Findings.Add(models.SeverityLow, "GraphQL",
						"Batched queries accepted",
						"Endpoint "+u+" accepted a batched query array.",
						"Restrict or rate-limit batched GraphQL queries to prevent resource exhaustion.")
				}
			}
			continue
		}

		if strings.Contains(strings.ToLower(body), "did you mean") {
			st.Findings.Add(models.SeverityLow, "GraphQL",
				"Field suggestions enabled",
				"Endpoint "+u+" returned a field-suggestion error message, which can aid schema reconstruction.",
				"Disable field-suggestion hints in error responses in production.")
		}
	}
	return nil
}

func hasSchemaTypes(body string) bool {
	var parsed struct {
		Data struct {
			Schema struct {
				Types []struct {
					Name string `json:"name"`
				} `json:"types"`
			} `json:"__schema"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return false
	}
	return len(parsed.Data.Schema.Types) > 0
}
