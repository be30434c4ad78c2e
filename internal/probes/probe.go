package probes

import (
	"context"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/BetterCallFirewall/tupisec/internal/scan"
)

// Func is the uniform probe interface: a function over shared state with
// no other dependencies. The orchestrator's phase table registers probes
// by id against this type.
type Func func(ctx context.Context, st *scan.State, log zerolog.Logger) error

// ReadBody reads and closes resp.Body, bounding it to 5MiB so a
// misbehaving target can't exhaust memory.
func ReadBody(resp *http.Response) (string, error) {
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, 5<<20))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
