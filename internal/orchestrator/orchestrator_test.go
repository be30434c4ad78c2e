package orchestrator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BetterCallFirewall/tupisec/internal/scan"
	"github.com/BetterCallFirewall/tupisec/internal/target"
)

func TestRunEmitsProgressForEveryPhaseAndDone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>hi</body></html>"))
	}))
	defer srv.Close()

	tgt, err := target.Parse(srv.URL)
	require.NoError(t, err)
	st, err := scan.New(tgt, "", 0)
	require.NoError(t, err)

	var events []ProgressEvent
	Run(context.Background(), st, Options{
		Log: zerolog.Nop(),
		OnEvent: func(ev ProgressEvent) {
			events = append(events, ev)
		},
	})

	require.NotEmpty(t, events)
	assert.Equal(t, "headers", events[0].Phase)
	assert.Equal(t, "done", events[len(events)-1].Phase)
	for _, ev := range events {
		assert.LessOrEqual(t, ev.Step, ev.Total)
	}
}

func TestRunRespectsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	tgt, err := target.Parse(srv.URL)
	require.NoError(t, err)
	st, err := scan.New(tgt, "", 0)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var events []ProgressEvent
	Run(ctx, st, Options{
		Log:     zerolog.Nop(),
		OnEvent: func(ev ProgressEvent) { events = append(events, ev) },
	})

	require.Len(t, events, 1)
	assert.Equal(t, "done", events[0].Phase)
	assert.Equal(t, "cancelled", events[0].Message)
}
