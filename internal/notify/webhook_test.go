package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stabilityparty/internal/event"
)

func TestEmitterPostsEmbedEnvelope(t *testing.T) {
	var got []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		got = body
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	em := NewEmitter(2*time.Second, nil)
	err := em.Send(context.Background(), srv.URL, []event.Notification{
		{Title: "Kittens landed on Old Market", Description: "A quiet stretch of stalls."},
	})
	require.NoError(t, err)

	var payload struct {
		Embeds []event.Notification `json:"embeds"`
	}
	require.NoError(t, json.Unmarshal(got, &payload))
	require.Len(t, payload.Embeds, 1)
	assert.Equal(t, "Kittens landed on Old Market", payload.Embeds[0].Title)
	assert.Equal(t, event.DefaultEmbedColor, payload.Embeds[0].Color, "unset colors get the default")
}

func TestEmitterReportsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	em := NewEmitter(2*time.Second, nil)
	err := em.Send(context.Background(), srv.URL, []event.Notification{{Title: "x"}})
	assert.Error(t, err)
}

func TestEmitterSkipsEmptyTargets(t *testing.T) {
	em := NewEmitter(2*time.Second, nil)
	assert.NoError(t, em.Send(context.Background(), "", []event.Notification{{Title: "x"}}))
	assert.NoError(t, em.Send(context.Background(), "http://unreachable.invalid", nil))
}
