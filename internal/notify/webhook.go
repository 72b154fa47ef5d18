// Package notify delivers game notifications outward: webhook embeds to
// chat, and live frames to websocket listeners. Delivery is best effort;
// a failed send is logged, never retried against game state.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"stabilityparty/internal/event"
)

// Emitter posts notification embeds to an event's webhook URL.
type Emitter struct {
	client *http.Client
	logger *log.Logger
}

func NewEmitter(timeout time.Duration, logger *log.Logger) *Emitter {
	return &Emitter{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// webhookBody is the wire envelope the chat service expects.
type webhookBody struct {
	Embeds []event.Notification `json:"embeds"`
}

// Send delivers the notifications to url in one request. Notifications
// without a color get the default.
func (e *Emitter) Send(ctx context.Context, url string, notes []event.Notification) error {
	if url == "" || len(notes) == 0 {
		return nil
	}
	body := webhookBody{Embeds: make([]event.Notification, len(notes))}
	for i, n := range notes {
		if n.Color == 0 {
			n.Color = event.DefaultEmbedColor
		}
		body.Embeds[i] = n
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode webhook body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	}
	return nil
}

// Fanout publishes committed notifications to the webhook and the live
// hub. It satisfies the engine's Notifier interface.
type Fanout struct {
	Emitter *Emitter
	Hub     *Hub
	Logger  *log.Logger
}

func (f *Fanout) Publish(ctx context.Context, ev event.Event, notes []event.Notification) {
	if f.Hub != nil {
		f.Hub.Notify(ev.ID, notes)
	}
	if f.Emitter == nil {
		return
	}
	if err := f.Emitter.Send(ctx, ev.WebhookURL, notes); err != nil && f.Logger != nil {
		f.Logger.Printf(`{"msg":"webhook delivery failed","event":%q,"err":%q}`, ev.ID, err.Error())
	}
}
