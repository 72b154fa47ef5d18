package event

import (
	"context"
	"fmt"
	"log"
)

// Submission is one accomplishment reported from the outside world.
type Submission struct {
	RSN        string  `json:"rsn"`
	ID         string  `json:"id,omitempty"`
	Trigger    string  `json:"trigger"`
	Source     string  `json:"source,omitempty"`
	Quantity   float64 `json:"quantity"`
	TotalValue float64 `json:"totalValue,omitempty"`
	Type       string  `json:"type,omitempty"`
}

// EmbedAuthor is the author block of a notification embed.
type EmbedAuthor struct {
	Name    string `json:"name"`
	IconURL string `json:"icon_url,omitempty"`
	URL     string `json:"url,omitempty"`
}

// EmbedField is one name/value pair on a notification embed.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// DefaultEmbedColor is the dark red used when a notification does not set
// its own color.
const DefaultEmbedColor = 0x992D22

// Notification is a rich message produced by game handlers, delivered to
// the event webhook and to live listeners.
type Notification struct {
	ThreadID    string       `json:"threadId,omitempty"`
	Title       string       `json:"title"`
	Color       int          `json:"color"`
	Description string       `json:"description,omitempty"`
	Thumbnail   string       `json:"thumbnailImage,omitempty"`
	Author      *EmbedAuthor `json:"author,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
}

// Handler consumes a submission on behalf of one game mode.
type Handler interface {
	// Name identifies the handler in logs and registration errors.
	Name() string
	Handle(ctx context.Context, sub Submission) ([]Notification, error)
}

// Dispatcher fans a submission out to every registered handler and
// collects their notifications. Handler errors are logged and skipped so
// one mode cannot block the rest.
type Dispatcher struct {
	handlers []Handler
	logger   *log.Logger
}

func NewDispatcher(logger *log.Logger) *Dispatcher {
	return &Dispatcher{logger: logger}
}

// Register adds a handler. Nil handlers and duplicate names are rejected.
func (d *Dispatcher) Register(h Handler) error {
	if h == nil {
		return fmt.Errorf("register: nil handler")
	}
	for _, have := range d.handlers {
		if have.Name() == h.Name() {
			return fmt.Errorf("register: duplicate handler %q", h.Name())
		}
	}
	d.handlers = append(d.handlers, h)
	return nil
}

// Dispatch runs every handler in registration order.
func (d *Dispatcher) Dispatch(ctx context.Context, sub Submission) []Notification {
	var out []Notification
	for _, h := range d.handlers {
		notes, err := h.Handle(ctx, sub)
		if err != nil {
			if d.logger != nil {
				d.logger.Printf(`{"msg":"handler failed","handler":%q,"rsn":%q,"err":%q}`, h.Name(), sub.RSN, err.Error())
			}
			continue
		}
		out = append(out, notes...)
	}
	return out
}
