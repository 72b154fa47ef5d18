// Package serverapp assembles the running service: storage, engine,
// notification fan-out, submission dispatch, HTTP routes, and middleware.
package serverapp

import (
	"errors"
	"log"
	"net/http"

	"stabilityparty/internal/config"
	"stabilityparty/internal/event"
	"stabilityparty/internal/game"
	"stabilityparty/internal/httpmw"
	"stabilityparty/internal/item"
	"stabilityparty/internal/notify"
	"stabilityparty/internal/server"
	"stabilityparty/internal/storage/sqlite"
	"stabilityparty/internal/telemetry"
)

type Options struct {
	Config *config.Config
	Logger *log.Logger
}

// App is the assembled service plus the resources it owns.
type App struct {
	Handler http.Handler
	Hub     *notify.Hub

	store *sqlite.Store
}

// Close releases the backing store.
func (a *App) Close() error {
	if a == nil || a.store == nil {
		return nil
	}
	return a.store.Close()
}

// New builds the full application from config. The caller runs Hub in a
// goroutine and serves Handler.
func New(opts Options) (*App, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	store, err := sqlite.Open(opts.Config.Server.DatabasePath)
	if err != nil {
		return nil, err
	}

	audit := telemetry.NewMemoryRepository()
	hub := notify.NewHub(opts.Logger)
	emitter := notify.NewEmitter(opts.Config.Server.WebhookTimeout, opts.Logger)
	fanout := &notify.Fanout{Emitter: emitter, Hub: hub, Logger: opts.Logger}

	engine := &game.Engine{
		Events:   store,
		Board:    store,
		Items:    item.NewRegistry(),
		Balance:  opts.Config.Balance,
		Logger:   opts.Logger,
		Notifier: fanout,
		Clock:    game.RealClock{},
		Audit:    audit,
	}

	dispatcher := event.NewDispatcher(opts.Logger)
	if err := dispatcher.Register(&game.SubmissionHandler{Engine: engine}); err != nil {
		_ = store.Close()
		return nil, err
	}

	mux := http.NewServeMux()
	rr := &server.RouteRegistry{}
	server.RegisterAPIRoutes(mux, rr, &server.App{
		Engine:     engine,
		Dispatcher: dispatcher,
		Hub:        hub,
		Logger:     opts.Logger,
		Audit:      audit,
	})

	handler := httpmw.Chain(mux,
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
		httpmw.WithAccessLog(opts.Logger),
	)

	return &App{Handler: handler, Hub: hub, store: store}, nil
}
