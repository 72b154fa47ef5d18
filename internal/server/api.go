// Package server exposes the HTTP surface: player turn actions, item use,
// projections, the submission intake, moderation, and the live
// notification socket.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"stabilityparty/internal/board"
	"stabilityparty/internal/event"
	"stabilityparty/internal/game"
	"stabilityparty/internal/notify"
	"stabilityparty/internal/telemetry"
)

// App holds the dependencies the handlers need.
type App struct {
	Engine     *game.Engine
	Dispatcher *event.Dispatcher
	Hub        *notify.Hub
	Logger     *log.Logger

	// Audit serves the balance stats endpoint. Optional.
	Audit telemetry.Repository
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// httpError maps engine sentinels to status codes. Unknown errors are
// reported as 500 without leaking internals.
func httpError(w http.ResponseWriter, logger *log.Logger, err error) {
	switch {
	case errors.Is(err, game.ErrNotFound),
		errors.Is(err, event.ErrNotFound),
		errors.Is(err, board.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, game.ErrValidation),
		errors.Is(err, game.ErrStateConflict):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		if logger != nil {
			logger.Printf(`{"level":"error","msg":"request_failed","error":%q}`, err.Error())
		}
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		http.Error(w, "invalid "+name, http.StatusBadRequest)
		return uuid.UUID{}, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return false
	}
	return true
}

// teamIDs pulls the eventID/teamID pair every team-scoped route carries.
func teamIDs(w http.ResponseWriter, r *http.Request) (eventID, teamID uuid.UUID, ok bool) {
	eventID, ok = pathID(w, r, "eventID")
	if !ok {
		return
	}
	teamID, ok = pathID(w, r, "teamID")
	return
}

func RegisterAPIRoutes(mux *http.ServeMux, rr *RouteRegistry, app *App) {
	engine := app.Engine
	logger := app.Logger

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	})

	Handle(mux, rr, "GET /api/routes", "List registered routes", "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, rr.List())
	})

	// Submission intake. The body is whatever the plugin posts; routing to
	// a team happens inside each registered handler.
	Handle(mux, rr, "POST /api/events/submit", "Submit a tracked drop or activity",
		`{"rsn":"SoloMission","trigger":"Shark","source":"fishing","quantity":1}`,
		func(w http.ResponseWriter, r *http.Request) {
			var sub event.Submission
			if !decodeBody(w, r, &sub) {
				return
			}
			if sub.RSN == "" || sub.Trigger == "" {
				http.Error(w, "rsn and trigger are required", http.StatusBadRequest)
				return
			}
			notes := app.Dispatcher.Dispatch(r.Context(), sub)
			writeJSON(w, map[string]any{"notifications": notes})
		})

	// Turn actions.
	Handle(mux, rr, "POST /api/events/{eventID}/teams/{teamID}/roll", "Roll dice and move", `{}`,
		turnAction(app, func(r *http.Request, eventID, teamID uuid.UUID) (game.TurnResult, error) {
			return engine.StartRoll(r.Context(), eventID, teamID)
		}))

	Handle(mux, rr, "POST /api/events/{eventID}/teams/{teamID}/roll/continue", "Decline the pending stop and keep moving", `{}`,
		turnAction(app, func(r *http.Request, eventID, teamID uuid.UUID) (game.TurnResult, error) {
			return engine.Continue(r.Context(), eventID, teamID)
		}))

	Handle(mux, rr, "POST /api/events/{eventID}/teams/{teamID}/roll/crossroad", "Pick a crossroad branch",
		`{"tile_id":"00000000-0000-0000-0000-000000000000"}`,
		func(w http.ResponseWriter, r *http.Request) {
			eventID, teamID, ok := teamIDs(w, r)
			if !ok {
				return
			}
			var body struct {
				TileID uuid.UUID `json:"tile_id"`
			}
			if !decodeBody(w, r, &body) {
				return
			}
			res, err := engine.ResolveCrossroad(r.Context(), eventID, teamID, body.TileID)
			if err != nil {
				httpError(w, logger, err)
				return
			}
			writeJSON(w, res)
		})

	Handle(mux, rr, "POST /api/events/{eventID}/teams/{teamID}/roll/shop", "Buy the named shop offer",
		`{"item_id":"coin_pouch_small"}`,
		func(w http.ResponseWriter, r *http.Request) {
			eventID, teamID, ok := teamIDs(w, r)
			if !ok {
				return
			}
			var body struct {
				ItemID string `json:"item_id"`
			}
			if !decodeBody(w, r, &body) {
				return
			}
			if body.ItemID == "" {
				http.Error(w, "item_id is required", http.StatusBadRequest)
				return
			}
			res, err := engine.ResolveShop(r.Context(), eventID, teamID, body.ItemID)
			if err != nil {
				httpError(w, logger, err)
				return
			}
			writeJSON(w, res)
		})

	Handle(mux, rr, "POST /api/events/{eventID}/teams/{teamID}/roll/star", "Buy or skip the star on this tile",
		`{"buy":true}`,
		func(w http.ResponseWriter, r *http.Request) {
			eventID, teamID, ok := teamIDs(w, r)
			if !ok {
				return
			}
			var body struct {
				Buy bool `json:"buy"`
			}
			if !decodeBody(w, r, &body) {
				return
			}
			res, err := engine.ResolveStar(r.Context(), eventID, teamID, body.Buy)
			if err != nil {
				httpError(w, logger, err)
				return
			}
			writeJSON(w, res)
		})

	Handle(mux, rr, "POST /api/events/{eventID}/teams/{teamID}/roll/dock", "Charter a boat to another island",
		`{"region_id":"00000000-0000-0000-0000-000000000000"}`,
		func(w http.ResponseWriter, r *http.Request) {
			eventID, teamID, ok := teamIDs(w, r)
			if !ok {
				return
			}
			var body struct {
				RegionID uuid.UUID `json:"region_id"`
			}
			if !decodeBody(w, r, &body) {
				return
			}
			res, err := engine.ResolveDock(r.Context(), eventID, teamID, body.RegionID)
			if err != nil {
				httpError(w, logger, err)
				return
			}
			writeJSON(w, res)
		})

	Handle(mux, rr, "POST /api/events/{eventID}/teams/{teamID}/roll/first_island", "Pick a starting island",
		`{"region_id":"00000000-0000-0000-0000-000000000000"}`,
		func(w http.ResponseWriter, r *http.Request) {
			eventID, teamID, ok := teamIDs(w, r)
			if !ok {
				return
			}
			var body struct {
				RegionID uuid.UUID `json:"region_id"`
			}
			if !decodeBody(w, r, &body) {
				return
			}
			res, err := engine.ResolveFirstIsland(r.Context(), eventID, teamID, body.RegionID)
			if err != nil {
				httpError(w, logger, err)
				return
			}
			writeJSON(w, res)
		})

	// Items.
	Handle(mux, rr, "GET /api/items", "List the item catalog", "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, engine.Items.Definitions())
	})

	Handle(mux, rr, "GET /api/events/{eventID}/teams/{teamID}/items/inventory", "Team inventory and equipment", "",
		func(w http.ResponseWriter, r *http.Request) {
			eventID, teamID, ok := teamIDs(w, r)
			if !ok {
				return
			}
			inv, err := engine.Inventory(r.Context(), eventID, teamID)
			if err != nil {
				httpError(w, logger, err)
				return
			}
			writeJSON(w, inv)
		})

	Handle(mux, rr, "POST /api/events/{eventID}/teams/{teamID}/items/use", "Activate an owned item",
		`{"item_index":0}`,
		func(w http.ResponseWriter, r *http.Request) {
			eventID, teamID, ok := teamIDs(w, r)
			if !ok {
				return
			}
			var body struct {
				Index int `json:"item_index"`
			}
			if !decodeBody(w, r, &body) {
				return
			}
			res, err := engine.UseItem(r.Context(), eventID, teamID, body.Index)
			if err != nil {
				httpError(w, logger, err)
				return
			}
			writeJSON(w, res)
		})

	Handle(mux, rr, "POST /api/events/{eventID}/teams/{teamID}/items/selection", "Resolve a pending item target",
		`{"selection":"Aldergate"}`,
		func(w http.ResponseWriter, r *http.Request) {
			eventID, teamID, ok := teamIDs(w, r)
			if !ok {
				return
			}
			var body struct {
				Selection string `json:"selection"`
			}
			if !decodeBody(w, r, &body) {
				return
			}
			if body.Selection == "" {
				http.Error(w, "selection is required", http.StatusBadRequest)
				return
			}
			res, err := engine.CompleteSelection(r.Context(), eventID, teamID, body.Selection)
			if err != nil {
				httpError(w, logger, err)
				return
			}
			writeJSON(w, res)
		})

	// Projections.
	Handle(mux, rr, "GET /api/events/{eventID}/teams/{teamID}/stats", "Team position, coins, and stars", "",
		func(w http.ResponseWriter, r *http.Request) {
			eventID, teamID, ok := teamIDs(w, r)
			if !ok {
				return
			}
			view, err := engine.TeamStats(r.Context(), eventID, teamID)
			if err != nil {
				httpError(w, logger, err)
				return
			}
			writeJSON(w, view)
		})

	Handle(mux, rr, "GET /api/events/{eventID}/teams/{teamID}/tile-progress", "Challenge progress on the current tile", "",
		func(w http.ResponseWriter, r *http.Request) {
			eventID, teamID, ok := teamIDs(w, r)
			if !ok {
				return
			}
			view, err := engine.TileProgress(r.Context(), eventID, teamID)
			if err != nil {
				httpError(w, logger, err)
				return
			}
			writeJSON(w, view)
		})

	Handle(mux, rr, "GET /api/events/{eventID}/teams/{teamID}/available-actions", "What the team may do right now", "",
		func(w http.ResponseWriter, r *http.Request) {
			eventID, teamID, ok := teamIDs(w, r)
			if !ok {
				return
			}
			view, err := engine.AvailableActions(r.Context(), eventID, teamID)
			if err != nil {
				httpError(w, logger, err)
				return
			}
			writeJSON(w, view)
		})

	Handle(mux, rr, "GET /api/events/{eventID}/progress", "Event standings", "",
		func(w http.ResponseWriter, r *http.Request) {
			eventID, ok := pathID(w, r, "eventID")
			if !ok {
				return
			}
			standings, err := engine.EventProgress(r.Context(), eventID)
			if err != nil {
				httpError(w, logger, err)
				return
			}
			writeJSON(w, standings)
		})

	Handle(mux, rr, "GET /api/events/{eventID}/users/{discordID}/team", "Team a discord user belongs to", "",
		func(w http.ResponseWriter, r *http.Request) {
			eventID, ok := pathID(w, r, "eventID")
			if !ok {
				return
			}
			team, err := engine.Events.TeamForDiscordID(r.Context(), eventID, r.PathValue("discordID"))
			if err != nil {
				httpError(w, logger, err)
				return
			}
			writeJSON(w, team)
		})

	// Live notifications over websocket.
	Handle(mux, rr, "GET /api/events/{eventID}/live", "Live notification stream (websocket)", "",
		func(w http.ResponseWriter, r *http.Request) {
			eventID, ok := pathID(w, r, "eventID")
			if !ok {
				return
			}
			app.Hub.ServeWS(w, r, eventID)
		})

	Handle(mux, rr, "GET /api/telemetry/stats", "Gameplay balance stats", "",
		func(w http.ResponseWriter, r *http.Request) {
			if app.Audit == nil {
				http.Error(w, "telemetry is not enabled", http.StatusNotFound)
				return
			}
			var since time.Time
			if raw := r.URL.Query().Get("since"); raw != "" {
				parsed, err := time.Parse(time.RFC3339, raw)
				if err != nil {
					http.Error(w, "since must be RFC3339", http.StatusBadRequest)
					return
				}
				since = parsed
			}
			events, err := app.Audit.Events(since, nil)
			if err != nil {
				httpError(w, logger, err)
				return
			}
			writeJSON(w, telemetry.CalculateStats(events, since))
		})

	// Moderation.
	Handle(mux, rr, "POST /api/events", "Create an event",
		`{"name":"Spring Party","start_time":"2026-03-01T12:00:00Z","end_time":"2026-03-08T12:00:00Z"}`,
		func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Name        string    `json:"name"`
				Description string    `json:"description"`
				WebhookURL  string    `json:"webhook_url"`
				StartTime   time.Time `json:"start_time"`
				EndTime     time.Time `json:"end_time"`
			}
			if !decodeBody(w, r, &body) {
				return
			}
			ev, err := engine.CreateEvent(r.Context(), body.Name, body.Description, body.WebhookURL, body.StartTime, body.EndTime)
			if err != nil {
				httpError(w, logger, err)
				return
			}
			writeJSON(w, ev)
		})

	Handle(mux, rr, "POST /api/events/{eventID}/star-tiles", "Place a star on a tile",
		`{"tile_id":"00000000-0000-0000-0000-000000000000"}`,
		func(w http.ResponseWriter, r *http.Request) {
			eventID, ok := pathID(w, r, "eventID")
			if !ok {
				return
			}
			var body struct {
				TileID uuid.UUID `json:"tile_id"`
			}
			if !decodeBody(w, r, &body) {
				return
			}
			if err := engine.PlaceStar(r.Context(), eventID, body.TileID); err != nil {
				httpError(w, logger, err)
				return
			}
			writeJSON(w, map[string]string{"status": "ok"})
		})

	Handle(mux, rr, "POST /api/events/{eventID}/teams", "Create a team",
		`{"name":"Kittens","captain":"SoloMission"}`,
		func(w http.ResponseWriter, r *http.Request) {
			eventID, ok := pathID(w, r, "eventID")
			if !ok {
				return
			}
			var body struct {
				Name           string `json:"name"`
				Captain        string `json:"captain"`
				TextChannelID  string `json:"text_channel_id"`
				VoiceChannelID string `json:"voice_channel_id"`
			}
			if !decodeBody(w, r, &body) {
				return
			}
			team, err := engine.CreateTeam(r.Context(), eventID, body.Name, body.Captain, body.TextChannelID, body.VoiceChannelID)
			if err != nil {
				httpError(w, logger, err)
				return
			}
			writeJSON(w, team)
		})

	Handle(mux, rr, "PUT /api/events/{eventID}/teams/{teamID}/name", "Rename a team",
		`{"name":"Lions"}`,
		func(w http.ResponseWriter, r *http.Request) {
			eventID, teamID, ok := teamIDs(w, r)
			if !ok {
				return
			}
			var body struct {
				Name string `json:"name"`
			}
			if !decodeBody(w, r, &body) {
				return
			}
			if err := engine.RenameTeam(r.Context(), eventID, teamID, body.Name); err != nil {
				httpError(w, logger, err)
				return
			}
			writeJSON(w, map[string]string{"status": "ok"})
		})

	Handle(mux, rr, "POST /api/events/{eventID}/teams/{teamID}/members", "Add a player to a team",
		`{"username":"SoloMission","discord_id":"1234"}`,
		func(w http.ResponseWriter, r *http.Request) {
			eventID, teamID, ok := teamIDs(w, r)
			if !ok {
				return
			}
			var body struct {
				Username  string `json:"username"`
				DiscordID string `json:"discord_id"`
			}
			if !decodeBody(w, r, &body) {
				return
			}
			member, err := engine.AddMember(r.Context(), eventID, teamID, body.Username, body.DiscordID)
			if err != nil {
				httpError(w, logger, err)
				return
			}
			writeJSON(w, member)
		})

	Handle(mux, rr, "DELETE /api/events/{eventID}/members/{username}", "Remove a player from the event", "",
		func(w http.ResponseWriter, r *http.Request) {
			eventID, ok := pathID(w, r, "eventID")
			if !ok {
				return
			}
			if err := engine.RemoveMember(r.Context(), eventID, r.PathValue("username")); err != nil {
				httpError(w, logger, err)
				return
			}
			writeJSON(w, map[string]string{"status": "ok"})
		})

	Handle(mux, rr, "POST /api/events/{eventID}/teams/{teamID}/complete-tile", "Mark the current tile complete", `{}`,
		modAction(app, func(r *http.Request, eventID, teamID uuid.UUID) error {
			return engine.ForceCompleteTile(r.Context(), eventID, teamID)
		}))

	Handle(mux, rr, "PUT /api/events/{eventID}/teams/{teamID}/stars", "Set a team's stars",
		`{"stars":3}`,
		func(w http.ResponseWriter, r *http.Request) {
			eventID, teamID, ok := teamIDs(w, r)
			if !ok {
				return
			}
			var body struct {
				Stars int `json:"stars"`
			}
			if !decodeBody(w, r, &body) {
				return
			}
			if err := engine.SetStars(r.Context(), eventID, teamID, body.Stars); err != nil {
				httpError(w, logger, err)
				return
			}
			writeJSON(w, map[string]string{"status": "ok"})
		})

	Handle(mux, rr, "PUT /api/events/{eventID}/teams/{teamID}/coins", "Set a team's coins",
		`{"coins":100}`,
		func(w http.ResponseWriter, r *http.Request) {
			eventID, teamID, ok := teamIDs(w, r)
			if !ok {
				return
			}
			var body struct {
				Coins int `json:"coins"`
			}
			if !decodeBody(w, r, &body) {
				return
			}
			if err := engine.SetCoins(r.Context(), eventID, teamID, body.Coins); err != nil {
				httpError(w, logger, err)
				return
			}
			writeJSON(w, map[string]string{"status": "ok"})
		})

	Handle(mux, rr, "POST /api/events/{eventID}/teams/{teamID}/move-to-tile", "Move a team directly to a tile",
		`{"tile_id":"00000000-0000-0000-0000-000000000000"}`,
		func(w http.ResponseWriter, r *http.Request) {
			eventID, teamID, ok := teamIDs(w, r)
			if !ok {
				return
			}
			var body struct {
				TileID uuid.UUID `json:"tile_id"`
			}
			if !decodeBody(w, r, &body) {
				return
			}
			if err := engine.MoveToTile(r.Context(), eventID, teamID, body.TileID); err != nil {
				httpError(w, logger, err)
				return
			}
			writeJSON(w, map[string]string{"status": "ok"})
		})

	Handle(mux, rr, "POST /api/events/{eventID}/teams/{teamID}/undo-roll", "Abort an in-flight roll", `{}`,
		modAction(app, func(r *http.Request, eventID, teamID uuid.UUID) error {
			return engine.UndoRoll(r.Context(), eventID, teamID)
		}))
}

// turnAction wraps the bodyless turn endpoints.
func turnAction(app *App, fn func(r *http.Request, eventID, teamID uuid.UUID) (game.TurnResult, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, teamID, ok := teamIDs(w, r)
		if !ok {
			return
		}
		res, err := fn(r, eventID, teamID)
		if err != nil {
			httpError(w, app.Logger, err)
			return
		}
		writeJSON(w, res)
	}
}

// modAction wraps the bodyless moderation endpoints.
func modAction(app *App, fn func(r *http.Request, eventID, teamID uuid.UUID) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, teamID, ok := teamIDs(w, r)
		if !ok {
			return
		}
		if err := fn(r, eventID, teamID); err != nil {
			httpError(w, app.Logger, err)
			return
		}
		writeJSON(w, map[string]string{"status": "ok"})
	}
}
