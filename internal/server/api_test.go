package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stabilityparty/internal/board"
	"stabilityparty/internal/config"
	"stabilityparty/internal/event"
	"stabilityparty/internal/game"
	"stabilityparty/internal/item"
	"stabilityparty/internal/notify"
)

type apiFixture struct {
	srv     *httptest.Server
	engine  *game.Engine
	events  *event.MemoryRepo
	board   *board.MemoryRepo
	eventID uuid.UUID
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	events := event.NewMemoryRepo()
	boardRepo := board.NewMemoryRepo()
	clock := game.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	engine := &game.Engine{
		Events:  events,
		Board:   boardRepo,
		Items:   item.NewRegistry(),
		Balance: config.Default(),
		Clock:   clock,
		Rand:    rand.New(rand.NewSource(7)),
	}

	dispatcher := event.NewDispatcher(nil)
	require.NoError(t, dispatcher.Register(&game.SubmissionHandler{Engine: engine}))

	hub := notify.NewHub(nil)
	go hub.Run()

	mux := http.NewServeMux()
	rr := &RouteRegistry{}
	RegisterAPIRoutes(mux, rr, &App{
		Engine:     engine,
		Dispatcher: dispatcher,
		Hub:        hub,
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	f := &apiFixture{srv: srv, engine: engine, events: events, board: boardRepo}

	ev, err := engine.CreateEvent(t.Context(), "Spring Party", "", "",
		clock.Now().Add(-time.Hour), clock.Now().Add(7*24*time.Hour))
	require.NoError(t, err)
	f.eventID = ev.ID
	return f
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, f.srv.URL+path, buf)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeResp[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealthz(t *testing.T) {
	f := newAPIFixture(t)
	resp := f.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouteList(t *testing.T) {
	f := newAPIFixture(t)
	resp := f.do(t, http.MethodGet, "/api/routes", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	routes := decodeResp[[]RouteDoc](t, resp)
	assert.NotEmpty(t, routes)
}

func TestCreateEventValidation(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(t, http.MethodPost, "/api/events", map[string]any{
		"name": "Broken", "start_time": "2026-04-01T00:00:00Z", "end_time": "2026-03-01T00:00:00Z",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, http.MethodPost, "/api/events", map[string]any{
		"name": "Summer Party", "start_time": "2026-06-01T00:00:00Z", "end_time": "2026-06-08T00:00:00Z",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ev := decodeResp[event.Event](t, resp)
	assert.Equal(t, "Summer Party", ev.Name)
	assert.Equal(t, event.TypeBoardGame, ev.Type)
}

func TestTeamLifecycle(t *testing.T) {
	f := newAPIFixture(t)
	base := fmt.Sprintf("/api/events/%s", f.eventID)

	resp := f.do(t, http.MethodPost, base+"/teams", map[string]any{"name": "Kittens"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	team := decodeResp[event.Team](t, resp)

	resp = f.do(t, http.MethodPost, base+"/teams", map[string]any{"name": "kittens"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "duplicate team name")

	resp = f.do(t, http.MethodPost, fmt.Sprintf("%s/teams/%s/members", base, team.ID),
		map[string]any{"username": "SoloMission", "discord_id": "42"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.do(t, http.MethodGet, base+"/users/42/team", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	found := decodeResp[event.Team](t, resp)
	assert.Equal(t, team.ID, found.ID)

	resp = f.do(t, http.MethodPut, fmt.Sprintf("%s/teams/%s/name", base, team.ID),
		map[string]any{"name": "Lions"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.do(t, http.MethodDelete, base+"/members/SoloMission", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.do(t, http.MethodGet, base+"/users/42/team", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUnknownIDsReturn404(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(t, http.MethodGet,
		fmt.Sprintf("/api/events/%s/teams/%s/stats", f.eventID, uuid.New()), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = f.do(t, http.MethodGet,
		fmt.Sprintf("/api/events/%s/progress", uuid.New()), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/events/not-a-uuid/progress", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestItemCatalog(t *testing.T) {
	f := newAPIFixture(t)
	resp := f.do(t, http.MethodGet, "/api/items", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defs := decodeResp[[]item.Definition](t, resp)
	assert.NotEmpty(t, defs)
}

func TestSubmitRequiresFields(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(t, http.MethodPost, "/api/events/submit", map[string]any{"rsn": "SoloMission"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// An unrostered player is not an error; there is just nothing to notify.
	resp = f.do(t, http.MethodPost, "/api/events/submit", map[string]any{
		"rsn": "Nobody", "trigger": "Shark", "quantity": 1,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeResp[map[string]json.RawMessage](t, resp)
	assert.Contains(t, out, "notifications")
}

func TestRollFlowThroughAPI(t *testing.T) {
	f := newAPIFixture(t)
	base := fmt.Sprintf("/api/events/%s", f.eventID)

	// A region with a start tile so the first roll has an island to offer.
	regionID := uuid.New()
	start := uuid.New()
	f.board.PutRegion(board.Region{
		ID: regionID, EventID: f.eventID, Name: "Aldergate", StartTile: &start,
	})
	f.board.PutTile(board.Tile{
		ID: start, EventID: f.eventID, RegionID: regionID, Name: "Harbour Gate",
		NextTiles: []uuid.UUID{start},
	})

	resp := f.do(t, http.MethodPost, base+"/teams", map[string]any{"name": "Kittens"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	team := decodeResp[event.Team](t, resp)
	teamBase := fmt.Sprintf("%s/teams/%s", base, team.ID)

	resp = f.do(t, http.MethodPost, teamBase+"/roll", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	turn := decodeResp[game.TurnResult](t, resp)
	assert.Equal(t, "island_selection", string(turn.Action))

	// Continue is not a legal answer to island selection.
	resp = f.do(t, http.MethodPost, teamBase+"/roll/continue", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, http.MethodPost, teamBase+"/roll/first_island",
		map[string]any{"region_id": regionID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.do(t, http.MethodGet, teamBase+"/available-actions", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	actions := decodeResp[game.ActionsView](t, resp)
	assert.NotEmpty(t, actions.Actions)

	resp = f.do(t, http.MethodGet, base+"/progress", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	standings := decodeResp[[]game.Standing](t, resp)
	require.Len(t, standings, 1)
	assert.Equal(t, "Kittens", standings[0].Name)
}

func TestModerationAdjustments(t *testing.T) {
	f := newAPIFixture(t)
	base := fmt.Sprintf("/api/events/%s", f.eventID)

	resp := f.do(t, http.MethodPost, base+"/teams", map[string]any{"name": "Kittens"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	team := decodeResp[event.Team](t, resp)
	teamBase := fmt.Sprintf("%s/teams/%s", base, team.ID)

	resp = f.do(t, http.MethodPut, teamBase+"/stars", map[string]any{"stars": 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.do(t, http.MethodPut, teamBase+"/coins", map[string]any{"coins": -5})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, http.MethodGet, teamBase+"/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decodeResp[game.StatsView](t, resp)
	assert.Equal(t, 2, stats.Stars)
}
