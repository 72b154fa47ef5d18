// Package sqlite persists events, rosters, and board content in a single
// SQLite file. It backs both the event.Repository and board.Repository
// interfaces; the content write side is used by the importer.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"stabilityparty/internal/board"
	"stabilityparty/internal/event"
	"stabilityparty/internal/storage/sqlite/migrations"
)

// Store is a SQLite-backed event and board repository.
type Store struct {
	sqlDB *sql.DB
}

// Open opens the database at path and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func encodeIDs(ids []uuid.UUID) (string, error) {
	if ids == nil {
		ids = []uuid.UUID{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("encode id list: %w", err)
	}
	return string(data), nil
}

func decodeIDs(raw string) ([]uuid.UUID, error) {
	if raw == "" {
		return []uuid.UUID{}, nil
	}
	var ids []uuid.UUID
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("decode id list: %w", err)
	}
	return ids, nil
}

func nullID(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}

func scanNullID(v sql.NullString) (*uuid.UUID, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	id, err := uuid.Parse(v.String)
	if err != nil {
		return nil, fmt.Errorf("parse id %q: %w", v.String, err)
	}
	return &id, nil
}

// --- event.Repository ---

func (s *Store) CreateEvent(ctx context.Context, ev event.Event) error {
	stars, err := encodeIDs(ev.StarTiles)
	if err != nil {
		return err
	}
	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO events (id, name, description, type, start_time, end_time, webhook_url, star_tiles)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID.String(), ev.Name, ev.Description, string(ev.Type),
		toMillis(ev.StartTime), toMillis(ev.EndTime), ev.WebhookURL, stars)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (s *Store) Event(ctx context.Context, id uuid.UUID) (event.Event, error) {
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, name, description, type, start_time, end_time, webhook_url, star_tiles
FROM events WHERE id = ?`, id.String())
	return scanEvent(row)
}

func (s *Store) ActiveEvents(ctx context.Context, t time.Time) ([]event.Event, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, name, description, type, start_time, end_time, webhook_url, star_tiles
FROM events WHERE start_time <= ? AND end_time > ?
ORDER BY start_time`, toMillis(t), toMillis(t))
	if err != nil {
		return nil, fmt.Errorf("query active events: %w", err)
	}
	defer rows.Close()
	var out []event.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (event.Event, error) {
	var ev event.Event
	var id, typ, stars string
	var start, end int64
	err := row.Scan(&id, &ev.Name, &ev.Description, &typ, &start, &end, &ev.WebhookURL, &stars)
	if errors.Is(err, sql.ErrNoRows) {
		return event.Event{}, event.ErrNotFound
	}
	if err != nil {
		return event.Event{}, fmt.Errorf("scan event: %w", err)
	}
	ev.ID, err = uuid.Parse(id)
	if err != nil {
		return event.Event{}, fmt.Errorf("parse event id: %w", err)
	}
	ev.Type = event.Type(typ)
	ev.StartTime = fromMillis(start)
	ev.EndTime = fromMillis(end)
	ev.StarTiles, err = decodeIDs(stars)
	if err != nil {
		return event.Event{}, err
	}
	return ev, nil
}

func (s *Store) UpdateStarTiles(ctx context.Context, eventID uuid.UUID, tiles []uuid.UUID) error {
	stars, err := encodeIDs(tiles)
	if err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE events SET star_tiles = ? WHERE id = ?`, stars, eventID.String())
	if err != nil {
		return fmt.Errorf("update star tiles: %w", err)
	}
	return requireRow(res)
}

func (s *Store) CreateTeam(ctx context.Context, t event.Team) error {
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO teams (id, event_id, name, captain, image, data)
VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID.String(), t.EventID.String(), t.Name, t.Captain, t.Image, string(t.Data))
	if err != nil {
		return fmt.Errorf("insert team: %w", err)
	}
	return nil
}

func (s *Store) Team(ctx context.Context, id uuid.UUID) (event.Team, error) {
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, event_id, name, captain, image, data FROM teams WHERE id = ?`, id.String())
	return scanTeam(row)
}

func (s *Store) TeamsForEvent(ctx context.Context, eventID uuid.UUID) ([]event.Team, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, event_id, name, captain, image, data FROM teams
WHERE event_id = ? ORDER BY name`, eventID.String())
	if err != nil {
		return nil, fmt.Errorf("query teams: %w", err)
	}
	defer rows.Close()
	var out []event.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTeam(row rowScanner) (event.Team, error) {
	var t event.Team
	var id, eventID, data string
	err := row.Scan(&id, &eventID, &t.Name, &t.Captain, &t.Image, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return event.Team{}, event.ErrNotFound
	}
	if err != nil {
		return event.Team{}, fmt.Errorf("scan team: %w", err)
	}
	if t.ID, err = uuid.Parse(id); err != nil {
		return event.Team{}, fmt.Errorf("parse team id: %w", err)
	}
	if t.EventID, err = uuid.Parse(eventID); err != nil {
		return event.Team{}, fmt.Errorf("parse team event id: %w", err)
	}
	t.Data = []byte(data)
	return t, nil
}

func (s *Store) UpdateTeamData(ctx context.Context, teamID uuid.UUID, data []byte) error {
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE teams SET data = ? WHERE id = ?`, string(data), teamID.String())
	if err != nil {
		return fmt.Errorf("update team data: %w", err)
	}
	return requireRow(res)
}

func (s *Store) UpdateTeamName(ctx context.Context, teamID uuid.UUID, name string) error {
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE teams SET name = ? WHERE id = ?`, name, teamID.String())
	if err != nil {
		return fmt.Errorf("update team name: %w", err)
	}
	return requireRow(res)
}

func (s *Store) AddMember(ctx context.Context, m event.Member) error {
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO team_members (id, event_id, team_id, username, discord_id)
VALUES (?, ?, ?, ?, ?)`,
		m.ID.String(), m.EventID.String(), m.TeamID.String(), m.Username, m.DiscordID)
	if err != nil {
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

func (s *Store) RemoveMember(ctx context.Context, eventID uuid.UUID, username string) error {
	res, err := s.sqlDB.ExecContext(ctx, `
DELETE FROM team_members WHERE event_id = ? AND username = ? COLLATE NOCASE`,
		eventID.String(), username)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	return requireRow(res)
}

func (s *Store) MembersForTeam(ctx context.Context, teamID uuid.UUID) ([]event.Member, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, event_id, team_id, username, discord_id FROM team_members
WHERE team_id = ? ORDER BY username`, teamID.String())
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()
	var out []event.Member
	for rows.Next() {
		var m event.Member
		var id, eventID, tid string
		if err := rows.Scan(&id, &eventID, &tid, &m.Username, &m.DiscordID); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		if m.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse member id: %w", err)
		}
		if m.EventID, err = uuid.Parse(eventID); err != nil {
			return nil, fmt.Errorf("parse member event id: %w", err)
		}
		if m.TeamID, err = uuid.Parse(tid); err != nil {
			return nil, fmt.Errorf("parse member team id: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) TeamForMember(ctx context.Context, eventID uuid.UUID, username string) (event.Team, error) {
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT t.id, t.event_id, t.name, t.captain, t.image, t.data
FROM teams t JOIN team_members m ON m.team_id = t.id
WHERE m.event_id = ? AND m.username = ? COLLATE NOCASE`,
		eventID.String(), username)
	return scanTeam(row)
}

func (s *Store) TeamForDiscordID(ctx context.Context, eventID uuid.UUID, discordID string) (event.Team, error) {
	if discordID == "" {
		return event.Team{}, event.ErrNotFound
	}
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT t.id, t.event_id, t.name, t.captain, t.image, t.data
FROM teams t JOIN team_members m ON m.team_id = t.id
WHERE m.event_id = ? AND m.discord_id = ?`,
		eventID.String(), discordID)
	return scanTeam(row)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return event.ErrNotFound
	}
	return nil
}

// --- board.Repository ---

func (s *Store) Region(ctx context.Context, id uuid.UUID) (board.Region, error) {
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, event_id, name, description, start_tile, hotspot, charter_costs
FROM regions WHERE id = ?`, id.String())
	return scanRegion(row)
}

func (s *Store) RegionsForEvent(ctx context.Context, eventID uuid.UUID) ([]board.Region, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, event_id, name, description, start_tile, hotspot, charter_costs
FROM regions WHERE event_id = ? ORDER BY name`, eventID.String())
	if err != nil {
		return nil, fmt.Errorf("query regions: %w", err)
	}
	defer rows.Close()
	var out []board.Region
	for rows.Next() {
		reg, err := scanRegion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, reg)
	}
	return out, rows.Err()
}

func scanRegion(row rowScanner) (board.Region, error) {
	var reg board.Region
	var id, eventID, costs string
	var start sql.NullString
	var hotspot int
	err := row.Scan(&id, &eventID, &reg.Name, &reg.Description, &start, &hotspot, &costs)
	if errors.Is(err, sql.ErrNoRows) {
		return board.Region{}, board.ErrNotFound
	}
	if err != nil {
		return board.Region{}, fmt.Errorf("scan region: %w", err)
	}
	if reg.ID, err = uuid.Parse(id); err != nil {
		return board.Region{}, fmt.Errorf("parse region id: %w", err)
	}
	if reg.EventID, err = uuid.Parse(eventID); err != nil {
		return board.Region{}, fmt.Errorf("parse region event id: %w", err)
	}
	if reg.StartTile, err = scanNullID(start); err != nil {
		return board.Region{}, err
	}
	reg.Hotspot = hotspot != 0
	if costs != "" {
		if err := json.Unmarshal([]byte(costs), &reg.CharterCosts); err != nil {
			return board.Region{}, fmt.Errorf("decode charter costs: %w", err)
		}
	}
	return reg, nil
}

func (s *Store) Tile(ctx context.Context, id uuid.UUID) (board.Tile, error) {
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, event_id, region_id, name, description, type, next_tiles, random_category, shop_tier
FROM tiles WHERE id = ?`, id.String())
	return scanTile(row)
}

func (s *Store) TilesForEvent(ctx context.Context, eventID uuid.UUID) ([]board.Tile, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, event_id, region_id, name, description, type, next_tiles, random_category, shop_tier
FROM tiles WHERE event_id = ? ORDER BY name`, eventID.String())
	if err != nil {
		return nil, fmt.Errorf("query tiles: %w", err)
	}
	defer rows.Close()
	var out []board.Tile
	for rows.Next() {
		t, err := scanTile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTile(row rowScanner) (board.Tile, error) {
	var t board.Tile
	var id, eventID, regionID, typ, next string
	var random int
	err := row.Scan(&id, &eventID, &regionID, &t.Name, &t.Description, &typ, &next, &random, &t.ShopTier)
	if errors.Is(err, sql.ErrNoRows) {
		return board.Tile{}, board.ErrNotFound
	}
	if err != nil {
		return board.Tile{}, fmt.Errorf("scan tile: %w", err)
	}
	if t.ID, err = uuid.Parse(id); err != nil {
		return board.Tile{}, fmt.Errorf("parse tile id: %w", err)
	}
	if t.EventID, err = uuid.Parse(eventID); err != nil {
		return board.Tile{}, fmt.Errorf("parse tile event id: %w", err)
	}
	if t.RegionID, err = uuid.Parse(regionID); err != nil {
		return board.Tile{}, fmt.Errorf("parse tile region id: %w", err)
	}
	t.Type = board.TileType(typ)
	t.RandomCategory = random != 0
	if t.NextTiles, err = decodeIDs(next); err != nil {
		return board.Tile{}, err
	}
	return t, nil
}

func (s *Store) MappingsForTile(ctx context.Context, tileID uuid.UUID) ([]board.ChallengeMapping, error) {
	return s.mappings(ctx, `tile_id = ?`, tileID)
}

func (s *Store) MappingsForRegion(ctx context.Context, regionID uuid.UUID) ([]board.ChallengeMapping, error) {
	return s.mappings(ctx, `region_id = ?`, regionID)
}

func (s *Store) mappings(ctx context.Context, where string, key uuid.UUID) ([]board.ChallengeMapping, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, event_id, tile_id, region_id, challenge_id, kind
FROM challenge_mappings WHERE `+where+` ORDER BY id`, key.String())
	if err != nil {
		return nil, fmt.Errorf("query mappings: %w", err)
	}
	defer rows.Close()
	var out []board.ChallengeMapping
	for rows.Next() {
		var m board.ChallengeMapping
		var id, eventID, challengeID, kind string
		var tileID, regionID sql.NullString
		if err := rows.Scan(&id, &eventID, &tileID, &regionID, &challengeID, &kind); err != nil {
			return nil, fmt.Errorf("scan mapping: %w", err)
		}
		if m.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse mapping id: %w", err)
		}
		if m.EventID, err = uuid.Parse(eventID); err != nil {
			return nil, fmt.Errorf("parse mapping event id: %w", err)
		}
		if m.ChallengeID, err = uuid.Parse(challengeID); err != nil {
			return nil, fmt.Errorf("parse mapping challenge id: %w", err)
		}
		if m.TileID, err = scanNullID(tileID); err != nil {
			return nil, err
		}
		if m.RegionID, err = scanNullID(regionID); err != nil {
			return nil, err
		}
		m.Kind = board.MappingKind(kind)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) Challenge(ctx context.Context, id uuid.UUID) (board.Challenge, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, event_id, name, mode FROM challenges WHERE id = ?`, id.String())
	var ch board.Challenge
	var cid, eventID, mode string
	err := row.Scan(&cid, &eventID, &ch.Name, &mode)
	if errors.Is(err, sql.ErrNoRows) {
		return board.Challenge{}, board.ErrNotFound
	}
	if err != nil {
		return board.Challenge{}, fmt.Errorf("scan challenge: %w", err)
	}
	if ch.ID, err = uuid.Parse(cid); err != nil {
		return board.Challenge{}, fmt.Errorf("parse challenge id: %w", err)
	}
	if ch.EventID, err = uuid.Parse(eventID); err != nil {
		return board.Challenge{}, fmt.Errorf("parse challenge event id: %w", err)
	}
	ch.Mode = board.ChallengeMode(mode)
	return ch, nil
}

func (s *Store) TasksForChallenge(ctx context.Context, challengeID uuid.UUID) ([]board.Task, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, challenge_id, name, quantity FROM challenge_tasks
WHERE challenge_id = ? ORDER BY name`, challengeID.String())
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()
	var out []board.Task
	for rows.Next() {
		var task board.Task
		var id, chID string
		if err := rows.Scan(&id, &chID, &task.Name, &task.Quantity); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		if task.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse task id: %w", err)
		}
		if task.ChallengeID, err = uuid.Parse(chID); err != nil {
			return nil, fmt.Errorf("parse task challenge id: %w", err)
		}
		out = append(out, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		triggers, err := s.triggersForTask(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Triggers = triggers
	}
	return out, nil
}

func (s *Store) triggersForTask(ctx context.Context, taskID uuid.UUID) ([]board.Trigger, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, task_id, name, source FROM task_triggers
WHERE task_id = ? ORDER BY name`, taskID.String())
	if err != nil {
		return nil, fmt.Errorf("query triggers: %w", err)
	}
	defer rows.Close()
	var out []board.Trigger
	for rows.Next() {
		var trig board.Trigger
		var id, tid string
		if err := rows.Scan(&id, &tid, &trig.Name, &trig.Source); err != nil {
			return nil, fmt.Errorf("scan trigger: %w", err)
		}
		if trig.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse trigger id: %w", err)
		}
		if trig.TaskID, err = uuid.Parse(tid); err != nil {
			return nil, fmt.Errorf("parse trigger task id: %w", err)
		}
		out = append(out, trig)
	}
	return out, rows.Err()
}

// --- content write side ---

func (s *Store) SaveRegion(ctx context.Context, reg board.Region) error {
	costs := "{}"
	if reg.CharterCosts != nil {
		data, err := json.Marshal(reg.CharterCosts)
		if err != nil {
			return fmt.Errorf("encode charter costs: %w", err)
		}
		costs = string(data)
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT OR REPLACE INTO regions (id, event_id, name, description, start_tile, hotspot, charter_costs)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		reg.ID.String(), reg.EventID.String(), reg.Name, reg.Description,
		nullID(reg.StartTile), boolInt(reg.Hotspot), costs)
	if err != nil {
		return fmt.Errorf("save region: %w", err)
	}
	return nil
}

func (s *Store) SaveTile(ctx context.Context, t board.Tile) error {
	next, err := encodeIDs(t.NextTiles)
	if err != nil {
		return err
	}
	_, err = s.sqlDB.ExecContext(ctx, `
INSERT OR REPLACE INTO tiles (id, event_id, region_id, name, description, type, next_tiles, random_category, shop_tier)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID.String(), t.EventID.String(), t.RegionID.String(), t.Name, t.Description,
		string(t.Type), next, boolInt(t.RandomCategory), t.ShopTier)
	if err != nil {
		return fmt.Errorf("save tile: %w", err)
	}
	return nil
}

func (s *Store) SaveChallenge(ctx context.Context, ch board.Challenge, tasks []board.Task) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save challenge: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
INSERT OR REPLACE INTO challenges (id, event_id, name, mode) VALUES (?, ?, ?, ?)`,
		ch.ID.String(), ch.EventID.String(), ch.Name, string(ch.Mode)); err != nil {
		return fmt.Errorf("save challenge: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
DELETE FROM task_triggers WHERE task_id IN (SELECT id FROM challenge_tasks WHERE challenge_id = ?)`,
		ch.ID.String()); err != nil {
		return fmt.Errorf("clear triggers: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM challenge_tasks WHERE challenge_id = ?`, ch.ID.String()); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	for _, task := range tasks {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO challenge_tasks (id, challenge_id, name, quantity) VALUES (?, ?, ?, ?)`,
			task.ID.String(), ch.ID.String(), task.Name, task.Quantity); err != nil {
			return fmt.Errorf("save task: %w", err)
		}
		for _, trig := range task.Triggers {
			if _, err := tx.ExecContext(ctx, `
INSERT INTO task_triggers (id, task_id, name, source) VALUES (?, ?, ?, ?)`,
				trig.ID.String(), task.ID.String(), trig.Name, trig.Source); err != nil {
				return fmt.Errorf("save trigger: %w", err)
			}
		}
	}
	return tx.Commit()
}

func (s *Store) SaveMapping(ctx context.Context, m board.ChallengeMapping) error {
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT OR REPLACE INTO challenge_mappings (id, event_id, tile_id, region_id, challenge_id, kind)
VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID.String(), m.EventID.String(), nullID(m.TileID), nullID(m.RegionID),
		m.ChallengeID.String(), string(m.Kind))
	if err != nil {
		return fmt.Errorf("save mapping: %w", err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
