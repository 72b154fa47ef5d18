package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"stabilityparty/internal/content"
	"stabilityparty/internal/event"
	"stabilityparty/internal/ops"
	"stabilityparty/internal/save"
	"stabilityparty/internal/storage/sqlite"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "create-event":
		if err := cmdCreateEvent(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "create-event failed:", err)
			os.Exit(1)
		}
	case "import":
		if err := cmdImport(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "import failed:", err)
			os.Exit(1)
		}
	case "export-save":
		if err := cmdExportSave(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "export-save failed:", err)
			os.Exit(1)
		}
	case "snapshot":
		if err := cmdSnapshot(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "snapshot failed:", err)
			os.Exit(1)
		}
	case "restore":
		if err := cmdRestore(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "restore failed:", err)
			os.Exit(1)
		}
	default:
		printUsage()
		os.Exit(2)
	}
}

func cmdCreateEvent(args []string) error {
	fs := flag.NewFlagSet("create-event", flag.ContinueOnError)
	db := fs.String("db", "data/stabilityparty.db", "path to the database")
	name := fs.String("name", "", "event name")
	description := fs.String("description", "", "event description")
	webhook := fs.String("webhook", "", "discord webhook url for notifications")
	start := fs.String("start", "", "event start (RFC3339)")
	end := fs.String("end", "", "event end (RFC3339)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" || *start == "" || *end == "" {
		return fmt.Errorf("name, start, and end are required")
	}
	startAt, err := time.Parse(time.RFC3339, *start)
	if err != nil {
		return fmt.Errorf("start must be RFC3339: %w", err)
	}
	endAt, err := time.Parse(time.RFC3339, *end)
	if err != nil {
		return fmt.Errorf("end must be RFC3339: %w", err)
	}
	if !endAt.After(startAt) {
		return fmt.Errorf("end must be after start")
	}

	store, err := sqlite.Open(*db)
	if err != nil {
		return err
	}
	defer store.Close()

	ev := event.Event{
		ID:          uuid.New(),
		Name:        *name,
		Description: *description,
		Type:        event.TypeBoardGame,
		StartTime:   startAt.UTC(),
		EndTime:     endAt.UTC(),
		WebhookURL:  *webhook,
		StarTiles:   []uuid.UUID{},
	}
	if err := store.CreateEvent(context.Background(), ev); err != nil {
		return err
	}
	fmt.Println(ev.ID)
	return nil
}

func cmdImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	db := fs.String("db", "data/stabilityparty.db", "path to the database")
	eventID := fs.String("event", "", "event id the content belongs to")
	bundle := fs.String("bundle", "", "path to the content bundle (.yml)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *eventID == "" || *bundle == "" {
		return fmt.Errorf("event and bundle are required")
	}
	id, err := uuid.Parse(*eventID)
	if err != nil {
		return fmt.Errorf("event must be a uuid: %w", err)
	}

	b, err := content.Load(*bundle)
	if err != nil {
		return err
	}

	store, err := sqlite.Open(*db)
	if err != nil {
		return err
	}
	defer store.Close()

	if _, err := store.Event(context.Background(), id); err != nil {
		return fmt.Errorf("event %s: %w", id, err)
	}
	if err := b.Apply(context.Background(), id, store); err != nil {
		return err
	}
	fmt.Printf("imported %d regions, %d challenges, %d mappings\n",
		len(b.Regions), len(b.Challenges), len(b.Mappings))
	return nil
}

func cmdExportSave(args []string) error {
	fs := flag.NewFlagSet("export-save", flag.ContinueOnError)
	db := fs.String("db", "data/stabilityparty.db", "path to the database")
	teamID := fs.String("team", "", "team id to export")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *teamID == "" {
		return fmt.Errorf("team is required")
	}
	id, err := uuid.Parse(*teamID)
	if err != nil {
		return fmt.Errorf("team must be a uuid: %w", err)
	}

	store, err := sqlite.Open(*db)
	if err != nil {
		return err
	}
	defer store.Close()

	team, err := store.Team(context.Background(), id)
	if err != nil {
		return err
	}
	s, err := save.Decode(team.Data)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func cmdSnapshot(args []string) error {
	fs := flag.NewFlagSet("snapshot", flag.ContinueOnError)
	db := fs.String("db", "data/stabilityparty.db", "path to the database")
	out := fs.String("out", "", "output archive path (.tar.gz)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *out == "" {
		ts := time.Now().UTC().Format("20060102T150405Z")
		*out = filepath.Join("backups", "stabilityparty-"+ts+".tar.gz")
	}

	if err := ops.SnapshotDatabase(*db, *out); err != nil {
		return err
	}
	fmt.Println(*out)
	return nil
}

func cmdRestore(args []string) error {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	archive := fs.String("archive", "", "input snapshot archive (.tar.gz)")
	target := fs.String("target-dir", "data-restored", "restore target directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *archive == "" {
		return fmt.Errorf("archive is required")
	}
	return ops.RestoreSnapshot(*archive, *target)
}

func printUsage() {
	fmt.Println("usage:")
	fmt.Println("  stabilityparty-ops create-event --db data/stabilityparty.db --name \"Spring Party\" --start 2026-03-01T12:00:00Z --end 2026-03-08T12:00:00Z")
	fmt.Println("  stabilityparty-ops import       --db data/stabilityparty.db --event <uuid> --bundle board.yml")
	fmt.Println("  stabilityparty-ops export-save  --db data/stabilityparty.db --team <uuid>")
	fmt.Println("  stabilityparty-ops snapshot     --db data/stabilityparty.db --out backups/snapshot.tar.gz")
	fmt.Println("  stabilityparty-ops restore      --archive backups/snapshot.tar.gz --target-dir data-restored")
}
