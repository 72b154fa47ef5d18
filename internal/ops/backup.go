// Package ops holds operational tooling used by the ops CLI: database
// snapshots and restores.
package ops

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// sidecarSuffixes are the SQLite WAL companions that must travel with
// the main database file for a consistent cold snapshot.
var sidecarSuffixes = []string{"", "-wal", "-shm"}

// SnapshotDatabase archives the database file and any WAL sidecars into
// a tar.gz at archivePath. Take snapshots while the server is stopped;
// a live WAL can outrun the copy.
func SnapshotDatabase(dbPath, archivePath string) error {
	dbPath = filepath.Clean(strings.TrimSpace(dbPath))
	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	if dbPath == "" || archivePath == "" {
		return fmt.Errorf("dbPath and archivePath are required")
	}
	if _, err := os.Stat(dbPath); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(archivePath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	defer gz.Close()

	tw := tar.NewWriter(gz)
	defer tw.Close()

	for _, suffix := range sidecarSuffixes {
		path := dbPath + suffix
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.Base(path)

		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		if _, err := io.Copy(tw, src); err != nil {
			_ = src.Close()
			return err
		}
		if err := src.Close(); err != nil {
			return err
		}
	}
	return nil
}

// RestoreSnapshot unpacks a snapshot archive into targetDir.
func RestoreSnapshot(archivePath, targetDir string) error {
	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	targetDir = filepath.Clean(strings.TrimSpace(targetDir))
	if archivePath == "" || targetDir == "" {
		return fmt.Errorf("archivePath and targetDir are required")
	}
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return err
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		name, err := sanitizeEntryName(hdr.Name)
		if err != nil {
			return err
		}
		outPath := filepath.Join(targetDir, name)
		dst, err := os.OpenFile(outPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(hdr.Mode))
		if err != nil {
			return err
		}
		if _, err := io.Copy(dst, tr); err != nil {
			_ = dst.Close()
			return err
		}
		if err := dst.Close(); err != nil {
			return err
		}
	}
	return nil
}

// sanitizeEntryName keeps restores inside targetDir. Snapshot archives
// are flat, so any path component is suspect.
func sanitizeEntryName(name string) (string, error) {
	name = filepath.Clean(strings.TrimSpace(name))
	if name == "." || name == "" {
		return "", fmt.Errorf("invalid archive entry name")
	}
	if filepath.IsAbs(name) || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid archive entry name: %s", name)
	}
	return name, nil
}
