// Package file persists memory store snapshots as JSON files.
//
// The core store is deliberately non-durable; this adapter lives outside it
// and speaks only the public Snapshot surface. Save and load compose with
// the core like:
//
//	backend := file.New("agent.json")
//	if err := backend.Save(store.Snapshot()); err != nil { ... }
//	snap, err := backend.Load()
//	store, err := memory.FromSnapshot(snap)
package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/becomeliminal/engram-go/memory"
)

// Backend loads and saves store snapshots. Implementations own the encoding
// and the medium; the core defines neither.
type Backend interface {
	Load() (memory.Snapshot, error)
	Save(memory.Snapshot) error
}

// FileBackend stores one snapshot as a JSON file.
type FileBackend struct {
	path string
}

// New creates a backend writing to the given path.
func New(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Load reads the snapshot from disk. A missing file yields an empty snapshot
// with default profile and state, so first runs need no special casing.
func (b *FileBackend) Load() (memory.Snapshot, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return memory.Snapshot{
			Version: memory.SnapshotVersion,
			Profile: memory.DefaultProfile(),
			State:   memory.DefaultState(),
		}, nil
	}
	if err != nil {
		return memory.Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}

	var snap memory.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return memory.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != memory.SnapshotVersion {
		return memory.Snapshot{}, fmt.Errorf("incompatible snapshot version: expected %d, found %d",
			memory.SnapshotVersion, snap.Version)
	}
	return snap, nil
}

// Save writes the snapshot to disk, creating parent directories as needed.
// The write goes through a temp file and rename so a crash mid-write never
// leaves a truncated snapshot behind.
func (b *FileBackend) Save(snap memory.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), b.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
