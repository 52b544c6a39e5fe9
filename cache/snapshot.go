package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// SnapshotVersion is the snapshot format written by WriteSnapshot.
const SnapshotVersion = 2

// ErrSnapshotVersion is returned for snapshots in a format this build cannot read.
var ErrSnapshotVersion = errors.New("unsupported snapshot version")

// Snapshot is the on-disk form of the memory cache.
type Snapshot struct {
	Version   int               `json:"version"`
	CreatedAt time.Time         `json:"created_at"`
	Revision  string            `json:"dictionary_revision,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Entries   []SnapshotEntry   `json:"entries"`
}

// SnapshotEntry is one cached translation.
type SnapshotEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SnapshotInfo describes what a snapshot was taken from.
type SnapshotInfo struct {
	Revision string            // Dictionary revision of the cached results
	Metadata map[string]string // Free-form labels (service version, host, ...)
}

// RestoreResult counts what happened to each snapshot entry.
type RestoreResult struct {
	Revision string
	Metadata map[string]string
	Restored int
	Stale    int // Entries keyed to another dictionary revision
	Failed   int
}

// WriteSnapshot writes the live entries of c to w, sorted by key.
func WriteSnapshot(w io.Writer, c *InMemoryCache, info SnapshotInfo) error {
	live := c.Entries()
	snap := Snapshot{
		Version:   SnapshotVersion,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Revision:  info.Revision,
		Metadata:  info.Metadata,
		Entries:   make([]SnapshotEntry, 0, len(live)),
	}
	for key, value := range live {
		snap.Entries = append(snap.Entries, SnapshotEntry{Key: key, Value: value})
	}
	sort.Slice(snap.Entries, func(i, j int) bool { return snap.Entries[i].Key < snap.Entries[j].Key })

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}

// SaveSnapshot writes a snapshot of c to path. The file is written next to
// path and renamed into place, so a crash never leaves a truncated snapshot.
func SaveSnapshot(path string, c *InMemoryCache, info SnapshotInfo) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteSnapshot(tmp, c, info); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot loads a snapshot from r into dst. An empty input restores
// nothing.
//
// When revision is not empty, entries whose key belongs to another
// dictionary revision are counted as stale and left out.
func ReadSnapshot(r io.Reader, dst TranslationCache, revision string) (*RestoreResult, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		if errors.Is(err, io.EOF) {
			return &RestoreResult{}, nil
		}
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrSnapshotVersion, snap.Version)
	}

	result := &RestoreResult{
		Revision: snap.Revision,
		Metadata: snap.Metadata,
	}

	suffix := ":" + revision
	for _, entry := range snap.Entries {
		switch {
		case entry.Key == "":
			result.Failed++
		case revision != "" && !strings.HasSuffix(entry.Key, suffix):
			result.Stale++
		case dst.Set(entry.Key, entry.Value) != nil:
			result.Failed++
		default:
			result.Restored++
		}
	}

	return result, nil
}

// LoadSnapshot is ReadSnapshot from a file. A missing file returns an error
// matching os.ErrNotExist.
func LoadSnapshot(path string, dst TranslationCache, revision string) (*RestoreResult, error) {
	f, err := os.Open(path) // #nosec G304 - path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	return ReadSnapshot(f, dst, revision)
}
