package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteSnapshot(t *testing.T) {
	c := NewInMemoryCache(3600)
	c.Set("bbb:american-to-british:r1", `{"text":"lorry"}`)
	c.Set("aaa:american-to-british:r1", `{"text":"colour"}`)

	var buf bytes.Buffer
	err := WriteSnapshot(&buf, c, SnapshotInfo{Revision: "r1", Metadata: map[string]string{"version": "0.1.0"}})
	if err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(buf.Bytes(), &snap); err != nil {
		t.Fatalf("Failed to parse snapshot: %v", err)
	}

	if snap.Version != SnapshotVersion {
		t.Errorf("Version = %d, want %d", snap.Version, SnapshotVersion)
	}
	if snap.Revision != "r1" || snap.Metadata["version"] != "0.1.0" {
		t.Errorf("snapshot header = %+v", snap)
	}
	if snap.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
	if len(snap.Entries) != 2 || snap.Entries[0].Key != "aaa:american-to-british:r1" {
		t.Errorf("Entries should be sorted by key, got %+v", snap.Entries)
	}
}

func TestWriteSnapshot_EmptyCache(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, NewInMemoryCache(3600), SnapshotInfo{}); err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}

	if !strings.Contains(buf.String(), `"entries": []`) {
		t.Errorf("empty cache should write an empty entry list, got %s", buf.String())
	}
}

func TestReadSnapshot(t *testing.T) {
	data := `{
		"version": 2,
		"created_at": "2026-01-01T00:00:00Z",
		"dictionary_revision": "r1",
		"entries": [
			{"key": "h1:american-to-british:r1", "value": "v1"},
			{"key": "h2:british-to-american:r1", "value": "v2"}
		]
	}`

	c := NewInMemoryCache(3600)
	result, err := ReadSnapshot(strings.NewReader(data), c, "")
	if err != nil {
		t.Fatalf("ReadSnapshot failed: %v", err)
	}

	if result.Restored != 2 || result.Failed != 0 || result.Stale != 0 {
		t.Errorf("result = %+v", result)
	}
	if result.Revision != "r1" {
		t.Errorf("Revision = %q, want r1", result.Revision)
	}
	if val, ok := c.Get("h2:british-to-american:r1"); !ok || val != "v2" {
		t.Errorf("h2 not restored, got %q", val)
	}
}

func TestReadSnapshot_SkipsStaleRevision(t *testing.T) {
	data := `{"version": 2, "entries": [
		{"key": "h1:american-to-british:old", "value": "stale"},
		{"key": "h2:american-to-british:new", "value": "fresh"}
	]}`

	c := NewInMemoryCache(0)
	result, err := ReadSnapshot(strings.NewReader(data), c, "new")
	if err != nil {
		t.Fatalf("ReadSnapshot failed: %v", err)
	}

	if result.Restored != 1 || result.Stale != 1 {
		t.Errorf("result = %+v, want 1 restored and 1 stale", result)
	}
	if _, ok := c.Get("h1:american-to-british:old"); ok {
		t.Error("stale entry should not be restored")
	}
}

func TestReadSnapshot_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"invalid json", "invalid json"},
		{"old format", `{"version": "1.0", "entries": []}`},
		{"future format", `{"version": 3, "entries": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSnapshot(strings.NewReader(tt.input), NewInMemoryCache(0), "")
			if err == nil {
				t.Error("expected an error")
			}
		})
	}

	_, err := ReadSnapshot(strings.NewReader(`{"version": 3}`), NewInMemoryCache(0), "")
	if !errors.Is(err, ErrSnapshotVersion) {
		t.Errorf("expected ErrSnapshotVersion, got %v", err)
	}
}

func TestReadSnapshot_EmptyInput(t *testing.T) {
	result, err := ReadSnapshot(strings.NewReader(""), NewInMemoryCache(0), "r1")
	if err != nil {
		t.Fatalf("empty input should not fail: %v", err)
	}
	if result.Restored != 0 {
		t.Errorf("Expected 0 restored, got %d", result.Restored)
	}
}

func TestReadSnapshot_EmptyKeys(t *testing.T) {
	c := NewInMemoryCache(0)

	result, err := ReadSnapshot(strings.NewReader(`{"version":2,"entries":[{"key":"","value":"x"},{"key":"k","value":"v"}]}`), c, "")
	if err != nil {
		t.Fatalf("ReadSnapshot failed: %v", err)
	}
	if result.Restored != 1 || result.Failed != 1 {
		t.Errorf("Expected 1 restored and 1 failed, got %+v", result)
	}
}

func TestSnapshotFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	src := NewInMemoryCache(0)
	src.Set("h1:american-to-british:r1", `{"text":"colour"}`)
	src.Set("h2:american-to-british:r1", `{"text":"lorry"}`)

	if err := SaveSnapshot(path, src, SnapshotInfo{Revision: "r1"}); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	dst := NewInMemoryCache(0)
	result, err := LoadSnapshot(path, dst, "r1")
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if result.Restored != 2 || result.Revision != "r1" {
		t.Errorf("result = %+v", result)
	}
	if val, ok := dst.Get("h1:american-to-british:r1"); !ok || val != `{"text":"colour"}` {
		t.Errorf("h1 not restored, got %q", val)
	}

	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
	if len(matches) != 0 {
		t.Errorf("temporary files left behind: %v", matches)
	}
}

func TestSaveSnapshot_BadDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "cache.json")
	if err := SaveSnapshot(path, NewInMemoryCache(0), SnapshotInfo{}); err == nil {
		t.Error("expected an error for a missing directory")
	}
}

func TestLoadSnapshot_Missing(t *testing.T) {
	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.json"), NewInMemoryCache(0), "")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}
