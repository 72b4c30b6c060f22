package record

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"canary/internal/scenario"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	res, err := (&scenario.Runner{}).Run(context.Background(), scenario.Default())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	path := filepath.Join(t.TempDir(), "nested", "run.canary")
	if err := Save(path, New(res, "test")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	rec, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rec.Tool != "test" || rec.Schema != SchemaVersion {
		t.Fatalf("header = %q/%d", rec.Tool, rec.Schema)
	}
	got := rec.Result()
	if !reflect.DeepEqual(got.Layout, res.Layout) {
		t.Fatalf("layout = %+v, want %+v", got.Layout, res.Layout)
	}
	if !reflect.DeepEqual(got.Runs, res.Runs) {
		t.Fatalf("runs differ after round trip")
	}
	if got.Runs[0].Outcome.Fault.Attempted != 185207048 {
		t.Fatalf("attempted = %d", got.Runs[0].Outcome.Fault.Attempted)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}

func TestLoadRejectsOtherSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.canary")
	data, err := msgpack.Marshal(&Recording{Schema: SchemaVersion + 1})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); !errors.Is(err, ErrSchema) {
		t.Fatalf("err = %v, want ErrSchema", err)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file: err = %v", err)
	}
	junk := filepath.Join(dir, "junk")
	if err := os.WriteFile(junk, []byte{0xc1}, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(junk); err == nil {
		t.Fatalf("junk file decoded")
	}
}
