// Package record saves finished runs to disk and loads them back for replay.
package record

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"canary/internal/frame"
	"canary/internal/scenario"
)

// Current schema version - increment when Recording format changes
const SchemaVersion uint16 = 1

// ErrSchema reports a recording written with a different schema version.
var ErrSchema = errors.New("unsupported recording schema")

// Recording is everything needed to re-render an invocation without
// touching memory again.
type Recording struct {
	Schema  uint16
	Tool    string // version of the writer
	Created time.Time

	Layout frame.Layout
	Runs   []*scenario.RunResult
}

// New captures res.
func New(res *scenario.Result, tool string) *Recording {
	return &Recording{
		Schema:  SchemaVersion,
		Tool:    tool,
		Created: time.Now().UTC(),
		Layout:  res.Layout,
		Runs:    res.Runs,
	}
}

// Save writes rec to path through a temp file in the same directory, so a
// reader never sees a partial recording.
func Save(path string, rec *Recording) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".canary-rec-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(rec); err != nil {
		return fmt.Errorf("encode recording: %w", err)
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// Load reads a recording and checks its schema version.
func Load(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rec Recording
	if err := msgpack.NewDecoder(f).Decode(&rec); err != nil {
		return nil, fmt.Errorf("%s: decode recording: %w", path, err)
	}
	if rec.Schema != SchemaVersion {
		return nil, fmt.Errorf("%s: %w: version %d, want %d", path, ErrSchema, rec.Schema, SchemaVersion)
	}
	return &rec, nil
}

// Result rebuilds the run result the recording was made from.
func (r *Recording) Result() *scenario.Result {
	return &scenario.Result{Layout: r.Layout, Runs: r.Runs}
}
