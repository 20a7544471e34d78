package topology

import (
	"context"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Source fetches part of the cluster topology. Implementations must honor
// ctx cancellation.
type Source interface {
	Fetch(ctx context.Context) (Snapshot, error)
}

// StaticSource returns a fixed snapshot and error.
type StaticSource struct {
	Snapshot Snapshot
	Err      error
}

// Fetch returns the static snapshot, or ctx's error once it is done.
func (s StaticSource) Fetch(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	return s.Snapshot, s.Err
}

// FileSource reads a YAML topology file and reports only Components.
type FileSource struct {
	Path       string
	Components []Component
}

// Fetch reads and parses the file.
func (s FileSource) Fetch(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	snap, err := ReadFile(s.Path)
	if err != nil {
		return Snapshot{}, err
	}
	if len(s.Components) == 0 {
		return snap, nil
	}
	return snap.Only(s.Components...), nil
}

// ReadFile parses a topology YAML file.
func ReadFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading topology: %w", err)
	}
	return Parse(data)
}

// Parse parses topology YAML bytes.
func Parse(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("parsing topology: %w", err)
	}
	return snap, nil
}

// Marshal serializes a snapshot to YAML.
func Marshal(s Snapshot) ([]byte, error) {
	return yaml.Marshal(s)
}

// FileSources splits one topology file into the three endpoints the
// dashboard queries: TiDB, stores (TiKV and TiFlash) and PD.
func FileSources(path string) map[string]Source {
	return map[string]Source{
		"tidb":   FileSource{Path: path, Components: []Component{TiDB}},
		"stores": FileSource{Path: path, Components: []Component{TiKV, TiFlash}},
		"pd":     FileSource{Path: path, Components: []Component{PD}},
	}
}
