package pipeline

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
)

// ArtifactStore persists transcripts under the run directory. Artifacts are
// write-once per run: existing files are overwritten without versioning.
type ArtifactStore struct{}

// Save writes the transcript as pretty-printed UTF-8 JSON, creating parent
// directories as needed. Non-ASCII characters are preserved as-is.
func (ArtifactStore) Save(t *Transcript, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return newError(KindIO, "create transcript directory: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(t); err != nil {
		return newError(KindIO, "encode transcript: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return newError(KindIO, "write transcript %s: %w", path, err)
	}
	return nil
}

// Load reads a transcript previously written by Save.
func (ArtifactStore) Load(path string) (*Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newError(KindIO, "read transcript %s: %w", path, err)
	}
	t := &Transcript{}
	if err := json.Unmarshal(data, t); err != nil {
		return nil, newError(KindIO, "decode transcript %s: %w", path, err)
	}
	return t, nil
}
