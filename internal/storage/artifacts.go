package storage

import (
	"os"
	"path/filepath"
	"strings"
)

// Artifact is one file left behind by a pipeline run.
type Artifact struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

var artifactExtensions = map[string]bool{
	".srt": true, ".vtt": true, ".mp3": true, ".json": true,
}

func IsArtifactFile(name string) bool {
	return artifactExtensions[strings.ToLower(filepath.Ext(name))]
}

// ListRunArtifacts returns the artifact files under <basePath>/<runID>.
func ListRunArtifacts(basePath, runID string) ([]Artifact, error) {
	fullPath := filepath.Join(basePath, runID)

	// Prevent path traversal via a crafted run ID
	absBase, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}
	absFull, err := filepath.Abs(fullPath)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(absFull, absBase) {
		return nil, os.ErrPermission
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, err
	}

	artifacts := []Artifact{}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !IsArtifactFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		artifacts = append(artifacts, Artifact{
			Name: entry.Name(),
			Path: filepath.Join(runID, entry.Name()),
			Size: info.Size(),
		})
	}
	return artifacts, nil
}
