package models

import "time"

// Run is the recorded history of one pipeline invocation.
type Run struct {
	RunID          string     `json:"run_id"`
	VideoURL       string     `json:"video_url"`
	Source         string     `json:"source,omitempty"`
	TranscriptPath string     `json:"transcript_path,omitempty"`
	Error          string     `json:"error,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}
