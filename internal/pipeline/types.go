package pipeline

import "context"

// Source identifies which path produced a transcript.
type Source string

const (
	SourceSubtitles Source = "subtitles"
	SourceAudio     Source = "audio_transcription"
)

// Segment is a time-bounded span of recognized speech.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcript is the pipeline output. Text is always set; Language and
// Segments are only present when the transcript came from speech recognition.
type Transcript struct {
	Text     string    `json:"text"`
	Source   Source    `json:"source"`
	Language string    `json:"language,omitempty"`
	Segments []Segment `json:"segments,omitempty"`
}

// Result is a completed run: the transcript plus the artifacts left behind
// under the run directory.
type Result struct {
	RunID              string      `json:"run_id"`
	Transcript         *Transcript `json:"transcript"`
	Source             Source      `json:"source"`
	TranscriptFilePath string      `json:"transcript_file_path"`
	SubtitleFilePath   string      `json:"subtitle_file_path,omitempty"`
	AudioFilePath      string      `json:"audio_file_path,omitempty"`
}

// Recognition is the raw output of a speech-recognition engine.
type Recognition struct {
	Text     string
	Language string
	Segments []Segment
}

// SubtitleExtractor fetches auto-generated captions for a URL without
// downloading the media stream. A miss returns ("", nil); implementations
// fold tool-level fetch failures into a miss and log them, so the pipeline
// falls back to audio transcription either way.
type SubtitleExtractor interface {
	ExtractSubtitles(ctx context.Context, url, outDir string) (string, error)
}

// AudioDownloader fetches the best available audio-only stream for a URL,
// transcoded to mp3, and returns the local file path.
type AudioDownloader interface {
	DownloadAudio(ctx context.Context, url, outDir string) (string, error)
}

// Recognizer runs speech recognition over a local audio file.
type Recognizer interface {
	Transcribe(ctx context.Context, audioPath string) (*Recognition, error)
}
