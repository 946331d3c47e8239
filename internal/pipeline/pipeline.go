package pipeline

import (
	"context"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Pipeline turns a video URL into a transcript. Subtitles are tried first
// because they are exact and cheap; audio transcription is the fallback.
// Each run owns a fresh directory under baseDir keyed by its run ID, so
// concurrent runs never share files.
type Pipeline struct {
	baseDir    string
	subtitles  SubtitleExtractor
	audio      AudioDownloader
	recognizer Recognizer
	store      ArtifactStore
}

func New(baseDir string, subtitles SubtitleExtractor, audio AudioDownloader, recognizer Recognizer) *Pipeline {
	return &Pipeline{
		baseDir:    baseDir,
		subtitles:  subtitles,
		audio:      audio,
		recognizer: recognizer,
	}
}

// Acquire runs the two-stage acquisition for a single URL. Failures after the
// subtitle stage are fatal for the run: there is no further fallback.
func (p *Pipeline) Acquire(ctx context.Context, videoURL string) (*Result, error) {
	if err := validateURL(videoURL); err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	saveDir := filepath.Join(p.baseDir, runID)
	if err := os.MkdirAll(saveDir, 0755); err != nil {
		return nil, newRunError(runID, KindIO, "create run directory %s: %w", saveDir, err)
	}

	log.Printf("[pipeline] run %s: processing %s", runID, videoURL)

	result := &Result{RunID: runID}

	subtitleFile, err := p.subtitles.ExtractSubtitles(ctx, videoURL, saveDir)
	if err != nil {
		// Policy: a subtitle-fetch failure is treated the same as absent
		// subtitles. The run downgrades to audio transcription instead of
		// failing or retrying the subtitle path.
		log.Printf("[pipeline] run %s: subtitle extraction failed, falling back to audio: %v", runID, err)
		subtitleFile = ""
	}

	if subtitleFile != "" {
		data, err := os.ReadFile(subtitleFile)
		if err != nil {
			return nil, newRunError(runID, KindIO, "read subtitle file %s: %w", subtitleFile, err)
		}
		result.Transcript = &Transcript{
			Text:   string(data),
			Source: SourceSubtitles,
		}
		result.SubtitleFilePath = subtitleFile
		log.Printf("[pipeline] run %s: subtitles found at %s", runID, subtitleFile)
	} else {
		log.Printf("[pipeline] run %s: no subtitles, transcribing audio", runID)

		audioFile, err := p.audio.DownloadAudio(ctx, videoURL, saveDir)
		if err != nil {
			return nil, newRunError(runID, KindDownload, "download audio for %s: %w", videoURL, err)
		}
		result.AudioFilePath = audioFile

		rec, err := p.recognizer.Transcribe(ctx, audioFile)
		if err != nil {
			return nil, newRunError(runID, KindTranscription, "transcribe %s: %w", audioFile, err)
		}

		result.Transcript = &Transcript{
			Text:     transcriptText(rec),
			Source:   SourceAudio,
			Language: rec.Language,
			Segments: rec.Segments,
		}
	}

	result.Source = result.Transcript.Source

	transcriptPath := filepath.Join(saveDir, "transcript.json")
	if err := p.store.Save(result.Transcript, transcriptPath); err != nil {
		// The transcript is already computed; a persistence failure is
		// reported but does not fail the run.
		log.Printf("[pipeline] run %s: save transcript: %v", runID, err)
	} else {
		result.TranscriptFilePath = transcriptPath
	}

	log.Printf("[pipeline] run %s: complete (source=%s)", runID, result.Source)
	return result, nil
}

// transcriptText builds the full text from recognized segments, joining
// trimmed segment texts with a single space. Falls back to the engine's own
// full text when no segments were produced.
func transcriptText(rec *Recognition) string {
	if len(rec.Segments) == 0 {
		return rec.Text
	}
	parts := make([]string, 0, len(rec.Segments))
	for _, s := range rec.Segments {
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

func validateURL(videoURL string) error {
	if strings.TrimSpace(videoURL) == "" {
		return newError(KindInvalidInput, "video URL is empty")
	}
	u, err := url.Parse(videoURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return newError(KindInvalidInput, "malformed video URL: %s", videoURL)
	}
	return nil
}
