package ytdlp

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

const (
	subtitlePrefix = "subtitle"
	audioBaseName  = "audio"
)

// Client wraps the yt-dlp binary for the two operations the pipeline needs:
// caption-only extraction and best-audio download.
type Client struct {
	binary string
	runner Runner
}

func New(binary string, runner Runner) *Client {
	if binary == "" {
		binary = "yt-dlp"
	}
	return &Client{binary: binary, runner: runner}
}

// ExtractSubtitles requests auto-generated captions in SRT format without
// downloading the media stream. yt-dlp appends the language code to the
// requested base name (subtitle.en.srt, subtitle.en-US.srt, ...), so the
// output directory is scanned for the first file matching the prefix and
// extension. A tool failure and an absent subtitle track both return ("", nil):
// either way the caller falls back to audio transcription.
func (c *Client) ExtractSubtitles(ctx context.Context, url, outDir string) (string, error) {
	args := []string{
		"--write-auto-subs",
		"--sub-format", "srt",
		"--skip-download",
		"--no-playlist",
		"--no-warnings",
		"--quiet",
		"-o", filepath.Join(outDir, subtitlePrefix+".%(ext)s"),
		url,
	}

	if output, err := c.runner.Run(ctx, c.binary, args...); err != nil {
		log.Printf("[ytdlp] subtitle fetch failed for %s: %v: %s", url, err, strings.TrimSpace(string(output)))
		return "", nil
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return "", fmt.Errorf("scan output directory %s: %w", outDir, err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, subtitlePrefix) && strings.HasSuffix(name, ".srt") {
			return filepath.Join(outDir, name), nil
		}
	}

	return "", nil
}

// DownloadAudio fetches the best available audio-only stream and transcodes
// it to mp3 at 192K. Returns the path of the downloaded file.
func (c *Client) DownloadAudio(ctx context.Context, url, outDir string) (string, error) {
	audioPath := filepath.Join(outDir, audioBaseName+".mp3")

	args := []string{
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", "mp3",
		"--audio-quality", "192K",
		"--no-playlist",
		"--no-warnings",
		"--quiet",
		"-o", filepath.Join(outDir, audioBaseName+".%(ext)s"),
		url,
	}

	if output, err := c.runner.Run(ctx, c.binary, args...); err != nil {
		return "", fmt.Errorf("yt-dlp audio download: %s: %w", strings.TrimSpace(string(output)), err)
	}

	if _, err := os.Stat(audioPath); err != nil {
		return "", fmt.Errorf("yt-dlp finished but %s was not created: %w", audioPath, err)
	}

	return audioPath, nil
}
