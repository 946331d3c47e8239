package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/reelscribe/backend/internal/pipeline"
)

// beamSize is the search-beam width used for decoding.
const beamSize = 5

// Client talks to a whisper.cpp HTTP server (whisper-server) and implements
// pipeline.Recognizer.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the whisper.cpp server.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Minute, // transcription can be very long
		},
	}
}

// inferenceResponse mirrors the verbose_json shape of the whisper server.
type inferenceResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// Transcribe uploads the audio file and returns the recognized text with
// time-stamped segments. The detected language is reported as-is, without
// validation against a known list.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (*pipeline.Recognition, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	audioFile, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	defer audioFile.Close()

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, audioFile); err != nil {
		return nil, fmt.Errorf("copy audio data: %w", err)
	}

	writer.WriteField("response_format", "verbose_json")
	writer.WriteField("temperature", "0.0")
	writer.WriteField("beam_size", fmt.Sprintf("%d", beamSize))
	writer.Close()

	url := c.baseURL + "/inference"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	log.Printf("[whisper] sending request to %s (audio: %s)", url, audioPath)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("whisper server request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("whisper server error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed inferenceResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode whisper response: %w", err)
	}

	rec := &pipeline.Recognition{
		Text:     strings.TrimSpace(parsed.Text),
		Language: parsed.Language,
		Segments: make([]pipeline.Segment, 0, len(parsed.Segments)),
	}
	for _, s := range parsed.Segments {
		rec.Segments = append(rec.Segments, pipeline.Segment{
			Start: s.Start,
			End:   s.End,
			Text:  s.Text,
		})
	}

	return rec, nil
}
