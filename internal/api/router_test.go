package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/reelscribe/backend/internal/auth"
	"github.com/reelscribe/backend/internal/config"
	"github.com/reelscribe/backend/internal/db"
	"github.com/reelscribe/backend/internal/pipeline"
)

type stubSubtitles struct{ content string }

func (s stubSubtitles) ExtractSubtitles(ctx context.Context, url, outDir string) (string, error) {
	if s.content == "" {
		return "", nil
	}
	path := filepath.Join(outDir, "subtitle.en.srt")
	if err := os.WriteFile(path, []byte(s.content), 0644); err != nil {
		return "", err
	}
	return path, nil
}

type stubAudio struct{ err error }

func (s stubAudio) DownloadAudio(ctx context.Context, url, outDir string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	path := filepath.Join(outDir, "audio.mp3")
	return path, os.WriteFile(path, []byte("mp3"), 0644)
}

type stubRecognizer struct{ rec *pipeline.Recognition }

func (s stubRecognizer) Transcribe(ctx context.Context, audioPath string) (*pipeline.Recognition, error) {
	return s.rec, nil
}

type testEnv struct {
	server *httptest.Server
	db     *db.Database
}

func newTestEnv(t *testing.T, subs pipeline.SubtitleExtractor, audio pipeline.AudioDownloader, rec pipeline.Recognizer) *testEnv {
	t.Helper()

	dataPath := t.TempDir()
	database, err := db.NewSQLite(filepath.Join(dataPath, "test.db"))
	if err != nil {
		t.Fatalf("NewSQLite() error = %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := database.EnsureServiceAccount("test-bot", "test-secret"); err != nil {
		t.Fatalf("EnsureServiceAccount() error = %v", err)
	}

	cfg := &config.Config{
		DataPath:    dataPath,
		ServiceURL:  "http://localhost:8080",
		TokenTTL:    time.Hour,
		CORSOrigins: []string{"*"},
		RateLimit:   1000,
		RateWindow:  time.Minute,
	}
	jwtService := auth.NewJWTService("test-jwt-secret", cfg.ServiceURL, cfg.TokenTTL)
	pipe := pipeline.New(dataPath, subs, audio, rec)

	server := httptest.NewServer(NewRouter(database, jwtService, pipe, cfg))
	t.Cleanup(server.Close)

	return &testEnv{server: server, db: database}
}

func (e *testEnv) post(t *testing.T, path, token string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req, err := http.NewRequest("POST", e.server.URL+path, bytes.NewReader(payload))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (e *testEnv) get(t *testing.T, path, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest("GET", e.server.URL+path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (e *testEnv) token(t *testing.T) string {
	t.Helper()
	resp := e.post(t, "/api/auth/token", "", map[string]string{
		"client_id":     "test-bot",
		"client_secret": "test-secret",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("token exchange status = %d", resp.StatusCode)
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	return body.Token
}

func TestHealthIsPublic(t *testing.T) {
	env := newTestEnv(t, stubSubtitles{}, stubAudio{}, stubRecognizer{})

	resp := env.get(t, "/api/health", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %q, want healthy", body["status"])
	}
}

func TestTokenExchangeRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t, stubSubtitles{}, stubAudio{}, stubRecognizer{})

	tests := []map[string]string{
		{"client_id": "test-bot", "client_secret": "wrong"},
		{"client_id": "nobody", "client_secret": "test-secret"},
	}
	for _, creds := range tests {
		resp := env.post(t, "/api/auth/token", "", creds)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d for %v, want 401", resp.StatusCode, creds)
		}
	}
}

func TestProcessURLRequiresToken(t *testing.T) {
	env := newTestEnv(t, stubSubtitles{}, stubAudio{}, stubRecognizer{})

	resp := env.post(t, "/api/process-url", "", map[string]string{"video_url": "https://youtu.be/abc"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d without a token, want 401", resp.StatusCode)
	}

	resp = env.post(t, "/api/process-url", "garbage-token", map[string]string{"video_url": "https://youtu.be/abc"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d with a bad token, want 401", resp.StatusCode)
	}
}

func TestProcessURLSubtitlePath(t *testing.T) {
	env := newTestEnv(t, stubSubtitles{content: "caption text"}, stubAudio{}, stubRecognizer{})
	token := env.token(t)

	resp := env.post(t, "/api/process-url", token, map[string]string{
		"video_url": "https://youtu.be/dQw4w9WgXcQ",
		"source":    "test",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var result pipeline.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.Source != pipeline.SourceSubtitles {
		t.Errorf("Source = %v, want subtitles", result.Source)
	}
	if result.Transcript.Text != "caption text" {
		t.Errorf("Text = %q", result.Transcript.Text)
	}

	// The run is persisted to history.
	run, err := env.db.GetRun(result.RunID)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if run.Source != string(pipeline.SourceSubtitles) {
		t.Errorf("persisted Source = %q", run.Source)
	}
}

func TestProcessURLRejectsUnsupportedURL(t *testing.T) {
	env := newTestEnv(t, stubSubtitles{}, stubAudio{}, stubRecognizer{})
	token := env.token(t)

	tests := []string{
		"",
		"https://example.com/video",
		"https://youtube.com/invalid",
		"not a url",
	}
	for _, url := range tests {
		resp := env.post(t, "/api/process-url", token, map[string]string{"video_url": url})
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d for %q, want 400", resp.StatusCode, url)
		}
	}
}

func TestProcessURLRecordsFailure(t *testing.T) {
	env := newTestEnv(t, stubSubtitles{}, stubAudio{err: fmt.Errorf("no formats found")}, stubRecognizer{})
	token := env.token(t)

	resp := env.post(t, "/api/process-url", token, map[string]string{"video_url": "https://youtu.be/abc"})
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}

	runs, err := env.db.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("run history has %d rows, want 1", len(runs))
	}
	if runs[0].Error == "" {
		t.Error("failed run persisted without an error message")
	}
}

func TestRunsAndArtifacts(t *testing.T) {
	env := newTestEnv(t, stubSubtitles{content: "caption text"}, stubAudio{}, stubRecognizer{})
	token := env.token(t)

	resp := env.post(t, "/api/process-url", token, map[string]string{"video_url": "https://youtu.be/abc"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("process status = %d", resp.StatusCode)
	}
	var result pipeline.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}

	listResp := env.get(t, "/api/runs?limit=10", token)
	if listResp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", listResp.StatusCode)
	}
	var listBody struct {
		Runs []json.RawMessage `json:"runs"`
	}
	if err := json.NewDecoder(listResp.Body).Decode(&listBody); err != nil {
		t.Fatal(err)
	}
	if len(listBody.Runs) != 1 {
		t.Errorf("runs = %d, want 1", len(listBody.Runs))
	}

	artResp := env.get(t, "/api/runs/"+result.RunID+"/artifacts", token)
	if artResp.StatusCode != http.StatusOK {
		t.Fatalf("artifacts status = %d", artResp.StatusCode)
	}
	var artBody struct {
		Artifacts []struct {
			Name string `json:"name"`
		} `json:"artifacts"`
	}
	if err := json.NewDecoder(artResp.Body).Decode(&artBody); err != nil {
		t.Fatal(err)
	}
	names := map[string]bool{}
	for _, a := range artBody.Artifacts {
		names[a.Name] = true
	}
	if !names["transcript.json"] || !names["subtitle.en.srt"] {
		t.Errorf("artifacts = %v, want transcript.json and subtitle.en.srt", names)
	}
}

func TestArtifactsUnknownRun(t *testing.T) {
	env := newTestEnv(t, stubSubtitles{}, stubAudio{}, stubRecognizer{})
	token := env.token(t)

	resp := env.get(t, "/api/runs/run-missing/artifacts", token)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
