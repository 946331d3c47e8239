// Package client is the authenticated, self-healing caller of the transcript
// service. It owns the credential lifecycle: a session holding at most one
// live bearer token, rebuilt on 401 or transport failure, with a hard retry
// budget of one per call.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/reelscribe/backend/internal/pipeline"
)

// session is a reusable authenticated connection context. It holds at most
// one live credential and is discarded whole when that credential is
// rejected.
type session struct {
	token string
}

// Options configure a Client.
type Options struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Source       string        // reported in process requests; defaults to "api-client"
	Timeout      time.Duration // per-attempt transport timeout
}

// Client invokes the transcript service with automatic re-authentication.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	source       string
	httpClient   *http.Client

	mu      sync.Mutex // serializes session (re)creation
	session *session
}

func New(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 5 * time.Minute // transcription can be slow
	}
	if opts.Source == "" {
		opts.Source = "api-client"
	}
	return &Client{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		clientID:     opts.ClientID,
		clientSecret: opts.ClientSecret,
		source:       opts.Source,
		httpClient:   &http.Client{Timeout: opts.Timeout},
	}
}

// ProcessResponse is the service's answer to a process-url call.
type ProcessResponse struct {
	RunID              string              `json:"run_id"`
	Source             pipeline.Source     `json:"source"`
	Transcript         pipeline.Transcript `json:"transcript"`
	TranscriptFilePath string              `json:"transcript_file_path,omitempty"`
	SubtitleFilePath   string              `json:"subtitle_file_path,omitempty"`
	AudioFilePath      string              `json:"audio_file_path,omitempty"`
}

// ProcessVideo submits a video URL for transcript acquisition.
func (c *Client) ProcessVideo(ctx context.Context, videoURL string) (*ProcessResponse, error) {
	payload := map[string]string{
		"video_url": videoURL,
		"source":    c.source,
	}
	result := &ProcessResponse{}
	if err := c.Request(ctx, http.MethodPost, "/api/process-url", payload, result); err != nil {
		return nil, err
	}
	return result, nil
}

// Health probes the service's liveness endpoint. It uses no credential and
// never retries; a failing health check reports false, nothing more.
func (c *Client) Health(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

// Request performs an authenticated JSON call with the bounded-retry policy:
// exactly one automatic retry, triggered either by an authorization-rejected
// response (session invalidated, fresh credential fetched) or by a
// transport-level failure (session recreated). A failure on the retried
// attempt is surfaced to the caller.
func (c *Client) Request(ctx context.Context, method, endpoint string, payload, out interface{}) error {
	const retryBudget = 1

	for attempt := 0; ; attempt++ {
		sess, err := c.ensureSession(ctx)
		if err != nil {
			return err
		}

		status, body, err := c.do(ctx, sess, method, endpoint, payload)
		if err != nil {
			c.invalidate(sess)
			if attempt < retryBudget && ctx.Err() == nil {
				log.Printf("[client] transport failure, recreating session and retrying: %v", err)
				continue
			}
			return &APIError{Kind: KindNetworkFailure, Err: err}
		}

		if status == http.StatusUnauthorized {
			c.invalidate(sess)
			if attempt < retryBudget {
				log.Printf("[client] credential rejected, re-authenticating and retrying")
				continue
			}
			return &APIError{Kind: KindAuthFailure, StatusCode: status, Message: errorMessage(body)}
		}

		if status != http.StatusOK {
			return &APIError{Kind: kindForStatus(status), StatusCode: status, Message: errorMessage(body)}
		}

		if out != nil {
			if err := json.Unmarshal(body, out); err != nil {
				return &APIError{Kind: KindMalformedResponse, StatusCode: status, Err: err}
			}
		}
		return nil
	}
}

// Close discards the live session, forcing re-authentication on the next
// request.
func (c *Client) Close() {
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
}

// ensureSession returns the live session, authenticating a new one if none
// exists. Creation is serialized so two concurrent requests cannot both fetch
// fresh credentials.
func (c *Client) ensureSession(ctx context.Context) (*session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		return c.session, nil
	}

	sess, err := c.authenticate(ctx)
	if err != nil {
		return nil, err
	}
	c.session = sess
	return sess, nil
}

// invalidate closes the session, but only if it is still the one the caller
// used: a concurrent request may already hold a newer one.
func (c *Client) invalidate(sess *session) {
	c.mu.Lock()
	if c.session == sess {
		c.session = nil
	}
	c.mu.Unlock()
}

type tokenResponse struct {
	Token     string `json:"token"`
	Audience  string `json:"audience"`
	ExpiresIn int64  `json:"expires_in"`
}

func (c *Client) authenticate(ctx context.Context) (*session, error) {
	body, err := json.Marshal(map[string]string{
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
	})
	if err != nil {
		return nil, &APIError{Kind: KindAuthFailure, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/token", bytes.NewReader(body))
	if err != nil {
		return nil, &APIError{Kind: KindAuthFailure, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Kind: KindAuthFailure, Err: fmt.Errorf("fetch credential: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Kind: KindAuthFailure, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Kind: KindAuthFailure, StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
	}

	var tok tokenResponse
	if err := json.Unmarshal(respBody, &tok); err != nil || tok.Token == "" {
		return nil, &APIError{Kind: KindAuthFailure, Err: fmt.Errorf("malformed token response")}
	}

	log.Printf("[client] authenticated, credential scoped to %s", tok.Audience)
	return &session{token: tok.Token}, nil
}

func (c *Client) do(ctx context.Context, sess *session, method, endpoint string, payload interface{}) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+sess.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

func errorMessage(body []byte) string {
	var parsed struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
		return parsed.Error
	}
	return strings.TrimSpace(string(body))
}
