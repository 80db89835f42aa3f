// Package provider is the HTTP client for the remote image-to-video job API.
// A job is submitted once and then polled by id until it reaches a terminal
// state; the provider has no push or webhook model.
//
// Endpoints:
//
//	POST {base}/v1/image_to_video  {model, promptImage, promptText, ratio?} -> {id}
//	GET  {base}/v1/tasks/{id}      -> {id, status, output[], failure}
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ErrProvider wraps every transport failure, non-2xx answer, or malformed
// payload coming from the remote API.
var ErrProvider = errors.New("provider error")

// Status is the collapsed job state seen by callers.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusSucceeded Status = "SUCCEEDED"
	StatusFailed    Status = "FAILED"
)

// Task is one poll observation.
type Task struct {
	ID        string
	Status    Status
	OutputURL string // first output, set when Status is SUCCEEDED
	Failure   string // provider reason, set when Status is FAILED
}

// Config carries connection settings for the remote API.
type Config struct {
	BaseURL    string
	APISecret  string
	APIVersion string
	Model      string
	Ratio      string
	Timeout    time.Duration
}

// Client talks to the job API. It is safe for concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// New builds a Client whose outbound requests are traced with otelhttp.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type submitRequest struct {
	Model       string `json:"model"`
	PromptImage string `json:"promptImage"`
	PromptText  string `json:"promptText,omitempty"`
	Ratio       string `json:"ratio,omitempty"`
}

type submitResponse struct {
	ID string `json:"id"`
}

type taskResponse struct {
	ID      string   `json:"id"`
	Status  string   `json:"status"`
	Output  []string `json:"output"`
	Failure string   `json:"failure"`
}

// Submit starts an image-to-video job for promptImage (a data URI or URL)
// and returns the provider-assigned job id.
func (c *Client) Submit(ctx context.Context, promptImage, promptText string) (string, error) {
	body, err := json.Marshal(submitRequest{
		Model:       c.cfg.Model,
		PromptImage: promptImage,
		PromptText:  promptText,
		Ratio:       c.cfg.Ratio,
	})
	if err != nil {
		return "", fmt.Errorf("%w: encode submit: %v", ErrProvider, err)
	}

	var out submitResponse
	if err := c.do(ctx, http.MethodPost, "/v1/image_to_video", bytes.NewReader(body), &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("%w: submit response has no id", ErrProvider)
	}
	return out.ID, nil
}

// Poll performs a single status check for id.
func (c *Client) Poll(ctx context.Context, id string) (Task, error) {
	var out taskResponse
	if err := c.do(ctx, http.MethodGet, "/v1/tasks/"+url.PathEscape(id), nil, &out); err != nil {
		return Task{}, err
	}

	t := Task{ID: id, Status: collapse(out.Status)}
	switch t.Status {
	case StatusSucceeded:
		if len(out.Output) == 0 || out.Output[0] == "" {
			return Task{}, fmt.Errorf("%w: task %s succeeded without output", ErrProvider, id)
		}
		t.OutputURL = out.Output[0]
	case StatusFailed:
		t.Failure = out.Failure
		if t.Failure == "" {
			t.Failure = strings.ToLower(out.Status)
		}
	}
	return t, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	if c.cfg.APISecret == "" {
		return fmt.Errorf("%w: API secret is not configured", ErrProvider)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrProvider, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APISecret)
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIVersion != "" {
		req.Header.Set("X-Runway-Version", c.cfg.APIVersion)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrProvider, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s %s returned %d: %s", ErrProvider, method, path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrProvider, path, err)
	}
	return nil
}

// collapse maps the remote lifecycle onto PENDING, SUCCEEDED, or FAILED.
// Unknown states are treated as still in progress.
func collapse(remote string) Status {
	switch strings.ToUpper(strings.TrimSpace(remote)) {
	case "SUCCEEDED":
		return StatusSucceeded
	case "FAILED", "CANCELLED", "CANCELED":
		return StatusFailed
	default:
		return StatusPending
	}
}
