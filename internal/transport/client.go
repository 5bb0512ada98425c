// Package transport implements the HTTP client for the legal-research
// backend. It resolves the backend base address for the active deployment
// context, issues JSON and multipart requests with bounded waits, and
// normalizes every failure into the closed Kind taxonomy before it reaches
// callers.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultChatTimeout bounds a chat request. Past this the call is
	// abandoned and reported as a timeout rather than left hanging.
	DefaultChatTimeout = 2 * time.Minute
	// DefaultAnalyzeTimeout bounds a document analysis request, which is
	// allowed to run longer than plain chat.
	DefaultAnalyzeTimeout = 3 * time.Minute

	healthTimeout = 10 * time.Second

	// errorBodySnippet caps how much of an unexpected body is kept for logs.
	errorBodySnippet = 512
)

// Config configures a Client. BaseURL should come from ResolveBaseURL.
type Config struct {
	BaseURL string
	// APIKey, when set, is attached to every request. One deployment mode
	// fronts the backend with a key-checking gateway.
	APIKey string
	// UserID is the caller identifier sent with chat and upload requests.
	UserID string

	ChatTimeout    time.Duration
	AnalyzeTimeout time.Duration

	// Limiter, when set, paces outgoing requests client-side.
	Limiter *rate.Limiter
}

// Client is the transport layer for the legal-research backend.
type Client struct {
	baseURL string
	apiKey  string
	userID  string
	limiter *rate.Limiter

	chatClient    *http.Client
	analyzeClient *http.Client
	healthClient  *http.Client
}

// NewClient creates a transport client. Zero timeouts fall back to the
// defaults.
func NewClient(cfg Config) *Client {
	chatTimeout := cfg.ChatTimeout
	if chatTimeout <= 0 {
		chatTimeout = DefaultChatTimeout
	}
	analyzeTimeout := cfg.AnalyzeTimeout
	if analyzeTimeout <= 0 {
		analyzeTimeout = DefaultAnalyzeTimeout
	}

	return &Client{
		baseURL:       cfg.BaseURL,
		apiKey:        cfg.APIKey,
		userID:        cfg.UserID,
		limiter:       cfg.Limiter,
		chatClient:    &http.Client{Timeout: chatTimeout},
		analyzeClient: &http.Client{Timeout: analyzeTimeout},
		healthClient:  &http.Client{Timeout: healthTimeout},
	}
}

// BaseURL returns the resolved backend base address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Document is a file submitted for analysis or upload.
type Document struct {
	Name string
	Data []byte
}

// ChatResult is the useful portion of a chat response.
type ChatResult struct {
	Answer         string
	LatencySeconds float64
}

// AnalysisResult is the useful portion of a document-analysis response.
type AnalysisResult struct {
	Analysis       string
	LatencySeconds float64
}

// UploadResult reports a completed generic upload.
type UploadResult struct {
	Filename string
	Size     int64
}

// HealthReport is the backend health-check payload.
type HealthReport struct {
	Status   string          `json:"status"`
	Uptime   string          `json:"uptime"`
	Warnings []string        `json:"warnings"`
	Features map[string]bool `json:"features"`
}

// SystemStatus is the backend status payload.
type SystemStatus struct {
	Status   string   `json:"status"`
	Service  string   `json:"service"`
	Version  string   `json:"version"`
	Uptime   string   `json:"uptime"`
	Features []string `json:"features"`
}

type chatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"user_id,omitempty"`
}

// chatResponse mirrors the backend envelope. The answer text arrives in
// "data" with "message" as a fallback; older deployments used "answer".
type chatResponse struct {
	Status        string  `json:"status"`
	Message       string  `json:"message"`
	Data          string  `json:"data"`
	Answer        string  `json:"answer"`
	ErrorDetail   string  `json:"error"`
	ExecutionTime float64 `json:"execution_time"`
}

func (r *chatResponse) answerText() string {
	switch {
	case r.Answer != "":
		return r.Answer
	case r.Data != "":
		return r.Data
	default:
		return r.Message
	}
}

type analyzeResponse struct {
	Status        string  `json:"status"`
	Analysis      string  `json:"analysis"`
	ErrorDetail   string  `json:"error"`
	ExecutionTime float64 `json:"execution_time"`
}

type uploadResponse struct {
	Status      string `json:"status"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ErrorDetail string `json:"error"`
}

// SendChat submits a legal-research question and waits, up to the chat
// bound, for the answer.
func (c *Client) SendChat(ctx context.Context, text string) (*ChatResult, error) {
	body, err := json.Marshal(chatRequest{Message: text, UserID: c.userID})
	if err != nil {
		return nil, NewError(KindNetworkError, "encode chat request: "+err.Error(), err)
	}

	var resp chatResponse
	if err := c.postJSON(ctx, c.chatClient, "/api/chat", body, &resp); err != nil {
		return nil, err
	}
	if resp.Status == "error" {
		return nil, NewError(KindHTTPError, "backend rejected chat: "+resp.ErrorDetail, nil)
	}

	return &ChatResult{
		Answer:         resp.answerText(),
		LatencySeconds: resp.ExecutionTime,
	}, nil
}

// AnalyzeDocument submits a document with a question and waits, up to the
// analysis bound, for the result.
func (c *Client) AnalyzeDocument(ctx context.Context, doc Document, question string) (*AnalysisResult, error) {
	fields := map[string]string{
		"message": question,
		"user_id": c.userID,
	}

	var resp analyzeResponse
	if err := c.postMultipart(ctx, c.analyzeClient, "/api/analyze-pdf", doc, fields, &resp); err != nil {
		return nil, err
	}
	if resp.Status == "error" {
		return nil, NewError(KindHTTPError, "backend rejected analysis: "+resp.ErrorDetail, nil)
	}

	return &AnalysisResult{
		Analysis:       resp.Analysis,
		LatencySeconds: resp.ExecutionTime,
	}, nil
}

// Upload stores a document on the backend without analyzing it.
func (c *Client) Upload(ctx context.Context, doc Document) (*UploadResult, error) {
	fields := map[string]string{"user_id": c.userID}

	var resp uploadResponse
	if err := c.postMultipart(ctx, c.chatClient, "/upload", doc, fields, &resp); err != nil {
		return nil, err
	}
	if resp.Status == "error" {
		return nil, NewError(KindHTTPError, "backend rejected upload: "+resp.ErrorDetail, nil)
	}

	return &UploadResult{Filename: resp.Filename, Size: resp.Size}, nil
}

// Health fetches the backend health report. Not on the critical chat path.
func (c *Client) Health(ctx context.Context) (*HealthReport, error) {
	var resp HealthReport
	if err := c.getJSON(ctx, c.healthClient, "/api/health", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status fetches the backend system status.
func (c *Client) Status(ctx context.Context) (*SystemStatus, error) {
	var resp SystemStatus
	if err := c.getJSON(ctx, c.healthClient, "/api/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return classifyRequestError(err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, client *http.Client, path string, body []byte, result any) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return NewError(KindNetworkError, "build request: "+err.Error(), err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuth(req)

	return c.do(client, req, result)
}

func (c *Client) postMultipart(ctx context.Context, client *http.Client, path string, doc Document, fields map[string]string, result any) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", doc.Name)
	if err != nil {
		return NewError(KindNetworkError, "build multipart body: "+err.Error(), err)
	}
	if _, err := part.Write(doc.Data); err != nil {
		return NewError(KindNetworkError, "write multipart body: "+err.Error(), err)
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return NewError(KindNetworkError, "write multipart field: "+err.Error(), err)
		}
	}
	if err := w.Close(); err != nil {
		return NewError(KindNetworkError, "finish multipart body: "+err.Error(), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return NewError(KindNetworkError, "build request: "+err.Error(), err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	c.setAuth(req)

	return c.do(client, req, result)
}

func (c *Client) getJSON(ctx context.Context, client *http.Client, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return NewError(KindNetworkError, "build request: "+err.Error(), err)
	}
	c.setAuth(req)

	return c.do(client, req, result)
}

func (c *Client) setAuth(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
}

// do sends the request and validates the response: non-success statuses are
// classified, and a success status whose body is not JSON (an HTML error
// page from a misconfigured gateway, say) is a protocol mismatch rather than
// something to crash on.
func (c *Client) do(client *http.Client, req *http.Request, result any) error {
	resp, err := client.Do(req)
	if err != nil {
		return classifyRequestError(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyRequestError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classifyStatus(resp.StatusCode, snippet(body))
	}

	if err := json.Unmarshal(body, result); err != nil {
		return &Error{
			Kind:       KindProtocolMismatch,
			Detail:     fmt.Sprintf("non-JSON body on status %d: %s", resp.StatusCode, snippet(body)),
			StatusCode: resp.StatusCode,
			Err:        err,
		}
	}
	return nil
}

func snippet(body []byte) string {
	if len(body) > errorBodySnippet {
		body = body[:errorBodySnippet]
	}
	return string(body)
}
