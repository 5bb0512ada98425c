package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return NewClient(Config{
		BaseURL: baseURL,
		APIKey:  "test-key",
		UserID:  "user-42",
	})
}

func TestSendChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-API-Key"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "What is Section 420 IPC?", req.Message)
		assert.Equal(t, "user-42", req.UserID)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":         "success",
			"message":        "ok",
			"data":           "Section 420 deals with cheating...",
			"execution_time": 1.2,
		})
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	result, err := c.SendChat(context.Background(), "What is Section 420 IPC?")
	require.NoError(t, err)
	assert.Equal(t, "Section 420 deals with cheating...", result.Answer)
	assert.InDelta(t, 1.2, result.LatencySeconds, 0.0001)
}

func TestSendChatHTMLBody(t *testing.T) {
	// A misrouted gateway can return a 200 HTML error page. That must be
	// classified, not parsed and crashed on.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><h1>502 Bad Gateway</h1></body></html>"))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.SendChat(context.Background(), "hello")
	require.Error(t, err, "an HTML body on a success status must fail")
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindProtocolMismatch, kind)
}

func TestSendChatStatusClassification(t *testing.T) {
	tests := []struct {
		status int
		want   Kind
	}{
		{http.StatusGatewayTimeout, KindTimeout},
		{http.StatusInternalServerError, KindTimeout},
		{http.StatusNotFound, KindHTTPError},
		{http.StatusBadRequest, KindHTTPError},
	}

	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			_, _ = w.Write([]byte("error page"))
		}))

		c := newTestClient(server.URL)
		_, err := c.SendChat(context.Background(), "hello")
		server.Close()

		require.Error(t, err, "status %d", tt.status)
		kind, ok := KindOf(err)
		require.True(t, ok, "status %d", tt.status)
		assert.Equal(t, tt.want, kind, "status %d", tt.status)
	}
}

func TestSendChatBackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "error",
			"error":  "Legal research system not available",
		})
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.SendChat(context.Background(), "hello")
	require.Error(t, err, "a body-level error status must surface")
	kind, _ := KindOf(err)
	assert.Equal(t, KindHTTPError, kind)
}

func TestSendChatNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	c := newTestClient(server.URL)
	_, err := c.SendChat(context.Background(), "hello")
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindNetworkError, kind)
}

func TestSendChatBoundedWait(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer func() {
		close(release)
		server.Close()
	}()

	c := NewClient(Config{
		BaseURL:     server.URL,
		ChatTimeout: 50 * time.Millisecond,
	})

	start := time.Now()
	_, err := c.SendChat(context.Background(), "hello")
	require.Error(t, err, "a hanging request must be abandoned")
	assert.Less(t, time.Since(start), 5*time.Second, "bounded wait did not take effect")
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindTimeout, kind)
}

func TestAnalyzeDocument(t *testing.T) {
	pdf := []byte("%PDF-1.4 fake content")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/analyze-pdf", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Summarize the indemnity clause", r.FormValue("message"))
		assert.Equal(t, "user-42", r.FormValue("user_id"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()
		assert.Equal(t, "contract.pdf", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":         "success",
			"analysis":       "The indemnity clause covers...",
			"execution_time": 4.5,
		})
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	result, err := c.AnalyzeDocument(context.Background(),
		Document{Name: "contract.pdf", Data: pdf},
		"Summarize the indemnity clause")
	require.NoError(t, err)
	assert.Equal(t, "The indemnity clause covers...", result.Analysis)
	assert.InDelta(t, 4.5, result.LatencySeconds, 0.0001)
}

func TestUpload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/upload", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":   "success",
			"filename": "notes.pdf",
			"size":     11,
		})
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	result, err := c.Upload(context.Background(), Document{Name: "notes.pdf", Data: []byte("hello world")})
	require.NoError(t, err)
	assert.Equal(t, "notes.pdf", result.Filename)
	assert.Equal(t, int64(11), result.Size)
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/health", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "healthy",
			"uptime": "2h3m",
			"features": map[string]bool{
				"legal_research": true,
				"pdf_analysis":   true,
			},
		})
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	report, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", report.Status)
	assert.True(t, report.Features["legal_research"], "features should include legal_research")
}
