package challenge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thesrcielos/CodeClash/internal/config"
	"go.uber.org/zap"
)

func newTestClient(url string, timeout time.Duration) *Client {
	return NewClient(config.AIConfig{
		URL:         url,
		APIKey:      "test-key",
		Model:       "test-model",
		Timeout:     timeout,
		Temperature: 0.7,
		MaxTokens:   8192,
	}, zap.NewNop())
}

func TestClient_Complete_SendsChatRequest(t *testing.T) {
	var received chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"score\": 90}"}}]}`))
	}))
	defer server.Close()

	content, err := newTestClient(server.URL, time.Second).Complete(context.Background(), "score this")
	require.NoError(t, err)
	assert.Equal(t, `{"score": 90}`, content)

	assert.Equal(t, "test-model", received.Model)
	require.Len(t, received.Messages, 1)
	assert.Equal(t, "user", received.Messages[0].Role)
	assert.Equal(t, "score this", received.Messages[0].Content)
	assert.InDelta(t, 0.7, received.Temperature, 0.0001)
	assert.Equal(t, 8192, received.MaxTokens)
	assert.Equal(t, "json_object", received.ResponseFormat.Type)
}

func TestClient_Complete_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, time.Second).Complete(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestClient_Complete_MissingContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, time.Second).Complete(context.Background(), "p")
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestClient_Complete_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	_, err := newTestClient(server.URL, 50*time.Millisecond).Complete(context.Background(), "p")
	assert.Error(t, err)
}

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "ab", truncate("abé", 3))
	assert.Equal(t, "abé", truncate("abéd", 4))
	assert.Equal(t, "", truncate("日本", 2))
}

func TestClient_Complete_LargeErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("x" + strings.Repeat("é", 2*maxResponseBytes)))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 5*time.Second).Complete(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
	assert.True(t, utf8.ValidString(err.Error()))
	assert.Less(t, len(err.Error()), 600)
}
