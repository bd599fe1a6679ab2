package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gaiaterm/pkg/oracle"
)

func testMessages() []oracle.Message {
	return []oracle.Message{
		{Role: "system", Content: "You are the narrative core."},
		{Role: oracle.RoleUser, Content: "look around"},
		{Role: oracle.RoleNarrator, Content: "A dim corridor."},
		{Role: oracle.RoleUser, Content: "go north"},
	}
}

func TestGeminiGenerateResponse(t *testing.T) {
	var captured geminiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "/models/gemini-2.0-flash:generateContent")
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"storyText\":\"The hatch opens.\"}"}]},"finishReason":"STOP"}]}`))
	}))
	defer server.Close()

	svc := NewGeminiService("test-key", "gemini-2.0-flash")
	svc.baseURL = server.URL

	out, err := svc.GenerateResponse(context.Background(), testMessages())
	require.NoError(t, err)
	assert.Equal(t, `{"storyText":"The hatch opens."}`, out)

	// The system message becomes the system instruction; the rest map
	// to user/model contents in order.
	require.NotNil(t, captured.SystemInstruction)
	assert.Equal(t, "You are the narrative core.", captured.SystemInstruction.Parts[0].Text)
	require.Len(t, captured.Contents, 3)
	assert.Equal(t, "user", captured.Contents[0].Role)
	assert.Equal(t, "model", captured.Contents[1].Role)
	assert.Equal(t, "application/json", captured.GenerationConfig.ResponseMimeType)
}

func TestGeminiGenerateResponseAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"Resource exhausted","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer server.Close()

	svc := NewGeminiService("test-key", "gemini-2.0-flash")
	svc.baseURL = server.URL

	_, err := svc.GenerateResponse(context.Background(), testMessages())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RESOURCE_EXHAUSTED")
}

func TestGeminiGenerateResponseNoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	svc := NewGeminiService("test-key", "gemini-2.0-flash")
	svc.baseURL = server.URL

	_, err := svc.GenerateResponse(context.Background(), testMessages())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}
