package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRESTMailerSend(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"id":"e-1"}`))
	}))
	defer server.Close()

	m := NewRESTMailer("test-key")
	m.baseURL = server.URL

	err := m.Send(context.Background(), EmailMessage{
		From:    "terminal@example.com",
		To:      "owner@example.com",
		Subject: "New contact submission",
		Text:    "Hello there",
	})
	require.NoError(t, err)
	assert.Equal(t, []any{"owner@example.com"}, captured["to"])
	assert.Equal(t, "New contact submission", captured["subject"])
}

func TestRESTMailerSendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"name":"validation_error","message":"invalid to address"}`))
	}))
	defer server.Close()

	m := NewRESTMailer("test-key")
	m.baseURL = server.URL

	err := m.Send(context.Background(), EmailMessage{To: "not-an-address"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid to address")
}
