package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gaiaterm/internal/services"
	"gaiaterm/internal/storage"
)

func setupContactHandler(t *testing.T, mailer *services.MockMailer) (*ContactHandler, *storage.SQLiteStore) {
	t.Helper()
	store, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return NewContactHandler(store, mailer, "owner@example.com", testLogger()), store
}

func postContact(handler http.Handler, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(body)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/contact", &buf))
	return rr
}

func TestContactHandlerSuccess(t *testing.T) {
	mailer := &services.MockMailer{}
	handler, store := setupContactHandler(t, mailer)

	rr := postContact(handler, ContactRequest{
		Name:    "Ada",
		Email:   "ada@example.com",
		Message: "I enjoyed the terminal.",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["id"])

	subs, err := store.ListSubmissions(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "Ada", subs[0].Name)

	require.Len(t, mailer.Sent, 1)
	assert.Equal(t, "owner@example.com", mailer.Sent[0].To)
	assert.Contains(t, mailer.Sent[0].Text, "ada@example.com")
}

func TestContactHandlerValidation(t *testing.T) {
	tests := []struct {
		name string
		req  ContactRequest
	}{
		{name: "missing name", req: ContactRequest{Email: "a@example.com", Message: "hi"}},
		{name: "missing message", req: ContactRequest{Name: "Ada", Email: "a@example.com"}},
		{name: "bad email", req: ContactRequest{Name: "Ada", Email: "nope", Message: "hi"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mailer := &services.MockMailer{}
			handler, _ := setupContactHandler(t, mailer)
			rr := postContact(handler, tc.req)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Empty(t, mailer.Sent)
		})
	}
}

func TestContactHandlerMailerFailureStillStores(t *testing.T) {
	mailer := &services.MockMailer{
		SendFunc: func(ctx context.Context, msg services.EmailMessage) error {
			return errors.New("smtp relay down")
		},
	}
	handler, store := setupContactHandler(t, mailer)

	rr := postContact(handler, ContactRequest{
		Name:    "Lin",
		Email:   "lin@example.com",
		Message: "hello",
	})
	assert.Equal(t, http.StatusCreated, rr.Code, "mailer outage must not fail a stored submission")

	subs, err := store.ListSubmissions(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

func TestContactHandlerMethodNotAllowed(t *testing.T) {
	handler, _ := setupContactHandler(t, &services.MockMailer{})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/contact", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
