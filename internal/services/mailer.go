package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const mailerBaseURL = "https://api.resend.com"

// EmailMessage is one transactional email.
type EmailMessage struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// Mailer sends transactional email.
type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// RESTMailer implements Mailer against a Resend-style HTTP API.
type RESTMailer struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ Mailer = (*RESTMailer)(nil)

func NewRESTMailer(apiKey string) *RESTMailer {
	return &RESTMailer{
		apiKey:  apiKey,
		baseURL: mailerBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type mailerErrorResponse struct {
	Message string `json:"message"`
	Name    string `json:"name"`
}

func (m *RESTMailer) Send(ctx context.Context, msg EmailMessage) error {
	body, err := json.Marshal(struct {
		From    string   `json:"from"`
		To      []string `json:"to"`
		Subject string   `json:"subject"`
		Text    string   `json:"text"`
	}{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.Text,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/emails", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("email request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		respBody, _ := io.ReadAll(resp.Body)
		var errResp mailerErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			return fmt.Errorf("email API error: %s", errResp.Message)
		}
		return fmt.Errorf("email API returned status %d", resp.StatusCode)
	}
	return nil
}

// MockMailer records sends for tests.
type MockMailer struct {
	SendFunc func(ctx context.Context, msg EmailMessage) error
	Sent     []EmailMessage
}

var _ Mailer = (*MockMailer)(nil)

func (m *MockMailer) Send(ctx context.Context, msg EmailMessage) error {
	m.Sent = append(m.Sent, msg)
	if m.SendFunc != nil {
		return m.SendFunc(ctx, msg)
	}
	return nil
}
