package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"gaiaterm/internal/services"
	"gaiaterm/internal/storage"
)

const maxContactMessageLen = 5000

// ContactRequest is a contact form submission.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (c *ContactRequest) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errContactField("name")
	}
	if strings.TrimSpace(c.Message) == "" {
		return errContactField("message")
	}
	if len(c.Message) > maxContactMessageLen {
		return errContactTooLong
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return errContactEmail
	}
	return nil
}

type contactError string

func (e contactError) Error() string { return string(e) }

func errContactField(field string) error {
	return contactError(field + " is required")
}

const (
	errContactEmail   = contactError("a valid email address is required")
	errContactTooLong = contactError("message is too long")
)

// ContactHandler stores contact submissions and forwards them by
// email.
type ContactHandler struct {
	store     storage.ContactStore
	mailer    services.Mailer
	toAddress string
	logger    *slog.Logger
}

func NewContactHandler(store storage.ContactStore, mailer services.Mailer, toAddress string, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{
		store:     store,
		mailer:    mailer,
		toAddress: toAddress,
		logger:    logger,
	}
}

func (h *ContactHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.", "")
		return
	}

	var request ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.logger.Warn("Invalid contact request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body.", "")
		return
	}
	if err := request.Validate(); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid submission.", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	sub := &storage.ContactSubmission{
		Name:    strings.TrimSpace(request.Name),
		Email:   request.Email,
		Message: request.Message,
	}
	if err := h.store.SaveSubmission(ctx, sub); err != nil {
		h.logger.Error("Error saving contact submission", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to record your message.", "Please try again.")
		return
	}

	// The submission is durable at this point; a mailer outage must
	// not fail the request.
	if err := h.mailer.Send(ctx, services.EmailMessage{
		From:    "terminal@gaiaterm.dev",
		To:      h.toAddress,
		Subject: "New contact submission from " + sub.Name,
		Text:    sub.Message + "\n\nReply to: " + sub.Email,
	}); err != nil {
		h.logger.Error("Error sending contact email", "error", err, "submission_id", sub.ID)
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(map[string]string{"id": sub.ID}); err != nil {
		h.logger.Error("Error encoding contact response", "error", err)
	}
}
