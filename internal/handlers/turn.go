package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"gaiaterm/internal/services"
	"gaiaterm/pkg/oracle"
	"gaiaterm/pkg/prompts"
)

// turnHistoryLimit caps the history window regardless of what the
// client sends.
const turnHistoryLimit = 10

// TurnHandler serves the narrative oracle: one player command in, one
// structured narrative delta out.
type TurnHandler struct {
	llmService services.LLMService
	logger     *slog.Logger
}

func NewTurnHandler(llmService services.LLMService, logger *slog.Logger) *TurnHandler {
	return &TurnHandler{
		llmService: llmService,
		logger:     logger,
	}
}

func (h *TurnHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		h.logger.Warn("Method not allowed for turn endpoint",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.", "")
		return
	}

	var request oracle.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.logger.Warn("Invalid turn request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body.", "Expected a JSON turn request.")
		return
	}

	if err := request.Validate(); err != nil {
		h.logger.Warn("Invalid turn request", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid turn request.", err.Error())
		return
	}

	if len(request.TurnHistory) > turnHistoryLimit {
		request.TurnHistory = request.TurnHistory[len(request.TurnHistory)-turnHistoryLimit:]
	}

	messages, err := prompts.New().
		WithRequest(&request).
		WithHistoryLimit(turnHistoryLimit).
		Build()
	if err != nil {
		h.logger.Error("Error building turn prompt", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to process the turn.", "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	raw, err := h.llmService.GenerateResponse(ctx, messages)
	if err != nil {
		h.logger.Error("Error generating turn response", "error", err)
		writeError(w, h.logger, http.StatusBadGateway, "The narrative core did not respond.", "Please try again.")
		return
	}

	response, err := oracle.ParseResponse(raw)
	if err != nil {
		h.logger.Error("Malformed model output", "error", err, "output_length", len(raw))
		writeError(w, h.logger, http.StatusBadGateway, "The narrative core spoke in tongues.", "Please try again.")
		return
	}

	h.logger.Debug("Turn completed",
		"player", request.CurrentGameState.PlayerName,
		"command_length", len(request.PlayerCommand),
		"choices", len(response.Choices),
		"items", len(response.ItemsFound))

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Error encoding turn response", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, message, details string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(oracle.ErrorResponse{Error: message, Details: details}); err != nil {
		logger.Error("Error encoding error response", "error", err)
	}
}
