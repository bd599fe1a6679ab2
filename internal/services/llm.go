package services

import (
	"context"

	"gaiaterm/pkg/oracle"
)

// LLMService defines the interface for the generative-language backend
// of the narrative oracle.
type LLMService interface {
	// InitModel prepares the model for use on startup.
	InitModel(ctx context.Context, modelName string) error

	// GenerateResponse runs one model turn over the assembled messages
	// and returns the raw model output text.
	GenerateResponse(ctx context.Context, messages []oracle.Message) (string, error)
}
