package ai

import (
	"context"

	"github.com/unseriousprof/edgi-vid-library/internal"
	"github.com/unseriousprof/edgi-vid-library/internal/errors"
	"github.com/unseriousprof/edgi-vid-library/models"
	"github.com/unseriousprof/edgi-vid-library/ports"
)

const gamePromptName = "mini_game"

// GameDesigner drafts mini-game payloads from transcripts via the LLM
type GameDesigner struct {
	client *StructuredClient[models.GamePayload]
	logger *internal.Logger
}

// NewGameDesigner creates a mini-game drafter
func NewGameDesigner(config *models.AIConfig, logger *internal.Logger) ports.GameDrafter {
	return &GameDesigner{
		client: NewStructuredClient[models.GamePayload](config),
		logger: logger,
	}
}

// DraftGame asks the model for a game payload and enforces the response
// contract before returning it. A payload that fails validation is a model
// defect, not storable data.
func (g *GameDesigner) DraftGame(ctx context.Context, transcript string) (*models.GamePayload, error) {
	payload, err := g.client.GetJsonResponseFromPrompt(ctx, gamePromptName, map[string]string{
		"TRANSCRIPT": transcript,
	})
	if err != nil {
		return nil, errors.Wrap(err, "game drafting failed")
	}

	if err := payload.Validate(); err != nil {
		return nil, errors.Wrap(err, "model returned a malformed game payload")
	}

	if !payload.ShouldGenerateGame {
		g.logger.Info("Model declined game generation: %s", payload.SkipReason)
	}
	return payload, nil
}
