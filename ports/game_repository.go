package ports

import (
	"context"

	"github.com/unseriousprof/edgi-vid-library/models"

	"github.com/google/uuid"
)

// GameRepository stores drafted mini-game payloads keyed by video
type GameRepository interface {
	// UpsertGame inserts or replaces the game payload for a video
	UpsertGame(ctx context.Context, videoID uuid.UUID, payload *models.GamePayload) error

	// GetGame retrieves the stored payload for a video
	GetGame(ctx context.Context, videoID uuid.UUID) (*models.MiniGame, error)

	// ListEligibleVideos returns videos that qualify for game generation:
	// tagged, not flagged not_educational, educational value at or above
	// the threshold
	ListEligibleVideos(ctx context.Context, eduThreshold float64, limit int) ([]uuid.UUID, error)
}
