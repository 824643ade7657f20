package ports

import (
	"context"

	"github.com/unseriousprof/edgi-vid-library/models"
)

// TranscriptTagger extracts structured tag metadata from a transcript
type TranscriptTagger interface {
	TagTranscript(ctx context.Context, transcript string) (*models.TagResult, error)
}

// GameDrafter turns a transcript into a validated mini-game payload
type GameDrafter interface {
	DraftGame(ctx context.Context, transcript string) (*models.GamePayload, error)
}
