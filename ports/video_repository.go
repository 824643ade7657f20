package ports

import (
	"context"

	"github.com/unseriousprof/edgi-vid-library/models"

	"github.com/google/uuid"
)

// VideoRepository defines the interface for video data operations
type VideoRepository interface {
	// GetVideoByID retrieves a single video with its denormalized tag columns
	GetVideoByID(ctx context.Context, videoID uuid.UUID) (*models.Video, error)

	// ListPendingTagging returns transcribed videos whose tag_status is pending
	ListPendingTagging(ctx context.Context, limit int) ([]*models.Video, error)

	// ListTagged returns videos whose tag_status is done, paginated by offset
	ListTagged(ctx context.Context, limit, offset int) ([]*models.Video, error)

	// GetTranscript fetches the transcript text for a video
	GetTranscript(ctx context.Context, videoID uuid.UUID) (string, error)

	// ApplyTagResult writes a tagging result onto the video's JSONB columns
	ApplyTagResult(ctx context.Context, videoID uuid.UUID, result *models.TagResult, modelUsed string, taggingTime float64) error

	// MarkTaggingError records a tagging failure and bumps failure_count
	MarkTaggingError(ctx context.Context, videoID uuid.UUID, modelUsed string, cause error) error
}
