package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/unseriousprof/edgi-vid-library/models"
	"github.com/unseriousprof/edgi-vid-library/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// VideoRepositoryImpl implements VideoRepository for PostgreSQL
type VideoRepositoryImpl struct {
	db *sqlx.DB
}

// NewVideoRepository creates a new PostgreSQL video repository
func NewVideoRepository(db *sqlx.DB) ports.VideoRepository {
	return &VideoRepositoryImpl{db: db}
}

const videoColumns = `
	id, tiktok_id, video_url, creator_username, creator_id,
	COALESCE(topics, '[]'::jsonb) AS topics,
	COALESCE(categories, '[]'::jsonb) AS categories,
	COALESCE(difficulty_level, '{}'::jsonb) AS difficulty_level,
	transcribe_status, tag_status, tagged_at, tagging_model_used,
	tagging_time, failure_count, created_at, updated_at`

// GetVideoByID retrieves a single video with its denormalized tag columns
func (r *VideoRepositoryImpl) GetVideoByID(ctx context.Context, videoID uuid.UUID) (*models.Video, error) {
	var video models.Video
	err := r.db.GetContext(ctx, &video,
		`SELECT `+videoColumns+` FROM videos WHERE id = $1`, videoID)
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// ListPendingTagging returns transcribed videos whose tag_status is pending
func (r *VideoRepositoryImpl) ListPendingTagging(ctx context.Context, limit int) ([]*models.Video, error) {
	var videos []*models.Video
	err := r.db.SelectContext(ctx, &videos,
		`SELECT `+videoColumns+` FROM videos
		 WHERE transcribe_status = $1 AND tag_status = $2
		 ORDER BY created_at
		 LIMIT $3`,
		models.TranscribeStatusDone, models.TagStatusPending, limit)
	return videos, err
}

// ListTagged returns videos whose tag_status is done, paginated by offset
func (r *VideoRepositoryImpl) ListTagged(ctx context.Context, limit, offset int) ([]*models.Video, error) {
	var videos []*models.Video
	err := r.db.SelectContext(ctx, &videos,
		`SELECT `+videoColumns+` FROM videos
		 WHERE tag_status = $1
		 ORDER BY created_at
		 LIMIT $2 OFFSET $3`,
		models.TagStatusDone, limit, offset)
	return videos, err
}

// GetTranscript fetches the transcript text for a video
func (r *VideoRepositoryImpl) GetTranscript(ctx context.Context, videoID uuid.UUID) (string, error) {
	var transcript string
	err := r.db.GetContext(ctx, &transcript,
		`SELECT transcript FROM transcripts WHERE video_id = $1`, videoID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("no transcript found for video %s", videoID)
	}
	return transcript, err
}

// marshalTagArray marshals a tag slice, treating nil as an empty array.
// A model response that omits the field would otherwise store JSON null,
// which the backfill unnests cannot handle.
func marshalTagArray[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}

// ApplyTagResult writes a tagging result onto the video's JSONB columns
func (r *VideoRepositoryImpl) ApplyTagResult(ctx context.Context, videoID uuid.UUID, result *models.TagResult, modelUsed string, taggingTime float64) error {
	topics, err := marshalTagArray(result.Topics)
	if err != nil {
		return fmt.Errorf("failed to marshal topics: %w", err)
	}
	categories, err := marshalTagArray(result.Categories)
	if err != nil {
		return fmt.Errorf("failed to marshal categories: %w", err)
	}
	difficulty, err := json.Marshal(result.DifficultyLevel)
	if err != nil {
		return fmt.Errorf("failed to marshal difficulty: %w", err)
	}
	engagement, err := json.Marshal(result.EngagementMetrics)
	if err != nil {
		return fmt.Errorf("failed to marshal engagement metrics: %w", err)
	}
	flags, err := json.Marshal(result.ContentFlags)
	if err != nil {
		return fmt.Errorf("failed to marshal content flags: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE videos SET
			topics = $2,
			categories = $3,
			difficulty_level = $4,
			predictive_engagement = $5,
			content_flags = $6,
			tag_status = $7,
			tagged_at = $8,
			tagging_model_used = $9,
			tagging_time = $10,
			processing_errors = NULL,
			updated_at = NOW()
		WHERE id = $1`,
		videoID, topics, categories, difficulty, engagement, flags,
		models.TagStatusDone, time.Now().UTC(), modelUsed, taggingTime)
	return err
}

// MarkTaggingError records a tagging failure and bumps failure_count
func (r *VideoRepositoryImpl) MarkTaggingError(ctx context.Context, videoID uuid.UUID, modelUsed string, cause error) error {
	detail, err := json.Marshal(map[string]string{"tagging": cause.Error()})
	if err != nil {
		return fmt.Errorf("failed to marshal error detail: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE videos SET
			tag_status = $2,
			failure_count = failure_count + 1,
			processing_errors = $3,
			tagging_model_used = $4,
			tagging_time = NULL,
			updated_at = NOW()
		WHERE id = $1`,
		videoID, models.TagStatusError, detail, modelUsed)
	return err
}
