package ports

import (
	"context"

	"github.com/unseriousprof/edgi-vid-library/models"

	"github.com/google/uuid"
)

// AssignmentFilter narrows assignment queries to a label and a minimum
// confidence; both criteria back the composite (label, confidence) indexes.
type AssignmentFilter struct {
	Label         string
	MinConfidence float64
	Limit         int
}

// AssignmentRepository exposes the normalized tag assignment tables
type AssignmentRepository interface {
	// TopicsForVideo returns all topic assignments for one video
	TopicsForVideo(ctx context.Context, videoID uuid.UUID) ([]*models.TopicAssignment, error)

	// CategoriesForVideo returns all category assignments for one video
	CategoriesForVideo(ctx context.Context, videoID uuid.UUID) ([]*models.CategoryAssignment, error)

	// DifficultyForVideo returns the difficulty assignment, or nil if the
	// source video had no difficulty judgment
	DifficultyForVideo(ctx context.Context, videoID uuid.UUID) (*models.DifficultyAssignment, error)

	// VideosByTopic finds video IDs by topic label above a confidence floor
	VideosByTopic(ctx context.Context, filter AssignmentFilter) ([]uuid.UUID, error)

	// VideosByCategory finds video IDs by category label above a confidence floor
	VideosByCategory(ctx context.Context, filter AssignmentFilter) ([]uuid.UUID, error)

	// ConfidencesForTable returns every confidence value in one assignment
	// table, for distribution reporting
	ConfidencesForTable(ctx context.Context, table string) ([]float64, error)
}
