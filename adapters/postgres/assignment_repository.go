package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/unseriousprof/edgi-vid-library/models"
	"github.com/unseriousprof/edgi-vid-library/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// AssignmentRepositoryImpl implements AssignmentRepository for PostgreSQL
type AssignmentRepositoryImpl struct {
	db *sqlx.DB
}

// NewAssignmentRepository creates a new PostgreSQL assignment repository
func NewAssignmentRepository(db *sqlx.DB) ports.AssignmentRepository {
	return &AssignmentRepositoryImpl{db: db}
}

// TopicsForVideo returns the unnested topic rows for one video
func (r *AssignmentRepositoryImpl) TopicsForVideo(ctx context.Context, videoID uuid.UUID) ([]*models.TopicAssignment, error) {
	var rows []*models.TopicAssignment
	err := r.db.SelectContext(ctx, &rows,
		`SELECT id, video_id, topic, confidence
		 FROM video_topics
		 WHERE video_id = $1
		 ORDER BY confidence DESC`, videoID)
	return rows, err
}

// CategoriesForVideo returns the unnested category rows for one video
func (r *AssignmentRepositoryImpl) CategoriesForVideo(ctx context.Context, videoID uuid.UUID) ([]*models.CategoryAssignment, error) {
	var rows []*models.CategoryAssignment
	err := r.db.SelectContext(ctx, &rows,
		`SELECT id, video_id, category, confidence
		 FROM video_categories
		 WHERE video_id = $1
		 ORDER BY confidence DESC`, videoID)
	return rows, err
}

// DifficultyForVideo returns the at-most-one difficulty row, nil when the
// video carried no difficulty judgment
func (r *AssignmentRepositoryImpl) DifficultyForVideo(ctx context.Context, videoID uuid.UUID) (*models.DifficultyAssignment, error) {
	var row models.DifficultyAssignment
	err := r.db.GetContext(ctx, &row,
		`SELECT id, video_id, level, confidence
		 FROM video_difficulty
		 WHERE video_id = $1`, videoID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// VideosByTopic finds videos by topic label above a confidence floor,
// served by the (topic, confidence DESC) index
func (r *AssignmentRepositoryImpl) VideosByTopic(ctx context.Context, filter ports.AssignmentFilter) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids,
		`SELECT video_id FROM video_topics
		 WHERE topic = $1 AND confidence >= $2
		 ORDER BY confidence DESC
		 LIMIT $3`,
		filter.Label, filter.MinConfidence, queryLimit(filter.Limit))
	return ids, err
}

// VideosByCategory finds videos by category label above a confidence floor
func (r *AssignmentRepositoryImpl) VideosByCategory(ctx context.Context, filter ports.AssignmentFilter) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids,
		`SELECT video_id FROM video_categories
		 WHERE category = $1 AND confidence >= $2
		 ORDER BY confidence DESC
		 LIMIT $3`,
		filter.Label, filter.MinConfidence, queryLimit(filter.Limit))
	return ids, err
}

// assignmentTables whitelists the tables ConfidencesForTable may touch;
// the table name is interpolated, never bound.
var assignmentTables = map[string]bool{
	"video_topics":     true,
	"video_categories": true,
	"video_difficulty": true,
}

// ConfidencesForTable pulls every confidence score from one assignment
// table for distribution reporting
func (r *AssignmentRepositoryImpl) ConfidencesForTable(ctx context.Context, table string) ([]float64, error) {
	if !assignmentTables[table] {
		return nil, fmt.Errorf("unknown assignment table %q", table)
	}
	var confidences []float64
	err := r.db.SelectContext(ctx, &confidences,
		fmt.Sprintf(`SELECT confidence FROM %s`, table))
	return confidences, err
}

func queryLimit(limit int) int {
	if limit <= 0 {
		return 100
	}
	return limit
}
