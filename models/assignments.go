package models

import (
	"fmt"

	"github.com/google/uuid"
)

// DifficultyLevel is the closed enumeration backing the difficulty_level
// postgres enum type.
type DifficultyLevel string

const (
	DifficultyBeginner     DifficultyLevel = "beginner"
	DifficultyIntermediate DifficultyLevel = "intermediate"
	DifficultyAdvanced     DifficultyLevel = "advanced"
)

// ParseDifficultyLevel validates a raw level string from source JSON.
func ParseDifficultyLevel(s string) (DifficultyLevel, error) {
	switch DifficultyLevel(s) {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return DifficultyLevel(s), nil
	}
	return "", fmt.Errorf("unknown difficulty level %q", s)
}

// ValidConfidence reports whether a confidence score is inside the
// storage bound [0, 1]. Exact 0 and 1 are valid producer outputs.
func ValidConfidence(c float64) bool {
	return c >= 0 && c <= 1
}

// TopicAssignment is a row of video_topics: one unnested topic tag.
type TopicAssignment struct {
	ID         uuid.UUID `db:"id" json:"id"`
	VideoID    uuid.UUID `db:"video_id" json:"video_id"`
	Topic      string    `db:"topic" json:"topic"`
	Confidence float64   `db:"confidence" json:"confidence"`
}

// CategoryAssignment is a row of video_categories.
type CategoryAssignment struct {
	ID         uuid.UUID `db:"id" json:"id"`
	VideoID    uuid.UUID `db:"video_id" json:"video_id"`
	Category   string    `db:"category" json:"category"`
	Confidence float64   `db:"confidence" json:"confidence"`
}

// DifficultyAssignment is a row of video_difficulty, at most one per video.
type DifficultyAssignment struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	VideoID    uuid.UUID       `db:"video_id" json:"video_id"`
	Level      DifficultyLevel `db:"level" json:"level"`
	Confidence float64         `db:"confidence" json:"confidence"`
}

// Creator is a deduplicated creator row; UsernameLength is derived from
// the username at creation time.
type Creator struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	UsernameLength int       `db:"username_length" json:"username_length"`
}
