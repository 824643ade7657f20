package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Tag pipeline statuses for a video.
const (
	TagStatusPending = "pending"
	TagStatusDone    = "done"
	TagStatusError   = "error"

	TranscribeStatusDone = "done"
)

// Sentinel labels the tagger emits instead of real tags.
const (
	LabelNotEducational         = "not_educational"
	LabelInsufficientTranscript = "insufficient_transcript"
)

// TopicTag is one element of the videos.topics JSONB array.
type TopicTag struct {
	Topic      string  `json:"topic"`
	Confidence float64 `json:"confidence"`
}

// CategoryTag is one element of the videos.categories JSONB array.
type CategoryTag struct {
	Tag        string  `json:"tag"`
	Confidence float64 `json:"confidence"`
}

// DifficultyTag is the videos.difficulty_level JSONB object. An empty
// object (no level) means the tagger declined to judge difficulty.
type DifficultyTag struct {
	Level      string  `json:"level,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// TopicTags implements sql Scanner/Valuer for the JSONB topics column.
type TopicTags []TopicTag

// CategoryTags implements sql Scanner/Valuer for the JSONB categories column.
type CategoryTags []CategoryTag

func (t *TopicTags) Scan(src interface{}) error      { return scanJSON(src, t) }
func (t TopicTags) Value() (driver.Value, error)     { return json.Marshal(t) }
func (c *CategoryTags) Scan(src interface{}) error   { return scanJSON(src, c) }
func (c CategoryTags) Value() (driver.Value, error)  { return json.Marshal(c) }
func (d *DifficultyTag) Scan(src interface{}) error  { return scanJSON(src, d) }
func (d DifficultyTag) Value() (driver.Value, error) { return json.Marshal(d) }

func scanJSON(src, dst interface{}) error {
	if src == nil {
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("cannot scan %T into JSON column", src)
	}
}

// Video is a row of the denormalized videos table. The JSONB tag columns
// are the pre-migration shape; after the creators migration CreatorID is
// populated and creator_username becomes a legacy copy.
type Video struct {
	ID              uuid.UUID     `db:"id" json:"id"`
	TikTokID        string        `db:"tiktok_id" json:"tiktok_id"`
	VideoURL        string        `db:"video_url" json:"video_url"`
	CreatorUsername string        `db:"creator_username" json:"creator_username"`
	CreatorID       *uuid.UUID    `db:"creator_id" json:"creator_id,omitempty"`
	Topics          TopicTags     `db:"topics" json:"topics"`
	Categories      CategoryTags  `db:"categories" json:"categories"`
	Difficulty      DifficultyTag `db:"difficulty_level" json:"difficulty_level"`

	TranscribeStatus string     `db:"transcribe_status" json:"transcribe_status"`
	TagStatus        string     `db:"tag_status" json:"tag_status"`
	TaggedAt         *time.Time `db:"tagged_at" json:"tagged_at,omitempty"`
	TaggingModelUsed *string    `db:"tagging_model_used" json:"tagging_model_used,omitempty"`
	TaggingTime      *float64   `db:"tagging_time" json:"tagging_time,omitempty"`
	FailureCount     int        `db:"failure_count" json:"failure_count"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Transcript is a row of the transcripts table, one per video.
type Transcript struct {
	VideoID    uuid.UUID `db:"video_id" json:"video_id"`
	Transcript string    `db:"transcript" json:"transcript"`
}
