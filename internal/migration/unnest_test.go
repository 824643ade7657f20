package migration

import (
	"testing"

	"github.com/unseriousprof/edgi-vid-library/models"

	"github.com/google/uuid"
)

func TestTopicAssignments_OneRowPerElement(t *testing.T) {
	video := &models.Video{
		ID: uuid.New(),
		Topics: models.TopicTags{
			{Topic: "biology", Confidence: 0.87},
			{Topic: "genetics", Confidence: 0.65},
		},
	}

	rows, err := TopicAssignments(video)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Topic != "biology" || rows[0].Confidence != 0.87 {
		t.Errorf("first row mismatch: %+v", rows[0])
	}
	if rows[1].Topic != "genetics" || rows[1].Confidence != 0.65 {
		t.Errorf("second row mismatch: %+v", rows[1])
	}
	for _, r := range rows {
		if r.VideoID != video.ID {
			t.Errorf("row not linked to source video: %+v", r)
		}
	}
}

func TestTopicAssignments_EmptyAndNil(t *testing.T) {
	for name, topics := range map[string]models.TopicTags{
		"nil":   nil,
		"empty": {},
	} {
		rows, err := TopicAssignments(&models.Video{ID: uuid.New(), Topics: topics})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if len(rows) != 0 {
			t.Errorf("%s: expected no rows, got %d", name, len(rows))
		}
	}
}

func TestTopicAssignments_BoundaryConfidences(t *testing.T) {
	// Exact 0 and 1 are valid producer outputs, not missing-score markers.
	video := &models.Video{
		ID: uuid.New(),
		Topics: models.TopicTags{
			{Topic: "zero", Confidence: 0},
			{Topic: "one", Confidence: 1},
		},
	}
	rows, err := TopicAssignments(video)
	if err != nil {
		t.Fatalf("boundary confidences rejected: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
}

func TestTopicAssignments_OutOfBoundsConfidence(t *testing.T) {
	for _, bad := range []float64{-0.01, 1.2} {
		video := &models.Video{
			ID:     uuid.New(),
			Topics: models.TopicTags{{Topic: "physics", Confidence: bad}},
		}
		if _, err := TopicAssignments(video); err == nil {
			t.Errorf("confidence %v should have been rejected", bad)
		}
	}
}

func TestCategoryAssignments_RoundTripCount(t *testing.T) {
	videos := []*models.Video{
		{ID: uuid.New(), Categories: models.CategoryTags{{Tag: "science", Confidence: 0.9}}},
		{ID: uuid.New(), Categories: models.CategoryTags{
			{Tag: "history", Confidence: 0.8},
			{Tag: "philosophy", Confidence: 0.4},
			{Tag: "economics", Confidence: 0.3},
		}},
		{ID: uuid.New()},
	}

	total := 0
	for _, v := range videos {
		rows, err := CategoryAssignments(v)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(rows) != len(v.Categories) {
			t.Errorf("video %s: %d source elements but %d rows", v.ID, len(v.Categories), len(rows))
		}
		total += len(rows)
	}
	if total != 4 {
		t.Errorf("expected 4 total rows across videos, got %d", total)
	}
}

func TestDifficultyAssignment(t *testing.T) {
	tests := []struct {
		name       string
		difficulty models.DifficultyTag
		wantRow    bool
		wantLevel  models.DifficultyLevel
		wantErr    bool
	}{
		{
			name:       "beginner with confidence",
			difficulty: models.DifficultyTag{Level: "beginner", Confidence: 0.75},
			wantRow:    true,
			wantLevel:  models.DifficultyBeginner,
		},
		{
			name:       "advanced at boundary",
			difficulty: models.DifficultyTag{Level: "advanced", Confidence: 1.0},
			wantRow:    true,
			wantLevel:  models.DifficultyAdvanced,
		},
		{
			name:       "empty object skipped, not an error",
			difficulty: models.DifficultyTag{},
			wantRow:    false,
		},
		{
			name:       "unknown level is a cast failure",
			difficulty: models.DifficultyTag{Level: "expert", Confidence: 0.5},
			wantErr:    true,
		},
		{
			name:       "out of bounds confidence",
			difficulty: models.DifficultyTag{Level: "intermediate", Confidence: 1.5},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, err := DifficultyAssignment(&models.Video{ID: uuid.New(), Difficulty: tt.difficulty})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantRow && row == nil {
				t.Fatal("expected a row")
			}
			if !tt.wantRow && row != nil {
				t.Fatalf("expected no row, got %+v", row)
			}
			if tt.wantRow && row.Level != tt.wantLevel {
				t.Errorf("level = %s, want %s", row.Level, tt.wantLevel)
			}
		})
	}
}

func TestDedupeCreators(t *testing.T) {
	videos := []*models.Video{
		{ID: uuid.New(), CreatorUsername: "sciencefacts"},
		{ID: uuid.New(), CreatorUsername: "sciencefacts"},
		{ID: uuid.New(), CreatorUsername: "historybuff"},
	}

	creators := DedupeCreators(videos)
	if len(creators) != 2 {
		t.Fatalf("expected 2 distinct creators, got %d", len(creators))
	}

	byName := make(map[string]models.Creator)
	for _, c := range creators {
		byName[c.Username] = c
	}
	if got := byName["sciencefacts"].UsernameLength; got != 12 {
		t.Errorf("sciencefacts length = %d, want 12", got)
	}
	if got := byName["historybuff"].UsernameLength; got != 11 {
		t.Errorf("historybuff length = %d, want 11", got)
	}
}
