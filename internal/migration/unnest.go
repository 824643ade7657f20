package migration

import (
	"fmt"
	"sort"

	"github.com/unseriousprof/edgi-vid-library/internal/errors"
	"github.com/unseriousprof/edgi-vid-library/models"
)

// This file is the pure, in-memory mirror of the SQL backfills. The
// verification report replays the unnest over the source JSON and compares
// the result to the normalized tables; tests exercise the expansion
// semantics without a database.

// TopicAssignments expands a video's topics array into one assignment per
// element. The expansion is order-independent and has no hidden state.
func TopicAssignments(v *models.Video) ([]models.TopicAssignment, error) {
	out := make([]models.TopicAssignment, 0, len(v.Topics))
	for _, tag := range v.Topics {
		if !models.ValidConfidence(tag.Confidence) {
			return nil, errors.CastFailure(
				fmt.Sprintf("video %s topic %q: confidence %v out of [0,1]", v.ID, tag.Topic, tag.Confidence), nil)
		}
		out = append(out, models.TopicAssignment{
			VideoID:    v.ID,
			Topic:      tag.Topic,
			Confidence: tag.Confidence,
		})
	}
	return out, nil
}

// CategoryAssignments expands a video's categories array.
func CategoryAssignments(v *models.Video) ([]models.CategoryAssignment, error) {
	out := make([]models.CategoryAssignment, 0, len(v.Categories))
	for _, tag := range v.Categories {
		if !models.ValidConfidence(tag.Confidence) {
			return nil, errors.CastFailure(
				fmt.Sprintf("video %s category %q: confidence %v out of [0,1]", v.ID, tag.Tag, tag.Confidence), nil)
		}
		out = append(out, models.CategoryAssignment{
			VideoID:    v.ID,
			Category:   tag.Tag,
			Confidence: tag.Confidence,
		})
	}
	return out, nil
}

// DifficultyAssignment extracts the at-most-one difficulty row. A missing
// or empty level means the tagger made no judgment; that yields nil, not
// an error.
func DifficultyAssignment(v *models.Video) (*models.DifficultyAssignment, error) {
	if v.Difficulty.Level == "" {
		return nil, nil
	}
	level, err := models.ParseDifficultyLevel(v.Difficulty.Level)
	if err != nil {
		return nil, errors.CastFailure(fmt.Sprintf("video %s: %v", v.ID, err), nil)
	}
	if !models.ValidConfidence(v.Difficulty.Confidence) {
		return nil, errors.CastFailure(
			fmt.Sprintf("video %s difficulty: confidence %v out of [0,1]", v.ID, v.Difficulty.Confidence), nil)
	}
	return &models.DifficultyAssignment{
		VideoID:    v.ID,
		Level:      level,
		Confidence: v.Difficulty.Confidence,
	}, nil
}

// DedupeCreators collapses the videos' inline usernames into one creator
// per distinct value, with the derived length computed in runes to match
// postgres char_length semantics.
func DedupeCreators(videos []*models.Video) []models.Creator {
	seen := make(map[string]bool)
	var out []models.Creator
	for _, v := range videos {
		if seen[v.CreatorUsername] {
			continue
		}
		seen[v.CreatorUsername] = true
		out = append(out, models.Creator{
			Username:       v.CreatorUsername,
			UsernameLength: len([]rune(v.CreatorUsername)),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}
