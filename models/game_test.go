package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPayload() *GamePayload {
	return &GamePayload{
		ShouldGenerateGame: true,
		ConceptPool:        []string{"photosynthesis", "chlorophyll"},
		GameChoices:        []string{GameOneMCQ, GameTFSet},
		OneMCQ: &MCQItem{
			Question:   "What pigment absorbs light in plants?",
			Options:    []string{"Chlorophyll", "Hemoglobin", "Keratin"},
			Answer:     "Chlorophyll",
			Source:     GameSourceTranscript,
			Difficulty: GameDifficultyEasy,
		},
		TFSet: []TFItem{{
			Statement:  "Photosynthesis produces oxygen.",
			Answer:     true,
			Source:     GameSourceTranscript,
			Difficulty: GameDifficultyMedium,
		}},
	}
}

func TestGamePayloadValidate(t *testing.T) {
	require.NoError(t, validPayload().Validate())
}

func TestGamePayloadSkipRequiresReason(t *testing.T) {
	p := &GamePayload{ShouldGenerateGame: false}
	assert.Error(t, p.Validate())

	p.SkipReason = "transcript has no testable facts"
	assert.NoError(t, p.Validate())
}

func TestGamePayloadNamedBlockMustBePopulated(t *testing.T) {
	p := validPayload()
	p.TFSet = nil
	assert.Error(t, p.Validate(), "game_choices names tf_set but the block is empty")
}

func TestGamePayloadRejectsUnknownChoice(t *testing.T) {
	p := validPayload()
	p.GameChoices = append(p.GameChoices, "word_search")
	assert.Error(t, p.Validate())
}

func TestGamePayloadMCQAnswerMustBeAnOption(t *testing.T) {
	p := validPayload()
	p.OneMCQ.Answer = "Melanin"
	assert.Error(t, p.Validate())
}

func TestGamePayloadRejectsBadEnums(t *testing.T) {
	p := validPayload()
	p.TFSet[0].Source = "wikipedia"
	assert.Error(t, p.Validate())

	p = validPayload()
	p.TFSet[0].Difficulty = "impossible"
	assert.Error(t, p.Validate())
}

func TestGamePayloadRequiresChoices(t *testing.T) {
	p := validPayload()
	p.GameChoices = nil
	assert.Error(t, p.Validate())
}
