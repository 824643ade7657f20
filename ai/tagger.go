package ai

import (
	"context"
	"strings"

	"github.com/unseriousprof/edgi-vid-library/internal"
	"github.com/unseriousprof/edgi-vid-library/internal/errors"
	"github.com/unseriousprof/edgi-vid-library/models"
	"github.com/unseriousprof/edgi-vid-library/ports"
)

// defaultMinTranscript is the shortest transcript worth sending to the
// model; anything shorter gets the insufficient_transcript sentinel.
const defaultMinTranscript = 20

const tagPromptName = "tag_transcript"

// Tagger extracts structured tag metadata from transcripts via the LLM
type Tagger struct {
	client        *StructuredClient[models.TagResult]
	minTranscript int
	logger        *internal.Logger
}

// NewTagger creates a transcript tagger. minTranscript <= 0 falls back
// to the default threshold.
func NewTagger(config *models.AIConfig, minTranscript int, logger *internal.Logger) ports.TranscriptTagger {
	if minTranscript <= 0 {
		minTranscript = defaultMinTranscript
	}
	return &Tagger{
		client:        NewStructuredClient[models.TagResult](config),
		minTranscript: minTranscript,
		logger:        logger,
	}
}

// TagTranscript tags one transcript. Transcripts too short to carry any
// educational signal are short-circuited to the sentinel result without a
// model call.
func (t *Tagger) TagTranscript(ctx context.Context, transcript string) (*models.TagResult, error) {
	trimmed := strings.TrimSpace(transcript)
	if len(trimmed) < t.minTranscript {
		t.logger.Info("Transcript too short to tag (%d chars), using sentinel", len(trimmed))
		return models.InsufficientTranscriptResult(), nil
	}

	result, err := t.client.GetJsonResponseFromPrompt(ctx, tagPromptName, map[string]string{
		"TRANSCRIPT": trimmed,
	})
	if err != nil {
		return nil, errors.Wrap(err, "transcript tagging failed")
	}

	if clamped := result.ClampConfidences(); len(clamped) > 0 {
		t.logger.Warn("Clamped out-of-range confidences: %s", strings.Join(clamped, ", "))
	}
	return result, nil
}
