package models

import "fmt"

// OnboardingCategoryTag maps a video to one of the predefined onboarding
// categories shown during user signup.
type OnboardingCategoryTag struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// EngagementMetrics are the predicted 0-1 engagement scores for a transcript.
type EngagementMetrics struct {
	AttentionGrabbing  float64 `json:"attention_grabbing"`
	EducationalValue   float64 `json:"educational_value"`
	EntertainmentValue float64 `json:"entertainment_value"`
}

// ContentFlag marks potentially sensitive content with a confidence score.
type ContentFlag struct {
	Flag       string  `json:"flag"`
	Confidence float64 `json:"confidence"`
}

// TagResult is the structured tagging response for a single transcript.
type TagResult struct {
	Categories           []CategoryTag           `json:"categories"`
	Topics               []TopicTag              `json:"topics"`
	OnboardingCategories []OnboardingCategoryTag `json:"onboarding_categories"`
	DifficultyLevel      DifficultyTag           `json:"difficulty_level"`
	EngagementMetrics    *EngagementMetrics      `json:"engagement_metrics,omitempty"`
	ContentFlags         []ContentFlag           `json:"content_flags"`
}

// ClampConfidences forces every confidence score into [0, 1] and returns
// the labels that were out of bounds, for logging.
func (r *TagResult) ClampConfidences() []string {
	var clamped []string
	for i := range r.Categories {
		if !ValidConfidence(r.Categories[i].Confidence) {
			clamped = append(clamped, fmt.Sprintf("category %q", r.Categories[i].Tag))
			r.Categories[i].Confidence = clamp01(r.Categories[i].Confidence)
		}
	}
	for i := range r.Topics {
		if !ValidConfidence(r.Topics[i].Confidence) {
			clamped = append(clamped, fmt.Sprintf("topic %q", r.Topics[i].Topic))
			r.Topics[i].Confidence = clamp01(r.Topics[i].Confidence)
		}
	}
	for i := range r.OnboardingCategories {
		if !ValidConfidence(r.OnboardingCategories[i].Confidence) {
			clamped = append(clamped, fmt.Sprintf("onboarding category %q", r.OnboardingCategories[i].Category))
			r.OnboardingCategories[i].Confidence = clamp01(r.OnboardingCategories[i].Confidence)
		}
	}
	if r.DifficultyLevel.Level != "" && !ValidConfidence(r.DifficultyLevel.Confidence) {
		clamped = append(clamped, "difficulty level")
		r.DifficultyLevel.Confidence = clamp01(r.DifficultyLevel.Confidence)
	}
	for i := range r.ContentFlags {
		if !ValidConfidence(r.ContentFlags[i].Confidence) {
			clamped = append(clamped, fmt.Sprintf("content flag %q", r.ContentFlags[i].Flag))
			r.ContentFlags[i].Confidence = clamp01(r.ContentFlags[i].Confidence)
		}
	}
	return clamped
}

// InsufficientTranscriptResult is the canonical result for transcripts too
// short or vague to tag, written without calling the model.
func InsufficientTranscriptResult() *TagResult {
	return &TagResult{
		Categories:           []CategoryTag{{Tag: LabelInsufficientTranscript, Confidence: 1.0}},
		Topics:               []TopicTag{{Topic: LabelInsufficientTranscript, Confidence: 1.0}},
		OnboardingCategories: []OnboardingCategoryTag{{Category: LabelInsufficientTranscript, Confidence: 1.0}},
		DifficultyLevel:      DifficultyTag{},
		ContentFlags:         []ContentFlag{},
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
