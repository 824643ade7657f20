package models

import "testing"

func TestClampConfidences(t *testing.T) {
	r := &TagResult{
		Categories: []CategoryTag{
			{Tag: "science", Confidence: 1.3},
			{Tag: "biology", Confidence: 0.9},
		},
		Topics:          []TopicTag{{Topic: "photosynthesis", Confidence: -0.2}},
		DifficultyLevel: DifficultyTag{Level: "beginner", Confidence: 0.5},
	}

	clamped := r.ClampConfidences()
	if len(clamped) != 2 {
		t.Fatalf("expected 2 clamped labels, got %d: %v", len(clamped), clamped)
	}
	if r.Categories[0].Confidence != 1 {
		t.Errorf("over-range confidence should clamp to 1, got %v", r.Categories[0].Confidence)
	}
	if r.Categories[1].Confidence != 0.9 {
		t.Errorf("in-range confidence should be untouched, got %v", r.Categories[1].Confidence)
	}
	if r.Topics[0].Confidence != 0 {
		t.Errorf("under-range confidence should clamp to 0, got %v", r.Topics[0].Confidence)
	}
	if r.DifficultyLevel.Confidence != 0.5 {
		t.Errorf("difficulty confidence should be untouched, got %v", r.DifficultyLevel.Confidence)
	}
}

func TestInsufficientTranscriptResult(t *testing.T) {
	r := InsufficientTranscriptResult()

	if len(r.Topics) != 1 || r.Topics[0].Topic != LabelInsufficientTranscript {
		t.Errorf("unexpected topics: %+v", r.Topics)
	}
	if len(r.Categories) != 1 || r.Categories[0].Tag != LabelInsufficientTranscript {
		t.Errorf("unexpected categories: %+v", r.Categories)
	}
	if r.DifficultyLevel.Level != "" {
		t.Errorf("sentinel should carry no difficulty judgment, got %+v", r.DifficultyLevel)
	}
}

func TestParseDifficultyLevel(t *testing.T) {
	for _, valid := range []string{"beginner", "intermediate", "advanced"} {
		if _, err := ParseDifficultyLevel(valid); err != nil {
			t.Errorf("%s should parse: %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "expert", "Beginner"} {
		if _, err := ParseDifficultyLevel(invalid); err == nil {
			t.Errorf("%q should be rejected", invalid)
		}
	}
}
