package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Game item provenance and difficulty enumerations, fixed by the LLM
// response contract.
const (
	GameSourceTranscript = "transcript"
	GameSourceAdjacent   = "adjacent"

	GameDifficultyEasy   = "easy"
	GameDifficultyMedium = "medium"
	GameDifficultyHard   = "hard"
)

// Game block names accepted in game_choices.
const (
	GameOneCloze = "one_cloze"
	GameOneMCQ   = "one_mcq"
	GameClozeSet = "cloze_set"
	GameMCQSet   = "mcq_set"
	GameTFSet    = "tf_set"
)

// ClozeItem is a fill-in-the-blank question.
type ClozeItem struct {
	Sentence   string `json:"sentence"`
	Answer     string `json:"answer"`
	Source     string `json:"source"`
	Difficulty string `json:"difficulty"`
}

// MCQItem is a multiple-choice question; Answer must be one of Options.
type MCQItem struct {
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	Answer     string   `json:"answer"`
	Source     string   `json:"source"`
	Difficulty string   `json:"difficulty"`
}

// TFItem is a true/false statement.
type TFItem struct {
	Statement  string `json:"statement"`
	Answer     bool   `json:"answer"`
	Source     string `json:"source"`
	Difficulty string `json:"difficulty"`
}

// GamePayload is the fixed JSON object the game-drafting model returns.
// Exactly the blocks named in GameChoices are populated.
type GamePayload struct {
	ShouldGenerateGame bool     `json:"should_generate_game"`
	SkipReason         string   `json:"skip_reason"`
	ConceptPool        []string `json:"concept_pool"`
	GameChoices        []string `json:"game_choices"`

	OneCloze *ClozeItem  `json:"one_cloze,omitempty"`
	OneMCQ   *MCQItem    `json:"one_mcq,omitempty"`
	ClozeSet []ClozeItem `json:"cloze_set,omitempty"`
	MCQSet   []MCQItem   `json:"mcq_set,omitempty"`
	TFSet    []TFItem    `json:"tf_set,omitempty"`
}

// Validate enforces the response contract before the payload is stored.
func (p *GamePayload) Validate() error {
	if !p.ShouldGenerateGame {
		if p.SkipReason == "" {
			return fmt.Errorf("skipped game must carry a skip_reason")
		}
		return nil
	}
	if len(p.GameChoices) == 0 {
		return fmt.Errorf("game_choices is empty for a generated game")
	}
	for _, choice := range p.GameChoices {
		populated, err := p.blockPopulated(choice)
		if err != nil {
			return err
		}
		if !populated {
			return fmt.Errorf("game_choices names %s but the block is empty", choice)
		}
	}
	for _, item := range p.clozeItems() {
		if err := validateSourceDifficulty(item.Source, item.Difficulty); err != nil {
			return fmt.Errorf("cloze %q: %w", item.Sentence, err)
		}
	}
	for _, item := range p.mcqItems() {
		if err := validateSourceDifficulty(item.Source, item.Difficulty); err != nil {
			return fmt.Errorf("mcq %q: %w", item.Question, err)
		}
		if !containsString(item.Options, item.Answer) {
			return fmt.Errorf("mcq %q: answer %q not among options", item.Question, item.Answer)
		}
	}
	for _, item := range p.TFSet {
		if err := validateSourceDifficulty(item.Source, item.Difficulty); err != nil {
			return fmt.Errorf("tf %q: %w", item.Statement, err)
		}
	}
	return nil
}

func (p *GamePayload) blockPopulated(choice string) (bool, error) {
	switch choice {
	case GameOneCloze:
		return p.OneCloze != nil, nil
	case GameOneMCQ:
		return p.OneMCQ != nil, nil
	case GameClozeSet:
		return len(p.ClozeSet) > 0, nil
	case GameMCQSet:
		return len(p.MCQSet) > 0, nil
	case GameTFSet:
		return len(p.TFSet) > 0, nil
	default:
		return false, fmt.Errorf("unknown game choice %q", choice)
	}
}

func (p *GamePayload) clozeItems() []ClozeItem {
	items := append([]ClozeItem{}, p.ClozeSet...)
	if p.OneCloze != nil {
		items = append(items, *p.OneCloze)
	}
	return items
}

func (p *GamePayload) mcqItems() []MCQItem {
	items := append([]MCQItem{}, p.MCQSet...)
	if p.OneMCQ != nil {
		items = append(items, *p.OneMCQ)
	}
	return items
}

func validateSourceDifficulty(source, difficulty string) error {
	switch source {
	case GameSourceTranscript, GameSourceAdjacent:
	default:
		return fmt.Errorf("unknown source %q", source)
	}
	switch difficulty {
	case GameDifficultyEasy, GameDifficultyMedium, GameDifficultyHard:
	default:
		return fmt.Errorf("unknown difficulty %q", difficulty)
	}
	return nil
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

// MiniGame is a stored game payload keyed by video.
type MiniGame struct {
	VideoID   uuid.UUID   `db:"video_id" json:"video_id"`
	Payload   GamePayload `json:"payload"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"`
}
