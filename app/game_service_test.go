package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/unseriousprof/edgi-vid-library/internal"
	"github.com/unseriousprof/edgi-vid-library/internal/config"
	"github.com/unseriousprof/edgi-vid-library/models"

	"github.com/google/uuid"
)

type memGameRepo struct {
	eligible []uuid.UUID
	stored   map[uuid.UUID]*models.GamePayload
}

func (m *memGameRepo) UpsertGame(ctx context.Context, id uuid.UUID, p *models.GamePayload) error {
	if m.stored == nil {
		m.stored = make(map[uuid.UUID]*models.GamePayload)
	}
	m.stored[id] = p
	return nil
}

func (m *memGameRepo) GetGame(ctx context.Context, id uuid.UUID) (*models.MiniGame, error) {
	return nil, fmt.Errorf("not stored")
}

func (m *memGameRepo) ListEligibleVideos(ctx context.Context, threshold float64, limit int) ([]uuid.UUID, error) {
	if limit < len(m.eligible) {
		return m.eligible[:limit], nil
	}
	return m.eligible, nil
}

type scriptedDrafter struct {
	fail map[string]bool
}

func (d *scriptedDrafter) DraftGame(ctx context.Context, transcript string) (*models.GamePayload, error) {
	if d.fail[transcript] {
		return nil, fmt.Errorf("model error")
	}
	return &models.GamePayload{
		ShouldGenerateGame: true,
		ConceptPool:        []string{"photosynthesis"},
		GameChoices:        []string{models.GameTFSet},
		TFSet: []models.TFItem{{
			Statement:  "Plants convert sunlight into energy.",
			Answer:     true,
			Source:     models.GameSourceTranscript,
			Difficulty: models.GameDifficultyEasy,
		}},
	}, nil
}

func TestGameServiceRun(t *testing.T) {
	repo := newMemVideoRepo()
	ok := repo.add("plants convert sunlight into chemical energy")
	broken := repo.add("this transcript makes the model choke")

	games := &memGameRepo{eligible: []uuid.UUID{ok, broken}}
	drafter := &scriptedDrafter{fail: map[string]bool{
		"this transcript makes the model choke": true,
	}}

	svc := NewGameService(repo, games, drafter, config.GamesConfig{SampleSize: 10, EduThreshold: 0.4},
		internal.NewLogger(internal.LogLevelError))

	stats, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.Processed != 2 || stats.Succeeded != 1 || stats.Failed != 1 {
		t.Errorf("stats = %+v, want 2/1/1", stats)
	}
	if games.stored[ok] == nil {
		t.Error("eligible video did not get a game")
	}
	if games.stored[broken] != nil {
		t.Error("failed draft should not be stored")
	}
}

func TestGameServiceRespectsSampleSize(t *testing.T) {
	repo := newMemVideoRepo()
	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		ids = append(ids, repo.add("plants convert sunlight into chemical energy"))
	}

	games := &memGameRepo{eligible: ids}
	svc := NewGameService(repo, games, &scriptedDrafter{}, config.GamesConfig{SampleSize: 3, EduThreshold: 0.4},
		internal.NewLogger(internal.LogLevelError))

	stats, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Processed != 3 {
		t.Errorf("processed = %d, want 3", stats.Processed)
	}
}
