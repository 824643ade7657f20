package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/unseriousprof/edgi-vid-library/models"
	"github.com/unseriousprof/edgi-vid-library/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// GameRepositoryImpl implements GameRepository for PostgreSQL
type GameRepositoryImpl struct {
	db *sqlx.DB
}

// NewGameRepository creates a new PostgreSQL mini-game repository
func NewGameRepository(db *sqlx.DB) ports.GameRepository {
	return &GameRepositoryImpl{db: db}
}

// UpsertGame inserts or replaces the game payload for a video. The payload
// blocks are stored as separate JSONB columns so individual game types can
// be queried without unpacking the whole object.
func (r *GameRepositoryImpl) UpsertGame(ctx context.Context, videoID uuid.UUID, payload *models.GamePayload) error {
	if err := payload.Validate(); err != nil {
		return fmt.Errorf("refusing to store invalid game payload: %w", err)
	}

	conceptPool, err := json.Marshal(payload.ConceptPool)
	if err != nil {
		return fmt.Errorf("failed to marshal concept pool: %w", err)
	}
	gameChoices, err := json.Marshal(payload.GameChoices)
	if err != nil {
		return fmt.Errorf("failed to marshal game choices: %w", err)
	}
	oneCloze, err := marshalNullable(payload.OneCloze)
	if err != nil {
		return err
	}
	oneMCQ, err := marshalNullable(payload.OneMCQ)
	if err != nil {
		return err
	}
	clozeSet, err := marshalNullableSlice(len(payload.ClozeSet), payload.ClozeSet)
	if err != nil {
		return err
	}
	mcqSet, err := marshalNullableSlice(len(payload.MCQSet), payload.MCQSet)
	if err != nil {
		return err
	}
	tfSet, err := marshalNullableSlice(len(payload.TFSet), payload.TFSet)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO mini_games (
			video_id, should_generate_game, skip_reason, concept_pool,
			game_choices, one_cloze, one_mcq, cloze_set, mcq_set, tf_set,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (video_id) DO UPDATE SET
			should_generate_game = EXCLUDED.should_generate_game,
			skip_reason = EXCLUDED.skip_reason,
			concept_pool = EXCLUDED.concept_pool,
			game_choices = EXCLUDED.game_choices,
			one_cloze = EXCLUDED.one_cloze,
			one_mcq = EXCLUDED.one_mcq,
			cloze_set = EXCLUDED.cloze_set,
			mcq_set = EXCLUDED.mcq_set,
			tf_set = EXCLUDED.tf_set,
			updated_at = NOW()`,
		videoID, payload.ShouldGenerateGame, payload.SkipReason, conceptPool,
		gameChoices, oneCloze, oneMCQ, clozeSet, mcqSet, tfSet)
	return err
}

// gameRow is the raw column shape of mini_games.
type gameRow struct {
	VideoID            uuid.UUID       `db:"video_id"`
	ShouldGenerateGame bool            `db:"should_generate_game"`
	SkipReason         string          `db:"skip_reason"`
	ConceptPool        json.RawMessage `db:"concept_pool"`
	GameChoices        json.RawMessage `db:"game_choices"`
	OneCloze           json.RawMessage `db:"one_cloze"`
	OneMCQ             json.RawMessage `db:"one_mcq"`
	ClozeSet           json.RawMessage `db:"cloze_set"`
	MCQSet             json.RawMessage `db:"mcq_set"`
	TFSet              json.RawMessage `db:"tf_set"`
	CreatedAt          time.Time       `db:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at"`
}

// GetGame retrieves the stored payload for a video
func (r *GameRepositoryImpl) GetGame(ctx context.Context, videoID uuid.UUID) (*models.MiniGame, error) {
	var row gameRow
	err := r.db.GetContext(ctx, &row, `
		SELECT video_id, should_generate_game, skip_reason, concept_pool,
		       game_choices, one_cloze, one_mcq, cloze_set, mcq_set, tf_set,
		       created_at, updated_at
		FROM mini_games WHERE video_id = $1`, videoID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no game stored for video %s", videoID)
	}
	if err != nil {
		return nil, err
	}

	game := &models.MiniGame{
		VideoID:   row.VideoID,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
		Payload: models.GamePayload{
			ShouldGenerateGame: row.ShouldGenerateGame,
			SkipReason:         row.SkipReason,
		},
	}
	for _, col := range []struct {
		raw json.RawMessage
		dst interface{}
	}{
		{row.ConceptPool, &game.Payload.ConceptPool},
		{row.GameChoices, &game.Payload.GameChoices},
		{row.OneCloze, &game.Payload.OneCloze},
		{row.OneMCQ, &game.Payload.OneMCQ},
		{row.ClozeSet, &game.Payload.ClozeSet},
		{row.MCQSet, &game.Payload.MCQSet},
		{row.TFSet, &game.Payload.TFSet},
	} {
		if len(col.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(col.raw, col.dst); err != nil {
			return nil, fmt.Errorf("corrupt game column for video %s: %w", videoID, err)
		}
	}
	return game, nil
}

// ListEligibleVideos returns tagged videos that qualify for game drafting:
// not flagged as non-educational and with a predicted educational value at
// or above the threshold.
func (r *GameRepositoryImpl) ListEligibleVideos(ctx context.Context, eduThreshold float64, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids, `
		SELECT v.id
		FROM videos v
		LEFT JOIN mini_games g ON g.video_id = v.id
		WHERE v.tag_status = $1
		  AND g.video_id IS NULL
		  AND NOT (v.categories @> $2::jsonb)
		  AND COALESCE((v.predictive_engagement->>'educational_value')::float, 0) >= $3
		ORDER BY v.created_at
		LIMIT $4`,
		models.TagStatusDone,
		fmt.Sprintf(`[{"tag": %q}]`, models.LabelNotEducational),
		eduThreshold, queryLimit(limit))
	return ids, err
}

func marshalNullable(v interface{}) (interface{}, error) {
	if v == nil || isNilPointer(v) {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal game block: %w", err)
	}
	return b, nil
}

func marshalNullableSlice(length int, v interface{}) (interface{}, error) {
	if length == 0 {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal game block: %w", err)
	}
	return b, nil
}

func isNilPointer(v interface{}) bool {
	switch t := v.(type) {
	case *models.ClozeItem:
		return t == nil
	case *models.MCQItem:
		return t == nil
	}
	return false
}
