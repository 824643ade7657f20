package migration

import (
	"context"
	"fmt"

	"github.com/unseriousprof/edgi-vid-library/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Normalization applies the migration sequence that splits the
// denormalized videos table into relational tag-assignment tables and a
// deduplicated creators table. Order matters: every step depends on the
// schema state left by the previous one, and 004 additionally depends on
// creator_username being populated.
func Normalization() []*Migration {
	return []*Migration{
		baseSchema(),
		videoTopics(),
		videoCategories(),
		videoDifficulty(),
		creators(),
	}
}

// baseSchema declares the pipeline's source tables. On an existing
// database these already exist and the statements are no-ops.
func baseSchema() *Migration {
	return &Migration{
		Version: "000",
		Name:    "base_schema",
		Phases: []Phase{
			{
				Kind: PhaseSchema,
				Name: "create source tables",
				Statements: []string{`
					CREATE TABLE IF NOT EXISTS videos (
						id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
						tiktok_id TEXT NOT NULL,
						video_url TEXT NOT NULL,
						creator_username TEXT NOT NULL,
						topics JSONB,
						categories JSONB,
						difficulty_level JSONB,
						transcribe_status TEXT NOT NULL DEFAULT 'pending',
						tag_status TEXT NOT NULL DEFAULT 'pending',
						tagged_at TIMESTAMP WITH TIME ZONE,
						tagging_model_used TEXT,
						tagging_time DOUBLE PRECISION,
						failure_count INTEGER NOT NULL DEFAULT 0,
						processing_errors JSONB,
						predictive_engagement JSONB,
						content_flags JSONB,
						created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
						updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
					)`, `
					CREATE TABLE IF NOT EXISTS transcripts (
						video_id UUID PRIMARY KEY REFERENCES videos(id) ON DELETE CASCADE,
						transcript TEXT NOT NULL,
						created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
					)`, `
					CREATE TABLE IF NOT EXISTS mini_games (
						video_id UUID PRIMARY KEY REFERENCES videos(id) ON DELETE CASCADE,
						should_generate_game BOOLEAN NOT NULL,
						skip_reason TEXT NOT NULL DEFAULT '',
						concept_pool JSONB,
						game_choices JSONB,
						one_cloze JSONB,
						one_mcq JSONB,
						cloze_set JSONB,
						mcq_set JSONB,
						tf_set JSONB,
						created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
						updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
					)`,
				},
			},
		},
	}
}

// videoTopics unnests the topics JSONB array: one assignment row per
// array element per video.
func videoTopics() *Migration {
	return &Migration{
		Version: "001",
		Name:    "video_topics",
		Phases: []Phase{
			{
				Kind: PhaseSchema,
				Name: "create video_topics",
				Statements: []string{`
					CREATE TABLE video_topics (
						id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
						video_id UUID NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
						topic TEXT NOT NULL,
						confidence DECIMAL(5,4) NOT NULL
							CHECK (confidence >= 0 AND confidence <= 1)
					)`,
				},
			},
			{
				Kind: PhaseBackfill,
				Name: "unnest topics",
				// jsonb_typeof guard: a stored JSON null passes IS NOT
				// NULL but jsonb_array_elements cannot unnest a scalar.
				Statements: []string{`
					INSERT INTO video_topics (video_id, topic, confidence)
					SELECT v.id,
					       elem->>'topic',
					       (elem->>'confidence')::DECIMAL(5,4)
					FROM videos v,
					     jsonb_array_elements(v.topics) AS elem
					WHERE jsonb_typeof(v.topics) = 'array'`,
				},
			},
			{
				Kind: PhaseIndex,
				Name: "topic query index",
				Statements: []string{`
					CREATE INDEX idx_video_topics_topic_confidence
					ON video_topics (topic, confidence DESC)`,
				},
			},
		},
	}
}

// videoCategories is the same unnest shape as 001, keyed on 'tag'.
func videoCategories() *Migration {
	return &Migration{
		Version: "002",
		Name:    "video_categories",
		Phases: []Phase{
			{
				Kind: PhaseSchema,
				Name: "create video_categories",
				Statements: []string{`
					CREATE TABLE video_categories (
						id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
						video_id UUID NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
						category TEXT NOT NULL,
						confidence DECIMAL(5,4) NOT NULL
							CHECK (confidence >= 0 AND confidence <= 1)
					)`,
				},
			},
			{
				Kind: PhaseBackfill,
				Name: "unnest categories",
				Statements: []string{`
					INSERT INTO video_categories (video_id, category, confidence)
					SELECT v.id,
					       elem->>'tag',
					       (elem->>'confidence')::DECIMAL(5,4)
					FROM videos v,
					     jsonb_array_elements(v.categories) AS elem
					WHERE jsonb_typeof(v.categories) = 'array'`,
				},
			},
			{
				Kind: PhaseIndex,
				Name: "category query index",
				Statements: []string{`
					CREATE INDEX idx_video_categories_category_confidence
					ON video_categories (category, confidence DESC)`,
				},
			},
		},
	}
}

// videoDifficulty extracts the scalar difficulty object. Videos whose
// difficulty_level has no level (the tagger's empty object) are skipped
// on purpose; that is a filter, not an error.
func videoDifficulty() *Migration {
	return &Migration{
		Version: "003",
		Name:    "video_difficulty",
		Phases: []Phase{
			{
				Kind: PhaseSchema,
				Name: "create difficulty enum and table",
				Statements: []string{`
					CREATE TYPE difficulty_level AS
						ENUM ('beginner', 'intermediate', 'advanced')`, `
					CREATE TABLE video_difficulty (
						id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
						video_id UUID NOT NULL UNIQUE REFERENCES videos(id) ON DELETE CASCADE,
						level difficulty_level NOT NULL,
						confidence DECIMAL(5,4) NOT NULL
							CHECK (confidence >= 0 AND confidence <= 1)
					)`,
				},
			},
			{
				Kind: PhaseBackfill,
				Name: "extract difficulty",
				Statements: []string{`
					INSERT INTO video_difficulty (video_id, level, confidence)
					SELECT v.id,
					       (v.difficulty_level->>'level')::difficulty_level,
					       (v.difficulty_level->>'confidence')::DECIMAL(5,4)
					FROM videos v
					WHERE jsonb_typeof(v.difficulty_level) = 'object'
					  AND COALESCE(v.difficulty_level->>'level', '') <> ''`,
				},
			},
			{
				Kind: PhaseIndex,
				Name: "difficulty query index",
				Statements: []string{`
					CREATE INDEX idx_video_difficulty_level_confidence
					ON video_difficulty (level, confidence DESC)`,
				},
			},
		},
	}
}

// creators deduplicates creator_username into its own table and relinks
// videos through a foreign key. The constrain phase's gate is the
// correctness barrier: NOT NULL is only applied after confirming every
// video resolved to a creator.
func creators() *Migration {
	return &Migration{
		Version: "004",
		Name:    "creators",
		Phases: []Phase{
			{
				Kind: PhaseSchema,
				Name: "create creators",
				Statements: []string{`
					CREATE TABLE creators (
						id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
						username TEXT UNIQUE NOT NULL,
						username_length INTEGER NOT NULL
					)`,
				},
			},
			{
				Kind: PhaseBackfill,
				Name: "materialize distinct usernames",
				Statements: []string{`
					INSERT INTO creators (username, username_length)
					SELECT DISTINCT creator_username, char_length(creator_username)
					FROM videos`,
				},
			},
			{
				Kind: PhaseRelink,
				Name: "resolve creator references",
				Statements: []string{`
					ALTER TABLE videos ADD COLUMN creator_id UUID REFERENCES creators(id)`, `
					UPDATE videos v
					SET creator_id = c.id
					FROM creators c
					WHERE c.username = v.creator_username`,
				},
			},
			{
				Kind: PhaseConstrain,
				Name: "tighten creator_id to NOT NULL",
				Gate: unresolvedCreatorsGate,
				Statements: []string{`
					ALTER TABLE videos ALTER COLUMN creator_id SET NOT NULL`,
				},
			},
			{
				Kind: PhaseIndex,
				Name: "creator lookup index",
				Statements: []string{`
					CREATE INDEX idx_videos_creator_id ON videos (creator_id)`,
				},
			},
		},
	}
}

func unresolvedCreatorsGate(ctx context.Context, tx *sqlx.Tx) error {
	n, err := CountRows(ctx, tx, `SELECT COUNT(*) FROM videos WHERE creator_id IS NULL`)
	if err != nil {
		return err
	}
	if n > 0 {
		return errors.ConstraintViolation(
			fmt.Sprintf("%d videos have no resolved creator; refusing to tighten", n), nil)
	}
	return nil
}
