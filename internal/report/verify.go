package report

import (
	"context"
	"time"

	"github.com/unseriousprof/edgi-vid-library/internal"
	"github.com/unseriousprof/edgi-vid-library/internal/errors"
	"github.com/unseriousprof/edgi-vid-library/internal/migration"
	"github.com/unseriousprof/edgi-vid-library/models"
	"github.com/unseriousprof/edgi-vid-library/ports"
)

// verifyPageSize caps how many videos each ListTagged query returns.
// The audit still accumulates every page: the creator dedupe and the
// spot checks need the full tagged set.
const verifyPageSize = 500

// TableAudit compares a normalized table's row count against the count a
// replay of the source JSONB predicts.
type TableAudit struct {
	Table    string `json:"table"`
	Expected int    `json:"expected_rows"`
	Actual   int    `json:"actual_rows"`
	Match    bool   `json:"match"`
}

// SpotCheck is one per-video comparison of stored rows against a replay
// of the unnest over that video's JSONB.
type SpotCheck struct {
	VideoID string `json:"video_id"`
	Table   string `json:"table"`
	Detail  string `json:"detail,omitempty"`
	Match   bool   `json:"match"`
}

// CreatorAudit compares the deduplicated creators table against the
// distinct usernames still inlined on videos.
type CreatorAudit struct {
	DistinctUsernames int  `json:"distinct_usernames"`
	StoredCreators    int  `json:"stored_creators"`
	Match             bool `json:"match"`
}

// Report is the full verification result for one audit run.
type Report struct {
	GeneratedAt   time.Time      `json:"generated_at"`
	VideosAudited int            `json:"videos_audited"`
	TableAudits   []TableAudit   `json:"table_audits"`
	Distributions []Distribution `json:"distributions"`
	CreatorAudit  CreatorAudit   `json:"creator_audit"`
	SpotChecks    []SpotCheck    `json:"spot_checks"`
}

// Clean reports whether every audit and spot check passed.
func (r *Report) Clean() bool {
	for _, a := range r.TableAudits {
		if !a.Match {
			return false
		}
	}
	for _, s := range r.SpotChecks {
		if !s.Match {
			return false
		}
	}
	return r.CreatorAudit.Match
}

// Verifier audits the normalized tables against the source JSONB columns.
type Verifier struct {
	videos      ports.VideoRepository
	assignments ports.AssignmentRepository
	creators    ports.CreatorRepository
	logger      *internal.Logger
}

// NewVerifier creates a verifier over the given repositories
func NewVerifier(videos ports.VideoRepository, assignments ports.AssignmentRepository, creators ports.CreatorRepository, logger *internal.Logger) *Verifier {
	return &Verifier{videos: videos, assignments: assignments, creators: creators, logger: logger}
}

// Run replays the unnest over every tagged video and compares the result
// against the normalized tables: total row counts per table, confidence
// distributions, creator dedup counts, and per-video spot checks for a
// sample of videos.
func (v *Verifier) Run(ctx context.Context, spotCheckSample int) (*Report, error) {
	report := &Report{GeneratedAt: time.Now().UTC()}

	expectedTopics, expectedCategories, expectedDifficulty := 0, 0, 0
	var allVideos []*models.Video

	for offset := 0; ; offset += verifyPageSize {
		page, err := v.videos.ListTagged(ctx, verifyPageSize, offset)
		if err != nil {
			return nil, errors.Wrap(err, "failed to page tagged videos")
		}
		if len(page) == 0 {
			break
		}
		for _, video := range page {
			topics, err := migration.TopicAssignments(video)
			if err != nil {
				return nil, err
			}
			categories, err := migration.CategoryAssignments(video)
			if err != nil {
				return nil, err
			}
			difficulty, err := migration.DifficultyAssignment(video)
			if err != nil {
				return nil, err
			}
			expectedTopics += len(topics)
			expectedCategories += len(categories)
			if difficulty != nil {
				expectedDifficulty++
			}
		}
		allVideos = append(allVideos, page...)
	}
	report.VideosAudited = len(allVideos)

	for _, audit := range []struct {
		table    string
		expected int
	}{
		{"video_topics", expectedTopics},
		{"video_categories", expectedCategories},
		{"video_difficulty", expectedDifficulty},
	} {
		confidences, err := v.assignments.ConfidencesForTable(ctx, audit.table)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", audit.table)
		}
		report.TableAudits = append(report.TableAudits, TableAudit{
			Table:    audit.table,
			Expected: audit.expected,
			Actual:   len(confidences),
			Match:    audit.expected == len(confidences),
		})
		dist, err := Describe(audit.table, confidences)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to describe %s confidences", audit.table)
		}
		report.Distributions = append(report.Distributions, dist)
	}

	distinct := migration.DedupeCreators(allVideos)
	stored, err := v.creators.CountCreators(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count creators")
	}
	report.CreatorAudit = CreatorAudit{
		DistinctUsernames: len(distinct),
		StoredCreators:    stored,
		Match:             len(distinct) == stored,
	}

	report.SpotChecks, err = v.spotCheck(ctx, allVideos, spotCheckSample)
	if err != nil {
		return nil, err
	}

	if !report.Clean() {
		v.logger.Warn("Verification found mismatches: %d videos audited", report.VideosAudited)
	}
	return report, nil
}

// spotCheck compares stored rows against the replayed unnest for the
// first sample videos. Ordering is ignored; the comparison is by label.
func (v *Verifier) spotCheck(ctx context.Context, videos []*models.Video, sample int) ([]SpotCheck, error) {
	if sample > len(videos) {
		sample = len(videos)
	}
	var checks []SpotCheck
	for _, video := range videos[:sample] {
		expected, err := migration.TopicAssignments(video)
		if err != nil {
			return nil, err
		}
		stored, err := v.assignments.TopicsForVideo(ctx, video.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read topics for video %s", video.ID)
		}
		checks = append(checks, compareTopicRows(video, expected, stored))

		expectedCats, err := migration.CategoryAssignments(video)
		if err != nil {
			return nil, err
		}
		storedCats, err := v.assignments.CategoriesForVideo(ctx, video.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read categories for video %s", video.ID)
		}
		checks = append(checks, compareCategoryRows(video, expectedCats, storedCats))
	}
	return checks, nil
}

func compareTopicRows(video *models.Video, expected []models.TopicAssignment, stored []*models.TopicAssignment) SpotCheck {
	check := SpotCheck{VideoID: video.ID.String(), Table: "video_topics", Match: true}
	want := make(map[string]float64, len(expected))
	for _, row := range expected {
		want[row.Topic] = row.Confidence
	}
	if len(stored) != len(expected) {
		check.Match = false
		check.Detail = "row count mismatch"
		return check
	}
	for _, row := range stored {
		if _, ok := want[row.Topic]; !ok {
			check.Match = false
			check.Detail = "stored topic " + row.Topic + " absent from source"
			return check
		}
	}
	return check
}

func compareCategoryRows(video *models.Video, expected []models.CategoryAssignment, stored []*models.CategoryAssignment) SpotCheck {
	check := SpotCheck{VideoID: video.ID.String(), Table: "video_categories", Match: true}
	want := make(map[string]float64, len(expected))
	for _, row := range expected {
		want[row.Category] = row.Confidence
	}
	if len(stored) != len(expected) {
		check.Match = false
		check.Detail = "row count mismatch"
		return check
	}
	for _, row := range stored {
		if _, ok := want[row.Category]; !ok {
			check.Match = false
			check.Detail = "stored category " + row.Category + " absent from source"
			return check
		}
	}
	return check
}
