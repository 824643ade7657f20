package report

import (
	"context"
	"testing"

	"github.com/unseriousprof/edgi-vid-library/internal"
	"github.com/unseriousprof/edgi-vid-library/models"
	"github.com/unseriousprof/edgi-vid-library/ports"

	"github.com/google/uuid"
)

type stubVideos struct {
	videos []*models.Video
}

func (s *stubVideos) GetVideoByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	for _, v := range s.videos {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, nil
}

func (s *stubVideos) ListPendingTagging(ctx context.Context, limit int) ([]*models.Video, error) {
	return nil, nil
}

func (s *stubVideos) ListTagged(ctx context.Context, limit, offset int) ([]*models.Video, error) {
	if offset >= len(s.videos) {
		return nil, nil
	}
	end := offset + limit
	if end > len(s.videos) {
		end = len(s.videos)
	}
	return s.videos[offset:end], nil
}

func (s *stubVideos) GetTranscript(ctx context.Context, id uuid.UUID) (string, error) {
	return "", nil
}

func (s *stubVideos) ApplyTagResult(ctx context.Context, id uuid.UUID, r *models.TagResult, model string, secs float64) error {
	return nil
}

func (s *stubVideos) MarkTaggingError(ctx context.Context, id uuid.UUID, model string, cause error) error {
	return nil
}

type stubAssignments struct {
	topics     map[uuid.UUID][]*models.TopicAssignment
	categories map[uuid.UUID][]*models.CategoryAssignment
}

func (s *stubAssignments) TopicsForVideo(ctx context.Context, id uuid.UUID) ([]*models.TopicAssignment, error) {
	return s.topics[id], nil
}

func (s *stubAssignments) CategoriesForVideo(ctx context.Context, id uuid.UUID) ([]*models.CategoryAssignment, error) {
	return s.categories[id], nil
}

func (s *stubAssignments) DifficultyForVideo(ctx context.Context, id uuid.UUID) (*models.DifficultyAssignment, error) {
	return nil, nil
}

func (s *stubAssignments) VideosByTopic(ctx context.Context, f ports.AssignmentFilter) ([]uuid.UUID, error) {
	return nil, nil
}

func (s *stubAssignments) VideosByCategory(ctx context.Context, f ports.AssignmentFilter) ([]uuid.UUID, error) {
	return nil, nil
}

func (s *stubAssignments) ConfidencesForTable(ctx context.Context, table string) ([]float64, error) {
	var out []float64
	switch table {
	case "video_topics":
		for _, rows := range s.topics {
			for _, r := range rows {
				out = append(out, r.Confidence)
			}
		}
	case "video_categories":
		for _, rows := range s.categories {
			for _, r := range rows {
				out = append(out, r.Confidence)
			}
		}
	}
	return out, nil
}

type stubCreators struct {
	count int
}

func (s *stubCreators) GetCreatorByUsername(ctx context.Context, u string) (*models.Creator, error) {
	return nil, nil
}
func (s *stubCreators) CountCreators(ctx context.Context) (int, error)           { return s.count, nil }
func (s *stubCreators) ListCreators(ctx context.Context) ([]*models.Creator, error) { return nil, nil }

func testLogger() *internal.Logger { return internal.NewLogger(internal.LogLevelError) }

func consistentFixture() (*stubVideos, *stubAssignments, *stubCreators) {
	v1 := &models.Video{
		ID:              uuid.New(),
		CreatorUsername: "sciencefacts",
		Topics:          models.TopicTags{{Topic: "biology", Confidence: 0.9}},
		Categories:      models.CategoryTags{{Tag: "science", Confidence: 0.8}},
	}
	v2 := &models.Video{
		ID:              uuid.New(),
		CreatorUsername: "historybuff",
		Topics:          models.TopicTags{{Topic: "ww2", Confidence: 0.7}},
	}

	videos := &stubVideos{videos: []*models.Video{v1, v2}}
	assignments := &stubAssignments{
		topics: map[uuid.UUID][]*models.TopicAssignment{
			v1.ID: {{VideoID: v1.ID, Topic: "biology", Confidence: 0.9}},
			v2.ID: {{VideoID: v2.ID, Topic: "ww2", Confidence: 0.7}},
		},
		categories: map[uuid.UUID][]*models.CategoryAssignment{
			v1.ID: {{VideoID: v1.ID, Category: "science", Confidence: 0.8}},
		},
	}
	return videos, assignments, &stubCreators{count: 2}
}

func TestVerifierCleanRun(t *testing.T) {
	videos, assignments, creators := consistentFixture()
	v := NewVerifier(videos, assignments, creators, testLogger())

	report, err := v.Run(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !report.Clean() {
		t.Errorf("consistent fixture should verify clean: %+v", report)
	}
	if report.VideosAudited != 2 {
		t.Errorf("videos audited = %d, want 2", report.VideosAudited)
	}
	if len(report.TableAudits) != 3 {
		t.Fatalf("expected 3 table audits, got %d", len(report.TableAudits))
	}
	for _, a := range report.TableAudits {
		if !a.Match {
			t.Errorf("table %s: expected %d, actual %d", a.Table, a.Expected, a.Actual)
		}
	}
}

func TestVerifierDetectsMissingRow(t *testing.T) {
	videos, assignments, creators := consistentFixture()
	// Drop a stored topic row so the replay disagrees.
	for id := range assignments.topics {
		delete(assignments.topics, id)
		break
	}

	v := NewVerifier(videos, assignments, creators, testLogger())
	report, err := v.Run(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Clean() {
		t.Error("missing stored row should fail verification")
	}
}

func TestVerifierDetectsCreatorDrift(t *testing.T) {
	videos, assignments, creators := consistentFixture()
	creators.count = 1

	v := NewVerifier(videos, assignments, creators, testLogger())
	report, err := v.Run(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.CreatorAudit.Match {
		t.Error("creator count drift should be detected")
	}
	if report.Clean() {
		t.Error("report should not be clean with creator drift")
	}
}
