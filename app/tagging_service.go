package app

import (
	"context"
	"sync"
	"time"

	"github.com/unseriousprof/edgi-vid-library/internal"
	"github.com/unseriousprof/edgi-vid-library/internal/config"
	"github.com/unseriousprof/edgi-vid-library/models"
	"github.com/unseriousprof/edgi-vid-library/ports"

	"golang.org/x/sync/semaphore"
)

// TaggingService runs the batch tagging pipeline: pull pending videos,
// tag their transcripts concurrently, and write results or errors back.
type TaggingService struct {
	videos ports.VideoRepository
	tagger ports.TranscriptTagger
	cfg    config.TaggingConfig
	model  string
	sem    *semaphore.Weighted
	logger *internal.Logger
}

// BatchStats summarizes one tagging batch.
type BatchStats struct {
	Processed int
	Succeeded int
	Failed    int
}

// NewTaggingService creates a tagging service
func NewTaggingService(videos ports.VideoRepository, tagger ports.TranscriptTagger, cfg config.TaggingConfig, model string, logger *internal.Logger) *TaggingService {
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &TaggingService{
		videos: videos,
		tagger: tagger,
		cfg:    cfg,
		model:  model,
		sem:    semaphore.NewWeighted(maxConcurrent),
		logger: logger,
	}
}

// Run processes batches until no pending videos remain or the context is
// cancelled.
func (s *TaggingService) Run(ctx context.Context) (BatchStats, error) {
	var total BatchStats
	for {
		stats, err := s.RunBatch(ctx)
		total.Processed += stats.Processed
		total.Succeeded += stats.Succeeded
		total.Failed += stats.Failed
		if err != nil {
			return total, err
		}
		if stats.Processed == 0 {
			return total, nil
		}
		select {
		case <-ctx.Done():
			return total, ctx.Err()
		case <-time.After(s.cfg.SleepInterval):
		}
	}
}

// RunBatch tags one batch of pending videos with bounded concurrency.
func (s *TaggingService) RunBatch(ctx context.Context) (BatchStats, error) {
	videos, err := s.videos.ListPendingTagging(ctx, s.cfg.BatchSize)
	if err != nil {
		return BatchStats{}, err
	}
	if len(videos) == 0 {
		return BatchStats{}, nil
	}
	s.logger.Info("Tagging batch of %d videos", len(videos))

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		stats = BatchStats{Processed: len(videos)}
	)
	for _, video := range videos {
		if err := s.sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return stats, err
		}
		wg.Add(1)
		go func(video *models.Video) {
			defer wg.Done()
			defer s.sem.Release(1)

			ok := s.tagOne(ctx, video)
			mu.Lock()
			if ok {
				stats.Succeeded++
			} else {
				stats.Failed++
			}
			mu.Unlock()
		}(video)
	}
	wg.Wait()

	s.logger.Info("Batch done: %d succeeded, %d failed", stats.Succeeded, stats.Failed)
	return stats, nil
}

func (s *TaggingService) tagOne(ctx context.Context, video *models.Video) bool {
	transcript, err := s.videos.GetTranscript(ctx, video.ID)
	if err != nil {
		s.logger.Error("Video %s: transcript fetch failed: %v", video.ID, err)
		s.recordError(ctx, video, err)
		return false
	}

	start := time.Now()
	result, err := s.tagger.TagTranscript(ctx, transcript)
	if err != nil {
		s.logger.Error("Video %s: tagging failed: %v", video.ID, err)
		s.recordError(ctx, video, err)
		return false
	}
	elapsed := time.Since(start).Seconds()

	if err := s.videos.ApplyTagResult(ctx, video.ID, result, s.model, elapsed); err != nil {
		s.logger.Error("Video %s: failed to store tag result: %v", video.ID, err)
		return false
	}
	s.logger.Debug("Video %s tagged in %.2fs", video.ID, elapsed)
	return true
}

func (s *TaggingService) recordError(ctx context.Context, video *models.Video, cause error) {
	if err := s.videos.MarkTaggingError(ctx, video.ID, s.model, cause); err != nil {
		s.logger.Error("Video %s: failed to record tagging error: %v", video.ID, err)
	}
}
