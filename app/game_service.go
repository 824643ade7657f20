package app

import (
	"context"

	"github.com/unseriousprof/edgi-vid-library/internal"
	"github.com/unseriousprof/edgi-vid-library/internal/config"
	"github.com/unseriousprof/edgi-vid-library/ports"
)

// GameService drafts and stores mini-games for eligible videos. Games are
// generated sequentially: the drafting model is slower and pricier than
// the tagger, and the sample is small.
type GameService struct {
	videos  ports.VideoRepository
	games   ports.GameRepository
	drafter ports.GameDrafter
	cfg     config.GamesConfig
	logger  *internal.Logger
}

// NewGameService creates a game generation service
func NewGameService(videos ports.VideoRepository, games ports.GameRepository, drafter ports.GameDrafter, cfg config.GamesConfig, logger *internal.Logger) *GameService {
	return &GameService{
		videos:  videos,
		games:   games,
		drafter: drafter,
		cfg:     cfg,
		logger:  logger,
	}
}

// Run drafts games for every eligible video up to the configured sample
// size. Individual failures are logged and skipped; the batch keeps going.
func (s *GameService) Run(ctx context.Context) (BatchStats, error) {
	ids, err := s.games.ListEligibleVideos(ctx, s.cfg.EduThreshold, s.cfg.SampleSize)
	if err != nil {
		return BatchStats{}, err
	}
	if len(ids) == 0 {
		s.logger.Info("No eligible videos for game generation")
		return BatchStats{}, nil
	}
	s.logger.Info("Drafting games for %d videos", len(ids))

	stats := BatchStats{Processed: len(ids)}
	for _, videoID := range ids {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		transcript, err := s.videos.GetTranscript(ctx, videoID)
		if err != nil {
			s.logger.Error("Video %s: transcript fetch failed: %v", videoID, err)
			stats.Failed++
			continue
		}

		payload, err := s.drafter.DraftGame(ctx, transcript)
		if err != nil {
			s.logger.Error("Video %s: game drafting failed: %v", videoID, err)
			stats.Failed++
			continue
		}

		if err := s.games.UpsertGame(ctx, videoID, payload); err != nil {
			s.logger.Error("Video %s: failed to store game: %v", videoID, err)
			stats.Failed++
			continue
		}
		stats.Succeeded++
		s.logger.Debug("Video %s: stored game choices %v", videoID, payload.GameChoices)
	}

	s.logger.Info("Game batch done: %d succeeded, %d failed", stats.Succeeded, stats.Failed)
	return stats, nil
}
