package ui

import (
	"log"
	"net/http"
	"strconv"

	"github.com/unseriousprof/edgi-vid-library/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Server is the public JSON API over the normalized video library.
type Server struct {
	router      *gin.Engine
	videos      ports.VideoRepository
	assignments ports.AssignmentRepository
	creators    ports.CreatorRepository
	games       ports.GameRepository
}

// NewServer creates the API server and wires its routes
func NewServer(videos ports.VideoRepository, assignments ports.AssignmentRepository, creators ports.CreatorRepository, games ports.GameRepository) *Server {
	s := &Server{
		router:      gin.Default(),
		videos:      videos,
		assignments: assignments,
		creators:    creators,
		games:       games,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/api/videos", s.handleListVideos)
	s.router.GET("/api/videos/:id", s.handleGetVideo)
	s.router.GET("/api/videos/:id/tags", s.handleGetVideoTags)
	s.router.GET("/api/videos/:id/game", s.handleGetVideoGame)
	s.router.GET("/api/creators", s.handleListCreators)
	s.router.GET("/api/creators/:username", s.handleGetCreator)
}

// Start starts the API server
func (s *Server) Start(addr string) error {
	log.Printf("Starting video library API on http://%s", addr)
	return s.router.Run(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// handleListVideos finds videos by topic or category label above a
// confidence floor. Exactly one of topic/category must be given; the
// queries ride the composite (label, confidence DESC) indexes.
func (s *Server) handleListVideos(c *gin.Context) {
	topic := c.Query("topic")
	category := c.Query("category")
	if (topic == "") == (category == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provide exactly one of topic or category"})
		return
	}

	minConfidence := 0.0
	if raw := c.Query("min_confidence"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 || parsed > 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_confidence must be a number in [0,1]"})
			return
		}
		minConfidence = parsed
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be in [1,500]"})
			return
		}
		limit = parsed
	}

	filter := ports.AssignmentFilter{MinConfidence: minConfidence, Limit: limit}
	var ids []uuid.UUID
	var err error
	if topic != "" {
		filter.Label = topic
		ids, err = s.assignments.VideosByTopic(c.Request.Context(), filter)
	} else {
		filter.Label = category
		ids, err = s.assignments.VideosByCategory(c.Request.Context(), filter)
	}
	if err != nil {
		log.Printf("[API] video search failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"video_ids": ids, "count": len(ids)})
}

func (s *Server) handleGetVideo(c *gin.Context) {
	videoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video id"})
		return
	}

	video, err := s.videos.GetVideoByID(c.Request.Context(), videoID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "video not found"})
		return
	}
	c.JSON(http.StatusOK, video)
}

// handleGetVideoTags serves the normalized assignments for one video,
// read from the relational tables rather than the legacy JSONB.
func (s *Server) handleGetVideoTags(c *gin.Context) {
	videoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video id"})
		return
	}
	ctx := c.Request.Context()

	topics, err := s.assignments.TopicsForVideo(ctx, videoID)
	if err != nil {
		log.Printf("[API] topics lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	categories, err := s.assignments.CategoriesForVideo(ctx, videoID)
	if err != nil {
		log.Printf("[API] categories lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	difficulty, err := s.assignments.DifficultyForVideo(ctx, videoID)
	if err != nil {
		log.Printf("[API] difficulty lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"video_id":   videoID,
		"topics":     topics,
		"categories": categories,
		"difficulty": difficulty,
	})
}

func (s *Server) handleGetVideoGame(c *gin.Context) {
	videoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video id"})
		return
	}

	game, err := s.games.GetGame(c.Request.Context(), videoID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no game for this video"})
		return
	}
	c.JSON(http.StatusOK, game)
}

func (s *Server) handleListCreators(c *gin.Context) {
	creators, err := s.creators.ListCreators(c.Request.Context())
	if err != nil {
		log.Printf("[API] creator list failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"creators": creators, "count": len(creators)})
}

func (s *Server) handleGetCreator(c *gin.Context) {
	creator, err := s.creators.GetCreatorByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "creator not found"})
		return
	}
	c.JSON(http.StatusOK, creator)
}
