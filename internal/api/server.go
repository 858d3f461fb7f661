// Package api exposes the dashboard's HTTP surface: the feedback CRUD
// endpoints consumed by the UI plus the operational endpoints carried over
// from the bot-style deployment (health, metrics, manual trigger).
package api

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/feedback-insights/dashboard/internal/analytics"
	"github.com/feedback-insights/dashboard/internal/models"
	"github.com/feedback-insights/dashboard/internal/storage"
)

// DigestRunner is the slice of the digest service the API needs.
type DigestRunner interface {
	Run() error
	Metrics() string
}

// Server handles the dashboard HTTP API.
type Server struct {
	store         storage.FeedbackStore
	digest        DigestRunner
	deployments   []models.Deployment
	feedbackLimit int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewServer creates a Server. digest may be nil when scheduled digests are
// disabled. rng feeds the confidence stub for submitted feedback.
func NewServer(store storage.FeedbackStore, digest DigestRunner, deployments []models.Deployment, feedbackLimit int, rng *rand.Rand) *Server {
	return &Server{
		store:         store,
		digest:        digest,
		deployments:   deployments,
		feedbackLimit: feedbackLimit,
		rng:           rng,
	}
}

// Router builds the gorilla/mux router with CORS applied to every route.
func (s *Server) Router() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/api/feedback", s.handleGetFeedback).Methods("GET")
	router.HandleFunc("/api/feedback/analyze", s.handleAnalyze).Methods("GET")
	router.HandleFunc("/api/feedback/submit", s.handleSubmit).Methods("POST")
	router.HandleFunc("/api/deployments", s.handleDeployments).Methods("GET")
	router.HandleFunc("/api/channels/{id}/stats", s.handleChannelStats).Methods("GET")

	router.HandleFunc("/health", s.handleHealth).Methods("GET")
	router.HandleFunc("/metrics", s.handleMetrics).Methods("GET")
	router.HandleFunc("/trigger", s.handleTrigger).Methods("POST")

	return corsMiddleware(router)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleGetFeedback(w http.ResponseWriter, r *http.Request) {
	events, err := s.store.ListRecent(s.feedbackLimit)
	if err != nil {
		logrus.Errorf("Failed to list feedback: %v", err)
		writeError(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if events == nil {
		events = []models.FeedbackEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	oneDayAgo := now.Add(-24 * time.Hour).UnixMilli()

	events, err := s.store.ListSince(oneDayAgo)
	if err != nil {
		logrus.Errorf("Failed to load feedback for analysis: %v", err)
		writeError(w, http.StatusInternalServerError, "Analysis error: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, analytics.Analyze(events, now))
}

type submitRequest struct {
	Channel    string `json:"channel"`
	Text       string `json:"text"`
	Sentiment  string `json:"sentiment"`
	Engagement int    `json:"engagement"`
	Upvotes    int    `json:"upvotes"`
	Comments   int    `json:"comments"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Submit error: invalid JSON payload")
		return
	}

	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "Submit error: text is required")
		return
	}
	if !models.ValidChannel(req.Channel) {
		writeError(w, http.StatusBadRequest, "Submit error: unknown channel")
		return
	}

	sentiment := req.Sentiment
	if sentiment == "" {
		sentiment = models.SentimentNeutral
	}
	switch sentiment {
	case models.SentimentPositive, models.SentimentNegative, models.SentimentNeutral:
	default:
		writeError(w, http.StatusBadRequest, "Submit error: unknown sentiment")
		return
	}
	if req.Engagement < 0 || req.Upvotes < 0 || req.Comments < 0 {
		writeError(w, http.StatusBadRequest, "Submit error: counters must be non-negative")
		return
	}

	event := models.FeedbackEvent{
		ID:         uuid.NewString(),
		Channel:    req.Channel,
		Text:       req.Text,
		Sentiment:  sentiment,
		Timestamp:  time.Now().UnixMilli(),
		Engagement: req.Engagement,
		Upvotes:    req.Upvotes,
		Comments:   req.Comments,
		Keywords:   []string{},
		Confidence: s.confidenceFor(sentiment),
	}

	if err := s.store.Insert(event); err != nil {
		logrus.Errorf("Failed to store submitted feedback: %v", err)
		writeError(w, http.StatusInternalServerError, "Submit error: "+err.Error())
		return
	}

	logrus.Infof("Stored submitted feedback %s on channel %s", event.ID, event.Channel)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleDeployments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deployments)
}

func (s *Server) handleChannelStats(w http.ResponseWriter, r *http.Request) {
	channelID := mux.Vars(r)["id"]
	if !models.ValidChannel(channelID) {
		writeError(w, http.StatusNotFound, "unknown channel: "+channelID)
		return
	}

	events, err := s.store.ListAll()
	if err != nil {
		logrus.Errorf("Failed to load feedback for channel stats: %v", err)
		writeError(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	stats := analytics.ChannelStats(analytics.FilterChannel(events, channelID), time.Now())
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if s.digest == nil {
		writeJSON(w, http.StatusOK, map[string]string{})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(s.digest.Metrics()))
}

func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	if s.digest == nil {
		writeError(w, http.StatusServiceUnavailable, "digests disabled")
		return
	}

	go func() {
		if err := s.digest.Run(); err != nil {
			logrus.Errorf("Manual digest trigger failed: %v", err)
		}
	}()

	writeJSON(w, http.StatusOK, map[string]string{"message": "Digest triggered successfully"})
}

func (s *Server) confidenceFor(sentiment string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return analytics.ConfidenceFor(sentiment, s.rng)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.Errorf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
