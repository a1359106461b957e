// Package api provides the HTTP server for tweet analysis requests.
package api

import (
	"context"
	"net/http"

	"github.com/spacesedan/tweelyzer/internal/analysis"
	"github.com/spacesedan/tweelyzer/internal/models"
	"github.com/spacesedan/tweelyzer/internal/monitoring"
)

// TweetExtractor resolves a tweet URL to its extracted record.
type TweetExtractor interface {
	TweetFromURL(ctx context.Context, url string) (models.Tweet, error)
}

type Server struct {
	analyzer  *analysis.Analyzer
	extractor TweetExtractor
	health    *monitoring.HealthTracker
	mux       *http.ServeMux
}

type Config struct {
	Analyzer  *analysis.Analyzer
	Extractor TweetExtractor
	Health    *monitoring.HealthTracker
}

func NewServer(cfg Config) *Server {
	s := &Server{
		analyzer:  cfg.Analyzer,
		extractor: cfg.Extractor,
		health:    cfg.Health,
		mux:       http.NewServeMux(),
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /analyze-tweet", s.handleAnalyzeTweet)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	s.mux.ServeHTTP(w, r)
}
