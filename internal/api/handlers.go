package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/spacesedan/tweelyzer/internal/clients"
	"github.com/spacesedan/tweelyzer/internal/models"
)

type analyzeTweetRequest struct {
	URL string `json:"url"`
}

type healthResponse struct {
	Status string          `json:"status"`
	Models map[string]bool `json:"models"`
}

func (s *Server) handleAnalyzeTweet(w http.ResponseWriter, r *http.Request) {
	var req analyzeTweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	tweet, err := s.extractor.TweetFromURL(r.Context(), req.URL)
	if err != nil {
		switch {
		case errors.Is(err, clients.ErrInvalidTweetURL):
			writeError(w, http.StatusBadRequest, "Invalid tweet URL format")
		case errors.Is(err, clients.ErrTweetNotFound):
			writeError(w, http.StatusNotFound, "tweet not found")
		default:
			slog.Error("[API] Tweet extraction failed",
				slog.String("url", req.URL),
				slog.String("error", err.Error()))
			writeError(w, http.StatusBadGateway, "failed to fetch tweet")
		}
		return
	}

	// analysis never fails outright; degraded stages carry their note
	result := s.analyzer.Run(r.Context(), tweet.Text)

	writeJSON(w, http.StatusOK, models.TweetAnalysis{
		Tweet:          tweet,
		AnalysisResult: result,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	if s.health != nil {
		resp.Models = s.health.Snapshot()
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("[API] Failed to encode response",
			slog.String("error", err.Error()))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
