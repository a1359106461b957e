package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/tweelyzer/internal/analysis"
	"github.com/spacesedan/tweelyzer/internal/clients"
	"github.com/spacesedan/tweelyzer/internal/models"
	"github.com/spacesedan/tweelyzer/internal/monitoring"
)

type fakeExtractor struct {
	tweet models.Tweet
	err   error
}

func (f *fakeExtractor) TweetFromURL(_ context.Context, _ string) (models.Tweet, error) {
	return f.tweet, f.err
}

func newTestServer(extractor TweetExtractor, hfURL string) *Server {
	hf := &clients.HuggingFaceClient{
		Client:        &http.Client{},
		BaseURL:       hfURL,
		TokenProvider: func() string { return "test-token" },
	}
	return NewServer(Config{
		Analyzer:  analysis.NewAnalyzer(hf),
		Extractor: extractor,
		Health:    monitoring.NewHealthTracker("model-a", "model-b"),
	})
}

func postAnalyze(srv *Server, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/analyze-tweet", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["error"]
}

func TestAnalyzeTweet_Success(t *testing.T) {
	hfServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "cardiffnlp"):
			w.Write([]byte(`[[{"label":"LABEL_0","score":0.83}]]`))
		case strings.Contains(r.URL.Path, "bart-large-mnli"):
			w.Write([]byte(`{"sequence":"x","labels":["No fact check needed","Needs fact check"],"scores":[0.93,0.07]}`))
		default:
			t.Errorf("unexpected model path %s", r.URL.Path)
		}
	}))
	defer hfServer.Close()

	extractor := &fakeExtractor{tweet: models.Tweet{
		TweetID: "20",
		Text:    "just setting up my twttr",
		Author:  models.TweetAuthor{Name: "Jack", ScreenName: "jack"},
		Likes:   100,
	}}
	srv := newTestServer(extractor, hfServer.URL)

	rec := postAnalyze(srv, `{"url":"https://twitter.com/jack/status/20"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp models.TweetAnalysis
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "20", resp.TweetID)
	assert.Equal(t, "just setting up my twttr", resp.Text)
	assert.Equal(t, "jack", resp.Author.ScreenName)
	assert.Equal(t, "Negative", resp.Sentiment.Label)
	assert.Equal(t, 0.83, resp.Sentiment.Confidence)
	assert.Equal(t, "No fact check needed", resp.FactCheckTrigger.Label)
	assert.Equal(t, "Skipped - No claims detected", resp.FakeNewsDetection.Note)
}

func TestAnalyzeTweet_InvalidURL(t *testing.T) {
	extractor := &fakeExtractor{err: clients.ErrInvalidTweetURL}
	srv := newTestServer(extractor, "http://127.0.0.1:0")

	rec := postAnalyze(srv, `{"url":"https://example.com/nope"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid tweet URL format", decodeError(t, rec))
}

func TestAnalyzeTweet_MissingURL(t *testing.T) {
	srv := newTestServer(&fakeExtractor{}, "http://127.0.0.1:0")

	rec := postAnalyze(srv, `{"url":"  "}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "url is required", decodeError(t, rec))
}

func TestAnalyzeTweet_BadJSON(t *testing.T) {
	srv := newTestServer(&fakeExtractor{}, "http://127.0.0.1:0")

	rec := postAnalyze(srv, `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request body", decodeError(t, rec))
}

func TestAnalyzeTweet_NotFound(t *testing.T) {
	extractor := &fakeExtractor{err: clients.ErrTweetNotFound}
	srv := newTestServer(extractor, "http://127.0.0.1:0")

	rec := postAnalyze(srv, `{"url":"https://twitter.com/jack/status/999"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "tweet not found", decodeError(t, rec))
}

func TestAnalyzeTweet_ExtractionFailure(t *testing.T) {
	extractor := &fakeExtractor{err: errors.New("connection reset")}
	srv := newTestServer(extractor, "http://127.0.0.1:0")

	rec := postAnalyze(srv, `{"url":"https://twitter.com/jack/status/20"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "failed to fetch tweet", decodeError(t, rec))
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&fakeExtractor{}, "http://127.0.0.1:0")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status string          `json:"status"`
		Models map[string]bool `json:"models"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, map[string]bool{"model-a": true, "model-b": true}, resp.Models)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(&fakeExtractor{}, "http://127.0.0.1:0")

	req := httptest.NewRequest(http.MethodOptions, "/analyze-tweet", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
}
