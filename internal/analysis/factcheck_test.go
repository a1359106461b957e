package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/tweelyzer/internal/clients"
	"github.com/spacesedan/tweelyzer/internal/models"
)

func TestNormalizeFactCheck_TopLabelWins(t *testing.T) {
	raw := []byte(`{"labels":["No fact check needed","Needs fact check"],"scores":[0.81,0.19]}`)

	result := NormalizeFactCheck(raw)

	assert.Equal(t, FactCheckNotNeeded, result.Label)
	assert.Equal(t, 0.81, result.Confidence)
	assert.Empty(t, result.Note)
}

func TestNormalizeFactCheck_MalformedPayload(t *testing.T) {
	for _, raw := range []string{`{}`, `{"labels":[],"scores":[]}`, `[[{"label":"x","score":1}]]`, `garbage`} {
		result := NormalizeFactCheck([]byte(raw))
		assert.Equal(t, FactCheckNotNeeded, result.Label, "payload: %s", raw)
		assert.Equal(t, 0.0, result.Confidence, "payload: %s", raw)
	}
}

func TestFactCheckFallback_KeywordMatchIsCaseInsensitive(t *testing.T) {
	result := FactCheckFallback("VACCINE conspiracy", DefaultFactCheckKeywords)

	assert.Equal(t, FactCheckNeeded, result.Label)
	assert.Equal(t, 0.7, result.Confidence)
	assert.Equal(t, "Triggered by keyword-based fallback due to API unavailability", result.Note)
}

func TestFactCheckFallback_NoKeywordMatch(t *testing.T) {
	result := FactCheckFallback("what a lovely sunset", DefaultFactCheckKeywords)

	assert.Equal(t, FactCheckNotNeeded, result.Label)
	assert.Equal(t, 0.6, result.Confidence)
	assert.Equal(t, "Fallback analysis - API unavailable", result.Note)
}

func TestFactCheckKeywords_EnvOverride(t *testing.T) {
	t.Setenv("FACT_CHECK_FALLBACK_KEYWORDS", " Unicorns, dragons ,")

	keywords := FactCheckKeywords()

	assert.Equal(t, []string{"unicorns", "dragons"}, keywords)
}

func TestFactCheckKeywords_DefaultList(t *testing.T) {
	t.Setenv("FACT_CHECK_FALLBACK_KEYWORDS", "")

	assert.Equal(t, DefaultFactCheckKeywords, FactCheckKeywords())
}

func TestDetectFactCheckTrigger_SendsCandidateLabels(t *testing.T) {
	var payload models.InferenceRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.Write([]byte(`{"labels":["No fact check needed","Needs fact check"],"scores":[0.81,0.19]}`))
	}))
	defer ts.Close()

	a := newTestAnalyzer(ts.URL)
	outcome := a.DetectFactCheckTrigger(context.Background(), "the moon is made of cheese")

	require.False(t, outcome.Degraded)
	require.NotNil(t, payload.Parameters)
	assert.Equal(t, []string{FactCheckNeeded, FactCheckNotNeeded}, payload.Parameters.CandidateLabels)
	assert.Equal(t, "the moon is made of cheese", payload.Inputs)
	assert.Equal(t, FactCheckNotNeeded, outcome.Result.Label)
	assert.Equal(t, 0.81, outcome.Result.Confidence)
}

func TestDetectFactCheckTrigger_DegradedUsesKeywords(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	a := newTestAnalyzer(ts.URL)
	outcome := a.DetectFactCheckTrigger(context.Background(), "VACCINE conspiracy")

	assert.True(t, outcome.Degraded)
	assert.ErrorIs(t, outcome.Reason, clients.ErrOverloaded)
	assert.Equal(t, FactCheckNeeded, outcome.Result.Label)
	assert.Equal(t, 0.7, outcome.Result.Confidence)
	assert.NotEmpty(t, outcome.Result.Note)
}

func TestDetectFactCheckTrigger_EmptyInput(t *testing.T) {
	a := newTestAnalyzer("http://127.0.0.1:0")

	outcome := a.DetectFactCheckTrigger(context.Background(), "")

	assert.False(t, outcome.Degraded)
	assert.Equal(t, FactCheckNotNeeded, outcome.Result.Label)
	assert.Equal(t, 0.0, outcome.Result.Confidence)
	assert.Empty(t, outcome.Result.Note)
}
