package analysis

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/spacesedan/tweelyzer/internal/models"
)

const (
	FAKE_NEWS_MODEL   = "mrm8488/bert-tiny-finetuned-fake-news-detection"
	FAKE_NEWS_TIMEOUT = 30 * time.Second
)

const (
	FakeNewsFake = "FAKE"
	FakeNewsReal = "REAL"
)

const fakeNewsSkippedNote = "Skipped - No claims detected"

// DetectFakeNews classifies whether the tweet is likely fabricated.
// Only called when the trigger stage asked for it; remote failures
// degrade to the REAL fallback.
func (a *Analyzer) DetectFakeNews(ctx context.Context, text string) Outcome {
	if strings.TrimSpace(text) == "" {
		return Outcome{Result: FakeNewsFallback()}
	}

	ctx, cancel := context.WithTimeout(ctx, FAKE_NEWS_TIMEOUT)
	defer cancel()

	raw, err := a.hf.Classify(ctx, FAKE_NEWS_MODEL, models.InferenceRequest{
		Inputs: text,
	})
	if err != nil {
		slog.Warn("[FakeNewsStage] Using degraded fallback result",
			slog.String("error", err.Error()))
		return Outcome{Result: FakeNewsFallback(), Degraded: true, Reason: err}
	}

	return Outcome{Result: NormalizeFakeNews(raw)}
}

// NormalizeFakeNews maps a raw model response onto FAKE or REAL. Labels
// outside that pair are re-derived from fake/false substrings; malformed
// payloads normalize to the REAL default.
func NormalizeFakeNews(raw []byte) models.StageResult {
	var candidates [][]models.ClassificationCandidate
	if err := json.Unmarshal(raw, &candidates); err != nil || len(candidates) == 0 || len(candidates[0]) == 0 {
		return FakeNewsFallback()
	}

	best := candidates[0][0]
	for _, c := range candidates[0][1:] {
		if c.Score > best.Score {
			best = c
		}
	}

	label := strings.ToUpper(best.Label)
	if label != FakeNewsFake && label != FakeNewsReal {
		lowered := strings.ToLower(best.Label)
		if strings.Contains(lowered, "fake") || strings.Contains(lowered, "false") {
			label = FakeNewsFake
		} else {
			label = FakeNewsReal
		}
	}

	return models.StageResult{Label: label, Confidence: best.Score}
}

// FakeNewsFallback is the static degraded result; the text is not
// inspected.
func FakeNewsFallback() models.StageResult {
	return models.StageResult{Label: FakeNewsReal, Confidence: 0.0}
}

// SkippedFakeNews is the synthesized result for tweets the trigger stage
// found no claims in. No remote call is made for these.
func SkippedFakeNews() models.StageResult {
	return models.StageResult{
		Label:      FakeNewsReal,
		Confidence: 0.0,
		Note:       fakeNewsSkippedNote,
	}
}
