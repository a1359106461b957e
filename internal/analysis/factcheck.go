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
	FACT_CHECK_MODEL   = "facebook/bart-large-mnli"
	FACT_CHECK_TIMEOUT = 10 * time.Second
)

const (
	FactCheckNeeded    = "Needs fact check"
	FactCheckNotNeeded = "No fact check needed"
)

var factCheckCandidateLabels = []string{FactCheckNeeded, FactCheckNotNeeded}

const (
	factCheckKeywordNote = "Triggered by keyword-based fallback due to API unavailability"
	factCheckDefaultNote = "Fallback analysis - API unavailable"
)

// DetectFactCheckTrigger decides whether the tweet makes claims worth
// fact checking, via zero-shot classification against the candidate
// labels. Remote failures degrade to the keyword scan.
func (a *Analyzer) DetectFactCheckTrigger(ctx context.Context, text string) Outcome {
	if strings.TrimSpace(text) == "" {
		return Outcome{Result: models.StageResult{Label: FactCheckNotNeeded, Confidence: 0.0}}
	}

	ctx, cancel := context.WithTimeout(ctx, FACT_CHECK_TIMEOUT)
	defer cancel()

	raw, err := a.hf.Classify(ctx, FACT_CHECK_MODEL, models.InferenceRequest{
		Inputs:     text,
		Parameters: &models.ZeroShotParameters{CandidateLabels: factCheckCandidateLabels},
	})
	if err != nil {
		result := FactCheckFallback(text, a.keywords)
		slog.Warn("[FactCheckStage] Using degraded fallback result",
			slog.String("label", result.Label),
			slog.String("error", err.Error()))
		return Outcome{Result: result, Degraded: true, Reason: err}
	}

	return Outcome{Result: NormalizeFactCheck(raw)}
}

// NormalizeFactCheck reads the top entry of the pre-sorted label/score
// slices. Malformed or empty payloads normalize to the no-check default.
func NormalizeFactCheck(raw []byte) models.StageResult {
	var resp models.ZeroShotResponse
	if err := json.Unmarshal(raw, &resp); err != nil || len(resp.Labels) == 0 || len(resp.Scores) == 0 {
		return models.StageResult{Label: FactCheckNotNeeded, Confidence: 0.0}
	}

	return models.StageResult{Label: resp.Labels[0], Confidence: resp.Scores[0]}
}

// FactCheckFallback scans the lower-cased text for claim-like terms.
// A hit flags the tweet for checking at reduced confidence.
func FactCheckFallback(text string, keywords []string) models.StageResult {
	lowered := strings.ToLower(text)
	for _, term := range keywords {
		if strings.Contains(lowered, term) {
			return models.StageResult{
				Label:      FactCheckNeeded,
				Confidence: 0.7,
				Note:       factCheckKeywordNote,
			}
		}
	}

	return models.StageResult{
		Label:      FactCheckNotNeeded,
		Confidence: 0.6,
		Note:       factCheckDefaultNote,
	}
}
