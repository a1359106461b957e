// Package analysis runs the staged classification pipeline: sentiment,
// fact-check trigger, and conditionally fake news detection. Every stage
// degrades to a local fallback when its hosted model cannot answer, so
// the pipeline itself never fails on remote unavailability.
package analysis

import (
	"context"
	"log/slog"
	"time"

	"github.com/spacesedan/tweelyzer/internal/clients"
	"github.com/spacesedan/tweelyzer/internal/models"
)

// Outcome pairs a stage result with how it was produced. Degraded
// results already carry a usable value; Reason records what forced the
// fallback.
type Outcome struct {
	Result   models.StageResult
	Degraded bool
	Reason   error
}

type Analyzer struct {
	hf       *clients.HuggingFaceClient
	keywords []string
}

func NewAnalyzer(hf *clients.HuggingFaceClient) *Analyzer {
	return &Analyzer{
		hf:       hf,
		keywords: FactCheckKeywords(),
	}
}

// Run executes the stages in order. The fake news stage only runs when
// the trigger stage labeled the tweet as needing a fact check; otherwise
// its result is synthesized locally. Each stage runs at most once.
func (a *Analyzer) Run(ctx context.Context, text string) models.AnalysisResult {
	start := time.Now()

	sentiment := a.AnalyzeSentiment(ctx, text)
	trigger := a.DetectFactCheckTrigger(ctx, text)

	var fakeNews Outcome
	if trigger.Result.Label == FactCheckNeeded {
		fakeNews = a.DetectFakeNews(ctx, text)
	} else {
		fakeNews = Outcome{Result: SkippedFakeNews()}
	}

	degraded := 0
	for _, outcome := range []Outcome{sentiment, trigger, fakeNews} {
		if outcome.Degraded {
			degraded++
		}
	}

	if degraded > 0 {
		slog.Warn("[AnalysisPipeline] Completed with degraded stages",
			slog.Int("degraded_stages", degraded),
			slog.Duration("elapsed", time.Since(start)))
	} else {
		slog.Info("[AnalysisPipeline] Analysis complete",
			slog.Duration("elapsed", time.Since(start)))
	}

	return models.AnalysisResult{
		Sentiment:         sentiment.Result,
		FactCheckTrigger:  trigger.Result,
		FakeNewsDetection: fakeNews.Result,
	}
}
