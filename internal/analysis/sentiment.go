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
	SENTIMENT_MODEL   = "cardiffnlp/twitter-roberta-base-sentiment"
	SENTIMENT_TIMEOUT = 30 * time.Second
)

const (
	SentimentNegative = "Negative"
	SentimentNeutral  = "Neutral"
	SentimentPositive = "Positive"
)

var sentimentLabels = map[string]string{
	"LABEL_0": SentimentNegative,
	"LABEL_1": SentimentNeutral,
	"LABEL_2": SentimentPositive,
}

// AnalyzeSentiment classifies the emotional tone of a tweet. Remote
// failures degrade to the neutral fallback instead of surfacing an error.
func (a *Analyzer) AnalyzeSentiment(ctx context.Context, text string) Outcome {
	if strings.TrimSpace(text) == "" {
		return Outcome{Result: SentimentFallback()}
	}

	ctx, cancel := context.WithTimeout(ctx, SENTIMENT_TIMEOUT)
	defer cancel()

	raw, err := a.hf.Classify(ctx, SENTIMENT_MODEL, models.InferenceRequest{
		Inputs: PreprocessTweet(text),
	})
	if err != nil {
		slog.Warn("[SentimentStage] Using degraded fallback result",
			slog.String("error", err.Error()))
		return Outcome{Result: SentimentFallback(), Degraded: true, Reason: err}
	}

	return Outcome{Result: NormalizeSentiment(raw)}
}

// PreprocessTweet rewrites mentions and links into the placeholders the
// sentiment model was trained on. Running it twice is a no-op.
func PreprocessTweet(text string) string {
	tokens := strings.Split(text, " ")
	for i, token := range tokens {
		switch {
		case strings.HasPrefix(token, "@") && len(token) > 1:
			tokens[i] = "@user"
		case strings.HasPrefix(token, "http"):
			tokens[i] = "http"
		}
	}
	return strings.Join(tokens, " ")
}

// NormalizeSentiment maps a raw model response onto a StageResult.
// Malformed or empty payloads normalize to the neutral default.
func NormalizeSentiment(raw []byte) models.StageResult {
	var candidates [][]models.ClassificationCandidate
	if err := json.Unmarshal(raw, &candidates); err != nil || len(candidates) == 0 || len(candidates[0]) == 0 {
		return SentimentFallback()
	}

	best := candidates[0][0]
	for _, c := range candidates[0][1:] {
		if c.Score > best.Score {
			best = c
		}
	}

	label, ok := sentimentLabels[best.Label]
	if !ok {
		label = SentimentNeutral
	}
	return models.StageResult{Label: label, Confidence: best.Score}
}

// SentimentFallback is the static degraded result; the text is not
// inspected.
func SentimentFallback() models.StageResult {
	return models.StageResult{Label: SentimentNeutral, Confidence: 0.0}
}
