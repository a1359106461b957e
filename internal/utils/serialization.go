package utils

import (
	"encoding/json"
	"log/slog"

	"github.com/spacesedan/tweelyzer/internal/models"
)

// DecodeAnalysisRequest parses a request-topic payload. Malformed
// payloads are logged and returned as errors so the caller can drop
// the message instead of redelivering it forever.
func DecodeAnalysisRequest(data []byte) (models.AnalysisRequest, error) {
	var req models.AnalysisRequest
	if err := json.Unmarshal(data, &req); err != nil {
		slog.Warn("[KafkaUtils] Failed to decode analysis request",
			slog.String("error", err.Error()))
		return models.AnalysisRequest{}, err
	}
	return req, nil
}

func HandleConsumerError(err error) {
	if err == nil {
		return
	}
	slog.Error("[KafkaUtils] Kafka Consumer Error",
		slog.String("error", err.Error()))
}
