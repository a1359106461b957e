package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/spacesedan/tweelyzer/internal/models"
)

const HF_API_URL = "https://api-inference.huggingface.co"

var (
	huggingFaceInstance *HuggingFaceClient
	huggingFaceOnce     sync.Once
)

// HuggingFaceClient talks to the hosted Inference API. BaseURL and
// TokenProvider are plain fields so tests can point the client at a
// local server and control credential presence.
type HuggingFaceClient struct {
	Client        *http.Client
	BaseURL       string
	TokenProvider func() string
}

func GetHuggingFaceClient() *HuggingFaceClient {
	huggingFaceOnce.Do(func() {
		baseURL := os.Getenv("HF_API_URL")
		if baseURL == "" {
			baseURL = HF_API_URL
		}
		slog.Info("[HuggingFaceClient] Initializing client",
			slog.String("base_url", baseURL))
		huggingFaceInstance = &HuggingFaceClient{
			Client:  &http.Client{},
			BaseURL: baseURL,
		}
	})
	return huggingFaceInstance
}

// token is resolved on every call rather than cached at startup so the
// credential can be rotated without a restart.
func (h *HuggingFaceClient) token() string {
	if h.TokenProvider != nil {
		return h.TokenProvider()
	}
	return os.Getenv("HUGGINGFACE_API_TOKEN")
}

// Classify posts text to a hosted model and returns the raw response
// body. The caller's context carries the per-stage deadline; the call is
// made at most once, callers decide how to degrade.
func (h *HuggingFaceClient) Classify(ctx context.Context, model string, payload models.InferenceRequest) ([]byte, error) {
	token := h.token()
	if token == "" {
		slog.Error("[HuggingFaceClient] HUGGINGFACE_API_TOKEN is not set")
		return nil, fmt.Errorf("[HuggingFaceClient] HUGGINGFACE_API_TOKEN is not set: %w", ErrMissingToken)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("[HuggingFaceClient] failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.BaseURL+"/models/"+model, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("[HuggingFaceClient] failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, classifyTransportError(model, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("[HuggingFaceClient] failed to read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		// the API reports model-level failures inside a 200 body
		var apiErr models.InferenceError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			if strings.Contains(strings.ToLower(apiErr.Error), "loading") {
				slog.Warn("[HuggingFaceClient] Model is still loading",
					slog.String("model", model),
					slog.Float64("estimated_time", apiErr.EstimatedTime))
				return nil, fmt.Errorf("[HuggingFaceClient] %s: %w", apiErr.Error, ErrModelLoading)
			}
			return nil, fmt.Errorf("[HuggingFaceClient] %s: %w", apiErr.Error, ErrUpstream)
		}
		return respBody, nil
	case http.StatusTooManyRequests:
		slog.Warn("[HuggingFaceClient] Rate limit exceeded",
			slog.String("model", model))
		return nil, fmt.Errorf("[HuggingFaceClient] status %d: %w", resp.StatusCode, ErrRateLimited)
	case http.StatusUnauthorized:
		slog.Error("[HuggingFaceClient] Invalid API token, check credentials")
		return nil, fmt.Errorf("[HuggingFaceClient] status %d: %w", resp.StatusCode, ErrUnauthorized)
	case http.StatusServiceUnavailable:
		slog.Warn("[HuggingFaceClient] Model service overloaded",
			slog.String("model", model))
		return nil, fmt.Errorf("[HuggingFaceClient] status %d: %w", resp.StatusCode, ErrOverloaded)
	default:
		slog.Warn("[HuggingFaceClient] Unexpected response",
			slog.String("model", model),
			slog.Int("status", resp.StatusCode),
			getPreview(respBody))
		return nil, fmt.Errorf("[HuggingFaceClient] status %d: %s: %w", resp.StatusCode, preview(respBody), ErrUpstream)
	}
}

// ModelStatus reports whether a hosted model is loaded and ready.
func (h *HuggingFaceClient) ModelStatus(ctx context.Context, model string) (models.ModelStatus, error) {
	var status models.ModelStatus

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.BaseURL+"/status/"+model, nil)
	if err != nil {
		return status, fmt.Errorf("[HuggingFaceClient] failed to build status request: %w", err)
	}
	req.Header.Set("User-Agent", USER_AGENT)
	if token := h.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		return status, classifyTransportError(model, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return status, fmt.Errorf("[HuggingFaceClient] status endpoint returned %d: %w", resp.StatusCode, ErrUpstream)
	}

	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return status, fmt.Errorf("[HuggingFaceClient] failed to decode status response: %w", err)
	}
	return status, nil
}

func classifyTransportError(model string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		slog.Warn("[HuggingFaceClient] Request timed out",
			slog.String("model", model))
		return fmt.Errorf("[HuggingFaceClient] %v: %w", err, ErrTimeout)
	}
	slog.Warn("[HuggingFaceClient] Request failed",
		slog.String("model", model),
		slog.String("error", err.Error()))
	return fmt.Errorf("[HuggingFaceClient] %v: %w", err, ErrConnection)
}

func getPreview(respBody []byte) slog.Attr {
	return slog.String("raw_response", preview(respBody))
}

func preview(respBody []byte) string {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return raw
}
