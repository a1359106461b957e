package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/spacesedan/tweelyzer/internal/clients"
)

const HEALTHCHECK_TIMER = 15

// HealthTracker keeps the last observed readiness of each hosted model.
// Models start out assumed healthy until a poll says otherwise.
type HealthTracker struct {
	status map[string]*atomic.Bool
}

func NewHealthTracker(models ...string) *HealthTracker {
	status := make(map[string]*atomic.Bool, len(models))
	for _, model := range models {
		healthy := &atomic.Bool{}
		healthy.Store(true)
		status[model] = healthy
	}
	return &HealthTracker{status: status}
}

// Start launches one poller goroutine per tracked model.
func (ht *HealthTracker) Start(ctx context.Context, hf *clients.HuggingFaceClient) {
	for model, healthy := range ht.status {
		go MonitorModelHealth(ctx, hf, model, healthy)
	}
}

func (ht *HealthTracker) Snapshot() map[string]bool {
	snapshot := make(map[string]bool, len(ht.status))
	for model, healthy := range ht.status {
		snapshot[model] = healthy.Load()
	}
	return snapshot
}

// MonitorModelHealth polls the model status endpoint until ctx is done.
func MonitorModelHealth(ctx context.Context, hf *clients.HuggingFaceClient, model string, healthy *atomic.Bool) {
	ticker := time.NewTicker(time.Second * HEALTHCHECK_TIMER)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			status, err := hf.ModelStatus(checkCtx, model)
			cancel()

			isHealthy := err == nil && status.Loaded
			healthy.Store(isHealthy)
			if !isHealthy {
				slog.Warn("[HealthCheck] Model is not ready",
					slog.String("model", model),
					slog.String("state", status.State))
			}
		}
	}
}
