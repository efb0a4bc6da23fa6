package utils

import (
	"context"
	"sync"
	"time"
)

// HealthCheck pings one dependency.
type HealthCheck func(ctx context.Context) error

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Components map[string]bool `json:"components"`
	CheckedAt  time.Time       `json:"checkedAt"`
}

// Healthy reports whether every component answered the last check.
func (h HealthStatus) Healthy() bool {
	for _, ok := range h.Components {
		if !ok {
			return false
		}
	}
	return true
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// RunHealthChecks runs every check once and stores the snapshot.
func RunHealthChecks(ctx context.Context, checks map[string]HealthCheck) HealthStatus {
	status := HealthStatus{
		Components: make(map[string]bool, len(checks)),
		CheckedAt:  time.Now().UTC(),
	}
	for name, check := range checks {
		cctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		status.Components[name] = check(cctx) == nil
		cancel()
	}

	mu.Lock()
	currentHealth = status
	mu.Unlock()
	return status
}

// StartHealthMonitor performs periodic health checks until ctx is cancelled.
func StartHealthMonitor(ctx context.Context, interval time.Duration, checks map[string]HealthCheck) {
	RunHealthChecks(ctx, checks)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				RunHealthChecks(ctx, checks)
			}
		}
	}()
}
