package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheckerAggregation(t *testing.T) {
	hc := NewHealthChecker()
	hc.RegisterCheck(&HealthCheck{
		Name:      "ok",
		CheckFunc: func(ctx context.Context) error { return nil },
	})

	resp := hc.Check(context.Background())
	assert.Equal(t, HealthStatusHealthy, resp.Status)
	require.Contains(t, resp.Checks, "ok")
	assert.Equal(t, HealthStatusHealthy, resp.Checks["ok"].Status)
}

func TestHealthCheckerCriticalFailure(t *testing.T) {
	hc := NewHealthChecker()
	hc.RegisterCheck(&HealthCheck{
		Name:      "backend",
		Critical:  true,
		CheckFunc: func(ctx context.Context) error { return errors.New("connection refused") },
	})
	hc.RegisterCheck(&HealthCheck{
		Name:      "optional",
		CheckFunc: func(ctx context.Context) error { return errors.New("flaky") },
	})

	resp := hc.Check(context.Background())
	assert.Equal(t, HealthStatusUnhealthy, resp.Status)
	assert.Equal(t, HealthStatusDegraded, resp.Checks["optional"].Status,
		"non-critical failure should only degrade")
}

func TestHealthCheckerNonCriticalFailureDegrades(t *testing.T) {
	hc := NewHealthChecker()
	hc.RegisterCheck(&HealthCheck{
		Name:      "flaky",
		CheckFunc: func(ctx context.Context) error { return errors.New("transient") },
	})

	resp := hc.Check(context.Background())
	assert.Equal(t, HealthStatusDegraded, resp.Status)
}

func TestHealthCheckerTimeout(t *testing.T) {
	hc := NewHealthChecker()
	hc.RegisterCheck(&HealthCheck{
		Name:     "slow",
		Critical: true,
		Timeout:  20 * time.Millisecond,
		CheckFunc: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	})

	resp := hc.Check(context.Background())
	assert.Equal(t, HealthStatusUnhealthy, resp.Status, "a timed-out critical check is unhealthy")
}
