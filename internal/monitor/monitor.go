// Package monitor polls the backend on a schedule and exposes the results
// through the observability server, so a deployed backend can be watched
// from the same binary its users run.
package monitor

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/vakeel-dev/vakeel/internal/logging"
	"github.com/vakeel-dev/vakeel/internal/transport"
	"github.com/vakeel-dev/vakeel/pkg/observability"
)

const pollTimeout = 15 * time.Second

// Monitor schedules periodic backend polls.
type Monitor struct {
	client  *transport.Client
	checker *observability.HealthChecker
	log     logging.Logger
	cron    *cron.Cron
}

// New creates a monitor and registers the backend reachability check with
// the health checker.
func New(client *transport.Client, checker *observability.HealthChecker, log logging.Logger) *Monitor {
	checker.RegisterCheck(&observability.HealthCheck{
		Name:     "backend",
		Critical: true,
		CheckFunc: func(ctx context.Context) error {
			_, err := client.Health(ctx)
			return err
		},
	})

	return &Monitor{
		client:  client,
		checker: checker,
		log:     log,
		cron:    cron.New(),
	}
}

// Start begins polling on the given cron schedule ("@every 30s" style
// expressions included) and returns immediately. An initial poll runs right
// away so the first scrape has data.
func (m *Monitor) Start(schedule string) error {
	if _, err := m.cron.AddFunc(schedule, m.poll); err != nil {
		return err
	}
	go m.poll()
	m.cron.Start()
	return nil
}

// Stop stops the schedule and waits for a running poll to finish.
func (m *Monitor) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
}

// poll fetches health and status concurrently and logs the outcome.
func (m *Monitor) poll() {
	ctx, cancel := context.WithTimeout(context.Background(), pollTimeout)
	defer cancel()

	var (
		health *transport.HealthReport
		status *transport.SystemStatus
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		health, err = m.client.Health(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		status, err = m.client.Status(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		m.log.Warnf("backend poll failed: %v", err)
		return
	}

	m.log.Infof("backend %s: service=%s version=%s uptime=%s",
		health.Status, status.Service, status.Version, health.Uptime)
	for _, w := range health.Warnings {
		m.log.Warnf("backend warning: %s", w)
	}
}
