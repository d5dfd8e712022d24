// Package health tracks dependency liveness for the /health endpoint and startup gating.
package health

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// HealthChecker is implemented by component-level checkers (store, cache).
type HealthChecker interface {
	Name() string
	IsHealthy() bool
	Start(ctx context.Context, interval time.Duration)
}

// HealthPinger is a component that can be probed. HealthPing returns nil when healthy.
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}

// ServiceHealthChecker folds component checkers into one service flag.
type ServiceHealthChecker struct {
	healthy atomic.Int32
	deps    []HealthChecker
	log     zerolog.Logger
}

func NewServiceHealthChecker(log zerolog.Logger, deps ...HealthChecker) *ServiceHealthChecker {
	return &ServiceHealthChecker{deps: deps, log: log}
}

// IsHealthy returns the cached service flag.
func (h *ServiceHealthChecker) IsHealthy() bool { return h.healthy.Load() == 1 }

// Components reports the cached state of each dependency by name.
func (h *ServiceHealthChecker) Components() map[string]bool {
	out := make(map[string]bool, len(h.deps))
	for _, d := range h.deps {
		out[d.Name()] = d.IsHealthy()
	}
	return out
}

// Start re-evaluates dependencies every interval until ctx is done, logging transitions.
func (h *ServiceHealthChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	prev := int32(-1)
	eval := func() {
		cur := int32(1)
		for _, d := range h.deps {
			if !d.IsHealthy() {
				cur = 0
				break
			}
		}
		h.healthy.Store(cur)
		if cur == prev {
			return
		}
		if cur == 1 {
			h.log.Info().Msg("service health: UP")
		} else {
			h.log.Error().Interface("components", h.Components()).Msg("service health: DOWN")
		}
		prev = cur
	}

	eval()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			eval()
		}
	}
}

// PingChecker probes a HealthPinger on a fixed interval and caches the result.
type PingChecker struct {
	name         string
	target       HealthPinger
	healthy      atomic.Int32
	log          zerolog.Logger
	probeTimeout time.Duration
}

// NewPingChecker starts unhealthy until the first successful probe.
func NewPingChecker(name string, target HealthPinger, log zerolog.Logger, probeTimeout time.Duration) *PingChecker {
	if probeTimeout <= 0 {
		probeTimeout = 2 * time.Second
	}
	return &PingChecker{name: name, target: target, log: log, probeTimeout: probeTimeout}
}

func (c *PingChecker) Name() string { return c.name }

func (c *PingChecker) IsHealthy() bool { return c.healthy.Load() == 1 }

// Probe runs one check immediately and records the outcome.
func (c *PingChecker) Probe(ctx context.Context) bool {
	pctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()
	if err := c.target.HealthPing(pctx); err != nil {
		c.log.Error().Stack().Str("checker", c.name).Err(err).Msg("health probe failed")
		c.healthy.Store(0)
		return false
	}
	c.healthy.Store(1)
	return true
}

func (c *PingChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.Probe(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Probe(ctx)
		}
	}
}
