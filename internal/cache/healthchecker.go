package cache

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/sanzuisann/my-chat-app/internal/health"
)

// NewHealthChecker probes Redis with PING on every health interval.
func NewHealthChecker(r *Redis, log zerolog.Logger, probeTimeout time.Duration) *health.PingChecker {
	return health.NewPingChecker("cache", r, log, probeTimeout)
}
