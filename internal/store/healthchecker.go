package store

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/sanzuisann/my-chat-app/internal/health"
)

// NewHealthChecker probes the store's connection pool. It reports unhealthy
// until the first successful ping.
func NewHealthChecker(s Store, log zerolog.Logger, probeTimeout time.Duration) *health.PingChecker {
	return health.NewPingChecker("store", s, log, probeTimeout)
}
