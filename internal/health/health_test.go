package health

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type fakeChecker struct {
	name    string
	healthy atomic.Int32
}

func (f *fakeChecker) Name() string                         { return f.name }
func (f *fakeChecker) IsHealthy() bool                      { return f.healthy.Load() == 1 }
func (f *fakeChecker) Start(context.Context, time.Duration) {}

type fakePinger struct{ fail atomic.Bool }

func (p *fakePinger) HealthPing(context.Context) error {
	if p.fail.Load() {
		return errors.New("down")
	}
	return nil
}

func TestServiceHealthChecker_Transitions(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := &fakeChecker{name: "store"}
	b := &fakeChecker{name: "cache"}
	a.healthy.Store(1)
	b.healthy.Store(1)

	svc := NewServiceHealthChecker(zerolog.Nop(), a, b)
	go svc.Start(ctx, 10*time.Millisecond)

	waitTrue(t, svc.IsHealthy)

	b.healthy.Store(0)
	waitTrue(t, func() bool { return !svc.IsHealthy() })
	assert.Equal(t, map[string]bool{"store": true, "cache": false}, svc.Components())

	b.healthy.Store(1)
	waitTrue(t, svc.IsHealthy)
}

func TestServiceHealthChecker_NoDepsIsHealthy(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc := NewServiceHealthChecker(zerolog.Nop())
	go svc.Start(ctx, 10*time.Millisecond)
	waitTrue(t, svc.IsHealthy)
}

func TestPingChecker(t *testing.T) {
	p := &fakePinger{}
	c := NewPingChecker("store", p, zerolog.Nop(), time.Second)
	assert.False(t, c.IsHealthy())
	assert.Equal(t, "store", c.Name())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Start(ctx, 10*time.Millisecond)
	waitTrue(t, c.IsHealthy)

	p.fail.Store(true)
	waitTrue(t, func() bool { return !c.IsHealthy() })
}

func waitTrue(t *testing.T, pred func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if pred() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met before timeout")
}
