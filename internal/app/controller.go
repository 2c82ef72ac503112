package app

import (
	"context"
	"log"
	"time"

	"github.com/Dicklesworthstone/rtop/internal/dispatch"
	"github.com/Dicklesworthstone/rtop/internal/model"
)

// Sampler produces a new snapshot of the host.
type Sampler interface {
	Sample(ctx context.Context) model.Sample
}

// Controller owns the State and is driven from a single goroutine: the
// terminal loop calls Handle for each input event and Tick when its wait for
// input times out. Nothing here is safe for concurrent use.
type Controller struct {
	state    State
	sampler  Sampler
	live     dispatch.LiveTable
	interval time.Duration
	lastTick time.Time
	now      func() time.Time
}

func NewController(s Sampler, live dispatch.LiveTable, interval time.Duration, sort model.SortKey) *Controller {
	return &Controller{
		state:    Initial(sort),
		sampler:  s,
		live:     live,
		interval: interval,
		now:      time.Now,
	}
}

// State returns the current state for rendering.
func (c *Controller) State() State { return c.state }

// Interval is the refresh interval.
func (c *Controller) Interval() time.Duration { return c.interval }

// Start takes the initial sample.
func (c *Controller) Start(ctx context.Context) {
	c.resample(ctx)
}

// Timeout is how long the loop may wait for input before the next resample
// is due: max(0, interval - time since the last one).
func (c *Controller) Timeout() time.Duration {
	left := c.interval - c.now().Sub(c.lastTick)
	if left < 0 {
		return 0
	}
	return left
}

// Handle applies cmd in full, runs any dispatch it asks for, then resamples
// if the interval has elapsed. It reports true when the loop must exit; a
// quit skips the pending resample.
func (c *Controller) Handle(ctx context.Context, cmd Command) (quit bool) {
	next, eff := c.state.Apply(cmd)
	switch eff.Kind {
	case Exit:
		log.Printf("quit")
		return true
	case SendSignal:
		res := dispatch.Dispatch(ctx, eff.Target, eff.Signal, c.live)
		if res.Err != nil {
			log.Printf("dispatch: %s: %v", res.Outcome, res.Err)
		} else {
			log.Printf("dispatch: %s", res)
		}
		next.Last = &res
	}
	c.state = next
	c.Tick(ctx)
	return false
}

// Tick resamples when the interval has elapsed and reports whether it did.
func (c *Controller) Tick(ctx context.Context) bool {
	if c.Timeout() > 0 {
		return false
	}
	c.resample(ctx)
	return true
}

func (c *Controller) resample(ctx context.Context) {
	c.state = c.state.WithSample(c.sampler.Sample(ctx))
	c.lastTick = c.now()
}
