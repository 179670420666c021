package navigation

import (
	"time"

	"letterpath/internal/models"
)

// ScheduleAdvance replaces the current screen with target after delay. The
// callback is bound to the screen that is current right now: any stack
// mutation before the delay elapses cancels it, as does calling the
// returned cancel function. It never fires against a screen it was not
// scheduled for.
func (c *Controller) ScheduleAdvance(delay time.Duration, target models.Screen) (cancel func()) {
	mustScreen("schedule advance", target)
	c.mu.Lock()
	defer c.mu.Unlock()

	gen := c.generation
	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		c.mu.Lock()
		if _, pending := c.timers[timer]; !pending || c.generation != gen {
			c.mu.Unlock()
			return
		}
		delete(c.timers, timer)
		c.mu.Unlock()

		c.mutate(func() bool {
			if c.generation != gen {
				return false
			}
			c.stack[len(c.stack)-1] = target
			return true
		})
	})
	c.timers[timer] = struct{}{}

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if _, pending := c.timers[timer]; pending {
			timer.Stop()
			delete(c.timers, timer)
		}
	}
}

// Close cancels every pending scheduled advance
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimersLocked()
}

func (c *Controller) stopTimersLocked() {
	for t := range c.timers {
		t.Stop()
		delete(c.timers, t)
	}
}
