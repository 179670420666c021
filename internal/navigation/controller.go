// Package navigation owns the screen stack. It performs no rendering: the
// presentation layer subscribes to changes and draws whatever is current.
package navigation

import (
	"fmt"
	"sync"
	"time"

	"letterpath/internal/logger"
	"letterpath/internal/models"
)

// Listener receives the new current screen after each stack mutation.
// Listeners run synchronously on the goroutine that mutated the stack, in
// registration order, after the controller's lock has been released, so a
// listener may call back into the controller.
type Listener func(current models.Screen)

type subscription struct {
	id int
	fn Listener
}

// Controller is a stack-based state machine over models.Screen. The stack
// is never empty.
type Controller struct {
	mu         sync.Mutex
	stack      []models.Screen
	generation uint64
	listeners  []subscription
	nextID     int
	timers     map[*time.Timer]struct{}
	log        *logger.Logger
}

// NewController creates a controller whose stack holds only root
func NewController(root models.Screen, log *logger.Logger) *Controller {
	mustScreen("new controller", root)
	if log == nil {
		log = logger.NewNop()
	}
	return &Controller{
		stack:  []models.Screen{root},
		timers: make(map[*time.Timer]struct{}),
		log:    log.With("component", "navigation"),
	}
}

// Subscribe registers fn for change notifications and returns a function
// that removes it
func (c *Controller) Subscribe(fn Listener) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	c.listeners = append(c.listeners, subscription{id: id, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.listeners {
			if s.id == id {
				c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

// Current returns the top of the stack
func (c *Controller) Current() models.Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stack[len(c.stack)-1]
}

// Stack returns a copy of the whole stack, bottom first
func (c *Controller) Stack() []models.Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Screen, len(c.stack))
	copy(out, c.stack)
	return out
}

// Depth returns the number of screens on the stack
func (c *Controller) Depth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.stack)
}

// Push appends screen and makes it current
func (c *Controller) Push(screen models.Screen) {
	mustScreen("push", screen)
	c.mutate(func() bool {
		c.stack = append(c.stack, screen)
		return true
	})
}

// Pop removes the top screen unless it is the only one, and returns the
// resulting current screen. Popping the root is a no-op and emits nothing.
func (c *Controller) Pop() models.Screen {
	return c.mutate(func() bool {
		if len(c.stack) <= 1 {
			return false
		}
		c.stack[len(c.stack)-1] = nil
		c.stack = c.stack[:len(c.stack)-1]
		return true
	})
}

// Reset replaces the whole stack with [screen]
func (c *Controller) Reset(screen models.Screen) {
	mustScreen("reset", screen)
	c.mutate(func() bool {
		c.stack = []models.Screen{screen}
		return true
	})
}

// Replace swaps the top screen for screen, keeping the depth unchanged
func (c *Controller) Replace(screen models.Screen) {
	mustScreen("replace", screen)
	c.mutate(func() bool {
		c.stack[len(c.stack)-1] = screen
		return true
	})
}

// FinalizeOnboarding drops the onboarding history and lands on the main app
func (c *Controller) FinalizeOnboarding() {
	c.Reset(models.MainApp{})
}

// ResetOnboarding sends the learner back to the start of onboarding
func (c *Controller) ResetOnboarding() {
	c.Reset(models.Login{})
}

// Advance follows the onboarding graph from the current screen. The last
// onboarding step finalizes onboarding instead of pushing. ok is false when
// the current screen has no onboarding successor.
func (c *Controller) Advance() (models.Screen, bool) {
	next, ok := OnboardingNext(c.Current())
	if !ok {
		return nil, false
	}
	if next == (models.MainApp{}) {
		c.FinalizeOnboarding()
	} else {
		c.Push(next)
	}
	return next, true
}

// mustScreen rejects a nil screen before it can reach the stack
func mustScreen(op string, s models.Screen) {
	if s == nil {
		panic(fmt.Sprintf("navigation: %s with nil screen", op))
	}
}

// mutate applies fn under the lock. When fn reports a change, pending
// scheduled advances are cancelled and listeners are notified.
func (c *Controller) mutate(fn func() bool) models.Screen {
	c.mu.Lock()
	changed := fn()
	current := c.stack[len(c.stack)-1]
	var listeners []subscription
	if changed {
		c.generation++
		c.stopTimersLocked()
		listeners = make([]subscription, len(c.listeners))
		copy(listeners, c.listeners)
	}
	depth := len(c.stack)
	c.mu.Unlock()

	if changed {
		c.log.Debug("screen changed", "screen", current.Kind(), "depth", depth)
		for _, l := range listeners {
			l.fn(current)
		}
	}
	return current
}
