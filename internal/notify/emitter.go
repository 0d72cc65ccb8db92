// Package notify implements the single-slot auto-expiring notification.
package notify

import (
	"time"

	"github.com/fairyhunter13/storefront-simulator/internal/model"
)

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 3 * time.Second

// Emitter holds zero or one live notification. Each Emit bumps the
// generation; Expire only clears the generation it was scheduled for.
type Emitter struct {
	current    *model.Notification
	generation uint64
}

func NewEmitter() *Emitter { return &Emitter{} }

// Emit replaces any live notification and returns its generation.
func (e *Emitter) Emit(message string, sev model.Severity, now time.Time) uint64 {
	e.generation++
	e.current = &model.Notification{Message: message, Severity: sev, CreatedAt: now.UTC()}
	return e.generation
}

// Expire clears the notification if gen is still the live generation.
func (e *Emitter) Expire(gen uint64) bool {
	if e.current == nil || gen != e.generation {
		return false
	}
	e.current = nil
	return true
}

// Current returns a copy of the live notification.
func (e *Emitter) Current() (model.Notification, bool) {
	if e.current == nil {
		return model.Notification{}, false
	}
	return *e.current, true
}
