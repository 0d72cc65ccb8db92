package schedule

import (
	"time"
)

// Scope names the owner of a delayed task. Tearing down the owner cancels
// all of its pending tasks.
type Scope string

// TaskID identifies a scheduled task.
type TaskID uint64

type task struct {
	scope Scope
	timer Timer
}

// Tasks tracks delayed tasks by scope. It is not safe for concurrent use
// and is meant to be owned by a single event loop.
type Tasks struct {
	clock   Clock
	next    TaskID
	pending map[TaskID]task
}

func NewTasks(c Clock) *Tasks {
	return &Tasks{clock: c, pending: make(map[TaskID]task)}
}

// Schedule arranges for fire(id) to be called after d. fire runs on the
// clock's goroutine and should only hand the id back to the owning loop,
// which then calls Complete.
func (t *Tasks) Schedule(scope Scope, d time.Duration, fire func(TaskID)) TaskID {
	t.next++
	id := t.next
	timer := t.clock.AfterFunc(d, func() { fire(id) })
	t.pending[id] = task{scope: scope, timer: timer}
	return id
}

// Complete reports whether id was still pending and forgets it. A task that
// was cancelled after its timer fired reports false.
func (t *Tasks) Complete(id TaskID) bool {
	if _, ok := t.pending[id]; !ok {
		return false
	}
	delete(t.pending, id)
	return true
}

// Has reports whether id is still pending.
func (t *Tasks) Has(id TaskID) bool {
	_, ok := t.pending[id]
	return ok
}

// Cancel stops a single pending task.
func (t *Tasks) Cancel(id TaskID) bool {
	tk, ok := t.pending[id]
	if !ok {
		return false
	}
	tk.timer.Stop()
	delete(t.pending, id)
	return true
}

// CancelScope stops every pending task owned by scope and returns how many
// were cancelled.
func (t *Tasks) CancelScope(scope Scope) int {
	n := 0
	for id, tk := range t.pending {
		if tk.scope != scope {
			continue
		}
		tk.timer.Stop()
		delete(t.pending, id)
		n++
	}
	return n
}

// CancelAll stops everything.
func (t *Tasks) CancelAll() int {
	n := len(t.pending)
	for id, tk := range t.pending {
		tk.timer.Stop()
		delete(t.pending, id)
	}
	return n
}

// Pending returns the number of pending tasks, optionally for one scope.
func (t *Tasks) Pending(scope Scope) int {
	if scope == "" {
		return len(t.pending)
	}
	n := 0
	for _, tk := range t.pending {
		if tk.scope == scope {
			n++
		}
	}
	return n
}
