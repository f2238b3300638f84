// Package schedule tracks cancellable one-shot tasks, at most one per concern.
package schedule

import (
	"sort"
	"time"

	"github.com/jonboulle/clockwork"
)

// Concern names one kind of scheduled work.
type Concern int

const (
	// Prestart advances the get-ready / 3-2-1 / GO sequence.
	Prestart Concern = iota
	// Frame refreshes the running clock.
	Frame
	// Tick plays the final-seconds tick.
	Tick
	// Flash toggles the clock visibility after time runs out.
	Flash
)

func (c Concern) String() string {
	switch c {
	case Prestart:
		return "prestart"
	case Frame:
		return "frame"
	case Tick:
		return "tick"
	case Flash:
		return "flash"
	default:
		return "unknown"
	}
}

// Task is a scheduled firing of a concern.
type Task struct {
	ID      uint64
	Concern Concern
	Due     time.Time
}

// Scheduler holds the current task of each concern. It is not safe for
// concurrent use; callers drive it from a single event loop.
type Scheduler struct {
	clock  clockwork.Clock
	nextID uint64
	tasks  map[Concern]Task
}

// New returns an empty Scheduler reading time from clock.
func New(clock clockwork.Clock) *Scheduler {
	return &Scheduler{
		clock: clock,
		tasks: map[Concern]Task{},
	}
}

// Now returns the scheduler clock's current time.
func (s *Scheduler) Now() time.Time {
	return s.clock.Now()
}

// Schedule arranges for c to fire after delay, replacing any pending task of
// the same concern.
func (s *Scheduler) Schedule(c Concern, delay time.Duration) Task {
	return s.ScheduleAt(c, s.clock.Now().Add(delay))
}

// ScheduleAt arranges for c to fire at due, replacing any pending task of the
// same concern.
func (s *Scheduler) ScheduleAt(c Concern, due time.Time) Task {
	s.nextID++
	task := Task{ID: s.nextID, Concern: c, Due: due}
	s.tasks[c] = task
	return task
}

// Cancel drops the pending tasks of the given concerns.
func (s *Scheduler) Cancel(concerns ...Concern) {
	for _, c := range concerns {
		delete(s.tasks, c)
	}
}

// CancelAll drops every pending task.
func (s *Scheduler) CancelAll() {
	s.tasks = map[Concern]Task{}
}

// Active reports whether c has a pending task.
func (s *Scheduler) Active(c Concern) bool {
	_, ok := s.tasks[c]
	return ok
}

// Len returns the number of pending tasks.
func (s *Scheduler) Len() int {
	return len(s.tasks)
}

// Due returns the pending tasks due at or before now, earliest first.
func (s *Scheduler) Due(now time.Time) []Task {
	var due []Task
	for _, task := range s.tasks {
		if !task.Due.After(now) {
			due = append(due, task)
		}
	}
	sortTasks(due)
	return due
}

// Next returns the earliest pending task.
func (s *Scheduler) Next() (Task, bool) {
	if len(s.tasks) == 0 {
		return Task{}, false
	}
	all := make([]Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		all = append(all, task)
	}
	sortTasks(all)
	return all[0], true
}

// Take consumes task if it is still the pending task of its concern. A task
// that was cancelled or replaced is stale and Take returns false.
func (s *Scheduler) Take(task Task) bool {
	current, ok := s.tasks[task.Concern]
	if !ok || current.ID != task.ID {
		return false
	}
	delete(s.tasks, task.Concern)
	return true
}

func sortTasks(tasks []Task) {
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].Due.Equal(tasks[j].Due) {
			return tasks[i].ID < tasks[j].ID
		}
		return tasks[i].Due.Before(tasks[j].Due)
	})
}
