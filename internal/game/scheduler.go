package game

import "time"

// TaskFunc is one step of a cooperative task. Returning false ends the task.
type TaskFunc func() bool

// Task is a repeating unit of work owned by a Scheduler.
type Task struct {
	id        int
	interval  time.Duration
	next      time.Duration
	fn        TaskFunc
	cancelled bool
	done      bool
}

// Cancel stops the task. It never runs again, including later in an
// Advance that is already in progress. Safe on a nil task.
func (t *Task) Cancel() {
	if t == nil {
		return
	}
	t.cancelled = true
}

// Active reports whether the task will run again.
func (t *Task) Active() bool {
	return t != nil && !t.cancelled && !t.done
}

// Scheduler runs cooperative tasks against a simulated clock. It is driven
// by the owner's per-tick update and is not safe for concurrent use; every
// task runs on the caller's goroutine.
type Scheduler struct {
	now    time.Duration
	tasks  []*Task
	nextID int
}

// NewScheduler creates a scheduler at time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the simulated clock.
func (s *Scheduler) Now() time.Duration { return s.now }

// Every schedules fn to run once per interval, first after one interval.
func (s *Scheduler) Every(interval time.Duration, fn TaskFunc) *Task {
	return s.add(interval, fn, false)
}

// EveryNow runs fn immediately and then once per interval.
func (s *Scheduler) EveryNow(interval time.Duration, fn TaskFunc) *Task {
	return s.add(interval, fn, true)
}

func (s *Scheduler) add(interval time.Duration, fn TaskFunc, immediate bool) *Task {
	if interval <= 0 {
		interval = time.Millisecond
	}
	t := &Task{id: s.nextID, interval: interval, next: s.now + interval, fn: fn}
	s.nextID++
	s.tasks = append(s.tasks, t)
	if immediate {
		s.run(t)
	}
	return t
}

// Advance moves the clock forward by dt and runs every due task at most once,
// in creation order. Tasks created during Advance wait for the next call.
func (s *Scheduler) Advance(dt time.Duration) {
	s.now += dt
	pending := s.tasks
	for _, t := range pending {
		if !t.Active() || t.next > s.now {
			continue
		}
		s.run(t)
	}
	s.compact()
}

func (s *Scheduler) run(t *Task) {
	t.next = s.now + t.interval
	if !t.fn() {
		t.done = true
	}
}

// compact drops finished and cancelled tasks.
func (s *Scheduler) compact() {
	live := s.tasks[:0]
	for _, t := range s.tasks {
		if t.Active() {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(s.tasks); i++ {
		s.tasks[i] = nil
	}
	s.tasks = live
}

// Pending returns the number of live tasks.
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.tasks {
		if t.Active() {
			n++
		}
	}
	return n
}
