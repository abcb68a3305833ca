package session

import "time"

// TimerID identifies a scheduled timer. The zero value is never issued.
type TimerID uint64

type timer struct {
	id    TimerID
	at    time.Duration
	every time.Duration
	fn    func()
}

// Scheduler is a virtual clock. Time only moves when Advance is called, so
// the owner decides what real time (or test time) maps onto it.
type Scheduler struct {
	now    time.Duration
	nextID TimerID
	timers map[TimerID]*timer
}

// NewScheduler creates a scheduler at time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{timers: make(map[TimerID]*timer)}
}

// Now returns the virtual time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After runs fn once, d from now.
func (s *Scheduler) After(d time.Duration, fn func()) TimerID {
	return s.add(d, 0, fn)
}

// Every runs fn every d, starting d from now. d must be positive.
func (s *Scheduler) Every(d time.Duration, fn func()) TimerID {
	if d <= 0 {
		d = time.Millisecond
	}
	return s.add(d, d, fn)
}

func (s *Scheduler) add(d, every time.Duration, fn func()) TimerID {
	if d < 0 {
		d = 0
	}
	s.nextID++
	t := &timer{id: s.nextID, at: s.now + d, every: every, fn: fn}
	s.timers[t.id] = t
	return t.id
}

// Cancel stops a timer. It returns false if the timer already fired or was
// cancelled.
func (s *Scheduler) Cancel(id TimerID) bool {
	if _, ok := s.timers[id]; !ok {
		return false
	}
	delete(s.timers, id)
	return true
}

// Remaining returns the time until timer id fires.
func (s *Scheduler) Remaining(id TimerID) (time.Duration, bool) {
	t, ok := s.timers[id]
	if !ok {
		return 0, false
	}
	return t.at - s.now, true
}

// Pending returns the number of live timers.
func (s *Scheduler) Pending() int {
	return len(s.timers)
}

// Advance moves the clock forward by dt, firing due timers in time order
// (ties by creation order). Callbacks may schedule or cancel timers.
// It returns how many callbacks ran.
func (s *Scheduler) Advance(dt time.Duration) int {
	if dt < 0 {
		dt = 0
	}
	target := s.now + dt
	fired := 0

	for {
		next := s.earliest(target)
		if next == nil {
			break
		}

		s.now = next.at
		if next.every > 0 {
			next.at += next.every
		} else {
			delete(s.timers, next.id)
		}
		next.fn()
		fired++
	}

	s.now = target
	return fired
}

func (s *Scheduler) earliest(limit time.Duration) *timer {
	var best *timer
	for _, t := range s.timers {
		if t.at > limit {
			continue
		}
		if best == nil || t.at < best.at || (t.at == best.at && t.id < best.id) {
			best = t
		}
	}
	return best
}
