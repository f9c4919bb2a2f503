package usecase

import (
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
)

// IntervalFunc returns the delay before the next tick. It is re-evaluated
// for every scheduled fire, so callers can randomize the cadence (thundering
// herd avoidance) or vary it over the session's lifetime.
type IntervalFunc func() time.Duration

// RandomInterval returns an IntervalFunc yielding a uniform value in
// [min, max). Used to keep many clients from polling in lockstep.
func RandomInterval(min, max time.Duration) IntervalFunc {
	if max <= min {
		return func() time.Duration { return min }
	}
	return func() time.Duration {
		return min + time.Duration(rand.Int63n(int64(max-min)))
	}
}

// PollScheduler triggers a refresh callback at recomputed intervals.
//
// Invariants:
//   - at most one timer is live per scheduler; Start cancels and replaces
//     any active timer (idempotent restart, never double-fires);
//   - Stop is a safe no-op when idle, and after Stop no further tick fires
//     until Start is called again.
type PollScheduler struct {
	mu    sync.Mutex
	gen   uint64
	timer *time.Timer
	log   *zap.SugaredLogger
}

func NewPollScheduler(log *zap.SugaredLogger) *PollScheduler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &PollScheduler{log: log}
}

// Start begins ticking. Any previously active timer is canceled first.
func (s *PollScheduler) Start(interval IntervalFunc, onTick func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
	s.gen++
	s.scheduleLocked(s.gen, interval, onTick)
	s.log.Debugf("[scheduler] started gen=%d", s.gen)
}

// Stop cancels the active timer, if any.
func (s *PollScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Bump the generation so an already-fired callback waiting on the mutex
	// cannot reschedule itself.
	s.cancelLocked()
	s.gen++
}

// Active reports whether a timer is currently scheduled.
func (s *PollScheduler) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

func (s *PollScheduler) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *PollScheduler) scheduleLocked(gen uint64, interval IntervalFunc, onTick func()) {
	s.timer = time.AfterFunc(interval(), func() {
		s.mu.Lock()
		if s.gen != gen {
			// Lost the race against Stop or a restart.
			s.mu.Unlock()
			return
		}
		s.scheduleLocked(gen, interval, onTick)
		s.mu.Unlock()

		onTick()
	})
}
