package game

import "time"

type TimedEventType uint8

const (
	TimedChooseWordOver TimedEventType = iota
	TimedPrePlayOver
	TimedPlayOver
	TimedPostPlayOver
	TimedGiveHint
	TimedInactiveDrawer
)

func (t TimedEventType) String() string {
	switch t {
	case TimedChooseWordOver:
		return "choose_word_over"
	case TimedPrePlayOver:
		return "pre_play_over"
	case TimedPlayOver:
		return "play_over"
	case TimedPostPlayOver:
		return "post_play_over"
	case TimedGiveHint:
		return "give_hint"
	case TimedInactiveDrawer:
		return "inactive_drawer"
	}
	return "unknown"
}

// TimedEvent is a capability token, not a handle on state: the engine
// mints it, the scheduler holds it until At (epoch millis, fire no
// earlier than), and TimedAdvance validates it against the live round
// before it can do anything. There is no cancel API; a token for a round
// or phase that has moved on simply does nothing when it lands.
type TimedEvent struct {
	RoundID uint32
	Phase   Phase
	Type    TimedEventType
	At      int64
}

// Scheduler is the boundary the surrounding runtime implements. Schedule
// must hand the token back, unmodified, no earlier than tev.At.
type Scheduler interface {
	Schedule(tev TimedEvent)
}

// clockScheduler fires tokens on the wall clock and delivers them to the
// sink, one goroutine per pending token.
type clockScheduler struct {
	clock func() time.Time
	sink  func(TimedEvent)
}

func NewClockScheduler(clock func() time.Time, sink func(TimedEvent)) Scheduler {
	return &clockScheduler{clock: clock, sink: sink}
}

func (s *clockScheduler) Schedule(tev TimedEvent) {
	delay := time.Duration(tev.At-s.clock().UnixMilli()) * time.Millisecond
	if delay < 0 {
		delay = 0
	}
	time.AfterFunc(delay, func() {
		s.sink(tev)
	})
}
