package domain

import "time"

// Reading is one timer sample.
type Reading struct {
	Elapsed         time.Duration
	QuestionElapsed time.Duration
	Remaining       time.Duration
	Expired         bool
	// ShouldComplete is set on the first sample at or past the limit and
	// never again for the same session.
	ShouldComplete bool
}

// Timer derives elapsed times from wall-clock samples. Total elapsed comes
// from StartTime, so it keeps growing while a session is paused. The
// question clock restarts whenever the current index changes while the
// session is in progress. A session seen for the first time starts its
// question clock at the latest of StartTime, QuestionStartedAt and its
// response timestamps, so a restored session does not lose the time
// already spent.
type Timer struct {
	MaxDuration time.Duration

	sessionID         string
	questionIndex     int
	questionStartedAt time.Time
	fired             bool
}

func NewTimer(maxDuration time.Duration) *Timer {
	return &Timer{MaxDuration: maxDuration}
}

func (t *Timer) Sample(now time.Time, s *Session) Reading {
	if s == nil {
		t.sessionID = ""
		return Reading{}
	}
	if s.ID != t.sessionID {
		t.sessionID = s.ID
		t.questionIndex = s.CurrentIndex
		t.questionStartedAt = resumePoint(s, now)
		t.fired = false
	}

	if s.Status == StatusCompleted {
		t.fired = true
		elapsed := time.Duration(0)
		if s.EndTime != nil {
			elapsed = nonNegative(s.EndTime.Sub(s.StartTime))
		}
		return Reading{Elapsed: elapsed, Expired: t.MaxDuration > 0 && elapsed >= t.MaxDuration}
	}

	if s.Status == StatusInProgress && s.CurrentIndex != t.questionIndex {
		t.questionIndex = s.CurrentIndex
		t.questionStartedAt = now
	}

	r := Reading{
		Elapsed:         nonNegative(now.Sub(s.StartTime)),
		QuestionElapsed: nonNegative(now.Sub(t.questionStartedAt)),
	}
	if t.MaxDuration > 0 {
		r.Remaining = nonNegative(t.MaxDuration - r.Elapsed)
		r.Expired = r.Elapsed >= t.MaxDuration
		if r.Expired && !t.fired {
			t.fired = true
			r.ShouldComplete = true
		}
	}
	return r
}

// Rearm lets the next sample past the limit ask for completion again. The
// caller uses it when completing the session failed.
func (t *Timer) Rearm() {
	t.fired = false
}

func resumePoint(s *Session, now time.Time) time.Time {
	at := s.StartTime
	if s.QuestionStartedAt != nil && s.QuestionStartedAt.After(at) {
		at = *s.QuestionStartedAt
	}
	for _, r := range s.Responses {
		if r.Timestamp.After(at) {
			at = r.Timestamp
		}
	}
	if at.After(now) {
		return now
	}
	return at
}

func nonNegative(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
