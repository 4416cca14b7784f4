package session

import (
	"math"
	"time"
)

// Status is the terminal classification of a focus session.
type Status string

const (
	StatusCompleted  Status = "Completed"
	StatusInProgress Status = "InProgress"
	StatusAbandoned  Status = "Abandoned"
)

// AbandonThreshold is the minimum elapsed time for an unfinished task to count as in progress.
const AbandonThreshold = 10 * time.Minute

// FocusSession is one named unit of work.
// A zero StartTime means the session is pending; a zero EndTime means it is active.
type FocusSession struct {
	TaskName      string
	StartTime     time.Time
	EndTime       time.Time
	ReminderCount int
	Status        Status
}

// IsActive reports whether the session has not been stopped.
func (session FocusSession) IsActive() bool {
	return session.EndTime.IsZero()
}

// IsStarted reports whether the session has a start time.
func (session FocusSession) IsStarted() bool {
	return !session.StartTime.IsZero()
}

// IsTracking reports whether the session is active and started.
func (session FocusSession) IsTracking() bool {
	return session.IsActive() && session.IsStarted()
}

// DurationMinutes returns the elapsed minutes rounded up, or 0 while active.
func (session FocusSession) DurationMinutes() int {
	if session.EndTime.IsZero() || session.StartTime.IsZero() {
		return 0
	}
	elapsed := session.EndTime.Sub(session.StartTime)
	if elapsed <= 0 {
		return 0
	}
	return int(math.Ceil(elapsed.Minutes()))
}

// Elapsed returns the time spent in the current interval as of now.
func (session FocusSession) Elapsed(now time.Time) time.Duration {
	if session.StartTime.IsZero() {
		return 0
	}
	end := now
	if !session.EndTime.IsZero() {
		end = session.EndTime
	}
	if end.Before(session.StartTime) {
		return 0
	}
	return end.Sub(session.StartTime)
}

// ClassifyStop applies the abandonment rule to a user-requested stop.
// Unfinished work shorter than AbandonThreshold, or never started, is abandoned.
func ClassifyStop(session FocusSession, requested Status, now time.Time) Status {
	if requested != StatusInProgress {
		return requested
	}
	if !session.IsStarted() || session.Elapsed(now) < AbandonThreshold {
		return StatusAbandoned
	}
	return StatusInProgress
}
