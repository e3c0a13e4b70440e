package logic

import "time"

// Tally counts verdicts and paces heartbeat events.
type Tally struct {
	startTime     time.Time
	counts        VerdictCounts
	lastHeartbeat time.Time
}

// NewTally creates a Tally. The startTime is used for calculating uptime in
// heartbeat events.
func NewTally(startTime time.Time) *Tally {
	return &Tally{
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// Record counts one verdict. Unknown verdicts are ignored.
func (t *Tally) Record(v Verdict) {
	switch v {
	case VerdictGood:
		t.counts.Good++
	case VerdictRotten:
		t.counts.Rotten++
	}
}

// Counts returns a copy of the current counts.
func (t *Tally) Counts() VerdictCounts {
	return t.counts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if the interval has not elapsed or
// if interval is <= 0 (disabled).
func (t *Tally) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}
	if now.Sub(t.lastHeartbeat) < interval {
		return nil
	}

	t.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(t.startTime),
		Counts:    t.counts,
	}
}
