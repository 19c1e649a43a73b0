package fraud

import (
	"sync"
	"time"
)

// Rule thresholds. A verification completing faster than MinDuration, a
// terminal exceeding TerminalRateLimit checks inside TerminalRateWindow, or
// the same voter appearing at a second station within TravelWindow all raise
// suspicion.
const (
	MinDuration        = 2 * time.Second
	TerminalRateLimit  = 30
	TerminalRateWindow = 5 * time.Minute
	TravelWindow       = time.Hour

	retentionWindow = 2 * time.Hour
)

// Event describes one verification attempt as seen by the detector.
type Event struct {
	VoterID    string
	TerminalID string
	StationID  string
	Duration   time.Duration
	At         time.Time
}

// Check is the detector's judgment on a single event. Suspicion never blocks
// a verification; it is surfaced to the caller for review.
type Check struct {
	Suspicious bool     `json:"suspicious"`
	Reasons    []string `json:"reasons,omitempty"`
}

// Detector applies rule checks over a sliding window of recent verification
// events. It holds its own state and is safe for concurrent use.
type Detector struct {
	mu     sync.Mutex
	events []Event
	now    func() time.Time
}

// NewDetector creates an empty detector.
func NewDetector() *Detector {
	return &Detector{now: time.Now}
}

// Inspect evaluates an event against the rules, records it, and returns the
// judgment.
func (d *Detector) Inspect(ev Event) Check {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if ev.At.IsZero() {
		ev.At = now
	}
	d.prune(now)

	var reasons []string
	if ev.Duration > 0 && ev.Duration < MinDuration {
		reasons = append(reasons, "verification speed abnormally fast")
	}
	if ev.TerminalID != "" && d.terminalCount(ev.TerminalID, now) >= TerminalRateLimit {
		reasons = append(reasons, "high verification rate at terminal")
	}
	if prev, ok := d.lastSeen(ev.VoterID); ok && prev.StationID != ev.StationID && ev.At.Sub(prev.At) < TravelWindow {
		reasons = append(reasons, "impossible travel between polling stations")
	}

	d.events = append(d.events, ev)

	return Check{Suspicious: len(reasons) > 0, Reasons: reasons}
}

func (d *Detector) prune(now time.Time) {
	cutoff := now.Add(-retentionWindow)
	kept := d.events[:0]
	for _, ev := range d.events {
		if ev.At.After(cutoff) {
			kept = append(kept, ev)
		}
	}
	d.events = kept
}

func (d *Detector) terminalCount(terminalID string, now time.Time) int {
	cutoff := now.Add(-TerminalRateWindow)
	count := 0
	for _, ev := range d.events {
		if ev.TerminalID == terminalID && ev.At.After(cutoff) {
			count++
		}
	}
	return count
}

func (d *Detector) lastSeen(voterID string) (Event, bool) {
	for i := len(d.events) - 1; i >= 0; i-- {
		if d.events[i].VoterID == voterID {
			return d.events[i], true
		}
	}
	return Event{}, false
}
