package fraud

import (
	"testing"
	"time"
)

func fixedDetector(t *testing.T) (*Detector, time.Time) {
	t.Helper()
	base := time.Date(2026, 4, 14, 10, 0, 0, 0, time.UTC)
	d := NewDetector()
	d.now = func() time.Time { return base }
	return d, base
}

func TestInspectCleanEvent(t *testing.T) {
	d, base := fixedDetector(t)
	check := d.Inspect(Event{
		VoterID:    "v1",
		TerminalID: "t1",
		StationID:  "ps1",
		Duration:   10 * time.Second,
		At:         base,
	})
	if check.Suspicious {
		t.Errorf("clean event flagged: %+v", check)
	}
}

func TestInspectFastVerification(t *testing.T) {
	d, base := fixedDetector(t)
	check := d.Inspect(Event{VoterID: "v1", TerminalID: "t1", StationID: "ps1", Duration: time.Second, At: base})
	if !check.Suspicious {
		t.Fatal("sub-threshold duration not flagged")
	}
	if len(check.Reasons) != 1 || check.Reasons[0] != "verification speed abnormally fast" {
		t.Errorf("reasons = %v", check.Reasons)
	}
}

func TestInspectZeroDurationNotFlagged(t *testing.T) {
	// Callers that cannot measure duration send zero; that is not suspicion.
	d, base := fixedDetector(t)
	check := d.Inspect(Event{VoterID: "v1", StationID: "ps1", At: base})
	if check.Suspicious {
		t.Errorf("zero-duration event flagged: %+v", check)
	}
}

func TestInspectTerminalRate(t *testing.T) {
	d, base := fixedDetector(t)
	for i := 0; i < TerminalRateLimit; i++ {
		d.Inspect(Event{VoterID: "bulk", TerminalID: "t1", StationID: "ps1", Duration: 5 * time.Second, At: base})
	}
	check := d.Inspect(Event{VoterID: "v-next", TerminalID: "t1", StationID: "ps1", Duration: 5 * time.Second, At: base})
	if !check.Suspicious {
		t.Fatal("terminal over the rate limit not flagged")
	}
	found := false
	for _, r := range check.Reasons {
		if r == "high verification rate at terminal" {
			found = true
		}
	}
	if !found {
		t.Errorf("reasons = %v, want the rate reason", check.Reasons)
	}

	// A different terminal is unaffected.
	other := d.Inspect(Event{VoterID: "v-other", TerminalID: "t2", StationID: "ps1", Duration: 5 * time.Second, At: base})
	if other.Suspicious {
		t.Errorf("unrelated terminal flagged: %+v", other)
	}
}

func TestInspectImpossibleTravel(t *testing.T) {
	d, base := fixedDetector(t)
	d.Inspect(Event{VoterID: "v1", TerminalID: "t1", StationID: "ps1", Duration: 5 * time.Second, At: base})

	check := d.Inspect(Event{
		VoterID: "v1", TerminalID: "t9", StationID: "ps8",
		Duration: 5 * time.Second, At: base.Add(10 * time.Minute),
	})
	if !check.Suspicious {
		t.Fatal("station change within the travel window not flagged")
	}
	if check.Reasons[0] != "impossible travel between polling stations" {
		t.Errorf("reasons = %v", check.Reasons)
	}
}

func TestInspectSameStationRepeatNotTravel(t *testing.T) {
	d, base := fixedDetector(t)
	d.Inspect(Event{VoterID: "v1", StationID: "ps1", Duration: 5 * time.Second, At: base})
	check := d.Inspect(Event{VoterID: "v1", StationID: "ps1", Duration: 5 * time.Second, At: base.Add(10 * time.Minute)})
	if check.Suspicious {
		t.Errorf("same-station repeat flagged as travel: %+v", check)
	}
}

func TestInspectTravelOutsideWindow(t *testing.T) {
	d, base := fixedDetector(t)
	d.Inspect(Event{VoterID: "v1", StationID: "ps1", Duration: 5 * time.Second, At: base})

	d.now = func() time.Time { return base.Add(90 * time.Minute) }
	check := d.Inspect(Event{
		VoterID: "v1", StationID: "ps8",
		Duration: 5 * time.Second, At: base.Add(90 * time.Minute),
	})
	if check.Suspicious {
		t.Errorf("station change after the travel window flagged: %+v", check)
	}
}

func TestInspectPrunesOldEvents(t *testing.T) {
	d, base := fixedDetector(t)
	for i := 0; i < TerminalRateLimit; i++ {
		d.Inspect(Event{VoterID: "bulk", TerminalID: "t1", StationID: "ps1", Duration: 5 * time.Second, At: base})
	}

	// Three hours later the backlog has aged out of retention.
	later := base.Add(3 * time.Hour)
	d.now = func() time.Time { return later }
	check := d.Inspect(Event{VoterID: "v1", TerminalID: "t1", StationID: "ps1", Duration: 5 * time.Second, At: later})
	if check.Suspicious {
		t.Errorf("pruned events still counted: %+v", check)
	}
}
