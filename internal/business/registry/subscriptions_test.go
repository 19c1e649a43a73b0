package registry

import "testing"

func TestSubscriptionManagerTrackAndCancel(t *testing.T) {
	m := NewSubscriptionManager()

	calls := 0
	unsub := m.Track(func() { calls++ })
	if m.Active() != 1 {
		t.Fatalf("active = %d, want 1", m.Active())
	}

	unsub()
	if calls != 1 {
		t.Errorf("cancel called %d times, want 1", calls)
	}
	if m.Active() != 0 {
		t.Errorf("active = %d, want 0", m.Active())
	}

	unsub()
	if calls != 1 {
		t.Errorf("second unsubscribe ran the cancel again: %d calls", calls)
	}
}

func TestSubscriptionManagerCancelUnknown(t *testing.T) {
	m := NewSubscriptionManager()
	if m.Cancel("no-such-id") {
		t.Error("Cancel reported success for an unknown id")
	}
}

func TestSubscriptionManagerCancelAll(t *testing.T) {
	m := NewSubscriptionManager()

	calls := 0
	for i := 0; i < 3; i++ {
		m.Track(func() { calls++ })
	}
	m.CancelAll()

	if calls != 3 {
		t.Errorf("cancel ran %d times, want 3", calls)
	}
	if m.Active() != 0 {
		t.Errorf("active = %d, want 0", m.Active())
	}
}
