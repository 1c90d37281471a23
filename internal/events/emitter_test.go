package events

import (
	"testing"
	"time"
)

func ev(t Type) Event {
	return Event{Type: t, Time: time.Now()}
}

func TestEmitDeliversInSubscriptionOrder(t *testing.T) {
	b := NewBus()

	var got []string
	b.Subscribe(TaskCompleted, func(Event) { got = append(got, "first") })
	b.Subscribe(TaskCompleted, func(Event) { got = append(got, "second") })
	b.Subscribe(TaskCompleted, func(Event) { got = append(got, "third") })

	b.Emit(ev(TaskCompleted))

	want := []string{"first", "second", "third"}
	if len(got) != len(want) {
		t.Fatalf("delivered %d handlers, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order mismatch: got %v want %v", got, want)
		}
	}
}

func TestEmitMatchesTypeExactly(t *testing.T) {
	b := NewBus()

	completed := 0
	updated := 0
	b.Subscribe(TaskCompleted, func(Event) { completed++ })
	b.Subscribe(TaskUpdated, func(Event) { updated++ })

	b.Emit(ev(TaskCompleted))

	if completed != 1 || updated != 0 {
		t.Fatalf("completed=%d updated=%d, want 1 and 0", completed, updated)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := NewBus()

	calls := 0
	cancel := b.Subscribe(TaskCompleted, func(Event) { calls++ })

	b.Emit(ev(TaskCompleted))
	cancel()
	b.Emit(ev(TaskCompleted))

	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if b.SubscriberCount() != 0 {
		t.Fatalf("subscriber count = %d, want 0", b.SubscriberCount())
	}
}

func TestUnsubscribeTwiceIsNoOp(t *testing.T) {
	b := NewBus()

	cancel := b.Subscribe(TaskCompleted, func(Event) {})
	keep := 0
	b.Subscribe(TaskCompleted, func(Event) { keep++ })

	cancel()
	cancel()

	b.Emit(ev(TaskCompleted))
	if keep != 1 {
		t.Fatalf("surviving subscriber called %d times, want 1", keep)
	}
}

func TestEmitIsolatesPanickingHandler(t *testing.T) {
	b := NewBus()

	var got []string
	b.Subscribe(TaskCompleted, func(Event) { got = append(got, "a") })
	b.Subscribe(TaskCompleted, func(Event) { panic("boom") })
	b.Subscribe(TaskCompleted, func(Event) { got = append(got, "c") })

	b.Emit(ev(TaskCompleted))

	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("delivery after panic: got %v, want [a c]", got)
	}
}

func TestSubscribeDuringEmitJoinsNextRound(t *testing.T) {
	b := NewBus()

	lateCalls := 0
	b.Subscribe(TaskCompleted, func(Event) {
		b.Subscribe(TaskCompleted, func(Event) { lateCalls++ })
	})

	b.Emit(ev(TaskCompleted))
	if lateCalls != 0 {
		t.Fatalf("late subscriber ran in the same round")
	}

	b.Emit(ev(TaskCompleted))
	if lateCalls != 1 {
		t.Fatalf("late subscriber calls = %d, want 1", lateCalls)
	}
}

func TestSequenceStartsAtOne(t *testing.T) {
	var s Sequence
	for want := 1; want <= 3; want++ {
		if got := s.Next(); got != want {
			t.Fatalf("Next() = %d, want %d", got, want)
		}
	}
}
