package events_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/evankellogg/informed/pkg/events"
)

func TestEmit_RegistrationOrder(t *testing.T) {
	bus := events.New()

	var seen []string
	bus.Subscribe("change", func(events.Event) { seen = append(seen, "first") })
	bus.Subscribe("change", func(events.Event) { seen = append(seen, "second") })
	bus.Subscribe("value", func(events.Event) { seen = append(seen, "other topic") })

	bus.Emit(events.Event{Topic: "change", Path: "name", Value: "x"})

	want := []string{"first", "second"}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Fatalf("delivery order mismatch (-want +got):\n%s", diff)
	}
}

func TestEmit_PayloadIsForwarded(t *testing.T) {
	bus := events.New()

	var got events.Event
	bus.Subscribe("value", func(evt events.Event) { got = evt })

	sent := events.Event{Topic: "value", Path: "owner.email", Value: 42}
	bus.Emit(sent)

	if got != sent {
		t.Fatalf("payload mismatch: got %+v, want %+v", got, sent)
	}
}

func TestSubscription_Close(t *testing.T) {
	bus := events.New()

	calls := 0
	sub := bus.Subscribe("change", func(events.Event) { calls++ })

	bus.Emit(events.Event{Topic: "change"})
	sub.Close()
	sub.Close()
	bus.Emit(events.Event{Topic: "change"})

	if calls != 1 {
		t.Fatalf("expected one delivery, got %d", calls)
	}
}

func TestClose_KeepsOrderOfRemaining(t *testing.T) {
	bus := events.New()

	var seen []string
	bus.Subscribe("change", func(events.Event) { seen = append(seen, "a") })
	middle := bus.Subscribe("change", func(events.Event) { seen = append(seen, "b") })
	bus.Subscribe("change", func(events.Event) { seen = append(seen, "c") })

	middle.Close()
	bus.Emit(events.Event{Topic: "change"})

	want := []string{"a", "c"}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Fatalf("delivery order mismatch (-want +got):\n%s", diff)
	}
}

func TestEmit_MutationDuringDelivery(t *testing.T) {
	bus := events.New()

	var seen []string
	var late *events.Subscription

	first := bus.Subscribe("change", func(events.Event) { seen = append(seen, "first") })
	bus.Subscribe("change", func(events.Event) {
		seen = append(seen, "second")
		first.Close()
		if late == nil {
			late = bus.Subscribe("change", func(events.Event) { seen = append(seen, "late") })
		}
	})

	// First emit walks the original snapshot: the handler added mid-delivery
	// must not run, the handler closed mid-delivery already ran.
	bus.Emit(events.Event{Topic: "change"})
	want := []string{"first", "second"}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Fatalf("first emit mismatch (-want +got):\n%s", diff)
	}

	// Second emit sees the mutated list.
	seen = nil
	bus.Emit(events.Event{Topic: "change"})
	want = []string{"second", "late"}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Fatalf("second emit mismatch (-want +got):\n%s", diff)
	}
}

func TestEmit_ReentrantEmit(t *testing.T) {
	bus := events.New()

	var seen []string
	bus.Subscribe("change", func(evt events.Event) {
		seen = append(seen, "change:"+evt.Path)
		if evt.Path == "outer" {
			bus.Emit(events.Event{Topic: "change", Path: "inner"})
		}
	})

	bus.Emit(events.Event{Topic: "change", Path: "outer"})

	want := []string{"change:outer", "change:inner"}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Fatalf("reentrant emit mismatch (-want +got):\n%s", diff)
	}
}
