package event

import "testing"

func TestDispatchReachesSubscribers(t *testing.T) {
	d := NewDispatcher()
	var got []interface{}
	d.Subscribe(VisibilityChanged, ListenerFunc(func(e Event) { got = append(got, e.Data) }))
	d.Subscribe(ThemeChanged, ListenerFunc(func(e Event) { t.Errorf("unexpected event %v", e.Type) }))

	d.Dispatch(Event{Type: VisibilityChanged, Data: false})
	d.Dispatch(Event{Type: VisibilityChanged, Data: true})

	if len(got) != 2 || got[0] != false || got[1] != true {
		t.Errorf("got %v, want [false true]", got)
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	d := NewDispatcher()
	calls := 0
	first := d.Subscribe(Invalidated, ListenerFunc(func(Event) { calls++ }))
	d.Subscribe(Invalidated, ListenerFunc(func(Event) { calls += 10 }))

	first()
	first()
	if n := d.Len(Invalidated); n != 1 {
		t.Fatalf("Len = %d after unsubscribe, want 1", n)
	}

	d.Dispatch(Event{Type: Invalidated})
	if calls != 10 {
		t.Errorf("calls = %d, want 10", calls)
	}
}
