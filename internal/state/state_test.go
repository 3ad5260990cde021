package state

import (
	"reflect"
	"testing"
)

type recorder struct {
	name string
	log  *[]string
}

func (r recorder) Name() string        { return r.name }
func (r recorder) Enter()              { *r.log = append(*r.log, "enter "+r.name) }
func (r recorder) Update(float64)      { *r.log = append(*r.log, "update "+r.name) }
func (r recorder) Draw(target *string) { *target = r.name }
func (r recorder) Exit()               { *r.log = append(*r.log, "exit "+r.name) }

func TestStateMachineTransitions(t *testing.T) {
	var log []string
	sm := NewStateMachine[*string]()
	sm.Update(0.016) // no state yet

	sm.SetState(recorder{name: "static", log: &log})
	sm.Update(0.016)
	sm.SetState(recorder{name: "animated", log: &log})
	var drawn string
	sm.Draw(&drawn)
	sm.SetState(nil)

	want := []string{"enter static", "update static", "exit static", "enter animated", "exit animated"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
	if drawn != "animated" {
		t.Errorf("drawn = %q, want animated", drawn)
	}
	if sm.Current() != nil {
		t.Errorf("Current() = %v, want nil", sm.Current())
	}
}
