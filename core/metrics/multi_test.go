package metrics

import (
	"errors"
	"testing"
)

// recordSink counts forwarded events.
type recordSink struct {
	count int
	err   error
}

func (r *recordSink) RecordAbstraction(AbstractionEvent) error {
	r.count++
	return r.err
}

func (r *recordSink) RecordTemporalStep(StepEvent) error {
	r.count++
	return nil
}

// abstractionOnly does not implement StepRecorder.
type abstractionOnly struct{ count int }

func (a *abstractionOnly) RecordAbstraction(AbstractionEvent) error {
	a.count++
	return nil
}

// TestMultiSink ensures events are forwarded to all sinks.
func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &abstractionOnly{}
	m := NewMultiSink(s1, s2)
	if err := m.RecordAbstraction(AbstractionEvent{Node: "avpp"}); err != nil {
		t.Fatalf("record abstraction: %v", err)
	}
	if err := m.RecordTemporalStep(StepEvent{Node: "avpp", Step: 1}); err != nil {
		t.Fatalf("record step: %v", err)
	}
	if err := m.RecordRun(RunEvent{}); err != nil {
		t.Fatalf("record run: %v", err)
	}
	if s1.count != 2 || s2.count != 1 {
		t.Fatalf("events not forwarded: %d %d", s1.count, s2.count)
	}
}

func TestMultiSinkJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	s1 := &recordSink{err: boom}
	s2 := &recordSink{}
	err := NewMultiSink(s1, s2).RecordAbstraction(AbstractionEvent{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if s2.count != 1 {
		t.Fatalf("second sink skipped after error")
	}
}
