package output

import (
	"errors"
	"strings"
	"testing"

	"planguard/internal/rules"
)

type recordingSink struct {
	writes   []any
	closed   bool
	writeErr error
	closeErr error
}

func (s *recordingSink) Write(v any) error {
	s.writes = append(s.writes, v)
	return s.writeErr
}

func (s *recordingSink) Close() error {
	s.closed = true
	return s.closeErr
}

func TestManagerFansOutWrites(t *testing.T) {
	a := &recordingSink{}
	b := &recordingSink{}
	m := NewManager()
	if err := m.AddSink(a); err != nil {
		t.Fatal(err)
	}
	if err := m.AddSink(b); err != nil {
		t.Fatal(err)
	}

	v := rules.Violation{RuleID: "no-public-buckets", ResourceIndex: 0}
	if err := m.Write(v); err != nil {
		t.Fatal(err)
	}
	if len(a.writes) != 1 || len(b.writes) != 1 {
		t.Errorf("writes = %d, %d; want 1 each", len(a.writes), len(b.writes))
	}

	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	if !a.closed || !b.closed {
		t.Error("not all sinks closed")
	}
}

func TestManagerCollectsSinkErrors(t *testing.T) {
	bad := &recordingSink{writeErr: errors.New("disk full")}
	good := &recordingSink{}
	m := NewManager()
	_ = m.AddSink(bad)
	_ = m.AddSink(good)

	err := m.Write(rules.Warning{RuleID: "r", ResourceIndex: 1})
	if err == nil {
		t.Fatal("expected write error")
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("error %q does not name the cause", err)
	}
	// The failing sink must not stop delivery to the others.
	if len(good.writes) != 1 {
		t.Errorf("good sink got %d writes, want 1", len(good.writes))
	}
}

func TestManagerRejectsNilSink(t *testing.T) {
	m := NewManager()
	if err := m.AddSink(nil); err == nil {
		t.Fatal("expected error for nil sink")
	}
}
