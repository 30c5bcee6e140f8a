package state

import "testing"

type testForm struct {
	Title string
	Year  int
}

func TestManagerUnknownUserIsIdle(t *testing.T) {
	m := NewManager[testForm]()

	sess := m.Get(42)
	if sess.State != StateIdle {
		t.Fatalf("expected idle state, got %s", sess.State)
	}
	if sess.Form.Title != "" || sess.Form.Year != 0 {
		t.Fatalf("expected zero form, got %+v", sess.Form)
	}
	if m.InProgress(42) {
		t.Fatal("unknown user must not be in progress")
	}
}

func TestManagerUpdateAndClear(t *testing.T) {
	m := NewManager[testForm]()
	const stTitle = State("add:title")

	m.Update(1, func(s *Session[testForm]) {
		s.State = stTitle
		s.Form.Title = "Dune"
	})

	sess := m.Get(1)
	if sess.State != stTitle || sess.Form.Title != "Dune" {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if !m.InProgress(1) {
		t.Fatal("expected in-progress session")
	}

	m.Clear(1)
	if m.InProgress(1) {
		t.Fatal("clear must reset to idle")
	}
	if got := m.Get(1).Form.Title; got != "" {
		t.Fatalf("clear must discard form data, got %q", got)
	}
}

func TestManagerUserIsolation(t *testing.T) {
	m := NewManager[testForm]()
	const st = State("add:year")

	m.Update(1, func(s *Session[testForm]) {
		s.State = st
		s.Form.Year = 1965
	})

	if m.InProgress(2) {
		t.Fatal("session must never be shared across users")
	}
	if got := m.Get(2).Form.Year; got != 0 {
		t.Fatalf("user 2 must see a zero form, got %d", got)
	}

	m.Clear(2)
	if got := m.Get(1).Form.Year; got != 1965 {
		t.Fatalf("clearing user 2 must not touch user 1, got %d", got)
	}
}

func TestManagerGetReturnsCopy(t *testing.T) {
	m := NewManager[testForm]()
	m.Update(7, func(s *Session[testForm]) { s.Form.Title = "Sapiens" })

	sess := m.Get(7)
	sess.Form.Title = "mutated"

	if got := m.Get(7).Form.Title; got != "Sapiens" {
		t.Fatalf("Get must return a copy, stored form changed to %q", got)
	}
}

func TestManagerHandlerForUnregisteredState(t *testing.T) {
	m := NewManager[testForm]()
	m.SetState(3, State("update:field"))

	if _, ok := m.HandlerFor(3); ok {
		t.Fatal("state without a registered handler must report none")
	}
}
