package session

import (
	"sync"
	"testing"

	"github.com/adimaman22/Network-Speed-Test/speedtest"
)

func TestLegalTCPTransitions(t *testing.T) {
	s := New(speedtest.TCP, "127.0.0.1:16000", Connecting)
	for _, next := range []State{Streaming, Draining, Completed} {
		if err := s.To(next); err != nil {
			t.Fatalf("To(%s): %v", next, err)
		}
	}
	if s.State() != Completed {
		t.Errorf("state = %s, want Completed", s.State())
	}
}

func TestLegalUDPTransitions(t *testing.T) {
	s := New(speedtest.UDP, "127.0.0.1:17000", Sending)
	for _, next := range []State{Listening, Completed} {
		if err := s.To(next); err != nil {
			t.Fatalf("To(%s): %v", next, err)
		}
	}
}

func TestIllegalTransitionsRejected(t *testing.T) {
	cases := []struct {
		from, to State
	}{
		{Completed, Streaming}, // terminal states have no successors
		{Failed, Connecting},
		{Draining, Streaming}, // no going backwards
		{Connecting, Listening},
		{Sending, Draining}, // no crossing protocols
	}
	for _, c := range cases {
		s := New(speedtest.TCP, "x", c.from)
		if err := s.To(c.to); err == nil {
			t.Errorf("To allowed %s -> %s", c.from, c.to)
		}
		if s.State() != c.from {
			t.Errorf("rejected transition moved state to %s", s.State())
		}
	}
}

func TestFailFromAnywhere(t *testing.T) {
	for _, from := range []State{Connecting, Streaming, Draining, Sending, Listening, Completed} {
		s := New(speedtest.TCP, "x", from)
		s.Fail()
		if s.State() != Failed {
			t.Errorf("Fail from %s left state %s", from, s.State())
		}
		if r := s.Result(); !r.Partial {
			t.Errorf("failed session result from %s not tagged Partial", from)
		}
	}
}

func TestResultCarriesIdentity(t *testing.T) {
	s := New(speedtest.UDP, "192.168.1.7:17000", Sending)
	s.Stats().MarkStart()
	s.Stats().RecordSent(1000)
	s.Stats().MarkEnd()

	r := s.Result()
	if r.ID != s.ID {
		t.Errorf("result ID = %q, want %q", r.ID, s.ID)
	}
	if r.RemoteAddr != "192.168.1.7:17000" {
		t.Errorf("result remote = %q", r.RemoteAddr)
	}
	if r.BytesSent != 1000 {
		t.Errorf("result bytes = %d, want 1000", r.BytesSent)
	}
}

func TestRegistryAddRemoveList(t *testing.T) {
	r := NewRegistry()
	a := New(speedtest.TCP, "a", Connecting)
	b := New(speedtest.UDP, "b", Sending)
	r.Add(a)
	r.Add(b)
	if r.Len() != 2 {
		t.Fatalf("Len = %d, want 2", r.Len())
	}

	list := r.List()
	if len(list) != 2 {
		t.Fatalf("List returned %d sessions", len(list))
	}
	if list[1].Started.Before(list[0].Started) {
		t.Error("List not ordered by start time")
	}

	r.Remove(a.ID)
	if r.Len() != 1 || r.List()[0].ID != b.ID {
		t.Error("Remove left the wrong session behind")
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := New(speedtest.TCP, "x", Connecting)
			r.Add(s)
			r.List()
			r.Remove(s.ID)
		}()
	}
	wg.Wait()
	if r.Len() != 0 {
		t.Errorf("Len = %d after balanced add/remove", r.Len())
	}
}
