package hsms

import (
	"context"
	"net"
	"testing"
	"time"
)

func newSessionPair(t *testing.T) (active, passive *Session) {
	t.Helper()
	connA, connB := net.Pipe()
	config := Config{T3: time.Second, T6: time.Second, LinktestInterval: time.Hour}

	passive = NewSession(connB, 1, RolePassive, config)
	active = NewSession(connA, 1, RoleActive, config)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := active.Select(ctx); err != nil {
		t.Fatalf("Select: %v", err)
	}

	deadline := time.After(time.Second)
	for passive.State() != Selected {
		select {
		case <-deadline:
			t.Fatal("passive side never reached Selected")
		case <-time.After(time.Millisecond):
		}
	}
	return active, passive
}

func TestSelectHandshake(t *testing.T) {
	active, passive := newSessionPair(t)
	defer active.Close()
	defer passive.Close()

	if active.State() != Selected {
		t.Errorf("active state = %v, want Selected", active.State())
	}
	if passive.State() != Selected {
		t.Errorf("passive state = %v, want Selected", passive.State())
	}
}

func TestDataMessageRoundTrip(t *testing.T) {
	active, passive := newSessionPair(t)
	defer active.Close()
	defer passive.Close()

	go func() {
		fr := <-passive.In
		reply := Frame{
			Header: DataHeader(fr.Header.SessionID, fr.Header.Stream(), fr.Header.Function(), false, fr.Header.System),
			Body:   []byte{0, 0},
		}
		passive.Reply(reply)
	}()

	system := active.NextSystem()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	req := Frame{Header: DataHeader(1, 1, 1, true, system), Body: []byte{0, 0}}
	reply, err := active.SendData(ctx, req)
	if err != nil {
		t.Fatalf("SendData: %v", err)
	}
	if reply.Header.System != system {
		t.Errorf("reply system = %#x, want %#x", reply.Header.System, system)
	}
}

func TestLinktest(t *testing.T) {
	active, passive := newSessionPair(t)
	defer active.Close()
	defer passive.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := active.Linktest(ctx); err != nil {
		t.Fatalf("Linktest: %v", err)
	}
}

func TestSeparate(t *testing.T) {
	active, passive := newSessionPair(t)
	defer passive.Close()

	if err := active.Separate(); err != nil {
		t.Fatalf("Separate: %v", err)
	}

	deadline := time.After(time.Second)
	select {
	case <-passive.done:
	case <-deadline:
		t.Fatal("passive side never observed separate.req")
	}
}

func TestT7TimeoutDropsUnselectedSession(t *testing.T) {
	connA, connB := net.Pipe()
	defer connB.Close()
	s := NewSession(connA, 1, RolePassive, Config{T7: time.Second})
	defer s.Close()

	deadline := time.After(2 * time.Second)
	for s.State() != NotConnected {
		select {
		case <-deadline:
			t.Fatal("session never dropped after T7 expired")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestSendDataBeforeSelectedFails(t *testing.T) {
	connA, connB := net.Pipe()
	defer connB.Close()
	s := NewSession(connA, 1, RoleActive, Config{})
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := s.SendData(ctx, Frame{Header: DataHeader(1, 1, 1, true, 1)})
	if err != ErrNotSelected {
		t.Errorf("err = %v, want ErrNotSelected", err)
	}
}
