package hsms

import (
	"context"
	"net"
	"time"
)

// Dial connects to addr as the active entity and performs the select
// handshake before returning, per section 4's "active" connection
// procedure. The active side retries on connection failure after T5,
// matching section 6's description of T5 as the "delay between
// connection attempts" — the caller's ctx bounds the whole sequence,
// not a single attempt.
func Dial(ctx context.Context, network, addr string, sessionID uint16, config Config) (*Session, error) {
	config.check()
	var d net.Dialer
	for {
		conn, err := d.DialContext(ctx, network, addr)
		if err == nil {
			s := NewSession(conn, sessionID, RoleActive, config)
			if err := s.Select(ctx); err != nil {
				s.Close()
				return nil, err
			}
			return s, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(config.T5):
		}
	}
}

// Listen accepts connections on addr and passes each to accept as a
// passive Session, which answers select.req inline in its read loop.
// Listen blocks until ctx is done or the listener fails.
func Listen(ctx context.Context, network, addr string, sessionID uint16, config Config, accept func(*Session)) error {
	config.check()
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, network, addr)
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return err
			}
		}
		accept(NewSession(conn, sessionID, RolePassive, config))
	}
}
