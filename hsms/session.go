package hsms

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Trace activates wire logging, in the manner of the companion
// session-layer package this one is modelled on.
var Trace = false

var logger = log.New(os.Stderr, "hsms: ", log.LstdFlags)

// ErrNotSelected signals an attempt to send a data message before the
// session reached State Selected.
var ErrNotSelected = errors.New("hsms: session not selected")

// ErrAlreadySelected signals a redundant select.req.
var ErrAlreadySelected = errors.New("hsms: session already selected")

// ErrT7Timeout signals a connection that stayed NotSelected longer
// than T7.
var ErrT7Timeout = errors.New("hsms: T7 expired before select")

// State is the connection state of section 4's state diagram.
type State int32

const (
	// NotConnected: no TCP connection established.
	NotConnected State = iota
	// NotSelected: TCP connected, HSMS session not yet selected.
	NotSelected
	// Selected: ready to exchange data messages.
	Selected
)

// String returns a name.
func (s State) String() string {
	switch s {
	case NotConnected:
		return "not-connected"
	case NotSelected:
		return "not-selected"
	case Selected:
		return "selected"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Role distinguishes the entity that initiates selection (active, the
// host by convention) from the one that accepts it (passive, the
// equipment).
type Role int

const (
	RolePassive Role = iota
	RoleActive
)

// Session manages one HSMS connection's framing, control-message
// handshakes and transaction bookkeeping atop a net.Conn: one
// goroutine drains the wire and hands inbound traffic to the caller
// over channels, while writes from any goroutine are serialised by a
// mutex.
type Session struct {
	Config
	SessionID uint16
	Role      Role

	conn net.Conn
	tx   *transactions

	state int32 // atomic State

	// In delivers inbound data messages (after control-message
	// handling has already consumed select/deselect/linktest/reject
	// traffic). Must be read continuously once the session is Selected
	// or the read loop stalls.
	In chan Frame

	// Err reports unrecoverable I/O or protocol failures. The session
	// is dead once Err is closed.
	Err chan error

	// StateChange reports State transitions in order.
	StateChange chan State

	writeMu sync.Mutex

	notSelected *time.Timer

	closeOnce sync.Once
	done      chan struct{}

	selects   int64
	separates int64
	rejects   int64
}

// selectCount returns the number of select handshakes this session has
// completed, for MetricsCollector.
func (s *Session) selectCount() int64 { return atomic.LoadInt64(&s.selects) }

// separateCount returns the number of separate.req messages sent or
// received, for MetricsCollector.
func (s *Session) separateCount() int64 { return atomic.LoadInt64(&s.separates) }

// rejectCount returns the number of reject.req messages sent, for
// MetricsCollector.
func (s *Session) rejectCount() int64 { return atomic.LoadInt64(&s.rejects) }

// NewSession wraps conn with HSMS framing under the given role. An
// active caller must still call Select to progress past NotSelected; a
// passive session reaches Selected when its read loop answers the
// peer's select.req.
func NewSession(conn net.Conn, sessionID uint16, role Role, config Config) *Session {
	config.check()
	s := &Session{
		Config:    config,
		SessionID: sessionID,
		Role:      role,
		conn:      conn,
		tx:        newTransactions(),
		state:     int32(NotSelected),
		In:        make(chan Frame, 8),
		Err:       make(chan error, 1),
		StateChange: make(chan State, 4),
		done:      make(chan struct{}),
	}
	s.armT7()
	go s.readLoop()
	if role == RoleActive {
		go s.linktestLoop()
	}
	return s
}

// State returns the current connection state.
func (s *Session) State() State { return State(atomic.LoadInt32(&s.state)) }

func (s *Session) setState(st State) {
	atomic.StoreInt32(&s.state, int32(st))
	switch st {
	case Selected:
		s.disarmT7()
	case NotSelected:
		s.armT7()
	}
	select {
	case s.StateChange <- st:
	default:
	}
}

// armT7 (re)starts the timer bounding how long the connection may sit
// NotSelected (section 6, timer T7) before it is dropped as dead.
func (s *Session) armT7() {
	if s.notSelected != nil {
		s.notSelected.Stop()
	}
	s.notSelected = time.AfterFunc(s.T7, func() {
		if s.State() == NotSelected {
			s.fail(ErrT7Timeout)
		}
	})
}

func (s *Session) disarmT7() {
	if s.notSelected != nil {
		s.notSelected.Stop()
	}
}

// Select performs the active-side select handshake (section 5
// "Select procedure") and blocks until select.rsp arrives or T6
// expires.
func (s *Session) Select(ctx context.Context) error {
	if s.State() == Selected {
		return ErrAlreadySelected
	}
	system := s.tx.next()
	ch := s.tx.register(system)
	if err := s.write(SelectReq(s.SessionID, system)); err != nil {
		s.tx.forget(system)
		return err
	}
	reply, err := s.tx.await(ctx, system, ch, s.T6)
	if err != nil {
		return err
	}
	if reply.Header.Status() != StatusOK {
		return fmt.Errorf("hsms: select rejected: status %d", reply.Header.Status())
	}
	s.setState(Selected)
	atomic.AddInt64(&s.selects, 1)
	return nil
}

// Linktest sends a linktest.req and blocks for its reply, bounded by
// T6. Either role may issue linktests; active sessions also send one
// automatically every LinktestInterval while Selected.
func (s *Session) Linktest(ctx context.Context) error {
	system := s.tx.next()
	ch := s.tx.register(system)
	if err := s.write(LinktestReq(system)); err != nil {
		s.tx.forget(system)
		return err
	}
	_, err := s.tx.await(ctx, system, ch, s.T6)
	return err
}

// Separate sends separate.req and closes the connection, the
// unilateral teardown of section 5.
func (s *Session) Separate() error {
	atomic.AddInt64(&s.separates, 1)
	err := s.write(SeparateReq(s.SessionID, s.tx.next()))
	s.Close()
	return err
}

// SendData transmits a primary data message. If wBit is set on
// fr.Header, SendData blocks for the reply (bounded by T3); otherwise
// it returns immediately after the write.
func (s *Session) SendData(ctx context.Context, fr Frame) (Frame, error) {
	if s.State() != Selected {
		return Frame{}, ErrNotSelected
	}
	if !fr.Header.WBit() {
		return Frame{}, s.write(fr)
	}

	ch := s.tx.register(fr.Header.System)
	if err := s.write(fr); err != nil {
		s.tx.forget(fr.Header.System)
		return Frame{}, err
	}
	return s.tx.await(ctx, fr.Header.System, ch, s.T3)
}

// Reply sends a secondary data message carrying no W-bit, matching
// the system byte of the primary it answers.
func (s *Session) Reply(fr Frame) error {
	return s.write(fr)
}

// NextSystem allocates a fresh system byte for a primary message the
// caller will build itself (e.g. via secs2's Registry).
func (s *Session) NextSystem() uint32 { return s.tx.next() }

func (s *Session) write(fr Frame) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if Trace {
		logger.Printf("-> session=%d %s system=%08x", fr.Header.SessionID, fr.Header.SType, fr.Header.System)
	}
	return WriteFrame(s.conn, fr)
}

// readLoop drains the socket, answers control-message handshakes
// inline, and forwards data messages and unmatched control replies to
// the appropriate destination.
func (s *Session) readLoop() {
	defer s.fail(nil)
	for {
		fr, err := ReadFrameTimeout(s.conn, s.MaxMessageLength, s.T8)
		if err != nil {
			s.fail(err)
			return
		}
		if Trace {
			logger.Printf("<- session=%d %s system=%08x", fr.Header.SessionID, fr.Header.SType, fr.Header.System)
		}

		switch fr.Header.SType {
		case STypeDataMessage:
			if s.State() != Selected {
				atomic.AddInt64(&s.rejects, 1)
				s.write(RejectReq(fr.Header, RejectTransactionNotOpen))
				continue
			}
			if fr.Header.WBit() || !s.tx.deliver(fr) {
				select {
				case s.In <- fr:
				case <-s.done:
					return
				}
			}

		case STypeSelectReq:
			status := StatusOK
			if s.State() == Selected {
				status = StatusAlreadyActive
			}
			if err := s.write(SelectRsp(fr.Header.SessionID, fr.Header.System, status)); err != nil {
				s.fail(err)
				return
			}
			if status == StatusOK {
				s.setState(Selected)
				atomic.AddInt64(&s.selects, 1)
			}

		case STypeSelectRsp, STypeDeselectRsp, STypeLinktestRsp:
			s.tx.deliver(fr)

		case STypeDeselectReq:
			s.write(DeselectRsp(fr.Header.SessionID, fr.Header.System, StatusOK))
			s.setState(NotSelected)

		case STypeLinktestReq:
			s.write(LinktestRsp(fr.Header.System))

		case STypeSeparateReq:
			atomic.AddInt64(&s.separates, 1)
			s.fail(nil)
			return

		case STypeRejectReq:
			s.tx.deliver(fr)

		default:
			atomic.AddInt64(&s.rejects, 1)
			s.write(RejectReq(fr.Header, RejectSType))
		}
	}
}

// linktestLoop issues a linktest.req every LinktestInterval while the
// session is Selected, whether or not other traffic has flowed since
// the last one.
func (s *Session) linktestLoop() {
	ticker := time.NewTicker(s.LinktestInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if s.State() == Selected {
				ctx, cancel := context.WithTimeout(context.Background(), s.T6)
				s.Linktest(ctx)
				cancel()
			}
		case <-s.done:
			return
		}
	}
}

func (s *Session) fail(err error) {
	s.closeOnce.Do(func() {
		s.disarmT7()
		s.setState(NotConnected)
		close(s.done)
		s.tx.closeAll()
		s.conn.Close()
		if err != nil {
			select {
			case s.Err <- err:
			default:
			}
		}
		close(s.Err)
		close(s.In)
	})
}

// Close tears down the connection without sending separate.req.
func (s *Session) Close() error {
	s.fail(nil)
	return nil
}
