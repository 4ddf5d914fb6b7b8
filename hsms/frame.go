package hsms

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"time"
)

// LengthFieldSize is the width of an HSMS message's length prefix.
const LengthFieldSize = 4

// DefaultMaxMessageLength bounds a single message's header+body size,
// matching the item codec's 2^24 payload ceiling so a malicious or
// corrupt length field cannot force an unbounded read.
const DefaultMaxMessageLength = 1 << 24

var (
	// ErrTruncated signals a buffer or stream that ended before the
	// declared length was satisfied.
	ErrTruncated = errors.New("hsms: truncated frame")

	// ErrMessageTooLong signals a length field exceeding the configured
	// maximum, per section 5 "Block and message length".
	ErrMessageTooLong = errors.New("hsms: message length exceeds limit")

	// ErrMessageTooShort signals a length field smaller than the fixed
	// header size.
	ErrMessageTooShort = errors.New("hsms: message length shorter than header")
)

// Frame is a decoded HSMS message: header plus an undecoded SECS-II
// body (empty for control messages and for data messages with no
// payload).
type Frame struct {
	Header Header
	Body   []byte
}

// Encode appends the length-prefixed wire representation of f to buf.
func Encode(buf []byte, f Frame) []byte {
	total := HeaderLen + len(f.Body)
	var lenField [LengthFieldSize]byte
	binary.BigEndian.PutUint32(lenField[:], uint32(total))
	buf = append(buf, lenField[:]...)
	buf = EncodeHeader(buf, f.Header)
	buf = append(buf, f.Body...)
	return buf
}

// ReadFrame reads one length-prefixed message from r. maxLen of 0
// selects DefaultMaxMessageLength. The read carries no deadline; use
// ReadFrameTimeout over a net.Conn to bound inter-byte gaps with T8.
func ReadFrame(r io.Reader, maxLen uint32) (Frame, error) {
	return readFrame(r, maxLen, nil, 0)
}

// ReadFrameTimeout behaves like ReadFrame but, once a message's length
// prefix has arrived, resets conn's read deadline to t8 before reading
// the header+body, so a peer that sends the length and then stalls
// mid-message fails after t8 instead of blocking forever. Waiting for
// the next message's length prefix itself carries no deadline, since
// idle time between messages is unbounded by design.
func ReadFrameTimeout(conn net.Conn, maxLen uint32, t8 time.Duration) (Frame, error) {
	return readFrame(conn, maxLen, conn, t8)
}

func readFrame(r io.Reader, maxLen uint32, conn net.Conn, t8 time.Duration) (Frame, error) {
	if maxLen == 0 {
		maxLen = DefaultMaxMessageLength
	}

	var lenField [LengthFieldSize]byte
	if _, err := io.ReadFull(r, lenField[:]); err != nil {
		return Frame{}, err
	}
	total := binary.BigEndian.Uint32(lenField[:])
	if total < HeaderLen {
		return Frame{}, ErrMessageTooShort
	}
	if total > maxLen {
		return Frame{}, fmt.Errorf("%w: %d > %d", ErrMessageTooLong, total, maxLen)
	}

	if conn != nil {
		conn.SetReadDeadline(time.Now().Add(t8))
		defer conn.SetReadDeadline(time.Time{})
	}
	msg := make([]byte, total)
	if _, err := io.ReadFull(r, msg); err != nil {
		return Frame{}, err
	}

	h, err := DecodeHeader(msg[:HeaderLen])
	if err != nil {
		return Frame{}, err
	}
	return Frame{Header: h, Body: msg[HeaderLen:]}, nil
}

// WriteFrame writes f to w as a length-prefixed message.
func WriteFrame(w io.Writer, f Frame) error {
	buf := Encode(make([]byte, 0, LengthFieldSize+HeaderLen+len(f.Body)), f)
	_, err := w.Write(buf)
	return err
}
