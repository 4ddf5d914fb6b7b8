package hsms

import "time"

// Port is the IANA-unassigned port conventionally used for HSMS
// equipment connections.
const Port = 5000

// Config defines an HSMS connection's timers and limits, per section 6
// "Timers". The default is applied for each unspecified value, as the
// session-layer TCPConfig of the companion protocol this package is
// modelled on also does.
type Config struct {
	// T3 bounds a reply to a primary message. The standard default is
	// 45 seconds, range [1, 240].
	T3 time.Duration

	// T5 bounds the delay between failed connection attempts. The
	// standard default is 10 seconds, range [1, 240].
	T5 time.Duration

	// T6 bounds a control-transaction reply (select.rsp, linktest.rsp).
	// The standard default is 5 seconds, range [1, 240].
	T6 time.Duration

	// T7 bounds the not-selected period following a TCP connect before
	// the connection is dropped. The standard default is 10 seconds,
	// range [1, 240].
	T7 time.Duration

	// T8 bounds the gap between bytes of a single message. The
	// standard default is 5 seconds, range [1, 120].
	T8 time.Duration

	// LinktestInterval is the period at which an active Session sends
	// a linktest.req while Selected; other traffic does not reset it.
	// The standard recommends 60 seconds.
	LinktestInterval time.Duration

	// MaxMessageLength caps a single frame's encoded size. 0 selects
	// DefaultMaxMessageLength.
	MaxMessageLength uint32
}

// check applies the standard default for each unspecified value and
// panics for values out of the standard's range.
func (c *Config) check() *Config {
	if c.T3 == 0 {
		c.T3 = 45 * time.Second
	} else if c.T3 < time.Second || c.T3 > 240*time.Second {
		panic(`hsms: T3 not in [1, 240]s`)
	}

	if c.T5 == 0 {
		c.T5 = 10 * time.Second
	} else if c.T5 < time.Second || c.T5 > 240*time.Second {
		panic(`hsms: T5 not in [1, 240]s`)
	}

	if c.T6 == 0 {
		c.T6 = 5 * time.Second
	} else if c.T6 < time.Second || c.T6 > 240*time.Second {
		panic(`hsms: T6 not in [1, 240]s`)
	}

	if c.T7 == 0 {
		c.T7 = 10 * time.Second
	} else if c.T7 < time.Second || c.T7 > 240*time.Second {
		panic(`hsms: T7 not in [1, 240]s`)
	}

	if c.T8 == 0 {
		c.T8 = 5 * time.Second
	} else if c.T8 < time.Second || c.T8 > 120*time.Second {
		panic(`hsms: T8 not in [1, 120]s`)
	}

	if c.LinktestInterval == 0 {
		c.LinktestInterval = 60 * time.Second
	}

	if c.MaxMessageLength == 0 {
		c.MaxMessageLength = DefaultMaxMessageLength
	}

	return c
}
