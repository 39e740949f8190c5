package ll

import (
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/rigado/blell"
)

// An Option configures a Controller at construction time.
type Option func(*Controller) error

// WithScanner attaches the scanning subsystem used to find peers.
func WithScanner(s Scanner) Option {
	return func(c *Controller) error {
		if s == nil {
			return errors.New("nil scanner")
		}
		c.scanner = s
		return nil
	}
}

// WithTerminator attaches the control procedure engine.
func WithTerminator(t Terminator) Option {
	return func(c *Controller) error {
		c.term = t
		return nil
	}
}

// WithEventSink routes outbound events to the host transport.
func WithEventSink(s EventSink) Option {
	return func(c *Controller) error {
		if s == nil {
			return errors.New("nil event sink")
		}
		c.sink = s
		return nil
	}
}

// WithEventMask attaches the host-controlled event mask.
func WithEventMask(m EventMasker) Option {
	return func(c *Controller) error {
		if m == nil {
			return errors.New("nil event mask")
		}
		c.mask = m
		return nil
	}
}

// WithEventBufferPool overrides the event buffer pool. Buffers must hold at
// least EventBufferSize bytes.
func WithEventBufferPool(p BufferPool) Option {
	return func(c *Controller) error {
		c.evtPool = p
		return nil
	}
}

// WithPDUBufferPool overrides the transmit buffer pool used for the
// CONNECT_REQ.
func WithPDUBufferPool(p BufferPool) Option {
	return func(c *Controller) error {
		c.pduPool = p
		return nil
	}
}

// WithMaxConnections sizes the connection state machine pool.
func WithMaxConnections(n int) Option {
	return func(c *Controller) error {
		if n < 1 || n > MaxConnHandle {
			return errors.Errorf("invalid connection limit %v", n)
		}
		c.maxConns = n
		return nil
	}
}

// WithPublicAddress sets the controller's public device address.
func WithPublicAddress(a blell.Addr) Option {
	return func(c *Controller) error {
		c.ownPubAddr = a
		return nil
	}
}

// WithRandomAddress sets the controller's random device address.
func WithRandomAddress(a blell.Addr) Option {
	return func(c *Controller) error {
		c.ownRandAddr = a
		return nil
	}
}

// WithMasterSCA sets the sleep clock accuracy indicator (0..7) advertised
// in CONNECT_REQ and connection-complete events.
func WithMasterSCA(sca uint8) Option {
	return func(c *Controller) error {
		if sca > 7 {
			return errors.Errorf("invalid sleep clock accuracy %v", sca)
		}
		c.masterSCA = sca
		return nil
	}
}

// WithCompletedPacketsRate sets the minimum spacing between two
// number-of-completed-packets events.
func WithCompletedPacketsRate(d time.Duration) Option {
	return func(c *Controller) error {
		if d <= 0 {
			return errors.Errorf("invalid completed packets rate %v", d)
		}
		c.numCompRate = d
		return nil
	}
}

// WithPeerCache records negotiated parameters per peer after each
// establishment.
func WithPeerCache(pc blell.PeerCache) Option {
	return func(c *Controller) error {
		c.peers = pc
		return nil
	}
}

// WithRandomSource overrides the entropy source used for access addresses,
// CRC seeds and hop increments.
func WithRandomSource(r io.Reader) Option {
	return func(c *Controller) error {
		if r == nil {
			return errors.New("nil random source")
		}
		c.rand = r
		return nil
	}
}

// WithLogger overrides the package-default logger.
func WithLogger(l blell.Logger) Option {
	return func(c *Controller) error {
		if l == nil {
			return errors.New("nil logger")
		}
		c.log = l
		return nil
	}
}
