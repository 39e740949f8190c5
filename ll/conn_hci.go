package ll

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/rigado/blell"
	"github.com/rigado/blell/ll/cmd"
)

// Controller owns the connection state machine pool and the single
// outstanding create-connection attempt. One host command or one radio
// notification runs at a time; the embedded mutex is held for the whole of
// each call, including a full completed-packets batching pass, and nothing
// blocks under it.
type Controller struct {
	sync.Mutex

	pool     *connPool
	createSM *connSM

	scanner Scanner
	term    Terminator
	sink    EventSink
	mask    EventMasker
	evtPool BufferPool
	pduPool BufferPool
	peers   blell.PeerCache

	ownPubAddr  [6]byte
	ownRandAddr [6]byte
	masterSCA   uint8

	rand io.Reader
	log  blell.Logger

	// now and the rate-limit clock below are only read and written under
	// the controller lock.
	now            func() time.Time
	numCompRate    time.Duration
	nextNumCompEvt time.Time

	maxConns int
}

// NewController builds a controller with the given options applied on top
// of working defaults: in-memory pools, a no-op scanner, an allow-all event
// mask and a discarding sink.
func NewController(opts ...Option) (*Controller, error) {
	c := &Controller{
		scanner:     nopScanner{},
		sink:        discardSink{},
		mask:        allowAllMask{},
		rand:        rand.Reader,
		log:         blell.GetLogger(),
		now:         time.Now,
		numCompRate: DefaultCompletedPacketsRate,
		maxConns:    DefaultMaxConnections,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.evtPool == nil {
		c.evtPool = NewSlabPool(EventBufferSize, 2*c.maxConns)
	}
	if c.pduPool == nil {
		c.pduPool = NewSlabPool(PDUBufferSize, c.maxConns)
	}
	c.pool = newConnPool(c.maxConns)
	return c, nil
}

// CreateConnection handles an LE Create Connection command: full parameter
// validation, state machine allocation, CONNECT_REQ construction, and the
// hand-off to initiator-mode scanning. Any failure after allocation unwinds
// completely; the pending-create slot is recorded only once the scan start
// has succeeded.
func (c *Controller) CreateConnection(cc *cmd.LECreateConnection) Status {
	c.Lock()
	defer c.Unlock()

	// Only one create attempt may be outstanding, and initiator-mode
	// scanning cannot coexist with an independently running scan.
	if c.createSM != nil {
		return StatusCommandDisallowed
	}
	if c.scanner.Enabled() {
		return StatusCommandDisallowed
	}

	p, st := validateConnParams(cc)
	if st != StatusSuccess {
		return st
	}

	sm := c.pool.get()
	if sm == nil {
		return StatusConnLimit
	}

	c.initInitiator(sm, p)
	sm.connReq = c.makeConnReqPDU(sm)

	if err := c.scanner.StartInitiator(p); err != nil {
		c.log.Warnf("can't start initiator scan: %v", err)
		c.releaseConn(sm)
		return statusOf(err)
	}

	c.createSM = sm
	c.log.Debugf("create connection pending, handle 0x%04x peer %v", sm.handle, blell.Addr(sm.peerAddr))
	return StatusSuccess
}

// CreateConnectionCancel aborts the pending create attempt. It is
// disallowed when nothing is pending, and also when the attempt has already
// progressed past the waiting state: a race against peer progress resolves
// in favor of the connection.
func (c *Controller) CreateConnectionCancel() Status {
	c.Lock()
	defer c.Unlock()

	sm := c.createSM
	if sm == nil || sm.state != statePending {
		return StatusCommandDisallowed
	}

	c.createSM = nil
	c.scanner.Stop()
	c.connEnd(sm, StatusUnknownConnID)
	return StatusSuccess
}

// Disconnect handles a Disconnect command. The reason must be one of the
// host-permitted termination codes; a second disconnect on the same
// connection is rejected rather than silently accepted.
func (c *Controller) Disconnect(handle uint16, reason Status) Status {
	c.Lock()
	defer c.Unlock()

	if handle > MaxConnHandle || !validDisconnectReason(reason) {
		return StatusInvalidParams
	}

	sm := c.pool.findEstablished(handle)
	if sm == nil {
		return StatusUnknownConnID
	}
	if sm.disconnectReason != 0 {
		return StatusCommandDisallowed
	}
	// The duplicate-reason guard above is the only gate to this point, so
	// a terminate procedure cannot already be queued; if it is, internal
	// bookkeeping is broken.
	if sm.termQueued {
		panic("ll: terminate procedure already queued")
	}

	sm.disconnectReason = reason
	sm.termQueued = true
	sm.state = stateTerminating
	if c.term != nil {
		c.term.StartTerminate(sm.handle, reason)
	}
	c.log.Debugf("disconnect started, handle 0x%04x reason %v", handle, reason)
	return StatusSuccess
}

// ConnectionEstablished is called by the radio layer when the pending
// attempt's CONNECT_REQ exchange succeeded. The pending slot clears, the
// host gets a success connection-complete event, and the negotiated
// parameters are remembered for the peer when a cache is attached.
func (c *Controller) ConnectionEstablished() {
	c.Lock()
	defer c.Unlock()

	sm := c.createSM
	if sm == nil {
		c.log.Warn("connection established with no pending create")
		return
	}
	c.createSM = nil
	sm.state = stateActive
	c.sendConnCompleteEvent(sm, StatusSuccess)

	if c.peers != nil {
		rec := blell.PeerRecord{
			AddressType:        sm.peerAddrType,
			ConnInterval:       sm.connItvl,
			ConnLatency:        sm.latency,
			SupervisionTimeout: sm.supTimeout,
		}
		if err := c.peers.Store(blell.Addr(sm.peerAddr).String(), rec, true); err != nil {
			c.log.Warnf("can't cache peer parameters: %v", err)
		}
	}
}

// ConnectionLost is called by the radio layer on supervision timeout or a
// failed control procedure detected outside this layer.
func (c *Controller) ConnectionLost(handle uint16, reason Status) {
	c.Lock()
	defer c.Unlock()

	sm := c.pool.findEstablished(handle)
	if sm == nil {
		c.log.Warnf("connection lost for unknown handle 0x%04x", handle)
		return
	}
	c.connEnd(sm, reason)
}

// TerminateDone is called by the control procedure engine when the
// terminate exchange for a handle finished; the connection ends with the
// reason recorded at disconnect time.
func (c *Controller) TerminateDone(handle uint16) {
	c.Lock()
	defer c.Unlock()

	sm := c.pool.findEstablished(handle)
	if sm == nil {
		c.log.Warnf("terminate done for unknown handle 0x%04x", handle)
		return
	}
	c.connEnd(sm, sm.disconnectReason)
}

// QueueData enqueues an outbound data packet on an established connection.
func (c *Controller) QueueData(handle uint16, pdu []byte) Status {
	c.Lock()
	defer c.Unlock()

	sm := c.pool.findEstablished(handle)
	if sm == nil {
		return StatusUnknownConnID
	}
	sm.txq = append(sm.txq, pdu)
	return StatusSuccess
}

// PacketsCompleted is called by the radio layer after it finishes sending
// data packets; the counts accumulate until the next completed-packets
// report to the host.
func (c *Controller) PacketsCompleted(handle uint16, n uint16) {
	c.Lock()
	defer c.Unlock()

	sm := c.pool.findEstablished(handle)
	if sm == nil {
		c.log.Warnf("completed packets for unknown handle 0x%04x", handle)
		return
	}
	if int(n) < len(sm.txq) {
		sm.txq = sm.txq[n:]
	} else {
		sm.txq = nil
	}
	sm.completedPkts += n
}

// SendCompletedPackets runs one rate-limited batching pass over the active
// set, emitting number-of-completed-packets events. The radio scheduler
// calls this once per connection event tick.
func (c *Controller) SendCompletedPackets() {
	c.Lock()
	defer c.Unlock()
	c.numCompPktsEvent()
}

// connEnd tears down a state machine and reports the outcome appropriate
// for its phase: a create attempt that dies reports a connection-complete
// with the failure status, an established connection reports a
// disconnection-complete with the reason. The slot returns to the free
// list exactly once.
func (c *Controller) connEnd(sm *connSM, reason Status) {
	switch sm.state {
	case statePending:
		c.sendConnCompleteEvent(sm, reason)
	case stateActive, stateTerminating:
		c.sendDisconnCompleteEvent(sm, reason)
	}
	c.log.Debugf("connection ended, handle 0x%04x state %v reason %v", sm.handle, sm.state, reason)
	c.releaseConn(sm)
}

// releaseConn returns a state machine and its transmit buffer to their
// pools without emitting any event.
func (c *Controller) releaseConn(sm *connSM) {
	if sm.connReq != nil {
		c.pduPool.Put(sm.connReq)
		sm.connReq = nil
	}
	c.pool.put(sm)
}
