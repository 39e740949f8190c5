package ll

import (
	"encoding/binary"
	"math/bits"
)

type connState uint8

const (
	// stateIdle: the slot sits on the free list.
	stateIdle connState = iota
	// statePending: a create-connection attempt owns the slot but no
	// CONNECT_REQ exchange has succeeded yet.
	statePending
	// stateActive: established and reported to the host.
	stateActive
	// stateTerminating: a terminate procedure is in flight.
	stateTerminating
)

func (s connState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case statePending:
		return "pending"
	case stateActive:
		return "active"
	case stateTerminating:
		return "terminating"
	}
	return "unknown"
}

// connSM is one connection state machine. Slots live in a fixed arena and
// are recycled through the free list; a slot is never referenced by the
// host once it returns to idle.
type connSM struct {
	slot   int
	handle uint16

	state connState
	role  uint8

	peerAddr     [6]byte
	peerAddrType uint8
	ownAddrType  uint8

	accessAddr uint32
	crcInit    uint32 // 24 bits used

	txWinSize  uint8
	txWinOff   uint16
	connItvl   uint16
	latency    uint16
	supTimeout uint16
	chanMap    [ChanMapLen]byte
	hopInc     uint8
	masterSCA  uint8

	// completedPkts counts data packets finished since the last
	// number-of-completed-packets report.
	completedPkts uint16
	txq           [][]byte

	// disconnectReason is set at most once; non-zero means a disconnect
	// is in progress.
	disconnectReason Status
	termQueued       bool

	// connReq is the prebuilt CONNECT_REQ PDU, owned by this slot until
	// release.
	connReq []byte
}

// established reports whether the connection has been announced to the host
// via a successful connection-complete event. Pending create attempts do
// not qualify for completed-packet reporting.
func (sm *connSM) established() bool {
	return sm.state == stateActive || sm.state == stateTerminating
}

func (sm *connSM) reset() {
	h := sm.handle
	slot := sm.slot
	*sm = connSM{slot: slot, handle: h}
}

// connPool is an arena of state machine slots plus explicit free and active
// index sets. Handles are slot index + 1 and stay stable for the life of
// the controller.
type connPool struct {
	slots  []connSM
	free   []int
	active []int
}

func newConnPool(n int) *connPool {
	p := &connPool{
		slots: make([]connSM, n),
		free:  make([]int, 0, n),
	}
	for i := n - 1; i >= 0; i-- {
		p.slots[i].slot = i
		p.slots[i].handle = uint16(i) + 1
		p.free = append(p.free, i)
	}
	return p
}

// get allocates a slot, or returns nil when the pool is exhausted.
func (p *connPool) get() *connSM {
	n := len(p.free)
	if n == 0 {
		return nil
	}
	i := p.free[n-1]
	p.free = p.free[:n-1]
	sm := &p.slots[i]
	if sm.state != stateIdle {
		panic("ll: allocating a connection slot that is not idle")
	}
	p.active = append(p.active, i)
	return sm
}

// put returns a slot to the free list.
func (p *connPool) put(sm *connSM) {
	if sm.state == stateIdle {
		panic("ll: releasing an idle connection slot")
	}
	for i, idx := range p.active {
		if idx == sm.slot {
			p.active = append(p.active[:i], p.active[i+1:]...)
			sm.reset()
			p.free = append(p.free, sm.slot)
			return
		}
	}
	panic("ll: releasing a connection slot that is not active")
}

// findEstablished returns the established connection with the given handle.
func (p *connPool) findEstablished(handle uint16) *connSM {
	for _, idx := range p.active {
		sm := &p.slots[idx]
		if sm.handle == handle && sm.established() {
			return sm
		}
	}
	return nil
}

func (p *connPool) accessAddrInUse(aa uint32) bool {
	for _, idx := range p.active {
		if p.slots[idx].accessAddr == aa {
			return true
		}
	}
	return false
}

// validAccessAddr applies the Core-spec shape rules for data channel access
// addresses [Vol 6, Part B, 2.1.2]: never the advertising access address
// nor within one bit of it, the four octets must not all be equal, and no
// run of more than six identical bits.
func validAccessAddr(aa uint32) bool {
	if d := aa ^ advAccessAddr; bits.OnesCount32(d) <= 1 {
		return false
	}
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], aa)
	if b[0] == b[1] && b[1] == b[2] && b[2] == b[3] {
		return false
	}
	run, prev := 0, uint32(2)
	for i := 0; i < 32; i++ {
		bit := (aa >> uint(i)) & 1
		if bit == prev {
			run++
			if run > 6 {
				return false
			}
		} else {
			run = 1
			prev = bit
		}
	}
	return true
}

func (c *Controller) randBytes(b []byte) {
	if _, err := c.rand.Read(b); err != nil {
		// Entropy failure leaves the controller unable to mint access
		// addresses; there is no sane degraded mode.
		panic("ll: entropy source failed: " + err.Error())
	}
}

// newAccessAddr mints a random access address that is valid on the data
// channel and not already carried by an active connection.
func (c *Controller) newAccessAddr() uint32 {
	var b [4]byte
	for {
		c.randBytes(b[:])
		aa := binary.LittleEndian.Uint32(b[:])
		if !validAccessAddr(aa) || c.pool.accessAddrInUse(aa) {
			continue
		}
		return aa
	}
}

func (c *Controller) newCRCInit() uint32 {
	var b [4]byte
	c.randBytes(b[:3])
	return binary.LittleEndian.Uint32(b[:]) & 0x00ffffff
}

// newHopInc picks a hop increment in the 5..16 range the hopping algorithm
// requires.
func (c *Controller) newHopInc() uint8 {
	var b [1]byte
	c.randBytes(b[:])
	return 5 + b[0]%12
}

// initInitiator seeds a freshly allocated state machine from validated
// create-connection parameters, in the initiator (master) role.
func (c *Controller) initInitiator(sm *connSM, p *ConnParams) {
	sm.state = statePending
	sm.role = RoleMaster
	sm.peerAddr = p.PeerAddr
	sm.peerAddrType = p.PeerAddrType
	sm.ownAddrType = p.OwnAddrType
	sm.accessAddr = c.newAccessAddr()
	sm.crcInit = c.newCRCInit()
	sm.txWinSize = 1
	sm.txWinOff = 0
	sm.connItvl = p.ConnItvlMax
	sm.latency = p.ConnLatency
	sm.supTimeout = p.SupervisionTimeout
	sm.chanMap = [ChanMapLen]byte{0xff, 0xff, 0xff, 0xff, 0x1f}
	sm.hopInc = c.newHopInc()
	sm.masterSCA = c.masterSCA
}
