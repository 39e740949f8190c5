package ll

import (
	"encoding/binary"

	"github.com/rigado/blell/ll/evt"
)

// Event builders. Every builder is gated by the host's event mask and
// degrades to a silent drop when no event buffer is available: these are
// best-effort notifications on top of a real-time radio loop, and blocking
// or retrying is never acceptable.

// sendConnCompleteEvent reports the outcome of a connection creation. On a
// failure status only the status field is populated; the event length does
// not change.
func (c *Controller) sendConnCompleteEvent(sm *connSM, status Status) {
	if !c.mask.LEEventEnabled(evt.LEConnectionCompleteSubCode) {
		return
	}
	ev := c.evtPool.Get()
	if ev == nil {
		c.log.Warn("connection complete event dropped, no event buffer")
		return
	}
	ev = ev[:2+leConnCompleteParamLen]

	ev[0] = evt.LEMetaCode
	ev[1] = leConnCompleteParamLen
	ev[2] = evt.LEConnectionCompleteSubCode
	ev[3] = byte(status)
	for i := 4; i < len(ev); i++ {
		ev[i] = 0
	}
	if status == StatusSuccess {
		binary.LittleEndian.PutUint16(ev[4:], sm.handle)
		ev[6] = sm.role
		ev[7] = sm.peerAddrType
		copy(ev[8:14], sm.peerAddr[:])
		binary.LittleEndian.PutUint16(ev[14:], sm.connItvl)
		binary.LittleEndian.PutUint16(ev[16:], sm.latency)
		binary.LittleEndian.PutUint16(ev[18:], sm.supTimeout)
		ev[20] = sm.masterSCA
	}

	c.sink.SendEvent(ev)
	c.evtPool.Put(ev)
}

// sendDisconnCompleteEvent reports that a connection ended and why. It is
// emitted only once teardown is decided, never for the request phase.
func (c *Controller) sendDisconnCompleteEvent(sm *connSM, reason Status) {
	if !c.mask.EventEnabled(evt.DisconnectionCompleteCode) {
		return
	}
	ev := c.evtPool.Get()
	if ev == nil {
		c.log.Warn("disconnection complete event dropped, no event buffer")
		return
	}
	ev = ev[:2+disconnCompleteParamLen]

	ev[0] = evt.DisconnectionCompleteCode
	ev[1] = disconnCompleteParamLen
	ev[2] = byte(StatusSuccess)
	binary.LittleEndian.PutUint16(ev[3:], sm.handle)
	ev[5] = byte(reason)

	c.sink.SendEvent(ev)
	c.evtPool.Put(ev)
}

// numCompPktsEvent batches (handle, completed count) pairs for every
// established connection with outstanding counts or queued data, in a
// single pass over the active set.
//
// The per-spec layout wants all handles contiguous and then all counts
// contiguous. To avoid a second pass or a scratch allocation, counts are
// written into the same buffer at the offset the maximum 60 handles would
// need; when fewer than 60 are collected the counts region is shifted down
// against the handles before the send. A full buffer is sent immediately
// and a fresh one started, so one pass can emit several events.
//
// A count is zeroed the moment it is copied: the event is advisory flow
// control, and a resend could not recover the counts anyway. If the buffer
// pool is exhausted mid-pass the remaining connections keep their counts
// for the next pass, and counts already copied into the unsendable pass are
// accepted as lost.
func (c *Controller) numCompPktsEvent() {
	now := c.now()
	if now.Before(c.nextNumCompEvt) {
		return
	}

	var ev []byte
	handles := 0
	eventSent := false

	finalize := func() {
		ev[0] = evt.NumberOfCompletedPacketsCode
		ev[1] = byte(handles*4 + 1)
		ev[2] = byte(handles)
		if handles < maxHandlesPerEvent {
			// Make the counts contiguous with the handles.
			countsOff := 3 + 2*maxHandlesPerEvent
			copy(ev[3+2*handles:], ev[countsOff:countsOff+2*handles])
		}
		out := ev[:3+4*handles]
		c.sink.SendEvent(out)
		c.evtPool.Put(ev)
		ev = nil
		handles = 0
		eventSent = true
	}

	for _, idx := range c.pool.active {
		sm := &c.pool.slots[idx]
		if !sm.established() {
			continue
		}
		if sm.completedPkts == 0 && len(sm.txq) == 0 {
			continue
		}

		if ev == nil {
			ev = c.evtPool.Get()
			if ev == nil {
				break
			}
			if len(ev) < 3+4*maxHandlesPerEvent {
				panic("ll: event buffer smaller than a full completed-packets event")
			}
		}

		binary.LittleEndian.PutUint16(ev[3+2*handles:], sm.handle)
		binary.LittleEndian.PutUint16(ev[3+2*maxHandlesPerEvent+2*handles:], sm.completedPkts)
		sm.completedPkts = 0
		handles++

		if handles == maxHandlesPerEvent {
			finalize()
		}
	}

	if ev != nil {
		finalize()
	}

	if eventSent {
		c.nextNumCompEvt = now.Add(c.numCompRate)
	}
}
