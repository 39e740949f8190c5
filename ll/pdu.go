package ll

import "encoding/binary"

// makeConnReqPDU serializes the CONNECT_REQ for a pending connection into a
// transmit buffer. The caller guarantees buffer availability before
// starting a create attempt: with no transmit buffer there is no PDU to
// send, so exhaustion here is a broken precondition, not an error.
//
// Layout after the 2-byte header: InitA(6) AdvA(6) AA(4) CRCInit(3)
// WinSize(1) WinOffset(2) Interval(2) Latency(2) Timeout(2) ChM(5) Hop|SCA(1).
func (c *Controller) makeConnReqPDU(sm *connSM) []byte {
	b := c.pduPool.Get()
	if b == nil {
		panic("ll: no transmit buffer for CONNECT_REQ")
	}
	if len(b) < PDUHeaderLen+ConnectReqLen {
		panic("ll: transmit buffer smaller than a CONNECT_REQ")
	}
	b = b[:PDUHeaderLen+ConnectReqLen]

	pduType := byte(pduTypeConnectReq)
	var own [6]byte
	switch sm.ownAddrType {
	case AddressTypePublic:
		own = c.ownPubAddr
	case AddressTypeRandom:
		pduType |= pduHdrTxAddRand
		own = c.ownRandAddr
	default:
		// The validator bounds the own address type before a state
		// machine is ever initialized.
		panic("ll: unsupported own address type in CONNECT_REQ")
	}

	b[0] = pduType
	b[1] = ConnectReqLen
	copy(b[PDUHeaderLen:], own[:])

	// AdvA stays zero; the radio layer writes the advertiser's address
	// once the target is confirmed.
	for i := connectReqAdvAOff; i < connectReqAdvAOff+DevAddrLen; i++ {
		b[i] = 0
	}

	d := b[connectReqAdvAOff+DevAddrLen:]
	binary.LittleEndian.PutUint32(d[0:], sm.accessAddr)
	d[4] = byte(sm.crcInit)
	d[5] = byte(sm.crcInit >> 8)
	d[6] = byte(sm.crcInit >> 16)
	d[7] = sm.txWinSize
	binary.LittleEndian.PutUint16(d[8:], sm.txWinOff)
	binary.LittleEndian.PutUint16(d[10:], sm.connItvl)
	binary.LittleEndian.PutUint16(d[12:], sm.latency)
	binary.LittleEndian.PutUint16(d[14:], sm.supTimeout)
	copy(d[16:], sm.chanMap[:])
	d[21] = sm.hopInc | sm.masterSCA<<5

	return b
}
