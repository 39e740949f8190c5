package ll

import "github.com/rigado/blell/ll/cmd"

// ConnParams is the fully validated projection of an LE Create Connection
// command. It is consumed by the create call that produced it and never
// persisted.
type ConnParams struct {
	ScanItvl     uint16
	ScanWindow   uint16
	FilterPolicy uint8
	PeerAddrType uint8
	PeerAddr     [6]byte
	OwnAddrType  uint8

	ConnItvlMin        uint16
	ConnItvlMax        uint16
	ConnLatency        uint16
	SupervisionTimeout uint16
	MinCELen           uint16
	MaxCELen           uint16
}

// validateConnParams checks every field and cross-field constraint of a
// create-connection command, in command order, first failure wins. It has
// no side effects; on success the returned ConnParams carries everything
// the lifecycle needs.
func validateConnParams(cc *cmd.LECreateConnection) (*ConnParams, Status) {
	p := &ConnParams{}

	p.ScanItvl = cc.LEScanInterval
	p.ScanWindow = cc.LEScanWindow
	if p.ScanItvl < LEScanIntervalMin || p.ScanItvl > LEScanIntervalMax ||
		p.ScanWindow < LEScanWindowMin || p.ScanWindow > LEScanWindowMax ||
		p.ScanItvl < p.ScanWindow {
		return nil, StatusInvalidParams
	}

	p.FilterPolicy = cc.InitiatorFilterPolicy
	if p.FilterPolicy > InitiatorFilterPolicyMax {
		return nil, StatusInvalidParams
	}

	// Peer address matters only when the white list is not used.
	if p.FilterPolicy == 0 {
		p.PeerAddrType = cc.PeerAddressType
		if p.PeerAddrType > PeerAddressTypeMax {
			return nil, StatusInvalidParams
		}
		p.PeerAddr = cc.PeerAddress
	}

	p.OwnAddrType = cc.OwnAddressType
	if p.OwnAddrType > OwnAddressTypeMax {
		return nil, StatusInvalidParams
	}

	p.ConnItvlMin = cc.ConnIntervalMin
	p.ConnItvlMax = cc.ConnIntervalMax
	p.ConnLatency = cc.ConnLatency
	if p.ConnItvlMin > p.ConnItvlMax ||
		p.ConnItvlMin < ConnIntervalMin ||
		p.ConnItvlMin > ConnIntervalMax ||
		p.ConnLatency > ConnLatencyMax {
		return nil, StatusInvalidParams
	}

	p.SupervisionTimeout = cc.SupervisionTimeout
	if p.SupervisionTimeout < SupervisionTimeoutMin ||
		p.SupervisionTimeout > SupervisionTimeoutMax {
		return nil, StatusInvalidParams
	}

	// The supervision timeout must be strictly more than
	// (1 + connLatency) * connIntervalMax * 1.25 ms * 2, or a peripheral
	// could be declared lost before legally skipping its allotted
	// connection events. Computed in microseconds, in 64 bits; the
	// multiplication chain overflows 32 bits at the top of the ranges.
	tmoUsecs := uint64(p.SupervisionTimeout) * supervisionTmoUnitUsec
	minUsecs := uint64(p.ConnItvlMax) * 2 * connIntervalUsecs * (1 + uint64(p.ConnLatency))
	if tmoUsecs <= minUsecs {
		return nil, StatusInvalidParams
	}

	p.MinCELen = cc.MinimumCELength
	p.MaxCELen = cc.MaximumCELength
	if p.MinCELen > p.MaxCELen {
		return nil, StatusInvalidParams
	}

	return p, StatusSuccess
}
