package ll

import "time"

// HCI command parameter limits [Vol 2, Part E, 7.8].
const (
	AddressTypePublic = 0x00
	AddressTypeRandom = 0x01

	InitiatorFilterPolicyMax = 0x01
	PeerAddressTypeMax       = AddressTypeRandom
	OwnAddressTypeMax        = AddressTypeRandom

	LEScanIntervalMin = 0x0004
	LEScanIntervalMax = 0x4000
	LEScanWindowMin   = 0x0004
	LEScanWindowMax   = 0x4000

	ConnIntervalMin = 0x0006
	ConnIntervalMax = 0x0c80
	ConnLatencyMax  = 0x01f3

	SupervisionTimeoutMin = 0x000a
	SupervisionTimeoutMax = 0x0c80
)

// Link Layer time units, in microseconds.
const (
	connIntervalUsecs      = 1250
	supervisionTmoUnitUsec = 10000
)

// Advertising channel PDU layout [Vol 6, Part B, 2.3].
const (
	pduTypeConnectReq = 0x05
	pduHdrTxAddRand   = 0x40

	PDUHeaderLen  = 2
	DevAddrLen    = 6
	ConnectReqLen = 34
	ChanMapLen    = 5

	// AdvA sits right after the header and InitA; the radio layer fills
	// it in once the target advertiser is confirmed.
	connectReqAdvAOff = PDUHeaderLen + DevAddrLen
)

const (
	RoleMaster = 0x00
	RoleSlave  = 0x01
)

// MaxConnHandle is the largest connection handle a host may reference.
const MaxConnHandle = 0x0eff

// Parameter lengths of the events this layer emits; codes live in the evt
// package.
const (
	leConnCompleteParamLen  = 19
	disconnCompleteParamLen = 4

	// One completed-packets event carries at most 60 handle/count pairs
	// so the packed payload still fits a standard 255-byte event buffer.
	maxHandlesPerEvent = 60
)

// EventBufferSize is the minimum size of buffers handed out by the event
// buffer pool: event code, length byte and 255 bytes of parameters.
const EventBufferSize = 2 + 255

// PDUBufferSize fits the largest advertising channel PDU.
const PDUBufferSize = PDUHeaderLen + 37

// DefaultCompletedPacketsRate is the minimum spacing between two
// number-of-completed-packets events.
const DefaultCompletedPacketsRate = 100 * time.Millisecond

// DefaultMaxConnections sizes the connection state machine pool.
const DefaultMaxConnections = 8

// advAccessAddr is the fixed access address of the advertising channel.
const advAccessAddr = 0x8e89bed6
