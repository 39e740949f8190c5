package blell

// PeerRecord holds the parameters negotiated with a peer the last time a
// connection to it was established.
type PeerRecord struct {
	AddressType        uint8  `json:"addressType"`
	ConnInterval       uint16 `json:"connInterval"`
	ConnLatency        uint16 `json:"connLatency"`
	SupervisionTimeout uint16 `json:"supervisionTimeout"`
}

// PeerCache persists PeerRecords across controller restarts, keyed by the
// peer's address string.
type PeerCache interface {
	Store(addr string, rec PeerRecord, replace bool) error
	Load(addr string) (PeerRecord, error)
	Clear() error
}
