package ll

// Scanner is the scanning subsystem the controller borrows to find the peer
// it wants to connect to. Passive scanning and initiator-mode scanning are
// mutually exclusive; Enabled reports whether any scan is running.
type Scanner interface {
	Enabled() bool

	// StartInitiator begins initiator-mode scanning for the peer named in
	// the validated parameters. A returned *StatusError dictates the code
	// reported to the host; any other error degrades to unspecified.
	StartInitiator(p *ConnParams) error

	Stop()
}

// EventSink carries a fully built event packet to the host. The send is
// synchronous and the sink must not retain b after returning; the buffer
// goes back to the event pool as soon as SendEvent returns.
type EventSink interface {
	SendEvent(b []byte)
}

// EventMasker answers whether the host enabled an event class. Disabled
// events are skipped silently, which is not an error.
type EventMasker interface {
	EventEnabled(code uint8) bool
	LEEventEnabled(subevent uint8) bool
}

// Terminator is the control procedure engine. StartTerminate queues the
// LL_TERMINATE_IND exchange for the given connection; completion comes back
// through Controller.TerminateDone.
type Terminator interface {
	StartTerminate(handle uint16, reason Status)
}

type nopScanner struct{}

func (nopScanner) Enabled() bool                      { return false }
func (nopScanner) StartInitiator(p *ConnParams) error { return nil }
func (nopScanner) Stop()                              {}

type allowAllMask struct{}

func (allowAllMask) EventEnabled(uint8) bool   { return true }
func (allowAllMask) LEEventEnabled(uint8) bool { return true }

type discardSink struct{}

func (discardSink) SendEvent([]byte) {}
