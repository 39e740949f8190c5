package ll

import (
	"fmt"

	"github.com/pkg/errors"
)

// Status is a BLE Core controller error code. Command handlers return one
// synchronously for every host command; StatusSuccess means the command was
// accepted.
type Status uint8

const (
	StatusSuccess                  Status = 0x00
	StatusUnknownConnID            Status = 0x02
	StatusAuthFailure              Status = 0x05
	StatusMemCapacityExceeded      Status = 0x07
	StatusConnTimeout              Status = 0x08
	StatusConnLimit                Status = 0x09
	StatusCommandDisallowed        Status = 0x0c
	StatusInvalidParams            Status = 0x12
	StatusRemoteUserTerm           Status = 0x13
	StatusRemoteLowResources       Status = 0x14
	StatusRemotePowerOff           Status = 0x15
	StatusUnsupportedRemoteFeature Status = 0x1a
	StatusUnspecified              Status = 0x1f
	StatusUnitKeyPairing           Status = 0x29
	StatusUnacceptableConnParams   Status = 0x3b
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusUnknownConnID:
		return "unknown connection identifier"
	case StatusAuthFailure:
		return "authentication failure"
	case StatusMemCapacityExceeded:
		return "memory capacity exceeded"
	case StatusConnTimeout:
		return "connection timeout"
	case StatusConnLimit:
		return "connection limit exceeded"
	case StatusCommandDisallowed:
		return "command disallowed"
	case StatusInvalidParams:
		return "invalid HCI command parameters"
	case StatusRemoteUserTerm:
		return "remote user terminated connection"
	case StatusRemoteLowResources:
		return "remote device low on resources"
	case StatusRemotePowerOff:
		return "remote device powered off"
	case StatusUnsupportedRemoteFeature:
		return "unsupported remote feature"
	case StatusUnspecified:
		return "unspecified error"
	case StatusUnitKeyPairing:
		return "unit key pairing unsupported"
	case StatusUnacceptableConnParams:
		return "unacceptable connection parameters"
	}
	return fmt.Sprintf("status 0x%02x", uint8(s))
}

// validDisconnectReason reports whether a host may use reason in a
// Disconnect command [Vol 2, Part E, 7.1.6].
func validDisconnectReason(reason Status) bool {
	switch reason {
	case StatusAuthFailure,
		StatusRemoteUserTerm,
		StatusRemoteLowResources,
		StatusRemotePowerOff,
		StatusUnsupportedRemoteFeature,
		StatusUnitKeyPairing,
		StatusUnacceptableConnParams:
		return true
	}
	return false
}

// StatusError carries a Status across an error boundary, so collaborators
// returning plain errors can still dictate the code reported to the host.
type StatusError struct {
	Code Status
}

func (e *StatusError) Error() string {
	return e.Code.String()
}

// statusOf maps a collaborator error back to a Status. A nil error is
// success; anything that isn't a StatusError degrades to unspecified.
func statusOf(err error) Status {
	if err == nil {
		return StatusSuccess
	}
	if se, ok := errors.Cause(err).(*StatusError); ok {
		return se.Code
	}
	return StatusUnspecified
}
