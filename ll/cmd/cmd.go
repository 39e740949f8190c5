// Package cmd defines the wire form of the connection-management HCI
// commands this controller accepts. Multi-byte fields are little-endian at
// fixed offsets.
package cmd

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

const (
	DisconnectOpcode               = 0x0406
	LECreateConnectionOpcode       = 0x200d
	LECreateConnectionCancelOpcode = 0x200e
)

// Command is an HCI command payload that can cross the transport.
type Command interface {
	OpCode() int
	Len() int
	Marshal([]byte) error
	Unmarshal([]byte) error
}

// LECreateConnection [Vol 2, Part E, 7.8.12]
type LECreateConnection struct {
	LEScanInterval        uint16
	LEScanWindow          uint16
	InitiatorFilterPolicy uint8
	PeerAddressType       uint8
	PeerAddress           [6]byte
	OwnAddressType        uint8
	ConnIntervalMin       uint16
	ConnIntervalMax       uint16
	ConnLatency           uint16
	SupervisionTimeout    uint16
	MinimumCELength       uint16
	MaximumCELength       uint16
}

func (c *LECreateConnection) OpCode() int { return LECreateConnectionOpcode }
func (c *LECreateConnection) Len() int    { return 25 }

func (c *LECreateConnection) Marshal(b []byte) error {
	if len(b) < c.Len() {
		return errors.Errorf("buffer too small: %v < %v", len(b), c.Len())
	}
	binary.LittleEndian.PutUint16(b[0:], c.LEScanInterval)
	binary.LittleEndian.PutUint16(b[2:], c.LEScanWindow)
	b[4] = c.InitiatorFilterPolicy
	b[5] = c.PeerAddressType
	copy(b[6:12], c.PeerAddress[:])
	b[12] = c.OwnAddressType
	binary.LittleEndian.PutUint16(b[13:], c.ConnIntervalMin)
	binary.LittleEndian.PutUint16(b[15:], c.ConnIntervalMax)
	binary.LittleEndian.PutUint16(b[17:], c.ConnLatency)
	binary.LittleEndian.PutUint16(b[19:], c.SupervisionTimeout)
	binary.LittleEndian.PutUint16(b[21:], c.MinimumCELength)
	binary.LittleEndian.PutUint16(b[23:], c.MaximumCELength)
	return nil
}

func (c *LECreateConnection) Unmarshal(b []byte) error {
	if len(b) < c.Len() {
		return errors.Errorf("truncated command: %v < %v", len(b), c.Len())
	}
	c.LEScanInterval = binary.LittleEndian.Uint16(b[0:])
	c.LEScanWindow = binary.LittleEndian.Uint16(b[2:])
	c.InitiatorFilterPolicy = b[4]
	c.PeerAddressType = b[5]
	copy(c.PeerAddress[:], b[6:12])
	c.OwnAddressType = b[12]
	c.ConnIntervalMin = binary.LittleEndian.Uint16(b[13:])
	c.ConnIntervalMax = binary.LittleEndian.Uint16(b[15:])
	c.ConnLatency = binary.LittleEndian.Uint16(b[17:])
	c.SupervisionTimeout = binary.LittleEndian.Uint16(b[19:])
	c.MinimumCELength = binary.LittleEndian.Uint16(b[21:])
	c.MaximumCELength = binary.LittleEndian.Uint16(b[23:])
	return nil
}

// Disconnect [Vol 2, Part E, 7.1.6]
type Disconnect struct {
	ConnectionHandle uint16
	Reason           uint8
}

func (c *Disconnect) OpCode() int { return DisconnectOpcode }
func (c *Disconnect) Len() int    { return 3 }

func (c *Disconnect) Marshal(b []byte) error {
	if len(b) < c.Len() {
		return errors.Errorf("buffer too small: %v < %v", len(b), c.Len())
	}
	binary.LittleEndian.PutUint16(b[0:], c.ConnectionHandle)
	b[2] = c.Reason
	return nil
}

func (c *Disconnect) Unmarshal(b []byte) error {
	if len(b) < c.Len() {
		return errors.Errorf("truncated command: %v < %v", len(b), c.Len())
	}
	c.ConnectionHandle = binary.LittleEndian.Uint16(b[0:])
	c.Reason = b[2]
	return nil
}

// LECreateConnectionCancel [Vol 2, Part E, 7.8.13]; it carries no payload.
type LECreateConnectionCancel struct{}

func (c *LECreateConnectionCancel) OpCode() int { return LECreateConnectionCancelOpcode }
func (c *LECreateConnectionCancel) Len() int    { return 0 }

func (c *LECreateConnectionCancel) Marshal([]byte) error   { return nil }
func (c *LECreateConnectionCancel) Unmarshal([]byte) error { return nil }
