package blell

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

// Addr is a 6-byte Bluetooth device address, stored least significant
// byte first as it appears over the air.
type Addr [6]byte

// ParseAddr decodes a colon-separated MAC string ("AA:BB:CC:DD:EE:FF",
// most significant byte first) into an Addr.
func ParseAddr(s string) (Addr, error) {
	var a Addr
	b, err := hex.DecodeString(strings.Replace(strings.ToLower(s), ":", "", -1))
	if err != nil {
		return a, errors.Wrapf(err, "can't parse address %q", s)
	}
	if len(b) != len(a) {
		return a, errors.Errorf("address %q is not 6 bytes", s)
	}
	for i := range a {
		a[i] = b[len(b)-1-i]
	}
	return a, nil
}

// String renders the address most significant byte first with colon
// separators, the way hcitool and btmon print it.
func (a Addr) String() string {
	parts := make([]string, 0, len(a))
	for i := len(a) - 1; i >= 0; i-- {
		parts = append(parts, hex.EncodeToString([]byte{a[i]}))
	}
	return strings.Join(parts, ":")
}

// Bytes returns the over-the-air (little-endian) byte order.
func (a Addr) Bytes() []byte {
	out := make([]byte, len(a))
	copy(out, a[:])
	return out
}
