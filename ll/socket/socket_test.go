//go:build linux
// +build linux

package socket

import (
	"bytes"
	"io"
	"testing"
)

func TestPairRoundTrip(t *testing.T) {
	a, b, err := Pair()
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	defer b.Close()

	msg := []byte{0x04, 0x05, 0x04, 0x00, 0x40, 0x00, 0x13}
	if _, err := a.Write(msg); err != nil {
		t.Fatal(err)
	}

	buf := make([]byte, 64)
	n, err := b.Read(buf)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf[:n], msg) {
		t.Fatalf("read [% x], wrote [% x]", buf[:n], msg)
	}
}

func TestPacketBoundariesPreserved(t *testing.T) {
	a, b, err := Pair()
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	defer b.Close()

	a.Write([]byte{0x01, 0x02})
	a.Write([]byte{0x03})

	buf := make([]byte, 64)
	n, err := b.Read(buf)
	if err != nil || n != 2 {
		t.Fatalf("first packet n=%v err=%v", n, err)
	}
	n, err = b.Read(buf)
	if err != nil || n != 1 {
		t.Fatalf("second packet n=%v err=%v", n, err)
	}
}

func TestReadAfterClose(t *testing.T) {
	a, b, err := Pair()
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	if err := a.Close(); err != nil {
		t.Fatal(err)
	}
	// Close again is a no-op.
	if err := a.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := a.Read(make([]byte, 8)); err != io.EOF {
		t.Fatalf("read on closed end: %v", err)
	}
	if _, err := a.Write([]byte{0x01}); err != io.EOF {
		t.Fatalf("write on closed end: %v", err)
	}

	// The peer sees the hangup.
	if _, err := b.Read(make([]byte, 8)); err != io.EOF {
		t.Fatalf("peer read after hangup: %v", err)
	}
}
