package blell

import (
	"bytes"
	"testing"
)

func TestParseAddr(t *testing.T) {
	a, err := ParseAddr("AA:BB:CC:DD:EE:FF")
	if err != nil {
		t.Fatal(err)
	}

	// stored least significant byte first
	if a != (Addr{0xff, 0xee, 0xdd, 0xcc, 0xbb, 0xaa}) {
		t.Fatalf("stored % x", a[:])
	}
	if a.String() != "aa:bb:cc:dd:ee:ff" {
		t.Fatalf("rendered %q", a.String())
	}
	if !bytes.Equal(a.Bytes(), []byte{0xff, 0xee, 0xdd, 0xcc, 0xbb, 0xaa}) {
		t.Fatalf("over-the-air % x", a.Bytes())
	}
}

func TestParseAddrRejectsBadInput(t *testing.T) {
	for _, s := range []string{
		"",
		"aa:bb:cc:dd:ee",       // short
		"aa:bb:cc:dd:ee:ff:00", // long
		"gg:bb:cc:dd:ee:ff",    // not hex
		"aabb:ccdd:eeff:aabb:ccdd:eeff",
	} {
		if _, err := ParseAddr(s); err == nil {
			t.Errorf("ParseAddr(%q) accepted", s)
		}
	}
}
