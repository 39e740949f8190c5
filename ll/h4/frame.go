package h4

import "encoding/binary"

// frameAssemble accumulates raw serial chunks into command frames. A frame
// that stalls longer than frameTimeout is abandoned; garbage in front of a
// frame is skipped byte-wise until a command indicator lines up.
func (t *Transport) frameAssemble(b []byte) {
	if len(b) == 0 {
		return
	}
	if t.frame != nil && t.now().After(t.deadline) {
		t.log.Warnf("h4: dropping stalled frame of %v bytes", len(t.frame))
		t.frame = nil
	}
	if t.frame == nil {
		t.deadline = t.now().Add(frameTimeout)
	}

	t.frame = append(t.frame, b...)

	for {
		// resync on the command indicator
		for len(t.frame) > 0 && t.frame[0] != pktTypeCommand {
			t.log.Warnf("h4: skipping unexpected byte 0x%02x", t.frame[0])
			t.frame = t.frame[1:]
		}
		if len(t.frame) < cmdHeaderLen {
			return
		}

		plen := int(t.frame[3])
		if len(t.frame) < cmdHeaderLen+plen {
			return
		}

		params := make([]byte, plen)
		copy(params, t.frame[cmdHeaderLen:cmdHeaderLen+plen])
		cmd := Command{
			OpCode: binary.LittleEndian.Uint16(t.frame[1:3]),
			Params: params,
		}
		t.frame = t.frame[cmdHeaderLen+plen:]
		if len(t.frame) == 0 {
			t.frame = nil
		}

		select {
		case t.rxQueue <- cmd:
		default:
			t.log.Warn("h4: rx queue full, command dropped")
		}
	}
}
