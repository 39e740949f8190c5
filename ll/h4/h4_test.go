package h4

import (
	"bytes"
	"io"
	"sync"
	"testing"
)

// pipeRW feeds canned chunks to Read and records Write calls.
type pipeRW struct {
	mu     sync.Mutex
	rx     chan []byte
	wrote  [][]byte
	closed bool
}

func newPipeRW() *pipeRW {
	return &pipeRW{rx: make(chan []byte, 8)}
}

func (p *pipeRW) Read(b []byte) (int, error) {
	chunk, ok := <-p.rx
	if !ok {
		return 0, io.EOF
	}
	return copy(b, chunk), nil
}

func (p *pipeRW) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cp := make([]byte, len(b))
	copy(cp, b)
	p.wrote = append(p.wrote, cp)
	return len(b), nil
}

func (p *pipeRW) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.rx)
	}
	return nil
}

func (p *pipeRW) writes() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.wrote
}

func TestSendEventPrependsIndicator(t *testing.T) {
	rw := newPipeRW()
	tr := NewTransport(rw)
	defer tr.Close()

	tr.SendEvent([]byte{0x05, 0x04, 0x00, 0x40, 0x00, 0x13})

	w := rw.writes()
	if len(w) != 1 {
		t.Fatalf("got %v writes, want a single framed packet", len(w))
	}
	want := []byte{0x04, 0x05, 0x04, 0x00, 0x40, 0x00, 0x13}
	if !bytes.Equal(w[0], want) {
		t.Fatalf("wire [% x], want [% x]", w[0], want)
	}
}

func TestReadCommandRoundTrip(t *testing.T) {
	rw := newPipeRW()
	tr := NewTransport(rw)
	defer tr.Close()

	rw.rx <- []byte{0x01, 0x0e, 0x20, 0x00}

	cmd, err := tr.ReadCommand()
	if err != nil {
		t.Fatal(err)
	}
	if cmd.OpCode != 0x200e || len(cmd.Params) != 0 {
		t.Fatalf("command %+v", cmd)
	}
}

func TestClosedTransport(t *testing.T) {
	rw := newPipeRW()
	tr := NewTransport(rw)

	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
	// Close again is a no-op.
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := tr.ReadCommand(); err != io.EOF {
		t.Fatalf("read on closed transport: %v", err)
	}

	tr.SendEvent([]byte{0x05})
	if len(rw.writes()) != 0 {
		t.Fatal("event written after close")
	}
}
