// Package h4 carries HCI traffic over a serial link using the H4 framing:
// one packet-indicator byte in front of each command or event. It is the
// transport between this controller and a host stack on the other end of a
// UART.
package h4

import (
	"io"
	"sync"
	"time"

	"github.com/jacobsa/go-serial/serial"
	"github.com/pkg/errors"

	"github.com/rigado/blell"
)

const (
	pktTypeCommand = 0x01
	pktTypeEvent   = 0x04

	rxQueueSize  = 64
	cmdHeaderLen = 4 // indicator, opcode (2), parameter length
	readTimeout  = time.Second
	frameTimeout = time.Second
)

// Command is one reassembled HCI command frame.
type Command struct {
	OpCode uint16
	Params []byte
}

// Transport frames events out and reassembles command frames in, over any
// io.ReadWriteCloser.
type Transport struct {
	rw  io.ReadWriteCloser
	rmu sync.Mutex
	wmu sync.Mutex

	frame    []byte
	deadline time.Time

	rxQueue chan Command

	done chan int
	cmu  sync.Mutex

	now func() time.Time
	log blell.Logger
}

// DefaultSerialOptions returns the UART settings most controllers ship
// with; the caller only has to fill in the port name.
func DefaultSerialOptions() serial.OpenOptions {
	return serial.OpenOptions{
		BaudRate:          1000000,
		DataBits:          8,
		StopBits:          1,
		ParityMode:        serial.PARITY_NONE,
		RTSCTSFlowControl: true,
	}
}

// NewUART opens a serial port and returns a Transport over it.
func NewUART(opts serial.OpenOptions) (*Transport, error) {
	// force these; frame reassembly depends on short reads returning
	opts.MinimumReadSize = 0
	opts.InterCharacterTimeout = 100

	sp, err := serial.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "can't open serial port")
	}
	return NewTransport(sp), nil
}

// NewTransport wraps an already-open duplex link.
func NewTransport(rw io.ReadWriteCloser) *Transport {
	t := &Transport{
		rw:      rw,
		rxQueue: make(chan Command, rxQueueSize),
		done:    make(chan int),
		now:     time.Now,
		log:     blell.GetLogger(),
	}
	go t.rxLoop()
	return t
}

// SendEvent implements ll.EventSink: the event packet goes out behind a
// pktTypeEvent indicator. The slice is not retained.
func (t *Transport) SendEvent(b []byte) {
	if !t.isOpen() {
		return
	}
	pkt := make([]byte, 0, 1+len(b))
	pkt = append(pkt, pktTypeEvent)
	pkt = append(pkt, b...)

	t.wmu.Lock()
	_, err := t.rw.Write(pkt)
	t.wmu.Unlock()
	if err != nil {
		t.log.Errorf("h4: can't write event: %v", err)
	}
}

// ReadCommand blocks for the next reassembled command frame.
func (t *Transport) ReadCommand() (Command, error) {
	if !t.isOpen() {
		return Command{}, io.EOF
	}

	t.rmu.Lock()
	defer t.rmu.Unlock()

	select {
	case c := <-t.rxQueue:
		return c, nil
	case <-t.done:
		return Command{}, io.EOF
	case <-time.After(readTimeout):
		return Command{}, errors.New("timeout")
	}
}

func (t *Transport) Close() error {
	t.cmu.Lock()
	defer t.cmu.Unlock()

	select {
	case <-t.done:
		return nil
	default:
		close(t.done)
		return errors.Wrap(t.rw.Close(), "can't close h4 transport")
	}
}

func (t *Transport) isOpen() bool {
	select {
	case <-t.done:
		return false
	default:
		return t.rw != nil
	}
}

func (t *Transport) rxLoop() {
	tmp := make([]byte, 512)
	for t.isOpen() {
		n, err := t.rw.Read(tmp)
		if err != nil || n == 0 {
			continue
		}
		t.frameAssemble(tmp[:n])
	}
}
