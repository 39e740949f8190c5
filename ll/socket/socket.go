//go:build linux
// +build linux

// Package socket provides an in-process duplex packet link, used to wire a
// virtual controller to a host harness without real hardware.
package socket

import (
	"io"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const (
	readTimeout    = 1000 // milliseconds
	unixPollErrors = int16(unix.POLLHUP | unix.POLLNVAL | unix.POLLERR)
	unixPollDataIn = int16(unix.POLLIN)
)

// Sock is one end of a connected SOCK_SEQPACKET pair, wrapped as an
// io.ReadWriteCloser. Packet boundaries are preserved, which is what HCI
// framing wants.
type Sock struct {
	fd   int
	rmu  sync.Mutex
	wmu  sync.Mutex
	done chan int
	cmu  sync.Mutex
}

// Pair returns both ends of a connected socket pair.
func Pair() (*Sock, *Sock, error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_SEQPACKET, 0)
	if err != nil {
		return nil, nil, errors.Wrap(err, "can't create socket pair")
	}
	return newSock(fds[0]), newSock(fds[1]), nil
}

func newSock(fd int) *Sock {
	return &Sock{fd: fd, done: make(chan int)}
}

func (s *Sock) Read(p []byte) (int, error) {
	if s.isClosed() {
		return 0, io.EOF
	}

	s.rmu.Lock()
	defer s.rmu.Unlock()

	fds := []unix.PollFd{{Fd: int32(s.fd), Events: unixPollDataIn}}
	n, err := unix.Poll(fds, readTimeout)
	if err != nil {
		return 0, errors.Wrap(err, "can't poll socket")
	}
	if n == 0 {
		return 0, nil
	}
	if fds[0].Revents&unixPollErrors != 0 {
		return 0, io.EOF
	}

	if s.isClosed() {
		return 0, io.EOF
	}
	n, err = unix.Read(s.fd, p)
	if n == 0 && err == nil {
		return 0, io.EOF
	}
	if n < 0 {
		n = 0
	}
	return n, errors.Wrap(err, "can't read socket")
}

func (s *Sock) Write(p []byte) (int, error) {
	if s.isClosed() {
		return 0, io.EOF
	}

	s.wmu.Lock()
	defer s.wmu.Unlock()
	n, err := unix.Write(s.fd, p)
	if n < 0 {
		n = 0
	}
	return n, errors.Wrap(err, "can't write socket")
}

func (s *Sock) Close() error {
	s.cmu.Lock()
	defer s.cmu.Unlock()

	select {
	case <-s.done:
		return nil
	default:
		close(s.done)
		return errors.Wrap(unix.Close(s.fd), "can't close socket")
	}
}

func (s *Sock) isClosed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
