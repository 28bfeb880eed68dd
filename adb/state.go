//go:build linux

package adb

import (
	"sync"

	"golang.org/x/sys/unix"

	"github.com/DisclosureOS/platform-art/transport"
)

// controlAddrName is the broker's abstract unix control address. The
// leading '@' denotes the abstract namespace: a leading zero byte on
// the wire and no filesystem entry.
const controlAddrName = "@jdwp-control"

// netState is the mutable endpoint record owned by the transport.
//
// The receive buffer and handshake window (ConnState) belong to the
// processing goroutine alone. The descriptor slots are shared with
// the shutdown path; every open/close transition goes through the
// transport.FD methods, which make the close-and-clear atomic and
// at-most-once. The wake pipe and the shutting-down flag are guarded
// by mu.
type netState struct {
	control transport.FD
	client  transport.FD

	transport.ConnState

	mu           sync.Mutex
	shuttingDown bool
	wakeRead     int
	wakeWrite    int
	wakeOpen     bool
}

func (s *netState) setShuttingDown() {
	s.mu.Lock()
	s.shuttingDown = true
	s.mu.Unlock()
}

func (s *netState) isShuttingDown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shuttingDown
}

// ensureWakePipe creates the one-shot wake channel used to interrupt
// a blocked poll. It is created once per session and survives
// control-channel reconnects.
func (s *netState) ensureWakePipe() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.wakeOpen {
		return nil
	}
	var p [2]int
	if err := unix.Pipe2(p[:], unix.O_CLOEXEC); err != nil {
		return err
	}
	s.wakeRead, s.wakeWrite, s.wakeOpen = p[0], p[1], true
	return nil
}

func (s *netState) wakeReadFD() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wakeRead, s.wakeOpen
}

// wake writes one byte to the wake pipe, making its read side ready
// for any goroutine parked in poll.
func (s *netState) wake() {
	s.mu.Lock()
	fd, ok := s.wakeWrite, s.wakeOpen
	s.mu.Unlock()
	if !ok {
		return
	}
	for {
		if _, err := unix.Write(fd, []byte{0}); err != unix.EINTR {
			return
		}
	}
}

func (s *netState) closeWakePipe() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.wakeOpen {
		return
	}
	unix.Close(s.wakeRead)
	unix.Close(s.wakeWrite)
	s.wakeOpen = false
}
