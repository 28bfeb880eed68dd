package transport

import (
	"sync"

	"github.com/DisclosureOS/platform-art/jdwp"
)

// InputBufferSize is the fixed capacity of a connection's receive
// buffer. A packet larger than this severs the connection.
const InputBufferSize = 8192

// ConnState holds the per-connection receive buffer and handshake
// window shared by transport implementations.
//
// The buffer, its count and the handshake flag are owned by the
// single processing goroutine and are not synchronized. The write
// lock serializes packet writes for the benefit of future
// multi-writer callers; nothing inside the transport writes
// concurrently today.
type ConnState struct {
	buf   [InputBufferSize]byte
	count int

	awaitingHandshake bool

	writeMu sync.Mutex
}

// Reset empties the buffer. Called when a fresh connection is
// accepted.
func (s *ConnState) Reset() { s.count = 0 }

// Buffered returns the bytes received so far.
func (s *ConnState) Buffered() []byte { return s.buf[:s.count] }

// Free returns the unused remainder of the buffer for a read to fill.
// Confirm the bytes actually read with Advance.
func (s *ConnState) Free() []byte { return s.buf[s.count:] }

// Advance records n bytes read into the space returned by Free.
func (s *ConnState) Advance(n int) {
	if n < 0 || s.count+n > InputBufferSize {
		panic("transport: Advance out of range")
	}
	s.count += n
}

// ConsumeBytes discards n bytes from the front of the buffer,
// shifting the remainder forward.
func (s *ConnState) ConsumeBytes(n int) {
	if n < 0 || n > s.count {
		panic("transport: ConsumeBytes out of range")
	}
	copy(s.buf[:], s.buf[n:s.count])
	s.count -= n
}

// HaveFullPacket reports whether a complete protocol unit is
// buffered. During the handshake window that unit is the fixed
// handshake literal; afterwards it is a packet of the length the
// header declares.
func (s *ConnState) HaveFullPacket() bool {
	if s.awaitingHandshake {
		return s.count >= jdwp.HandshakeLen
	}
	return jdwp.HaveFullPacket(s.buf[:s.count])
}

// AwaitingHandshake reports whether the connection still owes the
// handshake exchange.
func (s *ConnState) AwaitingHandshake() bool { return s.awaitingHandshake }

// SetAwaitingHandshake opens or closes the handshake window.
func (s *ConnState) SetAwaitingHandshake(v bool) { s.awaitingHandshake = v }

// SerializeWrite runs f while holding the connection write lock, so
// packets written from different call sites never interleave.
func (s *ConnState) SerializeWrite(f func() error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return f()
}
