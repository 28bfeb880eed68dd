package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DisclosureOS/platform-art/jdwperr"
)

// scriptedTransport accepts one connection, delivers its packets in
// order, severs, and then refuses further accepts.
type scriptedTransport struct {
	packets   [][]byte
	next      int
	accepts   int
	acceptErr error
}

func (s *scriptedTransport) Accept() error {
	s.accepts++
	if s.accepts > 1 {
		return s.acceptErr
	}
	return nil
}

func (s *scriptedTransport) Establish() error { return jdwperr.Setup("cannot dial out") }

func (s *scriptedTransport) ProcessIncoming(h PacketHandler) error {
	if s.next >= len(s.packets) {
		return jdwperr.Severed("script exhausted")
	}
	pkt := s.packets[s.next]
	s.next++
	if err := h.HandlePacket(pkt); err != nil {
		return jdwperr.Severed("handler failed", jdwperr.WithCause(err))
	}
	return nil
}

func (s *scriptedTransport) Shutdown()    {}
func (s *scriptedTransport) Close() error { return nil }

func TestRun(t *testing.T) {
	a := assert.New(t)

	done := jdwperr.Severed("transport is shutting down")
	st := &scriptedTransport{
		packets:   [][]byte{{1}, {2}, {3}},
		acceptErr: done,
	}

	var got [][]byte
	err := Run(st, PacketHandlerFunc(func(pkt []byte) error {
		got = append(got, append([]byte(nil), pkt...))
		return nil
	}))

	a.Equal(done, err)
	a.Equal([][]byte{{1}, {2}, {3}}, got)
	a.Equal(2, st.accepts) // re-accept after the connection severed
}
