//go:build linux

package adb

import (
	"bytes"

	"golang.org/x/sys/unix"

	"github.com/DisclosureOS/platform-art/jdwp"
	"github.com/DisclosureOS/platform-art/jdwperr"
	"github.com/DisclosureOS/platform-art/transport"
)

// ProcessIncoming makes one unit of progress on the live connection.
// If a complete packet is already buffered it is dispatched without
// waiting; otherwise the call blocks until the client channel, the
// control channel or the shutdown wake pipe becomes ready, performs
// at most one read, and dispatches if that completed a packet. A nil
// return means "still healthy, call again"; an error means the
// connection has been severed and the client channel is closed.
//
// A debugger that connects to the broker while a client is already
// active is accepted and immediately dropped here: the broker would
// otherwise leave it hanging until it times out. The control channel
// stays open purely for that purpose.
func (t *Transport) ProcessIncoming(h transport.PacketHandler) error {
	if !t.state.HaveFullPacket() {
		n, err := t.fill()
		if err != nil {
			return t.severed(err)
		}
		if n == 0 {
			// Interrupted read; try again later.
			return nil
		}
		t.state.Advance(n)
		if !t.state.HaveFullPacket() {
			// Deliberately a single read per call: returning gives
			// the caller backpressure instead of monopolizing the
			// goroutine on one connection.
			return nil
		}
	}

	if t.state.AwaitingHandshake() {
		if err := t.handshake(); err != nil {
			return t.severed(err)
		}
		return nil
	}

	buffered := t.state.Buffered()
	hdr, err := jdwp.ParseHeader(buffered)
	if err != nil {
		return t.severed(jdwperr.Protocol("packet header", jdwperr.WithCause(err)))
	}
	if hdr.Length < jdwp.HeaderLen {
		// Length counts the header itself; anything shorter would
		// consume no input and dispatch the same bytes forever.
		return t.severed(jdwperr.Protocol("declared packet length shorter than header"))
	}
	if err := h.HandlePacket(buffered[:hdr.Length]); err != nil {
		return t.severed(jdwperr.Severed("packet handler failed", jdwperr.WithCause(err)))
	}
	t.state.ConsumeBytes(int(hdr.Length))
	return nil
}

// fill blocks until one of the owned descriptors is ready and
// performs at most one read from the client channel. It returns the
// number of bytes read; (0, nil) indicates a benign interruption the
// caller should retry later.
func (t *Transport) fill() (int, error) {
	// fill only runs without a complete unit buffered: a full buffer
	// here means the declared packet length can never be satisfied.
	if len(t.state.Free()) == 0 {
		return 0, jdwperr.Protocol("packet larger than the input buffer")
	}
	for {
		// Snapshot the descriptors each round; another goroutine may
		// clear them at any time.
		var pfds []unix.PollFd
		wakeFD, wakeOK := t.state.wakeReadFD()
		if wakeOK {
			pfds = append(pfds, unix.PollFd{Fd: int32(wakeFD), Events: unix.POLLIN})
		} else {
			t.log.Info("entering poll without wake pipe")
		}
		controlFD, controlOK := t.state.control.Get()
		if controlOK {
			pfds = append(pfds, unix.PollFd{Fd: int32(controlFD), Events: unix.POLLIN})
		}
		clientFD, clientOK := t.state.client.Get()
		if clientOK {
			pfds = append(pfds, unix.PollFd{Fd: int32(clientFD), Events: unix.POLLIN})
		}
		if len(pfds) == 0 {
			return 0, jdwperr.Severed("all descriptors are closed")
		}

		if _, err := unix.Poll(pfds, -1); err != nil {
			if err == unix.EINTR {
				continue
			}
			return 0, jdwperr.Severed("readiness wait failed", jdwperr.WithCause(err))
		}

		ready := func(fd int) bool {
			for _, p := range pfds {
				if int(p.Fd) == fd && p.Revents != 0 {
					return true
				}
			}
			return false
		}

		if wakeOK && ready(wakeFD) {
			t.log.V(1).Info("wake-up signal received, leaving readiness wait")
			return 0, jdwperr.Severed("shutdown wake-up received")
		}

		if controlOK && ready(controlFD) {
			if fd, err := t.receiveClientFD(); err == nil {
				t.log.Info("ignoring second debugger, accepting and dropping")
				unix.Close(fd)
			}
			// On error the receiver already closed the control
			// channel; the peer most likely went away, and the next
			// client read will fail and end the loop.
		}

		if clientOK && ready(clientFD) {
			n, err := unix.Read(clientFD, t.state.Free())
			switch {
			case err == unix.EINTR:
				return 0, nil
			case err != nil:
				return 0, jdwperr.Severed("client read failed", jdwperr.WithCause(err))
			case n == 0:
				t.log.V(1).Info("debugger disconnected")
				return 0, jdwperr.Severed("debugger closed the connection")
			default:
				return n, nil
			}
		}
	}
}

// handshake validates and echoes the 14-byte JDWP-Handshake literal.
// The debugger always initiates it, no matter which side physically
// dialed the other. Exactly one handshake happens per connection.
func (t *Transport) handshake() error {
	buffered := t.state.Buffered()
	if !bytes.Equal(buffered[:jdwp.HandshakeLen], []byte(jdwp.Handshake)) {
		t.log.Error(nil, "bad handshake", "received", string(buffered[:jdwp.HandshakeLen]))
		return jdwperr.Protocol("bad handshake magic")
	}

	fd, ok := t.state.client.Get()
	if !ok {
		return jdwperr.Severed("client channel not open")
	}
	err := t.state.SerializeWrite(func() error {
		return writeFull(fd, buffered[:jdwp.HandshakeLen])
	})
	if err != nil {
		return jdwperr.Protocol("echo handshake", jdwperr.WithCause(err))
	}

	t.state.ConsumeBytes(jdwp.HandshakeLen)
	t.state.SetAwaitingHandshake(false)
	t.log.V(1).Info("handshake complete")
	return nil
}

// severed tears down the client channel and passes err through. The
// control channel is left alone so the next Accept can reuse it.
func (t *Transport) severed(err error) error {
	t.state.client.Close()
	return err
}
