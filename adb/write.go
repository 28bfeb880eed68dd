//go:build linux

package adb

import (
	"io"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/DisclosureOS/platform-art/jdwp"
	"github.com/DisclosureOS/platform-art/jdwperr"
)

// WritePacket writes one complete packet, header included, to the
// debugger. Writes are serialized so replies and events from
// different call sites never interleave on the wire.
func (t *Transport) WritePacket(pkt []byte) error {
	if len(pkt) < jdwp.HeaderLen {
		return jdwperr.Protocol("packet shorter than header")
	}
	fd, ok := t.state.client.Get()
	if !ok {
		return jdwperr.Severed("no debugger connection")
	}
	return t.state.SerializeWrite(func() error { return writeFull(fd, pkt) })
}

// writeFull writes all of b or fails. A short write is a hard
// failure; there is no partial-write retry.
func writeFull(fd int, b []byte) error {
	n, err := unix.Write(fd, b)
	for err == unix.EINTR {
		n, err = unix.Write(fd, b)
	}
	if err != nil {
		return errors.Wrap(err, "write")
	}
	if n != len(b) {
		return errors.Wrapf(io.ErrShortWrite, "wrote %d of %d bytes", n, len(b))
	}
	return nil
}
