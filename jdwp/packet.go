package jdwp

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Header is the fixed 11-byte JDWP packet header. All integer fields
// are big-endian on the wire. Length counts the header itself.
type Header struct {
	Length uint32
	ID     uint32
	Flags  uint8
	CmdSet uint8
	Cmd    uint8
}

// IsReply reports whether the header describes a reply packet.
func (h Header) IsReply() bool { return h.Flags&FlagReply != 0 }

// ErrorCode returns the reply error code carried in the command set
// and command bytes. Only meaningful when IsReply is true.
func (h Header) ErrorCode() uint16 { return uint16(h.CmdSet)<<8 | uint16(h.Cmd) }

// PayloadLen returns the number of payload bytes following the header.
func (h Header) PayloadLen() int { return int(h.Length) - HeaderLen }

// IsDdm reports whether the packet carries a DDM chunk rather than a
// plain JDWP command.
func (h Header) IsDdm() bool {
	return !h.IsReply() && h.CmdSet == DdmCmdSet && h.Cmd == DdmCmd
}

// ErrShortHeader is returned by ParseHeader when fewer than HeaderLen
// bytes are available.
var ErrShortHeader = errors.New("jdwp: buffer shorter than packet header")

// ParseHeader decodes the packet header at the front of b.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderLen {
		return Header{}, ErrShortHeader
	}
	return Header{
		Length: binary.BigEndian.Uint32(b[0:4]),
		ID:     binary.BigEndian.Uint32(b[4:8]),
		Flags:  b[8],
		CmdSet: b[9],
		Cmd:    b[10],
	}, nil
}

// AppendHeader appends the wire encoding of h to b.
func AppendHeader(b []byte, h Header) []byte {
	b = binary.BigEndian.AppendUint32(b, h.Length)
	b = binary.BigEndian.AppendUint32(b, h.ID)
	return append(b, h.Flags, h.CmdSet, h.Cmd)
}

// HaveFullPacket reports whether b begins with a complete packet: at
// least the fixed header is buffered and the total buffered bytes
// reach the length the header declares (header included).
func HaveFullPacket(b []byte) bool {
	if len(b) < HeaderLen {
		return false
	}
	return uint32(len(b)) >= binary.BigEndian.Uint32(b[0:4])
}
