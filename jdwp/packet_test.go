package jdwp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHeader(t *testing.T) {
	a := assert.New(t)

	// A zero-payload reply: length 11, id 1, reply flag set, error
	// code 0.
	hdr, err := ParseHeader([]byte{0x00, 0x00, 0x00, 0x0b, 0x00, 0x00, 0x00, 0x01, 0x80, 0x00, 0x00})
	a.NoError(err)
	a.Equal(uint32(11), hdr.Length)
	a.Equal(uint32(1), hdr.ID)
	a.True(hdr.IsReply())
	a.Equal(uint16(0), hdr.ErrorCode())
	a.Equal(0, hdr.PayloadLen())

	_, err = ParseHeader(make([]byte, HeaderLen-1))
	a.ErrorIs(err, ErrShortHeader)
}

func TestParseHeaderCommand(t *testing.T) {
	a := assert.New(t)

	b := AppendHeader(nil, Header{Length: 16, ID: 7, CmdSet: DdmCmdSet, Cmd: DdmCmd})
	hdr, err := ParseHeader(b)
	a.NoError(err)
	a.False(hdr.IsReply())
	a.Equal(uint8(DdmCmdSet), hdr.CmdSet)
	a.Equal(uint8(DdmCmd), hdr.Cmd)
	a.True(hdr.IsDdm())
	a.Equal(5, hdr.PayloadLen())

	reply := Header{Length: 16, ID: 7, Flags: FlagReply, CmdSet: DdmCmdSet, Cmd: DdmCmd}
	a.False(reply.IsDdm())
}

func TestHaveFullPacketMonotonic(t *testing.T) {
	a := assert.New(t)

	pkt := AppendHeader(nil, Header{Length: 16, ID: 3, CmdSet: 1, Cmd: 9})
	pkt = append(pkt, "hello"...)

	// Completeness is false for every proper prefix and true at
	// exactly the declared length, however the bytes were split.
	for i := 0; i < len(pkt); i++ {
		a.False(HaveFullPacket(pkt[:i]), "prefix length %d", i)
	}
	a.True(HaveFullPacket(pkt))
	a.True(HaveFullPacket(append(pkt, 0x00))) // start of the next packet
}
