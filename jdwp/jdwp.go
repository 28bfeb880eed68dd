// Package jdwp implements the wire-level primitives of the Java Debug
// Wire Protocol: the fixed packet header, the connection handshake
// literal and the constants shared by every JDWP transport.
package jdwp

const (
	// HeaderLen is the size in bytes of the fixed JDWP packet header.
	HeaderLen = 11

	// FlagReply is set in the header flags byte of reply packets.
	FlagReply = 0x80

	// Handshake is the literal exchanged exactly once per connection
	// before packet framing begins. The debugger sends it and expects
	// the very same bytes echoed back.
	Handshake = "JDWP-Handshake"

	// HandshakeLen is the length of the Handshake literal.
	HandshakeLen = len(Handshake)
)

// DDM (Dalvik Debug Monitor) chunks ride over JDWP using a reserved
// command set.
const (
	DdmCmdSet = 199 // 0xc7, or 'G'+128
	DdmCmd    = 1
)
