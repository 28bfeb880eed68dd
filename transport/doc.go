/*
Package transport defines the boundary between a JDWP wire transport
and the debugger state machine that consumes it.

A Transport produces connected debugger sessions and reassembles
length-prefixed JDWP packets from them; a PacketHandler consumes the
reassembled packets. The package also provides the per-connection
receive buffer and the guarded descriptor slots that transport
implementations share: the buffer belongs to the single processing
goroutine, while descriptor slots may be closed from the owning
process's shutdown path at any time and therefore guarantee an
at-most-once open-to-closed transition.
*/
package transport
