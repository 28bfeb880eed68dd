/*
Package art hosts the debugger wire-transport libraries of the
platform runtime.

The jdwp package provides the JDWP packet-header codec and handshake
constants. The transport package defines the boundary between a wire
transport and the debugger state machine consuming it, plus the
descriptor and buffer state shared by transport implementations. The
adb package implements the transport that reaches debuggers through
the local ADB broker daemon via unix-domain descriptor passing
instead of a listening socket.

See the adb package for the connection-establishment and framing
state machine, and cmd/artdbg for a developer harness that runs it
against a live broker.
*/
package art
