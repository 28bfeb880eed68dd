/*
Package adb implements the JDWP transport that reaches debuggers
through the local ADB broker daemon instead of a listening socket.

The broker owns the real debugger-facing port. On startup the
transport connects to the broker's abstract unix control socket
(@jdwp-control), announces the process pid as four hex characters,
and then blocks in recvmsg(2) until the broker hands over a connected
debugger socket as SCM_RIGHTS ancillary data. The JDWP-Handshake echo
and length-prefixed packet reassembly then run over that descriptor
until the peer goes away or the owning process shuts the transport
down from another goroutine.

Only one debugger may be attached at a time. The control channel
stays connected while a debugger is active purely so that additional
descriptors the broker passes can be received and immediately closed;
closing the control channel instead would break later reconnect
attempts by other tools.
*/
package adb
