package transport

// PacketHandler consumes reassembled JDWP packets.
//
// Packet interpretation above framing (command dispatch, events,
// replies) lives behind this interface.
type PacketHandler interface {
	// HandlePacket is called with exactly one complete packet,
	// header included. The slice is only valid for the duration of
	// the call. A non-nil error severs the connection.
	HandlePacket(pkt []byte) error
}

// PacketHandlerFunc adapts a function to the PacketHandler interface.
type PacketHandlerFunc func(pkt []byte) error

// HandlePacket implements PacketHandler.
func (f PacketHandlerFunc) HandlePacket(pkt []byte) error { return f(pkt) }

// Transport is a JDWP wire transport.
//
// Accept, ProcessIncoming and Establish must only be called from the
// single processing goroutine. Shutdown may be called from any
// goroutine at any time; Close must not be called until the
// processing goroutine has returned.
type Transport interface {
	// Accept blocks until a debugger connection is available and
	// leaves the transport awaiting the JDWP handshake. It returns
	// an error if the transport is shutting down or gives up.
	Accept() error

	// Establish dials out to a waiting debugger (the server=n
	// mode). Transports that cannot dial out report a setup error.
	Establish() error

	// ProcessIncoming makes one unit of progress on the live
	// connection: it waits for input, buffers it, and hands at most
	// one complete packet to h. A nil return means the connection
	// is still healthy and the caller should call again; an error
	// means the connection has been severed.
	ProcessIncoming(h PacketHandler) error

	// Shutdown unblocks any waiting call and closes every owned
	// descriptor exactly once. Safe to call from another goroutine.
	Shutdown()

	// Close frees the endpoint state.
	Close() error
}

// Run drives t on the calling goroutine: it accepts a debugger
// connection, processes incoming data until the connection is
// severed, then accepts again. Packets are handed to h strictly in
// arrival order, after the handshake for that connection completed.
// Run returns when Accept fails, which happens on shutdown or when
// the transport gives up.
func Run(t Transport, h PacketHandler) error {
	for {
		if err := t.Accept(); err != nil {
			return err
		}
		for {
			if err := t.ProcessIncoming(h); err != nil {
				break
			}
		}
	}
}
