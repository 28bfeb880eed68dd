//go:build linux

package adb

import (
	"os"

	"github.com/go-logr/logr"

	"github.com/DisclosureOS/platform-art/jdwperr"
	"github.com/DisclosureOS/platform-art/transport"
)

// Config configures the broker transport. The zero value is usable:
// it connects to @jdwp-control, announces the current pid, performs
// no peer check and discards logs.
type Config struct {
	// Logger receives structured transport logs. Wire-level chatter
	// is emitted at V(1).
	Logger logr.Logger

	// ControlAddr overrides the broker control address. Must name an
	// abstract unix socket ('@' prefix). Defaults to @jdwp-control.
	ControlAddr string

	// PID overrides the announced process identifier. Defaults to
	// os.Getpid(). Only the low 16 bits are announced.
	PID int

	// PeerCheck, if non-nil, runs on the control socket immediately
	// after connect. A non-nil result shuts the socket down and
	// aborts the attempt without retrying.
	PeerCheck PeerCheckFunc
}

// Transport is the broker-brokered JDWP transport. It implements
// transport.Transport.
//
// One goroutine drives Accept and ProcessIncoming; Shutdown may be
// called from any other goroutine and unblocks whichever syscall the
// processing goroutine is parked in.
type Transport struct {
	log       logr.Logger
	addr      string
	pid       int
	peerCheck PeerCheckFunc

	state netState
}

var _ transport.Transport = (*Transport)(nil)

// New creates the transport endpoint state. It runs before the
// processing goroutine starts and does not block or touch the
// network.
func New(cfg Config) *Transport {
	log := cfg.Logger
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	addr := cfg.ControlAddr
	if addr == "" {
		addr = controlAddrName
	}
	pid := cfg.PID
	if pid == 0 {
		pid = os.Getpid()
	}
	return &Transport{
		log:       log,
		addr:      addr,
		pid:       pid,
		peerCheck: cfg.PeerCheck,
	}
}

// Establish dials out to a waiting debugger. The adb transport cannot
// dial out: debugger connections always arrive through the broker.
func (t *Transport) Establish() error {
	return jdwperr.Setup("adb transport cannot establish outbound connections")
}

// IsConnected reports whether a debugger connection is live.
func (t *Transport) IsConnected() bool { return t.state.client.IsOpen() }

// Shutdown unblocks the processing goroutine and closes both
// channels exactly once. Safe to call from any goroutine, any number
// of times.
//
// Ordering matters: the flag is set first so loops re-checking it
// exit, the channels are shut down so blocked connect/recvmsg calls
// error out, and the wake byte is written last so a poll with no
// data pending returns.
func (t *Transport) Shutdown() {
	t.state.setShuttingDown()
	if t.state.client.ShutdownClose() {
		t.log.V(1).Info("client channel closed for shutdown")
	}
	if t.state.control.ShutdownClose() {
		t.log.V(1).Info("control channel closed for shutdown")
	}
	t.state.wake()
}

// Close frees the endpoint state, including the wake pipe. Call it
// only after the goroutine running Accept and ProcessIncoming has
// returned.
func (t *Transport) Close() error {
	t.state.client.ShutdownClose()
	t.state.control.ShutdownClose()
	t.state.closeWakePipe()
	return nil
}

func errShuttingDown() error { return jdwperr.Severed("transport is shutting down") }
