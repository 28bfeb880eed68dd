//go:build linux

package adb

import (
	"fmt"
	"io"
	"net"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/DisclosureOS/platform-art/jdwp"
)

var brokerSeq uint32

// fakeBroker stands in for the ADB daemon: it listens on a private
// abstract control address, records announced identities and passes
// debugger descriptors over accepted control connections.
type fakeBroker struct {
	t    *testing.T
	addr string
	ln   *net.UnixListener
}

func newFakeBroker(t *testing.T) *fakeBroker {
	t.Helper()
	addr := fmt.Sprintf("@jdwp-test-%d-%d", os.Getpid(), atomic.AddUint32(&brokerSeq, 1))
	ln, err := net.ListenUnix("unix", &net.UnixAddr{Name: addr, Net: "unix"})
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	return &fakeBroker{t: t, addr: addr, ln: ln}
}

// acceptControl accepts one control connection and returns it along
// with the 4-byte identity the process announced.
func (b *fakeBroker) acceptControl() (*net.UnixConn, string) {
	b.t.Helper()
	b.ln.SetDeadline(time.Now().Add(5 * time.Second))
	conn, err := b.ln.AcceptUnix()
	require.NoError(b.t, err)
	b.t.Cleanup(func() { conn.Close() })
	conn.SetDeadline(time.Now().Add(5 * time.Second))

	ident := make([]byte, 4)
	_, err = io.ReadFull(conn, ident)
	require.NoError(b.t, err)
	return conn, string(ident)
}

// passDebugger sends one end of a fresh socket pair over the control
// connection as SCM_RIGHTS and returns the debugger's end.
func (b *fakeBroker) passDebugger(conn *net.UnixConn) net.Conn {
	b.t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	require.NoError(b.t, err)

	_, _, err = conn.WriteMsgUnix([]byte{'!'}, unix.UnixRights(fds[0]), nil)
	require.NoError(b.t, err)
	// The kernel holds a reference while the descriptor is in
	// flight; drop ours.
	unix.Close(fds[0])

	f := os.NewFile(uintptr(fds[1]), "debugger")
	dbg, err := net.FileConn(f)
	require.NoError(b.t, err)
	f.Close()
	b.t.Cleanup(func() { dbg.Close() })
	dbg.SetDeadline(time.Now().Add(5 * time.Second))
	return dbg
}

func newTestTransport(t *testing.T, b *fakeBroker, cfg Config) *Transport {
	t.Helper()
	cfg.ControlAddr = b.addr
	tr := New(cfg)
	t.Cleanup(func() {
		tr.Shutdown()
		tr.Close()
	})
	return tr
}

// attach runs Accept against the fake broker and hands back the
// control connection and the debugger's end of the client channel.
func attach(t *testing.T, b *fakeBroker, tr *Transport) (*net.UnixConn, net.Conn) {
	t.Helper()
	acceptErr := make(chan error, 1)
	go func() { acceptErr <- tr.Accept() }()
	conn, _ := b.acceptControl()
	dbg := b.passDebugger(conn)
	require.NoError(t, waitErr(t, acceptErr))
	return conn, dbg
}

// completeHandshake drives the handshake from the debugger's side and
// verifies the echo.
func completeHandshake(t *testing.T, tr *Transport, dbg net.Conn) {
	t.Helper()
	_, err := dbg.Write([]byte(jdwp.Handshake))
	require.NoError(t, err)
	for tr.state.AwaitingHandshake() {
		require.NoError(t, tr.ProcessIncoming(discardHandler{}))
	}
	echo := make([]byte, jdwp.HandshakeLen)
	_, err = io.ReadFull(dbg, echo)
	require.NoError(t, err)
	require.Equal(t, jdwp.Handshake, string(echo))
}

type discardHandler struct{}

func (discardHandler) HandlePacket([]byte) error { return nil }

func waitErr(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for result")
		return nil
	}
}
