//go:build linux

package adb

import (
	"fmt"
	"time"

	"github.com/jpillora/backoff"
	"golang.org/x/sys/unix"

	"github.com/DisclosureOS/platform-art/jdwperr"
)

// Reconnect backoff after a failed connect to the broker: 500ms
// growing by x1.5 per attempt, capped at 2s.
const (
	connectBackoffMin    = 500 * time.Millisecond
	connectBackoffMax    = 2000 * time.Millisecond
	connectBackoffFactor = 1.5
)

func newConnectBackoff() *backoff.Backoff {
	return &backoff.Backoff{
		Min:    connectBackoffMin,
		Max:    connectBackoffMax,
		Factor: connectBackoffFactor,
	}
}

// connect establishes the control channel to the broker and announces
// this process's identity. On success the socket is stored in
// state.control.
//
// The socket is stored in the control slot before connect is
// attempted so that Shutdown from another goroutine can reach it
// while this goroutine sleeps or blocks; a shutdown surfaces here as
// a connect error followed by the flag check.
//
// Failed connect attempts are retried forever with capped backoff:
// the broker may be stopped or restarting, and waiting it out is the
// designed behavior. Only shutdown breaks the loop. A peer-check or
// identity-announcement failure, by contrast, is not retried.
func (t *Transport) connect() error {
	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return jdwperr.Setup("create broker control socket", jdwperr.WithCause(err))
	}
	t.state.control.Set(fd)

	sa := &unix.SockaddrUnix{Name: t.addr}
	retry := newConnectBackoff()
	for {
		if err = unix.Connect(fd, sa); err == nil {
			break
		}
		t.log.V(1).Info("cannot connect to broker control socket",
			"addr", t.addr, "error", err.Error())
		time.Sleep(retry.Duration())
		if t.state.isShuttingDown() {
			t.state.control.Close()
			return errShuttingDown()
		}
	}

	if t.peerCheck != nil {
		if err := t.peerCheck(fd); err != nil {
			t.state.control.ShutdownClose()
			return jdwperr.Setup("broker peer is not trusted", jdwperr.WithCause(err))
		}
	}

	// The identity is exactly 4 lowercase hex characters, no
	// terminator: the low 16 bits of the pid, zero-padded.
	ident := fmt.Sprintf("%04x", t.pid&0xffff)
	if err := writeFull(fd, []byte(ident)); err != nil {
		t.state.control.Close()
		return jdwperr.Severed("announce pid to broker", jdwperr.WithCause(err))
	}
	t.log.V(1).Info("announced pid to broker", "ident", ident)
	return nil
}
