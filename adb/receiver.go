//go:build linux

package adb

import (
	"golang.org/x/sys/unix"

	"github.com/DisclosureOS/platform-art/jdwperr"
)

// receiveClientFD blocks in recvmsg(2) on the control channel until
// the broker passes a debugger descriptor as SCM_RIGHTS ancillary
// data attached to a one-byte dummy message. The payload byte is
// irrelevant; only the descriptor matters.
//
// recvmsg has no cancellation of its own. Unblocking it requires
// another goroutine to shut the control socket down (Shutdown does
// exactly that), which surfaces here as a receive error. On any
// zero or error result the control channel is closed and cleared
// before failure is reported; the caller decides whether to retry.
func (t *Transport) receiveClientFD() (int, error) {
	fd, ok := t.state.control.Get()
	if !ok {
		return -1, jdwperr.Severed("control channel not open")
	}

	buf := make([]byte, 1)
	oob := make([]byte, unix.CmsgSpace(4))
	var n, oobn int
	var err error
	for {
		n, oobn, _, _, err = unix.Recvmsg(fd, buf, oob, 0)
		if err != unix.EINTR {
			break
		}
	}
	if err != nil || n <= 0 {
		if err != nil {
			t.log.V(1).Info("receiving descriptor from broker failed", "error", err.Error())
		}
		t.state.control.Close()
		return -1, jdwperr.Severed("broker control channel lost", jdwperr.WithCause(err))
	}

	cmsgs, err := unix.ParseSocketControlMessage(oob[:oobn])
	if err != nil || len(cmsgs) == 0 {
		t.state.control.Close()
		return -1, jdwperr.Protocol("descriptor message carried no control data", jdwperr.WithCause(err))
	}
	fds, err := unix.ParseUnixRights(&cmsgs[0])
	if err != nil || len(fds) == 0 {
		t.state.control.Close()
		return -1, jdwperr.Protocol("descriptor message carried no descriptor", jdwperr.WithCause(err))
	}
	return fds[0], nil
}
