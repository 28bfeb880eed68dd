//go:build linux

package adb

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// PeerCheckFunc inspects a freshly connected control socket and
// reports whether the peer may broker debugger connections for this
// process.
type PeerCheckFunc func(fd int) error

// TrustedPeer returns a PeerCheckFunc that accepts only peers running
// as root or as one of the given uids, using SO_PEERCRED. This
// mirrors the platform check applied to the broker socket on device
// builds.
func TrustedPeer(uids ...uint32) PeerCheckFunc {
	return func(fd int) error {
		cred, err := unix.GetsockoptUcred(fd, unix.SOL_SOCKET, unix.SO_PEERCRED)
		if err != nil {
			return errors.Wrap(err, "SO_PEERCRED")
		}
		if cred.Uid == 0 {
			return nil
		}
		for _, uid := range uids {
			if cred.Uid == uid {
				return nil
			}
		}
		return errors.Errorf("untrusted peer uid %d", cred.Uid)
	}
}
