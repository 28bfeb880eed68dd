//go:build linux

package adb

import (
	"golang.org/x/sys/unix"

	"github.com/DisclosureOS/platform-art/jdwperr"
)

// maxReceiveRetries bounds consecutive descriptor-receive failures
// before Accept gives up. The connector's own reconnect loop waits
// out a broker restart indefinitely; this ceiling exists so a broker
// that accepts our registration but never delivers a descriptor
// surfaces as a real failure instead of looping forever.
const maxReceiveRetries = 5

// Accept blocks until the broker hands over a debugger connection,
// leaving the transport awaiting the JDWP handshake. It fails when
// the transport is shutting down, when setup resources cannot be
// created, or when the receive retry budget is exhausted.
func (t *Transport) Accept() error {
	retries := 0
	for {
		if t.state.isShuttingDown() {
			return errShuttingDown()
		}

		if !t.state.control.IsOpen() {
			if err := t.state.ensureWakePipe(); err != nil {
				return jdwperr.Setup("create wake pipe", jdwperr.WithCause(err))
			}
			if err := t.connect(); err != nil {
				return err
			}
		}

		t.log.V(1).Info("waiting for descriptor from broker")
		clientFD, err := t.receiveClientFD()
		if t.state.isShuttingDown() {
			// Suppress logs and further action; discard anything we
			// were handed on the way out.
			if err == nil {
				unix.Close(clientFD)
			}
			return errShuttingDown()
		}
		if err != nil {
			retries++
			if retries > maxReceiveRetries {
				return jdwperr.Severed("broker receive retries exceeded", jdwperr.WithCause(err))
			}
			continue
		}

		t.log.V(1).Info("received debugger descriptor from broker", "fd", clientFD)
		t.state.client.Set(clientFD)
		t.state.SetAwaitingHandshake(true)
		t.state.Reset()
		return nil
	}
}
