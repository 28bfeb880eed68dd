package transport

import (
	"sync"

	"golang.org/x/sys/unix"
)

// FD is a mutex-guarded, optional file descriptor slot. It makes
// "unset" a type-level fact rather than a sentinel comparison and
// guarantees the open-to-closed transition happens at most once, no
// matter which goroutine initiates it.
//
// Snapshots returned by Get may be invalidated by a concurrent
// ShutdownClose; callers must tolerate the resulting syscall errors,
// which is exactly how cross-thread cancellation reaches a blocked
// syscall.
type FD struct {
	mu sync.Mutex
	fd int
	ok bool
}

// Set stores an open descriptor. The slot takes exclusive ownership.
// Set panics if the slot already holds a descriptor: the previous
// owner must close it first.
func (f *FD) Set(fd int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ok {
		panic("transport: FD already set")
	}
	f.fd, f.ok = fd, true
}

// Get returns the current descriptor and whether one is held.
func (f *FD) Get() (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fd, f.ok
}

// IsOpen reports whether the slot holds a descriptor.
func (f *FD) IsOpen() bool {
	_, ok := f.Get()
	return ok
}

// Close clears the slot and closes the descriptor it held. It
// reports whether this call performed the close.
func (f *FD) Close() bool {
	fd, ok := f.take()
	if ok {
		unix.Close(fd)
	}
	return ok
}

// ShutdownClose shuts down both directions of the descriptor before
// closing it, so a peer or a goroutine blocked in a syscall on it
// observes failure, then clears the slot. It reports whether this
// call performed the close.
func (f *FD) ShutdownClose() bool {
	fd, ok := f.take()
	if ok {
		unix.Shutdown(fd, unix.SHUT_RDWR)
		unix.Close(fd)
	}
	return ok
}

func (f *FD) take() (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fd, ok := f.fd, f.ok
	f.ok = false
	return fd, ok
}
