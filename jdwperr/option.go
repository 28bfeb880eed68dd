package jdwperr

// Option is an Error option function
type Option func(*Error)

// WithCause attaches the underlying error. A nil cause is ignored.
func WithCause(err error) Option {
	return func(e *Error) {
		if err != nil {
			e.Cause = err
		}
	}
}
