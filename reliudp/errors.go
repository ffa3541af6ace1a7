package reliudp

// Error represents an error in the reliudp error space. Using a special
// type ensures that errors outside of this space are not accidentally
// introduced, the same reasoning behind the teacher's types.Error.
type Error struct {
	string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.string
}

// Sentinel errors returned by Stream.
var (
	// ErrClosed is returned by Send, Recv, and Close when the Stream has
	// already been closed.
	ErrClosed = &Error{"reliudp: stream is closed"}

	// ErrConcurrentUse is returned when Send, Recv, or Close is called
	// while another call into the same Stream is already in flight.
	// Spec.md §5 assumes single-caller use but never enforces it; this
	// module checks it instead of letting concurrent callers silently
	// corrupt sender/receiver state.
	ErrConcurrentUse = &Error{"reliudp: concurrent use of the same stream"}
)
