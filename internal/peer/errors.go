package peer

// Error is a custom error type for peer sync errors
type Error string

// Error implements the error interface
func (e Error) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNilConfig       Error = "config cannot be nil"
	ErrNilTransport    Error = "transport cannot be nil"
	ErrNilSession      Error = "session config cannot be nil"
	ErrTransportClosed Error = "transport is closed"
	ErrRoomClosed      Error = "peer disconnected; room is closed"
)
