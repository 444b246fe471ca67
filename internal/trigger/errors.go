package trigger

// Error is a custom error type for trigger sequence errors
type Error string

// Error implements the error interface
func (e Error) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNilConfig Error = "config cannot be nil"
	ErrNilClock  Error = "clock cannot be nil"
)
