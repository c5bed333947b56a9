package hsapi

import "fmt"

// TransportError is a failed call to the remote service: unreachable host or
// a non-2xx answer. Callers surface it as a transient hint and never retry.
type TransportError struct {
	Endpoint string
	Status   int // zero when no response was received
	Err      error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("hsapi %s: status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("hsapi %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError is the service's refusal to decode a deck code.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return "decode deck: " + e.Reason
}
