package errors

import "fmt"

// MalformedRequestError is returned when the ingestion body is empty or absent.
type MalformedRequestError struct {
	Reason string
}

func (e MalformedRequestError) Error() string {
	return e.Reason
}

func MalformedRequestErr(reason string) MalformedRequestError {
	return MalformedRequestError{
		Reason: reason,
	}
}

// UnrecognizedEventError is returned for any event kind other than uplink.
type UnrecognizedEventError struct {
	Event string
}

func (e UnrecognizedEventError) Error() string {
	return fmt.Sprintf("unrecognized event %q", e.Event)
}

func UnrecognizedEventErr(event string) UnrecognizedEventError {
	return UnrecognizedEventError{
		Event: event,
	}
}

// NormalizationError is returned when the payload is not a JSON object.
type NormalizationError struct {
	Reason string
}

func (e NormalizationError) Error() string {
	return fmt.Sprintf("invalid payload: %s", e.Reason)
}

func NormalizationErr(reason string) NormalizationError {
	return NormalizationError{
		Reason: reason,
	}
}

// StorageError wraps any fault raised by the record store.
type StorageError struct {
	Op  string
	Err error
}

func (e StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e StorageError) Unwrap() error {
	return e.Err
}

func StorageErr(op string, err error) StorageError {
	return StorageError{
		Op:  op,
		Err: err,
	}
}
