package common

import "errors"

// KindError pairs a public error kind with the internal cause that produced
// it. Error reports only the kind, so the cause never reaches a client;
// CauseOf recovers it for logging.
type KindError struct {
	Kind  error
	Cause error
}

func (e *KindError) Error() string { return e.Kind.Error() }

func (e *KindError) Unwrap() error { return e.Kind }

// Collapse hides cause behind kind. errors.Is(result, kind) holds, while
// errors.Is(result, cause) does not.
func Collapse(kind, cause error) error {
	return &KindError{Kind: kind, Cause: cause}
}

// CauseOf returns the internal cause carried by err, or err itself when it
// was never collapsed.
func CauseOf(err error) error {
	var ke *KindError
	if errors.As(err, &ke) && ke.Cause != nil {
		return ke.Cause
	}
	return err
}
