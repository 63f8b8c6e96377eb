package weather

import (
	"errors"
	"fmt"
)

// GenericErrorMessage is the only failure text ever exposed through ResultState.
const GenericErrorMessage = "Unknown Error"

// FailureKind distinguishes why a fetch failed. It is kept for logging and
// tests; consumers only ever see GenericErrorMessage.
type FailureKind int

const (
	TransportFailure FailureKind = iota + 1
	ProviderFailure
	DecodeFailure
)

func (k FailureKind) String() string {
	switch k {
	case TransportFailure:
		return "transport"
	case ProviderFailure:
		return "provider"
	case DecodeFailure:
		return "decode"
	default:
		return "unknown"
	}
}

var (
	ErrTransportFailure = errors.New("weather provider unreachable")
	ErrProviderFailure  = errors.New("weather provider rejected request")
	ErrDecodeFailure    = errors.New("weather provider response malformed")
)

func (k FailureKind) sentinel() error {
	switch k {
	case TransportFailure:
		return ErrTransportFailure
	case ProviderFailure:
		return ErrProviderFailure
	case DecodeFailure:
		return ErrDecodeFailure
	default:
		return nil
	}
}

// FetchError is returned by a Client when a lookup fails.
type FetchError struct {
	Kind FailureKind
	City string

	// StatusCode and ProviderMessage are set for ProviderFailure.
	StatusCode      int
	ProviderMessage string

	// Cause is a short classification of a TransportFailure (dns, timeout, refused, other).
	Cause string

	Err error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case ProviderFailure:
		if e.ProviderMessage != "" {
			return fmt.Sprintf("%v: city %q: status %d: %s", e.Kind.sentinel(), e.City, e.StatusCode, e.ProviderMessage)
		}
		return fmt.Sprintf("%v: city %q: status %d", e.Kind.sentinel(), e.City, e.StatusCode)
	case TransportFailure:
		return fmt.Sprintf("%v: city %q (%s): %v", e.Kind.sentinel(), e.City, e.Cause, e.Err)
	default:
		return fmt.Sprintf("%v: city %q: %v", e.Kind.sentinel(), e.City, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is matches the sentinel of the error's kind.
func (e *FetchError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// KindOf reports the FailureKind carried by err, or 0 when err is not a FetchError.
func KindOf(err error) FailureKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}
