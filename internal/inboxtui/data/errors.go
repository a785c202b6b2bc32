package data

import (
	"errors"
	"fmt"
)

var (
	// ErrFetchFailed is matched by every *FetchError.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrMalformedSnapshot marks a snapshot that failed shape validation.
	ErrMalformedSnapshot = errors.New("malformed snapshot")
	// ErrUndecodableSnapshot marks a body that is not snapshot JSON at all.
	// It matches ErrMalformedSnapshot too.
	ErrUndecodableSnapshot = fmt.Errorf("%w: undecodable body", ErrMalformedSnapshot)
)

type FetchErrorKind string

const (
	FetchTransport FetchErrorKind = "transport"
	FetchStatus    FetchErrorKind = "status"
	FetchDecode    FetchErrorKind = "decode"
	FetchMalformed FetchErrorKind = "malformed"
)

// FetchError is the uniform failure signal of a SnapshotFetcher.
type FetchError struct {
	Kind   FetchErrorKind
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e == nil {
		return ErrFetchFailed.Error()
	}
	switch {
	case e.Kind == FetchStatus && e.Err != nil:
		return fmt.Sprintf("fetch failed: status %d: %v", e.Status, e.Err)
	case e.Kind == FetchStatus:
		return fmt.Sprintf("fetch failed: status %d", e.Status)
	case e.Err != nil:
		return fmt.Sprintf("fetch failed (%s): %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("fetch failed (%s)", e.Kind)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}

func fetchErr(kind FetchErrorKind, err error) *FetchError {
	return &FetchError{Kind: kind, Err: err}
}

// snapshotErr classifies a DecodeSnapshot failure.
func snapshotErr(err error) *FetchError {
	switch {
	case errors.Is(err, ErrUndecodableSnapshot):
		return fetchErr(FetchDecode, err)
	case errors.Is(err, ErrMalformedSnapshot):
		return fetchErr(FetchMalformed, err)
	default:
		return fetchErr(FetchTransport, err)
	}
}

// IsMalformed reports whether err is a rejected (undecodable or invalid) snapshot.
func IsMalformed(err error) bool {
	if errors.Is(err, ErrMalformedSnapshot) {
		return true
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind == FetchDecode || fe.Kind == FetchMalformed
	}
	return false
}
