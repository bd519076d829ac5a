package catalog

import (
	"errors"
	"fmt"
)

// Kind classifies why a remote call did not produce a product.
type Kind int

const (
	// NetworkUnavailable means the request never reached the server.
	NetworkUnavailable Kind = iota + 1
	// ServerRejected means the server answered with a non-2xx status or a
	// body that could not be decoded.
	ServerRejected
)

func (k Kind) String() string {
	switch k {
	case NetworkUnavailable:
		return "network_unavailable"
	case ServerRejected:
		return "server_rejected"
	default:
		return "unknown"
	}
}

// Failure is the tagged error returned by every remote call.
type Failure struct {
	Kind   Kind
	Op     string
	Status int
	Err    error
}

func (f *Failure) Error() string {
	switch {
	case f.Status != 0 && f.Err != nil:
		return fmt.Sprintf("%s: %s (status %d): %v", f.Op, f.Kind, f.Status, f.Err)
	case f.Status != 0:
		return fmt.Sprintf("%s: %s (status %d)", f.Op, f.Kind, f.Status)
	case f.Err != nil:
		return fmt.Sprintf("%s: %s: %v", f.Op, f.Kind, f.Err)
	default:
		return fmt.Sprintf("%s: %s", f.Op, f.Kind)
	}
}

func (f *Failure) Unwrap() error { return f.Err }

// AsFailure extracts a *Failure from err.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// Result is the outcome of a create or update call. Exactly one of Product
// and Failure is meaningful.
type Result struct {
	Product Product
	Failure *Failure
}

// OK reports whether the call succeeded.
func (r Result) OK() bool { return r.Failure == nil }

func failed(f *Failure) Result { return Result{Failure: f} }
