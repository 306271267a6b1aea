package supplier

import (
	"errors"
	"fmt"
)

// ErrUnknownSupplier means no endpoint is configured for the requested
// supplier.
var ErrUnknownSupplier = errors.New("unknown supplier")

// ErrMalformedPayload marks a response that was received but could not be
// decoded as a supplier item array. The client wraps decode failures with
// it; the syncer attributes them to a supplier.
var ErrMalformedPayload = errors.New("malformed payload")

// MalformedPayloadError means a supplier's endpoint answered, but with a
// payload that does not decode as an item array. Distinct from
// UpstreamFetchError so callers can tell a broken contract from a dead
// endpoint.
type MalformedPayloadError struct {
	SupplierID string
	Err        error
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("malformed payload from supplier %q: %v", e.SupplierID, e.Err)
}

func (e *MalformedPayloadError) Unwrap() error { return e.Err }

// UpstreamFetchError marks one supplier's endpoint as unreachable or
// non-2xx. It is non-fatal to the batch: the rest of the fan-out proceeds.
type UpstreamFetchError struct {
	SupplierID string
	Err        error
}

func (e *UpstreamFetchError) Error() string {
	return fmt.Sprintf("fetch from supplier %q failed: %v", e.SupplierID, e.Err)
}

func (e *UpstreamFetchError) Unwrap() error { return e.Err }
