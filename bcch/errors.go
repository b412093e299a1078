package bcch

import (
	"errors"
	"fmt"
)

// ErrMissingCredentials means BCCH_USER/BCCH_PASS were not configured.
// This is a request-fatal error, never a silent empty result.
var ErrMissingCredentials = errors.New("bcch: missing credentials (set BCCH_USER and BCCH_PASS)")

// UpstreamError is a failed call to the BCCh API: either a non-2xx
// transport status or an in-payload error code from the response envelope.
type UpstreamError struct {
	StatusCode int    // HTTP status, when the transport layer failed
	Code       int    // provider error code from the envelope, when non-zero
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("bcch: upstream returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("bcch: upstream error %d: %s", e.Code, e.Message)
}
