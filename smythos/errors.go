package smythos

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/rotisserie/eris"
)

var (
	// ErrUpstreamUnavailable means the agent API could not be reached.
	ErrUpstreamUnavailable = eris.New("smythos: upstream unavailable")
	// ErrUpstreamTimeout means the agent API did not answer in time.
	ErrUpstreamTimeout = eris.New("smythos: upstream timeout")
)

// HTTPError is a non-2xx answer from the agent API.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("SmythOS API Error (%d): %s", e.StatusCode, e.Body)
}

// classify maps a transport failure onto the upstream error taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return eris.Wrap(ErrUpstreamTimeout, err.Error())
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return eris.Wrap(ErrUpstreamTimeout, err.Error())
	}
	if errors.Is(err, context.Canceled) {
		return eris.Wrap(err, "smythos: request canceled")
	}
	return eris.Wrap(ErrUpstreamUnavailable, err.Error())
}
