package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

// StatusError is a non-2xx response from a downstream HTTP service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// IsTimeout reports whether err is a deadline or network timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsTransient reports whether err looks like a temporary condition of the
// network or the downstream service: timeouts, refused or reset connections,
// DNS failures, an open circuit or a 408/429/5xx status.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if IsTimeout(err) || errors.Is(err, ErrCircuitOpen) {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode == 408 || se.StatusCode == 429 || se.StatusCode >= 500
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, p := range []string{"connection reset by peer", "broken pipe", "no such host", "connection refused"} {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
