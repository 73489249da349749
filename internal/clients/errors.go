package clients

import (
	"errors"
	"fmt"
)

// ErrServiceUnavailable marks transport-level failures (connection refused,
// DNS, timeout). Callers wrap it with the service name via %w.
var ErrServiceUnavailable = errors.New("remote service unavailable")

// ServiceError is a non-2xx reply from a remote service. It carries the
// upstream status so handlers can surface it without retrying.
type ServiceError struct {
	Service string
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s returned status %d: %s", e.Service, e.Status, e.Message)
	}
	return fmt.Sprintf("%s returned status %d", e.Service, e.Status)
}
