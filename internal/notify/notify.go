package notify

//go:generate go run go.uber.org/mock/mockgen -destination notify_mock.gen.go -package notify . Notifier

import (
	"context"
	"fmt"
)

// Event is the change notification sent downstream. Repo and Branch are omitted when empty.
type Event struct {
	Event     string `json:"event"`
	Repo      string `json:"repo,omitempty"`
	Branch    string `json:"branch,omitempty"`
	CommitSHA string `json:"commit_sha"`
}

// Notifier delivers events to the downstream automation system (used by poller).
type Notifier interface {
	Emit(ctx context.Context, evt Event) error
}

// DeliveryError is a failure handing an event to the downstream endpoint.
type DeliveryError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *DeliveryError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("deliver to %s: status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("deliver to %s: %v", e.Endpoint, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
