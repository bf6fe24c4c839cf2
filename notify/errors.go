package notify

import "fmt"

// ErrChannelNotFound is returned when the target channel does not exist
// or the bot cannot see it. This is an operational misconfiguration, not
// a caller error.
type ErrChannelNotFound struct {
	Channel string
}

func (e *ErrChannelNotFound) Error() string {
	return fmt.Sprintf("notify: channel not found: %s", e.Channel)
}

// ErrSendFailed is returned when a notification could not be delivered
// to the platform.
type ErrSendFailed struct {
	Channel string
	Cause   error
}

func (e *ErrSendFailed) Error() string {
	return fmt.Sprintf("notify: send failed on %s: %v", e.Channel, e.Cause)
}

func (e *ErrSendFailed) Unwrap() error { return e.Cause }
