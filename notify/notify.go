// Package notify delivers formatted notifications to a chat platform.
//
// The Notifier interface abstracts the outbound side of the relay: the
// ingestion adapter hands it a platform-neutral Notification and the
// implementation deals with the platform SDK, attachments, and the
// optional mention follow-up. Discord is the only implementation; the
// interface keeps the HTTP layer testable with a stub.
package notify

import (
	"context"
	"time"
)

// Field is one name/value pair rendered inside a notification embed.
type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Footer is the embed footer line.
type Footer struct {
	Text    string
	IconURL string
}

// Attachment is an image attached to a notification and referenced by
// the embed.
type Attachment struct {
	Filename string
	Data     []byte
}

// Notification is a platform-neutral outbound message. When
// MentionUserID is set, the notifier sends a short follow-up message
// referencing that user after the primary send; the follow-up is
// best-effort and never fails the primary delivery.
type Notification struct {
	Title         string
	Description   string
	Color         int
	Fields        []Field
	Footer        Footer
	Image         *Attachment
	MentionUserID string
}

// Status describes the platform connection.
type Status struct {
	Connected bool          `json:"connected"`
	Tag       string        `json:"tag"`
	Latency   time.Duration `json:"ping"`
}

// Notifier sends notifications to the configured channel.
type Notifier interface {
	// Send delivers the notification. Failures are reported as
	// ErrChannelNotFound (operational misconfiguration) or
	// ErrSendFailed (upstream delivery failure).
	Send(ctx context.Context, n Notification) error

	// Status returns the current connection status.
	Status() Status

	// Close stops the notifier. Further sends fail.
	Close() error
}
