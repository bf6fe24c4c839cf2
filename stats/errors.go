package stats

import "fmt"

// ErrNotConfirmed is returned when a reset is attempted without the
// required confirmation string.
type ErrNotConfirmed struct {
	Confirmation string
}

func (e *ErrNotConfirmed) Error() string {
	return fmt.Sprintf("stats: reset not confirmed (got %q, want \"yes\")", e.Confirmation)
}

// ErrNoMentionTarget is returned when mentions are enabled before a
// mention target has been configured.
type ErrNoMentionTarget struct{}

func (e *ErrNoMentionTarget) Error() string {
	return "stats: no mention target configured"
}
