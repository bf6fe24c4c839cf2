// Package stats owns the in-memory usage statistics for the AuraFX relay:
// lifetime/daily/weekly counters, a bounded most-recent-notification log,
// and the mention configuration used for follow-up pings.
//
// The Store holds a single process-wide Record. Operations are serialized
// behind a mutex because the HTTP handlers and the Discord gateway callbacks
// run on separate goroutines; each operation is all-or-nothing and the
// counters never go negative.
//
// There is deliberately no persistence: a process restart loses all state.
package stats

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// historyLimit bounds the notification log. Insertion beyond the limit
// evicts the oldest entry.
const historyLimit = 10

// Entry is one recorded notification. Immutable once created.
type Entry struct {
	ID        string    `json:"id"`
	SkillName string    `json:"skillName"`
	Source    string    `json:"source"`
	UserID    string    `json:"userId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Record is the canonical statistics record. History is ordered
// newest-first and never exceeds historyLimit entries.
type Record struct {
	TotalUses      int       `json:"totalUses"`
	TodayUses      int       `json:"todayUses"`
	WeeklyUses     int       `json:"weeklyUses"`
	LastReset      time.Time `json:"lastReset"`
	MentionEnabled bool      `json:"mentionEnabled"`
	MentionUserID  string    `json:"mentionUserId,omitempty"`
	History        []Entry   `json:"history"`
}

// Event is a normalized generation event from the ingestion adapter.
// TodayCount and TotalUses, when set, are absolute counter snapshots from
// the caller and replace the stored values instead of incrementing them.
type Event struct {
	SkillName    string
	Source       string
	ElementCount *int
	LayerCount   *int
	ActiveModes  []string
	UserID       string
	TodayCount   *int
	TotalUses    *int
}

// Receipt describes the outcome of recording an event: the updated
// counters, the entry that was logged, and whether the notifier should
// send a mention follow-up.
type Receipt struct {
	TotalUses     int
	TodayUses     int
	WeeklyUses    int
	Entry         Entry
	Mention       bool
	MentionUserID string
}

// Store owns the Record and serializes all access to it.
type Store struct {
	mu    sync.Mutex
	rec   Record
	now   func() time.Time
	newID func() string
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source. Used by tests to control timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator sets a custom entry ID generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// NewStore creates a Store with zero counters, empty history, and
// mentions disabled.
func NewStore(opts ...Option) *Store {
	s := &Store{
		now:   time.Now,
		newID: func() string { return "ntf_" + uuid.NewString() },
	}
	for _, o := range opts {
		o(s)
	}
	s.rec.LastReset = s.now()
	return s
}

// RecordEvent applies a generation event: counters are replaced by the
// caller-supplied snapshots when present (zero and negative snapshots are
// ignored, matching the upstream tool's behavior), otherwise incremented
// by one. WeeklyUses always increments by exactly one. The event is
// prepended to the history, evicting the oldest entry past the bound.
//
// Malformed input is never rejected here; a missing skill name is stored
// as-is and rendered with a placeholder downstream.
func (s *Store) RecordEvent(ev Event) Receipt {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ev.TotalUses != nil && *ev.TotalUses > 0 {
		s.rec.TotalUses = *ev.TotalUses
	} else {
		s.rec.TotalUses++
	}
	if ev.TodayCount != nil && *ev.TodayCount > 0 {
		s.rec.TodayUses = *ev.TodayCount
	} else {
		s.rec.TodayUses++
	}
	s.rec.WeeklyUses++

	entry := Entry{
		ID:        s.newID(),
		SkillName: ev.SkillName,
		Source:    ev.Source,
		UserID:    ev.UserID,
		Timestamp: s.now(),
	}
	s.rec.History = append([]Entry{entry}, s.rec.History...)
	if len(s.rec.History) > historyLimit {
		s.rec.History = s.rec.History[:historyLimit]
	}

	return Receipt{
		TotalUses:     s.rec.TotalUses,
		TodayUses:     s.rec.TodayUses,
		WeeklyUses:    s.rec.WeeklyUses,
		Entry:         entry,
		Mention:       s.rec.MentionEnabled && s.rec.MentionUserID != "",
		MentionUserID: s.rec.MentionUserID,
	}
}

// Reset zeroes the counters, clears the history, and stamps LastReset.
// The mention configuration survives a reset: it is configuration, not
// usage data. The confirmation must case-insensitively equal "yes";
// anything else returns ErrNotConfirmed and mutates nothing.
func (s *Store) Reset(confirmation string) error {
	if !strings.EqualFold(confirmation, "yes") {
		return &ErrNotConfirmed{Confirmation: confirmation}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.TotalUses = 0
	s.rec.TodayUses = 0
	s.rec.WeeklyUses = 0
	s.rec.LastReset = s.now()
	s.rec.History = nil
	return nil
}

// Snapshot returns a copy of the Record for rendering. The history slice
// is cloned so callers cannot mutate store state, and is never nil so it
// serializes as an empty JSON array.
func (s *Store) Snapshot() Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.rec
	rec.History = make([]Entry, len(s.rec.History))
	copy(rec.History, s.rec.History)
	return rec
}

// SetMentionTarget sets the user to mention in follow-up messages.
// It does not enable mentions by itself.
func (s *Store) SetMentionTarget(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.MentionUserID = userID
}

// SetMentionEnabled toggles the mention follow-up. Enabling requires a
// target set beforehand via SetMentionTarget; without one the call fails
// with ErrNoMentionTarget and leaves the state unchanged. Disabling
// always succeeds.
func (s *Store) SetMentionEnabled(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if enabled && s.rec.MentionUserID == "" {
		return &ErrNoMentionTarget{}
	}
	s.rec.MentionEnabled = enabled
	return nil
}
