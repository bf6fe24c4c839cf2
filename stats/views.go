package stats

import (
	"sort"
	"time"
)

// Default limits for the derived views.
const (
	DefaultLeaderboardLimit = 5
	DefaultActivityLimit    = 5
)

// SkillCount is one leaderboard row.
type SkillCount struct {
	SkillName string
	Count     int
}

// ActivityEntry is a history entry augmented with its age at query time.
type ActivityEntry struct {
	Entry
	Age time.Duration
}

// Profile is the derived per-user view. LastActivity is nil when the user
// has no recorded entries.
type Profile struct {
	UserID           string
	TotalGenerations int
	FavoriteSource   string
	LastActivity     *time.Time
}

// Leaderboard groups the history by skill name and returns the top limit
// skills by count, descending. Ties keep the order in which a skill was
// first encountered while walking the newest-first history, so for equal
// counts the more recently used skill ranks higher. Entries without a
// skill name are skipped. Empty history yields an empty slice.
func (s *Store) Leaderboard(limit int) []SkillCount {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int)
	var order []string
	for _, e := range s.rec.History {
		if e.SkillName == "" {
			continue
		}
		if _, seen := counts[e.SkillName]; !seen {
			order = append(order, e.SkillName)
		}
		counts[e.SkillName]++
	}

	rows := make([]SkillCount, 0, len(order))
	for _, name := range order {
		rows = append(rows, SkillCount{SkillName: name, Count: counts[name]})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// Activity returns the limit most recent entries, newest first, each
// annotated with how long ago it was recorded.
func (s *Store) Activity(limit int) []ActivityEntry {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := min(limit, len(s.rec.History))
	out := make([]ActivityEntry, 0, n)
	for _, e := range s.rec.History[:n] {
		out = append(out, ActivityEntry{Entry: e, Age: now.Sub(e.Timestamp)})
	}
	return out
}

// Profile derives the per-user view from the history: entry count, most
// frequent source (ties broken by first-encountered order in the
// newest-first history, same rule as the leaderboard), and the most
// recent matching timestamp. A user with no entries gets a zero count,
// "Unknown" source, and a nil LastActivity; this is a valid result, not
// an error.
func (s *Store) Profile(userID string) Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := Profile{UserID: userID, FavoriteSource: "Unknown"}

	counts := make(map[string]int)
	var order []string
	for _, e := range s.rec.History {
		if e.UserID != userID {
			continue
		}
		p.TotalGenerations++
		if p.LastActivity == nil {
			ts := e.Timestamp
			p.LastActivity = &ts
		}
		if e.Source == "" {
			continue
		}
		if _, seen := counts[e.Source]; !seen {
			order = append(order, e.Source)
		}
		counts[e.Source]++
	}

	best := 0
	for _, src := range order {
		if counts[src] > best {
			best = counts[src]
			p.FavoriteSource = src
		}
	}
	return p
}
