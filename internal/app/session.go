package app

import (
	"sort"
	"sync"
	"time"

	"github.com/StarRy7c/Gamebot/internal/domain"
)

// wrongGuess is one entry in the per-hint wrong-guess log, kept in insertion
// order for the earliest-wins steal rule.
type wrongGuess struct {
	userID string
	at     time.Time
}

// Session is one room's live game. At most one exists per room; it owns its
// hint timers exclusively and every exit path cancels them. All fields are
// guarded by mu.
type Session struct {
	id     string
	roomID string

	mu sync.Mutex

	totalQuestions int
	questionIndex  int // 1-based
	question       domain.Question

	hintIndex        int
	hintStartedAt    time.Time
	categoryRevealed bool
	resolved         bool
	stopped          bool

	firstMessages map[string]string // cleared every hint window
	wrongGuesses  []wrongGuess      // cleared every hint window
	nearMissShown map[string]struct{}
	stealUsed     map[string]bool // session-scoped steal flags

	points map[string]float64
	order  []string // user ids in first-scored order

	// timerGen invalidates pending timers: every (re)arm bumps it and a
	// firing callback that observes a stale generation is a no-op.
	timerGen uint64
	timers   []*time.Timer
}

// newSession returns a session safe to expose to concurrent guess traffic
// immediately; the per-window maps are live before the first question begins.
func newSession(id, roomID string, totalQuestions int) *Session {
	return &Session{
		id:             id,
		roomID:         roomID,
		totalQuestions: totalQuestions,
		points:         make(map[string]float64),
		stealUsed:      make(map[string]bool),
		firstMessages:  make(map[string]string),
		nearMissShown:  make(map[string]struct{}),
	}
}

// beginQuestionLocked resets per-question state for a freshly drawn question.
func (s *Session) beginQuestionLocked(q domain.Question) {
	s.questionIndex++
	s.question = q
	s.hintIndex = 0
	s.categoryRevealed = false
	s.resolved = false
	s.firstMessages = make(map[string]string)
	s.wrongGuesses = nil
	s.nearMissShown = make(map[string]struct{})
}

// cancelTimersLocked stops every pending timer and invalidates any firing
// already in flight.
func (s *Session) cancelTimersLocked() {
	s.timerGen++
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
}

// addPointsLocked credits the in-session score, tracking first-scored order
// for stable ranking.
func (s *Session) addPointsLocked(userID string, points float64) {
	if _, seen := s.points[userID]; !seen {
		s.order = append(s.order, userID)
	}
	s.points[userID] += points
}

// topEntriesLocked ranks the in-session scoreboard, points descending with a
// stable first-scored tiebreak, truncated to n.
func (s *Session) topEntriesLocked(ledger *Ledger, n int) []domain.LeaderboardEntry {
	entries := make([]domain.LeaderboardEntry, 0, len(s.order))
	for _, userID := range s.order {
		entries = append(entries, domain.LeaderboardEntry{
			UserID:      userID,
			DisplayName: ledger.DisplayName(userID),
			Points:      s.points[userID],
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Points > entries[j].Points
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
