package app

import (
	"sort"
	"strings"
	"sync"

	"github.com/StarRy7c/Gamebot/internal/domain"
)

// LedgerObserver receives best-effort notifications of ledger mutations so an
// infrastructure layer can mirror them (e.g. into Redis). Observer failures
// never affect ledger state.
type LedgerObserver interface {
	PointsChanged(roomID, userID string, total float64)
	WordUsed(roomID, word string)
	LedgerReset(roomID string)
}

// Ledger holds one room's daily accumulators: used words, points, streaks,
// steal flags, fastest times, correct counts, display names and milestone
// flags. Created lazily per room, cleared at the daily boundary, never
// destroyed while the process runs.
type Ledger struct {
	roomID   string
	observer LedgerObserver

	mu         sync.Mutex
	usedWords  map[string]struct{}
	points     map[string]float64
	order      []string // user ids in first-scored order, for stable ranking
	streaks    map[string]int
	stealUsed  map[string]bool
	fastest    map[string]float64
	correct    map[string]int
	names      map[string]string
	milestones map[string]map[int]struct{}
}

// NewLedger builds an empty ledger for a room. The observer may be nil.
func NewLedger(roomID string, observer LedgerObserver) *Ledger {
	l := &Ledger{roomID: roomID, observer: observer}
	l.resetLocked()
	return l
}

func (l *Ledger) resetLocked() {
	l.usedWords = make(map[string]struct{})
	l.points = make(map[string]float64)
	l.order = nil
	l.streaks = make(map[string]int)
	l.stealUsed = make(map[string]bool)
	l.fastest = make(map[string]float64)
	l.correct = make(map[string]int)
	l.milestones = make(map[string]map[int]struct{})
	if l.names == nil {
		l.names = make(map[string]string)
	}
}

// Reset clears all daily accumulators. Display names survive so the next
// day's first event still renders a readable name.
func (l *Ledger) Reset() {
	l.mu.Lock()
	l.resetLocked()
	l.mu.Unlock()
	if l.observer != nil {
		l.observer.LedgerReset(l.roomID)
	}
}

// MarkWordUsed records a drawn word; it can never be re-selected for this
// room until the next reset.
func (l *Ledger) MarkWordUsed(word string) {
	w := strings.ToLower(word)
	l.mu.Lock()
	l.usedWords[w] = struct{}{}
	l.mu.Unlock()
	if l.observer != nil {
		l.observer.WordUsed(l.roomID, w)
	}
}

// UsedWords returns a copy of the room's used-word set.
func (l *Ledger) UsedWords() map[string]struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	used := make(map[string]struct{}, len(l.usedWords))
	for w := range l.usedWords {
		used[w] = struct{}{}
	}
	return used
}

// RememberName refreshes the display name used in leaderboard views.
func (l *Ledger) RememberName(userID, displayName string) {
	if displayName == "" {
		return
	}
	l.mu.Lock()
	l.names[userID] = displayName
	l.mu.Unlock()
}

// DisplayName resolves a user's last known name.
func (l *Ledger) DisplayName(userID string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if name, ok := l.names[userID]; ok {
		return name
	}
	return userID
}

// BumpStreak increments a user's streak and returns the new value.
func (l *Ledger) BumpStreak(userID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.streaks[userID]++
	return l.streaks[userID]
}

// ResetStreak zeroes a user's streak. Any wrong guess does this.
func (l *Ledger) ResetStreak(userID string) {
	l.mu.Lock()
	l.streaks[userID] = 0
	l.mu.Unlock()
}

// AddPoints credits a correct guess and returns the new daily total along
// with any milestone thresholds crossed for the first time today.
func (l *Ledger) AddPoints(userID string, points float64) (total float64, crossed []int) {
	l.mu.Lock()
	if _, seen := l.points[userID]; !seen {
		l.order = append(l.order, userID)
	}
	l.points[userID] += points
	total = l.points[userID]

	reached := l.milestones[userID]
	if reached == nil {
		reached = make(map[int]struct{})
		l.milestones[userID] = reached
	}
	for _, threshold := range MilestoneThresholds {
		if total < float64(threshold) {
			break
		}
		if _, done := reached[threshold]; done {
			continue
		}
		reached[threshold] = struct{}{}
		crossed = append(crossed, threshold)
	}
	l.mu.Unlock()

	if l.observer != nil {
		l.observer.PointsChanged(l.roomID, userID, total)
	}
	return total, crossed
}

// Penalize deducts points from a steal victim.
func (l *Ledger) Penalize(userID string, points float64) {
	l.mu.Lock()
	if _, seen := l.points[userID]; !seen {
		l.order = append(l.order, userID)
	}
	l.points[userID] -= points
	total := l.points[userID]
	l.mu.Unlock()

	if l.observer != nil {
		l.observer.PointsChanged(l.roomID, userID, total)
	}
}

// RecordCorrect tracks correct-count and fastest-guess bookkeeping.
func (l *Ledger) RecordCorrect(userID string, elapsedSeconds float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.correct[userID]++
	if best, ok := l.fastest[userID]; !ok || elapsedSeconds < best {
		l.fastest[userID] = elapsedSeconds
	}
}

// StealUsed reports whether the user has consumed their daily steal.
func (l *Ledger) StealUsed(userID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stealUsed[userID]
}

// ConsumeSteal marks the user's daily steal as spent.
func (l *Ledger) ConsumeSteal(userID string) {
	l.mu.Lock()
	l.stealUsed[userID] = true
	l.mu.Unlock()
}

// HasActivity reports whether anyone scored today.
func (l *Ledger) HasActivity() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.points) > 0
}

// TopEntries ranks players by points descending, ties broken by who scored
// first (stable), truncated to n.
func (l *Ledger) TopEntries(n int) []domain.LeaderboardEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make([]domain.LeaderboardEntry, 0, len(l.order))
	for _, userID := range l.order {
		entries = append(entries, domain.LeaderboardEntry{
			UserID:      userID,
			DisplayName: l.displayNameLocked(userID),
			Points:      l.points[userID],
			Streak:      l.streaks[userID],
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

// DailySummary returns the end-of-day extremes for the results post.
func (l *Ledger) DailySummary() (longestStreak int, fastestTime float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, streak := range l.streaks {
		if streak > longestStreak {
			longestStreak = streak
		}
	}
	for _, fastest := range l.fastest {
		if fastestTime == 0 || fastest < fastestTime {
			fastestTime = fastest
		}
	}
	return longestStreak, fastestTime
}

// Stats assembles one player's daily stats view.
func (l *Ledger) Stats(userID string) domain.PlayerStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return domain.PlayerStats{
		UserID:       userID,
		DisplayName:  l.displayNameLocked(userID),
		Points:       l.points[userID],
		Streak:       l.streaks[userID],
		CorrectCount: l.correct[userID],
		FastestGuess: l.fastest[userID],
		StealUsed:    l.stealUsed[userID],
	}
}

func (l *Ledger) displayNameLocked(userID string) string {
	if name, ok := l.names[userID]; ok {
		return name
	}
	return userID
}
