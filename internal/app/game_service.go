package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/StarRy7c/Gamebot/internal/domain"
)

// SessionStore abstracts how live sessions are tracked (in-memory, Redis-marked).
type SessionStore interface {
	// PutIfAbsent registers a session for the room unless one is already
	// live; it reports whether the session was stored.
	PutIfAbsent(roomID string, session *Session) bool
	Get(roomID string) (*Session, bool)
	Delete(roomID string)
}

// LedgerStore hands out per-room daily ledgers, created lazily.
type LedgerStore interface {
	GetOrCreate(roomID string) *Ledger
	Rooms() []string
}

// QuestionSource draws an unused question for a room. Selection never
// mutates; the caller records the drawn word in the ledger.
type QuestionSource interface {
	Draw(ctx context.Context, used map[string]struct{}) (domain.Question, error)
}

// Config carries the engine's timing and rule knobs.
type Config struct {
	HintWindow        time.Duration
	StealWindow       time.Duration
	NextQuestionDelay time.Duration
	DefaultQuestions  int
	MaxQuestions      int
	StealScope        domain.StealScope
}

// DefaultConfig mirrors the classic game rules: 20s hint windows, a 2s steal
// window, a 3s pause between questions, one steal per game.
func DefaultConfig() Config {
	return Config{
		HintWindow:        20 * time.Second,
		StealWindow:       2 * time.Second,
		NextQuestionDelay: 3 * time.Second,
		DefaultQuestions:  3,
		MaxQuestions:      10,
		StealScope:        domain.StealScopeSession,
	}
}

func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.HintWindow <= 0 {
		c.HintWindow = def.HintWindow
	}
	if c.StealWindow <= 0 {
		c.StealWindow = def.StealWindow
	}
	if c.NextQuestionDelay < 0 {
		c.NextQuestionDelay = def.NextQuestionDelay
	}
	if c.DefaultQuestions <= 0 {
		c.DefaultQuestions = def.DefaultQuestions
	}
	if c.MaxQuestions <= 0 {
		c.MaxQuestions = def.MaxQuestions
	}
	if c.StealScope != domain.StealScopeDaily {
		c.StealScope = domain.StealScopeSession
	}
	return c
}

// countdownCheckpoints are the seconds-remaining marks at which the running
// hint window is refreshed.
var countdownCheckpoints = []int{10, 5}

// GameService is the per-room game engine: it sequences hints, enforces the
// timing windows, evaluates guesses, scores them against the daily ledger and
// publishes the resulting events to room subscribers.
type GameService struct {
	sessions  SessionStore
	ledgers   LedgerStore
	questions QuestionSource
	cfg       Config
	log       zerolog.Logger
	now       func() time.Time

	subMu       sync.Mutex
	subscribers map[string]map[chan domain.Event]struct{}
}

func NewGameService(sessions SessionStore, ledgers LedgerStore, questions QuestionSource, cfg Config, log zerolog.Logger) *GameService {
	return &GameService{
		sessions:    sessions,
		ledgers:     ledgers,
		questions:   questions,
		cfg:         cfg.normalized(),
		log:         log,
		now:         time.Now,
		subscribers: make(map[string]map[chan domain.Event]struct{}),
	}
}

// NewGameServiceWithClock is test-only for deterministic timestamps.
func NewGameServiceWithClock(sessions SessionStore, ledgers LedgerStore, questions QuestionSource, cfg Config, log zerolog.Logger, now func() time.Time) *GameService {
	svc := NewGameService(sessions, ledgers, questions, cfg, log)
	svc.now = now
	return svc
}

// Subscribe returns a channel receiving the room's engine events. The caller
// must invoke the returned cancel function to avoid leaks.
func (g *GameService) Subscribe(roomID string) (<-chan domain.Event, func()) {
	ch := make(chan domain.Event, 16)

	g.subMu.Lock()
	subs, ok := g.subscribers[roomID]
	if !ok {
		subs = make(map[chan domain.Event]struct{})
		g.subscribers[roomID] = subs
	}
	subs[ch] = struct{}{}
	g.subMu.Unlock()

	cancel := func() {
		g.subMu.Lock()
		if subs, ok := g.subscribers[roomID]; ok {
			if _, present := subs[ch]; present {
				delete(subs, ch)
				close(ch)
			}
			if len(subs) == 0 {
				delete(g.subscribers, roomID)
			}
		}
		g.subMu.Unlock()
	}
	return ch, cancel
}

// publish fans an event out to the room's subscribers. Sends never block:
// when a subscriber lags, its oldest pending event is dropped so the engine's
// state transitions are never held up by delivery.
func (g *GameService) publish(roomID string, event domain.Event) {
	g.subMu.Lock()
	defer g.subMu.Unlock()
	for ch := range g.subscribers[roomID] {
		select {
		case ch <- event:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- event:
			default:
				g.log.Warn().Str("room", roomID).Str("event", event.EventType()).Msg("dropping event for slow subscriber")
			}
		}
	}
}

// StartGame creates a session for the room and reveals the first hint.
// Fails with ErrGameAlreadyActive when a session is live, and with
// ErrNoQuestionsLeft when the room has used every question today.
func (g *GameService) StartGame(ctx context.Context, roomID string, questionCount int) error {
	if _, active := g.sessions.Get(roomID); active {
		return domain.ErrGameAlreadyActive
	}

	if questionCount <= 0 {
		questionCount = g.cfg.DefaultQuestions
	}
	if questionCount > g.cfg.MaxQuestions {
		questionCount = g.cfg.MaxQuestions
	}

	ledger := g.ledgers.GetOrCreate(roomID)
	question, err := g.questions.Draw(ctx, ledger.UsedWords())
	if err != nil {
		return err
	}

	session := newSession(uuid.NewString(), roomID, questionCount)
	if !g.sessions.PutIfAbsent(roomID, session) {
		return domain.ErrGameAlreadyActive
	}
	ledger.MarkWordUsed(question.Word)

	g.log.Info().Str("room", roomID).Str("session", session.id).Int("questions", questionCount).Msg("game started")

	session.mu.Lock()
	defer session.mu.Unlock()
	session.beginQuestionLocked(question)
	g.advanceHintLocked(session)
	return nil
}

// HandleMessage routes a raw chat message to the room's session as a guess.
// Messages for rooms without a live session are expected traffic and are
// silently ignored.
func (g *GameService) HandleMessage(_ context.Context, roomID, userID, displayName, text string) {
	session, ok := g.sessions.Get(roomID)
	if !ok {
		return
	}

	ledger := g.ledgers.GetOrCreate(roomID)
	ledger.RememberName(userID, displayName)

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.resolved || session.stopped {
		return
	}
	// First message per user per hint window is authoritative; the rest are
	// spam-suppressed, not errors.
	if _, seen := session.firstMessages[userID]; seen {
		return
	}
	session.firstMessages[userID] = text

	guess := normalize(text)
	answer := normalize(session.question.Word)
	if guess == answer {
		g.resolveCorrectLocked(session, ledger, userID)
		return
	}

	ledger.ResetStreak(userID)
	session.wrongGuesses = append(session.wrongGuesses, wrongGuess{userID: userID, at: g.now()})

	if _, shown := session.nearMissShown[userID]; !shown && IsNearMiss(guess, answer) {
		session.nearMissShown[userID] = struct{}{}
		g.publish(roomID, domain.NearMissDetected{UserID: userID})
	}
}

// StopGame discards the room's session regardless of state. In group rooms
// only admins may stop; direct chats are unrestricted.
func (g *GameService) StopGame(_ context.Context, roomID, userID string, isPrivate, isAdmin bool) error {
	if !isPrivate && !isAdmin {
		return domain.ErrForbidden
	}

	session, ok := g.sessions.Get(roomID)
	if !ok {
		return domain.ErrNoActiveGame
	}

	session.mu.Lock()
	session.stopped = true
	session.cancelTimersLocked()
	session.mu.Unlock()

	g.sessions.Delete(roomID)
	g.log.Info().Str("room", roomID).Str("session", session.id).Str("by", userID).Msg("game stopped")
	return nil
}

// DailyLeaderboard returns the room's top 10 players for the day.
func (g *GameService) DailyLeaderboard(roomID string) []domain.LeaderboardEntry {
	return g.ledgers.GetOrCreate(roomID).TopEntries(10)
}

// PlayerStats returns one player's daily stats for the room. Under the
// session steal scope the availability flag lives on the running session, so
// the view consults it there for as long as the session is live.
func (g *GameService) PlayerStats(roomID, userID string) domain.PlayerStats {
	stats := g.ledgers.GetOrCreate(roomID).Stats(userID)
	if g.cfg.StealScope == domain.StealScopeSession {
		stats.StealUsed = false
		if session, ok := g.sessions.Get(roomID); ok {
			session.mu.Lock()
			stats.StealUsed = session.stealUsed[userID]
			session.mu.Unlock()
		}
	}
	return stats
}

// DailyReset posts final results for every room with activity, then clears
// all ledgers. Invoked by the daily boundary scheduler.
func (g *GameService) DailyReset(_ context.Context) {
	for _, roomID := range g.ledgers.Rooms() {
		ledger := g.ledgers.GetOrCreate(roomID)
		if ledger.HasActivity() {
			longest, fastest := ledger.DailySummary()
			g.publish(roomID, domain.DailyResultsPosted{
				TopEntries:    ledger.TopEntries(10),
				LongestStreak: longest,
				FastestTime:   fastest,
			})
		}
		ledger.Reset()
	}
	g.log.Info().Msg("daily reset complete")
}

// advanceHintLocked moves the session into its next hint window, or into the
// no-answer outcome once the hints are exhausted. Arming always invalidates
// any pending timer first; windows are restarted, never stacked.
func (g *GameService) advanceHintLocked(session *Session) {
	session.cancelTimersLocked()
	session.hintIndex++

	if session.hintIndex > MaxHints {
		g.timeoutResolveLocked(session)
		return
	}

	session.firstMessages = make(map[string]string)
	session.wrongGuesses = nil
	session.hintStartedAt = g.now()

	category := ""
	if session.hintIndex == 3 && !session.categoryRevealed {
		session.categoryRevealed = true
		category = session.question.Category
	}

	hintText := ""
	if session.hintIndex <= len(session.question.Hints) {
		hintText = session.question.Hints[session.hintIndex-1]
	}

	g.publish(session.roomID, domain.HintRevealed{
		HintIndex:        session.hintIndex,
		TotalHints:       MaxHints,
		HintText:         hintText,
		Category:         category,
		SecondsRemaining: int(g.cfg.HintWindow.Seconds()),
	})

	g.armHintTimersLocked(session)
}

// armHintTimersLocked schedules the countdown refreshes and the window
// expiry. Every callback re-checks liveness and its generation under the
// session lock, so a fire racing a cancellation is a guaranteed no-op.
func (g *GameService) armHintTimersLocked(session *Session) {
	gen := session.timerGen
	hintIndex := session.hintIndex

	for _, checkpoint := range countdownCheckpoints {
		remaining := time.Duration(checkpoint) * time.Second
		if g.cfg.HintWindow <= remaining {
			continue
		}
		seconds := checkpoint
		timer := time.AfterFunc(g.cfg.HintWindow-remaining, func() {
			session.mu.Lock()
			defer session.mu.Unlock()
			if session.timerGen != gen || session.resolved || session.stopped {
				return
			}
			g.publish(session.roomID, domain.HintCountdownUpdated{
				HintIndex:        hintIndex,
				SecondsRemaining: seconds,
			})
		})
		session.timers = append(session.timers, timer)
	}

	expiry := time.AfterFunc(g.cfg.HintWindow, func() {
		session.mu.Lock()
		defer session.mu.Unlock()
		if session.timerGen != gen || session.resolved || session.stopped {
			return
		}
		g.advanceHintLocked(session)
	})
	session.timers = append(session.timers, expiry)
}

// resolveCorrectLocked settles a winning guess: steal arbitration, streak,
// scoring, ledger mutation, then the notifications. Ledger state is committed
// before anything is published.
func (g *GameService) resolveCorrectLocked(session *Session, ledger *Ledger, userID string) {
	now := g.now()
	elapsed := now.Sub(session.hintStartedAt)

	steal := g.arbitrateStealLocked(session, ledger, userID, now)

	streak := ledger.BumpStreak(userID)
	points := Points(session.hintIndex, elapsed, streak)
	total, crossed := ledger.AddPoints(userID, points)
	ledger.RecordCorrect(userID, elapsed.Seconds())
	session.addPointsLocked(userID, points)

	session.resolved = true
	session.cancelTimersLocked()

	g.publish(session.roomID, domain.GuessResolvedCorrect{
		UserID:         userID,
		WinnerName:     ledger.DisplayName(userID),
		Answer:         session.question.Word,
		PointsEarned:   points,
		ElapsedSeconds: elapsed.Seconds(),
		Streak:         streak,
		Steal:          steal,
		NewDailyTotal:  total,
	})
	for _, threshold := range crossed {
		g.publish(session.roomID, domain.MilestoneReached{
			UserID:      userID,
			DisplayName: ledger.DisplayName(userID),
			Threshold:   threshold,
		})
	}

	g.scheduleNextQuestionLocked(session)
}

// arbitrateStealLocked applies the earliest-wins steal rule: the scorer robs
// the first wrong guesser still inside the steal window, once per scope.
func (g *GameService) arbitrateStealLocked(session *Session, ledger *Ledger, userID string, now time.Time) *domain.StealInfo {
	if len(session.wrongGuesses) == 0 {
		return nil
	}
	switch g.cfg.StealScope {
	case domain.StealScopeDaily:
		if ledger.StealUsed(userID) {
			return nil
		}
	default:
		if session.stealUsed[userID] {
			return nil
		}
	}

	for _, wrong := range session.wrongGuesses {
		if wrong.userID == userID {
			continue
		}
		if now.Sub(wrong.at) > g.cfg.StealWindow {
			continue
		}
		if g.cfg.StealScope == domain.StealScopeDaily {
			ledger.ConsumeSteal(userID)
		} else {
			session.stealUsed[userID] = true
		}
		ledger.Penalize(wrong.userID, 1)
		ledger.ResetStreak(wrong.userID)
		return &domain.StealInfo{
			VictimID:   wrong.userID,
			VictimName: ledger.DisplayName(wrong.userID),
			Penalty:    1,
		}
	}
	return nil
}

// timeoutResolveLocked announces the answer after hint 5 expires unanswered.
// No points move.
func (g *GameService) timeoutResolveLocked(session *Session) {
	session.resolved = true
	session.cancelTimersLocked()
	g.publish(session.roomID, domain.QuestionTimedOut{Answer: session.question.Word})
	g.scheduleNextQuestionLocked(session)
}

// scheduleNextQuestionLocked pauses briefly after a resolution, then advances
// to the next question or completes the session.
func (g *GameService) scheduleNextQuestionLocked(session *Session) {
	gen := session.timerGen
	timer := time.AfterFunc(g.cfg.NextQuestionDelay, func() {
		session.mu.Lock()
		defer session.mu.Unlock()
		if session.timerGen != gen || session.stopped {
			return
		}
		g.nextQuestionLocked(session)
	})
	session.timers = append(session.timers, timer)
}

func (g *GameService) nextQuestionLocked(session *Session) {
	ledger := g.ledgers.GetOrCreate(session.roomID)

	if session.questionIndex >= session.totalQuestions {
		g.completeSessionLocked(session, ledger)
		return
	}

	question, err := g.questions.Draw(context.Background(), ledger.UsedWords())
	if err != nil {
		// Pool exhausted mid-session: wrap up with what was played.
		g.log.Info().Str("room", session.roomID).Str("session", session.id).Msg("question pool exhausted, completing early")
		g.completeSessionLocked(session, ledger)
		return
	}
	ledger.MarkWordUsed(question.Word)

	g.publish(session.roomID, domain.SessionLeaderboard{
		Entries:        session.topEntriesLocked(ledger, 5),
		QuestionIndex:  session.questionIndex,
		TotalQuestions: session.totalQuestions,
	})

	session.beginQuestionLocked(question)
	g.advanceHintLocked(session)
}

func (g *GameService) completeSessionLocked(session *Session, ledger *Ledger) {
	session.cancelTimersLocked()

	top := session.topEntriesLocked(ledger, 5)
	completed := domain.SessionCompleted{TopEntries: top}
	if len(top) > 0 {
		completed.WinnerName = top[0].DisplayName
		completed.WinnerPoints = top[0].Points
	}

	g.sessions.Delete(session.roomID)
	g.publish(session.roomID, completed)
	g.log.Info().Str("room", session.roomID).Str("session", session.id).Msg("session completed")
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
