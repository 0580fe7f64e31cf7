package domain

// Event is one of the closed set of outbound notifications the engine
// produces for the messaging collaborator to render. The engine commits its
// state transition before publishing; delivery is fire-and-forget.
type Event interface {
	EventType() string
}

// HintRevealed announces a new hint window.
type HintRevealed struct {
	HintIndex        int    `json:"hintIndex"`
	TotalHints       int    `json:"totalHints"`
	HintText         string `json:"hintText"`
	Category         string `json:"category,omitempty"` // set once, when the category unlocks
	SecondsRemaining int    `json:"secondsRemaining"`
}

func (HintRevealed) EventType() string { return "hintRevealed" }

// HintCountdownUpdated refreshes the remaining time mid-window.
type HintCountdownUpdated struct {
	HintIndex        int `json:"hintIndex"`
	SecondsRemaining int `json:"secondsRemaining"`
}

func (HintCountdownUpdated) EventType() string { return "hintCountdownUpdated" }

// StealInfo describes a successful steal attached to a correct guess.
type StealInfo struct {
	VictimID   string  `json:"victimId"`
	VictimName string  `json:"victimName"`
	Penalty    float64 `json:"penalty"`
}

// GuessResolvedCorrect reports a winning guess and its scoring breakdown.
type GuessResolvedCorrect struct {
	UserID         string     `json:"userId"`
	WinnerName     string     `json:"winnerName"`
	Answer         string     `json:"answer"`
	PointsEarned   float64    `json:"pointsEarned"`
	ElapsedSeconds float64    `json:"elapsedSeconds"`
	Streak         int        `json:"streak"`
	Steal          *StealInfo `json:"steal,omitempty"`
	NewDailyTotal  float64    `json:"newDailyTotal"`
}

func (GuessResolvedCorrect) EventType() string { return "guessResolvedCorrect" }

// NearMissDetected is the one-time "very close" nudge per user per question.
type NearMissDetected struct {
	UserID string `json:"userId"`
}

func (NearMissDetected) EventType() string { return "nearMissDetected" }

// QuestionTimedOut announces the answer after all hint windows expire unanswered.
type QuestionTimedOut struct {
	Answer string `json:"answer"`
}

func (QuestionTimedOut) EventType() string { return "questionTimedOut" }

// SessionLeaderboard is the in-session standings published between questions.
type SessionLeaderboard struct {
	Entries        []LeaderboardEntry `json:"entries"`
	QuestionIndex  int                `json:"questionIndex"`
	TotalQuestions int                `json:"totalQuestions"`
}

func (SessionLeaderboard) EventType() string { return "sessionLeaderboard" }

// SessionCompleted closes a session with its winner and final standings.
type SessionCompleted struct {
	WinnerName   string             `json:"winnerName,omitempty"`
	WinnerPoints float64            `json:"winnerPoints"`
	TopEntries   []LeaderboardEntry `json:"topEntries"`
}

func (SessionCompleted) EventType() string { return "sessionCompleted" }

// MilestoneReached fires once per user per day per threshold crossed.
type MilestoneReached struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Threshold   int    `json:"threshold"`
}

func (MilestoneReached) EventType() string { return "milestoneReached" }

// DailyResultsPosted is the end-of-day report for a room with activity.
type DailyResultsPosted struct {
	TopEntries    []LeaderboardEntry `json:"topEntries"`
	LongestStreak int                `json:"longestStreak"`
	FastestTime   float64            `json:"fastestTime"` // seconds; 0 when nobody guessed correctly
}

func (DailyResultsPosted) EventType() string { return "dailyResultsPosted" }
