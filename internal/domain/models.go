package domain

// Question is an immutable prompt: a secret word revealed through five
// progressively more specific hints. Loaded once at startup and shared
// read-only across rooms.
type Question struct {
	Word     string   `json:"word"`
	Category string   `json:"category"`
	Hints    []string `json:"hints"`
}

// LeaderboardEntry is a snapshot-friendly view of one player's standing.
type LeaderboardEntry struct {
	UserID      string  `json:"userId"`
	DisplayName string  `json:"displayName"`
	Points      float64 `json:"points"`
	Streak      int     `json:"streak"`
}

// PlayerStats summarizes one player's day in a room.
type PlayerStats struct {
	UserID       string  `json:"userId"`
	DisplayName  string  `json:"displayName"`
	Points       float64 `json:"points"`
	Streak       int     `json:"streak"`
	CorrectCount int     `json:"correctCount"`
	FastestGuess float64 `json:"fastestGuess"` // seconds; 0 until the first correct guess
	StealUsed    bool    `json:"stealUsed"`
}

// StealScope controls how long a player's single steal chance lasts.
type StealScope string

const (
	// StealScopeSession grants one steal per game session.
	StealScopeSession StealScope = "session"
	// StealScopeDaily grants one steal per day, cleared at the daily reset.
	StealScopeDaily StealScope = "daily"
)
