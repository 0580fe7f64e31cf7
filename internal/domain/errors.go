package domain

import "errors"

var (
	// ErrGameAlreadyActive is returned when a start is requested while a
	// session is live in the room. Non-fatal, surfaced to the requester.
	ErrGameAlreadyActive = errors.New("a game is already in progress")
	// ErrNoQuestionsLeft indicates the question pool is exhausted for the
	// room today.
	ErrNoQuestionsLeft = errors.New("no unused questions available")
	// ErrNoActiveGame is returned for guesses or stops with no live session.
	// Callers treat it as expected traffic, not a failure.
	ErrNoActiveGame = errors.New("no game is currently active")
	// ErrForbidden rejects a stop from a non-admin in a group room.
	ErrForbidden = errors.New("only admins can stop the game")
	// ErrNoQuestionsLoaded indicates the question bank came up empty at load time.
	ErrNoQuestionsLoaded = errors.New("no questions loaded")
)
