package session

import "errors"

// Sentinel errors returned by session operations. Use errors.Is to test them.
var (
	// ErrIllegalMove indicates a move not among the legal moves of the piece.
	ErrIllegalMove = errors.New("illegal move")

	// ErrEmptySquare indicates an attempt to move from an empty square.
	ErrEmptySquare = errors.New("no piece on square")

	// ErrNotYourPiece indicates an attempt to move the opponent's piece.
	ErrNotYourPiece = errors.New("piece does not belong to the side to move")

	// ErrNothingToUndo indicates an empty undo stack.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNoAutoMove indicates the side to move has no reply to offer.
	ErrNoAutoMove = errors.New("no automatic move available")

	// ErrUnknownScenario indicates a scenario id missing from the catalog.
	ErrUnknownScenario = errors.New("unknown scenario")

	// ErrSessionNotFound indicates an unknown session id.
	ErrSessionNotFound = errors.New("session not found")
)
