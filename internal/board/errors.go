package board

import "errors"

// Sentinel errors for the few inputs the board package rejects outright.
// Rules queries never fail; they return empty results instead.
var (
	// ErrEmptyFEN indicates a FEN string with no placement field.
	ErrEmptyFEN = errors.New("empty FEN string")

	// ErrInvalidSquare indicates a malformed algebraic square.
	ErrInvalidSquare = errors.New("invalid square")

	// ErrInvalidColor indicates a color that is neither white nor black.
	ErrInvalidColor = errors.New("invalid color")

	// ErrInvalidMove indicates a malformed coordinate move string.
	ErrInvalidMove = errors.New("invalid move notation")
)
