package game

import "errors"

var (
	// ErrNotFound: the referenced event, team, or tile does not exist.
	ErrNotFound = errors.New("not found")
	// ErrStateConflict: the operation is not legal in the current game
	// state (rolling twice, resolving an action that is not pending).
	ErrStateConflict = errors.New("state conflict")
	// ErrValidation: the request itself is bad (unknown option, not
	// enough coins, full inventory).
	ErrValidation = errors.New("invalid request")
	// ErrConfiguration: the board content is broken (a tile pointing at
	// a missing successor). These are operator mistakes, not player ones.
	ErrConfiguration = errors.New("board configuration error")
)
