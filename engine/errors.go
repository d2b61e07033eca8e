package engine

import (
	"errors"

	"KarmaTally/db"
)

var (
	// ErrInvalidEvent marks an event with no actor. The caller logs
	// and drops it; no state changes.
	ErrInvalidEvent = errors.New("invalid event: missing actor")

	// ErrSelfKarma rejects a giver targeting themselves.
	ErrSelfKarma = errors.New("karma self-grant rejected")

	// ErrKarmaCooldown rejects a grant inside the giver's cooldown
	// window, whoever the recipient is.
	ErrKarmaCooldown = db.ErrKarmaCooldown
)
