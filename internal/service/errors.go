package service

import "errors"

type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindNotAuthenticated
	KindConflict
	KindInsufficientPlayers
)

// Error is an expected failure the caller can act on. Reason is a stable machine
// readable code, distinct for every sentinel below.
type Error struct {
	Kind   Kind
	Reason string
	msg    string
}

func (e *Error) Error() string { return e.msg }

func newError(kind Kind, reason, msg string) *Error {
	return &Error{Kind: kind, Reason: reason, msg: msg}
}

var (
	ErrMissingFields    = newError(KindValidation, "missing_fields", "name, organizer, game, region and start date are required")
	ErrInvalidStatus    = newError(KindValidation, "invalid_status", "status must be one of upcoming, open, live, finished")
	ErrInvalidCapacity  = newError(KindValidation, "invalid_capacity", "max slots must be an integer of at least 2")
	ErrInvalidStartTime = newError(KindValidation, "invalid_start_time", "start date is not a valid date")

	ErrNotFound         = newError(KindNotFound, "not_found", "tournament not found")
	ErrNotAuthenticated = newError(KindNotAuthenticated, "not_authenticated", "you must be logged in")

	ErrNotOpen          = newError(KindConflict, "not_open", "tournament is not open for registration")
	ErrFull             = newError(KindConflict, "full", "tournament is full")
	ErrAlreadyGenerated = newError(KindConflict, "already_generated", "bracket already generated")
	ErrDuplicateSlug    = newError(KindConflict, "duplicate_slug", "a tournament with this slug already exists")

	ErrInsufficientPlayers = newError(KindInsufficientPlayers, "insufficient_players", "at least 2 participants are needed to generate a bracket")

	ErrMatchNotFound = newError(KindNotFound, "match_not_found", "match not found")
	ErrInvalidWinner = newError(KindValidation, "invalid_winner", "winner is not part of this match")
	ErrMatchNotReady = newError(KindConflict, "match_not_ready", "both players must be known before a result is recorded")
	ErrMatchDecided  = newError(KindConflict, "match_decided", "match already has a result")
)

// AsError returns the *Error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
