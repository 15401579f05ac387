package mix

import "errors"

// Sentinel errors for every way a mix operation can be refused. Handlers map
// these onto HTTP statuses via the Is* predicates below; none of them is fatal.
var (
	ErrInsufficientPlayers = errors.New("balancing requires exactly 10 players")
	ErrUnknownMap          = errors.New("map is not in the pool")
	ErrInvalidWinner       = errors.New("winner must be team A or B")

	ErrNotCreator     = errors.New("only the mix creator may perform this action")
	ErrWrongTurn      = errors.New("not this team's turn to ban")
	ErrNotParticipant = errors.New("player is not on either team")

	ErrConflict   = errors.New("operation not valid for the current mix state")
	ErrRosterFull = errors.New("mix roster already holds 10 players")
	ErrNotFound   = errors.New("mix not found")
)

// IsValidation reports whether err was rejected before any state was touched
// because the request itself is malformed.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInsufficientPlayers) ||
		errors.Is(err, ErrUnknownMap) ||
		errors.Is(err, ErrInvalidWinner)
}

// IsAuthorization reports whether err means the caller is not allowed to
// perform the operation. State is never changed on these.
func IsAuthorization(err error) bool {
	return errors.Is(err, ErrNotCreator) ||
		errors.Is(err, ErrWrongTurn) ||
		errors.Is(err, ErrNotParticipant)
}

// IsConflict reports whether err means the operation is no longer valid given
// the current record, or the caller lost a concurrency race. The caller should
// re-read and retry or stop.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrRosterFull)
}
