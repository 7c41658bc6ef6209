package ledger

import "errors"

var (
	// ErrInvalidInput covers malformed expense or participant data.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownParticipant is returned when an expense names a participant missing from the roster.
	ErrUnknownParticipant = errors.New("unknown participant")
	// ErrParticipantNotFound is returned when removing a participant that is not on the roster.
	ErrParticipantNotFound = errors.New("participant not found")
	// ErrSelfParticipant is returned when removing the self participant.
	ErrSelfParticipant = errors.New("the self participant cannot be removed")
	// ErrOutstandingShares is returned when removing a participant still referenced by live expenses.
	ErrOutstandingShares = errors.New("participant has outstanding shares")
	// ErrPersistence wraps store failures; in-memory state still matches the store when it is returned.
	ErrPersistence = errors.New("persistence failure")
)

// isRejection reports whether err is a caller mistake rather than a store failure.
func isRejection(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrUnknownParticipant) ||
		errors.Is(err, ErrParticipantNotFound) ||
		errors.Is(err, ErrSelfParticipant) ||
		errors.Is(err, ErrOutstandingShares)
}
