package game

import (
	"errors"
	"fmt"
)

// Reasons a command can be rejected. Match with errors.Is.
var (
	ErrWrongPhase          = errors.New("not allowed in this phase")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNoMainBet           = errors.New("main bet required")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrBetLimit            = errors.New("bet outside table limits")
	ErrIllegalAction       = errors.New("illegal action")
	ErrNothingToUndo       = errors.New("no bets placed")
	ErrNoPreviousBets      = errors.New("no previous bets")
	ErrAuthorization       = errors.New("fair-play session unavailable")
)

// RejectedError is returned when a command is refused. The session state is
// unchanged.
type RejectedError struct {
	Op      string
	Reason  error
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *RejectedError) Unwrap() error {
	return e.Reason
}

// reject records msg as the session message and builds the error
func (s *Session) reject(op string, reason error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	s.message = msg
	s.logger.Debug("Rejected", "op", op, "phase", s.phase, "reason", msg)
	return &RejectedError{Op: op, Reason: reason, Message: msg}
}
