package attendance

import (
	"errors"
	"fmt"
)

var (
	ErrPunchNotFound     = errors.New("punch not found")
	ErrInvalidTransition = errors.New("invalid punch for the current state of the day")
	ErrClockInFirst      = errors.New("clock in first")
	ErrDayAlreadyEnded   = errors.New("end of day was the last punch, no more punches are accepted today")
	ErrSelfServiceOnly   = errors.New("you can only punch for yourself")
	ErrNoPunchExpected   = errors.New("no punch is expected today")
	ErrOnLeave           = errors.New("the employee is on leave today and does not need to punch")
	ErrRangeNotInThePast = errors.New("the range must end before today")
)

// TransitionError names the last punch of the day when the requested kind cannot follow it.
type TransitionError struct {
	Last PunchKind
	Next PunchKind
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot record %s, the last punch today is %s", e.Next, e.Last)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
