package leave

import (
	"errors"
	"fmt"
)

var (
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrInvalidPeriod        = errors.New("the leave must start strictly before the return date")
	ErrStartNotInFuture     = errors.New("the leave must start after today")
	ErrNoWorkingDays        = errors.New("the leave period contains no working day")
	ErrQuotaExceeded        = errors.New("annual leave quota exceeded")
	ErrOverlap              = errors.New("the employee already has approved leave overlapping this period")
	ErrNotPending           = errors.New("only a pending leave request can be changed")
	ErrSelfServiceOnly      = errors.New("you can only request leave for yourself")
	ErrHROnly               = errors.New("only HR staff can edit or decide on a leave request")
)

// QuotaExceededError carries the figures behind ErrQuotaExceeded.
type QuotaExceededError struct {
	Quota     int
	Taken     int
	Requested int
}

func (e *QuotaExceededError) Remaining() int {
	return e.Quota - e.Taken
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("the annual limit of %d leave day(s) does not cover this request of %d day(s), %d remaining",
		e.Quota, e.Requested, e.Remaining())
}

func (e *QuotaExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}
