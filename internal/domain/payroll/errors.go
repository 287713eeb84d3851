package payroll

import "errors"

var (
	ErrInvalidPeriod = errors.New("invalid payroll period")
	ErrNotYetHired   = errors.New("the employee was not yet hired during this period")
)
