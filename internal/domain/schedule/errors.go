package schedule

import "errors"

var (
	ErrOverrideNotFound = errors.New("schedule override not found")
	// ErrNoExpectationBeforeHire is returned for dates on or before the hire date,
	// where no working-day expectation exists.
	ErrNoExpectationBeforeHire = errors.New("no attendance is expected on or before the hire date")
	ErrPostHasNoEmployees      = errors.New("no employee holds the selected post")
	ErrOnlyPostEmployeeOnLeave = errors.New("the only employee holding this post has leave planned during this period")
	ErrEmployeeOnLeave         = errors.New("the selected employee has leave during this period and cannot be scheduled")
)
