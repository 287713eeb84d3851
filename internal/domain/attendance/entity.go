package attendance

import (
	"time"
)

type PunchKind string

const (
	KindClockIn         PunchKind = "clock_in"
	KindClockOut        PunchKind = "clock_out"
	KindReturnFromBreak PunchKind = "return_from_break"
	KindEndOfDay        PunchKind = "end_of_day"
)

// kindNone stands for a day without any punch yet.
const kindNone PunchKind = ""

func (k PunchKind) IsValid() bool {
	switch k {
	case KindClockIn, KindClockOut, KindReturnFromBreak, KindEndOfDay:
		return true
	}
	return false
}

// transitions maps the day's last punch kind to the kinds allowed next.
var transitions = map[PunchKind][]PunchKind{
	kindNone:            {KindClockIn},
	KindClockIn:         {KindClockOut, KindEndOfDay},
	KindReturnFromBreak: {KindClockOut, KindEndOfDay},
	KindClockOut:        {KindReturnFromBreak},
	KindEndOfDay:        {},
}

// AllowedAfter lists the kinds that may follow last. A nil last means no punch today.
func AllowedAfter(last *PunchKind) []PunchKind {
	key := kindNone
	if last != nil {
		key = *last
	}
	return transitions[key]
}

// CheckTransition validates next against the day's last punch kind.
func CheckTransition(last *PunchKind, next PunchKind) error {
	for _, allowed := range AllowedAfter(last) {
		if allowed == next {
			return nil
		}
	}
	switch {
	case last == nil:
		return ErrClockInFirst
	case *last == KindEndOfDay:
		return ErrDayAlreadyEnded
	}
	return &TransitionError{Last: *last, Next: next}
}

type Punch struct {
	ID         string
	EmployeeID string
	PunchedAt  time.Time
	Kind       PunchKind
	// Lateness is only set on a late clock_in.
	Lateness  *time.Duration
	CreatedAt time.Time

	// Joined from employees
	EmployeeLastName  string
	EmployeeFirstName string
}

// LatenessMinutes returns the whole minutes of lateness, zero when on time.
func (p Punch) LatenessMinutes() int {
	if p.Lateness == nil {
		return 0
	}
	return int(p.Lateness.Minutes())
}

// LateBeyond reports whether the clock-in was later than threshold, judged in
// whole minutes so seconds past the threshold do not count.
func (p Punch) LateBeyond(threshold time.Duration) bool {
	if p.Kind != KindClockIn || p.Lateness == nil {
		return false
	}
	return p.Lateness.Truncate(time.Minute) > threshold
}
