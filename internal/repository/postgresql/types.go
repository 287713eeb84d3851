package postgresql

import (
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/employee"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/dateutil"
	"github.com/jackc/pgx/v5/pgtype"
)

func toPgTime(c dateutil.Clock) pgtype.Time {
	return pgtype.Time{Microseconds: c.SinceMidnight().Microseconds(), Valid: true}
}

func fromPgTime(t pgtype.Time) dateutil.Clock {
	return dateutil.ClockFromDuration(time.Duration(t.Microseconds) * time.Microsecond)
}

// toPgDate keeps only the civil date so the DATE column never shifts by a zone offset.
func toPgDate(d time.Time) pgtype.Date {
	return pgtype.Date{Time: dateutil.Day(d), Valid: true}
}

func workDaysToArray(w employee.WorkDays) []bool {
	return w[:]
}

func workDaysFromArray(days []bool) employee.WorkDays {
	var w employee.WorkDays
	copy(w[:], days)
	return w
}

func durationToSeconds(d *time.Duration) *int32 {
	if d == nil {
		return nil
	}
	secs := int32(*d / time.Second)
	return &secs
}

func secondsToDuration(secs *int32) *time.Duration {
	if secs == nil {
		return nil
	}
	d := time.Duration(*secs) * time.Second
	return &d
}
