package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/pkg/dateutil"
	"github.com/shopspring/decimal"
)

type Employee struct {
	ID            string
	Number        int64
	PhotoURL      *string
	LastName      string
	FirstName     string
	Post          string
	MonthlySalary decimal.Decimal
	Email         string
	ShiftStart    dateutil.Clock
	ShiftEnd      dateutil.Clock
	WorkDays      WorkDays
	HireDate      time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}

func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// HiredBefore reports whether the employee was hired strictly before the civil date d.
func (e Employee) HiredBefore(d time.Time) bool {
	return dateutil.Day(e.HireDate).Before(dateutil.Day(d))
}

// WorkDays holds the default weekly pattern, indexed by time.Weekday.
type WorkDays [7]bool

func (w WorkDays) Works(day time.Weekday) bool {
	return w[day]
}

func (w WorkDays) Any() bool {
	for _, works := range w {
		if works {
			return true
		}
	}
	return false
}

// Weekdays is Monday to Friday.
func Weekdays() WorkDays {
	var w WorkDays
	for d := time.Monday; d <= time.Friday; d++ {
		w[d] = true
	}
	return w
}
