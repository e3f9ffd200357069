package domain

import (
	"fmt"
	"time"
)

type PeriodKind string

const (
	PeriodDay   PeriodKind = "day"
	PeriodWeek  PeriodKind = "week"
	PeriodMonth PeriodKind = "month"
	PeriodYear  PeriodKind = "year"
)

var PeriodKinds = []PeriodKind{PeriodDay, PeriodWeek, PeriodMonth, PeriodYear}

// PeriodKey names the bucket of the given kind that contains t. Weeks are ISO
// weeks, so the year of a week key can differ from the calendar year of t.
func PeriodKey(kind PeriodKind, t time.Time) string {
	switch kind {
	case PeriodDay:
		return t.Format("2006-01-02")
	case PeriodWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case PeriodMonth:
		return t.Format("2006-01")
	case PeriodYear:
		return t.Format("2006")
	}
	return ""
}

type Bucket struct {
	EmployeeID string     `json:"employee_id"`
	Kind       PeriodKind `json:"kind"`
	Key        string     `json:"key"`
	Hours      float64    `json:"hours"`
}
