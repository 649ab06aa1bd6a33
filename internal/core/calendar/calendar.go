// Package calendar implements the civil-time arithmetic used by the statistics
// endpoints. Civil time is Vietnam local time, modelled as a fixed UTC+7 shift of
// the instant (no timezone database, no DST). Shifted values keep time.UTC as
// their location; only the wall-clock fields are meaningful.
package calendar

import (
	"fmt"
	"time"

	"github.com/vanchuyen/logistics-api/internal/core/domain"
)

// Offset is the fixed distance between UTC and civil time.
const Offset = 7 * time.Hour

const isoDateLayout = "2006-01-02"

// DayLength is the span of a civil day range: 24h minus one millisecond.
const DayLength = 24*time.Hour - time.Millisecond

// DateRange is a closed interval of UTC instants.
type DateRange struct {
	StartUTC time.Time
	EndUTC   time.Time
}

// Contains reports whether t lies in [StartUTC, EndUTC].
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.StartUTC) && !t.After(r.EndUTC)
}

// ToCivil shifts an instant forward by Offset.
func ToCivil(t time.Time) time.Time {
	return t.UTC().Add(Offset)
}

// FromCivil undoes ToCivil.
func FromCivil(civil time.Time) time.Time {
	return civil.Add(-Offset)
}

// ParseISODate parses YYYY-MM-DD, rejecting out-of-range months and days.
func ParseISODate(isoDate string) (time.Time, error) {
	d, err := time.Parse(isoDateLayout, isoDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidDateFormat, isoDate)
	}
	return d, nil
}

// CivilDayRangeUTC returns the UTC instants bounding the civil day isoDate.
func CivilDayRangeUTC(isoDate string) (DateRange, error) {
	d, err := ParseISODate(isoDate)
	if err != nil {
		return DateRange{}, err
	}
	return dayRange(d), nil
}

// dayRange treats midnight as naive UTC and shifts both ends back by Offset.
func dayRange(civilMidnight time.Time) DateRange {
	start := time.Date(civilMidnight.Year(), civilMidnight.Month(), civilMidnight.Day(), 0, 0, 0, 0, time.UTC)
	return DateRange{
		StartUTC: FromCivil(start),
		EndUTC:   FromCivil(start.Add(DayLength)),
	}
}

// Period names a statistics window anchored at the current civil time.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// PeriodStartUTC returns the instant at which the civil day, week (Monday) or
// month containing now began. Unknown periods behave like PeriodDay.
func PeriodStartUTC(p Period, now time.Time) time.Time {
	civil := ToCivil(now)
	year, month, day := civil.Date()

	switch p {
	case PeriodWeek:
		weekday := int(civil.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		// time.Date normalises day <= 0 into the previous month.
		monday := time.Date(year, month, day-weekday+1, 0, 0, 0, 0, time.UTC)
		return FromCivil(monday)
	case PeriodMonth:
		return FromCivil(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
	default:
		return dayRange(civil).StartUTC
	}
}
