package transport

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

// DepartureTime selects the reference departure used for reachability queries.
type DepartureTime string

const (
	NextWorkdayNoon        DepartureTime = "next_workday_noon"
	NextSundayEarlyMorning DepartureTime = "next_sunday_early_morning"
)

const berlinTZ = "Europe/Berlin"

// When returns the reference departure strictly after the current day in Berlin local time.
func (t DepartureTime) When(now time.Time) (time.Time, error) {
	loc, err := time.LoadLocation(berlinTZ)
	if err != nil {
		return time.Time{}, fmt.Errorf("departure time: load location: %w", err)
	}
	today := now.In(loc)

	switch t {
	case NextWorkdayNoon:
		d := nextWeekday(today, time.Monday)
		return time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, loc), nil
	case NextSundayEarlyMorning:
		d := nextWeekday(today, time.Sunday)
		return time.Date(d.Year(), d.Month(), d.Day(), 4, 0, 0, 0, loc), nil
	default:
		return time.Time{}, fmt.Errorf("departure time: invalid value %q", string(t))
	}
}

// nextWeekday returns the next date falling on weekday; today never counts.
func nextWeekday(today time.Time, weekday time.Weekday) time.Time {
	days := (int(weekday) - int(today.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return today.AddDate(0, 0, days)
}
