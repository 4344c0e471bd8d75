package services

import (
	"fmt"
	"time"

	"pasale-dashboard/internal/errors"
	"pasale-dashboard/internal/models"
)

const dateLayout = "2006-01-02"

type Preset string

const (
	PresetToday        Preset = "today"
	PresetYesterday    Preset = "yesterday"
	PresetLast7Days    Preset = "last7days"
	PresetLast30Days   Preset = "last30days"
	PresetLast12Months Preset = "last12months"
)

// Resolve maps a named preset onto a concrete range ending relative to now.
// The period granularity is fixed per preset.
func Resolve(preset Preset, now time.Time) (models.DateFilter, error) {
	f, ok := presetFilter(preset, truncateDay(now))
	if !ok {
		return models.DateFilter{}, errors.Validation(fmt.Sprintf("unknown date preset %q", preset))
	}
	return f, nil
}

func presetFilter(preset Preset, today time.Time) (models.DateFilter, bool) {
	switch preset {
	case PresetToday:
		return newFilter(today, today, models.PeriodDaily), true
	case PresetYesterday:
		y := today.AddDate(0, 0, -1)
		return newFilter(y, y, models.PeriodDaily), true
	case PresetLast7Days:
		return newFilter(today.AddDate(0, 0, -7), today, models.PeriodDaily), true
	case PresetLast30Days:
		return newFilter(today.AddDate(0, -1, 0), today, models.PeriodWeekly), true
	case PresetLast12Months:
		return newFilter(today.AddDate(-1, 0, 0), today, models.PeriodMonthly), true
	}
	return models.DateFilter{}, false
}

// ResolveTimeRange maps the revenue page's range selector. Unknown codes
// fall back to the last 30 days.
func ResolveTimeRange(code string, now time.Time) models.DateFilter {
	today := truncateDay(now)

	var preset Preset
	switch code {
	case "7d":
		preset = PresetLast7Days
	case "90d":
		return newFilter(today.AddDate(0, 0, -90), today, models.PeriodWeekly)
	case "1y":
		preset = PresetLast12Months
	default:
		preset = PresetLast30Days
	}
	f, _ := presetFilter(preset, today)
	return f
}

// ResolveBounds validates explicit bounds supplied by a caller.
func ResolveBounds(start, end string, period models.Period) (models.DateFilter, error) {
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return models.DateFilter{}, errors.ValidationWrap(err, "start_date must be YYYY-MM-DD")
	}
	e, err := time.Parse(dateLayout, end)
	if err != nil {
		return models.DateFilter{}, errors.ValidationWrap(err, "end_date must be YYYY-MM-DD")
	}
	if e.Before(s) {
		return models.DateFilter{}, errors.Validation("end_date must not be before start_date")
	}
	if period == "" {
		period = models.PeriodDaily
	}
	if !period.Valid() {
		return models.DateFilter{}, errors.Validation(fmt.Sprintf("invalid period %q", period))
	}
	return newFilter(s, e, period), nil
}

func newFilter(start, end time.Time, period models.Period) models.DateFilter {
	return models.DateFilter{
		StartDate: start.Format(dateLayout),
		EndDate:   end.Format(dateLayout),
		Period:    period,
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
