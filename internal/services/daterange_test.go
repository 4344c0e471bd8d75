package services

import (
	stderrors "errors"
	"testing"
	"time"

	"pasale-dashboard/internal/errors"
	"pasale-dashboard/internal/models"
)

func TestResolve_Last7Days(t *testing.T) {
	days := []time.Time{
		time.Date(2025, 1, 3, 9, 30, 0, 0, time.UTC),
		time.Date(2025, 3, 1, 23, 59, 59, 0, time.UTC),
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 31, 12, 0, 0, 0, time.Local),
	}
	for _, now := range days {
		f, err := Resolve(PresetLast7Days, now)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if f.EndDate != now.Format(dateLayout) {
			t.Errorf("EndDate = %s, want %s", f.EndDate, now.Format(dateLayout))
		}
		start, _ := time.Parse(dateLayout, f.StartDate)
		end, _ := time.Parse(dateLayout, f.EndDate)
		if got := end.Sub(start); got != 7*24*time.Hour {
			t.Errorf("%s: span = %v, want 168h", now, got)
		}
		if f.Period != models.PeriodDaily {
			t.Errorf("Period = %s, want daily", f.Period)
		}
	}
}

func TestResolve_Presets(t *testing.T) {
	now := time.Date(2025, 3, 31, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		preset Preset
		want   models.DateFilter
	}{
		{PresetToday, models.DateFilter{StartDate: "2025-03-31", EndDate: "2025-03-31", Period: models.PeriodDaily}},
		{PresetYesterday, models.DateFilter{StartDate: "2025-03-30", EndDate: "2025-03-30", Period: models.PeriodDaily}},
		{PresetLast30Days, models.DateFilter{StartDate: "2025-03-03", EndDate: "2025-03-31", Period: models.PeriodWeekly}},
		{PresetLast12Months, models.DateFilter{StartDate: "2024-03-31", EndDate: "2025-03-31", Period: models.PeriodMonthly}},
	}
	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			got, err := Resolve(tt.preset, now)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolve_UnknownPreset(t *testing.T) {
	_, err := Resolve("fortnight", time.Now())
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) || appErr.Code != errors.CodeValidation {
		t.Errorf("Resolve() error = %v, want validation error", err)
	}
}

func TestResolveTimeRange(t *testing.T) {
	now := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)
	tests := []struct {
		code   string
		start  string
		period models.Period
	}{
		{"7d", "2025-06-08", models.PeriodDaily},
		{"30d", "2025-05-15", models.PeriodWeekly},
		{"90d", "2025-03-17", models.PeriodWeekly},
		{"1y", "2024-06-15", models.PeriodMonthly},
		{"bogus", "2025-05-15", models.PeriodWeekly},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got := ResolveTimeRange(tt.code, now)
			if got.StartDate != tt.start || got.EndDate != "2025-06-15" || got.Period != tt.period {
				t.Errorf("ResolveTimeRange(%q) = %+v", tt.code, got)
			}
		})
	}
}

func TestResolveBounds(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		period     models.Period
		wantErr    bool
	}{
		{"valid", "2025-01-01", "2025-01-31", models.PeriodWeekly, false},
		{"default period", "2025-01-01", "2025-01-01", "", false},
		{"bad start", "01/01/2025", "2025-01-31", "", true},
		{"bad end", "2025-01-01", "soon", "", true},
		{"reversed", "2025-02-01", "2025-01-01", "", true},
		{"bad period", "2025-01-01", "2025-01-31", "hourly", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ResolveBounds(tt.start, tt.end, tt.period)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveBounds() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && !f.Period.Valid() {
				t.Errorf("Period = %q, want a valid period", f.Period)
			}
		})
	}
}
