package dashboard

import (
	"testing"
	"time"
)

func TestResolveRange(t *testing.T) {
	now := time.Date(2026, time.March, 11, 15, 30, 0, 0, time.UTC) // a Wednesday

	t.Run("explicit bounds win", func(t *testing.T) {
		from := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)
		gotFrom, gotTo := resolveRange(PeriodMonth, DateRange{From: &from, To: &to}, now)
		if !gotFrom.Equal(from) || !gotTo.Equal(to) {
			t.Errorf("expected explicit bounds to be kept, got %v..%v", gotFrom, gotTo)
		}
	})

	t.Run("day starts at midnight", func(t *testing.T) {
		from, to := resolveRange(PeriodDay, DateRange{}, now)
		if from.Hour() != 0 || from.Day() != 11 {
			t.Errorf("expected start of day, got %v", from)
		}
		if !to.Equal(now) {
			t.Errorf("expected window to end at now, got %v", to)
		}
	})

	t.Run("week starts on Monday", func(t *testing.T) {
		from, _ := resolveRange(PeriodWeek, DateRange{}, now)
		if from.Weekday() != time.Monday {
			t.Errorf("expected Monday, got %v", from.Weekday())
		}
		if from.Day() != 9 {
			t.Errorf("expected March 9, got %v", from)
		}
	})

	t.Run("week starting from a Sunday", func(t *testing.T) {
		sunday := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
		from, _ := resolveRange(PeriodWeek, DateRange{}, sunday)
		if from.Weekday() != time.Monday || from.Day() != 9 {
			t.Errorf("expected Monday March 9, got %v", from)
		}
	})

	t.Run("month starts on the first", func(t *testing.T) {
		from, _ := resolveRange(PeriodMonth, DateRange{}, now)
		if from.Day() != 1 || from.Month() != time.March {
			t.Errorf("expected March 1, got %v", from)
		}
	})
}

func TestPreviousRange(t *testing.T) {
	from := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.March, 11, 15, 0, 0, 0, time.UTC)

	t.Run("day shifts back one day", func(t *testing.T) {
		prevFrom, prevTo := previousRange(PeriodDay, from, to)
		if prevFrom.Day() != 8 || prevTo.Day() != 10 {
			t.Errorf("expected one-day shift, got %v..%v", prevFrom, prevTo)
		}
	})

	t.Run("week shifts back seven days", func(t *testing.T) {
		prevFrom, _ := previousRange(PeriodWeek, from, to)
		if prevFrom.Day() != 2 {
			t.Errorf("expected March 2, got %v", prevFrom)
		}
	})

	t.Run("month shifts by calendar month", func(t *testing.T) {
		prevFrom, _ := previousRange(PeriodMonth, from, to)
		if prevFrom.Month() != time.February || prevFrom.Day() != 9 {
			t.Errorf("expected February 9, got %v", prevFrom)
		}
	})
}

func TestBucketKey(t *testing.T) {
	ts := time.Date(2026, time.January, 2, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		groupBy GroupBy
		want    string
	}{
		{GroupByDay, "2026-01-02"},
		{GroupByWeek, "2026-W01"},
		{GroupByMonth, "2026-01"},
	}
	for _, tt := range tests {
		if got := bucketKey(ts, tt.groupBy); got != tt.want {
			t.Errorf("bucketKey(%s) = %q, want %q", tt.groupBy, got, tt.want)
		}
	}

	// Dec 29 2025 belongs to ISO week 1 of 2026.
	isoEdge := time.Date(2025, time.December, 29, 0, 0, 0, 0, time.UTC)
	if got := bucketKey(isoEdge, GroupByWeek); got != "2026-W01" {
		t.Errorf("expected ISO-week year rollover, got %q", got)
	}
}

func TestPctChange(t *testing.T) {
	tests := []struct {
		current, previous int
		want              float64
	}{
		{0, 0, 0},
		{5, 0, 100},
		{150, 100, 50},
		{50, 100, -50},
	}
	for _, tt := range tests {
		if got := pctChange(tt.current, tt.previous); got != tt.want {
			t.Errorf("pctChange(%d, %d) = %v, want %v", tt.current, tt.previous, got, tt.want)
		}
	}
}
