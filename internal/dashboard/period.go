package dashboard

import (
	"fmt"
	"time"
)

// resolveRange pins a comparison window down to concrete bounds. When the
// caller supplied both bounds those win; otherwise the canonical window for
// the period kind, ending at now, is used (today / this ISO week / this
// calendar month).
func resolveRange(period PeriodKind, r DateRange, now time.Time) (time.Time, time.Time) {
	if r.From != nil && r.To != nil {
		return *r.From, *r.To
	}

	switch period {
	case PeriodDay:
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return start, now
	case PeriodWeek:
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		// Walk back to Monday.
		weekday := int(start.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		start = start.AddDate(0, 0, -(weekday - 1))
		return start, now
	case PeriodMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, now
	}
	return now, now
}

// previousRange shifts a resolved window one period back. Months shift by
// calendar month so Jan 31 compares against December, not Jan 1.
func previousRange(period PeriodKind, from, to time.Time) (time.Time, time.Time) {
	switch period {
	case PeriodDay:
		return from.AddDate(0, 0, -1), to.AddDate(0, 0, -1)
	case PeriodWeek:
		return from.AddDate(0, 0, -7), to.AddDate(0, 0, -7)
	case PeriodMonth:
		return from.AddDate(0, -1, 0), to.AddDate(0, -1, 0)
	}
	return from, to
}

// bucketKey formats an order's creation time into the trend bucket
// identifier: YYYY-MM-DD, ISO week (YYYY-Wnn) or YYYY-MM.
func bucketKey(t time.Time, groupBy GroupBy) string {
	switch groupBy {
	case GroupByWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case GroupByMonth:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

// trendExpr is the Postgres equivalent of bucketKey.
func trendExpr(groupBy GroupBy) string {
	switch groupBy {
	case GroupByWeek:
		return `to_char(o.created_at, 'IYYY-"W"IW')`
	case GroupByMonth:
		return `to_char(o.created_at, 'YYYY-MM')`
	default:
		return `to_char(o.created_at, 'YYYY-MM-DD')`
	}
}

func pctChange(current, previous int) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return (float64(current-previous) / float64(previous)) * 100
}
