package forecast

import "time"

// CalendarFeatures are the seasonality fields derived from a calendar
// date. They are pure functions of the date and feed the model as
// predictors alongside lag and rolling statistics.
type CalendarFeatures struct {
	DayOfWeek    int // Monday=0 .. Sunday=6
	DayOfMonth   int
	Month        int
	Year         int
	WeekOfYear   int // ISO week number
	Quarter      int
	IsWeekend    int // Saturday or Sunday
	IsMonthStart int // day <= 5
	IsMonthEnd   int // day >= 25
}

// Calendar computes the seasonality features for a date.
func Calendar(t time.Time) CalendarFeatures {
	dow := (int(t.Weekday()) + 6) % 7
	_, week := t.ISOWeek()
	day := t.Day()

	f := CalendarFeatures{
		DayOfWeek:  dow,
		DayOfMonth: day,
		Month:      int(t.Month()),
		Year:       t.Year(),
		WeekOfYear: week,
		Quarter:    (int(t.Month())-1)/3 + 1,
	}
	if dow == 5 || dow == 6 {
		f.IsWeekend = 1
	}
	if day <= 5 {
		f.IsMonthStart = 1
	}
	if day >= 25 {
		f.IsMonthEnd = 1
	}
	return f
}

// dateOnly normalizes a timestamp to UTC midnight so per-transaction
// rows within a day collapse onto the same key.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
