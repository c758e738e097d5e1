package forecast

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalendar(t *testing.T) {
	cases := []struct {
		name string
		date time.Time
		want CalendarFeatures
	}{
		{
			name: "monday mid-month",
			date: date(2024, time.January, 15),
			want: CalendarFeatures{DayOfWeek: 0, DayOfMonth: 15, Month: 1, Year: 2024, WeekOfYear: 3, Quarter: 1},
		},
		{
			name: "saturday start of month",
			date: date(2024, time.June, 1),
			want: CalendarFeatures{DayOfWeek: 5, DayOfMonth: 1, Month: 6, Year: 2024, WeekOfYear: 22, Quarter: 2, IsWeekend: 1, IsMonthStart: 1},
		},
		{
			name: "sunday end of month",
			date: date(2024, time.December, 29),
			want: CalendarFeatures{DayOfWeek: 6, DayOfMonth: 29, Month: 12, Year: 2024, WeekOfYear: 52, Quarter: 4, IsWeekend: 1, IsMonthEnd: 1},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Calendar(tc.date)
			if got != tc.want {
				t.Errorf("Calendar(%s) = %+v, want %+v", tc.date.Format("2006-01-02"), got, tc.want)
			}
		})
	}
}

func TestCalendarIsPure(t *testing.T) {
	d := date(2023, time.March, 7)
	if Calendar(d) != Calendar(d) {
		t.Fatal("Calendar is not deterministic")
	}
}
