package market

import "time"

// chartRange returns the from/to dates (YYYY-MM-DD) for an intraday
// chart window. The window ends on the requested date and opens one
// calendar day earlier, except when the requested date is a Monday:
// markets are closed over the weekend, so the window opens three days
// earlier to reach back to the prior Friday's session.
func chartRange(requested time.Time) (from, to string) {
	day := requested.UTC()

	back := 1
	if day.Weekday() == time.Monday {
		back = 3
	}

	return day.AddDate(0, 0, -back).Format("2006-01-02"), day.Format("2006-01-02")
}
