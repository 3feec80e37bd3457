package analytics

import "time"

// Window is the [Start, End) range a period token resolves to.
type Window struct {
	Period string
	Start  time.Time
	End    time.Time
}

// Days returns the window length in whole days.
func (w Window) Days() int {
	return int(w.End.Sub(w.Start).Hours() / 24)
}

var periodDays = map[string]int{
	"7d":  7,
	"30d": 30,
	"90d": 90,
	"1y":  365,
}

// ResolveWindow maps a period token to a concrete time range ending now.
// Unknown or empty tokens fall back to 30 days rather than erroring.
func ResolveWindow(period string, now time.Time) Window {
	days, ok := periodDays[period]
	if !ok {
		days = 30
		period = "30d"
	}
	return Window{
		Period: period,
		Start:  now.AddDate(0, 0, -days),
		End:    now,
	}
}
