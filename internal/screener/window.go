package screener

import (
	"errors"
	"time"
)

// ErrNoExpirations reports an empty expiration list for a symbol.
var ErrNoExpirations = errors.New("no expirations available")

// PickSource tells whether the chosen expiration fell inside the mode's
// window or came from the nearest-available fallback.
type PickSource int

const (
	PickInWindow PickSource = iota
	PickFallback
)

const expirationLayout = "2006-01-02"

// ExpirationPick is the expiration chosen for screening, tagged with how it
// was chosen.
type ExpirationPick struct {
	Date   string
	Source PickSource
}

// SelectExpiration picks the first expiration inside the mode's window,
// comparing calendar dates with both ends inclusive. When nothing falls in
// the window it degrades to the first date of the unfiltered list, which the
// provider orders ascending. Dates that do not parse are invisible to the
// window filter but keep their place in the fallback order.
func SelectExpiration(dates []string, mode Mode, now time.Time) (ExpirationPick, error) {
	if len(dates) == 0 {
		return ExpirationPick{}, ErrNoExpirations
	}

	startDays, endDays := mode.window()
	start := calendarDate(now.AddDate(0, 0, startDays))
	end := calendarDate(now.AddDate(0, 0, endDays))

	for _, date := range dates {
		parsed, err := time.Parse(expirationLayout, date)
		if err != nil {
			continue
		}
		if !parsed.Before(start) && !parsed.After(end) {
			return ExpirationPick{Date: date, Source: PickInWindow}, nil
		}
	}
	return ExpirationPick{Date: dates[0], Source: PickFallback}, nil
}

// calendarDate drops the time-of-day so window comparisons work on whole
// days, matching the date-only strings the provider sends.
func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
