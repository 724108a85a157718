package screener

import (
	"fmt"
	"strings"
)

// Mode selects which expiration window the screener targets.
type Mode string

const (
	// ModeWeekly screens expirations 7 to 14 days out.
	ModeWeekly Mode = "weekly"
	// ModeMonthly screens expirations 30 to 45 days out.
	ModeMonthly Mode = "monthly"
)

// ParseMode validates a user-supplied mode string, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case ModeWeekly:
		return ModeWeekly, nil
	case ModeMonthly:
		return ModeMonthly, nil
	default:
		return "", fmt.Errorf("invalid mode %q", s)
	}
}

// window returns the inclusive day-offset bounds for the mode.
func (m Mode) window() (startDays, endDays int) {
	if m == ModeWeekly {
		return 7, 14
	}
	return 30, 45
}
