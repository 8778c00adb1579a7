package door

import (
	"errors"
	"fmt"
	"time"
)

// Calendar validation errors
var (
	ErrInvalidMonth  = errors.New("month must be between 1 and 12")
	ErrInvalidMaxDay = errors.New("max day must fit within the configured month")
	ErrEmptyBaseURL  = errors.New("base URL cannot be empty")
)

// Calendar holds the immutable parameters of one advent calendar: the
// month being counted down, the door count, the recipient display names
// and the base address QR references point at. Built once at startup and
// only ever read after that.
type Calendar struct {
	Year     int
	Month    time.Month
	MaxDay   int
	BaseURL  string
	Kid1Name string
	Kid2Name string

	// DebugMode disables the date gate so doors can be checked before the
	// calendar starts. Disabled doors stay disabled.
	DebugMode bool
}

// Validate checks the calendar parameters for internal consistency.
// POST: Returns nil if the calendar can produce a valid unlock date for
// every door
func (c Calendar) Validate() error {
	if c.Month < time.January || c.Month > time.December {
		return fmt.Errorf("month %d: %w", c.Month, ErrInvalidMonth)
	}
	if c.MaxDay < 1 || c.MaxDay > daysInMonth(c.Year, c.Month) {
		return fmt.Errorf("max day %d in %s %d: %w", c.MaxDay, c.Month, c.Year, ErrInvalidMaxDay)
	}
	if c.BaseURL == "" {
		return ErrEmptyBaseURL
	}
	return nil
}

// UnlockDate returns the calendar date on which the given door opens,
// as midnight UTC. Only the date components are meaningful; callers
// compare calendar dates, never instants.
func (c Calendar) UnlockDate(day int) time.Time {
	return time.Date(c.Year, c.Month, day, 0, 0, 0, 0, time.UTC)
}

// KidName returns the display name for a recipient, or the empty string
// for an unknown recipient id.
func (c Calendar) KidName(kid int) string {
	switch kid {
	case Kid1:
		return c.Kid1Name
	case Kid2:
		return c.Kid2Name
	default:
		return ""
	}
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
