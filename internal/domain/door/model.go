package door

import (
	"errors"
	"fmt"
)

// Recipient identifiers. The calendar serves exactly two kids.
const (
	Kid1 = 1
	Kid2 = 2
)

// Domain errors
var (
	ErrInvalidDay       = errors.New("day is outside the calendar range")
	ErrInvalidRecipient = errors.New("kid must be 1 or 2")
	ErrTableSize        = errors.New("table must contain exactly one record per calendar day")
	ErrDuplicateDay     = errors.New("table contains a duplicate day")
)

// Record holds the secret content behind one calendar door.
// Day is the record identity and is immutable once created; the two
// messages are independently editable.
type Record struct {
	Day         int
	MessageKid1 string
	MessageKid2 string
	Active      bool
}

// Validate checks that the Record identifies a door within the calendar.
// PRE: maxDay > 0
// POST: Returns nil if Day is in [1, maxDay], ErrInvalidDay otherwise
func (r *Record) Validate(maxDay int) error {
	if r.Day < 1 || r.Day > maxDay {
		return fmt.Errorf("day %d: %w", r.Day, ErrInvalidDay)
	}
	return nil
}

// Message returns the text for the given recipient.
// INVARIANT: Record fields are not mutated
func (r Record) Message(kid int) (string, error) {
	switch kid {
	case Kid1:
		return r.MessageKid1, nil
	case Kid2:
		return r.MessageKid2, nil
	default:
		return "", fmt.Errorf("kid %d: %w", kid, ErrInvalidRecipient)
	}
}

// ValidRecipient reports whether kid names one of the two recipients.
func ValidRecipient(kid int) bool {
	return kid == Kid1 || kid == Kid2
}

// ValidateTable checks the full-table invariant: exactly maxDay records,
// day values exactly 1..maxDay with no gaps or duplicates. Records may be
// in any order.
// POST: Returns nil only when the table is fully materialized
func ValidateTable(records []Record, maxDay int) error {
	if len(records) != maxDay {
		return fmt.Errorf("got %d records, want %d: %w", len(records), maxDay, ErrTableSize)
	}
	seen := make(map[int]bool, maxDay)
	for _, r := range records {
		if err := r.Validate(maxDay); err != nil {
			return err
		}
		if seen[r.Day] {
			return fmt.Errorf("day %d: %w", r.Day, ErrDuplicateDay)
		}
		seen[r.Day] = true
	}
	return nil
}
