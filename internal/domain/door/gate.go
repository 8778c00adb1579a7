package door

import "time"

// State enumerates the possible outcomes of a reveal decision.
type State int

// Decision states. Exactly one applies per request.
const (
	StateRevealed State = iota
	StateNotYetOpen
	StateDisabled
	StateInvalidDay
	StateInvalidRecipient
)

// Decision is the outcome of asking whether a door may be opened now.
// Message is set only for StateRevealed; UnlockDate is set for
// StateRevealed and StateNotYetOpen.
type Decision struct {
	State      State
	Message    string
	UnlockDate time.Time
}

// Decide determines whether the door for the given day may reveal its
// content to the given recipient at time now. Pure: no clock reads, no
// store access, no side effects.
//
// The unlock instant is the start of the door's calendar date: a request
// on or after midnight of that date reveals. Comparison uses calendar
// dates only, so time-of-day and timezone offsets within a day cannot
// flip the outcome.
// PRE: rec is the record for day (callers resolve the record first)
// INVARIANT: cal and rec are not mutated
func Decide(now time.Time, day, kid int, cal Calendar, rec Record) Decision {
	if day < 1 || day > cal.MaxDay {
		return Decision{State: StateInvalidDay}
	}
	if !ValidRecipient(kid) {
		return Decision{State: StateInvalidRecipient}
	}
	if !rec.Active {
		return Decision{State: StateDisabled}
	}

	unlock := cal.UnlockDate(day)
	if !cal.DebugMode {
		y, m, d := now.Date()
		today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		if today.Before(unlock) {
			return Decision{State: StateNotYetOpen, UnlockDate: unlock}
		}
	}

	msg, err := rec.Message(kid)
	if err != nil {
		return Decision{State: StateInvalidRecipient}
	}
	return Decision{State: StateRevealed, Message: msg, UnlockDate: unlock}
}
