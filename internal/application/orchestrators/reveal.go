package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	doorStore "adventcal/internal/adapters/storage/door"
	"adventcal/internal/domain/door"
)

// RevealInput carries one door request: which day, for which kid, asked
// at what time.
type RevealInput struct {
	Day int
	Kid int
	Now time.Time
}

// RevealDeps holds dependencies for Reveal.
type RevealDeps struct {
	Store    doorStore.Store
	Calendar door.Calendar
}

// RevealResult carries the gate's decision plus display context.
type RevealResult struct {
	Decision door.Decision
	Day      int
	KidName  string
}

// ExecuteReveal resolves the record for the requested day and runs the
// access gate. Invalid day or recipient never touch the store, so an
// out-of-range probe cannot distinguish store state.
// POST: Returns exactly one decision variant, or an error only for store
// failures (unavailable or corrupt backing medium)
func ExecuteReveal(ctx context.Context, input RevealInput, deps RevealDeps) (RevealResult, error) {
	if input.Day < 1 || input.Day > deps.Calendar.MaxDay {
		slog.Info("door_event", "event", "reveal_denied", "reason", "invalid_day", "day", input.Day)
		return RevealResult{Decision: door.Decision{State: door.StateInvalidDay}, Day: input.Day}, nil
	}
	if !door.ValidRecipient(input.Kid) {
		slog.Info("door_event", "event", "reveal_denied", "reason", "invalid_kid", "day", input.Day, "kid", input.Kid)
		return RevealResult{Decision: door.Decision{State: door.StateInvalidRecipient}, Day: input.Day}, nil
	}

	rec, err := deps.Store.Get(ctx, input.Day)
	if err != nil {
		// The gate already bounds the day, so any Get failure is a store
		// failure, not a bad request.
		if errors.Is(err, door.ErrInvalidDay) {
			return RevealResult{Decision: door.Decision{State: door.StateInvalidDay}, Day: input.Day}, nil
		}
		return RevealResult{}, err
	}

	decision := door.Decide(input.Now, input.Day, input.Kid, deps.Calendar, rec)
	slog.Info("door_event", "event", "reveal_decided", "day", input.Day, "kid", input.Kid, "state", int(decision.State))

	return RevealResult{
		Decision: decision,
		Day:      input.Day,
		KidName:  deps.Calendar.KidName(input.Kid),
	}, nil
}
