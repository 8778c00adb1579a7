package orchestrators

import (
	"context"
	"log/slog"

	doorStore "adventcal/internal/adapters/storage/door"
	"adventcal/internal/domain/door"
)

// ListDoorsInput carries the caller's authorization.
type ListDoorsInput struct {
	Authz Capability
}

// ListDoorsDeps holds dependencies for ListDoors.
type ListDoorsDeps struct {
	Store doorStore.Store
}

// ExecuteListDoors loads the full table for the admin editor.
// POST: Returns the table day-ascending, or ErrUnauthorized without
// touching the store
func ExecuteListDoors(ctx context.Context, input ListDoorsInput, deps ListDoorsDeps) ([]door.Record, error) {
	if !input.Authz.Admin() {
		return nil, ErrUnauthorized
	}
	return deps.Store.Load(ctx)
}

// SaveDoorsInput carries the full replacement table and the caller's
// authorization. Partial-row updates are deliberately not offered: the
// editor always submits the whole table, which the store replaces in one
// atomic operation, so two admins can race without producing a merged
// half-state.
type SaveDoorsInput struct {
	Records []door.Record
	Authz   Capability
}

// SaveDoorsDeps holds dependencies for SaveDoors.
type SaveDoorsDeps struct {
	Store doorStore.Store
}

// ExecuteSaveDoors validates and atomically replaces the door table.
// POST: On any error the previously persisted table is unchanged
func ExecuteSaveDoors(ctx context.Context, input SaveDoorsInput, deps SaveDoorsDeps) error {
	if !input.Authz.Admin() {
		return ErrUnauthorized
	}
	if err := deps.Store.Save(ctx, input.Records); err != nil {
		slog.Warn("admin_event", "event", "doors_save_failed", "error", err.Error())
		return err
	}
	slog.Info("admin_event", "event", "doors_saved", "records", len(input.Records))
	return nil
}
