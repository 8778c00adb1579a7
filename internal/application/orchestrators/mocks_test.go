package orchestrators_test

import (
	"context"
	"errors"
	"fmt"

	doorStore "adventcal/internal/adapters/storage/door"
	"adventcal/internal/domain/door"
)

// mockDoorStore is an in-memory Store for testing.
type mockDoorStore struct {
	records []door.Record
	maxDay  int
	loadErr error
	saveErr error
	saves   int
}

// Load implements the mock Store for testing.
// PRE: none
// POST: Returns a copy of the stored records or the injected error
func (m *mockDoorStore) Load(ctx context.Context) ([]door.Record, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make([]door.Record, len(m.records))
	copy(out, m.records)
	return out, nil
}

// Save implements the mock Store for testing.
// PRE: records form a complete table
// POST: Records replace the stored table, save counter incremented
func (m *mockDoorStore) Save(ctx context.Context, records []door.Record) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if err := door.ValidateTable(records, m.maxDay); err != nil {
		return fmt.Errorf("%v: %w", err, doorStore.ErrValidation)
	}
	m.records = make([]door.Record, len(records))
	copy(m.records, records)
	m.saves++
	return nil
}

// Get implements the mock Store for testing.
// PRE: day is within the stored table
// POST: Returns the matching record or ErrInvalidDay
func (m *mockDoorStore) Get(ctx context.Context, day int) (door.Record, error) {
	if m.loadErr != nil {
		return door.Record{}, m.loadErr
	}
	for _, rec := range m.records {
		if rec.Day == day {
			return rec, nil
		}
	}
	return door.Record{}, fmt.Errorf("day %d: %w", day, door.ErrInvalidDay)
}

func newMockStore(maxDay int) *mockDoorStore {
	records := make([]door.Record, maxDay)
	for i := range records {
		records[i] = door.Record{
			Day:         i + 1,
			MessageKid1: fmt.Sprintf("kid1 day %d", i+1),
			MessageKid2: fmt.Sprintf("kid2 day %d", i+1),
			Active:      true,
		}
	}
	return &mockDoorStore{records: records, maxDay: maxDay}
}

// mockEncoder returns fake PNG bytes, or fails on a chosen reference.
type mockEncoder struct {
	failOn string
	calls  int
}

// Encode implements the mock Encoder for testing.
// PRE: reference is non-empty
// POST: Returns fake PNG bytes, call counter incremented
func (m *mockEncoder) Encode(reference string, size int) ([]byte, error) {
	m.calls++
	if m.failOn != "" && reference == m.failOn {
		return nil, errors.New("encoder blew up")
	}
	return []byte("png:" + reference), nil
}
