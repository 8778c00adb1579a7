package door

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	domain "adventcal/internal/domain/door"
)

// header is the fixed column layout of the backing file.
var header = []string{"day", "message_kid1", "message_kid2", "active"}

// CSVStore implements Store on a single CSV file: one header row, exactly
// maxDay data rows. There is no cache (every Load re-reads the file)
// and Save goes through a temp file plus rename so a concurrent Load
// never observes a half-written table.
type CSVStore struct {
	path   string
	maxDay int
}

// NewCSVStore creates a store backed by the CSV file at path.
func NewCSVStore(path string, maxDay int) *CSVStore {
	return &CSVStore{path: path, maxDay: maxDay}
}

// Load reads the full table, sorted by day ascending.
// POST: Returns exactly maxDay records or an error; ErrStoreUnavailable
// for I/O failures, ErrStoreCorrupt for invariant violations
func (s *CSVStore) Load(ctx context.Context) ([]domain.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, ErrStoreUnavailable)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = len(header)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %v: %w", s.path, err, ErrStoreCorrupt)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: missing header row: %w", s.path, ErrStoreCorrupt)
	}

	records := make([]domain.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %v: %w", s.path, i+2, err, ErrStoreCorrupt)
		}
		records = append(records, rec)
	}
	if err := domain.ValidateTable(records, s.maxDay); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", s.path, err, ErrStoreCorrupt)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Day < records[j].Day })
	return records, nil
}

// Save validates and atomically replaces the full table.
// PRE: records hold the complete intended table, any order
// POST: On success the file holds exactly the given table; on any error
// the previously persisted table is untouched
func (s *CSVStore) Save(ctx context.Context, records []domain.Record) error {
	if err := domain.ValidateTable(records, s.maxDay); err != nil {
		return fmt.Errorf("%v: %w", err, ErrValidation)
	}

	sorted := make([]domain.Record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Day < sorted[j].Day })

	// The temp file must live on the same filesystem as the target for
	// the rename to be atomic.
	tmp := filepath.Join(filepath.Dir(s.path), ".doors-"+uuid.New().String()+".tmp")
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create temp file: %w", ErrStoreUnavailable)
	}

	cw := csv.NewWriter(f)
	_ = cw.Write(header)
	for _, rec := range sorted {
		_ = cw.Write([]string{
			strconv.Itoa(rec.Day),
			rec.MessageKid1,
			rec.MessageKid2,
			strconv.FormatBool(rec.Active),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write temp file: %v: %w", err, ErrStoreUnavailable)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temp file: %v: %w", err, ErrStoreUnavailable)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace %s: %v: %w", s.path, err, ErrStoreUnavailable)
	}
	return nil
}

// Get retrieves the record for one day.
// POST: Returns the record, or ErrInvalidDay for an out-of-range day;
// an in-range day can never be missing from a valid table
func (s *CSVStore) Get(ctx context.Context, day int) (domain.Record, error) {
	if day < 1 || day > s.maxDay {
		return domain.Record{}, fmt.Errorf("day %d: %w", day, domain.ErrInvalidDay)
	}
	records, err := s.Load(ctx)
	if err != nil {
		return domain.Record{}, err
	}
	// Load returns day-ascending, fully materialized records.
	return records[day-1], nil
}

// Exists reports whether the backing file is present. Used at startup to
// decide whether to seed a fresh table.
func (s *CSVStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Seed writes a fresh fully-materialized table with empty messages and
// every door active. Refuses to touch an existing file.
func (s *CSVStore) Seed(ctx context.Context) error {
	if s.Exists() {
		return fmt.Errorf("%s already exists: %w", s.path, ErrValidation)
	}
	records := make([]domain.Record, s.maxDay)
	for i := range records {
		records[i] = domain.Record{Day: i + 1, Active: true}
	}
	return s.Save(ctx, records)
}

func parseRow(row []string) (domain.Record, error) {
	day, err := strconv.Atoi(strings.TrimSpace(row[0]))
	if err != nil {
		return domain.Record{}, fmt.Errorf("day %q is not an integer", row[0])
	}
	active, err := strconv.ParseBool(strings.TrimSpace(row[3]))
	if err != nil {
		return domain.Record{}, fmt.Errorf("active %q is not a boolean", row[3])
	}
	return domain.Record{
		Day:         day,
		MessageKid1: row[1],
		MessageKid2: row[2],
		Active:      active,
	}, nil
}
