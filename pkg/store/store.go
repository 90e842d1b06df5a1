// Package store persists named schedule snapshots in leveldb, encoded
// with the library's JSON wire format.
package store

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/khryptorgraphics/flowsched/pkg/models"
)

// schedulePrefix namespaces schedule keys within the database.
const schedulePrefix = "schedule/"

// ErrNotFound is returned when a named schedule does not exist.
var ErrNotFound = fmt.Errorf("schedule not found")

// Store is a leveldb-backed schedule archive.
type Store struct {
	db     *leveldb.DB
	logger zerolog.Logger
}

// Open opens (or creates) the database at the given path.
func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("opening schedule store %s: %w", path, err)
	}
	return &Store{db: db, logger: zerolog.Nop()}, nil
}

// WithLogger sets the logger.
func (s *Store) WithLogger(logger zerolog.Logger) *Store {
	s.logger = logger
	return s
}

// Put stores a schedule under a name, overwriting any previous
// snapshot.
func (s *Store) Put(name string, schedule *models.Schedule) error {
	raw, err := json.Marshal(schedule)
	if err != nil {
		return fmt.Errorf("encoding schedule %q: %w", name, err)
	}
	if err := s.db.Put([]byte(schedulePrefix+name), raw, nil); err != nil {
		return fmt.Errorf("storing schedule %q: %w", name, err)
	}
	s.logger.Debug().Str("name", name).Int("assignments", schedule.AssignmentCount()).Msg("schedule stored")
	return nil
}

// Get loads a schedule by name.
func (s *Store) Get(name string) (*models.Schedule, error) {
	raw, err := s.db.Get([]byte(schedulePrefix+name), nil)
	if err == leveldb.ErrNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("loading schedule %q: %w", name, err)
	}

	var schedule models.Schedule
	if err := json.Unmarshal(raw, &schedule); err != nil {
		return nil, fmt.Errorf("decoding schedule %q: %w", name, err)
	}
	return &schedule, nil
}

// List returns the stored schedule names in key order.
func (s *Store) List() ([]string, error) {
	var names []string
	iter := s.db.NewIterator(util.BytesPrefix([]byte(schedulePrefix)), nil)
	defer iter.Release()
	for iter.Next() {
		names = append(names, string(iter.Key()[len(schedulePrefix):]))
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("listing schedules: %w", err)
	}
	return names, nil
}

// Delete removes a named schedule; deleting a missing name is a no-op.
func (s *Store) Delete(name string) error {
	if err := s.db.Delete([]byte(schedulePrefix+name), nil); err != nil {
		return fmt.Errorf("deleting schedule %q: %w", name, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
