package storage

import (
	"fmt"

	"tidbyt.dev/bikeshare/model"
)

// In memory implementation of Storage below

type MemoryStorage struct {
	Tables map[string]*MemoryStorageTable
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		Tables: map[string]*MemoryStorageTable{},
	}
}

func (s *MemoryStorage) GetReader(table string) (TripReader, error) {
	t, ok := s.Tables[table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}
	return t, nil
}

func (s *MemoryStorage) GetWriter(table string) (TripWriter, error) {
	t := &MemoryStorageTable{
		schema: model.Schema{},
	}

	s.Tables[table] = t

	return t, nil
}

func (s *MemoryStorage) DeleteTable(table string) error {
	if _, found := s.Tables[table]; !found {
		return fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}
	delete(s.Tables, table)
	return nil
}

type MemoryStorageTable struct {
	schema model.Schema
	trips  []*model.Trip
}

func (t *MemoryStorageTable) WriteSchema(schema model.Schema) error {
	t.schema = model.Schema{}
	for col := range schema {
		t.schema[col] = true
	}
	return nil
}

func (t *MemoryStorageTable) BeginTrips() error {
	return nil
}

func (t *MemoryStorageTable) WriteTrip(trip *model.Trip) error {
	tripCopy := *trip
	t.trips = append(t.trips, &tripCopy)
	return nil
}

func (t *MemoryStorageTable) EndTrips() error {
	return nil
}

func (t *MemoryStorageTable) Close() error {
	return nil
}

func (t *MemoryStorageTable) Schema() (model.Schema, error) {
	return t.schema, nil
}

func (t *MemoryStorageTable) Trips(filter TripFilter) ([]*model.Trip, error) {
	trips := []*model.Trip{}
	for _, trip := range t.trips {
		if filter.Match(trip) {
			tripCopy := *trip
			trips = append(trips, &tripCopy)
		}
	}
	return trips, nil
}
