package registry

import (
	"fmt"

	"shootout/internal/kismet"
)

// SourceRecord tracks one data source through a shootout run.
type SourceRecord struct {
	Name    string // user-supplied name, unique within the registry
	UUID    string // server identifier, empty until resolved
	Channel int    // channel the source was asked to tune to
	Count   int64  // packets observed since the baseline
	Offset  int64  // baseline packet count captured at sync time
}

// UnknownSourceError reports a requested source the server does not know.
type UnknownSourceError struct {
	Name string
}

func (e *UnknownSourceError) Error() string {
	return fmt.Sprintf("Kismet doesn't have a source named %s", e.Name)
}

// Registry holds tracked sources in the order they were supplied.
type Registry struct {
	records []*SourceRecord
	byName  map[string]*SourceRecord
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{byName: map[string]*SourceRecord{}}
}

// Register adds a record for name with everything else zero-valued.
// Registering the same name twice returns the existing record.
func (r *Registry) Register(name string) *SourceRecord {
	if rec, ok := r.byName[name]; ok {
		return rec
	}
	rec := &SourceRecord{Name: name}
	r.records = append(r.records, rec)
	r.byName[name] = rec
	return rec
}

// Len returns the number of registered sources.
func (r *Registry) Len() int {
	return len(r.records)
}

// Records returns the records in registration order. The slice is shared;
// callers mutate records through it during the run.
func (r *Registry) Records() []*SourceRecord {
	return r.records
}

// Lookup returns the record for name, if registered.
func (r *Registry) Lookup(name string) (*SourceRecord, bool) {
	rec, ok := r.byName[name]
	return rec, ok
}

// ResolveIDs matches every record by name against a server snapshot and
// fills in its UUID. The first record with no matching snapshot entry
// yields an UnknownSourceError.
func (r *Registry) ResolveIDs(snapshot []kismet.Datasource) error {
	for _, rec := range r.records {
		for _, ds := range snapshot {
			if ds.Name == rec.Name {
				rec.UUID = ds.UUID
				break
			}
		}
		if rec.UUID == "" {
			return &UnknownSourceError{Name: rec.Name}
		}
	}
	return nil
}
