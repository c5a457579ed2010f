// Package refactors tracks in-flight refactoring procedures. The server
// identifies a procedure by the id the client chose when initiating it, so
// the record ties a returned diff back to the file being refactored.
package refactors

import (
	"sync"

	"github.com/uber/ensime-client/src/ensime/entity"
	"go.uber.org/fx"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Repository assigns refactoring procedure ids and stores their records.
type Repository interface {
	// Begin allocates a procedure id for a refactoring of the given file and
	// records it. Ids are monotonically increasing and start at 1.
	Begin(file string) entity.RefactorRecord
	// Lookup returns the record for a procedure id.
	Lookup(procID int) (entity.RefactorRecord, bool)
	// Finish drops the record for a completed procedure.
	Finish(procID int)
}

type repository struct {
	mu      sync.Mutex
	next    int
	records map[int]entity.RefactorRecord
}

// New creates a new refactor Repository.
func New() Repository {
	return &repository{
		next:    1,
		records: make(map[int]entity.RefactorRecord),
	}
}

func (r *repository) Begin(file string) entity.RefactorRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := entity.RefactorRecord{ID: r.next, File: file}
	r.next++
	r.records[rec.ID] = rec
	return rec
}

func (r *repository) Lookup(procID int) (entity.RefactorRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[procID]
	return rec, ok
}

func (r *repository) Finish(procID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, procID)
}
