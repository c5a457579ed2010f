// Package calls tracks outbound request correlation state. Every request
// carries a call id; per-call options recorded here steer how the matching
// response is dispatched when it arrives.
package calls

import (
	"sync"

	"github.com/uber-go/tally/v4"
	"github.com/uber/ensime-client/src/ensime/entity"
	"go.uber.org/fx"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Repository assigns call ids and stores per-call dispatch options.
type Repository interface {
	// NextCallID returns the next call id. Ids are monotonically increasing
	// and start at 0, so the handshake request always carries id 0.
	NextCallID() int
	// RecordOptions stores dispatch options for a call id, replacing any
	// previous record.
	RecordOptions(callID int, opts entity.CallOptions)
	// Options returns the options recorded for a call id, or nil.
	Options(callID int) entity.CallOptions
	// Forget drops the record for a call id once its response is handled.
	Forget(callID int)
}

// Params define values to be used by Repository.
type Params struct {
	fx.In

	Stats tally.Scope
}

type repository struct {
	mu      sync.Mutex
	next    int
	options map[int]entity.CallOptions

	pending tally.Gauge
}

// New creates a new call Repository.
func New(p Params) Repository {
	return &repository{
		options: make(map[int]entity.CallOptions),
		pending: p.Stats.SubScope("calls").Gauge("pending_options"),
	}
}

func (r *repository) NextCallID() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.next
	r.next++
	return id
}

func (r *repository) RecordOptions(callID int, opts entity.CallOptions) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.options[callID] = opts
	r.pending.Update(float64(len(r.options)))
}

func (r *repository) Options(callID int) entity.CallOptions {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.options[callID]
}

func (r *repository) Forget(callID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.options, callID)
	r.pending.Update(float64(len(r.options)))
}
