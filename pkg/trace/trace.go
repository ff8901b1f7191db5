// Package trace records popover solve passes for layout debugging.
//
// A trace pairs one complete set of solver inputs with the placement the
// solver produced, so a misbehaving popover can be replayed offline: fetch
// the trace, rerun Solve on its request, diff the result.
//
// The Store interface has four backends:
//   - memory: for tests and short-lived dev servers
//   - file: JSON files in a directory, for CLI usage
//   - redis: shared storage with TTL for multi-instance deployments
//   - mongo: durable archive queried by the layout dashboard
//
// # Usage
//
//	store := trace.NewMemoryStore()
//	tr := trace.New(req, req.Solve())
//	if err := store.Put(ctx, tr); err != nil {
//	    return err
//	}
package trace

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/fieldmark/popover/pkg/popover"
)

// Sentinel errors for trace storage.
var (
	// ErrNotFound is returned when a trace does not exist.
	ErrNotFound = errors.New("trace not found")
)

// DefaultTTL bounds how long backends with expiration keep a trace.
const DefaultTTL = 24 * time.Hour

// Trace is one recorded solve pass.
type Trace struct {
	ID        string               `json:"id" bson:"_id"`
	CreatedAt time.Time            `json:"created_at" bson:"created_at"`
	Request   popover.SolveRequest `json:"request" bson:"request"`
	Placement popover.Placement    `json:"placement" bson:"placement"`
}

// New builds a trace with a fresh ID and timestamp.
func New(req popover.SolveRequest, placement popover.Placement) *Trace {
	return &Trace{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Request:   req,
		Placement: placement,
	}
}

// Store is the interface for trace storage backends.
type Store interface {
	// Put stores a trace.
	Put(ctx context.Context, tr *Trace) error

	// Get retrieves a trace by ID. Returns ErrNotFound when it does not
	// exist (or has expired).
	Get(ctx context.Context, id string) (*Trace, error)

	// List returns up to limit traces, newest first.
	List(ctx context.Context, limit int) ([]*Trace, error)

	// Close releases backend resources.
	Close() error
}
