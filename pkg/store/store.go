// Package store keeps a history of computed layouts.
//
// Backends:
//   - [MemoryStore]: in-process, for tests and a single server instance
//   - [FileStore]: JSON files, for the CLI
//   - [MongoStore]: MongoDB, for multi-instance servers
//
// Records are written once and never updated. IDs are random UUIDs.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/masonry/pkg/itemset"
	"github.com/matzehuels/masonry/pkg/masonry"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("layout not found")

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 50

// Params are the inputs a layout was computed with.
type Params struct {
	Width     float64 `json:"width" bson:"width"`
	Height    float64 `json:"height" bson:"height"`
	BaseSize  float64 `json:"baseSize" bson:"base_size"`
	Gap       float64 `json:"gap" bson:"gap"`
	Looseness float64 `json:"looseness" bson:"looseness"`
	Grid      bool    `json:"grid" bson:"grid"`
}

// Record is one stored layout.
type Record struct {
	ID        string                      `json:"id" bson:"_id"`
	CreatedAt time.Time                   `json:"createdAt" bson:"created_at"`
	ItemsHash string                      `json:"itemsHash" bson:"items_hash"`
	Params    Params                      `json:"params" bson:"params"`
	Result    masonry.Result[itemset.Ref] `json:"result" bson:"result"`
}

// NewRecord stamps a result with a fresh ID and the current time.
func NewRecord(itemsHash string, params Params, res masonry.Result[itemset.Ref]) *Record {
	return &Record{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		ItemsHash: itemsHash,
		Params:    params,
		Result:    res,
	}
}

// Summary is the listing view of a record, without cards.
type Summary struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"createdAt"`
	Items         int       `json:"items"`
	Width         float64   `json:"width"`
	Height        float64   `json:"height"`
	Utilization   float64   `json:"utilization"`
	OrderFidelity float64   `json:"orderFidelity"`
}

// Summarize returns the listing view of r.
func (r *Record) Summarize() Summary {
	return Summary{
		ID:            r.ID,
		CreatedAt:     r.CreatedAt,
		Items:         len(r.Result.Cards),
		Width:         r.Result.Width,
		Height:        r.Result.Height,
		Utilization:   r.Result.Utilization,
		OrderFidelity: r.Result.OrderFidelity,
	}
}

// Store is the interface for layout history backends.
type Store interface {
	// Save stores a new record.
	Save(ctx context.Context, r *Record) error

	// Get returns the record with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns the newest records first. A non-positive limit means
	// DefaultListLimit.
	List(ctx context.Context, limit int) ([]Summary, error)

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

// ValidID reports whether id looks like a record ID. Backends use it to
// reject lookups before touching storage.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
