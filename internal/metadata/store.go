// Package metadata resolves and caches immutable asset metadata (name, decimals, creator).
package metadata

import (
	"context"

	"github.com/mtlprog/algofolio/internal/domain"
)

// Entry is the cached metadata of one asset. A nil field has not been resolved yet.
type Entry struct {
	Name     *string `json:"name,omitempty"`
	Decimals *uint32 `json:"decimals,omitempty"`
	Creator  *string `json:"creator,omitempty"`
}

// merge overlays the non-nil fields of other onto e.
func (e Entry) merge(other Entry) Entry {
	if other.Name != nil {
		e.Name = other.Name
	}
	if other.Decimals != nil {
		e.Decimals = other.Decimals
	}
	if other.Creator != nil {
		e.Creator = other.Creator
	}
	return e
}

// EntryFrom builds an entry with every field set from resolved metadata.
func EntryFrom(m domain.AssetMetadata) Entry {
	return Entry{Name: &m.Name, Decimals: &m.Decimals, Creator: &m.Creator}
}

// Store is a durable asset-id keyed metadata cache.
type Store interface {
	// Entry returns the cached entry; a missing asset yields an empty Entry.
	Entry(ctx context.Context, id domain.AssetID) (Entry, error)
	// Put merges the non-nil fields of e into the cached entry.
	Put(ctx context.Context, id domain.AssetID, e Entry) error
	// Flush persists pending writes.
	Flush(ctx context.Context) error
}
