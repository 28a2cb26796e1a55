// Package grid reconciles the derived render sequence onto a
// persistent set of visual cells with stable identity and lazily
// loaded thumbnails.
package grid

import "github.com/tkarls/mediagrid/internal/catalog"

// LoadState tracks a cell's thumbnail.
type LoadState int

// Thumbnail load states.
const (
	Unloaded LoadState = iota
	Loading
	Loaded
)

// Cell is the persistent presentation unit for one identity key. A
// loaded thumbnail survives reconciliation passes for as long as the
// cell does.
type Cell struct {
	Key   string
	Item  catalog.Item
	State LoadState

	// Hidden marks a cell filtered out by the current text query. The
	// cell still exists so its thumbnail survives a relaxed filter.
	Hidden bool

	// Thumb holds the fetched thumbnail bytes once State is Loaded.
	Thumb []byte

	used     bool
	watching bool
}
