// Package catalog maintains the client-side view of the server's media
// directories: cached snapshots with conditional revalidation, the
// derived render sequence, and the text filter over it.
package catalog

import (
	"strings"

	"github.com/tkarls/mediagrid/pkg/mgrid"
)

// Item is one catalog entry, derived from a listing entry plus its
// owning directory. Items are immutable; a re-fetch or re-derivation
// produces fresh ones.
type Item struct {
	Name      string
	Kind      string
	MTime     float64
	Size      int64
	SourceDir string

	// Key is the identity key: owning directory plus name, OSPath
	// encoding preserved. Compare with mgrid.EqualPaths, never ==.
	Key string

	// SearchKey is the lowercased display form of Key;
	// SearchKeyFolded additionally has diacritics stripped.
	SearchKey       string
	SearchKeyFolded string
}

// NewItem builds an Item for a listing entry under dir.
func NewItem(dir string, entry mgrid.FileEntry) Item {
	key := mgrid.JoinPath(dir, entry.Name)
	search := strings.ToLower(mgrid.DisplayPath(key))
	return Item{
		Name:            entry.Name,
		Kind:            entry.Type,
		MTime:           entry.MTime,
		Size:            entry.Size,
		SourceDir:       dir,
		Key:             key,
		SearchKey:       search,
		SearchKeyFolded: Fold(search),
	}
}
