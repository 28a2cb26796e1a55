package catalog

import (
	"sort"

	"github.com/tkarls/mediagrid/pkg/mgrid"
)

// SortKey selects the ordering of a derived sequence.
type SortKey string

// Supported sort keys.
const (
	SortName  SortKey = "name"
	SortMTime SortKey = "mtime"
	SortSize  SortKey = "size"
)

// MediaType filters the catalog by entry kind.
type MediaType string

// Supported media type filters.
const (
	MediaAll    MediaType = "all"
	MediaImages MediaType = "image"
	MediaVideos MediaType = "video"
)

// Params are the view parameters a derivation pass depends on.
type Params struct {
	MediaType  MediaType
	Recursive  bool
	GroupByDir bool
	Sort       SortKey
	Ascending  bool
}

// DefaultParams returns the initial view parameters.
func DefaultParams() Params {
	return Params{MediaType: MediaAll, Sort: SortName, Ascending: true}
}

// Sequence is the ordered render sequence produced by one derivation
// pass. GroupOrder and Groups are populated only when grouping is
// active; Items is always the flattened order.
type Sequence struct {
	Items      []Item
	GroupOrder []string
	Groups     map[string][]Item
}

// Grouped reports whether the sequence carries grouping metadata.
func (s Sequence) Grouped() bool { return s.GroupOrder != nil }

// Derive runs the pipeline: filter by media type, optionally partition
// by source directory, sort, flatten. Pure and deterministic: identical
// inputs yield an identical sequence.
func Derive(items []Item, p Params) Sequence {
	filtered := make([]Item, 0, len(items))
	for _, it := range items {
		if p.MediaType == MediaAll || p.MediaType == "" || MediaType(it.Kind) == p.MediaType {
			filtered = append(filtered, it)
		}
	}

	if !(p.Recursive && p.GroupByDir) {
		sortItems(filtered, p)
		return Sequence{Items: filtered}
	}

	groups := map[string][]Item{}
	order := []string{}
	for _, it := range filtered {
		if _, ok := groups[it.SourceDir]; !ok {
			order = append(order, it.SourceDir)
		}
		groups[it.SourceDir] = append(groups[it.SourceDir], it)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return mgrid.ComparePaths(order[i], order[j]) < 0
	})

	flat := make([]Item, 0, len(filtered))
	for _, dir := range order {
		sortItems(groups[dir], p)
		flat = append(flat, groups[dir]...)
	}
	return Sequence{Items: flat, GroupOrder: order, Groups: groups}
}

func sortItems(items []Item, p Params) {
	sort.SliceStable(items, func(i, j int) bool {
		c := compareItems(items[i], items[j], p.Sort)
		if !p.Ascending {
			c = -c
		}
		return c < 0
	})
}

// compareItems is a three-way comparison; ties stay equal so the stable
// sort preserves input order. Name ordering uses the marker-transparent
// path comparator to keep directory and thumbnail orderings consistent.
func compareItems(a, b Item, key SortKey) int {
	switch key {
	case SortMTime:
		return compareFloat(a.MTime, b.MTime)
	case SortSize:
		switch {
		case a.Size < b.Size:
			return -1
		case a.Size > b.Size:
			return 1
		}
		return 0
	default:
		return mgrid.ComparePaths(a.Name, b.Name)
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
