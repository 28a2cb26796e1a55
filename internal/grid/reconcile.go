package grid

import (
	"github.com/tkarls/mediagrid/internal/catalog"
	"go.uber.org/zap"
)

// Notifier is a visibility/proximity event source. The grid watches a
// key when its cell is created and unwatches it once the first trigger
// fires or the cell is garbage-collected.
type Notifier interface {
	Watch(key string, fn func())
	Unwatch(key string)
}

// Grid owns the cell map. It must only be touched from the engine's
// goroutine.
type Grid struct {
	log      *zap.Logger
	notifier Notifier
	loader   *Loader

	cells     map[string]*Cell
	collapsed map[string]bool
	groupSeen map[string]bool
}

// New creates an empty grid.
func New(log *zap.Logger, notifier Notifier, loader *Loader) *Grid {
	if log == nil {
		log = zap.NewNop()
	}
	return &Grid{
		log:       log,
		notifier:  notifier,
		loader:    loader,
		cells:     map[string]*Cell{},
		collapsed: map[string]bool{},
	}
}

// Reconcile maps a render sequence onto the cell set and returns the
// number of visible items. Existing cells are reused by identity key so
// loaded thumbnails survive; cells whose key left the sequence are
// dropped and unwatched.
func (g *Grid) Reconcile(seq catalog.Sequence, query catalog.Query) int {
	for _, cell := range g.cells {
		cell.used = false
	}
	g.groupSeen = map[string]bool{}

	visible := 0
	if seq.Grouped() {
		for _, dir := range seq.GroupOrder {
			for _, it := range seq.Groups[dir] {
				if g.place(it, query) {
					visible++
					g.groupSeen[dir] = true
				}
			}
		}
	} else {
		for _, it := range seq.Items {
			if g.place(it, query) {
				visible++
			}
		}
	}

	for key, cell := range g.cells {
		if cell.used {
			continue
		}
		if cell.watching {
			g.notifier.Unwatch(key)
		}
		delete(g.cells, key)
	}
	return visible
}

// place reuses or creates the cell for an item and returns whether the
// item passes the current query.
func (g *Grid) place(it catalog.Item, query catalog.Query) bool {
	cell, ok := g.cells[it.Key]
	if !ok {
		cell = &Cell{Key: it.Key, Item: it, State: Unloaded}
		g.cells[it.Key] = cell
		cell.watching = true
		g.notifier.Watch(it.Key, func() { g.visibleSoon(cell) })
	} else {
		cell.Item = it
	}
	cell.used = true
	cell.Hidden = !query.Matches(it)
	return !cell.Hidden
}

// visibleSoon is the notifier trigger: the cell is near the viewport,
// so issue its one thumbnail load and stop watching.
func (g *Grid) visibleSoon(cell *Cell) {
	if cell.watching {
		cell.watching = false
		g.notifier.Unwatch(cell.Key)
	}
	if cell.State != Unloaded {
		return
	}
	g.loader.Load(cell)
}

// Cell returns the cell for an identity key.
func (g *Grid) Cell(key string) (*Cell, bool) {
	cell, ok := g.cells[key]
	return cell, ok
}

// Len returns the number of live cells.
func (g *Grid) Len() int { return len(g.cells) }

// GroupVisible reports whether a group header should be shown: at least
// one member passed the filter in the last reconciliation.
func (g *Grid) GroupVisible(dir string) bool { return g.groupSeen[dir] }

// ToggleGroup flips a group's open/closed presentation state. This
// never affects membership or cell lifetime.
func (g *Grid) ToggleGroup(dir string) {
	if g.collapsed[dir] {
		delete(g.collapsed, dir)
	} else {
		g.collapsed[dir] = true
	}
}

// GroupCollapsed reports a group's presentation state.
func (g *Grid) GroupCollapsed(dir string) bool { return g.collapsed[dir] }
