package grid

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tkarls/mediagrid/internal/catalog"
	"github.com/tkarls/mediagrid/pkg/mgrid"
	"go.uber.org/zap"
)

type fakeNotifier struct {
	watched map[string]func()
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{watched: map[string]func(){}}
}

func (n *fakeNotifier) Watch(key string, fn func()) { n.watched[key] = fn }
func (n *fakeNotifier) Unwatch(key string)          { delete(n.watched, key) }

// trigger simulates the item scrolling near the viewport.
func (n *fakeNotifier) trigger(key string) {
	if fn, ok := n.watched[key]; ok {
		fn()
	}
}

type fakeFetcher struct {
	calls map[string]int
	fail  bool
}

func (f *fakeFetcher) FetchThumb(_ context.Context, key string) ([]byte, error) {
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[key]++
	if f.fail {
		return nil, errors.New("fetch failed")
	}
	return []byte("thumb:" + key), nil
}

func items(names ...string) []catalog.Item {
	out := make([]catalog.Item, 0, len(names))
	for _, name := range names {
		out = append(out, catalog.NewItem("d", mgrid.FileEntry{Name: name, Type: mgrid.KindImage}))
	}
	return out
}

func newGrid(t *testing.T) (*Grid, *fakeNotifier, *fakeFetcher) {
	t.Helper()
	notifier := newFakeNotifier()
	fetcher := &fakeFetcher{}
	loader := NewLoader(zap.NewNop(), fetcher, time.Minute)
	return New(zap.NewNop(), notifier, loader), notifier, fetcher
}

func TestReconcileCreatesAndLoadsLazily(t *testing.T) {
	g, notifier, fetcher := newGrid(t)

	seq := catalog.Sequence{Items: items("a.jpg", "b.jpg")}
	visible := g.Reconcile(seq, catalog.ParseQuery(""))
	if visible != 2 || g.Len() != 2 {
		t.Fatalf("expected 2 visible cells, got %d/%d", visible, g.Len())
	}
	cell, _ := g.Cell("d/a.jpg")
	if cell.State != Unloaded {
		t.Fatalf("new cell must start unloaded")
	}
	if len(fetcher.calls) != 0 {
		t.Fatalf("no fetch before visibility trigger")
	}

	notifier.trigger("d/a.jpg")
	if cell.State != Loaded || string(cell.Thumb) != "thumb:d/a.jpg" {
		t.Fatalf("trigger should load thumbnail, state=%d", cell.State)
	}
	if _, stillWatched := notifier.watched["d/a.jpg"]; stillWatched {
		t.Fatalf("cell must unwatch after first trigger")
	}
}

func TestReconcileFilterOnlyChangeKeepsCells(t *testing.T) {
	g, notifier, _ := newGrid(t)

	seq := catalog.Sequence{Items: items("cat.jpg", "dog.jpg")}
	g.Reconcile(seq, catalog.ParseQuery(""))
	notifier.trigger("d/cat.jpg")
	loaded, _ := g.Cell("d/cat.jpg")
	if loaded.State != Loaded {
		t.Fatalf("precondition: cat loaded")
	}

	visible := g.Reconcile(seq, catalog.ParseQuery("dog"))
	if visible != 1 {
		t.Fatalf("expected 1 visible, got %d", visible)
	}
	if g.Len() != 2 {
		t.Fatalf("filtered-out items must keep their cells")
	}
	after, ok := g.Cell("d/cat.jpg")
	if !ok || after != loaded || after.State != Loaded || !after.Hidden {
		t.Fatalf("filter change must hide, not discard or unload: %+v", after)
	}

	// Relaxing the filter reveals the same loaded cell.
	g.Reconcile(seq, catalog.ParseQuery(""))
	relaxed, _ := g.Cell("d/cat.jpg")
	if relaxed != loaded || relaxed.Hidden || relaxed.State != Loaded {
		t.Fatalf("relaxed filter should reveal loaded cell")
	}
}

func TestReconcileGarbageCollects(t *testing.T) {
	g, notifier, _ := newGrid(t)

	g.Reconcile(catalog.Sequence{Items: items("a.jpg", "b.jpg")}, catalog.ParseQuery(""))
	g.Reconcile(catalog.Sequence{Items: items("b.jpg")}, catalog.ParseQuery(""))

	if _, ok := g.Cell("d/a.jpg"); ok {
		t.Fatalf("cell for departed item must be collected")
	}
	if _, watched := notifier.watched["d/a.jpg"]; watched {
		t.Fatalf("pending watch must be removed on collection")
	}
	if g.Len() != 1 {
		t.Fatalf("expected 1 surviving cell")
	}
}

func TestReconcileGroupHeaderVisibility(t *testing.T) {
	g, _, _ := newGrid(t)

	a := catalog.NewItem("a", mgrid.FileEntry{Name: "cat.jpg", Type: mgrid.KindImage})
	b := catalog.NewItem("b", mgrid.FileEntry{Name: "dog.jpg", Type: mgrid.KindImage})
	seq := catalog.Sequence{
		Items:      []catalog.Item{a, b},
		GroupOrder: []string{"a", "b"},
		Groups:     map[string][]catalog.Item{"a": {a}, "b": {b}},
	}

	g.Reconcile(seq, catalog.ParseQuery("dog"))
	if g.GroupVisible("a") {
		t.Fatalf("group with no visible members must hide its header")
	}
	if !g.GroupVisible("b") {
		t.Fatalf("group with a visible member must show its header")
	}

	// Collapsing is presentation-only: membership and cells survive.
	g.ToggleGroup("b")
	if !g.GroupCollapsed("b") {
		t.Fatalf("toggle should collapse")
	}
	if g.Len() != 2 {
		t.Fatalf("collapse must not drop cells")
	}
}

func TestLoaderByteCacheSurvivesCellTurnover(t *testing.T) {
	g, notifier, fetcher := newGrid(t)

	g.Reconcile(catalog.Sequence{Items: items("a.jpg")}, catalog.ParseQuery(""))
	notifier.trigger("d/a.jpg")

	// Item leaves and comes back: new cell, but no second fetch.
	g.Reconcile(catalog.Sequence{Items: items("b.jpg")}, catalog.ParseQuery(""))
	g.Reconcile(catalog.Sequence{Items: items("a.jpg")}, catalog.ParseQuery(""))
	notifier.trigger("d/a.jpg")

	cell, _ := g.Cell("d/a.jpg")
	if cell.State != Loaded {
		t.Fatalf("expected reload from byte cache")
	}
	if fetcher.calls["d/a.jpg"] != 1 {
		t.Fatalf("expected exactly one fetch, got %d", fetcher.calls["d/a.jpg"])
	}
}

func TestLoaderFailureReturnsToUnloaded(t *testing.T) {
	g, notifier, fetcher := newGrid(t)
	fetcher.fail = true

	g.Reconcile(catalog.Sequence{Items: items("a.jpg")}, catalog.ParseQuery(""))
	notifier.trigger("d/a.jpg")

	cell, _ := g.Cell("d/a.jpg")
	if cell.State != Unloaded || cell.Thumb != nil {
		t.Fatalf("failed load should leave cell unloaded, state=%d", cell.State)
	}
}
