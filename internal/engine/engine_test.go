package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tkarls/mediagrid/internal/adapters/clock"
	"github.com/tkarls/mediagrid/internal/catalog"
	"github.com/tkarls/mediagrid/internal/grid"
	"github.com/tkarls/mediagrid/pkg/mgrid"
	"go.uber.org/zap"
)

type fakeAPI struct {
	tree   []mgrid.TreeNode
	lists  map[string]mgrid.ListDirResult
	errs   map[string]error
	thumbs map[string]int
	listN  int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{lists: map[string]mgrid.ListDirResult{}, errs: map[string]error{}, thumbs: map[string]int{}}
}

func (f *fakeAPI) Tree(context.Context) ([]mgrid.TreeNode, error) { return f.tree, nil }

func (f *fakeAPI) ListDir(_ context.Context, path string, since *float64) (mgrid.ListDirResult, error) {
	f.listN++
	if err := f.errs[path]; err != nil {
		return mgrid.ListDirResult{}, err
	}
	res, ok := f.lists[path]
	if !ok {
		return mgrid.ListDirResult{}, errors.New("no such dir")
	}
	if since != nil && res.MTime != nil && *res.MTime <= *since {
		return mgrid.ListDirResult{NotModified: true}, nil
	}
	return res, nil
}

func (f *fakeAPI) FetchThumb(_ context.Context, key string) ([]byte, error) {
	f.thumbs[key]++
	return []byte("t"), nil
}

func (f *fakeAPI) ThumbURL(key string) string { return "thumb://" + key }
func (f *fakeAPI) FileURL(key string) string  { return "file://" + key }

func (f *fakeAPI) StartTranscode(context.Context, string) (mgrid.TranscodeReply, error) {
	return mgrid.TranscodeReply{}, errors.New("not used")
}

func (f *fakeAPI) ResolveURL(ref string) string { return ref }

func dirListing(mtime float64, names ...string) mgrid.ListDirResult {
	files := make([]mgrid.FileEntry, 0, len(names))
	for _, name := range names {
		files = append(files, mgrid.FileEntry{Name: name, Type: mgrid.KindImage, MTime: 1, Size: 1})
	}
	return mgrid.ListDirResult{MTime: &mtime, Files: files}
}

func newEngine(t *testing.T, api *fakeAPI) (*Engine, *clock.Manual) {
	t.Helper()
	manual := clock.NewManual(time.Unix(0, 0))
	e := New(zap.NewNop(), api, Config{Clock: manual, Notifier: grid.EagerNotifier{}})
	return e, manual
}

func TestSetDirDerivesAndReconciles(t *testing.T) {
	api := newFakeAPI()
	api.lists["photos"] = dirListing(10, "b.jpg", "a.jpg")
	e, _ := newEngine(t, api)

	if err := e.SetDir(context.Background(), "photos"); err != nil {
		t.Fatalf("set dir: %v", err)
	}
	visible := e.Visible()
	if len(visible) != 2 || visible[0].Name != "a.jpg" {
		t.Fatalf("expected sorted visible sequence, got %+v", visible)
	}
	if e.Grid().Len() != 2 || e.VisibleCount() != 2 {
		t.Fatalf("expected 2 cells, got %d/%d", e.Grid().Len(), e.VisibleCount())
	}
	// The eager notifier loads every cell once.
	if api.thumbs["photos/a.jpg"] != 1 {
		t.Fatalf("expected one thumb fetch, got %d", api.thumbs["photos/a.jpg"])
	}
}

func TestSetDirErrorDegradesToEmpty(t *testing.T) {
	api := newFakeAPI()
	api.errs["broken"] = errors.New("boom")
	e, _ := newEngine(t, api)

	if err := e.SetDir(context.Background(), "broken"); err == nil {
		t.Fatalf("expected surfaced error")
	}
	if len(e.Visible()) != 0 || e.Grid().Len() != 0 {
		t.Fatalf("engine must degrade to an empty catalog")
	}
}

func TestQueryChangeKeepsCellsAndThumbs(t *testing.T) {
	api := newFakeAPI()
	api.lists["photos"] = dirListing(10, "cat.jpg", "dog.jpg")
	e, _ := newEngine(t, api)
	e.SetDir(context.Background(), "photos")

	before := api.listN
	e.SetQuery("dog")
	if api.listN != before {
		t.Fatalf("filter change must not refetch")
	}
	if len(e.Visible()) != 1 || e.VisibleCount() != 1 {
		t.Fatalf("expected one visible item")
	}
	if e.Grid().Len() != 2 {
		t.Fatalf("hidden item must keep its cell")
	}
	if api.thumbs["photos/cat.jpg"] != 1 {
		t.Fatalf("filter change must not re-fetch thumbnails")
	}
}

func TestDebouncedFilterInput(t *testing.T) {
	api := newFakeAPI()
	api.lists["photos"] = dirListing(10, "cat.jpg", "dog.jpg")
	e, manual := newEngine(t, api)
	e.SetDir(context.Background(), "photos")

	// First keystroke after idle applies immediately.
	manual.Advance(2 * time.Second)
	e.FilterInput("c")
	if len(e.Visible()) != 1 {
		t.Fatalf("first keystroke should apply immediately")
	}

	e.FilterInput("ca")
	e.FilterInput("cat")
	manual.Advance(catalog.DefaultDebounceDelay)
	if len(e.Visible()) != 1 || e.Visible()[0].Name != "cat.jpg" {
		t.Fatalf("debounced input should settle on final text")
	}

	e.FilterClear()
	if len(e.Visible()) != 2 {
		t.Fatalf("clear should restore full visibility")
	}
}

func TestRefreshAfterRemoteChangeTurnsCellsOver(t *testing.T) {
	api := newFakeAPI()
	api.lists["photos"] = dirListing(10, "a.jpg")
	e, _ := newEngine(t, api)
	e.SetDir(context.Background(), "photos")

	api.lists["photos"] = dirListing(20, "b.jpg")
	if err := e.Refresh(context.Background(), false); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if _, ok := e.Grid().Cell("photos/a.jpg"); ok {
		t.Fatalf("departed item must lose its cell")
	}
	if _, ok := e.Grid().Cell("photos/b.jpg"); !ok {
		t.Fatalf("new item must gain a cell")
	}
}

func TestOpenKeyRespectsFilter(t *testing.T) {
	api := newFakeAPI()
	api.lists["photos"] = dirListing(10, "cat.jpg", "dog.jpg")
	e, _ := newEngine(t, api)
	e.SetDir(context.Background(), "photos")
	e.SetQuery("dog")

	if e.OpenKey("photos/cat.jpg") {
		t.Fatalf("filtered-out item must not open")
	}
	if !e.OpenKey("photos/dog.jpg") {
		t.Fatalf("visible item should open")
	}
	cur, ok := e.Viewer().Current()
	if !ok || cur.Name != "dog.jpg" {
		t.Fatalf("viewer should sit on dog.jpg")
	}
}

func TestRecursiveParamsGroupBySourceDir(t *testing.T) {
	api := newFakeAPI()
	api.tree = []mgrid.TreeNode{{
		Path: "root", Name: "root",
		Dirs: []mgrid.TreeNode{{Path: "root/b", Name: "b"}, {Path: "root/a", Name: "a"}},
	}}
	api.lists["root"] = dirListing(1)
	api.lists["root/a"] = dirListing(1, "2.jpg", "1.jpg")
	api.lists["root/b"] = dirListing(1, "2.jpg", "1.jpg")
	e, _ := newEngine(t, api)
	e.SetDir(context.Background(), "root")

	p := e.Params()
	p.Recursive = true
	p.GroupByDir = true
	if err := e.SetParams(context.Background(), p); err != nil {
		t.Fatalf("set params: %v", err)
	}

	keys := make([]string, 0, 4)
	for _, it := range e.Visible() {
		keys = append(keys, it.Key)
	}
	want := []string{"root/a/1.jpg", "root/a/2.jpg", "root/b/1.jpg", "root/b/2.jpg"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, keys)
		}
	}
	if !e.Sequence().Grouped() {
		t.Fatalf("expected grouping metadata")
	}
}
