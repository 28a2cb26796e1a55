package catalog

import (
	"testing"

	"github.com/tkarls/mediagrid/pkg/mgrid"
)

func item(dir, name, kind string, mtime float64, size int64) Item {
	return NewItem(dir, mgrid.FileEntry{Name: name, Type: kind, MTime: mtime, Size: size})
}

func keysOf(seq Sequence) []string {
	keys := make([]string, 0, len(seq.Items))
	for _, it := range seq.Items {
		keys = append(keys, it.Key)
	}
	return keys
}

func wantKeys(t *testing.T, seq Sequence, want ...string) {
	t.Helper()
	got := keysOf(seq)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestDeriveGroupedNameSort(t *testing.T) {
	items := []Item{
		item("b", "2.jpg", mgrid.KindImage, 0, 0),
		item("b", "1.jpg", mgrid.KindImage, 0, 0),
		item("a", "2.jpg", mgrid.KindImage, 0, 0),
		item("a", "1.jpg", mgrid.KindImage, 0, 0),
	}
	seq := Derive(items, Params{MediaType: MediaAll, Recursive: true, GroupByDir: true, Sort: SortName, Ascending: true})
	wantKeys(t, seq, "a/1.jpg", "a/2.jpg", "b/1.jpg", "b/2.jpg")
	if !seq.Grouped() || len(seq.GroupOrder) != 2 || seq.GroupOrder[0] != "a" {
		t.Fatalf("unexpected grouping %+v", seq.GroupOrder)
	}
	if len(seq.Groups["b"]) != 2 {
		t.Fatalf("unexpected group membership %+v", seq.Groups)
	}
}

func TestDeriveGroupKeysMarkerTransparent(t *testing.T) {
	encoded := mgrid.OSPathMarker + "b"
	items := []Item{
		item("c", "x.jpg", mgrid.KindImage, 0, 0),
		item(encoded, "x.jpg", mgrid.KindImage, 0, 0),
		item("a", "x.jpg", mgrid.KindImage, 0, 0),
	}
	seq := Derive(items, Params{MediaType: MediaAll, Recursive: true, GroupByDir: true, Sort: SortName, Ascending: true})
	if seq.GroupOrder[0] != "a" || seq.GroupOrder[1] != encoded || seq.GroupOrder[2] != "c" {
		t.Fatalf("encoded group key not interleaved: %v", seq.GroupOrder)
	}
}

func TestDeriveMediaTypeFilter(t *testing.T) {
	items := []Item{
		item("d", "a.jpg", mgrid.KindImage, 0, 0),
		item("d", "b.mp4", mgrid.KindVideo, 0, 0),
	}
	seq := Derive(items, Params{MediaType: MediaVideos, Sort: SortName, Ascending: true})
	wantKeys(t, seq, "d/b.mp4")
	if seq.Grouped() {
		t.Fatalf("flat derivation must not carry groups")
	}
}

func TestDeriveNumericSortDescending(t *testing.T) {
	items := []Item{
		item("d", "old.jpg", mgrid.KindImage, 10, 5),
		item("d", "new.jpg", mgrid.KindImage, 30, 1),
		item("d", "mid.jpg", mgrid.KindImage, 20, 9),
	}
	seq := Derive(items, Params{MediaType: MediaAll, Sort: SortMTime, Ascending: false})
	wantKeys(t, seq, "d/new.jpg", "d/mid.jpg", "d/old.jpg")

	seq = Derive(items, Params{MediaType: MediaAll, Sort: SortSize, Ascending: true})
	wantKeys(t, seq, "d/new.jpg", "d/old.jpg", "d/mid.jpg")
}

func TestDeriveStableOnTies(t *testing.T) {
	items := []Item{
		item("d", "b.jpg", mgrid.KindImage, 7, 0),
		item("d", "a.jpg", mgrid.KindImage, 7, 0),
		item("d", "c.jpg", mgrid.KindImage, 7, 0),
	}
	seq := Derive(items, Params{MediaType: MediaAll, Sort: SortMTime, Ascending: true})
	wantKeys(t, seq, "d/b.jpg", "d/a.jpg", "d/c.jpg")
}

func TestDeriveIdempotent(t *testing.T) {
	items := []Item{
		item("b", "2.jpg", mgrid.KindImage, 2, 2),
		item("a", "1.jpg", mgrid.KindVideo, 1, 1),
		item("a", "3.jpg", mgrid.KindImage, 3, 3),
	}
	p := Params{MediaType: MediaAll, Recursive: true, GroupByDir: true, Sort: SortName, Ascending: true}
	first := keysOf(Derive(items, p))
	second := keysOf(Derive(items, p))
	if len(first) != len(second) {
		t.Fatalf("membership differs: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("order differs at %d: %v vs %v", i, first, second)
		}
	}
}
