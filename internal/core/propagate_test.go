package core

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPropagate_Idempotent(t *testing.T) {
	tr := newScenarioTree()
	if err := tr.UpdateValues(KindType, map[string]string{"t1": "10.25", "t3": "-0.25"}); err != nil {
		t.Fatal(err)
	}
	first := tr.Project(ProjectHierarchical)
	tr.Propagate()
	second := tr.Project(ProjectHierarchical)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("second propagation changed output (-first +second):\n%s", diff)
	}
}

func TestPropagate_ZeroLeaves(t *testing.T) {
	tr := newScenarioTree()
	if err := tr.UpdateValues(KindType, map[string]string{"t1": "", "t2": "", "t3": ""}); err != nil {
		t.Fatal(err)
	}
	for _, c := range []struct {
		kind Kind
		ids  []string
	}{
		{KindItem, []string{"i1", "i2"}},
		{KindSection, []string{"s1", "s2"}},
		{KindChapter, []string{"c1"}},
	} {
		for _, id := range c.ids {
			if got := tr.Value(c.kind, id); got != "0" {
				t.Fatalf("%v %s = %q, want \"0\"", c.kind, id, got)
			}
		}
	}
	if !tr.Project(ProjectHierarchical).Empty() {
		t.Fatal("all-zero tree should project empty lists")
	}
}

func TestPropagate_DanglingChildrenContributeZero(t *testing.T) {
	tr := NewTree()
	tr.InitializeIDs([]string{"c"}, []string{"s"}, []string{"i"}, []string{"t"})
	tr.LinkHierarchy(
		map[string][]string{"i": {"t", "missing-type"}},
		map[string][]string{"s": {"i", "missing-item"}},
		map[string][]string{"c": {"s", "missing-section"}},
	)
	if err := tr.UpdateValues(KindType, map[string]string{"t": "7"}); err != nil {
		t.Fatal(err)
	}
	if got := tr.Value(KindChapter, "c"); got != "7" {
		t.Fatalf("chapter = %q, want 7", got)
	}
}

func TestPropagate_RepeatedChildCountsEachTime(t *testing.T) {
	tr := NewTree()
	tr.InitializeIDs(nil, nil, []string{"i"}, []string{"t"})
	tr.LinkHierarchy(map[string][]string{"i": {"t", "t"}}, nil, nil)
	if err := tr.UpdateValues(KindType, map[string]string{"t": "1.5"}); err != nil {
		t.Fatal(err)
	}
	if got := tr.Value(KindItem, "i"); got != "3" {
		t.Fatalf("item = %q, want 3", got)
	}
}

func TestAggregates_UnknownParent(t *testing.T) {
	tr := newScenarioTree()
	if tr.ItemValue("nope") != 0 || tr.SectionValue("nope") != 0 || tr.ChapterValue("nope") != 0 {
		t.Fatal("unknown parents should sum to zero")
	}
}

// TestPropagate_SummationCorrectness checks every level against an
// independent recomputation on a randomly filled tree.
func TestPropagate_SummationCorrectness(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tr := NewTree()

	var chapters, sections, items, types []string
	typeLinks := map[string][]string{}
	itemLinks := map[string][]string{}
	sectionLinks := map[string][]string{}
	for c := 0; c < 3; c++ {
		cid := fmt.Sprintf("c%d", c)
		chapters = append(chapters, cid)
		for s := 0; s < 3; s++ {
			sid := fmt.Sprintf("%s.s%d", cid, s)
			sections = append(sections, sid)
			sectionLinks[cid] = append(sectionLinks[cid], sid)
			for i := 0; i < 3; i++ {
				iid := fmt.Sprintf("%s.i%d", sid, i)
				items = append(items, iid)
				itemLinks[sid] = append(itemLinks[sid], iid)
				for ty := 0; ty < 4; ty++ {
					tid := fmt.Sprintf("%s.t%d", iid, ty)
					types = append(types, tid)
					typeLinks[iid] = append(typeLinks[iid], tid)
				}
			}
		}
	}
	tr.InitializeIDs(chapters, sections, items, types)
	tr.LinkHierarchy(typeLinks, itemLinks, sectionLinks)

	values := map[string]string{}
	for _, id := range types {
		switch rng.Intn(4) {
		case 0:
			values[id] = ""
		case 1:
			values[id] = "n/a"
		default:
			values[id] = FormatValue(float64(rng.Intn(100000)) / 100)
		}
	}
	if err := tr.UpdateValues(KindType, values); err != nil {
		t.Fatal(err)
	}

	sumOf := func(kind Kind, ids []string) float64 {
		var total float64
		for _, id := range ids {
			total += ParseNumericOrZero(tr.Value(kind, id))
		}
		return total
	}
	for _, id := range items {
		if want := FormatValue(sumOf(KindType, typeLinks[id])); tr.Value(KindItem, id) != want {
			t.Fatalf("item %s = %q, want %q", id, tr.Value(KindItem, id), want)
		}
	}
	for _, id := range sections {
		if want := FormatValue(sumOf(KindItem, itemLinks[id])); tr.Value(KindSection, id) != want {
			t.Fatalf("section %s = %q, want %q", id, tr.Value(KindSection, id), want)
		}
	}
	for _, id := range chapters {
		if want := FormatValue(sumOf(KindSection, sectionLinks[id])); tr.Value(KindChapter, id) != want {
			t.Fatalf("chapter %s = %q, want %q", id, tr.Value(KindChapter, id), want)
		}
	}
}
