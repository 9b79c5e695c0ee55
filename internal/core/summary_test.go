package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestProject_Scenario(t *testing.T) {
	tr := newScenarioTree()
	if err := tr.UpdateValues(KindType, map[string]string{"t1": "10", "t2": "", "t3": "abc"}); err != nil {
		t.Fatal(err)
	}
	got := tr.Project(ProjectHierarchical)
	want := &Result{
		Chapters: []NodeView{{ID: "c1", Name: "Chapter", Value: "10"}},
		Sections: []NodeView{{ID: "s1", Name: "Section 1", Value: "10"}},
		Items:    []NodeView{{ID: "i1", Name: "Item 1", Value: "10"}},
		Types:    []NodeView{{ID: "t1", Name: "Type 1", Value: "10"}},
		HierarchicalRows: []HierarchicalRow{
			{ChapterID: "c1", SectionID: "s1", ItemID: "i1", TypeID: "t1", Name: "Type 1", Value: "10"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("projection mismatch (-want +got):\n%s", diff)
	}
}

func TestProject_SummaryOmitsRows(t *testing.T) {
	tr := newScenarioTree()
	if err := tr.UpdateValues(KindType, map[string]string{"t1": "1"}); err != nil {
		t.Fatal(err)
	}
	res := tr.Project(ProjectSummary)
	if res.HierarchicalRows != nil {
		t.Fatalf("summary projection should not carry rows: %+v", res.HierarchicalRows)
	}
	b, err := json.Marshal(res)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(b), "hierarchical_rows") {
		t.Fatalf("summary JSON should omit hierarchical_rows: %s", b)
	}
}

func TestProject_HierarchicalAllZeroKeepsRows(t *testing.T) {
	tr := NewTree()
	tr.InitializeIDs([]string{"c"}, []string{"s"}, []string{"i"}, []string{"t"})
	tr.LinkHierarchy(map[string][]string{"i": {"t"}}, map[string][]string{"s": {"i"}}, map[string][]string{"c": {"s"}})
	if err := tr.UpdateValues(KindType, map[string]string{"t": "0"}); err != nil {
		t.Fatal(err)
	}

	res := tr.Project(ProjectHierarchical)
	if res.HierarchicalRows == nil || len(res.HierarchicalRows) != 0 {
		t.Fatalf("rows = %#v, want empty non-nil slice", res.HierarchicalRows)
	}
	b, err := json.Marshal(res)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"chapters":[],"sections":[],"items":[],"types":[],"hierarchical_rows":[]}`
	if string(b) != want {
		t.Fatalf("json = %s, want %s", b, want)
	}

	var back Result
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if back.HierarchicalRows == nil {
		t.Fatal("decoded result lost hierarchical_rows")
	}
}

func TestProject_MissingAncestorsAreEmpty(t *testing.T) {
	tr := NewTree()
	tr.InitializeStructure(nil, []Entry{{ID: "s"}}, []Entry{{ID: "i"}}, []Entry{{ID: "linked", Name: "L"}, {ID: "orphan", Name: "O"}})
	tr.LinkHierarchy(map[string][]string{"i": {"linked"}}, map[string][]string{"s": {"i"}}, nil)
	if err := tr.UpdateValues(KindType, map[string]string{"linked": "1", "orphan": "2"}); err != nil {
		t.Fatal(err)
	}
	want := []HierarchicalRow{
		{ChapterID: "", SectionID: "s", ItemID: "i", TypeID: "linked", Name: "L", Value: "1"},
		{TypeID: "orphan", Name: "O", Value: "2"},
	}
	if diff := cmp.Diff(want, tr.Project(ProjectHierarchical).HierarchicalRows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestProject_SharedLeafYieldsOneChain(t *testing.T) {
	tr := NewTree()
	tr.InitializeIDs([]string{"c"}, []string{"s"}, []string{"i1", "i2"}, []string{"shared"})
	tr.LinkHierarchy(
		map[string][]string{"i1": {"shared"}, "i2": {"shared"}},
		map[string][]string{"s": {"i1", "i2"}},
		map[string][]string{"c": {"s"}},
	)
	if err := tr.UpdateValues(KindType, map[string]string{"shared": "4"}); err != nil {
		t.Fatal(err)
	}
	rows := tr.Project(ProjectHierarchical).HierarchicalRows
	if len(rows) != 1 {
		t.Fatalf("expected exactly one row, got %d", len(rows))
	}
	if rows[0].ItemID != "i1" && rows[0].ItemID != "i2" {
		t.Fatalf("row should point at one of the owning items, got %q", rows[0].ItemID)
	}
	if rows[0].SectionID != "s" || rows[0].ChapterID != "c" {
		t.Fatalf("unexpected ancestors: %+v", rows[0])
	}
	// The leaf is counted under both items.
	if got := tr.Value(KindChapter, "c"); got != "8" {
		t.Fatalf("chapter = %q, want 8", got)
	}
}

func TestProject_ExcludesUnparsableNodeValues(t *testing.T) {
	tr := NewTree()
	tr.InitializeIDs(nil, nil, nil, []string{"a", "b", "c"})
	if err := tr.UpdateValues(KindType, map[string]string{"a": "oops", "b": "0", "c": "0.5"}); err != nil {
		t.Fatal(err)
	}
	got := tr.Project(ProjectSummary).Types
	if diff := cmp.Diff([]NodeView{{ID: "c", Value: "0.5"}}, got); diff != "" {
		t.Fatalf("types mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorResult(t *testing.T) {
	res := ErrorResult(errors.New("boom"))
	b, err := json.Marshal(res)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"chapters":[],"sections":[],"items":[],"types":[],"error":"boom"}`
	if string(b) != want {
		t.Fatalf("got %s, want %s", b, want)
	}
	if !res.Empty() {
		t.Fatal("error result should be empty")
	}
}
