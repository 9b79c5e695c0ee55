package catalog

import (
	"fmt"
	"sort"

	"budgetsheet/internal/core"
)

// Issue is a structural inconsistency in a catalog. None of them prevent a
// tree from being built: dangling links and unplaced types just contribute
// nothing.
type Issue struct {
	Level   core.Kind
	ID      string
	Problem string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s %s: %s", i.Level, i.ID, i.Problem)
}

// Check reports duplicate ids, links to unknown parents or children, nodes
// no parent refers to, and layout cells pointing at unknown types.
func (c *Catalog) Check() []Issue {
	var issues []Issue

	chapters := indexEntries(core.KindChapter, c.Chapters, &issues)
	sections := indexEntries(core.KindSection, c.Sections, &issues)
	items := indexEntries(core.KindItem, c.Items, &issues)
	types := indexEntries(core.KindType, c.Types, &issues)

	linkedTypes := checkLinks(core.KindItem, core.KindType, c.Links.Items, items, types, &issues)
	linkedItems := checkLinks(core.KindSection, core.KindItem, c.Links.Sections, sections, items, &issues)
	linkedSections := checkLinks(core.KindChapter, core.KindSection, c.Links.Chapters, chapters, sections, &issues)

	unlinked(core.KindType, c.Types, linkedTypes, "not listed under any item", &issues)
	unlinked(core.KindItem, c.Items, linkedItems, "not listed under any section", &issues)
	unlinked(core.KindSection, c.Sections, linkedSections, "not listed under any chapter", &issues)

	placed := make(map[string]bool)
	seenCells := make(map[[2]int]string)
	for _, cell := range c.Layout.Cells {
		if !types[cell.TypeID] {
			issues = append(issues, Issue{Level: core.KindType, ID: cell.TypeID, Problem: fmt.Sprintf("layout cell (%d,%d) refers to an unknown type", cell.Row, cell.Col)})
		}
		if cell.Row < 0 || cell.Col < 1 {
			issues = append(issues, Issue{Level: core.KindType, ID: cell.TypeID, Problem: fmt.Sprintf("layout cell (%d,%d) is out of range", cell.Row, cell.Col)})
		}
		key := [2]int{cell.Row, cell.Col}
		if other, dup := seenCells[key]; dup {
			issues = append(issues, Issue{Level: core.KindType, ID: cell.TypeID, Problem: fmt.Sprintf("layout cell (%d,%d) already holds %s", cell.Row, cell.Col, other)})
		}
		seenCells[key] = cell.TypeID
		placed[cell.TypeID] = true
	}
	unlinked(core.KindType, c.Types, placed, "has no layout cell", &issues)

	return issues
}

func indexEntries(kind core.Kind, entries []core.Entry, issues *[]Issue) map[string]bool {
	idx := make(map[string]bool, len(entries))
	for _, e := range entries {
		if idx[e.ID] {
			*issues = append(*issues, Issue{Level: kind, ID: e.ID, Problem: "duplicate id"})
		}
		idx[e.ID] = true
	}
	return idx
}

func checkLinks(parentKind, childKind core.Kind, links map[string][]string, parents, children map[string]bool, issues *[]Issue) map[string]bool {
	linked := make(map[string]bool)
	for _, parentID := range sortedKeys(links) {
		if !parents[parentID] {
			*issues = append(*issues, Issue{Level: parentKind, ID: parentID, Problem: "links from an unknown parent"})
		}
		for _, childID := range links[parentID] {
			if !children[childID] {
				*issues = append(*issues, Issue{Level: childKind, ID: childID, Problem: fmt.Sprintf("listed under %s but not defined", parentID)})
			}
			linked[childID] = true
		}
	}
	return linked
}

func unlinked(kind core.Kind, entries []core.Entry, linked map[string]bool, problem string, issues *[]Issue) {
	for _, e := range entries {
		if !linked[e.ID] {
			*issues = append(*issues, Issue{Level: kind, ID: e.ID, Problem: problem})
		}
	}
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
