package core

import "encoding/json"

// ProjectionMode selects what Project renders.
type ProjectionMode int

const (
	// ProjectSummary renders the four per-level lists.
	ProjectSummary ProjectionMode = iota
	// ProjectHierarchical also renders one row per non-zero type with its
	// full ancestor chain.
	ProjectHierarchical
)

type (
	// NodeView is a non-zero node as rendered for consumers.
	NodeView struct {
		ID    string `json:"id"`
		Name  string `json:"name,omitempty"`
		Value string `json:"value"`
	}

	// HierarchicalRow links a non-zero type to its item, section and chapter.
	// Ancestors that cannot be resolved are empty.
	HierarchicalRow struct {
		ChapterID string `json:"chapter_id"`
		SectionID string `json:"section_id"`
		ItemID    string `json:"item_id"`
		TypeID    string `json:"type_id"`
		Name      string `json:"name"`
		Value     string `json:"value"`
	}

	// Result is the rendered tree. The four lists are never nil so they encode
	// as empty JSON arrays. HierarchicalRows is nil only for summary
	// projections and error results.
	Result struct {
		Chapters         []NodeView        `json:"chapters"`
		Sections         []NodeView        `json:"sections"`
		Items            []NodeView        `json:"items"`
		Types            []NodeView        `json:"types"`
		HierarchicalRows []HierarchicalRow `json:"hierarchical_rows,omitempty"`
		Error            string            `json:"error,omitempty"`
	}
)

// MarshalJSON keeps "hierarchical_rows" whenever rows were projected, so a
// hierarchical projection with no non-zero types still encodes it as [].
func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	if r.HierarchicalRows == nil {
		return json.Marshal(plain(r))
	}
	return json.Marshal(struct {
		plain
		HierarchicalRows []HierarchicalRow `json:"hierarchical_rows"`
	}{plain(r), r.HierarchicalRows})
}

func newResult() *Result {
	return &Result{
		Chapters: []NodeView{},
		Sections: []NodeView{},
		Items:    []NodeView{},
		Types:    []NodeView{},
	}
}

// ErrorResult is the result returned in place of a tree when processing
// fails: empty lists plus the error message.
func ErrorResult(err error) *Result {
	r := newResult()
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// Empty reports whether no node was rendered.
func (r *Result) Empty() bool {
	return len(r.Chapters) == 0 && len(r.Sections) == 0 && len(r.Items) == 0 && len(r.Types) == 0
}

// Project renders every node whose value parses to a non-zero number, in
// registry order. It never mutates the tree and is meaningful once the tree
// has been propagated.
//
// For hierarchical rows each type is mapped back to one owning item (and so
// on upwards). If an id is listed under more than one parent the last parent
// in registry order wins; callers must not rely on which one.
func (t *Tree) Project(mode ProjectionMode) *Result {
	r := newResult()
	r.Chapters = nonZero(t.chapters)
	r.Sections = nonZero(t.sections)
	r.Items = nonZero(t.items)
	r.Types = nonZero(t.types)

	if mode == ProjectHierarchical {
		r.HierarchicalRows = t.hierarchicalRows()
	}
	return r
}

func nonZero(reg *registry) []NodeView {
	out := []NodeView{}
	reg.each(func(n *Node) {
		if IsNonZero(n.Value) {
			out = append(out, NodeView{ID: n.ID, Name: n.Name, Value: n.Value})
		}
	})
	return out
}

func (t *Tree) hierarchicalRows() []HierarchicalRow {
	typeToItem := parentIndex(t.items)
	itemToSection := parentIndex(t.sections)
	sectionToChapter := parentIndex(t.chapters)

	rows := []HierarchicalRow{}
	t.types.each(func(n *Node) {
		if !IsNonZero(n.Value) {
			return
		}
		itemID := typeToItem[n.ID]
		sectionID := itemToSection[itemID]
		rows = append(rows, HierarchicalRow{
			ChapterID: sectionToChapter[sectionID],
			SectionID: sectionID,
			ItemID:    itemID,
			TypeID:    n.ID,
			Name:      n.Name,
			Value:     n.Value,
		})
	})
	return rows
}

// parentIndex inverts the child lists of a registry.
func parentIndex(parents *registry) map[string]string {
	idx := make(map[string]string)
	parents.each(func(p *Node) {
		for _, childID := range p.Children {
			idx[childID] = p.ID
		}
	})
	return idx
}
