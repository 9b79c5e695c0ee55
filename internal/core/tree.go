package core

// Tree is a four-level budget classification: chapters hold sections, sections
// hold items, items hold types. Only type values are loaded from outside;
// every other value is computed by Propagate.
//
// A Tree is built per source document and is not safe for concurrent use.
type Tree struct {
	chapters *registry
	sections *registry
	items    *registry
	types    *registry
	state    State
}

// NewTree returns an empty, unpropagated tree.
func NewTree() *Tree {
	return &Tree{
		chapters: newRegistry(),
		sections: newRegistry(),
		items:    newRegistry(),
		types:    newRegistry(),
	}
}

// InitializeStructure registers every entry with an empty value and no
// children. Calling it with empty slices leaves the tree empty.
func (t *Tree) InitializeStructure(chapters, sections, items, types []Entry) {
	for _, e := range types {
		t.types.put(&Node{ID: e.ID, Name: e.Name})
	}
	for _, e := range items {
		t.items.put(&Node{ID: e.ID, Name: e.Name})
	}
	for _, e := range sections {
		t.sections.put(&Node{ID: e.ID, Name: e.Name})
	}
	for _, e := range chapters {
		t.chapters.put(&Node{ID: e.ID, Name: e.Name})
	}
}

// InitializeIDs is InitializeStructure for callers that have ids but no
// display names.
func (t *Tree) InitializeIDs(chapters, sections, items, types []string) {
	t.InitializeStructure(idEntries(chapters), idEntries(sections), idEntries(items), idEntries(types))
}

func idEntries(ids []string) []Entry {
	out := make([]Entry, 0, len(ids))
	for _, id := range ids {
		out = append(out, Entry{ID: id})
	}
	return out
}

// LinkHierarchy sets the child lists. Each map goes from a parent id to its
// ordered child ids: typeToItem is keyed by item id, itemToSection by section
// id and sectionToChapter by chapter id. Parents missing from their registry
// are ignored and child ids are not checked; a child that does not exist
// simply contributes nothing when values are summed.
func (t *Tree) LinkHierarchy(typeToItem, itemToSection, sectionToChapter map[string][]string) {
	link(t.items, typeToItem)
	link(t.sections, itemToSection)
	link(t.chapters, sectionToChapter)
}

func link(parents *registry, children map[string][]string) {
	for parentID, childIDs := range children {
		parent, ok := parents.get(parentID)
		if !ok {
			continue
		}
		parent.Children = append([]string(nil), childIDs...)
	}
}

// UpdateValues overwrites the value of every node of the selected registry
// whose id appears in values. Values are stored verbatim; unknown ids are
// ignored. Loading types propagates immediately.
func (t *Tree) UpdateValues(kind Kind, values map[string]string) error {
	reg, err := t.registry(kind)
	if err != nil {
		return err
	}
	for id, v := range values {
		if n, ok := reg.get(id); ok {
			n.Value = v
		}
	}
	if kind == KindType {
		t.Propagate()
		return nil
	}
	t.state = Unpropagated
	return nil
}

// UpdateValuesByName is UpdateValues with the registry given by name
// ("chapters", "sections", "items" or "types").
func (t *Tree) UpdateValuesByName(name string, values map[string]string) error {
	kind, err := ParseKind(name)
	if err != nil {
		return err
	}
	return t.UpdateValues(kind, values)
}

// Node returns a copy of the node with the given id in the selected registry.
func (t *Tree) Node(kind Kind, id string) (Node, bool) {
	reg, err := t.registry(kind)
	if err != nil {
		return Node{}, false
	}
	n, ok := reg.get(id)
	if !ok {
		return Node{}, false
	}
	out := *n
	out.Children = append([]string(nil), n.Children...)
	return out, true
}

// Value returns the stored value of a node, or "" if it does not exist.
func (t *Tree) Value(kind Kind, id string) string {
	n, ok := t.Node(kind, id)
	if !ok {
		return ""
	}
	return n.Value
}

// Len returns the number of nodes in the selected registry.
func (t *Tree) Len(kind Kind) int {
	reg, err := t.registry(kind)
	if err != nil {
		return 0
	}
	return reg.len()
}

// State reports whether non-leaf values are current.
func (t *Tree) State() State {
	return t.state
}

func (t *Tree) registry(kind Kind) (*registry, error) {
	switch kind {
	case KindChapter:
		return t.chapters, nil
	case KindSection:
		return t.sections, nil
	case KindItem:
		return t.items, nil
	case KindType:
		return t.types, nil
	default:
		return nil, &InvalidRegistryError{Name: kind.String()}
	}
}
