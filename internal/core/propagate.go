package core

// ItemValue sums the numeric values of the item's types.
func (t *Tree) ItemValue(itemID string) float64 {
	return sumChildren(t.items, t.types, itemID)
}

// SectionValue sums the current values of the section's items.
func (t *Tree) SectionValue(sectionID string) float64 {
	return sumChildren(t.sections, t.items, sectionID)
}

// ChapterValue sums the current values of the chapter's sections.
func (t *Tree) ChapterValue(chapterID string) float64 {
	return sumChildren(t.chapters, t.sections, chapterID)
}

// Propagate recomputes items, then sections, then chapters. Each level reads
// the values the previous step just wrote, so the order is fixed.
func (t *Tree) Propagate() {
	t.items.each(func(n *Node) {
		n.Value = FormatValue(t.ItemValue(n.ID))
	})
	t.sections.each(func(n *Node) {
		n.Value = FormatValue(t.SectionValue(n.ID))
	})
	t.chapters.each(func(n *Node) {
		n.Value = FormatValue(t.ChapterValue(n.ID))
	})
	t.state = Propagated
}

func sumChildren(parents, children *registry, parentID string) float64 {
	parent, ok := parents.get(parentID)
	if !ok {
		return 0
	}
	var total float64
	for _, childID := range parent.Children {
		child, ok := children.get(childID)
		if !ok {
			continue
		}
		total += ParseNumericOrZero(child.Value)
	}
	return total
}
