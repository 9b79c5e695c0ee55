package core

// registry is an insertion-ordered set of nodes keyed by id.
type registry struct {
	order []string
	nodes map[string]*Node
}

func newRegistry() *registry {
	return &registry{nodes: make(map[string]*Node)}
}

// put stores n, keeping the original position when the id already exists.
func (r *registry) put(n *Node) {
	if _, exists := r.nodes[n.ID]; !exists {
		r.order = append(r.order, n.ID)
	}
	r.nodes[n.ID] = n
}

func (r *registry) get(id string) (*Node, bool) {
	n, ok := r.nodes[id]
	return n, ok
}

func (r *registry) len() int {
	return len(r.order)
}

// each calls fn for every node in insertion order.
func (r *registry) each(fn func(*Node)) {
	for _, id := range r.order {
		fn(r.nodes[id])
	}
}
