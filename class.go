package openmethod

import "sort"

// noSlot is the sentinel value for classNode.firstUsedSlot meaning "this
// class has never had a slot reserved".
const noSlot = -1

// methodParamRef records that a classNode is the declared virtual type
// for one (method, parameter-position) pair.
type methodParamRef struct {
	method *Method
	param  int
}

// classNode is a participating class in the hierarchy relevant to the
// registered methods. It is the internal counterpart to the caller-owned
// ClassDescriptor: the side table in Runtime maps descriptors to nodes
// (see Runtime.nodeFor), since spec'd class descriptors are not writable
// and we cannot stash an index-vector pointer on them directly.
type classNode struct {
	descriptor ClassDescriptor
	name       string
	isConcrete bool

	directBases   []*classNode
	directDerived []*classNode

	// conforming is the set of classes assignable to this one: the class
	// itself plus every transitive descendant. Invariant: the node is
	// always its own member.
	conforming map[*classNode]struct{}

	nextSlot      int
	firstUsedSlot int

	methodParams []methodParamRef

	// indexVector is this class's compact per-class index array, length
	// nextSlot-firstUsedSlot, allocated as its own slice by Runtime.Update
	// (there is no shared global index vector). Filled by the table builder.
	indexVector []int
}

func newClassNode(desc ClassDescriptor, info ClassInfo) *classNode {
	return &classNode{
		descriptor:    desc,
		name:          info.Name(),
		isConcrete:    info.IsConcrete(),
		conforming:    map[*classNode]struct{}{},
		firstUsedSlot: noSlot,
	}
}

// conformsTo reports whether n is in the conforming set of other, i.e.
// whether n is assignable to other.
func (n *classNode) conformsTo(other *classNode) bool {
	_, ok := other.conforming[n]
	return ok
}

// reserve bumps the class's slot bookkeeping to account for slot being
// taken somewhere in its inheritance neighborhood, without the class
// necessarily storing real group data there (see slots.go).
func (n *classNode) reserve(slot int) {
	if slot+1 > n.nextSlot {
		n.nextSlot = slot + 1
	}
	if n.firstUsedSlot == noSlot || slot < n.firstUsedSlot {
		n.firstUsedSlot = slot
	}
}

// sortedConcreteConforming returns the concrete classes in n's conforming
// set, ordered by name for deterministic group numbering.
func (n *classNode) sortedConcreteConforming() []*classNode {
	out := make([]*classNode, 0, len(n.conforming))
	for c := range n.conforming {
		if c.isConcrete {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// ---------------------------------------------------------------------------
// Class graph builder: seed, scoop, initBases, layer
// ---------------------------------------------------------------------------

// graphBuilder materializes the participating class DAG from the set of
// methods' declared virtual parameter types (the seeds) and an external
// enumeration of all classes with their direct bases and interfaces.
type graphBuilder struct {
	introspector Introspector
	nodes        map[ClassDescriptor]*classNode
	seeds        map[ClassDescriptor]bool
	relevant     map[ClassDescriptor]bool // scoop memoization
}

func newGraphBuilder(introspector Introspector) *graphBuilder {
	return &graphBuilder{
		introspector: introspector,
		nodes:        map[ClassDescriptor]*classNode{},
		seeds:        map[ClassDescriptor]bool{},
		relevant:     map[ClassDescriptor]bool{},
	}
}

// seed creates or fetches the classNode for a declared virtual parameter
// type and marks it as a seed for scoop.
func (b *graphBuilder) seed(desc ClassDescriptor) *classNode {
	b.seeds[desc] = true
	return b.nodeFor(desc)
}

func (b *graphBuilder) nodeFor(desc ClassDescriptor) *classNode {
	if n, ok := b.nodes[desc]; ok {
		return n
	}
	n := newClassNode(desc, b.introspector.Info(desc))
	b.nodes[desc] = n
	return n
}

// scoop recursively visits base classes and interfaces, adding a class to
// the participating set iff one of its ancestors is already participating
// (seeded, or itself reachable from a seed). Returns true iff desc ends up
// participating.
func (b *graphBuilder) scoop(desc ClassDescriptor) bool {
	if v, ok := b.relevant[desc]; ok {
		return v
	}
	if b.seeds[desc] {
		b.relevant[desc] = true
		return true
	}
	// Guard against revisiting desc while its own ancestor chain is being
	// resolved. A diamond never reads this placeholder (the shared ancestor
	// is fully resolved and memoized before its second visit); only a cyclic
	// graph, which the host type system rules out, re-enters here, and the
	// placeholder stops the recursion instead of looping forever.
	b.relevant[desc] = false

	info := b.introspector.Info(desc)
	found := false
	if base := info.DirectBase(); base != nil {
		if b.scoop(base) {
			found = true
		}
	}
	for _, iface := range info.Interfaces() {
		if b.scoop(iface) {
			found = true
		}
	}
	b.relevant[desc] = found
	if found {
		b.nodeFor(desc)
	}
	return found
}

// build runs scoop over every class the introspector knows about, wires
// directBases/directDerived between participating nodes, and returns the
// nodes in bases-before-derived layered order.
func (b *graphBuilder) build() []*classNode {
	for _, desc := range b.introspector.AllClasses() {
		b.scoop(desc)
	}
	b.initBases()
	return b.layer()
}

// initBases wires directBases/directDerived between nodes that actually
// ended up in the participating map. A class whose recorded base or
// interface is not participating simply has no edge for it — missing
// ancestors are allowed, not an error.
func (b *graphBuilder) initBases() {
	for desc, n := range b.nodes {
		info := b.introspector.Info(desc)
		var bases []ClassDescriptor
		if base := info.DirectBase(); base != nil {
			bases = append(bases, base)
		}
		bases = append(bases, info.Interfaces()...)

		for _, baseDesc := range bases {
			baseNode, ok := b.nodes[baseDesc]
			if !ok {
				continue
			}
			n.directBases = append(n.directBases, baseNode)
			baseNode.directDerived = append(baseNode.directDerived, n)
		}
	}
}

// layer performs a Kahn-style topological layering: each layer holds every
// node all of whose direct bases were emitted in a prior layer. Within a
// layer, nodes are sorted by name for deterministic output.
func (b *graphBuilder) layer() []*classNode {
	remaining := make(map[*classNode]int, len(b.nodes))
	for _, n := range b.nodes {
		remaining[n] = len(n.directBases)
	}

	var out []*classNode
	for len(remaining) > 0 {
		var ready []*classNode
		for n, count := range remaining {
			if count == 0 {
				ready = append(ready, n)
			}
		}
		if len(ready) == 0 {
			// Precluded by the host type system (no cycles), but guard
			// against an introspector that lies rather than hang forever.
			panic("openmethod: cycle detected in class graph")
		}
		sort.Slice(ready, func(i, j int) bool { return ready[i].name < ready[j].name })
		for _, n := range ready {
			delete(remaining, n)
			out = append(out, n)
			for _, d := range n.directDerived {
				remaining[d]--
			}
		}
	}
	return out
}
