package openmethod

// buildGroups partitions, for each virtual parameter of m, the concrete
// classes conforming to the declared type into groups that select an
// identical set of applicable overrides. Classes in the same group always
// share the same coordinate on that dimension of the dispatch tensor.
func buildGroups(m *Method) {
	k := m.Arity()
	m.groupOf = make([]map[*classNode]int, k)
	m.groupMask = make([][]bitset, k)

	for i := 0; i < k; i++ {
		m.groupOf[i] = map[*classNode]int{}

		type bucket struct {
			mask    bitset
			members []*classNode
		}
		var buckets []*bucket
		byKey := map[string]int{}

		for _, x := range m.virtualParams[i].sortedConcreteConforming() {
			mask := newBitset(len(m.overrides))
			for j, ov := range m.overrides {
				if x.conformsTo(ov.params[i]) {
					mask.set(j)
				}
			}
			key := mask.key()
			g, ok := byKey[key]
			if !ok {
				g = len(buckets)
				byKey[key] = g
				buckets = append(buckets, &bucket{mask: mask})
			}
			buckets[g].members = append(buckets[g].members, x)
			m.groupOf[i][x] = g
		}

		masks := make([]bitset, len(buckets))
		for g, b := range buckets {
			masks[g] = b.mask
		}
		// A dimension with zero conforming concrete classes (declared
		// virtual type has no concrete implementor) still needs one
		// degenerate group so the tensor has a defined shape.
		if len(masks) == 0 {
			masks = []bitset{newBitset(len(m.overrides))}
		}
		m.groupMask[i] = masks
	}
}

func (m *Method) groupCount(dim int) int {
	return len(m.groupMask[dim])
}
