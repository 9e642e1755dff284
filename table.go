package openmethod

// buildTable computes strides, allocates the dispatch table, fills every
// entry by intersecting the per-dimension group bitmasks and selecting
// the best applicable override (or a trampoline), and then writes each
// concrete class's group index into its per-class index vector.
func buildTable(m *Method) {
	k := m.Arity()
	m.strides = make([]int, k)
	size := 1
	for i := 0; i < k; i++ {
		m.strides[i] = size
		size *= m.groupCount(i)
	}
	m.dispatchTable = make([]OverrideFunc, size)

	dims := make([]int, k)
	for {
		offset := 0
		mask := fullMask(len(m.overrides))
		for i := 0; i < k; i++ {
			offset += dims[i] * m.strides[i]
			mask = mask.and(m.groupMask[i][dims[i]])
		}
		m.dispatchTable[offset] = resolveEntry(m, mask)

		if !advance(dims, m, k) {
			break
		}
	}

	fillIndexVectors(m)
}

// fullMask returns a bitmask with exactly the low n bits set.
func fullMask(n int) bitset {
	b := newBitset(n)
	for i := 0; i < n; i++ {
		b.set(i)
	}
	return b
}

// advance increments the mixed-radix digit counter dims over the per-
// dimension group counts, returning false once every combination has been
// visited.
func advance(dims []int, m *Method, k int) bool {
	for i := 0; i < k; i++ {
		dims[i]++
		if dims[i] < m.groupCount(i) {
			return true
		}
		dims[i] = 0
	}
	return false
}

// resolveEntry picks the dispatch table filler for a combination of
// groups given the intersected bitmask of applicable overrides.
func resolveEntry(m *Method, mask bitset) OverrideFunc {
	var candidates []*Override
	for _, idx := range mask.indices() {
		candidates = append(candidates, m.overrides[idx])
	}
	if len(candidates) == 0 {
		return m.throwUndefined
	}
	b := best(candidates)
	if len(b) != 1 {
		return m.throwAmbiguous
	}
	return b[0].fn
}

// fillIndexVectors writes, for every concrete class conforming to each
// declared virtual parameter type, that class's group index at the slot
// reserved for this method's parameter. Classes whose slot at this
// position was only reserved via flood propagation (never a genuine
// conformer) keep whatever zero-value filler Runtime.Update's allocation left
// behind — they can never be the dynamic type passed at this position in
// a well-typed call, so that entry is never read.
func fillIndexVectors(m *Method) {
	for i := 0; i < m.Arity(); i++ {
		slot := m.slots[i]
		for x, g := range m.groupOf[i] {
			x.indexVector[slot-x.firstUsedSlot] = g
		}
	}
}
