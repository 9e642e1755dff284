package openmethod

// moreSpecific reports whether override a is more specific than override
// b: a's parameter class is assignable to (or equal to) b's at every
// position, and strictly more specific — a proper descendant — at at
// least one.
func moreSpecific(a, b *Override) bool {
	strictlyAtOne := false
	for i := range a.params {
		pa, pb := a.params[i], b.params[i]
		if !pa.conformsTo(pb) {
			return false
		}
		if pa != pb {
			strictlyAtOne = true
		}
	}
	return strictlyAtOne
}

// best computes the maximal antichain of candidates under moreSpecific:
// the set of overrides not dominated by any other candidate. Because
// moreSpecific is a strict partial order (transitive, irreflexive), a
// single left-to-right pass suffices — if some kept element already
// dominates a later candidate, nothing already discarded could have
// dominated that candidate without the surviving element dominating it
// too.
func best(candidates []*Override) []*Override {
	var kept []*Override
	for _, c := range candidates {
		dominated := false
		next := kept[:0]
		for _, k := range kept {
			switch {
			case moreSpecific(k, c):
				dominated = true
				next = append(next, k)
			case moreSpecific(c, k):
				// k is dominated by c; drop it.
			default:
				next = append(next, k)
			}
		}
		kept = next
		if !dominated {
			kept = append(kept, c)
		}
	}
	return kept
}

// findNext computes the unique next-most-specific override relative to
// spec among all of its method's overrides, or nil if there is none or
// more than one (ambiguous next).
func findNext(spec *Override, all []*Override) *Override {
	var candidates []*Override
	for _, other := range all {
		if other == spec {
			continue
		}
		if moreSpecific(spec, other) {
			candidates = append(candidates, other)
		}
	}
	b := best(candidates)
	if len(b) == 1 {
		return b[0]
	}
	return nil
}
