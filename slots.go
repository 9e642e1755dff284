package openmethod

// allocateSlots assigns one integer slot per (method, virtual-parameter)
// to its declaring class, in layered (bases-first) order, then propagates
// the reservation through the declaring class's conforming cone and
// onward through any ancestors reached along the way.
//
// Two unrelated classes that share no common descendant may end up with
// the same slot number for different methods — their index arrays never
// need to disagree about what that slot means. Two classes that could
// ever be the same concrete object (because some descendant inherits from
// both) always get different slots, because the flood below reaches both
// declaring classes and bumps whichever is assigned second past the
// first's slot number.
func allocateSlots(classes []*classNode) {
	for _, c := range classes {
		for _, ref := range c.methodParams {
			slot := c.nextSlot
			c.nextSlot++
			c.reserve(slot) // also sets firstUsedSlot if this is c's first
			ref.method.slots[ref.param] = slot
			propagateReservation(c, slot)
		}
	}
}

// propagateReservation performs the paired up/down walk described in the
// design: starting from the declaring class v, every direct-derived not
// yet visited reserves slot and then itself walks its own bases (up) and
// deriveds (down), so the flood can cross into an entirely different
// branch of the hierarchy through a common descendant of v.
func propagateReservation(v *classNode, slot int) {
	visited := map[*classNode]bool{v: true}
	var walkDown, walkUp func(n *classNode)

	walkDown = func(n *classNode) {
		for _, d := range n.directDerived {
			if visited[d] {
				continue
			}
			visited[d] = true
			d.reserve(slot)
			walkUp(d)
			walkDown(d)
		}
	}
	walkUp = func(n *classNode) {
		for _, b := range n.directBases {
			if visited[b] {
				continue
			}
			visited[b] = true
			b.reserve(slot)
			walkUp(b)
			walkDown(b)
		}
	}
	walkDown(v)
}
