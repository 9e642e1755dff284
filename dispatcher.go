package openmethod

// Call resolves and invokes m for the given arguments. Each argument must
// be non-nil and its dynamic class must conform to the method's declared
// virtual parameter type at that position — the dispatcher asserts both,
// since a violation means the front-end generated a call site that could
// never have type-checked (setup misuse, per the design, not a call-time
// failure the caller can recover from).
func (rt *Runtime) Call(m *Method, args []any) (any, error) {
	if !rt.sealed {
		panic("openmethod: Call invoked before Update")
	}
	if len(args) != m.Arity() {
		panic("openmethod: wrong argument count for " + m.name)
	}

	offset := 0
	for i, arg := range args {
		if arg == nil {
			panic("openmethod: nil virtual argument to " + m.name)
		}
		desc := rt.introspector.ClassOf(arg)
		node := rt.nodeFor(desc)
		if node == nil || !node.isConcrete || len(node.indexVector) == 0 {
			panic("openmethod: argument to " + m.name + " has an unrecognized dynamic class")
		}
		if !node.conformsTo(m.virtualParams[i]) {
			panic("openmethod: argument to " + m.name + " does not conform to its declared virtual parameter type")
		}
		slot := m.slots[i]
		group := node.indexVector[slot-node.firstUsedSlot]
		offset += group * m.strides[i]
	}

	fn := m.dispatchTable[offset]
	return fn(args)
}
