package openmethod

// OverrideFunc is a concrete override implementation. Arguments are
// passed positionally in declaration order; the front-end that generates
// typed call sites (out of scope here, per the design) is responsible for
// any static-type checking before values reach this function.
type OverrideFunc func(args []any) (any, error)

// Method is a registered open function name and arity. Slots, strides and
// the dispatch table are populated by Runtime.Update; before that they are
// zero-valued and the method cannot be called.
type Method struct {
	name              string
	virtualParamDescs []ClassDescriptor
	virtualParams     []*classNode // resolved by Runtime.Update
	overrides         []*Override

	slots   []int
	strides []int

	dispatchTable []OverrideFunc

	// groupOf[i] maps a concrete class conforming to virtualParams[i] to
	// its group index on dimension i.
	groupOf []map[*classNode]int
	// groupMask[i][g] is the bitmask of overrides applicable to group g
	// of dimension i.
	groupMask [][]bitset

	throwUndefined OverrideFunc
	throwAmbiguous OverrideFunc
}

// Name returns the method's registered name.
func (m *Method) Name() string { return m.name }

// Arity returns the number of virtual parameters (k).
func (m *Method) Arity() int { return len(m.virtualParamDescs) }

// Override is one implementation of a method.
type Override struct {
	method     *Method
	paramDescs []ClassDescriptor
	params     []*classNode // resolved by Runtime.Update
	fn         OverrideFunc

	// Next is the unique next-most-specific override, populated by the
	// specificity engine. Nil if there is none or if it is ambiguous.
	Next *Override
}

// Method returns the override's owning method.
func (o *Override) Method() *Method { return o.method }

// CallNext invokes the next-most-specific override. It panics if there is
// none — an override body calling CallNext is asserting that a super
// implementation exists, the same contract "next!" has in the spec.
func (o *Override) CallNext(args []any) (any, error) {
	if o.Next == nil {
		panic("openmethod: CallNext called with no next-most-specific override for " + o.method.name)
	}
	return o.Next.fn(args)
}
