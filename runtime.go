package openmethod

import (
	"fmt"
	"log"
)

// Runtime holds the dispatch engine's state: empty at construction,
// mutated only during a single Update call, read-only after that. The
// package keeps no global instance; each NewRuntime call returns an
// independent one. Concurrent Call from any number of goroutines is safe once sealed
// because nothing it reads is ever written again — no locks, no atomics,
// mirroring the teacher's separation between a mutable setup phase and an
// immutable running VM.
type Runtime struct {
	introspector Introspector
	logger       *log.Logger
	assert       bool

	sealed  bool
	methods []*Method
	nodes   map[ClassDescriptor]*classNode
}

// Option configures a Runtime at construction.
type Option func(*Runtime)

// WithLogger overrides the default logger used for setup diagnostics.
// Pass log.New(io.Discard, "", 0) to silence it entirely.
func WithLogger(l *log.Logger) Option {
	return func(rt *Runtime) { rt.logger = l }
}

// WithAssertions enables extra invariant checks (I1, I3, I5 and P6; see
// checkInvariants) during Update, at
// the cost of walking every class and method an extra time. Intended for
// tests and development builds, not hot-reload production paths.
func WithAssertions(enabled bool) Option {
	return func(rt *Runtime) { rt.assert = enabled }
}

// NewRuntime creates an empty, unsealed Runtime over the given class
// introspection capability.
func NewRuntime(introspector Introspector, opts ...Option) *Runtime {
	rt := &Runtime{
		introspector: introspector,
		logger:       log.Default(),
		nodes:        map[ClassDescriptor]*classNode{},
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// RegisterMethod appends a method descriptor to the registry. virtualParams
// gives the declared class of each of the method's k virtual parameters,
// in order; k = len(virtualParams) must be at least 1. Class nodes are not
// resolved until Update runs.
func (rt *Runtime) RegisterMethod(name string, virtualParams ...ClassDescriptor) *Method {
	if rt.sealed {
		panic("openmethod: RegisterMethod called after Update")
	}
	if len(virtualParams) == 0 {
		panic("openmethod: method " + name + " must declare at least one virtual parameter")
	}

	m := &Method{
		name:              name,
		virtualParamDescs: append([]ClassDescriptor(nil), virtualParams...),
	}
	m.slots = make([]int, len(virtualParams))
	m.throwUndefined = throwUndefined(name)
	m.throwAmbiguous = throwAmbiguous(name)

	rt.methods = append(rt.methods, m)
	return m
}

// RegisterOverride appends an override descriptor, linking it to its
// method. params must have the same length as the method's arity.
func (rt *Runtime) RegisterOverride(m *Method, params []ClassDescriptor, fn OverrideFunc) *Override {
	if rt.sealed {
		panic("openmethod: RegisterOverride called after Update")
	}
	if len(params) != m.Arity() {
		panic(fmt.Sprintf("openmethod: override for %s declares %d params, want %d", m.name, len(params), m.Arity()))
	}

	ov := &Override{
		method:     m,
		paramDescs: append([]ClassDescriptor(nil), params...),
		fn:         fn,
	}
	m.overrides = append(m.overrides, ov)
	return ov
}

// nodeFor looks up an already-built node by class descriptor. Only valid
// after Update; the node set is fixed once sealed.
func (rt *Runtime) nodeFor(desc ClassDescriptor) *classNode {
	return rt.nodes[desc]
}

// Update builds every table: class graph, conformance closure, slot
// allocation, groups, dispatch tables, and next-most-specific links.
// Precondition: every method and override is registered. Postcondition:
// dispatch is operational and the registry is sealed against further
// registration.
func (rt *Runtime) Update() error {
	if rt.sealed {
		panic("openmethod: Update called twice")
	}

	gb := newGraphBuilder(rt.introspector)
	for _, m := range rt.methods {
		for i, desc := range m.virtualParamDescs {
			node := gb.seed(desc)
			node.methodParams = append(node.methodParams, methodParamRef{method: m, param: i})
		}
	}
	classes := gb.build()
	rt.nodes = gb.nodes
	rt.logger.Printf("openmethod: %d participating classes", len(classes))

	rt.resolveMethodParams()
	computeConforming(classes)
	rt.checkOverridesReachable()

	allocateSlots(classes)
	for _, c := range classes {
		if c.firstUsedSlot == noSlot {
			continue
		}
		c.indexVector = make([]int, c.nextSlot-c.firstUsedSlot)
	}

	for _, m := range rt.methods {
		buildGroups(m)
		buildTable(m)
		for _, ov := range m.overrides {
			ov.Next = findNext(ov, m.overrides)
		}
		rt.logger.Printf("openmethod: method %s: %d overrides, table size %d", m.name, len(m.overrides), len(m.dispatchTable))
	}

	if rt.assert {
		if err := rt.checkInvariants(classes); err != nil {
			return err
		}
	}

	rt.sealed = true
	return nil
}

// resolveMethodParams fills in each method's and override's []*classNode
// from the descriptors captured at registration time, now that every
// participating class has a node.
func (rt *Runtime) resolveMethodParams() {
	for _, m := range rt.methods {
		m.virtualParams = make([]*classNode, len(m.virtualParamDescs))
		for i, desc := range m.virtualParamDescs {
			m.virtualParams[i] = rt.nodes[desc]
		}
		for _, ov := range m.overrides {
			ov.params = make([]*classNode, len(ov.paramDescs))
			for i, desc := range ov.paramDescs {
				ov.params[i] = rt.nodes[desc]
			}
		}
	}
}

// checkOverridesReachable verifies every override's parameter types are
// within the conforming set of the method's declared virtual parameter at
// that position — a programmer error (setup misuse) otherwise.
func (rt *Runtime) checkOverridesReachable() {
	for _, m := range rt.methods {
		for _, ov := range m.overrides {
			for i, p := range ov.params {
				if p == nil || !p.conformsTo(m.virtualParams[i]) {
					panic(fmt.Sprintf(
						"openmethod: override of %s declares parameter %d as %q, not reachable from declared virtual type %q",
						m.name, i, rt.introspector.Info(ov.paramDescs[i]).Name(), m.virtualParams[i].name))
				}
			}
		}
	}
}

// Snapshot is an opaque save point for the pre-seal registration state,
// letting a test build a hierarchy, call Update, assert, then restore a
// pristine registry for the next test without reconstructing the
// introspector.
type Snapshot struct {
	methods []*Method
}

// Snapshot captures the current list of registered methods. Each method's
// override list is not copied: overrides registered later on a method
// already in the snapshot are not removed by Restore.
func (rt *Runtime) Snapshot() Snapshot {
	return Snapshot{methods: append([]*Method(nil), rt.methods...)}
}

// Restore returns the runtime to a previously captured snapshot, clearing
// sealed state and the resolved class graph so registration and Update
// can run again.
func (rt *Runtime) Restore(s Snapshot) {
	rt.methods = append([]*Method(nil), s.methods...)
	rt.nodes = map[ClassDescriptor]*classNode{}
	rt.sealed = false
}

// Reset clears the runtime back to its empty, unsealed, just-constructed
// state.
func (rt *Runtime) Reset() {
	rt.methods = nil
	rt.nodes = map[ClassDescriptor]*classNode{}
	rt.sealed = false
}

// Stats is a read-only snapshot of dispatch-table sizes, useful for
// diagnostics and regression tests; it never mutates the runtime.
type Stats struct {
	MethodName  string
	Arity       int
	Overrides   int
	GroupCounts []int
	TableSize   int
}

// Stats returns a Stats value per registered method. Must be called after
// Update.
func (rt *Runtime) Stats() []Stats {
	out := make([]Stats, 0, len(rt.methods))
	for _, m := range rt.methods {
		groups := make([]int, m.Arity())
		for i := range groups {
			groups[i] = m.groupCount(i)
		}
		out = append(out, Stats{
			MethodName:  m.name,
			Arity:       m.Arity(),
			Overrides:   len(m.overrides),
			GroupCounts: groups,
			TableSize:   len(m.dispatchTable),
		})
	}
	return out
}
