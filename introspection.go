package openmethod

// ClassDescriptor is an opaque, externally-owned identity for a class.
// It must be comparable, since the runtime uses it as a map key in its
// side table (see Runtime.nodeFor). The front-end that declares classes
// owns the values; this package never constructs one.
type ClassDescriptor any

// ClassInfo exposes what the dispatch engine needs to know about a single
// class: its name (for diagnostics and deterministic layering), its direct
// base, the interfaces it directly implements, and whether it can appear
// as the dynamic type of an object.
type ClassInfo interface {
	Name() string
	DirectBase() ClassDescriptor
	Interfaces() []ClassDescriptor
	IsConcrete() bool
}

// Introspector is the abstract class-introspection capability the core
// depends on (spec'd in the design as "consumed, not implemented here").
// A real front-end backs it with reflection over loaded classes; tests
// back it with an in-memory fixture (see fixture_test.go).
type Introspector interface {
	// AllClasses enumerates every class loaded by the program.
	AllClasses() []ClassDescriptor

	// Info returns introspection data for a class.
	Info(c ClassDescriptor) ClassInfo

	// ClassOf returns the class descriptor for the dynamic type of obj.
	// Called once per virtual argument at every dispatch.
	ClassOf(obj any) ClassDescriptor
}
