package openmethod

import (
	"fmt"

	"github.com/google/uuid"
)

// fixtureClass is a synthetic class descriptor for tests: a pointer
// identity (comparable, as ClassDescriptor requires) carrying enough
// metadata to back ClassInfo directly.
type fixtureClass struct {
	name       string
	base       *fixtureClass
	ifaces     []*fixtureClass
	isConcrete bool
}

func (c *fixtureClass) Name() string { return c.name }

func (c *fixtureClass) DirectBase() ClassDescriptor {
	if c.base == nil {
		return nil
	}
	return c.base
}

func (c *fixtureClass) Interfaces() []ClassDescriptor {
	out := make([]ClassDescriptor, len(c.ifaces))
	for i, f := range c.ifaces {
		out[i] = f
	}
	return out
}

func (c *fixtureClass) IsConcrete() bool { return c.isConcrete }

// fixtureObj is a synthetic instance: just a pointer to the class that
// produced it, enough for ClassOf to recover.
type fixtureObj struct {
	class *fixtureClass
}

// testIntrospector is an in-memory Introspector backed by a fixed set of
// fixtureClass values, built incrementally with iface/class helpers. Each
// class created through it gets a uuid-suffixed name so that hierarchies
// built by different subtests (potentially run with t.Parallel()) never
// collide on name even if they reuse a short label like "Dog".
type testIntrospector struct {
	classes []*fixtureClass
}

func newTestIntrospector() *testIntrospector {
	return &testIntrospector{}
}

// iface declares an interface with no base and no concrete instances.
func (ti *testIntrospector) iface(label string) *fixtureClass {
	c := &fixtureClass{name: uniqueName(label), isConcrete: false}
	ti.classes = append(ti.classes, c)
	return c
}

// abstractClass declares a non-interface class that is never itself a
// dynamic type (e.g. an abstract base).
func (ti *testIntrospector) abstractClass(label string, base *fixtureClass, ifaces ...*fixtureClass) *fixtureClass {
	c := &fixtureClass{name: uniqueName(label), base: base, ifaces: ifaces, isConcrete: false}
	ti.classes = append(ti.classes, c)
	return c
}

// class declares a concrete class, optionally deriving from base and
// implementing ifaces.
func (ti *testIntrospector) class(label string, base *fixtureClass, ifaces ...*fixtureClass) *fixtureClass {
	c := &fixtureClass{name: uniqueName(label), base: base, ifaces: ifaces, isConcrete: true}
	ti.classes = append(ti.classes, c)
	return c
}

// instance returns a synthetic object whose dynamic class is c.
func (ti *testIntrospector) instance(c *fixtureClass) *fixtureObj {
	return &fixtureObj{class: c}
}

func (ti *testIntrospector) AllClasses() []ClassDescriptor {
	out := make([]ClassDescriptor, len(ti.classes))
	for i, c := range ti.classes {
		out[i] = c
	}
	return out
}

func (ti *testIntrospector) Info(c ClassDescriptor) ClassInfo {
	return c.(*fixtureClass)
}

func (ti *testIntrospector) ClassOf(obj any) ClassDescriptor {
	return obj.(*fixtureObj).class
}

func uniqueName(label string) string {
	return fmt.Sprintf("%s#%s", label, uuid.New().String())
}
