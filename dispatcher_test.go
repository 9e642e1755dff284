package openmethod

import (
	"errors"
	"testing"
)

// animalHierarchy builds the interface Animal; Dog/Cat/Dolphin : Animal;
// Pitbull : Dog hierarchy used throughout the end-to-end scenarios.
type animalHierarchy struct {
	ti                                 *testIntrospector
	animal                             *fixtureClass
	dog, pitbull, cat, dolphin         *fixtureClass
}

func newAnimalHierarchy() *animalHierarchy {
	ti := newTestIntrospector()
	animal := ti.iface("Animal")
	dog := ti.class("Dog", nil, animal)
	pitbull := ti.class("Pitbull", dog)
	cat := ti.class("Cat", nil, animal)
	dolphin := ti.class("Dolphin", nil, animal)
	return &animalHierarchy{ti: ti, animal: animal, dog: dog, pitbull: pitbull, cat: cat, dolphin: dolphin}
}

func str(v any, err error) string {
	if err != nil {
		return "<error: " + err.Error() + ">"
	}
	return v.(string)
}

// TestDispatcher_Kick is end-to-end scenario 1: single-argument dispatch
// with CallNext chaining.
func TestDispatcher_Kick(t *testing.T) {
	h := newAnimalHierarchy()
	rt := NewRuntime(h.ti)

	kick := rt.RegisterMethod("kick", h.animal)
	var pitbullOv *Override
	rt.RegisterOverride(kick, []ClassDescriptor{h.dog}, func(args []any) (any, error) {
		return "bark", nil
	})
	pitbullOv = rt.RegisterOverride(kick, []ClassDescriptor{h.pitbull}, func(args []any) (any, error) {
		base, err := pitbullOv.CallNext(args)
		if err != nil {
			return nil, err
		}
		return base.(string) + " and bite", nil
	})

	if err := rt.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}

	dogResult, err := rt.Call(kick, []any{h.ti.instance(h.dog)})
	if err != nil || dogResult != "bark" {
		t.Fatalf("kick(Dog) = %v, %v, want \"bark\"", dogResult, err)
	}

	pitbullResult, err := rt.Call(kick, []any{h.ti.instance(h.pitbull)})
	if err != nil || pitbullResult != "bark and bite" {
		t.Fatalf("kick(Pitbull) = %v, %v, want \"bark and bite\"", pitbullResult, err)
	}
}

// TestDispatcher_Meet is end-to-end scenario 2: two-argument dispatch.
func TestDispatcher_Meet(t *testing.T) {
	h := newAnimalHierarchy()
	rt := NewRuntime(h.ti)

	meet := rt.RegisterMethod("meet", h.animal, h.animal)
	rt.RegisterOverride(meet, []ClassDescriptor{h.animal, h.animal}, func(args []any) (any, error) {
		return "ignore", nil
	})
	rt.RegisterOverride(meet, []ClassDescriptor{h.dog, h.dog}, func(args []any) (any, error) {
		return "wag tail", nil
	})
	rt.RegisterOverride(meet, []ClassDescriptor{h.dog, h.cat}, func(args []any) (any, error) {
		return "chase", nil
	})

	if err := rt.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}

	cases := []struct {
		a, b *fixtureClass
		want string
	}{
		{h.pitbull, h.cat, "chase"},
		{h.pitbull, h.dog, "wag tail"},
		{h.pitbull, h.dolphin, "ignore"},
	}
	for _, c := range cases {
		got := str(rt.Call(meet, []any{h.ti.instance(c.a), h.ti.instance(c.b)}))
		if got != c.want {
			t.Errorf("meet(%s, %s) = %q, want %q", c.a.name, c.b.name, got, c.want)
		}
	}
}

// TestDispatcher_Plus is end-to-end scenario 3: undefined and ambiguous
// calls on a Matrix hierarchy.
func TestDispatcher_Plus(t *testing.T) {
	ti := newTestIntrospector()
	matrix := ti.abstractClass("Matrix", nil)
	dense := ti.class("DenseMatrix", matrix)
	diag := ti.class("DiagonalMatrix", matrix)

	rt := NewRuntime(ti)
	plus := rt.RegisterMethod("plus", matrix, matrix)
	rt.RegisterOverride(plus, []ClassDescriptor{diag, matrix}, func(args []any) (any, error) {
		return "diag+mat", nil
	})
	rt.RegisterOverride(plus, []ClassDescriptor{matrix, diag}, func(args []any) (any, error) {
		return "mat+diag", nil
	})

	if err := rt.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}

	_, err := rt.Call(plus, []any{ti.instance(dense), ti.instance(dense)})
	var undef *UndefinedCallError
	if !errors.As(err, &undef) {
		t.Fatalf("plus(Dense, Dense) err = %v, want *UndefinedCallError", err)
	}
	if err.Error() != "this call to 'plus' is not implemented" {
		t.Errorf("plus(Dense, Dense) message = %q", err.Error())
	}

	_, err = rt.Call(plus, []any{ti.instance(diag), ti.instance(diag)})
	var amb *AmbiguousCallError
	if !errors.As(err, &amb) {
		t.Fatalf("plus(Diag, Diag) err = %v, want *AmbiguousCallError", err)
	}
	if err.Error() != "this call to 'plus' is ambiguous" {
		t.Errorf("plus(Diag, Diag) message = %q", err.Error())
	}
}

// TestDispatcher_MethodWithNoOverrides exercises the "zero registered
// overrides" boundary behavior: every call is undefined.
func TestDispatcher_MethodWithNoOverrides(t *testing.T) {
	h := newAnimalHierarchy()
	rt := NewRuntime(h.ti)
	speak := rt.RegisterMethod("speak", h.animal)

	if err := rt.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}

	_, err := rt.Call(speak, []any{h.ti.instance(h.dog)})
	var undef *UndefinedCallError
	if !errors.As(err, &undef) {
		t.Fatalf("speak(Dog) err = %v, want *UndefinedCallError", err)
	}
}

// TestDispatcher_InterfaceSecondaryBase exercises dispatch on a class that
// reaches the declared virtual interface only via a secondary base.
func TestDispatcher_InterfaceSecondaryBase(t *testing.T) {
	ti := newTestIntrospector()
	swimmer := ti.iface("Swimmer")
	base := ti.abstractClass("LandAnimal", nil)
	otter := ti.class("Otter", base, swimmer)

	rt := NewRuntime(ti)
	swim := rt.RegisterMethod("swim", swimmer)
	rt.RegisterOverride(swim, []ClassDescriptor{swimmer}, func(args []any) (any, error) {
		return "paddling", nil
	})

	if err := rt.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got := str(rt.Call(swim, []any{ti.instance(otter)}))
	if got != "paddling" {
		t.Errorf("swim(Otter) = %q, want \"paddling\"", got)
	}
}

func TestDispatcher_PanicsBeforeUpdate(t *testing.T) {
	h := newAnimalHierarchy()
	rt := NewRuntime(h.ti)
	kick := rt.RegisterMethod("kick", h.animal)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic calling before Update")
		}
	}()
	rt.Call(kick, []any{h.ti.instance(h.dog)})
}

func TestDispatcher_PanicsOnWrongArity(t *testing.T) {
	h := newAnimalHierarchy()
	rt := NewRuntime(h.ti)
	kick := rt.RegisterMethod("kick", h.animal)
	rt.RegisterOverride(kick, []ClassDescriptor{h.dog}, func(args []any) (any, error) { return "bark", nil })
	if err := rt.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic calling with wrong arity")
		}
	}()
	rt.Call(kick, []any{h.ti.instance(h.dog), h.ti.instance(h.cat)})
}
