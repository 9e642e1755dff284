// Package openmethod implements open multi-methods: free functions whose
// dispatch depends on the dynamic types of one or more arguments, resolved
// at call time using the most-specific-override rule, extended from
// single-dispatch overriding to k-ary argument tuples.
//
// The package is the dispatch engine only. It does not parse a surface
// syntax, does not discover methods via reflection, and does not ship a
// wire format — callers register methods and overrides directly and
// supply an Introspector that exposes the program's class hierarchy
// (see Introspector). Given that, Runtime.Update precomputes compact
// per-class index vectors and per-method dispatch tables so that a call
// resolves in O(k) with no linear search over candidates. Per argument,
// the dispatcher looks the dynamic class up in a map keyed by class
// descriptor and then follows fixed indirections.
package openmethod
