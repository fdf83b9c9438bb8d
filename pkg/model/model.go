// Package model defines the resolved code facts consumed by diagram
// construction.
//
// The values in this package are produced by an external resolver (a
// parser plus type-inference pass, or the JSON loader in
// [github.com/classmap/classmap/pkg/factfile]). The diagram core never
// parses source text itself: it classifies and renders what it is given.
//
// All fields are read-only once handed to a diagram. Identity matters:
// a *Class or *Module pointer is the key under which a diagram registers
// its entity, so the same fact set must reuse the same pointers when
// referring to ancestors or instance types.
package model

// Module is one module (file-level namespace) of the analyzed codebase.
type Module struct {
	// Name is the fully dotted module name, e.g. "pkg.sub.helper".
	Name string

	// Depends lists module names imported at runtime.
	Depends []string

	// TypeDepends lists module names imported only inside
	// type-checking-guarded blocks.
	TypeDepends []string
}

// Class is one class of the analyzed codebase together with the semantic
// facts the resolver inferred for it.
type Class struct {
	Name string

	// Module is the module that defines the class. May be nil when the
	// fact set was built without module information.
	Module *Module

	// Bases holds the declared base names as written in the source,
	// unresolved. Used for name-based annotation heuristics.
	Bases []string

	// Ancestors holds the direct (non-transitive) ancestor classes that
	// the resolver could resolve.
	Ancestors []*Class

	// LocalsType maps locally declared attribute names to their inferred
	// type expressions.
	LocalsType map[string][]*TypeExpr

	// InstanceAttrsType maps instance attribute names to their inferred
	// type expressions.
	InstanceAttrsType map[string][]*TypeExpr

	// AssociationsType maps member names to association candidate types.
	// Association candidates shadow LocalsType entries of the same name.
	AssociationsType map[string][]*TypeExpr

	// AggregationsType maps member names to aggregation candidate types
	// (container/collection shaped declarations).
	AggregationsType map[string][]*TypeExpr

	// Functions holds the function-valued members of the class body.
	Functions []*Function

	// EnumMembers lists the member names when the class is an
	// enumeration (defines a member container), nil otherwise.
	EnumMembers []string
}

// IsEnum reports whether the class defines an enumeration member container.
func (c *Class) IsEnum() bool { return c.EnumMembers != nil }

// Function is a function-valued class member.
type Function struct {
	Name string

	// Abstract marks abstract methods; printers render them with an
	// abstract marker.
	Abstract bool

	// Returns is the declared or inferred return type, nil when unknown.
	Returns *TypeExpr

	// Args lists the parameter names in declaration order.
	Args []string

	// Decorators holds the decorator names applied to the function,
	// consulted by the default property policy.
	Decorators []string

	// PropertyObject marks members that are themselves property objects
	// rather than plain functions. They never count as methods.
	PropertyObject bool
}
