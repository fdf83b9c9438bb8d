package model

import "strings"

// ExprKind distinguishes the shapes a resolved type expression can take.
type ExprKind int

const (
	// ExprUnknown represents a value the resolver could not infer.
	// Unknown expressions never resolve to a diagram entity.
	ExprUnknown ExprKind = iota
	// ExprName is a bare type name, e.g. "Foo".
	ExprName
	// ExprSubscript is a generic container application, e.g. "list[Foo]".
	// The outer container name decides the multiplicity of the inner type.
	ExprSubscript
	// ExprUnion is a binary union, e.g. "Foo | Bar".
	ExprUnion
	// ExprTuple is a fixed-size grouping, e.g. "(Foo, Bar)". Tuples also
	// appear as the nested part of two-parameter containers like dict.
	ExprTuple
	// ExprInstance is an already-resolved instance reference carrying a
	// pointer to the class that defines it.
	ExprInstance
)

// TypeExpr is one resolved type expression attached to a class member.
// It forms a small tagged-variant tree: exactly the fields belonging to
// Kind are populated, everything else stays zero.
//
// The zero value is an unknown expression.
type TypeExpr struct {
	Kind ExprKind

	// Name is the type name for ExprName, or the container name for
	// ExprSubscript (e.g. "list", "Optional").
	Name string

	// Inner is the subscripted part of an ExprSubscript.
	Inner *TypeExpr

	// Left and Right are the operands of an ExprUnion.
	Left  *TypeExpr
	Right *TypeExpr

	// Elements are the members of an ExprTuple.
	Elements []*TypeExpr

	// Class is the defining class of an ExprInstance.
	Class *Class
}

// NameExpr returns a bare-name expression.
func NameExpr(name string) *TypeExpr {
	return &TypeExpr{Kind: ExprName, Name: name}
}

// SubscriptExpr returns a container application of inner under outer.
func SubscriptExpr(outer string, inner *TypeExpr) *TypeExpr {
	return &TypeExpr{Kind: ExprSubscript, Name: outer, Inner: inner}
}

// UnionExpr returns a binary union of left and right.
func UnionExpr(left, right *TypeExpr) *TypeExpr {
	return &TypeExpr{Kind: ExprUnion, Left: left, Right: right}
}

// TupleExpr returns a fixed-size grouping of elts.
func TupleExpr(elts ...*TypeExpr) *TypeExpr {
	return &TypeExpr{Kind: ExprTuple, Elements: elts}
}

// InstanceExpr returns an already-resolved reference to class.
func InstanceExpr(class *Class) *TypeExpr {
	return &TypeExpr{Kind: ExprInstance, Class: class}
}

// String renders the expression in source-like notation: "Foo",
// "list[Foo]", "Foo | Bar", "(Foo, Bar)". Unknown expressions render
// as the empty string, resolved instances as their class name.
func (e *TypeExpr) String() string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case ExprName:
		return e.Name
	case ExprSubscript:
		return e.Name + "[" + e.Inner.String() + "]"
	case ExprUnion:
		return e.Left.String() + " | " + e.Right.String()
	case ExprTuple:
		parts := make([]string, len(e.Elements))
		for i, elt := range e.Elements {
			parts[i] = elt.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case ExprInstance:
		if e.Class != nil {
			return e.Class.Name
		}
		return ""
	default:
		return ""
	}
}
