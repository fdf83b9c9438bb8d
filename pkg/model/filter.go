package model

import "strings"

// VisibilityFilter decides whether a member name appears in diagram
// output. It is an injected capability: the diagram core applies it but
// never defines the policy itself.
type VisibilityFilter func(name string) bool

// PropertyPolicy decides whether a function member acts as a property,
// in which case it shows up as an attribute instead of a method.
type PropertyPolicy func(fn *Function) bool

// ShowAll is a VisibilityFilter that keeps every member.
func ShowAll(string) bool { return true }

// PublicOnly is a VisibilityFilter that keeps names not starting with an
// underscore.
func PublicOnly(name string) bool {
	return !strings.HasPrefix(name, "_")
}

// SpecialAndPublic keeps public names plus dunder names like "__init__".
func SpecialAndPublic(name string) bool {
	if PublicOnly(name) {
		return true
	}
	return strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__")
}

// DecoratedProperty is the stock PropertyPolicy: a function is a property
// when one of its decorators is "property" or a dotted ".setter"/
// ".getter"/".deleter" accessor, or when it is a property object.
func DecoratedProperty(fn *Function) bool {
	if fn.PropertyObject {
		return true
	}
	for _, dec := range fn.Decorators {
		if dec == "property" || dec == "cached_property" {
			return true
		}
		if strings.HasSuffix(dec, ".setter") || strings.HasSuffix(dec, ".getter") || strings.HasSuffix(dec, ".deleter") {
			return true
		}
	}
	return false
}
