package diagram

import (
	"strings"

	"github.com/classmap/classmap/pkg/model"
)

// ExtractRelationships populates the derived display data of every class
// entity and the inheritance, aggregation and association edges between
// them. It runs once per diagram, after all entities have been added;
// afterwards the diagram is read-only.
//
// Ancestors and member types that do not resolve to an entity of this
// diagram are silently skipped: an unresolved relationship is an expected
// "nothing to link here" outcome, not an error.
func (d *Diagram) ExtractRelationships() {
	for _, obj := range d.Classes() {
		node := obj.Node
		obj.Annotations = d.annotations(node)
		obj.Attrs = d.attrs(node)
		obj.Methods = d.methods(node)
		obj.shape = "class"

		// inheritance links, direct ancestors only
		for _, ancestor := range node.Ancestors {
			parent, err := d.ObjectFromNode(ancestor)
			if err != nil {
				continue
			}
			d.AddRelationship(obj, parent, RelationSpecialization, "", "", "")
		}

		for _, name := range sortedKeys(node.AggregationsType) {
			for _, value := range node.AggregationsType[name] {
				d.assignAssociation(value, obj, name, RelationAggregation, "")
			}
		}

		// association candidates shadow locally declared attribute types
		associations := make(map[string][]*model.TypeExpr, len(node.AssociationsType))
		for name, values := range node.AssociationsType {
			associations[name] = values
		}
		for name, values := range node.LocalsType {
			if _, ok := associations[name]; !ok {
				associations[name] = values
			}
		}
		for _, name := range sortedKeys(associations) {
			for _, value := range associations[name] {
				d.assignAssociation(value, obj, name, RelationAssociation, "")
			}
		}
	}
}

// containers and optionals decide the multiplicity a subscripted type
// implies for its inner type. Matching is case-insensitive.
var (
	multiValueContainers = map[string]bool{"list": true, "set": true, "dict": true}
	optionalContainers   = map[string]bool{"optional": true, "union": true}
)

// assignAssociation classifies one member type expression and, when it
// resolves to an entity of this diagram, adds an edge of the given type
// from the resolved entity to the holding class.
//
// card is the cardinality already decided by an enclosing expression; it
// is never overwritten once set, so the outermost container wins.
// Unresolvable values are dropped silently.
func (d *Diagram) assignAssociation(value *model.TypeExpr, obj *ClassEntity, name string, typ RelationType, card Cardinality) {
	if value == nil {
		return
	}
	switch value.Kind {
	case model.ExprSubscript:
		if card == "" {
			outer := strings.ToLower(value.Name)
			if multiValueContainers[outer] {
				card = ZeroOrMore
			} else if optionalContainers[outer] {
				card = ZeroOrOne
			}
		}
		d.assignAssociation(value.Inner, obj, name, typ, card)
		return

	case model.ExprUnion:
		if card == "" {
			card = ZeroOrOne
		}
		d.assignAssociation(value.Left, obj, name, typ, card)
		d.assignAssociation(value.Right, obj, name, typ, card)
		return

	case model.ExprTuple:
		if card == "" {
			card = ExactlyOne
		}
		for _, elt := range value.Elements {
			d.assignAssociation(elt, obj, name, typ, card)
		}
		return
	}

	if card == "" {
		card = ExactlyOne
	}

	var target Entity
	switch value.Kind {
	case model.ExprName:
		// built-in and out-of-diagram names are expected and ignored
		ent, err := d.Class(value.Name)
		if err != nil {
			return
		}
		target = ent
	case model.ExprInstance:
		if value.Class == nil {
			return
		}
		ent, err := d.ObjectFromNode(value.Class)
		if err != nil {
			return
		}
		target = ent
	default:
		// ExprUnknown: the resolver could not infer this value
		return
	}

	d.AddRelationship(target, obj, typ, name, card, "")
}
