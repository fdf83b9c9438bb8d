// Package diagram builds the in-memory relationship graph describing a
// codebase: classes, packages, their inheritance, associations,
// aggregations, ownership and inter-module dependencies.
//
// A diagram is populated in three strictly ordered phases. First the
// caller adds entities wrapping externally resolved facts (see
// [github.com/classmap/classmap/pkg/model]). Then ExtractRelationships
// runs exactly once and is the only writer of edges and of the entities'
// derived display data. After extraction the diagram is read-only and
// may be shared by any number of renderers without synchronization.
//
// Lookups that can miss return errors wrapping [ErrNotFound]; during
// extraction every such miss is an expected "nothing to link here"
// outcome and is silently skipped. Registering the same semantic node
// twice returns [ErrDuplicateEntity], which indicates caller misuse and
// should abort diagram construction.
package diagram

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/classmap/classmap/pkg/model"
)

var (
	// ErrNotFound is returned by name and node lookups when no matching
	// entity exists in the diagram.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEntity is returned by the add operations when the
	// semantic node is already registered.
	ErrDuplicateEntity = errors.New("semantic node already registered")
)

// Options configures the externally owned policies of a diagram.
type Options struct {
	// Filter decides which member names are visible. Defaults to
	// [model.ShowAll].
	Filter model.VisibilityFilter

	// Property decides which functions act as properties. Defaults to
	// [model.DecoratedProperty].
	Property model.PropertyPolicy
}

// Diagram is a class-level diagram: an aggregate of entities and typed
// relationship edges. The zero value is not usable, use New.
//
// Diagram is not safe for concurrent mutation; once extracted it is
// immutable and safe for concurrent reads.
type Diagram struct {
	Title string

	filter     model.VisibilityFilter
	isProperty model.PropertyPolicy

	objects       []Entity
	relationships map[RelationType][]*Relationship
	nodes         map[any]Entity
	nextID        int
}

// New creates an empty class diagram with the given title and policies.
func New(title string, opts Options) *Diagram {
	if opts.Filter == nil {
		opts.Filter = model.ShowAll
	}
	if opts.Property == nil {
		opts.Property = model.DecoratedProperty
	}
	return &Diagram{
		Title:         title,
		filter:        opts.Filter,
		isProperty:    opts.Property,
		relationships: make(map[RelationType][]*Relationship),
		nodes:         make(map[any]Entity),
	}
}

// AddObject creates a class entity for node and registers it under the
// node's identity. Returns ErrDuplicateEntity if the node was added
// before; the diagram is unchanged in that case.
func (d *Diagram) AddObject(title string, node *model.Class) (*ClassEntity, error) {
	ent := &ClassEntity{Node: node}
	if err := d.register(node, ent, &ent.figure, title); err != nil {
		return nil, err
	}
	return ent, nil
}

// register assigns the next entity ID and indexes ent by node identity.
func (d *Diagram) register(node any, ent Entity, fig *figure, title string) error {
	if _, exists := d.nodes[node]; exists {
		return fmt.Errorf("add %q: %w", title, ErrDuplicateEntity)
	}
	fig.id = d.nextID
	fig.title = title
	d.nextID++
	d.nodes[node] = ent
	d.objects = append(d.objects, ent)
	return nil
}

// Objects returns all entities in creation order.
func (d *Diagram) Objects() []Entity { return slices.Clone(d.objects) }

// Classes returns all class entities in creation order.
func (d *Diagram) Classes() []*ClassEntity {
	var classes []*ClassEntity
	for _, obj := range d.objects {
		if c, ok := obj.(*ClassEntity); ok {
			classes = append(classes, c)
		}
	}
	return classes
}

// Class returns the class entity whose underlying class has the given
// name, or an error wrapping ErrNotFound.
func (d *Diagram) Class(name string) (*ClassEntity, error) {
	for _, c := range d.Classes() {
		if c.Node.Name == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("class %q: %w", name, ErrNotFound)
}

// HasNode reports whether the semantic node is registered in the diagram.
func (d *Diagram) HasNode(node any) bool {
	_, ok := d.nodes[node]
	return ok
}

// ObjectFromNode returns the entity registered for the semantic node,
// or an error wrapping ErrNotFound.
func (d *Diagram) ObjectFromNode(node any) (Entity, error) {
	if ent, ok := d.nodes[node]; ok {
		return ent, nil
	}
	return nil, fmt.Errorf("node %v: %w", node, ErrNotFound)
}

// AddRelationship appends an edge of the given type between two entities
// of this diagram. Extraction is the usual caller; external producers
// may add edges of open types such as [RelationUses].
func (d *Diagram) AddRelationship(from, to Entity, typ RelationType, name string, fromCard, toCard Cardinality) {
	rel := &Relationship{
		From:            from,
		To:              to,
		Type:            typ,
		Name:            name,
		FromCardinality: fromCard,
		ToCardinality:   toCard,
	}
	d.relationships[typ] = append(d.relationships[typ], rel)
}

// GetRelationships returns all edges of the given type sorted by
// (From.ID, To.ID). The sort is a hard contract: it exists to make
// output deterministic and does not depend on insertion order.
func (d *Diagram) GetRelationships(typ RelationType) []*Relationship {
	rels := slices.Clone(d.relationships[typ])
	slices.SortStableFunc(rels, func(a, b *Relationship) int {
		if c := a.From.ID() - b.From.ID(); c != 0 {
			return c
		}
		return a.To.ID() - b.To.ID()
	})
	return rels
}

// GetRelationship returns the first edge of the given type starting at
// from, or an error wrapping ErrNotFound.
func (d *Diagram) GetRelationship(from Entity, typ RelationType) (*Relationship, error) {
	for _, rel := range d.relationships[typ] {
		if rel.From == from {
			return rel, nil
		}
	}
	return nil, fmt.Errorf("relationship %s from %q: %w", typ, from.Title(), ErrNotFound)
}

// attrs derives the sorted attribute display lines for a class.
// Properties shadow plain attributes of the same name, locally declared
// attributes shadow instance attributes, and enum members are appended
// as bare lines.
func (d *Diagram) attrs(node *model.Class) []string {
	members := make(map[string][]*model.TypeExpr)
	for _, fn := range node.Functions {
		if d.isProperty(fn) {
			if fn.Returns != nil {
				members[fn.Name] = []*model.TypeExpr{fn.Returns}
			} else {
				members[fn.Name] = nil
			}
		}
	}
	merge := func(src map[string][]*model.TypeExpr) {
		for name, types := range src {
			if _, ok := members[name]; !ok {
				members[name] = types
			}
		}
	}
	merge(node.LocalsType)
	merge(node.InstanceAttrsType)

	var attrs []string
	for name, types := range members {
		if !d.filter(name) {
			continue
		}
		if names := classNames(types); len(names) > 0 {
			name = fmt.Sprintf("%s : %s", name, strings.Join(names, ", "))
		}
		attrs = append(attrs, name)
	}

	attrs = append(attrs, node.EnumMembers...)
	sort.Strings(attrs)
	return attrs
}

// classNames renders the resolvable type names of the given expressions,
// deduplicated and sorted. Names fully contained in another listed name
// are dropped so that "Foo" does not double-report next to "list[Foo]".
func classNames(types []*model.TypeExpr) []string {
	var names []string
	for _, t := range types {
		name := t.String()
		if name == "" || slices.Contains(names, name) {
			continue
		}
		names = append(names, name)
	}

	var kept []string
	for _, name := range names {
		shadowed := false
		for _, other := range names {
			if name != other && strings.Contains(other, name) {
				shadowed = true
				break
			}
		}
		if !shadowed {
			kept = append(kept, name)
		}
	}
	sort.Strings(kept)
	return kept
}

// methods derives the visible methods of a class, sorted by name.
// Property objects and property-decorated functions are attributes, not
// methods.
func (d *Diagram) methods(node *model.Class) []*model.Function {
	var methods []*model.Function
	for _, fn := range node.Functions {
		if fn.PropertyObject || d.isProperty(fn) {
			continue
		}
		if !d.filter(fn.Name) {
			continue
		}
		methods = append(methods, fn)
	}
	slices.SortStableFunc(methods, func(a, b *model.Function) int {
		return strings.Compare(a.Name, b.Name)
	})
	return methods
}

// annotations derives the display tags of a class. Both checks are
// name-based heuristics, not semantic guarantees.
func (d *Diagram) annotations(node *model.Class) []string {
	var annotations []string
	if node.IsEnum() {
		annotations = append(annotations, "Enumeration")
	}
	if slices.Contains(node.Bases, "ABC") {
		annotations = append(annotations, "Abstract")
	}
	return annotations
}

// sortedKeys returns the keys of a member-type map in sorted order, so
// extraction emits edges in a reproducible sequence.
func sortedKeys(m map[string][]*model.TypeExpr) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
