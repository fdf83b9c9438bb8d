package diagram

import "github.com/classmap/classmap/pkg/model"

// Cardinality is the multiplicity of a relationship endpoint.
// The empty string means "not annotated".
type Cardinality string

const (
	// ZeroOrOne marks an optional single-valued endpoint (0..1).
	ZeroOrOne Cardinality = "zero_or_one"
	// ExactlyOne marks a mandatory single-valued endpoint (1).
	ExactlyOne Cardinality = "exactly_one"
	// ZeroOrMore marks a collection-valued endpoint (0..*).
	ZeroOrMore Cardinality = "zero_or_more"
	// OneOrMore marks a non-empty collection-valued endpoint (1..*).
	// Extraction never produces it today; it is kept as a valid value
	// so renderers and external producers can use it.
	OneOrMore Cardinality = "one_or_more"
)

// RelationType tags a relationship edge. The set is open: diagrams store
// edges per type and accept types beyond the ones defined here.
type RelationType string

const (
	// RelationSpecialization points from a class to a direct ancestor.
	RelationSpecialization RelationType = "specialization"
	// RelationAssociation points from the member's type to the class
	// holding the member.
	RelationAssociation RelationType = "association"
	// RelationAggregation is like association but sourced from
	// container-shaped member declarations.
	RelationAggregation RelationType = "aggregation"
	// RelationOwnership points from a class to its defining module.
	RelationOwnership RelationType = "ownership"
	// RelationDepends points from a module to a module it imports.
	RelationDepends RelationType = "depends"
	// RelationTypeDepends points from a module to a module it imports
	// only for type checking.
	RelationTypeDepends RelationType = "type_depends"
	// RelationUses is reserved for generic use edges supplied by
	// external producers.
	RelationUses RelationType = "uses"
)

// Entity is one node of a diagram: a class or a package. Entities are
// created through the diagram's add operations and carry a stable
// identifier assigned once at creation.
type Entity interface {
	// ID is the per-diagram identifier, assigned in creation order and
	// never reused. Sorting on IDs is the determinism anchor for all
	// edge retrieval.
	ID() int
	// Title is the display name.
	Title() string
	// Shape is the node shape tag: "class" or "package". It is set by
	// extraction and empty before.
	Shape() string

	semanticNode() any
}

// figure carries the identity shared by all entity kinds.
type figure struct {
	id    int
	title string
	shape string
}

func (f *figure) ID() int       { return f.id }
func (f *figure) Title() string { return f.title }
func (f *figure) Shape() string { return f.shape }

// ClassEntity is a diagram node wrapping a class fact.
// Annotations, Attrs and Methods are derived display data, populated by
// extraction and empty before.
type ClassEntity struct {
	figure

	// Node is the underlying class fact. Held for identity lookup only.
	Node *model.Class

	// Annotations holds display tags like "Enumeration" or "Abstract".
	Annotations []string

	// Attrs holds sorted attribute display lines ("name : Type").
	Attrs []string

	// Methods holds the visible methods sorted by name.
	Methods []*model.Function
}

func (e *ClassEntity) semanticNode() any { return e.Node }

// PackageEntity is a diagram node wrapping a module fact.
type PackageEntity struct {
	figure

	// Node is the underlying module fact. Held for identity lookup only.
	Node *model.Module

	depends     []string
	typeDepends []string
}

func (e *PackageEntity) semanticNode() any { return e.Node }

// Relationship is a directed edge between two entities of the same
// diagram. The direction convention depends on the type: specialization
// points child to parent, association and aggregation point from the
// member's type to the holding class, ownership points from class to
// module, depends and type_depends point from importer to imported.
type Relationship struct {
	From Entity
	To   Entity
	Type RelationType

	// Name is an optional edge label, usually the member name that
	// produced the edge.
	Name string

	// FromCardinality and ToCardinality are optional multiplicity
	// annotations for the endpoints.
	FromCardinality Cardinality
	ToCardinality   Cardinality
}
