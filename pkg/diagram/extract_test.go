package diagram

import (
	"testing"

	"github.com/classmap/classmap/pkg/model"
)

// twoClasses builds a diagram with a Target class and a Holder class
// whose member "field" has the given type expression, then extracts.
func twoClasses(t *testing.T, field *model.TypeExpr) *Diagram {
	t.Helper()
	d := New("test", Options{})
	if _, err := d.AddObject("Target", &model.Class{Name: "Target"}); err != nil {
		t.Fatal(err)
	}
	holder := &model.Class{
		Name: "Holder",
		InstanceAttrsType: map[string][]*model.TypeExpr{
			"field": {field},
		},
		AssociationsType: map[string][]*model.TypeExpr{
			"field": {field},
		},
	}
	if _, err := d.AddObject("Holder", holder); err != nil {
		t.Fatal(err)
	}
	d.ExtractRelationships()
	return d
}

func TestExtractCardinalityClassification(t *testing.T) {
	target := model.NameExpr("Target")
	tests := []struct {
		name string
		expr *model.TypeExpr
		want Cardinality
	}{
		{"bare name", target, ExactlyOne},
		{"list", model.SubscriptExpr("list", target), ZeroOrMore},
		{"set", model.SubscriptExpr("set", target), ZeroOrMore},
		{"dict", model.SubscriptExpr("dict", model.TupleExpr(model.NameExpr("str"), target)), ZeroOrMore},
		{"optional", model.SubscriptExpr("Optional", target), ZeroOrOne},
		{"union subscript", model.SubscriptExpr("Union", target), ZeroOrOne},
		{"union operator", model.UnionExpr(target, model.NameExpr("None")), ZeroOrOne},
		{"unrecognized container", model.SubscriptExpr("Sequence", target), ExactlyOne},
		{"nested optional wins over inner list", model.SubscriptExpr("Optional", model.SubscriptExpr("list", target)), ZeroOrOne},
		{"nested list wins over inner optional", model.SubscriptExpr("list", model.SubscriptExpr("Optional", target)), ZeroOrMore},
		{"union of lists keeps outer cardinality", model.UnionExpr(model.SubscriptExpr("list", target), model.NameExpr("None")), ZeroOrOne},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := twoClasses(t, tt.expr)

			rels := d.GetRelationships(RelationAssociation)
			if len(rels) != 1 {
				t.Fatalf("got %d association edges; want 1", len(rels))
			}
			rel := rels[0]
			if rel.From.Title() != "Target" || rel.To.Title() != "Holder" {
				t.Errorf("edge = %s -> %s; want Target -> Holder", rel.From.Title(), rel.To.Title())
			}
			if rel.Name != "field" {
				t.Errorf("edge label = %q; want field", rel.Name)
			}
			if rel.FromCardinality != tt.want {
				t.Errorf("FromCardinality = %q; want %q", rel.FromCardinality, tt.want)
			}
			if rel.ToCardinality != "" {
				t.Errorf("ToCardinality = %q; want unset", rel.ToCardinality)
			}
		})
	}
}

func TestExtractTupleEmitsOneEdgePerElement(t *testing.T) {
	d := New("test", Options{})
	if _, err := d.AddObject("Target", &model.Class{Name: "Target"}); err != nil {
		t.Fatal(err)
	}
	holder := &model.Class{
		Name: "Holder",
		AssociationsType: map[string][]*model.TypeExpr{
			"pair": {model.TupleExpr(model.NameExpr("Target"), model.NameExpr("Target"))},
		},
	}
	if _, err := d.AddObject("Holder", holder); err != nil {
		t.Fatal(err)
	}
	d.ExtractRelationships()

	rels := d.GetRelationships(RelationAssociation)
	if len(rels) != 2 {
		t.Fatalf("got %d edges; want 2", len(rels))
	}
	for _, rel := range rels {
		if rel.FromCardinality != ExactlyOne {
			t.Errorf("FromCardinality = %q; want exactly_one", rel.FromCardinality)
		}
	}
}

func TestExtractDropsUnresolvableTypes(t *testing.T) {
	exprs := []*model.TypeExpr{
		{},                        // unknown
		model.NameExpr("int"),     // not in the diagram
		model.InstanceExpr(nil),   // instance without a class
		model.SubscriptExpr("list", nil), // container without inner
	}
	for _, expr := range exprs {
		d := twoClasses(t, expr)
		if rels := d.GetRelationships(RelationAssociation); len(rels) != 0 {
			t.Errorf("expr %v produced %d edges; want 0", expr, len(rels))
		}
	}
}

func TestExtractInstanceExprResolvesByIdentity(t *testing.T) {
	d := New("test", Options{})
	target := &model.Class{Name: "Target"}
	if _, err := d.AddObject("Target", target); err != nil {
		t.Fatal(err)
	}
	holder := &model.Class{
		Name: "Holder",
		AssociationsType: map[string][]*model.TypeExpr{
			"field": {model.InstanceExpr(target)},
		},
	}
	if _, err := d.AddObject("Holder", holder); err != nil {
		t.Fatal(err)
	}
	d.ExtractRelationships()

	rels := d.GetRelationships(RelationAssociation)
	if len(rels) != 1 {
		t.Fatalf("got %d edges; want 1", len(rels))
	}
	if rels[0].From.Title() != "Target" {
		t.Errorf("edge source = %q; want Target", rels[0].From.Title())
	}

	// an instance of a class outside the diagram resolves to nothing
	d2 := twoClasses(t, model.InstanceExpr(&model.Class{Name: "Elsewhere"}))
	if rels := d2.GetRelationships(RelationAssociation); len(rels) != 0 {
		t.Errorf("out-of-diagram instance produced %d edges; want 0", len(rels))
	}
}

func TestExtractInheritanceEdges(t *testing.T) {
	d := New("test", Options{})
	base := &model.Class{Name: "Base"}
	outside := &model.Class{Name: "Outside"}
	child := &model.Class{Name: "Child", Ancestors: []*model.Class{base, outside}}
	if _, err := d.AddObject("Base", base); err != nil {
		t.Fatal(err)
	}
	if _, err := d.AddObject("Child", child); err != nil {
		t.Fatal(err)
	}
	d.ExtractRelationships()

	rels := d.GetRelationships(RelationSpecialization)
	if len(rels) != 1 {
		t.Fatalf("got %d specialization edges; want 1", len(rels))
	}
	if rels[0].From.Title() != "Child" || rels[0].To.Title() != "Base" {
		t.Errorf("edge = %s -> %s; want Child -> Base", rels[0].From.Title(), rels[0].To.Title())
	}
	if rels[0].FromCardinality != "" || rels[0].ToCardinality != "" {
		t.Error("inheritance edges must not carry cardinalities")
	}
}

func TestExtractAggregationSeparateFromAssociation(t *testing.T) {
	d := New("test", Options{})
	if _, err := d.AddObject("Part", &model.Class{Name: "Part"}); err != nil {
		t.Fatal(err)
	}
	whole := &model.Class{
		Name: "Whole",
		AggregationsType: map[string][]*model.TypeExpr{
			"parts": {model.SubscriptExpr("list", model.NameExpr("Part"))},
		},
	}
	if _, err := d.AddObject("Whole", whole); err != nil {
		t.Fatal(err)
	}
	d.ExtractRelationships()

	if rels := d.GetRelationships(RelationAggregation); len(rels) != 1 {
		t.Fatalf("got %d aggregation edges; want 1", len(rels))
	} else if rels[0].FromCardinality != ZeroOrMore {
		t.Errorf("FromCardinality = %q; want zero_or_more", rels[0].FromCardinality)
	}
	if rels := d.GetRelationships(RelationAssociation); len(rels) != 0 {
		t.Errorf("got %d association edges; want 0", len(rels))
	}
}

func TestExtractAssociationsShadowLocals(t *testing.T) {
	d := New("test", Options{})
	a := &model.Class{Name: "A"}
	b := &model.Class{Name: "B"}
	if _, err := d.AddObject("A", a); err != nil {
		t.Fatal(err)
	}
	if _, err := d.AddObject("B", b); err != nil {
		t.Fatal(err)
	}
	holder := &model.Class{
		Name: "Holder",
		LocalsType: map[string][]*model.TypeExpr{
			"field": {model.NameExpr("A")},
			"other": {model.NameExpr("A")},
		},
		AssociationsType: map[string][]*model.TypeExpr{
			"field": {model.NameExpr("B")},
		},
	}
	if _, err := d.AddObject("Holder", holder); err != nil {
		t.Fatal(err)
	}
	d.ExtractRelationships()

	rels := d.GetRelationships(RelationAssociation)
	if len(rels) != 2 {
		t.Fatalf("got %d association edges; want 2", len(rels))
	}
	// "field" must come from the association candidate, not the local
	seen := map[string]string{}
	for _, rel := range rels {
		seen[rel.Name] = rel.From.Title()
	}
	if seen["field"] != "B" {
		t.Errorf("field edge sourced from %q; want B", seen["field"])
	}
	if seen["other"] != "A" {
		t.Errorf("other edge sourced from %q; want A", seen["other"])
	}
}

func TestExtractSetsDisplayDataAndShape(t *testing.T) {
	d := New("test", Options{})
	node := &model.Class{
		Name:       "C",
		LocalsType: map[string][]*model.TypeExpr{"x": {model.NameExpr("int")}},
		Functions:  []*model.Function{{Name: "run"}},
	}
	ent, err := d.AddObject("C", node)
	if err != nil {
		t.Fatal(err)
	}
	if ent.Shape() != "" {
		t.Errorf("Shape before extraction = %q; want empty", ent.Shape())
	}

	d.ExtractRelationships()

	if ent.Shape() != "class" {
		t.Errorf("Shape = %q; want class", ent.Shape())
	}
	if len(ent.Attrs) != 1 || ent.Attrs[0] != "x : int" {
		t.Errorf("Attrs = %v; want [x : int]", ent.Attrs)
	}
	if len(ent.Methods) != 1 || ent.Methods[0].Name != "run" {
		t.Errorf("Methods = %v; want [run]", ent.Methods)
	}
}

func TestExtractDeterministicAcrossRuns(t *testing.T) {
	build := func() []*Relationship {
		d := New("test", Options{})
		for _, name := range []string{"A", "B", "C"} {
			if _, err := d.AddObject(name, &model.Class{Name: name}); err != nil {
				t.Fatal(err)
			}
		}
		holder := &model.Class{
			Name: "Holder",
			AssociationsType: map[string][]*model.TypeExpr{
				"za": {model.NameExpr("A")},
				"mb": {model.NameExpr("B")},
				"ac": {model.NameExpr("C")},
			},
		}
		if _, err := d.AddObject("Holder", holder); err != nil {
			t.Fatal(err)
		}
		d.ExtractRelationships()
		return d.GetRelationships(RelationAssociation)
	}

	first := build()
	for run := 0; run < 5; run++ {
		again := build()
		if len(again) != len(first) {
			t.Fatalf("run %d: %d edges; want %d", run, len(again), len(first))
		}
		for i := range first {
			if again[i].Name != first[i].Name || again[i].From.Title() != first[i].From.Title() {
				t.Fatalf("run %d: edge order changed at %d", run, i)
			}
		}
	}
}
