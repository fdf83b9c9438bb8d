package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/classmap/classmap/pkg/diagram"
	"github.com/classmap/classmap/pkg/model"
)

func TestMermaidGraphStructure(t *testing.T) {
	var buf bytes.Buffer
	p := NewMermaidPrinter(&buf)

	p.OpenGraph()
	p.EmitNode("pkg.Child", NodeClass, &NodeProperties{
		Annotations: []string{"Abstract"},
		Attrs:       []string{"name : str"},
		Methods:     []*model.Function{{Name: "run", Args: []string{"self"}}},
	})
	p.EmitEdge("pkg.Child", "pkg.Base", EdgeInherits, "", "", "")
	p.CloseGraph()

	want := strings.Join([]string{
		"classDiagram",
		"  class Child {",
		"    <<Abstract>>",
		"    name : str",
		"    run(self)",
		"  }",
		"  Child --|> Base",
		"",
	}, "\n")
	if buf.String() != want {
		t.Errorf("output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestMermaidEdgeCardinalitiesQuoted(t *testing.T) {
	var buf bytes.Buffer
	p := NewMermaidPrinter(&buf)

	p.OpenGraph()
	p.EmitEdge("Target", "Holder", EdgeAssociation, "field", diagram.ZeroOrMore, "")
	p.CloseGraph()

	if !strings.Contains(buf.String(), `Target "0..*" --* Holder : field`) {
		t.Errorf("output missing cardinality-annotated edge:\n%s", buf.String())
	}
}

func TestMermaidArrowPerEdgeKind(t *testing.T) {
	tests := []struct {
		typ   EdgeType
		arrow string
	}{
		{EdgeInherits, "A --|> B"},
		{EdgeAssociation, "A --* B"},
		{EdgeAggregation, "A --o B"},
		{EdgeUses, "A --> B"},
		{EdgeTypeDependency, "A ..> B"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		p := NewMermaidPrinter(&buf)
		p.OpenGraph()
		p.EmitEdge("A", "B", tt.typ, "", "", "")
		p.CloseGraph()
		if !strings.Contains(buf.String(), tt.arrow) {
			t.Errorf("edge %q: output %q missing %q", tt.typ, buf.String(), tt.arrow)
		}
	}
}

func TestMermaidEmitNodeNilProperties(t *testing.T) {
	var buf bytes.Buffer
	p := NewMermaidPrinter(&buf)

	p.OpenGraph()
	p.EmitNode("pkg", NodePackage, nil)
	p.CloseGraph()

	want := "classDiagram\n  class pkg {\n  }\n"
	if buf.String() != want {
		t.Errorf("output = %q; want %q", buf.String(), want)
	}
}

func TestMethodLine(t *testing.T) {
	tests := []struct {
		name string
		fn   *model.Function
		want string
	}{
		{"plain", &model.Function{Name: "run"}, "run()"},
		{"args", &model.Function{Name: "run", Args: []string{"self", "count"}}, "run(self, count)"},
		{"abstract", &model.Function{Name: "run", Abstract: true}, "run()*"},
		{"returns", &model.Function{Name: "size", Returns: model.NameExpr("int")}, "size() int"},
		{"unknown return", &model.Function{Name: "size", Returns: &model.TypeExpr{}}, "size()"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := methodLine(tt.fn); got != tt.want {
				t.Errorf("methodLine = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestLastSegment(t *testing.T) {
	tests := []struct{ in, want string }{
		{"pkg.sub.Widget", "Widget"},
		{"Widget", "Widget"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := lastSegment(tt.in); got != tt.want {
			t.Errorf("lastSegment(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
