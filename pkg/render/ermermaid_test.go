package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/classmap/classmap/pkg/diagram"
)

func TestERMermaidGraphStructure(t *testing.T) {
	var buf bytes.Buffer
	p := NewERMermaidPrinter(&buf)

	p.OpenGraph()
	p.EmitNode("pkg.Order", NodeClass, &NodeProperties{
		Attrs: []string{"total : float", "note"},
	})
	p.EmitEdge("Customer", "Order", EdgeAssociation, "buyer", diagram.ExactlyOne, "")
	p.CloseGraph()

	want := strings.Join([]string{
		"erDiagram",
		"  Order {",
		"    float total",
		"    UNKNOWN note",
		"  }",
		"  Customer ||--o{ Order : buyer",
		"",
	}, "\n")
	if buf.String() != want {
		t.Errorf("output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestFieldLine(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"typed", "total : float", "float total"},
		{"untyped", "note", "UNKNOWN note"},
		{"union", "value : int | str", "Union[int,str] value"},
		{"multiple types", "value : int, str", "int-str value"},
		{"container", "items : list[Item]", "list[Item] items"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fieldLine(tt.in); got != tt.want {
				t.Errorf("fieldLine(%q) = %q; want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestReverseCardinality(t *testing.T) {
	tests := []struct{ in, want string }{
		{"|o", "o|"},
		{"||", "||"},
		{"}o", "o{"},
		{"}|", "|{"},
	}
	for _, tt := range tests {
		if got := reverseCardinality(tt.in); got != tt.want {
			t.Errorf("reverseCardinality(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestERMermaidEdgeDefaultsToZeroOrMore(t *testing.T) {
	var buf bytes.Buffer
	p := NewERMermaidPrinter(&buf)

	p.OpenGraph()
	p.EmitEdge("A", "B", EdgeAssociation, "", "", "")
	p.CloseGraph()

	if !strings.Contains(buf.String(), "A }o--o{ B") {
		t.Errorf("output missing default crow's-foot edge:\n%s", buf.String())
	}
}
