package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/classmap/classmap/pkg/diagram"
)

// ERMermaidPrinter renders the entity-relationship notation: nodes as
// attribute-typed field lists, edges as crow's-foot cardinality pairs.
type ERMermaidPrinter struct {
	emitter
	cardinalities map[diagram.Cardinality]string
}

// NewERMermaidPrinter creates a printer writing to w.
func NewERMermaidPrinter(w io.Writer) *ERMermaidPrinter {
	return &ERMermaidPrinter{
		emitter: emitter{w: w},
		cardinalities: map[diagram.Cardinality]string{
			diagram.ZeroOrOne:  "|o",
			diagram.ExactlyOne: "||",
			diagram.ZeroOrMore: "}o",
			diagram.OneOrMore:  "}|",
		},
	}
}

// OpenGraph emits the graph header.
func (p *ERMermaidPrinter) OpenGraph() {
	p.emit("erDiagram")
	p.indent()
}

// EmitNode emits a node block with one "Type name" field per attribute
// line. Annotations and methods have no place in this notation and are
// omitted.
func (p *ERMermaidPrinter) EmitNode(name string, typ NodeType, properties *NodeProperties) {
	if properties == nil {
		properties = &NodeProperties{}
	}
	var body []string
	for _, attribute := range properties.Attrs {
		body = append(body, fieldLine(attribute))
	}

	p.emit(fmt.Sprintf("%s {", lastSegment(name)))
	p.indent()
	for _, line := range body {
		p.emit(line)
	}
	p.outdent()
	p.emit("}")
}

// fieldLine splits an attribute display line ("name : Type") into the
// notation's "Type name" form. Union types are normalized to a
// bracketed union and characters that conflict with the notation's own
// syntax are stripped or replaced.
func fieldLine(attribute string) string {
	fieldName := attribute
	fieldType := "UNKNOWN"
	if before, after, ok := strings.Cut(attribute, ":"); ok {
		fieldName = strings.TrimSpace(before)
		fieldType = strings.TrimSpace(after)
	} else {
		fieldName = strings.TrimSpace(fieldName)
	}
	if strings.Contains(fieldType, "|") {
		fieldType = fmt.Sprintf("Union[%s]", strings.Join(strings.Split(fieldType, "|"), ", "))
	}
	// spaces and commas collide with the field grammar
	fieldType = strings.ReplaceAll(fieldType, " ", "")
	fieldType = strings.ReplaceAll(fieldType, ",", "-")
	return fieldType + " " + fieldName
}

// EmitEdge emits one crow's-foot edge. Unspecified cardinalities
// default to zero-or-more; the target-side marker is the structural
// mirror of the source-side one.
func (p *ERMermaidPrinter) EmitEdge(from, to string, typ EdgeType, label string, fromCard, toCard diagram.Cardinality) {
	if fromCard == "" {
		fromCard = diagram.ZeroOrMore
	}
	if toCard == "" {
		toCard = diagram.ZeroOrMore
	}
	arrow := cardinalityFor(p.cardinalities, fromCard) + "--" + reverseCardinality(cardinalityFor(p.cardinalities, toCard))
	edge := fmt.Sprintf("%s %s %s", lastSegment(from), arrow, lastSegment(to))
	if label != "" {
		edge += " : " + label
	}
	p.emit(edge)
}

// reverseCardinality mirrors a crow's-foot marker for the target side
// of an edge, e.g. "}o" becomes "o{".
func reverseCardinality(symbol string) string {
	runes := []rune(symbol)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return strings.ReplaceAll(string(runes), "}", "{")
}

// CloseGraph closes the graph.
func (p *ERMermaidPrinter) CloseGraph() {
	p.outdent()
}

var _ Printer = (*ERMermaidPrinter)(nil)
