package render

import (
	"fmt"
	"io"

	"github.com/classmap/classmap/pkg/diagram"
)

// MermaidPrinter renders the generic class-diagram notation: nodes as
// block-structured class bodies, edges with directional arrow glyphs
// per kind.
type MermaidPrinter struct {
	emitter
	arrows        map[EdgeType]string
	cardinalities map[diagram.Cardinality]string
}

// NewMermaidPrinter creates a printer writing to w.
func NewMermaidPrinter(w io.Writer) *MermaidPrinter {
	return &MermaidPrinter{
		emitter: emitter{w: w},
		arrows: map[EdgeType]string{
			EdgeInherits:       "--|>",
			EdgeAssociation:    "--*",
			EdgeAggregation:    "--o",
			EdgeUses:           "-->",
			EdgeTypeDependency: "..>",
		},
		cardinalities: map[diagram.Cardinality]string{
			diagram.ZeroOrOne:  "0..1",
			diagram.ExactlyOne: "1",
			diagram.ZeroOrMore: "0..*",
			diagram.OneOrMore:  "1..*",
		},
	}
}

// OpenGraph emits the graph header.
func (p *MermaidPrinter) OpenGraph() {
	p.emit("classDiagram")
	p.indent()
}

// EmitNode emits a node block listing annotations, attributes and
// methods. Packages render as plain class blocks in this notation.
func (p *MermaidPrinter) EmitNode(name string, typ NodeType, properties *NodeProperties) {
	if properties == nil {
		properties = &NodeProperties{}
	}
	var body []string
	for _, annotation := range properties.Annotations {
		body = append(body, fmt.Sprintf("<<%s>>", annotation))
	}
	body = append(body, properties.Attrs...)
	for _, fn := range properties.Methods {
		body = append(body, methodLine(fn))
	}

	p.emit(fmt.Sprintf("class %s {", lastSegment(name)))
	p.indent()
	for _, line := range body {
		p.emit(line)
	}
	p.outdent()
	p.emit("}")
}

// EmitEdge emits one edge line with optional cardinality markers next
// to each endpoint and an optional label.
func (p *MermaidPrinter) EmitEdge(from, to string, typ EdgeType, label string, fromCard, toCard diagram.Cardinality) {
	edge := lastSegment(from) + " "
	if fromCard != "" {
		edge += fmt.Sprintf("%q ", cardinalityFor(p.cardinalities, fromCard))
	}
	edge += arrowFor(p.arrows, typ) + " "
	if toCard != "" {
		edge += fmt.Sprintf("%q ", cardinalityFor(p.cardinalities, toCard))
	}
	edge += lastSegment(to)
	if label != "" {
		edge += " : " + label
	}
	p.emit(edge)
}

// CloseGraph closes the graph.
func (p *MermaidPrinter) CloseGraph() {
	p.outdent()
}

var _ Printer = (*MermaidPrinter)(nil)
