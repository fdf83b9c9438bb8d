package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/classmap/classmap/pkg/diagram"
)

// DotPrinter renders Graphviz DOT. Class nodes use record labels with
// separate attribute and method compartments; edges carry per-kind
// arrowheads and cardinalities as tail and head labels.
//
// The resulting document can be rasterized with [RenderSVG].
type DotPrinter struct {
	emitter
	title         string
	arrows        map[EdgeType]string
	cardinalities map[diagram.Cardinality]string
}

// NewDotPrinter creates a printer writing to w.
func NewDotPrinter(w io.Writer, title string) *DotPrinter {
	return &DotPrinter{
		emitter: emitter{w: w},
		title:   title,
		arrows: map[EdgeType]string{
			EdgeInherits:       `arrowhead="empty", arrowtail="none"`,
			EdgeAssociation:    `arrowhead="diamond", arrowtail="none", fontcolor="green"`,
			EdgeAggregation:    `arrowhead="odiamond", arrowtail="none", fontcolor="green"`,
			EdgeUses:           `arrowhead="open", arrowtail="none"`,
			EdgeTypeDependency: `arrowhead="open", arrowtail="none", style="dashed"`,
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
func (p *DotPrinter) OpenGraph() {
	p.emit(fmt.Sprintf("digraph %q {", p.title))
	p.indent()
	p.emit("rankdir=BT")
	p.emit(`charset="utf-8"`)
}

// EmitNode emits one node. Classes render as records with annotation,
// attribute and method compartments, packages as plain boxes.
func (p *DotPrinter) EmitNode(name string, typ NodeType, properties *NodeProperties) {
	short := lastSegment(name)
	if typ == NodePackage {
		p.emit(fmt.Sprintf("%q [label=%q, shape=\"box\"];", short, short))
		return
	}
	if properties == nil {
		properties = &NodeProperties{}
	}

	head := short
	for _, annotation := range properties.Annotations {
		head += fmt.Sprintf("\\n\\<\\<%s\\>\\>", annotation)
	}
	var attrs, methods []string
	for _, attribute := range properties.Attrs {
		attrs = append(attrs, dotEscape(attribute)+`\l`)
	}
	for _, fn := range properties.Methods {
		methods = append(methods, dotEscape(methodLine(fn))+`\l`)
	}

	label := fmt.Sprintf("{%s|%s|%s}", head, strings.Join(attrs, ""), strings.Join(methods, ""))
	p.emit(fmt.Sprintf("%q [label=\"%s\", shape=\"record\"];", short, label))
}

// dotEscape protects characters with meaning inside record labels.
func dotEscape(s string) string {
	r := strings.NewReplacer(`|`, `\|`, `{`, `\{`, `}`, `\}`, `<`, `\<`, `>`, `\>`, `"`, `\"`)
	return r.Replace(s)
}

// EmitEdge emits one edge with the arrow attributes of its kind.
func (p *DotPrinter) EmitEdge(from, to string, typ EdgeType, label string, fromCard, toCard diagram.Cardinality) {
	attrs := []string{arrowFor(p.arrows, typ)}
	if label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", label))
	}
	if fromCard != "" {
		attrs = append(attrs, fmt.Sprintf("taillabel=%q", cardinalityFor(p.cardinalities, fromCard)))
	}
	if toCard != "" {
		attrs = append(attrs, fmt.Sprintf("headlabel=%q", cardinalityFor(p.cardinalities, toCard)))
	}
	p.emit(fmt.Sprintf("%q -> %q [%s];", lastSegment(from), lastSegment(to), strings.Join(attrs, ", ")))
}

// CloseGraph closes the graph.
func (p *DotPrinter) CloseGraph() {
	p.outdent()
	p.emit("}")
}

var _ Printer = (*DotPrinter)(nil)

// RenderSVG rasterizes a DOT document to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
