package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/classmap/classmap/pkg/diagram"
)

// PlantUMLPrinter renders the PlantUML class-diagram dialect. It shares
// the arrow vocabulary of the generic notation but uses PlantUML's node
// grammar and quoted cardinality labels.
type PlantUMLPrinter struct {
	emitter
	title         string
	arrows        map[EdgeType]string
	cardinalities map[diagram.Cardinality]string
}

// NewPlantUMLPrinter creates a printer writing to w. The title appears
// in the document header when non-empty.
func NewPlantUMLPrinter(w io.Writer, title string) *PlantUMLPrinter {
	return &PlantUMLPrinter{
		emitter: emitter{w: w},
		title:   title,
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

// OpenGraph emits the document header.
func (p *PlantUMLPrinter) OpenGraph() {
	header := "@startuml"
	if p.title != "" {
		header += " " + p.title
	}
	p.emit(header)
	p.emit("set namespaceSeparator none")
}

// EmitNode emits one class or package block. Annotations render as
// stereotypes, abstract methods carry the {abstract} modifier.
func (p *PlantUMLPrinter) EmitNode(name string, typ NodeType, properties *NodeProperties) {
	if properties == nil {
		properties = &NodeProperties{}
	}
	keyword := "class"
	if typ == NodePackage {
		keyword = "package"
	}

	head := fmt.Sprintf("%s %q", keyword, lastSegment(name))
	if len(properties.Annotations) > 0 {
		head += fmt.Sprintf(" <<%s>>", strings.Join(properties.Annotations, ", "))
	}
	p.emit(head + " {")
	p.indent()
	for _, attribute := range properties.Attrs {
		p.emit(attribute)
	}
	for _, fn := range properties.Methods {
		line := fmt.Sprintf("%s(%s)", fn.Name, strings.Join(fn.Args, ", "))
		if fn.Abstract {
			line = "{abstract} " + line
		}
		if fn.Returns != nil {
			if ret := fn.Returns.String(); ret != "" {
				line += " -> " + ret
			}
		}
		p.emit(line)
	}
	p.outdent()
	p.emit("}")
}

// EmitEdge emits one edge line with quoted cardinality labels.
func (p *PlantUMLPrinter) EmitEdge(from, to string, typ EdgeType, label string, fromCard, toCard diagram.Cardinality) {
	edge := fmt.Sprintf("%q ", lastSegment(from))
	if fromCard != "" {
		edge += fmt.Sprintf("%q ", cardinalityFor(p.cardinalities, fromCard))
	}
	edge += arrowFor(p.arrows, typ) + " "
	if toCard != "" {
		edge += fmt.Sprintf("%q ", cardinalityFor(p.cardinalities, toCard))
	}
	edge += fmt.Sprintf("%q", lastSegment(to))
	if label != "" {
		edge += " : " + label
	}
	p.emit(edge)
}

// CloseGraph emits the document footer.
func (p *PlantUMLPrinter) CloseGraph() {
	p.emit("@enduml")
}

var _ Printer = (*PlantUMLPrinter)(nil)
