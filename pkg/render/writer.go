package render

import (
	"fmt"
	"io"

	"github.com/classmap/classmap/pkg/diagram"
)

// classEdgeKinds maps class-level relation kinds to the edge vocabulary,
// in emission order.
var classEdgeKinds = []struct {
	relation diagram.RelationType
	edge     EdgeType
}{
	{diagram.RelationSpecialization, EdgeInherits},
	{diagram.RelationAssociation, EdgeAssociation},
	{diagram.RelationAggregation, EdgeAggregation},
	{diagram.RelationUses, EdgeUses},
}

// packageEdgeKinds maps module-level relation kinds to the edge
// vocabulary, in emission order.
var packageEdgeKinds = []struct {
	relation diagram.RelationType
	edge     EdgeType
}{
	{diagram.RelationDepends, EdgeUses},
	{diagram.RelationTypeDepends, EdgeTypeDependency},
}

// WriteClassDiagram walks an extracted class diagram through p: the
// graph header, every class node in entity-ID order, then the edges of
// each kind in the diagram's deterministic retrieval order. Rendering
// the same diagram twice yields byte-identical output.
func WriteClassDiagram(p Printer, d *diagram.Diagram) {
	p.OpenGraph()
	for _, obj := range d.Classes() {
		p.EmitNode(obj.Title(), NodeClass, &NodeProperties{
			Annotations: obj.Annotations,
			Attrs:       obj.Attrs,
			Methods:     obj.Methods,
		})
	}
	for _, kind := range classEdgeKinds {
		emitEdges(p, d, kind.relation, kind.edge)
	}
	p.CloseGraph()
}

// WritePackageDiagram walks an extracted package diagram through p:
// every package node, then the dependency edges. Class entities and
// their edges are not part of the module-level picture.
func WritePackageDiagram(p Printer, d *diagram.PackageDiagram) {
	p.OpenGraph()
	for _, mod := range d.Modules() {
		p.EmitNode(mod.Title(), NodePackage, nil)
	}
	for _, kind := range packageEdgeKinds {
		emitEdges(p, &d.Diagram, kind.relation, kind.edge)
	}
	p.CloseGraph()
}

func emitEdges(p Printer, d *diagram.Diagram, relation diagram.RelationType, edge EdgeType) {
	for _, rel := range d.GetRelationships(relation) {
		p.EmitEdge(rel.From.Title(), rel.To.Title(), edge, rel.Name, rel.FromCardinality, rel.ToCardinality)
	}
}

// Format names a supported output dialect.
type Format string

const (
	FormatMermaid     Format = "mmd"
	FormatERMermaid   Format = "er"
	FormatHTMLMermaid Format = "html"
	FormatPlantUML    Format = "puml"
	FormatDot         Format = "dot"
)

// Formats lists the supported output dialects.
func Formats() []Format {
	return []Format{FormatMermaid, FormatERMermaid, FormatHTMLMermaid, FormatPlantUML, FormatDot}
}

// NewPrinter creates the printer for a format, writing to w. The title
// is used by dialects that carry one in their header.
func NewPrinter(format Format, w io.Writer, title string) (Printer, error) {
	switch format {
	case FormatMermaid:
		return NewMermaidPrinter(w), nil
	case FormatERMermaid:
		return NewERMermaidPrinter(w), nil
	case FormatHTMLMermaid:
		return NewHTMLMermaidPrinter(w), nil
	case FormatPlantUML:
		return NewPlantUMLPrinter(w, title), nil
	case FormatDot:
		return NewDotPrinter(w, title), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}
