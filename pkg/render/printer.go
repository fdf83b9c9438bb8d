// Package render turns a finished diagram into text in one of several
// diagram dialects.
//
// The rendering boundary is the [Printer] protocol: OpenGraph once,
// any number of EmitNode and EmitEdge calls, CloseGraph once. Concrete
// printers share one edge and cardinality vocabulary but substitute
// their own immutable symbol tables. [WriteClassDiagram] and
// [WritePackageDiagram] drive the protocol from a diagram.
//
// Printers write into the io.Writer supplied at construction and do not
// surface write errors; render into an in-memory buffer and copy it to
// its final destination afterwards.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/classmap/classmap/pkg/diagram"
	"github.com/classmap/classmap/pkg/model"
)

// NodeType distinguishes the node kinds a printer can emit.
type NodeType string

const (
	NodeClass   NodeType = "class"
	NodePackage NodeType = "package"
)

// EdgeType keys the per-printer arrow tables. The set mirrors the
// diagram relation kinds that reach output.
type EdgeType string

const (
	EdgeInherits       EdgeType = "inherits"
	EdgeAssociation    EdgeType = "association"
	EdgeAggregation    EdgeType = "aggregation"
	EdgeUses           EdgeType = "uses"
	EdgeTypeDependency EdgeType = "type_dependency"
)

// NodeProperties bundles the optional display data of a node.
type NodeProperties struct {
	Annotations []string
	Attrs       []string
	Methods     []*model.Function
}

// Printer is a stateful renderer for one output document. The protocol
// is fixed: OpenGraph first, then nodes and edges in any order, then
// CloseGraph. A Printer instance renders exactly one document.
//
// An edge or node kind missing from a printer's symbol table is a
// programming error and panics; no other rendering path fails.
type Printer interface {
	OpenGraph()
	EmitNode(name string, typ NodeType, properties *NodeProperties)
	EmitEdge(from, to string, typ EdgeType, label string, fromCard, toCard diagram.Cardinality)
	CloseGraph()
}

// emitter maintains the output stream and the indentation level shared
// by all printers. Indentation is output formatting only, two spaces
// per level.
type emitter struct {
	w     io.Writer
	depth int
}

func (e *emitter) emit(line string) {
	fmt.Fprintf(e.w, "%s%s\n", strings.Repeat("  ", e.depth), line)
}

func (e *emitter) indent()  { e.depth++ }
func (e *emitter) outdent() { e.depth-- }

// lastSegment reduces a dotted name to its final segment, which is the
// label nodes and edge endpoints are emitted under.
func lastSegment(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}

// methodLine renders one method as "name(args)", with a trailing "*"
// for abstract methods and the return annotation when inferrable.
func methodLine(fn *model.Function) string {
	line := fmt.Sprintf("%s(%s)", fn.Name, strings.Join(fn.Args, ", "))
	if fn.Abstract {
		line += "*"
	}
	if fn.Returns != nil {
		if ret := fn.Returns.String(); ret != "" {
			line += " " + ret
		}
	}
	return line
}

// arrowFor looks up typ in a printer's arrow table and panics on a miss;
// a well-formed diagram never produces an unknown edge kind.
func arrowFor[T any](table map[EdgeType]T, typ EdgeType) T {
	arrow, ok := table[typ]
	if !ok {
		panic(fmt.Sprintf("render: no arrow for edge type %q", typ))
	}
	return arrow
}

// cardinalityFor looks up card in a printer's cardinality table and
// panics on a miss.
func cardinalityFor(table map[diagram.Cardinality]string, card diagram.Cardinality) string {
	symbol, ok := table[card]
	if !ok {
		panic(fmt.Sprintf("render: no symbol for cardinality %q", card))
	}
	return symbol
}
