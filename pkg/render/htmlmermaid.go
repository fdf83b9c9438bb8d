package render

import "io"

const htmlOpenBoilerplate = `<html>
  <body>
    <script src="https://cdn.jsdelivr.net/npm/mermaid/dist/mermaid.min.js"></script>
      <div class="mermaid">`

const htmlCloseBoilerplate = `      </div>
  </body>
</html>`

// graphIndentLevel is the extra indentation applied around the wrapped
// graph body so it nests under the embedding markup.
const graphIndentLevel = 4

// HTMLMermaidPrinter wraps the generic class-diagram output in fixed
// hypertext boilerplate, suitable for direct embedding in a document.
// Nodes and edges delegate to the wrapped printer on the same stream.
type HTMLMermaidPrinter struct {
	*MermaidPrinter
}

// NewHTMLMermaidPrinter creates a printer writing to w.
func NewHTMLMermaidPrinter(w io.Writer) *HTMLMermaidPrinter {
	return &HTMLMermaidPrinter{MermaidPrinter: NewMermaidPrinter(w)}
}

// OpenGraph emits the embedding header, shifts the indentation and
// opens the wrapped graph.
func (p *HTMLMermaidPrinter) OpenGraph() {
	p.emit(htmlOpenBoilerplate)
	for range graphIndentLevel {
		p.indent()
	}
	p.MermaidPrinter.OpenGraph()
}

// CloseGraph closes the wrapped graph, restores the indentation and
// emits the embedding footer.
func (p *HTMLMermaidPrinter) CloseGraph() {
	p.MermaidPrinter.CloseGraph()
	for range graphIndentLevel {
		p.outdent()
	}
	p.emit(htmlCloseBoilerplate)
}

var _ Printer = (*HTMLMermaidPrinter)(nil)
