package render

import (
	"bytes"
	"strings"
	"testing"
)

func TestHTMLMermaidWrapsGraphInBoilerplate(t *testing.T) {
	var buf bytes.Buffer
	p := NewHTMLMermaidPrinter(&buf)

	p.OpenGraph()
	p.EmitNode("Widget", NodeClass, nil)
	p.CloseGraph()

	out := buf.String()
	if !strings.HasPrefix(out, "<html>") {
		t.Error("output must start with the embedding header")
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "</html>") {
		t.Error("output must end with the embedding footer")
	}
	if !strings.Contains(out, `<div class="mermaid">`) {
		t.Error("output missing the graph container")
	}
	if !strings.Contains(out, "mermaid.min.js") {
		t.Error("output missing the script reference")
	}

	// the graph body sits inside the container, indented under it
	if !strings.Contains(out, "        classDiagram") {
		t.Errorf("graph header not indented into the markup:\n%s", out)
	}
	if !strings.Contains(out, "          class Widget {") {
		t.Errorf("node not indented under the graph header:\n%s", out)
	}
}

func TestHTMLMermaidBodyMatchesWrappedPrinter(t *testing.T) {
	var wrapped, plain bytes.Buffer

	hp := NewHTMLMermaidPrinter(&wrapped)
	hp.OpenGraph()
	hp.EmitEdge("A", "B", EdgeInherits, "", "", "")
	hp.CloseGraph()

	mp := NewMermaidPrinter(&plain)
	mp.OpenGraph()
	mp.EmitEdge("A", "B", EdgeInherits, "", "", "")
	mp.CloseGraph()

	for _, line := range strings.Split(strings.TrimRight(plain.String(), "\n"), "\n") {
		if !strings.Contains(wrapped.String(), strings.TrimSpace(line)) {
			t.Errorf("wrapped output missing graph line %q", strings.TrimSpace(line))
		}
	}
}
