package factfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/classmap/classmap/pkg/model"
)

const sampleDoc = `{
  "modules": [
    {"name": "shop", "depends": ["billing"]},
    {"name": "billing", "type_depends": ["shop"]}
  ],
  "classes": [
    {"name": "Item", "module": "shop"},
    {
      "name": "Order",
      "module": "shop",
      "bases": ["ABC"],
      "ancestors": ["Item", "Elsewhere"],
      "instance_attributes": {
        "items": [{"kind": "subscript", "name": "list", "inner": {"kind": "name", "name": "Item"}}]
      },
      "associations": {
        "parent": [{"kind": "union",
          "left": {"kind": "instance", "class": "Item"},
          "right": {"kind": "name", "name": "None"}}]
      },
      "functions": [
        {"name": "total", "decorators": ["property"], "returns": {"kind": "name", "name": "float"}},
        {"name": "submit", "abstract": true, "args": ["self"]}
      ]
    },
    {"name": "Status", "enum_members": ["OPEN", "CLOSED"]}
  ]
}`

func TestReadResolvesReferences(t *testing.T) {
	facts, err := Read(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}

	if len(facts.Modules) != 2 || len(facts.Classes) != 3 {
		t.Fatalf("got %d modules, %d classes; want 2, 3", len(facts.Modules), len(facts.Classes))
	}

	shop := facts.Modules[0]
	if shop.Name != "shop" || len(shop.Depends) != 1 || shop.Depends[0] != "billing" {
		t.Errorf("shop module = %+v", shop)
	}
	if billing := facts.Modules[1]; len(billing.TypeDepends) != 1 || billing.TypeDepends[0] != "shop" {
		t.Errorf("billing module = %+v", billing)
	}

	item, order := facts.Classes[0], facts.Classes[1]
	if order.Module != shop {
		t.Error("Order not linked to the shop module pointer")
	}

	// the out-of-set ancestor is dropped, the in-set one linked by pointer
	if len(order.Ancestors) != 1 || order.Ancestors[0] != item {
		t.Errorf("Order ancestors = %v; want [Item]", order.Ancestors)
	}

	items := order.InstanceAttrsType["items"]
	if len(items) != 1 || items[0].String() != "list[Item]" {
		t.Errorf("items type = %v", items)
	}

	parent := order.AssociationsType["parent"]
	if len(parent) != 1 || parent[0].Kind != model.ExprUnion {
		t.Fatalf("parent type = %v", parent)
	}
	if parent[0].Left.Kind != model.ExprInstance || parent[0].Left.Class != item {
		t.Error("instance reference not resolved to the Item pointer")
	}

	if len(order.Functions) != 2 {
		t.Fatalf("got %d functions; want 2", len(order.Functions))
	}
	total := order.Functions[0]
	if total.Returns == nil || total.Returns.String() != "float" {
		t.Errorf("total returns = %v", total.Returns)
	}
	if submit := order.Functions[1]; !submit.Abstract || len(submit.Args) != 1 {
		t.Errorf("submit = %+v", submit)
	}

	if status := facts.Classes[2]; !status.IsEnum() || len(status.EnumMembers) != 2 {
		t.Errorf("Status = %+v; want enum with 2 members", status)
	}
}

func TestReadOutOfSetInstanceDegradesToUnknown(t *testing.T) {
	doc := `{"classes": [{"name": "C",
	  "attributes": {"x": [{"kind": "instance", "class": "Ghost"}]}}]}`
	facts, err := Read(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	x := facts.Classes[0].LocalsType["x"]
	if len(x) != 1 || x[0].Kind != model.ExprUnknown {
		t.Errorf("x = %v; want one unknown expression", x)
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"invalid json", `{`},
		{"empty module name", `{"modules": [{"name": ""}]}`},
		{"duplicate module", `{"modules": [{"name": "a"}, {"name": "a"}]}`},
		{"empty class name", `{"classes": [{"name": ""}]}`},
		{"duplicate class", `{"classes": [{"name": "C"}, {"name": "C"}]}`},
		{"undeclared module", `{"classes": [{"name": "C", "module": "ghost"}]}`},
		{"unknown expr kind", `{"classes": [{"name": "C",
		  "attributes": {"x": [{"kind": "weird"}]}}]}`},
		{"name expr without name", `{"classes": [{"name": "C",
		  "attributes": {"x": [{"kind": "name"}]}}]}`},
		{"subscript without inner", `{"classes": [{"name": "C",
		  "attributes": {"x": [{"kind": "subscript", "name": "list"}]}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(strings.NewReader(tt.doc)); err == nil {
				t.Error("Read accepted an invalid document")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facts.json")
	if err := os.WriteFile(path, []byte(sampleDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	facts, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got := facts.String(); got != "facts: 2 modules, 3 classes" {
		t.Errorf("String() = %q", got)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Load of a missing file must fail")
	}
}
