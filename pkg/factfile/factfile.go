// Package factfile reads resolved code facts from their JSON document
// form and materializes the model values diagrams are built from.
//
// The document is the serialization boundary towards external
// resolvers: a parser emits one facts document per analyzed source
// tree, and this package turns it back into linked [model.Class] and
// [model.Module] values. References (ancestors, defining modules,
// resolved instance types) are written by name and resolved to pointers
// during import.
package factfile

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/classmap/classmap/pkg/model"
)

// Facts is one imported fact set, ready for diagram construction.
type Facts struct {
	Modules []*model.Module
	Classes []*model.Class
}

type document struct {
	Modules []moduleDoc `json:"modules"`
	Classes []classDoc  `json:"classes"`
}

type moduleDoc struct {
	Name        string   `json:"name"`
	Depends     []string `json:"depends,omitempty"`
	TypeDepends []string `json:"type_depends,omitempty"`
}

type classDoc struct {
	Name               string               `json:"name"`
	Module             string               `json:"module,omitempty"`
	Bases              []string             `json:"bases,omitempty"`
	Ancestors          []string             `json:"ancestors,omitempty"`
	Attributes         map[string][]typeDoc `json:"attributes,omitempty"`
	InstanceAttributes map[string][]typeDoc `json:"instance_attributes,omitempty"`
	Associations       map[string][]typeDoc `json:"associations,omitempty"`
	Aggregations       map[string][]typeDoc `json:"aggregations,omitempty"`
	Functions          []functionDoc        `json:"functions,omitempty"`
	EnumMembers        []string             `json:"enum_members,omitempty"`
}

type functionDoc struct {
	Name           string   `json:"name"`
	Abstract       bool     `json:"abstract,omitempty"`
	Returns        *typeDoc `json:"returns,omitempty"`
	Args           []string `json:"args,omitempty"`
	Decorators     []string `json:"decorators,omitempty"`
	PropertyObject bool     `json:"property_object,omitempty"`
}

type typeDoc struct {
	Kind     string    `json:"kind"`
	Name     string    `json:"name,omitempty"`
	Inner    *typeDoc  `json:"inner,omitempty"`
	Left     *typeDoc  `json:"left,omitempty"`
	Right    *typeDoc  `json:"right,omitempty"`
	Elements []*typeDoc `json:"elements,omitempty"`
	Class    string    `json:"class,omitempty"`
}

// Read decodes a facts document from r and resolves its references.
func Read(r io.Reader) (*Facts, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode facts: %w", err)
	}
	return resolve(&doc)
}

// Load reads a facts document from a file.
func Load(path string) (*Facts, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open facts file: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// resolve links the flat document into pointer-connected model values.
func resolve(doc *document) (*Facts, error) {
	facts := &Facts{}

	modules := make(map[string]*model.Module, len(doc.Modules))
	for _, md := range doc.Modules {
		if md.Name == "" {
			return nil, fmt.Errorf("module with empty name")
		}
		if _, dup := modules[md.Name]; dup {
			return nil, fmt.Errorf("duplicate module %q", md.Name)
		}
		mod := &model.Module{Name: md.Name, Depends: md.Depends, TypeDepends: md.TypeDepends}
		modules[md.Name] = mod
		facts.Modules = append(facts.Modules, mod)
	}

	classes := make(map[string]*model.Class, len(doc.Classes))
	for _, cd := range doc.Classes {
		if cd.Name == "" {
			return nil, fmt.Errorf("class with empty name")
		}
		if _, dup := classes[cd.Name]; dup {
			return nil, fmt.Errorf("duplicate class %q", cd.Name)
		}
		class := &model.Class{
			Name:        cd.Name,
			Bases:       cd.Bases,
			EnumMembers: cd.EnumMembers,
		}
		if cd.Module != "" {
			mod, ok := modules[cd.Module]
			if !ok {
				return nil, fmt.Errorf("class %q: undeclared module %q", cd.Name, cd.Module)
			}
			class.Module = mod
		}
		classes[cd.Name] = class
		facts.Classes = append(facts.Classes, class)
	}

	// second pass: references between classes
	for _, cd := range doc.Classes {
		class := classes[cd.Name]
		for _, ancestor := range cd.Ancestors {
			// ancestors outside the fact set stay unresolved and are
			// dropped, mirroring what a resolver could not link
			if parent, ok := classes[ancestor]; ok {
				class.Ancestors = append(class.Ancestors, parent)
			}
		}
		var err error
		if class.LocalsType, err = typeMap(cd.Attributes, classes); err != nil {
			return nil, fmt.Errorf("class %q attributes: %w", cd.Name, err)
		}
		if class.InstanceAttrsType, err = typeMap(cd.InstanceAttributes, classes); err != nil {
			return nil, fmt.Errorf("class %q instance attributes: %w", cd.Name, err)
		}
		if class.AssociationsType, err = typeMap(cd.Associations, classes); err != nil {
			return nil, fmt.Errorf("class %q associations: %w", cd.Name, err)
		}
		if class.AggregationsType, err = typeMap(cd.Aggregations, classes); err != nil {
			return nil, fmt.Errorf("class %q aggregations: %w", cd.Name, err)
		}
		for _, fd := range cd.Functions {
			fn := &model.Function{
				Name:           fd.Name,
				Abstract:       fd.Abstract,
				Args:           fd.Args,
				Decorators:     fd.Decorators,
				PropertyObject: fd.PropertyObject,
			}
			if fd.Returns != nil {
				if fn.Returns, err = typeExpr(fd.Returns, classes); err != nil {
					return nil, fmt.Errorf("class %q function %q: %w", cd.Name, fd.Name, err)
				}
			}
			class.Functions = append(class.Functions, fn)
		}
	}

	return facts, nil
}

func typeMap(src map[string][]typeDoc, classes map[string]*model.Class) (map[string][]*model.TypeExpr, error) {
	if src == nil {
		return nil, nil
	}
	out := make(map[string][]*model.TypeExpr, len(src))
	for name, docs := range src {
		exprs := make([]*model.TypeExpr, 0, len(docs))
		for i := range docs {
			expr, err := typeExpr(&docs[i], classes)
			if err != nil {
				return nil, fmt.Errorf("member %q: %w", name, err)
			}
			exprs = append(exprs, expr)
		}
		out[name] = exprs
	}
	return out, nil
}

func typeExpr(doc *typeDoc, classes map[string]*model.Class) (*model.TypeExpr, error) {
	if doc == nil {
		return nil, fmt.Errorf("missing type expression")
	}
	switch doc.Kind {
	case "name":
		if doc.Name == "" {
			return nil, fmt.Errorf("name expression without a name")
		}
		return model.NameExpr(doc.Name), nil
	case "subscript":
		inner, err := typeExpr(doc.Inner, classes)
		if err != nil {
			return nil, err
		}
		return model.SubscriptExpr(doc.Name, inner), nil
	case "union":
		left, err := typeExpr(doc.Left, classes)
		if err != nil {
			return nil, err
		}
		right, err := typeExpr(doc.Right, classes)
		if err != nil {
			return nil, err
		}
		return model.UnionExpr(left, right), nil
	case "tuple":
		elts := make([]*model.TypeExpr, 0, len(doc.Elements))
		for _, ed := range doc.Elements {
			elt, err := typeExpr(ed, classes)
			if err != nil {
				return nil, err
			}
			elts = append(elts, elt)
		}
		return model.TupleExpr(elts...), nil
	case "instance":
		// an instance of a class outside the fact set cannot link to
		// anything; degrade to unknown instead of failing the import
		if class, ok := classes[doc.Class]; ok {
			return model.InstanceExpr(class), nil
		}
		return &model.TypeExpr{}, nil
	case "unknown", "":
		return &model.TypeExpr{}, nil
	default:
		return nil, fmt.Errorf("unknown type expression kind %q", doc.Kind)
	}
}

func (f *Facts) String() string {
	return fmt.Sprintf("facts: %d modules, %d classes", len(f.Modules), len(f.Classes))
}
