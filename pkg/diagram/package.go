package diagram

import (
	"fmt"
	"slices"
	"strings"

	"github.com/classmap/classmap/pkg/model"
)

// PackageDiagram extends Diagram to the module level: it holds package
// entities next to class entities and extracts ownership and
// inter-module dependency edges on top of the class-level ones.
type PackageDiagram struct {
	Diagram
}

// NewPackageDiagram creates an empty package diagram.
func NewPackageDiagram(title string, opts Options) *PackageDiagram {
	return &PackageDiagram{Diagram: *New(title, opts)}
}

// AddModule creates a package entity for node and registers it under the
// node's identity. The module's dependency lists seed the entity's
// recorded dependencies; AddFromDepend can append more. Returns
// ErrDuplicateEntity if the node was added before.
func (d *PackageDiagram) AddModule(title string, node *model.Module) (*PackageEntity, error) {
	ent := &PackageEntity{
		Node:        node,
		depends:     slices.Clone(node.Depends),
		typeDepends: slices.Clone(node.TypeDepends),
	}
	if err := d.register(node, ent, &ent.figure, title); err != nil {
		return nil, err
	}
	return ent, nil
}

// Modules returns all package entities in creation order.
func (d *PackageDiagram) Modules() []*PackageEntity {
	var modules []*PackageEntity
	for _, obj := range d.objects {
		if m, ok := obj.(*PackageEntity); ok {
			modules = append(modules, m)
		}
	}
	return modules
}

// Module returns the package entity whose underlying module has the
// given name, or an error wrapping ErrNotFound.
func (d *PackageDiagram) Module(name string) (*PackageEntity, error) {
	for _, mod := range d.Modules() {
		if mod.Node.Name == name {
			return mod, nil
		}
	}
	return nil, fmt.Errorf("module %q: %w", name, ErrNotFound)
}

// GetModule resolves a module name as seen from context. On top of the
// exact match it retries the name qualified by the context module and by
// the context's parent package, which covers relative-import naming.
func (d *PackageDiagram) GetModule(name string, context *model.Module) (*PackageEntity, error) {
	root := context.Name
	parent := root
	if i := strings.LastIndex(root, "."); i >= 0 {
		parent = root[:i]
	}
	for _, mod := range d.Modules() {
		switch mod.Node.Name {
		case name, root + "." + name, parent + "." + name:
			return mod, nil
		}
	}
	return nil, fmt.Errorf("module %q from %q: %w", name, root, ErrNotFound)
}

// AddFromDepend records a dependency of importer onto the module named
// imported. Imports inside type-checking-only blocks are recorded as
// type-only dependencies; a name already recorded as a regular
// dependency is never re-added as type-only.
//
// Returns an error wrapping ErrNotFound if importer has no entity in the
// diagram.
func (d *PackageDiagram) AddFromDepend(importer *model.Module, imported string, typeChecking bool) error {
	ent, err := d.ObjectFromNode(importer)
	if err != nil {
		return err
	}
	pkg := ent.(*PackageEntity)

	if slices.Contains(pkg.depends, imported) {
		return nil
	}
	if !typeChecking {
		pkg.depends = append(pkg.depends, imported)
	} else if !slices.Contains(pkg.typeDepends, imported) {
		pkg.typeDepends = append(pkg.typeDepends, imported)
	}
	return nil
}

// ExtractRelationships runs the class-level extraction, then links every
// class to its defining module and every module to the modules it
// depends on. Modules absent from the diagram are silently skipped.
func (d *PackageDiagram) ExtractRelationships() {
	d.Diagram.ExtractRelationships()

	for _, obj := range d.Classes() {
		if obj.Node.Module == nil {
			continue
		}
		mod, err := d.ObjectFromNode(obj.Node.Module)
		if err != nil {
			continue
		}
		d.AddRelationship(obj, mod, RelationOwnership, "", "", "")
	}

	for _, pkg := range d.Modules() {
		pkg.shape = "package"
		for _, depName := range pkg.depends {
			dep, err := d.GetModule(depName, pkg.Node)
			if err != nil {
				continue
			}
			d.AddRelationship(pkg, dep, RelationDepends, "", "", "")
		}
		for _, depName := range pkg.typeDepends {
			dep, err := d.GetModule(depName, pkg.Node)
			if err != nil {
				continue
			}
			d.AddRelationship(pkg, dep, RelationTypeDepends, "", "", "")
		}
	}
}
