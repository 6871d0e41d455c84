package manifest

import (
	"go/token"
	"path/filepath"

	"provider-generator/internal/analyze"
)

// ToAnalysis converts a manifest into the package model the planner
// consumes. A relative Dir is resolved against the manifest's directory.
func ToAnalysis(f *File) *analyze.PackageInfo {
	dir := f.Dir
	if !filepath.IsAbs(dir) && f.Filename != "" {
		dir = filepath.Join(filepath.Dir(f.Filename), dir)
	}

	pkg := &analyze.PackageInfo{
		Path: f.Path,
		Name: f.Package,
		Dir:  dir,
	}

	imports := make([]analyze.Import, 0, len(f.Imports))
	for _, imp := range f.Imports {
		imports = append(imports, analyze.Import{Name: imp.Name, Path: imp.Path})
	}

	at := func(line, column int) token.Position {
		return token.Position{Filename: f.Filename, Line: line, Column: column}
	}

	for _, p := range f.Providers {
		t := &analyze.TypeInfo{
			ID:           analyze.TypeID{PkgPath: f.Path, Name: p.Type},
			Directive:    analyze.Annotation{Text: p.Provide.Text, Pos: at(p.Provide.Line, p.Provide.Column)},
			ProviderName: p.Name,
			File:         f.Filename,
			Imports:      imports,
			Pos:          at(p.line, p.column),
		}

		for _, tp := range p.TypeParams {
			t.TypeParams = append(t.TypeParams, analyze.TypeParam{Name: tp.Name, Constraint: tp.Constraint})
		}

		for _, fld := range p.Fields {
			t.Fields = append(t.Fields, analyze.FieldInfo{
				Name:   fld.Name,
				Type:   fld.Type,
				Depend: analyze.Annotation{Text: fld.Depend.Text, Pos: at(fld.Depend.Line, fld.Depend.Column)},
				Pos:    at(fld.line, fld.column),
			})
		}

		pkg.Types = append(pkg.Types, t)
	}

	return pkg
}

// FromAnalysis writes down the annotations found in a package. Dir is made
// relative to base when possible. Imports of all declaring files are
// merged; the first file wins when two bind the same name.
func FromAnalysis(pkg *analyze.PackageInfo, base string) *File {
	f := &File{
		Version: Version,
		Package: pkg.Name,
		Path:    pkg.Path,
		Dir:     pkg.Dir,
	}

	if base != "" {
		if rel, err := filepath.Rel(base, pkg.Dir); err == nil {
			f.Dir = filepath.ToSlash(rel)
		}
	}

	seen := map[string]struct{}{}

	for _, t := range pkg.Types {
		for _, imp := range t.Imports {
			if _, ok := seen[imp.Name]; ok {
				continue
			}

			seen[imp.Name] = struct{}{}
			f.Imports = append(f.Imports, Import{Name: imp.Name, Path: imp.Path})
		}

		p := Provider{
			Type:    t.ID.Name,
			Name:    t.ProviderName,
			Provide: Directive{Text: t.Directive.Text},
		}

		for _, tp := range t.TypeParams {
			p.TypeParams = append(p.TypeParams, TypeParam{Name: tp.Name, Constraint: tp.Constraint})
		}

		for _, fld := range t.Fields {
			p.Fields = append(p.Fields, Field{Name: fld.Name, Type: fld.Type, Depend: Directive{Text: fld.Depend.Text}})
		}

		f.Providers = append(f.Providers, p)
	}

	return f
}
