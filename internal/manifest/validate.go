package manifest

import (
	"fmt"
	"go/token"

	"provider-generator/internal/analyze"
	"provider-generator/internal/diagnostic"
	"provider-generator/internal/suggest"
)

// Validate checks the structure of a manifest. When pkg is not nil, the
// providers are also checked against the types declared in source: every
// type must exist and list exactly its fields.
//
// Directive syntax is not checked here; the planner reports it.
func Validate(f *File, pkg *analyze.PackageInfo) diagnostic.Diagnostics {
	var res diagnostic.Diagnostics

	if f == nil {
		res.AddError(diagnostic.CodeManifest, "manifest is nil", token.Position{})
		return res
	}

	at := func(line, column int) token.Position {
		return token.Position{Filename: f.Filename, Line: line, Column: column}
	}

	if f.Version != Version {
		res.AddError(diagnostic.CodeManifest,
			fmt.Sprintf("unsupported manifest version %q, expected %q", f.Version, Version), at(0, 0))
	}

	if !token.IsIdentifier(f.Package) {
		res.AddError(diagnostic.CodeManifest, fmt.Sprintf("package %q is not a valid name", f.Package), at(0, 0))
	}

	seenImports := map[string]string{}

	for _, imp := range f.Imports {
		if imp.Path == "" {
			res.AddError(diagnostic.CodeManifest, "import without a path", at(0, 0))
			continue
		}

		if prev, ok := seenImports[imp.Name]; ok && prev != imp.Path {
			res.AddError(diagnostic.CodeImportConflict,
				fmt.Sprintf("%s refers to both %q and %q", imp.Name, prev, imp.Path), at(0, 0))
		}

		seenImports[imp.Name] = imp.Path
	}

	seenTypes := map[string]struct{}{}

	for i := range f.Providers {
		p := &f.Providers[i]
		pos := at(p.line, p.column)

		if !token.IsIdentifier(p.Type) {
			res.AddError(diagnostic.CodeManifest, fmt.Sprintf("provider type %q is not a valid name", p.Type), pos)
			continue
		}

		if _, ok := seenTypes[p.Type]; ok {
			res.Add(diagnostic.Diagnostic{
				Severity: diagnostic.DiagnosticError,
				Code:     diagnostic.CodeDuplicateDirective,
				Message:  "type is listed more than once",
				Pos:      pos,
				Type:     p.Type,
			})

			continue
		}

		seenTypes[p.Type] = struct{}{}

		if p.Provide.IsZero() {
			res.Add(diagnostic.Diagnostic{
				Severity: diagnostic.DiagnosticError,
				Code:     diagnostic.CodeManifest,
				Message:  "provider has no provide directive",
				Pos:      pos,
				Type:     p.Type,
				Expected: "provide: provide(self)",
			})
		}

		res.Merge(validateFields(p, at).WithType(p.Type))

		if pkg != nil {
			res.Merge(crossCheck(p, pkg, pos).WithType(p.Type))
		}
	}

	return res
}

func validateFields(p *Provider, at func(line, column int) token.Position) diagnostic.Diagnostics {
	var res diagnostic.Diagnostics

	seen := map[string]struct{}{}

	for _, fld := range p.Fields {
		pos := at(fld.line, fld.column)

		switch {
		case fld.Name == "" || fld.Name == "_":
			res.Add(diagnostic.Diagnostic{
				Severity: diagnostic.DiagnosticError,
				Code:     diagnostic.CodeUnnamedField,
				Message:  "field needs a name",
				Pos:      pos,
				Expected: "a named field",
			})
		case !token.IsIdentifier(fld.Name):
			res.AddError(diagnostic.CodeManifest, fmt.Sprintf("field name %q is not valid", fld.Name), pos)
		case fld.Type == "":
			res.Add(diagnostic.Diagnostic{
				Severity: diagnostic.DiagnosticError,
				Code:     diagnostic.CodeManifest,
				Message:  "field needs a type",
				Pos:      pos,
				Field:    fld.Name,
			})
		default:
			if _, ok := seen[fld.Name]; ok {
				res.Add(diagnostic.Diagnostic{
					Severity: diagnostic.DiagnosticError,
					Code:     diagnostic.CodeManifest,
					Message:  "field is listed more than once",
					Pos:      pos,
					Field:    fld.Name,
				})
			}

			seen[fld.Name] = struct{}{}
		}
	}

	return res
}

// crossCheck compares a provider with the declaration found in source.
func crossCheck(p *Provider, pkg *analyze.PackageInfo, pos token.Position) diagnostic.Diagnostics {
	var res diagnostic.Diagnostics

	var decl *analyze.TypeInfo

	for _, t := range pkg.Types {
		if t.ID.Name == p.Type {
			decl = t
			break
		}
	}

	if decl == nil {
		names := make([]string, 0, len(pkg.Types))
		for _, t := range pkg.Types {
			names = append(names, t.ID.Name)
		}

		res.AddError(diagnostic.CodeTypeNotFound,
			withHint(fmt.Sprintf("no annotated type %s in %s", p.Type, pkg.Path), p.Type, names), pos)

		return res
	}

	declared := map[string]struct{}{}
	fieldNames := make([]string, 0, len(decl.Fields))

	for _, f := range decl.Fields {
		declared[f.Name] = struct{}{}
		fieldNames = append(fieldNames, f.Name)
	}

	listed := map[string]struct{}{}

	for _, f := range p.Fields {
		listed[f.Name] = struct{}{}

		if _, ok := declared[f.Name]; !ok {
			res.Add(diagnostic.Diagnostic{
				Severity: diagnostic.DiagnosticError,
				Code:     diagnostic.CodeUnknownField,
				Message:  withHint(fmt.Sprintf("%s has no field %s", p.Type, f.Name), f.Name, fieldNames),
				Pos:      token.Position{Filename: pos.Filename, Line: f.line, Column: f.column},
				Field:    f.Name,
			})
		}
	}

	for _, f := range decl.Fields {
		if _, ok := listed[f.Name]; !ok {
			res.Add(diagnostic.Diagnostic{
				Severity: diagnostic.DiagnosticWarning,
				Code:     diagnostic.CodeUnknownField,
				Message:  fmt.Sprintf("field %s of %s is missing from the manifest", f.Name, p.Type),
				Pos:      pos,
				Field:    f.Name,
			})
		}
	}

	return res
}

func withHint(msg, name string, known []string) string {
	if hint := suggest.DidYouMean(name, known); hint != "" {
		return msg + "; " + hint
	}

	return msg
}
