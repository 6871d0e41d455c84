package analyze

import (
	"bytes"
	"context"
	"fmt"
	"go/ast"
	"go/printer"
	"go/token"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"

	"provider-generator/internal/common"
	"provider-generator/internal/diagnostic"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Config holds configuration for loading packages.
type Config struct {
	// Dir is the directory patterns are resolved in. Empty means the
	// current directory.
	Dir string
	// BuildTags are passed to the build system.
	BuildTags []string
	// GeneratedFilename names the generator's own output, which is not
	// scanned for directives.
	GeneratedFilename string
}

// Analyzer loads Go packages and collects the types carrying a provide
// directive.
type Analyzer struct {
	config Config
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer(config Config) *Analyzer {
	return &Analyzer{config: config}
}

// LoadPackages loads the specified packages and collects their annotated
// types. Patterns are standard Go package patterns (e.g., "./...",
// "provider-generator/examples/service").
//
// Type errors are reported as warnings since a stale generated file must not
// prevent regenerating it. Any other package error fails the load.
func (a *Analyzer) LoadPackages(ctx context.Context, patterns ...string) (*Result, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode:    LoadMode,
		Dir:     a.config.Dir,
	}

	if len(a.config.BuildTags) > 0 {
		cfg.BuildFlags = []string{"-tags=" + strings.Join(a.config.BuildTags, ",")}
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	result := &Result{}

	// Check for package errors
	var errs []error

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			if e.Kind == packages.TypeError {
				result.Diagnostics.AddWarning(diagnostic.CodeLoad, e.Msg, parsePos(e.Pos))
				continue
			}

			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	// Process each package
	for _, pkg := range pkgs {
		result.Packages = append(result.Packages, a.processPackage(pkg, &result.Diagnostics))
	}

	return result, nil
}

// processPackage scans the syntax of a loaded package for directives.
func (a *Analyzer) processPackage(pkg *packages.Package, diags *diagnostic.Diagnostics) *PackageInfo {
	info := &PackageInfo{
		Path: pkg.PkgPath,
		Name: pkg.Name,
	}

	if len(pkg.GoFiles) > 0 {
		info.Dir = filepath.Dir(pkg.GoFiles[0])
	}

	for _, file := range pkg.Syntax {
		filename := pkg.Fset.Position(file.Pos()).Filename
		if a.config.GeneratedFilename != "" && filepath.Base(filename) == a.config.GeneratedFilename {
			continue
		}

		fa := &fileAnalyzer{
			fset:     pkg.Fset,
			pkgPath:  pkg.PkgPath,
			filename: filename,
			imports:  fileImports(file, pkg),
			diags:    diags,
		}

		info.Types = append(info.Types, fa.scan(file)...)
	}

	return info
}

// fileImports returns the names file refers to its imports by. Blank and
// dot imports cannot qualify a type and are left out.
func fileImports(file *ast.File, pkg *packages.Package) []Import {
	var out []Import

	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}

		var name string

		switch {
		case spec.Name != nil:
			name = spec.Name.Name
		case pkg.Imports[path] != nil && pkg.Imports[path].Name != "":
			name = pkg.Imports[path].Name
		default:
			name = common.PkgAlias(path)
		}

		if name == "_" || name == "." {
			continue
		}

		out = append(out, Import{Name: name, Path: path})
	}

	return out
}

type fileAnalyzer struct {
	fset     *token.FileSet
	pkgPath  string
	filename string
	imports  []Import
	diags    *diagnostic.Diagnostics
}

// scan returns the annotated structs declared in file.
func (fa *fileAnalyzer) scan(file *ast.File) []*TypeInfo {
	var out []*TypeInfo

	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}

		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}

			doc := ts.Doc
			if doc == nil && len(gd.Specs) == 1 {
				doc = gd.Doc
			}

			if t := fa.analyzeType(ts, doc); t != nil {
				out = append(out, t)
			}
		}
	}

	return out
}

// directives returns the inject directives of a doc comment, prefix
// stripped, located at their first byte after the prefix.
func (fa *fileAnalyzer) directives(doc *ast.CommentGroup) []Annotation {
	if doc == nil {
		return nil
	}

	var out []Annotation

	for _, c := range doc.List {
		text, ok := strings.CutPrefix(c.Text, DirectivePrefix)
		if !ok {
			continue
		}

		trimmed := strings.TrimLeft(text, " \t")
		shift := len(DirectivePrefix) + len(text) - len(trimmed)

		pos := fa.fset.Position(c.Slash)
		pos.Column += shift
		pos.Offset += shift

		out = append(out, Annotation{Text: strings.TrimRight(trimmed, " \t"), Pos: pos})
	}

	return out
}

func (fa *fileAnalyzer) analyzeType(ts *ast.TypeSpec, doc *ast.CommentGroup) *TypeInfo {
	found := fa.directives(doc)
	if len(found) == 0 {
		return nil
	}

	name := ts.Name.Name

	for _, dup := range found[1:] {
		fa.diags.Add(diagnostic.Diagnostic{
			Severity: diagnostic.DiagnosticError,
			Code:     diagnostic.CodeDuplicateDirective,
			Message:  "a type takes a single provide directive",
			Pos:      dup.Pos,
			Type:     name,
		})
	}

	st, ok := ts.Type.(*ast.StructType)
	if !ok || ts.Assign.IsValid() {
		fa.diags.Add(diagnostic.Diagnostic{
			Severity: diagnostic.DiagnosticError,
			Code:     diagnostic.CodeNotStruct,
			Message:  "provide applies to struct type definitions only",
			Pos:      fa.fset.Position(ts.Name.Pos()),
			Type:     name,
		})

		return nil
	}

	if len(found) > 1 {
		return nil
	}

	t := &TypeInfo{
		ID:        TypeID{PkgPath: fa.pkgPath, Name: name},
		Directive: found[0],
		File:      fa.filename,
		Imports:   fa.imports,
		Pos:       fa.fset.Position(ts.Name.Pos()),
	}

	if ts.TypeParams != nil {
		for _, field := range ts.TypeParams.List {
			constraint := fa.exprString(field.Type)
			for _, n := range field.Names {
				t.TypeParams = append(t.TypeParams, TypeParam{Name: n.Name, Constraint: constraint})
			}
		}
	}

	valid := true

	for _, field := range st.Fields.List {
		if len(field.Names) == 0 {
			fa.unnamed(name, field.Type.Pos(), "embedded field %s cannot be bound to a local", fa.exprString(field.Type))
			valid = false

			continue
		}

		typ := fa.exprString(field.Type)
		tag, depend := fa.tag(field.Tag)

		for _, n := range field.Names {
			if n.Name == "_" {
				fa.unnamed(name, n.Pos(), "blank field cannot be initialized by name")
				valid = false

				continue
			}

			t.Fields = append(t.Fields, FieldInfo{
				Name:   n.Name,
				Type:   typ,
				Tag:    tag,
				Depend: depend,
				Pos:    fa.fset.Position(n.Pos()),
			})
		}
	}

	if !valid {
		return nil
	}

	return t
}

func (fa *fileAnalyzer) unnamed(typeName string, pos token.Pos, format string, args ...any) {
	fa.diags.Add(diagnostic.Diagnostic{
		Severity: diagnostic.DiagnosticError,
		Code:     diagnostic.CodeUnnamedField,
		Message:  fmt.Sprintf(format, args...),
		Pos:      fa.fset.Position(pos),
		Type:     typeName,
		Expected: "a named field",
	})
}

// tag returns the struct tag and the inject value located in the source.
// Positions inside interpreted string literals are approximated by the
// literal's start.
func (fa *fileAnalyzer) tag(lit *ast.BasicLit) (reflect.StructTag, Annotation) {
	if lit == nil {
		return "", Annotation{}
	}

	raw, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", Annotation{}
	}

	tag := reflect.StructTag(raw)

	value, ok := tag.Lookup(TagKey)
	if !ok {
		return tag, Annotation{}
	}

	pos := fa.fset.Position(lit.Pos())
	if strings.HasPrefix(lit.Value, "`") {
		if i := strings.Index(lit.Value, TagKey+`:"`); i >= 0 {
			shift := i + len(TagKey) + 2
			pos.Column += shift
			pos.Offset += shift
		}
	}

	return tag, Annotation{Text: value, Pos: pos}
}

func (fa *fileAnalyzer) exprString(expr ast.Expr) string {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fa.fset, expr); err != nil {
		return ""
	}

	return buf.String()
}

// parsePos parses the "file:line:col" positions go/packages reports.
func parsePos(s string) token.Position {
	var pos token.Position

	parts := strings.Split(s, ":")
	if len(parts) >= 3 {
		pos.Column, _ = strconv.Atoi(parts[len(parts)-1])
		pos.Line, _ = strconv.Atoi(parts[len(parts)-2])
		pos.Filename = strings.Join(parts[:len(parts)-2], ":")
	} else {
		pos.Filename = s
	}

	return pos
}
