package plan

import (
	"fmt"
	"go/ast"
	goparser "go/parser"
	"go/token"
	"regexp"
	"slices"
	"strings"

	"provider-generator/internal/common"
	"provider-generator/internal/diagnostic"
)

var identRE = regexp.MustCompile(`[\pL_][\pL\pN_]*`)

// sourceText is a piece of Go written by the user that ends up in the
// generated file.
type sourceText struct {
	text  string
	pos   token.Position
	field string
}

// sourceTexts lists every type and function the provider of pt copies from
// its annotations and declaration.
func sourceTexts(pt parsedType) []sourceText {
	var out []sourceText

	add := func(text string, pos token.Position, field string) {
		if text != "" {
			out = append(out, sourceText{text: text, pos: pos, field: field})
		}
	}

	for _, tp := range pt.info.TypeParams {
		add(tp.Constraint, pt.info.Pos, "")
	}

	if !pt.spec.Target.Self {
		add(pt.spec.Target.Type, pt.spec.Target.Pos, "")
	}

	for _, o := range pt.spec.Options {
		add(o.Error, o.Pos, "")
		add(o.Wrap.Type, o.Pos, "")
		add(o.Wrap.With, o.Pos, "")
	}

	for _, f := range pt.fields {
		add(f.Type, f.Pos, f.Name)

		for _, o := range f.Options {
			add(o.Error, o.Pos, f.Name)
			add(o.Wrap.Type, o.Pos, f.Name)
			add(o.Wrap.With, o.Pos, f.Name)
		}
	}

	return out
}

// identifiers returns every identifier-like word of the texts.
func identifiers(texts []sourceText) []string {
	var out []string
	for _, t := range texts {
		out = append(out, identRE.FindAllString(t.text, -1)...)
	}

	return out
}

// qualifiers returns the package names text refers to.
func qualifiers(text string) []string {
	expr, err := goparser.ParseExpr(text)
	if err != nil {
		return nil
	}

	var out []string

	ast.Inspect(expr, func(n ast.Node) bool {
		if sel, ok := n.(*ast.SelectorExpr); ok {
			if id, ok := sel.X.(*ast.Ident); ok && !slices.Contains(out, id.Name) {
				out = append(out, id.Name)
			}
		}

		return true
	})

	return out
}

// importSet accumulates the imports of one generated file.
type importSet struct {
	byAlias map[string]string
	order   []string
}

func newImportSet() *importSet {
	return &importSet{byAlias: make(map[string]string)}
}

// resolve adds the packages the texts of pt refer to. Qualifiers missing
// from the declaring file and aliases already bound to another path are
// reported.
func (s *importSet) resolve(pt parsedType) diagnostic.Diagnostics {
	var diags diagnostic.Diagnostics

	for _, st := range sourceTexts(pt) {
		for _, q := range qualifiers(st.text) {
			path, ok := pt.info.ImportPath(q)
			if !ok {
				diags.Add(diagnostic.Diagnostic{
					Severity: diagnostic.DiagnosticError,
					Code:     diagnostic.CodeUnknownQualifier,
					Message:  fmt.Sprintf("%q in %s is not imported by %s", q, st.text, pt.info.File),
					Pos:      st.pos,
					Field:    st.field,
				})

				continue
			}

			if err := s.add(q, path); err != nil {
				diags.Add(diagnostic.Diagnostic{
					Severity: diagnostic.DiagnosticError,
					Code:     diagnostic.CodeImportConflict,
					Message:  err.Error(),
					Pos:      st.pos,
					Field:    st.field,
				})
			}
		}
	}

	return diags.WithType(pt.info.ID.Name)
}

func (s *importSet) add(alias, path string) error {
	if prev, ok := s.byAlias[alias]; ok {
		if prev != path {
			return fmt.Errorf("%s refers to both %q and %q in the same package", alias, prev, path)
		}

		return nil
	}

	s.byAlias[alias] = path
	s.order = append(s.order, alias)

	return nil
}

// runtimeAlias picks the name of the runtime import: preferred unless that
// name is bound to another package or shadowed by a type parameter.
func (s *importSet) runtimeAlias(preferred, path string, avoid []string) string {
	names := common.NewNamer(avoid...)
	for alias, p := range s.byAlias {
		if p != path {
			names.Reserve(alias)
		}
	}

	for alias, p := range s.byAlias {
		if p == path && !names.Taken(alias) {
			return alias
		}
	}

	return names.Fresh(preferred)
}

// list returns the imports sorted by path, then alias.
func (s *importSet) list() []Import {
	out := make([]Import, 0, len(s.order))
	for _, alias := range s.order {
		out = append(out, Import{Alias: alias, Path: s.byAlias[alias]})
	}

	slices.SortFunc(out, func(a, b Import) int {
		if c := strings.Compare(a.Path, b.Path); c != 0 {
			return c
		}

		return strings.Compare(a.Alias, b.Alias)
	})

	return out
}

// typeParamNames returns the own type parameter names of every type.
func typeParamNames(types []parsedType) []string {
	var out []string
	for _, pt := range types {
		for _, tp := range pt.info.TypeParams {
			out = append(out, tp.Name)
		}
	}

	return out
}
