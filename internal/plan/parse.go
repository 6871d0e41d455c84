package plan

import (
	"errors"
	"go/token"

	"provider-generator/internal/analyze"
	"provider-generator/internal/diagnostic"
	"provider-generator/internal/option"
)

// parsedType is an annotated type with its directives parsed.
type parsedType struct {
	info   *analyze.TypeInfo
	spec   option.TypeSpec
	fields []option.FieldSpec
}

// parseType parses the provide directive of t and the depend directives of
// its fields. Every malformed directive is reported, not only the first.
func parseType(t *analyze.TypeInfo) (parsedType, diagnostic.Diagnostics) {
	var diags diagnostic.Diagnostics

	pt := parsedType{info: t}

	spec, err := option.ParseProvide(t.Directive.Text, t.Directive.Pos)
	if err != nil {
		addParseError(&diags, err, t.Directive.Pos, "")
	}

	pt.spec = spec

	for _, f := range t.Fields {
		opts, err := option.ParseDepend(f.Depend.Text, f.Depend.Pos)
		if err != nil {
			addParseError(&diags, err, f.Depend.Pos, f.Name)
			continue
		}

		pt.fields = append(pt.fields, option.FieldSpec{
			Name:    f.Name,
			Type:    f.Type,
			Options: opts,
			Pos:     f.Pos,
		})
	}

	return pt, diags.WithType(t.ID.Name)
}

func addParseError(diags *diagnostic.Diagnostics, err error, pos token.Position, field string) {
	var d diagnostic.Diagnostic
	if !errors.As(err, &d) {
		d = diagnostic.Diagnostic{
			Severity: diagnostic.DiagnosticError,
			Code:     diagnostic.CodeSyntax,
			Message:  err.Error(),
			Pos:      pos,
		}
	}

	d.Field = field
	diags.Add(d)
}
