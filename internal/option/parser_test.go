package option

import (
	"errors"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provider-generator/internal/diagnostic"
)

var base = token.Position{Filename: "service.go", Offset: 100, Line: 3, Column: 10}

func requireDiagnostic(t *testing.T, err error, code string) diagnostic.Diagnostic {
	t.Helper()

	require.Error(t, err)

	var d diagnostic.Diagnostic
	require.True(t, errors.As(err, &d), "expected a diagnostic, got %T", err)
	assert.Equal(t, code, d.Code, d.String())
	assert.Equal(t, diagnostic.DiagnosticError, d.Severity)

	return d
}

func TestParseProvide_Scenario(t *testing.T) {
	spec, err := ParseProvide("provide(Service, box, fallible(error = Error), async)", base)
	require.NoError(t, err)

	assert.False(t, spec.Target.Self)
	assert.Equal(t, "Service", spec.Target.Type)
	require.Len(t, spec.Options, 3)

	assert.Equal(t, TypeBox, spec.Options[0].Kind)
	assert.Equal(t, TypeFallible, spec.Options[1].Kind)
	assert.Equal(t, "Error", spec.Options[1].Error)
	assert.Equal(t, TypeAsync, spec.Options[2].Kind)

	assert.Equal(t, 27, spec.Options[0].Pos.Column)
	assert.Equal(t, "provide(Service, box, fallible(error = Error), async)", spec.String())
}

func TestParseProvide_Self(t *testing.T) {
	spec, err := ParseProvide("provide(self)", base)
	require.NoError(t, err)

	assert.True(t, spec.Target.Self)
	assert.Empty(t, spec.Options)
	assert.Equal(t, "self", spec.Target.String())
}

func TestParseProvide_SharedAliasesAndTrailingComma(t *testing.T) {
	spec, err := ParseProvide("provide(self, arc, shared, box,)", base)
	require.NoError(t, err)

	require.Len(t, spec.Options, 3)
	assert.Equal(t, TypeShared, spec.Options[0].Kind)
	assert.Equal(t, TypeShared, spec.Options[1].Kind)
	assert.Equal(t, TypeBox, spec.Options[2].Kind)
}

func TestParseProvide_DuplicatesKeepOrder(t *testing.T) {
	spec, err := ParseProvide("provide(self, box, async, box)", base)
	require.NoError(t, err)

	kinds := make([]TypeKind, 0, len(spec.Options))
	for _, o := range spec.Options {
		kinds = append(kinds, o.Kind)
	}

	assert.Equal(t, []TypeKind{TypeBox, TypeAsync, TypeBox}, kinds)
}

func TestParseProvide_ComplexTypes(t *testing.T) {
	spec, err := ParseProvide(
		"provide(repo.Store[map[string][]int, func(a, b int) error], wrap(opt.Option) with opt.Some, fallible(error = *errs.Failure))",
		base)
	require.NoError(t, err)

	assert.Equal(t, "repo.Store[map[string][]int, func(a, b int) error]", spec.Target.Type)
	require.Len(t, spec.Options, 2)
	assert.Equal(t, Wrap{Type: "opt.Option", With: "opt.Some"}, spec.Options[0].Wrap)
	assert.Equal(t, "*errs.Failure", spec.Options[1].Error)
}

func TestParseProvide_SelfQualifiedIsAType(t *testing.T) {
	spec, err := ParseProvide("provide(self.Thing)", base)
	require.NoError(t, err)

	assert.False(t, spec.Target.Self)
	assert.Equal(t, "self.Thing", spec.Target.Type)
}

func TestParseProvide_FallibleWithoutClause(t *testing.T) {
	_, err := ParseProvide("provide(self, fallible)", base)

	d := requireDiagnostic(t, err, diagnostic.CodeMissingClause)
	assert.Equal(t, ProdFallible, d.Expected)
	assert.Equal(t, "service.go", d.Pos.Filename)
	assert.Equal(t, 3, d.Pos.Line)
	assert.Equal(t, 32, d.Pos.Column)
}

func TestParseProvide_FallibleWithoutType(t *testing.T) {
	_, err := ParseProvide("provide(self, fallible(error = ))", base)

	requireDiagnostic(t, err, diagnostic.CodeMissingClause)
}

func TestParseProvide_WrapWithoutFunction(t *testing.T) {
	_, err := ParseProvide("provide(self, wrap(opt.Option))", base)

	d := requireDiagnostic(t, err, diagnostic.CodeMissingClause)
	assert.Equal(t, ProdWrap, d.Expected)
}

func TestParseProvide_WrapNeedsTypeName(t *testing.T) {
	_, err := ParseProvide("provide(self, wrap([]int) with f)", base)

	requireDiagnostic(t, err, diagnostic.CodeInvalidType)
}

func TestParseProvide_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
		code string
	}{
		{"missing directive name", "(self)", diagnostic.CodeSyntax},
		{"wrong directive", "depend(self)", diagnostic.CodeSyntax},
		{"missing target", "provide()", diagnostic.CodeMissingClause},
		{"missing paren", "provide self", diagnostic.CodeSyntax},
		{"unclosed", "provide(self, box", diagnostic.CodeSyntax},
		{"unknown option", "provide(self, boxed)", diagnostic.CodeUnknownOption},
		{"field option on type", "provide(self, await)", diagnostic.CodeUnknownOption},
		{"keyword option", "provide(self, default)", diagnostic.CodeUnknownOption},
		{"not a type", "provide(1 + 2)", diagnostic.CodeInvalidType},
		{"trailing text", "provide(self) extra", diagnostic.CodeSyntax},
		{"illegal character", "provide(self, #)", diagnostic.CodeSyntax},
		{"fallible wrong key", "provide(self, fallible(err = E))", diagnostic.CodeSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProvide(tt.text, base)
			requireDiagnostic(t, err, tt.code)
		})
	}
}

func TestParseDepend(t *testing.T) {
	opts, err := ParseDepend("depend(await, try(error = Error))", base)
	require.NoError(t, err)

	require.Len(t, opts, 2)
	assert.Equal(t, FieldAwait, opts[0].Kind)
	assert.Equal(t, FieldTry, opts[1].Kind)
	assert.Equal(t, "Error", opts[1].Error)
	assert.Equal(t, 24, opts[1].Pos.Column)
}

func TestParseDepend_Empty(t *testing.T) {
	opts, err := ParseDepend("", base)
	require.NoError(t, err)
	assert.Empty(t, opts)

	opts, err = ParseDepend("depend()", base)
	require.NoError(t, err)
	assert.Empty(t, opts)
}

func TestParseDepend_GroupsConcatenate(t *testing.T) {
	opts, err := ParseDepend("depend(wrap(lazy.Value) with lazy.Get) depend(await,)", base)
	require.NoError(t, err)

	require.Len(t, opts, 2)
	assert.Equal(t, FieldWrap, opts[0].Kind)
	assert.Equal(t, Wrap{Type: "lazy.Value", With: "lazy.Get"}, opts[0].Wrap)
	assert.Equal(t, FieldAwait, opts[1].Kind)
}

func TestParseDepend_Default(t *testing.T) {
	opts, err := ParseDepend("depend(default)", base)
	require.NoError(t, err)

	require.Len(t, opts, 1)
	assert.Equal(t, FieldDefault, opts[0].Kind)

	field := FieldSpec{Name: "s", Type: "string", Options: opts}
	assert.True(t, field.IsDefault())
	assert.False(t, field.Awaits())
	assert.Equal(t, "depend(default)", field.Directive())
}

func TestParseDepend_DefaultConflict(t *testing.T) {
	for _, text := range []string{
		"depend(default, await)",
		"depend(try(error = E), default)",
		"depend(default) depend(wrap(W) with f)",
	} {
		t.Run(text, func(t *testing.T) {
			_, err := ParseDepend(text, base)
			requireDiagnostic(t, err, diagnostic.CodeDefaultConflict)
		})
	}
}

func TestParseDepend_RepeatedDefaultIsAllowed(t *testing.T) {
	opts, err := ParseDepend("depend(default, default)", base)
	require.NoError(t, err)
	assert.Len(t, opts, 2)
}

func TestParseDepend_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
		code string
	}{
		{"try without clause", "depend(try)", diagnostic.CodeMissingClause},
		{"type option on field", "depend(box)", diagnostic.CodeUnknownOption},
		{"not depend", "inject(await)", diagnostic.CodeSyntax},
		{"missing comma", "depend(await await)", diagnostic.CodeSyntax},
		{"bare option", "await", diagnostic.CodeSyntax},
		{"bad error type", "depend(try(error = 42))", diagnostic.CodeInvalidType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDepend(tt.text, base)
			requireDiagnostic(t, err, tt.code)
		})
	}
}

func TestFieldOption_String(t *testing.T) {
	assert.Equal(t, "try(error = E)", FieldOption{Kind: FieldTry, Error: "E"}.String())
	assert.Equal(t, "await", FieldOption{Kind: FieldAwait}.String())
	assert.Equal(t, "wrap(W) with f", FieldOption{Kind: FieldWrap, Wrap: Wrap{Type: "W", With: "f"}}.String())
	assert.Equal(t, "unknown", FieldKind(0).String())
	assert.Equal(t, "unknown", TypeKind(0).String())
}

func TestUnknownOption_Suggestion(t *testing.T) {
	_, err := ParseProvide("provide(self, asnyc)", base)
	d := requireDiagnostic(t, err, diagnostic.CodeUnknownOption)
	assert.Equal(t, `unknown provide option "asnyc"; did you mean "async"?`, d.Message)

	_, err = ParseDepend("depend(awiat)", base)
	d = requireDiagnostic(t, err, diagnostic.CodeUnknownOption)
	assert.Contains(t, d.Message, `did you mean "await"?`)

	_, err = ParseProvide("provide(self, await)", base)
	d = requireDiagnostic(t, err, diagnostic.CodeUnknownOption)
	assert.NotContains(t, d.Message, "did you mean")
}
