package diagnostic

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{
		Severity: DiagnosticError,
		Code:     CodeMissingClause,
		Message:  "fallible needs an error type",
		Pos:      token.Position{Filename: "service.go", Line: 12, Column: 8},
		Type:     "ServiceImpl",
		Expected: `"fallible" "(" "error" "=" Type ")"`,
	}

	assert.Equal(t,
		`service.go:12:8: [missing_clause] ServiceImpl: fallible needs an error type (expected "fallible" "(" "error" "=" Type ")")`,
		d.String())
}

func TestDiagnostic_StringWithField(t *testing.T) {
	d := Diagnostic{Code: CodeUnnamedField, Message: "field must be named", Type: "Svc", Field: "ctx"}

	assert.Equal(t, "[unnamed_field] Svc.ctx: field must be named", d.String())
}

func TestDiagnostics_AddAndError(t *testing.T) {
	var d Diagnostics
	assert.True(t, d.IsValid())
	require.NoError(t, d.Error())

	d.AddWarning(CodeLoad, "stale output", token.Position{})
	d.AddInfo(CodeLoad, "loaded", token.Position{})
	assert.False(t, d.HasErrors())

	d.AddError(CodeSyntax, "unexpected )", token.Position{})
	d.AddError(CodeNotStruct, "not a struct", token.Position{})
	assert.True(t, d.HasErrors())
	assert.EqualError(t, d.Error(), "[syntax] unexpected ); [not_struct] not a struct")
}

func TestDiagnostics_Merge(t *testing.T) {
	var a, b Diagnostics
	a.AddError(CodeSyntax, "a", token.Position{})
	b.AddError(CodeSyntax, "b", token.Position{})
	b.AddWarning(CodeLoad, "w", token.Position{})

	a.Merge(b)

	assert.Len(t, a.Errors, 2)
	assert.Len(t, a.Warnings, 1)
}

func TestDiagnostics_WithType(t *testing.T) {
	var d Diagnostics
	d.AddError(CodeSyntax, "a", token.Position{})
	d.Add(Diagnostic{Severity: DiagnosticError, Code: CodeSyntax, Message: "b", Type: "Other"})

	typed := d.WithType("Svc")

	assert.Equal(t, "Svc", typed.Errors[0].Type)
	assert.Equal(t, "Other", typed.Errors[1].Type)
	assert.Empty(t, d.Errors[0].Type, "original must not be modified")
}

func TestDiagnostics_All(t *testing.T) {
	var d Diagnostics
	d.AddWarning(CodeLoad, "late", token.Position{Filename: "a.go", Line: 9})
	d.AddError(CodeSyntax, "early", token.Position{Filename: "a.go", Line: 2})
	d.AddInfo(CodeLoad, "same line", token.Position{Filename: "a.go", Line: 2})

	all := d.All()
	require.Len(t, all, 3)
	assert.Equal(t, "early", all[0].Message)
	assert.Equal(t, "same line", all[1].Message)
	assert.Equal(t, "late", all[2].Message)
}
