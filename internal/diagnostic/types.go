package diagnostic

import (
	"cmp"
	"errors"
	"fmt"
	"go/token"
	"slices"
	"strings"

	"provider-generator/internal/common"
)

// Diagnostic codes.
const (
	CodeSyntax             = "syntax"
	CodeUnknownOption      = "unknown_option"
	CodeMissingClause      = "missing_clause"
	CodeInvalidType        = "invalid_type"
	CodeNotStruct          = "not_struct"
	CodeUnnamedField       = "unnamed_field"
	CodeDefaultConflict    = "default_conflict"
	CodeDuplicateDirective = "duplicate_directive"
	CodeTryOutsideFallible = "try_outside_fallible"
	CodeUnknownQualifier   = "unknown_qualifier"
	CodeImportConflict     = "import_conflict"
	CodeUnknownField       = "unknown_field"
	CodeTypeNotFound       = "type_not_found"
	CodeLoad               = "load"
	CodeManifest           = "manifest"
)

// Diagnostics holds the diagnostics of one generation run.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity DiagnosticSeverity
	// Code is a unique identifier for this kind of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Pos is the source location of the offending annotation (may be invalid).
	Pos token.Position
	// Type is the annotated type this relates to (if any).
	Type string
	// Field is the struct field this relates to (if any).
	Field string
	// Expected names the grammar production that was expected (if any).
	Expected string
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// Add appends d to the list matching its severity.
func (d *Diagnostics) Add(diag Diagnostic) {
	switch diag.Severity {
	case DiagnosticError:
		d.Errors = append(d.Errors, diag)
	case DiagnosticWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Infos = append(d.Infos, diag)
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message string, pos token.Position) {
	d.Add(Diagnostic{Severity: DiagnosticError, Code: code, Message: message, Pos: pos})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message string, pos token.Position) {
	d.Add(Diagnostic{Severity: DiagnosticWarning, Code: code, Message: message, Pos: pos})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message string, pos token.Position) {
	d.Add(Diagnostic{Severity: DiagnosticInfo, Code: code, Message: message, Pos: pos})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// WithType returns a copy of d where every diagnostic without a type is
// attributed to typeName.
func (d Diagnostics) WithType(typeName string) Diagnostics {
	set := func(in []Diagnostic) []Diagnostic {
		out := slices.Clone(in)
		for i := range out {
			if out[i].Type == "" {
				out[i].Type = typeName
			}
		}

		return out
	}

	return Diagnostics{
		Errors:   set(d.Errors),
		Warnings: set(d.Warnings),
		Infos:    set(d.Infos),
	}
}

// All returns every diagnostic ordered by position, errors first on ties.
func (d *Diagnostics) All() []Diagnostic {
	all := make([]Diagnostic, 0, len(d.Errors)+len(d.Warnings)+len(d.Infos))
	all = append(all, d.Errors...)
	all = append(all, d.Warnings...)
	all = append(all, d.Infos...)

	slices.SortStableFunc(all, func(a, b Diagnostic) int {
		return cmp.Or(
			cmp.Compare(a.Pos.Filename, b.Pos.Filename),
			cmp.Compare(a.Pos.Line, b.Pos.Line),
			cmp.Compare(a.Pos.Column, b.Pos.Column),
			cmp.Compare(b.Severity, a.Severity),
		)
	})

	return all
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// Error makes a single Diagnostic usable as an error.
func (d Diagnostic) Error() string {
	return d.String()
}

// String formats the diagnostic as "file:line:col: [code] Type.field: message".
func (d Diagnostic) String() string {
	var sb strings.Builder

	if d.Pos.IsValid() {
		sb.WriteString(d.Pos.String())
		sb.WriteString(": ")
	}

	if d.Code != "" {
		fmt.Fprintf(&sb, "[%s] ", d.Code)
	}

	switch {
	case d.Type != "" && d.Field != "":
		sb.WriteString(d.Type + "." + d.Field + ": ")
	case d.Type != "":
		sb.WriteString(d.Type + ": ")
	case d.Field != "":
		sb.WriteString(d.Field + ": ")
	}

	sb.WriteString(d.Message)

	if d.Expected != "" {
		sb.WriteString(" (expected " + d.Expected + ")")
	}

	return sb.String()
}
