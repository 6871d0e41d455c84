package plan

import (
	"strings"

	"provider-generator/internal/analyze"
	"provider-generator/internal/diagnostic"
	"provider-generator/internal/option"
)

// GenerationPlan is the output of planning one package: every provider the
// emitter writes into that package's generated file.
type GenerationPlan struct {
	// Package is the package name of the generated file.
	Package string
	// PkgPath is the import path of the package.
	PkgPath string
	// Dir is the directory the generated file is written to.
	Dir string
	// Imports lists the packages the generated code refers to, sorted by path.
	Imports []Import
	// Providers in declaration order.
	Providers []ProviderPlan
	// Diagnostics contains all warnings and errors found while planning.
	Diagnostics diagnostic.Diagnostics
}

// Import is one import of the generated file. Alias is always written out.
type Import struct {
	Alias string
	Path  string
}

// TypeParam is a type parameter of a generated provider.
type TypeParam struct {
	Name       string
	Constraint string
}

// ProviderPlan describes the provider generated for one annotated type.
type ProviderPlan struct {
	// Name of the generated provider type, e.g. "ServiceImplProvider".
	Name string
	// Source is the annotated type.
	Source analyze.TypeID
	// Spec is the parsed provide directive.
	Spec option.TypeSpec
	// SelfType is the annotated type instantiated with its own parameters,
	// e.g. "ServiceImpl[Ctx]".
	SelfType string
	// Interface is the type Provide returns.
	Interface string
	// Module is the type parameter standing for the registry.
	Module TypeParam
	// TypeParams lists all type parameters in order: the module, the
	// annotated type's own parameters, then one per resolver.
	TypeParams []TypeParam
	// Resolvers are the provider's struct fields, one per looked-up field.
	Resolvers []Resolver
	// Bindings hold one local variable per struct field, in field order.
	Bindings []Binding
	// Bounds is the bound clause: one lookup type per resolver, duplicates
	// kept.
	Bounds []Bound
	// NeedsSync is set when a field awaits, so the module must be safe to
	// share with the goroutine that resolves it.
	NeedsSync bool
	// Stmts run before Return in the Provide method.
	Stmts []string
	// Return is the expression Provide returns.
	Return string
}

// Resolver is a provider struct field answering one registry query.
type Resolver struct {
	// Field is the exported struct field name.
	Field string
	// Param is the type parameter of the field.
	Param string
	// Lookup is the type the resolver provides.
	Lookup string
	// For is the annotated struct field this resolver serves.
	For string
}

// Binding is a local variable holding the value of one struct field.
type Binding struct {
	// Field is the annotated struct field.
	Field string
	// Name is the local variable name.
	Name string
	// Type is the field's declared type.
	Type string
	// Stmts run before the variable is declared.
	Stmts []string
	// Value initializes the variable; empty for the zero value.
	Value string
}

// Bound is one requirement the module places on the registry: it must
// provide Lookup.
type Bound struct {
	Field  string
	Lookup string
}

// TypeParamList renders the declaration list, e.g. "[M any, R0 X]".
func (p ProviderPlan) TypeParamList() string {
	parts := make([]string, 0, len(p.TypeParams))
	for _, tp := range p.TypeParams {
		parts = append(parts, tp.Name+" "+tp.Constraint)
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

// TypeArgs renders the parameters as arguments, e.g. "[M, R0]".
func (p ProviderPlan) TypeArgs() string {
	parts := make([]string, 0, len(p.TypeParams))
	for _, tp := range p.TypeParams {
		parts = append(parts, tp.Name)
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

// HasErrors reports whether planning the package failed.
func (g *GenerationPlan) HasErrors() bool {
	return g.Diagnostics.HasErrors()
}
