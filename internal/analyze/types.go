package analyze

import (
	"go/token"
	"reflect"

	"provider-generator/internal/diagnostic"
)

// DirectivePrefix starts the doc-comment line that marks a type for
// generation.
const DirectivePrefix = "//inject:"

// TagKey is the struct tag key holding depend directives.
const TagKey = "inject"

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "provider-generator/examples/service"
	Name    string // e.g., "ServiceImpl"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Annotation is a directive as written in the source and where it starts.
type Annotation struct {
	Text string
	Pos  token.Position
}

// IsEmpty reports whether nothing was written.
func (a Annotation) IsEmpty() bool {
	return a.Text == ""
}

// TypeParam is a type parameter of an annotated type.
type TypeParam struct {
	Name       string
	Constraint string
}

// Import is an import of the file declaring an annotated type. Name is the
// identifier the file refers to the package by.
type Import struct {
	Name string
	Path string
}

// FieldInfo describes a field of an annotated struct.
type FieldInfo struct {
	Name   string            // Go field name
	Type   string            // field type as written
	Tag    reflect.StructTag // raw struct tag
	Depend Annotation        // value of the inject tag
	Pos    token.Position
}

// TypeInfo describes a struct carrying a provide directive.
type TypeInfo struct {
	ID         TypeID
	TypeParams []TypeParam
	Directive  Annotation // "provide(...)" without the prefix
	Fields     []FieldInfo
	// ProviderName overrides the generated provider's name when set.
	ProviderName string
	File         string
	Imports      []Import
	Pos          token.Position
}

// ImportPath returns the path imported under name in the declaring file.
func (t *TypeInfo) ImportPath(name string) (string, bool) {
	for _, imp := range t.Imports {
		if imp.Name == name {
			return imp.Path, true
		}
	}

	return "", false
}

// PackageInfo holds the annotated types of one package.
type PackageInfo struct {
	Path  string // Import path
	Name  string // Package name
	Dir   string // Directory the generated file goes to
	Types []*TypeInfo
}

// Result is the outcome of analyzing a set of packages.
type Result struct {
	Packages    []*PackageInfo
	Diagnostics diagnostic.Diagnostics
}

// Annotated returns the number of annotated types found.
func (r *Result) Annotated() int {
	n := 0
	for _, p := range r.Packages {
		n += len(p.Types)
	}

	return n
}
