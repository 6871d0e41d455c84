package option

import "provider-generator/internal/common"

// TypeKind enumerates the options of a provide directive.
type TypeKind int

const (
	_ TypeKind = iota // zero value is invalid

	TypeBox      // heap allocation: *T
	TypeShared   // reference counted: provide.Shared[T]
	TypeFallible // provide.Result[T, E]
	TypeAsync    // provide.Deferred[T]
	TypeWrap     // W[T] built by a wrapping function
)

// String returns the option keyword.
func (k TypeKind) String() string {
	switch k {
	case TypeBox:
		return "box"
	case TypeShared:
		return "arc"
	case TypeFallible:
		return "fallible"
	case TypeAsync:
		return "async"
	case TypeWrap:
		return "wrap"
	default:
		return common.UnknownStr
	}
}

// FieldKind enumerates the options of a depend directive.
type FieldKind int

const (
	_ FieldKind = iota // zero value is invalid

	FieldTry     // looked up as provide.Result[T, E], error returned early
	FieldAwait   // looked up as provide.Deferred[T], awaited
	FieldDefault // not looked up, zero value
	FieldWrap    // looked up as W[T], unwrapped by a function
)

// String returns the option keyword.
func (k FieldKind) String() string {
	switch k {
	case FieldTry:
		return "try"
	case FieldAwait:
		return "await"
	case FieldDefault:
		return "default"
	case FieldWrap:
		return "wrap"
	default:
		return common.UnknownStr
	}
}

var typeKeywords = map[string]TypeKind{
	"box":      TypeBox,
	"arc":      TypeShared,
	"shared":   TypeShared,
	"fallible": TypeFallible,
	"async":    TypeAsync,
	"wrap":     TypeWrap,
}

var fieldKeywords = map[string]FieldKind{
	"try":     FieldTry,
	"await":   FieldAwait,
	"default": FieldDefault,
	"wrap":    FieldWrap,
}

// Option names offered as corrections of unknown options.
var (
	typeKeywordNames  = []string{"arc", "async", "box", "fallible", "shared", "wrap"}
	fieldKeywordNames = []string{"await", "default", "try", "wrap"}
)
