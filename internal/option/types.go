package option

import (
	"go/token"
	"slices"
	"strings"

	"provider-generator/internal/common"
)

// Wrap is the payload shared by the type-level and field-level wrap options:
// the generic wrapper type W and the function that produces or consumes W[T].
type Wrap struct {
	Type string // e.g. "opt.Option"
	With string // e.g. "opt.Some"
}

// TypeOption is one entry of a provide directive.
type TypeOption struct {
	Kind  TypeKind
	Error string // TypeFallible only
	Wrap  Wrap   // TypeWrap only
	Pos   token.Position
}

// String renders the option in directive syntax.
func (o TypeOption) String() string {
	switch o.Kind {
	case TypeFallible:
		return "fallible(error = " + o.Error + ")"
	case TypeWrap:
		return "wrap(" + o.Wrap.Type + ") with " + o.Wrap.With
	default:
		return o.Kind.String()
	}
}

// FieldOption is one entry of a depend directive.
type FieldOption struct {
	Kind  FieldKind
	Error string // FieldTry only
	Wrap  Wrap   // FieldWrap only
	Pos   token.Position
}

// String renders the option in directive syntax.
func (o FieldOption) String() string {
	switch o.Kind {
	case FieldTry:
		return "try(error = " + o.Error + ")"
	case FieldWrap:
		return "wrap(" + o.Wrap.Type + ") with " + o.Wrap.With
	default:
		return o.Kind.String()
	}
}

// HasTypeEffect reports whether the option changes the lookup type.
func (o FieldOption) HasTypeEffect() bool {
	return o.Kind != FieldDefault
}

// Target is what a provider produces: the annotated type itself or an
// explicit interface it is converted to.
type Target struct {
	Self bool
	Type string // set when !Self
	Pos  token.Position
}

// String returns "self" or the interface type.
func (t Target) String() string {
	if t.Self {
		return common.SelfStr
	}

	return t.Type
}

// TypeSpec is a parsed provide directive.
type TypeSpec struct {
	Target  Target
	Options []TypeOption
	Pos     token.Position
}

// String renders the directive.
func (s TypeSpec) String() string {
	parts := []string{s.Target.String()}
	for _, o := range s.Options {
		parts = append(parts, o.String())
	}

	return "provide(" + strings.Join(parts, ", ") + ")"
}

// FieldSpec is a struct field together with its parsed depend options.
type FieldSpec struct {
	Name    string
	Type    string
	Options []FieldOption
	Pos     token.Position
}

// IsDefault reports whether the field is produced locally instead of being
// looked up.
func (s FieldSpec) IsDefault() bool {
	return slices.ContainsFunc(s.Options, func(o FieldOption) bool {
		return o.Kind == FieldDefault
	})
}

// Awaits reports whether resolving the field suspends.
func (s FieldSpec) Awaits() bool {
	return slices.ContainsFunc(s.Options, func(o FieldOption) bool {
		return o.Kind == FieldAwait
	})
}

// Directive renders the field options as a depend directive, or "" if there
// are none.
func (s FieldSpec) Directive() string {
	if len(s.Options) == 0 {
		return ""
	}

	parts := make([]string, 0, len(s.Options))
	for _, o := range s.Options {
		parts = append(parts, o.String())
	}

	return "depend(" + strings.Join(parts, ", ") + ")"
}
