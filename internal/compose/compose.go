package compose

import (
	"fmt"
	"strings"

	"provider-generator/internal/common"
	"provider-generator/internal/diagnostic"
	"provider-generator/internal/option"
)

// Expr is a Go expression together with the statements that must run, in
// order, before it is evaluated.
type Expr struct {
	Stmts []string
	Value string
	// Zero marks a binding that takes the zero value of its type.
	Zero bool
}

// Scope describes the function body the field bindings are emitted into.
type Scope struct {
	// Result is the type the enclosing function returns.
	Result string
	// Fallible is set when Result is a provide.Result, so a failed lookup can
	// return early.
	Fallible bool
	Success  string
	Error    string
}

// Composer renders composed types and expressions. Runtime types are
// qualified with the runtime package alias; temporaries come from the Namer.
type Composer struct {
	rt    string
	names *common.Namer
	used  bool
}

// New creates a Composer for one generated provider.
func New(runtimeAlias string, names *common.Namer) *Composer {
	return &Composer{rt: runtimeAlias, names: names}
}

// Runtime qualifies name with the runtime package alias.
func (c *Composer) Runtime(name string) string {
	c.used = true
	return c.rt + "." + name
}

// UsesRuntime reports whether anything rendered so far refers to the runtime
// package.
func (c *Composer) UsesRuntime() bool {
	return c.used
}

// LookupType composes the type a field must be looked up as. It returns
// false when the field is not looked up at all (default).
func (c *Composer) LookupType(declared string, opts []option.FieldOption) (string, bool) {
	typ := declared

	for i := len(opts) - 1; i >= 0; i-- {
		wrapped, ok := c.fieldType(opts[i], typ)
		if !ok {
			return "", false
		}

		typ = wrapped
	}

	return typ, true
}

func (c *Composer) fieldType(o option.FieldOption, inner string) (string, bool) {
	switch o.Kind {
	case option.FieldTry:
		return c.Runtime("Result") + "[" + inner + ", " + o.Error + "]", true
	case option.FieldAwait:
		return c.Runtime("Deferred") + "[" + inner + "]", true
	case option.FieldWrap:
		return o.Wrap.Type + "[" + inner + "]", true
	default:
		return "", false
	}
}

// FieldValue composes the binding expression of a field from the registry
// query. field names the binding and seeds temporaries.
//
// A try option needs a fallible scope; otherwise a diagnostic is returned.
func (c *Composer) FieldValue(field, query string, opts []option.FieldOption, scope Scope) (Expr, error) {
	e := Expr{Value: query}

	for _, o := range opts {
		switch o.Kind {
		case option.FieldAwait:
			e.Value += ".Await()"
		case option.FieldWrap:
			e.Value = o.Wrap.With + "(" + e.Value + ")"
		case option.FieldDefault:
			e = Expr{Zero: true}
		case option.FieldTry:
			if !scope.Fallible {
				return Expr{}, diagnostic.Diagnostic{
					Severity: diagnostic.DiagnosticError,
					Code:     diagnostic.CodeTryOutsideFallible,
					Message: fmt.Sprintf("%s needs the provided value to be fallible where %s is bound, but it is %s",
						o, field, scope.Result),
					Pos:      o.Pos,
					Field:    field,
					Expected: "a fallible(error = Type) provide option before the first async",
				}
			}

			tmp := c.names.Fresh(field + "Result")
			e.Stmts = append(e.Stmts,
				tmp+" := "+e.Value,
				"if "+tmp+".IsErr() {\nreturn "+c.errReturn(scope, tmp+".UnwrapErr()", o.Error)+"\n}",
			)
			e.Value = tmp + ".Unwrap()"
		}
	}

	return e, nil
}

func (c *Composer) errReturn(scope Scope, errExpr, errType string) string {
	if errType != scope.Error {
		errExpr = Convert(scope.Error, errExpr)
	}

	return c.Runtime("Err") + "[" + scope.Success + ", " + scope.Error + "](" + errExpr + ")"
}

// Interface composes the type the provider returns.
func (c *Composer) Interface(target string, opts []option.TypeOption) string {
	typ := target
	for _, o := range opts {
		typ = c.typeType(o, typ)
	}

	return typ
}

func (c *Composer) typeType(o option.TypeOption, inner string) string {
	switch o.Kind {
	case option.TypeBox:
		return "*" + inner
	case option.TypeShared:
		return c.Runtime("Shared") + "[" + inner + "]"
	case option.TypeFallible:
		return c.Runtime("Result") + "[" + inner + ", " + o.Error + "]"
	case option.TypeAsync:
		return c.Runtime("Deferred") + "[" + inner + "]"
	case option.TypeWrap:
		return o.Wrap.Type + "[" + inner + "]"
	default:
		return inner
	}
}

// BindingScope returns the scope the field bindings run in: the closure of
// the first async option, or the Provide method itself.
func (c *Composer) BindingScope(target string, opts []option.TypeOption) Scope {
	typ := target

	var (
		last  *option.TypeOption
		inner string
	)

	for i := range opts {
		if opts[i].Kind == option.TypeAsync {
			break
		}

		inner = typ
		typ = c.typeType(opts[i], typ)
		last = &opts[i]
	}

	scope := Scope{Result: typ}
	if last != nil && last.Kind == option.TypeFallible {
		scope.Fallible = true
		scope.Success = inner
		scope.Error = last.Error
	}

	return scope
}

// Provide wraps body, the construction of the provided value preceded by the
// field bindings, with the value effect of each option in declared order.
func (c *Composer) Provide(target string, body Expr, opts []option.TypeOption) Expr {
	typ := target
	e := body

	for _, o := range opts {
		switch o.Kind {
		case option.TypeBox:
			e.Value = c.Runtime("Box") + "[" + typ + "](" + e.Value + ")"
		case option.TypeShared:
			e.Value = c.Runtime("NewShared") + "[" + typ + "](" + e.Value + ")"
		case option.TypeFallible:
			e.Value = c.Runtime("Ok") + "[" + typ + ", " + o.Error + "](" + e.Value + ")"
		case option.TypeWrap:
			e.Value = o.Wrap.With + "(" + e.Value + ")"
		case option.TypeAsync:
			var sb strings.Builder

			sb.WriteString(c.Runtime("Async") + "[" + typ + "](func() " + typ + " {\n")

			for _, s := range e.Stmts {
				sb.WriteString(s + "\n")
			}

			sb.WriteString("return " + e.Value + "\n})")

			e = Expr{Value: sb.String()}
		}

		typ = c.typeType(o, typ)
	}

	return e
}

// Construct returns the composite literal that builds the provided type from
// its bindings. With an explicit target the literal's address is converted to
// it, so both value and pointer receivers satisfy the interface.
func Construct(self string, target option.Target, keys, values []string) string {
	var sb strings.Builder

	sb.WriteString(self + "{")

	if len(keys) > 0 {
		sb.WriteString("\n")

		for i := range keys {
			sb.WriteString(keys[i] + ": " + values[i] + ",\n")
		}
	}

	sb.WriteString("}")

	if target.Self {
		return sb.String()
	}

	return Convert(target.Type, "&"+sb.String())
}

// Convert renders the conversion of expr to typ, parenthesizing types that
// would otherwise parse differently.
func Convert(typ, expr string) string {
	if strings.HasPrefix(typ, "*") || strings.HasPrefix(typ, "<-") ||
		strings.HasPrefix(typ, "func") || strings.HasPrefix(typ, "chan") {
		typ = "(" + typ + ")"
	}

	return typ + "(" + expr + ")"
}
