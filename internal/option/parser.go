package option

import (
	"fmt"
	"go/ast"
	goparser "go/parser"
	"go/scanner"
	"go/token"
	"strconv"
	"strings"

	"provider-generator/internal/common"
	"provider-generator/internal/diagnostic"
	"provider-generator/internal/suggest"
)

// Grammar productions named by diagnostics.
const (
	ProdProvide     = `"provide" "(" target { "," typeOption } ")"`
	ProdTarget      = `"self" or a type`
	ProdTypeOption  = "one of box, arc, shared, async, fallible(error = Type), wrap(Type) with Func"
	ProdDepend      = `"depend" "(" [ fieldOption { "," fieldOption } ] ")"`
	ProdFieldOption = "one of try(error = Type), await, default, wrap(Type) with Func"
	ProdFallible    = `"fallible" "(" "error" "=" Type ")"`
	ProdTry         = `"try" "(" "error" "=" Type ")"`
	ProdWrap        = `"wrap" "(" Type ")" "with" Func`
)

// ParseProvide parses a provide directive such as
// "provide(Service, box, fallible(error = Error), async)". pos locates the
// first byte of text in the source and is used for diagnostics.
//
// The returned error is a [diagnostic.Diagnostic].
func ParseProvide(text string, pos token.Position) (TypeSpec, error) {
	spec := TypeSpec{Pos: pos}

	p, err := newParser(text, pos)
	if err != nil {
		return spec, err
	}

	if _, err := p.keyword("provide", ProdProvide); err != nil {
		return spec, err
	}

	if _, err := p.expect(token.LPAREN, ProdProvide); err != nil {
		return spec, err
	}

	spec.Target, err = p.parseTarget()
	if err != nil {
		return spec, err
	}

	for p.peek().tok == token.COMMA {
		p.next()

		if p.peek().tok == token.RPAREN {
			break
		}

		opt, err := p.parseTypeOption()
		if err != nil {
			return spec, err
		}

		spec.Options = append(spec.Options, opt)
	}

	if _, err := p.expect(token.RPAREN, `"," or ")"`); err != nil {
		return spec, err
	}

	if err := p.expectEOF(); err != nil {
		return spec, err
	}

	return spec, nil
}

// ParseDepend parses the value of a field tag: zero or more depend groups
// such as "depend(await, try(error = Error))". Groups are concatenated in
// order. An empty text yields no options.
//
// The returned error is a [diagnostic.Diagnostic].
func ParseDepend(text string, pos token.Position) ([]FieldOption, error) {
	p, err := newParser(text, pos)
	if err != nil {
		return nil, err
	}

	var opts []FieldOption

	for p.peek().tok != token.EOF {
		group, err := p.parseDependGroup()
		if err != nil {
			return nil, err
		}

		opts = append(opts, group...)
	}

	if err := checkDefault(opts); err != nil {
		return nil, err
	}

	return opts, nil
}

// checkDefault rejects default next to an option that changes the lookup
// type: the field is never looked up, so that option could not apply.
func checkDefault(opts []FieldOption) error {
	var def, other *FieldOption

	for i := range opts {
		switch {
		case opts[i].Kind == FieldDefault && def == nil:
			def = &opts[i]
		case opts[i].HasTypeEffect() && other == nil:
			other = &opts[i]
		}
	}

	if def == nil || other == nil {
		return nil
	}

	return diagnostic.Diagnostic{
		Severity: diagnostic.DiagnosticError,
		Code:     diagnostic.CodeDefaultConflict,
		Message:  fmt.Sprintf("default cannot be combined with %s", other),
		Pos:      def.Pos,
	}
}

type item struct {
	tok token.Token
	lit string
	off int
	end int
}

type parser struct {
	src   string
	base  token.Position
	items []item
	pos   int
}

func newParser(src string, base token.Position) (*parser, error) {
	p := &parser{src: src, base: base}

	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(src))

	var scanErr error

	var s scanner.Scanner
	s.Init(file, []byte(src), func(pos token.Position, msg string) {
		if scanErr == nil {
			scanErr = p.errorAt(pos.Offset, diagnostic.CodeSyntax, msg, "")
		}
	}, 0)

	for {
		pos, tok, lit := s.Scan()
		if tok == token.EOF {
			break
		}

		// Automatic semicolons only mark the end of the text.
		if tok == token.SEMICOLON && lit == "\n" {
			continue
		}

		text := lit
		if text == "" {
			text = tok.String()
		}

		off := file.Offset(pos)
		p.items = append(p.items, item{tok: tok, lit: text, off: off, end: off + len(text)})
	}

	p.items = append(p.items, item{tok: token.EOF, off: len(src), end: len(src)})

	return p, scanErr
}

func (p *parser) peek() item {
	return p.items[p.pos]
}

func (p *parser) next() item {
	it := p.items[p.pos]
	if it.tok != token.EOF {
		p.pos++
	}

	return it
}

// position maps a byte offset of the annotation text to a source position.
// Annotations are single line, so the column moves with the offset.
func (p *parser) position(off int) token.Position {
	pos := p.base
	pos.Offset += off
	pos.Column += off

	return pos
}

func (p *parser) errorAt(off int, code, msg, expected string) diagnostic.Diagnostic {
	return diagnostic.Diagnostic{
		Severity: diagnostic.DiagnosticError,
		Code:     code,
		Message:  msg,
		Pos:      p.position(off),
		Expected: expected,
	}
}

func (p *parser) unexpected(it item, expected string) error {
	found := "end of annotation"
	if it.tok != token.EOF {
		found = strconv.Quote(it.lit)
	}

	return p.errorAt(it.off, diagnostic.CodeSyntax, "unexpected "+found, expected)
}

func (p *parser) expect(tok token.Token, expected string) (item, error) {
	it := p.peek()
	if it.tok != tok {
		return it, p.unexpected(it, expected)
	}

	return p.next(), nil
}

func (p *parser) keyword(word, expected string) (item, error) {
	it := p.peek()
	if it.lit != word || (it.tok != token.IDENT && !it.tok.IsKeyword()) {
		return it, p.unexpected(it, expected)
	}

	return p.next(), nil
}

func (p *parser) expectEOF() error {
	if it := p.peek(); it.tok != token.EOF {
		return p.unexpected(it, "end of directive")
	}

	return nil
}

func (p *parser) parseTarget() (Target, error) {
	it := p.peek()

	if it.tok == token.COMMA || it.tok == token.RPAREN || it.tok == token.EOF {
		return Target{}, p.errorAt(it.off, diagnostic.CodeMissingClause,
			"provide needs a target type", ProdTarget)
	}

	if it.tok == token.IDENT && it.lit == common.SelfStr {
		if after := p.items[p.pos+1].tok; after == token.COMMA || after == token.RPAREN {
			p.next()
			return Target{Self: true, Pos: p.position(it.off)}, nil
		}
	}

	typ, err := p.parseType(ProdTarget)
	if err != nil {
		return Target{}, err
	}

	return Target{Type: typ, Pos: p.position(it.off)}, nil
}

func (p *parser) parseTypeOption() (TypeOption, error) {
	it := p.peek()

	kind, ok := typeKeywords[it.lit]
	if it.tok != token.IDENT || !ok {
		return TypeOption{}, p.unknownOption(it, "provide", ProdTypeOption, typeKeywordNames)
	}

	p.next()

	opt := TypeOption{Kind: kind, Pos: p.position(it.off)}

	var err error

	switch kind {
	case TypeFallible:
		opt.Error, err = p.parseErrorClause("fallible", ProdFallible)
	case TypeWrap:
		opt.Wrap, err = p.parseWrap()
	}

	return opt, err
}

func (p *parser) parseDependGroup() ([]FieldOption, error) {
	if _, err := p.keyword("depend", ProdDepend); err != nil {
		return nil, err
	}

	if _, err := p.expect(token.LPAREN, ProdDepend); err != nil {
		return nil, err
	}

	var opts []FieldOption

	for p.peek().tok != token.RPAREN {
		opt, err := p.parseFieldOption()
		if err != nil {
			return nil, err
		}

		opts = append(opts, opt)

		if p.peek().tok != token.COMMA {
			break
		}

		p.next()
	}

	if _, err := p.expect(token.RPAREN, `"," or ")"`); err != nil {
		return nil, err
	}

	return opts, nil
}

func (p *parser) parseFieldOption() (FieldOption, error) {
	it := p.peek()

	kind, ok := fieldKeywords[it.lit]
	if (it.tok != token.IDENT && it.tok != token.DEFAULT) || !ok {
		return FieldOption{}, p.unknownOption(it, "depend", ProdFieldOption, fieldKeywordNames)
	}

	p.next()

	opt := FieldOption{Kind: kind, Pos: p.position(it.off)}

	var err error

	switch kind {
	case FieldTry:
		opt.Error, err = p.parseErrorClause("try", ProdTry)
	case FieldWrap:
		opt.Wrap, err = p.parseWrap()
	}

	return opt, err
}

func (p *parser) unknownOption(it item, directive, expected string, known []string) error {
	if it.tok == token.EOF || it.tok.IsOperator() {
		return p.unexpected(it, expected)
	}

	msg := fmt.Sprintf("unknown %s option %q", directive, it.lit)
	if hint := suggest.DidYouMean(it.lit, known); hint != "" {
		msg += "; " + hint
	}

	return p.errorAt(it.off, diagnostic.CodeUnknownOption, msg, expected)
}

// parseErrorClause parses `"(" "error" "=" Type ")"` after fallible or try.
func (p *parser) parseErrorClause(name, expected string) (string, error) {
	if it := p.peek(); it.tok != token.LPAREN {
		return "", p.errorAt(it.off, diagnostic.CodeMissingClause,
			name+" requires an error type clause", expected)
	}

	p.next()

	if _, err := p.keyword("error", expected); err != nil {
		return "", err
	}

	if _, err := p.expect(token.ASSIGN, expected); err != nil {
		return "", err
	}

	typ, err := p.parseType(expected)
	if err != nil {
		return "", err
	}

	if _, err := p.expect(token.RPAREN, expected); err != nil {
		return "", err
	}

	return typ, nil
}

// parseWrap parses `"(" Type ")" "with" Func` after wrap.
func (p *parser) parseWrap() (Wrap, error) {
	if it := p.peek(); it.tok != token.LPAREN {
		return Wrap{}, p.errorAt(it.off, diagnostic.CodeMissingClause,
			"wrap requires a wrapper type", ProdWrap)
	}

	p.next()

	start := p.peek()

	typ, err := p.parseType(ProdWrap)
	if err != nil {
		return Wrap{}, err
	}

	if !isTypeName(typ) {
		return Wrap{}, p.errorAt(start.off, diagnostic.CodeInvalidType,
			fmt.Sprintf("wrapper %q must name a generic type", typ), ProdWrap)
	}

	if _, err := p.expect(token.RPAREN, ProdWrap); err != nil {
		return Wrap{}, err
	}

	if it := p.peek(); it.tok != token.IDENT || it.lit != "with" {
		return Wrap{}, p.errorAt(it.off, diagnostic.CodeMissingClause,
			"wrap requires a wrapping function", ProdWrap)
	}

	p.next()

	fn, err := p.parseFunc()
	if err != nil {
		return Wrap{}, err
	}

	return Wrap{Type: typ, With: fn}, nil
}

// parseFunc parses a possibly qualified function name.
func (p *parser) parseFunc() (string, error) {
	it := p.peek()
	if it.tok != token.IDENT {
		return "", p.errorAt(it.off, diagnostic.CodeMissingClause,
			"wrap requires a wrapping function", ProdWrap)
	}

	parts := []string{p.next().lit}

	for p.peek().tok == token.PERIOD {
		p.next()

		name, err := p.expect(token.IDENT, "a function name")
		if err != nil {
			return "", err
		}

		parts = append(parts, name.lit)
	}

	return strings.Join(parts, "."), nil
}

// parseType consumes a Go type expression up to the next top-level "," or
// ")" and validates it with go/parser.
func (p *parser) parseType(expected string) (string, error) {
	start := p.peek()
	end := start.off
	depth := 0

loop:
	for {
		it := p.peek()

		switch it.tok {
		case token.EOF:
			break loop
		case token.LPAREN, token.LBRACK, token.LBRACE:
			depth++
		case token.RPAREN, token.RBRACK, token.RBRACE:
			if depth == 0 {
				break loop
			}

			depth--
		case token.COMMA:
			if depth == 0 {
				break loop
			}
		}

		end = p.next().end
	}

	text := strings.TrimSpace(p.src[start.off:end])
	if text == "" {
		return "", p.errorAt(start.off, diagnostic.CodeMissingClause, "missing type", expected)
	}

	expr, err := goparser.ParseExpr(text)
	if err != nil || !isType(expr) {
		return "", p.errorAt(start.off, diagnostic.CodeInvalidType,
			fmt.Sprintf("%q is not a type", text), expected)
	}

	return text, nil
}

// isType reports whether e has the shape of a type expression.
func isType(e ast.Expr) bool {
	switch t := e.(type) {
	case *ast.Ident:
		return t.Name != "_"
	case *ast.SelectorExpr:
		_, ok := t.X.(*ast.Ident)
		return ok
	case *ast.StarExpr:
		return isType(t.X)
	case *ast.ParenExpr:
		return isType(t.X)
	case *ast.ArrayType:
		return isType(t.Elt)
	case *ast.MapType:
		return isType(t.Key) && isType(t.Value)
	case *ast.ChanType:
		return isType(t.Value)
	case *ast.FuncType, *ast.InterfaceType, *ast.StructType:
		return true
	case *ast.IndexExpr:
		return isType(t.X) && isType(t.Index)
	case *ast.IndexListExpr:
		if !isType(t.X) {
			return false
		}

		for _, idx := range t.Indices {
			if !isType(idx) {
				return false
			}
		}

		return true
	default:
		return false
	}
}

// isTypeName reports whether text is a plain or qualified type name.
func isTypeName(text string) bool {
	expr, err := goparser.ParseExpr(text)
	if err != nil {
		return false
	}

	switch t := expr.(type) {
	case *ast.Ident:
		return true
	case *ast.SelectorExpr:
		_, ok := t.X.(*ast.Ident)
		return ok
	default:
		return false
	}
}
