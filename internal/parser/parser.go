// Package parser implements a recursive-descent parser turning a semcore
// token stream into internal/ast nodes. It is the second stage of the
// ambient front end: internal/lexer feeds it, internal/binder consumes its
// output to resolve scopes and symbols.
//
// The parser never fails outright on malformed input: it records each
// problem as a diagnostic and substitutes an *ast.ErrorExpr (or skips the
// offending declaration) so that later declarations in the same file
// still get a chance to parse.
package parser

import (
	"fmt"

	"github.com/nodalang/semcore/internal/ast"
	"github.com/nodalang/semcore/internal/diagnostic"
	"github.com/nodalang/semcore/internal/lexer"
)

// Parser holds the token stream and lookahead needed for LL(1)-with-a-bit
// recursive descent, plus a sink for the syntax diagnostics it raises
// along the way.
type Parser struct {
	l    *lexer.Lexer
	sink *diagnostic.Sink

	cur  lexer.Token
	peek lexer.Token
}

// New creates a Parser reading tokens from l and reporting syntax errors
// into sink.
func New(l *lexer.Lexer, sink *diagnostic.Sink) *Parser {
	p := &Parser{l: l, sink: sink}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) pos() ast.Pos {
	return ast.Pos{File: p.cur.File, Line: p.cur.Line, Column: p.cur.Column}
}

func (p *Parser) curIs(t lexer.TokenType) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t lexer.TokenType) bool { return p.peek.Type == t }

// expect consumes the current token if it has type t, else records a
// SYN001 diagnostic and returns false without advancing.
func (p *Parser) expect(t lexer.TokenType) bool {
	if p.curIs(t) {
		p.next()
		return true
	}
	p.errorf(diagnostic.SYN001, "expected %s, found %s (%q)", t, p.cur.Type, p.cur.Literal)
	return false
}

func (p *Parser) errorf(code string, format string, args ...interface{}) {
	p.sink.Add(diagnostic.New(code, p.pos(), fmt.Sprintf(format, args...), nil))
}

// ParseFile parses a complete source file: a flat list of top-level
// declarations, terminated by EOF.
func (p *Parser) ParseFile(filename string) *ast.File {
	file := &ast.File{Pos: ast.Pos{File: filename, Line: 1, Column: 1}}
	for !p.curIs(lexer.EOF) {
		d := p.parseDecl(nil)
		if d != nil {
			file.Decls = append(file.Decls, d)
		} else {
			p.next() // avoid looping forever on unparseable input
		}
	}
	return file
}

// parseDecl parses one top-level or member declaration. owner is the
// enclosing StructDecl when parsing a member, nil at the top level —
// it only affects how a bare 'fun' name is classified (regular vs
// method/constructor/destructor).
func (p *Parser) parseDecl(owner *ast.StructDecl) ast.Decl {
	switch p.cur.Type {
	case lexer.STRUCT, lexer.INTERFACE, lexer.UNION:
		return p.parseStructDecl()
	case lexer.FUN:
		return p.parseFunDecl(owner)
	case lexer.IDENT:
		return p.parsePropDecl()
	default:
		p.errorf(diagnostic.SYN001, "unexpected token %s (%q) at declaration position", p.cur.Type, p.cur.Literal)
		return nil
	}
}
