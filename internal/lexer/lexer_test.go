package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextTokenStructDecl(t *testing.T) {
	src := `struct Point {
		x: @mut Int;
		fun new(x: Int, y: Int) -> Point {
			self
		}
	}`
	l := New(src, "test.sc")

	want := []struct {
		typ     TokenType
		literal string
	}{
		{STRUCT, "struct"},
		{IDENT, "Point"},
		{LBRACE, "{"},
		{IDENT, "x"},
		{COLON, ":"},
		{AT, "@"},
		{IDENT, "mut"},
		{IDENT, "Int"},
		{SEMICOLON, ";"},
		{FUN, "fun"},
		{NEW, "new"},
		{LPAREN, "("},
		{IDENT, "x"},
		{COLON, ":"},
		{IDENT, "Int"},
		{COMMA, ","},
		{IDENT, "y"},
		{COLON, ":"},
		{IDENT, "Int"},
		{RPAREN, ")"},
		{ARROW, "->"},
		{IDENT, "Point"},
		{LBRACE, "{"},
		{IDENT, "self"},
		{RBRACE, "}"},
		{RBRACE, "}"},
		{EOF, ""},
	}

	for i, w := range want {
		tok := l.NextToken()
		require.Equalf(t, w.typ, tok.Type, "token %d: type mismatch (literal %q)", i, tok.Literal)
		assert.Equalf(t, w.literal, tok.Literal, "token %d: literal mismatch", i)
	}
}

func TestNextTokenOperatorsAndAssignVsEq(t *testing.T) {
	src := `:= == != <= >= && || -> @`
	l := New(src, "test.sc")

	want := []TokenType{ASSIGN, EQ, NEQ, LTE, GTE, AND, OR, ARROW, AT, EOF}
	for i, w := range want {
		tok := l.NextToken()
		assert.Equalf(t, w, tok.Type, "token %d (%q)", i, tok.Literal)
	}
}

func TestNextTokenBareEqualsIsIllegal(t *testing.T) {
	l := New("x = 1", "test.sc")
	tok := l.NextToken()
	assert.Equal(t, IDENT, tok.Type)
	tok = l.NextToken()
	assert.Equal(t, ILLEGAL, tok.Type)
}

func TestNextTokenStringEscapes(t *testing.T) {
	l := New(`"hi\n\"there\""`, "test.sc")
	tok := l.NextToken()
	require.Equal(t, STRING, tok.Type)
	assert.Equal(t, "hi\n\"there\"", tok.Literal)
}

func TestNextTokenNumbers(t *testing.T) {
	l := New("42 3.14 1e10", "test.sc")

	tok := l.NextToken()
	assert.Equal(t, INT, tok.Type)
	assert.Equal(t, "42", tok.Literal)

	tok = l.NextToken()
	assert.Equal(t, FLOAT, tok.Type)
	assert.Equal(t, "3.14", tok.Literal)

	tok = l.NextToken()
	assert.Equal(t, FLOAT, tok.Type)
	assert.Equal(t, "1e10", tok.Literal)
}

func TestNextTokenLineComment(t *testing.T) {
	l := New("1 // trailing comment\n2", "test.sc")
	tok := l.NextToken()
	assert.Equal(t, INT, tok.Type)
	assert.Equal(t, "1", tok.Literal)
	tok = l.NextToken()
	assert.Equal(t, INT, tok.Type)
	assert.Equal(t, "2", tok.Literal)
}

func TestLookupIdentKeywords(t *testing.T) {
	cases := map[string]TokenType{
		"fun": FUN, "struct": STRUCT, "interface": INTERFACE, "union": UNION,
		"new": NEW, "del": DEL, "let": LET, "return": RETURN, "if": IF,
		"else": ELSE, "true": TRUE, "false": FALSE, "copy": COPY, "move": MOVE,
		"ref": REF, "somethingElse": IDENT,
	}
	for lit, want := range cases {
		assert.Equal(t, want, LookupIdent(lit), lit)
	}
}

func TestNormalizeStripsBOM(t *testing.T) {
	src := append([]byte{0xEF, 0xBB, 0xBF}, []byte("let x")...)
	out := Normalize(src)
	assert.Equal(t, "let x", string(out))
}
