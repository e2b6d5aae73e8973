package scanner

import (
	"testing"

	"github.com/tekwizely/go-parsing/lexer/token"
)

// next pulls one token under the given candidate set.
//
func next(t *testing.T, ctx *Context, kinds ...token.Type) token.Token {
	t.Helper()
	ctx.Expect(kinds...)
	tok, err := ctx.Tokens.Next()
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	return tok
}

// expect pulls one token and checks kind and value.
//
func expect(t *testing.T, ctx *Context, want token.Type, value string, kinds ...token.Type) {
	t.Helper()
	tok := next(t, ctx, kinds...)
	if tok.Type() != want {
		t.Fatalf("got %s %q, want %s %q", KindName(tok.Type()), tok.Value(), KindName(want), value)
	}
	if tok.Value() != value {
		t.Fatalf("got %s %q, want value %q", KindName(tok.Type()), tok.Value(), value)
	}
}

func expectEOF(t *testing.T, ctx *Context, kinds ...token.Type) {
	t.Helper()
	ctx.Expect(kinds...)
	if tok, err := ctx.Tokens.Next(); err == nil {
		t.Fatalf("got %s %q, want end of stream", KindName(tok.Type()), tok.Value())
	}
}

func TestVarDeclaration(t *testing.T) {
	ctx := New([]byte("var count = 1\n"))
	expect(t, ctx, TokenVar, "var", TokenVar, TokenCommand, TokenUnknownCmd)
	expect(t, ctx, TokenIdent, "count", TokenIdent, TokenScope)
	expect(t, ctx, TokenAssign, "=", TokenAssign, TokenColon)
	expect(t, ctx, TokenNumber, "1", TokenNumber, TokenFloat, TokenString, TokenIdent)
	expect(t, ctx, TokenCmdSeparator, "\n", TokenCmdSeparator)
	expectEOF(t, ctx, TokenCmdSeparator)
}

func TestKeywordAbbreviation(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"fu", "function"},
		{"func", "function"},
		{"function", "function"},
		{"se", "set"},
		{"setl", "setlocal"},
		{"ec", "echo"},
		{"echom", "echomsg"},
	}
	for _, tt := range tests {
		ctx := New([]byte(tt.src))
		tok := next(t, ctx, TokenCommand, TokenUnknownCmd)
		if tok.Type() != TokenCommand {
			t.Errorf("%q: got %s, want COMMAND", tt.src, KindName(tok.Type()))
			continue
		}
		if got, ok := Canonical(tok.Value()); !ok || got != tt.want {
			t.Errorf("Canonical(%q) = %q, want %q", tok.Value(), got, tt.want)
		}
	}
}

func TestKeywordAbbreviationRejects(t *testing.T) {
	// "funct" stops short of the full optional tail's prefix rule only
	// when letters diverge; "fx" shares no valid prefix.
	for _, src := range []string{"fx", "funcx", "settt"} {
		ctx := New([]byte(src))
		tok := next(t, ctx, TokenCommand, TokenUnknownCmd)
		if tok.Type() != TokenUnknownCmd {
			t.Errorf("%q: got %s %q, want UNKNOWN_COMMAND", src, KindName(tok.Type()), tok.Value())
		}
	}
}

func TestScopeBeatsKeyword(t *testing.T) {
	// 'l' and 'v' are both scope sigils and keyword prefixes; the colon
	// decides.
	ctx := New([]byte("l:count"))
	expect(t, ctx, TokenScope, "l:", TokenScope, TokenScopeDict, TokenCommand, TokenUnknownCmd)
	expect(t, ctx, TokenIdent, "count", TokenIdent)

	ctx = New([]byte("let x"))
	expect(t, ctx, TokenCommand, "let", TokenScope, TokenScopeDict, TokenCommand, TokenUnknownCmd)
}

func TestScopeDict(t *testing.T) {
	// A bare scope with nothing attachable after the colon is the scope
	// dictionary itself.
	ctx := New([]byte("g: "))
	expect(t, ctx, TokenScopeDict, "g:", TokenScope, TokenScopeDict, TokenIdent)

	ctx = New([]byte("g:name"))
	expect(t, ctx, TokenScope, "g:", TokenScope, TokenScopeDict, TokenIdent)
	expect(t, ctx, TokenIdent, "name", TokenIdent)
}

func TestSIDScope(t *testing.T) {
	ctx := New([]byte("<SID>Helper()"))
	expect(t, ctx, TokenScope, "<SID>", TokenScope, TokenScopeDict, TokenIdent)
	expect(t, ctx, TokenIdent, "Helper", TokenIdent)
	expect(t, ctx, TokenCallParen, "(", TokenCallParen, TokenLParen)
}

func TestCallParenAdjacency(t *testing.T) {
	ctx := New([]byte("f(1)"))
	expect(t, ctx, TokenIdent, "f", TokenIdent)
	expect(t, ctx, TokenCallParen, "(", TokenCallParen, TokenLParen)

	// With a space between, the paren groups instead of calling.
	ctx = New([]byte("f (1)"))
	expect(t, ctx, TokenIdent, "f", TokenIdent)
	expect(t, ctx, TokenLParen, "(", TokenCallParen, TokenLParen)
}

func TestIndexBracketAdjacency(t *testing.T) {
	ctx := New([]byte("xs[0]"))
	expect(t, ctx, TokenIdent, "xs", TokenIdent)
	expect(t, ctx, TokenIndexBracket, "[", TokenIndexBracket, TokenLBracket)

	ctx = New([]byte("xs [0]"))
	expect(t, ctx, TokenIdent, "xs", TokenIdent)
	expect(t, ctx, TokenLBracket, "[", TokenIndexBracket, TokenLBracket)
}

func TestFailConsumesNothing(t *testing.T) {
	ctx := New([]byte("abc"))
	tok := next(t, ctx, TokenNumber)
	if tok.Type() != TokenFail {
		t.Fatalf("got %s, want FAIL", KindName(tok.Type()))
	}
	if tok.Value() != "" {
		t.Fatalf("FAIL token consumed %q", tok.Value())
	}
	// Retry with a workable candidate set from the same position.
	expect(t, ctx, TokenIdent, "abc", TokenIdent)
}

func TestStrings(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`'plain'`, `'plain'`},
		{`'it''s'`, `'it''s'`},
		{`"double"`, `"double"`},
		{`"esc \" quote"`, `"esc \" quote"`},
		{`"tab\there"`, `"tab\there"`},
	}
	for _, tt := range tests {
		ctx := New([]byte(tt.src))
		expect(t, ctx, TokenString, tt.want, TokenString, TokenComment)
	}
}

func TestUnterminatedDoubleQuoteIsComment(t *testing.T) {
	// Vim reads a double quote with no closing quote before the line
	// end as a trailing comment.
	ctx := New([]byte("\" note to self\nlet"))
	expect(t, ctx, TokenComment, "\" note to self", TokenString, TokenComment)
	expect(t, ctx, TokenCmdSeparator, "\n", TokenCmdSeparator)
}

func TestMultilineStringContinuation(t *testing.T) {
	src := "\"first\n      \\ second\""
	ctx := New([]byte(src))
	expect(t, ctx, TokenString, src, TokenString, TokenComment)
}

func TestCommentRequiresNoStringCandidate(t *testing.T) {
	// When a string is possible at this position, '"' must open the
	// string, never a comment.
	ctx := New([]byte(`"text"`))
	expect(t, ctx, TokenString, `"text"`, TokenString, TokenComment)

	ctx = New([]byte(`" comment`))
	expect(t, ctx, TokenComment, `" comment`, TokenComment)
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		src  string
		kind token.Type
	}{
		{"42", TokenNumber},
		{"0xFF", TokenNumber},
		{"3.14", TokenFloat},
		{"1.5e3", TokenFloat},
		{"1.5e-3", TokenFloat},
		{"2.0E+10", TokenFloat},
	}
	for _, tt := range tests {
		ctx := New([]byte(tt.src))
		expect(t, ctx, tt.kind, tt.src, TokenNumber, TokenFloat)
	}
}

func TestDotAfterNumberWithoutFloatCandidate(t *testing.T) {
	// Without FLOAT as a candidate the dot stays for concatenation.
	ctx := New([]byte("1.5"))
	expect(t, ctx, TokenNumber, "1", TokenNumber)
	expect(t, ctx, TokenDot, ".", TokenDot, TokenConcat)
}

func TestPipeSeparatorVsOr(t *testing.T) {
	ctx := New([]byte("| next"))
	expect(t, ctx, TokenCmdSeparator, "|", TokenCmdSeparator, TokenOrOr)

	ctx = New([]byte("|| b"))
	expect(t, ctx, TokenOrOr, "||", TokenCmdSeparator, TokenOrOr)

	// A doubled pipe where only a separator is valid fails cleanly.
	ctx = New([]byte("|| b"))
	tok := next(t, ctx, TokenCmdSeparator)
	if tok.Type() != TokenFail {
		t.Fatalf("got %s, want FAIL", KindName(tok.Type()))
	}
}

func TestLineContinuation(t *testing.T) {
	ctx := New([]byte("a\n      \\ b"))
	expect(t, ctx, TokenIdent, "a", TokenIdent)
	tok := next(t, ctx, TokenIdent, TokenCmdSeparator)
	if tok.Type() != TokenLineContinuation {
		t.Fatalf("got %s %q, want LINE_CONTINUATION", KindName(tok.Type()), tok.Value())
	}
	expect(t, ctx, TokenIdent, "b", TokenIdent)
}

func TestLineContinuationComment(t *testing.T) {
	ctx := New([]byte("a\n\"\\ interior note\n\\ b"))
	expect(t, ctx, TokenIdent, "a", TokenIdent)
	tok := next(t, ctx, TokenIdent, TokenCmdSeparator)
	if tok.Type() != TokenLineContinuationComment {
		t.Fatalf("got %s %q, want LINE_CONTINUATION_COMMENT", KindName(tok.Type()), tok.Value())
	}
	tok = next(t, ctx, TokenIdent, TokenCmdSeparator)
	if tok.Type() != TokenLineContinuation {
		t.Fatalf("got %s %q, want LINE_CONTINUATION", KindName(tok.Type()), tok.Value())
	}
	expect(t, ctx, TokenIdent, "b", TokenIdent)
}

func TestSeparatorTokenIsJustNewline(t *testing.T) {
	// Deciding "separator" requires looking past the newline, but the
	// emitted token must not include what was looked at.
	ctx := New([]byte("a\n  b"))
	expect(t, ctx, TokenIdent, "a", TokenIdent)
	expect(t, ctx, TokenCmdSeparator, "\n", TokenCmdSeparator)
	expect(t, ctx, TokenIdent, "b", TokenIdent)
}

func TestSearchContinuationStartsNewCommand(t *testing.T) {
	// A '\/' after the newline is a search offset command, not a
	// continuation.
	ctx := New([]byte("a\n\\/pat"))
	expect(t, ctx, TokenIdent, "a", TokenIdent)
	expect(t, ctx, TokenCmdSeparator, "\n", TokenCmdSeparator, TokenIdent)
}

func TestPairedSeparators(t *testing.T) {
	ctx := New([]byte("s/foo/bar/g"))
	expect(t, ctx, TokenCommand, "s", TokenCommand, TokenUnknownCmd)
	expect(t, ctx, TokenSepFirst, "/", TokenSepFirst)
	expect(t, ctx, TokenPattern, "foo", TokenPattern, TokenSep)
	expect(t, ctx, TokenSep, "/", TokenPattern, TokenSep)
	expect(t, ctx, TokenPattern, "bar", TokenPattern, TokenSep)
	expect(t, ctx, TokenSep, "/", TokenPattern, TokenSep)
	expect(t, ctx, TokenRawTail, "g", TokenRawTail)
}

func TestPairedSeparatorCommaDelimiter(t *testing.T) {
	ctx := New([]byte("s,a,b,"))
	expect(t, ctx, TokenCommand, "s", TokenCommand, TokenUnknownCmd)
	expect(t, ctx, TokenSepFirst, ",", TokenSepFirst)
	expect(t, ctx, TokenPattern, "a", TokenPattern, TokenSep)
	expect(t, ctx, TokenSep, ",", TokenPattern, TokenSep)
	expect(t, ctx, TokenPattern, "b", TokenPattern, TokenSep)
	expect(t, ctx, TokenSep, ",", TokenPattern, TokenSep)
}

func TestPatternEscapedSeparator(t *testing.T) {
	ctx := New([]byte(`s/a\/b/c/`))
	expect(t, ctx, TokenCommand, "s", TokenCommand, TokenUnknownCmd)
	expect(t, ctx, TokenSepFirst, "/", TokenSepFirst)
	expect(t, ctx, TokenPattern, `a\/b`, TokenPattern, TokenSep)
	expect(t, ctx, TokenSep, "/", TokenPattern, TokenSep)
}

func TestPairedSeparatorRejectsMultibyte(t *testing.T) {
	// A separator wider than one byte could not survive the serialized
	// state, so the scanner must not accept it.
	ctx := New([]byte("s•foo•bar•"))
	expect(t, ctx, TokenCommand, "s", TokenCommand, TokenUnknownCmd)
	tok := next(t, ctx, TokenSepFirst, TokenRawTail)
	if tok.Type() != TokenRawTail {
		t.Fatalf("got %s %q, want RAW_TAIL", KindName(tok.Type()), tok.Value())
	}
	if ctx.State().sep != 0 {
		t.Fatalf("separator recorded as %q", ctx.State().sep)
	}
}

func TestBangSuppressesComment(t *testing.T) {
	ctx := New([]byte("! \"not a comment"))
	expect(t, ctx, TokenBang, "!", TokenBang, TokenNot)
	if ctx.State().ignoreComments != true {
		t.Fatal("bang did not set the comment-hostile flag")
	}
	tok := next(t, ctx, TokenComment, TokenRawTail)
	if tok.Type() != TokenRawTail {
		t.Fatalf("got %s %q, want RAW_TAIL", KindName(tok.Type()), tok.Value())
	}
}

func TestHeredocBody(t *testing.T) {
	src := "END\nfirst line\n  second\nEND\n"
	ctx := New([]byte(src))
	expect(t, ctx, TokenLetHeredocMarker, "END", TokenLetHeredocMarker)
	expect(t, ctx, TokenCmdSeparator, "\n", TokenCmdSeparator)
	expect(t, ctx, TokenHeredocLine, "first line\n", TokenHeredocEnd, TokenHeredocLine)
	expect(t, ctx, TokenHeredocLine, "  second\n", TokenHeredocEnd, TokenHeredocLine)
	tok := next(t, ctx, TokenHeredocEnd, TokenHeredocLine)
	if tok.Type() != TokenHeredocEnd {
		t.Fatalf("got %s %q, want HEREDOC_END", KindName(tok.Type()), tok.Value())
	}
	if ctx.State().InHeredoc() {
		t.Fatal("marker not cleared after HEREDOC_END")
	}
}

func TestHeredocEndRequiresFullLine(t *testing.T) {
	// A line that merely starts with the marker is still body text.
	src := "END\nEND2\nEND\n"
	ctx := New([]byte(src))
	expect(t, ctx, TokenLetHeredocMarker, "END", TokenLetHeredocMarker)
	expect(t, ctx, TokenCmdSeparator, "\n", TokenCmdSeparator)
	expect(t, ctx, TokenHeredocLine, "END2\n", TokenHeredocEnd, TokenHeredocLine)
	tok := next(t, ctx, TokenHeredocEnd, TokenHeredocLine)
	if tok.Type() != TokenHeredocEnd {
		t.Fatalf("got %s %q, want HEREDOC_END", KindName(tok.Type()), tok.Value())
	}
}

func TestHeredocMarkerRejectsLowercase(t *testing.T) {
	ctx := New([]byte("end\n"))
	tok := next(t, ctx, TokenLetHeredocMarker)
	if tok.Type() != TokenFail {
		t.Fatalf("got %s %q, want FAIL", KindName(tok.Type()), tok.Value())
	}
}

func TestScriptHeredocDotTerminator(t *testing.T) {
	// append/insert style bodies end at a lone '.'.
	src := "line one\n.\n"
	ctx := New([]byte(src))
	expect(t, ctx, TokenHeredocLine, "line one\n", TokenHeredocEnd, TokenHeredocLine)
	tok := next(t, ctx, TokenHeredocEnd, TokenHeredocLine)
	if tok.Type() != TokenHeredocEnd {
		t.Fatalf("got %s %q, want HEREDOC_END", KindName(tok.Type()), tok.Value())
	}
}

func TestEnvVarOptionSpecialKey(t *testing.T) {
	ctx := New([]byte("$HOME"))
	expect(t, ctx, TokenEnvVar, "$HOME", TokenEnvVar, TokenIdent)

	ctx = New([]byte("&shiftwidth"))
	expect(t, ctx, TokenOption, "&shiftwidth", TokenOption, TokenIdent)

	ctx = New([]byte("&l:wrap"))
	expect(t, ctx, TokenOption, "&l:wrap", TokenOption, TokenIdent)

	ctx = New([]byte("<C-x>"))
	expect(t, ctx, TokenSpecialKey, "<C-x>", TokenSpecialKey, TokenLess)
}

func TestOperators(t *testing.T) {
	tests := []struct {
		src  string
		kind token.Type
		want string
	}{
		{"==", TokenEqEq, "=="},
		{"==#", TokenEqEq, "==#"},
		{"==?", TokenEqEq, "==?"},
		{"!=", TokenNotEq, "!="},
		{"=~", TokenMatch, "=~"},
		{"!~#", TokenNoMatch, "!~#"},
		{">=", TokenGreaterEq, ">="},
		{"<=", TokenLessEq, "<="},
		{"..", TokenConcat, ".."},
		{"..=", TokenConcatAssign, "..="},
		{"->", TokenMethodArrow, "->"},
		{"=>", TokenArrow, "=>"},
		{"=<<", TokenHeredocOp, "=<<"},
		{"&&", TokenAndAnd, "&&"},
		{"+=", TokenPlusAssign, "+="},
	}
	all := []token.Type{
		TokenEqEq, TokenNotEq, TokenMatch, TokenNoMatch,
		TokenGreaterEq, TokenGreater, TokenLessEq, TokenLess,
		TokenConcatAssign, TokenConcat, TokenDot,
		TokenMethodArrow, TokenMinus, TokenArrow, TokenAssign,
		TokenHeredocOp, TokenAndAnd, TokenPlusAssign, TokenPlus,
	}
	for _, tt := range tests {
		ctx := New([]byte(tt.src))
		expect(t, ctx, tt.kind, tt.want, all...)
	}
}

func TestTypeSpecBalancedSpan(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"number = 1", "number "},
		{"list<dict<any>>, y", "list<dict<any>>"},
		{"func(number, bool): string\n", "func(number, bool): string"},
	}
	for _, tt := range tests {
		ctx := New([]byte(tt.src))
		expect(t, ctx, TokenTypeSpec, tt.want, TokenTypeSpec)
	}
}

func TestAutoloadIdent(t *testing.T) {
	ctx := New([]byte("plug#begin()"))
	expect(t, ctx, TokenIdent, "plug#begin", TokenIdent, TokenCommand, TokenUnknownCmd)
	expect(t, ctx, TokenCallParen, "(", TokenCallParen, TokenLParen)
}

func TestVim9ScriptKeyword(t *testing.T) {
	// The digit must not end keyword collection early.
	ctx := New([]byte("vim9script\n"))
	expect(t, ctx, TokenVim9script, "vim9script", TokenVim9script, TokenCommand, TokenUnknownCmd)
}

func TestUnknownCommandFallback(t *testing.T) {
	ctx := New([]byte("Frobnicate arg\n"))
	tok := next(t, ctx, TokenCommand, TokenUnknownCmd)
	// Uppercase words never hit the keyword table, but still serve as
	// an unknown command.
	if tok.Type() != TokenFail {
		t.Fatalf("got %s %q, want FAIL for uppercase word on keyword path", KindName(tok.Type()), tok.Value())
	}
	expect(t, ctx, TokenIdent, "Frobnicate", TokenIdent)
}
