package scanner

import (
	"bytes"

	"github.com/tekwizely/go-parsing/lexer"
	"github.com/tekwizely/go-parsing/lexer/token"
)

// Context drives the context-sensitive tokenizer. The grammar declares
// the candidate token kinds (Expect) before every pull from Tokens; the
// scan fn consults the candidate set and the persistent State to
// resolve the ambiguities a position-free lexer cannot: scope prefix vs
// keyword, comment vs string content, heredoc bodies, paired command
// separators, implicit line continuation.
//
// A failed scan emits TokenFail without consuming input, so the caller
// can discard it and retry with a different candidate set.
//
type Context struct {
	Tokens token.Nexter
	st     *State
	cands  kindSet
}

// New initiates the scanner against a byte array.
//
func New(fileBytes []byte) *Context {
	return NewWithState(fileBytes, NewState())
}

// NewWithState initiates the scanner with an existing (possibly
// restored) state, resuming mid-document scanning after a checkpoint.
//
func NewWithState(fileBytes []byte, st *State) *Context {
	reader := newReaderIgnoreCR(bytes.NewReader(fileBytes))
	ctx := &Context{st: st}
	ctx.Tokens = lexer.LexRuneReader(reader, ctx.scan)
	return ctx
}

// State exposes the persistent scanner state for checkpointing.
//
func (ctx *Context) State() *State {
	return ctx.st
}

// Expect declares the candidate token kinds for subsequent scan calls.
//
func (ctx *Context) Expect(kinds ...token.Type) {
	ctx.cands.reset()
	ctx.cands.add(kinds...)
}

// Also adds candidates without resetting the current set.
//
func (ctx *Context) Also(kinds ...token.Type) {
	ctx.cands.add(kinds...)
}

// fail rewinds to the token start and emits TokenFail, consuming nothing.
//
func fail(l *lexer.Lexer, m *lexer.Marker) {
	m.Apply()
	l.EmitType(TokenFail)
}

// scan produces at most one token per call and re-arms itself.
//
func (ctx *Context) scan(l *lexer.Lexer) lexer.Fn {
	if !l.CanPeek(1) {
		return nil
	}
	// Heredoc-body mode bypasses whitespace skipping: an end marker
	// must sit on its own line and body lines are taken raw.
	//
	if ctx.cands.has(TokenHeredocEnd) || ctx.cands.has(TokenHeredocLine) {
		ctx.scanHeredoc(l)
		return ctx.scan
	}
	spaced := ignoreSpace(l)
	if !l.CanPeek(1) {
		return nil
	}
	m := l.Marker()
	ctx.scanToken(l, m, spaced)
	return ctx.scan
}

// scanToken dispatches on the current character and the candidate set.
// The check order is significant: separator pairing, bang, newline, the
// '|' lookahead, scope-over-keyword, heredoc markers, comment-vs-string,
// then the word and operator paths.
//
func (ctx *Context) scanToken(l *lexer.Lexer, m *lexer.Marker, spaced bool) {
	st := ctx.st
	r := l.Peek(1)

	// The first separator seen fixes the delimiter for the rest of the
	// command; a later occurrence of the same character closes it.
	//
	if ctx.cands.has(TokenSepFirst) && isSepPunct(r) {
		l.Next()
		st.sep = r
		st.ignoreComments = true
		l.EmitToken(TokenSepFirst)
		return
	}
	if ctx.cands.has(TokenSep) && st.sep != 0 && r == st.sep {
		l.Next()
		st.ignoreComments = false
		l.EmitToken(TokenSep)
		return
	}
	if ctx.cands.has(TokenPattern) && st.sep != 0 {
		if ctx.scanPattern(l) {
			return
		}
		m.Apply()
	}

	// A bang-suffixed command's argument may contain an unescaped '"'.
	//
	if ctx.cands.has(TokenBang) && r == runeBang {
		l.Next()
		st.ignoreComments = true
		l.EmitToken(TokenBang)
		return
	}

	if r == runeNewline {
		ctx.scanNewline(l, m)
		return
	}

	// '|' separates statements unless doubled into a logical-or.
	//
	if r == runePipe && (ctx.cands.has(TokenCmdSeparator) || ctx.cands.has(TokenOrOr)) {
		l.Next()
		if l.CanPeek(1) && l.Peek(1) == runePipe {
			if ctx.cands.has(TokenOrOr) {
				l.Next()
				l.EmitToken(TokenOrOr)
				return
			}
			fail(l, m)
			return
		}
		if ctx.cands.has(TokenCmdSeparator) {
			l.EmitToken(TokenCmdSeparator)
			return
		}
		fail(l, m)
		return
	}

	// Scope detection wins over keyword matching.
	//
	if (ctx.cands.has(TokenScope) || ctx.cands.has(TokenScopeDict)) && isScopeStart(r) {
		if ctx.scanScope(l) {
			return
		}
		m.Apply()
	}

	if ctx.cands.has(TokenScriptHeredocMarker) {
		if ctx.scanHeredocMarker(l, TokenScriptHeredocMarker) {
			return
		}
		m.Apply()
	}
	if ctx.cands.has(TokenLetHeredocMarker) {
		if ctx.scanHeredocMarker(l, TokenLetHeredocMarker) {
			return
		}
		m.Apply()
	}

	// '"' opens a comment only when no string can start here and we are
	// not inside a comment-hostile context (paired sep, bang filter).
	//
	if ctx.cands.has(TokenComment) && !ctx.cands.has(TokenString) && r == runeDQuote && !st.ignoreComments {
		matchZeroOrMore(l, notNewline)
		l.EmitToken(TokenComment)
		return
	}
	if ctx.cands.has(TokenString) && (r == runeSQuote || r == runeDQuote) {
		ctx.scanString(l, m)
		return
	}

	if (ctx.cands.has(TokenNumber) || ctx.cands.has(TokenFloat)) && isDigit(r) {
		ctx.scanNumber(l)
		return
	}

	if ctx.cands.has(TokenEnvVar) && r == runeDollar {
		l.Next()
		if matchOneOrMore(l, isIdentChar) {
			l.EmitToken(TokenEnvVar)
			return
		}
		m.Apply()
	}
	if ctx.cands.has(TokenOption) && r == runeAmp {
		if ctx.scanOption(l) {
			return
		}
		m.Apply()
	}
	if ctx.cands.has(TokenSpecialKey) && r == runeLAngle {
		if ctx.scanSpecialKey(l) {
			return
		}
		m.Apply()
	}

	if isLower(r) && ctx.wantsWord() {
		if ctx.scanWord(l) {
			return
		}
		m.Apply()
	}
	if ctx.cands.has(TokenIdent) && isIdentStart(r) {
		matchOneOrMore(l, isIdentChar)
		l.EmitToken(TokenIdent)
		return
	}

	if ctx.cands.has(TokenTypeSpec) {
		if ctx.scanTypeSpec(l) {
			return
		}
		m.Apply()
	}

	if ctx.cands.has(TokenRawTail) && r != runeNewline {
		matchZeroOrMore(l, notNewline)
		l.EmitToken(TokenRawTail)
		return
	}

	ctx.scanOperator(l, m, spaced)
}

func notNewline(r rune) bool {
	return r != runeNewline
}

// scanNewline handles everything a physical line break can mean: a
// continuation backslash (or the rare search-continuation that starts a
// new command instead), a '"\ ' continuation comment, or a statement
// separator. The emitted separator token is just the newline; any
// lookahead past it is rewound for the next call.
//
func (ctx *Context) scanNewline(l *lexer.Lexer, m0 *lexer.Marker) {
	l.Next() // '\n'
	m := l.Marker()
	matchZeroOrMore(l, isSpaceOrTab)

	if l.CanPeek(1) && l.Peek(1) == runeBackSlash {
		l.Next()
		if l.CanPeek(1) {
			switch l.Peek(1) {
			case runeSlash, runeQMark, runeAmp:
				// A leading backslash before these markers starts a
				// new command rather than continuing the line.
				if ctx.cands.has(TokenCmdSeparator) {
					ctx.st.ignoreComments = false
					m.Apply()
					l.EmitToken(TokenCmdSeparator)
					return
				}
				fail(l, m0)
				return
			}
		}
		l.EmitToken(TokenLineContinuation)
		return
	}

	if !ctx.st.InHeredoc() && l.CanPeek(3) &&
		l.Peek(1) == runeDQuote && l.Peek(2) == runeBackSlash && l.Peek(3) == runeSpace {
		l.Next()
		l.Next()
		l.Next()
		matchZeroOrMore(l, notNewline)
		l.EmitToken(TokenLineContinuationComment)
		return
	}

	if ctx.cands.has(TokenCmdSeparator) {
		ctx.st.ignoreComments = false
		m.Apply()
		l.EmitToken(TokenCmdSeparator)
		return
	}
	fail(l, m0)
}

// scanScope matches '<SID>' or a single-letter sigil followed by ':'.
// The character after the colon splits a scoped name prefix (SCOPE)
// from the scope itself used as a dictionary value (SCOPE_DICT).
//
func (ctx *Context) scanScope(l *lexer.Lexer) bool {
	if l.Peek(1) == runeLAngle {
		if !matchString(l, "<SID>") {
			return false
		}
		if !ctx.cands.has(TokenScope) {
			return false
		}
		l.EmitToken(TokenScope)
		return true
	}
	l.Next() // sigil
	if !matchRune(l, runeColon) {
		return false
	}
	kind := TokenScopeDict
	if l.CanPeek(1) {
		r := l.Peek(1)
		if isAlphaNum(r) || r == runeLBrace || r == runeUnder {
			kind = TokenScope
		}
	}
	if !ctx.cands.has(kind) {
		return false
	}
	l.EmitToken(kind)
	return true
}

// scanHeredocMarker captures an end-of-heredoc marker: 1-31 bytes, not
// starting lowercase, terminated by whitespace or end-of-line. The
// captured marker replaces any previous one.
//
func (ctx *Context) scanHeredocMarker(l *lexer.Lexer, kind token.Type) bool {
	if isLower(l.Peek(1)) {
		return false
	}
	n := 0
	for l.CanPeek(1) {
		r := l.Peek(1)
		if isSpaceOrTab(r) || r == runeNewline {
			break
		}
		if n >= heredocMarkerLen {
			return false
		}
		l.Next()
		n++
	}
	if n == 0 || n >= heredocMarkerLen {
		return false
	}
	ctx.st.setMarker([]byte(l.PeekToken()))
	l.EmitToken(kind)
	return true
}

// scanHeredoc recognizes the end marker (or '.' when none was captured)
// on a line of its own, else takes the whole line as body text.
//
func (ctx *Context) scanHeredoc(l *lexer.Lexer) {
	m := l.Marker()
	if ctx.cands.has(TokenHeredocEnd) && ctx.scanHeredocEnd(l) {
		return
	}
	m.Apply()
	if ctx.cands.has(TokenHeredocLine) {
		matchZeroOrMore(l, notNewline)
		matchRune(l, runeNewline)
		l.EmitToken(TokenHeredocLine)
		return
	}
	fail(l, m)
}

func (ctx *Context) scanHeredocEnd(l *lexer.Lexer) bool {
	matchZeroOrMore(l, isSpaceOrTab)
	marker := "."
	if ctx.st.InHeredoc() {
		marker = string(ctx.st.marker)
	}
	if !matchString(l, marker) {
		return false
	}
	if l.CanPeek(1) && l.Peek(1) != runeNewline {
		return false
	}
	ctx.st.clearMarker()
	l.EmitToken(TokenHeredocEnd)
	return true
}

// scanString lexes a whole quoted literal as one token, quotes included.
//
func (ctx *Context) scanString(l *lexer.Lexer, m0 *lexer.Marker) {
	delim := l.Peek(1)
	l.Next()
	if delim == runeSQuote {
		ctx.scanLiteralString(l, m0)
	} else {
		ctx.scanEscapableString(l, m0)
	}
}

// scanLiteralString: '' escapes a quote, any other ' closes. An embedded
// newline is valid only when the next line continues with a backslash.
//
func (ctx *Context) scanLiteralString(l *lexer.Lexer, m0 *lexer.Marker) {
	for {
		if !l.CanPeek(1) {
			fail(l, m0)
			return
		}
		switch l.Peek(1) {
		case runeSQuote:
			l.Next()
			if l.CanPeek(1) && l.Peek(1) == runeSQuote {
				l.Next()
				continue
			}
			l.EmitToken(TokenString)
			return
		case runeNewline:
			l.Next()
			matchZeroOrMore(l, isSpaceOrTab)
			if !matchRune(l, runeBackSlash) {
				fail(l, m0)
				return
			}
		default:
			l.Next()
		}
	}
}

// scanEscapableString: backslash escapes the next character. An embedded
// newline without a continuation backslash on the following line closes
// the token at the newline and reclassifies it as a comment; this is
// Vim's behavior, not an approximation.
//
func (ctx *Context) scanEscapableString(l *lexer.Lexer, m0 *lexer.Marker) {
	for {
		if !l.CanPeek(1) {
			fail(l, m0)
			return
		}
		switch l.Peek(1) {
		case runeBackSlash:
			l.Next()
			if l.CanPeek(1) {
				l.Next()
			}
		case runeDQuote:
			l.Next()
			l.EmitToken(TokenString)
			return
		case runeNewline:
			m := l.Marker()
			l.Next()
			matchZeroOrMore(l, isSpaceOrTab)
			if !matchRune(l, runeBackSlash) {
				m.Apply()
				l.EmitToken(TokenComment)
				return
			}
		default:
			l.Next()
		}
	}
}

func (ctx *Context) scanNumber(l *lexer.Lexer) {
	if l.Peek(1) == '0' && l.CanPeek(2) && (l.Peek(2) == 'x' || l.Peek(2) == 'X') {
		l.Next()
		l.Next()
		matchOneOrMore(l, isHexDigit)
		l.EmitToken(TokenNumber)
		return
	}
	matchOneOrMore(l, isDigit)
	if !ctx.cands.has(TokenFloat) || !l.CanPeek(2) || l.Peek(1) != runeDot || !isDigit(l.Peek(2)) {
		l.EmitToken(TokenNumber)
		return
	}
	l.Next() // '.'
	matchOneOrMore(l, isDigit)
	if l.CanPeek(2) && (l.Peek(1) == 'e' || l.Peek(1) == 'E') {
		if isDigit(l.Peek(2)) {
			l.Next()
			matchOneOrMore(l, isDigit)
		} else if (l.Peek(2) == runePlus || l.Peek(2) == runeDash) && l.CanPeek(3) && isDigit(l.Peek(3)) {
			l.Next()
			l.Next()
			matchOneOrMore(l, isDigit)
		}
	}
	l.EmitToken(TokenFloat)
}

// scanOption matches '&name', '&l:name' or '&g:name'.
//
func (ctx *Context) scanOption(l *lexer.Lexer) bool {
	l.Next() // '&'
	if l.CanPeek(2) && (l.Peek(1) == 'l' || l.Peek(1) == 'g') && l.Peek(2) == runeColon {
		l.Next()
		l.Next()
	}
	if !matchOneOrMore(l, isAlpha) {
		return false
	}
	l.EmitToken(TokenOption)
	return true
}

// scanSpecialKey matches '<leader>', '<CR>', '<C-x>' and friends.
//
func (ctx *Context) scanSpecialKey(l *lexer.Lexer) bool {
	l.Next() // '<'
	if !matchOneOrMore(l, isKeyChar) {
		return false
	}
	if !matchRune(l, runeRAngle) {
		return false
	}
	l.EmitToken(TokenSpecialKey)
	return true
}

// scanPattern takes raw text up to the recorded separator or the end of
// the line; a backslash escapes the following character.
//
func (ctx *Context) scanPattern(l *lexer.Lexer) bool {
	n := 0
	for l.CanPeek(1) {
		r := l.Peek(1)
		if r == ctx.st.sep || r == runeNewline {
			break
		}
		l.Next()
		n++
		if r == runeBackSlash && l.CanPeek(1) && l.Peek(1) != runeNewline {
			l.Next()
			n++
		}
	}
	if n == 0 {
		return false
	}
	l.EmitToken(TokenPattern)
	return true
}

// wordKinds are the kinds a lowercase-leading word may resolve to.
//
var wordKinds = []token.Type{
	TokenVim9script, TokenConst, TokenVar, TokenFinal, TokenDef, TokenEnddef,
	TokenExport, TokenIf, TokenElseif, TokenElse, TokenEndif, TokenFor,
	TokenEndfor, TokenIn, TokenWhile, TokenEndwhile, TokenReturn, TokenBreak,
	TokenContinue, TokenCommand, TokenUnknownCmd, TokenIdent,
}

func (ctx *Context) wantsWord() bool {
	for _, k := range wordKinds {
		if ctx.cands.has(k) {
			return true
		}
	}
	return false
}

// scanWord resolves a lowercase-leading word: keyword table first (with
// abbreviation), then the unknown-command fallback, then a plain
// identifier. Matching a keyword records its comment policy.
//
func (ctx *Context) scanWord(l *lexer.Lexer) bool {
	if !matchOne(l, isLower) {
		return false
	}
	matchZeroOrMore(l, isAlphaNum)
	word := l.PeekToken()
	wordEnd := !l.CanPeek(1) || !isIdentChar(l.Peek(1))
	if wordEnd {
		for _, kw := range keywords {
			if ctx.cands.has(kw.Kind) && matchAbbrev(word, kw) {
				ctx.st.ignoreComments = kw.IgnoreCommentsAfter
				l.EmitToken(kw.Kind)
				return true
			}
		}
		if ctx.cands.has(TokenUnknownCmd) {
			l.EmitToken(TokenUnknownCmd)
			return true
		}
	}
	if ctx.cands.has(TokenIdent) {
		matchZeroOrMore(l, isIdentChar)
		l.EmitToken(TokenIdent)
		return true
	}
	if !wordEnd && ctx.cands.has(TokenUnknownCmd) {
		matchZeroOrMore(l, isIdentChar)
		l.EmitToken(TokenUnknownCmd)
		return true
	}
	return false
}

// scanTypeSpec captures a type annotation as one raw span, balanced over
// <>, () and [] so list<dict<any>> and func signatures survive intact.
//
func (ctx *Context) scanTypeSpec(l *lexer.Lexer) bool {
	depth := 0
	n := 0
	for l.CanPeek(1) {
		r := l.Peek(1)
		if depth == 0 {
			if r == runeComma || r == runeRParen || r == runeEquals ||
				r == runeNewline || r == runeDQuote || r == runePipe {
				break
			}
		}
		switch r {
		case runeLAngle, runeLParen, runeLBracket:
			depth++
		case runeRAngle, runeRParen, runeRBracket:
			if depth > 0 {
				depth--
			}
		}
		l.Next()
		n++
	}
	if n == 0 {
		return false
	}
	l.EmitToken(TokenTypeSpec)
	return true
}

// scanOperator is the longest-match operator and punctuation path; each
// shape is still gated on the candidate set.
//
func (ctx *Context) scanOperator(l *lexer.Lexer, m *lexer.Marker, spaced bool) {
	switch r := l.Peek(1); r {
	case runeLParen:
		l.Next()
		// A call's paren must touch the callee; a spaced paren is a
		// grouped sub-expression.
		if !spaced && ctx.cands.has(TokenCallParen) {
			l.EmitToken(TokenCallParen)
		} else if ctx.cands.has(TokenLParen) {
			l.EmitToken(TokenLParen)
		} else {
			fail(l, m)
		}
	case runeLBracket:
		l.Next()
		if !spaced && ctx.cands.has(TokenIndexBracket) {
			l.EmitToken(TokenIndexBracket)
		} else if ctx.cands.has(TokenLBracket) {
			l.EmitToken(TokenLBracket)
		} else {
			fail(l, m)
		}
	case runeRParen:
		ctx.emitSingle(l, m, TokenRParen)
	case runeRBracket:
		ctx.emitSingle(l, m, TokenRBracket)
	case runeLBrace:
		ctx.emitSingle(l, m, TokenLBrace)
	case runeRBrace:
		ctx.emitSingle(l, m, TokenRBrace)
	case runeComma:
		ctx.emitSingle(l, m, TokenComma)
	case runeColon:
		ctx.emitSingle(l, m, TokenColon)
	case runeQMark:
		ctx.emitSingle(l, m, TokenQuestion)
	case runeEquals:
		l.Next()
		switch {
		case l.CanPeek(2) && l.Peek(1) == runeLAngle && l.Peek(2) == runeLAngle && ctx.cands.has(TokenHeredocOp):
			l.Next()
			l.Next()
			l.EmitToken(TokenHeredocOp)
		case l.CanPeek(1) && l.Peek(1) == runeEquals && ctx.cands.has(TokenEqEq):
			l.Next()
			matchCaseSuffix(l)
			l.EmitToken(TokenEqEq)
		case l.CanPeek(1) && l.Peek(1) == runeTilde && ctx.cands.has(TokenMatch):
			l.Next()
			matchCaseSuffix(l)
			l.EmitToken(TokenMatch)
		case l.CanPeek(1) && l.Peek(1) == runeRAngle && ctx.cands.has(TokenArrow):
			l.Next()
			l.EmitToken(TokenArrow)
		case ctx.cands.has(TokenAssign) && !matchOpStart(l):
			l.EmitToken(TokenAssign)
		default:
			fail(l, m)
		}
	case runeBang:
		l.Next()
		switch {
		case l.CanPeek(1) && l.Peek(1) == runeEquals && ctx.cands.has(TokenNotEq):
			l.Next()
			matchCaseSuffix(l)
			l.EmitToken(TokenNotEq)
		case l.CanPeek(1) && l.Peek(1) == runeTilde && ctx.cands.has(TokenNoMatch):
			l.Next()
			matchCaseSuffix(l)
			l.EmitToken(TokenNoMatch)
		case ctx.cands.has(TokenNot):
			l.EmitToken(TokenNot)
		default:
			fail(l, m)
		}
	case runeRAngle:
		l.Next()
		if l.CanPeek(1) && l.Peek(1) == runeEquals && ctx.cands.has(TokenGreaterEq) {
			l.Next()
			matchCaseSuffix(l)
			l.EmitToken(TokenGreaterEq)
		} else if ctx.cands.has(TokenGreater) {
			matchCaseSuffix(l)
			l.EmitToken(TokenGreater)
		} else {
			fail(l, m)
		}
	case runeLAngle:
		l.Next()
		if l.CanPeek(1) && l.Peek(1) == runeLAngle && ctx.cands.has(TokenHeredocOp) {
			l.Next()
			l.EmitToken(TokenHeredocOp)
		} else if l.CanPeek(1) && l.Peek(1) == runeEquals && ctx.cands.has(TokenLessEq) {
			l.Next()
			matchCaseSuffix(l)
			l.EmitToken(TokenLessEq)
		} else if ctx.cands.has(TokenLess) {
			matchCaseSuffix(l)
			l.EmitToken(TokenLess)
		} else {
			fail(l, m)
		}
	case runeDot:
		l.Next()
		if ctx.cands.has(TokenEllipsis) && l.CanPeek(2) &&
			l.Peek(1) == runeDot && l.Peek(2) == runeDot {
			l.Next()
			l.Next()
			l.EmitToken(TokenEllipsis)
		} else if l.CanPeek(1) && l.Peek(1) == runeDot {
			l.Next()
			if l.CanPeek(1) && l.Peek(1) == runeEquals && ctx.cands.has(TokenConcatAssign) {
				l.Next()
				l.EmitToken(TokenConcatAssign)
			} else if ctx.cands.has(TokenConcat) {
				l.EmitToken(TokenConcat)
			} else {
				fail(l, m)
			}
		} else if ctx.cands.has(TokenDot) {
			l.EmitToken(TokenDot)
		} else {
			fail(l, m)
		}
	case runePlus:
		ctx.emitCompound(l, m, TokenPlusAssign, TokenPlus)
	case runeStar:
		ctx.emitCompound(l, m, TokenStarAssign, TokenStar)
	case runeSlash:
		ctx.emitCompound(l, m, TokenSlashAssign, TokenSlash)
	case runeDash:
		l.Next()
		switch {
		case l.CanPeek(1) && l.Peek(1) == runeRAngle && ctx.cands.has(TokenMethodArrow):
			l.Next()
			l.EmitToken(TokenMethodArrow)
		case l.CanPeek(1) && l.Peek(1) == runeEquals && ctx.cands.has(TokenMinusAssign):
			l.Next()
			l.EmitToken(TokenMinusAssign)
		case ctx.cands.has(TokenMinus):
			l.EmitToken(TokenMinus)
		default:
			fail(l, m)
		}
	case runeAmp:
		l.Next()
		if l.CanPeek(1) && l.Peek(1) == runeAmp && ctx.cands.has(TokenAndAnd) {
			l.Next()
			l.EmitToken(TokenAndAnd)
		} else {
			fail(l, m)
		}
	default:
		fail(l, m)
	}
}

func (ctx *Context) emitSingle(l *lexer.Lexer, m *lexer.Marker, kind token.Type) {
	if !ctx.cands.has(kind) {
		fail(l, m)
		return
	}
	l.Next()
	l.EmitToken(kind)
}

func (ctx *Context) emitCompound(l *lexer.Lexer, m *lexer.Marker, assign, plain token.Type) {
	l.Next()
	if l.CanPeek(1) && l.Peek(1) == runeEquals && ctx.cands.has(assign) {
		l.Next()
		l.EmitToken(assign)
		return
	}
	if ctx.cands.has(plain) {
		l.EmitToken(plain)
		return
	}
	fail(l, m)
}

// matchCaseSuffix folds a comparison's '#'/'?' sensitivity suffix into
// the token.
//
func matchCaseSuffix(l *lexer.Lexer) {
	matchRune(l, runeHash, runeQMark)
}

// matchOpStart reports whether the next rune would extend '=' into a
// longer operator, so a bare assign must not match.
//
func matchOpStart(l *lexer.Lexer) bool {
	if !l.CanPeek(1) {
		return false
	}
	switch l.Peek(1) {
	case runeEquals, runeTilde, runeRAngle, runeLAngle:
		return true
	}
	return false
}
