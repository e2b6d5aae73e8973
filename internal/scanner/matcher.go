package scanner

import "github.com/tekwizely/go-parsing/lexer"

type runeFn func(rune) bool

// tryPeekRune returns the next rune without consuming it, if one exists.
//
func tryPeekRune(l *lexer.Lexer) (rune, bool) {
	if l.CanPeek(1) {
		return l.Peek(1), true
	}
	return 0, false
}

// matchRune attempts to match the next rune to one specified, returning success or failure.
//
func matchRune(l *lexer.Lexer, runes ...rune) bool {
	if p, ok := tryPeekRune(l); ok {
		for _, r := range runes {
			if r == p {
				l.Next()
				return true
			}
		}
	}
	return false
}

// matchString attempts to match an exact run of runes, consuming only on full match.
//
func matchString(l *lexer.Lexer, s string) bool {
	m := l.Marker()
	for _, r := range s {
		if !matchRune(l, r) {
			m.Apply()
			return false
		}
	}
	return true
}

// matchOne attempts to match one of the specified predicate, returning success or failure.
//
func matchOne(l *lexer.Lexer, fn runeFn) bool {
	if l.CanPeek(1) && fn(l.Peek(1)) {
		l.Next()
		return true
	}
	return false
}

// matchZeroOrMore attempts to match zero or more of the specified predicate, returning success regardless.
//
func matchZeroOrMore(l *lexer.Lexer, fn runeFn) bool {
	for l.CanPeek(1) && fn(l.Peek(1)) {
		l.Next()
	}
	return true
}

// matchOneOrMore attempts to match one or more of the specified predicate, returning success or failure.
//
func matchOneOrMore(l *lexer.Lexer, fn runeFn) bool {
	b := false
	for l.CanPeek(1) && fn(l.Peek(1)) {
		l.Next()
		b = true
	}
	return b
}

// ignoreSpace matches zero or more isSpaceOrTab, discards any matches,
// and reports whether anything was skipped. The report drives the
// adjacency split between call parens and grouping parens.
//
func ignoreSpace(l *lexer.Lexer) bool {
	if matchOneOrMore(l, isSpaceOrTab) {
		l.Clear()
		return true
	}
	return false
}
