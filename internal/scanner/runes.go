package scanner

// Runes
//
const (
	runeSpace     = ' '
	runeTab       = '\t'
	runeNewline   = '\n'
	runeBang      = '!'
	runeDQuote    = '"'
	runeHash      = '#'
	runeDollar    = '$'
	runeAmp       = '&'
	runeSQuote    = '\''
	runeLParen    = '('
	runeRParen    = ')'
	runeStar      = '*'
	runePlus      = '+'
	runeComma     = ','
	runeDash      = '-'
	runeDot       = '.'
	runeSlash     = '/'
	runeColon     = ':'
	runeLAngle    = '<'
	runeEquals    = '='
	runeRAngle    = '>'
	runeQMark     = '?'
	runeLBracket  = '['
	runeBackSlash = '\\'
	runeRBracket  = ']'
	runeUnder     = '_'
	runeLBrace    = '{'
	runePipe      = '|'
	runeRBrace    = '}'
	runeTilde     = '~'
)

// scopeSigils are the single-letter namespace prefixes; '<' opens '<SID>'.
//
const scopeSigils = "lbstvwg<"

func isSpaceOrTab(r rune) bool {
	return r == runeSpace || r == runeTab
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isLower(r rune) bool {
	return r >= 'a' && r <= 'z'
}

func isAlphaNum(r rune) bool {
	return isAlpha(r) || isDigit(r)
}

func isIdentStart(r rune) bool {
	return isAlpha(r) || r == runeUnder
}

// isIdentChar includes '#' to admit autoload-style names (plug#begin).
//
func isIdentChar(r rune) bool {
	return isAlphaNum(r) || r == runeUnder || r == runeHash
}

// isSepPunct reports whether r may open a paired-separator command.
// Only single-byte printable punctuation qualifies: the serialized
// scanner state stores the separator in one byte, and a wider rune
// would not survive a checkpoint/restore intact.
//
func isSepPunct(r rune) bool {
	return r > 0x20 && r < 0x7F && !isAlphaNum(r)
}

func isScopeStart(r rune) bool {
	for _, s := range scopeSigils {
		if r == s {
			return true
		}
	}
	return false
}

// isKeyChar covers the inside of a special-key token like <C-x> or <leader>.
//
func isKeyChar(r rune) bool {
	return isAlphaNum(r) || r == runeDash || r == runeUnder
}
