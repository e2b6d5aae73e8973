package grammar

import (
	"github.com/tekwizely/go-parsing/lexer/token"

	"github.com/vimtools/vimtree/internal/scanner"
)

// Level is one binary-operator precedence tier, loosest first.
// Non-chained tiers accept a single operator (comparisons do not
// associate).
//
type Level struct {
	Name    string
	Kinds   []token.Type
	Chained bool
}

// Levels drives parseBinary. The ternary operator sits above the table
// and unary/postfix below it.
//
var Levels = []Level{
	{Name: "or", Chained: true, Kinds: []token.Type{
		scanner.TokenOrOr,
	}},
	{Name: "and", Chained: true, Kinds: []token.Type{
		scanner.TokenAndAnd,
	}},
	{Name: "compare", Chained: false, Kinds: []token.Type{
		scanner.TokenEqEq, scanner.TokenNotEq,
		scanner.TokenMatch, scanner.TokenNoMatch,
		scanner.TokenGreaterEq, scanner.TokenGreater,
		scanner.TokenLessEq, scanner.TokenLess,
	}},
	{Name: "concat", Chained: true, Kinds: []token.Type{
		scanner.TokenConcat,
	}},
	{Name: "additive", Chained: true, Kinds: []token.Type{
		scanner.TokenPlus, scanner.TokenMinus,
	}},
	{Name: "multiplicative", Chained: true, Kinds: []token.Type{
		scanner.TokenStar, scanner.TokenSlash,
	}},
}

// Ambiguity documents a token decision that candidate sets resolve
// instead of grammar productions. The table is informational; the
// scanner and the parsing functions implement each resolution.
//
type Ambiguity struct {
	Tokens     string
	Resolution string
}

var Ambiguities = []Ambiguity{
	{
		Tokens:     "'\"' comment vs string",
		Resolution: "comment only when no string candidate and no bang or paired separator is in effect",
	},
	{
		Tokens:     "'g:' scope vs 'g' command",
		Resolution: "scope wins when the sigil is followed by ':'; the kind splits on the character after it",
	},
	{
		Tokens:     "'(' call vs grouping",
		Resolution: "call paren requires adjacency to the callee; a spaced paren groups",
	},
	{
		Tokens:     "'[' index vs list literal",
		Resolution: "index bracket requires adjacency to the indexee; a spaced bracket opens a list",
	},
	{
		Tokens:     "'|' separator vs '||'",
		Resolution: "one rune of lookahead; a doubled pipe is logical-or when the candidates allow it",
	},
	{
		Tokens:     "newline separator vs continuation",
		Resolution: "a backslash (or '\"\\ ' comment) opening the next line continues the statement",
	},
	{
		Tokens:     "'(' grouping vs arrow-function parameters",
		Resolution: "decided after ')': a '=>' reinterprets the collected expressions as parameters",
	},
	{
		Tokens:     "'.' entry access vs legacy concat",
		Resolution: "a single dot always reads as entry access; concatenation requires '..'",
	},
}
