package scanner

import (
	"github.com/tekwizely/go-parsing/lexer"
	"github.com/tekwizely/go-parsing/lexer/token"
)

// We define our scanner tokens starting from the pre-defined START token
//
const (
	// TokenFail is emitted when no candidate kind matches at the cursor.
	// It consumes no input; the grammar discards it and retries with a
	// different candidate set.
	//
	TokenFail = lexer.TStart + iota

	TokenCmdSeparator            // '\n' or '|' between statements
	TokenLineContinuation        // '\n' + leading '\'
	TokenLineContinuationComment // '"\ ' at the start of a continued line

	TokenScriptHeredocMarker
	TokenLetHeredocMarker
	TokenHeredocEnd
	TokenHeredocLine
	TokenHeredocOp // '=<<' after a let target, '<<' after a script command

	TokenSepFirst // opening occurrence of a user-chosen delimiter
	TokenSep      // matching occurrence of the recorded delimiter
	TokenPattern  // raw text between paired separators

	TokenScope     // 'g:' / '<SID>' prefixing a name
	TokenScopeDict // 'g:' used as a value on its own

	TokenString
	TokenComment

	TokenBang // trailing '!' on a command name
	TokenNot  // unary '!'

	TokenNumber
	TokenFloat
	TokenIdent
	TokenEnvVar
	TokenOption
	TokenSpecialKey // '<leader>', '<CR>', '<C-x>', ...

	TokenUnknownCmd
	TokenRawTail
	TokenTypeSpec

	TokenLParen
	TokenCallParen // '(' immediately following a callable, no space
	TokenRParen
	TokenLBracket
	TokenIndexBracket // '[' immediately following an indexable, no space
	TokenRBracket
	TokenLBrace
	TokenRBrace
	TokenComma
	TokenColon
	TokenDot
	TokenEllipsis // '...' in parameter lists

	TokenAssign
	TokenPlusAssign
	TokenMinusAssign
	TokenStarAssign
	TokenSlashAssign
	TokenConcatAssign // '..='

	TokenArrow       // '=>'
	TokenMethodArrow // '->'
	TokenQuestion

	TokenOrOr
	TokenAndAnd

	// Comparison tokens fold their optional case-sensitivity suffix
	// ('#' or '?') into the token value.
	//
	TokenEqEq
	TokenNotEq
	TokenMatch   // '=~'
	TokenNoMatch // '!~'
	TokenGreater
	TokenGreaterEq
	TokenLess
	TokenLessEq

	TokenConcat // '..'
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash

	TokenVim9script
	TokenConst
	TokenVar
	TokenFinal
	TokenDef
	TokenEnddef
	TokenExport
	TokenIf
	TokenElseif
	TokenElse
	TokenEndif
	TokenFor
	TokenEndfor
	TokenIn
	TokenWhile
	TokenEndwhile
	TokenReturn
	TokenBreak
	TokenContinue

	TokenCommand // any table-known ex-command name (set, normal, map, ...)

	tokenKindEnd
)

const tokenKindCount = int(tokenKindEnd - lexer.TStart)

// kindSet is the candidate-token set for one scan call.
//
type kindSet [tokenKindCount]bool

func (ks *kindSet) add(kinds ...token.Type) {
	for _, k := range kinds {
		ks[k-lexer.TStart] = true
	}
}

func (ks *kindSet) has(k token.Type) bool {
	if k < lexer.TStart || k >= tokenKindEnd {
		return false
	}
	return ks[k-lexer.TStart]
}

func (ks *kindSet) reset() {
	*ks = kindSet{}
}

// kindNames maps token kinds to stable names for trace output and tests.
//
var kindNames = map[token.Type]string{
	TokenFail:                    "Fail",
	TokenCmdSeparator:            "CmdSeparator",
	TokenLineContinuation:        "LineContinuation",
	TokenLineContinuationComment: "LineContinuationComment",
	TokenScriptHeredocMarker:     "ScriptHeredocMarker",
	TokenLetHeredocMarker:        "LetHeredocMarker",
	TokenHeredocEnd:              "HeredocEnd",
	TokenHeredocLine:             "HeredocLine",
	TokenHeredocOp:               "HeredocOp",
	TokenSepFirst:                "SepFirst",
	TokenSep:                     "Sep",
	TokenPattern:                 "Pattern",
	TokenScope:                   "Scope",
	TokenScopeDict:               "ScopeDict",
	TokenString:                  "String",
	TokenComment:                 "Comment",
	TokenBang:                    "Bang",
	TokenNot:                     "Not",
	TokenNumber:                  "Number",
	TokenFloat:                   "Float",
	TokenIdent:                   "Ident",
	TokenEnvVar:                  "EnvVar",
	TokenOption:                  "Option",
	TokenSpecialKey:              "SpecialKey",
	TokenUnknownCmd:              "UnknownCmd",
	TokenRawTail:                 "RawTail",
	TokenTypeSpec:                "TypeSpec",
	TokenLParen:                  "LParen",
	TokenCallParen:               "CallParen",
	TokenRParen:                  "RParen",
	TokenLBracket:                "LBracket",
	TokenIndexBracket:            "IndexBracket",
	TokenRBracket:                "RBracket",
	TokenLBrace:                  "LBrace",
	TokenRBrace:                  "RBrace",
	TokenComma:                   "Comma",
	TokenColon:                   "Colon",
	TokenDot:                     "Dot",
	TokenEllipsis:                "Ellipsis",
	TokenAssign:                  "Assign",
	TokenPlusAssign:              "PlusAssign",
	TokenMinusAssign:             "MinusAssign",
	TokenStarAssign:              "StarAssign",
	TokenSlashAssign:             "SlashAssign",
	TokenConcatAssign:            "ConcatAssign",
	TokenArrow:                   "Arrow",
	TokenMethodArrow:             "MethodArrow",
	TokenQuestion:                "Question",
	TokenOrOr:                    "OrOr",
	TokenAndAnd:                  "AndAnd",
	TokenEqEq:                    "EqEq",
	TokenNotEq:                   "NotEq",
	TokenMatch:                   "Match",
	TokenNoMatch:                 "NoMatch",
	TokenGreater:                 "Greater",
	TokenGreaterEq:               "GreaterEq",
	TokenLess:                    "Less",
	TokenLessEq:                  "LessEq",
	TokenConcat:                  "Concat",
	TokenPlus:                    "Plus",
	TokenMinus:                   "Minus",
	TokenStar:                    "Star",
	TokenSlash:                   "Slash",
	TokenVim9script:              "Vim9script",
	TokenConst:                   "Const",
	TokenVar:                     "Var",
	TokenFinal:                   "Final",
	TokenDef:                     "Def",
	TokenEnddef:                  "Enddef",
	TokenExport:                  "Export",
	TokenIf:                      "If",
	TokenElseif:                  "Elseif",
	TokenElse:                    "Else",
	TokenEndif:                   "Endif",
	TokenFor:                     "For",
	TokenEndfor:                  "Endfor",
	TokenIn:                      "In",
	TokenWhile:                   "While",
	TokenEndwhile:                "Endwhile",
	TokenReturn:                  "Return",
	TokenBreak:                   "Break",
	TokenContinue:                "Continue",
	TokenCommand:                 "Command",
}

// KindName returns a printable name for a token kind.
//
func KindName(k token.Type) string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "?"
}
