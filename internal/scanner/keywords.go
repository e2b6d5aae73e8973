package scanner

import (
	"github.com/tekwizely/go-parsing/lexer/token"
)

// Keyword encodes Vim's abbreviated-command convention: a candidate word
// matches iff it is a prefix of Mandat+Opt that fully contains Mandat
// (e.g. "norm", "norma" and "normal" all match {"norm", "al"}).
//
type Keyword struct {
	Mandat string
	Opt    string
	// IgnoreCommentsAfter marks commands whose argument may contain an
	// unescaped '"' (mappings, :normal), so the scanner must not start
	// a comment for the remainder of the line.
	IgnoreCommentsAfter bool
	Kind                token.Type
}

// keywords is matched in order; entries whose mandatory prefix is a
// prefix of another's (en/endfo/endw, s/se/setl/sil/so/sor/sy) rely on
// the more specific entry appearing first.
//
var keywords = []Keyword{
	{"vim9s", "cript", false, TokenVim9script},

	{"const", "", false, TokenConst},
	{"var", "", false, TokenVar},
	{"final", "", false, TokenFinal},
	{"def", "", false, TokenDef},
	{"enddef", "", false, TokenEnddef},
	{"export", "", false, TokenExport},

	{"if", "", false, TokenIf},
	{"elsei", "f", false, TokenElseif},
	{"el", "se", false, TokenElse},
	{"endfo", "r", false, TokenEndfor},
	{"endw", "hile", false, TokenEndwhile},
	{"en", "dif", false, TokenEndif},
	{"for", "", false, TokenFor},
	{"in", "", false, TokenIn},
	{"wh", "ile", false, TokenWhile},
	{"ret", "urn", false, TokenReturn},
	{"brea", "k", false, TokenBreak},
	{"con", "tinue", false, TokenContinue},

	{"fu", "nction", false, TokenCommand},
	{"endf", "unction", false, TokenCommand},
	{"let", "", false, TokenCommand},
	{"unl", "et", false, TokenCommand},
	{"cal", "l", false, TokenCommand},
	{"exe", "cute", false, TokenCommand},
	{"norm", "al", true, TokenCommand},
	{"setl", "ocal", false, TokenCommand},
	{"se", "t", false, TokenCommand},
	{"sil", "ent", false, TokenCommand},
	{"sy", "ntax", false, TokenCommand},
	{"sor", "t", false, TokenCommand},
	{"so", "urce", false, TokenCommand},
	{"ec", "ho", false, TokenCommand},
	{"echom", "sg", false, TokenCommand},
	{"echoe", "rr", false, TokenCommand},
	{"au", "tocmd", false, TokenCommand},
	{"aug", "roup", false, TokenCommand},
	{"com", "mand", false, TokenCommand},
	{"hi", "ghlight", false, TokenCommand},
	{"imp", "ort", false, TokenCommand},
	{"fini", "sh", false, TokenCommand},

	{"python3", "", false, TokenCommand},
	{"py", "thon", false, TokenCommand},
	{"pe", "rl", false, TokenCommand},
	{"rub", "y", false, TokenCommand},
	{"lua", "", false, TokenCommand},

	{"map", "", true, TokenCommand},
	{"nm", "ap", true, TokenCommand},
	{"vm", "ap", true, TokenCommand},
	{"im", "ap", true, TokenCommand},
	{"no", "remap", true, TokenCommand},
	{"nn", "oremap", true, TokenCommand},
	{"ino", "remap", true, TokenCommand},
	{"vn", "oremap", true, TokenCommand},
	{"xn", "oremap", true, TokenCommand},
	{"cno", "remap", true, TokenCommand},
	{"tno", "remap", true, TokenCommand},

	{"s", "ubstitute", false, TokenCommand},
	{"g", "lobal", false, TokenCommand},
	{"v", "global", false, TokenCommand},
}

// matchAbbrev reports whether word matches kw per the abbreviation rule:
// word must be a prefix of Mandat+Opt while containing all of Mandat.
//
func matchAbbrev(word string, kw Keyword) bool {
	if len(word) > len(kw.Mandat)+len(kw.Opt) {
		return false
	}
	if len(word) < len(kw.Mandat) {
		return false
	}
	if word[:len(kw.Mandat)] != kw.Mandat {
		return false
	}
	rest := word[len(kw.Mandat):]
	return rest == kw.Opt[:len(rest)]
}

// Canonical resolves a possibly-abbreviated command word to its full
// name, reporting whether the word matched the keyword table at all.
//
func Canonical(word string) (string, bool) {
	for _, kw := range keywords {
		if matchAbbrev(word, kw) {
			return kw.Mandat + kw.Opt, true
		}
	}
	return word, false
}

// pairedSepCommands are the commands whose argument delimiter is chosen
// by the user (the first punctuation character after the name).
//
var pairedSepCommands = map[string]bool{
	"substitute": true,
	"global":     true,
	"vglobal":    true,
	"sort":       true,
}

// TakesPairedSeparator reports whether the (canonical or abbreviated)
// command name introduces a paired-separator argument body.
//
func TakesPairedSeparator(word string) bool {
	name, ok := Canonical(word)
	return ok && pairedSepCommands[name]
}
