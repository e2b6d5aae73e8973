// Package grammar turns the token stream into a parse tree. The
// grammar drives the scanner: before every pull it declares the token
// kinds that may legally appear next, and a TokenFail answer (which
// consumes no input) lets it retry the same position with a different
// candidate set. Statement-level errors are recorded as diagnostics and
// the parser resynchronizes at the end of the line.
package grammar

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/tekwizely/go-parsing/lexer/token"
	"github.com/tekwizely/go-parsing/parser"

	"github.com/vimtools/vimtree/internal/ast"
	"github.com/vimtools/vimtree/internal/config"
	"github.com/vimtools/vimtree/internal/scanner"
)

// parseFn
//
type parseFn func(*parseContext, *parser.Parser) parseFn

// parseContext
//
type parseContext struct {
	sc      *scanner.Context
	tree    *ast.Tree
	fn      parseFn
	last    ast.Pos    // position of the most recent token, for errors
	pending []ast.Stmt // trailing comments awaiting flush
	depth   int        // bracket nesting; newlines are transparent inside
}

// parse delegates incoming parser calls to the configured fn
//
func (ctx *parseContext) parse(p *parser.Parser) parser.Fn {
	if ctx.fn == nil {
		return nil
	}
	config.TraceFn("Calling parser function", ctx.fn)
	ctx.fn = ctx.fn(ctx, p)
	return ctx.parse
}

// Parse builds the tree for one script. The returned tree is complete
// even in the presence of errors; see Tree.Diags.
//
func Parse(sc *scanner.Context) *ast.Tree {
	ctx := &parseContext{
		sc:   sc,
		tree: &ast.Tree{Root: &ast.Script{StmtBase: ast.StmtBase{At: ast.Pos{Line: 1, Col: 1}}}},
		fn:   parseScript,
	}
	_, err := parser.Parse(sc.Tokens, ctx.parse).Next() // No emits
	if err != nil && err != io.EOF {
		panic(err)
	}
	return ctx.tree
}

// ParseBytes is the convenience entry point: scan and parse src.
//
func ParseBytes(src []byte) *ast.Tree {
	return Parse(scanner.New(src))
}

// parseScript parses one top-level statement per call.
//
func parseScript(ctx *parseContext, p *parser.Parser) parseFn {
	if ctx.atEOF(p) {
		return nil
	}
	ctx.parseStatementInto(p, &ctx.tree.Root.Stmts)
	return parseScript
}

// ---------------------------------------------------------------------
// Token plumbing
// ---------------------------------------------------------------------

// take declares the candidate kinds and pulls one token. It returns nil
// when the scanner could not match any candidate (nothing consumed) or
// the stream ended. Line continuations are transparent: they are
// consumed and the pull repeats.
//
// Every pulled token is cleared from the parser immediately so a stale
// candidate set can never be replayed from cache.
//
func (ctx *parseContext) take(p *parser.Parser, kinds ...token.Type) token.Token {
	// Inside brackets a bare newline continues the expression, so the
	// separator is requested and discarded unless the caller wants it.
	elastic := ctx.depth > 0
	if elastic {
		for _, k := range kinds {
			if k == scanner.TokenCmdSeparator {
				elastic = false
				break
			}
		}
	}
	if elastic {
		kinds = append(kinds, scanner.TokenCmdSeparator)
	}
	for {
		ctx.sc.Expect(kinds...)
		if !p.CanPeek(1) {
			return nil
		}
		t := p.Next()
		p.Clear()
		if config.ShowTokens {
			log.Printf("token: %s %q @ %d.%d", scanner.KindName(t.Type()), t.Value(), t.Line(), t.Column())
		}
		switch t.Type() {
		case scanner.TokenFail:
			return nil
		case scanner.TokenLineContinuation, scanner.TokenLineContinuationComment:
			continue
		case scanner.TokenCmdSeparator:
			if elastic {
				continue
			}
		}
		ctx.last = at(t)
		return t
	}
}

// expectType takes one token of the given kind or fails the statement.
//
func (ctx *parseContext) expectType(p *parser.Parser, typ token.Type, msg string) token.Token {
	if t := ctx.take(p, typ); t != nil {
		return t
	}
	panic(ctx.parseError(msg))
}

// atEOF reports end of input. With an empty candidate set the scanner
// fails without consuming, so probing is free; the Fail token is
// swallowed. Only valid at a statement boundary.
//
func (ctx *parseContext) atEOF(p *parser.Parser) bool {
	ctx.sc.Expect()
	if !p.CanPeek(1) {
		return true
	}
	p.Next()
	p.Clear()
	return false
}

func at(t token.Token) ast.Pos {
	return ast.Pos{Line: t.Line(), Col: t.Column()}
}

func stmtAt(t token.Token) ast.StmtBase {
	return ast.StmtBase{At: at(t)}
}

func exprAt(t token.Token) ast.ExprBase {
	return ast.ExprBase{At: at(t)}
}

// syntaxError
//
type syntaxError struct {
	at  ast.Pos
	msg string
}

func (e *syntaxError) Error() string {
	return fmt.Sprintf("%d.%d: %s", e.at.Line, e.at.Col, e.msg)
}

func (ctx *parseContext) parseError(msg string) *syntaxError {
	return &syntaxError{at: ctx.last, msg: msg}
}

// resync consumes to the end of the current line, returning the
// skipped text.
//
func (ctx *parseContext) resync(p *parser.Parser) string {
	var tail strings.Builder
	for {
		t := ctx.take(p, scanner.TokenRawTail, scanner.TokenCmdSeparator)
		if t == nil || t.Type() == scanner.TokenCmdSeparator {
			return tail.String()
		}
		tail.WriteString(t.Value())
	}
}

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

// stmtFirst is the candidate set for statement classification; one scan
// against it decides the statement form.
//
var stmtFirst = []token.Type{
	scanner.TokenCmdSeparator,
	scanner.TokenComment,
	scanner.TokenVim9script,
	scanner.TokenExport,
	scanner.TokenConst,
	scanner.TokenVar,
	scanner.TokenFinal,
	scanner.TokenDef,
	scanner.TokenIf,
	scanner.TokenFor,
	scanner.TokenWhile,
	scanner.TokenReturn,
	scanner.TokenBreak,
	scanner.TokenContinue,
	scanner.TokenCommand,
	scanner.TokenUnknownCmd,
	scanner.TokenScope,
	scanner.TokenScopeDict,
	scanner.TokenEnvVar,
	scanner.TokenOption,
	scanner.TokenIdent,
	scanner.TokenLBracket,
}

// parseStatementInto parses one statement, recovering from syntax
// errors by recording a diagnostic and skipping to end of line.
//
func (ctx *parseContext) parseStatementInto(p *parser.Parser, out *[]ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			se, ok := r.(*syntaxError)
			if !ok {
				panic(r)
			}
			ctx.tree.Diags = append(ctx.tree.Diags, ast.Diag{At: se.at, Msg: se.msg})
			ctx.depth = 0
			tail := ctx.resync(p)
			*out = append(*out, &ast.Bad{StmtBase: ast.StmtBase{At: se.at}, Text: tail})
			ctx.flushPending(out)
		}
	}()
	stmt, _ := ctx.parseStatement(p, "")
	if stmt != nil {
		*out = append(*out, stmt)
	}
	ctx.flushPending(out)
}

func (ctx *parseContext) flushPending(out *[]ast.Stmt) {
	if len(ctx.pending) > 0 {
		*out = append(*out, ctx.pending...)
		ctx.pending = nil
	}
}

// parseStatement classifies and parses one statement. A nil statement
// with false means a blank line. When legacyEnd is non-empty and the
// statement is that command (e.g. "endfunction"), nothing is produced
// and the second result is true.
//
func (ctx *parseContext) parseStatement(p *parser.Parser, legacyEnd string) (ast.Stmt, bool) {
	t := ctx.take(p, stmtFirst...)
	if t == nil {
		if ctx.atEOF(p) {
			return nil, false
		}
		panic(ctx.parseError("expecting statement"))
	}

	switch t.Type() {
	case scanner.TokenCmdSeparator:
		return nil, false

	case scanner.TokenComment:
		return &ast.Comment{StmtBase: stmtAt(t), Text: t.Value()}, false

	case scanner.TokenVim9script:
		ctx.endStatement(p)
		return &ast.Vim9Script{StmtBase: stmtAt(t)}, false

	case scanner.TokenExport:
		return ctx.parseExport(p, t), false

	case scanner.TokenConst, scanner.TokenVar, scanner.TokenFinal:
		return ctx.parseVarDecl(p, t, kwName(t.Type()), false), false

	case scanner.TokenDef:
		return ctx.parseFuncDef(p, t, false, false), false

	case scanner.TokenIf:
		return ctx.parseIf(p, t), false

	case scanner.TokenFor:
		return ctx.parseFor(p, t), false

	case scanner.TokenWhile:
		return ctx.parseWhile(p, t), false

	case scanner.TokenReturn:
		return ctx.parseReturn(p, t), false

	case scanner.TokenBreak:
		ctx.endStatement(p)
		return &ast.Break{StmtBase: stmtAt(t)}, false

	case scanner.TokenContinue:
		ctx.endStatement(p)
		return &ast.Continue{StmtBase: stmtAt(t)}, false

	case scanner.TokenCommand:
		canonical, _ := scanner.Canonical(t.Value())
		if legacyEnd != "" && canonical == legacyEnd {
			return nil, true
		}
		return ctx.parseCommand(p, t, canonical), false

	case scanner.TokenUnknownCmd:
		return ctx.parseLooseHead(p, t, true), false

	case scanner.TokenIdent:
		return ctx.parseLooseHead(p, t, false), false

	case scanner.TokenScope, scanner.TokenScopeDict,
		scanner.TokenEnvVar, scanner.TokenOption:
		lhs := ctx.parseLValueFrom(p, t)
		return ctx.parseAssignOrCall(p, lhs), false

	case scanner.TokenLBracket:
		targets := ctx.parseTargetList(p, t)
		op := ctx.expectType(p, scanner.TokenAssign, "expecting '=' after unpack targets")
		rhs := ctx.parseExpr(p)
		ctx.endStatement(p)
		return &ast.Assignment{StmtBase: stmtAt(t), Targets: targets, Op: op.Value(), Value: rhs}, false
	}
	panic(ctx.parseError("expecting statement"))
}

func kwName(typ token.Type) string {
	switch typ {
	case scanner.TokenConst:
		return "const"
	case scanner.TokenVar:
		return "var"
	case scanner.TokenFinal:
		return "final"
	}
	return "let"
}

// parseExport handles 'export' followed by a declaration.
//
func (ctx *parseContext) parseExport(p *parser.Parser, t token.Token) ast.Stmt {
	kw := ctx.take(p, scanner.TokenDef, scanner.TokenConst, scanner.TokenVar, scanner.TokenFinal)
	if kw == nil {
		panic(ctx.parseError("expecting 'def', 'var', 'const' or 'final' after 'export'"))
	}
	if kw.Type() == scanner.TokenDef {
		fd := ctx.parseFuncDef(p, t, false, true)
		return fd
	}
	return ctx.parseVarDecl(p, t, kwName(kw.Type()), true)
}

// parseVarDecl handles var/const/final and legacy let declarations.
//
func (ctx *parseContext) parseVarDecl(p *parser.Parser, t token.Token, kw string, export bool) ast.Stmt {
	decl := &ast.VarDecl{StmtBase: stmtAt(t), Kw: kw, Export: export}
	decl.Targets = ctx.parseTargets(p)
	if ctx.take(p, scanner.TokenColon) != nil {
		spec := ctx.expectType(p, scanner.TokenTypeSpec, "expecting type after ':'")
		decl.Type = strings.TrimSpace(spec.Value())
	}
	opKinds := []token.Type{scanner.TokenAssign, scanner.TokenHeredocOp}
	if kw == "let" {
		opKinds = append(opKinds,
			scanner.TokenPlusAssign, scanner.TokenMinusAssign,
			scanner.TokenStarAssign, scanner.TokenSlashAssign,
			scanner.TokenConcatAssign)
	}
	op := ctx.take(p, opKinds...)
	if op == nil {
		ctx.endStatement(p)
		return decl
	}
	decl.Op = op.Value()
	if op.Type() == scanner.TokenHeredocOp {
		decl.Init = ctx.parseHeredoc(p, op)
		return decl
	}
	decl.Init = ctx.parseExpr(p)
	ctx.endStatement(p)
	return decl
}

// parseHeredoc reads '[trim] [eval] MARKER', the end of line, then body
// lines up to the marker line. The heredoc owns its end of line.
//
func (ctx *parseContext) parseHeredoc(p *parser.Parser, op token.Token) ast.Expr {
	hd := &ast.Heredoc{ExprBase: exprAt(op)}
	for {
		t := ctx.take(p, scanner.TokenLetHeredocMarker, scanner.TokenIdent)
		if t == nil {
			panic(ctx.parseError("expecting heredoc marker after '=<<'"))
		}
		if t.Type() == scanner.TokenLetHeredocMarker {
			hd.Marker = t.Value()
			break
		}
		switch t.Value() {
		case "trim":
			hd.Trim = true
		case "eval":
			hd.Eval = true
		default:
			panic(ctx.parseError("unknown heredoc modifier '" + t.Value() + "'"))
		}
	}
	ctx.expectType(p, scanner.TokenCmdSeparator, "expecting end of line after heredoc marker")
	for {
		t := ctx.take(p, scanner.TokenHeredocEnd, scanner.TokenHeredocLine)
		if t == nil {
			ctx.tree.Diags = append(ctx.tree.Diags, ast.Diag{At: hd.At,
				Msg: "heredoc missing end marker '" + hd.Marker + "'"})
			return hd
		}
		if t.Type() == scanner.TokenHeredocEnd {
			ctx.endStatement(p)
			return hd
		}
		hd.Lines = append(hd.Lines, strings.TrimSuffix(t.Value(), "\n"))
	}
}

// parseFuncDef handles 'def'/'enddef' and legacy 'function'/'endfunction'.
// When the legacy head has no parameter list the statement is really the
// function-listing command, reported as an ExCmd.
//
func (ctx *parseContext) parseFuncDef(p *parser.Parser, t token.Token, legacy, export bool) ast.Stmt {
	fd := &ast.FuncDef{StmtBase: stmtAt(t), Legacy: legacy, Export: export}
	if ctx.take(p, scanner.TokenBang) != nil {
		fd.Bang = true
	}
	name := ctx.take(p, scanner.TokenScope, scanner.TokenIdent)
	if name == nil {
		if legacy && !fd.Bang {
			tail := ctx.resync(p)
			return &ast.ExCmd{StmtBase: stmtAt(t), Name: t.Value(), Canonical: "function", Tail: tail}
		}
		panic(ctx.parseError("expecting function name"))
	}
	if name.Type() == scanner.TokenScope {
		id := ctx.expectType(p, scanner.TokenIdent, "expecting name after scope prefix")
		fd.Name = &ast.ScopeVar{ExprBase: exprAt(name), Scope: name.Value(), Name: id.Value()}
	} else {
		fd.Name = &ast.Ident{ExprBase: exprAt(name), Name: name.Value()}
	}
	if ctx.take(p, scanner.TokenCallParen) == nil {
		if legacy {
			tail := ctx.resync(p)
			return &ast.ExCmd{StmtBase: stmtAt(t), Name: t.Value(), Canonical: "function",
				Bang: fd.Bang, Tail: tail}
		}
		panic(ctx.parseError("expecting '(' after function name"))
	}
	fd.Params = ctx.parseParams(p, legacy)
	if !legacy && ctx.take(p, scanner.TokenColon) != nil {
		spec := ctx.expectType(p, scanner.TokenTypeSpec, "expecting return type after ':'")
		fd.RetType = strings.TrimSpace(spec.Value())
	}
	ctx.endStatement(p)
	if legacy {
		ctx.parseLegacyBody(p, fd)
	} else {
		term := ctx.parseBlock(p, &fd.Body, scanner.TokenEnddef)
		if term == nil {
			ctx.tree.Diags = append(ctx.tree.Diags, ast.Diag{At: fd.At, Msg: "missing 'enddef'"})
			return fd
		}
		ctx.endStatement(p)
	}
	return fd
}

// parseParams parses the formal parameter list after the open paren.
//
func (ctx *parseContext) parseParams(p *parser.Parser, legacy bool) []ast.Param {
	var params []ast.Param
	for {
		t := ctx.take(p, scanner.TokenRParen, scanner.TokenIdent, scanner.TokenCmdSeparator, scanner.TokenEllipsis)
		if t == nil {
			panic(ctx.parseError("expecting parameter name or ')'"))
		}
		switch t.Type() {
		case scanner.TokenRParen:
			return params
		case scanner.TokenCmdSeparator:
			continue
		case scanner.TokenEllipsis:
			prm := ast.Param{At: at(t), Name: "..."}
			if !legacy {
				if id := ctx.take(p, scanner.TokenIdent); id != nil {
					prm.Name = "..." + id.Value()
					if ctx.take(p, scanner.TokenColon) != nil {
						spec := ctx.expectType(p, scanner.TokenTypeSpec, "expecting type after ':'")
						prm.Type = strings.TrimSpace(spec.Value())
					}
				}
			}
			params = append(params, prm)
		default:
			prm := ast.Param{At: at(t), Name: t.Value()}
			if !legacy && ctx.take(p, scanner.TokenColon) != nil {
				spec := ctx.expectType(p, scanner.TokenTypeSpec, "expecting type after ':'")
				prm.Type = strings.TrimSpace(spec.Value())
			}
			if ctx.take(p, scanner.TokenAssign) != nil {
				prm.Default = ctx.parseExpr(p)
			}
			params = append(params, prm)
		}
		if ctx.take(p, scanner.TokenComma) == nil {
			ctx.expectType(p, scanner.TokenRParen, "expecting ',' or ')'")
			return params
		}
	}
}

// parseLegacyBody collects statements until 'endfunction'.
//
func (ctx *parseContext) parseLegacyBody(p *parser.Parser, fd *ast.FuncDef) {
	for {
		if ctx.atEOF(p) {
			ctx.tree.Diags = append(ctx.tree.Diags, ast.Diag{At: fd.At, Msg: "missing 'endfunction'"})
			return
		}
		done := ctx.parseBodyStatement(p, &fd.Body, "endfunction")
		if done {
			ctx.endStatement(p)
			return
		}
	}
}

// parseBodyStatement is parseStatementInto with a legacy terminator.
//
func (ctx *parseContext) parseBodyStatement(p *parser.Parser, out *[]ast.Stmt, legacyEnd string) (done bool) {
	defer func() {
		if r := recover(); r != nil {
			se, ok := r.(*syntaxError)
			if !ok {
				panic(r)
			}
			ctx.tree.Diags = append(ctx.tree.Diags, ast.Diag{At: se.at, Msg: se.msg})
			ctx.depth = 0
			tail := ctx.resync(p)
			*out = append(*out, &ast.Bad{StmtBase: ast.StmtBase{At: se.at}, Text: tail})
			ctx.flushPending(out)
		}
	}()
	stmt, end := ctx.parseStatement(p, legacyEnd)
	if stmt != nil {
		*out = append(*out, stmt)
	}
	ctx.flushPending(out)
	return end
}

// parseBlock parses statements until one of the terminator kinds scans,
// returning the terminator token (nil at EOF).
//
func (ctx *parseContext) parseBlock(p *parser.Parser, out *[]ast.Stmt, stops ...token.Type) token.Token {
	for {
		if term := ctx.take(p, stops...); term != nil {
			return term
		}
		if ctx.atEOF(p) {
			return nil
		}
		ctx.parseStatementInto(p, out)
	}
}

func (ctx *parseContext) parseIf(p *parser.Parser, t token.Token) ast.Stmt {
	node := &ast.If{StmtBase: stmtAt(t)}
	node.Cond = ctx.parseExpr(p)
	ctx.endStatement(p)
	term := ctx.parseBlock(p, &node.Then, scanner.TokenElseif, scanner.TokenElse, scanner.TokenEndif)
	for term != nil && term.Type() == scanner.TokenElseif {
		arm := ast.ElseIf{At: at(term)}
		arm.Cond = ctx.parseExpr(p)
		ctx.endStatement(p)
		term = ctx.parseBlock(p, &arm.Body, scanner.TokenElseif, scanner.TokenElse, scanner.TokenEndif)
		node.ElseIfs = append(node.ElseIfs, arm)
	}
	if term != nil && term.Type() == scanner.TokenElse {
		ctx.endStatement(p)
		node.Else = []ast.Stmt{}
		term = ctx.parseBlock(p, &node.Else, scanner.TokenEndif)
	}
	if term == nil {
		ctx.tree.Diags = append(ctx.tree.Diags, ast.Diag{At: node.At, Msg: "missing 'endif'"})
		return node
	}
	ctx.endStatement(p)
	return node
}

func (ctx *parseContext) parseFor(p *parser.Parser, t token.Token) ast.Stmt {
	node := &ast.For{StmtBase: stmtAt(t)}
	node.Targets = ctx.parseTargets(p)
	ctx.expectType(p, scanner.TokenIn, "expecting 'in'")
	node.Iter = ctx.parseExpr(p)
	ctx.endStatement(p)
	if term := ctx.parseBlock(p, &node.Body, scanner.TokenEndfor); term == nil {
		ctx.tree.Diags = append(ctx.tree.Diags, ast.Diag{At: node.At, Msg: "missing 'endfor'"})
		return node
	}
	ctx.endStatement(p)
	return node
}

func (ctx *parseContext) parseWhile(p *parser.Parser, t token.Token) ast.Stmt {
	node := &ast.While{StmtBase: stmtAt(t)}
	node.Cond = ctx.parseExpr(p)
	ctx.endStatement(p)
	if term := ctx.parseBlock(p, &node.Body, scanner.TokenEndwhile); term == nil {
		ctx.tree.Diags = append(ctx.tree.Diags, ast.Diag{At: node.At, Msg: "missing 'endwhile'"})
		return node
	}
	ctx.endStatement(p)
	return node
}

func (ctx *parseContext) parseReturn(p *parser.Parser, t token.Token) ast.Stmt {
	node := &ast.Return{StmtBase: stmtAt(t)}
	if end := ctx.take(p, scanner.TokenCmdSeparator, scanner.TokenComment); end != nil {
		if end.Type() == scanner.TokenComment {
			ctx.pending = append(ctx.pending, &ast.Comment{StmtBase: stmtAt(end), Text: end.Value()})
			ctx.take(p, scanner.TokenCmdSeparator)
		}
		return node
	}
	if ctx.atEOF(p) {
		return node
	}
	node.Value = ctx.parseExpr(p)
	ctx.endStatement(p)
	return node
}

// endStatement consumes the statement terminator, tolerating one
// trailing comment before it. Trailing comments become pending Comment
// statements flushed after the current one.
//
func (ctx *parseContext) endStatement(p *parser.Parser) {
	t := ctx.take(p, scanner.TokenCmdSeparator, scanner.TokenComment)
	if t == nil {
		if ctx.atEOF(p) {
			return
		}
		panic(ctx.parseError("expecting end of statement"))
	}
	if t.Type() == scanner.TokenComment {
		ctx.pending = append(ctx.pending, &ast.Comment{StmtBase: stmtAt(t), Text: t.Value()})
		if ctx.take(p, scanner.TokenCmdSeparator) == nil && !ctx.atEOF(p) {
			panic(ctx.parseError("expecting end of statement"))
		}
	}
}

// ---------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------

// rawTailCommands take an unstructured argument tail.
//
var rawTailCommands = map[string]bool{
	"set": true, "setlocal": true, "syntax": true,
	"autocmd": true, "augroup": true, "command": true,
	"highlight": true, "normal": true, "unlet": true,
	"import": true, "source": true, "finish": true,
	"map": true, "nmap": true, "vmap": true, "imap": true,
	"noremap": true, "nnoremap": true, "inoremap": true,
	"vnoremap": true, "xnoremap": true, "cnoremap": true, "tnoremap": true,
}

// exprArgCommands evaluate their arguments as expressions.
//
var exprArgCommands = map[string]bool{
	"echo": true, "echomsg": true, "echoerr": true, "execute": true,
}

// scriptCommands embed another language, optionally as a '<<' heredoc.
//
var scriptCommands = map[string]bool{
	"python": true, "python3": true, "perl": true, "ruby": true, "lua": true,
}

func (ctx *parseContext) parseCommand(p *parser.Parser, t token.Token, canonical string) ast.Stmt {
	switch {
	case canonical == "function":
		return ctx.parseFuncDef(p, t, true, false)

	case canonical == "let":
		return ctx.parseVarDecl(p, t, "let", false)

	case canonical == "call":
		e := ctx.parseExpr(p)
		ctx.endStatement(p)
		return &ast.ExprStmt{StmtBase: stmtAt(t), X: e}

	case canonical == "silent":
		return ctx.parseSilent(p, t)

	case scanner.TakesPairedSeparator(t.Value()):
		return ctx.parsePaired(p, t, canonical)

	case exprArgCommands[canonical]:
		return ctx.parseExprArgs(p, t, canonical)

	case scriptCommands[canonical]:
		return ctx.parseScriptHeredoc(p, t, canonical)

	case rawTailCommands[canonical]:
		return ctx.parseRawCommand(p, t, canonical)
	}
	return ctx.parseRawCommand(p, t, canonical)
}

// parseRawCommand handles '[!] {args} raw-tail' commands.
//
func (ctx *parseContext) parseRawCommand(p *parser.Parser, t token.Token, canonical string) ast.Stmt {
	cmd := &ast.ExCmd{StmtBase: stmtAt(t), Name: t.Value(), Canonical: canonical}
	if ctx.take(p, scanner.TokenBang) != nil {
		cmd.Bang = true
	}
	if keyArgCommands[canonical] {
		ctx.parseCmdArgs(p, cmd, keyArgFirst, false)
	} else {
		ctx.parseCmdArgs(p, cmd, cmdArgFirst, true)
	}
	if tail := ctx.take(p, scanner.TokenRawTail); tail != nil {
		cmd.Tail = tail.Value()
	}
	ctx.endStatement(p)
	return cmd
}

// cmdArgFirst are the structured argument forms a generic command may
// carry before its raw tail.
//
var cmdArgFirst = []token.Type{
	scanner.TokenString, scanner.TokenNumber, scanner.TokenFloat,
	scanner.TokenIdent, scanner.TokenScope, scanner.TokenOption,
	scanner.TokenEnvVar, scanner.TokenSpecialKey,
	scanner.TokenLBracket, scanner.TokenLBrace,
}

// keyArgFirst restricts the argument forms for commands whose argument
// is keystrokes: a '"' there is a register, not a string or a comment,
// so only key notation and plain words are safe to structure.
//
var keyArgFirst = []token.Type{
	scanner.TokenSpecialKey, scanner.TokenIdent, scanner.TokenNumber,
}

// keyArgCommands are the mapping commands plus :normal.
//
var keyArgCommands = map[string]bool{
	"normal": true,
	"map":    true, "nmap": true, "vmap": true, "imap": true,
	"noremap": true, "nnoremap": true, "inoremap": true,
	"vnoremap": true, "xnoremap": true, "cnoremap": true, "tnoremap": true,
}

// parseCmdArgs greedily collects structured arguments, stopping at the
// first position where none of the argument forms scans. Whatever
// remains belongs to the raw tail.
//
func (ctx *parseContext) parseCmdArgs(p *parser.Parser, cmd *ast.ExCmd, kinds []token.Type, postfix bool) {
	for {
		t := ctx.take(p, kinds...)
		if t == nil {
			return
		}
		var e ast.Expr
		switch t.Type() {
		case scanner.TokenComment:
			// an unterminated double quote came back as a comment
			ctx.pending = append(ctx.pending, &ast.Comment{StmtBase: stmtAt(t), Text: t.Value()})
			return
		case scanner.TokenString:
			e = &ast.StringLit{ExprBase: exprAt(t), Text: t.Value()}
		case scanner.TokenNumber:
			e = &ast.NumberLit{ExprBase: exprAt(t), Text: t.Value()}
		case scanner.TokenFloat:
			e = &ast.FloatLit{ExprBase: exprAt(t), Text: t.Value()}
		case scanner.TokenScope:
			id := ctx.expectType(p, scanner.TokenIdent, "expecting name after scope prefix")
			e = &ast.ScopeVar{ExprBase: exprAt(t), Scope: t.Value(), Name: id.Value()}
		case scanner.TokenOption:
			e = &ast.OptionExpr{ExprBase: exprAt(t), Name: t.Value()}
		case scanner.TokenEnvVar:
			e = &ast.EnvExpr{ExprBase: exprAt(t), Name: t.Value()}
		case scanner.TokenSpecialKey:
			e = &ast.KeyExpr{ExprBase: exprAt(t), Name: t.Value()}
		case scanner.TokenLBracket:
			e = ctx.parseListLit(p, t)
		case scanner.TokenLBrace:
			e = ctx.parseDictLit(p, t)
		default:
			e = &ast.Ident{ExprBase: exprAt(t), Name: t.Value()}
		}
		if postfix {
			e = ctx.parsePostfix(p, e)
		}
		cmd.Args = append(cmd.Args, e)
	}
}

// parseScriptHeredoc handles ':python << MARKER' style embedded script
// blocks. Without a marker the body runs to a line holding a lone '.'.
// Without '<<' at all, the command degrades to a raw tail.
//
func (ctx *parseContext) parseScriptHeredoc(p *parser.Parser, t token.Token, canonical string) ast.Stmt {
	cmd := &ast.ExCmd{StmtBase: stmtAt(t), Name: t.Value(), Canonical: canonical}
	op := ctx.take(p, scanner.TokenHeredocOp)
	if op == nil {
		if tail := ctx.take(p, scanner.TokenRawTail); tail != nil {
			cmd.Tail = tail.Value()
		}
		ctx.endStatement(p)
		return cmd
	}
	hd := &ast.Heredoc{ExprBase: exprAt(op)}
	if mk := ctx.take(p, scanner.TokenScriptHeredocMarker); mk != nil {
		hd.Marker = mk.Value()
	}
	ctx.expectType(p, scanner.TokenCmdSeparator, "expecting end of line after '<<'")
	for {
		line := ctx.take(p, scanner.TokenHeredocEnd, scanner.TokenHeredocLine)
		if line == nil {
			ctx.tree.Diags = append(ctx.tree.Diags,
				ast.Diag{At: at(op), Msg: "missing script terminator"})
			break
		}
		if line.Type() == scanner.TokenHeredocEnd {
			ctx.endStatement(p)
			break
		}
		hd.Lines = append(hd.Lines, strings.TrimSuffix(line.Value(), "\n"))
	}
	cmd.Args = append(cmd.Args, hd)
	return cmd
}

// parseExprArgs handles echo-style commands: space-separated expressions
// to end of line.
//
func (ctx *parseContext) parseExprArgs(p *parser.Parser, t token.Token, canonical string) ast.Stmt {
	cmd := &ast.ExCmd{StmtBase: stmtAt(t), Name: t.Value(), Canonical: canonical}
	if ctx.take(p, scanner.TokenBang) != nil {
		cmd.Bang = true
	}
	for {
		e := ctx.parseExprOpt(p)
		if e == nil {
			break
		}
		cmd.Args = append(cmd.Args, e)
	}
	ctx.endStatement(p)
	return cmd
}

// parseSilent wraps the rest of the line as a nested statement.
//
func (ctx *parseContext) parseSilent(p *parser.Parser, t token.Token) ast.Stmt {
	cmd := &ast.ExCmd{StmtBase: stmtAt(t), Name: t.Value(), Canonical: "silent"}
	if ctx.take(p, scanner.TokenBang) != nil {
		cmd.Bang = true
	}
	inner, _ := ctx.parseStatement(p, "")
	if inner != nil {
		cmd.Args = append(cmd.Args, inner)
	}
	return cmd
}

// parsePaired handles the user-chosen-delimiter commands: :s, :g, :v
// and :sort. Without a delimiter the command degrades to a raw tail.
//
func (ctx *parseContext) parsePaired(p *parser.Parser, t token.Token, canonical string) ast.Stmt {
	bang := ctx.take(p, scanner.TokenBang) != nil
	sep := ctx.take(p, scanner.TokenSepFirst)
	if sep == nil {
		cmd := ctx.parseRawCommand(p, t, canonical)
		if ex, ok := cmd.(*ast.ExCmd); ok {
			ex.Bang = ex.Bang || bang
		}
		return cmd
	}
	pattern := ""
	closed := false
	if pt := ctx.take(p, scanner.TokenPattern, scanner.TokenSep); pt != nil {
		if pt.Type() == scanner.TokenPattern {
			pattern = pt.Value()
			closed = ctx.take(p, scanner.TokenSep) != nil
		} else {
			closed = true
		}
	}

	if canonical == "global" || canonical == "vglobal" {
		node := &ast.GlobalCmd{StmtBase: stmtAt(t), Name: t.Value(), Canonical: canonical,
			Invert: canonical == "vglobal" || bang, Sep: sep.Value(), Pattern: pattern}
		if !closed {
			ctx.endStatement(p)
			return node
		}
		inner, _ := ctx.parseStatement(p, "")
		node.Cmd = inner
		return node
	}

	node := &ast.SubstCmd{StmtBase: stmtAt(t), Name: t.Value(), Canonical: canonical,
		Sep: sep.Value(), Pattern: pattern}
	if !closed {
		ctx.endStatement(p)
		return node
	}
	if canonical == "substitute" {
		if rt := ctx.take(p, scanner.TokenPattern, scanner.TokenSep); rt != nil {
			if rt.Type() == scanner.TokenPattern {
				node.Replace = rt.Value()
				if ctx.take(p, scanner.TokenSep) == nil {
					ctx.endStatement(p)
					return node
				}
			}
		} else {
			ctx.endStatement(p)
			return node
		}
	}
	if flags := ctx.take(p, scanner.TokenRawTail); flags != nil {
		node.Flags = strings.TrimSpace(flags.Value())
	}
	ctx.endStatement(p)
	return node
}

// parseLooseHead handles a statement that starts with a plain word: an
// assignment to a declared variable, a call, or an unknown user command
// with a raw argument tail.
//
func (ctx *parseContext) parseLooseHead(p *parser.Parser, t token.Token, lowercase bool) ast.Stmt {
	base := &ast.Ident{ExprBase: exprAt(t), Name: t.Value()}
	lhs := ctx.parsePostfix(p, base)
	if stmt := ctx.tryFinishAssign(p, t, lhs); stmt != nil {
		return stmt
	}
	switch lhs.(type) {
	case *ast.Call, *ast.MethodCall:
		ctx.endStatement(p)
		return &ast.ExprStmt{StmtBase: stmtAt(t), X: lhs}
	}
	// Not an assignment, not a call: a user or unrecognized command.
	cmd := &ast.ExCmd{StmtBase: stmtAt(t), Name: t.Value(), Canonical: t.Value()}
	if ctx.take(p, scanner.TokenBang) != nil {
		cmd.Bang = true
	}
	ctx.parseCmdArgs(p, cmd, cmdArgFirst, true)
	if tail := ctx.take(p, scanner.TokenRawTail); tail != nil {
		cmd.Tail = tail.Value()
	}
	ctx.endStatement(p)
	return cmd
}

// tryFinishAssign finishes '<lhs> op expr' when an assignment operator
// scans at the cursor.
//
func (ctx *parseContext) tryFinishAssign(p *parser.Parser, t token.Token, lhs ast.Expr) ast.Stmt {
	op := ctx.take(p,
		scanner.TokenAssign, scanner.TokenPlusAssign, scanner.TokenMinusAssign,
		scanner.TokenStarAssign, scanner.TokenSlashAssign, scanner.TokenConcatAssign)
	if op == nil {
		return nil
	}
	rhs := ctx.parseExpr(p)
	ctx.endStatement(p)
	return &ast.Assignment{StmtBase: stmtAt(t), Targets: []ast.Expr{lhs}, Op: op.Value(), Value: rhs}
}

// parseAssignOrCall finishes a statement whose head is a parsed lvalue.
//
func (ctx *parseContext) parseAssignOrCall(p *parser.Parser, lhs ast.Expr) ast.Stmt {
	full := ctx.parsePostfix(p, lhs)
	base := ast.StmtBase{At: full.Pos()}
	op := ctx.take(p,
		scanner.TokenAssign, scanner.TokenPlusAssign, scanner.TokenMinusAssign,
		scanner.TokenStarAssign, scanner.TokenSlashAssign, scanner.TokenConcatAssign)
	if op != nil {
		rhs := ctx.parseExpr(p)
		ctx.endStatement(p)
		return &ast.Assignment{StmtBase: base, Targets: []ast.Expr{full}, Op: op.Value(), Value: rhs}
	}
	switch full.(type) {
	case *ast.Call, *ast.MethodCall:
		ctx.endStatement(p)
		return &ast.ExprStmt{StmtBase: base, X: full}
	}
	panic(ctx.parseError("expecting assignment or call"))
}

// parseTargets parses the assignment target(s): one lvalue, or a
// bracketed unpack list.
//
func (ctx *parseContext) parseTargets(p *parser.Parser) []ast.Expr {
	if lb := ctx.take(p, scanner.TokenLBracket); lb != nil {
		return ctx.parseTargetList(p, lb)
	}
	return []ast.Expr{ctx.parseLValue(p)}
}

// parseTargetList parses '[a, b, c]' after the open bracket.
//
func (ctx *parseContext) parseTargetList(p *parser.Parser, lb token.Token) []ast.Expr {
	var targets []ast.Expr
	for {
		targets = append(targets, ctx.parseLValue(p))
		t := ctx.take(p, scanner.TokenComma, scanner.TokenRBracket)
		if t == nil {
			panic(ctx.parseError("expecting ',' or ']' in unpack list"))
		}
		if t.Type() == scanner.TokenRBracket {
			return targets
		}
	}
}

// parseLValue parses one assignable place.
//
func (ctx *parseContext) parseLValue(p *parser.Parser) ast.Expr {
	t := ctx.take(p, scanner.TokenScope, scanner.TokenIdent,
		scanner.TokenEnvVar, scanner.TokenOption)
	if t == nil {
		panic(ctx.parseError("expecting variable name"))
	}
	return ctx.parseLValueTail(p, ctx.parseLValueFrom(p, t))
}

// parseLValueFrom builds the head expression for an already-taken
// variable token.
//
func (ctx *parseContext) parseLValueFrom(p *parser.Parser, t token.Token) ast.Expr {
	switch t.Type() {
	case scanner.TokenScope:
		id := ctx.expectType(p, scanner.TokenIdent, "expecting name after scope prefix")
		return &ast.ScopeVar{ExprBase: exprAt(t), Scope: t.Value(), Name: id.Value()}
	case scanner.TokenScopeDict:
		return &ast.ScopeDict{ExprBase: exprAt(t), Scope: t.Value()}
	case scanner.TokenEnvVar:
		return &ast.EnvExpr{ExprBase: exprAt(t), Name: t.Value()}
	case scanner.TokenOption:
		return &ast.OptionExpr{ExprBase: exprAt(t), Name: t.Value()}
	}
	return &ast.Ident{ExprBase: exprAt(t), Name: t.Value()}
}

// parseLValueTail allows indexing and entry access on a target but not
// calls.
//
func (ctx *parseContext) parseLValueTail(p *parser.Parser, x ast.Expr) ast.Expr {
	for {
		t := ctx.take(p, scanner.TokenIndexBracket, scanner.TokenDot)
		if t == nil {
			return x
		}
		if t.Type() == scanner.TokenIndexBracket {
			idx := ctx.parseExpr(p)
			ctx.expectType(p, scanner.TokenRBracket, "expecting ']'")
			x = &ast.Index{ExprBase: exprAt(t), X: x, Idx: idx}
			continue
		}
		key := ctx.expectType(p, scanner.TokenIdent, "expecting key after '.'")
		x = &ast.Entry{ExprBase: exprAt(t), X: x, Key: key.Value()}
	}
}
