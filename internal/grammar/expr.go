package grammar

import (
	"strings"

	"github.com/tekwizely/go-parsing/lexer/token"
	"github.com/tekwizely/go-parsing/parser"

	"github.com/vimtools/vimtree/internal/ast"
	"github.com/vimtools/vimtree/internal/scanner"
)

// parseExpr parses a required expression.
//
func (ctx *parseContext) parseExpr(p *parser.Parser) ast.Expr {
	e := ctx.parseExprOpt(p)
	if e == nil {
		panic(ctx.parseError("expecting expression"))
	}
	return e
}

// parseExprOpt parses an expression if one starts at the cursor,
// consuming nothing otherwise.
//
func (ctx *parseContext) parseExprOpt(p *parser.Parser) ast.Expr {
	return ctx.parseTernary(p, true)
}

// parseTernary: cond ? then : else
//
func (ctx *parseContext) parseTernary(p *parser.Parser, opt bool) ast.Expr {
	cond := ctx.parseBinary(p, 0, opt)
	if cond == nil {
		return nil
	}
	q := ctx.take(p, scanner.TokenQuestion)
	if q == nil {
		return cond
	}
	then := ctx.parseTernary(p, false)
	ctx.expectType(p, scanner.TokenColon, "expecting ':' in ternary")
	els := ctx.parseTernary(p, false)
	return &ast.Ternary{ExprBase: exprAt(q), Cond: cond, Then: then, Else: els}
}

// parseBinary climbs the precedence table in productions.go.
//
func (ctx *parseContext) parseBinary(p *parser.Parser, level int, opt bool) ast.Expr {
	if level >= len(Levels) {
		return ctx.parseUnary(p, opt)
	}
	lv := Levels[level]
	x := ctx.parseBinary(p, level+1, opt)
	if x == nil {
		return nil
	}
	for {
		op := ctx.take(p, lv.Kinds...)
		if op == nil {
			return x
		}
		y := ctx.parseBinary(p, level+1, false)
		x = &ast.Binary{ExprBase: exprAt(op), Op: op.Value(), X: x, Y: y}
		if !lv.Chained {
			return x
		}
	}
}

func (ctx *parseContext) parseUnary(p *parser.Parser, opt bool) ast.Expr {
	t := ctx.take(p, scanner.TokenNot, scanner.TokenMinus, scanner.TokenPlus)
	if t != nil {
		return &ast.Unary{ExprBase: exprAt(t), Op: t.Value(), X: ctx.parseUnary(p, false)}
	}
	x := ctx.parseOperand(p, opt)
	if x == nil {
		return nil
	}
	return ctx.parsePostfix(p, x)
}

// parsePostfix applies call, index, entry and method chains to a parsed
// head. Call parens and index brackets only scan when adjacent.
//
func (ctx *parseContext) parsePostfix(p *parser.Parser, x ast.Expr) ast.Expr {
	for {
		t := ctx.take(p, scanner.TokenCallParen, scanner.TokenIndexBracket,
			scanner.TokenDot, scanner.TokenMethodArrow)
		if t == nil {
			return x
		}
		switch t.Type() {
		case scanner.TokenCallParen:
			x = &ast.Call{ExprBase: exprAt(t), Fn: x, Args: ctx.parseArgs(p)}
		case scanner.TokenIndexBracket:
			x = ctx.parseIndex(p, t, x)
		case scanner.TokenDot:
			key := ctx.expectType(p, scanner.TokenIdent, "expecting key after '.'")
			x = &ast.Entry{ExprBase: exprAt(t), X: x, Key: key.Value()}
		case scanner.TokenMethodArrow:
			x = ctx.parseMethod(p, t, x)
		}
	}
}

// parseArgs parses a call's argument list after the open paren.
//
func (ctx *parseContext) parseArgs(p *parser.Parser) []ast.Expr {
	ctx.depth++
	defer func() { ctx.depth-- }()
	var args []ast.Expr
	if ctx.take(p, scanner.TokenRParen) != nil {
		return args
	}
	for {
		args = append(args, ctx.parseExpr(p))
		t := ctx.take(p, scanner.TokenComma, scanner.TokenRParen)
		if t == nil {
			panic(ctx.parseError("expecting ',' or ')' in argument list"))
		}
		if t.Type() == scanner.TokenRParen {
			return args
		}
		if ctx.take(p, scanner.TokenRParen) != nil {
			return args
		}
	}
}

// parseIndex parses x[i], x[l : h], x[:h], x[l:] and x[:] after the
// open bracket.
//
func (ctx *parseContext) parseIndex(p *parser.Parser, t token.Token, x ast.Expr) ast.Expr {
	ctx.depth++
	defer func() { ctx.depth-- }()
	if ctx.take(p, scanner.TokenColon) != nil {
		if ctx.take(p, scanner.TokenRBracket) != nil {
			return &ast.Slice{ExprBase: exprAt(t), X: x}
		}
		high := ctx.parseExpr(p)
		ctx.expectType(p, scanner.TokenRBracket, "expecting ']'")
		return &ast.Slice{ExprBase: exprAt(t), X: x, High: high}
	}
	idx := ctx.parseExpr(p)
	end := ctx.take(p, scanner.TokenRBracket, scanner.TokenColon)
	if end == nil {
		panic(ctx.parseError("expecting ']' or ':'"))
	}
	if end.Type() == scanner.TokenRBracket {
		return &ast.Index{ExprBase: exprAt(t), X: x, Idx: idx}
	}
	if ctx.take(p, scanner.TokenRBracket) != nil {
		return &ast.Slice{ExprBase: exprAt(t), X: x, Low: idx}
	}
	high := ctx.parseExpr(p)
	ctx.expectType(p, scanner.TokenRBracket, "expecting ']'")
	return &ast.Slice{ExprBase: exprAt(t), X: x, Low: idx, High: high}
}

// parseMethod parses '->name(args)'; the argument list is optional so a
// bare '->name' still yields a node.
//
func (ctx *parseContext) parseMethod(p *parser.Parser, t token.Token, recv ast.Expr) ast.Expr {
	fn := ctx.take(p, scanner.TokenScope, scanner.TokenIdent)
	if fn == nil {
		panic(ctx.parseError("expecting method name after '->'"))
	}
	var fnExpr ast.Expr
	if fn.Type() == scanner.TokenScope {
		id := ctx.expectType(p, scanner.TokenIdent, "expecting name after scope prefix")
		fnExpr = &ast.ScopeVar{ExprBase: exprAt(fn), Scope: fn.Value(), Name: id.Value()}
	} else {
		fnExpr = &ast.Ident{ExprBase: exprAt(fn), Name: fn.Value()}
	}
	node := &ast.MethodCall{ExprBase: exprAt(t), Recv: recv, Fn: fnExpr}
	if ctx.take(p, scanner.TokenCallParen) != nil {
		node.Args = ctx.parseArgs(p)
	}
	return node
}

// operandFirst is the candidate set for an expression operand.
//
var operandFirst = []token.Type{
	scanner.TokenNumber,
	scanner.TokenFloat,
	scanner.TokenString,
	scanner.TokenIdent,
	scanner.TokenScope,
	scanner.TokenScopeDict,
	scanner.TokenEnvVar,
	scanner.TokenOption,
	scanner.TokenSpecialKey,
	scanner.TokenLParen,
	scanner.TokenLBracket,
	scanner.TokenLBrace,
}

func (ctx *parseContext) parseOperand(p *parser.Parser, opt bool) ast.Expr {
	t := ctx.take(p, operandFirst...)
	if t == nil {
		if opt {
			return nil
		}
		panic(ctx.parseError("expecting expression"))
	}
	switch t.Type() {
	case scanner.TokenNumber:
		return &ast.NumberLit{ExprBase: exprAt(t), Text: t.Value()}
	case scanner.TokenFloat:
		return &ast.FloatLit{ExprBase: exprAt(t), Text: t.Value()}
	case scanner.TokenString:
		return &ast.StringLit{ExprBase: exprAt(t), Text: t.Value()}
	case scanner.TokenComment:
		// An unclosed double-quoted string re-reads as a trailing
		// comment; the expression position turns out to be empty.
		ctx.pending = append(ctx.pending, &ast.Comment{StmtBase: stmtAt(t), Text: t.Value()})
		if opt {
			return nil
		}
		panic(ctx.parseError("expecting expression"))
	case scanner.TokenIdent:
		return &ast.Ident{ExprBase: exprAt(t), Name: t.Value()}
	case scanner.TokenScope:
		id := ctx.expectType(p, scanner.TokenIdent, "expecting name after scope prefix")
		return &ast.ScopeVar{ExprBase: exprAt(t), Scope: t.Value(), Name: id.Value()}
	case scanner.TokenScopeDict:
		return &ast.ScopeDict{ExprBase: exprAt(t), Scope: t.Value()}
	case scanner.TokenEnvVar:
		return &ast.EnvExpr{ExprBase: exprAt(t), Name: t.Value()}
	case scanner.TokenOption:
		return &ast.OptionExpr{ExprBase: exprAt(t), Name: t.Value()}
	case scanner.TokenSpecialKey:
		return &ast.KeyExpr{ExprBase: exprAt(t), Name: t.Value()}
	case scanner.TokenLParen:
		return ctx.parseParenOrLambda(p, t)
	case scanner.TokenLBracket:
		return ctx.parseListLit(p, t)
	case scanner.TokenLBrace:
		return ctx.parseDictLit(p, t)
	}
	panic(ctx.parseError("expecting expression"))
}

func (ctx *parseContext) parseListLit(p *parser.Parser, t token.Token) ast.Expr {
	ctx.depth++
	defer func() { ctx.depth-- }()
	node := &ast.ListLit{ExprBase: exprAt(t)}
	if ctx.take(p, scanner.TokenRBracket) != nil {
		return node
	}
	for {
		node.Items = append(node.Items, ctx.parseExpr(p))
		end := ctx.take(p, scanner.TokenComma, scanner.TokenRBracket)
		if end == nil {
			panic(ctx.parseError("expecting ',' or ']' in list"))
		}
		if end.Type() == scanner.TokenRBracket {
			return node
		}
		// trailing comma
		if ctx.take(p, scanner.TokenRBracket) != nil {
			return node
		}
	}
}

func (ctx *parseContext) parseDictLit(p *parser.Parser, t token.Token) ast.Expr {
	ctx.depth++
	defer func() { ctx.depth-- }()
	node := &ast.DictLit{ExprBase: exprAt(t)}
	if ctx.take(p, scanner.TokenRBrace) != nil {
		return node
	}
	key := ctx.take(p, scanner.TokenString, scanner.TokenNumber, scanner.TokenIdent)
	if key == nil {
		panic(ctx.parseError("expecting dictionary key"))
	}
	ctx.expectType(p, scanner.TokenColon, "expecting ':' after dictionary key")
	return ctx.parseDictRest(p, node, key)
}

// parseDictRest continues a dict literal whose first key and ':' have
// already been consumed.
//
func (ctx *parseContext) parseDictRest(p *parser.Parser, node *ast.DictLit, key token.Token) ast.Expr {
	ctx.depth++
	defer func() { ctx.depth-- }()
	for {
		entry := ast.DictEntry{At: at(key)}
		switch key.Type() {
		case scanner.TokenString:
			entry.Key = &ast.StringLit{ExprBase: exprAt(key), Text: key.Value()}
		case scanner.TokenNumber:
			entry.Key = &ast.NumberLit{ExprBase: exprAt(key), Text: key.Value()}
		default:
			entry.Key = &ast.Ident{ExprBase: exprAt(key), Name: key.Value()}
		}
		entry.Value = ctx.parseExpr(p)
		node.Entries = append(node.Entries, entry)
		end := ctx.take(p, scanner.TokenComma, scanner.TokenRBrace)
		if end == nil {
			panic(ctx.parseError("expecting ',' or '}' in dictionary"))
		}
		if end.Type() == scanner.TokenRBrace {
			return node
		}
		if ctx.take(p, scanner.TokenRBrace) != nil {
			return node
		}
		key = ctx.take(p, scanner.TokenString, scanner.TokenNumber, scanner.TokenIdent)
		if key == nil {
			panic(ctx.parseError("expecting dictionary key"))
		}
		ctx.expectType(p, scanner.TokenColon, "expecting ':' after dictionary key")
	}
}

// parseParenOrLambda resolves the '(' ambiguity: a grouped expression,
// or an arrow function's parameter list. The decision is made after the
// close paren, when '=>' either scans or does not; the items collected
// inside are reinterpreted as parameters when it does.
//
func (ctx *parseContext) parseParenOrLambda(p *parser.Parser, lp token.Token) ast.Expr {
	ctx.depth++
	var items []ast.Expr
	var params []ast.Param
	typed := false
	if ctx.take(p, scanner.TokenRParen) == nil {
		for {
			e := ctx.parseExpr(p)
			prm := ast.Param{At: e.Pos()}
			if id, ok := e.(*ast.Ident); ok {
				prm.Name = id.Name
				if ctx.take(p, scanner.TokenColon) != nil {
					spec := ctx.expectType(p, scanner.TokenTypeSpec, "expecting type after ':'")
					prm.Type = strings.TrimSpace(spec.Value())
					typed = true
				}
				if ctx.take(p, scanner.TokenAssign) != nil {
					prm.Default = ctx.parseExpr(p)
					typed = true
				}
			}
			items = append(items, e)
			params = append(params, prm)
			end := ctx.take(p, scanner.TokenComma, scanner.TokenRParen)
			if end == nil {
				panic(ctx.parseError("expecting ',' or ')'"))
			}
			if end.Type() == scanner.TokenRParen {
				break
			}
		}
	}
	ctx.depth--
	if arrow := ctx.take(p, scanner.TokenArrow); arrow != nil {
		for _, e := range items {
			if _, ok := e.(*ast.Ident); !ok {
				panic(ctx.parseError("invalid arrow function parameter"))
			}
		}
		body, block := ctx.parseLambdaBody(p)
		return &ast.Lambda{ExprBase: exprAt(lp), Params: params, Body: body, Block: block}
	}
	if typed {
		panic(ctx.parseError("expecting '=>' after typed parameter list"))
	}
	if len(items) != 1 {
		panic(ctx.parseError("expecting a single expression in parentheses"))
	}
	return &ast.Paren{ExprBase: exprAt(lp), X: items[0]}
}

// parseLambdaBody parses what follows '=>': a single expression, or a
// braced form. The brace is a dict literal when its first word is
// followed by ':' (or is a string or number key), and a statement block
// otherwise. Returns exactly one non-nil result.
//
func (ctx *parseContext) parseLambdaBody(p *parser.Parser) (ast.Expr, []ast.Stmt) {
	lb := ctx.take(p, scanner.TokenLBrace)
	if lb == nil {
		return ctx.parseTernary(p, false), nil
	}
	node := &ast.DictLit{ExprBase: exprAt(lb)}
	ctx.depth++
	if ctx.take(p, scanner.TokenRBrace) != nil {
		ctx.depth--
		return node, nil
	}
	key := ctx.take(p, scanner.TokenString, scanner.TokenNumber, scanner.TokenIdent)
	if key != nil {
		if key.Type() != scanner.TokenIdent {
			ctx.depth--
			ctx.expectType(p, scanner.TokenColon, "expecting ':' after dictionary key")
			return ctx.parseDictRest(p, node, key), nil
		}
		if ctx.take(p, scanner.TokenColon) != nil {
			ctx.depth--
			return ctx.parseDictRest(p, node, key), nil
		}
	}
	ctx.depth--

	// Statement block. The block has its own lines, so elastic newline
	// handling is suspended until the closing brace.
	saved := ctx.depth
	ctx.depth = 0
	defer func() { ctx.depth = saved }()
	var body []ast.Stmt
	if key != nil {
		ctx.parseBlockHeadInto(p, &body, key)
	}
	if term := ctx.parseBlock(p, &body, scanner.TokenRBrace); term == nil {
		ctx.tree.Diags = append(ctx.tree.Diags, ast.Diag{At: at(lb), Msg: "missing '}'"})
	}
	return nil, body
}

// parseBlockHeadInto parses the block statement whose leading word was
// already consumed while probing for a dict key.
//
func (ctx *parseContext) parseBlockHeadInto(p *parser.Parser, out *[]ast.Stmt, t token.Token) {
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
	var stmt ast.Stmt
	canonical, ok := scanner.Canonical(t.Value())
	if !ok {
		stmt = ctx.parseLooseHead(p, t, true)
	} else {
		switch canonical {
		case "var", "const", "final", "let":
			stmt = ctx.parseVarDecl(p, t, canonical, false)
		case "if":
			stmt = ctx.parseIf(p, t)
		case "for":
			stmt = ctx.parseFor(p, t)
		case "while":
			stmt = ctx.parseWhile(p, t)
		case "return":
			stmt = ctx.parseReturn(p, t)
		case "break":
			ctx.endStatement(p)
			stmt = &ast.Break{StmtBase: stmtAt(t)}
		case "continue":
			ctx.endStatement(p)
			stmt = &ast.Continue{StmtBase: stmtAt(t)}
		default:
			stmt = ctx.parseCommand(p, t, canonical)
		}
	}
	if stmt != nil {
		*out = append(*out, stmt)
	}
	ctx.flushPending(out)
}
