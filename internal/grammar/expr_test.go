package grammar

import (
	"testing"

	"github.com/vimtools/vimtree/internal/ast"
)

// parseExprSrc parses a single expression by wrapping it in a var
// declaration and unwrapping the initializer.
//
func parseExprSrc(t *testing.T, src string) ast.Expr {
	t.Helper()
	tree := ParseBytes([]byte("var x = " + src + "\n"))
	for _, d := range tree.Diags {
		t.Fatalf("unexpected diagnostic %d:%d %s", d.At.Line, d.At.Col, d.Msg)
	}
	decl, ok := tree.Root.Stmts[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("got %T, want *ast.VarDecl", tree.Root.Stmts[0])
	}
	return decl.Init
}

func binaryOp(t *testing.T, x ast.Expr, op string) *ast.Binary {
	t.Helper()
	b, ok := x.(*ast.Binary)
	if !ok {
		t.Fatalf("got %T, want *ast.Binary", x)
	}
	if b.Op != op {
		t.Fatalf("op = %q, want %q", b.Op, op)
	}
	return b
}

func TestMulBindsTighterThanAdd(t *testing.T) {
	b := binaryOp(t, parseExprSrc(t, "1 + 2 * 3"), "+")
	if _, ok := b.X.(*ast.NumberLit); !ok {
		t.Errorf("left %T, want *ast.NumberLit", b.X)
	}
	binaryOp(t, b.Y, "*")
}

func TestAdditionLeftAssociative(t *testing.T) {
	b := binaryOp(t, parseExprSrc(t, "1 - 2 + 3"), "+")
	binaryOp(t, b.X, "-")
}

func TestParenGrouping(t *testing.T) {
	b := binaryOp(t, parseExprSrc(t, "(1 + 2) * 3"), "*")
	paren, ok := b.X.(*ast.Paren)
	if !ok {
		t.Fatalf("left %T, want *ast.Paren", b.X)
	}
	binaryOp(t, paren.X, "+")
}

func TestConcatBelowComparison(t *testing.T) {
	// comparison binds looser, so the concat is the left operand
	b := binaryOp(t, parseExprSrc(t, "'a' .. b == 'ab'"), "==")
	binaryOp(t, b.X, "..")
}

func TestLogicalPrecedence(t *testing.T) {
	b := binaryOp(t, parseExprSrc(t, "a || b && c"), "||")
	binaryOp(t, b.Y, "&&")
}

func TestComparisonDoesNotChain(t *testing.T) {
	tree := ParseBytes([]byte("var x = a == b == c\n"))
	if len(tree.Diags) == 0 {
		t.Fatal("chained comparison parsed without a diagnostic")
	}
}

func TestCaseSuffixOperators(t *testing.T) {
	binaryOp(t, parseExprSrc(t, "a ==# b"), "==#")
	binaryOp(t, parseExprSrc(t, "a =~? b"), "=~?")
	binaryOp(t, parseExprSrc(t, "a ># b"), ">#")
}

func TestTernary(t *testing.T) {
	x := parseExprSrc(t, "ok ? 1 : 2")
	tern, ok := x.(*ast.Ternary)
	if !ok {
		t.Fatalf("got %T, want *ast.Ternary", x)
	}
	if _, ok := tern.Cond.(*ast.Ident); !ok {
		t.Errorf("cond %T, want *ast.Ident", tern.Cond)
	}
}

func TestUnaryNot(t *testing.T) {
	x := parseExprSrc(t, "!empty(s)")
	u, ok := x.(*ast.Unary)
	if !ok || u.Op != "!" {
		t.Fatalf("got %v, want unary !", x)
	}
	if _, ok := u.X.(*ast.Call); !ok {
		t.Errorf("operand %T, want *ast.Call", u.X)
	}
}

func TestUnaryMinusVersusBinary(t *testing.T) {
	b := binaryOp(t, parseExprSrc(t, "a - -1"), "-")
	if _, ok := b.Y.(*ast.Unary); !ok {
		t.Errorf("right %T, want *ast.Unary", b.Y)
	}
}

func TestCallArgs(t *testing.T) {
	x := parseExprSrc(t, "printf('%d', n)")
	call := x.(*ast.Call)
	if len(call.Args) != 2 {
		t.Fatalf("got %d args, want 2", len(call.Args))
	}
}

func TestNestedCall(t *testing.T) {
	x := parseExprSrc(t, "len(keys(d))")
	outer := x.(*ast.Call)
	if _, ok := outer.Args[0].(*ast.Call); !ok {
		t.Errorf("arg %T, want *ast.Call", outer.Args[0])
	}
}

func TestMethodChain(t *testing.T) {
	x := parseExprSrc(t, "xs->filter(Pred)->len()")
	outer, ok := x.(*ast.MethodCall)
	if !ok {
		t.Fatalf("got %T, want *ast.MethodCall", x)
	}
	if fn, ok := outer.Fn.(*ast.Ident); !ok || fn.Name != "len" {
		t.Errorf("outer fn %v, want len", outer.Fn)
	}
	inner, ok := outer.Recv.(*ast.MethodCall)
	if !ok {
		t.Fatalf("receiver %T, want *ast.MethodCall", outer.Recv)
	}
	if len(inner.Args) != 1 {
		t.Errorf("inner args %v", inner.Args)
	}
}

func TestIndexAndEntry(t *testing.T) {
	x := parseExprSrc(t, "d.items[0]")
	idx, ok := x.(*ast.Index)
	if !ok {
		t.Fatalf("got %T, want *ast.Index", x)
	}
	entry, ok := idx.X.(*ast.Entry)
	if !ok || entry.Key != "items" {
		t.Fatalf("base %v, want entry .items", idx.X)
	}
}

func TestSliceForms(t *testing.T) {
	tests := []struct {
		src      string
		low, high bool
	}{
		{"xs[1 : 3]", true, true},
		{"xs[1 :]", true, false},
		{"xs[: 3]", false, true},
		{"xs[:]", false, false},
	}
	for _, tc := range tests {
		x := parseExprSrc(t, tc.src)
		sl, ok := x.(*ast.Slice)
		if !ok {
			t.Errorf("%s: got %T, want *ast.Slice", tc.src, x)
			continue
		}
		if (sl.Low != nil) != tc.low || (sl.High != nil) != tc.high {
			t.Errorf("%s: low=%v high=%v", tc.src, sl.Low != nil, sl.High != nil)
		}
	}
}

func TestListLiteral(t *testing.T) {
	x := parseExprSrc(t, "[1, 'two', [3]]")
	list := x.(*ast.ListLit)
	if len(list.Items) != 3 {
		t.Fatalf("got %d items, want 3", len(list.Items))
	}
	if _, ok := list.Items[2].(*ast.ListLit); !ok {
		t.Errorf("third item %T, want *ast.ListLit", list.Items[2])
	}
}

func TestDictLiteral(t *testing.T) {
	x := parseExprSrc(t, "{name: 'x', 'count': 3}")
	d := x.(*ast.DictLit)
	if len(d.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(d.Entries))
	}
}

func TestTrailingCommaInList(t *testing.T) {
	x := parseExprSrc(t, "[1, 2,]")
	list := x.(*ast.ListLit)
	if len(list.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(list.Items))
	}
}

func TestLambda(t *testing.T) {
	x := parseExprSrc(t, "(a, b) => a + b")
	fn, ok := x.(*ast.Lambda)
	if !ok {
		t.Fatalf("got %T, want *ast.Lambda", x)
	}
	if len(fn.Params) != 2 || fn.Params[0].Name != "a" {
		t.Fatalf("params %v", fn.Params)
	}
	binaryOp(t, fn.Body, "+")
}

func TestTypedLambda(t *testing.T) {
	x := parseExprSrc(t, "(n: number) => n * 2")
	fn, ok := x.(*ast.Lambda)
	if !ok {
		t.Fatalf("got %T, want *ast.Lambda", x)
	}
	if fn.Params[0].Type != "number" {
		t.Errorf("param type %q, want number", fn.Params[0].Type)
	}
}

func TestParenIsNotLambda(t *testing.T) {
	x := parseExprSrc(t, "(n)")
	if _, ok := x.(*ast.Paren); !ok {
		t.Fatalf("got %T, want *ast.Paren", x)
	}
}

func TestLambdaBlockBody(t *testing.T) {
	x := parseExprSrc(t, "(a) => {\n  echo a\n}")
	fn, ok := x.(*ast.Lambda)
	if !ok {
		t.Fatalf("got %T, want *ast.Lambda", x)
	}
	if fn.Body != nil {
		t.Fatalf("body %v, want a statement block", fn.Body)
	}
	if len(fn.Block) != 1 {
		t.Fatalf("block has %d statements, want 1", len(fn.Block))
	}
	cmd, ok := fn.Block[0].(*ast.ExCmd)
	if !ok || cmd.Canonical != "echo" {
		t.Errorf("block statement %v, want echo", fn.Block[0])
	}
}

func TestLambdaBlockMultiStatement(t *testing.T) {
	src := "(items) => {\n  var total = 0\n  for x in items\n    total += x\n  endfor\n  return total\n}"
	fn := parseExprSrc(t, src).(*ast.Lambda)
	if len(fn.Block) != 3 {
		t.Fatalf("block has %d statements, want decl + for + return", len(fn.Block))
	}
	if _, ok := fn.Block[0].(*ast.VarDecl); !ok {
		t.Errorf("first is %T, want *ast.VarDecl", fn.Block[0])
	}
	if _, ok := fn.Block[1].(*ast.For); !ok {
		t.Errorf("second is %T, want *ast.For", fn.Block[1])
	}
	if _, ok := fn.Block[2].(*ast.Return); !ok {
		t.Errorf("third is %T, want *ast.Return", fn.Block[2])
	}
}

func TestLambdaDictBody(t *testing.T) {
	fn := parseExprSrc(t, "(a) => {key: a}").(*ast.Lambda)
	if fn.Block != nil {
		t.Fatalf("block %v, want an expression body", fn.Block)
	}
	d, ok := fn.Body.(*ast.DictLit)
	if !ok {
		t.Fatalf("body %T, want *ast.DictLit", fn.Body)
	}
	if len(d.Entries) != 1 {
		t.Fatalf("entries %v", d.Entries)
	}
	if id, ok := d.Entries[0].Key.(*ast.Ident); !ok || id.Name != "key" {
		t.Errorf("key %v, want Ident key", d.Entries[0].Key)
	}
}

func TestLambdaStringKeyDictBody(t *testing.T) {
	fn := parseExprSrc(t, "(a) => {'k': a, 'j': 2}").(*ast.Lambda)
	d, ok := fn.Body.(*ast.DictLit)
	if !ok {
		t.Fatalf("body %T, want *ast.DictLit", fn.Body)
	}
	if len(d.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(d.Entries))
	}
}

func TestLambdaAsArgument(t *testing.T) {
	x := parseExprSrc(t, "map(xs, (_, v) => v + 1)")
	call := x.(*ast.Call)
	if _, ok := call.Args[1].(*ast.Lambda); !ok {
		t.Errorf("second arg %T, want *ast.Lambda", call.Args[1])
	}
}

func TestScopeVarExpr(t *testing.T) {
	x := parseExprSrc(t, "g:loaded_plugin")
	sv, ok := x.(*ast.ScopeVar)
	if !ok || sv.Scope != "g:" || sv.Name != "loaded_plugin" {
		t.Fatalf("got %v, want g:loaded_plugin", x)
	}
}

func TestOptionAndEnvExpr(t *testing.T) {
	if _, ok := parseExprSrc(t, "&textwidth").(*ast.OptionExpr); !ok {
		t.Error("&textwidth did not parse as option")
	}
	if _, ok := parseExprSrc(t, "$HOME").(*ast.EnvExpr); !ok {
		t.Error("$HOME did not parse as environment variable")
	}
}

func TestFloatLiteral(t *testing.T) {
	x := parseExprSrc(t, "1.5e-3")
	f, ok := x.(*ast.FloatLit)
	if !ok || f.Text != "1.5e-3" {
		t.Fatalf("got %v, want float 1.5e-3", x)
	}
}

func TestHexLiteral(t *testing.T) {
	x := parseExprSrc(t, "0xFF")
	n, ok := x.(*ast.NumberLit)
	if !ok || n.Text != "0xFF" {
		t.Fatalf("got %v, want number 0xFF", x)
	}
}

func TestStringConcat(t *testing.T) {
	b := binaryOp(t, parseExprSrc(t, "'a' .. 'b' .. 'c'"), "..")
	binaryOp(t, b.X, "..")
}
