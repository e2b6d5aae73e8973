package ast

// Walk calls fn on n, then on each child in source order, as long as fn
// keeps returning true. A false return prunes the subtree, not the walk.
//
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch x := n.(type) {
	case *Script:
		walkStmts(x.Stmts, fn)
	case *VarDecl:
		walkExprs(x.Targets, fn)
		Walk(x.Init, fn)
	case *Assignment:
		walkExprs(x.Targets, fn)
		Walk(x.Value, fn)
	case *FuncDef:
		Walk(x.Name, fn)
		walkParams(x.Params, fn)
		walkStmts(x.Body, fn)
	case *If:
		Walk(x.Cond, fn)
		walkStmts(x.Then, fn)
		for _, ei := range x.ElseIfs {
			Walk(ei.Cond, fn)
			walkStmts(ei.Body, fn)
		}
		walkStmts(x.Else, fn)
	case *For:
		walkExprs(x.Targets, fn)
		Walk(x.Iter, fn)
		walkStmts(x.Body, fn)
	case *While:
		Walk(x.Cond, fn)
		walkStmts(x.Body, fn)
	case *Return:
		Walk(x.Value, fn)
	case *ExCmd:
		for _, a := range x.Args {
			Walk(a, fn)
		}
	case *GlobalCmd:
		Walk(x.Cmd, fn)
	case *ExprStmt:
		Walk(x.X, fn)
	case *ListLit:
		walkExprs(x.Items, fn)
	case *DictLit:
		for _, e := range x.Entries {
			Walk(e.Key, fn)
			Walk(e.Value, fn)
		}
	case *Call:
		Walk(x.Fn, fn)
		walkExprs(x.Args, fn)
	case *MethodCall:
		Walk(x.Recv, fn)
		Walk(x.Fn, fn)
		walkExprs(x.Args, fn)
	case *Index:
		Walk(x.X, fn)
		Walk(x.Idx, fn)
	case *Slice:
		Walk(x.X, fn)
		Walk(x.Low, fn)
		Walk(x.High, fn)
	case *Entry:
		Walk(x.X, fn)
	case *Unary:
		Walk(x.X, fn)
	case *Binary:
		Walk(x.X, fn)
		Walk(x.Y, fn)
	case *Ternary:
		Walk(x.Cond, fn)
		Walk(x.Then, fn)
		Walk(x.Else, fn)
	case *Lambda:
		walkParams(x.Params, fn)
		Walk(x.Body, fn)
		walkStmts(x.Block, fn)
	case *Paren:
		Walk(x.X, fn)
	}
}

func walkStmts(stmts []Stmt, fn func(Node) bool) {
	for _, s := range stmts {
		Walk(s, fn)
	}
}

func walkExprs(exprs []Expr, fn func(Node) bool) {
	for _, e := range exprs {
		Walk(e, fn)
	}
}

func walkParams(params []Param, fn func(Node) bool) {
	for _, p := range params {
		Walk(p.Default, fn)
	}
}

// Count returns the number of nodes in the subtree rooted at n.
//
func Count(n Node) int {
	c := 0
	Walk(n, func(Node) bool { c++; return true })
	return c
}
