package ast

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes a readable indented dump of the tree, one node per
// line: kind, salient detail, position. Diagnostics follow the tree.
//
func Fprint(w io.Writer, t *Tree) {
	if t.Root != nil {
		fprintNode(w, t.Root, 0)
	}
	for _, d := range t.Diags {
		fmt.Fprintf(w, "! %d:%d %s\n", d.At.Line, d.At.Col, d.Msg)
	}
}

// Sprint renders the tree dump as a string; handy in tests.
//
func Sprint(t *Tree) string {
	var sb strings.Builder
	Fprint(&sb, t)
	return sb.String()
}

func fprintNode(w io.Writer, n Node, depth int) {
	if n == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	p := n.Pos()
	fmt.Fprintf(w, "%s%s [%d:%d]\n", indent, describe(n), p.Line, p.Col)
	for _, c := range children(n) {
		fprintNode(w, c, depth+1)
	}
}

// describe yields the one-line label for a node.
//
func describe(n Node) string {
	switch x := n.(type) {
	case *Script:
		return "Script"
	case *Vim9Script:
		return "Vim9Script"
	case *Comment:
		return fmt.Sprintf("Comment %q", x.Text)
	case *VarDecl:
		s := "VarDecl " + x.Kw
		if x.Export {
			s = "VarDecl export " + x.Kw
		}
		if x.Type != "" {
			s += fmt.Sprintf(" : %s", strings.TrimSpace(x.Type))
		}
		return s
	case *Assignment:
		return "Assignment " + x.Op
	case *FuncDef:
		kw := "def"
		if x.Legacy {
			kw = "function"
		}
		if x.Bang {
			kw += "!"
		}
		if x.Export {
			kw = "export " + kw
		}
		s := "FuncDef " + kw
		if x.RetType != "" {
			s += fmt.Sprintf(" : %s", strings.TrimSpace(x.RetType))
		}
		return s
	case *If:
		return "If"
	case *For:
		return "For"
	case *While:
		return "While"
	case *Return:
		return "Return"
	case *Break:
		return "Break"
	case *Continue:
		return "Continue"
	case *ExCmd:
		s := "ExCmd " + x.Canonical
		if x.Name != x.Canonical {
			s += fmt.Sprintf(" (%s)", x.Name)
		}
		if x.Bang {
			s += " !"
		}
		if x.Tail != "" {
			s += fmt.Sprintf(" tail=%q", x.Tail)
		}
		return s
	case *SubstCmd:
		return fmt.Sprintf("SubstCmd %s sep=%q pat=%q rep=%q flags=%q",
			x.Canonical, x.Sep, x.Pattern, x.Replace, x.Flags)
	case *GlobalCmd:
		return fmt.Sprintf("GlobalCmd %s sep=%q pat=%q", x.Canonical, x.Sep, x.Pattern)
	case *ExprStmt:
		return "ExprStmt"
	case *Bad:
		return fmt.Sprintf("Bad %q", x.Text)
	case *NumberLit:
		return "Number " + x.Text
	case *FloatLit:
		return "Float " + x.Text
	case *StringLit:
		return fmt.Sprintf("String %s", x.Text)
	case *Ident:
		return "Ident " + x.Name
	case *ScopeVar:
		return "ScopeVar " + x.Scope + x.Name
	case *ScopeDict:
		return "ScopeDict " + x.Scope
	case *OptionExpr:
		return "Option " + x.Name
	case *EnvExpr:
		return "Env " + x.Name
	case *KeyExpr:
		return "Key " + x.Name
	case *ListLit:
		return "List"
	case *DictLit:
		return "Dict"
	case *Call:
		return "Call"
	case *MethodCall:
		return "MethodCall"
	case *Index:
		return "Index"
	case *Slice:
		return "Slice"
	case *Entry:
		return "Entry ." + x.Key
	case *Unary:
		return "Unary " + x.Op
	case *Binary:
		return "Binary " + x.Op
	case *Ternary:
		return "Ternary"
	case *Lambda:
		names := make([]string, len(x.Params))
		for i, p := range x.Params {
			names[i] = p.Name
		}
		return "Lambda (" + strings.Join(names, ", ") + ")"
	case *Paren:
		return "Paren"
	case *Heredoc:
		s := "Heredoc " + x.Marker
		if x.Trim {
			s += " trim"
		}
		if x.Eval {
			s += " eval"
		}
		return fmt.Sprintf("%s lines=%d", s, len(x.Lines))
	case *BadExpr:
		return fmt.Sprintf("BadExpr %q", x.Text)
	default:
		return fmt.Sprintf("%T", n)
	}
}

// children returns the direct child nodes in source order.
//
func children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		switch v := c.(type) {
		case nil:
		case Stmt:
			if v != nil {
				out = append(out, c)
			}
		case Expr:
			if v != nil {
				out = append(out, c)
			}
		default:
			out = append(out, c)
		}
	}
	switch x := n.(type) {
	case *Script:
		for _, s := range x.Stmts {
			add(s)
		}
	case *VarDecl:
		for _, e := range x.Targets {
			add(e)
		}
		add(x.Init)
	case *Assignment:
		for _, e := range x.Targets {
			add(e)
		}
		add(x.Value)
	case *FuncDef:
		add(x.Name)
		for _, p := range x.Params {
			add(p.Default)
		}
		for _, s := range x.Body {
			add(s)
		}
	case *If:
		add(x.Cond)
		for _, s := range x.Then {
			add(s)
		}
		for _, ei := range x.ElseIfs {
			add(ei.Cond)
			for _, s := range ei.Body {
				add(s)
			}
		}
		for _, s := range x.Else {
			add(s)
		}
	case *For:
		for _, e := range x.Targets {
			add(e)
		}
		add(x.Iter)
		for _, s := range x.Body {
			add(s)
		}
	case *While:
		add(x.Cond)
		for _, s := range x.Body {
			add(s)
		}
	case *Return:
		add(x.Value)
	case *ExCmd:
		for _, a := range x.Args {
			add(a)
		}
	case *GlobalCmd:
		add(x.Cmd)
	case *ExprStmt:
		add(x.X)
	case *ListLit:
		for _, e := range x.Items {
			add(e)
		}
	case *DictLit:
		for _, e := range x.Entries {
			add(e.Key)
			add(e.Value)
		}
	case *Call:
		add(x.Fn)
		for _, e := range x.Args {
			add(e)
		}
	case *MethodCall:
		add(x.Recv)
		add(x.Fn)
		for _, e := range x.Args {
			add(e)
		}
	case *Index:
		add(x.X)
		add(x.Idx)
	case *Slice:
		add(x.X)
		add(x.Low)
		add(x.High)
	case *Entry:
		add(x.X)
	case *Unary:
		add(x.X)
	case *Binary:
		add(x.X)
		add(x.Y)
	case *Ternary:
		add(x.Cond)
		add(x.Then)
		add(x.Else)
	case *Lambda:
		for _, p := range x.Params {
			add(p.Default)
		}
		add(x.Body)
		for _, s := range x.Block {
			add(s)
		}
	case *Paren:
		add(x.X)
	}
	return out
}
