package ast

import (
	"strings"

	"github.com/tidwall/sjson"
)

// MarshalJSON-style encoding of the tree, built with sjson so the
// output shape stays queryable with gjson path expressions:
// root.stmts.0.kind, root.stmts.#(kind=="FuncDef").name, ...
//
// Every node object carries "kind", "line" and "col"; the remaining
// fields depend on the kind and match the describe() vocabulary.

// Marshal encodes a tree to JSON.
//
func Marshal(t *Tree) ([]byte, error) {
	o := newObj("Tree", Pos{})
	o.setRaw("root", marshalNode(t.Root))
	diags := []byte(`[]`)
	for _, d := range t.Diags {
		b := newObj("Diag", d.At)
		b.set("msg", d.Msg)
		var err error
		diags, err = sjson.SetRawBytes(diags, "-1", b.bytes())
		if err != nil {
			return nil, err
		}
	}
	o.setRaw("diags", diags)
	return o.bytes(), o.err
}

// obj accumulates one JSON object; the first error sticks.
//
type obj struct {
	b   []byte
	err error
}

func newObj(kind string, p Pos) *obj {
	o := &obj{b: []byte(`{}`)}
	o.set("kind", kind)
	if p.Line > 0 {
		o.set("line", p.Line)
		o.set("col", p.Col)
	}
	return o
}

func (o *obj) set(path string, v interface{}) {
	if o.err != nil {
		return
	}
	o.b, o.err = sjson.SetBytes(o.b, path, v)
}

func (o *obj) setRaw(path string, raw []byte) {
	if o.err != nil {
		return
	}
	o.b, o.err = sjson.SetRawBytes(o.b, path, raw)
}

func (o *obj) bytes() []byte {
	return o.b
}

func marshalNode(n Node) []byte {
	if n == nil {
		return []byte(`null`)
	}
	switch x := n.(type) {
	case *Script:
		o := newObj("Script", x.At)
		o.setRaw("stmts", marshalStmts(x.Stmts))
		return o.bytes()
	case *Vim9Script:
		return newObj("Vim9Script", x.At).bytes()
	case *Comment:
		o := newObj("Comment", x.At)
		o.set("text", x.Text)
		return o.bytes()
	case *VarDecl:
		o := newObj("VarDecl", x.At)
		o.set("kw", x.Kw)
		if x.Export {
			o.set("export", true)
		}
		o.setRaw("targets", marshalExprs(x.Targets))
		if x.Type != "" {
			o.set("typeSpec", strings.TrimSpace(x.Type))
		}
		if x.Op != "" {
			o.set("op", x.Op)
		}
		if x.Init != nil {
			o.setRaw("init", marshalNode(x.Init))
		}
		return o.bytes()
	case *Assignment:
		o := newObj("Assignment", x.At)
		o.set("op", x.Op)
		o.setRaw("targets", marshalExprs(x.Targets))
		o.setRaw("value", marshalNode(x.Value))
		return o.bytes()
	case *FuncDef:
		o := newObj("FuncDef", x.At)
		if x.Export {
			o.set("export", true)
		}
		if x.Legacy {
			o.set("legacy", true)
		}
		if x.Bang {
			o.set("bang", true)
		}
		o.setRaw("name", marshalNode(x.Name))
		o.setRaw("params", marshalParams(x.Params))
		if x.RetType != "" {
			o.set("returnType", strings.TrimSpace(x.RetType))
		}
		o.setRaw("body", marshalStmts(x.Body))
		return o.bytes()
	case *If:
		o := newObj("If", x.At)
		o.setRaw("cond", marshalNode(x.Cond))
		o.setRaw("then", marshalStmts(x.Then))
		if len(x.ElseIfs) > 0 {
			arms := []byte(`[]`)
			for _, ei := range x.ElseIfs {
				a := newObj("ElseIf", ei.At)
				a.setRaw("cond", marshalNode(ei.Cond))
				a.setRaw("body", marshalStmts(ei.Body))
				arms, _ = sjson.SetRawBytes(arms, "-1", a.bytes())
			}
			o.setRaw("elseifs", arms)
		}
		if x.Else != nil {
			o.setRaw("else", marshalStmts(x.Else))
		}
		return o.bytes()
	case *For:
		o := newObj("For", x.At)
		o.setRaw("targets", marshalExprs(x.Targets))
		o.setRaw("iter", marshalNode(x.Iter))
		o.setRaw("body", marshalStmts(x.Body))
		return o.bytes()
	case *While:
		o := newObj("While", x.At)
		o.setRaw("cond", marshalNode(x.Cond))
		o.setRaw("body", marshalStmts(x.Body))
		return o.bytes()
	case *Return:
		o := newObj("Return", x.At)
		if x.Value != nil {
			o.setRaw("value", marshalNode(x.Value))
		}
		return o.bytes()
	case *Break:
		return newObj("Break", x.At).bytes()
	case *Continue:
		return newObj("Continue", x.At).bytes()
	case *ExCmd:
		o := newObj("ExCmd", x.At)
		o.set("name", x.Name)
		o.set("canonical", x.Canonical)
		if x.Bang {
			o.set("bang", true)
		}
		if len(x.Args) > 0 {
			args := []byte(`[]`)
			for _, a := range x.Args {
				args, _ = sjson.SetRawBytes(args, "-1", marshalNode(a))
			}
			o.setRaw("args", args)
		}
		if x.Tail != "" {
			o.set("tail", x.Tail)
		}
		return o.bytes()
	case *SubstCmd:
		o := newObj("SubstCmd", x.At)
		o.set("canonical", x.Canonical)
		o.set("sep", x.Sep)
		o.set("pattern", x.Pattern)
		if x.Replace != "" {
			o.set("replace", x.Replace)
		}
		if x.Flags != "" {
			o.set("flags", x.Flags)
		}
		return o.bytes()
	case *GlobalCmd:
		o := newObj("GlobalCmd", x.At)
		o.set("canonical", x.Canonical)
		o.set("invert", x.Invert)
		o.set("sep", x.Sep)
		o.set("pattern", x.Pattern)
		if x.Cmd != nil {
			o.setRaw("cmd", marshalNode(x.Cmd))
		}
		return o.bytes()
	case *ExprStmt:
		o := newObj("ExprStmt", x.At)
		o.setRaw("x", marshalNode(x.X))
		return o.bytes()
	case *Bad:
		o := newObj("Bad", x.At)
		o.set("text", x.Text)
		return o.bytes()
	case *NumberLit:
		o := newObj("Number", x.At)
		o.set("text", x.Text)
		return o.bytes()
	case *FloatLit:
		o := newObj("Float", x.At)
		o.set("text", x.Text)
		return o.bytes()
	case *StringLit:
		o := newObj("String", x.At)
		o.set("text", x.Text)
		return o.bytes()
	case *Ident:
		o := newObj("Ident", x.At)
		o.set("name", x.Name)
		return o.bytes()
	case *ScopeVar:
		o := newObj("ScopeVar", x.At)
		o.set("scope", x.Scope)
		o.set("name", x.Name)
		return o.bytes()
	case *ScopeDict:
		o := newObj("ScopeDict", x.At)
		o.set("scope", x.Scope)
		return o.bytes()
	case *OptionExpr:
		o := newObj("Option", x.At)
		o.set("name", x.Name)
		return o.bytes()
	case *EnvExpr:
		o := newObj("Env", x.At)
		o.set("name", x.Name)
		return o.bytes()
	case *KeyExpr:
		o := newObj("Key", x.At)
		o.set("name", x.Name)
		return o.bytes()
	case *ListLit:
		o := newObj("List", x.At)
		o.setRaw("items", marshalExprs(x.Items))
		return o.bytes()
	case *DictLit:
		o := newObj("Dict", x.At)
		entries := []byte(`[]`)
		for _, e := range x.Entries {
			b := newObj("Entry", e.At)
			b.setRaw("key", marshalNode(e.Key))
			b.setRaw("value", marshalNode(e.Value))
			entries, _ = sjson.SetRawBytes(entries, "-1", b.bytes())
		}
		o.setRaw("entries", entries)
		return o.bytes()
	case *Call:
		o := newObj("Call", x.At)
		o.setRaw("fn", marshalNode(x.Fn))
		o.setRaw("args", marshalExprs(x.Args))
		return o.bytes()
	case *MethodCall:
		o := newObj("MethodCall", x.At)
		o.setRaw("recv", marshalNode(x.Recv))
		o.setRaw("fn", marshalNode(x.Fn))
		o.setRaw("args", marshalExprs(x.Args))
		return o.bytes()
	case *Index:
		o := newObj("Index", x.At)
		o.setRaw("x", marshalNode(x.X))
		o.setRaw("idx", marshalNode(x.Idx))
		return o.bytes()
	case *Slice:
		o := newObj("Slice", x.At)
		o.setRaw("x", marshalNode(x.X))
		if x.Low != nil {
			o.setRaw("low", marshalNode(x.Low))
		}
		if x.High != nil {
			o.setRaw("high", marshalNode(x.High))
		}
		return o.bytes()
	case *Entry:
		o := newObj("Entry", x.At)
		o.setRaw("x", marshalNode(x.X))
		o.set("key", x.Key)
		return o.bytes()
	case *Unary:
		o := newObj("Unary", x.At)
		o.set("op", x.Op)
		o.setRaw("x", marshalNode(x.X))
		return o.bytes()
	case *Binary:
		o := newObj("Binary", x.At)
		o.set("op", x.Op)
		o.setRaw("x", marshalNode(x.X))
		o.setRaw("y", marshalNode(x.Y))
		return o.bytes()
	case *Ternary:
		o := newObj("Ternary", x.At)
		o.setRaw("cond", marshalNode(x.Cond))
		o.setRaw("then", marshalNode(x.Then))
		o.setRaw("else", marshalNode(x.Else))
		return o.bytes()
	case *Lambda:
		o := newObj("Lambda", x.At)
		o.setRaw("params", marshalParams(x.Params))
		if x.Block != nil {
			o.setRaw("block", marshalStmts(x.Block))
		} else {
			o.setRaw("body", marshalNode(x.Body))
		}
		return o.bytes()
	case *Paren:
		o := newObj("Paren", x.At)
		o.setRaw("x", marshalNode(x.X))
		return o.bytes()
	case *Heredoc:
		o := newObj("Heredoc", x.At)
		o.set("marker", x.Marker)
		if x.Trim {
			o.set("trim", true)
		}
		if x.Eval {
			o.set("eval", true)
		}
		o.set("lines", x.Lines)
		return o.bytes()
	case *BadExpr:
		o := newObj("BadExpr", x.At)
		o.set("text", x.Text)
		return o.bytes()
	default:
		return newObj("Unknown", n.Pos()).bytes()
	}
}

func marshalStmts(stmts []Stmt) []byte {
	out := []byte(`[]`)
	for _, s := range stmts {
		out, _ = sjson.SetRawBytes(out, "-1", marshalNode(s))
	}
	return out
}

func marshalExprs(exprs []Expr) []byte {
	out := []byte(`[]`)
	for _, e := range exprs {
		out, _ = sjson.SetRawBytes(out, "-1", marshalNode(e))
	}
	return out
}

func marshalParams(params []Param) []byte {
	out := []byte(`[]`)
	for _, p := range params {
		b := newObj("Param", p.At)
		b.set("name", p.Name)
		if p.Type != "" {
			b.set("typeSpec", strings.TrimSpace(p.Type))
		}
		if p.Default != nil {
			b.setRaw("default", marshalNode(p.Default))
		}
		out, _ = sjson.SetRawBytes(out, "-1", b.bytes())
	}
	return out
}
