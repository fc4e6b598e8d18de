package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Outline is the span-free shape of a node: what survives encoding.
type Outline struct {
	Kind     string         `json:"kind" msgpack:"kind"`
	Name     string         `json:"name,omitempty" msgpack:"name,omitempty"`
	Key      string         `json:"key,omitempty" msgpack:"key,omitempty"`
	Elif     bool           `json:"elif,omitempty" msgpack:"elif,omitempty"`
	HasElse  bool           `json:"has_else,omitempty" msgpack:"has_else,omitempty"`
	Expr     *ExprOutline   `json:"expr,omitempty" msgpack:"expr,omitempty"`
	Args     []*ExprOutline `json:"args,omitempty" msgpack:"args,omitempty"`
	Children []Outline      `json:"children,omitempty" msgpack:"children,omitempty"`
	Else     []Outline      `json:"else,omitempty" msgpack:"else,omitempty"`
}

// ExprOutline is the span-free shape of an expression.
type ExprOutline struct {
	Kind string         `json:"kind" msgpack:"kind"`
	Op   string         `json:"op,omitempty" msgpack:"op,omitempty"`
	Text string         `json:"text,omitempty" msgpack:"text,omitempty"`
	X    *ExprOutline   `json:"x,omitempty" msgpack:"x,omitempty"`
	Y    *ExprOutline   `json:"y,omitempty" msgpack:"y,omitempty"`
	Args []*ExprOutline `json:"args,omitempty" msgpack:"args,omitempty"`
}

// Outline projects the document content. Text and names are copied, spans
// and depths are dropped.
func (t *Tree) Outline() []Outline {
	return t.outlineList(t.Content())
}

func (t *Tree) outlineList(ids []NodeID) []Outline {
	if len(ids) == 0 {
		return nil
	}
	out := make([]Outline, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.outlineNode(id))
	}
	return out
}

func (t *Tree) outlineNode(id NodeID) Outline {
	n := t.Node(id)
	o := Outline{
		Kind:    n.Kind.String(),
		Name:    n.Name,
		Key:     n.Key,
		Elif:    n.Has(NodeElif),
		HasElse: n.Has(NodeHasElse),
	}
	if n.Expr.IsValid() {
		o.Expr = t.ExprOutline(n.Expr)
	}
	for _, a := range t.Args(n.Args) {
		o.Args = append(o.Args, t.ExprOutline(a))
	}
	o.Children = t.outlineList(t.Children(n.Children))
	o.Else = t.outlineList(t.Children(n.Else))
	return o
}

// ExprOutline projects one expression.
func (t *Tree) ExprOutline(id ExprID) *ExprOutline {
	e := t.Expr(id)
	if e == nil {
		return nil
	}
	o := &ExprOutline{Kind: e.Kind.String(), Text: e.Text}
	if e.Op != OpNone {
		o.Op = e.Op.String()
	}
	if e.X.IsValid() {
		o.X = t.ExprOutline(e.X)
	}
	if e.Y.IsValid() {
		o.Y = t.ExprOutline(e.Y)
	}
	for _, a := range t.Args(e.Args) {
		o.Args = append(o.Args, t.ExprOutline(a))
	}
	return o
}

// String renders the expression back in source syntax, fully parenthesised
// for binary operators.
func (e *ExprOutline) String() string {
	if e == nil {
		return "<nil>"
	}
	var sb strings.Builder
	e.write(&sb)
	return sb.String()
}

func (e *ExprOutline) write(sb *strings.Builder) {
	switch e.Kind {
	case "String":
		sb.WriteString(strconv.Quote(e.Text))
	case "Nil":
		sb.WriteString("nil")
	case "Member":
		e.X.write(sb)
		sb.WriteByte('.')
		sb.WriteString(e.Text)
	case "Call":
		e.X.write(sb)
		sb.WriteByte('(')
		for i, a := range e.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			a.write(sb)
		}
		sb.WriteByte(')')
	case "Binary":
		sb.WriteByte('(')
		e.X.write(sb)
		sb.WriteString(" " + e.Op + " ")
		e.Y.write(sb)
		sb.WriteByte(')')
	case "Unary":
		sb.WriteString(e.Op)
		e.X.write(sb)
	default:
		sb.WriteString(e.Text)
	}
}

// FprintOutline writes an indented, human-readable listing of nodes.
func FprintOutline(w io.Writer, nodes []Outline) error {
	var sb strings.Builder
	writeOutline(&sb, nodes, 0)
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeOutline(sb *strings.Builder, nodes []Outline, indent int) {
	pad := strings.Repeat("  ", indent)
	for i := range nodes {
		o := &nodes[i]
		sb.WriteString(pad)
		sb.WriteString(o.Kind)
		switch o.Kind {
		case "Text":
			fmt.Fprintf(sb, " %q", o.Name)
		case "Interpolation":
			fmt.Fprintf(sb, " %s", o.Expr)
		case "If":
			if o.Elif {
				sb.WriteString(" (elif)")
			}
			fmt.Fprintf(sb, " %s", o.Expr)
		case "For":
			if o.Key != "" {
				fmt.Fprintf(sb, " %s, %s in %s", o.Key, o.Name, o.Expr)
			} else {
				fmt.Fprintf(sb, " %s in %s", o.Name, o.Expr)
			}
		case "Call":
			args := make([]string, 0, len(o.Args))
			for _, a := range o.Args {
				args = append(args, a.String())
			}
			fmt.Fprintf(sb, " %s(%s)", o.Name, strings.Join(args, ", "))
		default:
			if o.Name != "" {
				sb.WriteString(" " + o.Name)
			}
		}
		sb.WriteByte('\n')
		writeOutline(sb, o.Children, indent+1)
		if o.HasElse {
			sb.WriteString(pad + "Else\n")
			writeOutline(sb, o.Else, indent+1)
		}
	}
}
