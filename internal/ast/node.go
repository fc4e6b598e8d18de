package ast

import (
	"frel/internal/source"
)

type NodeKind uint8

const (
	NodeDocument NodeKind = iota
	NodeText
	NodeInterp
	NodeIf
	NodeFor
	NodeInclude
	NodeCall
	NodeFragment
)

var nodeKindNames = [...]string{
	NodeDocument: "Document",
	NodeText:     "Text",
	NodeInterp:   "Interpolation",
	NodeIf:       "If",
	NodeFor:      "For",
	NodeInclude:  "Include",
	NodeCall:     "Call",
	NodeFragment: "Fragment",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "Unknown"
}

// IsBlock reports whether the kind owns a body closed by {% end %}.
func (k NodeKind) IsBlock() bool {
	return k == NodeIf || k == NodeFor || k == NodeFragment
}

type NodeFlags uint8

const (
	// NodeElif marks an If created by {% elif %}; it is the only child of its
	// parent's else branch and shares the parent's depth.
	NodeElif NodeFlags = 1 << iota
	// NodeHasElse is set on an If that has an else or elif branch.
	NodeHasElse
	// NodeQuoted marks an include whose target was written as a string literal.
	NodeQuoted
)

// Node is one entry of the node arena. Field use depends on Kind:
//
//	Text      Name = decoded text
//	Interp    Expr
//	If        Expr = condition, Children = then, Else = else branch
//	For       Name = item variable, Key = key variable (optional), Expr = iterable, Children = body
//	Include   Name = target
//	Call      Name = target, Args
//	Fragment  Name, Children = body
//	Document  Children
type Node struct {
	Kind     NodeKind
	Flags    NodeFlags
	Span     source.Span
	Depth    uint32
	Name     string
	NameSpan source.Span
	Key      string
	Expr     ExprID
	Children Range
	Else     Range
	Args     Range
}

func (n *Node) Has(f NodeFlags) bool { return n.Flags&f != 0 }

// IsReference reports whether the node names another fragment.
func (n *Node) IsReference() bool {
	return n.Kind == NodeInclude || n.Kind == NodeCall
}

// IsBlock reports whether the node opens a body closed by {% end %}.
func (n *Node) IsBlock() bool {
	return n.Kind == NodeIf || n.Kind == NodeFor || n.Kind == NodeFragment
}
