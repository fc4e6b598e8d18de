package fir

import (
	"encoding/binary"
	"fmt"
	"math"

	"frel/internal/ast"

	"fortio.org/safecast"
	"github.com/cespare/xxhash/v2"
)

type Options struct {
	// MaxBlobSize bounds the whole blob; 0 means no limit.
	MaxBlobSize uint64
	// Resolved lists include/call nodes whose target exists; others are
	// encoded with resolved=0.
	Resolved map[ast.NodeID]bool
}

type encoder struct {
	tree    *ast.Tree
	opts    Options
	pool    *pool
	nodes   []byte
	records uint32
	flags   uint16
}

type workKind uint8

const (
	workNode workKind = iota
	workPatch
)

// work is one step of the pre-order traversal: either emit a node or write
// the current record count into a previously reserved end slot.
type work struct {
	kind    workKind
	node    ast.NodeID
	patchAt int
}

// Encode serializes the document content of tree. The traversal is a single
// pre-order pass that fills the string pool and the node table together.
// Identical trees always produce identical bytes.
func Encode(tree *ast.Tree, opts Options) (Blob, error) {
	e := &encoder{tree: tree, opts: opts, pool: newPool()}
	if err := e.encodeContent(); err != nil {
		return nil, err
	}
	return e.assemble()
}

func (e *encoder) encodeContent() error {
	content := e.tree.Content()
	stack := make([]work, 0, len(content))
	for i := len(content) - 1; i >= 0; i-- {
		stack = append(stack, work{kind: workNode, node: content[i]})
	}
	for len(stack) > 0 {
		w := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if w.kind == workPatch {
			binary.LittleEndian.PutUint32(e.nodes[w.patchAt:], e.records)
			continue
		}
		var err error
		stack, err = e.encodeNode(w.node, stack)
		if err != nil {
			return err
		}
	}
	return nil
}

// encodeNode writes one record and pushes its children (and end patches)
// onto the work stack in reverse order.
func (e *encoder) encodeNode(id ast.NodeID, stack []work) ([]work, error) {
	n := e.tree.Node(id)
	tag, ok := nodeTags[n.Kind]
	if !ok {
		return nil, &EncodeError{Kind: UnsupportedConstruct, Detail: fmt.Sprintf("%s node inside document content", n.Kind)}
	}
	if e.records == math.MaxUint32 {
		return nil, &EncodeError{Kind: PayloadTooLarge, Detail: "too many node records"}
	}
	e.records++
	e.nodes = append(e.nodes, byte(tag))

	switch n.Kind {
	case ast.NodeText:
		return stack, e.str(n.Name)

	case ast.NodeInterp:
		return stack, e.expr(n.Expr)

	case ast.NodeIf:
		var flags uint8
		if n.Has(ast.NodeElif) {
			flags |= ifElif
		}
		if n.Has(ast.NodeHasElse) {
			flags |= ifHasElse
		}
		e.nodes = append(e.nodes, flags)
		if err := e.expr(n.Expr); err != nil {
			return nil, err
		}
		thenAt := e.reserve()
		elseAt := e.reserve()
		stack = append(stack, work{kind: workPatch, patchAt: elseAt})
		stack = pushChildren(stack, e.tree.Children(n.Else))
		stack = append(stack, work{kind: workPatch, patchAt: thenAt})
		return pushChildren(stack, e.tree.Children(n.Children)), nil

	case ast.NodeFor:
		if err := e.str(n.Name); err != nil {
			return nil, err
		}
		if n.Key == "" {
			e.u32(NoString)
		} else if err := e.str(n.Key); err != nil {
			return nil, err
		}
		if err := e.expr(n.Expr); err != nil {
			return nil, err
		}
		bodyAt := e.reserve()
		stack = append(stack, work{kind: workPatch, patchAt: bodyAt})
		return pushChildren(stack, e.tree.Children(n.Children)), nil

	case ast.NodeInclude:
		if err := e.str(n.Name); err != nil {
			return nil, err
		}
		e.resolved(id)
		return stack, nil

	case ast.NodeCall:
		if err := e.str(n.Name); err != nil {
			return nil, err
		}
		e.resolved(id)
		return stack, e.exprList(e.tree.Args(n.Args))

	case ast.NodeFragment:
		e.flags |= FlagFragments
		if err := e.str(n.Name); err != nil {
			return nil, err
		}
		bodyAt := e.reserve()
		stack = append(stack, work{kind: workPatch, patchAt: bodyAt})
		return pushChildren(stack, e.tree.Children(n.Children)), nil
	}
	return nil, &EncodeError{Kind: UnsupportedConstruct, Detail: n.Kind.String()}
}

func pushChildren(stack []work, ids []ast.NodeID) []work {
	for i := len(ids) - 1; i >= 0; i-- {
		stack = append(stack, work{kind: workNode, node: ids[i]})
	}
	return stack
}

func (e *encoder) resolved(id ast.NodeID) {
	if e.opts.Resolved[id] {
		e.nodes = append(e.nodes, 1)
		return
	}
	e.flags |= FlagUnresolved
	e.nodes = append(e.nodes, 0)
}

// reserve appends a zero u32 and returns its offset for later patching.
func (e *encoder) reserve() int {
	at := len(e.nodes)
	e.u32(0)
	return at
}

func (e *encoder) u32(v uint32) {
	e.nodes = binary.LittleEndian.AppendUint32(e.nodes, v)
}

func (e *encoder) str(s string) error {
	id, err := e.pool.intern(s)
	if err != nil {
		return err
	}
	e.u32(id)
	return nil
}

func (e *encoder) exprList(ids []ast.ExprID) error {
	argc, err := u32(len(ids), "argument count")
	if err != nil {
		return err
	}
	e.u32(argc)
	for _, a := range ids {
		if err := e.expr(a); err != nil {
			return err
		}
	}
	return nil
}

// expr writes an expression in prefix form. The parser rejects expression
// trees taller than its MaxExprDepth, so the recursion here is bounded.
func (e *encoder) expr(id ast.ExprID) error {
	x := e.tree.Expr(id)
	if x == nil {
		return &EncodeError{Kind: UnsupportedConstruct, Detail: "missing expression"}
	}
	tag, ok := exprTags[x.Kind]
	if !ok {
		return &EncodeError{Kind: UnsupportedConstruct, Detail: fmt.Sprintf("expression kind %d", x.Kind)}
	}
	e.nodes = append(e.nodes, byte(tag))
	switch x.Kind {
	case ast.ExprIdent, ast.ExprString, ast.ExprNumber:
		return e.str(x.Text)
	case ast.ExprBool:
		var b byte
		if x.Text == "true" {
			b = 1
		}
		e.nodes = append(e.nodes, b)
	case ast.ExprNil:
	case ast.ExprMember:
		if err := e.str(x.Text); err != nil {
			return err
		}
		return e.expr(x.X)
	case ast.ExprCall:
		if err := e.expr(x.X); err != nil {
			return err
		}
		return e.exprList(e.tree.Args(x.Args))
	case ast.ExprBinary:
		e.nodes = append(e.nodes, byte(x.Op))
		if err := e.expr(x.X); err != nil {
			return err
		}
		return e.expr(x.Y)
	case ast.ExprUnary:
		e.nodes = append(e.nodes, byte(x.Op))
		return e.expr(x.X)
	}
	return nil
}

// assemble lays out header, pool and node table and computes the checksum.
func (e *encoder) assemble() (Blob, error) {
	poolSize := 0
	for _, s := range e.pool.byID {
		poolSize += 4 + len(s)
	}
	total := uint64(HeaderSize) + uint64(poolSize) + uint64(len(e.nodes))
	if total > math.MaxUint32 {
		return nil, &EncodeError{Kind: PayloadTooLarge, Detail: fmt.Sprintf("blob of %d bytes exceeds the format limit", total)}
	}
	if e.opts.MaxBlobSize > 0 && total > e.opts.MaxBlobSize {
		return nil, &EncodeError{Kind: PayloadTooLarge, Detail: fmt.Sprintf("blob of %d bytes exceeds max_blob_size %d", total, e.opts.MaxBlobSize)}
	}

	poolOff := uint32(HeaderSize)
	nodeOff := poolOff + uint32(poolSize) //nolint:gosec // bounded by the total check

	blob := make([]byte, HeaderSize, total)
	copy(blob[0:4], Magic)
	binary.LittleEndian.PutUint16(blob[4:6], Version)
	binary.LittleEndian.PutUint16(blob[6:8], e.flags)
	binary.LittleEndian.PutUint32(blob[8:12], poolOff)
	binary.LittleEndian.PutUint32(blob[12:16], nodeOff)
	for _, s := range e.pool.byID {
		blob = binary.LittleEndian.AppendUint32(blob, uint32(len(s))) //nolint:gosec // checked in intern
		blob = append(blob, s...)
	}
	blob = append(blob, e.nodes...)
	binary.LittleEndian.PutUint64(blob[16:24], xxhash.Sum64(blob[poolOff:]))
	return Blob(blob), nil
}

func u32(n int, what string) (uint32, error) {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return 0, &EncodeError{Kind: PayloadTooLarge, Detail: fmt.Sprintf("%s %d exceeds u32", what, n)}
	}
	return v, nil
}
