package fir

import (
	"encoding/binary"
	"fmt"

	"frel/internal/ast"

	"github.com/cespare/xxhash/v2"
)

// Program is a decoded blob, used by `frelc dump` and by tests to compare
// the encoded shape with the parsed tree.
type Program struct {
	Version uint16
	Flags   uint16
	Strings []string
	Records int
	Nodes   []ast.Outline
	// Unresolved lists reference targets encoded with resolved=0, in record order.
	Unresolved []string
}

type decoder struct {
	buf     []byte
	off     int
	end     int
	strings []string
	records uint32
	depth   int
	prog    *Program
}

// maxExprDepth caps expression nesting in a decoded blob. Blobs read from
// disk are untrusted, and the compiler never emits trees this tall.
const maxExprDepth = 1 << 10

var exprKinds = func() map[exprTag]ast.ExprKind {
	m := make(map[exprTag]ast.ExprKind, len(exprTags))
	for k, t := range exprTags {
		m[t] = k
	}
	return m
}()

// Decode validates the header and checksum and rebuilds the node outline.
func Decode(blob Blob) (*Program, error) {
	if len(blob) < HeaderSize {
		return nil, &DecodeError{Offset: len(blob), Detail: "blob shorter than header"}
	}
	if string(blob[0:4]) != Magic {
		return nil, &DecodeError{Offset: 0, Detail: "bad magic"}
	}
	p := &Program{
		Version: binary.LittleEndian.Uint16(blob[4:6]),
		Flags:   binary.LittleEndian.Uint16(blob[6:8]),
	}
	if p.Version != Version {
		return nil, &DecodeError{Offset: 4, Detail: fmt.Sprintf("unsupported version %d", p.Version)}
	}
	poolOff := int(binary.LittleEndian.Uint32(blob[8:12]))
	nodeOff := int(binary.LittleEndian.Uint32(blob[12:16]))
	if poolOff != HeaderSize || nodeOff < poolOff || nodeOff > len(blob) {
		return nil, &DecodeError{Offset: 8, Detail: "section offsets out of range"}
	}
	if sum := binary.LittleEndian.Uint64(blob[16:24]); sum != xxhash.Sum64(blob[poolOff:]) {
		return nil, &DecodeError{Offset: 16, Detail: "checksum mismatch"}
	}

	d := &decoder{buf: blob, off: poolOff, end: nodeOff, prog: p}
	for d.off < d.end {
		n, err := d.u32()
		if err != nil {
			return nil, err
		}
		if uint64(n) > uint64(d.end-d.off) {
			return nil, &DecodeError{Offset: d.off, Detail: "string runs past pool"}
		}
		d.strings = append(d.strings, string(d.buf[d.off:d.off+int(n)]))
		d.off += int(n)
	}
	p.Strings = d.strings

	d.end = len(blob)
	nodes, err := d.list(^uint32(0))
	if err != nil {
		return nil, err
	}
	p.Nodes = nodes
	p.Records = int(d.records)
	return p, nil
}

// list decodes sibling records until the record counter reaches end or the
// table is exhausted.
func (d *decoder) list(end uint32) ([]ast.Outline, error) {
	var out []ast.Outline
	for d.records < end && d.off < d.end {
		o, err := d.node()
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if end != ^uint32(0) && d.records != end {
		return nil, &DecodeError{Offset: d.off, Detail: fmt.Sprintf("subtree ends at record %d, want %d", d.records, end)}
	}
	return out, nil
}

func (d *decoder) node() (ast.Outline, error) {
	at := d.off
	b, err := d.u8()
	if err != nil {
		return ast.Outline{}, err
	}
	d.records++
	tag := Tag(b)
	o := ast.Outline{Kind: tag.String()}
	switch tag {
	case TagText:
		o.Name, err = d.str()
	case TagInterp:
		o.Expr, err = d.expr()
	case TagIf:
		err = d.ifNode(&o)
	case TagFor:
		err = d.forNode(&o)
	case TagInclude:
		if o.Name, err = d.str(); err == nil {
			err = d.resolved(o.Name)
		}
	case TagCall:
		if o.Name, err = d.str(); err != nil {
			break
		}
		if err = d.resolved(o.Name); err != nil {
			break
		}
		o.Args, err = d.exprList()
	case TagFragment:
		if o.Name, err = d.str(); err != nil {
			break
		}
		var end uint32
		if end, err = d.u32(); err != nil {
			break
		}
		o.Children, err = d.list(end)
	default:
		err = &DecodeError{Offset: at, Detail: fmt.Sprintf("unknown node tag %d", b)}
	}
	return o, err
}

func (d *decoder) ifNode(o *ast.Outline) error {
	flags, err := d.u8()
	if err != nil {
		return err
	}
	o.Elif = flags&ifElif != 0
	o.HasElse = flags&ifHasElse != 0
	if o.Expr, err = d.expr(); err != nil {
		return err
	}
	thenEnd, err := d.u32()
	if err != nil {
		return err
	}
	elseEnd, err := d.u32()
	if err != nil {
		return err
	}
	if o.Children, err = d.list(thenEnd); err != nil {
		return err
	}
	o.Else, err = d.list(elseEnd)
	return err
}

func (d *decoder) forNode(o *ast.Outline) error {
	var err error
	if o.Name, err = d.str(); err != nil {
		return err
	}
	key, err := d.u32()
	if err != nil {
		return err
	}
	if key != NoString {
		if o.Key, err = d.lookup(key); err != nil {
			return err
		}
	}
	if o.Expr, err = d.expr(); err != nil {
		return err
	}
	end, err := d.u32()
	if err != nil {
		return err
	}
	o.Children, err = d.list(end)
	return err
}

func (d *decoder) resolved(name string) error {
	b, err := d.u8()
	if err != nil {
		return err
	}
	if b == 0 {
		d.prog.Unresolved = append(d.prog.Unresolved, name)
	}
	return nil
}

func (d *decoder) exprList() ([]*ast.ExprOutline, error) {
	n, err := d.u32()
	if err != nil {
		return nil, err
	}
	if uint64(n) > uint64(d.end-d.off) {
		return nil, &DecodeError{Offset: d.off, Detail: "argument count runs past table"}
	}
	var out []*ast.ExprOutline
	for range n {
		x, err := d.expr()
		if err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	return out, nil
}

func (d *decoder) expr() (*ast.ExprOutline, error) {
	at := d.off
	d.depth++
	defer func() { d.depth-- }()
	if d.depth > maxExprDepth {
		return nil, &DecodeError{Offset: at, Detail: fmt.Sprintf("expression nested deeper than %d levels", maxExprDepth)}
	}
	b, err := d.u8()
	if err != nil {
		return nil, err
	}
	kind, ok := exprKinds[exprTag(b)]
	if !ok {
		return nil, &DecodeError{Offset: at, Detail: fmt.Sprintf("unknown expression tag %d", b)}
	}
	x := &ast.ExprOutline{Kind: kind.String()}
	switch kind {
	case ast.ExprIdent, ast.ExprString, ast.ExprNumber:
		x.Text, err = d.str()
	case ast.ExprBool:
		var v uint8
		if v, err = d.u8(); err == nil {
			x.Text = "false"
			if v != 0 {
				x.Text = "true"
			}
		}
	case ast.ExprMember:
		if x.Text, err = d.str(); err == nil {
			x.X, err = d.expr()
		}
	case ast.ExprCall:
		if x.X, err = d.expr(); err == nil {
			x.Args, err = d.exprList()
		}
	case ast.ExprBinary:
		var op uint8
		if op, err = d.u8(); err != nil {
			break
		}
		x.Op = ast.ExprOp(op).String()
		if x.X, err = d.expr(); err == nil {
			x.Y, err = d.expr()
		}
	case ast.ExprUnary:
		var op uint8
		if op, err = d.u8(); err != nil {
			break
		}
		x.Op = ast.ExprOp(op).String()
		x.X, err = d.expr()
	}
	if err != nil {
		return nil, err
	}
	return x, nil
}

func (d *decoder) u8() (uint8, error) {
	if d.off+1 > d.end {
		return 0, &DecodeError{Offset: d.off, Detail: "unexpected end of data"}
	}
	v := d.buf[d.off]
	d.off++
	return v, nil
}

func (d *decoder) u32() (uint32, error) {
	if d.off+4 > d.end {
		return 0, &DecodeError{Offset: d.off, Detail: "unexpected end of data"}
	}
	v := binary.LittleEndian.Uint32(d.buf[d.off:])
	d.off += 4
	return v, nil
}

func (d *decoder) str() (string, error) {
	id, err := d.u32()
	if err != nil {
		return "", err
	}
	return d.lookup(id)
}

func (d *decoder) lookup(id uint32) (string, error) {
	if uint64(id) >= uint64(len(d.strings)) {
		return "", &DecodeError{Offset: d.off - 4, Detail: fmt.Sprintf("string index %d out of range", id)}
	}
	return d.strings[id], nil
}
