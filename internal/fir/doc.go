// Package fir encodes a validated fragment tree into the FIR binary format and
// decodes it back for inspection.
//
// Layout (all integers little-endian):
//
//	header  24 bytes
//	  [0:4]   magic "FIR\x1a"
//	  [4:6]   version (1)
//	  [6:8]   flags: bit0 fragment definitions present, bit1 unresolved references
//	  [8:12]  string pool offset
//	  [12:16] node table offset
//	  [16:24] xxHash64 of bytes[pool offset:]
//	pool    u32 length + bytes per unique string, in first-use order
//	nodes   {tag u8, payload} records in pre-order until end of blob
//
// Node payloads (str = u32 pool index, end = u32 absolute exclusive record index):
//
//	Text(1)        str
//	Interp(2)      expr
//	If(3)          u8 flags (bit0 elif, bit1 has else), expr, end(then), end(else)
//	For(4)         str item, str key or 0xFFFFFFFF, expr, end(body)
//	Include(5)     str target, u8 resolved
//	Call(6)        str target, u8 resolved, u32 argc, expr × argc
//	Fragment(7)    str name, end(body)
//
// Expressions are prefix-encoded with a u8 tag:
//
//	Ident(1) str | String(2) str | Number(3) str | Bool(4) u8 | Nil(5)
//	Member(6) str name, expr | Call(7) expr, u32 argc, expr × argc
//	Binary(8) u8 op, expr, expr | Unary(9) u8 op, expr
//
// An empty document encodes to the bare 24-byte header.
package fir
