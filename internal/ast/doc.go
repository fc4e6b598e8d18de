// Package ast holds the syntax tree of one fragment source.
//
// A Tree owns two arenas (nodes and expressions) and two flat index lists
// (node children and call arguments). Relationships are stored as IDs and
// Range values into those lists, never as pointers:
//
//   - node IDs are 1-based and a parent is always allocated before its
//     children, so following child ranges can never loop;
//   - expression operands are allocated before the expression that uses them;
//   - every node records its directive depth (number of enclosing if/for/
//     fragment blocks; an elif chain does not add depth).
//
// Outline is a span-free projection of the tree used to compare structure
// across the FIR round trip.
package ast
