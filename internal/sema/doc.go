// Package sema validates a parsed fragment tree.
//
// Check runs after the whole tree exists and performs, in order:
//
//  1. symbol table: caller-supplied known fragments plus top-level
//     {% fragment %} definitions; a repeated definition is always an error;
//  2. reference resolution for every include and call;
//  3. cycle detection over the reference graph (document root and fragments
//     as vertices, include/call edges) with an iterative DFS;
//  4. combined nesting depth, computed over the graph in reverse Kahn order
//     and checked against the configured limit.
//
// No step recurses over the tree or the graph.
package sema
