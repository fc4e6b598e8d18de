package sema

import (
	"fmt"
	"strings"

	"frel/internal/source"
)

// UnknownReferenceError: an include or call names a fragment that is neither
// defined nor known to the caller.
type UnknownReferenceError struct {
	Name   string
	Span   source.Span
	Strict bool
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("unknown fragment %q", e.Name)
}

// CyclicIncludeError names the full cycle in traversal order.
type CyclicIncludeError struct {
	Cycle []string
	Span  source.Span
}

func (e *CyclicIncludeError) Error() string {
	return "cyclic include: " + formatCycle(e.Cycle)
}

func formatCycle(cycle []string) string {
	if len(cycle) == 0 {
		return ""
	}
	return strings.Join(cycle, " -> ") + " -> " + cycle[0]
}

// NestingTooDeepError: directive and include nesting combined exceed the limit.
type NestingTooDeepError struct {
	Limit  uint32
	Actual uint32
	Span   source.Span
}

func (e *NestingTooDeepError) Error() string {
	return fmt.Sprintf("nesting depth %d exceeds limit %d", e.Actual, e.Limit)
}

// DuplicateFragmentError: a fragment name is defined twice in one source.
type DuplicateFragmentError struct {
	Name     string
	Span     source.Span
	Previous source.Span
}

func (e *DuplicateFragmentError) Error() string {
	return fmt.Sprintf("fragment %q is already defined", e.Name)
}
