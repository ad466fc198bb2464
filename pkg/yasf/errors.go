package yasf

import (
	"errors"
	"fmt"
	"strings"
)

// Scene compilation errors. Every typed error below unwraps to one of these.
var (
	ErrSchema               = errors.New("schema error")
	ErrUnresolvedReference  = errors.New("unresolved reference")
	ErrCyclicGraph          = errors.New("cyclic graph")
	ErrUnsupportedPrimitive = errors.New("unsupported primitive")
	ErrUnsupportedLight     = errors.New("unsupported light")
)

// SchemaError reports malformed JSON or a missing/invalid mandatory field.
type SchemaError struct {
	NodeID string // Node, material, texture or camera id; empty at document level
	Field  string
	Msg    string
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("schema error")
	if e.NodeID != "" {
		fmt.Fprintf(&b, " in %q", e.NodeID)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " at %s", e.Field)
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	return b.String()
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// UnresolvedReferenceError reports a dangling noderef, materialref, textureref
// or LOD target.
type UnresolvedReferenceError struct {
	NodeID string
	Field  string
	Ref    string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unresolved reference %q in %q at %s", e.Ref, e.NodeID, e.Field)
}

func (e *UnresolvedReferenceError) Unwrap() error { return ErrUnresolvedReference }

// CyclicGraphError reports a node reachable from itself. Path lists the
// active recursion stack ending with the repeated id.
type CyclicGraphError struct {
	NodeID string
	Path   []string
}

func (e *CyclicGraphError) Error() string {
	return fmt.Sprintf("cyclic graph at %q: %s", e.NodeID, strings.Join(e.Path, " -> "))
}

func (e *CyclicGraphError) Unwrap() error { return ErrCyclicGraph }

// UnsupportedPrimitiveError reports a leaf whose kind string names no known primitive.
type UnsupportedPrimitiveError struct {
	NodeID string
	Leaf   string
	Kind   string
}

func (e *UnsupportedPrimitiveError) Error() string {
	return fmt.Sprintf("unsupported primitive %q for leaf %q in node %q", e.Kind, e.Leaf, e.NodeID)
}

func (e *UnsupportedPrimitiveError) Unwrap() error { return ErrUnsupportedPrimitive }

// UnsupportedLightError reports a leaf whose kind string names no known light.
type UnsupportedLightError struct {
	NodeID string
	Leaf   string
	Kind   string
}

func (e *UnsupportedLightError) Error() string {
	return fmt.Sprintf("unsupported light %q for leaf %q in node %q", e.Kind, e.Leaf, e.NodeID)
}

func (e *UnsupportedLightError) Unwrap() error { return ErrUnsupportedLight }

func schemaErr(id, field, format string, args ...any) error {
	return &SchemaError{NodeID: id, Field: field, Msg: fmt.Sprintf(format, args...)}
}
