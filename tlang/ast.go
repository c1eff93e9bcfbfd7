package tlang

import (
	"strings"

	"github.com/ardnew/langgen/lang"
)

// Node type tags.
const (
	DeclarationType = "Declaration"
	AssignmentType  = "Assignment"
	IdentifierType  = "Identifier"
	BooleanType     = "BooleanExpression"
	UnaryType       = "UnaryExpression"
	BinaryType      = "BinaryExpression"
)

// Declaration introduces a name: "const x: number = 1".
type Declaration struct {
	Keyword  string // "let" or "const"
	Name     string
	TypeName string // "number" or "boolean"
	Value    lang.Node
}

func (*Declaration) Type() string { return DeclarationType }

func (d *Declaration) Repr(indent int) string {
	return lang.Indent(indent) +
		d.Keyword + " " + d.Name + ": " + d.TypeName + " =\n" +
		d.Value.Repr(indent+1)
}

// Mutable reports whether the declared name may be reassigned.
func (d *Declaration) Mutable() bool { return d.Keyword == "let" }

// Assignment replaces the value of a declared name: "x = 2".
type Assignment struct {
	Name  string
	Value lang.Node
}

func (*Assignment) Type() string { return AssignmentType }

func (a *Assignment) Repr(indent int) string {
	return lang.Indent(indent) + a.Name + " =\n" + a.Value.Repr(indent+1)
}

// Identifier reads a declared name.
type Identifier struct {
	Name string
}

func (*Identifier) Type() string { return IdentifierType }

func (id *Identifier) Repr(indent int) string {
	return lang.Indent(indent) + "Identifier(" + id.Name + ")"
}

// BooleanExpression is a literal true or false.
type BooleanExpression struct {
	Value bool
}

func (*BooleanExpression) Type() string { return BooleanType }

func (b *BooleanExpression) Repr(indent int) string {
	if b.Value {
		return lang.Indent(indent) + "true"
	}

	return lang.Indent(indent) + "false"
}

// UnaryExpression applies a prefix operator.
type UnaryExpression struct {
	Operator string
	Term     lang.Node
}

func (*UnaryExpression) Type() string { return UnaryType }

func (u *UnaryExpression) Repr(indent int) string {
	var sb strings.Builder

	sb.WriteString(lang.Indent(indent) + "(\n")
	sb.WriteString(lang.Indent(indent+1) + u.Operator + "\n")
	sb.WriteString(u.Term.Repr(indent+1) + "\n")
	sb.WriteString(lang.Indent(indent) + ")")

	return sb.String()
}

// BinaryExpression applies an infix operator.
type BinaryExpression struct {
	Left     lang.Node
	Operator string
	Right    lang.Node
}

func (*BinaryExpression) Type() string { return BinaryType }

func (b *BinaryExpression) Repr(indent int) string {
	var sb strings.Builder

	sb.WriteString(lang.Indent(indent) + "(\n")
	sb.WriteString(b.Left.Repr(indent+1) + "\n")
	sb.WriteString(lang.Indent(indent+1) + b.Operator + "\n")
	sb.WriteString(b.Right.Repr(indent+1) + "\n")
	sb.WriteString(lang.Indent(indent) + ")")

	return sb.String()
}
