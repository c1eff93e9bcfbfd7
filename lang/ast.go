package lang

import (
	"fmt"
	"io"
	"strings"
)

// Node is an element of a parsed program.
//
// Type returns the tag used to select an [Evaluator]. Repr renders the node
// at the given indentation depth; it is also the statement key of a [Report].
type Node interface {
	Type() string
	Repr(indent int) string
}

// Indent returns the prefix for indentation depth n.
func Indent(n int) string {
	if n <= 0 {
		return ""
	}

	return strings.Repeat("\t", n)
}

// Scope is an ordered sequence of statements. Statements are evaluated in
// the order they appear in Body.
type Scope struct {
	Body []Node
}

// ScopeType is the type tag of [Scope].
const ScopeType = "Scope"

// Type implements [Node].
func (*Scope) Type() string { return ScopeType }

// Repr implements [Node].
func (s *Scope) Repr(indent int) string {
	var sb strings.Builder

	sb.WriteString(Indent(indent))
	sb.WriteString("{\n")

	for _, stmt := range s.Body {
		sb.WriteString(stmt.Repr(indent + 1))
		sb.WriteByte('\n')
	}

	sb.WriteString(Indent(indent))
	sb.WriteByte('}')

	return sb.String()
}

// Append adds statements to the end of the scope.
func (s *Scope) Append(stmt ...Node) {
	s.Body = append(s.Body, stmt...)
}

// Len returns the number of statements in the scope.
func (s *Scope) Len() int {
	if s == nil {
		return 0
	}

	return len(s.Body)
}

// Print writes the scope to w.
func (s *Scope) Print(w io.Writer) error {
	_, err := io.WriteString(w, s.Repr(0)+"\n")

	return err
}

// NumberExpression is a numeric literal.
type NumberExpression struct {
	Value float64
}

// NumberExpressionType is the type tag of [NumberExpression].
const NumberExpressionType = "NumberExpression"

// Type implements [Node].
func (*NumberExpression) Type() string { return NumberExpressionType }

// Repr implements [Node].
func (n *NumberExpression) Repr(indent int) string {
	return fmt.Sprintf("%sNumberExpression(%f)", Indent(indent), n.Value)
}
