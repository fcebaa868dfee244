package graphsel

import (
	"fmt"
	"strings"
)

// Binding strength of each syntactic level, loosest first.
const (
	precOr = iota + 1
	precAnd
	precNot
	precTraversal
	precPrimary
)

// Format renders a Selection in canonical syntax.
//
// For any tree produced by Parse, Parse(Format(sel)) yields an equal tree.
// Trees built by hand get parentheses wherever the grammar requires them.
func Format(sel Selection) string {
	var b strings.Builder

	f := &formatter{b: &b}
	f.format(sel)

	return b.String()
}

type formatter struct {
	b *strings.Builder
}

func (f *formatter) write(s string) {
	f.b.WriteString(s)
}

func (f *formatter) format(sel Selection) {
	switch s := sel.(type) {
	case All:
		f.write("*")
	case AttributeMatch:
		f.write(s.Attribute.String())
		f.write(":")
		f.write(quoteValue(s.Value))
	case Not:
		f.write("not ")
		f.operand(s.Operand, precNot)
	case And:
		f.operand(s.Left, precAnd)
		f.write(" and ")
		f.operand(s.Right, precNot)
	case Or:
		f.operand(s.Left, precOr)
		f.write(" or ")
		f.operand(s.Right, precAnd)
	case UpTraversal:
		f.write(s.Depth.String())
		f.traversalInner(s.Inner)
	case DownTraversal:
		f.traversalInner(s.Inner)
		f.write(s.Depth.String())
	case UpAndDownTraversal:
		f.write(s.Up.String())
		f.traversalInner(s.Inner)
		f.write(s.Down.String())
	case Parenthesized:
		f.write("(")
		f.format(s.Inner)
		f.write(")")
	case nil:
	default:
		panic(fmt.Sprintf("graphsel: unexpected selection %T", sel))
	}
}

// operand writes sel, wrapping it in parentheses when it binds looser than
// min.
func (f *formatter) operand(sel Selection, minPrec int) {
	if precedence(sel) < minPrec {
		f.write("(")
		f.format(sel)
		f.write(")")

		return
	}

	f.format(sel)
}

// traversalInner writes the operand of a traversal qualifier, which must be
// an attribute match or a group.
func (f *formatter) traversalInner(sel Selection) {
	switch sel.(type) {
	case AttributeMatch, Parenthesized:
		f.format(sel)
	default:
		f.write("(")
		f.format(sel)
		f.write(")")
	}
}

func precedence(sel Selection) int {
	switch sel.(type) {
	case Or:
		return precOr
	case And:
		return precAnd
	case Not:
		return precNot
	case UpTraversal, DownTraversal, UpAndDownTraversal:
		return precTraversal
	default:
		return precPrimary
	}
}

// quoteValue returns v unchanged when it lexes as a single unquoted value,
// otherwise a double-quoted string escaping only quotes and backslashes.
func quoteValue(v string) string {
	if IsUnquotedValue(v) {
		return v
	}

	var b strings.Builder

	b.WriteByte('"')

	for _, r := range v {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}

		b.WriteRune(r)
	}

	b.WriteByte('"')

	return b.String()
}
