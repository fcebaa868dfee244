// Package graphsel implements a selection language for picking nodes out of a
// directed dependency graph.
//
// A selection combines attribute matches with boolean operators and
// traversal qualifiers:
//
//	name:extract_orders+          // extract_orders and its direct dependents
//	*name_substring:"daily load"  // every ancestor of matching nodes
//	(+raw) and not name:raw_users
//
// Parse turns a string into a Selection and Evaluate resolves it against a
// GraphView. Both are pure functions and safe for concurrent use.
package graphsel

import "strconv"

// Selection is a node of the selection syntax tree.
//
// The set of implementations is closed: All, AttributeMatch, Not, And, Or,
// UpTraversal, DownTraversal, UpAndDownTraversal and Parenthesized.
type Selection interface {
	// String returns the canonical selection syntax.
	String() string
	selection()
}

// Attribute identifies the attribute keyword of an AttributeMatch.
type Attribute int

const (
	// AttrName matches the name attribute exactly.
	AttrName Attribute = iota
	// AttrNameSubstring matches a substring of the name attribute.
	AttrNameSubstring
)

// NameAttribute is the node attribute consulted by both attribute keywords.
const NameAttribute = "name"

// String returns the keyword as written in a selection.
func (a Attribute) String() string {
	switch a {
	case AttrName:
		return keywordName
	case AttrNameSubstring:
		return keywordNameSubstring
	default:
		return "Attribute(" + strconv.Itoa(int(a)) + ")"
	}
}

// Key returns the graph attribute the keyword is matched against.
func (a Attribute) Key() string {
	return NameAttribute
}

// Depth is the hop bound of a traversal.
type Depth int

// Unbounded is the depth of a `*` qualifier.
const Unbounded Depth = -1

// IsUnbounded reports whether d places no limit on hops.
func (d Depth) IsUnbounded() bool { return d < 0 }

// String returns the qualifier that produces d.
func (d Depth) String() string {
	if d.IsUnbounded() {
		return "*"
	}

	b := make([]byte, int(d))
	for i := range b {
		b[i] = '+'
	}

	return string(b)
}

// All matches every node (`*`).
type All struct{}

// AttributeMatch matches nodes by attribute value (`name:v`,
// `name_substring:v`).
type AttributeMatch struct {
	Attribute Attribute
	Value     string
}

// Not is the complement of Operand within the graph (`not x`).
type Not struct {
	Operand Selection
}

// And is the intersection of two selections (`x and y`).
type And struct {
	Left  Selection
	Right Selection
}

// Or is the union of two selections (`x or y`).
type Or struct {
	Left  Selection
	Right Selection
}

// UpTraversal expands Inner with its ancestors (`+x`, `*x`).
type UpTraversal struct {
	Depth Depth
	Inner Selection
}

// DownTraversal expands Inner with its descendants (`x+`, `x*`).
type DownTraversal struct {
	Inner Selection
	Depth Depth
}

// UpAndDownTraversal expands Inner in both directions (`+x+`). Each bound
// applies independently from the same anchor set.
type UpAndDownTraversal struct {
	Up    Depth
	Inner Selection
	Down  Depth
}

// Parenthesized groups Inner (`(x)`). It does not change the result.
type Parenthesized struct {
	Inner Selection
}

func (All) selection()                {}
func (AttributeMatch) selection()     {}
func (Not) selection()                {}
func (And) selection()                {}
func (Or) selection()                 {}
func (UpTraversal) selection()        {}
func (DownTraversal) selection()      {}
func (UpAndDownTraversal) selection() {}
func (Parenthesized) selection()      {}

func (s All) String() string                { return Format(s) }
func (s AttributeMatch) String() string     { return Format(s) }
func (s Not) String() string                { return Format(s) }
func (s And) String() string                { return Format(s) }
func (s Or) String() string                 { return Format(s) }
func (s UpTraversal) String() string        { return Format(s) }
func (s DownTraversal) String() string      { return Format(s) }
func (s UpAndDownTraversal) String() string { return Format(s) }
func (s Parenthesized) String() string      { return Format(s) }

// Walk calls fn for sel and each of its descendants in depth-first order,
// stopping early when fn returns false.
func Walk(sel Selection, fn func(Selection) bool) {
	if sel == nil || !fn(sel) {
		return
	}

	switch s := sel.(type) {
	case Not:
		Walk(s.Operand, fn)
	case And:
		Walk(s.Left, fn)
		Walk(s.Right, fn)
	case Or:
		Walk(s.Left, fn)
		Walk(s.Right, fn)
	case UpTraversal:
		Walk(s.Inner, fn)
	case DownTraversal:
		Walk(s.Inner, fn)
	case UpAndDownTraversal:
		Walk(s.Inner, fn)
	case Parenthesized:
		Walk(s.Inner, fn)
	}
}
