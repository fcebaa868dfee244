package graphsel

import "github.com/alecthomas/participle/v2/lexer"

// ----------------------------------------------------------------------------
// Parse tree
//
// These types mirror the grammar one rule each and are lowered into
// Selection values by the lowerer in parser.go. Operator chains are
// captured as lists and folded left to right.
// ----------------------------------------------------------------------------

// orExpr is andExpr ( "or" andExpr )*.
type orExpr struct {
	Pos   lexer.Position
	Left  *andExpr   `@@`
	Right []*andExpr `( Or @@ )*`
}

// andExpr is unaryExpr ( "and" unaryExpr )*.
type andExpr struct {
	Pos   lexer.Position
	Left  *unaryExpr   `@@`
	Right []*unaryExpr `( And @@ )*`
}

// unaryExpr is a negation, a possibly traversed operand, or the wildcard.
// The traversed branch is tried before the wildcard so that a leading star
// binds to a following operand as an up-traversal.
type unaryExpr struct {
	Pos       lexer.Position
	Not       *unaryExpr     `  Not @@`
	Traversed *traversedExpr `| @@`
	All       bool           `| @Star`
}

// traversedExpr is qualifier? operand qualifier?.
type traversedExpr struct {
	Pos     lexer.Position
	Up      *qualifier `@@?`
	Operand *operand   `@@`
	Down    *qualifier `@@?`
}

// qualifier is a traversal depth: a star or a run of plus signs. Whitespace
// is elided before parsing, so "+ +" counts the same as "++".
type qualifier struct {
	Pos  lexer.Position
	Star bool     `  @Star`
	Plus []string `| @Plus+`
}

// operand is the unit a qualifier can wrap.
type operand struct {
	Pos       lexer.Position
	Attribute *attributeExpr `  @@`
	Group     *orExpr        `| LParen @@ RParen`
	Bare      *string        `| @( QuotedString | UnquotedString )`
}

// attributeExpr is ( "name" | "name_substring" ) ":" value.
type attributeExpr struct {
	Pos   lexer.Position
	Key   string `@( Name | NameSubstring ) Colon`
	Value string `@( QuotedString | UnquotedString )`
}

func (q *qualifier) depth() Depth {
	if q.Star {
		return Unbounded
	}

	return Depth(len(q.Plus))
}
