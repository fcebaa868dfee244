package graphsel

import (
	"errors"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// selLexer is the custom lexer for selection strings.
// Implements lexer.Definition interface for full control over tokenization.
var selLexer = newSelectionLexer()

var parser = participle.MustBuild[orExpr](
	participle.Lexer(selLexer),
	participle.Map(unquote, "QuotedString"),
	participle.Elide("Whitespace"),
	participle.UseLookahead(4), // a leading star is either All or an up-traversal
)

// Parse parses a selection string into a Selection.
//
// Errors are either a *LexicalError or a *SyntaxError. No partial tree is
// returned on failure.
func Parse(input string) (Selection, error) {
	tokens, err := Tokenize(input)
	if err != nil {
		return nil, err
	}

	tree, err := parser.ParseString("", input)
	if err != nil {
		var perr participle.Error
		if errors.As(err, &perr) {
			return nil, newSyntaxError(perr.Position(), tokens)
		}

		return nil, err
	}

	l := &lowerer{tokens: tokens}

	return l.or(tree)
}

// MustParse is like Parse but panics on error.
func MustParse(input string) Selection {
	sel, err := Parse(input)
	if err != nil {
		panic("graphsel: Parse(" + input + "): " + err.Error())
	}

	return sel
}

// ExportedLexer returns the lexer definition for testing purposes.
func ExportedLexer() lexer.Definition {
	return selLexer
}

// lowerer converts the participle parse tree into Selection values.
type lowerer struct {
	tokens []lexer.Token
}

func (l *lowerer) or(e *orExpr) (Selection, error) {
	acc, err := l.and(e.Left)
	if err != nil {
		return nil, err
	}

	for _, r := range e.Right {
		right, err := l.and(r)
		if err != nil {
			return nil, err
		}

		acc = Or{Left: acc, Right: right}
	}

	return acc, nil
}

func (l *lowerer) and(e *andExpr) (Selection, error) {
	acc, err := l.unary(e.Left)
	if err != nil {
		return nil, err
	}

	for _, r := range e.Right {
		right, err := l.unary(r)
		if err != nil {
			return nil, err
		}

		acc = And{Left: acc, Right: right}
	}

	return acc, nil
}

func (l *lowerer) unary(e *unaryExpr) (Selection, error) {
	switch {
	case e.Not != nil:
		operand, err := l.unary(e.Not)
		if err != nil {
			return nil, err
		}

		return Not{Operand: operand}, nil
	case e.Traversed != nil:
		return l.traversed(e.Traversed)
	default:
		return All{}, nil
	}
}

func (l *lowerer) traversed(e *traversedExpr) (Selection, error) {
	// A star next to a bare value reads like a glob, so it is rejected
	// rather than treated as a traversal.
	if e.Operand.Bare != nil {
		for _, q := range []*qualifier{e.Up, e.Down} {
			if q != nil && q.Star {
				return nil, newSyntaxError(q.Pos, l.tokens)
			}
		}
	}

	inner, err := l.operand(e.Operand)
	if err != nil {
		return nil, err
	}

	switch {
	case e.Up != nil && e.Down != nil:
		return UpAndDownTraversal{Up: e.Up.depth(), Inner: inner, Down: e.Down.depth()}, nil
	case e.Up != nil:
		return UpTraversal{Depth: e.Up.depth(), Inner: inner}, nil
	case e.Down != nil:
		return DownTraversal{Inner: inner, Depth: e.Down.depth()}, nil
	default:
		return inner, nil
	}
}

func (l *lowerer) operand(e *operand) (Selection, error) {
	switch {
	case e.Attribute != nil:
		attr := AttrName
		if e.Attribute.Key == keywordNameSubstring {
			attr = AttrNameSubstring
		}

		return AttributeMatch{Attribute: attr, Value: e.Attribute.Value}, nil
	case e.Group != nil:
		inner, err := l.or(e.Group)
		if err != nil {
			return nil, err
		}

		return Parenthesized{Inner: inner}, nil
	default:
		return AttributeMatch{Attribute: AttrName, Value: *e.Bare}, nil
	}
}

// newSyntaxError builds a SyntaxError for the significant token starting at
// pos. The expected kinds are derived from the tokens before it.
func newSyntaxError(pos lexer.Position, tokens []lexer.Token) *SyntaxError {
	significant := make([]lexer.Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Type != TokenWhitespace {
			significant = append(significant, tok)
		}
	}

	idx := len(significant) - 1
	for i, tok := range significant {
		if tok.Pos.Offset >= pos.Offset {
			idx = i

			break
		}
	}

	if idx < 0 {
		return &SyntaxError{Pos: pos, Expected: expectedAfter(nil)}
	}

	return &SyntaxError{
		Pos:        significant[idx].Pos,
		Unexpected: significant[idx].Value,
		Expected:   expectedAfter(significant[:idx]),
	}
}

// expectedOrder is the order token kinds are listed in error messages.
var expectedOrder = []lexer.TokenType{
	TokenNot, TokenStar, TokenPlus, TokenName, TokenNameSubstring,
	TokenQuotedString, TokenUnquotedString, TokenLParen, TokenColon,
	TokenAnd, TokenOr, TokenRParen, TokenEOF,
}

var operandStart = []lexer.TokenType{
	TokenName, TokenNameSubstring, TokenQuotedString, TokenUnquotedString, TokenLParen,
}

// expectedAfter returns the token kinds the grammar accepts after prev.
func expectedAfter(prev []lexer.Token) []string {
	kinds := map[lexer.TokenType]bool{}
	add := func(types ...lexer.TokenType) {
		for _, t := range types {
			kinds[t] = true
		}
	}

	depth := 0
	for _, tok := range prev {
		switch tok.Type {
		case TokenLParen:
			depth++
		case TokenRParen:
			depth--
		}
	}

	// Continuations of a complete expression.
	addContinuations := func() {
		add(TokenAnd, TokenOr)

		if depth > 0 {
			add(TokenRParen)
		} else {
			add(TokenEOF)
		}
	}

	last := len(prev) - 1

	switch {
	case last < 0:
		add(TokenNot, TokenStar, TokenPlus)
		add(operandStart...)
	default:
		switch prev[last].Type {
		case TokenAnd, TokenOr, TokenNot, TokenLParen:
			add(TokenNot, TokenStar, TokenPlus)
			add(operandStart...)
		case TokenName, TokenNameSubstring:
			add(TokenColon)
		case TokenColon:
			add(TokenQuotedString, TokenUnquotedString)
		case TokenQuotedString, TokenUnquotedString, TokenRParen:
			add(TokenPlus)

			if !isBareValue(prev, last) {
				add(TokenStar)
			}

			addContinuations()
		case TokenPlus, TokenStar:
			run := last
			for run > 0 && (prev[run-1].Type == TokenPlus || prev[run-1].Type == TokenStar) {
				run--
			}

			suffix := run > 0 && endsOperand(prev[run-1].Type)

			switch {
			case suffix:
				if prev[last].Type == TokenPlus {
					add(TokenPlus)
				}

				addContinuations()
			case prev[last].Type == TokenPlus:
				add(TokenPlus)
				add(operandStart...)
			default:
				// A lone star is either the wildcard or an up-traversal.
				add(operandStart...)
				addContinuations()
			}
		}
	}

	out := make([]string, 0, len(kinds))
	for _, t := range expectedOrder {
		if kinds[t] {
			out = append(out, TokenKindName(t))
		}
	}

	return out
}

func endsOperand(t lexer.TokenType) bool {
	return t == TokenQuotedString || t == TokenUnquotedString || t == TokenRParen
}

// isBareValue reports whether the value token at i is a bare operand rather
// than the value of an attribute match.
func isBareValue(tokens []lexer.Token, i int) bool {
	t := tokens[i].Type
	if t != TokenQuotedString && t != TokenUnquotedString {
		return false
	}

	return i == 0 || tokens[i-1].Type != TokenColon
}
