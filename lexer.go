package graphsel

import (
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
)

// Token kinds - negative values as per participle convention.
const (
	TokenEOF            lexer.TokenType = lexer.EOF
	TokenAnd            lexer.TokenType = -(iota + 2) //nolint:mnd // participle convention
	TokenOr                                           // or
	TokenNot                                          // not
	TokenStar                                         // *
	TokenPlus                                         // +
	TokenColon                                        // :
	TokenLParen                                       // (
	TokenRParen                                       // )
	TokenName                                         // name (before a colon)
	TokenNameSubstring                                // name_substring (before a colon)
	TokenQuotedString                                 // "..."
	TokenUnquotedString                               // bare words
	TokenWhitespace                                   // spaces, tabs, newlines
)

var tokenNames = map[lexer.TokenType]string{
	TokenEOF:            "EOF",
	TokenAnd:            "And",
	TokenOr:             "Or",
	TokenNot:            "Not",
	TokenStar:           "Star",
	TokenPlus:           "Plus",
	TokenColon:          "Colon",
	TokenLParen:         "(",
	TokenRParen:         ")",
	TokenName:           "Name",
	TokenNameSubstring:  "NameSubstring",
	TokenQuotedString:   "QuotedString",
	TokenUnquotedString: "UnquotedString",
	TokenWhitespace:     "Whitespace",
}

// grammarSymbols overrides the names grammar rules use for tokens whose
// display name would otherwise be matched against token values.
var grammarSymbols = map[lexer.TokenType]string{
	TokenLParen: "LParen",
	TokenRParen: "RParen",
}

// TokenKindName returns the symbolic name of a token kind, as used in
// error messages.
func TokenKindName(t lexer.TokenType) string {
	if name, ok := tokenNames[t]; ok {
		return name
	}

	return "Unknown"
}

const (
	keywordAnd           = "and"
	keywordOr            = "or"
	keywordNot           = "not"
	keywordName          = "name"
	keywordNameSubstring = "name_substring"
)

// Lexer errors.
var (
	ErrUnterminatedString  = &LexicalError{msg: "unterminated string"}
	ErrInvalidEscape       = &LexicalError{msg: "invalid escape sequence"}
	ErrUnexpectedCharacter = &LexicalError{msg: "unexpected character"}
)

// selDefinition implements lexer.Definition for selection strings.
type selDefinition struct {
	symbols map[string]lexer.TokenType
}

func newSelectionLexer() *selDefinition {
	symbols := make(map[string]lexer.TokenType, len(tokenNames))
	for typ, name := range tokenNames {
		if sym, ok := grammarSymbols[typ]; ok {
			name = sym
		}
		symbols[name] = typ
	}

	return &selDefinition{symbols: symbols}
}

// Symbols returns the mapping of symbol names to token types.
func (d *selDefinition) Symbols() map[string]lexer.TokenType {
	return d.symbols
}

// Lex creates a new Lexer for the given reader.
//
//nolint:ireturn // Required by participle's lexer.Definition interface.
func (d *selDefinition) Lex(filename string, r io.Reader) (lexer.Lexer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return newLexerState(filename, string(data)), nil
}

// LexString implements lexer.StringDefinition.
//
//nolint:ireturn // Required by participle's lexer.StringDefinition interface.
func (d *selDefinition) LexString(filename string, input string) (lexer.Lexer, error) {
	return newLexerState(filename, input), nil
}

type lexerState struct {
	filename string
	input    string
	offset   int
	line     int
	col      int

	// afterColon is set once a colon is emitted and cleared by the next
	// significant token, which is always lexed as a value.
	afterColon bool
}

func newLexerState(filename, input string) *lexerState {
	return &lexerState{
		filename: filename,
		input:    input,
		line:     1,
		col:      1,
	}
}

// Next returns the next token.
func (l *lexerState) Next() (lexer.Token, error) {
	if l.eof() {
		return lexer.EOFToken(l.pos()), nil
	}

	start := l.pos()
	r := l.peek()

	if isSpace(r) {
		for !l.eof() && isSpace(l.peek()) {
			l.advance()
		}

		return l.token(TokenWhitespace, start), nil
	}

	if l.invalidUTF8() {
		l.advance()

		return lexer.Token{}, ErrUnexpectedCharacter.withPos(start).withChar(utf8.RuneError)
	}

	afterColon := l.afterColon
	l.afterColon = false

	if r == '"' {
		return l.scanString(start)
	}

	if isValueChar(r) {
		return l.scanWord(start, afterColon)
	}

	l.advance()

	switch r {
	case '*':
		return l.token(TokenStar, start), nil
	case '+':
		return l.token(TokenPlus, start), nil
	case ':':
		l.afterColon = true

		return l.token(TokenColon, start), nil
	case '(':
		return l.token(TokenLParen, start), nil
	case ')':
		return l.token(TokenRParen, start), nil
	}

	return lexer.Token{}, ErrUnexpectedCharacter.withPos(start).withChar(r)
}

// scanWord consumes a run of value characters. Keywords are only recognised
// for whole words, and never directly after a colon.
func (l *lexerState) scanWord(start lexer.Position, afterColon bool) (lexer.Token, error) {
	for !l.eof() && !l.invalidUTF8() && isValueChar(l.peek()) {
		l.advance()
	}

	word := l.input[start.Offset:l.offset]
	if afterColon {
		return l.token(TokenUnquotedString, start), nil
	}

	switch word {
	case keywordAnd:
		return l.token(TokenAnd, start), nil
	case keywordOr:
		return l.token(TokenOr, start), nil
	case keywordNot:
		return l.token(TokenNot, start), nil
	case keywordName:
		if l.colonFollows() {
			return l.token(TokenName, start), nil
		}
	case keywordNameSubstring:
		if l.colonFollows() {
			return l.token(TokenNameSubstring, start), nil
		}
	}

	return l.token(TokenUnquotedString, start), nil
}

// colonFollows reports whether the next non-whitespace character is a colon.
func (l *lexerState) colonFollows() bool {
	rest := strings.TrimLeftFunc(l.input[l.offset:], isSpace)

	return strings.HasPrefix(rest, ":")
}

func (l *lexerState) scanString(start lexer.Position) (lexer.Token, error) {
	l.advance() // opening quote

	for !l.eof() {
		ch := l.peek()
		if ch == '\\' {
			escPos := l.pos()
			l.advance()

			next := l.peek()
			if next != '"' && next != '\\' {
				return lexer.Token{}, ErrInvalidEscape.withPos(escPos).withChar(next)
			}

			l.advance()

			continue
		}

		if l.invalidUTF8() {
			return lexer.Token{}, ErrUnexpectedCharacter.withPos(l.pos()).withChar(utf8.RuneError)
		}

		if ch == '"' {
			l.advance() // closing quote

			return l.token(TokenQuotedString, start), nil
		}

		l.advance()
	}

	return lexer.Token{}, ErrUnterminatedString.withPos(start)
}

func (l *lexerState) pos() lexer.Position {
	return lexer.Position{
		Filename: l.filename,
		Offset:   l.offset,
		Line:     l.line,
		Column:   l.col,
	}
}

func (l *lexerState) eof() bool {
	return l.offset >= len(l.input)
}

// peek returns the next rune, or utf8.RuneError for an invalid byte.
func (l *lexerState) peek() rune {
	if l.eof() {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.offset:])

	return r
}

// invalidUTF8 reports whether the input at the current offset is not a
// valid UTF-8 encoding.
func (l *lexerState) invalidUTF8() bool {
	r, size := utf8.DecodeRuneInString(l.input[l.offset:])

	return r == utf8.RuneError && size <= 1 && !l.eof()
}

func (l *lexerState) advance() {
	if l.eof() {
		return
	}

	r, size := utf8.DecodeRuneInString(l.input[l.offset:])
	l.offset += size

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *lexerState) token(typ lexer.TokenType, start lexer.Position) lexer.Token {
	return lexer.Token{
		Type:  typ,
		Value: l.input[start.Offset:l.offset],
		Pos:   start,
	}
}

// Tokenize splits input into tokens, including whitespace and the final EOF
// token. It stops at the first lexical error.
func Tokenize(input string) ([]lexer.Token, error) {
	l := newLexerState("", input)

	var tokens []lexer.Token

	for {
		tok, err := l.Next()
		if err != nil {
			return tokens, err
		}

		tokens = append(tokens, tok)
		if tok.EOF() {
			return tokens, nil
		}
	}
}

// unquote strips the quotes from a QuotedString token and resolves its
// escapes, which the lexer has already validated.
func unquote(tok lexer.Token) (lexer.Token, error) {
	body := tok.Value[1 : len(tok.Value)-1]

	var b strings.Builder

	b.Grow(len(body))

	for i := 0; i < len(body); i++ {
		if body[i] == '\\' {
			i++
		}

		b.WriteByte(body[i])
	}

	tok.Value = b.String()

	return tok, nil
}

// Character helpers.

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// isValueChar reports whether r may appear in an unquoted value. Callers
// rule out invalid encodings first, so a RuneError here is a literal U+FFFD.
func isValueChar(r rune) bool {
	if isSpace(r) || unicode.IsControl(r) {
		return false
	}

	return !strings.ContainsRune(`()*+:"`, r)
}

// IsUnquotedValue reports whether s can be written without quotes.
func IsUnquotedValue(s string) bool {
	if s == "" || !utf8.ValidString(s) {
		return false
	}

	for _, r := range s {
		if !isValueChar(r) {
			return false
		}
	}

	return true
}
