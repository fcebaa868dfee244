package graphsel_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlch/graphsel"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  graphsel.Selection
	}{
		{"wildcard", "*", graphsel.All{}},
		{"name", "name:foo", attr("foo")},
		{"name with spaces around colon", "name : foo", attr("foo")},
		{"substring quoted", `name_substring:"daily load"`, substr("daily load")},
		{"escaped quotes", `name:"say \"hi\""`, attr(`say "hi"`)},
		{"escaped backslash", `name:"a\\b"`, attr(`a\b`)},
		{"empty quoted value", `name:""`, attr("")},
		{"newline in quotes", "name:\"two\nlines\"", attr("two\nlines")},
		{"unicode value", "name:données", attr("données")},
		{"keyword as value", "name:not", attr("not")},
		{"bare value", "foo", attr("foo")},
		{"bare quoted value", `"my step"`, attr("my step")},
		{"quoted open paren", `"("`, attr("(")},
		{"quoted close paren", `name:")"`, attr(")")},
		{
			name:  "quoted parens are values",
			input: `name:"(" or name:")"`,
			want:  graphsel.Or{Left: attr("("), Right: attr(")")},
		},
		{"unicode replacement character", "name:\uFFFD", attr("\uFFFD")},
		{
			name:  "bare value up and down",
			input: "+foo+",
			want:  graphsel.UpAndDownTraversal{Up: 1, Inner: attr("foo"), Down: 1},
		},
		{
			name:  "up unbounded",
			input: "*name:foo",
			want:  graphsel.UpTraversal{Depth: graphsel.Unbounded, Inner: attr("foo")},
		},
		{
			name:  "up with whitespace",
			input: "+ name:foo",
			want:  graphsel.UpTraversal{Depth: 1, Inner: attr("foo")},
		},
		{
			name:  "down counted",
			input: "name:foo+++",
			want:  graphsel.DownTraversal{Inner: attr("foo"), Depth: 3},
		},
		{
			name:  "down run split by whitespace",
			input: "name:a++ +",
			want:  graphsel.DownTraversal{Inner: attr("a"), Depth: 3},
		},
		{
			name:  "up run split by whitespace",
			input: "+ +name:a",
			want:  graphsel.UpTraversal{Depth: 2, Inner: attr("a")},
		},
		{
			name:  "up and down with different depths",
			input: "++name:foo*",
			want:  graphsel.UpAndDownTraversal{Up: 2, Inner: attr("foo"), Down: graphsel.Unbounded},
		},
		{
			name:  "traversal of group",
			input: "+(name:a or name:b)",
			want: graphsel.UpTraversal{Depth: 1, Inner: graphsel.Parenthesized{
				Inner: graphsel.Or{Left: attr("a"), Right: attr("b")},
			}},
		},
		{
			name:  "not binds tighter than and",
			input: "not name:a and name:b",
			want:  graphsel.And{Left: graphsel.Not{Operand: attr("a")}, Right: attr("b")},
		},
		{
			name:  "and binds tighter than or",
			input: "name:a or name:b and name:c",
			want:  graphsel.Or{Left: attr("a"), Right: graphsel.And{Left: attr("b"), Right: attr("c")}},
		},
		{
			name:  "and is left associative",
			input: "name:a and name:b and name:c",
			want:  graphsel.And{Left: graphsel.And{Left: attr("a"), Right: attr("b")}, Right: attr("c")},
		},
		{
			name:  "or is left associative",
			input: "name:a or name:b or name:c",
			want:  graphsel.Or{Left: graphsel.Or{Left: attr("a"), Right: attr("b")}, Right: attr("c")},
		},
		{
			name:  "double negation",
			input: "not not name:a",
			want:  graphsel.Not{Operand: graphsel.Not{Operand: attr("a")}},
		},
		{
			name:  "traversal binds tighter than not",
			input: "not +name:a",
			want:  graphsel.Not{Operand: graphsel.UpTraversal{Depth: 1, Inner: attr("a")}},
		},
		{
			name:  "wildcard operand",
			input: "* and not name:a",
			want:  graphsel.And{Left: graphsel.All{}, Right: graphsel.Not{Operand: attr("a")}},
		},
		{
			name:  "grouped wildcard",
			input: "(*)",
			want:  graphsel.Parenthesized{Inner: graphsel.All{}},
		},
		{
			name:  "down traversal then and",
			input: "name:a+ and name:b",
			want:  graphsel.And{Left: graphsel.DownTraversal{Inner: attr("a"), Depth: 1}, Right: attr("b")},
		},
		{
			name:  "nested groups",
			input: "((name:a))",
			want:  graphsel.Parenthesized{Inner: graphsel.Parenthesized{Inner: attr("a")}},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := graphsel.Parse(tt.input)
			require.NoError(t, err)

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParse_SyntaxErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		offset     int
		unexpected string
		expected   []string
	}{
		{
			name:     "empty input",
			input:    "",
			offset:   0,
			expected: []string{"Not", "Star", "Plus", "Name", "NameSubstring", "QuotedString", "UnquotedString", "("},
		},
		{
			name:     "missing operand after and",
			input:    "name:foo and",
			offset:   12,
			expected: []string{"Not", "Star", "Plus", "Name", "NameSubstring", "QuotedString", "UnquotedString", "("},
		},
		{
			name:   "missing operand after not",
			input:  "not",
			offset: 3,
		},
		{
			name:     "missing value",
			input:    "name:",
			offset:   5,
			expected: []string{"QuotedString", "UnquotedString"},
		},
		{
			name:     "unclosed group",
			input:    "(name:foo",
			offset:   9,
			expected: []string{"Star", "Plus", "And", "Or", ")"},
		},
		{
			name:       "unmatched close",
			input:      "name:foo)",
			offset:     8,
			unexpected: ")",
			expected:   []string{"Star", "Plus", "And", "Or", "EOF"},
		},
		{
			name:       "quoted close paren does not close a group",
			input:      `(name:a ")"`,
			offset:     8,
			unexpected: `")"`,
			expected:   []string{"Star", "Plus", "And", "Or", ")"},
		},
		{
			name:       "quoted open paren does not open a group",
			input:      `"(" name:a )`,
			offset:     4,
			unexpected: "name",
			expected:   []string{"Plus", "And", "Or", "EOF"},
		},
		{
			name:       "trailing operand",
			input:      "name:a name:b",
			offset:     7,
			unexpected: "name",
		},
		{
			name:       "star after bare value",
			input:      "foo* or bar",
			offset:     3,
			unexpected: "*",
			expected:   []string{"Plus", "And", "Or", "EOF"},
		},
		{
			name:       "star before bare value",
			input:      "*foo",
			offset:     0,
			unexpected: "*",
		},
		{
			name:       "uppercase keyword is not an attribute",
			input:      "NAME:foo",
			offset:     4,
			unexpected: ":",
		},
		{
			name:       "uppercase operator is a value",
			input:      "name:foo AND name:bar",
			offset:     9,
			unexpected: "AND",
		},
		{
			name:       "traversal of not",
			input:      "+not name:a",
			offset:     1,
			unexpected: "not",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sel, err := graphsel.Parse(tt.input)
			require.Error(t, err)
			assert.Nil(t, sel)
			assert.ErrorIs(t, err, graphsel.ErrSyntax)

			var syntaxErr *graphsel.SyntaxError
			require.True(t, errors.As(err, &syntaxErr))
			assert.Equal(t, tt.offset, syntaxErr.Pos.Offset, "error: %v", err)
			assert.Equal(t, tt.unexpected, syntaxErr.Unexpected)

			if tt.expected != nil {
				assert.Equal(t, tt.expected, syntaxErr.Expected)
			}
		})
	}
}

func TestParse_LexicalErrorsPassThrough(t *testing.T) {
	t.Parallel()

	_, err := graphsel.Parse(`name:"abc`)
	require.Error(t, err)
	assert.ErrorIs(t, err, graphsel.ErrUnterminatedString)
	assert.NotErrorIs(t, err, graphsel.ErrSyntax)
}

func TestSyntaxError_Message(t *testing.T) {
	t.Parallel()

	_, err := graphsel.Parse("foo* or bar")
	require.Error(t, err)
	assert.Equal(t, `1:4: unexpected token "*" (expected Plus, And, Or, EOF)`, err.Error())

	_, err = graphsel.Parse("name:")
	require.Error(t, err)
	assert.Equal(t, "1:6: unexpected end of input (expected QuotedString, UnquotedString)", err.Error())
}

func TestParse_RoundTrip(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"*",
		"name:foo",
		"name_substring:load",
		`name:"with spaces"`,
		`name:"quote \" and backslash \\"`,
		"name:and",
		"foo",
		"+foo+",
		"++name:a*",
		"*name:a",
		"name:a+++",
		"not not name:a",
		"not name:a and name:b or name:c",
		"name:a or name:b and name:c",
		"(name:a or name:b) and name:c",
		"name:a and (name:b and name:c)",
		"+(name:a or name:b)+",
		"not (* and name:a)",
		"(*)",
		"((name:a))",
		"  name:a   or\n\tname:b  ",
		"* and not +name:report",
	}

	for _, input := range inputs {
		input := input
		t.Run(input, func(t *testing.T) {
			t.Parallel()

			first, err := graphsel.Parse(input)
			require.NoError(t, err)

			canonical := graphsel.Format(first)

			second, err := graphsel.Parse(canonical)
			require.NoError(t, err, "reparse of %q", canonical)

			if diff := cmp.Diff(first, second); diff != "" {
				t.Errorf("round trip of %q via %q mismatch (-first +second):\n%s", input, canonical, diff)
			}

			assert.Equal(t, canonical, graphsel.Format(second), "canonical form is stable")
		})
	}
}

func TestMustParse(t *testing.T) {
	t.Parallel()

	assert.Equal(t, graphsel.Selection(attr("foo")), graphsel.MustParse("name:foo"))
	assert.Panics(t, func() { graphsel.MustParse("name:") })
}

func TestWalk(t *testing.T) {
	t.Parallel()

	sel := graphsel.MustParse("+(name:a or not name_substring:b) and *")

	var values []string

	graphsel.Walk(sel, func(s graphsel.Selection) bool {
		if m, ok := s.(graphsel.AttributeMatch); ok {
			values = append(values, m.Value)
		}

		return true
	})

	assert.Equal(t, []string{"a", "b"}, values)

	visited := 0

	graphsel.Walk(sel, func(graphsel.Selection) bool {
		visited++

		return false
	})

	assert.Equal(t, 1, visited)
}
