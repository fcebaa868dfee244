package graphsel

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Option configures evaluation.
type Option func(*evaluator)

// WithCaseInsensitiveSubstring makes name_substring matches ignore case.
// Exact name matches are always case-sensitive.
func WithCaseInsensitiveSubstring() Option {
	return func(e *evaluator) {
		e.foldSubstring = true
	}
}

// WithLogger traces evaluation to logger at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(e *evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

type evaluator struct {
	graph         GraphView
	all           NodeSet
	foldSubstring bool
	logger        *zap.Logger
}

// Evaluate resolves sel against g and returns the matched nodes.
//
// Evaluation is deterministic and never modifies sel or g. The returned set
// is owned by the caller.
func Evaluate(sel Selection, g GraphView, opts ...Option) NodeSet {
	e := &evaluator{
		graph:  g,
		all:    g.NodeIDs(),
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(e)
	}

	result := e.eval(sel)

	e.logger.Debug("Evaluated selection",
		zap.Stringer("selection", sel),
		zap.Int("matched", result.Len()),
		zap.Int("nodes", e.all.Len()))

	return result
}

// Select parses input and evaluates it against g.
func Select(input string, g GraphView, opts ...Option) (NodeSet, error) {
	sel, err := Parse(input)
	if err != nil {
		return nil, err
	}

	return Evaluate(sel, g, opts...), nil
}

func (e *evaluator) eval(sel Selection) NodeSet {
	switch s := sel.(type) {
	case All:
		return e.all.Clone()
	case AttributeMatch:
		return e.match(s)
	case Not:
		return e.all.Difference(e.eval(s.Operand))
	case And:
		return e.eval(s.Left).Intersect(e.eval(s.Right))
	case Or:
		return e.eval(s.Left).Union(e.eval(s.Right))
	case UpTraversal:
		anchor := e.eval(s.Inner)

		return e.traverse(anchor, s.Depth, e.graph.Upstream, "up")
	case DownTraversal:
		anchor := e.eval(s.Inner)

		return e.traverse(anchor, s.Depth, e.graph.Downstream, "down")
	case UpAndDownTraversal:
		anchor := e.eval(s.Inner)
		up := e.traverse(anchor, s.Up, e.graph.Upstream, "up")
		down := e.traverse(anchor, s.Down, e.graph.Downstream, "down")

		return up.Union(down)
	case Parenthesized:
		return e.eval(s.Inner)
	default:
		panic(fmt.Sprintf("graphsel: unexpected selection %T", sel))
	}
}

func (e *evaluator) match(m AttributeMatch) NodeSet {
	out := NodeSet{}

	want := m.Value
	if m.Attribute == AttrNameSubstring && e.foldSubstring {
		want = strings.ToLower(want)
	}

	for id := range e.all {
		v, ok := e.graph.Attribute(id, m.Attribute.Key())
		if !ok {
			continue
		}

		switch m.Attribute {
		case AttrName:
			if v == want {
				out.Add(id)
			}
		case AttrNameSubstring:
			if e.foldSubstring {
				v = strings.ToLower(v)
			}

			if strings.Contains(v, want) {
				out.Add(id)
			}
		}
	}

	return out
}

func (e *evaluator) traverse(anchor NodeSet, depth Depth, next func(NodeID) []NodeID, direction string) NodeSet {
	out := expand(anchor, depth, next)

	e.logger.Debug("Traversed",
		zap.String("direction", direction),
		zap.Stringer("depth", depth),
		zap.Int("anchor", anchor.Len()),
		zap.Int("reached", out.Len()-anchor.Len()))

	return out
}
