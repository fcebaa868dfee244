package graphfile

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/rlch/graphsel"
)

// nodeEnv is the environment a where expression is evaluated in.
type nodeEnv struct {
	ID    string            `expr:"id"`
	Name  string            `expr:"name"`
	Attrs map[string]string `expr:"attrs"`
	Deps  []string          `expr:"deps"`
}

// Where is a compiled node predicate such as
// `attrs.owner == "data" and len(deps) > 0`.
type Where struct {
	source  string
	program *vm.Program
}

// CompileWhere compiles a boolean expression over a node's id, name,
// attributes and dependencies.
func CompileWhere(source string) (*Where, error) {
	program, err := expr.Compile(source, expr.Env(nodeEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid where expression: %w", err)
	}

	return &Where{source: source, program: program}, nil
}

func (w *Where) String() string { return w.source }

// Match reports whether node id of g satisfies the predicate.
func (w *Where) Match(g *graphsel.Graph, id graphsel.NodeID) (bool, error) {
	attrs := g.Attributes(id)

	env := nodeEnv{
		ID:    id,
		Name:  attrs[graphsel.NameAttribute],
		Attrs: attrs,
		Deps:  g.Upstream(id),
	}

	out, err := expr.Run(w.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluating where on %s: %w", id, err)
	}

	ok, _ := out.(bool)

	return ok, nil
}

// Filter returns the members of set that satisfy the predicate.
func (w *Where) Filter(g *graphsel.Graph, set graphsel.NodeSet) (graphsel.NodeSet, error) {
	out := graphsel.NewNodeSet()

	for _, id := range set.Sorted() {
		ok, err := w.Match(g, id)
		if err != nil {
			return nil, err
		}

		if ok {
			out.Add(id)
		}
	}

	return out, nil
}
