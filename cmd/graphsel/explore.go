package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"github.com/rlch/graphsel"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	matchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#DDDDDD"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Padding(1, 0)
)

func (a *app) exploreCommand() *cli.Command {
	return &cli.Command{
		Name:      "explore",
		Usage:     "Interactively try selections against a graph",
		ArgsUsage: "[SELECTION]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "graph",
				Aliases: []string{"g"},
				Usage:   "graph file, directory or neo4j:// URI (overrides config)",
				Sources: cli.EnvVars("GRAPHSEL_GRAPH"),
			},
		},
		Action: a.runExplore,
	}
}

func (a *app) runExplore(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	source, err := resolveGraphSource(cmd.String("graph"), cfg)
	if err != nil {
		return err
	}

	g, _, err := source.load(ctx)
	if err != nil {
		return err
	}

	m := newExploreModel(g, strings.Join(cmd.Args().Slice(), " "), cfg.EvalOptions()...)

	final, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithOutput(a.stderr)).Run()
	if err != nil {
		return fmt.Errorf("running explorer: %w", err)
	}

	// The chosen selection's matches go to stdout so explore can be piped.
	if em, ok := final.(exploreModel); ok && em.accepted && em.err == nil {
		return writeResult(a.stdout, em.sel, em.matches, false)
	}

	return nil
}

// exploreModel re-evaluates the selection on every keystroke.
type exploreModel struct {
	graph    *graphsel.Graph
	opts     []graphsel.Option
	input    textinput.Model
	sel      graphsel.Selection
	matches  []graphsel.NodeID
	err      error
	height   int
	accepted bool
}

func newExploreModel(g *graphsel.Graph, initial string, opts ...graphsel.Option) exploreModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "+name:clean_orders*"
	ti.SetValue(initial)
	ti.Focus()

	m := exploreModel{graph: g, opts: opts, input: ti}
	m.evaluate()

	return m
}

func (m *exploreModel) evaluate() {
	m.sel, m.matches, m.err = nil, nil, nil

	input := m.input.Value()
	if strings.TrimSpace(input) == "" {
		return
	}

	sel, err := graphsel.Parse(input)
	if err != nil {
		m.err = err

		return
	}

	m.sel = sel
	m.matches = graphsel.Evaluate(sel, m.graph, m.opts...).Sorted()
}

func (m exploreModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height

		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			m.accepted = true

			return m, tea.Quit
		}
	}

	var cmd tea.Cmd

	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)

	if m.input.Value() != before {
		m.evaluate()
	}

	return m, cmd
}

func (m exploreModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf(" graphsel: %d nodes ", m.graph.Len())))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	case m.sel == nil:
		b.WriteString(dimStyle.Render("Type a selection."))
		b.WriteString("\n")
	case len(m.matches) == 0:
		b.WriteString(dimStyle.Render("No nodes match."))
		b.WriteString("\n")
	default:
		limit := len(m.matches)
		if m.height > 8 && limit > m.height-8 {
			limit = m.height - 8
		}

		for _, id := range m.matches[:limit] {
			b.WriteString(matchStyle.Render("  " + id))
			b.WriteString("\n")
		}

		if limit < len(m.matches) {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  ... and %d more", len(m.matches)-limit)))
			b.WriteString("\n")
		}
	}

	b.WriteString(helpStyle.Render(fmt.Sprintf("%d matched | enter: print and quit | esc: quit", len(m.matches))))

	return b.String()
}
