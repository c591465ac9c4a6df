package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartlayout/pkg/layout"
	"github.com/matzehuels/chartlayout/pkg/layout/place"
	"github.com/matzehuels/chartlayout/pkg/pipeline"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// inspectCommand creates the inspect command, an interactive browser over
// the label decisions of a chart.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		flags      layoutFlags
		fromLayout bool
		plain      bool
	)
	opts := pipeline.Options{}
	setCLIDefaults(&opts)

	cmd := &cobra.Command{
		Use:   "inspect [spec.json|spec.toml]",
		Short: "Browse the label placements of a chart",
		Long: `Browse the label placements of a chart.

Lists every label the layout placed with its strategy (internal, external
or hidden), anchor and text. Use --plain to print the table without the
interactive browser.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSpecFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], opts, flags, fromLayout, plain)
		},
	}

	cmd.Flags().BoolVar(&fromLayout, "from-layout", false, "input is a layout.json instead of a spec")
	cmd.Flags().BoolVar(&plain, "plain", false, "print the table and exit")
	flags.register(cmd, &opts)

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input string, opts pipeline.Options, flags layoutFlags, fromLayout, plain bool) error {
	var l layout.ComputedLayout
	if fromLayout {
		var err error
		if l, err = readLayoutFile(input); err != nil {
			return err
		}
	} else {
		spec, err := loadSpec(input)
		if err != nil {
			return fmt.Errorf("load spec: %w", err)
		}
		grid, err := flags.grid(&opts)
		if err != nil {
			return err
		}
		runner, err := c.newRunner(flags.noCache)
		if err != nil {
			return fmt.Errorf("initialize runner: %w", err)
		}
		defer runner.Close()
		opts.Logger = c.Logger
		if l, err = runner.ComputeLayout(ctx, spec, grid, opts); err != nil {
			return fmt.Errorf("compute layout: %w", err)
		}
	}

	m := NewLabelListModel(input, l)
	if plain {
		m.Height = len(m.Rows)
		fmt.Println(m.View())
		return nil
	}
	_, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// Label rows
// =============================================================================

// LabelRow is one label decision as listed by the browser.
type LabelRow struct {
	Source   string // category, value, max, min, point, slice, rect
	Index    int
	Text     string
	Strategy string
	Anchor   string
	X, Y     float64
}

// labelRows collects every label of l in drawing order.
func labelRows(l layout.ComputedLayout) []LabelRow {
	var rows []LabelRow
	add := func(source string, index int, pl place.Label) {
		rows = append(rows, LabelRow{
			Source:   source,
			Index:    index,
			Text:     strings.Join(pl.Block(), " / "),
			Strategy: string(pl.Strategy),
			Anchor:   string(pl.TextAnchor),
			X:        pl.X,
			Y:        pl.Y,
		})
	}

	switch {
	case l.Cartesian != nil:
		for _, cat := range l.Cartesian.Categories {
			rows = append(rows, LabelRow{
				Source:   "category",
				Index:    cat.Index,
				Text:     strings.Join(cat.Lines, " / "),
				Strategy: "axis",
				Anchor:   string(cat.TextAnchor),
				X:        cat.Anchor.X,
				Y:        cat.Anchor.Y,
			})
		}
		for _, vl := range l.Cartesian.Labels {
			add(string(vl.Role), vl.Index, vl.Label)
		}
		for _, p := range l.Cartesian.Points {
			add("point", p.Index, p.Label)
		}
	case l.Radial != nil:
		for _, s := range l.Radial.Slices {
			add("slice", s.OriginalIndex, s.Label)
		}
	case l.Treemap != nil:
		for _, r := range l.Treemap.Rects {
			add("rect", r.Index, r.Label)
		}
	}
	return rows
}

// =============================================================================
// LabelListModel - Interactive label browser
// =============================================================================

// LabelListModel is the bubbletea model for browsing label decisions.
type LabelListModel struct {
	Title  string
	Layout layout.ComputedLayout
	Rows   []LabelRow
	Cursor int
	Height int
	Offset int
	// HiddenOnly filters the list down to hidden labels.
	HiddenOnly bool
}

// NewLabelListModel creates a new label list model.
func NewLabelListModel(title string, l layout.ComputedLayout) LabelListModel {
	return LabelListModel{
		Title:  title,
		Layout: l,
		Rows:   labelRows(l),
		Height: 15,
	}
}

// visible returns the rows shown under the current filter.
func (m LabelListModel) visible() []LabelRow {
	if !m.HiddenOnly {
		return m.Rows
	}
	var out []LabelRow
	for _, r := range m.Rows {
		if r.Strategy == string(place.Hidden) {
			out = append(out, r)
		}
	}
	return out
}

func (m LabelListModel) Init() tea.Cmd {
	return nil
}

func (m LabelListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	n := len(m.visible())
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < n-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "h":
			m.HiddenOnly = !m.HiddenOnly
			m.Cursor, m.Offset = 0, 0
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m LabelListModel) View() string {
	var b strings.Builder
	rows := m.visible()

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%s · scale %.2f · font %.1fpx", m.Layout.Kind, m.Layout.Scale, m.Layout.FontSize)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  h hidden only  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(rows))
	cells := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		cells = append(cells, []string{
			cursor,
			r.Source,
			fmt.Sprintf("%d", r.Index),
			r.Strategy,
			r.Anchor,
			fmt.Sprintf("%.1f,%.1f", r.X, r.Y),
			r.Text,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Source", "#", "Strategy", "Anchor", "Position", "Text").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(rows) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			switch rows[idx].Strategy {
			case string(place.Hidden):
				base = base.Foreground(colorDim)
			case string(place.External):
				base = base.Foreground(colorYellow)
			}
			if idx == m.Cursor {
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	pos := 0
	if len(rows) > 0 {
		pos = m.Cursor + 1
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", pos, len(rows))))
	if m.Layout.OverflowRisk.HasRisk {
		b.WriteString("  ")
		b.WriteString(StyleWarning.Render("overflow risk"))
	}

	return b.String()
}
