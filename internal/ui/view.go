package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/lightpanel/lightpanel/internal/prefs"
	"github.com/lightpanel/lightpanel/internal/state"
)

const (
	compactCellWidth = 24
	normalCellWidth  = 36
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	theme := ThemeFor(m.cfg.Theme)
	styles := theme.Styles()

	top := []string{
		m.renderHeader(styles),
		m.renderTabs(styles),
		m.renderGroups(styles),
	}
	if line := m.renderSearch(styles); line != "" {
		top = append(top, line)
	}
	footer := m.renderFooter(styles)

	used := len(top) + lipgloss.Height(footer)
	bodyHeight := max(m.height-used, 1)

	var body string
	if m.prefs.SettingsPanelOpen() {
		body = m.renderSettings(styles)
	} else {
		body = m.renderItems(styles, bodyHeight)
	}
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	return lipgloss.NewStyle().
		Background(lipgloss.Color(theme.Background)).
		Width(m.width).
		Render(lipgloss.JoinVertical(lipgloss.Left, append(top, body, footer)...))
}

// renderHeader shows branding, network state, and the clock.
func (m Model) renderHeader(styles Styles) string {
	left := styles.Title.Render(m.snapshot.Title)
	if m.snapshot.Subtitle != "" {
		left += " " + styles.MutedText.Render(m.snapshot.Subtitle)
	}
	if m.snapshot.Loading || m.reloading {
		left += " " + styles.WarningText.Render("loading…")
	}

	right := []string{networkSummary(m.cfg.NetworkMode, m.snapshot)}
	if m.cfg.ShowTime {
		right = append(right, m.now.Format("15:04:05"))
	}
	rightText := styles.MutedText.Render(strings.Join(right, "  "))

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(rightText)-2, 1)
	return styles.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + rightText)
}

// networkSummary renders "net <mode> → <effective> <ip>".
func networkSummary(mode prefs.NetworkMode, snap state.Snapshot) string {
	effective := EffectiveNetwork(mode, snap.NetworkType)
	out := fmt.Sprintf("net %s → %s", mode, effective)
	if snap.ClientIP != "" {
		out += " " + snap.ClientIP
	}
	if snap.NetworkProbe == state.ProbeFailed {
		out += " (probe failed)"
	}
	return out
}

func (m Model) renderTabs(styles Styles) string {
	tabs := enabledTabs(m.snapshot)
	if len(tabs) == 0 {
		return styles.MutedText.Render("no modules enabled")
	}
	current := m.currentTab()
	parts := make([]string, 0, len(tabs))
	for _, tab := range tabs {
		label := tabLabel(tab)
		if tab == current {
			parts = append(parts, styles.ActiveTab.Render(label))
		} else {
			parts = append(parts, styles.Tab.Render(label))
		}
	}
	layout := styles.FaintText.Render("layout " + string(m.cfg.LayoutFor(current)))
	return strings.Join(parts, " ") + "  " + layout
}

// renderGroups draws the group bar; selected chips come from IsGroupSelected.
func (m Model) renderGroups(styles Styles) string {
	groups := groupsFor(m.currentTab(), m.snapshot)
	chip := func(n, name, key string) string {
		label := n + " " + name
		if m.prefs.IsGroupSelected(key) {
			return styles.ChipOn.Render(label)
		}
		return styles.Chip.Render(label)
	}
	parts := []string{chip("0", "all", prefs.AllGroupsKey)}
	for i, g := range groups {
		if i >= 9 {
			break
		}
		parts = append(parts, chip(fmt.Sprint(i+1), g.Name, g.Key))
	}
	return truncateRendered(strings.Join(parts, ""), m.width)
}

func (m Model) renderSearch(styles Styles) string {
	if m.searching {
		return m.search.View()
	}
	if kw := m.prefs.CurrentSearchKeyword(); kw != "" {
		return styles.AccentText.Render("/ "+kw) + "  " + styles.FaintText.Render("esc to clear")
	}
	return ""
}

// renderItems draws the catalog of the current tab in its layout.
func (m Model) renderItems(styles Styles, height int) string {
	entries := m.entries()
	if len(entries) == 0 {
		if m.snapshot.Loading {
			return styles.MutedText.Render("Loading…")
		}
		return styles.MutedText.Render("Nothing to show")
	}

	showDesc := m.cfg.ShowDescription
	switch m.cfg.LayoutFor(m.currentTab()) {
	case prefs.LayoutMinimal:
		return m.renderRows(entries, height, func(e entry) string {
			return styles.Text.Render(truncate(e.Title, m.width-2))
		}, styles)

	case prefs.LayoutCompact:
		return m.renderGrid(entries, compactCellWidth, height, 1, func(e entry) string {
			return stateDot(e, styles) + truncate(e.Title, compactCellWidth-4)
		}, styles)

	case prefs.LayoutNormal:
		cellHeight := 3
		if showDesc {
			cellHeight = 4
		}
		return m.renderGrid(entries, normalCellWidth, height, cellHeight, func(e entry) string {
			lines := []string{stateDot(e, styles) + styles.Text.Bold(true).Render(truncate(e.Title, normalCellWidth-6))}
			if showDesc {
				lines = append(lines, styles.MutedText.Render(truncate(e.Desc, normalCellWidth-4)))
			}
			lines = append(lines, styles.FaintText.Render(truncate(firstNonEmpty(e.Stats, e.Detail), normalCellWidth-4)))
			return strings.Join(lines, "\n")
		}, styles)

	case prefs.LayoutLarge:
		return m.renderCards(entries, height, showDesc, styles)

	default:
		return m.renderRows(entries, height, func(e entry) string {
			return entryLine(e, showDesc, m.width-2, styles)
		}, styles)
	}
}

func (m Model) renderRows(entries []entry, height int, render func(entry) string, styles Styles) string {
	start, end := window(len(entries), m.selected, height)
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		line := render(entries[i])
		if i == m.selected {
			line = styles.Selected.Width(m.width).Render(stripped(line))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderGrid(entries []entry, cellWidth, height, cellHeight int, render func(entry) string, styles Styles) string {
	cols := gridColumns(m.width, cellWidth)
	rowsVisible := max(height/(cellHeight+boolInt(cellHeight > 1)*2), 1)
	selRow := m.selected / cols
	startRow, endRow := window((len(entries)+cols-1)/cols, selRow, rowsVisible)

	rows := make([]string, 0, endRow-startRow)
	for r := startRow; r < endRow; r++ {
		cells := make([]string, 0, cols)
		for c := 0; c < cols; c++ {
			i := r*cols + c
			if i >= len(entries) {
				break
			}
			content := render(entries[i])
			var cell string
			switch {
			case cellHeight > 1:
				border := styles.Card
				if i == m.selected {
					border = border.BorderForeground(lipgloss.Color(ThemeFor(m.cfg.Theme).BorderFocus))
				}
				cell = border.Width(cellWidth - 2).Render(content)
			case i == m.selected:
				cell = styles.Selected.Width(cellWidth - 2).Render(stripped(content))
			default:
				cell = lipgloss.NewStyle().Width(cellWidth - 2).Render(content)
			}
			cells = append(cells, lipgloss.NewStyle().MarginRight(1).Render(cell))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderCards(entries []entry, height int, showDesc bool, styles Styles) string {
	perCard := 5
	if showDesc {
		perCard++
	}
	start, end := window(len(entries), m.selected, max(height/perCard, 1))
	width := max(m.width-4, 10)
	cards := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		e := entries[i]
		lines := []string{stateDot(e, styles) + styles.Text.Bold(true).Render(e.Title)}
		if showDesc && e.Desc != "" {
			lines = append(lines, styles.MutedText.Render(truncate(e.Desc, width)))
		}
		lines = append(lines, styles.InfoText.Render(truncate(e.Detail, width)))
		if e.Stats != "" {
			lines = append(lines, styles.FaintText.Render(truncate(e.Stats, width)))
		}
		card := styles.Card.Width(width)
		if i == m.selected {
			card = card.BorderForeground(lipgloss.Color(ThemeFor(m.cfg.Theme).BorderFocus))
		}
		cards = append(cards, card.Render(strings.Join(lines, "\n")))
	}
	return strings.Join(cards, "\n")
}

// renderSettings lists the stored preferences and the resolved background.
func (m Model) renderSettings(styles Styles) string {
	cfg := m.cfg
	bgName := cfg.Background
	for _, bg := range m.prefs.AllBackgrounds() {
		if bg.ID == cfg.Background {
			bgName = bg.Name
			break
		}
	}
	rows := [][2]string{
		{"theme", string(cfg.Theme)},
		{"background", bgName},
		{"layout (sites)", string(cfg.Layout)},
		{"layout (docker)", string(cfg.DockerLayout)},
		{"layout (lucky)", string(cfg.LuckyServicesLayout)},
		{"network mode", string(cfg.NetworkMode)},
		{"descriptions", onOff(cfg.ShowDescription)},
		{"clock", onOff(cfg.ShowTime)},
		{"groups (sites)", cfg.TabGroups.Sites.String()},
		{"groups (docker)", cfg.TabGroups.Docker.String()},
		{"groups (lucky)", cfg.TabGroups.LuckyServices.String()},
		{"saved locally", onOff(m.prefs.HasLocalConfig())},
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render("Settings"))
	b.WriteString("\n\n")
	for _, row := range rows {
		b.WriteString(styles.MutedText.Width(18).Render(row[0]))
		b.WriteString(styles.Text.Render(row[1]))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(truncate(m.prefs.BackgroundStyle().CSS(), max(m.width-6, 10))))
	return styles.Card.Render(b.String())
}

func (m Model) renderFooter(styles Styles) string {
	left := m.help.ShortHelpView(m.keys.ShortHelp())
	if m.ring != nil {
		if last, ok := m.ring.Last(); ok {
			left = styles.WarningText.Render(truncate(last.String(), m.width/2)) + "  " + left
		}
	}
	return styles.Footer.Width(m.width).Render(left)
}

// entryLine renders one list-layout row.
func entryLine(e entry, showDesc bool, width int, styles Styles) string {
	parts := []string{stateDot(e, styles) + styles.Text.Bold(true).Render(e.Title)}
	if showDesc && e.Desc != "" {
		parts = append(parts, styles.MutedText.Render(e.Desc))
	}
	if e.Detail != "" {
		parts = append(parts, styles.InfoText.Render(e.Detail))
	}
	if e.Stats != "" {
		parts = append(parts, styles.FaintText.Render(e.Stats))
	}
	return truncateRendered(strings.Join(parts, "  "), width)
}

func stateDot(e entry, styles Styles) string {
	if e.State == "" {
		return ""
	}
	return styles.StateStyle(e.State).Render("●") + " "
}

// window returns the [start, end) slice of total rows that keeps selected
// visible within size rows.
func window(total, selected, size int) (int, int) {
	if size <= 0 || total <= size {
		return 0, total
	}
	start := selected - size/2
	start = max(start, 0)
	start = min(start, total-size)
	return start, start + size
}

// gridColumns returns how many cells of cellWidth fit in width.
func gridColumns(width, cellWidth int) int {
	if cellWidth <= 0 {
		return 1
	}
	return max(width/cellWidth, 1)
}

func truncateRendered(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

// stripped drops ANSI styling so a selection style can repaint the line.
func stripped(s string) string {
	return ansi.Strip(s)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
