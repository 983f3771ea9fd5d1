package ui

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lightpanel/lightpanel/internal/logging"
	"github.com/lightpanel/lightpanel/internal/prefs"
	"github.com/lightpanel/lightpanel/internal/state"
)

const defaultRefreshTick = time.Second

// Options configures the UI.
type Options struct {
	Context     context.Context
	Prefs       *prefs.Store
	Nav         *state.NavStore
	Ring        *logging.Ring
	RefreshTick time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx         context.Context
	prefs       *prefs.Store
	nav         *state.NavStore
	ring        *logging.Ring
	refreshTick time.Duration
	keys        keyMap
	help        help.Model

	// UI state
	width    int
	height   int
	ready    bool
	showHelp bool
	selected int
	now      time.Time

	// Search state
	searching bool
	search    textinput.Model

	// Data state
	snapshot  state.Snapshot
	cfg       prefs.UserConfig
	reloading bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	tick := opts.RefreshTick
	if tick <= 0 {
		tick = defaultRefreshTick
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search"
	search.CharLimit = 64

	m := Model{
		ctx:         ctx,
		prefs:       opts.Prefs,
		nav:         opts.Nav,
		ring:        opts.Ring,
		refreshTick: tick,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		search:      search,
		now:         time.Now(),
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	m.syncPolling()
	return tea.Batch(
		tea.EnterAltScreen,
		tickCmd(m.refreshTick),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case tickMsg:
		m.now = time.Time(msg)
		if m.nav == nil {
			return m, tickCmd(m.refreshTick)
		}
		return m, tea.Batch(fetchSnapshotCmd(m.nav), tickCmd(m.refreshTick))

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.cfg = m.prefs.Config()
		m.clampSelection()
		return m, nil

	case reloadedMsg:
		m.reloading = false
		m.refresh()
		m.syncPolling()
		return m, nil
	}

	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKey processes keyboard input outside the search box.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.nav != nil {
			m.nav.StopAllPolling()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.Reload):
		if m.reloading || m.nav == nil {
			return m, nil
		}
		m.reloading = true
		return m, reloadCmd(m.ctx, m.nav)

	case key.Matches(msg, m.keys.NextTab):
		m.switchTab(1)

	case key.Matches(msg, m.keys.PrevTab):
		m.switchTab(-1)

	case key.Matches(msg, m.keys.AllGroups):
		m.prefs.ToggleGroup(prefs.AllGroupsKey)
		m.selected = 0

	case key.Matches(msg, m.keys.ToggleGroup):
		groups := groupsFor(m.currentTab(), m.snapshot)
		idx := int(msg.String()[0] - '1')
		if idx >= 0 && idx < len(groups) {
			m.prefs.ToggleGroup(groups[idx].Key)
			m.selected = 0
		}

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}

	case key.Matches(msg, m.keys.Down):
		m.selected++

	case key.Matches(msg, m.keys.Top):
		m.selected = 0

	case key.Matches(msg, m.keys.Bottom):
		m.selected = len(m.entries()) - 1

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue(m.prefs.CurrentSearchKeyword())
		m.search.CursorEnd()
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.ClearSearch):
		m.prefs.ClearSearchKeyword()
		if m.prefs.SettingsPanelOpen() {
			m.prefs.SetSettingsPanelOpen(false)
		}

	case key.Matches(msg, m.keys.CycleTheme):
		m.prefs.SetTheme(cycle(prefs.Themes, m.cfg.Theme))

	case key.Matches(msg, m.keys.CycleLayout):
		tab := m.currentTab()
		m.prefs.SetLayoutFor(tab, cycle(prefs.Layouts, m.cfg.LayoutFor(tab)))

	case key.Matches(msg, m.keys.CycleBackground):
		ids := backgroundIDs(m.prefs.AllBackgrounds())
		if len(ids) > 0 {
			m.prefs.SetBackground(cycle(ids, m.cfg.Background))
		}

	case key.Matches(msg, m.keys.CycleNetwork):
		m.prefs.SetNetworkMode(cycle(prefs.NetworkModes, m.cfg.NetworkMode))

	case key.Matches(msg, m.keys.ToggleDesc):
		m.prefs.SetShowDescription(!m.cfg.ShowDescription)

	case key.Matches(msg, m.keys.ToggleTime):
		m.prefs.SetShowTime(!m.cfg.ShowTime)

	case key.Matches(msg, m.keys.ToggleSettings):
		m.prefs.ToggleSettingsPanel()

	case key.Matches(msg, m.keys.ResetPreferences):
		m.prefs.ResetConfig()
		m.prefs.ClearAllSearchKeywords()
		m.selected = 0
		m.syncPolling()
	}

	m.cfg = m.prefs.Config()
	m.clampSelection()
	return m, nil
}

// handleSearchKey feeds the search box and filters as the user types.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm), key.Matches(msg, m.keys.Cancel):
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.prefs.SetSearchKeyword(m.search.Value())
	m.selected = 0
	return m, cmd
}

// currentTab returns the stored tab when it is enabled, else the first
// enabled tab.
func (m Model) currentTab() prefs.Tab {
	tabs := enabledTabs(m.snapshot)
	if slices.Contains(tabs, m.cfg.CurrentTab) || len(tabs) == 0 {
		return m.cfg.CurrentTab
	}
	return tabs[0]
}

func (m *Model) switchTab(delta int) {
	tabs := enabledTabs(m.snapshot)
	if len(tabs) == 0 {
		return
	}
	idx := slices.Index(tabs, m.currentTab())
	next := tabs[((idx+delta)%len(tabs)+len(tabs))%len(tabs)]
	m.prefs.SetCurrentTab(next)
	m.cfg = m.prefs.Config()
	m.selected = 0
	m.syncPolling()
}

// syncPolling runs the stats poller of the visible tab and stops the other.
func (m Model) syncPolling() {
	if m.nav == nil {
		return
	}
	switch m.currentTab() {
	case prefs.TabDocker:
		m.nav.StopLuckyServicesStatsPolling()
		if m.snapshot.DockerEnabled && !m.nav.DockerPolling() {
			m.nav.StartDockerStatsPolling(m.ctx)
		}
	case prefs.TabLuckyServices:
		m.nav.StopDockerStatsPolling()
		if m.snapshot.LuckyServicesEnabled && !m.nav.LuckyServicesPolling() {
			m.nav.StartLuckyServicesStatsPolling(m.ctx)
		}
	default:
		m.nav.StopAllPolling()
	}
}

func (m *Model) refresh() {
	if m.nav != nil {
		m.snapshot = m.nav.Snapshot()
	}
	m.cfg = m.prefs.Config()
	m.clampSelection()
}

func (m Model) entries() []entry {
	return entriesFor(m.currentTab(), m.snapshot, m.prefs.CurrentGroup(), m.prefs.CurrentSearchKeyword(), m.cfg.NetworkMode)
}

func (m *Model) clampSelection() {
	n := len(m.entries())
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func backgroundIDs(list []prefs.PresetBackground) []string {
	ids := make([]string, 0, len(list))
	for _, bg := range list {
		ids = append(ids, bg.ID)
	}
	return ids
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type reloadedMsg struct{}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(nav *state.NavStore) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(nav.Snapshot())
	}
}

func reloadCmd(ctx context.Context, nav *state.NavStore) tea.Cmd {
	return func() tea.Msg {
		nav.LoadAllData(ctx)
		return reloadedMsg{}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
