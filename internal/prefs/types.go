package prefs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// ThemeMode selects the colour scheme.
type ThemeMode string

const (
	ThemeLight       ThemeMode = "light"
	ThemeDark        ThemeMode = "dark"
	ThemeSketchLight ThemeMode = "sketch-light"
	ThemeSketchDark  ThemeMode = "sketch-dark"
)

// Themes lists every supported theme in display order.
var Themes = []ThemeMode{ThemeLight, ThemeDark, ThemeSketchLight, ThemeSketchDark}

// Valid reports whether t is one of the supported themes.
func (t ThemeMode) Valid() bool { return slices.Contains(Themes, t) }

// IsSketch reports whether t is one of the paper-textured sketch themes.
func (t ThemeMode) IsSketch() bool { return t == ThemeSketchLight || t == ThemeSketchDark }

// LayoutMode controls how catalog items are rendered.
type LayoutMode string

const (
	LayoutCompact LayoutMode = "compact"
	LayoutNormal  LayoutMode = "normal"
	LayoutLarge   LayoutMode = "large"
	LayoutList    LayoutMode = "list"
	LayoutMinimal LayoutMode = "minimal"
)

// Layouts lists every layout in display order.
var Layouts = []LayoutMode{LayoutCompact, LayoutNormal, LayoutLarge, LayoutList, LayoutMinimal}

func (l LayoutMode) Valid() bool { return slices.Contains(Layouts, l) }

// NetworkMode decides which site URLs are preferred.
type NetworkMode string

const (
	NetworkAuto     NetworkMode = "auto"
	NetworkInternal NetworkMode = "internal"
	NetworkExternal NetworkMode = "external"
	NetworkHybrid   NetworkMode = "hybrid"
)

var NetworkModes = []NetworkMode{NetworkAuto, NetworkInternal, NetworkExternal, NetworkHybrid}

func (n NetworkMode) Valid() bool { return slices.Contains(NetworkModes, n) }

// Tab identifies one of the three catalog tabs.
type Tab string

const (
	TabSites         Tab = "sites"
	TabDocker        Tab = "docker"
	TabLuckyServices Tab = "luckyServices"
)

var Tabs = []Tab{TabSites, TabDocker, TabLuckyServices}

func (t Tab) Valid() bool { return slices.Contains(Tabs, t) }

// AllGroupsKey is the sentinel group key meaning "no filter".
const AllGroupsKey = "all"

type selectionKind int

const (
	selectAll selectionKind = iota
	selectSingle
	selectList
)

// GroupSelection is the per-tab group filter. It is either the "all"
// sentinel, a legacy single key, or an ordered list of keys. The zero value
// selects all groups.
type GroupSelection struct {
	kind selectionKind
	keys []string
}

// AllGroups returns the "all" sentinel selection.
func AllGroups() GroupSelection { return GroupSelection{} }

// SingleGroup returns a legacy single-key selection. The key "all" yields
// the sentinel.
func SingleGroup(key string) GroupSelection {
	if key == AllGroupsKey || key == "" {
		return AllGroups()
	}
	return GroupSelection{kind: selectSingle, keys: []string{key}}
}

// GroupList returns a list selection. An empty list is kept as a list; it
// still counts as "all" for IsAll.
func GroupList(keys ...string) GroupSelection {
	return GroupSelection{kind: selectList, keys: slices.Clone(keys)}
}

// IsSentinel reports whether the selection is literally "all".
func (g GroupSelection) IsSentinel() bool { return g.kind == selectAll }

// IsList reports whether the selection is in list form.
func (g GroupSelection) IsList() bool { return g.kind == selectList }

// IsSingle reports whether the selection is a legacy single key.
func (g GroupSelection) IsSingle() bool { return g.kind == selectSingle }

// IsAll reports whether the selection selects every group, which is the
// case for the sentinel and for an empty list.
func (g GroupSelection) IsAll() bool {
	return g.kind == selectAll || (g.kind == selectList && len(g.keys) == 0)
}

// Keys returns the selected keys in order. The sentinel yields nil.
func (g GroupSelection) Keys() []string {
	if g.kind == selectAll {
		return nil
	}
	return slices.Clone(g.keys)
}

// Matches reports whether an item in group key passes this filter.
func (g GroupSelection) Matches(key string) bool {
	if g.IsAll() {
		return true
	}
	return slices.Contains(g.keys, key)
}

// Equal reports whether two selections have the same form and keys.
func (g GroupSelection) Equal(other GroupSelection) bool {
	return g.kind == other.kind && slices.Equal(g.keys, other.keys)
}

func (g GroupSelection) String() string {
	switch g.kind {
	case selectSingle:
		return g.keys[0]
	case selectList:
		return fmt.Sprint(g.keys)
	default:
		return AllGroupsKey
	}
}

// MarshalJSON encodes the selection the way the web client stores it.
func (g GroupSelection) MarshalJSON() ([]byte, error) {
	switch g.kind {
	case selectSingle:
		return json.Marshal(g.keys[0])
	case selectList:
		keys := g.keys
		if keys == nil {
			keys = []string{}
		}
		return json.Marshal(keys)
	default:
		return json.Marshal(AllGroupsKey)
	}
}

// UnmarshalJSON accepts "all", a single key string, a list of keys, or null.
func (g *GroupSelection) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*g = AllGroups()
		return nil
	}
	if trimmed[0] == '[' {
		var keys []string
		if err := json.Unmarshal(trimmed, &keys); err != nil {
			return fmt.Errorf("decode group list: %w", err)
		}
		*g = GroupList(keys...)
		return nil
	}
	var key string
	if err := json.Unmarshal(trimmed, &key); err != nil {
		return fmt.Errorf("decode group key: %w", err)
	}
	*g = SingleGroup(key)
	return nil
}

// TabGroups holds the group selection of each tab.
type TabGroups struct {
	Sites         GroupSelection `json:"sites"`
	Docker        GroupSelection `json:"docker"`
	LuckyServices GroupSelection `json:"luckyServices"`
}

// Get returns the selection for tab; unknown tabs select all.
func (t TabGroups) Get(tab Tab) GroupSelection {
	switch tab {
	case TabSites:
		return t.Sites
	case TabDocker:
		return t.Docker
	case TabLuckyServices:
		return t.LuckyServices
	default:
		return AllGroups()
	}
}

// With returns a copy of t with tab's selection replaced.
func (t TabGroups) With(tab Tab, sel GroupSelection) TabGroups {
	switch tab {
	case TabSites:
		t.Sites = sel
	case TabDocker:
		t.Docker = sel
	case TabLuckyServices:
		t.LuckyServices = sel
	}
	return t
}

// UserConfig is the persisted display configuration. Field names match the
// blob written by the web client.
type UserConfig struct {
	Theme               ThemeMode   `json:"theme"`
	Background          string      `json:"background"`
	CustomBgURL         string      `json:"customBgUrl"`
	Layout              LayoutMode  `json:"layout"`
	DockerLayout        LayoutMode  `json:"dockerLayout"`
	LuckyServicesLayout LayoutMode  `json:"luckyServicesLayout"`
	ShowDescription     bool        `json:"showDescription"`
	ShowTime            bool        `json:"showTime"`
	TabGroups           TabGroups   `json:"tabGroups"`
	NetworkMode         NetworkMode `json:"networkMode"`
	CurrentTab          Tab         `json:"currentTab"`
}

// LayoutFor returns the layout used by tab.
func (c UserConfig) LayoutFor(tab Tab) LayoutMode {
	switch tab {
	case TabDocker:
		return c.DockerLayout
	case TabLuckyServices:
		return c.LuckyServicesLayout
	default:
		return c.Layout
	}
}

func (c UserConfig) clone() UserConfig {
	dup := c
	dup.TabGroups = TabGroups{
		Sites:         c.TabGroups.Sites.clone(),
		Docker:        c.TabGroups.Docker.clone(),
		LuckyServices: c.TabGroups.LuckyServices.clone(),
	}
	return dup
}

func (g GroupSelection) clone() GroupSelection {
	return GroupSelection{kind: g.kind, keys: slices.Clone(g.keys)}
}

const defaultBackground = "ocean"

// DefaultConfig returns the compiled-in configuration.
func DefaultConfig() UserConfig {
	return UserConfig{
		Theme:               ThemeDark,
		Background:          defaultBackground,
		CustomBgURL:         "",
		Layout:              LayoutNormal,
		DockerLayout:        LayoutList,
		LuckyServicesLayout: LayoutNormal,
		ShowDescription:     true,
		ShowTime:            true,
		TabGroups:           TabGroups{},
		NetworkMode:         NetworkHybrid,
		CurrentTab:          TabSites,
	}
}
