package prefs

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStorage wraps MemoryStorage and counts writes.
type countingStorage struct {
	*MemoryStorage
	writes  int
	failSet bool
}

func newCountingStorage() *countingStorage {
	return &countingStorage{MemoryStorage: NewMemoryStorage()}
}

func (c *countingStorage) Set(key string, value []byte) error {
	c.writes++
	if c.failSet {
		return errors.New("quota exceeded")
	}
	return c.MemoryStorage.Set(key, value)
}

func storedConfig(t *testing.T, s Storage) map[string]any {
	t.Helper()
	data, err := s.Get(StorageKey)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func raw(t *testing.T, fields map[string]any) map[string]json.RawMessage {
	t.Helper()
	out := make(map[string]json.RawMessage, len(fields))
	for k, v := range fields {
		b, err := json.Marshal(v)
		require.NoError(t, err)
		out[k] = b
	}
	return out
}

func TestStore_LoadWithoutBlobUsesDefaults(t *testing.T) {
	storage := newCountingStorage()
	s := NewStore(storage, nil)
	s.Load()

	assert.Equal(t, DefaultConfig(), s.Config())
	assert.False(t, s.HasLocalConfig())
	assert.Zero(t, storage.writes)
}

func TestStore_LoadMergesBlobOverDefaults(t *testing.T) {
	storage := newCountingStorage()
	require.NoError(t, storage.MemoryStorage.Set(StorageKey, []byte(`{"theme":"light","layout":"compact","tabGroups":{"docker":["db","web"]}}`)))

	s := NewStore(storage, nil)
	s.Load()

	cfg := s.Config()
	assert.True(t, s.HasLocalConfig())
	assert.Equal(t, ThemeLight, cfg.Theme)
	assert.Equal(t, LayoutCompact, cfg.Layout)
	assert.Equal(t, LayoutList, cfg.DockerLayout)
	assert.Equal(t, "ocean", cfg.Background)
	assert.True(t, cfg.TabGroups.Sites.IsSentinel())
	assert.Equal(t, []string{"db", "web"}, cfg.TabGroups.Docker.Keys())
	assert.Zero(t, storage.writes)
}

func TestStore_LoadUnparseableBlobFallsBack(t *testing.T) {
	storage := newCountingStorage()
	require.NoError(t, storage.MemoryStorage.Set(StorageKey, []byte(`{not json`)))

	s := NewStore(storage, nil)
	s.Load()

	assert.False(t, s.HasLocalConfig())
	assert.Equal(t, DefaultConfig(), s.Config())
}

func TestStore_LoadCorrectsInvalidTheme(t *testing.T) {
	storage := newCountingStorage()
	require.NoError(t, storage.MemoryStorage.Set(StorageKey, []byte(`{"theme":"neon-pink","layout":"large"}`)))

	s := NewStore(storage, nil)
	s.Load()

	assert.Equal(t, ThemeDark, s.Config().Theme)
	assert.Equal(t, 1, storage.writes)
	assert.Equal(t, "dark", storedConfig(t, storage)["theme"])

	reloaded := NewStore(storage, nil)
	reloaded.Load()
	assert.Equal(t, ThemeDark, reloaded.Config().Theme)
	assert.Equal(t, LayoutLarge, reloaded.Config().Layout)
}

func TestStore_LoadWrongTypedThemeKeepsOtherFields(t *testing.T) {
	storage := newCountingStorage()
	require.NoError(t, storage.MemoryStorage.Set(StorageKey, []byte(`{"theme":123,"layout":"large","showTime":false}`)))

	s := NewStore(storage, nil)
	s.Load()

	cfg := s.Config()
	assert.True(t, s.HasLocalConfig())
	assert.Equal(t, ThemeDark, cfg.Theme)
	assert.Equal(t, LayoutLarge, cfg.Layout)
	assert.False(t, cfg.ShowTime)
	assert.Equal(t, 1, storage.writes)
	assert.Equal(t, "dark", storedConfig(t, storage)["theme"])

	s.ApplyServerConfig(raw(t, map[string]any{"layout": "compact", "showTime": true}))
	assert.Equal(t, LayoutLarge, s.Config().Layout)
	assert.False(t, s.Config().ShowTime)
	assert.Equal(t, 1, storage.writes)
}

func TestStore_LoadMalformedFieldsKeepDefaults(t *testing.T) {
	storage := newCountingStorage()
	blob := `{"tabGroups":{"sites":5,"docker":["db"]},"dockerLayout":"grid","showDescription":"yes","networkMode":"internal"}`
	require.NoError(t, storage.MemoryStorage.Set(StorageKey, []byte(blob)))

	s := NewStore(storage, nil)
	s.Load()

	cfg := s.Config()
	assert.True(t, s.HasLocalConfig())
	assert.True(t, cfg.TabGroups.Sites.IsSentinel())
	assert.Equal(t, []string{"db"}, cfg.TabGroups.Docker.Keys())
	assert.Equal(t, LayoutList, cfg.DockerLayout)
	assert.True(t, cfg.ShowDescription)
	assert.Equal(t, NetworkInternal, cfg.NetworkMode)
	assert.Zero(t, storage.writes)

	s.ApplyServerConfig(raw(t, map[string]any{"networkMode": "external"}))
	assert.Equal(t, NetworkInternal, s.Config().NetworkMode)
}

func TestStore_LoadNonObjectBlobFallsBack(t *testing.T) {
	for _, blob := range []string{`123`, `["dark"]`, `null`} {
		storage := newCountingStorage()
		require.NoError(t, storage.MemoryStorage.Set(StorageKey, []byte(blob)))

		s := NewStore(storage, nil)
		s.Load()

		assert.False(t, s.HasLocalConfig(), blob)
		assert.Equal(t, DefaultConfig(), s.Config(), blob)
	}
}

func TestStore_ApplyServerConfigNoopsOnEmptyInput(t *testing.T) {
	storage := newCountingStorage()
	s := NewStore(storage, nil)
	s.Load()

	s.ApplyServerConfig(nil)
	s.ApplyServerConfig(map[string]json.RawMessage{})

	assert.Zero(t, storage.writes)
	assert.Equal(t, DefaultConfig(), s.Config())
}

func TestStore_ApplyServerConfigSkippedWithLocalBlob(t *testing.T) {
	storage := newCountingStorage()
	require.NoError(t, storage.MemoryStorage.Set(StorageKey, []byte(`{"theme":"light"}`)))
	s := NewStore(storage, nil)
	s.Load()
	before := s.Config()

	s.ApplyServerConfig(raw(t, map[string]any{
		"theme":           "sketch-dark",
		"layout":          "large",
		"showDescription": false,
		"currentTab":      "docker",
	}))

	assert.Equal(t, before, s.Config())
	assert.Zero(t, storage.writes)
}

func TestStore_ApplyServerConfigAppliesAllowListedFields(t *testing.T) {
	storage := newCountingStorage()
	s := NewStore(storage, nil)
	s.Load()

	s.ApplyServerConfig(raw(t, map[string]any{
		"theme":           "light",
		"background":      "neon",
		"dockerLayout":    "compact",
		"networkMode":     "external",
		"showTime":        false,
		"customBgUrl":     "http://ignored/bg.png",
		"tabGroups":       map[string]any{"sites": "x"},
		"layout":          "not-a-layout",
		"showDescription": "yes",
	}))

	cfg := s.Config()
	assert.Equal(t, ThemeLight, cfg.Theme)
	assert.Equal(t, "neon", cfg.Background)
	assert.Equal(t, LayoutCompact, cfg.DockerLayout)
	assert.Equal(t, NetworkExternal, cfg.NetworkMode)
	assert.False(t, cfg.ShowTime)

	// Not allow-listed or failed to decode: untouched.
	assert.Empty(t, cfg.CustomBgURL)
	assert.True(t, cfg.TabGroups.Sites.IsSentinel())
	assert.Equal(t, LayoutNormal, cfg.Layout)
	assert.True(t, cfg.ShowDescription)

	assert.Equal(t, 1, storage.writes)
}

func TestStore_ApplyServerConfigWithoutChangesDoesNotSave(t *testing.T) {
	storage := newCountingStorage()
	s := NewStore(storage, nil)
	s.Load()

	s.ApplyServerConfig(raw(t, map[string]any{"theme": "dark", "layout": "normal", "unknown": 1}))

	assert.Zero(t, storage.writes)
}

func TestStore_SetServerBackgroundsWithoutLocalConfigSelectsFirst(t *testing.T) {
	storage := newCountingStorage()
	s := NewStore(storage, nil)
	s.Load()

	s.SetServerBackgrounds([]string{"http://h/a.jpg", "http://h/b.jpg"})

	bgs := s.ServerBackgrounds()
	require.Len(t, bgs, 2)
	assert.Equal(t, PresetBackground{ID: "server_0", Name: "Server background 1", Kind: BackgroundImage, Value: "http://h/a.jpg"}, bgs[0])
	assert.Equal(t, "server_1", bgs[1].ID)
	assert.Equal(t, "server_0", s.Config().Background)
	assert.Equal(t, 1, storage.writes)

	all := s.AllBackgrounds()
	assert.Len(t, all, len(PresetBackgrounds())+2)
	assert.Equal(t, "cyber", all[0].ID)
	assert.Equal(t, "server_1", all[len(all)-1].ID)
}

func TestStore_SetServerBackgroundsWithLocalConfigValidates(t *testing.T) {
	storage := newCountingStorage()
	require.NoError(t, storage.MemoryStorage.Set(StorageKey, []byte(`{"background":"server_3"}`)))
	s := NewStore(storage, nil)
	s.Load()

	s.SetServerBackgrounds([]string{"http://h/a.jpg"})

	assert.Equal(t, "ocean", s.Config().Background)
	assert.Equal(t, 1, storage.writes)

	s.SetBackground("server_0")
	writes := storage.writes
	s.SetServerBackgrounds([]string{"http://h/a.jpg"})
	assert.Equal(t, "server_0", s.Config().Background)
	assert.Equal(t, writes, storage.writes)
}

func TestStore_ValidateCurrentBackground(t *testing.T) {
	storage := newCountingStorage()
	s := NewStore(storage, nil)
	s.Load()

	s.SetCustomBackground("http://h/custom.png")
	writes := storage.writes
	s.ValidateCurrentBackground()
	assert.Equal(t, CustomBackgroundID, s.Config().Background)
	assert.Equal(t, writes, storage.writes)

	s.SetBackground("matrix")
	writes = storage.writes
	s.ValidateCurrentBackground()
	assert.Equal(t, "matrix", s.Config().Background)
	assert.Equal(t, writes, storage.writes)

	s.SetBackground("does-not-exist")
	writes = storage.writes
	s.ValidateCurrentBackground()
	assert.Equal(t, "ocean", s.Config().Background)
	assert.Equal(t, writes+1, storage.writes)
	assert.Equal(t, "ocean", storedConfig(t, storage)["background"])
}

func TestStore_BackgroundStyle(t *testing.T) {
	s := NewStore(nil, nil)
	s.Load()

	s.SetBackground("aurora")
	assert.Equal(t, BackgroundStyle{Background: presetBackgrounds[1].Value}, s.BackgroundStyle())

	s.SetTheme(ThemeSketchDark)
	assert.Equal(t, BackgroundStyle{Background: "hsl(40 12% 8%)"}, s.BackgroundStyle())
	s.SetCustomBackground("http://h/x.png")
	assert.Equal(t, BackgroundStyle{Background: "hsl(40 12% 8%)"}, s.BackgroundStyle())
	s.SetTheme(ThemeSketchLight)
	assert.Equal(t, BackgroundStyle{Background: "hsl(45 30% 88%)"}, s.BackgroundStyle())

	s.SetTheme(ThemeDark)
	style := s.BackgroundStyle()
	assert.True(t, style.IsImage())
	assert.Equal(t, "url(http://h/x.png)", style.BackgroundImage)
	assert.Equal(t, "cover", style.BackgroundSize)

	s.SetCustomBackground("")
	assert.Equal(t, presetBackgrounds[0].Value, s.BackgroundStyle().Background)

	s.SetServerBackgrounds([]string{"http://h/server.jpg"})
	s.SetBackground("server_0")
	assert.Equal(t, "url(http://h/server.jpg)", s.BackgroundStyle().BackgroundImage)

	s.SetBackground("gone")
	assert.Equal(t, presetBackgrounds[0].Value, s.BackgroundStyle().Background)
}

func TestBackgroundStyle_CSS(t *testing.T) {
	css := imageCover("http://h/a.png").CSS()
	assert.Equal(t, "background-image: url(http://h/a.png); background-size: cover; background-position: center; background-repeat: no-repeat", css)
	assert.Equal(t, "background: red", BackgroundStyle{Background: "red"}.CSS())
}

func TestStore_ToggleGroup(t *testing.T) {
	s := NewStore(nil, nil)
	s.Load()

	s.ToggleGroup("A")
	assert.Equal(t, []string{"A"}, s.CurrentGroup().Keys())
	assert.True(t, s.CurrentGroup().IsList())

	s.ToggleGroup("A")
	assert.True(t, s.CurrentGroup().IsSentinel())

	s.ToggleGroup("A")
	s.ToggleGroup("B")
	assert.Equal(t, []string{"A", "B"}, s.CurrentGroup().Keys())

	s.ToggleGroup("A")
	assert.Equal(t, []string{"B"}, s.CurrentGroup().Keys())

	s.ToggleGroup(AllGroupsKey)
	assert.True(t, s.CurrentGroup().IsSentinel())
}

func TestStore_ToggleGroupLegacySingleKey(t *testing.T) {
	s := NewStore(nil, nil)
	s.Load()

	s.SetCurrentGroup(SingleGroup("A"))
	s.ToggleGroup("A")
	assert.True(t, s.CurrentGroup().IsSentinel())

	s.SetCurrentGroup(SingleGroup("A"))
	s.ToggleGroup("B")
	assert.Equal(t, []string{"A", "B"}, s.CurrentGroup().Keys())
	assert.True(t, s.CurrentGroup().IsList())
}

func TestStore_ToggleGroupIsPerTab(t *testing.T) {
	s := NewStore(nil, nil)
	s.Load()

	s.ToggleGroup("A")
	s.SetCurrentTab(TabDocker)
	assert.True(t, s.CurrentGroup().IsSentinel())
	s.ToggleGroup("db")

	cfg := s.Config()
	assert.Equal(t, []string{"A"}, cfg.TabGroups.Sites.Keys())
	assert.Equal(t, []string{"db"}, cfg.TabGroups.Docker.Keys())
	assert.True(t, cfg.TabGroups.LuckyServices.IsSentinel())

	s.ResetCurrentTabGroup()
	assert.True(t, s.Config().TabGroups.Docker.IsSentinel())
	assert.Equal(t, []string{"A"}, s.Config().TabGroups.Sites.Keys())
}

func TestStore_IsGroupSelected(t *testing.T) {
	s := NewStore(nil, nil)
	s.Load()

	assert.True(t, s.IsGroupSelected(AllGroupsKey))
	assert.True(t, s.IsAllSelected())
	assert.False(t, s.IsGroupSelected("A"))

	s.SetCurrentGroup(GroupList())
	assert.True(t, s.IsGroupSelected(AllGroupsKey))
	assert.True(t, s.IsAllSelected())
	assert.False(t, s.IsGroupSelected("A"))
	assert.Empty(t, s.CurrentGroupKeys())

	s.SetCurrentGroup(GroupList("A", "B"))
	assert.False(t, s.IsGroupSelected(AllGroupsKey))
	assert.True(t, s.IsGroupSelected("A"))
	assert.False(t, s.IsGroupSelected("C"))

	s.SetCurrentGroup(SingleGroup("C"))
	assert.True(t, s.IsGroupSelected("C"))
	assert.False(t, s.IsGroupSelected("A"))
	assert.Equal(t, []string{"C"}, s.CurrentGroupKeys())
}

func TestStore_WriteThroughSurvivesStorageFailure(t *testing.T) {
	storage := newCountingStorage()
	s := NewStore(storage, nil)
	s.Load()
	storage.failSet = true

	s.SetTheme(ThemeLight)
	s.SetLayoutFor(TabDocker, LayoutLarge)

	assert.Equal(t, ThemeLight, s.Config().Theme)
	assert.Equal(t, LayoutLarge, s.Config().DockerLayout)
	assert.Equal(t, 2, storage.writes)
}

func TestStore_SearchKeywordsAreNotPersisted(t *testing.T) {
	storage := newCountingStorage()
	s := NewStore(storage, nil)
	s.Load()

	s.SetSearchKeyword("plex")
	assert.Equal(t, "plex", s.CurrentSearchKeyword())
	assert.Zero(t, storage.writes)

	s.SetCurrentTab(TabDocker)
	assert.Empty(t, s.CurrentSearchKeyword())
	s.SetSearchKeyword("db")
	assert.Equal(t, "plex", s.SearchKeyword(TabSites))

	s.ClearSearchKeyword()
	assert.Empty(t, s.CurrentSearchKeyword())
	assert.Equal(t, "plex", s.SearchKeyword(TabSites))

	s.ClearAllSearchKeywords()
	assert.Empty(t, s.SearchKeyword(TabSites))

	assert.NotContains(t, storedConfig(t, storage), "searchKeywords")
}

func TestStore_ResetConfigAndSettingsPanel(t *testing.T) {
	storage := newCountingStorage()
	s := NewStore(storage, nil)
	s.Load()

	s.SetTheme(ThemeSketchLight)
	s.ToggleGroup("A")
	s.ResetConfig()
	assert.Equal(t, DefaultConfig(), s.Config())
	assert.Equal(t, "dark", storedConfig(t, storage)["theme"])

	assert.False(t, s.SettingsPanelOpen())
	s.ToggleSettingsPanel()
	assert.True(t, s.SettingsPanelOpen())
	s.SetSettingsPanelOpen(false)
	assert.False(t, s.SettingsPanelOpen())
}

func TestStore_ConfigReturnsCopy(t *testing.T) {
	s := NewStore(nil, nil)
	s.Load()
	s.SetCurrentGroup(GroupList("A"))

	cfg := s.Config()
	cfg.TabGroups.Sites.keys[0] = "mutated"

	assert.Equal(t, []string{"A"}, s.Config().TabGroups.Sites.Keys())
}

func TestGroupSelection_JSONForms(t *testing.T) {
	cases := []struct {
		name string
		in   string
		out  string
		all  bool
	}{
		{"sentinel", `"all"`, `"all"`, true},
		{"single", `"media"`, `"media"`, false},
		{"list", `["a","b"]`, `["a","b"]`, false},
		{"empty list", `[]`, `[]`, true},
		{"null", `null`, `"all"`, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var g GroupSelection
			require.NoError(t, json.Unmarshal([]byte(tc.in), &g))
			assert.Equal(t, tc.all, g.IsAll())
			out, err := json.Marshal(g)
			require.NoError(t, err)
			assert.JSONEq(t, tc.out, string(out))
		})
	}

	var g GroupSelection
	assert.Error(t, json.Unmarshal([]byte(`{"x":1}`), &g))
}

func TestGroupSelection_Matches(t *testing.T) {
	assert.True(t, AllGroups().Matches("anything"))
	assert.True(t, GroupList().Matches("anything"))
	assert.True(t, GroupList("a", "b").Matches("b"))
	assert.False(t, GroupList("a", "b").Matches("c"))
	assert.True(t, SingleGroup("a").Matches("a"))
	assert.False(t, SingleGroup("a").Matches("b"))
}
