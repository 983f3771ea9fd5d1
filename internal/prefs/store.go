package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// StorageKey is the key under which the UserConfig blob is persisted.
const StorageKey = "lightpanel_config"

// Store resolves, persists and exposes the effective UserConfig.
// Every mutator of a persisted field writes the full config through to
// storage immediately; storage failures are logged and never undo the
// in-memory change.
type Store struct {
	storage Storage
	log     *slog.Logger

	mu                sync.RWMutex
	config            UserConfig
	hasLocalConfig    bool
	serverBackgrounds []PresetBackground
	searchKeywords    map[Tab]string
	settingsOpen      bool
}

// NewStore returns a Store holding the default configuration. Call Load to
// read the persisted blob.
func NewStore(storage Storage, logger *slog.Logger) *Store {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		storage:        storage,
		log:            logger.With("component", "prefs"),
		config:         DefaultConfig(),
		searchKeywords: make(map[Tab]string),
	}
}

// Load reads the persisted blob and merges it over the defaults field by
// field. A missing blob, or one that is not a JSON object, leaves the
// defaults in place and marks the store as having no local config. A field
// that fails to decode keeps its default. An unknown or malformed theme is
// corrected to dark and saved.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.config = DefaultConfig()
	s.hasLocalConfig = false

	data, err := s.storage.Get(StorageKey)
	switch {
	case errors.Is(err, ErrNotFound):
		return
	case err != nil:
		s.log.Warn("failed to load config", "err", err)
		return
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		s.log.Warn("failed to load config", "err", err)
		return
	}
	if fields == nil {
		s.log.Warn("failed to load config", "err", "stored config is null")
		return
	}
	s.hasLocalConfig = true

	themeOK := true
	for key, raw := range fields {
		if string(raw) == "null" {
			continue
		}
		if err := loadField(&s.config, key, raw); err != nil {
			s.log.Warn("ignoring stored config field", "field", key, "err", err)
			if key == "theme" {
				themeOK = false
			}
		}
	}

	if !themeOK {
		s.config.Theme = ThemeDark
		s.saveLocked()
	}
}

// loadField decodes one stored field into cfg. Unknown keys are ignored.
func loadField(cfg *UserConfig, key string, raw json.RawMessage) error {
	var err error
	switch key {
	case "theme":
		cfg.Theme, err = decodeEnumOr(raw, cfg.Theme)
	case "background":
		err = decodeInto(raw, &cfg.Background)
	case "customBgUrl":
		err = decodeInto(raw, &cfg.CustomBgURL)
	case "layout":
		cfg.Layout, err = decodeEnumOr(raw, cfg.Layout)
	case "dockerLayout":
		cfg.DockerLayout, err = decodeEnumOr(raw, cfg.DockerLayout)
	case "luckyServicesLayout":
		cfg.LuckyServicesLayout, err = decodeEnumOr(raw, cfg.LuckyServicesLayout)
	case "showDescription":
		err = decodeInto(raw, &cfg.ShowDescription)
	case "showTime":
		err = decodeInto(raw, &cfg.ShowTime)
	case "networkMode":
		cfg.NetworkMode, err = decodeEnumOr(raw, cfg.NetworkMode)
	case "currentTab":
		cfg.CurrentTab, err = decodeEnumOr(raw, cfg.CurrentTab)
	case "tabGroups":
		err = loadTabGroups(&cfg.TabGroups, raw)
	}
	return err
}

// loadTabGroups merges each tab's selection separately so one malformed
// tab does not discard the others.
func loadTabGroups(dst *TabGroups, raw json.RawMessage) error {
	var tabs map[string]json.RawMessage
	if err := json.Unmarshal(raw, &tabs); err != nil {
		return err
	}
	var errs []error
	for _, tab := range Tabs {
		v, ok := tabs[string(tab)]
		if !ok || string(v) == "null" {
			continue
		}
		var sel GroupSelection
		if err := json.Unmarshal(v, &sel); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", tab, err))
			continue
		}
		*dst = dst.With(tab, sel)
	}
	return errors.Join(errs...)
}

func decodeInto[T any](raw json.RawMessage, dst *T) error {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	*dst = v
	return nil
}

// decodeEnumOr returns the decoded value, or fallback with the error when
// it does not decode or validate.
func decodeEnumOr[T validator](raw json.RawMessage, fallback T) (T, error) {
	v, err := decodeEnum[T](raw)
	if err != nil {
		return fallback, err
	}
	return v, nil
}

// HasLocalConfig reports whether a persisted blob was found by Load.
func (s *Store) HasLocalConfig() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasLocalConfig
}

// Config returns a copy of the current configuration.
func (s *Store) Config() UserConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.clone()
}

// Save persists the current configuration.
func (s *Store) Save() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveLocked()
}

func (s *Store) saveLocked() {
	data, err := json.Marshal(s.config)
	if err != nil {
		s.log.Warn("failed to save config", "err", err)
		return
	}
	if err := s.storage.Set(StorageKey, data); err != nil {
		s.log.Warn("failed to save config", "err", err)
	}
}

// ApplyServerConfig uses the server-supplied defaults when no local blob
// exists. Only the allow-listed fields are read; a field that fails to
// decode or validate is skipped. The config is saved only if a field
// changed.
func (s *Store) ApplyServerConfig(serverConfig map[string]json.RawMessage) {
	if len(serverConfig) == 0 {
		s.log.Info("no valid server config provided, using defaults")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasLocalConfig {
		s.log.Info("local config exists, skipping server config")
		return
	}

	changed := false
	for _, key := range serverConfigKeys {
		raw, ok := serverConfig[key]
		if !ok || len(raw) == 0 {
			continue
		}
		fieldChanged, err := s.applyServerField(key, raw)
		if err != nil {
			s.log.Warn("failed to apply server config field", "field", key, "err", err)
			continue
		}
		changed = changed || fieldChanged
	}

	if changed {
		s.log.Info("applied server config as defaults")
		s.saveLocked()
	}
}

var serverConfigKeys = []string{
	"theme", "background", "layout", "dockerLayout", "luckyServicesLayout",
	"networkMode", "currentTab", "showDescription", "showTime",
}

type validator interface {
	~string
	Valid() bool
}

func decodeEnum[T validator](raw json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, err
	}
	if !v.Valid() {
		return v, fmt.Errorf("unsupported value %q", string(v))
	}
	return v, nil
}

func assign[T comparable](dst *T, v T) bool {
	if *dst == v {
		return false
	}
	*dst = v
	return true
}

// applyServerField decodes one allow-listed field into its typed slot. A
// JSON null counts as absent.
func (s *Store) applyServerField(key string, raw json.RawMessage) (bool, error) {
	if string(raw) == "null" {
		return false, nil
	}
	cfg := &s.config
	switch key {
	case "theme":
		v, err := decodeEnum[ThemeMode](raw)
		if err != nil {
			return false, err
		}
		return assign(&cfg.Theme, v), nil
	case "background":
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return false, err
		}
		return assign(&cfg.Background, v), nil
	case "layout":
		v, err := decodeEnum[LayoutMode](raw)
		if err != nil {
			return false, err
		}
		return assign(&cfg.Layout, v), nil
	case "dockerLayout":
		v, err := decodeEnum[LayoutMode](raw)
		if err != nil {
			return false, err
		}
		return assign(&cfg.DockerLayout, v), nil
	case "luckyServicesLayout":
		v, err := decodeEnum[LayoutMode](raw)
		if err != nil {
			return false, err
		}
		return assign(&cfg.LuckyServicesLayout, v), nil
	case "networkMode":
		v, err := decodeEnum[NetworkMode](raw)
		if err != nil {
			return false, err
		}
		return assign(&cfg.NetworkMode, v), nil
	case "currentTab":
		v, err := decodeEnum[Tab](raw)
		if err != nil {
			return false, err
		}
		return assign(&cfg.CurrentTab, v), nil
	case "showDescription":
		var v bool
		if err := json.Unmarshal(raw, &v); err != nil {
			return false, err
		}
		return assign(&cfg.ShowDescription, v), nil
	case "showTime":
		var v bool
		if err := json.Unmarshal(raw, &v); err != nil {
			return false, err
		}
		return assign(&cfg.ShowTime, v), nil
	default:
		return false, fmt.Errorf("field not allowed")
	}
}

// SetServerBackgrounds replaces the server background catalog. Without a
// local config the first server image becomes the active background;
// otherwise the active background is revalidated.
func (s *Store) SetServerBackgrounds(urls []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.serverBackgrounds = serverBackgroundsFrom(urls)

	if !s.hasLocalConfig && len(urls) > 0 {
		s.config.Background = s.serverBackgrounds[0].ID
		s.saveLocked()
		return
	}
	s.validateBackgroundLocked()
}

// ServerBackgrounds returns the server-supplied background entries.
func (s *Store) ServerBackgrounds() []PresetBackground {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.serverBackgrounds)
}

// AllBackgrounds returns the built-in presets followed by server images.
func (s *Store) AllBackgrounds() []PresetBackground {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(PresetBackgrounds(), s.serverBackgrounds...)
}

// ValidateCurrentBackground resets the active background to the default
// when it names neither "custom", a preset, nor a server image.
func (s *Store) ValidateCurrentBackground() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.validateBackgroundLocked()
}

func (s *Store) validateBackgroundLocked() {
	bg := s.config.Background
	if bg == CustomBackgroundID {
		return
	}
	if _, ok := findBackground(presetBackgrounds, bg); ok {
		return
	}
	if _, ok := findBackground(s.serverBackgrounds, bg); ok {
		return
	}
	s.log.Warn("background is invalid, switching to default", "background", bg)
	s.config.Background = defaultBackground
	s.saveLocked()
}

// BackgroundStyle resolves the page background for the current config.
func (s *Store) BackgroundStyle() BackgroundStyle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return resolveBackground(s.config, s.serverBackgrounds)
}

func (s *Store) update(mutate func(*UserConfig)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mutate(&s.config)
	s.saveLocked()
}

// SetTheme sets and saves the theme.
func (s *Store) SetTheme(theme ThemeMode) {
	s.update(func(c *UserConfig) { c.Theme = theme })
}

// SetLayout sets and saves the sites layout.
func (s *Store) SetLayout(layout LayoutMode) {
	s.update(func(c *UserConfig) { c.Layout = layout })
}

// SetDockerLayout sets and saves the Docker tab layout.
func (s *Store) SetDockerLayout(layout LayoutMode) {
	s.update(func(c *UserConfig) { c.DockerLayout = layout })
}

// SetLuckyServicesLayout sets and saves the Lucky services tab layout.
func (s *Store) SetLuckyServicesLayout(layout LayoutMode) {
	s.update(func(c *UserConfig) { c.LuckyServicesLayout = layout })
}

// SetLayoutFor sets the layout of tab.
func (s *Store) SetLayoutFor(tab Tab, layout LayoutMode) {
	switch tab {
	case TabDocker:
		s.SetDockerLayout(layout)
	case TabLuckyServices:
		s.SetLuckyServicesLayout(layout)
	default:
		s.SetLayout(layout)
	}
}

// SetNetworkMode sets and saves the network mode.
func (s *Store) SetNetworkMode(mode NetworkMode) {
	s.update(func(c *UserConfig) { c.NetworkMode = mode })
}

// SetCurrentTab sets and saves the active tab.
func (s *Store) SetCurrentTab(tab Tab) {
	s.update(func(c *UserConfig) { c.CurrentTab = tab })
}

// SetShowDescription toggles item descriptions.
func (s *Store) SetShowDescription(show bool) {
	s.update(func(c *UserConfig) { c.ShowDescription = show })
}

// SetShowTime toggles the header clock.
func (s *Store) SetShowTime(show bool) {
	s.update(func(c *UserConfig) { c.ShowTime = show })
}

// SetBackground selects a background by id. The id is not validated.
func (s *Store) SetBackground(id string) {
	s.update(func(c *UserConfig) { c.Background = id })
}

// SetCustomBackground selects the custom background with the given URL.
func (s *Store) SetCustomBackground(url string) {
	s.update(func(c *UserConfig) {
		c.Background = CustomBackgroundID
		c.CustomBgURL = url
	})
}

// ResetConfig restores and saves the compiled-in defaults.
func (s *Store) ResetConfig() {
	s.update(func(c *UserConfig) { *c = DefaultConfig() })
}

// SettingsPanelOpen reports whether the settings panel is shown.
func (s *Store) SettingsPanelOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settingsOpen
}

// SetSettingsPanelOpen shows or hides the settings panel. Not persisted.
func (s *Store) SetSettingsPanelOpen(open bool) {
	s.mu.Lock()
	s.settingsOpen = open
	s.mu.Unlock()
}

// ToggleSettingsPanel flips the settings panel visibility.
func (s *Store) ToggleSettingsPanel() {
	s.mu.Lock()
	s.settingsOpen = !s.settingsOpen
	s.mu.Unlock()
}
