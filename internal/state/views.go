package state

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/lightpanel/lightpanel/internal/backend"
)

const defaultPanelTitle = "Light Panel"

// Item is the common shape of sites, containers and services.
type Item interface {
	backend.Site | backend.DockerContainer | backend.LuckyService
}

func enabled[T Item](item T) bool {
	var enable *bool
	switch v := any(item).(type) {
	case backend.Site:
		enable = v.Enable
	case backend.DockerContainer:
		enable = v.Enable
	case backend.LuckyService:
		enable = v.Enable
	}
	return enable == nil || *enable
}

func order[T Item](item T) int {
	switch v := any(item).(type) {
	case backend.Site:
		return v.Order
	case backend.DockerContainer:
		return v.Order
	case backend.LuckyService:
		return v.Order
	}
	return 0
}

func groupKey[T Item](item T) string {
	switch v := any(item).(type) {
	case backend.Site:
		return v.GroupKey
	case backend.DockerContainer:
		return v.GroupKey
	case backend.LuckyService:
		return v.GroupKey
	}
	return ""
}

func searchFields[T Item](item T) []string {
	switch v := any(item).(type) {
	case backend.Site:
		return []string{v.Key, v.Name, v.Description}
	case backend.DockerContainer:
		return []string{v.Key, v.ContainerName, v.DisplayName, v.Description, v.ComposeProject}
	case backend.LuckyService:
		return []string{v.Key, v.Name, v.DisplayName, v.Description, v.PublicAddr}
	}
	return nil
}

// visible drops disabled entries and stable-sorts the rest by order.
func visible[T Item](items []T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if enabled(item) {
			out = append(out, item)
		}
	}
	slices.SortStableFunc(out, func(a, b T) int {
		return cmp.Compare(order(a), order(b))
	})
	return out
}

// FilterItems keeps the items whose group passes match and whose text
// contains keyword (case-insensitive). A nil match accepts every group; an
// empty keyword accepts every item.
func FilterItems[T Item](items []T, match func(group string) bool, keyword string) []T {
	needle := strings.ToLower(strings.TrimSpace(keyword))
	out := make([]T, 0, len(items))
	for _, item := range items {
		if match != nil && !match(groupKey(item)) {
			continue
		}
		if needle != "" && !containsFold(searchFields(item), needle) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func containsFold(fields []string, needle string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// Sites returns the enabled sites ordered for display.
func (s *NavStore) Sites() []backend.Site {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sites == nil {
		return []backend.Site{}
	}
	return visible(s.sites.Sites)
}

// Containers returns the enabled containers ordered for display.
func (s *NavStore) Containers() []backend.DockerContainer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.docker == nil {
		return []backend.DockerContainer{}
	}
	return visible(s.docker.Containers)
}

// LuckyServices returns the enabled Lucky services ordered for display.
func (s *NavStore) LuckyServices() []backend.LuckyService {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lucky == nil {
		return []backend.LuckyService{}
	}
	return visible(s.lucky.Services)
}

func (s *NavStore) SiteGroups() []backend.Group {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sites == nil {
		return []backend.Group{}
	}
	return slices.Clone(s.sites.Groups)
}

func (s *NavStore) DockerGroups() []backend.Group {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.docker == nil {
		return []backend.Group{}
	}
	return slices.Clone(s.docker.Groups)
}

func (s *NavStore) LuckyServiceGroups() []backend.Group {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lucky == nil {
		return []backend.Group{}
	}
	return slices.Clone(s.lucky.Groups)
}

// NavConfig returns a copy of the last nav config, if any.
func (s *NavStore) NavConfig() (backend.NavConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.navConfig == nil {
		return backend.NavConfig{}, false
	}
	return *s.navConfig, true
}

// PanelTitle returns the configured title or the built-in one.
func (s *NavStore) PanelTitle() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.navConfig == nil || s.navConfig.Settings.Title == "" {
		return defaultPanelTitle
	}
	return s.navConfig.Settings.Title
}

func (s *NavStore) PanelSubtitle() string {
	return s.settingsField(func(n backend.NavSettings) string { return n.Subtitle })
}

func (s *NavStore) PanelLogo() string {
	return s.settingsField(func(n backend.NavSettings) string { return n.Logo })
}

func (s *NavStore) PanelFavicon() string {
	return s.settingsField(func(n backend.NavSettings) string { return n.Favicon })
}

func (s *NavStore) settingsField(get func(backend.NavSettings) string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.navConfig == nil {
		return ""
	}
	return get(s.navConfig.Settings)
}

// SitesEnabled is true unless the nav config explicitly disables sites.
func (s *NavStore) SitesEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.navConfig == nil || s.navConfig.SitesEnabled == nil || *s.navConfig.SitesEnabled
}

// DockerEnabled is true only when the nav config enables Docker.
func (s *NavStore) DockerEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.navConfig != nil && s.navConfig.DockerEnabled != nil && *s.navConfig.DockerEnabled
}

// LuckyServicesEnabled is true only when the nav config enables Lucky.
func (s *NavStore) LuckyServicesEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.navConfig != nil && s.navConfig.LuckyServicesEnabled != nil && *s.navConfig.LuckyServicesEnabled
}

// Snapshot is a point-in-time copy of everything the UI renders.
type Snapshot struct {
	Loading              bool
	Title                string
	Subtitle             string
	SitesEnabled         bool
	DockerEnabled        bool
	LuckyServicesEnabled bool
	NetworkType          backend.NetworkType
	NetworkProbe         NetworkProbe
	ClientIP             string

	SiteGroups         []backend.Group
	Sites              []backend.Site
	DockerGroups       []backend.Group
	Containers         []backend.DockerContainer
	LuckyServiceGroups []backend.Group
	LuckyServices      []backend.LuckyService

	DockerStats        map[string]backend.DockerStat
	LuckyServicesStats map[string]backend.LuckyServiceStat
}

// Snapshot returns a defensive copy of the store's current view.
func (s *NavStore) Snapshot() Snapshot {
	snap := Snapshot{
		Title:                s.PanelTitle(),
		Subtitle:             s.PanelSubtitle(),
		SitesEnabled:         s.SitesEnabled(),
		DockerEnabled:        s.DockerEnabled(),
		LuckyServicesEnabled: s.LuckyServicesEnabled(),
		SiteGroups:           s.SiteGroups(),
		Sites:                s.Sites(),
		DockerGroups:         s.DockerGroups(),
		Containers:           s.Containers(),
		LuckyServiceGroups:   s.LuckyServiceGroups(),
		LuckyServices:        s.LuckyServices(),
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	snap.Loading = s.loading
	snap.NetworkType = s.networkType
	snap.NetworkProbe = s.networkProbe
	snap.ClientIP = s.clientIP
	snap.DockerStats = maps.Clone(s.dockerStats)
	snap.LuckyServicesStats = maps.Clone(s.luckyStats)
	return snap
}
