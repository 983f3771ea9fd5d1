package ui

import (
	"github.com/lightpanel/lightpanel/internal/backend"
	"github.com/lightpanel/lightpanel/internal/prefs"
	"github.com/lightpanel/lightpanel/internal/state"
)

// entry is one rendered catalog row, whatever the tab.
type entry struct {
	Key    string
	Title  string
	Desc   string
	Detail string
	State  string
	Stats  string
}

func siteEntries(sites []backend.Site, network backend.NetworkType) []entry {
	out := make([]entry, 0, len(sites))
	for _, s := range sites {
		out = append(out, entry{
			Key:    s.Key,
			Title:  s.Name,
			Desc:   s.Description,
			Detail: s.URLFor(network),
		})
	}
	return out
}

func containerEntries(containers []backend.DockerContainer, stats map[string]backend.DockerStat) []entry {
	out := make([]entry, 0, len(containers))
	for _, c := range containers {
		e := entry{
			Key:    c.Key,
			Title:  c.Label(),
			Desc:   c.Description,
			Detail: c.Status,
			State:  string(c.State),
		}
		if stat, ok := stats[c.ContainerName]; ok {
			if stat.State != "" {
				e.State = stat.State
			}
			if stat.Status != "" {
				e.Detail = stat.Status
			}
			if c.ShowStatus == nil || *c.ShowStatus {
				e.Stats = DockerStatLine(stat)
			}
		}
		out = append(out, e)
	}
	return out
}

func serviceEntries(services []backend.LuckyService, stats map[string]backend.LuckyServiceStat) []entry {
	out := make([]entry, 0, len(services))
	for _, s := range services {
		e := entry{
			Key:    s.Key,
			Title:  s.Label(),
			Desc:   s.Description,
			Detail: s.PublicAddr,
			State:  string(s.State),
		}
		if stat, ok := stats[s.Key]; ok {
			if stat.State != "" {
				e.State = stat.State
			}
			if stat.PublicAddr != "" {
				e.Detail = stat.PublicAddr
			}
			if s.ShowStatus == nil || *s.ShowStatus {
				e.Stats = ServiceStatLine(stat)
			}
		}
		out = append(out, e)
	}
	return out
}

// entriesFor returns the filtered rows of tab from snap.
func entriesFor(tab prefs.Tab, snap state.Snapshot, sel prefs.GroupSelection, keyword string, mode prefs.NetworkMode) []entry {
	switch tab {
	case prefs.TabDocker:
		return containerEntries(state.FilterItems(snap.Containers, sel.Matches, keyword), snap.DockerStats)
	case prefs.TabLuckyServices:
		return serviceEntries(state.FilterItems(snap.LuckyServices, sel.Matches, keyword), snap.LuckyServicesStats)
	default:
		network := EffectiveNetwork(mode, snap.NetworkType)
		return siteEntries(state.FilterItems(snap.Sites, sel.Matches, keyword), network)
	}
}

func groupsFor(tab prefs.Tab, snap state.Snapshot) []backend.Group {
	switch tab {
	case prefs.TabDocker:
		return snap.DockerGroups
	case prefs.TabLuckyServices:
		return snap.LuckyServiceGroups
	default:
		return snap.SiteGroups
	}
}

// enabledTabs lists the tabs the nav config switches on, in display order.
func enabledTabs(snap state.Snapshot) []prefs.Tab {
	tabs := make([]prefs.Tab, 0, len(prefs.Tabs))
	if snap.SitesEnabled {
		tabs = append(tabs, prefs.TabSites)
	}
	if snap.DockerEnabled {
		tabs = append(tabs, prefs.TabDocker)
	}
	if snap.LuckyServicesEnabled {
		tabs = append(tabs, prefs.TabLuckyServices)
	}
	return tabs
}
