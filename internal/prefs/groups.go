package prefs

import "slices"

// CurrentGroup returns the group selection of the current tab.
func (s *Store) CurrentGroup() GroupSelection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentGroupLocked().clone()
}

func (s *Store) currentGroupLocked() GroupSelection {
	return s.config.TabGroups.Get(s.config.CurrentTab)
}

// CurrentGroupKeys returns the current selection as a list; "all" is empty.
func (s *Store) CurrentGroupKeys() []string {
	keys := s.CurrentGroup().Keys()
	if keys == nil {
		return []string{}
	}
	return keys
}

// IsAllSelected reports whether the current tab shows every group.
func (s *Store) IsAllSelected() bool {
	return s.CurrentGroup().IsAll()
}

// SetCurrentGroup replaces the selection of the current tab.
func (s *Store) SetCurrentGroup(sel GroupSelection) {
	s.update(func(c *UserConfig) {
		c.TabGroups = c.TabGroups.With(c.CurrentTab, sel.clone())
	})
}

// ResetCurrentTabGroup selects all groups on the current tab.
func (s *Store) ResetCurrentTabGroup() {
	s.SetCurrentGroup(AllGroups())
}

// ToggleGroup flips key in the current tab's selection:
//   - "all" always collapses to the sentinel
//   - from the sentinel, key becomes a one-element list
//   - in a list, key is added or removed; an emptied list becomes "all"
//   - a legacy single key clears to "all" when clicked again, or grows into
//     a two-element list with the new key
func (s *Store) ToggleGroup(key string) {
	s.SetCurrentGroup(nextSelection(s.CurrentGroup(), key))
}

func nextSelection(current GroupSelection, key string) GroupSelection {
	if key == AllGroupsKey {
		return AllGroups()
	}
	switch current.kind {
	case selectList:
		if i := slices.Index(current.keys, key); i >= 0 {
			rest := slices.Delete(slices.Clone(current.keys), i, i+1)
			if len(rest) == 0 {
				return AllGroups()
			}
			return GroupList(rest...)
		}
		return GroupList(append(slices.Clone(current.keys), key)...)
	case selectSingle:
		if current.keys[0] == key {
			return AllGroups()
		}
		return GroupList(current.keys[0], key)
	default:
		return GroupList(key)
	}
}

// IsGroupSelected reports whether key is highlighted on the current tab.
// The "all" key is selected by the sentinel and by an empty list; any other
// key only when it is explicitly present.
func (s *Store) IsGroupSelected(key string) bool {
	return isSelected(s.CurrentGroup(), key)
}

func isSelected(sel GroupSelection, key string) bool {
	if key == AllGroupsKey {
		return sel.IsAll()
	}
	if sel.kind == selectAll {
		return false
	}
	return slices.Contains(sel.keys, key)
}

// CurrentSearchKeyword returns the current tab's search text.
func (s *Store) CurrentSearchKeyword() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchKeywords[s.config.CurrentTab]
}

// SearchKeyword returns the search text of tab.
func (s *Store) SearchKeyword(tab Tab) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchKeywords[tab]
}

// SetSearchKeyword sets the current tab's search text. Keywords are never
// persisted.
func (s *Store) SetSearchKeyword(keyword string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchKeywords[s.config.CurrentTab] = keyword
}

// ClearSearchKeyword clears the current tab's search text.
func (s *Store) ClearSearchKeyword() {
	s.SetSearchKeyword("")
}

// ClearAllSearchKeywords clears the search text of every tab.
func (s *Store) ClearAllSearchKeywords() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchKeywords = make(map[Tab]string)
}
