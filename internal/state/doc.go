// Package state provides the navigation data store for lightpanel.
//
// # Overview
//
// NavStore owns everything the panel backend hands out: the nav config,
// the three catalogs (sites, Docker containers, Lucky services) and the two
// live statistics maps. The UI reads it; only NavStore writes it.
//
// # Loading
//
// LoadAllData fans out four fetches and waits for all of them:
//
//	LoadAllData()
//	  ├─> FetchNavConfig()      ─┐
//	  ├─> FetchSites()           │ each applied on its own,
//	  ├─> FetchDocker()          │ failures keep the old value
//	  └─> FetchLuckyServices()  ─┘
//	        │
//	        └─> BackgroundSink.SetServerBackgrounds()  (nav config only)
//
// This is a settle-all join: one failing endpoint never aborts the others,
// and the loading flag is cleared on every path. There is no cancellation
// of a previous LoadAllData; two overlapping calls race and the slower
// response wins.
//
// # Statistics polling
//
// Docker and Lucky statistics each have a Poller. Start stops any running
// loop first, so calling it twice leaves exactly one loop. Every tick
// replaces the whole stat map:
//
//	ret == 0, stats present  → map replaced (an empty list clears it)
//	ret != 0 or stats absent → map unchanged
//	transport / decode error → map unchanged
//
// Pollers are not tied to the UI lifecycle. Whoever starts one must stop it
// (StopAllPolling on shutdown).
//
// # Derived views
//
// Sites, Containers and LuckyServices drop entries with enable == false
// and stable-sort the rest by order (missing order counts as 0).
// FilterItems narrows a view further by group and search keyword.
//
// # Concurrency
//
// A sync.RWMutex guards all fields. Fetches run without the lock held; only
// the final assignment takes it, so readers never block on network I/O.
// Snapshot copies every slice and map before returning.
package state
