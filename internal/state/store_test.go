package state

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightpanel/lightpanel/internal/backend"
)

var errBoom = errors.New("boom")

// fakeFetcher serves canned payloads; a nil payload answers errBoom unless
// a specific error is set.
type fakeFetcher struct {
	mu sync.Mutex

	nav        *backend.NavConfig
	sites      *backend.SitesData
	docker     *backend.DockerData
	lucky      *backend.LuckyServicesData
	dockerSt   *backend.DockerStatsResponse
	luckySt    *backend.LuckyServicesStatsResponse
	netType    *backend.NetworkTypeResponse
	serverCfg  *backend.ServerConfigResponse
	serverErr  error
	statsCalls int
}

func (f *fakeFetcher) FetchNavConfig(context.Context) (*backend.NavConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.nav == nil {
		return nil, errBoom
	}
	return f.nav, nil
}

func (f *fakeFetcher) FetchSites(context.Context) (*backend.SitesData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sites == nil {
		return nil, errBoom
	}
	return f.sites, nil
}

func (f *fakeFetcher) FetchDocker(context.Context) (*backend.DockerData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.docker == nil {
		return nil, errBoom
	}
	return f.docker, nil
}

func (f *fakeFetcher) FetchLuckyServices(context.Context) (*backend.LuckyServicesData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lucky == nil {
		return nil, errBoom
	}
	return f.lucky, nil
}

func (f *fakeFetcher) FetchDockerStats(context.Context) (*backend.DockerStatsResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statsCalls++
	if f.dockerSt == nil {
		return nil, errBoom
	}
	return f.dockerSt, nil
}

func (f *fakeFetcher) FetchLuckyServicesStats(context.Context) (*backend.LuckyServicesStatsResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.luckySt == nil {
		return nil, errBoom
	}
	return f.luckySt, nil
}

func (f *fakeFetcher) FetchNetworkType(context.Context) (*backend.NetworkTypeResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.netType == nil {
		return nil, errBoom
	}
	return f.netType, nil
}

func (f *fakeFetcher) FetchServerConfig(context.Context) (*backend.ServerConfigResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.serverErr != nil {
		return nil, f.serverErr
	}
	if f.serverCfg == nil {
		return nil, errBoom
	}
	return f.serverCfg, nil
}

func (f *fakeFetcher) set(fn func(*fakeFetcher)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

type recordingSink struct {
	mu    sync.Mutex
	calls [][]string
}

func (r *recordingSink) SetServerBackgrounds(urls []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, urls)
}

func boolPtr(v bool) *bool { return &v }

func TestNavStore_LoadAllDataPopulatesEverything(t *testing.T) {
	f := &fakeFetcher{
		nav: &backend.NavConfig{
			Settings:      backend.NavSettings{Title: "Home", Subtitle: "lab", BackgroundImages: []string{"a.jpg", "b.jpg"}},
			DockerEnabled: boolPtr(true),
		},
		sites: &backend.SitesData{
			NetworkType: backend.NetworkInternal,
			ClientIP:    "10.0.0.9",
			Groups:      []backend.Group{{Key: "media", Name: "Media"}},
			Sites:       []backend.Site{{Key: "s1", Name: "Plex"}},
		},
		docker: &backend.DockerData{Containers: []backend.DockerContainer{{Key: "c1", ContainerName: "plex"}}},
		lucky:  &backend.LuckyServicesData{Services: []backend.LuckyService{{Key: "l1", Name: "proxy"}}},
	}
	sink := &recordingSink{}
	s := NewNavStore(f, sink, Options{})

	s.LoadAllData(context.Background())

	assert.False(t, s.IsLoading())
	assert.Equal(t, "Home", s.PanelTitle())
	assert.Equal(t, "lab", s.PanelSubtitle())
	assert.True(t, s.SitesEnabled())
	assert.True(t, s.DockerEnabled())
	assert.False(t, s.LuckyServicesEnabled())
	assert.Equal(t, backend.NetworkInternal, s.NetworkType())
	assert.Equal(t, "10.0.0.9", s.ClientIP())
	assert.Len(t, s.Sites(), 1)
	assert.Len(t, s.SiteGroups(), 1)
	assert.Len(t, s.Containers(), 1)
	assert.Len(t, s.LuckyServices(), 1)
	require.Len(t, sink.calls, 1)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, sink.calls[0])
}

func TestNavStore_LoadAllDataToleratesPartialFailure(t *testing.T) {
	f := &fakeFetcher{
		docker: &backend.DockerData{Containers: []backend.DockerContainer{{Key: "c1", ContainerName: "db"}}},
	}
	sink := &recordingSink{}
	s := NewNavStore(f, sink, Options{})

	s.LoadAllData(context.Background())

	assert.False(t, s.IsLoading())
	assert.Len(t, s.Containers(), 1)
	assert.Empty(t, s.Sites())
	assert.Empty(t, s.LuckyServices())
	assert.Equal(t, "Light Panel", s.PanelTitle())
	assert.Equal(t, backend.NetworkExternal, s.NetworkType())
	assert.Empty(t, sink.calls)
	_, ok := s.NavConfig()
	assert.False(t, ok)
}

func TestNavStore_LoadAllDataTotalFailureClearsLoading(t *testing.T) {
	s := NewNavStore(&fakeFetcher{}, nil, Options{})
	s.LoadAllData(context.Background())
	assert.False(t, s.IsLoading())
	assert.True(t, s.SitesEnabled())
	assert.False(t, s.DockerEnabled())
}

func TestNavStore_LoadAllDataKeepsPreviousSliceOnFailure(t *testing.T) {
	f := &fakeFetcher{
		sites: &backend.SitesData{Sites: []backend.Site{{Key: "s1"}, {Key: "s2"}}},
	}
	s := NewNavStore(f, nil, Options{})
	s.LoadAllData(context.Background())
	require.Len(t, s.Sites(), 2)

	f.set(func(f *fakeFetcher) { f.sites = nil })
	s.LoadAllData(context.Background())
	assert.Len(t, s.Sites(), 2)
}

func TestNavStore_DerivedViewsFilterAndStableSort(t *testing.T) {
	f := &fakeFetcher{
		sites: &backend.SitesData{Sites: []backend.Site{
			{Key: "a", Order: 2},
			{Key: "b"},
			{Key: "c", Order: 1, Enable: boolPtr(false)},
			{Key: "d", Order: 1},
			{Key: "e", Enable: boolPtr(true)},
			{Key: "f", Order: -1},
		}},
	}
	s := NewNavStore(f, nil, Options{})
	s.LoadAllData(context.Background())

	var keys []string
	for _, site := range s.Sites() {
		keys = append(keys, site.Key)
	}
	assert.Equal(t, []string{"f", "b", "e", "d", "a"}, keys)
}

func TestFilterItems(t *testing.T) {
	containers := []backend.DockerContainer{
		{Key: "1", ContainerName: "plex", GroupKey: "media"},
		{Key: "2", ContainerName: "postgres", DisplayName: "Database", GroupKey: "infra"},
		{Key: "3", ContainerName: "jellyfin", GroupKey: "media", Description: "Streaming server"},
	}

	all := FilterItems(containers, nil, "")
	assert.Len(t, all, 3)

	media := FilterItems(containers, func(g string) bool { return g == "media" }, "")
	assert.Len(t, media, 2)

	byName := FilterItems(containers, nil, "DATA")
	require.Len(t, byName, 1)
	assert.Equal(t, "2", byName[0].Key)

	both := FilterItems(containers, func(g string) bool { return g == "media" }, "stream")
	require.Len(t, both, 1)
	assert.Equal(t, "3", both[0].Key)
}

func TestNavStore_FetchNetworkType(t *testing.T) {
	f := &fakeFetcher{}
	s := NewNavStore(f, nil, Options{})
	assert.Equal(t, ProbeNotAttempted, s.NetworkProbe())
	assert.False(t, s.NetworkTypeFetchFailed())

	s.FetchNetworkType(context.Background())
	assert.Equal(t, ProbeFailed, s.NetworkProbe())
	assert.True(t, s.NetworkTypeFetchFailed())
	assert.Equal(t, backend.NetworkExternal, s.NetworkType())

	f.set(func(f *fakeFetcher) { f.netType = &backend.NetworkTypeResponse{ClientIP: "1.1.1.1"} })
	s.FetchNetworkType(context.Background())
	assert.Equal(t, ProbeFailed, s.NetworkProbe())
	assert.Empty(t, s.ClientIP())

	f.set(func(f *fakeFetcher) {
		f.netType = &backend.NetworkTypeResponse{NetworkType: backend.NetworkInternal, ClientIP: "192.168.1.5"}
	})
	s.FetchNetworkType(context.Background())
	assert.Equal(t, ProbeSucceeded, s.NetworkProbe())
	assert.False(t, s.NetworkTypeFetchFailed())
	assert.Equal(t, backend.NetworkInternal, s.NetworkType())
	assert.Equal(t, "192.168.1.5", s.ClientIP())
}

func TestNavStore_FetchServerConfig(t *testing.T) {
	f := &fakeFetcher{serverErr: &backend.StatusError{Path: backend.PathServerConfig, Code: http.StatusNotFound}}
	s := NewNavStore(f, nil, Options{})
	assert.Nil(t, s.FetchServerConfig(context.Background()))

	f.set(func(f *fakeFetcher) {
		f.serverErr = nil
		f.serverCfg = &backend.ServerConfigResponse{Ret: 1, Config: json.RawMessage(`{"theme":"light"}`)}
	})
	assert.Nil(t, s.FetchServerConfig(context.Background()))

	f.set(func(f *fakeFetcher) { f.serverCfg = nil })
	assert.Nil(t, s.FetchServerConfig(context.Background()))

	f.set(func(f *fakeFetcher) {
		f.serverCfg = &backend.ServerConfigResponse{Ret: 0, Config: json.RawMessage(`{"theme":"light","showTime":false}`)}
	})
	got := s.FetchServerConfig(context.Background())
	require.Len(t, got, 2)
	assert.JSONEq(t, `"light"`, string(got["theme"]))
	assert.Len(t, s.ServerConfig(), 2)
}

func TestNavStore_DockerStatsReplaceSemantics(t *testing.T) {
	f := &fakeFetcher{dockerSt: &backend.DockerStatsResponse{Ret: 0, Stats: []backend.DockerStat{
		{ContainerName: "plex", CPUPercent: "1%"},
		{ContainerName: "db", CPUPercent: "2%"},
	}}}
	s := NewNavStore(f, nil, Options{})
	ctx := context.Background()

	s.LoadDockerStats(ctx)
	stat, ok := s.ContainerStats("plex")
	require.True(t, ok)
	assert.Equal(t, "1%", stat.CPUPercent)
	assert.Len(t, s.DockerStats(), 2)

	f.set(func(f *fakeFetcher) {
		f.dockerSt = &backend.DockerStatsResponse{Ret: 0, Stats: []backend.DockerStat{{ContainerName: "db", CPUPercent: "3%"}}}
	})
	s.LoadDockerStats(ctx)
	_, ok = s.ContainerStats("plex")
	assert.False(t, ok)
	stat, _ = s.ContainerStats("db")
	assert.Equal(t, "3%", stat.CPUPercent)

	f.set(func(f *fakeFetcher) {
		f.dockerSt = &backend.DockerStatsResponse{Ret: 1, Stats: []backend.DockerStat{}}
	})
	s.LoadDockerStats(ctx)
	assert.Len(t, s.DockerStats(), 1)

	f.set(func(f *fakeFetcher) { f.dockerSt = nil })
	s.LoadDockerStats(ctx)
	assert.Len(t, s.DockerStats(), 1)

	f.set(func(f *fakeFetcher) { f.dockerSt = &backend.DockerStatsResponse{Ret: 0} })
	s.LoadDockerStats(ctx)
	assert.Len(t, s.DockerStats(), 1)

	f.set(func(f *fakeFetcher) { f.dockerSt = &backend.DockerStatsResponse{Ret: 0, Stats: []backend.DockerStat{}} })
	s.LoadDockerStats(ctx)
	assert.Empty(t, s.DockerStats())
}

func TestNavStore_LuckyServicesStatsKeyedByKey(t *testing.T) {
	f := &fakeFetcher{luckySt: &backend.LuckyServicesStatsResponse{Ret: 0, Stats: []backend.LuckyServiceStat{
		{Key: "web", TCPCurrentConnections: 4},
	}}}
	s := NewNavStore(f, nil, Options{})

	s.LoadLuckyServicesStats(context.Background())
	stat, ok := s.ServiceStats("web")
	require.True(t, ok)
	assert.Equal(t, 4, stat.TCPCurrentConnections)
	_, ok = s.ServiceStats("missing")
	assert.False(t, ok)

	f.set(func(f *fakeFetcher) { f.luckySt = &backend.LuckyServicesStatsResponse{Ret: -1} })
	s.LoadLuckyServicesStats(context.Background())
	assert.Len(t, s.LuckyServicesStats(), 1)
}

func TestNavStore_PollingLifecycle(t *testing.T) {
	f := &fakeFetcher{dockerSt: &backend.DockerStatsResponse{Ret: 0, Stats: []backend.DockerStat{{ContainerName: "plex"}}}}
	s := NewNavStore(f, nil, Options{StatsInterval: time.Hour})

	s.StartDockerStatsPolling(context.Background())
	s.StartDockerStatsPolling(context.Background())
	assert.True(t, s.DockerPolling())
	assert.False(t, s.LuckyServicesPolling())

	assert.Eventually(t, func() bool {
		_, ok := s.ContainerStats("plex")
		return ok
	}, 2*time.Second, 5*time.Millisecond)

	s.StopDockerStatsPolling()
	s.StopDockerStatsPolling()
	assert.False(t, s.DockerPolling())

	f.mu.Lock()
	calls := f.statsCalls
	f.mu.Unlock()
	assert.LessOrEqual(t, calls, 2)

	s.StartLuckyServicesStatsPolling(context.Background())
	assert.True(t, s.LuckyServicesPolling())
	s.StopAllPolling()
	assert.False(t, s.LuckyServicesPolling())
}

func TestNavStore_SnapshotIsACopy(t *testing.T) {
	f := &fakeFetcher{
		sites:    &backend.SitesData{Sites: []backend.Site{{Key: "s1", Name: "one"}}},
		dockerSt: &backend.DockerStatsResponse{Ret: 0, Stats: []backend.DockerStat{{ContainerName: "plex"}}},
	}
	s := NewNavStore(f, nil, Options{})
	s.LoadAllData(context.Background())
	s.LoadDockerStats(context.Background())

	snap := s.Snapshot()
	require.Len(t, snap.Sites, 1)
	snap.Sites[0].Name = "mutated"
	delete(snap.DockerStats, "plex")

	assert.Equal(t, "one", s.Sites()[0].Name)
	_, ok := s.ContainerStats("plex")
	assert.True(t, ok)
	assert.Equal(t, "Light Panel", snap.Title)
	assert.False(t, snap.Loading)
}
