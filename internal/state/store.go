package state

import (
	"context"
	"encoding/json"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/lightpanel/lightpanel/internal/backend"
)

// BackgroundSink receives the server background images announced by the
// nav config. It is implemented by *prefs.Store.
type BackgroundSink interface {
	SetServerBackgrounds(urls []string)
}

// NetworkProbe records the outcome of the last network-type probe.
type NetworkProbe int

const (
	ProbeNotAttempted NetworkProbe = iota
	ProbeSucceeded
	ProbeFailed
)

func (p NetworkProbe) String() string {
	switch p {
	case ProbeSucceeded:
		return "succeeded"
	case ProbeFailed:
		return "failed"
	default:
		return "not attempted"
	}
}

// Options configure a NavStore.
type Options struct {
	StatsInterval time.Duration
	Logger        *slog.Logger
}

// NavStore caches the server catalogs and keeps the two statistics maps
// fresh. All methods are safe for concurrent use.
type NavStore struct {
	fetcher     backend.Fetcher
	backgrounds BackgroundSink
	log         *slog.Logger

	mu           sync.RWMutex
	loading      bool
	navConfig    *backend.NavConfig
	sites        *backend.SitesData
	docker       *backend.DockerData
	lucky        *backend.LuckyServicesData
	networkType  backend.NetworkType
	networkProbe NetworkProbe
	clientIP     string
	serverConfig map[string]json.RawMessage
	dockerStats  map[string]backend.DockerStat
	luckyStats   map[string]backend.LuckyServiceStat

	dockerPoller *Poller
	luckyPoller  *Poller
}

// NewNavStore builds a store reading from fetcher. backgrounds may be nil.
func NewNavStore(fetcher backend.Fetcher, backgrounds BackgroundSink, opts Options) *NavStore {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &NavStore{
		fetcher:     fetcher,
		backgrounds: backgrounds,
		log:         logger.With("component", "nav"),
		networkType: backend.NetworkExternal,
		dockerStats: make(map[string]backend.DockerStat),
		luckyStats:  make(map[string]backend.LuckyServiceStat),
	}
	s.dockerPoller = NewPoller(opts.StatsInterval, s.LoadDockerStats)
	s.luckyPoller = NewPoller(opts.StatsInterval, s.LoadLuckyServicesStats)
	return s
}

// LoadAllData fetches the nav config and the three catalogs concurrently
// and waits for all of them. Each result is applied on its own: a failed
// fetch leaves its slice at the previous value. A successful nav config
// hands its background images to the BackgroundSink. Overlapping calls
// race; the slower response wins.
func (s *NavStore) LoadAllData(ctx context.Context) {
	s.setLoading(true)
	defer s.setLoading(false)

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		nav, err := s.fetcher.FetchNavConfig(ctx)
		if err != nil {
			s.log.Warn("nav config fetch failed", "err", err)
			return
		}
		s.mu.Lock()
		s.navConfig = nav
		s.mu.Unlock()
		if s.backgrounds != nil {
			s.backgrounds.SetServerBackgrounds(nav.Settings.BackgroundImages)
		}
	}()

	go func() {
		defer wg.Done()
		sites, err := s.fetcher.FetchSites(ctx)
		if err != nil {
			s.log.Warn("sites fetch failed", "err", err)
			return
		}
		s.mu.Lock()
		s.sites = sites
		s.networkType = sites.NetworkType
		if s.networkType == "" {
			s.networkType = backend.NetworkExternal
		}
		s.clientIP = sites.ClientIP
		s.mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		docker, err := s.fetcher.FetchDocker(ctx)
		if err != nil {
			s.log.Warn("docker catalog fetch failed", "err", err)
			return
		}
		s.mu.Lock()
		s.docker = docker
		s.mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		lucky, err := s.fetcher.FetchLuckyServices(ctx)
		if err != nil {
			s.log.Warn("lucky services catalog fetch failed", "err", err)
			return
		}
		s.mu.Lock()
		s.lucky = lucky
		s.mu.Unlock()
	}()

	wg.Wait()
}

func (s *NavStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// IsLoading reports whether LoadAllData is in flight.
func (s *NavStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// FetchNetworkType probes the backend for the client's network type. A
// non-success response or a payload without networkType marks the probe as
// failed and keeps the previous network type.
func (s *NavStore) FetchNetworkType(ctx context.Context) {
	resp, err := s.fetcher.FetchNetworkType(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.networkProbe = ProbeFailed
		s.log.Warn("failed to fetch network type", "err", err)
		return
	}
	if resp.NetworkType == "" {
		s.networkProbe = ProbeFailed
		s.log.Warn("failed to fetch network type: invalid response")
		return
	}
	s.networkType = resp.NetworkType
	s.clientIP = resp.ClientIP
	s.networkProbe = ProbeSucceeded
	s.log.Info("network type updated", "network_type", s.networkType, "client_ip", s.clientIP)
}

// NetworkType returns the last known network type (external by default).
func (s *NavStore) NetworkType() backend.NetworkType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.networkType
}

// ClientIP returns the client address as seen by the backend.
func (s *NavStore) ClientIP() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clientIP
}

// NetworkProbe returns the outcome of the last FetchNetworkType call.
func (s *NavStore) NetworkProbe() NetworkProbe {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.networkProbe
}

// NetworkTypeFetchFailed reports whether the last probe failed.
func (s *NavStore) NetworkTypeFetchFailed() bool {
	return s.NetworkProbe() == ProbeFailed
}

// FetchServerConfig loads the optional server preference defaults. A
// missing endpoint, an HTTP or decode error, or ret != 0 all yield nil.
func (s *NavStore) FetchServerConfig(ctx context.Context) map[string]json.RawMessage {
	resp, err := s.fetcher.FetchServerConfig(ctx)
	if err != nil {
		if backend.IsNotFound(err) {
			s.log.Info("server config not available, using defaults")
		} else {
			s.log.Info("failed to fetch server config, using defaults", "err", err)
		}
		return nil
	}
	if resp.Ret != 0 {
		s.log.Info("server config returned error, using defaults", "ret", resp.Ret)
		return nil
	}

	fields := resp.ConfigFields()
	s.mu.Lock()
	s.serverConfig = maps.Clone(fields)
	if s.serverConfig == nil {
		s.serverConfig = map[string]json.RawMessage{}
	}
	s.mu.Unlock()
	s.log.Info("server config loaded", "fields", len(fields))
	return fields
}

// ServerConfig returns the last server config loaded by FetchServerConfig.
func (s *NavStore) ServerConfig() map[string]json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.serverConfig)
}

// LoadDockerStats replaces the container stat map when the backend answers
// with ret == 0 and a stats list. Anything else leaves the map unchanged.
func (s *NavStore) LoadDockerStats(ctx context.Context) {
	resp, err := s.fetcher.FetchDockerStats(ctx)
	if err != nil {
		s.log.Debug("docker stats fetch failed", "err", err)
		return
	}
	if resp.Ret != 0 || resp.Stats == nil {
		return
	}
	next := make(map[string]backend.DockerStat, len(resp.Stats))
	for _, stat := range resp.Stats {
		next[stat.ContainerName] = stat
	}
	s.mu.Lock()
	s.dockerStats = next
	s.mu.Unlock()
}

// LoadLuckyServicesStats is LoadDockerStats for the Lucky service feed.
func (s *NavStore) LoadLuckyServicesStats(ctx context.Context) {
	resp, err := s.fetcher.FetchLuckyServicesStats(ctx)
	if err != nil {
		s.log.Debug("lucky services stats fetch failed", "err", err)
		return
	}
	if resp.Ret != 0 || resp.Stats == nil {
		return
	}
	next := make(map[string]backend.LuckyServiceStat, len(resp.Stats))
	for _, stat := range resp.Stats {
		next[stat.Key] = stat
	}
	s.mu.Lock()
	s.luckyStats = next
	s.mu.Unlock()
}

// StartDockerStatsPolling (re)starts the container stats loop.
func (s *NavStore) StartDockerStatsPolling(ctx context.Context) {
	s.dockerPoller.Start(ctx)
}

// StopDockerStatsPolling stops the container stats loop.
func (s *NavStore) StopDockerStatsPolling() {
	s.dockerPoller.Stop()
}

// StartLuckyServicesStatsPolling (re)starts the Lucky service stats loop.
func (s *NavStore) StartLuckyServicesStatsPolling(ctx context.Context) {
	s.luckyPoller.Start(ctx)
}

// StopLuckyServicesStatsPolling stops the Lucky service stats loop.
func (s *NavStore) StopLuckyServicesStatsPolling() {
	s.luckyPoller.Stop()
}

// StopAllPolling stops both statistics loops.
func (s *NavStore) StopAllPolling() {
	s.dockerPoller.Stop()
	s.luckyPoller.Stop()
}

// DockerPolling reports whether the container stats loop is active.
func (s *NavStore) DockerPolling() bool { return s.dockerPoller.Running() }

// LuckyServicesPolling reports whether the Lucky stats loop is active.
func (s *NavStore) LuckyServicesPolling() bool { return s.luckyPoller.Running() }

// ContainerStats returns the latest stats for a container name.
func (s *NavStore) ContainerStats(name string) (backend.DockerStat, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stat, ok := s.dockerStats[name]
	return stat, ok
}

// ServiceStats returns the latest stats for a Lucky service key.
func (s *NavStore) ServiceStats(key string) (backend.LuckyServiceStat, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stat, ok := s.luckyStats[key]
	return stat, ok
}

// DockerStats returns a copy of the container stat map.
func (s *NavStore) DockerStats() map[string]backend.DockerStat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.dockerStats)
}

// LuckyServicesStats returns a copy of the Lucky service stat map.
func (s *NavStore) LuckyServicesStats() map[string]backend.LuckyServiceStat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.luckyStats)
}
