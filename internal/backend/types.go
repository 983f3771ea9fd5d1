package backend

import (
	"encoding/json"
	"strings"
)

// NavConfig mirrors backend/nav.json.
type NavConfig struct {
	Version              string      `json:"version,omitempty"`
	Settings             NavSettings `json:"settings"`
	SitesEnabled         *bool       `json:"sitesEnabled,omitempty"`
	DockerEnabled        *bool       `json:"dockerEnabled,omitempty"`
	LuckyServicesEnabled *bool       `json:"luckyServicesEnabled,omitempty"`
}

// NavSettings holds panel branding and the server background images.
type NavSettings struct {
	Title            string         `json:"title"`
	Subtitle         string         `json:"subtitle,omitempty"`
	Logo             string         `json:"logo,omitempty"`
	Favicon          string         `json:"favicon,omitempty"`
	BackgroundImages []string       `json:"backgroundImages,omitempty"`
	Custom           map[string]any `json:"custom,omitempty"`
}

// Group is a named bucket of catalog items.
type Group struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Icon  string `json:"icon,omitempty"`
	Order int    `json:"order,omitempty"`
}

// NetworkType is where the backend believes the client sits.
type NetworkType string

const (
	NetworkInternal NetworkType = "internal"
	NetworkExternal NetworkType = "external"
)

// SitesData mirrors backend/sites.json.
type SitesData struct {
	NetworkType NetworkType `json:"networkType"`
	ClientIP    string      `json:"clientIP"`
	Groups      []Group     `json:"groups"`
	Sites       []Site      `json:"sites"`
}

// Site is a bookmarked web service.
type Site struct {
	Key          string   `json:"key"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	IconURL      string   `json:"iconUrl,omitempty"`
	FrontendURLs []string `json:"frontendUrls,omitempty"`
	BackendURLs  []string `json:"backendUrls,omitempty"`
	GroupKey     string   `json:"groupKey,omitempty"`
	Order        int      `json:"order,omitempty"`
	Enable       *bool    `json:"enable,omitempty"`
	Target       string   `json:"target,omitempty"`
}

// URLFor picks the first URL suited to the network: backend (LAN) URLs for
// internal clients, frontend URLs otherwise, falling back to the other list.
func (s Site) URLFor(network NetworkType) string {
	primary, secondary := s.FrontendURLs, s.BackendURLs
	if network == NetworkInternal {
		primary, secondary = s.BackendURLs, s.FrontendURLs
	}
	for _, list := range [][]string{primary, secondary} {
		for _, u := range list {
			if strings.TrimSpace(u) != "" {
				return u
			}
		}
	}
	return ""
}

// DockerState is the lifecycle state reported for a container.
type DockerState string

const (
	DockerRunning    DockerState = "running"
	DockerExited     DockerState = "exited"
	DockerPaused     DockerState = "paused"
	DockerRestarting DockerState = "restarting"
	DockerCreated    DockerState = "created"
	DockerUnknown    DockerState = "unknown"
)

// DockerData mirrors backend/docker.json.
type DockerData struct {
	Groups     []Group           `json:"groups"`
	Containers []DockerContainer `json:"containers"`
}

// DockerContainer is a catalog entry for one container.
type DockerContainer struct {
	Key            string      `json:"key"`
	ContainerName  string      `json:"containerName"`
	ContainerID    string      `json:"containerId,omitempty"`
	DisplayName    string      `json:"displayName,omitempty"`
	Description    string      `json:"description,omitempty"`
	IconURL        string      `json:"iconUrl,omitempty"`
	State          DockerState `json:"state,omitempty"`
	Status         string      `json:"status,omitempty"`
	GroupKey       string      `json:"groupKey,omitempty"`
	Order          int         `json:"order,omitempty"`
	Enable         *bool       `json:"enable,omitempty"`
	ShowStatus     *bool       `json:"showStatus,omitempty"`
	ComposeProject string      `json:"composeProject,omitempty"`
}

// Label returns the display name, falling back to the container name.
func (c DockerContainer) Label() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.ContainerName
}

// DockerStatsResponse mirrors backend/docker-stats.json.
type DockerStatsResponse struct {
	Ret   int          `json:"ret"`
	Stats []DockerStat `json:"stats"`
}

// DockerStat is one container's live metrics.
type DockerStat struct {
	ContainerName  string  `json:"containerName"`
	State          string  `json:"state"`
	Status         string  `json:"status,omitempty"`
	CPUPercent     string  `json:"cpuPercent"`
	MemoryUsage    string  `json:"memoryUsage"`
	MemoryPercent  string  `json:"memoryPercent"`
	NetworkRx      string  `json:"networkRx"`
	NetworkTx      string  `json:"networkTx"`
	NetworkRxSpeed float64 `json:"networkRxSpeed"`
	NetworkTxSpeed float64 `json:"networkTxSpeed"`
	DiskReadSpeed  float64 `json:"diskReadSpeed,omitempty"`
	DiskWriteSpeed float64 `json:"diskWriteSpeed,omitempty"`
}

// ServiceType is the kind of Lucky proxy rule.
type ServiceType string

const (
	ServiceWeb         ServiceType = "webservice"
	ServiceWebMain     ServiceType = "webservice-main"
	ServiceWebDefault  ServiceType = "webservice-default"
	ServicePortForward ServiceType = "portforward"
	ServiceSTUN        ServiceType = "stun"
)

// ServiceState is the lifecycle state reported for a Lucky service.
type ServiceState string

// LuckyServicesData mirrors backend/luckyservices.json.
type LuckyServicesData struct {
	Groups   []Group        `json:"groups"`
	Services []LuckyService `json:"services"`
}

// LuckyService is a catalog entry for one Lucky proxy service.
type LuckyService struct {
	Key         string       `json:"key"`
	Name        string       `json:"name"`
	DisplayName string       `json:"displayName,omitempty"`
	Description string       `json:"description,omitempty"`
	IconURL     string       `json:"iconUrl,omitempty"`
	ServiceType ServiceType  `json:"serviceType"`
	State       ServiceState `json:"state,omitempty"`
	GroupKey    string       `json:"groupKey,omitempty"`
	Order       int          `json:"order,omitempty"`
	Enable      *bool        `json:"enable,omitempty"`
	ShowStatus  *bool        `json:"showStatus,omitempty"`
	PublicAddr  string       `json:"publicAddr,omitempty"`
}

// Label returns the display name, falling back to the service name.
func (s LuckyService) Label() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.Name
}

// LuckyServicesStatsResponse mirrors backend/luckyservices-stats.json.
type LuckyServicesStatsResponse struct {
	Ret   int                `json:"ret"`
	Stats []LuckyServiceStat `json:"stats"`
}

// LuckyServiceStat is one service's live connection and traffic counters.
type LuckyServiceStat struct {
	Key                   string  `json:"key"`
	State                 string  `json:"state"`
	TCPCurrentConnections int     `json:"tcpCurrentConnections"`
	UDPCurrentConnections int     `json:"udpCurrentConnections"`
	TrafficIn             float64 `json:"trafficIn"`
	TrafficOut            float64 `json:"trafficOut"`
	InSpeed               float64 `json:"inSpeed"`
	OutSpeed              float64 `json:"outSpeed"`
	PublicAddr            string  `json:"publicAddr,omitempty"`
}

// NetworkTypeResponse mirrors backend/api/network-type.
type NetworkTypeResponse struct {
	NetworkType NetworkType `json:"networkType"`
	ClientIP    string      `json:"clientIP"`
}

// ServerConfigResponse mirrors backend/default-config.json. Config is kept
// raw so the preference store can decode each allow-listed field itself.
type ServerConfigResponse struct {
	Ret    int             `json:"ret"`
	Config json.RawMessage `json:"config"`
}

// ConfigFields decodes Config as a JSON object. A missing, null, or
// non-object config yields nil.
func (r ServerConfigResponse) ConfigFields() map[string]json.RawMessage {
	if len(r.Config) == 0 {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(r.Config, &fields); err != nil {
		return nil
	}
	return fields
}
