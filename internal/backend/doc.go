// Package backend provides an HTTP client for the light panel backend.
//
// # Overview
//
// The panel backend serves a handful of read-only JSON documents below its
// base URL. This package resolves them, decodes them into typed structs, and
// reports HTTP failures as *StatusError so callers can tell "endpoint not
// served" (404) apart from transport or decode problems.
//
// # Endpoints
//
//   - backend/nav.json: panel settings, background images, module switches
//   - backend/sites.json: network type, client IP, site groups and sites
//   - backend/docker.json: container groups and containers
//   - backend/luckyservices.json: Lucky service groups and services
//   - backend/docker-stats.json: {ret, stats[]} per container
//   - backend/luckyservices-stats.json: {ret, stats[]} per service
//   - backend/api/network-type: {networkType, clientIP}
//   - backend/default-config.json: {ret, config} preference defaults
//
// Paths are relative, so a panel mounted under a prefix
// (http://nas:8080/panel/) works without further configuration.
//
// # Usage
//
//	client, err := backend.NewClient("nas.local:16601")
//	if err != nil {
//		return err
//	}
//	nav, err := client.FetchNavConfig(ctx)
//
// The Fetcher interface lists every call the navigation store makes and is
// the seam used by its tests.
package backend
