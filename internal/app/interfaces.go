package app

import (
	"github.com/robfig/cron/v3"

	"github.com/talkincode/pharmadesk/config"
	"github.com/talkincode/pharmadesk/internal/cache"
	"github.com/talkincode/pharmadesk/internal/dashboard"
	"github.com/talkincode/pharmadesk/internal/shell"
	"github.com/talkincode/pharmadesk/pkg/metrics"
)

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// MetricsProvider provides the prometheus registry
type MetricsProvider interface {
	Metrics() *metrics.Registry
}

// CatalogProvider provides the shared gateway cache and dashboard board
type CatalogProvider interface {
	Catalog() *cache.Cache
	Board() *dashboard.Board
}

// WorkspaceProvider provides the per-session workspaces
type WorkspaceProvider interface {
	Workspaces() *shell.Registry
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// AppContext combines all provider interfaces for full application context
// Handlers should depend on specific providers or this combined interface
type AppContext interface {
	ConfigProvider
	MetricsProvider
	CatalogProvider
	WorkspaceProvider
	SchedulerProvider

	Settings() Settings
	Release()
}
