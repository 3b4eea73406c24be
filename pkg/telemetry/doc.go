// Package telemetry provides structured logging and Prometheus metrics
// for the installer.
//
// Logging is built on zerolog. The CLI constructs one root logger and
// hands child loggers (tagged with component and run_id fields) to the
// packages that do the work; nothing in this module logs through a
// process-global logger.
//
// Metrics are optional. When enabled, a Metrics collector counts Zabbix
// API calls, step outcomes and durations, and per-host creation attempts,
// and serves them over HTTP for scraping. The collector plugs into the
// rest of the module through small observer hooks so the core packages
// do not import Prometheus.
package telemetry
