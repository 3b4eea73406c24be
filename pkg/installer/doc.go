// Package installer runs the ordered reconciliation pipeline that brings a
// Zabbix server to the state the resolved configuration describes: flush
// template, flush hosts, import template, deploy the collector script,
// configure the credential macro, create hosts.
//
// Every step is idempotent and safe to re-run. Steps are classified as
// critical (failure aborts the pipeline) or best-effort (failure is logged
// and aggregated, the run continues); only host creation is best-effort,
// per address. There is no retry logic anywhere: a failure is either
// immediately fatal or immediately recorded and skipped.
package installer
