// Package zabbix is the JSON-RPC client for the Zabbix API, with
// version-aware authentication.
//
// Zabbix 7.0 expects the credential as an "auth" member in every request
// payload; later releases expect a bearer Authorization header instead.
// Connect probes apiinfo.version once, binds the matching convention into
// the returned client, and verifies the credential before any call that
// could mutate state. Call sites never branch on version.
package zabbix
