package resolver

import "os"

// Input names the resolver and installer key on. They match the
// requirements document shipped with the Cambium Fiber bundle.
const (
	InputAPIURL        = "zabbix_api_url"
	InputAPIToken      = "zabbix_api_token"
	InputOLTPassword   = "olt_password"
	InputFlushTemplate = "flush_template"
	InputFlushHosts    = "flush_hosts"
	InputAddHosts      = "add_hosts"
	InputOLTAddresses  = "olt_ip_addresses"
)

// envKeyByInput is the explicit input-name to environment-key table. It is
// a fixed mapping, not a naming convention: olt_ip_addresses maps to
// OLT_IPS, not OLT_IP_ADDRESSES.
var envKeyByInput = map[string]string{
	InputAPIURL:        "ZABBIX_API_URL",
	InputAPIToken:      "ZABBIX_API_TOKEN",
	InputOLTPassword:   "OLT_PASSWORD",
	InputFlushTemplate: "FLUSH_TEMPLATE",
	InputFlushHosts:    "FLUSH_HOSTS",
	InputAddHosts:      "ADD_HOSTS",
	InputOLTAddresses:  "OLT_IPS",
}

// OverrideSource is the external key-value namespace consulted before
// prompting, keyed by input name.
type OverrideSource interface {
	// Lookup returns the override for the given input name and whether one
	// is present.
	Lookup(inputName string) (string, bool)
}

// EnvOverrides reads overrides from the process environment through the
// explicit mapping table.
type EnvOverrides struct {
	lookupEnv func(string) (string, bool)
}

// NewEnvOverrides creates an override source backed by the real process
// environment.
func NewEnvOverrides() *EnvOverrides {
	return &EnvOverrides{lookupEnv: os.LookupEnv}
}

// Lookup implements OverrideSource. Input names outside the mapping table
// have no override.
func (e *EnvOverrides) Lookup(inputName string) (string, bool) {
	key, ok := envKeyByInput[inputName]
	if !ok {
		return "", false
	}
	return e.lookupEnv(key)
}

// MapOverrides is an in-memory override source keyed directly by input
// name, used by tests and by callers that collect overrides elsewhere.
type MapOverrides map[string]string

// Lookup implements OverrideSource.
func (m MapOverrides) Lookup(inputName string) (string, bool) {
	v, ok := m[inputName]
	return v, ok
}

// NonInteractive reports whether the run operates without prompting. It is
// decided once, before any input is collected, and holds for the whole
// run: the rule is that both mandatory connection overrides are present.
// Other overrides never flip the mode; in interactive mode they still win
// over prompts input by input.
func NonInteractive(src OverrideSource) bool {
	if src == nil {
		return false
	}
	_, hasURL := src.Lookup(InputAPIURL)
	_, hasToken := src.Lookup(InputAPIToken)
	return hasURL && hasToken
}
