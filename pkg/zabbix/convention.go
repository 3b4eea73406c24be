package zabbix

import "net/http"

// convention is the request-authentication shape bound once into a client.
// Exactly one convention exists per run; every authenticated call goes
// through it.
type convention interface {
	// Name identifies the convention in logs.
	Name() string

	// Apply injects the credential into an outgoing request. body is the
	// JSON-RPC envelope before encoding.
	Apply(body map[string]interface{}, header http.Header, token string)
}

// payloadAuth embeds the credential as the "auth" member of every request
// payload. Zabbix 7.0 is the one release line that needs it.
type payloadAuth struct{}

func (payloadAuth) Name() string { return "payload-auth" }

func (payloadAuth) Apply(body map[string]interface{}, _ http.Header, token string) {
	body["auth"] = token
}

// bearerAuth sends the credential as an Authorization bearer header and
// keeps the payload clean. Every release after 7.0 uses it.
type bearerAuth struct{}

func (bearerAuth) Name() string { return "bearer" }

func (bearerAuth) Apply(_ map[string]interface{}, header http.Header, token string) {
	header.Set("Authorization", "Bearer "+token)
}

// conventionFor selects the authentication convention for a probed
// version. The choice is a pure function of major.minor: 7.0 gets the
// legacy payload credential, everything else the bearer header.
func conventionFor(major, minor int) convention {
	if major == 7 && minor == 0 {
		return payloadAuth{}
	}
	return bearerAuth{}
}
