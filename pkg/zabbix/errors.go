package zabbix

import "fmt"

// ConnectivityError reports that the server is unreachable or did not
// return a parsable version. It is fatal and pre-flight; the version probe
// is an environment precondition and is never retried.
type ConnectivityError struct {
	URL string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("cannot reach Zabbix API at %s: %v", e.URL, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// Hint returns a remediation hint for the operator.
func (e *ConnectivityError) Hint() string {
	return "verify the Zabbix URL (including scheme and path prefix) and that the frontend is running"
}

// AuthenticationError reports that the server rejected the credential
// during the post-connect probe, before any mutating call.
type AuthenticationError struct {
	Err error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("Zabbix API rejected the credential: %v", e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// Hint returns a remediation hint for the operator.
func (e *AuthenticationError) Hint() string {
	return "create a fresh API token in Zabbix (Users -> API tokens) and make sure it has not expired"
}

// APIError is the JSON-RPC error member of a response.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data"`
}

func (e *APIError) Error() string {
	if e.Data != "" {
		return fmt.Sprintf("API error %d: %s (%s)", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("API error %d: %s", e.Code, e.Message)
}
