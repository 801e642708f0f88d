package httpconf

import (
	"encoding/base64"
	"fmt"
	"sort"
	"strings"
)

// RequestBuilder receives the effective configuration of a destination.
// The client package's outgoing request satisfies it; tests use lightweight
// fakes.
type RequestBuilder interface {
	// SetHeader sets a header, replacing any previous value of the name.
	SetHeader(name, value string)

	// SetProxy routes the request through the given proxy. User and
	// password are empty when the proxy needs no authentication.
	SetProxy(host string, port int, user, password string)
}

// SecretLoader resolves a keychain service reference to a password.
// secret.Store satisfies it.
type SecretLoader interface {
	Load(service, user string) (string, error)
}

// Apply writes the fragment onto an outgoing request.
//
// Headers are set as configured. Cookies synthesize a single Cookie header,
// joining name=value pairs with "; " in name order; no Cookie header is set
// when the cookie map is empty. A basic-auth descriptor resolves its
// password (inline, or through secrets when it carries a keychain
// reference) and sets a standard Authorization header. A proxy descriptor
// configures the proxy and, when a proxy user is set, resolves and applies
// proxy credentials the same way.
//
// Apply fails only on secret resolution errors; a keychain reference with a
// nil SecretLoader is such an error.
func (c Config) Apply(rb RequestBuilder, secrets SecretLoader) error {
	for _, name := range sortedKeys(c.Headers) {
		rb.SetHeader(name, c.Headers[name])
	}

	if len(c.Cookies) > 0 {
		pairs := make([]string, 0, len(c.Cookies))
		for _, name := range sortedKeys(c.Cookies) {
			pairs = append(pairs, name+"="+c.Cookies[name])
		}
		rb.SetHeader("Cookie", strings.Join(pairs, "; "))
	}

	if c.Auth != nil {
		password, err := resolvePassword(c.Auth.Password, c.Auth.Keychain, c.Auth.User, secrets)
		if err != nil {
			return fmt.Errorf("basic-auth for user %q: %w", c.Auth.User, err)
		}
		rb.SetHeader("Authorization", BasicAuthHeader(c.Auth.User, password))
	}

	if c.Proxy != nil {
		var password string
		if c.Proxy.User != "" {
			var err error
			password, err = resolvePassword(c.Proxy.Password, c.Proxy.Keychain, c.Proxy.User, secrets)
			if err != nil {
				return fmt.Errorf("proxy auth for user %q: %w", c.Proxy.User, err)
			}
		}
		rb.SetProxy(c.Proxy.Host, c.Proxy.Port, c.Proxy.User, password)
	}

	return nil
}

// BasicAuthHeader returns the value of an Authorization header carrying
// basic credentials.
func BasicAuthHeader(user, password string) string {
	token := base64.StdEncoding.EncodeToString([]byte(user + ":" + password))
	return "Basic " + token
}

func resolvePassword(inline, keychain, user string, secrets SecretLoader) (string, error) {
	if keychain == "" {
		return inline, nil
	}
	if secrets == nil {
		return "", fmt.Errorf("keychain reference %q but no secret loader configured", keychain)
	}
	return secrets.Load(keychain, user)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
