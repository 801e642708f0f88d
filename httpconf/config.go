package httpconf

import (
	"errors"

	"gopkg.in/yaml.v3"
)

// BasicAuth describes credentials for HTTP basic authentication.
//
// The password is either inline (Password) or a keychain service reference
// (Keychain) resolved through a SecretLoader at apply time. Exactly one of
// the two is set on a decoded document.
type BasicAuth struct {
	// User is the basic-auth user name. Required.
	User string `yaml:"user"`

	// Password is the inline password.
	Password string `yaml:"password,omitempty"`

	// Keychain is the keychain service name holding the password.
	Keychain string `yaml:"keychain,omitempty"`
}

// Proxy describes an HTTP proxy for a destination, with optional
// proxy basic-auth credentials following the same inline-or-keychain rule
// as BasicAuth.
type Proxy struct {
	// Host is the proxy host. Required.
	Host string `yaml:"host"`

	// Port is the proxy port. Required.
	Port int `yaml:"port"`

	// User enables proxy basic-auth when non-empty.
	User string `yaml:"user,omitempty"`

	// Password is the inline proxy password.
	Password string `yaml:"password,omitempty"`

	// Keychain is the keychain service name holding the proxy password.
	Keychain string `yaml:"keychain,omitempty"`
}

// Config is a partial per-destination configuration fragment.
//
// The zero value is the identity element of Merge: merging it with any
// fragment yields that fragment unchanged.
type Config struct {
	// Headers are default request headers.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Cookies are sent as a single synthesized Cookie header.
	Cookies map[string]string `yaml:"cookies,omitempty"`

	// Query holds default query parameters. A query parameter produced by
	// the request itself takes precedence over a default of the same name.
	Query map[string]string `yaml:"query,omitempty"`

	// Auth configures HTTP basic authentication.
	Auth *BasicAuth `yaml:"basic-auth,omitempty"`

	// Proxy configures an HTTP proxy.
	Proxy *Proxy `yaml:"proxy,omitempty"`

	// APIKey is the API key offered to API-key and bearer security schemes.
	// Empty means no key is configured.
	APIKey string `yaml:"api-key,omitempty"`
}

// Merge combines two fragments into one.
//
// Map fields (headers, cookies, query) are unioned with b's entries winning
// on key collision. Single-valued fields (auth, proxy, API key) take b's
// value when present, else a's.
//
// Merge is associative and the zero Config is its identity, so folding any
// number of matching fragments is order-stable:
//
//	effective := httpconf.Merge(httpconf.Merge(first, second), third)
func Merge(a, b Config) Config {
	out := Config{
		Headers: mergeMap(a.Headers, b.Headers),
		Cookies: mergeMap(a.Cookies, b.Cookies),
		Query:   mergeMap(a.Query, b.Query),
		Auth:    a.Auth,
		Proxy:   a.Proxy,
		APIKey:  a.APIKey,
	}

	if b.Auth != nil {
		out.Auth = b.Auth
	}
	if b.Proxy != nil {
		out.Proxy = b.Proxy
	}
	if b.APIKey != "" {
		out.APIKey = b.APIKey
	}

	return out
}

// mergeMap unions two string maps with b winning on collision.
// Returns nil when the union is empty so that merging zero values
// yields a zero value.
func mergeMap(a, b map[string]string) map[string]string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}

	out := make(map[string]string, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// UnmarshalYAML decodes a basic-auth block, enforcing that a user is present
// and that exactly one of password or keychain is given.
func (a *BasicAuth) UnmarshalYAML(node *yaml.Node) error {
	type plain BasicAuth
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}

	if p.User == "" {
		return errors.New("basic-auth: 'user' is required")
	}
	if p.Password == "" && p.Keychain == "" {
		return errors.New("basic-auth: one of 'password' or 'keychain' is required")
	}
	if p.Password != "" && p.Keychain != "" {
		return errors.New("basic-auth: 'password' and 'keychain' are mutually exclusive")
	}

	*a = BasicAuth(p)
	return nil
}

// UnmarshalYAML decodes a proxy block. Host and port are required; when a
// user is given, exactly one of password or keychain must accompany it.
func (p *Proxy) UnmarshalYAML(node *yaml.Node) error {
	type plain Proxy
	var v plain
	if err := node.Decode(&v); err != nil {
		return err
	}

	if v.Host == "" {
		return errors.New("proxy: 'host' is required")
	}
	if v.Port == 0 {
		return errors.New("proxy: 'port' is required")
	}
	if v.User != "" {
		if v.Password == "" && v.Keychain == "" {
			return errors.New("proxy: one of 'password' or 'keychain' is required with 'user'")
		}
		if v.Password != "" && v.Keychain != "" {
			return errors.New("proxy: 'password' and 'keychain' are mutually exclusive")
		}
	}

	*p = Proxy(v)
	return nil
}
