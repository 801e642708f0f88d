package openapi

import (
	"strings"

	"github.com/kroma-labs/zswag-go/httpconf"
)

// SchemeKind discriminates the closed set of security scheme variants.
type SchemeKind int

const (
	// SchemeBasic requires HTTP basic authentication.
	SchemeBasic SchemeKind = iota

	// SchemeAPIKey requires an API key in a header, query parameter or
	// path slot.
	SchemeAPIKey

	// SchemeCookie requires a named cookie.
	SchemeCookie

	// SchemeBearer requires a bearer token.
	SchemeBearer
)

// SecurityScheme is one named way of authenticating a request. The scheme
// set is fixed by the OpenAPI format, so it is a tagged variant rather
// than an open interface.
type SecurityScheme struct {
	// Kind selects the variant.
	Kind SchemeKind

	// In places the API key for SchemeAPIKey.
	In Location

	// Name is the API key parameter name (SchemeAPIKey) or the cookie
	// name (SchemeCookie).
	Name string
}

// BasicScheme requires HTTP basic authentication.
func BasicScheme() SecurityScheme {
	return SecurityScheme{Kind: SchemeBasic}
}

// APIKeyScheme requires the configured API key, delivered at the given
// location under the given name.
func APIKeyScheme(in Location, name string) SecurityScheme {
	return SecurityScheme{Kind: SchemeAPIKey, In: in, Name: name}
}

// CookieScheme requires the named cookie to be configured.
func CookieScheme(name string) SecurityScheme {
	return SecurityScheme{Kind: SchemeCookie, Name: name}
}

// BearerScheme requires a bearer token source.
func BearerScheme() SecurityScheme {
	return SecurityScheme{Kind: SchemeBearer}
}

// Check reports whether the destination's effective configuration can
// satisfy the scheme.
//
// Basic needs an auth descriptor; APIKey a non-empty API key (its location
// and name only steer placement, not the check); Cookie the named cookie;
// Bearer an Authorization header entry or a non-empty API key to ride as
// the token.
func (s SecurityScheme) Check(conf httpconf.Config) bool {
	switch s.Kind {
	case SchemeBasic:
		return conf.Auth != nil
	case SchemeAPIKey:
		return conf.APIKey != ""
	case SchemeCookie:
		_, ok := conf.Cookies[s.Name]
		return ok
	case SchemeBearer:
		if conf.APIKey != "" {
			return true
		}
		for name := range conf.Headers {
			if strings.EqualFold(name, "Authorization") {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// SecurityAlternatives is the disjunctive normal form of an operation's
// security requirement: the requirement is satisfied when every named
// scheme of at least one inner set is satisfied. An empty value means no
// security is required.
type SecurityAlternatives [][]string

// Choose returns the schemes of the first requirement set the
// configuration satisfies, in declaration order. Empty alternatives
// choose the empty set. A reference to an undeclared scheme never
// satisfies its set.
func Choose(
	alts SecurityAlternatives,
	schemes map[string]SecurityScheme,
	conf httpconf.Config,
) ([]SecurityScheme, bool) {
	if len(alts) == 0 {
		return nil, true
	}

	for _, names := range alts {
		chosen := make([]SecurityScheme, 0, len(names))
		ok := true
		for _, name := range names {
			scheme, declared := schemes[name]
			if !declared || !scheme.Check(conf) {
				ok = false
				break
			}
			chosen = append(chosen, scheme)
		}
		if ok {
			return chosen, true
		}
	}
	return nil, false
}

// Satisfiable reports whether any requirement set can be satisfied.
func Satisfiable(
	alts SecurityAlternatives,
	schemes map[string]SecurityScheme,
	conf httpconf.Config,
) bool {
	_, ok := Choose(alts, schemes, conf)
	return ok
}
