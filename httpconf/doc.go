// Package httpconf resolves per-destination HTTP configuration for outgoing
// RPC calls.
//
// Configuration is kept as an ordered list of rules, each mapping a URL
// pattern (a full-match regular expression) to a partial Config fragment:
// headers, cookies, query defaults, basic auth, proxy, and an API key.
// Looking up a URL folds every matching fragment into one effective Config
// using Merge.
//
// # Quick Start
//
//	settings := httpconf.NewSettingsFromEnv(
//	    httpconf.WithLogger(logger),
//	)
//
//	conf := settings.Lookup("https://api.example.com/v1/items")
//	err := conf.Apply(requestBuilder, secretStore)
//
// # Settings Document
//
// Settings persist as a YAML sequence. The file location comes from the
// HTTP_SETTINGS_FILE environment variable; a missing variable or path simply
// means "no configuration".
//
//	- url: https://api\.example\.com/.*
//	  headers:
//	    X-Tenant: acme
//	  cookies:
//	    session: abc123
//	  basic-auth:
//	    user: alice
//	    keychain: example-service
//	  api-key: secret-key
//
// A basic-auth or proxy block carries either an inline password or a keychain
// reference, never both.
package httpconf
