package openapi

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kroma-labs/zswag-go/httpconf"
)

func TestSecurityScheme_Check(t *testing.T) {
	tests := []struct {
		name   string
		scheme SecurityScheme
		conf   httpconf.Config
		want   bool
	}{
		{
			name:   "given basic scheme with auth descriptor, then satisfied",
			scheme: BasicScheme(),
			conf:   httpconf.Config{Auth: &httpconf.BasicAuth{User: "alice", Password: "pw"}},
			want:   true,
		},
		{
			name:   "given basic scheme without auth, then unsatisfied",
			scheme: BasicScheme(),
			conf:   httpconf.Config{},
			want:   false,
		},
		{
			name:   "given api-key scheme with key, then satisfied regardless of location",
			scheme: APIKeyScheme(LocationHeader, "X-Api-Key"),
			conf:   httpconf.Config{APIKey: "key"},
			want:   true,
		},
		{
			name:   "given api-key scheme with empty key, then unsatisfied",
			scheme: APIKeyScheme(LocationQuery, "api_key"),
			conf:   httpconf.Config{},
			want:   false,
		},
		{
			name:   "given cookie scheme with the named cookie, then satisfied",
			scheme: CookieScheme("session"),
			conf:   httpconf.Config{Cookies: map[string]string{"session": "abc"}},
			want:   true,
		},
		{
			name:   "given cookie scheme with a different cookie, then unsatisfied",
			scheme: CookieScheme("session"),
			conf:   httpconf.Config{Cookies: map[string]string{"other": "abc"}},
			want:   false,
		},
		{
			name:   "given bearer scheme with authorization header, then satisfied",
			scheme: BearerScheme(),
			conf:   httpconf.Config{Headers: map[string]string{"authorization": "Bearer tok"}},
			want:   true,
		},
		{
			name:   "given bearer scheme with api key, then satisfied",
			scheme: BearerScheme(),
			conf:   httpconf.Config{APIKey: "tok"},
			want:   true,
		},
		{
			name:   "given bearer scheme with nothing, then unsatisfied",
			scheme: BearerScheme(),
			conf:   httpconf.Config{},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.scheme.Check(tt.conf))
		})
	}
}

func TestChoose(t *testing.T) {
	schemes := map[string]SecurityScheme{
		"basic":  BasicScheme(),
		"apikey": APIKeyScheme(LocationHeader, "X-Api-Key"),
		"cookie": CookieScheme("session"),
	}

	withAuth := httpconf.Config{Auth: &httpconf.BasicAuth{User: "alice", Password: "pw"}}
	withKey := httpconf.Config{APIKey: "key"}

	tests := []struct {
		name    string
		alts    SecurityAlternatives
		conf    httpconf.Config
		wantOK  bool
		wantLen int
	}{
		{
			name:    "given empty alternatives, then always satisfied",
			alts:    SecurityAlternatives{},
			conf:    httpconf.Config{},
			wantOK:  true,
			wantLen: 0,
		},
		{
			name:    "given basic-or-apikey with auth, then basic chosen",
			alts:    SecurityAlternatives{{"basic"}, {"apikey"}},
			conf:    withAuth,
			wantOK:  true,
			wantLen: 1,
		},
		{
			name:    "given basic-or-apikey with key, then apikey chosen",
			alts:    SecurityAlternatives{{"basic"}, {"apikey"}},
			conf:    withKey,
			wantOK:  true,
			wantLen: 1,
		},
		{
			name:   "given basic-or-apikey with neither, then unsatisfied",
			alts:   SecurityAlternatives{{"basic"}, {"apikey"}},
			conf:   httpconf.Config{},
			wantOK: false,
		},
		{
			name:   "given conjunction with one missing scheme, then unsatisfied",
			alts:   SecurityAlternatives{{"basic", "cookie"}},
			conf:   withAuth,
			wantOK: false,
		},
		{
			name: "given conjunction fully satisfied, then both schemes chosen",
			alts: SecurityAlternatives{{"basic", "cookie"}},
			conf: httpconf.Config{
				Auth:    &httpconf.BasicAuth{User: "alice", Password: "pw"},
				Cookies: map[string]string{"session": "abc"},
			},
			wantOK:  true,
			wantLen: 2,
		},
		{
			name:   "given reference to undeclared scheme, then unsatisfied",
			alts:   SecurityAlternatives{{"missing"}},
			conf:   withAuth,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chosen, ok := Choose(tt.alts, schemes, tt.conf)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Len(t, chosen, tt.wantLen)
			}
			assert.Equal(t, tt.wantOK, Satisfiable(tt.alts, schemes, tt.conf))
		})
	}
}
