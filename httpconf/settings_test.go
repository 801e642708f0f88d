package httpconf

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettingsFile(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "http-settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	return path
}

func TestNewSettings_Load(t *testing.T) {
	tests := []struct {
		name        string
		doc         string
		wantLen     int
		wantPattern string
	}{
		{
			name: "given a valid document, then rules load in order",
			doc: `
- url: https://a\.example\.com/.*
  headers:
    X-One: "1"
- url: https://b\.example\.com/.*
  api-key: key-b
`,
			wantLen:     2,
			wantPattern: `https://a\.example\.com/.*`,
		},
		{
			name:    "given a malformed document, then store stays empty",
			doc:     "][ not yaml",
			wantLen: 0,
		},
		{
			name: "given an entry without url, then that entry is skipped",
			doc: `
- headers:
    X-One: "1"
- url: https://ok\.example\.com/.*
`,
			wantLen:     1,
			wantPattern: `https://ok\.example\.com/.*`,
		},
		{
			name: "given an invalid pattern, then that entry is skipped",
			doc: `
- url: "(["
- url: https://ok\.example\.com/.*
`,
			wantLen:     1,
			wantPattern: `https://ok\.example\.com/.*`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSettings(writeSettingsFile(t, tt.doc))

			assert.Equal(t, tt.wantLen, s.Len())
			if tt.wantPattern != "" {
				assert.Equal(t, tt.wantPattern, s.Patterns()[0])
			}
		})
	}
}

func TestNewSettings_MissingFile(t *testing.T) {
	s := NewSettings(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Equal(t, 0, s.Len())

	s = NewSettings("")
	assert.Equal(t, 0, s.Len())
}

func TestSettings_Lookup(t *testing.T) {
	s := NewSettings("")
	require.NoError(t, s.Set(`https://api\.example\.com/.*`, Config{
		Headers: map[string]string{"X-One": "1", "X-Shared": "first"},
		APIKey:  "key-1",
	}))
	require.NoError(t, s.Set(`https://api\.example\.com/v1/.*`, Config{
		Headers: map[string]string{"X-Two": "2", "X-Shared": "second"},
		APIKey:  "key-2",
	}))

	tests := []struct {
		name string
		url  string
		want Config
	}{
		{
			name: "given no matching rule, then zero config",
			url:  "https://other.example.com/v1/items",
			want: Config{},
		},
		{
			name: "given one matching rule, then its fragment verbatim",
			url:  "https://api.example.com/status",
			want: Config{
				Headers: map[string]string{"X-One": "1", "X-Shared": "first"},
				APIKey:  "key-1",
			},
		},
		{
			name: "given two matching rules, then merge in rule order with last single-value winning",
			url:  "https://api.example.com/v1/items",
			want: Config{
				Headers: map[string]string{"X-One": "1", "X-Two": "2", "X-Shared": "second"},
				APIKey:  "key-2",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Lookup(tt.url))
		})
	}
}

func TestSettings_Lookup_FullMatchOnly(t *testing.T) {
	s := NewSettings("")
	require.NoError(t, s.Set(`https://api\.example\.com`, Config{APIKey: "key"}))

	// The pattern matches the whole URL, not a substring of it.
	assert.Equal(t, Config{}, s.Lookup("https://api.example.com/v1/items"))
	assert.Equal(t, Config{APIKey: "key"}, s.Lookup("https://api.example.com"))
}

func TestSettings_Lookup_EqualsMergeOfFragments(t *testing.T) {
	first := Config{Headers: map[string]string{"A": "1"}, APIKey: "k1"}
	second := Config{Headers: map[string]string{"B": "2"}, APIKey: "k2"}

	s := NewSettings("")
	require.NoError(t, s.Set(`https://api\.example\.com/.*`, first))
	require.NoError(t, s.Set(`.*example\.com/.*`, second))

	assert.Equal(t, Merge(first, second), s.Lookup("https://api.example.com/x"))
}

func TestSettings_StoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "http-settings.yaml")

	s := NewSettings(path)
	require.NoError(t, s.Set(`https://api\.example\.com/.*`, Config{
		Headers: map[string]string{"X-One": "1"},
		Cookies: map[string]string{"session": "abc"},
		Auth:    &BasicAuth{User: "alice", Keychain: "svc"},
		Proxy:   &Proxy{Host: "proxy.local", Port: 8080},
		APIKey:  "key",
	}))
	s.Store()

	reloaded := NewSettings(path)
	require.Equal(t, 1, reloaded.Len())
	assert.Equal(t, s.Lookup("https://api.example.com/x"), reloaded.Lookup("https://api.example.com/x"))
}

func TestSettings_SetRemove(t *testing.T) {
	s := NewSettings("")
	require.NoError(t, s.Set("a", Config{APIKey: "1"}))
	require.NoError(t, s.Set("b", Config{APIKey: "2"}))

	// Replacing keeps rule order.
	require.NoError(t, s.Set("a", Config{APIKey: "3"}))
	assert.Equal(t, []string{"a", "b"}, s.Patterns())
	assert.Equal(t, "3", s.Lookup("a").APIKey)

	assert.True(t, s.Remove("a"))
	assert.False(t, s.Remove("a"))
	assert.Equal(t, []string{"b"}, s.Patterns())

	assert.Error(t, s.Set("([", Config{}))
}

func TestSettings_ConcurrentLookup(t *testing.T) {
	s := NewSettings("")
	require.NoError(t, s.Set(`https://api\.example\.com/.*`, Config{APIKey: "key"}))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = s.Lookup("https://api.example.com/x")
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = s.Set(`https://other\.example\.com/.*`, Config{APIKey: "other"})
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, "key", s.Lookup("https://api.example.com/x").APIKey)
}
