package httpconf

import (
	"fmt"
	"os"
	"regexp"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// SettingsFileEnv is the environment variable naming the settings document.
const SettingsFileEnv = "HTTP_SETTINGS_FILE"

// Option configures a Settings store.
type Option func(*Settings)

// WithLogger sets the logger used for load/store diagnostics.
//
// Settings never fails a caller on a broken document; problems are reported
// through this logger instead. Defaults to a no-op logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Settings) {
		s.logger = l
	}
}

// entry is one pattern rule. The regex is compiled once, anchored for
// full-string matching.
type entry struct {
	pattern string
	re      *regexp.Regexp
	config  Config
}

// Settings is an ordered store of URL-pattern rules.
//
// Lookup is safe for concurrent use; mutation (Set, Remove, Load) is
// serialized against concurrent lookups.
//
// Example:
//
//	settings := httpconf.NewSettings("/home/alice/.config/http-settings.yaml")
//	conf := settings.Lookup("https://api.example.com/v1/items")
type Settings struct {
	mu      sync.RWMutex
	path    string
	entries []entry
	logger  zerolog.Logger
}

// NewSettings creates a Settings store reading from and persisting to the
// document at path. The document is loaded immediately; an empty path or a
// missing file means no configuration, not an error.
func NewSettings(path string, opts ...Option) *Settings {
	s := &Settings{
		path:   path,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.Load()
	return s
}

// NewSettingsFromEnv creates a Settings store located via the
// HTTP_SETTINGS_FILE environment variable.
func NewSettingsFromEnv(opts ...Option) *Settings {
	return NewSettings(os.Getenv(SettingsFileEnv), opts...)
}

// settingsEntry is the document form of one rule.
type settingsEntry struct {
	URL     string            `yaml:"url"`
	Cookies map[string]string `yaml:"cookies,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`
	Query   map[string]string `yaml:"query,omitempty"`
	Auth    *BasicAuth        `yaml:"basic-auth,omitempty"`
	Proxy   *Proxy            `yaml:"proxy,omitempty"`
	APIKey  string            `yaml:"api-key,omitempty"`
}

// Load re-reads the settings document.
//
// A missing path or file leaves the store unchanged. A document that fails
// to parse is logged and leaves the store unchanged; Load never returns an
// error to the caller. Entries with an invalid url pattern are logged and
// skipped individually.
func (s *Settings) Load() {
	if s.path == "" {
		s.logger.Debug().Msgf("%s environment variable is empty", SettingsFileEnv)
		return
	}

	info, err := os.Stat(s.path)
	if err != nil || info.IsDir() {
		s.logger.Debug().Str("path", s.path).Msg("settings path is not a file")
		return
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.Error().Err(err).Str("path", s.path).Msg("failed to read http settings")
		return
	}

	var doc []settingsEntry
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		s.logger.Error().Err(err).Str("path", s.path).Msg("failed to parse http settings")
		return
	}

	entries := make([]entry, 0, len(doc))
	for i, se := range doc {
		if se.URL == "" {
			s.logger.Error().Int("entry", i).Str("path", s.path).
				Msg("settings entry is missing 'url'")
			continue
		}

		e, err := newEntry(se.URL, Config{
			Cookies: se.Cookies,
			Headers: se.Headers,
			Query:   se.Query,
			Auth:    se.Auth,
			Proxy:   se.Proxy,
			APIKey:  se.APIKey,
		})
		if err != nil {
			s.logger.Error().Err(err).Int("entry", i).Str("pattern", se.URL).
				Msg("invalid url pattern in http settings")
			continue
		}
		entries = append(entries, e)
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()

	s.logger.Debug().Str("path", s.path).Int("entries", len(entries)).
		Msg("loaded http settings")
}

// Store persists the current rules back to the settings document.
// Write failures are logged, never raised.
func (s *Settings) Store() {
	if s.path == "" {
		s.logger.Warn().Msgf("%s is not set, cannot save http settings", SettingsFileEnv)
		return
	}

	s.mu.RLock()
	doc := make([]settingsEntry, 0, len(s.entries))
	for _, e := range s.entries {
		doc = append(doc, settingsEntry{
			URL:     e.pattern,
			Cookies: e.config.Cookies,
			Headers: e.config.Headers,
			Query:   e.config.Query,
			Auth:    e.config.Auth,
			Proxy:   e.config.Proxy,
			APIKey:  e.config.APIKey,
		})
	}
	s.mu.RUnlock()

	raw, err := yaml.Marshal(doc)
	if err != nil {
		s.logger.Error().Err(err).Str("path", s.path).Msg("failed to serialize http settings")
		return
	}

	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		s.logger.Error().Err(err).Str("path", s.path).Msg("failed to write http settings")
		return
	}

	s.logger.Debug().Str("path", s.path).Msg("saved http settings")
}

// Lookup returns the effective Config for url: every rule whose pattern
// fully matches the url contributes its fragment, folded with Merge in rule
// order. A url matching no rule yields the zero Config.
func (s *Settings) Lookup(url string) Config {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out Config
	for _, e := range s.entries {
		if e.re.MatchString(url) {
			out = Merge(out, e.config)
		}
	}
	return out
}

// Set adds a rule or replaces the fragment of an existing pattern,
// keeping its position. New patterns append.
func (s *Settings) Set(pattern string, conf Config) error {
	e, err := newEntry(pattern, conf)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].pattern == pattern {
			s.entries[i] = e
			return nil
		}
	}
	s.entries = append(s.entries, e)
	return nil
}

// Remove deletes the rule for pattern, reporting whether it existed.
func (s *Settings) Remove(pattern string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].pattern == pattern {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Patterns returns the stored patterns in rule order.
func (s *Settings) Patterns() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.pattern
	}
	return out
}

// Len returns the number of rules.
func (s *Settings) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func newEntry(pattern string, conf Config) (entry, error) {
	// Anchored so that rules match whole URLs, not substrings.
	re, err := regexp.Compile(`\A(?:` + pattern + `)\z`)
	if err != nil {
		return entry{}, fmt.Errorf("pattern %q: %w", pattern, err)
	}
	return entry{pattern: pattern, re: re, config: conf}, nil
}
