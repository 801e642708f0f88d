package secret

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// DefaultTimeout bounds every keychain operation.
const DefaultTimeout = time.Minute

// StoreError reports a failure raised by the secret store itself.
// Timeouts are not StoreErrors; they yield empty results instead.
type StoreError struct {
	// Op is the failing operation: "load", "save" or "delete".
	Op string

	// Service and User identify the secret.
	Service string
	User    string

	// Err is the underlying keychain error.
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("secret %s (service=%s, user=%s): %v", e.Op, e.Service, e.User, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Option configures a Store.
type Option func(*Store)

// WithKeyring replaces the OS keychain backend. Intended for tests.
func WithKeyring(k Keyring) Option {
	return func(s *Store) {
		s.ring = k
	}
}

// WithTimeout overrides the per-operation timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.timeout = d
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// Store resolves named secrets against the OS keychain under a bounded
// timeout. Safe for concurrent use; concurrent loads of the same secret
// coalesce into a single keychain call.
type Store struct {
	ring    Keyring
	timeout time.Duration
	logger  zerolog.Logger
	group   singleflight.Group
}

// New creates a Store backed by the platform keychain.
func New(opts ...Option) *Store {
	s := &Store{
		ring:    systemKeyring{},
		timeout: DefaultTimeout,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load resolves the password stored for (service, user).
//
// A keychain call that does not complete within the timeout yields an
// empty password and no error; callers must treat an empty result as
// "not found", not as "definitely absent". A failure reported by the
// store itself returns a *StoreError.
func (s *Store) Load(service, user string) (string, error) {
	v, err, _ := s.group.Do(service+"\x00"+user, func() (any, error) {
		s.logger.Debug().Str("service", service).Str("user", user).Msg("loading secret")

		password, ok, err := s.bounded(func() (string, error) {
			return s.ring.Get(service, user)
		})
		if !ok {
			s.logger.Warn().Str("service", service).Msg("keychain timed out loading secret")
			return "", nil
		}
		if err != nil {
			return "", &StoreError{Op: "load", Service: service, User: user, Err: err}
		}
		return password, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Save stores a password and returns the service id it was stored under.
//
// An empty service name generates one of the form "service password "
// followed by twelve hex characters, so unrelated callers never collide.
// Timeouts yield an empty service id and no error.
func (s *Store) Save(service, user, password string) (string, error) {
	if service == "" {
		service = "service password " + randomServiceID()
	}

	s.logger.Debug().Str("service", service).Str("user", user).Msg("storing secret")

	_, ok, err := s.bounded(func() (string, error) {
		return "", s.ring.Set(service, user, password)
	})
	if !ok {
		s.logger.Warn().Str("service", service).Msg("keychain timed out storing secret")
		return "", nil
	}
	if err != nil {
		return "", &StoreError{Op: "save", Service: service, User: user, Err: err}
	}
	return service, nil
}

// Delete removes the secret stored for (service, user), reporting whether
// the removal completed. Timeouts report false with no error.
func (s *Store) Delete(service, user string) (bool, error) {
	s.logger.Debug().Str("service", service).Str("user", user).Msg("deleting secret")

	_, ok, err := s.bounded(func() (string, error) {
		return "", s.ring.Delete(service, user)
	})
	if !ok {
		s.logger.Warn().Str("service", service).Msg("keychain timed out deleting secret")
		return false, nil
	}
	if err != nil {
		return false, &StoreError{Op: "delete", Service: service, User: user, Err: err}
	}
	return true, nil
}

type result struct {
	value string
	err   error
}

// bounded runs fn in its own goroutine and waits at most the configured
// timeout. The third return reports completion; on timeout the goroutine is
// abandoned and its eventual result discarded through the buffered channel.
func (s *Store) bounded(fn func() (string, error)) (string, bool, error) {
	ch := make(chan result, 1)
	go func() {
		v, err := fn()
		ch <- result{value: v, err: err}
	}()

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case r := <-ch:
		return r.value, true, r.err
	case <-timer.C:
		return "", false, nil
	}
}

func randomServiceID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
