package secret

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeKeyring is an in-memory Keyring with configurable latency and errors.
type fakeKeyring struct {
	mu      sync.Mutex
	secrets map[string]string
	delay   time.Duration
	err     error
	gets    atomic.Int64
}

func newFakeKeyring() *fakeKeyring {
	return &fakeKeyring{secrets: make(map[string]string)}
}

func (f *fakeKeyring) key(service, user string) string {
	return service + "/" + user
}

func (f *fakeKeyring) Get(service, user string) (string, error) {
	f.gets.Add(1)
	time.Sleep(f.delay)
	if f.err != nil {
		return "", f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.secrets[f.key(service, user)], nil
}

func (f *fakeKeyring) Set(service, user, password string) error {
	time.Sleep(f.delay)
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.secrets[f.key(service, user)] = password
	return nil
}

func (f *fakeKeyring) Delete(service, user string) error {
	time.Sleep(f.delay)
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.secrets, f.key(service, user))
	return nil
}

// hangingKeyring blocks until the test finishes.
type hangingKeyring struct {
	release chan struct{}
}

func (h *hangingKeyring) Get(_, _ string) (string, error) {
	<-h.release
	return "too-late", nil
}

func (h *hangingKeyring) Set(_, _, _ string) error {
	<-h.release
	return nil
}

func (h *hangingKeyring) Delete(_, _ string) error {
	<-h.release
	return nil
}

func TestStore_LoadSaveDelete(t *testing.T) {
	ring := newFakeKeyring()
	store := New(WithKeyring(ring))

	service, err := store.Save("my-service", "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, "my-service", service)

	password, err := store.Load("my-service", "alice")
	require.NoError(t, err)
	assert.Equal(t, "pw", password)

	removed, err := store.Delete("my-service", "alice")
	require.NoError(t, err)
	assert.True(t, removed)

	password, err = store.Load("my-service", "alice")
	require.NoError(t, err)
	assert.Empty(t, password)
}

func TestStore_Save_GeneratesServiceID(t *testing.T) {
	store := New(WithKeyring(newFakeKeyring()))

	service, err := store.Save("", "alice", "pw")
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(service, "service password "))
	id := strings.TrimPrefix(service, "service password ")
	assert.Len(t, id, 12)

	other, err := store.Save("", "alice", "pw")
	require.NoError(t, err)
	assert.NotEqual(t, service, other)
}

func TestStore_Load_Timeout(t *testing.T) {
	ring := &hangingKeyring{release: make(chan struct{})}
	defer close(ring.release)

	store := New(WithKeyring(ring), WithTimeout(50*time.Millisecond))

	start := time.Now()
	password, err := store.Load("svc", "alice")

	require.NoError(t, err)
	assert.Empty(t, password)
	assert.Less(t, time.Since(start), 5*time.Second, "load must not hang")
}

func TestStore_SaveDelete_Timeout(t *testing.T) {
	ring := &hangingKeyring{release: make(chan struct{})}
	defer close(ring.release)

	store := New(WithKeyring(ring), WithTimeout(50*time.Millisecond))

	service, err := store.Save("svc", "alice", "pw")
	require.NoError(t, err)
	assert.Empty(t, service)

	removed, err := store.Delete("svc", "alice")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestStore_StoreError(t *testing.T) {
	ring := newFakeKeyring()
	ring.err = errors.New("keychain locked")
	store := New(WithKeyring(ring))

	_, err := store.Load("svc", "alice")
	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "load", storeErr.Op)
	assert.ErrorContains(t, err, "keychain locked")

	_, err = store.Save("svc", "alice", "pw")
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "save", storeErr.Op)

	_, err = store.Delete("svc", "alice")
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "delete", storeErr.Op)
}

func TestStore_Load_Coalesces(t *testing.T) {
	ring := newFakeKeyring()
	ring.secrets["svc/alice"] = "pw"
	ring.delay = 50 * time.Millisecond
	store := New(WithKeyring(ring))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			password, err := store.Load("svc", "alice")
			assert.NoError(t, err)
			assert.Equal(t, "pw", password)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), ring.gets.Load(), "concurrent loads should coalesce")
}
