// Package secret resolves passwords through the operating system keychain.
//
// Every keychain operation runs in its own goroutine and is bounded by a
// timeout (one minute by default), because the OS secret store may block
// indefinitely on a locked keychain or a pending user prompt. A timed-out
// operation is abandoned, not cancelled: its late result is discarded.
//
// An empty result therefore means "not found or timed out" — it is
// deliberately ambiguous with a genuinely empty stored secret.
//
// # Quick Start
//
//	store := secret.New(
//	    secret.WithLogger(logger),
//	)
//
//	password, err := store.Load("my-service", "alice")
package secret
