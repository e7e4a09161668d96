// Package ezstorage provides a single key-value facade over durable, session
// and cookie storage with uniform expiration semantics.
//
// # Overview
//
// A Storage picks a backend on every call. When both a durable and a session
// Driver are configured and available, values with an expiry (or written with
// Persistent) go to the durable driver wrapped in an Envelope; everything
// else goes to the session driver. Without driver storage, values are handed
// to the CookieJar, which enforces expiry and path itself.
//
// # Quick Start
//
//	store := ezstorage.New()
//	ctx := context.Background()
//
//	store.Set(ctx, "theme", "dark")                                  // session
//	store.Set(ctx, "token", "abc", ezstorage.ExpiresInDays(7))       // durable, enveloped
//	v, err := store.Get(ctx, "token")                                // "abc"
//
//	prefs, err := ezstorage.GetAs[Prefs](ctx, store, "prefs")
//
// # Envelopes
//
// Durable entries are stored as
//
//	{"value": ..., "expires": "2024-01-02T15:04:05.000Z", "ezstorage": true, ...}
//
// The ezstorage marker lets Get tell managed entries from arbitrary text that
// was already stored under the same key; unmanaged entries are returned as-is.
// Expiry is enforced lazily: an expired envelope is deleted the next time it
// is read and is otherwise left in place.
//
// Day counts are exact 24h days. Expiry date text without a zone, such as
// "2031-05-06", is read as UTC rather than in the host's local zone.
//
// # Backends
//
// Memory and SQLite implement Driver. MemoryCookieJar and HTTPCookieJar
// implement CookieJar. Custom drivers may implement Availability to report
// that they are temporarily unusable.
//
// # Error Handling
//
//	_, err := store.Get(ctx, "missing")
//	if errors.Is(err, ezstorage.ErrNotFound) {
//	    // absent or expired
//	}
//
// Malformed stored text and malformed expiry input never fail a call.
// Driver and cookie jar failures are returned wrapped.
package ezstorage
