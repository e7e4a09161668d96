package ezstorage

import (
	"context"
	"sync"
	"time"
)

// probeCookie is written and removed by Storage.Enabled to detect whether
// cookies work.
const (
	probeCookie      = "ezstorage_cookies_enabled"
	probeCookieValue = "enabled"
)

// CookieOptions scope a cookie write or removal.
type CookieOptions struct {
	// Expires is zero for a session cookie.
	Expires time.Time
	Path    string
}

// CookieJar is the cookie tier. Get returns ErrNotFound for missing or
// expired cookies. The jar owns cookie encoding.
type CookieJar interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, opts CookieOptions) error
	Remove(ctx context.Context, key string, opts CookieOptions) error
}

type memoryCookie struct {
	value   string
	expires time.Time
	path    string
}

// MemoryCookieJar implements CookieJar in process. Cookies past their expiry
// are invisible. A disabled jar silently drops writes, like a client with
// cookies turned off.
type MemoryCookieJar struct {
	mu       sync.RWMutex
	cookies  map[string]memoryCookie
	disabled bool
	now      func() time.Time
}

// NewMemoryCookieJar creates an empty, enabled jar.
func NewMemoryCookieJar() *MemoryCookieJar {
	return &MemoryCookieJar{cookies: make(map[string]memoryCookie), now: time.Now}
}

// SetEnabled toggles whether writes are accepted.
func (j *MemoryCookieJar) SetEnabled(ok bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.disabled = !ok
}

func (j *MemoryCookieJar) Get(ctx context.Context, key string) (string, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	c, ok := j.cookies[key]
	if !ok {
		return "", ErrNotFound
	}
	if !c.expires.IsZero() && !c.expires.After(j.now()) {
		return "", ErrNotFound
	}
	return c.value, nil
}

func (j *MemoryCookieJar) Set(ctx context.Context, key, value string, opts CookieOptions) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.disabled {
		return nil
	}
	j.cookies[key] = memoryCookie{value: value, expires: opts.Expires, path: cookiePath(opts.Path)}
	return nil
}

// Remove deletes the cookie when its path matches.
func (j *MemoryCookieJar) Remove(ctx context.Context, key string, opts CookieOptions) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if c, ok := j.cookies[key]; ok && c.path == cookiePath(opts.Path) {
		delete(j.cookies, key)
	}
	return nil
}

// Path returns the path a stored cookie is scoped to.
func (j *MemoryCookieJar) Path(key string) (string, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	c, ok := j.cookies[key]
	return c.path, ok
}

func cookiePath(path string) string {
	if path == "" {
		return "/"
	}
	return path
}
