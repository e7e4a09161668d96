package ezstorage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// HTTPCookieJar implements CookieJar over one HTTP exchange: reads come from
// the request, writes go to the response as Set-Cookie headers. Cookies
// written or removed during the exchange are visible to later reads on the
// same jar. Values are percent-encoded.
type HTTPCookieJar struct {
	w http.ResponseWriter
	r *http.Request

	mu      sync.Mutex
	pending map[string]*string
}

// NewHTTPCookieJar binds a jar to a request and its response writer.
func NewHTTPCookieJar(w http.ResponseWriter, r *http.Request) *HTTPCookieJar {
	return &HTTPCookieJar{w: w, r: r, pending: make(map[string]*string)}
}

func (j *HTTPCookieJar) Get(ctx context.Context, key string) (string, error) {
	j.mu.Lock()
	v, written := j.pending[key]
	j.mu.Unlock()
	if written {
		if v == nil {
			return "", ErrNotFound
		}
		return *v, nil
	}

	if j.r == nil {
		return "", ErrNotFound
	}
	cookie, err := j.r.Cookie(key)
	if err != nil || cookie == nil {
		return "", ErrNotFound
	}
	value, err := url.PathUnescape(cookie.Value)
	if err != nil {
		return cookie.Value, nil
	}
	return value, nil
}

func (j *HTTPCookieJar) Set(ctx context.Context, key, value string, opts CookieOptions) error {
	if j.w == nil {
		return fmt.Errorf("set cookie %s: no response writer", key)
	}
	http.SetCookie(j.w, &http.Cookie{
		Name:     key,
		Value:    url.PathEscape(value),
		Path:     cookiePath(opts.Path),
		Expires:  opts.Expires,
		Secure:   j.r != nil && j.r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	j.mu.Lock()
	defer j.mu.Unlock()
	if !opts.Expires.IsZero() && !opts.Expires.After(time.Now()) {
		j.pending[key] = nil
		return nil
	}
	j.pending[key] = &value
	return nil
}

func (j *HTTPCookieJar) Remove(ctx context.Context, key string, opts CookieOptions) error {
	if j.w == nil {
		return fmt.Errorf("remove cookie %s: no response writer", key)
	}
	http.SetCookie(j.w, &http.Cookie{
		Name:     key,
		Value:    "",
		Path:     cookiePath(opts.Path),
		Secure:   j.r != nil && j.r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	j.mu.Lock()
	defer j.mu.Unlock()
	j.pending[key] = nil
	return nil
}
