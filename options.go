package ezstorage

import "time"

// Options controls a single Get, Set or Remove call. Per-call CallOptions are
// applied on top of the Storage settings.
type Options struct {
	// Expires requests an expiry; see At, InDays and On.
	Expires Expiry
	// Persist writes to the durable tier even without an expiry.
	Persist bool
	// Path scopes cookies.
	Path string
	// Full makes Get return the whole Envelope instead of its value.
	Full bool
	// Marker is written into envelopes so Get recognizes them.
	Marker bool
}

// DefaultSettings returns the settings a new Storage starts with.
func DefaultSettings() Options {
	return Options{Marker: true, Path: "/"}
}

func (o Options) hasExpiry() bool { return !o.Expires.IsZero() }

// CallOption adjusts the Options of one call.
type CallOption func(*Options)

// ExpiresAt expires the value at t.
func ExpiresAt(t time.Time) CallOption {
	return func(o *Options) { o.Expires = At(t) }
}

// ExpiresInDays expires the value n days from now. Negative values produce an
// entry that is already expired.
func ExpiresInDays(n float64) CallOption {
	return func(o *Options) { o.Expires = InDays(n) }
}

// ExpiresOn expires the value at a date given as text. Text without a zone is
// read as UTC. Text that cannot be parsed is ignored and the value does not
// expire.
func ExpiresOn(text string) CallOption {
	return func(o *Options) { o.Expires = On(text) }
}

// WithExpiry sets a prepared Expiry.
func WithExpiry(e Expiry) CallOption {
	return func(o *Options) { o.Expires = e }
}

// Persistent stores the value in the durable tier without an expiry.
func Persistent() CallOption {
	return func(o *Options) { o.Persist = true }
}

// CookiePath scopes the cookie written or removed by the call.
func CookiePath(path string) CallOption {
	return func(o *Options) { o.Path = path }
}

// FullEnvelope makes Get return the stored Envelope.
func FullEnvelope() CallOption {
	return func(o *Options) { o.Full = true }
}

// WithOptions merges the set fields of opts over the call options. Zero
// fields keep their current value, so Marker cannot be cleared here; use
// UseSettings for that.
func WithOptions(opts Options) CallOption {
	return func(o *Options) {
		if !opts.Expires.IsZero() {
			o.Expires = opts.Expires
		}
		if opts.Persist {
			o.Persist = true
		}
		if opts.Path != "" {
			o.Path = opts.Path
		}
		if opts.Full {
			o.Full = true
		}
		if opts.Marker {
			o.Marker = true
		}
	}
}
