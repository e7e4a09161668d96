package ezstorage

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Option customizes a Storage.
type Option func(*Storage)

// WithDurable sets the durable tier. The default is a fresh Memory.
func WithDurable(d Driver) Option {
	return func(s *Storage) {
		if d != nil {
			s.durable = d
		}
	}
}

// WithSession sets the session tier. The default is a fresh Memory.
func WithSession(d Driver) Option {
	return func(s *Storage) {
		if d != nil {
			s.session = d
		}
	}
}

// WithoutStorage removes both driver tiers, leaving only the cookie jar.
func WithoutStorage() Option {
	return func(s *Storage) {
		s.durable = nil
		s.session = nil
	}
}

// WithCookies sets the cookie tier. There is no default cookie jar.
func WithCookies(j CookieJar) Option {
	return func(s *Storage) {
		s.cookies = j
	}
}

// WithCodec sets the value codec. The default is JSON.
func WithCodec(c Codec) Option {
	return func(s *Storage) {
		if c != nil {
			s.codec = c
		}
	}
}

// WithLogger specifies a logger for operation logging.
// If not provided, a no-op logger is used (no logging).
func WithLogger(logger Logger) Option {
	return func(s *Storage) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLogTag sets a tag prefix for all log messages.
func WithLogTag(tag string) Option {
	return func(s *Storage) {
		s.logTag = tag
	}
}

// WithTracer sets the tracer used for operation spans. The default comes from
// the global OpenTelemetry provider.
func WithTracer(t trace.Tracer) Option {
	return func(s *Storage) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithSettings replaces the initial settings.
func WithSettings(o Options) Option {
	return func(s *Storage) {
		s.settings.Store(&o)
	}
}

// WithClock overrides the time source used for expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Storage) {
		if now != nil {
			s.now = now
		}
	}
}

// Storage is the key-value facade. It is safe for concurrent use as long as
// its drivers and cookie jar are.
type Storage struct {
	durable  Driver
	session  Driver
	cookies  CookieJar
	codec    Codec
	logger   Logger
	logTag   string
	tracer   trace.Tracer
	now      func() time.Time
	settings atomic.Pointer[Options]
}

// New creates a Storage. Without options both driver tiers are in-memory and
// there is no cookie jar.
func New(opts ...Option) *Storage {
	s := &Storage{
		durable: NewMemory(),
		session: NewMemory(),
		codec:   JSON{},
		logger:  defaultLogger,
		tracer:  otel.Tracer(tracerName),
		now:     time.Now,
	}
	defaults := DefaultSettings()
	s.settings.Store(&defaults)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Settings returns the options every call starts from.
func (s *Storage) Settings() Options {
	return *s.settings.Load()
}

// UseSettings replaces the options every call starts from.
func (s *Storage) UseSettings(o Options) {
	s.settings.Store(&o)
}

// ResetSettings restores DefaultSettings.
func (s *Storage) ResetSettings() {
	defaults := DefaultSettings()
	s.settings.Store(&defaults)
}

func (s *Storage) logf(level string, ctx context.Context, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if s.logTag != "" {
		msg = s.logTag + " " + msg
	}
	switch level {
	case "info":
		s.logger.Info(ctx, "%s", msg)
	case "warn":
		s.logger.Warn(ctx, "%s", msg)
	case "error":
		s.logger.Error(ctx, "%s", msg)
	case "debug":
		s.logger.Debug(ctx, "%s", msg)
	}
}

// storageAvailable reports whether both driver tiers can be used right now.
func (s *Storage) storageAvailable(ctx context.Context) bool {
	return available(ctx, s.durable) && available(ctx, s.session)
}

// options merges the settings with opts and resolves the expiry. Expiry
// input that cannot be resolved is dropped.
func (s *Storage) options(ctx context.Context, opts []CallOption) Options {
	o := s.Settings()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	resolved, err := o.Expires.resolve(s.now())
	if err != nil {
		s.logf("debug", ctx, "dropping expiry: %v", err)
		resolved = Expiry{}
	}
	o.Expires = resolved
	return o
}

// Enabled reports whether any storage medium works. Without driver storage
// it writes, reads back and removes a probe cookie.
func (s *Storage) Enabled(ctx context.Context) bool {
	ctx, span := s.startSpan(ctx, "Enabled", "")
	defer span.End()

	if s.storageAvailable(ctx) {
		endSpan(span, BackendDurable, nil)
		return true
	}
	if s.cookies == nil {
		endSpan(span, BackendNone, nil)
		return false
	}

	probe := CookieOptions{Path: "/"}
	if err := s.cookies.Set(ctx, probeCookie, probeCookieValue, probe); err != nil {
		s.logf("debug", ctx, "cookie probe write failed: %v", err)
		endSpan(span, BackendCookie, nil)
		return false
	}
	v, err := s.cookies.Get(ctx, probeCookie)
	if err != nil || v == "" {
		endSpan(span, BackendCookie, nil)
		return false
	}
	if err := s.cookies.Remove(ctx, probeCookie, probe); err != nil {
		s.logf("warn", ctx, "cookie probe cleanup failed: %v", err)
	}
	endSpan(span, BackendCookie, nil)
	return true
}

// Set serializes value and stores it, returning the serialized text.
func (s *Storage) Set(ctx context.Context, key string, value any, opts ...CallOption) (string, error) {
	ctx, span := s.startSpan(ctx, "Set", key)
	defer span.End()

	o := s.options(ctx, opts)
	data, err := s.codec.Marshal(value)
	if err != nil {
		err = fmt.Errorf("ezstorage: encode %s: %w", key, err)
		endSpan(span, BackendNone, err)
		return "", err
	}
	text := string(data)

	backend := writeBackend(s.storageAvailable(ctx), s.cookies != nil, o)
	switch backend {
	case BackendDurable:
		envData, encErr := s.codec.Marshal(newEnvelope(value, o))
		if encErr != nil {
			err = fmt.Errorf("ezstorage: encode %s: %w", key, encErr)
			endSpan(span, backend, err)
			return "", err
		}
		err = s.durable.Set(ctx, key, string(envData))
	case BackendSession:
		err = s.session.Set(ctx, key, text)
	case BackendCookie:
		expires, _ := o.Expires.Time()
		err = s.cookies.Set(ctx, key, text, CookieOptions{Expires: expires, Path: o.Path})
	default:
		err = ErrNoBackend
	}
	if err != nil {
		s.logf("error", ctx, "Set %s (%s) failed: %v", key, backend, err)
		if !errors.Is(err, ErrNoBackend) {
			err = fmt.Errorf("ezstorage: set %s: %w", key, err)
		}
		endSpan(span, backend, err)
		return "", err
	}
	endSpan(span, backend, nil)
	return text, nil
}

// Get returns the value stored under key: the decoded value, the raw text if
// it cannot be decoded, or the Envelope with FullEnvelope. It returns
// ErrNotFound when the key is absent or its envelope has expired.
func (s *Storage) Get(ctx context.Context, key string, opts ...CallOption) (any, error) {
	ctx, span := s.startSpan(ctx, "Get", key)
	defer span.End()

	o := s.options(ctx, opts)
	v, backend, err := s.get(ctx, key, o)
	if errors.Is(err, ErrNotFound) {
		endSpan(span, backend, nil)
	} else {
		endSpan(span, backend, err)
	}
	return v, err
}

func (s *Storage) get(ctx context.Context, key string, o Options) (any, Backend, error) {
	if s.storageAvailable(ctx) {
		raw, err := s.read(ctx, s.durable, key)
		if err != nil {
			return nil, BackendDurable, err
		}
		if raw != "" {
			v, err := s.unwrap(ctx, key, raw, o)
			return v, BackendDurable, err
		}

		raw, err = s.read(ctx, s.session, key)
		if err != nil {
			return nil, BackendSession, err
		}
		if raw != "" {
			return s.decode(ctx, key, raw), BackendSession, nil
		}
	}

	if s.cookies == nil {
		return nil, BackendNone, ErrNotFound
	}
	raw, err := s.cookies.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil, BackendCookie, ErrNotFound
	}
	if err != nil {
		s.logf("error", ctx, "Get %s (cookie) failed: %v", key, err)
		return nil, BackendCookie, fmt.Errorf("ezstorage: get %s: %w", key, err)
	}
	if raw == "" {
		return nil, BackendCookie, ErrNotFound
	}
	return s.decode(ctx, key, raw), BackendCookie, nil
}

// read returns "" for absent keys.
func (s *Storage) read(ctx context.Context, d Driver, key string) (string, error) {
	raw, err := d.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		s.logf("error", ctx, "Get %s failed: %v", key, err)
		return "", fmt.Errorf("ezstorage: get %s: %w", key, err)
	}
	return raw, nil
}

// decode returns the decoded value, or raw itself when it is not decodable.
func (s *Storage) decode(ctx context.Context, key, raw string) any {
	var v any
	if err := s.codec.Unmarshal([]byte(raw), &v); err != nil {
		s.logf("debug", ctx, "Get %s: returning undecodable entry verbatim: %v", key, err)
		return raw
	}
	return v
}

// unwrap interprets a durable entry, evicting it if its envelope expired.
func (s *Storage) unwrap(ctx context.Context, key, raw string, o Options) (any, error) {
	decoded := s.decode(ctx, key, raw)
	if !isManaged(decoded) {
		return decoded, nil
	}

	var env Envelope
	if err := s.codec.Unmarshal([]byte(raw), &env); err != nil {
		s.logf("debug", ctx, "Get %s: unreadable envelope, returning as-is: %v", key, err)
		return decoded, nil
	}
	if env.Expired(s.now()) {
		s.logf("debug", ctx, "Get %s: expired at %s, evicting", key, env.Expires.UTC().Format(isoMillis))
		if err := s.durable.Delete(ctx, key); err != nil {
			s.logf("error", ctx, "Delete %s failed: %v", key, err)
			return nil, fmt.Errorf("ezstorage: evict %s: %w", key, err)
		}
		return nil, ErrNotFound
	}
	if o.Full {
		return env, nil
	}
	return env.Value, nil
}

// Remove deletes key from every tier. It reports true once all deletions
// have been attempted without error; missing keys are not an error.
func (s *Storage) Remove(ctx context.Context, key string, opts ...CallOption) (bool, error) {
	ctx, span := s.startSpan(ctx, "Remove", key)
	defer span.End()

	o := s.options(ctx, opts)
	var errs []error
	if s.storageAvailable(ctx) {
		if err := s.durable.Delete(ctx, key); err != nil {
			errs = append(errs, err)
		}
		if err := s.session.Delete(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	if s.cookies != nil {
		if err := s.cookies.Remove(ctx, key, CookieOptions{Path: o.Path}); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		s.logf("error", ctx, "Remove %s failed: %v", key, err)
		err = fmt.Errorf("ezstorage: remove %s: %w", key, err)
		endSpan(span, BackendNone, err)
		return false, err
	}
	endSpan(span, BackendNone, nil)
	return true, nil
}

// GetAs is Get decoding into T. With FullEnvelope, T should be Envelope.
func GetAs[T any](ctx context.Context, s *Storage, key string, opts ...CallOption) (T, error) {
	var zero T
	v, err := s.Get(ctx, key, opts...)
	if err != nil {
		return zero, err
	}
	if typed, ok := v.(T); ok {
		return typed, nil
	}
	data, err := s.codec.Marshal(v)
	if err != nil {
		return zero, fmt.Errorf("ezstorage: encode %s: %w", key, err)
	}
	var out T
	if err := s.codec.Unmarshal(data, &out); err != nil {
		return zero, fmt.Errorf("ezstorage: decode %s: %w", key, err)
	}
	return out, nil
}
