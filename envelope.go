package ezstorage

import "time"

// markerField names the flag that identifies managed entries.
const markerField = "ezstorage"

// Envelope is the durable representation of a value written with an expiry
// or Persistent. The call options travel with the value.
type Envelope struct {
	Value   any        `json:"value"`
	Expires *Timestamp `json:"expires,omitempty"`
	Marker  bool       `json:"ezstorage"`
	Persist bool       `json:"persist,omitempty"`
	Path    string     `json:"path,omitempty"`
	Full    bool       `json:"full,omitempty"`
}

func newEnvelope(value any, o Options) Envelope {
	env := Envelope{
		Value:   value,
		Marker:  o.Marker,
		Persist: o.Persist,
		Path:    o.Path,
		Full:    o.Full,
	}
	if t, ok := o.Expires.Time(); ok {
		env.Expires = &Timestamp{Time: t.UTC()}
	}
	return env
}

// Expired reports whether the envelope carries an expiry earlier than now.
func (e Envelope) Expired(now time.Time) bool {
	if e.Expires == nil || e.Expires.IsZero() {
		return false
	}
	return e.Expires.Before(now)
}

// isManaged reports whether a decoded value is an object carrying the marker.
func isManaged(decoded any) bool {
	m, ok := decoded.(map[string]any)
	if !ok {
		return false
	}
	marker, _ := m[markerField].(bool)
	return marker
}
