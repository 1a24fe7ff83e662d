package core

import "log/slog"

// Secret holds a credential that must never reach logs or serialized output.
// fmt, encoding/json, encoding (text) and log/slog all see "[REDACTED]".
// Use Expose to read the value when building request headers.
type Secret struct {
	value string
}

const redacted = "[REDACTED]"

// NewSecret wraps value.
func NewSecret(value string) Secret {
	return Secret{value: value}
}

func (s Secret) String() string { return redacted }

func (s Secret) GoString() string { return "core.Secret{" + redacted + "}" }

// LogValue implements slog.LogValuer.
func (s Secret) LogValue() slog.Value { return slog.StringValue(redacted) }

func (s Secret) MarshalJSON() ([]byte, error) { return []byte(`"` + redacted + `"`), nil }

func (s Secret) MarshalText() ([]byte, error) { return []byte(redacted), nil }

// Expose returns the wrapped value.
func (s Secret) Expose() string {
	return s.value
}

// IsEmpty reports whether no value is set.
func (s Secret) IsEmpty() bool {
	return s.value == ""
}
