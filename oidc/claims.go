package oidc

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Claims is a read-only view over a verified token's claim set
type Claims struct {
	values map[string]interface{}
}

// NewClaims wraps a decoded claim map. The map is copied.
func NewClaims(values map[string]interface{}) Claims {
	copied := make(map[string]interface{}, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return Claims{values: copied}
}

// Get returns the raw value of a claim
func (c Claims) Get(name string) (interface{}, bool) {
	v, ok := c.values[name]
	return v, ok
}

// String returns a claim that holds a JSON string
func (c Claims) String(name string) (string, bool) {
	s, ok := c.values[name].(string)
	return s, ok
}

// Text returns a scalar claim rendered as a string; nulls and containers are absent
func (c Claims) Text(name string) (string, bool) {
	v, ok := c.values[name]
	if !ok || v == nil {
		return "", false
	}
	return scalarString(v)
}

// Object returns a claim that holds a JSON object
func (c Claims) Object(name string) (Claims, bool) {
	m, ok := c.values[name].(map[string]interface{})
	if !ok {
		return Claims{}, false
	}
	return Claims{values: m}, true
}

// List returns a claim that holds a JSON array
func (c Claims) List(name string) ([]interface{}, bool) {
	l, ok := c.values[name].([]interface{})
	return l, ok
}

// Audience returns the aud claim as a list; a single string becomes one element
func (c Claims) Audience() []string {
	switch aud := c.values["aud"].(type) {
	case string:
		return []string{aud}
	case []interface{}:
		out := make([]string, 0, len(aud))
		for _, a := range aud {
			if s, ok := scalarString(a); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return append([]string(nil), aud...)
	default:
		return nil
	}
}

// Map returns a shallow copy of the underlying claims
func (c Claims) Map() map[string]interface{} {
	copied := make(map[string]interface{}, len(c.values))
	for k, v := range c.values {
		copied[k] = v
	}
	return copied
}

// Len returns the number of claims
func (c Claims) Len() int {
	return len(c.values)
}

// MarshalJSON renders the raw claims
func (c Claims) MarshalJSON() ([]byte, error) {
	if c.values == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(c.values)
}

// scalarString coerces JSON strings and numbers to strings
func scalarString(v interface{}) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case json.Number:
		return val.String(), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case bool:
		return fmt.Sprint(val), true
	default:
		return "", false
	}
}
