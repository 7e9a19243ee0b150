// Package tableconfig persists per-table customization, keyed by a table
// key, in a single JSON catalog file. Lookups fall through an ordered chain
// of layers ending in hard-coded defaults; writes always land on the leaf
// layer and are persisted immediately.
package tableconfig

import (
	"encoding/json"
	"errors"
	"fmt"
)

// WebModule identifies a table through the web module claiming it, when no
// stable opaque identifier exists.
type WebModule struct {
	Name string `json:"name"`
	Rule string `json:"rule"`
}

// Key identifies the config of one logical table. Exactly one of the fields
// is set: an opaque string identifier, a column-header fingerprint, or a web
// module discriminator. Two keys are equal iff their JSON forms are equal.
type Key struct {
	ID            string
	ColumnHeaders []string
	WebModule     *WebModule
}

// KeyFor returns an opaque string key.
func KeyFor(id string) Key { return Key{ID: id} }

// KeyForColumnHeaders returns a key fingerprinted by the table's column
// header texts.
func KeyForColumnHeaders(headers []string) Key {
	return Key{ColumnHeaders: append([]string(nil), headers...)}
}

// ParseKey reads a key back from its display form: either the canonical
// JSON of a structured key, or a bare opaque identifier.
func ParseKey(s string) (Key, error) {
	if s == "" {
		return Key{}, errors.New("parse table key: empty string")
	}
	if s[0] == '{' || s[0] == '"' {
		var k Key
		if err := json.Unmarshal([]byte(s), &k); err != nil {
			return Key{}, err
		}
		return k, nil
	}
	return KeyFor(s), nil
}

// IsZero reports whether the key identifies nothing.
func (k Key) IsZero() bool {
	return k.ID == "" && k.ColumnHeaders == nil && k.WebModule == nil
}

// String returns the canonical JSON form of the key.
func (k Key) String() string {
	b, err := k.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(b)
}

// Equal reports whether both keys normalize to the same JSON structure.
func (k Key) Equal(other Key) bool {
	return k.String() == other.String()
}

type structuredKey struct {
	ColumnHeaders []string   `json:"columnHeaders,omitempty"`
	WebModule     *WebModule `json:"webModule,omitempty"`
}

func (k Key) MarshalJSON() ([]byte, error) {
	switch {
	case k.ID != "":
		return json.Marshal(k.ID)
	case k.ColumnHeaders != nil || k.WebModule != nil:
		return json.Marshal(structuredKey{ColumnHeaders: k.ColumnHeaders, WebModule: k.WebModule})
	default:
		return nil, errors.New("marshal table key: empty key")
	}
}

func (k *Key) UnmarshalJSON(b []byte) error {
	var id string
	if err := json.Unmarshal(b, &id); err == nil {
		if id == "" {
			return errors.New("parse table key: empty string")
		}
		*k = Key{ID: id}
		return nil
	}
	var sk structuredKey
	if err := json.Unmarshal(b, &sk); err != nil {
		return fmt.Errorf("parse table key: %w", err)
	}
	if sk.ColumnHeaders == nil && sk.WebModule == nil {
		return errors.New("parse table key: unknown structure")
	}
	*k = Key{ColumnHeaders: sk.ColumnHeaders, WebModule: sk.WebModule}
	return nil
}
