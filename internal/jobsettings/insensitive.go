// =============================================================================
// MailPrep - Case-Insensitive Settings Map
// =============================================================================
//
// Job files are edited by hand, so "Customer", "customer" and " CUSTOMER "
// must all address the same setting. InsensitiveMap stores every key in its
// normalized form:
//
//   1. Unicode case folding
//   2. NFKD normalization
//   3. Leading and trailing whitespace removed
//   4. Internal whitespace runs collapsed to a single space
//
// Nested JSON objects are stored as *InsensitiveMap so the same rules apply
// at every depth.
//
// =============================================================================

package jobsettings

import (
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeKey returns the stored form of key.
func NormalizeKey(key string) string {
	folded := cases.Fold().String(key)
	return strings.Join(strings.Fields(norm.NFKD.String(folded)), " ")
}

// InsensitiveMap is a string-keyed map with normalized keys.
// The zero value is not usable; use NewInsensitiveMap.
type InsensitiveMap struct {
	store map[string]any
}

// NewInsensitiveMap creates an empty map.
func NewInsensitiveMap() *InsensitiveMap {
	return &InsensitiveMap{store: make(map[string]any)}
}

// FromMap copies m, normalizing keys at every depth. When two keys of m
// normalize to the same key, the one sorting last wins.
func FromMap(m map[string]any) *InsensitiveMap {
	result := NewInsensitiveMap()
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		result.Set(key, m[key])
	}
	return result
}

// Get returns the value stored under key.
func (m *InsensitiveMap) Get(key string) (any, bool) {
	value, ok := m.store[NormalizeKey(key)]
	return value, ok
}

// GetOr returns the value stored under key, or def when absent.
func (m *InsensitiveMap) GetOr(key string, def any) any {
	if value, ok := m.Get(key); ok {
		return value
	}
	return def
}

// Set stores value under key. A map[string]any value is converted to an
// *InsensitiveMap.
func (m *InsensitiveMap) Set(key string, value any) {
	m.store[NormalizeKey(key)] = wrap(value)
}

// SetDefault returns the value under key, storing def first when absent.
func (m *InsensitiveMap) SetDefault(key string, def any) any {
	normalized := NormalizeKey(key)
	if value, ok := m.store[normalized]; ok {
		return value
	}
	value := wrap(def)
	m.store[normalized] = value
	return value
}

// Delete removes key.
func (m *InsensitiveMap) Delete(key string) {
	delete(m.store, NormalizeKey(key))
}

// Has reports whether key is present.
func (m *InsensitiveMap) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Len returns the number of keys.
func (m *InsensitiveMap) Len() int {
	return len(m.store)
}

// Keys returns the normalized keys in sorted order.
func (m *InsensitiveMap) Keys() []string {
	keys := make([]string, 0, len(m.store))
	for key := range m.store {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy. Nested maps are copied; other values are shared.
func (m *InsensitiveMap) Clone() *InsensitiveMap {
	clone := NewInsensitiveMap()
	for key, value := range m.store {
		if nested, ok := value.(*InsensitiveMap); ok {
			value = nested.Clone()
		}
		clone.store[key] = value
	}
	return clone
}

// ToMap converts the map and every nested map to map[string]any.
func (m *InsensitiveMap) ToMap() map[string]any {
	result := make(map[string]any, len(m.store))
	for key, value := range m.store {
		if nested, ok := value.(*InsensitiveMap); ok {
			value = nested.ToMap()
		}
		result[key] = value
	}
	return result
}

// MarshalJSON encodes the map as a JSON object with sorted keys.
func (m *InsensitiveMap) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.store)
}

// UnmarshalJSON replaces the contents with a decoded JSON object.
func (m *InsensitiveMap) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = *FromMap(raw)
	return nil
}

func wrap(value any) any {
	if nested, ok := value.(map[string]any); ok {
		return FromMap(nested)
	}
	return value
}
