// =============================================================================
// MailPrep - Merge Mapping
// =============================================================================
//
// A Mapping is the per-file result of classifying spreadsheet headers: an
// ordered set of output field names, each paired with a merge expression
// such as "{City} {State} {Zip}".
//
// Order matters. It is the order the fields are written to the mapping file:
// canonical fields in rule order first, then pass-through headers in the
// order they appeared in the source file.
//
// =============================================================================

package merge

// Pair is a single field name and its merge expression.
type Pair struct {
	Field      string
	Expression string
}

// Mapping is an insertion-ordered field name -> merge expression map.
// The zero value is an empty mapping ready to use.
type Mapping struct {
	keys   []string
	values map[string]string
}

// NewMapping creates a mapping holding the given pairs in order.
func NewMapping(pairs ...Pair) *Mapping {
	m := &Mapping{}
	for _, p := range pairs {
		m.Set(p.Field, p.Expression)
	}
	return m
}

// Set stores the expression for a field. A field that is already present
// keeps its position and has its expression replaced.
func (m *Mapping) Set(field, expression string) {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, exists := m.values[field]; !exists {
		m.keys = append(m.keys, field)
	}
	m.values[field] = expression
}

// Get returns the expression for a field.
func (m *Mapping) Get(field string) (string, bool) {
	expression, ok := m.values[field]
	return expression, ok
}

// Keys returns the field names in insertion order.
func (m *Mapping) Keys() []string {
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Pairs returns the mapping contents in insertion order.
func (m *Mapping) Pairs() []Pair {
	pairs := make([]Pair, 0, len(m.keys))
	for _, key := range m.keys {
		pairs = append(pairs, Pair{Field: key, Expression: m.values[key]})
	}
	return pairs
}

// Len returns the number of fields.
func (m *Mapping) Len() int {
	return len(m.keys)
}

// Clone returns an independent copy.
func (m *Mapping) Clone() *Mapping {
	return NewMapping(m.Pairs()...)
}
