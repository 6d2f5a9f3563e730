package jobsettings

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jepaynedev/mailprep/internal/logging"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Customer", "customer"},
		{"  Use   Custom\tCampus ", "use custom campus"},
		{"STRASSE", "strasse"},
		{"Straße", "strasse"},
		{"\ufb01le", "file"},
		{"Caf\u00e9", "cafe\u0301"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeKey(tt.input))
		})
	}
}

func TestInsensitiveMap(t *testing.T) {
	m := NewInsensitiveMap()
	m.Set("Customer", "Acme")

	value, ok := m.Get(" CUSTOMER ")
	assert.True(t, ok)
	assert.Equal(t, "Acme", value)
	assert.True(t, m.Has("customer"))
	assert.Equal(t, []string{"customer"}, m.Keys())

	m.Set("customer", "Other")
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, "Other", m.GetOr("Customer", nil))

	m.Delete("CUSTOMER")
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, "fallback", m.GetOr("customer", "fallback"))
}

func TestInsensitiveMapWrapsNestedMaps(t *testing.T) {
	m := FromMap(map[string]any{
		"Properties": map[string]any{"Customer": "Acme"},
	})

	value, ok := m.Get("properties")
	require.True(t, ok)
	nested, ok := value.(*InsensitiveMap)
	require.True(t, ok)
	assert.Equal(t, "Acme", nested.GetOr("CUSTOMER", nil))
}

func TestInsensitiveMapSetDefault(t *testing.T) {
	m := NewInsensitiveMap()

	assert.Equal(t, 1, m.SetDefault("A", 1))
	assert.Equal(t, 1, m.SetDefault("a", 2))
}

func TestInsensitiveMapJSON(t *testing.T) {
	m := NewInsensitiveMap()
	require.NoError(t, json.Unmarshal([]byte(`{"B": 1, "Nested": {"Key": true}}`), m))

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"b": 1, "nested": {"key": true}}`, string(data))
}

func TestRecursiveMerge(t *testing.T) {
	dst := FromMap(map[string]any{
		"properties": map[string]any{"Customer": "Acme", "Department": "Admissions"},
		"version":    float64(1),
		"scalar":     "replace me",
	})
	src := FromMap(map[string]any{
		"PROPERTIES": map[string]any{"customer": "Globex"},
		"version":    float64(2),
		"scalar":     map[string]any{"now": "a map"},
	})

	RecursiveMerge(dst, src)

	assert.Equal(t, map[string]any{
		"properties": map[string]any{"customer": "Globex", "department": "Admissions"},
		"version":    float64(2),
		"scalar":     map[string]any{"now": "a map"},
	}, dst.ToMap())
}

func TestRecursiveMergeDoesNotAliasSource(t *testing.T) {
	dst := NewInsensitiveMap()
	src := FromMap(map[string]any{"nested": map[string]any{"a": "1"}})

	RecursiveMerge(dst, src)
	nested, _ := src.Get("nested")
	nested.(*InsensitiveMap).Set("a", "changed")

	assert.Equal(t, map[string]any{"nested": map[string]any{"a": "1"}}, dst.ToMap())
}

func TestLoad(t *testing.T) {
	settings, err := Load(strings.NewReader(`{"Properties": {"Customer": "Acme", "Use Custom Campus": true}}`), logging.Nop())
	require.NoError(t, err)

	assert.Equal(t, "Acme", settings.Property("customer", nil))
	assert.Equal(t, true, settings.Property("use custom campus", false))
	assert.Nil(t, settings.Property("Department", nil))

	_, ok := settings.Get("PROPERTIES")
	assert.True(t, ok)
}

func TestLoadInvalidJSONIsEmpty(t *testing.T) {
	for _, content := range []string{"", "not json", "[1, 2]", "null"} {
		t.Run(content, func(t *testing.T) {
			settings, err := Load(strings.NewReader(content), logging.Nop())
			require.NoError(t, err)
			assert.Empty(t, settings.ToMap())
		})
	}
}

func TestSetProperty(t *testing.T) {
	settings := New(logging.Nop())

	assert.True(t, settings.SetProperty("Customer", "Acme"))
	assert.False(t, settings.SetProperty("CUSTOMER", "Acme"))
	assert.True(t, settings.SetProperty("customer", "Globex"))
	assert.True(t, settings.SetProperty("Department", nil))
	assert.False(t, settings.SetProperty("Department", nil))

	assert.Equal(t, "Globex", settings.Property("Customer", nil))
}

func TestSetPropertyReplacesNonMapProperties(t *testing.T) {
	settings := New(logging.Nop()).Initialize(map[string]any{"properties": "broken"})

	assert.Equal(t, "default", settings.Property("Customer", "default"))
	assert.True(t, settings.SetProperty("Customer", "Acme"))
	assert.Equal(t, "Acme", settings.Property("Customer", nil))
}

func TestSaveRoundTrip(t *testing.T) {
	settings := New(logging.Nop())
	settings.SetProperty("Customer", "Acme")
	settings.SetProperty("Use Custom Campus", true)

	var buf bytes.Buffer
	require.NoError(t, settings.Save(&buf))
	assert.True(t, strings.HasSuffix(buf.String(), "}\n"))

	loaded, err := Load(&buf, logging.Nop())
	require.NoError(t, err)
	assert.Equal(t, settings.ToMap(), loaded.ToMap())
}

func TestLookupProperty(t *testing.T) {
	property, ok := LookupProperty("use  custom campus")
	require.True(t, ok)
	assert.Equal(t, "Use Custom Campus", property.Name)
	assert.Equal(t, KindBool, property.Kind)
	assert.Equal(t, GroupMergeSettings, property.Group)

	_, ok = LookupProperty("Unknown")
	assert.False(t, ok)
}

func TestPropertyKinds(t *testing.T) {
	assert.Equal(t, "str", KindStr.String())
	assert.Equal(t, "bool", KindBool.String())
	assert.Equal(t, "PropertyKind(3)", PropertyKind(3).String())

	for _, property := range JobProperties {
		assert.Contains(t, []PropertyKind{KindStr, KindBool}, property.Kind, property.Name)
	}
}

func TestParseValue(t *testing.T) {
	boolProperty, _ := LookupProperty("Use Custom Campus")
	value, err := boolProperty.ParseValue("true")
	require.NoError(t, err)
	assert.Equal(t, true, value)

	_, err = boolProperty.ParseValue("maybe")
	assert.Error(t, err)

	strProperty, _ := LookupProperty("Customer")
	value, err = strProperty.ParseValue("Acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme", value)

	value, err = strProperty.ParseValue("")
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestResolve(t *testing.T) {
	settings := New(logging.Nop())
	settings.SetProperty("customer", "Acme")

	values := Resolve(settings)

	require.Len(t, values, len(JobProperties))
	assert.Equal(t, "Acme", values[0].Value)
	assert.Nil(t, values[1].Value)
	assert.Equal(t, false, values[2].Value)
	assert.Nil(t, values[3].Value)
}

func TestEquivalent(t *testing.T) {
	assert.True(t, Equivalent(nil, ""))
	assert.True(t, Equivalent("", nil))
	assert.True(t, Equivalent(nil, nil))
	assert.True(t, Equivalent("a", "a"))
	assert.True(t, Equivalent(false, false))
	assert.False(t, Equivalent(nil, false))
	assert.False(t, Equivalent("a", "b"))
	assert.False(t, Equivalent("", " "))
}

func TestJobCommit(t *testing.T) {
	settings := New(logging.Nop())
	settings.SetProperty("Customer", "Acme")
	job := NewJob(settings)

	assert.False(t, job.IsChanged())

	changed, err := job.SetValue("customer", "Globex")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = job.SetValue("Department", "")
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = job.SetValue("Unknown", "x")
	assert.Error(t, err)

	assert.True(t, job.IsChanged())
	assert.Equal(t, []string{"Customer"}, job.Commit())
	assert.False(t, job.IsChanged())
	assert.Equal(t, "Globex", settings.Property("Customer", nil))

	value, err := job.Value("CUSTOMER")
	require.NoError(t, err)
	assert.Equal(t, "Globex", value)
}
