package merge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMappingSetKeepsPosition(t *testing.T) {
	m := NewMapping(Pair{"id", "{id}"}, Pair{"city", "{city}"})

	m.Set("id", "{ID1}:{ID2}")
	m.Set("zip", "{zip}")

	assert.Equal(t, []string{"id", "city", "zip"}, m.Keys())
	value, ok := m.Get("id")
	assert.True(t, ok)
	assert.Equal(t, "{ID1}:{ID2}", value)
}

func TestMappingZeroValue(t *testing.T) {
	var m Mapping

	_, ok := m.Get("id")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())

	m.Set("id", "{id}")
	assert.Equal(t, 1, m.Len())
}

func TestMappingClone(t *testing.T) {
	m := NewMapping(Pair{"id", "{id}"})
	clone := m.Clone()
	clone.Set("id", "{other}")

	value, _ := m.Get("id")
	assert.Equal(t, "{id}", value)
}

func TestStoreLookups(t *testing.T) {
	store := NewStore()
	store.SetFileMappings("a.xlsx", CreateMapDict([]string{"id", "zip"}))

	mapping, err := store.Mappings("a.xlsx")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "city"}, mapping.Keys())

	expression, err := store.Mapping("a.xlsx", "city")
	require.NoError(t, err)
	assert.Equal(t, "{zip}", expression)

	assert.True(t, store.HasFile("a.xlsx"))
	assert.False(t, store.HasFile("b.xlsx"))
}

func TestStoreLookupFailures(t *testing.T) {
	store := NewStore()
	store.SetFileMappings("a.xlsx", CreateMapDict([]string{"id"}))

	_, err := store.Mappings("missing.xlsx")
	assert.True(t, errors.Is(err, ErrFileNotFound))

	_, err = store.Mapping("missing.xlsx", "id")
	assert.True(t, errors.Is(err, ErrFileNotFound))

	_, err = store.Mapping("a.xlsx", "city")
	assert.True(t, errors.Is(err, ErrFieldNotFound))
	assert.Contains(t, err.Error(), `"city"`)
}

func TestStoreSetFileMappingsReplacesWholesale(t *testing.T) {
	store := NewStore()
	store.SetFileMappings("a.xlsx", CreateMapDict([]string{"id", "zip"}))
	store.SetFileMappings("b.xlsx", CreateMapDict([]string{"id"}))

	store.SetFileMappings("a.xlsx", CreateMapDict([]string{"title"}))

	assert.Equal(t, []string{"a.xlsx", "b.xlsx"}, store.Files())
	mapping, err := store.Mappings("a.xlsx")
	require.NoError(t, err)
	assert.Equal(t, []Pair{{"title", "{title}"}}, mapping.Pairs())
}

func TestStoreSetFileMappingsNil(t *testing.T) {
	store := NewStore()
	store.SetFileMappings("a.xlsx", nil)

	mapping, err := store.Mappings("a.xlsx")
	require.NoError(t, err)
	assert.Equal(t, 0, mapping.Len())
}

func TestStoreSetAllMappings(t *testing.T) {
	store := NewStore()
	store.SetFileMappings("old.xlsx", CreateMapDict([]string{"id"}))

	store.SetAllMappings([]FileMapping{
		{File: "b.xlsx", Mapping: CreateMapDict([]string{"zip"})},
		{File: "a.xlsx", Mapping: CreateMapDict([]string{"id"})},
	})

	assert.Equal(t, []string{"b.xlsx", "a.xlsx"}, store.Files())
	assert.False(t, store.HasFile("old.xlsx"))
}

func TestStoreMerge(t *testing.T) {
	store := NewStore()
	store.SetFileMappings("a.xlsx", CreateMapDict([]string{"id"}))
	store.SetFileMappings("b.xlsx", CreateMapDict([]string{"id"}))

	update := NewStore()
	update.SetFileMappings("c.xlsx", CreateMapDict([]string{"zip"}))
	update.SetFileMappings("a.xlsx", CreateMapDict([]string{"zip"}))

	store.Merge(update)

	assert.Equal(t, []string{"a.xlsx", "b.xlsx", "c.xlsx"}, store.Files())
	expression, err := store.Mapping("a.xlsx", "city")
	require.NoError(t, err)
	assert.Equal(t, "{zip}", expression)
}

func TestStoreFilesReturnsCopy(t *testing.T) {
	store := NewStore()
	store.SetFileMappings("a.xlsx", nil)

	files := store.Files()
	files[0] = "changed"

	assert.Equal(t, []string{"a.xlsx"}, store.Files())
}
