package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefineAndLookup(t *testing.T) {
	tbl := New()
	require.NoError(t, tbl.Define("width", "42"))

	v, ok := tbl.Lookup("width")
	require.True(t, ok)
	assert.Equal(t, "42", v)
}

func TestDuplicateDefinitionFails(t *testing.T) {
	tbl := New()
	require.NoError(t, tbl.Define("width", "42"))
	err := tbl.Define("width", "7")
	assert.Error(t, err)
}

func TestDefineLabelUsesAtPrefix(t *testing.T) {
	tbl := New()
	require.NoError(t, tbl.DefineLabel("loop", 256))

	v, ok := tbl.Lookup("@loop")
	require.True(t, ok)
	assert.Equal(t, "256", v)

	assert.Equal(t, []string{"loop"}, tbl.Labels())
}

func TestNearestLabelsEmptyWhenNoLabels(t *testing.T) {
	tbl := New()
	require.NoError(t, tbl.Define("notalabel", "1"))
	assert.Equal(t, []string{}, tbl.NearestLabels("looop"))
}

func TestNearestLabelsRanksByEditDistance(t *testing.T) {
	tbl := New()
	require.NoError(t, tbl.DefineLabel("loop", 0))
	require.NoError(t, tbl.DefineLabel("loot", 4))
	require.NoError(t, tbl.DefineLabel("exit", 8))

	suggestions := tbl.NearestLabels("looop")
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "loop", suggestions[0])
}

func TestNearestLabelsCapsAtThree(t *testing.T) {
	tbl := New()
	for _, name := range []string{"a", "b", "c", "d"} {
		require.NoError(t, tbl.DefineLabel(name, 0))
	}
	assert.Len(t, tbl.NearestLabels("z"), 3)
}

func TestIdentPattern(t *testing.T) {
	assert.True(t, IdentPattern.MatchString("loop"))
	assert.True(t, IdentPattern.MatchString("_foo-bar.baz"))
	assert.False(t, IdentPattern.MatchString("1loop"))
	assert.False(t, IdentPattern.MatchString(""))
}
