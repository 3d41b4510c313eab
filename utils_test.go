package textcanon

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveUnitKey(t *testing.T) {
	key, ok := DeriveUnitKey("KJV", "GEN", "1", "1")
	require.True(t, ok)
	assert.Equal(t, "KJV|GEN|1|1", key)

	other, ok := DeriveUnitKey("KJV", "EXO", "1", "1")
	require.True(t, ok)
	assert.Equal(t, "KJV|EXO|1|1", other)
	assert.NotEqual(t, key, other)
}

func TestDeriveUnitKeyPartial(t *testing.T) {
	cases := [][4]string{
		{"", "GEN", "1", "1"},
		{"KJV", "", "1", "1"},
		{"KJV", "GEN", "", "1"},
		{"KJV", "GEN", "1", ""},
	}
	for _, c := range cases {
		key, ok := DeriveUnitKey(c[0], c[1], c[2], c[3])
		assert.False(t, ok, "%v", c)
		assert.Empty(t, key)
	}
}

func TestSplitUnitKey(t *testing.T) {
	coords, err := SplitUnitKey("SBLGNT|JHN|3|16")
	require.NoError(t, err)
	assert.Equal(t, UnitCoordinates{SourceCode: "SBLGNT", BookCode: "JHN", UnitGroup: "3", Unit: "16"}, coords)

	key, ok := coords.Key()
	require.True(t, ok)
	assert.Equal(t, "SBLGNT|JHN|3|16", key)

	_, err = SplitUnitKey("KJV|GEN|1")
	assert.Error(t, err)
	_, err = SplitUnitKey("KJV||1|1")
	assert.Error(t, err)
}

func TestIsKeyComponent(t *testing.T) {
	assert.True(t, IsKeyComponent("12a"))
	assert.False(t, IsKeyComponent("1|2"))
}

func TestSplitUnitKeyErrorsCarryStack(t *testing.T) {
	_, err := SplitUnitKey("KJV|GEN")
	require.Error(t, err)
	_, ok := err.(interface{ StackTrace() errors.StackTrace })
	assert.True(t, ok)
	assert.Contains(t, err.Error(), `"KJV|GEN"`)
}
