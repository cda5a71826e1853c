package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringListValueAndScan(t *testing.T) {
	v, err := StringList{"a.jpg", "b.jpg"}.Value()
	require.NoError(t, err)
	require.Equal(t, `["a.jpg","b.jpg"]`, v)

	empty, err := StringList(nil).Value()
	require.NoError(t, err)
	require.Equal(t, "[]", empty)

	var l StringList
	require.NoError(t, l.Scan([]byte(`["x","y"]`)))
	require.Equal(t, StringList{"x", "y"}, l)
	require.Equal(t, "x", l.First())

	require.NoError(t, l.Scan(nil))
	require.Nil(t, l)
	require.Equal(t, "", l.First())

	require.Error(t, l.Scan(42))
	require.Error(t, l.Scan("not json"))
}

func TestIntListValueAndScan(t *testing.T) {
	v, err := IntList{7, 8, 9}.Value()
	require.NoError(t, err)
	require.Equal(t, "[7,8,9]", v)

	var l IntList
	require.NoError(t, l.Scan("[6,7]"))
	require.True(t, l.Contains(7))
	require.False(t, l.Contains(10))
}
