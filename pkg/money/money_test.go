package money

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	require.Equal(t, "₹0", Format(0))
	require.Equal(t, "₹980", Format(980))
	require.Equal(t, "₹1,000", Format(1000))
	require.Equal(t, "₹1,00,000", Format(100000))
	require.Equal(t, "₹12,34,567", Format(1234567))
	require.Equal(t, "-₹50", Format(-50))
	require.Equal(t, "+₹20", FormatSurcharge(20))
}
