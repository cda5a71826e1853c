package enums

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePaymentMethod(t *testing.T) {
	m, err := ParsePaymentMethod(" COD ")
	require.NoError(t, err)
	require.Equal(t, PaymentMethodCOD, m)

	m, err = ParsePaymentMethod("online")
	require.NoError(t, err)
	require.Equal(t, PaymentMethodOnline, m)

	_, err = ParsePaymentMethod("upi")
	require.Error(t, err)
	require.False(t, PaymentMethod("card").IsValid())
}

func TestInitialPaymentStatus(t *testing.T) {
	require.Equal(t, PaymentStatusPending, InitialPaymentStatus(PaymentMethodCOD))
	require.Equal(t, PaymentStatusCompleted, InitialPaymentStatus(PaymentMethodOnline))
}

func TestStatusParsers(t *testing.T) {
	s, err := ParseOrderStatus("cancelled")
	require.NoError(t, err)
	require.Equal(t, OrderStatusCancelled, s)
	_, err = ParseOrderStatus("lost")
	require.Error(t, err)

	ps, err := ParsePaymentStatus("refunded")
	require.NoError(t, err)
	require.True(t, ps.IsValid())
	_, err = ParsePaymentStatus("paid")
	require.Error(t, err)

	ss, err := ParseShippingStatus("shipped")
	require.NoError(t, err)
	require.Equal(t, "shipped", ss.String())
	require.False(t, ShippingStatus("in_transit").IsValid())
}
