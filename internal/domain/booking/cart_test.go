package booking

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveStatus(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	open := &Cart{Status: CartOpen, ExpiresAt: now.Add(time.Minute)}
	assert.Equal(t, CartOpen, EffectiveStatus(open, now))

	stale := &Cart{Status: CartOpen, ExpiresAt: now.Add(-time.Minute)}
	assert.Equal(t, CartExpired, EffectiveStatus(stale, now))

	// Exactly at the deadline the cart is still open.
	edge := &Cart{Status: CartOpen, ExpiresAt: now}
	assert.Equal(t, CartOpen, EffectiveStatus(edge, now))

	// Terminal statuses are never re-evaluated against the clock.
	paid := &Cart{Status: CartPaid, ExpiresAt: now.Add(-time.Hour)}
	assert.Equal(t, CartPaid, EffectiveStatus(paid, now))

	expired := &Cart{Status: CartExpired, ExpiresAt: now.Add(time.Hour)}
	assert.Equal(t, CartExpired, EffectiveStatus(expired, now))
}

func TestCartItemLineTotal(t *testing.T) {
	item := &CartItem{
		Adults:    2,
		Children:  1,
		UnitPrice: decimal.RequireFromString("100.00"),
	}
	assert.True(t, decimal.RequireFromString("300.00").Equal(item.LineTotal()))

	solo := &CartItem{Adults: 1, UnitPrice: decimal.RequireFromString("249.90")}
	assert.True(t, decimal.RequireFromString("249.90").Equal(solo.LineTotal()))
}

func TestNewPublicCode(t *testing.T) {
	seen := map[string]bool{}
	for range 100 {
		code, err := NewPublicCode()
		require.NoError(t, err)
		assert.Len(t, code, 16)
		_, err = hex.DecodeString(code)
		require.NoError(t, err, "code must be lowercase hex")
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}

func TestCodeFilter(t *testing.T) {
	f := NewCodeFilter(10_000, 0.001)

	assert.False(t, f.MayContain("0123456789abcdef"))

	f.Add("0123456789abcdef")
	assert.True(t, f.MayContain("0123456789abcdef"))

	f.Seed([]string{"aaaa", "bbbb"})
	assert.True(t, f.MayContain("aaaa"))
	assert.True(t, f.MayContain("bbbb"))
}

func TestReservationStatusValid(t *testing.T) {
	for _, s := range []ReservationStatus{
		ReservationPending, ReservationContacted, ReservationConfirmed, ReservationCancelled,
	} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, ReservationStatus("SHIPPED").Valid())
	assert.False(t, ReservationStatus("").Valid())
}
