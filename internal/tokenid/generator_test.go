package tokenid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-portal/internal/domain"
)

func TestDeriveDeterministic(t *testing.T) {
	assetRef := domain.AssetRef{0x01, 0x02, 0x03}

	first, err := Derive(assetRef, 1000, 5)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		id, err := Derive(assetRef, 1000, 5)
		require.NoError(t, err)
		assert.Equal(t, first, id)
	}
}

func TestDeriveInputSensitivity(t *testing.T) {
	assetRef := domain.AssetRef{0x01, 0x02, 0x03}
	base, err := Derive(assetRef, 1000, 5)
	require.NoError(t, err)

	tests := []struct {
		name      string
		assetRef  domain.AssetRef
		freshness uint64
		counter   uint64
	}{
		{
			name:      "different asset ref",
			assetRef:  domain.AssetRef{0x01, 0x02, 0x04},
			freshness: 1000,
			counter:   5,
		},
		{
			name:      "different freshness",
			assetRef:  assetRef,
			freshness: 1001,
			counter:   5,
		},
		{
			name:      "different counter",
			assetRef:  assetRef,
			freshness: 1000,
			counter:   6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Derive(tt.assetRef, tt.freshness, tt.counter)
			require.NoError(t, err)
			assert.NotEqual(t, base, id)
		})
	}
}

func TestDeriveUniqueness(t *testing.T) {
	const samples = 10000

	assetRef := domain.AssetRef{0xaa, 0xbb, 0xcc, 0xdd}
	seen := make(map[domain.TokenID]uint64, samples)

	for counter := uint64(0); counter < samples; counter++ {
		id, err := Derive(assetRef, 123456, counter)
		require.NoError(t, err)

		prev, collided := seen[id]
		require.Falsef(t, collided, "counter %d collided with counter %d", counter, prev)
		seen[id] = counter
	}
}

func TestDeriveCounterExhausted(t *testing.T) {
	_, err := Derive(domain.AssetRef{0x01}, 1, math.MaxUint64)
	assert.ErrorIs(t, err, domain.ErrCounterExhausted)
}

func TestDeriveEmptyAssetRef(t *testing.T) {
	_, err := Derive(nil, 1, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidAddress)
}
