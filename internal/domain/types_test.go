package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIDFromBytes(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		wantErr bool
	}{
		{
			name:  "exact width",
			input: make([]byte, TokenIDLength),
		},
		{
			name:    "too short",
			input:   make([]byte, TokenIDLength-1),
			wantErr: true,
		},
		{
			name:    "too long",
			input:   make([]byte, TokenIDLength+1),
			wantErr: true,
		},
		{
			name:    "empty",
			input:   nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := TokenIDFromBytes(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidMessage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, id.Bytes())
		})
	}
}

func TestTokenIDHexRoundTrip(t *testing.T) {
	var id TokenID
	for i := range id {
		id[i] = byte(i)
	}

	s := id.String()
	assert.True(t, strings.HasPrefix(s, "0x"))
	assert.Len(t, s, 2+TokenIDLength*2)

	parsed, err := TokenIDFromHex(s)
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	// Bare hex without the 0x prefix parses identically
	parsed, err = TokenIDFromHex(strings.TrimPrefix(s, "0x"))
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestTokenIDIsZero(t *testing.T) {
	var zero TokenID
	assert.True(t, zero.IsZero())

	nonZero := zero
	nonZero[TokenIDLength-1] = 1
	assert.False(t, nonZero.IsZero())
}

func TestAssetRefIsZero(t *testing.T) {
	tests := []struct {
		name     string
		input    AssetRef
		expected bool
	}{
		{
			name:     "nil",
			input:    nil,
			expected: true,
		},
		{
			name:     "empty",
			input:    AssetRef{},
			expected: true,
		},
		{
			name:     "all zero bytes",
			input:    AssetRef{0, 0, 0},
			expected: true,
		},
		{
			name:     "non-zero",
			input:    AssetRef{0, 1, 0},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.input.IsZero())
		})
	}
}

func TestAssetRefFromHex(t *testing.T) {
	ref, err := AssetRefFromHex("0x00010203")
	require.NoError(t, err)
	assert.Equal(t, AssetRef{0, 1, 2, 3}, ref)
	assert.Equal(t, "0x00010203", ref.String())

	_, err = AssetRefFromHex("0xzz")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestAssetRefEqual(t *testing.T) {
	a := AssetRef{1, 2, 3}
	assert.True(t, a.Equal(AssetRef{1, 2, 3}))
	assert.False(t, a.Equal(AssetRef{1, 2}))
	assert.False(t, a.Equal(nil))
}

func TestMessageKindValid(t *testing.T) {
	assert.True(t, MessageKindTransfer.Valid())
	assert.True(t, MessageKindRevert.Valid())
	assert.False(t, MessageKind("ack").Valid())
	assert.False(t, MessageKind("").Valid())
}
