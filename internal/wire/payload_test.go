package wire

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-portal/internal/domain"
)

func testTokenID(fill byte) domain.TokenID {
	var id domain.TokenID
	for i := range id {
		id[i] = fill
	}
	return id
}

func TestTransferPayloadRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		payload TransferPayload
	}{
		{
			name: "full payload with embedded asset",
			payload: TransferPayload{
				TokenID:            testTokenID(0xab),
				SourceChainID:      domain.ChainEthereumSepolia,
				DestinationChainID: domain.ChainBaseSepolia,
				RecipientRef:       domain.AssetRef{0x01, 0x02, 0x03, 0x04},
				MetadataURI:        "ipfs://QmExample/42.json",
				Nonce:              7,
				EmbeddedAssetRef:   domain.AssetRef{0xca, 0xfe},
			},
		},
		{
			name: "no embedded asset",
			payload: TransferPayload{
				TokenID:            testTokenID(0x01),
				SourceChainID:      domain.ChainEthereumMainnet,
				DestinationChainID: domain.ChainEthereumSepolia,
				RecipientRef:       domain.AssetRef{0xff},
				MetadataURI:        "https://example.com/1",
				Nonce:              0,
			},
		},
		{
			name: "empty metadata uri",
			payload: TransferPayload{
				TokenID:            testTokenID(0x7f),
				SourceChainID:      domain.ChainBaseSepolia,
				DestinationChainID: domain.ChainEthereumMainnet,
				RecipientRef:       domain.AssetRef{0x00, 0x01},
				Nonce:              8,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.payload.Marshal()
			require.NoError(t, err)

			decoded, err := UnmarshalTransferPayload(data)
			require.NoError(t, err)
			assert.Equal(t, &tt.payload, decoded)
		})
	}
}

func TestUnmarshalTransferPayloadRejectsMalformed(t *testing.T) {
	valid := TransferPayload{
		TokenID:            testTokenID(0x11),
		SourceChainID:      domain.ChainEthereumSepolia,
		DestinationChainID: domain.ChainBaseSepolia,
		RecipientRef:       domain.AssetRef{0x01},
		MetadataURI:        "ipfs://x",
		Nonce:              1,
	}
	data, err := valid.Marshal()
	require.NoError(t, err)

	tests := []struct {
		name  string
		input []byte
	}{
		{
			name:  "empty",
			input: nil,
		},
		{
			name:  "below minimum fixed-field length",
			input: make([]byte, minPayloadLength-1),
		},
		{
			name: "unknown version",
			input: func() []byte {
				b := append([]byte{}, data...)
				b[0] = 0x7f
				return b
			}(),
		},
		{
			name:  "truncated variable field",
			input: data[:len(data)-3],
		},
		{
			name:  "trailing garbage",
			input: append(append([]byte{}, data...), 0xde, 0xad),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalTransferPayload(tt.input)
			assert.ErrorIs(t, err, domain.ErrInvalidMessage)
		})
	}
}

func TestUnmarshalTransferPayloadDeterministic(t *testing.T) {
	p := TransferPayload{
		TokenID:            testTokenID(0x42),
		SourceChainID:      1,
		DestinationChainID: 84532,
		RecipientRef:       domain.AssetRef{0xaa, 0xbb},
		MetadataURI:        "ipfs://QmDeterministic",
		Nonce:              99,
	}

	first, err := p.Marshal()
	require.NoError(t, err)
	second, err := p.Marshal()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRevertStateRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		state RevertState
	}{
		{
			name: "full state",
			state: RevertState{
				Sender:          domain.AssetRef{0x01, 0x02},
				SenderChainID:   domain.ChainEthereumSepolia,
				DepositAssetRef: domain.AssetRef{0x03, 0x04, 0x05},
				DepositAmount:   uint256.NewInt(123456789),
				GasLimit:        500000,
				Recipient:       domain.AssetRef{0x06},
				CallData:        []byte{0xde, 0xad, 0xbe, 0xef},
			},
		},
		{
			name: "zero amount and no call data",
			state: RevertState{
				Sender:          domain.AssetRef{0xaa},
				DepositAssetRef: domain.AssetRef{0xbb},
				DepositAmount:   uint256.NewInt(0),
				GasLimit:        21000,
				Recipient:       domain.AssetRef{0xcc},
			},
		},
		{
			name: "large amount",
			state: RevertState{
				Sender:          domain.AssetRef{0x01},
				DepositAssetRef: domain.AssetRef{0x02},
				DepositAmount:   new(uint256.Int).Lsh(uint256.NewInt(1), 200),
				GasLimit:        1,
				Recipient:       domain.AssetRef{0x03},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.state.Marshal()
			require.NoError(t, err)

			decoded, err := UnmarshalRevertState(data)
			require.NoError(t, err)
			assert.Equal(t, tt.state.Sender, decoded.Sender)
			assert.Equal(t, tt.state.SenderChainID, decoded.SenderChainID)
			assert.Equal(t, tt.state.DepositAssetRef, decoded.DepositAssetRef)
			assert.Equal(t, tt.state.GasLimit, decoded.GasLimit)
			assert.Equal(t, tt.state.Recipient, decoded.Recipient)
			assert.Equal(t, tt.state.CallData, decoded.CallData)
			assert.True(t, tt.state.DepositAmount.Eq(decoded.DepositAmount))
		})
	}
}

func TestUnmarshalRevertStateRejectsMalformed(t *testing.T) {
	state := RevertState{
		Sender:          domain.AssetRef{0x01},
		DepositAssetRef: domain.AssetRef{0x02},
		DepositAmount:   uint256.NewInt(10),
		GasLimit:        100,
		Recipient:       domain.AssetRef{0x03},
	}
	data, err := state.Marshal()
	require.NoError(t, err)

	tests := []struct {
		name  string
		input []byte
	}{
		{
			name:  "empty",
			input: nil,
		},
		{
			name:  "truncated",
			input: data[:len(data)-1],
		},
		{
			name:  "trailing garbage",
			input: append(append([]byte{}, data...), 0x00),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalRevertState(tt.input)
			assert.ErrorIs(t, err, domain.ErrInvalidMessage)
		})
	}
}
