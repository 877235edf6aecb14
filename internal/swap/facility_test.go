package swap_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-portal/internal/adapter"
	"github.com/feral-file/ff-portal/internal/mocks"
	"github.com/feral-file/ff-portal/internal/swap"
)

const facilityURL = "https://swap.example.test"

func newFacility(t *testing.T) (*mocks.MockHTTPClient, swap.Swapper, swap.FeeOracle) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	httpClient := mocks.NewMockHTTPClient(ctrl)
	swapper, oracle := swap.NewFacilityClient(swap.FacilityConfig{BaseURL: facilityURL}, httpClient, adapter.NewJSON())
	return httpClient, swapper, oracle
}

func TestFacilitySwapExactIn(t *testing.T) {
	httpClient, swapper, _ := newFacility(t)

	httpClient.EXPECT().
		Post(gomock.Any(), facilityURL+"/v1/swaps/exact-in", "application/json", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ string, body io.Reader) ([]byte, error) {
			raw, err := io.ReadAll(body)
			require.NoError(t, err)

			var req map[string]string
			require.NoError(t, json.Unmarshal(raw, &req))
			assert.Equal(t, usdc.String(), req["asset_in"])
			assert.Equal(t, weth.String(), req["asset_out"])
			assert.Equal(t, "1000", req["amount_in"])
			assert.Equal(t, "750", req["amount_out"])

			return []byte(`{"amount":"800"}`), nil
		})

	out, err := swapper.SwapExactIn(context.Background(), usdc, weth, uint256.NewInt(1000), uint256.NewInt(750))
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(800), out)
}

func TestFacilitySwapForExactOut(t *testing.T) {
	httpClient, swapper, _ := newFacility(t)

	httpClient.EXPECT().
		Post(gomock.Any(), facilityURL+"/v1/swaps/exact-out", "application/json", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ string, body io.Reader) ([]byte, error) {
			raw, err := io.ReadAll(body)
			require.NoError(t, err)

			var req map[string]string
			require.NoError(t, json.Unmarshal(raw, &req))
			assert.Equal(t, "1000", req["amount_in"])
			assert.Equal(t, "50", req["amount_out"])

			return []byte(`{"amount":"200"}`), nil
		})

	spent, err := swapper.SwapForExactOut(context.Background(), usdc, gasToken, uint256.NewInt(50), uint256.NewInt(1000))
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(200), spent)
}

func TestFacilitySwapErrors(t *testing.T) {
	t.Run("facility rejects the request", func(t *testing.T) {
		httpClient, swapper, _ := newFacility(t)
		httpClient.EXPECT().
			Post(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("insufficient liquidity"))

		_, err := swapper.SwapExactIn(context.Background(), usdc, weth, uint256.NewInt(1000), uint256.NewInt(750))
		assert.ErrorContains(t, err, "swap facility rejected the request")
	})

	t.Run("malformed amount", func(t *testing.T) {
		httpClient, swapper, _ := newFacility(t)
		httpClient.EXPECT().
			Post(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]byte(`{"amount":"not-a-number"}`), nil)

		_, err := swapper.SwapExactIn(context.Background(), usdc, weth, uint256.NewInt(1000), uint256.NewInt(750))
		assert.ErrorContains(t, err, "malformed amount")
	})
}

func TestFacilityQuoteGas(t *testing.T) {
	httpClient, _, oracle := newFacility(t)

	httpClient.EXPECT().
		Get(gomock.Any(), facilityURL+"/v1/fees/quote?chain_id=1&gas_limit=200000", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, result interface{}) error {
			return json.Unmarshal([]byte(`{"fee_asset":"`+gasToken.String()+`","fee_amount":"100"}`), result)
		})

	feeAsset, feeAmount, err := oracle.QuoteGas(context.Background(), 1, 200000)
	require.NoError(t, err)
	assert.Equal(t, gasToken, feeAsset)
	assert.Equal(t, uint256.NewInt(100), feeAmount)
}

func TestFacilityQuoteGasMalformedAsset(t *testing.T) {
	httpClient, _, oracle := newFacility(t)

	httpClient.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, result interface{}) error {
			return json.Unmarshal([]byte(`{"fee_asset":"zz","fee_amount":"100"}`), result)
		})

	_, _, err := oracle.QuoteGas(context.Background(), 1, 200000)
	assert.ErrorContains(t, err, "malformed fee asset")
}
