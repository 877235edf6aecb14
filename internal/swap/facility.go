package swap

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/holiman/uint256"

	"github.com/feral-file/ff-portal/internal/adapter"
	"github.com/feral-file/ff-portal/internal/domain"
)

// FacilityConfig holds the connection parameters for the external swap facility
type FacilityConfig struct {
	// BaseURL is the facility's API root, e.g. https://swap.internal:8443
	BaseURL string
}

// facilityClient implements Swapper and FeeOracle against the swap facility's
// HTTP API. Amounts travel as decimal strings and asset references as
// 0x-prefixed hex, matching the envelope encoding used on the relay.
type facilityClient struct {
	baseURL string
	http    adapter.HTTPClient
	json    adapter.JSON
}

// NewFacilityClient creates a client for the external swap facility. The
// returned value satisfies both Swapper and FeeOracle.
func NewFacilityClient(cfg FacilityConfig, httpClient adapter.HTTPClient, jsonAdapter adapter.JSON) (Swapper, FeeOracle) {
	c := &facilityClient{
		baseURL: cfg.BaseURL,
		http:    httpClient,
		json:    jsonAdapter,
	}
	return c, c
}

type swapRequest struct {
	AssetIn  string `json:"asset_in"`
	AssetOut string `json:"asset_out"`
	// AmountIn carries amountIn for exact-in swaps and maxIn for exact-out swaps
	AmountIn string `json:"amount_in"`
	// AmountOut carries minOut for exact-in swaps and exactOut for exact-out swaps
	AmountOut string `json:"amount_out"`
}

type swapResponse struct {
	Amount string `json:"amount"`
}

type feeQuoteResponse struct {
	FeeAsset  string `json:"fee_asset"`
	FeeAmount string `json:"fee_amount"`
}

// SwapExactIn converts amountIn of assetIn into assetOut, enforcing minOut
func (c *facilityClient) SwapExactIn(ctx context.Context, assetIn, assetOut domain.AssetRef, amountIn, minOut *uint256.Int) (*uint256.Int, error) {
	return c.swap(ctx, "/v1/swaps/exact-in", swapRequest{
		AssetIn:   assetIn.String(),
		AssetOut:  assetOut.String(),
		AmountIn:  amountIn.Dec(),
		AmountOut: minOut.Dec(),
	})
}

// SwapForExactOut converts just enough assetIn to obtain exactly exactOut of assetOut
func (c *facilityClient) SwapForExactOut(ctx context.Context, assetIn, assetOut domain.AssetRef, exactOut, maxIn *uint256.Int) (*uint256.Int, error) {
	return c.swap(ctx, "/v1/swaps/exact-out", swapRequest{
		AssetIn:   assetIn.String(),
		AssetOut:  assetOut.String(),
		AmountIn:  maxIn.Dec(),
		AmountOut: exactOut.Dec(),
	})
}

func (c *facilityClient) swap(ctx context.Context, path string, req swapRequest) (*uint256.Int, error) {
	body, err := c.json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode swap request: %w", err)
	}

	respBody, err := c.http.Post(ctx, c.baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("swap facility rejected the request: %w", err)
	}

	var resp swapResponse
	if err := c.json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode swap response: %w", err)
	}

	amount, err := uint256.FromDecimal(resp.Amount)
	if err != nil {
		return nil, fmt.Errorf("swap facility returned a malformed amount %q: %w", resp.Amount, err)
	}

	return amount, nil
}

// QuoteGas returns the asset and amount required to cover gasLimit worth of
// forwarding gas on the destination chain
func (c *facilityClient) QuoteGas(ctx context.Context, destChainID domain.ChainID, gasLimit uint64) (domain.AssetRef, *uint256.Int, error) {
	quoteURL := fmt.Sprintf("%s/v1/fees/quote?%s", c.baseURL, url.Values{
		"chain_id":  {fmt.Sprintf("%d", destChainID)},
		"gas_limit": {fmt.Sprintf("%d", gasLimit)},
	}.Encode())

	var resp feeQuoteResponse
	if err := c.http.Get(ctx, quoteURL, &resp); err != nil {
		return nil, nil, fmt.Errorf("failed to quote gas fee: %w", err)
	}

	feeAsset, err := domain.AssetRefFromHex(resp.FeeAsset)
	if err != nil {
		return nil, nil, fmt.Errorf("fee quote returned a malformed fee asset %q: %w", resp.FeeAsset, err)
	}

	feeAmount, err := uint256.FromDecimal(resp.FeeAmount)
	if err != nil {
		return nil, nil, fmt.Errorf("fee quote returned a malformed fee amount %q: %w", resp.FeeAmount, err)
	}

	return feeAsset, feeAmount, nil
}
