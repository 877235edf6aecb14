// Package swap implements the gas-abstraction router and its revert handler.
// A caller deposits one asset; the router converts it into the forwarding fee
// plus the requested target asset, so the forwarded call funds itself. The
// revert handler unwinds a rejected forward, refunding the sender net of
// exactly one fee.
package swap

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/feral-file/ff-portal/internal/domain"
	"github.com/feral-file/ff-portal/internal/gateway"
	"github.com/feral-file/ff-portal/internal/logger"
	"github.com/feral-file/ff-portal/internal/store"
	"github.com/feral-file/ff-portal/internal/tokens"
	"github.com/feral-file/ff-portal/internal/wire"
)

// Swapper is the external asset-swap facility
//
//go:generate mockgen -source=router.go -destination=../mocks/swap.go -package=mocks -mock_names=Swapper=MockSwapper,FeeOracle=MockFeeOracle,Router=MockRouter
type Swapper interface {
	// SwapExactIn converts amountIn of assetIn into assetOut, enforcing minOut
	SwapExactIn(ctx context.Context, assetIn, assetOut domain.AssetRef, amountIn, minOut *uint256.Int) (*uint256.Int, error)
	// SwapForExactOut converts just enough assetIn to obtain exactly exactOut
	// of assetOut, spending at most maxIn; returns the amount spent
	SwapForExactOut(ctx context.Context, assetIn, assetOut domain.AssetRef, exactOut, maxIn *uint256.Int) (*uint256.Int, error)
}

// FeeOracle quotes the fee needed to forward a call to a chain
type FeeOracle interface {
	// QuoteGas returns the asset and amount required to cover gasLimit worth
	// of execution on the destination chain
	QuoteGas(ctx context.Context, destChainID domain.ChainID, gasLimit uint64) (domain.AssetRef, *uint256.Int, error)
}

// DepositInput parameterizes one deposit-and-forward operation
type DepositInput struct {
	// Sender is the depositing account; refunds go back to it on revert
	Sender domain.AssetRef
	// SenderChainID is the chain the deposit originated from
	SenderChainID domain.ChainID
	// DepositAssetRef and DepositAmount describe what was deposited
	DepositAssetRef domain.AssetRef
	DepositAmount   *uint256.Int
	// TargetAssetRef is the asset the forwarded call must be denominated in
	TargetAssetRef domain.AssetRef
	// DestinationChainID is where the call is forwarded
	DestinationChainID domain.ChainID
	// Recipient and CallData parameterize the forwarded call itself
	Recipient domain.AssetRef
	CallData  []byte
	// GasLimit bounds the forwarded execution
	GasLimit uint64
}

// Forwarded reports the outcome of a deposit-and-forward
type Forwarded struct {
	MessageID string
	// NetAmount is the target-asset amount forwarded after the fee reserve
	NetAmount *uint256.Int
	// FeeAssetRef and FeeAmount describe the reserved fee
	FeeAssetRef domain.AssetRef
	FeeAmount   *uint256.Int
}

// Router converts deposits into self-funding forwarded calls
type Router interface {
	// DepositAndForward swaps, approves, and forwards one deposit
	DepositAndForward(ctx context.Context, input DepositInput) (*Forwarded, error)
}

type router struct {
	store   store.Store
	swapper Swapper
	oracle  FeeOracle
	ledger  tokens.Ledger
	relay   gateway.RelayClient
	// relayRef is the spender granted the fee and output approvals
	relayRef domain.AssetRef
}

// NewRouter creates a gas-abstraction swap router
func NewRouter(s store.Store, swapper Swapper, oracle FeeOracle, ledger tokens.Ledger, relay gateway.RelayClient, relayRef domain.AssetRef) Router {
	return &router{
		store:    s,
		swapper:  swapper,
		oracle:   oracle,
		ledger:   ledger,
		relay:    relay,
		relayRef: relayRef,
	}
}

// DepositAndForward converts the deposit into fee plus target asset and
// forwards the call. Insufficient deposits abort before any approval or
// transfer side effect.
func (r *router) DepositAndForward(ctx context.Context, input DepositInput) (*Forwarded, error) {
	if err := validateDeposit(input); err != nil {
		return nil, err
	}

	feeAsset, feeAmount, err := r.oracle.QuoteGas(ctx, input.DestinationChainID, input.GasLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to quote forwarding fee: %w", err)
	}

	var netAmount *uint256.Int
	if feeAsset.Equal(input.TargetAssetRef) {
		netAmount, err = r.swapSharedFee(ctx, input, feeAmount)
	} else {
		netAmount, err = r.swapSplitFee(ctx, input, feeAsset, feeAmount)
	}
	if err != nil {
		return nil, err
	}

	revert, err := r.revertDescriptor(input)
	if err != nil {
		return nil, err
	}

	// Approvals happen only after both swap legs are known to cover the fee,
	// and share a transaction with the send: a publish failure rolls them back.
	var messageID string
	err = r.store.Atomic(ctx, func(tx store.Store) error {
		ledger := r.ledger.WithStore(tx)
		if err := approveRelay(ctx, ledger, input.Sender, r.relayRef, feeAsset, feeAmount, input.TargetAssetRef, netAmount); err != nil {
			return err
		}

		messageID, err = r.relay.SendWithValue(ctx, input.DestinationChainID, netAmount, input.TargetAssetRef,
			domain.MessageKindTransfer, input.CallData, revert)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Deposit forwarded",
		zap.String("messageID", messageID),
		zap.Uint64("destChainID", uint64(input.DestinationChainID)),
		zap.String("netAmount", netAmount.Dec()),
		zap.String("feeAmount", feeAmount.Dec()),
	)
	return &Forwarded{
		MessageID:   messageID,
		NetAmount:   netAmount,
		FeeAssetRef: feeAsset,
		FeeAmount:   feeAmount,
	}, nil
}

// swapSharedFee handles feeAsset == targetAsset: one exact-in swap, with the
// fee reserved out of the output
func (r *router) swapSharedFee(ctx context.Context, input DepositInput, feeAmount *uint256.Int) (*uint256.Int, error) {
	out, err := r.swapOrPassThrough(ctx, input.DepositAssetRef, input.TargetAssetRef, input.DepositAmount, feeAmount)
	if err != nil {
		return nil, err
	}
	if out.Cmp(feeAmount) <= 0 {
		return nil, fmt.Errorf("%w: output %s cannot cover fee %s",
			domain.ErrInsufficientOutAmount, out.Dec(), feeAmount.Dec())
	}
	return new(uint256.Int).Sub(out, feeAmount), nil
}

// swapSplitFee handles feeAsset != targetAsset: obtain the exact fee first,
// then convert the remainder of the deposit to the target asset
func (r *router) swapSplitFee(ctx context.Context, input DepositInput, feeAsset domain.AssetRef, feeAmount *uint256.Int) (*uint256.Int, error) {
	spent, err := r.swapper.SwapForExactOut(ctx, input.DepositAssetRef, feeAsset, feeAmount, input.DepositAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: deposit cannot obtain fee %s: %v",
			domain.ErrInsufficientOutAmount, feeAmount.Dec(), err)
	}
	if spent.Cmp(input.DepositAmount) >= 0 {
		return nil, fmt.Errorf("%w: fee consumed the entire deposit", domain.ErrInsufficientOutAmount)
	}

	remainder := new(uint256.Int).Sub(input.DepositAmount, spent)
	return r.swapOrPassThrough(ctx, input.DepositAssetRef, input.TargetAssetRef, remainder, uint256.NewInt(0))
}

// swapOrPassThrough skips the swap facility when the assets already match
func (r *router) swapOrPassThrough(ctx context.Context, assetIn, assetOut domain.AssetRef, amountIn, minOut *uint256.Int) (*uint256.Int, error) {
	if assetIn.Equal(assetOut) {
		return amountIn, nil
	}
	out, err := r.swapper.SwapExactIn(ctx, assetIn, assetOut, amountIn, minOut)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInsufficientOutAmount, err)
	}
	return out, nil
}

// revertDescriptor captures everything needed to unwind this forward
func (r *router) revertDescriptor(input DepositInput) (*wire.RevertDescriptor, error) {
	state := &wire.RevertState{
		Sender:          input.Sender,
		SenderChainID:   input.SenderChainID,
		DepositAssetRef: input.DepositAssetRef,
		DepositAmount:   input.DepositAmount,
		GasLimit:        input.GasLimit,
		Recipient:       input.Recipient,
		CallData:        input.CallData,
	}
	message, err := state.Marshal()
	if err != nil {
		return nil, err
	}
	return &wire.RevertDescriptor{
		AbortAddress:  input.Sender,
		CallOnRevert:  true,
		RevertAddress: r.relayRef,
		Message:       message,
		GasLimit:      input.GasLimit,
	}, nil
}

// approveRelay grants the relay its fee and output allowances. Allowances are
// keyed by (owner, spender, asset), so when the fee and the output share an
// asset the two grants collapse into one row; the amounts are summed so the
// relay stays approved for fee plus output.
func approveRelay(ctx context.Context, ledger tokens.Ledger, owner, spender, feeAsset domain.AssetRef, feeAmount *uint256.Int, outAsset domain.AssetRef, outAmount *uint256.Int) error {
	if feeAsset.Equal(outAsset) {
		total := new(uint256.Int).Add(feeAmount, outAmount)
		return ledger.Approve(ctx, owner, spender, feeAsset, total)
	}
	if err := ledger.Approve(ctx, owner, spender, feeAsset, feeAmount); err != nil {
		return err
	}
	return ledger.Approve(ctx, owner, spender, outAsset, outAmount)
}

func validateDeposit(input DepositInput) error {
	if input.Sender.IsZero() || input.Recipient.IsZero() {
		return fmt.Errorf("%w: zero sender or recipient", domain.ErrInvalidAddress)
	}
	if input.DepositAssetRef.IsZero() || input.TargetAssetRef.IsZero() {
		return fmt.Errorf("%w: zero deposit or target asset", domain.ErrInvalidAddress)
	}
	if input.DepositAmount == nil || input.DepositAmount.IsZero() {
		return fmt.Errorf("%w: zero deposit amount", domain.ErrInvalidMessage)
	}
	return nil
}
