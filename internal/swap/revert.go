package swap

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/feral-file/ff-portal/internal/adapter"
	"github.com/feral-file/ff-portal/internal/domain"
	"github.com/feral-file/ff-portal/internal/gateway"
	"github.com/feral-file/ff-portal/internal/logger"
	"github.com/feral-file/ff-portal/internal/store"
	"github.com/feral-file/ff-portal/internal/store/schema"
	"github.com/feral-file/ff-portal/internal/tokens"
)

// RevertHandler unwinds rejected forwarded operations. It is invoked only by
// the gateway on a revert notification, never directly by a user. The relay
// returns the full forwarded amount with the notification (the forward fee
// was never consumed), so the round trip costs the sender exactly one fee:
// the one deducted here for the refund delivery.
//
//go:generate mockgen -source=revert.go -destination=../mocks/revert.go -package=mocks -mock_names=RevertHandler=MockRevertHandler
type RevertHandler interface {
	// HandleReversion refunds the original sender net of one fee
	HandleReversion(ctx context.Context, reversion *gateway.Reversion) (*uint256.Int, error)
}

type revertHandler struct {
	store    store.Store
	swapper  Swapper
	oracle   FeeOracle
	ledger   tokens.Ledger
	relay    gateway.RelayClient
	relayRef domain.AssetRef
	json     adapter.JSON
}

// NewRevertHandler creates the revert handler sharing the router's collaborators
func NewRevertHandler(s store.Store, swapper Swapper, oracle FeeOracle, ledger tokens.Ledger, relay gateway.RelayClient, relayRef domain.AssetRef, jsonAdapter adapter.JSON) RevertHandler {
	return &revertHandler{
		store:    s,
		swapper:  swapper,
		oracle:   oracle,
		ledger:   ledger,
		relay:    relay,
		relayRef: relayRef,
		json:     jsonAdapter,
	}
}

// HandleReversion swaps the returned asset back toward the original deposit
// and refunds the sender. A refund that cannot cover its own fee fails loudly
// with ErrInsufficientOutAmount; funds are never silently dropped.
func (h *revertHandler) HandleReversion(ctx context.Context, reversion *gateway.Reversion) (*uint256.Int, error) {
	if reversion.MessageID == "" {
		return nil, fmt.Errorf("%w: reversion without message id", domain.ErrInvalidMessage)
	}
	state := reversion.State
	if state == nil {
		return nil, fmt.Errorf("%w: reversion without revert state", domain.ErrInvalidMessage)
	}
	if state.Sender.IsZero() {
		return nil, fmt.Errorf("%w: revert state has no sender", domain.ErrInvalidAddress)
	}
	returned := reversion.Amount
	if returned == nil || returned.IsZero() {
		return nil, fmt.Errorf("%w: reversion returned no funds", domain.ErrInvalidMessage)
	}
	returnedAsset := reversion.AssetRef
	if returnedAsset.IsZero() {
		return nil, fmt.Errorf("%w: reversion has no asset ref", domain.ErrInvalidMessage)
	}

	// The refund fee is re-derived for the original gas limit, against the
	// sender's chain.
	feeAsset, feeAmount, err := h.oracle.QuoteGas(ctx, state.SenderChainID, state.GasLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to quote refund fee: %w", err)
	}

	var net *uint256.Int
	if returnedAsset.Equal(feeAsset) {
		if returned.Cmp(feeAmount) <= 0 {
			return nil, fmt.Errorf("%w: returned %s cannot cover refund fee %s",
				domain.ErrInsufficientOutAmount, returned.Dec(), feeAmount.Dec())
		}
		remainder := new(uint256.Int).Sub(returned, feeAmount)
		net, err = h.toDepositAsset(ctx, returnedAsset, state.DepositAssetRef, remainder)
	} else {
		var spent *uint256.Int
		spent, err = h.swapper.SwapForExactOut(ctx, returnedAsset, feeAsset, feeAmount, returned)
		if err != nil {
			return nil, fmt.Errorf("%w: returned funds cannot obtain refund fee %s: %v",
				domain.ErrInsufficientOutAmount, feeAmount.Dec(), err)
		}
		if spent.Cmp(returned) >= 0 {
			return nil, fmt.Errorf("%w: refund fee consumed the entire returned amount", domain.ErrInsufficientOutAmount)
		}
		remainder := new(uint256.Int).Sub(returned, spent)
		net, err = h.toDepositAsset(ctx, returnedAsset, state.DepositAssetRef, remainder)
	}
	if err != nil {
		return nil, err
	}

	// Approvals, the duplicate-delivery marker, and the refund send share one
	// transaction: a failure at any step leaves no partial state behind.
	var messageID string
	err = h.store.Atomic(ctx, func(tx store.Store) error {
		// The relay delivers at least once; the message id marker makes a
		// redelivered notification a replay instead of a second refund.
		if err := h.recordReversion(ctx, tx, reversion); err != nil {
			return err
		}

		ledger := h.ledger.WithStore(tx)
		if err := approveRelay(ctx, ledger, state.Sender, h.relayRef, feeAsset, feeAmount, state.DepositAssetRef, net); err != nil {
			return err
		}

		// No revert descriptor on the refund itself: a refund of a refund has
		// no meaningful unwind target.
		messageID, err = h.relay.SendWithValue(ctx, state.SenderChainID, net, state.DepositAssetRef,
			domain.MessageKindRevert, nil, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Reverted operation refunded",
		zap.String("messageID", messageID),
		zap.String("sender", state.Sender.String()),
		zap.Uint64("senderChainID", uint64(state.SenderChainID)),
		zap.String("netRefund", net.Dec()),
	)
	return net, nil
}

// recordReversion consumes the notification's message id, writing the same
// audit row the reception path keeps for transfers
func (h *revertHandler) recordReversion(ctx context.Context, tx store.Store, reversion *gateway.Reversion) error {
	envelope, err := h.json.Marshal(reversion)
	if err != nil {
		return fmt.Errorf("failed to marshal reversion for audit: %w", err)
	}
	return tx.RecordProcessedMessage(ctx, &schema.ProcessedMessage{
		MessageID:     reversion.MessageID,
		SourceChainID: uint64(reversion.SourceChainID),
		Kind:          string(domain.MessageKindRevert),
		Envelope:      datatypes.JSON(envelope),
	})
}

// toDepositAsset converts the remainder back to the originally deposited
// asset, skipping the swap when they already match
func (h *revertHandler) toDepositAsset(ctx context.Context, from, to domain.AssetRef, amount *uint256.Int) (*uint256.Int, error) {
	if to.IsZero() || from.Equal(to) {
		return amount, nil
	}
	out, err := h.swapper.SwapExactIn(ctx, from, to, amount, uint256.NewInt(0))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInsufficientOutAmount, err)
	}
	return out, nil
}
