// Package transfer implements the outbound path: an owner sends an asset off
// this ledger. The local representation is burned, the origin record stays
// untouched, and the transfer message leaves through the relay carrying a
// revert descriptor so a downstream rejection can restore the asset here.
package transfer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/feral-file/ff-portal/internal/domain"
	"github.com/feral-file/ff-portal/internal/gateway"
	"github.com/feral-file/ff-portal/internal/logger"
	"github.com/feral-file/ff-portal/internal/registry"
	"github.com/feral-file/ff-portal/internal/store"
	"github.com/feral-file/ff-portal/internal/tokens"
	"github.com/feral-file/ff-portal/internal/wire"
)

// Input parameterizes one outbound transfer
type Input struct {
	// Caller must be the current owner of the local representation
	Caller  domain.AssetRef
	TokenID domain.TokenID
	// DestinationChainID is the chain the asset moves to
	DestinationChainID domain.ChainID
	// RecipientRef is the receiving account on the destination chain
	RecipientRef domain.AssetRef
	// GasLimit bounds the execution of an eventual revert delivery
	GasLimit uint64
}

// Sender initiates outbound transfers
//
//go:generate mockgen -source=transfer.go -destination=../mocks/transfer.go -package=mocks -mock_names=Sender=MockSender
type Sender interface {
	// Initiate burns the local representation and sends the transfer message,
	// returning the relay message id. Any failure rolls everything back.
	Initiate(ctx context.Context, input Input) (string, error)
}

type sender struct {
	store    store.Store
	registry registry.Registry
	ledger   tokens.Ledger
	relay    gateway.RelayClient
	// localContract is this portal's own connected-contract identity,
	// embedded in the revert descriptor as the abort target
	localContract domain.AssetRef
}

// New creates an outbound transfer sender
func New(s store.Store, r registry.Registry, l tokens.Ledger, relay gateway.RelayClient, localContract domain.AssetRef) Sender {
	return &sender{
		store:         s,
		registry:      r,
		ledger:        l,
		relay:         relay,
		localContract: localContract,
	}
}

// Initiate burns the local representation and sends the transfer message
func (s *sender) Initiate(ctx context.Context, input Input) (string, error) {
	if input.RecipientRef.IsZero() {
		return "", fmt.Errorf("%w: transfer has no recipient", domain.ErrInvalidAddress)
	}
	if input.DestinationChainID == s.registry.LocalChainID() {
		return "", fmt.Errorf("%w: destination is the local chain", domain.ErrInvalidMessage)
	}

	owner, err := s.ledger.OwnerOf(ctx, input.TokenID)
	if err != nil {
		return "", err
	}
	if owner == nil {
		return "", fmt.Errorf("%w: token %s has no live representation", domain.ErrTransferFailed, input.TokenID)
	}
	if !owner.Equal(input.Caller) {
		return "", fmt.Errorf("%w: caller %s does not own token %s", domain.ErrUnauthorized, input.Caller, input.TokenID)
	}

	var messageID string
	err = s.store.Atomic(ctx, func(tx store.Store) error {
		reg := s.registry.WithStore(tx)
		ledger := s.ledger.WithStore(tx)

		record, err := reg.Get(ctx, input.TokenID)
		if err != nil {
			return err
		}

		// A burn failure aborts the whole call before anything leaves.
		if err := ledger.Burn(ctx, input.TokenID); err != nil {
			return err
		}

		nonce, err := tx.NextOutboundNonce(ctx, string(record.CollectionRef))
		if err != nil {
			return err
		}

		payload := &wire.TransferPayload{
			TokenID:            input.TokenID,
			SourceChainID:      reg.LocalChainID(),
			DestinationChainID: input.DestinationChainID,
			RecipientRef:       input.RecipientRef,
			MetadataURI:        record.MetadataURI,
			Nonce:              nonce,
			EmbeddedAssetRef:   record.OriginalAssetRef,
		}
		data, err := payload.Marshal()
		if err != nil {
			return err
		}

		revert, err := s.revertDescriptor(input)
		if err != nil {
			return err
		}

		// Publishing inside the transaction keeps the burn and the send in
		// lockstep: a publish failure rolls the burn back.
		messageID, err = s.relay.Send(ctx, input.DestinationChainID, domain.MessageKindTransfer, data, revert)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrTransferFailed, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	logger.InfoCtx(ctx, "Outbound transfer sent",
		zap.String("tokenID", input.TokenID.String()),
		zap.Uint64("destChainID", uint64(input.DestinationChainID)),
		zap.String("messageID", messageID),
	)
	return messageID, nil
}

// revertDescriptor builds the state needed to restore the asset to the
// caller if the destination rejects the transfer
func (s *sender) revertDescriptor(input Input) (*wire.RevertDescriptor, error) {
	state := &wire.RevertState{
		Sender:        input.Caller,
		SenderChainID: s.registry.LocalChainID(),
		Recipient:     input.Caller,
		GasLimit:      input.GasLimit,
	}
	message, err := state.Marshal()
	if err != nil {
		return nil, err
	}
	return &wire.RevertDescriptor{
		AbortAddress:  s.localContract,
		CallOnRevert:  true,
		RevertAddress: s.localContract,
		Message:       message,
		GasLimit:      input.GasLimit,
	}, nil
}
