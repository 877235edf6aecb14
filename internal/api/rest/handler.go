package rest

import (
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/holiman/uint256"

	"github.com/feral-file/ff-portal/internal/domain"
	"github.com/feral-file/ff-portal/internal/mint"
	"github.com/feral-file/ff-portal/internal/registry"
	"github.com/feral-file/ff-portal/internal/swap"
	"github.com/feral-file/ff-portal/internal/tokens"
	"github.com/feral-file/ff-portal/internal/transfer"
)

// Handler defines the interface for REST API handlers
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// MintAsset creates a native asset on the local ledger
	// POST /api/v1/assets
	MintAsset(c *gin.Context)

	// InitiateTransfer starts an outbound transfer for an owned asset
	// POST /api/v1/transfers
	InitiateTransfer(c *gin.Context)

	// DepositAndForward runs the gas-abstraction deposit path
	// POST /api/v1/deposits
	DepositAndForward(c *gin.Context)

	// GetAsset retrieves an asset's origin record
	// GET /api/v1/assets/:token_id
	GetAsset(c *gin.Context)

	// SetConnectedContract sets the trusted counterparty for a chain (authority only)
	// PUT /api/v1/admin/connected-contracts/:chain_id
	SetConnectedContract(c *gin.Context)

	// UpdateMetadata updates an asset's mutable metadata pointer (authority only)
	// PUT /api/v1/admin/assets/:token_id/metadata
	UpdateMetadata(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	registry  registry.Registry
	directory registry.Directory
	ledger    tokens.Ledger
	minter    mint.Minter
	transfers transfer.Sender
	router    swap.Router
}

// NewHandler creates a new REST API handler
func NewHandler(reg registry.Registry, dir registry.Directory, ledger tokens.Ledger, minter mint.Minter, transfers transfer.Sender, router swap.Router) Handler {
	return &handler{
		registry:  reg,
		directory: dir,
		ledger:    ledger,
		minter:    minter,
		transfers: transfers,
		router:    router,
	}
}

// MintAsset creates a native asset on the local ledger
func (h *handler) MintAsset(c *gin.Context) {
	var req MintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	assetRef, err := domain.AssetRefFromHex(req.AssetRef)
	if err != nil {
		respondBadRequest(c, "Invalid asset reference", err.Error())
		return
	}
	owner, err := domain.AssetRefFromHex(req.Owner)
	if err != nil {
		respondBadRequest(c, "Invalid owner reference", err.Error())
		return
	}

	var doc []byte
	if len(req.Metadata) > 0 {
		doc, err = json.Marshal(req.Metadata)
		if err != nil {
			respondBadRequest(c, "Invalid metadata document", err.Error())
			return
		}
	}

	record, err := h.minter.Mint(c.Request.Context(), mint.Input{
		AssetRef:    assetRef,
		Owner:       owner,
		MetadataURI: req.MetadataURI,
		MetadataDoc: doc,
		BlockHeight: req.BlockHeight,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, AssetResponse{
		TokenID:          record.TokenID.String(),
		OriginalAssetRef: record.OriginalAssetRef.String(),
		CollectionRef:    string(record.CollectionRef),
		OriginChainID:    uint64(record.OriginChainID),
		IsNative:         record.IsNative,
		MetadataURI:      record.MetadataURI,
		CreatedAtBlock:   record.CreatedAtBlock,
		Owner:            owner.String(),
	})
}

// InitiateTransfer starts an outbound transfer for an owned asset
func (h *handler) InitiateTransfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	caller, err := domain.AssetRefFromHex(req.Caller)
	if err != nil {
		respondBadRequest(c, "Invalid caller reference", err.Error())
		return
	}
	tokenID, err := domain.TokenIDFromHex(req.TokenID)
	if err != nil {
		respondBadRequest(c, "Invalid token id", err.Error())
		return
	}
	recipient, err := domain.AssetRefFromHex(req.Recipient)
	if err != nil {
		respondBadRequest(c, "Invalid recipient reference", err.Error())
		return
	}

	messageID, err := h.transfers.Initiate(c.Request.Context(), transfer.Input{
		Caller:             caller,
		TokenID:            tokenID,
		DestinationChainID: domain.ChainID(req.DestinationChainID),
		RecipientRef:       recipient,
		GasLimit:           req.GasLimit,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, TransferResponse{MessageID: messageID})
}

// DepositAndForward runs the gas-abstraction deposit path
func (h *handler) DepositAndForward(c *gin.Context) {
	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	sender, err := domain.AssetRefFromHex(req.Sender)
	if err != nil {
		respondBadRequest(c, "Invalid sender reference", err.Error())
		return
	}
	depositAsset, err := domain.AssetRefFromHex(req.DepositAsset)
	if err != nil {
		respondBadRequest(c, "Invalid deposit asset reference", err.Error())
		return
	}
	targetAsset, err := domain.AssetRefFromHex(req.TargetAsset)
	if err != nil {
		respondBadRequest(c, "Invalid target asset reference", err.Error())
		return
	}
	recipient, err := domain.AssetRefFromHex(req.Recipient)
	if err != nil {
		respondBadRequest(c, "Invalid recipient reference", err.Error())
		return
	}
	amount, err := uint256.FromDecimal(req.DepositAmount)
	if err != nil {
		respondBadRequest(c, "Invalid deposit amount", err.Error())
		return
	}
	var callData []byte
	if req.CallData != "" {
		callData, err = hex.DecodeString(strings.TrimPrefix(req.CallData, "0x"))
		if err != nil {
			respondBadRequest(c, "Invalid call data", err.Error())
			return
		}
	}

	forwarded, err := h.router.DepositAndForward(c.Request.Context(), swap.DepositInput{
		Sender:             sender,
		SenderChainID:      domain.ChainID(req.SenderChainID),
		DepositAssetRef:    depositAsset,
		DepositAmount:      amount,
		TargetAssetRef:     targetAsset,
		DestinationChainID: domain.ChainID(req.DestinationChainID),
		Recipient:          recipient,
		CallData:           callData,
		GasLimit:           req.GasLimit,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, DepositResponse{
		MessageID: forwarded.MessageID,
		NetAmount: forwarded.NetAmount.Dec(),
		FeeAsset:  forwarded.FeeAssetRef.String(),
		FeeAmount: forwarded.FeeAmount.Dec(),
	})
}

// GetAsset retrieves an asset's origin record
func (h *handler) GetAsset(c *gin.Context) {
	tokenID, err := domain.TokenIDFromHex(c.Param("token_id"))
	if err != nil {
		respondBadRequest(c, "Invalid token id", err.Error())
		return
	}

	record, err := h.registry.Get(c.Request.Context(), tokenID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	resp := AssetResponse{
		TokenID:          record.TokenID.String(),
		OriginalAssetRef: record.OriginalAssetRef.String(),
		CollectionRef:    string(record.CollectionRef),
		OriginChainID:    uint64(record.OriginChainID),
		IsNative:         record.IsNative,
		MetadataURI:      record.MetadataURI,
		CreatedAtBlock:   record.CreatedAtBlock,
	}
	if owner, err := h.ledger.OwnerOf(c.Request.Context(), tokenID); err == nil && owner != nil {
		resp.Owner = owner.String()
	}

	c.JSON(http.StatusOK, resp)
}

// SetConnectedContract sets the trusted counterparty for a chain
func (h *handler) SetConnectedContract(c *gin.Context) {
	chainID, err := parseChainID(c.Param("chain_id"))
	if err != nil {
		respondBadRequest(c, "Invalid chain id", err.Error())
		return
	}

	var req ConnectedContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	caller, err := domain.AssetRefFromHex(req.Caller)
	if err != nil {
		respondBadRequest(c, "Invalid caller reference", err.Error())
		return
	}
	contractRef, err := domain.AssetRefFromHex(req.ContractRef)
	if err != nil {
		respondBadRequest(c, "Invalid contract reference", err.Error())
		return
	}

	if err := h.directory.SetConnectedContract(c.Request.Context(), caller, chainID, contractRef); err != nil {
		respondDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UpdateMetadata updates an asset's mutable metadata pointer
func (h *handler) UpdateMetadata(c *gin.Context) {
	tokenID, err := domain.TokenIDFromHex(c.Param("token_id"))
	if err != nil {
		respondBadRequest(c, "Invalid token id", err.Error())
		return
	}

	var req MetadataUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	caller, err := domain.AssetRefFromHex(req.Caller)
	if err != nil {
		respondBadRequest(c, "Invalid caller reference", err.Error())
		return
	}

	var doc []byte
	if len(req.Metadata) > 0 {
		doc, err = json.Marshal(req.Metadata)
		if err != nil {
			respondBadRequest(c, "Invalid metadata document", err.Error())
			return
		}
	}

	if err := h.registry.UpdateMetadata(c.Request.Context(), caller, tokenID, req.MetadataURI, doc); err != nil {
		respondDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
