package rest

// MintRequest creates a native asset on the local ledger
type MintRequest struct {
	AssetRef    string         `json:"asset_ref" binding:"required"`
	Owner       string         `json:"owner" binding:"required"`
	MetadataURI string         `json:"metadata_uri" binding:"required"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	BlockHeight uint64         `json:"block_height"`
}

// TransferRequest initiates an outbound transfer
type TransferRequest struct {
	Caller             string `json:"caller" binding:"required"`
	TokenID            string `json:"token_id" binding:"required"`
	DestinationChainID uint64 `json:"destination_chain_id" binding:"required"`
	Recipient          string `json:"recipient" binding:"required"`
	GasLimit           uint64 `json:"gas_limit"`
}

// TransferResponse reports the relay message id of an accepted transfer
type TransferResponse struct {
	MessageID string `json:"message_id"`
}

// DepositRequest initiates a deposit-and-forward operation
type DepositRequest struct {
	Sender             string `json:"sender" binding:"required"`
	SenderChainID      uint64 `json:"sender_chain_id" binding:"required"`
	DepositAsset       string `json:"deposit_asset" binding:"required"`
	DepositAmount      string `json:"deposit_amount" binding:"required"`
	TargetAsset        string `json:"target_asset" binding:"required"`
	DestinationChainID uint64 `json:"destination_chain_id" binding:"required"`
	Recipient          string `json:"recipient" binding:"required"`
	CallData           string `json:"call_data"`
	GasLimit           uint64 `json:"gas_limit" binding:"required"`
}

// DepositResponse reports the outcome of a deposit-and-forward
type DepositResponse struct {
	MessageID string `json:"message_id"`
	NetAmount string `json:"net_amount"`
	FeeAsset  string `json:"fee_asset"`
	FeeAmount string `json:"fee_amount"`
}

// AssetResponse is the public view of an origin record
type AssetResponse struct {
	TokenID          string `json:"token_id"`
	OriginalAssetRef string `json:"original_asset_ref"`
	CollectionRef    string `json:"collection_ref"`
	OriginChainID    uint64 `json:"origin_chain_id"`
	IsNative         bool   `json:"is_native"`
	MetadataURI      string `json:"metadata_uri"`
	CreatedAtBlock   uint64 `json:"created_at_block"`
	Owner            string `json:"owner,omitempty"`
}

// ConnectedContractRequest sets the trusted counterparty for a chain
type ConnectedContractRequest struct {
	Caller      string `json:"caller" binding:"required"`
	ContractRef string `json:"contract_ref" binding:"required"`
}

// MetadataUpdateRequest updates an asset's mutable metadata pointer
type MetadataUpdateRequest struct {
	Caller      string         `json:"caller" binding:"required"`
	MetadataURI string         `json:"metadata_uri" binding:"required"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}
