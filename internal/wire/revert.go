package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/holiman/uint256"

	"github.com/feral-file/ff-portal/internal/domain"
)

// minRevertStateLength covers the fixed fields of a RevertState: a u16
// sender prefix, the sender chain id, a u16 asset prefix, a u32 amount
// width, gas limit, and two u16 prefixes (recipient, call data).
const minRevertStateLength = 2 + 8 + 2 + 4 + 8 + 2 + 2

// RevertState carries everything needed to unwind a failed forwarded
// operation without external lookups: who deposited, from which chain, what
// they deposited, and how the forward was parameterized.
type RevertState struct {
	Sender          domain.AssetRef
	SenderChainID   domain.ChainID
	DepositAssetRef domain.AssetRef
	DepositAmount   *uint256.Int
	GasLimit        uint64
	Recipient       domain.AssetRef
	CallData        []byte
}

// Marshal encodes the revert state into its binary wire form
func (s *RevertState) Marshal() ([]byte, error) {
	if len(s.Sender) > math.MaxUint16 || len(s.DepositAssetRef) > math.MaxUint16 ||
		len(s.Recipient) > math.MaxUint16 || len(s.CallData) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: revert state field too long", domain.ErrInvalidMessage)
	}

	amount := s.DepositAmount
	if amount == nil {
		amount = uint256.NewInt(0)
	}
	amountBytes := amount.Bytes()

	buf := new(bytes.Buffer)
	writeBytes(buf, s.Sender)
	mustWrite(buf, uint64(s.SenderChainID))
	writeBytes(buf, s.DepositAssetRef)
	mustWrite(buf, uint32(len(amountBytes))) // #nosec G115 -- at most 32 bytes
	buf.Write(amountBytes)
	mustWrite(buf, s.GasLimit)
	writeBytes(buf, s.Recipient)
	writeBytes(buf, s.CallData)
	return buf.Bytes(), nil
}

// UnmarshalRevertState decodes a binary revert state blob
func UnmarshalRevertState(data []byte) (*RevertState, error) {
	if len(data) < minRevertStateLength {
		return nil, fmt.Errorf("%w: revert state too short (%d bytes)", domain.ErrInvalidMessage, len(data))
	}
	r := bytes.NewReader(data)

	s := &RevertState{}
	sender, err := readBytes(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read revert sender", domain.ErrInvalidMessage)
	}
	s.Sender = sender

	var senderChain uint64
	if err := binary.Read(r, binary.BigEndian, &senderChain); err != nil {
		return nil, fmt.Errorf("%w: failed to read sender chain id", domain.ErrInvalidMessage)
	}
	s.SenderChainID = domain.ChainID(senderChain)

	asset, err := readBytes(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read deposit asset ref", domain.ErrInvalidMessage)
	}
	s.DepositAssetRef = asset

	var amountLen uint32
	if err := binary.Read(r, binary.BigEndian, &amountLen); err != nil {
		return nil, fmt.Errorf("%w: failed to read amount length", domain.ErrInvalidMessage)
	}
	if amountLen > 32 {
		return nil, fmt.Errorf("%w: amount wider than 256 bits", domain.ErrInvalidMessage)
	}
	amountBytes := make([]byte, amountLen)
	if amountLen > 0 {
		if n, err := r.Read(amountBytes); err != nil || n != int(amountLen) {
			return nil, fmt.Errorf("%w: failed to read amount", domain.ErrInvalidMessage)
		}
	}
	s.DepositAmount = new(uint256.Int).SetBytes(amountBytes)

	if err := binary.Read(r, binary.BigEndian, &s.GasLimit); err != nil {
		return nil, fmt.Errorf("%w: failed to read gas limit", domain.ErrInvalidMessage)
	}

	recipient, err := readBytes(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read revert recipient", domain.ErrInvalidMessage)
	}
	s.Recipient = recipient

	callData, err := readBytes(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read call data", domain.ErrInvalidMessage)
	}
	s.CallData = callData

	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", domain.ErrInvalidMessage, r.Len())
	}

	return s, nil
}

// RevertDescriptor tells the relay how to notify this side when the
// downstream chain rejects a forwarded call. Message is an opaque blob to the
// relay; the portal stores a marshalled RevertState there.
type RevertDescriptor struct {
	AbortAddress  domain.AssetRef `json:"abort_address"`
	CallOnRevert  bool            `json:"call_on_revert"`
	RevertAddress domain.AssetRef `json:"revert_address"`
	Message       []byte          `json:"message"`
	GasLimit      uint64          `json:"gas_limit"`
}
