package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/feral-file/ff-portal/internal/domain"
	"github.com/feral-file/ff-portal/internal/store/schema"
)

// memStore is an in-memory Store used by unit tests and local development.
// Atomic applies mutations to a deep copy and swaps it in on success, so
// rollback semantics match the PostgreSQL implementation.
type memStore struct {
	mu   *sync.Mutex
	data *memData
}

type memData struct {
	origins    map[string]*schema.OriginRecord
	replays    map[replayKey]struct{}
	contracts  map[uint64]*schema.ConnectedContract
	stats      map[string]*schema.CollectionStats
	tokens     map[string]*schema.LocalToken
	approvals  map[approvalKey]*schema.Approval
	messages   []*schema.ProcessedMessage
	messageIDs map[string]struct{}
}

type replayKey struct {
	sourceChainID uint64
	nonce         uint64
}

type approvalKey struct {
	owner, spender, asset string
}

// NewMemStore creates an empty in-memory store
func NewMemStore() Store {
	return &memStore{
		mu:   &sync.Mutex{},
		data: newMemData(),
	}
}

func newMemData() *memData {
	return &memData{
		origins:    make(map[string]*schema.OriginRecord),
		replays:    make(map[replayKey]struct{}),
		contracts:  make(map[uint64]*schema.ConnectedContract),
		stats:      make(map[string]*schema.CollectionStats),
		tokens:     make(map[string]*schema.LocalToken),
		approvals:  make(map[approvalKey]*schema.Approval),
		messageIDs: make(map[string]struct{}),
	}
}

func (d *memData) clone() *memData {
	c := newMemData()
	for k, v := range d.origins {
		rec := *v
		c.origins[k] = &rec
	}
	for k := range d.replays {
		c.replays[k] = struct{}{}
	}
	for k, v := range d.contracts {
		entry := *v
		c.contracts[k] = &entry
	}
	for k, v := range d.stats {
		stats := *v
		c.stats[k] = &stats
	}
	for k, v := range d.tokens {
		token := *v
		c.tokens[k] = &token
	}
	for k, v := range d.approvals {
		approval := *v
		c.approvals[k] = &approval
	}
	c.messages = append(c.messages, d.messages...)
	for k := range d.messageIDs {
		c.messageIDs[k] = struct{}{}
	}
	return c
}

// Atomic applies fn to a copy of the data and commits it only on success
func (s *memStore) Atomic(ctx context.Context, fn func(tx Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.data.clone()
	tx := &memStore{mu: &sync.Mutex{}, data: staged}
	if err := fn(tx); err != nil {
		return err
	}
	s.data = staged
	return nil
}

func (s *memStore) CreateOriginRecord(ctx context.Context, record *schema.OriginRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data.origins[record.TokenID]; exists {
		return fmt.Errorf("%w: token id %s", domain.ErrOriginExists, record.TokenID)
	}
	stored := *record
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	s.data.origins[record.TokenID] = &stored
	return nil
}

func (s *memStore) GetOriginRecord(ctx context.Context, tokenID string) (*schema.OriginRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.data.origins[tokenID]
	if !ok {
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

func (s *memStore) UpdateOriginMetadata(ctx context.Context, tokenID string, metadataURI string, metadataDigest *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.data.origins[tokenID]
	if !ok {
		return fmt.Errorf("%w: token id %s", domain.ErrOriginNotFound, tokenID)
	}
	record.MetadataURI = metadataURI
	if metadataDigest != nil {
		record.MetadataDigest = metadataDigest
	}
	record.UpdatedAt = time.Now()
	return nil
}

func (s *memStore) InsertReplayMarker(ctx context.Context, sourceChainID uint64, nonce uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := replayKey{sourceChainID: sourceChainID, nonce: nonce}
	if _, exists := s.data.replays[key]; exists {
		return fmt.Errorf("%w: source chain %d nonce %d", domain.ErrReplayDetected, sourceChainID, nonce)
	}
	s.data.replays[key] = struct{}{}
	return nil
}

func (s *memStore) UpsertConnectedContract(ctx context.Context, chainID uint64, contractRef string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.contracts[chainID] = &schema.ConnectedContract{
		ChainID:     chainID,
		ContractRef: contractRef,
		UpdatedAt:   time.Now(),
	}
	return nil
}

func (s *memStore) GetConnectedContract(ctx context.Context, chainID uint64) (*schema.ConnectedContract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.data.contracts[chainID]
	if !ok {
		return nil, nil
	}
	copied := *entry
	return &copied, nil
}

func (s *memStore) GetCollectionStats(ctx context.Context, collectionRef string) (*schema.CollectionStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats, ok := s.data.stats[collectionRef]
	if !ok {
		return nil, nil
	}
	copied := *stats
	return &copied, nil
}

func (s *memStore) ensureStats(collectionRef string) *schema.CollectionStats {
	stats, ok := s.data.stats[collectionRef]
	if !ok {
		stats = &schema.CollectionStats{CollectionRef: collectionRef}
		s.data.stats[collectionRef] = stats
	}
	return stats
}

func (s *memStore) NextTokenID(ctx context.Context, collectionRef string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := s.ensureStats(collectionRef)
	value := stats.NextTokenID
	stats.NextTokenID++
	return value, nil
}

func (s *memStore) NextOutboundNonce(ctx context.Context, collectionRef string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := s.ensureStats(collectionRef)
	value := stats.OutboundNonce
	stats.OutboundNonce++
	return value, nil
}

func (s *memStore) IncrementMintCounters(ctx context.Context, collectionRef string, native bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := s.ensureStats(collectionRef)
	stats.TotalMinted++
	if native {
		stats.NativeCount++
	}
	return nil
}

func (s *memStore) GetLocalToken(ctx context.Context, tokenID string) (*schema.LocalToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.data.tokens[tokenID]
	if !ok {
		return nil, nil
	}
	copied := *token
	return &copied, nil
}

func (s *memStore) UpsertLocalToken(ctx context.Context, token *schema.LocalToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *token
	stored.UpdatedAt = time.Now()
	s.data.tokens[token.TokenID] = &stored
	return nil
}

func (s *memStore) DeactivateLocalToken(ctx context.Context, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.data.tokens[tokenID]
	if !ok || !token.Live {
		return fmt.Errorf("%w: token %s is not live", domain.ErrTransferFailed, tokenID)
	}
	token.Live = false
	token.UpdatedAt = time.Now()
	return nil
}

func (s *memStore) UpsertApproval(ctx context.Context, approval *schema.Approval) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := approvalKey{owner: approval.OwnerRef, spender: approval.SpenderRef, asset: approval.AssetRef}
	stored := *approval
	stored.UpdatedAt = time.Now()
	s.data.approvals[key] = &stored
	return nil
}

func (s *memStore) GetApproval(ctx context.Context, ownerRef, spenderRef, assetRef string) (*schema.Approval, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	approval, ok := s.data.approvals[approvalKey{owner: ownerRef, spender: spenderRef, asset: assetRef}]
	if !ok {
		return nil, nil
	}
	copied := *approval
	return &copied, nil
}

func (s *memStore) RecordProcessedMessage(ctx context.Context, msg *schema.ProcessedMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data.messageIDs[msg.MessageID]; exists {
		return fmt.Errorf("%w: message %s already processed", domain.ErrReplayDetected, msg.MessageID)
	}
	stored := *msg
	stored.CreatedAt = time.Now()
	s.data.messageIDs[msg.MessageID] = struct{}{}
	s.data.messages = append(s.data.messages, &stored)
	return nil
}
