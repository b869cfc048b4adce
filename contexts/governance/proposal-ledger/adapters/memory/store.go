package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"parkpulse/contexts/governance/proposal-ledger/domain/entities"
	domainerrors "parkpulse/contexts/governance/proposal-ledger/domain/errors"
	"parkpulse/contexts/governance/proposal-ledger/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store is the in-memory ledger used for tests and local wiring. A single
// store mutex provides the per-proposal atomicity contract of ports.TxRunner;
// transactional mutations are staged and applied only when the scope function
// returns nil.
type Store struct {
	mu sync.RWMutex

	lastProposalID uint64
	proposals      map[uint64]entities.Proposal
	votes          map[uint64]map[string]bool
	donations      map[uint64][]entities.Donation
	donorTotals    map[uint64]map[string]uint64
	outbox         []outboxRecord
}

func NewStore() *Store {
	return &Store{
		proposals:   make(map[uint64]entities.Proposal),
		votes:       make(map[uint64]map[string]bool),
		donations:   make(map[uint64][]entities.Donation),
		donorTotals: make(map[uint64]map[string]uint64),
	}
}

func (s *Store) CreateProposal(_ context.Context, proposal entities.Proposal) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastProposalID++
	proposal.ID = s.lastProposalID
	s.proposals[proposal.ID] = proposal
	return proposal.ID, nil
}

func (s *Store) InProposalTx(_ context.Context, proposalID uint64, fn func(tx ports.ProposalTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{store: s, proposalID: proposalID}
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

func (s *Store) GetProposal(_ context.Context, proposalID uint64) (entities.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	proposal, ok := s.proposals[proposalID]
	if !ok {
		return entities.Proposal{}, domainerrors.ErrProposalNotFound
	}
	return proposal, nil
}

func (s *Store) ListProposalIDsByStatus(_ context.Context, status entities.ProposalStatus) ([]uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]uint64, 0)
	for id, proposal := range s.proposals {
		if proposal.Status == status {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *Store) CountProposals(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastProposalID, nil
}

func (s *Store) GetVote(_ context.Context, proposalID uint64, voter string) (bool, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	choice, ok := s.votes[proposalID][strings.TrimSpace(voter)]
	return choice, ok, nil
}

func (s *Store) ListDonations(_ context.Context, proposalID uint64) ([]entities.Donation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Donation, len(s.donations[proposalID]))
	copy(items, s.donations[proposalID])
	return items, nil
}

func (s *Store) GetDonorTotal(_ context.Context, proposalID uint64, donor string) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.donorTotals[proposalID][strings.TrimSpace(donor)], nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	createdAt := envelope.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	s.outbox = append(s.outbox, outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    strings.TrimSpace(envelope.EventType),
			PartitionKey: strings.TrimSpace(envelope.PartitionKey),
			Payload:      payload,
			CreatedAt:    createdAt,
		},
	})
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0)
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		items = append(items, row.message)
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.outbox {
		if s.outbox[i].message.OutboxID == strings.TrimSpace(outboxID) {
			s.outbox[i].published = true
			return nil
		}
	}
	return domainerrors.ErrConflict
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// memTx stages mutations under the store lock and applies them on commit.
// A scope function returning an error discards all staged writes.
type memTx struct {
	store      *Store
	proposalID uint64

	staged         *entities.Proposal
	stagedVotes    map[string]bool
	stagedDonation []entities.Donation
}

func (tx *memTx) Proposal() (entities.Proposal, error) {
	if tx.staged != nil {
		return *tx.staged, nil
	}
	proposal, ok := tx.store.proposals[tx.proposalID]
	if !ok {
		return entities.Proposal{}, domainerrors.ErrProposalNotFound
	}
	return proposal, nil
}

func (tx *memTx) SaveProposal(proposal entities.Proposal) error {
	if _, ok := tx.store.proposals[tx.proposalID]; !ok {
		return domainerrors.ErrProposalNotFound
	}
	proposal.ID = tx.proposalID
	tx.staged = &proposal
	return nil
}

func (tx *memTx) HasVoted(voter string) (bool, error) {
	voter = strings.TrimSpace(voter)
	if _, ok := tx.stagedVotes[voter]; ok {
		return true, nil
	}
	_, ok := tx.store.votes[tx.proposalID][voter]
	return ok, nil
}

func (tx *memTx) RecordVote(voter string, choice bool) error {
	voted, err := tx.HasVoted(voter)
	if err != nil {
		return err
	}
	if voted {
		return domainerrors.ErrAlreadyVoted
	}
	if tx.stagedVotes == nil {
		tx.stagedVotes = make(map[string]bool)
	}
	tx.stagedVotes[strings.TrimSpace(voter)] = choice
	return nil
}

func (tx *memTx) AppendDonation(donation entities.Donation) error {
	donation.ProposalID = tx.proposalID
	donation.Donor = strings.TrimSpace(donation.Donor)
	tx.stagedDonation = append(tx.stagedDonation, donation)
	return nil
}

func (tx *memTx) commit() {
	s := tx.store
	if tx.staged != nil {
		s.proposals[tx.proposalID] = *tx.staged
	}
	if len(tx.stagedVotes) > 0 {
		if s.votes[tx.proposalID] == nil {
			s.votes[tx.proposalID] = make(map[string]bool)
		}
		for voter, choice := range tx.stagedVotes {
			s.votes[tx.proposalID][voter] = choice
		}
	}
	for _, donation := range tx.stagedDonation {
		s.donations[tx.proposalID] = append(s.donations[tx.proposalID], donation)
		if s.donorTotals[tx.proposalID] == nil {
			s.donorTotals[tx.proposalID] = make(map[string]uint64)
		}
		s.donorTotals[tx.proposalID][donation.Donor] += donation.Amount
	}
}
