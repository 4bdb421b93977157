// Package memory is an in-process implementation of the repository ports. One mutex
// serializes every obligation operation, which gives the same isolation the database row
// locks provide. Reference data has its own lock because mutations read it while the
// obligation lock is held.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/property_ledger/internal/apperrors"
	"github.com/SscSPs/property_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/property_ledger/internal/core/ports/repositories"
)

// Store keeps obligations, payments and the read-only context in memory.
type Store struct {
	mu          sync.Mutex
	obligations map[string]domain.Obligation
	payments    map[string][]domain.ObligationPayment // by obligation ID
	legacyIndex map[string]string                     // legacy payment ID -> obligation ID

	refMu     sync.RWMutex
	contracts map[string]domain.ContractTerms
	owners    map[string]domain.Owner
	legacy    []domain.LegacyPayment
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		obligations: map[string]domain.Obligation{},
		payments:    map[string][]domain.ObligationPayment{},
		legacyIndex: map[string]string{},
		contracts:   map[string]domain.ContractTerms{},
		owners:      map[string]domain.Owner{},
	}
}

var (
	_ portsrepo.ObligationRepositoryFacade = (*Store)(nil)
	_ portsrepo.ContractLookup             = (*Store)(nil)
	_ portsrepo.OwnerLookup                = (*Store)(nil)
	_ portsrepo.LegacyPaymentReader        = (*Store)(nil)
	_ portsrepo.HealthChecker              = (*Store)(nil)
)

// Provider returns a RepositoryProvider backed entirely by this store.
func (s *Store) Provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ObligationRepo: s,
		ContractRepo:   s,
		OwnerRepo:      s,
		LegacyRepo:     s,
		Health:         s,
	}
}

// AddContract seeds contract terms.
func (s *Store) AddContract(terms domain.ContractTerms) {
	s.refMu.Lock()
	defer s.refMu.Unlock()
	terms.ApartmentID = copyString(terms.ApartmentID)
	s.contracts[terms.ContractID] = terms
}

// AddOwner seeds an owner.
func (s *Store) AddOwner(owner domain.Owner) {
	s.refMu.Lock()
	defer s.refMu.Unlock()
	s.owners[owner.OwnerID] = owner
}

// AddLegacyPayment seeds a row of the legacy payments table.
func (s *Store) AddLegacyPayment(lp domain.LegacyPayment) {
	s.refMu.Lock()
	defer s.refMu.Unlock()
	s.legacy = append(s.legacy, lp)
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) FindContractTerms(_ context.Context, userID, contractID string) (*domain.ContractTerms, error) {
	s.refMu.RLock()
	defer s.refMu.RUnlock()
	terms, ok := s.contracts[contractID]
	if !ok || terms.UserID != userID {
		return nil, fmt.Errorf("%w: contract %s", apperrors.ErrNotFound, contractID)
	}
	terms.ApartmentID = copyString(terms.ApartmentID)
	return &terms, nil
}

func (s *Store) FindOwnerByID(_ context.Context, userID, ownerID string) (*domain.Owner, error) {
	s.refMu.RLock()
	defer s.refMu.RUnlock()
	owner, ok := s.owners[ownerID]
	if !ok || owner.UserID != userID {
		return nil, fmt.Errorf("%w: owner %s", apperrors.ErrNotFound, ownerID)
	}
	return &owner, nil
}

func (s *Store) ListLegacyPayments(context.Context) ([]domain.LegacyPayment, error) {
	s.refMu.RLock()
	defer s.refMu.RUnlock()
	out := make([]domain.LegacyPayment, len(s.legacy))
	copy(out, s.legacy)
	return out, nil
}

func (s *Store) FindObligationByID(_ context.Context, userID, obligationID string) (*domain.Obligation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ob, err := s.lookup(userID, obligationID)
	if err != nil {
		return nil, err
	}
	return &ob, nil
}

func (s *Store) FindPaymentsByObligationID(_ context.Context, userID, obligationID string) ([]domain.ObligationPayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.lookup(userID, obligationID); err != nil {
		return nil, err
	}
	payments := copyPayments(s.payments[obligationID])
	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].PaymentDate.Before(payments[j].PaymentDate)
	})
	return payments, nil
}

func (s *Store) ListObligations(_ context.Context, userID string, filter domain.ObligationFilter) ([]domain.Obligation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Obligation
	for _, ob := range s.obligations {
		if ob.UserID == userID && filter.Matches(&ob) {
			out = append(out, copyObligation(ob))
		}
	}
	sortObligations(out)

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return []domain.Obligation{}, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	if out == nil {
		out = []domain.Obligation{}
	}
	return out, nil
}

func (s *Store) ExistsByLegacyPaymentID(_ context.Context, legacyPaymentID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.legacyIndex[legacyPaymentID]
	return ok, nil
}

func (s *Store) SaveObligation(_ context.Context, ob domain.Obligation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(ob, nil)
}

func (s *Store) SaveMigratedObligation(_ context.Context, ob domain.Obligation, payment *domain.ObligationPayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(ob, payment)
}

func (s *Store) UpdateObligationLocked(_ context.Context, userID, obligationID string, mutate portsrepo.ObligationMutation) (*domain.Obligation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.lookup(userID, obligationID)
	if err != nil {
		return nil, err
	}
	working := copyObligation(current)
	payment, err := mutate(&working)
	if err != nil {
		return nil, err
	}
	if err := working.Validate(); err != nil {
		return nil, err
	}
	if working.Version != current.Version {
		return nil, fmt.Errorf("%w: obligation %s changed concurrently", apperrors.ErrConflict, obligationID)
	}
	if payment != nil {
		if err := payment.Validate(); err != nil {
			return nil, err
		}
		s.payments[obligationID] = append(s.payments[obligationID], copyPayment(*payment))
	}
	working.Version++
	working.Payments = nil
	s.obligations[obligationID] = copyObligation(working)
	return &working, nil
}

func (s *Store) MarkOverdue(_ context.Context, userID string, asOf time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for id, ob := range s.obligations {
		if userID != "" && ob.UserID != userID {
			continue
		}
		if !ob.CanMarkOverdue(asOf) {
			continue
		}
		ob.Status = domain.StatusOverdue
		ob.Version++
		ob.LastUpdatedAt = asOf
		ob.LastUpdatedBy = domain.OverdueSweepActor
		s.obligations[id] = ob
		count++
	}
	return count, nil
}

func (s *Store) LoadSettlementSnapshot(_ context.Context, userID string, q domain.SettlementQuery) (*domain.SettlementSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := &domain.SettlementSnapshot{AsOf: time.Now().UTC()}
	for _, ob := range s.obligations {
		if ob.UserID != userID || !q.Matches(&ob) {
			continue
		}
		if q.InPeriod(&ob) {
			snap.InPeriod = append(snap.InPeriod, copyObligation(ob))
		}
		if ob.Status == domain.StatusOverdue {
			snap.Overdue = append(snap.Overdue, copyObligation(ob))
		}
	}
	sortObligations(snap.InPeriod)
	sortObligations(snap.Overdue)
	return snap, nil
}

func (s *Store) lookup(userID, obligationID string) (domain.Obligation, error) {
	ob, ok := s.obligations[obligationID]
	if !ok || ob.UserID != userID {
		return domain.Obligation{}, fmt.Errorf("%w: obligation %s", apperrors.ErrNotFound, obligationID)
	}
	return copyObligation(ob), nil
}

func (s *Store) insert(ob domain.Obligation, payment *domain.ObligationPayment) error {
	if err := ob.Validate(); err != nil {
		return err
	}
	if _, exists := s.obligations[ob.ObligationID]; exists {
		return fmt.Errorf("%w: obligation %s", apperrors.ErrDuplicate, ob.ObligationID)
	}
	if ob.LegacyPaymentID != nil {
		if _, exists := s.legacyIndex[*ob.LegacyPaymentID]; exists {
			return fmt.Errorf("%w: legacy payment %s already migrated", apperrors.ErrDuplicate, *ob.LegacyPaymentID)
		}
	}
	if payment != nil {
		if err := payment.Validate(); err != nil {
			return err
		}
		s.payments[ob.ObligationID] = append(s.payments[ob.ObligationID], copyPayment(*payment))
	}
	if ob.LegacyPaymentID != nil {
		s.legacyIndex[*ob.LegacyPaymentID] = ob.ObligationID
	}
	if ob.Version == 0 {
		ob.Version = 1
	}
	ob.Payments = nil
	s.obligations[ob.ObligationID] = copyObligation(ob)
	return nil
}

func sortObligations(obs []domain.Obligation) {
	sort.Slice(obs, func(i, j int) bool {
		if !obs[i].Period.Equal(obs[j].Period) {
			return obs[i].Period.Before(obs[j].Period)
		}
		if !obs[i].DueDate.Equal(obs[j].DueDate) {
			return obs[i].DueDate.Before(obs[j].DueDate)
		}
		return obs[i].ObligationID < obs[j].ObligationID
	})
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyPayment(p domain.ObligationPayment) domain.ObligationPayment {
	p.Reference = copyString(p.Reference)
	return p
}

func copyPayments(in []domain.ObligationPayment) []domain.ObligationPayment {
	out := make([]domain.ObligationPayment, len(in))
	for i, p := range in {
		out[i] = copyPayment(p)
	}
	return out
}

func copyObligation(ob domain.Obligation) domain.Obligation {
	ob.ApartmentID = copyString(ob.ApartmentID)
	ob.LegacyPaymentID = copyString(ob.LegacyPaymentID)
	if ob.Payments != nil {
		ob.Payments = copyPayments(ob.Payments)
	}
	return ob
}
