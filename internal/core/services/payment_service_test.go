package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/property_ledger/internal/apperrors"
	"github.com/SscSPs/property_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/property_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/property_ledger/internal/core/ports/services"
	"github.com/SscSPs/property_ledger/internal/core/services"
	"github.com/SscSPs/property_ledger/internal/dto"
	"github.com/SscSPs/property_ledger/internal/repositories/memory"
	"github.com/SscSPs/property_ledger/internal/utils/accounting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// --- Mock ObligationWriter ---
type MockObligationWriter struct {
	mock.Mock
}

var _ portsrepo.ObligationWriter = (*MockObligationWriter)(nil)

func (m *MockObligationWriter) SaveObligation(ctx context.Context, obligation domain.Obligation) error {
	args := m.Called(ctx, obligation)
	return args.Error(0)
}

func (m *MockObligationWriter) SaveMigratedObligation(ctx context.Context, obligation domain.Obligation, payment *domain.ObligationPayment) error {
	args := m.Called(ctx, obligation, payment)
	return args.Error(0)
}

func (m *MockObligationWriter) UpdateObligationLocked(ctx context.Context, userID, obligationID string, mutate portsrepo.ObligationMutation) (*domain.Obligation, error) {
	args := m.Called(ctx, userID, obligationID, mutate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Obligation), args.Error(1)
}

func (m *MockObligationWriter) MarkOverdue(ctx context.Context, userID string, asOf time.Time) (int64, error) {
	args := m.Called(ctx, userID, asOf)
	return args.Get(0).(int64), args.Error(1)
}

type PaymentServiceTestSuite struct {
	suite.Suite
	store       *memory.Store
	obligations portssvc.ObligationSvcFacade
	service     portssvc.PaymentSvc
	ctx         context.Context
}

func (s *PaymentServiceTestSuite) SetupTest() {
	s.store = newSeededStore()
	calc := accounting.NewCalculator(nil, accounting.DefaultMinorUnits)
	s.obligations = services.NewObligationService(s.store, s.store, s.store, calc, withFixedClock())
	s.service = services.NewPaymentService(s.store, s.store, s.store, calc, withFixedClock())
	s.ctx = context.Background()
}

func TestPaymentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}

func (s *PaymentServiceTestSuite) TestFullRentPaymentSettlesWithContractCommission() {
	ob := createObligation(s.T(), s.obligations, testContract, "rent", "2024-03", "2024-03-10", "100000")

	paid, err := s.service.ApplyPayment(s.ctx, testUser, ob.ObligationID, payment("100000", "2024-03-08"))
	s.Require().NoError(err)

	s.Equal(domain.StatusPaid, paid.Status)
	assertMoney(s.T(), "100000", paid.PaidAmount)
	assertMoney(s.T(), "0.10", paid.CommissionRate)
	assertMoney(s.T(), "10000", paid.CommissionAmount)
	assertMoney(s.T(), "90000", paid.OwnerAmount)
	assertMoney(s.T(), "90000", paid.OwnerImpact)
	assertMoney(s.T(), "10000", paid.AgencyImpact)
	s.Equal(fixedNow, paid.LastUpdatedAt)
}

func (s *PaymentServiceTestSuite) TestOwnerRateUsedWhenContractHasNone() {
	ob := createObligation(s.T(), s.obligations, testContractNoRate, "rent", "2024-03", "2024-03-10", "100000")

	paid, err := s.service.ApplyPayment(s.ctx, testUser, ob.ObligationID, payment("100000", "2024-03-08"))
	s.Require().NoError(err)
	assertMoney(s.T(), "0.08", paid.CommissionRate)
	assertMoney(s.T(), "8000", paid.CommissionAmount)
	assertMoney(s.T(), "92000", paid.OwnerImpact)
}

func (s *PaymentServiceTestSuite) TestPartialThenFinalPayment() {
	ob := createObligation(s.T(), s.obligations, testContract, "rent", "2024-04", "2024-04-20", "50000")

	partial, err := s.service.ApplyPayment(s.ctx, testUser, ob.ObligationID, payment("30000", "2024-04-02"))
	s.Require().NoError(err)
	s.Equal(domain.StatusPending, partial.Status)
	s.True(partial.IsPartiallyPaid())
	assertMoney(s.T(), "30000", partial.PaidAmount)
	assertMoney(s.T(), "0", partial.OwnerImpact)

	final, err := s.service.ApplyPayment(s.ctx, testUser, ob.ObligationID, payment("20000", "2024-04-10"))
	s.Require().NoError(err)
	s.Equal(domain.StatusPaid, final.Status)
	assertMoney(s.T(), "50000", final.PaidAmount)

	payments, err := s.store.FindPaymentsByObligationID(s.ctx, testUser, ob.ObligationID)
	s.Require().NoError(err)
	s.Len(payments, 2)
	assertMoney(s.T(), "50000", domain.SumPayments(payments))
}

func (s *PaymentServiceTestSuite) TestOverpaymentRejectedWithoutSideEffects() {
	ob := createObligation(s.T(), s.obligations, testContract, "rent", "2024-04", "2024-04-20", "50000")

	_, err := s.service.ApplyPayment(s.ctx, testUser, ob.ObligationID, payment("60000", "2024-04-02"))
	s.ErrorIs(err, apperrors.ErrOverpayment)

	stored, err := s.store.FindObligationByID(s.ctx, testUser, ob.ObligationID)
	s.Require().NoError(err)
	assertMoney(s.T(), "0", stored.PaidAmount)
	s.Equal(domain.StatusPending, stored.Status)
	s.Equal(int64(1), stored.Version)

	payments, err := s.store.FindPaymentsByObligationID(s.ctx, testUser, ob.ObligationID)
	s.Require().NoError(err)
	s.Empty(payments)
}

func (s *PaymentServiceTestSuite) TestPaymentOnPaidObligationRejected() {
	ob := createObligation(s.T(), s.obligations, testContract, "rent", "2024-04", "2024-04-20", "50000")
	_, err := s.service.ApplyPayment(s.ctx, testUser, ob.ObligationID, payment("50000", "2024-04-02"))
	s.Require().NoError(err)

	_, err = s.service.ApplyPayment(s.ctx, testUser, ob.ObligationID, payment("1", "2024-04-03"))
	s.ErrorIs(err, apperrors.ErrOverpayment)
}

func (s *PaymentServiceTestSuite) TestExpensePaymentDebitsOwner() {
	ob := createObligation(s.T(), s.obligations, testContract, "expenses", "2024-03", "2024-03-15", "20000")

	paid, err := s.service.ApplyPayment(s.ctx, testUser, ob.ObligationID, payment("20000", "2024-03-12"))
	s.Require().NoError(err)
	s.Equal(domain.StatusPaid, paid.Status)
	assertMoney(s.T(), "0", paid.CommissionAmount)
	assertMoney(s.T(), "-20000", paid.OwnerImpact)
	assertMoney(s.T(), "0", paid.AgencyImpact)
}

func (s *PaymentServiceTestSuite) TestPaymentSettlesOverdueObligation() {
	ob := createObligation(s.T(), s.obligations, testContract, "rent", "2024-02", "2024-02-10", "1000")
	count, err := s.store.MarkOverdue(s.ctx, testUser, fixedNow)
	s.Require().NoError(err)
	s.Equal(int64(1), count)

	paid, err := s.service.ApplyPayment(s.ctx, testUser, ob.ObligationID, payment("1000", "2024-04-15"))
	s.Require().NoError(err)
	s.Equal(domain.StatusPaid, paid.Status)
}

func (s *PaymentServiceTestSuite) TestValidationErrors() {
	ob := createObligation(s.T(), s.obligations, testContract, "rent", "2024-04", "2024-04-20", "50000")
	ref := "gw-123"

	tests := []struct {
		name string
		req  dto.ApplyPaymentRequest
	}{
		{name: "zero amount", req: payment("0", "2024-04-02")},
		{name: "negative amount", req: payment("-5", "2024-04-02")},
		{name: "unknown method", req: dto.ApplyPaymentRequest{Amount: decPtr("10"), PaymentDate: "2024-04-02", Method: "cheque"}},
		{name: "missing date", req: dto.ApplyPaymentRequest{Amount: decPtr("10"), Method: "cash", Reference: &ref}},
		{name: "malformed date", req: dto.ApplyPaymentRequest{Amount: decPtr("10"), PaymentDate: "02/04/2024", Method: "cash"}},
		{name: "missing amount", req: dto.ApplyPaymentRequest{PaymentDate: "2024-04-02", Method: "cash"}},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.ApplyPayment(s.ctx, testUser, ob.ObligationID, tt.req)
			s.ErrorIs(err, apperrors.ErrValidation)
		})
	}
}

func (s *PaymentServiceTestSuite) TestUnknownObligation() {
	_, err := s.service.ApplyPayment(s.ctx, testUser, "missing", payment("10", "2024-04-02"))
	s.ErrorIs(err, apperrors.ErrNotFound)

	ob := createObligation(s.T(), s.obligations, testContract, "rent", "2024-04", "2024-04-20", "50000")
	_, err = s.service.ApplyPayment(s.ctx, otherUser, ob.ObligationID, payment("10", "2024-04-02"))
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *PaymentServiceTestSuite) TestReferenceAndNotesStored() {
	ob := createObligation(s.T(), s.obligations, testContract, "service", "2024-04", "2024-04-20", "700")
	ref := "gw-123"
	_, err := s.service.ApplyPayment(s.ctx, testUser, ob.ObligationID, dto.ApplyPaymentRequest{
		Amount: decPtr("700"), PaymentDate: "2024-04-02", Method: "gateway", Reference: &ref, Notes: " via portal ",
	})
	s.Require().NoError(err)

	payments, err := s.store.FindPaymentsByObligationID(s.ctx, testUser, ob.ObligationID)
	s.Require().NoError(err)
	s.Require().Len(payments, 1)
	s.Equal(domain.MethodGateway, payments[0].Method)
	s.Require().NotNil(payments[0].Reference)
	s.Equal(ref, *payments[0].Reference)
	s.Equal("via portal", payments[0].Notes)
	s.Equal(testUser, payments[0].CreatedBy)
}

// Ten concurrent payments of 10000 against 50000: exactly five land.
func (s *PaymentServiceTestSuite) TestConcurrentPaymentsDoNotLoseUpdates() {
	ob := createObligation(s.T(), s.obligations, testContract, "rent", "2024-04", "2024-04-20", "50000")

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.service.ApplyPayment(s.ctx, testUser, ob.ObligationID, payment("10000", fmt.Sprintf("2024-04-%02d", i+1)))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.ErrorIs(err, apperrors.ErrOverpayment)
	}
	s.Equal(5, succeeded)

	stored, err := s.store.FindObligationByID(s.ctx, testUser, ob.ObligationID)
	s.Require().NoError(err)
	assertMoney(s.T(), "50000", stored.PaidAmount)
	s.Equal(domain.StatusPaid, stored.Status)

	payments, err := s.store.FindPaymentsByObligationID(s.ctx, testUser, ob.ObligationID)
	s.Require().NoError(err)
	s.Len(payments, 5)
	assertMoney(s.T(), "50000", domain.SumPayments(payments))
}

func TestApplyPayment_RetriesConflictOnce(t *testing.T) {
	repo := new(MockObligationWriter)
	svc := services.NewPaymentService(repo, nil, nil, nil, withFixedClock())
	settled := &domain.Obligation{ObligationID: "ob-1", Status: domain.StatusPending, PaidAmount: dec("10")}

	repo.On("UpdateObligationLocked", mock.Anything, testUser, "ob-1", mock.Anything).
		Return(nil, fmt.Errorf("%w: version moved", apperrors.ErrConflict)).Once()
	repo.On("UpdateObligationLocked", mock.Anything, testUser, "ob-1", mock.Anything).
		Return(settled, nil).Once()

	got, err := svc.ApplyPayment(context.Background(), testUser, "ob-1", payment("10", "2024-04-02"))
	require.NoError(t, err)
	assert.Same(t, settled, got)
	repo.AssertNumberOfCalls(t, "UpdateObligationLocked", 2)
}

func TestApplyPayment_SecondConflictSurfaces(t *testing.T) {
	repo := new(MockObligationWriter)
	svc := services.NewPaymentService(repo, nil, nil, nil, withFixedClock())

	repo.On("UpdateObligationLocked", mock.Anything, testUser, "ob-1", mock.Anything).
		Return(nil, fmt.Errorf("%w: version moved", apperrors.ErrConflict))

	_, err := svc.ApplyPayment(context.Background(), testUser, "ob-1", payment("10", "2024-04-02"))
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	repo.AssertNumberOfCalls(t, "UpdateObligationLocked", 2)
}

func TestApplyPayment_OverpaymentNotRetried(t *testing.T) {
	repo := new(MockObligationWriter)
	svc := services.NewPaymentService(repo, nil, nil, nil, withFixedClock())

	repo.On("UpdateObligationLocked", mock.Anything, testUser, "ob-1", mock.Anything).
		Return(nil, apperrors.ErrOverpayment)

	_, err := svc.ApplyPayment(context.Background(), testUser, "ob-1", payment("10", "2024-04-02"))
	assert.ErrorIs(t, err, apperrors.ErrOverpayment)
	repo.AssertNumberOfCalls(t, "UpdateObligationLocked", 1)
}
