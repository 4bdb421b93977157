package services_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/SscSPs/property_ledger/internal/apperrors"
	"github.com/SscSPs/property_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/property_ledger/internal/core/ports/services"
	"github.com/SscSPs/property_ledger/internal/core/services"
	"github.com/SscSPs/property_ledger/internal/dto"
	"github.com/SscSPs/property_ledger/internal/repositories/memory"
	"github.com/SscSPs/property_ledger/internal/utils/accounting"
	"github.com/SscSPs/property_ledger/internal/utils/pagination"
	"github.com/stretchr/testify/suite"
)

type ObligationServiceTestSuite struct {
	suite.Suite
	store    *memory.Store
	service  portssvc.ObligationSvcFacade
	payments portssvc.PaymentSvc
	ctx      context.Context
}

func (s *ObligationServiceTestSuite) SetupTest() {
	s.store = newSeededStore()
	calc := accounting.NewCalculator(nil, accounting.DefaultMinorUnits)
	s.service = services.NewObligationService(s.store, s.store, s.store, calc, withFixedClock())
	s.payments = services.NewPaymentService(s.store, s.store, s.store, calc, withFixedClock())
	s.ctx = context.Background()
}

func TestObligationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ObligationServiceTestSuite))
}

func (s *ObligationServiceTestSuite) TestCreateObligation_Success() {
	ob, err := s.service.CreateObligation(s.ctx, testUser, dto.CreateObligationRequest{
		ContractID:  testContract,
		Type:        "rent",
		Description: "  March rent ",
		Period:      "2024-03",
		DueDate:     "2024-03-10",
		Amount:      decPtr("100000"),
	})
	s.Require().NoError(err)

	s.NotEmpty(ob.ObligationID)
	s.Equal(domain.ObligationRent, ob.Type)
	s.Equal(domain.StatusPending, ob.Status)
	s.Equal("March rent", ob.Description)
	s.Equal(testOwner, ob.OwnerID)
	s.Require().NotNil(ob.ApartmentID)
	s.Equal(testApartment, *ob.ApartmentID)
	s.Equal("2024-03-01", ob.Period.Format(dto.DateLayout))
	s.Equal(int64(1), ob.Version)
	s.Equal(fixedNow, ob.CreatedAt)
	assertMoney(s.T(), "0", ob.PaidAmount)

	stored, err := s.store.FindObligationByID(s.ctx, testUser, ob.ObligationID)
	s.Require().NoError(err)
	s.Equal(ob.ObligationID, stored.ObligationID)
}

func (s *ObligationServiceTestSuite) TestCreateObligation_PeriodAsFullDate() {
	ob := createObligation(s.T(), s.service, testContract, "expenses", "2024-03-17", "2024-03-20", "1500")
	s.Equal("2024-03-01", ob.Period.Format(dto.DateLayout))
}

func (s *ObligationServiceTestSuite) TestCreateObligation_ZeroAmountIsPaid() {
	ob := createObligation(s.T(), s.service, testContract, "rent", "2024-03", "2024-03-10", "0")
	s.Equal(domain.StatusPaid, ob.Status)
	assertMoney(s.T(), "0", ob.OwnerImpact)
	assertMoney(s.T(), "0.10", ob.CommissionRate)
}

func (s *ObligationServiceTestSuite) TestCreateObligation_ValidationErrors() {
	tests := []struct {
		name string
		req  dto.CreateObligationRequest
	}{
		{name: "missing contract", req: dto.CreateObligationRequest{Type: "rent", Period: "2024-03", DueDate: "2024-03-10", Amount: decPtr("1")}},
		{name: "unknown type", req: dto.CreateObligationRequest{ContractID: testContract, Type: "fine", Period: "2024-03", DueDate: "2024-03-10", Amount: decPtr("1")}},
		{name: "negative amount", req: dto.CreateObligationRequest{ContractID: testContract, Type: "rent", Period: "2024-03", DueDate: "2024-03-10", Amount: decPtr("-1")}},
		{name: "bad due date", req: dto.CreateObligationRequest{ContractID: testContract, Type: "rent", Period: "2024-03", DueDate: "10/03/2024", Amount: decPtr("1")}},
		{name: "bad period", req: dto.CreateObligationRequest{ContractID: testContract, Type: "rent", Period: "March", DueDate: "2024-03-10", Amount: decPtr("1")}},
		{name: "missing amount", req: dto.CreateObligationRequest{ContractID: testContract, Type: "rent", Period: "2024-03", DueDate: "2024-03-10"}},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.CreateObligation(s.ctx, testUser, tt.req)
			s.ErrorIs(err, apperrors.ErrValidation)
		})
	}
}

func (s *ObligationServiceTestSuite) TestCreateObligation_AbsentAmountIsNotZero() {
	for _, body := range []string{
		`{"contractID":"contract-1","type":"rent","period":"2024-03","dueDate":"2024-03-10"}`,
		`{"contractID":"contract-1","type":"rent","period":"2024-03","dueDate":"2024-03-10","amount":null}`,
	} {
		var req dto.CreateObligationRequest
		s.Require().NoError(json.Unmarshal([]byte(body), &req))

		_, err := s.service.CreateObligation(s.ctx, testUser, req)
		s.ErrorIs(err, apperrors.ErrValidation, body)
	}

	all, err := s.store.ListObligations(s.ctx, testUser, domain.ObligationFilter{})
	s.Require().NoError(err)
	s.Empty(all)
}

func (s *ObligationServiceTestSuite) TestCreateObligation_UnknownContract() {
	_, err := s.service.CreateObligation(s.ctx, testUser, dto.CreateObligationRequest{
		ContractID: "nope", Type: "rent", Period: "2024-03", DueDate: "2024-03-10", Amount: decPtr("100"),
	})
	s.ErrorIs(err, apperrors.ErrNotFound)

	_, err = s.service.CreateObligation(s.ctx, otherUser, dto.CreateObligationRequest{
		ContractID: testContract, Type: "rent", Period: "2024-03", DueDate: "2024-03-10", Amount: decPtr("100"),
	})
	s.ErrorIs(err, apperrors.ErrNotFound, "contracts of another agency are invisible")
}

func (s *ObligationServiceTestSuite) TestGetObligation_IncludesPayments() {
	ob := createObligation(s.T(), s.service, testContract, "rent", "2024-03", "2024-03-10", "50000")
	_, err := s.payments.ApplyPayment(s.ctx, testUser, ob.ObligationID, payment("30000", "2024-03-05"))
	s.Require().NoError(err)

	got, err := s.service.GetObligation(s.ctx, testUser, ob.ObligationID)
	s.Require().NoError(err)
	s.Require().Len(got.Payments, 1)
	assertMoney(s.T(), "30000", got.Payments[0].Amount)

	_, err = s.service.GetObligation(s.ctx, otherUser, ob.ObligationID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ObligationServiceTestSuite) TestListObligations_Filters() {
	createObligation(s.T(), s.service, testContract, "rent", "2024-01", "2024-01-10", "100")
	createObligation(s.T(), s.service, testContract, "rent", "2024-02", "2024-02-10", "100")
	createObligation(s.T(), s.service, testContract, "tax", "2024-02", "2024-02-20", "40")
	createObligation(s.T(), s.service, testContractNoRate, "rent", "2024-03", "2024-03-10", "100")

	all, err := s.service.ListObligations(s.ctx, testUser, dto.ListObligationsParams{})
	s.Require().NoError(err)
	s.Len(all, 4)
	for i := 1; i < len(all); i++ {
		s.False(all[i].Period.Before(all[i-1].Period), "ordered by period")
	}

	rent, err := s.service.ListObligations(s.ctx, testUser, dto.ListObligationsParams{Type: "rent", ContractID: testContract})
	s.Require().NoError(err)
	s.Len(rent, 2)

	feb, err := s.service.ListObligations(s.ctx, testUser, dto.ListObligationsParams{PeriodFrom: "2024-02", PeriodTo: "2024-02"})
	s.Require().NoError(err)
	s.Len(feb, 2)

	page, err := s.service.ListObligations(s.ctx, testUser, dto.ListObligationsParams{Limit: 1, Offset: 3})
	s.Require().NoError(err)
	s.Require().Len(page, 1)
	s.Equal(testContractNoRate, page[0].ContractID)

	none, err := s.service.ListObligations(s.ctx, otherUser, dto.ListObligationsParams{})
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *ObligationServiceTestSuite) TestListObligations_PageToken() {
	createObligation(s.T(), s.service, testContract, "rent", "2024-01", "2024-01-10", "100")
	createObligation(s.T(), s.service, testContract, "tax", "2024-01", "2024-01-10", "40")
	createObligation(s.T(), s.service, testContract, "rent", "2024-02", "2024-02-10", "100")

	seen := map[string]bool{}
	params := dto.ListObligationsParams{Limit: 2}
	for pages := 0; pages < 3; pages++ {
		page, err := s.service.ListObligations(s.ctx, testUser, params)
		s.Require().NoError(err)
		for _, ob := range page {
			s.False(seen[ob.ObligationID], "obligation returned twice")
			seen[ob.ObligationID] = true
		}
		if len(page) < params.Limit {
			break
		}
		last := page[len(page)-1]
		params.PageToken = pagination.EncodeObligationCursor(last.Period, last.DueDate, last.ObligationID)
	}
	s.Len(seen, 3)
}

func (s *ObligationServiceTestSuite) TestListObligations_InvalidParams() {
	_, err := s.service.ListObligations(s.ctx, testUser, dto.ListObligationsParams{Status: "late"})
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.service.ListObligations(s.ctx, testUser, dto.ListObligationsParams{PageToken: "not a token!"})
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.service.ListObligations(s.ctx, testUser, dto.ListObligationsParams{PeriodFrom: "2024-05", PeriodTo: "2024-01"})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ObligationServiceTestSuite) TestAdjustAmount_SettlesWhenCovered() {
	ob := createObligation(s.T(), s.service, testContract, "rent", "2024-03", "2024-03-10", "50000")
	_, err := s.payments.ApplyPayment(s.ctx, testUser, ob.ObligationID, payment("30000", "2024-03-05"))
	s.Require().NoError(err)

	notes := "discount agreed with tenant"
	adjusted, err := s.service.AdjustAmount(s.ctx, testUser, ob.ObligationID, dto.AdjustAmountRequest{Amount: decPtr("30000"), Notes: &notes})
	s.Require().NoError(err)
	s.Equal(domain.StatusPaid, adjusted.Status)
	assertMoney(s.T(), "3000", adjusted.CommissionAmount)
	assertMoney(s.T(), "27000", adjusted.OwnerImpact)
	s.Equal(notes, adjusted.Notes)
}

func (s *ObligationServiceTestSuite) TestAdjustAmount_ReopensPaidObligation() {
	ob := createObligation(s.T(), s.service, testContract, "rent", "2024-03", "2024-03-10", "100000")
	_, err := s.payments.ApplyPayment(s.ctx, testUser, ob.ObligationID, payment("100000", "2024-03-08"))
	s.Require().NoError(err)

	adjusted, err := s.service.AdjustAmount(s.ctx, testUser, ob.ObligationID, dto.AdjustAmountRequest{Amount: decPtr("120000")})
	s.Require().NoError(err)
	s.Equal(domain.StatusOverdue, adjusted.Status, "due date already passed")
	assertMoney(s.T(), "0", adjusted.OwnerImpact)
	assertMoney(s.T(), "0", adjusted.CommissionAmount)
	assertMoney(s.T(), "20000", adjusted.Outstanding())
}

func (s *ObligationServiceTestSuite) TestAdjustAmount_BelowPaidRejected() {
	ob := createObligation(s.T(), s.service, testContract, "rent", "2024-03", "2024-03-10", "50000")
	_, err := s.payments.ApplyPayment(s.ctx, testUser, ob.ObligationID, payment("30000", "2024-03-05"))
	s.Require().NoError(err)

	_, err = s.service.AdjustAmount(s.ctx, testUser, ob.ObligationID, dto.AdjustAmountRequest{Amount: decPtr("20000")})
	s.ErrorIs(err, apperrors.ErrValidation)

	stored, err := s.store.FindObligationByID(s.ctx, testUser, ob.ObligationID)
	s.Require().NoError(err)
	assertMoney(s.T(), "50000", stored.Amount)
}

func (s *ObligationServiceTestSuite) TestAdjustAmount_AbsentAmountRejected() {
	ob := createObligation(s.T(), s.service, testContract, "rent", "2024-03", "2024-03-10", "50000")

	var req dto.AdjustAmountRequest
	s.Require().NoError(json.Unmarshal([]byte(`{}`), &req))
	_, err := s.service.AdjustAmount(s.ctx, testUser, ob.ObligationID, req)
	s.ErrorIs(err, apperrors.ErrValidation)

	stored, err := s.store.FindObligationByID(s.ctx, testUser, ob.ObligationID)
	s.Require().NoError(err)
	assertMoney(s.T(), "50000", stored.Amount)
	s.Equal(domain.StatusPending, stored.Status)
	s.Equal(ob.Version, stored.Version)
}

func (s *ObligationServiceTestSuite) TestRecompute_IsIdempotentForSettledObligation() {
	ob := createObligation(s.T(), s.service, testContract, "rent", "2024-03", "2024-03-10", "100000")
	paid, err := s.payments.ApplyPayment(s.ctx, testUser, ob.ObligationID, payment("100000", "2024-03-08"))
	s.Require().NoError(err)

	recomputed, err := s.service.Recompute(s.ctx, testUser, ob.ObligationID)
	s.Require().NoError(err)
	s.Equal(domain.StatusPaid, recomputed.Status)
	s.True(paid.PersistedImpact().Equal(recomputed.PersistedImpact()))
	s.Equal(paid.Version+1, recomputed.Version)
}

func (s *ObligationServiceTestSuite) TestRecompute_NotFound() {
	_, err := s.service.Recompute(s.ctx, testUser, "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)
}
