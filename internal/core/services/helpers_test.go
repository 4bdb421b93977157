package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/property_ledger/internal/core/domain"
	"github.com/SscSPs/property_ledger/internal/core/services"
	"github.com/SscSPs/property_ledger/internal/dto"
	"github.com/SscSPs/property_ledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testUser           = "agency-1"
	otherUser          = "agency-2"
	testOwner          = "owner-1"
	testApartment      = "apt-1"
	testContract       = "contract-1" // 10% commission on the contract
	testContractNoRate = "contract-2" // falls back to the owner's 8%
)

// fixedNow is the clock of every service under test.
var fixedNow = time.Date(2024, 4, 15, 10, 30, 0, 0, time.UTC)

func withFixedClock() services.ServiceOption {
	return services.WithClock(func() time.Time { return fixedNow })
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func assertMoney(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, dec(expected).Equal(actual), append([]any{"expected %s, got %s", expected, actual.String()}, msgAndArgs...)...)
}

func newSeededStore() *memory.Store {
	store := memory.NewStore()
	apt := testApartment
	contractRate := dec("0.10")
	ownerRate := dec("0.08")
	store.AddOwner(domain.Owner{OwnerID: testOwner, UserID: testUser, CommissionPercentage: &ownerRate})
	store.AddContract(domain.ContractTerms{ContractID: testContract, UserID: testUser, ApartmentID: &apt, OwnerID: testOwner, CommissionPercentage: &contractRate})
	store.AddContract(domain.ContractTerms{ContractID: testContractNoRate, UserID: testUser, ApartmentID: &apt, OwnerID: testOwner})
	return store
}

func createObligation(t *testing.T, svc interface {
	CreateObligation(ctx context.Context, userID string, req dto.CreateObligationRequest) (*domain.Obligation, error)
}, contractID, obType, period, dueDate, amount string) *domain.Obligation {
	t.Helper()
	ob, err := svc.CreateObligation(context.Background(), testUser, dto.CreateObligationRequest{
		ContractID: contractID,
		Type:       obType,
		Period:     period,
		DueDate:    dueDate,
		Amount:     decPtr(amount),
	})
	require.NoError(t, err)
	return ob
}

func payment(amount, date string) dto.ApplyPaymentRequest {
	return dto.ApplyPaymentRequest{Amount: decPtr(amount), PaymentDate: date, Method: "transfer"}
}
