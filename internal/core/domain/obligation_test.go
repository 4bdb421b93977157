package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/property_ledger/internal/apperrors"
	"github.com/SscSPs/property_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newObligation(amount, paid int64, status domain.ObligationStatus) *domain.Obligation {
	return &domain.Obligation{
		ObligationID: "ob-1",
		ContractID:   "contract-1",
		OwnerID:      "owner-1",
		Type:         domain.ObligationRent,
		Period:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:      time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Amount:       decimal.NewFromInt(amount),
		PaidAmount:   decimal.NewFromInt(paid),
		Status:       status,
	}
}

func TestParseObligationType(t *testing.T) {
	got, err := domain.ParseObligationType(" Rent ")
	require.NoError(t, err)
	assert.Equal(t, domain.ObligationRent, got)

	_, err = domain.ParseObligationType("alquiler")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestParsePaymentMethod(t *testing.T) {
	for _, m := range []string{"transfer", "cash", "card", "gateway"} {
		got, err := domain.ParsePaymentMethod(m)
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentMethod(m), got)
	}

	_, err := domain.ParsePaymentMethod("efectivo")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestObligation_RegisterPayment(t *testing.T) {
	tests := []struct {
		name     string
		ob       *domain.Obligation
		amount   int64
		wantErr  error
		wantPaid int64
	}{
		{name: "partial", ob: newObligation(50000, 0, domain.StatusPending), amount: 30000, wantPaid: 30000},
		{name: "completes", ob: newObligation(50000, 30000, domain.StatusPending), amount: 20000, wantPaid: 50000},
		{name: "overdue accepts payment", ob: newObligation(50000, 0, domain.StatusOverdue), amount: 10000, wantPaid: 10000},
		{name: "overpayment", ob: newObligation(50000, 0, domain.StatusPending), amount: 60000, wantErr: apperrors.ErrOverpayment, wantPaid: 0},
		{name: "already paid", ob: newObligation(50000, 50000, domain.StatusPaid), amount: 1, wantErr: apperrors.ErrOverpayment, wantPaid: 50000},
		{name: "zero amount", ob: newObligation(50000, 0, domain.StatusPending), amount: 0, wantErr: apperrors.ErrValidation, wantPaid: 0},
		{name: "negative amount", ob: newObligation(50000, 0, domain.StatusPending), amount: -5, wantErr: apperrors.ErrValidation, wantPaid: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ob.RegisterPayment(decimal.NewFromInt(tt.amount))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.True(t, decimal.NewFromInt(tt.wantPaid).Equal(tt.ob.PaidAmount), "paid amount %s", tt.ob.PaidAmount)
			assert.True(t, tt.ob.PaidAmount.LessThanOrEqual(tt.ob.Amount))
		})
	}
}

func TestObligation_IsPartiallyPaid(t *testing.T) {
	assert.False(t, newObligation(50000, 0, domain.StatusPending).IsPartiallyPaid())
	assert.True(t, newObligation(50000, 30000, domain.StatusPending).IsPartiallyPaid())
	assert.True(t, newObligation(50000, 30000, domain.StatusOverdue).IsPartiallyPaid())
	assert.False(t, newObligation(50000, 50000, domain.StatusPaid).IsPartiallyPaid())
}

func TestObligation_CanMarkOverdue(t *testing.T) {
	now := time.Date(2024, 3, 11, 0, 30, 0, 0, time.UTC)

	pending := newObligation(100, 0, domain.StatusPending)
	assert.True(t, pending.CanMarkOverdue(now))

	dueToday := newObligation(100, 0, domain.StatusPending)
	dueToday.DueDate = time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	assert.False(t, dueToday.CanMarkOverdue(now), "due today is not overdue yet")

	assert.False(t, newObligation(100, 100, domain.StatusPaid).CanMarkOverdue(now))
	assert.False(t, newObligation(100, 0, domain.StatusOverdue).CanMarkOverdue(now))
}

func TestObligation_ChangeAmount(t *testing.T) {
	ob := newObligation(50000, 30000, domain.StatusPending)

	assert.ErrorIs(t, ob.ChangeAmount(decimal.NewFromInt(-1)), apperrors.ErrValidation)
	assert.ErrorIs(t, ob.ChangeAmount(decimal.NewFromInt(29999)), apperrors.ErrValidation)
	assert.True(t, ob.Amount.Equal(decimal.NewFromInt(50000)))

	require.NoError(t, ob.ChangeAmount(decimal.NewFromInt(30000)))
	assert.True(t, ob.IsFullyCollected())
}

func TestObligation_SettleAndReopen(t *testing.T) {
	ob := newObligation(100000, 100000, domain.StatusPending)
	impact := domain.Impact{
		CommissionAmount: decimal.NewFromInt(10000),
		OwnerAmount:      decimal.NewFromInt(90000),
		OwnerImpact:      decimal.NewFromInt(90000),
		AgencyImpact:     decimal.NewFromInt(10000),
	}

	ob.Settle(decimal.RequireFromString("0.10"), impact)
	assert.Equal(t, domain.StatusPaid, ob.Status)
	assert.True(t, ob.PersistedImpact().Equal(impact))
	assert.NoError(t, ob.Validate())

	ob.Reopen()
	assert.Equal(t, domain.StatusPending, ob.Status)
	assert.True(t, ob.CommissionAmount.IsZero())
	assert.True(t, ob.OwnerImpact.IsZero())
}

func TestObligation_Validate(t *testing.T) {
	ob := newObligation(100, 0, domain.StatusPending)
	assert.NoError(t, ob.Validate())

	bad := newObligation(100, 101, domain.StatusPending)
	assert.ErrorIs(t, bad.Validate(), apperrors.ErrValidation)

	nonRent := newObligation(100, 0, domain.StatusPending)
	nonRent.Type = domain.ObligationMaintenance
	nonRent.CommissionAmount = decimal.NewFromInt(5)
	assert.ErrorIs(t, nonRent.Validate(), apperrors.ErrValidation)

	noContract := newObligation(100, 0, domain.StatusPending)
	noContract.ContractID = ""
	assert.ErrorIs(t, noContract.Validate(), apperrors.ErrValidation)
}

func TestLegacyPayment_Normalization(t *testing.T) {
	efectivo := "Efectivo"
	unknown := "cheque"
	tests := []struct {
		name       string
		lp         domain.LegacyPayment
		wantStatus domain.ObligationStatus
		wantMethod domain.PaymentMethod
		wantErr    bool
	}{
		{name: "spanish paid cash", lp: domain.LegacyPayment{Status: "pagado", Method: &efectivo}, wantStatus: domain.StatusPaid, wantMethod: domain.MethodCash},
		{name: "missing method defaults to transfer", lp: domain.LegacyPayment{Status: "paid"}, wantStatus: domain.StatusPaid, wantMethod: domain.MethodTransfer},
		{name: "overdue maps through", lp: domain.LegacyPayment{Status: "OVERDUE"}, wantStatus: domain.StatusOverdue, wantMethod: domain.MethodTransfer},
		{name: "unknown method", lp: domain.LegacyPayment{Status: "paid", Method: &unknown}, wantStatus: domain.StatusPaid, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := tt.lp.NormalizedStatus()
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, st)

			m, err := tt.lp.NormalizedMethod()
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMethod, m)
		})
	}

	_, err := (&domain.LegacyPayment{Status: "cancelado"}).NormalizedStatus()
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestFirstOfMonth(t *testing.T) {
	got := domain.FirstOfMonth(time.Date(2024, 3, 17, 15, 4, 5, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got)
}
