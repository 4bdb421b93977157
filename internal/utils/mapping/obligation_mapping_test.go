package mapping_test

import (
	"testing"
	"time"

	"github.com/SscSPs/property_ledger/internal/core/domain"
	"github.com/SscSPs/property_ledger/internal/models"
	"github.com/SscSPs/property_ledger/internal/utils/mapping"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToModelObligation_NormalizesDates(t *testing.T) {
	ob := domain.Obligation{
		ObligationID: "ob-1",
		Type:         domain.ObligationRent,
		Period:       time.Date(2024, 3, 17, 15, 4, 5, 0, time.UTC),
		DueDate:      time.Date(2024, 4, 5, 23, 59, 0, 0, time.UTC),
		Amount:       decimal.NewFromInt(100),
		Status:       domain.StatusPending,
		Version:      3,
		AuditFields:  domain.AuditFields{CreatedBy: "agency-1", LastUpdatedBy: "agency-1"},
	}

	m := mapping.ToModelObligation(ob)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), m.Period)
	assert.Equal(t, time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC), m.DueDate)
	assert.Equal(t, "rent", m.ObligationType)
	assert.Equal(t, "agency-1", m.CreatedBy)

	back := mapping.ToDomainObligation(m)
	assert.Equal(t, domain.ObligationRent, back.Type)
	assert.Equal(t, int64(3), back.Version)
	assert.Equal(t, "agency-1", back.LastUpdatedBy)
}

func TestToDomainLegacyPayment(t *testing.T) {
	contract := "contract-1"
	month := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	paid := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	notes := "  paid at the office \n"

	lp := mapping.ToDomainLegacyPayment(models.LegacyPayment{
		PaymentID:   "legacy-1",
		UserID:      "agency-1",
		ContractID:  &contract,
		Amount:      decimal.NewFromInt(450000),
		Month:       &month,
		Status:      "pagado",
		PaymentDate: &paid,
		Notes:       &notes,
	})

	assert.Equal(t, "legacy-1", lp.ID)
	assert.Equal(t, "contract-1", lp.ContractID)
	assert.Equal(t, month, lp.Month)
	require.NotNil(t, lp.PaymentDate)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), *lp.PaymentDate)
	assert.Equal(t, "paid at the office", lp.Notes)
}

func TestToDomainLegacyPayment_NullColumns(t *testing.T) {
	lp := mapping.ToDomainLegacyPayment(models.LegacyPayment{PaymentID: "legacy-2", Status: "pendiente"})

	assert.Empty(t, lp.ContractID)
	assert.True(t, lp.Month.IsZero())
	assert.Nil(t, lp.PaymentDate)
	assert.Empty(t, lp.Notes)
}
