package mapping

import (
	"strings"

	"github.com/SscSPs/property_ledger/internal/core/domain"
	"github.com/SscSPs/property_ledger/internal/models"
)

// ToModelObligation converts a domain Obligation to a model Obligation
func ToModelObligation(d domain.Obligation) models.Obligation {
	return models.Obligation{
		ObligationID:     d.ObligationID,
		UserID:           d.UserID,
		ContractID:       d.ContractID,
		ApartmentID:      d.ApartmentID,
		OwnerID:          d.OwnerID,
		ObligationType:   string(d.Type),
		Description:      d.Description,
		Period:           domain.FirstOfMonth(d.Period),
		DueDate:          domain.DateOnly(d.DueDate),
		Amount:           d.Amount,
		PaidAmount:       d.PaidAmount,
		CommissionRate:   d.CommissionRate,
		CommissionAmount: d.CommissionAmount,
		OwnerAmount:      d.OwnerAmount,
		OwnerImpact:      d.OwnerImpact,
		AgencyImpact:     d.AgencyImpact,
		Status:           string(d.Status),
		Notes:            d.Notes,
		LegacyPaymentID:  d.LegacyPaymentID,
		Version:          d.Version,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainObligation converts a model Obligation to a domain Obligation
func ToDomainObligation(m models.Obligation) domain.Obligation {
	return domain.Obligation{
		ObligationID:     m.ObligationID,
		UserID:           m.UserID,
		ContractID:       m.ContractID,
		ApartmentID:      m.ApartmentID,
		OwnerID:          m.OwnerID,
		Type:             domain.ObligationType(m.ObligationType),
		Description:      m.Description,
		Period:           domain.FirstOfMonth(m.Period),
		DueDate:          domain.DateOnly(m.DueDate),
		Amount:           m.Amount,
		PaidAmount:       m.PaidAmount,
		CommissionRate:   m.CommissionRate,
		CommissionAmount: m.CommissionAmount,
		OwnerAmount:      m.OwnerAmount,
		OwnerImpact:      m.OwnerImpact,
		AgencyImpact:     m.AgencyImpact,
		Status:           domain.ObligationStatus(m.Status),
		Notes:            m.Notes,
		LegacyPaymentID:  m.LegacyPaymentID,
		Version:          m.Version,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelObligationPayment converts a domain ObligationPayment to a model ObligationPayment
func ToModelObligationPayment(d domain.ObligationPayment) models.ObligationPayment {
	return models.ObligationPayment{
		PaymentID:    d.PaymentID,
		UserID:       d.UserID,
		ObligationID: d.ObligationID,
		Amount:       d.Amount,
		PaymentDate:  domain.DateOnly(d.PaymentDate),
		Method:       string(d.Method),
		Reference:    d.Reference,
		Notes:        d.Notes,
		CreatedAt:    d.CreatedAt,
		CreatedBy:    d.CreatedBy,
	}
}

// ToDomainObligationPayment converts a model ObligationPayment to a domain ObligationPayment
func ToDomainObligationPayment(m models.ObligationPayment) domain.ObligationPayment {
	return domain.ObligationPayment{
		PaymentID:    m.PaymentID,
		UserID:       m.UserID,
		ObligationID: m.ObligationID,
		Amount:       m.Amount,
		PaymentDate:  domain.DateOnly(m.PaymentDate),
		Method:       domain.PaymentMethod(m.Method),
		Reference:    m.Reference,
		Notes:        m.Notes,
		CreatedAt:    m.CreatedAt,
		CreatedBy:    m.CreatedBy,
	}
}

// ToDomainLegacyPayment converts a row of the legacy payments table. Notes are trimmed.
func ToDomainLegacyPayment(m models.LegacyPayment) domain.LegacyPayment {
	lp := domain.LegacyPayment{
		ID:          m.PaymentID,
		UserID:      m.UserID,
		ApartmentID: m.ApartmentID,
		Amount:      m.Amount,
		Status:      m.Status,
		Method:      m.Method,
	}
	if m.ContractID != nil {
		lp.ContractID = *m.ContractID
	}
	if m.Month != nil {
		lp.Month = domain.DateOnly(*m.Month)
	}
	if m.PaymentDate != nil {
		d := domain.DateOnly(*m.PaymentDate)
		lp.PaymentDate = &d
	}
	if m.Notes != nil {
		lp.Notes = strings.TrimSpace(*m.Notes)
	}
	return lp
}
