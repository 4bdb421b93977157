package dto

import (
	"time"

	"github.com/SscSPs/property_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// CreateObligationRequest defines the data needed to create an obligation.
type CreateObligationRequest struct {
	ContractID  string           `json:"contractID" binding:"required"`
	Type        string           `json:"type" binding:"required,oneof=rent expenses maintenance tax service"`
	Description string           `json:"description" binding:"max=500"`
	Period      string           `json:"period" binding:"required"`                      // YYYY-MM or YYYY-MM-DD
	DueDate     string           `json:"dueDate" binding:"required,datetime=2006-01-02"` // YYYY-MM-DD
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	Notes       string           `json:"notes" binding:"max=2000"`
}

// ApplyPaymentRequest defines one payment event against an obligation.
type ApplyPaymentRequest struct {
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate string           `json:"paymentDate" binding:"required,datetime=2006-01-02"`
	Method      string           `json:"method" binding:"required,oneof=transfer cash card gateway"`
	Reference   *string          `json:"reference,omitempty" binding:"omitempty,max=200"`
	Notes       string           `json:"notes" binding:"max=2000"`
}

// AdjustAmountRequest defines a manual correction of an obligation total.
type AdjustAmountRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"required"`
	Notes  *string          `json:"notes,omitempty" binding:"omitempty,max=2000"`
}

// ListObligationsParams defines the query parameters for listing obligations.
type ListObligationsParams struct {
	ContractID  string `form:"contractID"`
	ApartmentID string `form:"apartmentID"`
	OwnerID     string `form:"ownerID"`
	Type        string `form:"type" binding:"omitempty,oneof=rent expenses maintenance tax service"`
	Status      string `form:"status" binding:"omitempty,oneof=pending overdue paid"`
	PeriodFrom  string `form:"periodFrom"` // YYYY-MM or YYYY-MM-DD
	PeriodTo    string `form:"periodTo"`
	Limit       int    `form:"limit" binding:"omitempty,min=1,max=500"`
	Offset      int    `form:"offset" binding:"omitempty,min=0"`
	PageToken   string `form:"pageToken"` // nextToken of the previous page; replaces offset
}

// ObligationPaymentResponse defines the data returned for a payment.
type ObligationPaymentResponse struct {
	PaymentID   string          `json:"paymentID"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate string          `json:"paymentDate"`
	Method      string          `json:"method"`
	Reference   *string         `json:"reference,omitempty"`
	Notes       string          `json:"notes"`
	CreatedAt   time.Time       `json:"createdAt"`
	CreatedBy   string          `json:"createdBy"`
}

// ObligationResponse defines the data returned for an obligation.
type ObligationResponse struct {
	ObligationID     string                      `json:"obligationID"`
	ContractID       string                      `json:"contractID"`
	ApartmentID      *string                     `json:"apartmentID"`
	OwnerID          string                      `json:"ownerID"`
	Type             string                      `json:"type"`
	Description      string                      `json:"description"`
	Period           string                      `json:"period"`
	DueDate          string                      `json:"dueDate"`
	Amount           decimal.Decimal             `json:"amount"`
	PaidAmount       decimal.Decimal             `json:"paidAmount"`
	Outstanding      decimal.Decimal             `json:"outstanding"`
	PartiallyPaid    bool                        `json:"partiallyPaid"`
	CommissionRate   decimal.Decimal             `json:"commissionRate"`
	CommissionAmount decimal.Decimal             `json:"commissionAmount"`
	OwnerAmount      decimal.Decimal             `json:"ownerAmount"`
	OwnerImpact      decimal.Decimal             `json:"ownerImpact"`
	AgencyImpact     decimal.Decimal             `json:"agencyImpact"`
	Status           string                      `json:"status"`
	Notes            string                      `json:"notes"`
	LegacyPaymentID  *string                     `json:"legacyPaymentID,omitempty"`
	Version          int64                       `json:"version"`
	CreatedAt        time.Time                   `json:"createdAt"`
	CreatedBy        string                      `json:"createdBy"`
	LastUpdatedAt    time.Time                   `json:"lastUpdatedAt"`
	LastUpdatedBy    string                      `json:"lastUpdatedBy"`
	Payments         []ObligationPaymentResponse `json:"payments,omitempty"`
}

// ListObligationsResponse wraps a page of obligations.
type ListObligationsResponse struct {
	Obligations []ObligationResponse `json:"obligations"`
	Limit       int                  `json:"limit"`
	Offset      int                  `json:"offset"`
	NextToken   *string              `json:"nextToken,omitempty"`
}

// MarkOverdueResponse reports how many obligations a sweep transitioned.
type MarkOverdueResponse struct {
	Count int64 `json:"count"`
}

// ToObligationPaymentResponse converts a domain.ObligationPayment to its response DTO.
func ToObligationPaymentResponse(p *domain.ObligationPayment) ObligationPaymentResponse {
	return ObligationPaymentResponse{
		PaymentID:   p.PaymentID,
		Amount:      p.Amount,
		PaymentDate: p.PaymentDate.Format(DateLayout),
		Method:      string(p.Method),
		Reference:   p.Reference,
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
		CreatedBy:   p.CreatedBy,
	}
}

// ToObligationResponse converts a domain.Obligation to ObligationResponse DTO.
func ToObligationResponse(o *domain.Obligation) ObligationResponse {
	resp := ObligationResponse{
		ObligationID:     o.ObligationID,
		ContractID:       o.ContractID,
		ApartmentID:      o.ApartmentID,
		OwnerID:          o.OwnerID,
		Type:             string(o.Type),
		Description:      o.Description,
		Period:           o.Period.Format(domain.SettlementPeriodLayout),
		DueDate:          o.DueDate.Format(DateLayout),
		Amount:           o.Amount,
		PaidAmount:       o.PaidAmount,
		Outstanding:      o.Outstanding(),
		PartiallyPaid:    o.IsPartiallyPaid(),
		CommissionRate:   o.CommissionRate,
		CommissionAmount: o.CommissionAmount,
		OwnerAmount:      o.OwnerAmount,
		OwnerImpact:      o.OwnerImpact,
		AgencyImpact:     o.AgencyImpact,
		Status:           string(o.Status),
		Notes:            o.Notes,
		LegacyPaymentID:  o.LegacyPaymentID,
		Version:          o.Version,
		CreatedAt:        o.CreatedAt,
		CreatedBy:        o.CreatedBy,
		LastUpdatedAt:    o.LastUpdatedAt,
		LastUpdatedBy:    o.LastUpdatedBy,
	}
	if len(o.Payments) > 0 {
		resp.Payments = make([]ObligationPaymentResponse, len(o.Payments))
		for i := range o.Payments {
			resp.Payments[i] = ToObligationPaymentResponse(&o.Payments[i])
		}
	}
	return resp
}

// ToObligationResponses converts a slice of domain.Obligation to []ObligationResponse.
func ToObligationResponses(obligations []domain.Obligation) []ObligationResponse {
	responses := make([]ObligationResponse, len(obligations))
	for i := range obligations {
		responses[i] = ToObligationResponse(&obligations[i])
	}
	return responses
}
