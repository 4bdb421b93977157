package domain

import "github.com/shopspring/decimal"

// ContractTerms is the read-only slice of a contract the ledger needs:
// where it routes money and what commission the agency takes.
type ContractTerms struct {
	ContractID           string           `json:"contractID"`
	UserID               string           `json:"userID"`
	ApartmentID          *string          `json:"apartmentID"`
	OwnerID              string           `json:"ownerID"`
	CommissionPercentage *decimal.Decimal `json:"commissionPercentage"` // Fraction 0-1, nil when the contract does not override
}

// Owner is the read-only view of a property owner.
type Owner struct {
	OwnerID              string           `json:"ownerID"`
	UserID               string           `json:"userID"`
	CommissionPercentage *decimal.Decimal `json:"commissionPercentage"` // Fraction 0-1, default for the owner's contracts
	Balance              decimal.Decimal  `json:"balance"`
}
