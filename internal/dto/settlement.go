package dto

// SettlementParams defines the query parameters of a settlement statement.
type SettlementParams struct {
	PeriodFrom  string `form:"periodFrom" binding:"required"` // YYYY-MM or YYYY-MM-DD
	PeriodTo    string `form:"periodTo" binding:"required"`
	OwnerID     string `form:"ownerID"`
	ApartmentID string `form:"apartmentID"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`   // validation_error, not_found, overpayment, ...
	Message string `json:"message"` // human-readable reason
}
