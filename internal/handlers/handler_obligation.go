package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/property_ledger/internal/core/ports/services"
	"github.com/SscSPs/property_ledger/internal/dto"
	"github.com/SscSPs/property_ledger/internal/middleware"
	"github.com/SscSPs/property_ledger/internal/utils/pagination"
	"github.com/gin-gonic/gin"
)

const defaultListLimit = 100

// obligationHandler handles HTTP requests related to obligations and their payments.
type obligationHandler struct {
	obligationService portssvc.ObligationSvcFacade
	paymentService    portssvc.PaymentSvc
	overdueService    portssvc.OverdueSvc
}

// newObligationHandler creates a new obligationHandler.
func newObligationHandler(os portssvc.ObligationSvcFacade, ps portssvc.PaymentSvc, ods portssvc.OverdueSvc) *obligationHandler {
	return &obligationHandler{
		obligationService: os,
		paymentService:    ps,
		overdueService:    ods,
	}
}

// registerObligationRoutes registers routes related to obligations.
func registerObligationRoutes(rg *gin.RouterGroup, os portssvc.ObligationSvcFacade, ps portssvc.PaymentSvc, ods portssvc.OverdueSvc) {
	h := newObligationHandler(os, ps, ods)

	obligations := rg.Group("/obligations")
	{
		obligations.POST("", h.createObligation)
		obligations.GET("", h.listObligations)
		obligations.POST("/overdue-sweep", h.markOverdue)
		obligations.GET("/:obligationID", h.getObligation)
		obligations.POST("/:obligationID/payments", h.applyPayment)
		obligations.POST("/:obligationID/recompute", h.recompute)
		obligations.PUT("/:obligationID/amount", h.adjustAmount)
	}
}

// createObligation godoc
// @Summary Create an obligation
// @Description Creates a charge against a contract for one period. Commission is only allowed on rent.
// @Tags obligations
// @Accept  json
// @Produce  json
// @Param   obligation body dto.CreateObligationRequest true "Obligation details"
// @Success 201 {object} dto.ObligationResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Contract not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to create obligation"
// @Security BearerAuth
// @Router /obligations [post]
func (h *obligationHandler) createObligation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateObligationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		unauthorized(c, logger)
		return
	}

	logger.Info("Received request to create obligation", slog.String("contract_id", req.ContractID), slog.String("type", req.Type), slog.String("period", req.Period))

	ob, err := h.obligationService.CreateObligation(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, logger, err, "create obligation")
		return
	}

	logger.Info("Obligation created successfully", slog.String("obligation_id", ob.ObligationID))
	c.JSON(http.StatusCreated, dto.ToObligationResponse(ob))
}

// getObligation godoc
// @Summary Get an obligation
// @Description Retrieves an obligation with its payment history
// @Tags obligations
// @Produce  json
// @Param   obligationID path string true "Obligation ID"
// @Success 200 {object} dto.ObligationResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Obligation not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve obligation"
// @Security BearerAuth
// @Router /obligations/{obligationID} [get]
func (h *obligationHandler) getObligation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	obligationID := c.Param("obligationID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		unauthorized(c, logger)
		return
	}

	ob, err := h.obligationService.GetObligation(c.Request.Context(), userID, obligationID)
	if err != nil {
		respondError(c, logger.With(slog.String("obligation_id", obligationID)), err, "retrieve obligation")
		return
	}

	c.JSON(http.StatusOK, dto.ToObligationResponse(ob))
}

// listObligations godoc
// @Summary List obligations
// @Description Lists obligations of the agency ordered by period and due date
// @Tags obligations
// @Produce  json
// @Param   contractID query string false "Contract ID"
// @Param   apartmentID query string false "Apartment ID"
// @Param   ownerID query string false "Owner ID"
// @Param   type query string false "Obligation type" Enums(rent, expenses, maintenance, tax, service)
// @Param   status query string false "Status" Enums(pending, overdue, paid)
// @Param   periodFrom query string false "First period (YYYY-MM)"
// @Param   periodTo query string false "Last period (YYYY-MM)"
// @Param   limit query int false "Page size" default(100)
// @Param   offset query int false "Offset"
// @Param   pageToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListObligationsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to list obligations"
// @Security BearerAuth
// @Router /obligations [get]
func (h *obligationHandler) listObligations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListObligationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, err)
		return
	}
	if params.Limit == 0 {
		params.Limit = defaultListLimit
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		unauthorized(c, logger)
		return
	}

	obligations, err := h.obligationService.ListObligations(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, logger, err, "list obligations")
		return
	}

	resp := dto.ListObligationsResponse{
		Obligations: dto.ToObligationResponses(obligations),
		Limit:       params.Limit,
		Offset:      params.Offset,
	}
	if len(obligations) == params.Limit {
		last := obligations[len(obligations)-1]
		token := pagination.EncodeObligationCursor(last.Period, last.DueDate, last.ObligationID)
		resp.NextToken = &token
	}
	c.JSON(http.StatusOK, resp)
}

// applyPayment godoc
// @Summary Record a payment
// @Description Applies one payment to an obligation. Payments above the outstanding amount are rejected.
// @Tags obligations
// @Accept  json
// @Produce  json
// @Param   obligationID path string true "Obligation ID"
// @Param   payment body dto.ApplyPaymentRequest true "Payment details"
// @Success 201 {object} dto.ObligationResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Obligation not found"
// @Failure 409 {object} dto.ErrorResponse "Concurrent modification, retry"
// @Failure 422 {object} dto.ErrorResponse "Payment exceeds outstanding amount"
// @Failure 500 {object} dto.ErrorResponse "Failed to apply payment"
// @Security BearerAuth
// @Router /obligations/{obligationID}/payments [post]
func (h *obligationHandler) applyPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	obligationID := c.Param("obligationID")
	var req dto.ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		unauthorized(c, logger)
		return
	}

	logger = logger.With(slog.String("obligation_id", obligationID))
	logger.Info("Received payment", slog.String("amount", req.Amount.String()), slog.String("method", req.Method))

	ob, err := h.paymentService.ApplyPayment(c.Request.Context(), userID, obligationID, req)
	if err != nil {
		respondError(c, logger, err, "apply payment")
		return
	}

	logger.Info("Payment applied", slog.String("status", string(ob.Status)), slog.String("paid_amount", ob.PaidAmount.String()))
	c.JSON(http.StatusCreated, dto.ToObligationResponse(ob))
}

// recompute godoc
// @Summary Recompute an obligation
// @Description Re-evaluates status and impacts from the stored amounts. Idempotent.
// @Tags obligations
// @Produce  json
// @Param   obligationID path string true "Obligation ID"
// @Success 200 {object} dto.ObligationResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Obligation not found"
// @Failure 409 {object} dto.ErrorResponse "Concurrent modification, retry"
// @Failure 500 {object} dto.ErrorResponse "Failed to recompute obligation"
// @Security BearerAuth
// @Router /obligations/{obligationID}/recompute [post]
func (h *obligationHandler) recompute(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	obligationID := c.Param("obligationID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		unauthorized(c, logger)
		return
	}

	ob, err := h.obligationService.Recompute(c.Request.Context(), userID, obligationID)
	if err != nil {
		respondError(c, logger.With(slog.String("obligation_id", obligationID)), err, "recompute obligation")
		return
	}

	c.JSON(http.StatusOK, dto.ToObligationResponse(ob))
}

// adjustAmount godoc
// @Summary Adjust an obligation amount
// @Description Changes the total owed and recomputes status in the same transaction. The new amount may not be below what was paid.
// @Tags obligations
// @Accept  json
// @Produce  json
// @Param   obligationID path string true "Obligation ID"
// @Param   adjustment body dto.AdjustAmountRequest true "New amount"
// @Success 200 {object} dto.ObligationResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Obligation not found"
// @Failure 409 {object} dto.ErrorResponse "Concurrent modification, retry"
// @Failure 500 {object} dto.ErrorResponse "Failed to adjust obligation"
// @Security BearerAuth
// @Router /obligations/{obligationID}/amount [put]
func (h *obligationHandler) adjustAmount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	obligationID := c.Param("obligationID")
	var req dto.AdjustAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		unauthorized(c, logger)
		return
	}

	logger = logger.With(slog.String("obligation_id", obligationID))
	logger.Info("Received amount adjustment", slog.String("amount", req.Amount.String()))

	ob, err := h.obligationService.AdjustAmount(c.Request.Context(), userID, obligationID, req)
	if err != nil {
		respondError(c, logger, err, "adjust obligation")
		return
	}

	c.JSON(http.StatusOK, dto.ToObligationResponse(ob))
}

// markOverdue godoc
// @Summary Run the overdue sweep
// @Description Marks the agency's pending obligations past their due date as overdue
// @Tags obligations
// @Produce  json
// @Success 200 {object} dto.MarkOverdueResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to mark obligations overdue"
// @Security BearerAuth
// @Router /obligations/overdue-sweep [post]
func (h *obligationHandler) markOverdue(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		unauthorized(c, logger)
		return
	}

	count, err := h.overdueService.MarkOverdue(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "mark obligations overdue")
		return
	}

	logger.Info("Overdue sweep finished", slog.Int64("count", count))
	c.JSON(http.StatusOK, dto.MarkOverdueResponse{Count: count})
}
