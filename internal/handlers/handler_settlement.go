package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/property_ledger/internal/core/ports/services"
	"github.com/SscSPs/property_ledger/internal/dto"
	"github.com/SscSPs/property_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type settlementHandler struct {
	settlementService portssvc.SettlementSvc
}

func newSettlementHandler(ss portssvc.SettlementSvc) *settlementHandler {
	return &settlementHandler{settlementService: ss}
}

// registerSettlementRoutes registers the settlement statement route.
func registerSettlementRoutes(rg *gin.RouterGroup, ss portssvc.SettlementSvc) {
	h := newSettlementHandler(ss)
	rg.GET("/settlements", h.getSettlement)
}

// getSettlement godoc
// @Summary Owner settlement statement
// @Description Aggregates collected amounts, adjustments, commissions and arrears for a period range, with per-owner, per-apartment and monthly breakdowns
// @Tags settlements
// @Produce  json
// @Param   periodFrom query string true "First period (YYYY-MM)"
// @Param   periodTo query string true "Last period (YYYY-MM)"
// @Param   ownerID query string false "Restrict to one owner"
// @Param   apartmentID query string false "Restrict to one apartment"
// @Success 200 {object} domain.SettlementSummary
// @Failure 400 {object} dto.ErrorResponse "Invalid period range"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to build settlement"
// @Security BearerAuth
// @Router /settlements [get]
func (h *settlementHandler) getSettlement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.SettlementParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		unauthorized(c, logger)
		return
	}

	logger = logger.With(slog.String("period_from", params.PeriodFrom), slog.String("period_to", params.PeriodTo))
	summary, err := h.settlementService.AggregateSettlement(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, logger, err, "build settlement")
		return
	}

	c.JSON(http.StatusOK, summary)
}
