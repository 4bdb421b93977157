package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/property_ledger/internal/core/ports/services"
	"github.com/SscSPs/property_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type migrationHandler struct {
	migrationService portssvc.MigrationSvc
}

// registerMigrationRoutes registers the admin-only legacy migration trigger.
func registerMigrationRoutes(rg *gin.RouterGroup, ms portssvc.MigrationSvc) {
	h := &migrationHandler{migrationService: ms}

	admin := rg.Group("/admin", middleware.RequireRole(middleware.RoleAdmin))
	admin.POST("/legacy-migration", h.migrateLegacyPayments)
}

// migrateLegacyPayments godoc
// @Summary Migrate legacy payments
// @Description Converts rows of the legacy payments table into obligations. Already migrated rows are skipped, so the call can be repeated.
// @Tags admin
// @Produce  json
// @Success 200 {object} domain.MigrationResult
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 500 {object} dto.ErrorResponse "Failed to migrate legacy payments"
// @Security BearerAuth
// @Router /admin/legacy-migration [post]
func (h *migrationHandler) migrateLegacyPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to migrate legacy payments")

	result, err := h.migrationService.MigrateLegacyPayments(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "migrate legacy payments")
		return
	}

	logger.Info("Legacy migration finished",
		slog.Int("migrated", result.Migrated),
		slog.Int("payments_created", result.PaymentsCreated),
		slog.Int("skipped", result.Skipped),
		slog.Int("errors", len(result.Errors)))
	c.JSON(http.StatusOK, result)
}
