package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/storefront-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
	errorResponder
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, errs errorResponder) *DashboardHandler {
	return &DashboardHandler{uc: uc, errorResponder: errs}
}

// GetStats devuelve los indicadores de la tienda.
// GET /api/dashboard/stats
//
// Respuesta: DashboardStatsDTO (totalRevenue, monthlyRevenue, totalOrders, pendingOrders,
// totalCustomers, activeProducts, ordersByStatus, recentOrders[5], monthLabel).
//
// @Summary      Estadísticas del dashboard
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardStatsDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/dashboard/stats [get]
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.uc.GetStats(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(stats)
}
