package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/amancio-obras/estoque-obras/internal/application/analytics"
	"github.com/amancio-obras/estoque-obras/pkg/logger"
)

// DashboardHandler painel de indicadores.
type DashboardHandler struct {
	uc  *analytics.DashboardUseCase
	log *logger.Logger
}

// NewDashboardHandler constrói o handler do painel.
func NewDashboardHandler(uc *analytics.DashboardUseCase, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{uc: uc, log: log}
}

// GetSummary godoc
// @Summary      Resumo do painel
// @Description  Itens cadastrados, movimentações, itens com saldo baixo, valor total e série Descrição × Saldo.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dto.DashboardDTO
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/dashboard [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	out, err := h.uc.GetSummary(c.Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
